package services

import "fmt"

// SchemaMismatchError reports a raw table whose column layout does not match
// the fixed dashboard schema. It is fatal for that table; the caller decides
// whether to skip the country or abort the run.
type SchemaMismatchError struct {
	Country string
	Row     int
	Want    int
	Got     int
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch for %q: row %d has %d columns, expected %d",
		e.Country, e.Row, e.Got, e.Want)
}

// InvalidCountError reports a funnel-count cell that cannot be coerced to an
// integer. Like SchemaMismatchError it is fatal for the whole table.
type InvalidCountError struct {
	Country string
	Row     int
	Column  string
	Value   string
}

func (e *InvalidCountError) Error() string {
	return fmt.Sprintf("invalid count for %q: row %d column %q: %q is not an integer",
		e.Country, e.Row, e.Column, e.Value)
}
