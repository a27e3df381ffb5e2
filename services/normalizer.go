package services

import (
	"strconv"
	"strings"

	"expa-scraper/models"
	"expa-scraper/utils"
)

// closedMarkers are the exact strings the dashboard renders in the LC-name
// cell for closed LCs. Matching is literal; only these variants count.
var closedMarkers = map[string]struct{}{
	"[Closed]":           {},
	"Closed":             {},
	"(Closed)":           {},
	"closed":             {},
	"CLOSED":             {},
	"(Closed Expansion)": {},
	"-":                  {},
	".":                  {},
}

// Normalizer reshapes one country's raw wide table into long funnel records,
// one per surviving LC per program.
type Normalizer struct {
	logger *utils.Logger
	cols   []string
	index  map[string]int
}

// NewNormalizer creates a Normalizer with the given logger.
func NewNormalizer(logger *utils.Logger) *Normalizer {
	return &Normalizer{
		logger: logger,
		cols:   models.RawColumns(),
		index:  models.RawColumnIndex(),
	}
}

// Normalize validates the table against the fixed schema, drops closed LCs,
// coerces every count cell to an integer and pivots the per-program column
// groups into long records. Output length is 6 × (surviving rows); program
// blocks appear in models.Programs order, original row order within each.
//
// Schema and count violations are table-fatal and return with no output;
// filtered rows are the only rows ever dropped, and each drop is logged.
func (n *Normalizer) Normalize(raw models.RawTable) ([]models.FunnelRecord, error) {
	parsed, err := n.parseRows(raw)
	if err != nil {
		return nil, err
	}

	records := make([]models.FunnelRecord, 0, len(parsed)*len(models.Programs))
	for _, program := range models.Programs {
		for _, row := range parsed {
			records = append(records, models.FunnelRecord{
				CountryName:   row.countryName,
				CountryRegion: row.countryRegion,
				LCName:        row.lcName,
				Program:       program,
				Counts:        row.programCounts(n.index, program),
			})
		}
	}

	n.logger.Info("[normalizer] %s: %d raw rows -> %d surviving LCs -> %d records",
		raw.CountryName, len(raw.Rows), len(parsed), len(records))
	return records, nil
}

type parsedRow struct {
	countryName   string
	countryRegion string
	lcName        string
	counts        []int64 // count cells in schema order, identity columns excluded
}

// programCounts projects one program's seven stage columns out of the wide
// row. Incoming programs have no signups column; their value is fixed at 0.
func (r parsedRow) programCounts(index map[string]int, p models.Program) models.StageCounts {
	identity := len(models.IdentityColumns)
	at := func(col string) int64 {
		return r.counts[index[col]-identity]
	}

	var signups int64
	if !p.Incoming() {
		signups = at("Signups " + string(p))
	}
	return models.StageCounts{
		Signups:    signups,
		Applicants: at("Applicants " + string(p)),
		Accepted:   at("Accepted " + string(p)),
		Approved:   at("Approved " + string(p)),
		Realized:   at("Realized " + string(p)),
		Finished:   at("Finished " + string(p)),
		Completed:  at("Completed " + string(p)),
	}
}

func (n *Normalizer) parseRows(raw models.RawTable) ([]parsedRow, error) {
	identity := len(models.IdentityColumns)
	rows := make([]parsedRow, 0, len(raw.Rows))

	for i, cells := range raw.Rows {
		if len(cells) != len(n.cols) {
			return nil, &SchemaMismatchError{
				Country: raw.CountryName,
				Row:     i,
				Want:    len(n.cols),
				Got:     len(cells),
			}
		}

		lcName := cells[models.LCNameIndex]
		if _, closed := closedMarkers[lcName]; closed {
			n.logger.Debug("[normalizer] %s: dropping closed LC row %d (%q)",
				raw.CountryName, i, lcName)
			continue
		}

		counts := make([]int64, len(cells)-identity)
		for j, cell := range cells[identity:] {
			v, err := strconv.ParseInt(strings.TrimSpace(cell), 10, 64)
			if err != nil {
				return nil, &InvalidCountError{
					Country: raw.CountryName,
					Row:     i,
					Column:  n.cols[identity+j],
					Value:   cell,
				}
			}
			counts[j] = v
		}

		row := parsedRow{
			countryName:   cells[0],
			countryRegion: cells[1],
			lcName:        lcName,
			counts:        counts,
		}
		n.checkTotals(raw.CountryName, i, row)
		rows = append(rows, row)
	}

	return rows, nil
}

// checkTotals verifies each stage subtotal against the sum of its program
// columns. The subtotals are discarded either way; a mismatch is logged and
// the per-program columns are trusted.
func (n *Normalizer) checkTotals(country string, rowIdx int, row parsedRow) {
	identity := len(models.IdentityColumns)
	for _, stage := range models.StageNames {
		total := row.counts[n.index["Total "+stage]-identity]

		var sum int64
		for _, p := range models.Programs {
			col := stage + " " + string(p)
			if idx, ok := n.index[col]; ok {
				sum += row.counts[idx-identity]
			}
		}
		if sum != total {
			n.logger.Warn("[normalizer] %s: row %d %q subtotal %d != program sum %d, trusting program columns",
				country, rowIdx, stage, total, sum)
		}
	}
}
