package models

// Program is one of the six AIESEC membership-experience types.
type Program string

const (
	IGV  Program = "IGV"
	IGTa Program = "IGTa"
	IGTe Program = "IGTe"
	OGV  Program = "OGV"
	OGTa Program = "OGTa"
	OGTe Program = "OGTe"
)

// Programs lists every program in output order. The order is part of the
// output contract: long-table rows are emitted program by program in this
// sequence.
var Programs = []Program{IGV, IGTa, IGTe, OGV, OGTa, OGTe}

// Incoming reports whether the program is an incoming type. Incoming
// programs have no signup stage; their signup count is always 0.
func (p Program) Incoming() bool {
	return len(p) > 0 && p[0] == 'I'
}

// Country is one entry of the country catalog used to drive scraping.
type Country struct {
	ID     int
	Name   string
	Region string
}

// RawTable is one country's scraped dashboard table: one row per LC, with
// the country name and region already joined in as the first two cells.
// Rows must match the fixed raw schema (see schema.go).
type RawTable struct {
	CountryName   string
	CountryRegion string
	Rows          [][]string
}

// StageCounts holds the seven funnel-stage counts in funnel order.
type StageCounts struct {
	Signups    int64
	Applicants int64
	Accepted   int64
	Approved   int64
	Realized   int64
	Finished   int64
	Completed  int64
}

// Add accumulates other into c field by field.
func (c *StageCounts) Add(other StageCounts) {
	c.Signups += other.Signups
	c.Applicants += other.Applicants
	c.Accepted += other.Accepted
	c.Approved += other.Approved
	c.Realized += other.Realized
	c.Finished += other.Finished
	c.Completed += other.Completed
}

// FunnelRecord is one normalized row: one LC, one program.
type FunnelRecord struct {
	CountryName   string
	CountryRegion string
	LCName        string
	Program       Program
	Counts        StageCounts
}

// AggregatedRecord has the same shape as FunnelRecord after duplicate
// identity keys have been summed, plus the run date. After aggregation the
// (country, region, LC, program) key is unique.
type AggregatedRecord struct {
	CountryName   string
	CountryRegion string
	LCName        string
	Program       Program
	Counts        StageCounts
	Date          string // YYYY-MM-DD, identical for every row of a run
}

// ConversionRecord carries the six stage-to-stage conversion percentages
// for one aggregated row. Each value is a percentage of the immediately
// preceding funnel stage; a zero denominator yields 0 by convention.
type ConversionRecord struct {
	CountryName   string
	CountryRegion string
	LCName        string
	Program       Program
	Date          string

	CRApSu  float64 // Applicants / Signups
	CRAcAp  float64 // Accepted / Applicants
	CRApdAc float64 // Approved / Accepted
	CRReApd float64 // Realized / Approved
	CRFiRe  float64 // Finished / Realized
	CRCoFi  float64 // Completed / Finished
}

// FunnelReport holds the computed post-run insights over the aggregated
// funnel table.
type FunnelReport struct {
	TotalLCs        int
	TotalRecords    int
	Totals          StageCounts
	TotalsByRegion  map[string]StageCounts
	TopRealizedLCs  []AggregatedRecord
	ProgramApproved map[Program]int64
	ProgramRealized map[Program]int64
}
