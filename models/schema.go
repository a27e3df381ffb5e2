package models

// The raw dashboard table has a fixed column layout: three identity columns
// followed by, for each funnel stage in order, a subtotal column and one
// column per program tracked at that stage. Signups are only tracked for
// outgoing programs on the dashboard. The schema is declared here as an
// explicit ordered list and validated at ingestion instead of being renamed
// positionally at each transformation step.

// StageNames lists the seven funnel stages in funnel order.
var StageNames = []string{
	"Signups", "Applicants", "Accepted", "Approved", "Realized", "Finished", "Completed",
}

// IdentityColumns are the leading non-numeric columns of every table.
var IdentityColumns = []string{"Country_Name", "Country_Region", "LC_name"}

// signupPrograms are the programs with a signups column in the raw table.
var signupPrograms = []Program{OGV, OGTa, OGTe}

// stagePrograms are the programs tracked for every stage past signups.
var stagePrograms = []Program{IGV, IGTa, IGTe, OGV, OGTa, OGTe}

// RawColumns returns the canonical raw-table column names in order.
func RawColumns() []string {
	cols := make([]string, 0, len(IdentityColumns)+1+len(signupPrograms)+6*(1+len(stagePrograms)))
	cols = append(cols, IdentityColumns...)
	for _, stage := range StageNames {
		cols = append(cols, "Total "+stage)
		progs := stagePrograms
		if stage == "Signups" {
			progs = signupPrograms
		}
		for _, p := range progs {
			cols = append(cols, stage+" "+string(p))
		}
	}
	return cols
}

// RawColumnIndex maps each canonical column name to its position.
func RawColumnIndex() map[string]int {
	cols := RawColumns()
	idx := make(map[string]int, len(cols))
	for i, c := range cols {
		idx[c] = i
	}
	return idx
}

// LCNameIndex is the position of the LC-name cell, which doubles as the
// closure indicator: the dashboard renders markers like "[Closed]" in place
// of a name for closed LCs.
const LCNameIndex = 2
