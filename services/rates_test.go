package services

import (
	"math"
	"testing"

	"expa-scraper/models"
)

func aggRecord(lc string, p models.Program, counts models.StageCounts) models.AggregatedRecord {
	return models.AggregatedRecord{
		CountryName:   "Chile",
		CountryRegion: "LAC",
		LCName:        lc,
		Program:       p,
		Counts:        counts,
		Date:          "2026-08-24",
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestComputeScenario(t *testing.T) {
	c := NewRateCalculator(newTestLogger())

	out := c.Compute([]models.AggregatedRecord{
		aggRecord("LC25", models.OGV, models.StageCounts{
			Signups: 20, Applicants: 10, Accepted: 5, Approved: 4,
			Realized: 3, Finished: 2, Completed: 1,
		}),
	})
	if len(out) != 1 {
		t.Fatalf("got %d rows, want 1", len(out))
	}

	r := out[0]
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"CR_AP_SU", r.CRApSu, 50.0},
		{"CR_AC_AP", r.CRAcAp, 50.0},
		{"CR_APD_AC", r.CRApdAc, 80.0},
		{"CR_RE_APD", r.CRReApd, 75.0},
		{"CR_FI_RE", r.CRFiRe, 200.0 / 3.0},
		{"CR_CO_FI", r.CRCoFi, 50.0},
	}
	for _, tc := range checks {
		if !almostEqual(tc.got, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, tc.got, tc.want)
		}
	}
	if r.LCName != "LC25" || r.Program != models.OGV || r.Date != "2026-08-24" {
		t.Errorf("identity not preserved: %+v", r)
	}
}

func TestComputeZeroDenominator(t *testing.T) {
	c := NewRateCalculator(newTestLogger())

	// Zero signups with nonzero applicants still yields 0 by convention.
	out := c.Compute([]models.AggregatedRecord{
		aggRecord("LC25", models.IGV, models.StageCounts{
			Signups: 0, Applicants: 8, Accepted: 4,
		}),
	})

	r := out[0]
	if r.CRApSu != 0 {
		t.Errorf("CR_AP_SU with zero signups: got %v, want 0", r.CRApSu)
	}
	if !almostEqual(r.CRAcAp, 50.0) {
		t.Errorf("CR_AC_AP: got %v, want 50", r.CRAcAp)
	}
	// Everything past the accepted stage divides by zero too.
	if r.CRReApd != 0 || r.CRFiRe != 0 || r.CRCoFi != 0 {
		t.Errorf("downstream zero-denominator rates: got %+v, want zeros", r)
	}
}

func TestComputeBadRowRecovered(t *testing.T) {
	c := NewRateCalculator(newTestLogger())

	out := c.Compute([]models.AggregatedRecord{
		aggRecord("LC bad", models.OGTa, models.StageCounts{Signups: -1, Applicants: 5}),
		aggRecord("LC good", models.OGV, models.StageCounts{Signups: 10, Applicants: 5}),
	})
	if len(out) != 2 {
		t.Fatalf("got %d rows, want 2 (bad row must not abort the batch)", len(out))
	}

	bad := out[0]
	if bad.CRApSu != 0 || bad.CRAcAp != 0 || bad.CRApdAc != 0 ||
		bad.CRReApd != 0 || bad.CRFiRe != 0 || bad.CRCoFi != 0 {
		t.Errorf("bad row rates should all be zero: %+v", bad)
	}
	if bad.LCName != "LC bad" {
		t.Errorf("bad row identity lost: %+v", bad)
	}

	if !almostEqual(out[1].CRApSu, 50.0) {
		t.Errorf("good row CR_AP_SU: got %v, want 50", out[1].CRApSu)
	}
}
