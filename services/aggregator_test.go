package services

import (
	"testing"
	"time"

	"expa-scraper/models"
)

func fixedClock() time.Time {
	return time.Date(2026, 8, 24, 13, 37, 0, 0, time.UTC)
}

func funnelRecord(lc string, p models.Program, counts models.StageCounts) models.FunnelRecord {
	return models.FunnelRecord{
		CountryName:   "Chile",
		CountryRegion: "LAC",
		LCName:        lc,
		Program:       p,
		Counts:        counts,
	}
}

func TestAggregateSumsDuplicateKeys(t *testing.T) {
	a := NewAggregatorAt(newTestLogger(), fixedClock)

	out := a.Aggregate([]models.FunnelRecord{
		funnelRecord("LC25", models.OGV, models.StageCounts{Signups: 10, Approved: 2}),
		funnelRecord("LC25", models.OGV, models.StageCounts{Signups: 5, Realized: 1}),
		funnelRecord("LC25", models.IGV, models.StageCounts{Applicants: 3}),
	})

	if len(out) != 2 {
		t.Fatalf("got %d rows, want 2", len(out))
	}
	ogv := out[0]
	if ogv.Program != models.OGV {
		t.Fatalf("first-appearance order broken: got %s first", ogv.Program)
	}
	want := models.StageCounts{Signups: 15, Approved: 2, Realized: 1}
	if ogv.Counts != want {
		t.Errorf("OGV counts: got %+v, want %+v", ogv.Counts, want)
	}
}

func TestAggregateStampsRunDate(t *testing.T) {
	a := NewAggregatorAt(newTestLogger(), fixedClock)

	out := a.Aggregate([]models.FunnelRecord{
		funnelRecord("LC25", models.OGV, models.StageCounts{}),
		funnelRecord("LC26", models.IGTa, models.StageCounts{}),
	})
	for _, r := range out {
		if r.Date != "2026-08-24" {
			t.Errorf("date: got %q, want 2026-08-24", r.Date)
		}
	}
}

func TestAggregateIdempotent(t *testing.T) {
	a := NewAggregatorAt(newTestLogger(), fixedClock)

	in := []models.FunnelRecord{
		funnelRecord("LC25", models.OGV, models.StageCounts{Signups: 10}),
		funnelRecord("LC25", models.OGV, models.StageCounts{Signups: 2}),
		funnelRecord("LC26", models.OGTe, models.StageCounts{Completed: 7}),
	}
	first := a.Aggregate(in)

	// Feeding the aggregated table back through yields the same table.
	again := make([]models.FunnelRecord, 0, len(first))
	for _, r := range first {
		again = append(again, models.FunnelRecord{
			CountryName:   r.CountryName,
			CountryRegion: r.CountryRegion,
			LCName:        r.LCName,
			Program:       r.Program,
			Counts:        r.Counts,
		})
	}
	second := a.Aggregate(again)

	if len(second) != len(first) {
		t.Fatalf("re-aggregation changed row count: %d -> %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("row %d changed: %+v -> %+v", i, first[i], second[i])
		}
	}
}

func TestAggregateUniqueKeys(t *testing.T) {
	a := NewAggregatorAt(newTestLogger(), fixedClock)

	out := a.Aggregate([]models.FunnelRecord{
		funnelRecord("LC25", models.OGV, models.StageCounts{}),
		funnelRecord("LC25", models.OGV, models.StageCounts{}),
		funnelRecord("LC25", models.OGV, models.StageCounts{}),
	})

	seen := make(map[string]bool)
	for _, r := range out {
		key := r.CountryName + "|" + r.CountryRegion + "|" + r.LCName + "|" + string(r.Program)
		if seen[key] {
			t.Fatalf("duplicate key after aggregation: %s", key)
		}
		seen[key] = true
	}
}
