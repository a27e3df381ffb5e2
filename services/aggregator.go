package services

import (
	"time"

	"expa-scraper/models"
	"expa-scraper/utils"
)

// Aggregator collapses duplicate (country, region, LC, program) keys by
// summing their stage counts. Duplicates arise when a country is re-scraped
// within a run; summing (rather than prefer-latest) matches the historical
// behavior of the pipeline.
type Aggregator struct {
	logger *utils.Logger
	now    func() time.Time
}

// NewAggregator creates an Aggregator stamping rows with the current date.
func NewAggregator(logger *utils.Logger) *Aggregator {
	return &Aggregator{logger: logger, now: time.Now}
}

// NewAggregatorAt creates an Aggregator with a fixed clock, for tests.
func NewAggregatorAt(logger *utils.Logger, now func() time.Time) *Aggregator {
	return &Aggregator{logger: logger, now: now}
}

type identityKey struct {
	countryName   string
	countryRegion string
	lcName        string
	program       models.Program
}

// Aggregate groups records by identity key and sums the seven stage counts.
// The output has exactly one row per distinct key, in first-appearance
// order, each stamped with the run date (YYYY-MM-DD). Re-aggregating an
// already-aggregated table is a no-op on the sums.
func (a *Aggregator) Aggregate(records []models.FunnelRecord) []models.AggregatedRecord {
	date := a.now().Format("2006-01-02")

	index := make(map[identityKey]int, len(records))
	out := make([]models.AggregatedRecord, 0, len(records))

	for _, r := range records {
		key := identityKey{r.CountryName, r.CountryRegion, r.LCName, r.Program}
		if i, seen := index[key]; seen {
			out[i].Counts.Add(r.Counts)
			continue
		}
		index[key] = len(out)
		out = append(out, models.AggregatedRecord{
			CountryName:   r.CountryName,
			CountryRegion: r.CountryRegion,
			LCName:        r.LCName,
			Program:       r.Program,
			Counts:        r.Counts,
			Date:          date,
		})
	}

	if dup := len(records) - len(out); dup > 0 {
		a.logger.Info("[aggregator] merged %d duplicate rows (%d -> %d)",
			dup, len(records), len(out))
	}
	return out
}
