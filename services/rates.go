package services

import (
	"expa-scraper/models"
	"expa-scraper/utils"
)

// RateCalculator derives stage-to-stage conversion percentages from
// aggregated funnel counts.
type RateCalculator struct {
	logger *utils.Logger
}

// NewRateCalculator creates a RateCalculator with the given logger.
func NewRateCalculator(logger *utils.Logger) *RateCalculator {
	return &RateCalculator{logger: logger}
}

// Compute returns one ConversionRecord per input row: each funnel stage as a
// percentage of its immediate predecessor. A zero denominator yields 0, a
// deliberate convention rather than an error. A row violating the count
// contract (negative counts) gets all six rates zeroed with a warning; a bad
// row never aborts the batch.
func (c *RateCalculator) Compute(records []models.AggregatedRecord) []models.ConversionRecord {
	out := make([]models.ConversionRecord, 0, len(records))
	for _, r := range records {
		rec := models.ConversionRecord{
			CountryName:   r.CountryName,
			CountryRegion: r.CountryRegion,
			LCName:        r.LCName,
			Program:       r.Program,
			Date:          r.Date,
		}

		if valid(r.Counts) {
			rec.CRApSu = pct(r.Counts.Applicants, r.Counts.Signups)
			rec.CRAcAp = pct(r.Counts.Accepted, r.Counts.Applicants)
			rec.CRApdAc = pct(r.Counts.Approved, r.Counts.Accepted)
			rec.CRReApd = pct(r.Counts.Realized, r.Counts.Approved)
			rec.CRFiRe = pct(r.Counts.Finished, r.Counts.Realized)
			rec.CRCoFi = pct(r.Counts.Completed, r.Counts.Finished)
		} else {
			c.logger.Warn("[rates] %s / %s / %s: negative counts, zeroing rates for this row",
				r.CountryName, r.LCName, r.Program)
		}

		out = append(out, rec)
	}
	return out
}

func valid(c models.StageCounts) bool {
	return c.Signups >= 0 && c.Applicants >= 0 && c.Accepted >= 0 &&
		c.Approved >= 0 && c.Realized >= 0 && c.Finished >= 0 && c.Completed >= 0
}

// pct is num/den as a percentage, with the zero-denominator convention.
func pct(num, den int64) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den) * 100
}
