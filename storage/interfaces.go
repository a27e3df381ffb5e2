package storage

import "expa-scraper/models"

// FunnelWriter is the interface any backend storing aggregated funnel
// records must satisfy.
type FunnelWriter interface {
	WriteFunnel(records []models.AggregatedRecord) error
	Close() error
}

// RateWriter is the interface for persisting conversion-rate records.
type RateWriter interface {
	WriteRates(records []models.ConversionRecord) error
	Close() error
}
