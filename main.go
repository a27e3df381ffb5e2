package main

import (
	"os"

	"expa-scraper/config"
	"expa-scraper/models"
	"expa-scraper/scraper/expa"
	"expa-scraper/services"
	"expa-scraper/storage"
	"expa-scraper/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== AIESEC LC Funnel Scraper starting ===")
	logger.Info("Config — base: %s | concurrency: %d | rate: %dms | render-js: %v",
		cfg.BaseURL, cfg.MaxConcurrency, cfg.RateLimitMs, cfg.RenderJS)

	catalog, err := storage.LoadCountryCatalog(cfg.CountryCodesPath, logger)
	if err != nil {
		logger.Error("Failed to load country catalog: %v", err)
		os.Exit(1)
	}

	scraper := expa.New(cfg, logger)
	tables, err := scraper.Scrape(catalog)
	if err != nil {
		logger.Error("Scrape failed: %v", err)
		os.Exit(1)
	}
	if len(tables) == 0 {
		logger.Error("No country tables were scraped. Exiting.")
		os.Exit(1)
	}

	normalizer := services.NewNormalizer(logger)
	var records []models.FunnelRecord
	for _, table := range tables {
		countryRecords, err := normalizer.Normalize(table)
		if err != nil {
			logger.Error("Normalization failed for %s: %v — skipping country",
				table.CountryName, err)
			continue
		}
		records = append(records, countryRecords...)
	}
	if len(records) == 0 {
		logger.Error("All countries failed normalization. Exiting.")
		os.Exit(1)
	}

	aggregator := services.NewAggregator(logger)
	aggregated := aggregator.Aggregate(records)
	logger.Info("Aggregated dataset: %d LC × program rows", len(aggregated))

	rates := services.NewRateCalculator(logger).Compute(aggregated)

	snapshots, err := storage.NewSnapshotWriter(cfg.DataDir, cfg.FunnelPrefix, cfg.RatesPrefix)
	if err != nil {
		logger.Error("Failed to create snapshot writer: %v", err)
		os.Exit(1)
	}
	if err := snapshots.WriteFunnel(aggregated); err != nil {
		logger.Error("Funnel snapshot write failed: %v", err)
	} else {
		logger.Info("Funnel snapshot saved under %s", cfg.DataDir)
	}
	if err := snapshots.WriteRates(rates); err != nil {
		logger.Error("Rates snapshot write failed: %v", err)
	} else {
		logger.Info("Conversion-rate snapshot saved under %s", cfg.DataDir)
	}

	pgWriter, err := storage.NewPostgresWriter(cfg.DSN())
	if err != nil {
		logger.Error("Failed to connect to PostgreSQL: %v", err)
		logger.Error("Snapshots were written; continuing without database storage")
	} else {
		defer pgWriter.Close()
		if err := pgWriter.WriteFunnel(aggregated); err != nil {
			logger.Error("PostgreSQL write failed: %v", err)
		} else {
			logger.Info("Aggregated funnel stored in PostgreSQL (table: lc_funnel)")
		}
	}

	insightSvc := services.NewInsightService(logger)
	report := insightSvc.Generate(aggregated)
	insightSvc.Print(report)

	if cfg.OpenDashboard {
		if err := utils.OpenDashboard(cfg.DashboardPath); err != nil {
			logger.Warn("Could not open dashboard: %v", err)
		}
	}

	logger.Info("=== Run finished — funnel: %d rows | rates: %d rows ===",
		len(aggregated), len(rates))
}
