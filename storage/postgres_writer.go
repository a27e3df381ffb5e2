package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"expa-scraper/models"
)

// PostgresWriter persists aggregated funnel records to PostgreSQL for the
// dashboard to query.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS lc_funnel (
			id             SERIAL PRIMARY KEY,
			country_name   TEXT        NOT NULL,
			country_region TEXT        NOT NULL,
			lc_name        TEXT        NOT NULL,
			program        VARCHAR(8)  NOT NULL,
			signups        BIGINT      NOT NULL DEFAULT 0,
			applicants     BIGINT      NOT NULL DEFAULT 0,
			accepted       BIGINT      NOT NULL DEFAULT 0,
			approved       BIGINT      NOT NULL DEFAULT 0,
			realized       BIGINT      NOT NULL DEFAULT 0,
			finished       BIGINT      NOT NULL DEFAULT 0,
			completed      BIGINT      NOT NULL DEFAULT 0,
			snapshot_date  DATE        NOT NULL,
			UNIQUE (country_name, country_region, lc_name, program, snapshot_date)
		);

		CREATE INDEX IF NOT EXISTS idx_lc_funnel_country ON lc_funnel(country_name);
		CREATE INDEX IF NOT EXISTS idx_lc_funnel_region  ON lc_funnel(country_region);
		CREATE INDEX IF NOT EXISTS idx_lc_funnel_program ON lc_funnel(program);
		CREATE INDEX IF NOT EXISTS idx_lc_funnel_date    ON lc_funnel(snapshot_date);
	`)
	return err
}

// Clear deletes all existing funnel rows.
func (pw *PostgresWriter) Clear() error {
	_, err := pw.db.Exec("DELETE FROM lc_funnel")
	if err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// WriteFunnel batch-inserts ALL aggregated records, clearing old data first.
func (pw *PostgresWriter) WriteFunnel(records []models.AggregatedRecord) error {
	if len(records) == 0 {
		return nil
	}

	if err := pw.Clear(); err != nil {
		return err
	}

	const batchSize = 50
	for i := 0; i < len(records); i += batchSize {
		end := i + batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := pw.insertBatch(records[i:end]); err != nil {
			return fmt.Errorf("postgres: insert batch %d-%d: %w", i, end, err)
		}
	}
	return nil
}

func (pw *PostgresWriter) insertBatch(records []models.AggregatedRecord) error {
	const fieldsPerRow = 12
	placeholders := make([]string, 0, len(records))
	args := make([]any, 0, len(records)*fieldsPerRow)

	for i, r := range records {
		base := i * fieldsPerRow
		ph := make([]string, fieldsPerRow)
		for j := range ph {
			ph[j] = fmt.Sprintf("$%d", base+j+1)
		}
		placeholders = append(placeholders, "("+strings.Join(ph, ", ")+")")
		args = append(args,
			r.CountryName, r.CountryRegion, r.LCName, string(r.Program),
			r.Counts.Signups, r.Counts.Applicants, r.Counts.Accepted,
			r.Counts.Approved, r.Counts.Realized, r.Counts.Finished,
			r.Counts.Completed, r.Date,
		)
	}

	query := `
		INSERT INTO lc_funnel (
			country_name, country_region, lc_name, program,
			signups, applicants, accepted, approved, realized, finished, completed,
			snapshot_date
		) VALUES ` + strings.Join(placeholders, ", ")

	_, err := pw.db.Exec(query, args...)
	return err
}

// Close closes the underlying database connection.
func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
