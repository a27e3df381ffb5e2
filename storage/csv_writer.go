package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"expa-scraper/models"
)

// SnapshotWriter persists the aggregated funnel table and the conversion-rate
// table as semicolon-separated UTF-8 CSV files. Each table is written twice:
// once under a timestamped name and once as a "<prefix>_latest.csv" alias the
// dashboard points at.
type SnapshotWriter struct {
	dir          string
	funnelPrefix string
	ratesPrefix  string
	now          func() time.Time
}

// NewSnapshotWriter creates the output directory if needed and returns a
// ready-to-use SnapshotWriter.
func NewSnapshotWriter(dir, funnelPrefix, ratesPrefix string) (*SnapshotWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}
	return &SnapshotWriter{
		dir:          dir,
		funnelPrefix: funnelPrefix,
		ratesPrefix:  ratesPrefix,
		now:          time.Now,
	}, nil
}

// WriteFunnel writes the aggregated funnel table.
func (w *SnapshotWriter) WriteFunnel(records []models.AggregatedRecord) error {
	header := []string{
		"Country_Name", "Country_Region", "LC_name", "Program",
		"Signups", "Applicants", "Accepted", "Approved", "Realized", "Finished", "Completed",
		"Date",
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.CountryName, r.CountryRegion, r.LCName, string(r.Program),
			formatInt(r.Counts.Signups),
			formatInt(r.Counts.Applicants),
			formatInt(r.Counts.Accepted),
			formatInt(r.Counts.Approved),
			formatInt(r.Counts.Realized),
			formatInt(r.Counts.Finished),
			formatInt(r.Counts.Completed),
			r.Date,
		})
	}
	return w.writeSnapshot(w.funnelPrefix, header, rows)
}

// WriteRates writes the conversion-rate table.
func (w *SnapshotWriter) WriteRates(records []models.ConversionRecord) error {
	header := []string{
		"Country_Name", "Country_Region", "LC_name", "Program",
		"CR_AP_SU", "CR_AC_AP", "CR_APD_AC", "CR_RE_APD", "CR_FI_RE", "CR_CO_FI",
		"Date",
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.CountryName, r.CountryRegion, r.LCName, string(r.Program),
			formatRate(r.CRApSu),
			formatRate(r.CRAcAp),
			formatRate(r.CRApdAc),
			formatRate(r.CRReApd),
			formatRate(r.CRFiRe),
			formatRate(r.CRCoFi),
			r.Date,
		})
	}
	return w.writeSnapshot(w.ratesPrefix, header, rows)
}

// Close satisfies the writer interfaces; snapshot files are closed per write.
func (w *SnapshotWriter) Close() error { return nil }

// writeSnapshot writes the table to the timestamped file and the latest alias.
func (w *SnapshotWriter) writeSnapshot(prefix string, header []string, rows [][]string) error {
	stamp := w.now().Format("20060102_150405")
	paths := []string{
		filepath.Join(w.dir, fmt.Sprintf("%s_%s.csv", prefix, stamp)),
		filepath.Join(w.dir, prefix+"_latest.csv"),
	}
	for _, path := range paths {
		if err := writeCSV(path, header, rows); err != nil {
			return err
		}
	}
	return nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	cw.Comma = ';'

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
