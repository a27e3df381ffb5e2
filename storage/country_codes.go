package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"expa-scraper/models"
	"expa-scraper/utils"
)

// LoadCountryCatalog reads the country reference CSV
// (Country_ID, Country_Name, Country_Region) and returns the catalog in file
// order. Rows whose ID does not parse are skipped with a warning; a duplicate
// ID overwrites the earlier entry in place (last-write-wins).
func LoadCountryCatalog(path string, logger *utils.Logger) ([]models.Country, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("country catalog: open %q: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("country catalog: read %q: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("country catalog: %q is empty", path)
	}

	idCol, nameCol, regionCol, err := catalogColumns(rows[0])
	if err != nil {
		return nil, fmt.Errorf("country catalog: %q: %w", path, err)
	}

	var catalog []models.Country
	index := make(map[int]int)

	for i, row := range rows[1:] {
		if len(row) <= idCol || len(row) <= nameCol || len(row) <= regionCol {
			logger.Warn("[catalog] row %d has %d fields, skipping", i+2, len(row))
			continue
		}

		id, err := strconv.Atoi(strings.TrimSpace(row[idCol]))
		if err != nil {
			logger.Warn("[catalog] row %d: country ID %q is not numeric, skipping", i+2, row[idCol])
			continue
		}

		country := models.Country{
			ID:     id,
			Name:   strings.TrimSpace(row[nameCol]),
			Region: strings.TrimSpace(row[regionCol]),
		}

		if pos, dup := index[id]; dup {
			logger.Warn("[catalog] duplicate country ID %d, keeping the later entry", id)
			catalog[pos] = country
			continue
		}
		index[id] = len(catalog)
		catalog = append(catalog, country)
	}

	if len(catalog) == 0 {
		return nil, fmt.Errorf("country catalog: no valid rows in %q", path)
	}

	logger.Info("[catalog] loaded %d countries from %s", len(catalog), path)
	return catalog, nil
}

func catalogColumns(header []string) (idCol, nameCol, regionCol int, err error) {
	idCol, nameCol, regionCol = -1, -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case "Country_ID":
			idCol = i
		case "Country_Name":
			nameCol = i
		case "Country_Region":
			regionCol = i
		}
	}
	if idCol < 0 || nameCol < 0 || regionCol < 0 {
		return 0, 0, 0, fmt.Errorf("header must contain Country_ID, Country_Name and Country_Region, got %v", header)
	}
	return idCol, nameCol, regionCol, nil
}
