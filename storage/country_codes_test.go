package storage

import (
	"os"
	"path/filepath"
	"testing"

	"expa-scraper/utils"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "codigos.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write catalog fixture: %v", err)
	}
	return path
}

func TestLoadCountryCatalog(t *testing.T) {
	path := writeCatalog(t, `Country_ID,Country_Name,Country_Region
1566,Chile,LAC
572,Afghanistan,APAC
1609,Egypt,MEA
`)

	catalog, err := LoadCountryCatalog(path, utils.NewLogger())
	if err != nil {
		t.Fatalf("LoadCountryCatalog: %v", err)
	}
	if len(catalog) != 3 {
		t.Fatalf("got %d countries, want 3", len(catalog))
	}
	if catalog[0].ID != 1566 || catalog[0].Name != "Chile" || catalog[0].Region != "LAC" {
		t.Errorf("first entry: got %+v", catalog[0])
	}
}

func TestLoadCountryCatalogSkipsBadIDs(t *testing.T) {
	path := writeCatalog(t, `Country_ID,Country_Name,Country_Region
abc,Nowhere,???
1566,Chile,LAC
`)

	catalog, err := LoadCountryCatalog(path, utils.NewLogger())
	if err != nil {
		t.Fatalf("LoadCountryCatalog: %v", err)
	}
	if len(catalog) != 1 {
		t.Fatalf("got %d countries, want 1 (bad ID skipped)", len(catalog))
	}
	if catalog[0].Name != "Chile" {
		t.Errorf("got %+v, want Chile", catalog[0])
	}
}

func TestLoadCountryCatalogLastWriteWins(t *testing.T) {
	path := writeCatalog(t, `Country_ID,Country_Name,Country_Region
1566,Chile,LAC
1566,Chile Renamed,LAC
`)

	catalog, err := LoadCountryCatalog(path, utils.NewLogger())
	if err != nil {
		t.Fatalf("LoadCountryCatalog: %v", err)
	}
	if len(catalog) != 1 {
		t.Fatalf("got %d countries, want 1", len(catalog))
	}
	if catalog[0].Name != "Chile Renamed" {
		t.Errorf("got %q, want the later entry", catalog[0].Name)
	}
}

func TestLoadCountryCatalogMissingColumns(t *testing.T) {
	path := writeCatalog(t, `ID,Name
1566,Chile
`)

	if _, err := LoadCountryCatalog(path, utils.NewLogger()); err == nil {
		t.Fatal("expected error for missing header columns")
	}
}
