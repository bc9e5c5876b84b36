package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ch-finder/internal/engine"
)

func sampleResults() []engine.CompanyResult {
	inc := time.Date(2001, 3, 15, 0, 0, 0, 0, time.UTC)
	age := 24
	return []engine.CompanyResult{
		{
			CompanyNumber:     "01234567",
			CompanyName:       "ACME WIDGETS LIMITED",
			Postcode:          "SW1A 1AA",
			DistanceMiles:     0.42,
			CompanyStatus:     "Active",
			IncorporationDate: &inc,
			CompanyAgeYears:   &age,
		},
		{
			CompanyNumber: "07654321",
			CompanyName:   "BETA HOLDINGS LTD",
			Postcode:      "EC2R 8AH",
			DistanceMiles: 2.52,
			CompanyStatus: "Active",
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", "csv", FormatCSV, false},
		{"empty defaults to csv", "", FormatCSV, false},
		{"xlsx", "xlsx", FormatXLSX, false},
		{"excel alias", "Excel", FormatXLSX, false},
		{"mixed case", "CSV", FormatCSV, false},
		{"unknown", "parquet", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseFormat(%q) = %v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormat(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestDefaultOutputPath(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 30, 22, 0, time.UTC)
	got := DefaultOutputPath("out", FormatCSV, now)
	want := filepath.Join("out", "companies_20250615_143022.csv")
	if got != want {
		t.Errorf("DefaultOutputPath() = %q, want %q", got, want)
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.csv")
	if err := WriteCSV(path, sampleResults()); err != nil {
		t.Fatalf("WriteCSV() failed: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("got %d records, want header plus 2 rows", len(records))
	}
	if records[0][0] != "CompanyNumber" || len(records[0]) != len(engine.ResultColumns) {
		t.Errorf("header = %v, want the fixed column set", records[0])
	}
	if records[1][0] != "01234567" {
		t.Errorf("first row company = %q, want nearest company first", records[1][0])
	}
	if records[1][8] != "24" {
		t.Errorf("company age column = %q, want 24", records[1][8])
	}
	if records[2][7] != "" {
		t.Errorf("missing incorporation date rendered as %q, want empty", records[2][7])
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := WriteCSV(path, nil); err != nil {
		t.Fatalf("WriteCSV() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 1 {
		t.Errorf("empty result set should still write the header, got %d lines", len(lines))
	}
}

func TestWriteCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "results.csv")
	if err := Write(path, FormatCSV, sampleResults()); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("output file missing: %v", err)
	}
}

func TestWriteCommandLog(t *testing.T) {
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "companies_20250615_143022.csv")
	ranAt := time.Date(2025, 6, 15, 14, 30, 22, 0, time.UTC)
	argv := []string{"finder", "search", "--postcode", "SW1A 1AA", "--radius", "10"}

	if err := WriteCommandLog(outputPath, argv, 42, ranAt); err != nil {
		t.Fatalf("WriteCommandLog() failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "companies_20250615_143022.txt"))
	if err != nil {
		t.Fatalf("companion log missing: %v", err)
	}

	content := string(data)
	for _, want := range []string{
		"finder search --postcode SW1A 1AA --radius 10",
		"Results: 42",
		"Ran at: 2025-06-15 14:30:22",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("log missing %q in:\n%s", want, content)
		}
	}
}
