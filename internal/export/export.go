package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ch-finder/internal/engine"
)

// Format selects the output file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts a format name case-insensitively.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "csv", "":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unknown output format %q (use csv or xlsx)", name)
	}
}

// DefaultOutputPath builds a timestamped filename in dir, e.g.
// companies_20250615_143022.csv.
func DefaultOutputPath(dir string, format Format, now time.Time) string {
	name := fmt.Sprintf("companies_%s.%s", now.Format("20060102_150405"), format)
	return filepath.Join(dir, name)
}

// Write writes results to path in the given format, creating parent
// directories as needed.
func Write(path string, format Format, results []engine.CompanyResult) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	switch format {
	case FormatCSV:
		return WriteCSV(path, results)
	case FormatXLSX:
		return WriteXLSX(path, results)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// WriteCommandLog writes a companion .txt next to the output file
// recording the command line and run context, so a results file found
// months later can be traced back to the query that produced it.
func WriteCommandLog(outputPath string, argv []string, resultCount int, ranAt time.Time) error {
	logPath := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ".txt"

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Command: %s\n", strings.Join(argv, " ")))
	sb.WriteString(fmt.Sprintf("Ran at: %s\n", ranAt.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Results: %d\n", resultCount))
	sb.WriteString(fmt.Sprintf("Output: %s\n", filepath.Base(outputPath)))

	if err := os.WriteFile(logPath, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write command log: %w", err)
	}
	return nil
}
