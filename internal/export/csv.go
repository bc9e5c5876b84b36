package export

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/ch-finder/internal/engine"
)

// WriteCSV writes the fixed result schema to a CSV file with a header
// row. Rows keep the query's distance ordering.
func WriteCSV(path string, results []engine.CompanyResult) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(engine.ResultColumns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range results {
		if err := writer.Write(results[i].Row()); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV output: %w", err)
	}
	return nil
}
