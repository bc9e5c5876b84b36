package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ch-finder/internal/engine"
)

const sheetName = "Companies"

// Excel caps a worksheet at 1,048,576 rows; one is spent on the header.
const maxXLSXRows = 1048576 - 1

// WriteXLSX writes the fixed result schema to an .xlsx workbook with a
// bold frozen header row.
func WriteXLSX(path string, results []engine.CompanyResult) error {
	if len(results) > maxXLSXRows {
		return fmt.Errorf("result set of %d rows exceeds the Excel sheet limit of %d; export as CSV instead",
			len(results), maxXLSXRows)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create worksheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for col, name := range engine.ResultColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return fmt.Errorf("failed to write header cell: %w", err)
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(engine.ResultColumns), 1)
	if err := f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header row: %w", err)
	}

	for i := range results {
		row := results[i].Row()
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
