package enginesim

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/augurlabs/augur/internal/engine"
)

// writeWorkbook writes the evaluation report to an .xlsx workbook: one
// summary row, then the full graph with historical and predicted columns.
func writeWorkbook(path string, report *engine.EvaluationReport) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"

	if err := f.SetCellValue(sheet, "A1", "Confidence"); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	if err := f.SetCellValue(sheet, "B1", report.Confidence); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	header := []any{"Timestamp", "Historical", "Predicted"}
	if err := f.SetSheetRow(sheet, "A3", &header); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}

	for i, point := range report.Graph {
		row := []any{point.Timestamp, nil, nil}
		if point.Historical != nil {
			row[1] = *point.Historical
		}
		if point.Predicted != nil {
			row[2] = *point.Predicted
		}
		cell := fmt.Sprintf("A%d", i+4)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write workbook row %d: %w", i, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
