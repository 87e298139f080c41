package testfixtures

import (
	"fmt"

	"github.com/augurlabs/augur/internal/engine"
)

// Fixed test values for consistent assertions
const (
	FixedDatasetName = "quarterly-sales"
	FixedTabNorth    = "North"
	FixedTabSouth    = "South"
)

func f64(v float64) *float64 {
	return &v
}

// NorthSheet returns a small two-tab sheet snapshot with one column of
// each type and three rows.
func NorthSheet() engine.SheetInfo {
	return engine.SheetInfo{
		TabName: FixedTabNorth,
		Columns: []engine.ColumnInfo{
			{Field: "date", HeaderName: "Date", Type: engine.ColumnDateTime},
			{Field: "sales", HeaderName: "Sales", Type: engine.ColumnNumber},
			{Field: "region", HeaderName: "Region", Type: engine.ColumnString},
			{Field: "audited", HeaderName: "Audited", Type: engine.ColumnBoolean},
		},
		Rows: []engine.Row{
			{"date": "2024-01-01", "sales": 120.5, "region": "north", "audited": true},
			{"date": "2024-01-02", "sales": 133.0, "region": "north", "audited": false},
			{"date": "2024-01-03", "sales": 128.25, "region": "north", "audited": true},
		},
		AllowedBatchPeriods: []engine.BatchPeriod{
			engine.BatchPeriodDaily,
			engine.BatchPeriodWeekly,
		},
		RowSelection: engine.RowSelection{
			IDs:  []int{},
			Mode: engine.SelectionExclude,
		},
	}
}

// SouthSheet returns the snapshot the engine answers with after selecting
// the South tab. Selections come pre-filled to exercise snapshot-apply
// overwriting previous choices.
func SouthSheet() engine.SheetInfo {
	sheet := NorthSheet()
	sheet.TabName = FixedTabSouth
	sheet.Rows = []engine.Row{
		{"date": "2024-01-01", "sales": 80.0, "region": "south", "audited": false},
		{"date": "2024-01-02", "sales": 95.5, "region": "south", "audited": true},
	}
	sheet.SelectedDatetimeColumn = "date"
	sheet.SelectedPredictableColumn = "sales"
	sheet.SelectedBatchPeriod = engine.BatchPeriodDaily
	return sheet
}

// QuarterlyDataInfo returns a get_data_info response for the two-tab
// workbook, opening on the North sheet.
func QuarterlyDataInfo() engine.DataInfo {
	return engine.DataInfo{
		Name:      FixedDatasetName,
		Tabs:      []string{FixedTabNorth, FixedTabSouth},
		SheetInfo: NorthSheet(),
	}
}

// SingleSheetDataInfo returns a get_data_info response with no tab list,
// as single-sheet sources send it.
func SingleSheetDataInfo() engine.DataInfo {
	info := QuarterlyDataInfo()
	info.Tabs = nil
	info.SheetInfo.TabName = ""
	return info
}

// MidTrainProgress returns a get_train_progress snapshot halfway through a
// six-epoch run.
func MidTrainProgress() engine.TrainProgress {
	return engine.TrainProgress{
		EndX: 6,
		ConfidencePoints: []engine.ConfidencePoint{
			{X: 0, Y: 0},
			{X: 1, Y: 22.5},
			{X: 2, Y: 41.0},
			{X: 3, Y: 58.75},
		},
	}
}

// FinishedReport returns an evaluation report with a short graph and both
// peaks present.
func FinishedReport() engine.EvaluationReport {
	return engine.EvaluationReport{
		Confidence: 87.3,
		Graph: []engine.GraphPoint{
			{Timestamp: "2024-01-01", Historical: f64(120.5)},
			{Timestamp: "2024-01-02", Historical: f64(133.0)},
			{Timestamp: "2024-01-03", Historical: f64(128.25), Predicted: f64(127.9)},
			{Timestamp: "2024-01-04", Predicted: f64(140.2)},
			{Timestamp: "2024-01-05", Predicted: f64(118.6)},
		},
		HighPeak: &engine.GraphPoint{Timestamp: "2024-01-04", Predicted: f64(140.2)},
		LowPeak:  &engine.GraphPoint{Timestamp: "2024-01-05", Predicted: f64(118.6)},
	}
}

// Notice returns a numbered engine notification.
func Notice(n int) engine.Notification {
	return engine.Notification{
		Title:   "Engine error",
		Message: fmt.Sprintf("failure %d", n),
	}
}
