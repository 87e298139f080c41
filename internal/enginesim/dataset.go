package enginesim

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/augurlabs/augur/internal/engine"
)

// dataset is the engine-side representation of the loaded source: one or
// more generated sheets plus the raw series used for forecasting.
type dataset struct {
	name   string
	sheets []*sheet
}

type sheet struct {
	tab        string
	columns    []engine.ColumnInfo
	rows       []engine.Row
	timestamps []string
	series     []float64
}

// generate builds the synthetic dataset: a daily series per sheet following
// base + trend with a weekly seasonal swing and noise.
func generate(sc Scenario, rng *rand.Rand) *dataset {
	ds := &dataset{name: sc.Name}
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	for _, ss := range sc.Sheets {
		sh := &sheet{
			tab: ss.Tab,
			columns: []engine.ColumnInfo{
				{Field: "date", HeaderName: "Date", Type: engine.ColumnDateTime},
				{Field: "value", HeaderName: "Value", Type: engine.ColumnNumber},
				{Field: "batch", HeaderName: "Batch", Type: engine.ColumnString},
				{Field: "audited", HeaderName: "Audited", Type: engine.ColumnBoolean},
			},
		}

		for i := 0; i < ss.Rows; i++ {
			ts := start.AddDate(0, 0, i).Format("2006-01-02")
			value := ss.Base +
				ss.Trend*float64(i) +
				ss.Season*math.Sin(2*math.Pi*float64(i)/7) +
				rng.NormFloat64()*ss.Noise
			value = math.Round(value*100) / 100

			sh.timestamps = append(sh.timestamps, ts)
			sh.series = append(sh.series, value)
			sh.rows = append(sh.rows, engine.Row{
				"date":    ts,
				"value":   value,
				"batch":   fmt.Sprintf("batch-%d", i/7+1),
				"audited": i%3 == 0,
			})
		}

		ds.sheets = append(ds.sheets, sh)
	}

	return ds
}

// tabs returns the tab list, or nil for a single-sheet source (matching
// the tab list being absent on the wire).
func (ds *dataset) tabs() []string {
	if len(ds.sheets) <= 1 {
		return nil
	}
	names := make([]string, len(ds.sheets))
	for i, sh := range ds.sheets {
		names[i] = sh.tab
	}
	return names
}

// sheetByTab finds a sheet by tab name.
func (ds *dataset) sheetByTab(tab string) *sheet {
	for _, sh := range ds.sheets {
		if sh.tab == tab {
			return sh
		}
	}
	return nil
}

// info builds the engine snapshot for this sheet with untouched default
// selections: no columns chosen yet, a yearly period, and an exclude-none
// row selection.
func (sh *sheet) info(multiTab bool) engine.SheetInfo {
	tabName := ""
	if multiTab {
		tabName = sh.tab
	}
	return engine.SheetInfo{
		TabName: tabName,
		Columns: sh.columns,
		Rows:    sh.rows,
		AllowedBatchPeriods: []engine.BatchPeriod{
			engine.BatchPeriodDaily,
			engine.BatchPeriodWeekly,
			engine.BatchPeriodMonthly,
			engine.BatchPeriodYearly,
		},
		SelectedDatetimeColumn:    "",
		SelectedPredictableColumn: "",
		SelectedBatchPeriod:       engine.BatchPeriodYearly,
		RowSelection: engine.RowSelection{
			IDs:  []int{},
			Mode: engine.SelectionExclude,
		},
	}
}

// selectedSeries applies a row selection to the sheet's series, returning
// the surviving timestamps and values in row order.
func (sh *sheet) selectedSeries(sel engine.RowSelection) ([]string, []float64) {
	chosen := make(map[int]bool, len(sel.IDs))
	for _, id := range sel.IDs {
		chosen[id] = true
	}

	var ts []string
	var values []float64
	for i := range sh.series {
		keep := false
		switch sel.Mode {
		case engine.SelectionInclude:
			keep = chosen[i]
		case engine.SelectionExclude:
			keep = !chosen[i]
		}
		if keep {
			ts = append(ts, sh.timestamps[i])
			values = append(values, sh.series[i])
		}
	}
	return ts, values
}
