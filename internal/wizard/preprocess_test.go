package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/augurlabs/augur/internal/engine"
)

func sampleSheet() engine.SheetInfo {
	return engine.SheetInfo{
		TabName: "Sheet1",
		Columns: []engine.ColumnInfo{
			{Field: "date", HeaderName: "Date", Type: engine.ColumnDateTime},
			{Field: "sales", HeaderName: "Sales", Type: engine.ColumnNumber},
			{Field: "region", HeaderName: "Region", Type: engine.ColumnString},
			{Field: "active", HeaderName: "Active", Type: engine.ColumnBoolean},
			{Field: "updated", HeaderName: "Updated", Type: engine.ColumnDateTime},
			{Field: "cost", HeaderName: "Cost", Type: engine.ColumnNumber},
		},
		Rows: []engine.Row{
			{"date": "2024-01-01", "sales": 10.0},
			{"date": "2024-01-02", "sales": 12.0},
			{"date": "2024-01-03", "sales": 9.0},
		},
		AllowedBatchPeriods:       []engine.BatchPeriod{engine.BatchPeriodDaily, engine.BatchPeriodWeekly},
		SelectedDatetimeColumn:    "date",
		SelectedPredictableColumn: "sales",
		SelectedBatchPeriod:       engine.BatchPeriodDaily,
		RowSelection:              engine.RowSelection{IDs: []int{}, Mode: engine.SelectionExclude},
	}
}

func TestPreprocessForm_ApplySheetIsAtomic(t *testing.T) {
	t.Parallel()

	form := &PreprocessForm{
		SelectedTab:         "Old",
		Columns:             []engine.ColumnInfo{{Field: "stale"}},
		Rows:                []engine.Row{{"stale": 1}},
		AllowedBatchPeriods: []engine.BatchPeriod{engine.BatchPeriodYearly},
		SelectedDatetime:    "stale",
		SelectedPredictable: "stale",
		SelectedBatchPeriod: engine.BatchPeriodYearly,
		RowSelection:        engine.RowSelection{IDs: []int{1, 2}, Mode: engine.SelectionInclude},
	}

	form.ApplySheet(sampleSheet())

	assert.Equal(t, "Sheet1", form.SelectedTab)
	assert.Len(t, form.Columns, 6)
	assert.Len(t, form.Rows, 3)
	assert.Equal(t, []engine.BatchPeriod{engine.BatchPeriodDaily, engine.BatchPeriodWeekly}, form.AllowedBatchPeriods)
	assert.Equal(t, "date", form.SelectedDatetime)
	assert.Equal(t, "sales", form.SelectedPredictable)
	assert.Equal(t, engine.BatchPeriodDaily, form.SelectedBatchPeriod)
	assert.Equal(t, engine.SelectionExclude, form.RowSelection.Mode)
	assert.Empty(t, form.RowSelection.IDs)
}

func TestPreprocessForm_ApplySheetClearsEmptySelections(t *testing.T) {
	t.Parallel()

	form := &PreprocessForm{
		SelectedDatetime:    "date",
		SelectedPredictable: "sales",
		SelectedBatchPeriod: engine.BatchPeriodDaily,
	}

	// A snapshot with empty selections wins wholesale; nothing survives
	// from before.
	form.ApplySheet(engine.SheetInfo{})

	assert.Empty(t, form.SelectedTab)
	assert.Empty(t, form.SelectedDatetime)
	assert.Empty(t, form.SelectedPredictable)
	assert.Empty(t, string(form.SelectedBatchPeriod))
}

func TestPreprocessForm_ColumnFilters(t *testing.T) {
	t.Parallel()

	form := &PreprocessForm{}
	form.ApplySheet(sampleSheet())

	datetime := form.DatetimeColumns()
	require.Len(t, datetime, 2)
	assert.Equal(t, "date", datetime[0].Field)
	assert.Equal(t, "updated", datetime[1].Field)

	predictable := form.PredictableColumns()
	require.Len(t, predictable, 2)
	assert.Equal(t, "sales", predictable[0].Field)
	assert.Equal(t, "cost", predictable[1].Field)
}

func TestPreprocessForm_AllowSubmit(t *testing.T) {
	t.Parallel()

	complete := func() *PreprocessForm {
		return &PreprocessForm{
			Rows:                make([]engine.Row, 5),
			SelectedDatetime:    "date",
			SelectedPredictable: "sales",
			SelectedBatchPeriod: engine.BatchPeriodDaily,
			RowSelection:        engine.RowSelection{IDs: []int{3}, Mode: engine.SelectionInclude},
		}
	}

	t.Run("all conditions met", func(t *testing.T) {
		assert.True(t, complete().AllowSubmit(true, false, false))
	})

	t.Run("disabled step", func(t *testing.T) {
		assert.False(t, complete().AllowSubmit(false, false, false))
	})

	t.Run("loading in flight", func(t *testing.T) {
		assert.False(t, complete().AllowSubmit(true, true, false))
	})

	t.Run("submit in flight", func(t *testing.T) {
		assert.False(t, complete().AllowSubmit(true, false, true))
	})

	t.Run("missing datetime column", func(t *testing.T) {
		form := complete()
		form.SelectedDatetime = ""
		assert.False(t, form.AllowSubmit(true, false, false))
	})

	t.Run("missing predictable column", func(t *testing.T) {
		form := complete()
		form.SelectedPredictable = ""
		assert.False(t, form.AllowSubmit(true, false, false))
	})

	t.Run("missing batch period", func(t *testing.T) {
		form := complete()
		form.SelectedBatchPeriod = ""
		assert.False(t, form.AllowSubmit(true, false, false))
	})

	t.Run("include with empty ids", func(t *testing.T) {
		form := complete()
		form.RowSelection = engine.RowSelection{IDs: []int{}, Mode: engine.SelectionInclude}
		assert.False(t, form.AllowSubmit(true, false, false))
	})

	t.Run("include with one id", func(t *testing.T) {
		form := complete()
		form.RowSelection = engine.RowSelection{IDs: []int{3}, Mode: engine.SelectionInclude}
		assert.True(t, form.AllowSubmit(true, false, false))
	})

	t.Run("exclude dropping every row", func(t *testing.T) {
		form := complete()
		form.RowSelection = engine.RowSelection{IDs: []int{0, 1, 2, 3, 4}, Mode: engine.SelectionExclude}
		assert.False(t, form.AllowSubmit(true, false, false))
	})

	t.Run("exclude keeping one row", func(t *testing.T) {
		form := complete()
		form.RowSelection = engine.RowSelection{IDs: []int{0, 1, 2, 3}, Mode: engine.SelectionExclude}
		assert.True(t, form.AllowSubmit(true, false, false))
	})

	t.Run("unset selection mode", func(t *testing.T) {
		form := complete()
		form.RowSelection = engine.RowSelection{IDs: []int{1}}
		assert.False(t, form.AllowSubmit(true, false, false))
	})
}

func TestPreprocessForm_ToggleRowAndFlipMode(t *testing.T) {
	t.Parallel()

	form := &PreprocessForm{}

	form.ToggleRow(3)
	assert.Equal(t, []int{3}, form.RowSelection.IDs)

	form.ToggleRow(7)
	assert.Equal(t, []int{3, 7}, form.RowSelection.IDs)

	form.ToggleRow(3)
	assert.Equal(t, []int{7}, form.RowSelection.IDs)

	form.FlipMode()
	assert.Equal(t, engine.SelectionInclude, form.RowSelection.Mode)
	form.FlipMode()
	assert.Equal(t, engine.SelectionExclude, form.RowSelection.Mode)
}

func TestPreprocessForm_BuildConfig(t *testing.T) {
	t.Parallel()

	form := &PreprocessForm{}
	form.ApplySheet(sampleSheet())
	form.ToggleRow(1)

	cfg := form.BuildConfig()
	assert.Equal(t, "Sheet1", cfg.TabName)
	assert.Equal(t, "date", cfg.DatetimeColumn)
	assert.Equal(t, "sales", cfg.PredictableColumn)
	assert.Equal(t, engine.BatchPeriodDaily, cfg.BatchPeriod)
	require.Equal(t, []int{1}, cfg.RowSelection.IDs)

	// The config is a snapshot: later edits must not leak into it.
	form.ToggleRow(2)
	assert.Equal(t, []int{1}, cfg.RowSelection.IDs)
}
