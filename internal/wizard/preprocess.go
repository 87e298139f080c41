package wizard

import "github.com/augurlabs/augur/internal/engine"

// PreprocessForm is the preprocess step's local selection state: the
// loaded sheet plus the user's column, period, and row choices. It is
// created on step activation, replaced wholesale by sheet snapshots, and
// discarded on deactivation.
type PreprocessForm struct {
	Name        string   // dataset name from get_data_info
	Tabs        []string // tab list, empty for single-sheet sources
	SelectedTab string

	Columns             []engine.ColumnInfo
	Rows                []engine.Row
	AllowedBatchPeriods []engine.BatchPeriod

	SelectedDatetime    string
	SelectedPredictable string
	SelectedBatchPeriod engine.BatchPeriod
	RowSelection        engine.RowSelection
}

// ApplySheet replaces every sheet-derived field at once from one engine
// snapshot. Partial merges never happen; the snapshot always wins
// wholesale, including clearing selections the snapshot leaves empty.
func (f *PreprocessForm) ApplySheet(sheet engine.SheetInfo) {
	f.SelectedTab = sheet.TabName
	f.Columns = sheet.Columns
	f.Rows = sheet.Rows
	f.AllowedBatchPeriods = sheet.AllowedBatchPeriods
	f.SelectedDatetime = sheet.SelectedDatetimeColumn
	f.SelectedPredictable = sheet.SelectedPredictableColumn
	f.SelectedBatchPeriod = sheet.SelectedBatchPeriod
	f.RowSelection = sheet.RowSelection
}

// Reset clears the form back to its activation entry state.
func (f *PreprocessForm) Reset() {
	*f = PreprocessForm{}
}

// DatetimeColumns returns exactly the columns tagged dateTime, the only
// ones the datetime selector may offer.
func (f *PreprocessForm) DatetimeColumns() []engine.ColumnInfo {
	return f.columnsOfType(engine.ColumnDateTime)
}

// PredictableColumns returns exactly the columns tagged number, the only
// ones the predictable selector may offer.
func (f *PreprocessForm) PredictableColumns() []engine.ColumnInfo {
	return f.columnsOfType(engine.ColumnNumber)
}

func (f *PreprocessForm) columnsOfType(t engine.ColumnType) []engine.ColumnInfo {
	var cols []engine.ColumnInfo
	for _, c := range f.Columns {
		if c.Type == t {
			cols = append(cols, c)
		}
	}
	return cols
}

// TotalRowCount returns the number of rows in the current sheet.
func (f *PreprocessForm) TotalRowCount() int {
	return len(f.Rows)
}

// AllowSubmit reports whether the submit action is available. All must
// hold: the step is enabled, no load or submit is in flight, a datetime
// column, predictable column, and batch period are chosen, and the row
// selection is non-trivial.
func (f *PreprocessForm) AllowSubmit(enabled, loading, submitting bool) bool {
	if !enabled || loading || submitting {
		return false
	}
	if f.SelectedDatetime == "" || f.SelectedPredictable == "" || f.SelectedBatchPeriod == "" {
		return false
	}
	return nonTrivialSelection(f.RowSelection, f.TotalRowCount())
}

// nonTrivialSelection rejects selections that train on nothing: an include
// set with no ids, or an exclude set dropping every row.
func nonTrivialSelection(sel engine.RowSelection, totalRows int) bool {
	switch sel.Mode {
	case engine.SelectionInclude:
		return len(sel.IDs) > 0
	case engine.SelectionExclude:
		return len(sel.IDs) != totalRows
	default:
		return false
	}
}

// ToggleRow adds the row id to the selection set, or removes it if already
// present.
func (f *PreprocessForm) ToggleRow(id int) {
	for i, existing := range f.RowSelection.IDs {
		if existing == id {
			f.RowSelection.IDs = append(f.RowSelection.IDs[:i], f.RowSelection.IDs[i+1:]...)
			return
		}
	}
	f.RowSelection.IDs = append(f.RowSelection.IDs, id)
}

// FlipMode switches the row selection between include and exclude.
func (f *PreprocessForm) FlipMode() {
	if f.RowSelection.Mode == engine.SelectionInclude {
		f.RowSelection.Mode = engine.SelectionExclude
	} else {
		f.RowSelection.Mode = engine.SelectionInclude
	}
}

// BuildConfig captures the immutable submit snapshot. The id set is copied
// so later edits to the form cannot reach into a submitted config. An
// empty TabName marks a single-sheet source and stays off the wire.
func (f *PreprocessForm) BuildConfig() engine.PreprocessConfig {
	return engine.PreprocessConfig{
		TabName:           f.SelectedTab,
		DatetimeColumn:    f.SelectedDatetime,
		PredictableColumn: f.SelectedPredictable,
		BatchPeriod:       f.SelectedBatchPeriod,
		RowSelection: engine.RowSelection{
			IDs:  append([]int(nil), f.RowSelection.IDs...),
			Mode: f.RowSelection.Mode,
		},
	}
}
