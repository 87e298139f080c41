package engine

// Wire types shared between the wizard UI and the computation engine.
// Everything crossing the bus is JSON with camelCase field names.

// ColumnType tags a spreadsheet column. The values travel on the wire,
// lowercase except for the dateTime special case.
type ColumnType string

const (
	ColumnString   ColumnType = "string"
	ColumnNumber   ColumnType = "number"
	ColumnDateTime ColumnType = "dateTime"
	ColumnBoolean  ColumnType = "boolean"
)

// BatchPeriod is the recurrence granularity used to bucket the predictable
// series for training.
type BatchPeriod string

const (
	BatchPeriodMinutely BatchPeriod = "minutely"
	BatchPeriodHourly   BatchPeriod = "hourly"
	BatchPeriodDaily    BatchPeriod = "daily"
	BatchPeriodWeekly   BatchPeriod = "weekly"
	BatchPeriodMonthly  BatchPeriod = "monthly"
	BatchPeriodYearly   BatchPeriod = "yearly"
)

// AllBatchPeriods lists every period in display order.
var AllBatchPeriods = []BatchPeriod{
	BatchPeriodMinutely,
	BatchPeriodHourly,
	BatchPeriodDaily,
	BatchPeriodWeekly,
	BatchPeriodMonthly,
	BatchPeriodYearly,
}

// SelectionMode says whether the row id set names the rows to keep or the
// rows to drop.
type SelectionMode string

const (
	SelectionInclude SelectionMode = "include"
	SelectionExclude SelectionMode = "exclude"
)

// Notification is an engine-reported error surfaced to the user one at a
// time through the dialog queue.
type Notification struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

// ColumnInfo describes one column of the loaded sheet. Field is the unique
// key used in row records; HeaderName is what the user sees.
type ColumnInfo struct {
	Field      string     `json:"field"`
	HeaderName string     `json:"headerName"`
	Type       ColumnType `json:"type"`
}

// Row is one record of the sheet, keyed by column field.
type Row map[string]any

// RowSelection names the rows taking part in training.
type RowSelection struct {
	IDs  []int         `json:"ids"`
	Mode SelectionMode `json:"type"`
}

// SheetInfo is the engine's full snapshot of one sheet plus its current
// selections. Receiving one replaces all preprocess-local state at once.
type SheetInfo struct {
	TabName                   string        `json:"tabName,omitempty"`
	Columns                   []ColumnInfo  `json:"columns"`
	Rows                      []Row         `json:"rows"`
	AllowedBatchPeriods       []BatchPeriod `json:"allowedBatchPeriods"`
	SelectedDatetimeColumn    string        `json:"selectedDatetimeColumn"`
	SelectedPredictableColumn string        `json:"selectedPredictableColumn"`
	SelectedBatchPeriod       BatchPeriod   `json:"selectedBatchPeriod"`
	RowSelection              RowSelection  `json:"rowSelection"`
}

// DataInfo is the get_data_info response: the dataset name, the tab list
// for multi-sheet sources (absent for single-sheet ones), and the first
// sheet's snapshot.
type DataInfo struct {
	Name      string    `json:"name"`
	Tabs      []string  `json:"tabs,omitempty"`
	SheetInfo SheetInfo `json:"sheetInfo"`
}

// PreprocessConfig is the immutable snapshot built at submit time.
// TabName is omitted entirely for single-sheet sources.
type PreprocessConfig struct {
	TabName           string       `json:"tabName,omitempty"`
	DatetimeColumn    string       `json:"datetimeColumn"`
	PredictableColumn string       `json:"predictableColumn"`
	BatchPeriod       BatchPeriod  `json:"batchPeriod"`
	RowSelection      RowSelection `json:"rowSelection"`
}

// ConfidencePoint is one (epoch index, confidence percent) training sample.
type ConfidencePoint struct {
	X int     `json:"x"`
	Y float64 `json:"y"`
}

// TrainProgress is the get_train_progress response: the target epoch count
// and every confidence point emitted so far.
type TrainProgress struct {
	EndX             int               `json:"endX"`
	ConfidencePoints []ConfidencePoint `json:"confidencePoints"`
}

// GraphPoint is one sample of the evaluation graph. Historical and
// Predicted are independently optional: the historical tail has no
// prediction and the forecast horizon has no historical value.
type GraphPoint struct {
	Timestamp  string   `json:"timestamp"`
	Historical *float64 `json:"historical,omitempty"`
	Predicted  *float64 `json:"predicted,omitempty"`
}

// EvaluationReport is the get_evaluation response. Peaks are computed by
// the engine over the predicted series and may be absent independently.
type EvaluationReport struct {
	Confidence float64      `json:"confidence"`
	Graph      []GraphPoint `json:"graph"`
	HighPeak   *GraphPoint  `json:"highPeak,omitempty"`
	LowPeak    *GraphPoint  `json:"lowPeak,omitempty"`
}
