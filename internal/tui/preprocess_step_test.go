package tui

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/stretchr/testify/require"

	"github.com/augurlabs/augur/internal/engine"
	"github.com/augurlabs/augur/internal/tui/testfixtures"
)

// loadPreprocess activates the step and walks it through the readiness
// delay and the data-info response.
func loadPreprocess(t *testing.T, step *PreprocessStep) {
	t.Helper()
	_ = step.Activate()
	cmd := step.Update(preprocessDelayMsg{gen: step.gen})
	require.NotNil(t, cmd)
	info, ok := msgOfType[preprocessInfoMsg](execCmd(cmd))
	require.True(t, ok)
	step.Update(info)
	require.False(t, step.loading)
}

// fillForm completes the column and period selectors through the key
// handler, leaving the form submittable.
func fillForm(t *testing.T, step *PreprocessStep) {
	t.Helper()
	step.focus = focusDatetime
	_ = step.Update(tea.KeyPressMsg{Text: "right"})
	_ = step.Update(tea.KeyPressMsg{Text: "tab"})
	_ = step.Update(tea.KeyPressMsg{Text: "right"})
	_ = step.Update(tea.KeyPressMsg{Text: "tab"})
	_ = step.Update(tea.KeyPressMsg{Text: "right"})
	require.True(t, step.form.AllowSubmit(step.active, step.loading, step.submitting))
}

func TestPreprocessFetchesInfoAfterDelay(t *testing.T) {
	t.Parallel()

	eng := testfixtures.NewMockEngine()
	eng.Info = testfixtures.QuarterlyDataInfo()
	step := NewPreprocessStep(context.Background(), eng)

	_ = step.Activate()
	require.True(t, step.loading)
	require.Equal(t, 0, eng.DataInfoCalls())

	cmd := step.Update(preprocessDelayMsg{gen: step.gen})
	info, ok := msgOfType[preprocessInfoMsg](execCmd(cmd))
	require.True(t, ok)
	require.Equal(t, 1, eng.DataInfoCalls())

	step.Update(info)
	require.False(t, step.loading)
	require.Equal(t, testfixtures.FixedDatasetName, step.form.Name)
	require.Equal(t, []string{testfixtures.FixedTabNorth, testfixtures.FixedTabSouth}, step.form.Tabs)
	require.Equal(t, testfixtures.FixedTabNorth, step.form.SelectedTab)
	require.Equal(t, focusTabs, step.focus)
}

func TestPreprocessDeactivateBeforeDelayCancelsFetch(t *testing.T) {
	t.Parallel()

	eng := testfixtures.NewMockEngine()
	eng.Info = testfixtures.QuarterlyDataInfo()
	step := NewPreprocessStep(context.Background(), eng)

	_ = step.Activate()
	stale := preprocessDelayMsg{gen: step.gen}
	step.Deactivate()

	// The delay timer fires after the user has already left; the request
	// must never be issued.
	require.Nil(t, step.Update(stale))
	require.Equal(t, 0, eng.DataInfoCalls())
}

func TestPreprocessReactivationDiscardsOldInfo(t *testing.T) {
	t.Parallel()

	eng := testfixtures.NewMockEngine()
	eng.Info = testfixtures.QuarterlyDataInfo()
	step := NewPreprocessStep(context.Background(), eng)

	_ = step.Activate()
	cmd := step.Update(preprocessDelayMsg{gen: step.gen})
	staleInfo, ok := msgOfType[preprocessInfoMsg](execCmd(cmd))
	require.True(t, ok)

	// The user leaves and returns before the first response lands. The
	// new visit must only ever show the fresh fetch.
	step.Deactivate()
	_ = step.Activate()

	step.Update(staleInfo)
	require.True(t, step.loading)
	require.Empty(t, step.form.Name)

	fresh := testfixtures.SingleSheetDataInfo()
	fresh.Name = "wind-speeds"
	eng.Info = fresh
	cmd = step.Update(preprocessDelayMsg{gen: step.gen})
	info, ok := msgOfType[preprocessInfoMsg](execCmd(cmd))
	require.True(t, ok)
	step.Update(info)

	require.Equal(t, "wind-speeds", step.form.Name)
	require.Empty(t, step.form.Tabs)
	require.Equal(t, focusDatetime, step.focus)
}

func TestPreprocessInfoErrorLeavesFormEmpty(t *testing.T) {
	t.Parallel()

	// The engine reports the failure on the control stream; the step just
	// stops spinning over an empty form.
	eng := testfixtures.NewMockEngine()
	eng.InfoErr = testfixtures.ErrEngine("get_data_info")
	step := NewPreprocessStep(context.Background(), eng)

	_ = step.Activate()
	cmd := step.Update(preprocessDelayMsg{gen: step.gen})
	info, ok := msgOfType[preprocessInfoMsg](execCmd(cmd))
	require.True(t, ok)
	require.Error(t, info.err)

	step.Update(info)
	require.False(t, step.loading)
	require.Empty(t, step.form.Name)
}

func TestPreprocessTabSwitchAppliesSnapshotWholesale(t *testing.T) {
	t.Parallel()

	eng := testfixtures.NewMockEngine()
	eng.Info = testfixtures.QuarterlyDataInfo()
	eng.Sheet = testfixtures.SouthSheet()
	step := NewPreprocessStep(context.Background(), eng)
	loadPreprocess(t, step)

	// A local row edit made before the switch.
	step.focus = focusRows
	_ = step.Update(tea.KeyPressMsg{Text: "enter"})
	require.Equal(t, []int{0}, step.form.RowSelection.IDs)

	step.focus = focusTabs
	cmd := step.Update(tea.KeyPressMsg{Text: "right"})
	require.NotNil(t, cmd)
	result, ok := msgOfType[sheetResultMsg](execCmd(cmd))
	require.True(t, ok)
	require.Equal(t, []string{testfixtures.FixedTabSouth}, eng.SelectedTabs())

	step.Update(result)

	// The snapshot replaces every sheet-derived field, including the row
	// edit and the empty selections it ships.
	require.Equal(t, testfixtures.FixedTabSouth, step.form.SelectedTab)
	require.Len(t, step.form.Rows, 2)
	require.Equal(t, "date", step.form.SelectedDatetime)
	require.Equal(t, "sales", step.form.SelectedPredictable)
	require.Equal(t, engine.BatchPeriodDaily, step.form.SelectedBatchPeriod)
	require.Empty(t, step.form.RowSelection.IDs)
	require.Equal(t, 0, step.cursor)
}

func TestPreprocessTabCycleWithoutChangeSkipsEngine(t *testing.T) {
	t.Parallel()

	eng := testfixtures.NewMockEngine()
	info := testfixtures.QuarterlyDataInfo()
	info.Tabs = []string{testfixtures.FixedTabNorth}
	eng.Info = info
	step := NewPreprocessStep(context.Background(), eng)
	loadPreprocess(t, step)

	step.focus = focusTabs
	require.Nil(t, step.Update(tea.KeyPressMsg{Text: "right"}))
	require.Empty(t, eng.SelectedTabs())
}

func TestPreprocessFocusSkipsTabsForSingleSheet(t *testing.T) {
	t.Parallel()

	eng := testfixtures.NewMockEngine()
	eng.Info = testfixtures.SingleSheetDataInfo()
	step := NewPreprocessStep(context.Background(), eng)
	loadPreprocess(t, step)

	require.Equal(t, focusDatetime, step.focus)
	_ = step.Update(tea.KeyPressMsg{Text: "tab"})
	require.Equal(t, focusPredictable, step.focus)
	_ = step.Update(tea.KeyPressMsg{Text: "shift+tab"})
	require.Equal(t, focusDatetime, step.focus)
	_ = step.Update(tea.KeyPressMsg{Text: "shift+tab"})
	require.Equal(t, focusRows, step.focus)
}

func TestPreprocessRowToggleAndModeFlip(t *testing.T) {
	t.Parallel()

	eng := testfixtures.NewMockEngine()
	eng.Info = testfixtures.QuarterlyDataInfo()
	step := NewPreprocessStep(context.Background(), eng)
	loadPreprocess(t, step)

	// The sheet opens in exclude mode with nothing listed: all rows in.
	step.focus = focusRows
	require.True(t, step.rowIncluded(0))
	require.Equal(t, 3, step.selectedCount())

	_ = step.Update(tea.KeyPressMsg{Text: "enter"})
	require.False(t, step.rowIncluded(0))
	require.Equal(t, 2, step.selectedCount())

	// Flipping to include keeps the id list; row 0 is now the only one in.
	_ = step.Update(tea.KeyPressMsg{Text: "m"})
	require.True(t, step.rowIncluded(0))
	require.Equal(t, 1, step.selectedCount())

	// Toggling again removes it from the list.
	_ = step.Update(tea.KeyPressMsg{Text: "space"})
	require.False(t, step.rowIncluded(0))
	require.Equal(t, 0, step.selectedCount())
}

func TestPreprocessCursorClampsToRows(t *testing.T) {
	t.Parallel()

	eng := testfixtures.NewMockEngine()
	eng.Info = testfixtures.QuarterlyDataInfo()
	step := NewPreprocessStep(context.Background(), eng)
	loadPreprocess(t, step)
	step.focus = focusRows

	for i := 0; i < 5; i++ {
		_ = step.Update(tea.KeyPressMsg{Text: "down"})
	}
	require.Equal(t, 2, step.cursor)

	for i := 0; i < 5; i++ {
		_ = step.Update(tea.KeyPressMsg{Text: "up"})
	}
	require.Equal(t, 0, step.cursor)
}

func TestPreprocessSubmitGatedUntilFormComplete(t *testing.T) {
	t.Parallel()

	eng := testfixtures.NewMockEngine()
	eng.Info = testfixtures.QuarterlyDataInfo()
	step := NewPreprocessStep(context.Background(), eng)
	loadPreprocess(t, step)

	// No columns chosen yet.
	require.Nil(t, step.Update(tea.KeyPressMsg{Text: "s"}))
	require.False(t, step.submitting)
	require.Empty(t, eng.Submitted())

	fillForm(t, step)
	cmd := step.Update(tea.KeyPressMsg{Text: "s"})
	require.NotNil(t, cmd)
	require.True(t, step.submitting)

	result, ok := msgOfType[submitResultMsg](execCmd(cmd))
	require.True(t, ok)
	require.Len(t, eng.Submitted(), 1)

	cfg := eng.Submitted()[0]
	require.Equal(t, testfixtures.FixedTabNorth, cfg.TabName)
	require.Equal(t, "date", cfg.DatetimeColumn)
	require.Equal(t, "sales", cfg.PredictableColumn)
	require.Equal(t, engine.BatchPeriodDaily, cfg.BatchPeriod)
	require.Equal(t, engine.SelectionExclude, cfg.RowSelection.Mode)

	// Settling the submit clears the flag and chains the training kick.
	chain := step.Update(result)
	require.False(t, step.submitting)
	require.NotNil(t, chain)
	execCmd(chain)
	require.Equal(t, 1, eng.StartTrainCalls())
}

func TestPreprocessSubmitFailureDoesNotStartTraining(t *testing.T) {
	t.Parallel()

	eng := testfixtures.NewMockEngine()
	eng.Info = testfixtures.QuarterlyDataInfo()
	eng.SubmitErr = testfixtures.ErrEngine("submit_preprocess_config")
	step := NewPreprocessStep(context.Background(), eng)
	loadPreprocess(t, step)
	fillForm(t, step)

	cmd := step.Update(tea.KeyPressMsg{Text: "s"})
	result, ok := msgOfType[submitResultMsg](execCmd(cmd))
	require.True(t, ok)
	require.Error(t, result.err)

	chain := step.Update(result)
	require.False(t, step.submitting)
	require.Nil(t, chain)
	require.Equal(t, 0, eng.StartTrainCalls())
}

func TestPreprocessSubmitResultAfterLeaveIsDropped(t *testing.T) {
	t.Parallel()

	eng := testfixtures.NewMockEngine()
	eng.Info = testfixtures.QuarterlyDataInfo()
	step := NewPreprocessStep(context.Background(), eng)
	loadPreprocess(t, step)
	fillForm(t, step)

	cmd := step.Update(tea.KeyPressMsg{Text: "s"})
	result, ok := msgOfType[submitResultMsg](execCmd(cmd))
	require.True(t, ok)

	// Leaving the step while the submit is in flight drops the pending
	// chain; training must not start for a page the user left.
	step.Deactivate()
	require.Nil(t, step.Update(result))
	require.Equal(t, 0, eng.StartTrainCalls())
}

func TestPreprocessKeysBlockedWhileLoading(t *testing.T) {
	t.Parallel()

	eng := testfixtures.NewMockEngine()
	eng.Info = testfixtures.QuarterlyDataInfo()
	step := NewPreprocessStep(context.Background(), eng)
	_ = step.Activate()

	require.Nil(t, step.Update(tea.KeyPressMsg{Text: "s"}))
	require.Nil(t, step.Update(tea.KeyPressMsg{Text: "tab"}))
	require.Equal(t, focusDatetime, step.focus)
	require.Empty(t, eng.Submitted())
}

func TestPreprocessDrawStates(t *testing.T) {
	t.Parallel()

	eng := testfixtures.NewMockEngine()
	eng.Info = testfixtures.QuarterlyDataInfo()
	step := NewPreprocessStep(context.Background(), eng)
	step.SetSize(testfixtures.TestTermWidth, testfixtures.TestTermHeight)

	_ = step.Activate()
	loading := testfixtures.Render(func(scr uv.Screen, area uv.Rectangle) {
		step.Draw(scr, area)
	})
	require.Contains(t, loading, "Fetching data info...")

	cmd := step.Update(preprocessDelayMsg{gen: step.gen})
	info, _ := msgOfType[preprocessInfoMsg](execCmd(cmd))
	step.Update(info)

	loaded := testfixtures.Render(func(scr uv.Screen, area uv.Rectangle) {
		step.Draw(scr, area)
	})
	require.Contains(t, loaded, "Dataset")
	require.Contains(t, loaded, testfixtures.FixedDatasetName)
	require.Contains(t, loaded, "‹ "+testfixtures.FixedTabNorth+" ›")
	require.Contains(t, loaded, "no dateTime column chosen")
	require.Contains(t, loaded, "Rows (exclude, 3 of 3 selected)")

	fillForm(t, step)
	ready := testfixtures.Render(func(scr uv.Screen, area uv.Rectangle) {
		step.Draw(scr, area)
	})
	require.Contains(t, ready, "Ready.")
	require.Contains(t, ready, "Press s to start training.")
}
