package tui

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/augurlabs/augur/internal/engine"
	"github.com/augurlabs/augur/internal/wizard"
)

// preprocessInfoDelay is how long the step waits after activation before
// asking for data info. The engine may still be finishing the load when
// the page event arrives; no readiness event exists, so the fixed delay
// stands in for one.
const preprocessInfoDelay = 1000 * time.Millisecond

// preprocessFocus names the form field holding keyboard focus.
type preprocessFocus int

const (
	focusTabs preprocessFocus = iota
	focusDatetime
	focusPredictable
	focusPeriod
	focusRows
)

type preprocessDelayMsg struct {
	gen int
}

type preprocessInfoMsg struct {
	gen  int
	info engine.DataInfo
	err  error
}

type sheetResultMsg struct {
	gen   int
	sheet engine.SheetInfo
	err   error
}

type submitResultMsg struct {
	gen int
	err error
}

// PreprocessStep is the second wizard stage: choose the sheet tab, the
// datetime and predictable columns, the batch period, and the training
// rows, then submit. Sheet data always arrives as a full snapshot that
// replaces the form wholesale.
type PreprocessStep struct {
	ctx    context.Context
	engine Engine

	width  int
	height int

	gen        int
	active     bool
	loading    bool
	submitting bool

	form    wizard.PreprocessForm
	focus   preprocessFocus
	cursor  int
	rowTop  int
	spinner Spinner
}

var _ Step = (*PreprocessStep)(nil)

// NewPreprocessStep creates the preprocess step.
func NewPreprocessStep(ctx context.Context, eng Engine) *PreprocessStep {
	return &PreprocessStep{
		ctx:     ctx,
		engine:  eng,
		spinner: NewDefaultSpinner(),
	}
}

// Title returns the step's display name.
func (p *PreprocessStep) Title() string {
	return "Preprocess"
}

// Activate clears any previous sheet state and schedules the data-info
// request after the readiness delay. Deactivating before the delay fires
// means the request is never issued at all.
func (p *PreprocessStep) Activate() tea.Cmd {
	p.gen++
	p.active = true
	p.loading = true
	p.submitting = false
	p.form.Reset()
	p.focus = focusDatetime
	p.cursor = 0
	p.rowTop = 0
	p.spinner = NewDefaultSpinner()

	gen := p.gen
	delay := tea.Tick(preprocessInfoDelay, func(time.Time) tea.Msg {
		return preprocessDelayMsg{gen: gen}
	})
	return tea.Batch(delay, p.spinner.Tick())
}

// Deactivate invalidates the pending delay and every in-flight request,
// then discards the form.
func (p *PreprocessStep) Deactivate() {
	p.gen++
	p.active = false
	p.loading = false
	p.submitting = false
	p.form.Reset()
}

// SetSize updates the step dimensions.
func (p *PreprocessStep) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// Update handles timers, engine responses, and form keys.
func (p *PreprocessStep) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case preprocessDelayMsg:
		if msg.gen != p.gen {
			return nil
		}
		return p.fetchInfo()

	case preprocessInfoMsg:
		if msg.gen != p.gen {
			return nil
		}
		p.loading = false
		if msg.err != nil {
			return nil
		}
		p.form.Name = msg.info.Name
		p.form.Tabs = msg.info.Tabs
		p.form.ApplySheet(msg.info.SheetInfo)
		p.cursor = 0
		p.rowTop = 0
		if len(p.form.Tabs) > 0 {
			p.focus = focusTabs
		} else {
			p.focus = focusDatetime
		}
		return nil

	case sheetResultMsg:
		if msg.gen != p.gen {
			return nil
		}
		if msg.err != nil {
			return nil
		}
		p.form.ApplySheet(msg.sheet)
		p.cursor = 0
		p.rowTop = 0
		return nil

	case submitResultMsg:
		if msg.gen != p.gen {
			return nil
		}
		p.submitting = false
		if msg.err != nil {
			return nil
		}
		// Submit succeeded; kick off training. The engine answers with a
		// page event, so there is nothing to wait on here.
		return func() tea.Msg {
			_ = p.engine.StartTrain(p.ctx)
			return nil
		}

	case tea.KeyPressMsg:
		return p.handleKey(msg)
	}

	if p.loading || p.submitting {
		return p.spinner.Update(msg)
	}
	return nil
}

func (p *PreprocessStep) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if p.loading {
		return nil
	}

	switch msg.String() {
	case KeyTab:
		p.focus = p.nextFocus(1)
	case "shift+tab":
		p.focus = p.nextFocus(-1)
	case "left":
		return p.cycleField(-1)
	case "right":
		return p.cycleField(1)
	case "up":
		p.moveCursor(-1)
	case "down":
		p.moveCursor(1)
	case KeyEnter, KeySpace:
		if p.focus == focusRows && p.cursor < p.form.TotalRowCount() {
			p.form.ToggleRow(p.cursor)
		}
	case "m":
		if p.focus == focusRows {
			p.form.FlipMode()
		}
	case KeyS:
		return p.submit()
	}
	return nil
}

// nextFocus cycles field focus, skipping the tab selector when the source
// has a single sheet.
func (p *PreprocessStep) nextFocus(delta int) preprocessFocus {
	fields := []preprocessFocus{focusTabs, focusDatetime, focusPredictable, focusPeriod, focusRows}
	if len(p.form.Tabs) == 0 {
		fields = fields[1:]
	}

	idx := 0
	for i, f := range fields {
		if f == p.focus {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(fields)) % len(fields)
	return fields[idx]
}

// cycleField steps the focused selector through its options. A tab change
// goes through the engine; everything else is local until submit.
func (p *PreprocessStep) cycleField(delta int) tea.Cmd {
	switch p.focus {
	case focusTabs:
		next := cycleOption(p.form.Tabs, p.form.SelectedTab, delta)
		if next != p.form.SelectedTab {
			return p.selectSheet(next)
		}
	case focusDatetime:
		p.form.SelectedDatetime = cycleOption(columnFields(p.form.DatetimeColumns()), p.form.SelectedDatetime, delta)
	case focusPredictable:
		p.form.SelectedPredictable = cycleOption(columnFields(p.form.PredictableColumns()), p.form.SelectedPredictable, delta)
	case focusPeriod:
		p.form.SelectedBatchPeriod = cycleOption(p.form.AllowedBatchPeriods, p.form.SelectedBatchPeriod, delta)
	}
	return nil
}

func (p *PreprocessStep) moveCursor(delta int) {
	if p.focus != focusRows {
		return
	}
	p.cursor += delta
	if p.cursor < 0 {
		p.cursor = 0
	}
	if max := p.form.TotalRowCount() - 1; p.cursor > max && max >= 0 {
		p.cursor = max
	}
}

func (p *PreprocessStep) fetchInfo() tea.Cmd {
	gen := p.gen
	return func() tea.Msg {
		info, err := p.engine.DataInfo(p.ctx)
		return preprocessInfoMsg{gen: gen, info: info, err: err}
	}
}

func (p *PreprocessStep) selectSheet(tab string) tea.Cmd {
	gen := p.gen
	return func() tea.Msg {
		sheet, err := p.engine.SelectSheet(p.ctx, tab)
		return sheetResultMsg{gen: gen, sheet: sheet, err: err}
	}
}

// submit sends the frozen config. The submitting flag clears when the
// submit call settles whatever the outcome; training is chained only on
// success.
func (p *PreprocessStep) submit() tea.Cmd {
	if !p.form.AllowSubmit(p.active, p.loading, p.submitting) {
		return nil
	}
	p.submitting = true
	cfg := p.form.BuildConfig()

	gen := p.gen
	send := func() tea.Msg {
		err := p.engine.SubmitPreprocessConfig(p.ctx, cfg)
		return submitResultMsg{gen: gen, err: err}
	}
	return tea.Batch(send, p.spinner.Tick())
}

// Draw renders the form and the row list.
func (p *PreprocessStep) Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor {
	inner := InsetArea(area, 2, 1)
	if inner.Dx() <= 0 || inner.Dy() <= 0 {
		return nil
	}

	if p.loading {
		DrawText(scr, inner, p.spinner.View()+" "+styleStepMuted.Render("Fetching data info..."))
		return nil
	}

	lines := p.formLines()
	lines = append(lines, "")
	lines = append(lines, p.rowLines(inner.Dy()-len(lines)-1)...)
	lines = append(lines, p.statusLine())

	DrawText(scr, inner, lipgloss.JoinVertical(lipgloss.Left, lines...))
	return nil
}

func (p *PreprocessStep) formLines() []string {
	lines := []string{
		styleFormLabel.Render("Dataset") + "      " + styleStepValue.Render(p.form.Name),
	}
	if len(p.form.Tabs) > 0 {
		lines = append(lines, p.selectorLine("Tab", p.form.SelectedTab, focusTabs, "choose a tab"))
	}
	lines = append(lines,
		p.selectorLine("Datetime", p.form.SelectedDatetime, focusDatetime, "no dateTime column chosen"),
		p.selectorLine("Predictable", p.form.SelectedPredictable, focusPredictable, "no number column chosen"),
		p.selectorLine("Period", string(p.form.SelectedBatchPeriod), focusPeriod, "no batch period chosen"),
	)
	return lines
}

func (p *PreprocessStep) selectorLine(label, value string, field preprocessFocus, placeholder string) string {
	labelStyle := styleFormLabel
	valueStyle := styleFormValue
	if p.focus == field {
		labelStyle = styleFormLabelFocused
		valueStyle = styleFormValueFocused
	}

	paddedLabel := labelStyle.Render(fmt.Sprintf("%-12s", label))
	if value == "" {
		return paddedLabel + " " + styleFormPlaceholder.Render(placeholder)
	}
	return paddedLabel + " " + valueStyle.Render("‹ "+value+" ›")
}

// rowLines renders the visible window of the row list, keeping the cursor
// on screen.
func (p *PreprocessStep) rowLines(visible int) []string {
	total := p.form.TotalRowCount()

	labelStyle := styleFormLabel
	if p.focus == focusRows {
		labelStyle = styleFormLabelFocused
	}
	header := labelStyle.Render(fmt.Sprintf("Rows (%s, %d of %d selected)",
		p.form.RowSelection.Mode, p.selectedCount(), total))

	if total == 0 {
		return []string{header, styleStepMuted.Render("  no rows")}
	}

	visible-- // header line
	if visible < 1 {
		visible = 1
	}
	if p.cursor < p.rowTop {
		p.rowTop = p.cursor
	}
	if p.cursor >= p.rowTop+visible {
		p.rowTop = p.cursor - visible + 1
	}
	end := p.rowTop + visible
	if end > total {
		end = total
	}

	lines := []string{header}
	for i := p.rowTop; i < end; i++ {
		lines = append(lines, p.rowLine(i))
	}
	return lines
}

func (p *PreprocessStep) rowLine(id int) string {
	included := p.rowIncluded(id)

	mark := "[ ]"
	style := styleRowExcluded
	if included {
		mark = "[x]"
		style = styleRowIncluded
	}

	cursor := "  "
	if p.focus == focusRows && id == p.cursor {
		cursor = styleRowCursor.Render("> ")
		style = style.Bold(true)
	}

	text := fmt.Sprintf("%s %s", mark, p.rowSummary(id))
	width := p.width - 8
	if width > 0 {
		text = ansi.Truncate(text, width, "…")
	}
	return cursor + style.Render(text)
}

// rowIncluded resolves the selection mode: an include set names the kept
// rows, an exclude set names the dropped ones.
func (p *PreprocessStep) rowIncluded(id int) bool {
	listed := false
	for _, sel := range p.form.RowSelection.IDs {
		if sel == id {
			listed = true
			break
		}
	}
	if p.form.RowSelection.Mode == engine.SelectionInclude {
		return listed
	}
	return !listed
}

func (p *PreprocessStep) selectedCount() int {
	total := p.form.TotalRowCount()
	listed := len(p.form.RowSelection.IDs)
	if p.form.RowSelection.Mode == engine.SelectionInclude {
		return listed
	}
	return total - listed
}

func (p *PreprocessStep) rowSummary(id int) string {
	row := p.form.Rows[id]
	out := ""
	for i, col := range p.form.Columns {
		if i > 0 {
			out += "  "
		}
		out += fmt.Sprintf("%v", row[col.Field])
	}
	return out
}

func (p *PreprocessStep) statusLine() string {
	if p.submitting {
		return p.spinner.View() + " " + styleStepMuted.Render("Submitting configuration...")
	}
	if p.form.AllowSubmit(p.active, p.loading, p.submitting) {
		return styleStepSuccess.Render("Ready.") + " " + styleStepMuted.Render("Press s to start training.")
	}
	return styleStepMuted.Render("Choose datetime, predictable, and period, and keep at least one row.")
}

// cycleOption steps through options relative to the current value. An
// unknown current value lands on the first (or last) option.
func cycleOption[T comparable](options []T, current T, delta int) T {
	if len(options) == 0 {
		return current
	}

	idx := -1
	for i, o := range options {
		if o == current {
			idx = i
			break
		}
	}
	if idx == -1 {
		if delta < 0 {
			return options[len(options)-1]
		}
		return options[0]
	}
	idx = (idx + delta + len(options)) % len(options)
	return options[idx]
}

// columnFields projects columns to their field keys for cycling.
func columnFields(cols []engine.ColumnInfo) []string {
	fields := make([]string, len(cols))
	for i, c := range cols {
		fields[i] = c.Field
	}
	return fields
}
