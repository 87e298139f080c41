package tui

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/augurlabs/augur/internal/engine"
	"github.com/augurlabs/augur/internal/tui/theme"
)

// evalProgressBuffer sizes the progress stream channel.
const evalProgressBuffer = 64

// evalState is the evaluate step's two-phase lifecycle: predicting until
// the report arrives, then ready.
type evalState int

const (
	evalPredicting evalState = iota
	evalReady
)

func (s evalState) String() string {
	switch s {
	case evalPredicting:
		return "predicting"
	case evalReady:
		return "ready"
	default:
		return "unknown"
	}
}

type evalSubscribedMsg struct {
	gen int
	ch  <-chan float64
	sub *engine.Subscription
	err error
}

type evalProgressMsg struct {
	gen      int
	fraction float64
}

type evalReportMsg struct {
	gen    int
	report engine.EvaluationReport
	err    error
}

type saveResultMsg struct {
	gen int
	err error
}

// EvaluateStep is the final wizard stage. Every activation starts in
// Predicting, whatever state a previous visit reached: it subscribes to
// the fractional progress stream and requests the report once. The report
// response flips the step to Ready and drops the progress subscription.
// Ready offers saving the prediction and restarting the wizard.
type EvaluateStep struct {
	ctx    context.Context
	engine Engine

	width  int
	height int

	gen      int
	active   bool
	state    evalState
	fraction float64
	report   engine.EvaluationReport
	saving   bool

	ch      <-chan float64
	sub     *engine.Subscription
	spinner Spinner
}

var _ Step = (*EvaluateStep)(nil)

// NewEvaluateStep creates the evaluate step.
func NewEvaluateStep(ctx context.Context, eng Engine) *EvaluateStep {
	return &EvaluateStep{
		ctx:     ctx,
		engine:  eng,
		spinner: NewDefaultSpinner(),
	}
}

// Title returns the step's display name.
func (e *EvaluateStep) Title() string {
	return "Evaluate"
}

// Activate enters Predicting, subscribes to the progress stream, and
// requests the evaluation report.
func (e *EvaluateStep) Activate() tea.Cmd {
	e.gen++
	e.active = true
	e.state = evalPredicting
	e.fraction = 0
	e.report = engine.EvaluationReport{}
	e.saving = false
	e.disposeSub()
	e.spinner = NewDefaultSpinner()

	gen := e.gen
	subscribe := func() tea.Msg {
		ch, sub, err := e.engine.SubscribeEvalProgress(evalProgressBuffer)
		return evalSubscribedMsg{gen: gen, ch: ch, sub: sub, err: err}
	}
	fetch := func() tea.Msg {
		report, err := e.engine.Evaluation(e.ctx)
		return evalReportMsg{gen: gen, report: report, err: err}
	}
	return tea.Batch(subscribe, fetch, e.spinner.Tick())
}

// Deactivate drops the progress subscription and discards the report.
func (e *EvaluateStep) Deactivate() {
	e.gen++
	e.active = false
	e.state = evalPredicting
	e.fraction = 0
	e.report = engine.EvaluationReport{}
	e.saving = false
	e.disposeSub()
}

func (e *EvaluateStep) disposeSub() {
	if e.sub != nil {
		e.sub.Dispose()
		e.sub = nil
		e.ch = nil
	}
}

// SetSize updates the step dimensions.
func (e *EvaluateStep) SetSize(width, height int) {
	e.width = width
	e.height = height
}

// Update handles stream progress, the report response, and Ready actions.
func (e *EvaluateStep) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case evalSubscribedMsg:
		if msg.gen != e.gen {
			if msg.sub != nil {
				msg.sub.Dispose()
			}
			return nil
		}
		if msg.err != nil {
			return nil
		}
		e.ch = msg.ch
		e.sub = msg.sub
		return waitForEvalProgress(msg.gen, msg.ch, msg.sub.Done())

	case evalProgressMsg:
		if msg.gen != e.gen {
			return nil
		}
		e.fraction = msg.fraction
		if e.ch == nil || e.sub == nil {
			return nil
		}
		return waitForEvalProgress(e.gen, e.ch, e.sub.Done())

	case evalReportMsg:
		if msg.gen != e.gen {
			return nil
		}
		if msg.err != nil {
			// Failure surfaces on the control stream; stay in Predicting.
			return nil
		}
		e.report = msg.report
		e.state = evalReady
		e.disposeSub()
		return nil

	case saveResultMsg:
		if msg.gen != e.gen {
			return nil
		}
		e.saving = false
		return nil

	case tea.KeyPressMsg:
		return e.handleKey(msg)
	}

	if e.state == evalPredicting || e.saving {
		return e.spinner.Update(msg)
	}
	return nil
}

func (e *EvaluateStep) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if e.state != evalReady || e.saving {
		return nil
	}

	switch msg.String() {
	case KeyS:
		return e.save()
	case KeyR:
		return e.restart()
	}
	return nil
}

// save writes the prediction workbook. The saving flag blocks save and
// restart alike until the request settles.
func (e *EvaluateStep) save() tea.Cmd {
	e.saving = true
	e.spinner = NewDefaultSpinner()

	gen := e.gen
	send := func() tea.Msg {
		err := e.engine.SavePrediction(e.ctx)
		return saveResultMsg{gen: gen, err: err}
	}
	return tea.Batch(send, e.spinner.Tick())
}

// restart asks the engine to reset. The wizard rolls back only when the
// engine's page event arrives; there is no local state change here.
func (e *EvaluateStep) restart() tea.Cmd {
	return func() tea.Msg {
		_ = e.engine.Restart(e.ctx)
		return nil
	}
}

// waitForEvalProgress blocks on the next progress fraction, or ends the
// receive loop once the subscription is disposed.
func waitForEvalProgress(gen int, ch <-chan float64, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case fraction := <-ch:
			return evalProgressMsg{gen: gen, fraction: fraction}
		case <-done:
			return nil
		}
	}
}

// Draw renders the prediction progress or the finished report.
func (e *EvaluateStep) Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor {
	inner := InsetArea(area, 2, 1)
	if inner.Dx() <= 0 || inner.Dy() <= 0 {
		return nil
	}

	var lines []string
	if e.state == evalPredicting {
		lines = []string{
			e.spinner.View() + " " + styleStepText.Render("Predicting..."),
			"",
			styleStepMuted.Render("progress ") + styleStepValue.Render(fmt.Sprintf("%.2f%%", e.fraction*100)),
		}
	} else {
		lines = e.reportLines(inner.Dx() - 2)
	}

	DrawText(scr, inner, lipgloss.JoinVertical(lipgloss.Left, lines...))
	return nil
}

func (e *EvaluateStep) reportLines(width int) []string {
	lines := []string{
		styleStepMuted.Render("model confidence ") + styleStepValue.Render(fmt.Sprintf("%.1f%%", e.report.Confidence)),
		"",
	}

	if chart := e.renderGraph(width); chart != "" {
		historical, predicted := graphCounts(e.report.Graph)
		lines = append(lines,
			styleStepMuted.Render(fmt.Sprintf("forecast (%d historical, %d predicted)", historical, predicted)),
			chart,
			"",
		)
	}

	if peak := peakLine("high peak", e.report.HighPeak, styleStepSuccess); peak != "" {
		lines = append(lines, peak)
	}
	if peak := peakLine("low peak ", e.report.LowPeak, styleStepWarning); peak != "" {
		lines = append(lines, peak)
	}

	lines = append(lines, "")
	if e.saving {
		lines = append(lines, e.spinner.View()+" "+styleStepMuted.Render("Saving prediction..."))
	} else {
		lines = append(lines,
			styleFormValueFocused.Render(" Save prediction ")+" "+styleStepMuted.Render("s")+
				"   "+
				styleFormValue.Render(" Restart wizard ")+" "+styleStepMuted.Render("r"))
	}
	return lines
}

// renderGraph draws the predicted series as a sparkline scaled to its own
// min and max.
func (e *EvaluateStep) renderGraph(width int) string {
	var values []float64
	for _, pt := range e.report.Graph {
		if pt.Predicted != nil {
			values = append(values, *pt.Predicted)
		}
	}
	if len(values) == 0 {
		return ""
	}

	spark := scaledSparkline(values, width)
	return lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Current().Tertiary)).Render(spark)
}

func graphCounts(graph []engine.GraphPoint) (historical, predicted int) {
	for _, pt := range graph {
		if pt.Historical != nil {
			historical++
		}
		if pt.Predicted != nil {
			predicted++
		}
	}
	return historical, predicted
}

func peakLine(label string, pt *engine.GraphPoint, style lipgloss.Style) string {
	if pt == nil || pt.Predicted == nil {
		return ""
	}
	return style.Render(label) + " " +
		styleStepValue.Render(fmt.Sprintf("%.2f", *pt.Predicted)) + " " +
		styleStepMuted.Render("at "+pt.Timestamp)
}

// scaledSparkline maps values onto block glyphs scaled to the value range,
// sampling evenly when there are more values than cells.
func scaledSparkline(values []float64, width int) string {
	if width <= 0 || len(values) == 0 {
		return ""
	}

	samples := values
	if len(values) > width {
		samples = make([]float64, width)
		for i := range samples {
			samples[i] = values[i*len(values)/width]
		}
	}

	lo, hi := samples[0], samples[0]
	for _, v := range samples {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo

	var b strings.Builder
	for _, v := range samples {
		pos := 0.5
		if span > 0 {
			pos = (v - lo) / span
		}
		b.WriteRune(sparkGlyphs[int(pos*float64(len(sparkGlyphs)-1))])
	}
	return b.String()
}
