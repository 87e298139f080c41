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
	"github.com/augurlabs/augur/internal/wizard"
)

// trainPointBuffer sizes the stream channel. Points arrive per epoch, so
// the buffer only has to absorb a burst while a frame renders.
const trainPointBuffer = 256

type trainSubscribedMsg struct {
	gen int
	ch  <-chan engine.ConfidencePoint
	sub *engine.Subscription
	err error
}

type trainSnapshotMsg struct {
	gen      int
	progress engine.TrainProgress
	err      error
}

type trainPointMsg struct {
	gen   int
	point engine.ConfidencePoint
}

// TrainStep is the third wizard stage. It is watch-only: activation pulls
// a one-time progress snapshot and subscribes to the live point stream,
// and the engine moves the wizard forward when training finishes. Snapshot
// and stream are applied in arrival order with no reconciliation.
type TrainStep struct {
	ctx    context.Context
	engine Engine

	width  int
	height int

	gen    int
	active bool
	series wizard.ConfidenceSeries
	endX   int

	ch   <-chan engine.ConfidencePoint
	sub  *engine.Subscription
	spin GradientSpinner
}

var _ Step = (*TrainStep)(nil)

// NewTrainStep creates the train step.
func NewTrainStep(ctx context.Context, eng Engine) *TrainStep {
	return &TrainStep{
		ctx:    ctx,
		engine: eng,
		series: wizard.NewConfidenceSeries(),
	}
}

// Title returns the step's display name.
func (t *TrainStep) Title() string {
	return "Train"
}

// Activate resets the series, subscribes to the point stream, and requests
// the progress snapshot.
func (t *TrainStep) Activate() tea.Cmd {
	t.gen++
	t.active = true
	t.series = wizard.NewConfidenceSeries()
	t.endX = 0
	t.disposeSub()

	th := theme.Current()
	t.spin = NewGradientSpinner(th.Secondary, th.Primary, "")

	gen := t.gen
	subscribe := func() tea.Msg {
		ch, sub, err := t.engine.SubscribeTrainPoints(trainPointBuffer)
		return trainSubscribedMsg{gen: gen, ch: ch, sub: sub, err: err}
	}
	snapshot := func() tea.Msg {
		progress, err := t.engine.TrainProgress(t.ctx)
		return trainSnapshotMsg{gen: gen, progress: progress, err: err}
	}
	return tea.Batch(subscribe, snapshot, t.spin.Tick())
}

// Deactivate drops the stream subscription and resets the series to the
// origin point.
func (t *TrainStep) Deactivate() {
	t.gen++
	t.active = false
	t.disposeSub()
	t.series.Clear()
	t.endX = 0
}

func (t *TrainStep) disposeSub() {
	if t.sub != nil {
		t.sub.Dispose()
		t.sub = nil
		t.ch = nil
	}
}

// SetSize updates the step dimensions.
func (t *TrainStep) SetSize(width, height int) {
	t.width = width
	t.height = height
}

// Update applies snapshots and stream points in arrival order.
func (t *TrainStep) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case trainSubscribedMsg:
		if msg.gen != t.gen {
			// The activation that wanted this interest is gone.
			if msg.sub != nil {
				msg.sub.Dispose()
			}
			return nil
		}
		if msg.err != nil {
			return nil
		}
		t.ch = msg.ch
		t.sub = msg.sub
		return waitForTrainPoint(msg.gen, msg.ch, msg.sub.Done())

	case trainSnapshotMsg:
		if msg.gen != t.gen {
			return nil
		}
		if msg.err != nil {
			return nil
		}
		t.endX = msg.progress.EndX
		t.series.SetSnapshot(msg.progress.ConfidencePoints)
		return nil

	case trainPointMsg:
		if msg.gen != t.gen {
			return nil
		}
		t.series.Append(msg.point)
		if t.ch == nil || t.sub == nil {
			return nil
		}
		return waitForTrainPoint(t.gen, t.ch, t.sub.Done())

	case GradientSpinnerMsg:
		if !t.active {
			return nil
		}
		return t.spin.Update(msg)
	}
	return nil
}

// waitForTrainPoint blocks on the next stream point, or ends the receive
// loop once the subscription is disposed.
func waitForTrainPoint(gen int, ch <-chan engine.ConfidencePoint, done <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case point := <-ch:
			return trainPointMsg{gen: gen, point: point}
		case <-done:
			return nil
		}
	}
}

// Draw renders the training progress view.
func (t *TrainStep) Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor {
	inner := InsetArea(area, 2, 1)
	if inner.Dx() <= 0 || inner.Dy() <= 0 {
		return nil
	}

	latest := t.series.Latest()

	lines := []string{
		styleStepText.Render("Training model ") + t.spin.View(),
		"",
	}

	if t.endX > 0 {
		lines = append(lines,
			styleStepMuted.Render("epoch ")+styleStepValue.Render(fmt.Sprintf("%d", latest.X))+
				styleStepMuted.Render(fmt.Sprintf(" of %d", t.endX))+
				"   "+
				styleStepMuted.Render("confidence ")+styleStepValue.Render(fmt.Sprintf("%.1f%%", latest.Y)),
			"",
			t.renderBar(inner.Dx()-2),
		)
	} else {
		lines = append(lines, styleStepMuted.Render("Waiting for training progress..."))
	}

	if t.series.Len() > 1 {
		lines = append(lines, "",
			styleStepMuted.Render("confidence history"),
			lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Current().Secondary)).Render(sparkline(t.series.Points(), inner.Dx()-2)),
		)
	}

	DrawText(scr, inner, lipgloss.JoinVertical(lipgloss.Left, lines...))
	return nil
}

// renderBar draws the epoch progress bar with a color gradient over the
// filled portion.
func (t *TrainStep) renderBar(width int) string {
	if width < 10 {
		width = 10
	}

	ratio := 0.0
	if t.endX > 0 {
		ratio = float64(t.series.Latest().X) / float64(t.endX)
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * float64(width))

	th := theme.Current()
	var b strings.Builder
	for i := 0; i < width; i++ {
		if i < filled {
			pos := float64(i) / float64(width-1)
			hex := theme.InterpolateColor(th.Secondary, th.Primary, pos)
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("█"))
		} else {
			b.WriteString(styleStepMuted.Render("░"))
		}
	}
	return b.String()
}

var sparkGlyphs = []rune("▁▂▃▄▅▆▇█")

// sparkline maps the most recent confidence values onto block glyphs, one
// cell per point.
func sparkline(points []engine.ConfidencePoint, width int) string {
	if width <= 0 || len(points) == 0 {
		return ""
	}
	if len(points) > width {
		points = points[len(points)-width:]
	}

	var b strings.Builder
	for _, p := range points {
		y := p.Y
		if y < 0 {
			y = 0
		}
		if y > 100 {
			y = 100
		}
		idx := int(y / 100 * float64(len(sparkGlyphs)-1))
		b.WriteRune(sparkGlyphs[idx])
	}
	return b.String()
}
