package tui

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
)

// dataLoadResultMsg reports that a load_data request settled. The outcome
// is deliberately absent: load failures arrive on the control stream as
// dialog errors, so the step only clears its busy flag.
type dataLoadResultMsg struct {
	gen int
}

// DataStep is the first wizard stage. It has a single action, asking the
// engine to open a dataset; the engine answers with a page event once
// parsing finishes, so the step never advances the wizard itself.
type DataStep struct {
	ctx    context.Context
	engine Engine

	width  int
	height int

	gen     int
	active  bool
	busy    bool
	spinner Spinner
}

var _ Step = (*DataStep)(nil)

// NewDataStep creates the data step.
func NewDataStep(ctx context.Context, eng Engine) *DataStep {
	return &DataStep{
		ctx:     ctx,
		engine:  eng,
		spinner: NewDefaultSpinner(),
	}
}

// Title returns the step's display name.
func (d *DataStep) Title() string {
	return "Data"
}

// Activate marks the step live. The data step has no startup request.
func (d *DataStep) Activate() tea.Cmd {
	d.gen++
	d.active = true
	d.busy = false
	return nil
}

// Deactivate invalidates any in-flight load result and resets the step.
func (d *DataStep) Deactivate() {
	d.gen++
	d.active = false
	d.busy = false
}

// SetSize updates the step dimensions.
func (d *DataStep) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// Update handles key presses and load results.
func (d *DataStep) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		if msg.String() == KeyEnter {
			return d.loadData()
		}
		return nil

	case dataLoadResultMsg:
		if msg.gen != d.gen {
			return nil
		}
		d.busy = false
		return nil
	}

	if d.busy {
		return d.spinner.Update(msg)
	}
	return nil
}

// loadData issues the load request. The busy flag blocks re-entry until
// the request settles, success or failure alike.
func (d *DataStep) loadData() tea.Cmd {
	if !d.active || d.busy {
		return nil
	}
	d.busy = true
	d.spinner = NewDefaultSpinner()

	gen := d.gen
	load := func() tea.Msg {
		// Failures surface on the control stream, not here.
		_ = d.engine.LoadData(d.ctx)
		return dataLoadResultMsg{gen: gen}
	}
	return tea.Batch(load, d.spinner.Tick())
}

// Draw renders the step content.
func (d *DataStep) Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor {
	inner := InsetArea(area, 2, 1)
	if inner.Dx() <= 0 || inner.Dy() <= 0 {
		return nil
	}

	lines := []string{
		styleStepText.Render("Pick a workbook to forecast from."),
		styleStepMuted.Render("The engine parses the sheet and moves the wizard forward once the data is ready."),
		"",
	}

	if d.busy {
		lines = append(lines, d.spinner.View()+" "+styleStepMuted.Render("Loading data..."))
	} else {
		action := styleFormValueFocused.Render(" Load data ")
		lines = append(lines, action+" "+styleStepMuted.Render("enter"))
	}

	DrawText(scr, inner, lipgloss.JoinVertical(lipgloss.Left, lines...))
	return nil
}
