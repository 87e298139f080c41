package tui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/augurlabs/augur/internal/wizard"
)

// Footer renders the bottom bar with the active step's key hints.
type Footer struct {
	width       int
	stepIndex   int
	dialogOpen  bool
	helpVisible bool
}

// NewFooter creates a new Footer component.
func NewFooter() *Footer {
	return &Footer{}
}

// Draw renders the footer to the screen at the given area.
// Returns nil cursor since footer is non-interactive.
func (f *Footer) Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor {
	if area.Dy() < 1 {
		return nil
	}

	content := f.buildFooterContent(area.Dx())
	DrawStyled(scr, area, styleFooter, content)

	return nil
}

// buildFooterContent creates the footer text with navigation hints.
func (f *Footer) buildFooterContent(availableWidth int) string {
	left := f.stepHints()
	right := HintGlobal()

	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(right)
	padding := availableWidth - leftWidth - rightWidth - 2 // -2 for side padding
	if padding < 2 {
		padding = 2
	}

	content := left + strings.Repeat(" ", padding) + right

	// Condense on narrow terminals
	if lipgloss.Width(content) > availableWidth {
		return right
	}
	return content
}

// stepHints picks the hint bar for the current mode and step.
func (f *Footer) stepHints() string {
	if f.dialogOpen {
		return HintDialog()
	}
	if f.helpVisible {
		return RenderHintBar(KeyUpDown, "scroll", KeyEsc, "close")
	}

	switch f.stepIndex {
	case wizard.StepData:
		return HintData()
	case wizard.StepPreprocess:
		return HintPreprocess()
	case wizard.StepTrain:
		return HintTrain()
	case wizard.StepEvaluate:
		return HintEvaluate()
	default:
		return ""
	}
}

// SetSize updates the footer width.
func (f *Footer) SetSize(width, height int) {
	f.width = width
}

// SetStep updates which step's hints are shown.
func (f *Footer) SetStep(index int) {
	f.stepIndex = index
}

// SetDialogOpen switches the hints to the notification dialog's.
func (f *Footer) SetDialogOpen(open bool) {
	f.dialogOpen = open
}

// SetHelpVisible switches the hints to the help overlay's.
func (f *Footer) SetHelpVisible(visible bool) {
	f.helpVisible = visible
}

// Update handles messages. Footer is static between state pushes.
func (f *Footer) Update(msg tea.Msg) tea.Cmd {
	return nil
}

// Compile-time interface check
var _ Component = (*Footer)(nil)
