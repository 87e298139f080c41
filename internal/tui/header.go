package tui

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/augurlabs/augur/internal/wizard"
)

// Header renders the top bar: product name, step breadcrumbs, and a badge
// with the number of pending notifications.
type Header struct {
	width        int
	stepIndex    int
	enablement   wizard.Enablement
	pendingCount int
}

// NewHeader creates a new Header component.
func NewHeader() *Header {
	return &Header{}
}

// Draw renders the header to the screen at the given area.
// Returns nil cursor since header is non-interactive.
func (h *Header) Draw(scr uv.Screen, area uv.Rectangle) *tea.Cursor {
	if area.Dy() < 1 {
		return nil
	}

	left := h.buildLeft()
	right := h.buildRight()

	content := h.buildHeader(left, right, area.Dx())
	DrawStyled(scr, area, styleHeader, content)

	return nil
}

// buildHeader combines left and right content with spacing.
func (h *Header) buildHeader(left, right string, totalWidth int) string {
	leftWidth := lipgloss.Width(left)
	rightWidth := lipgloss.Width(right)

	padding := totalWidth - leftWidth - rightWidth - 2 // -2 for side padding
	if padding < 1 {
		padding = 1
	}

	spacer := styleHeaderInfo.Render(fmt.Sprintf("%*s", padding, ""))
	return left + spacer + right
}

// buildLeft renders the product name and the step breadcrumbs.
func (h *Header) buildLeft() string {
	title := styleHeaderTitle.Render("augur")
	sep := styleHeaderSeparator.Render(" | ")

	left := title + sep
	for step := wizard.StepData; step < wizard.StepCount; step++ {
		if step > wizard.StepData {
			left += styleHeaderSeparator.Render(" › ")
		}

		name := wizard.StepName(step)
		switch {
		case !h.enablement.Enabled(step):
			left += styleCrumbDisabled.Render(name)
		case step == h.stepIndex:
			left += styleCrumbActive.Render(name)
		default:
			left += styleCrumbIdle.Render(name)
		}
	}
	return left
}

// buildRight renders the pending notification badge, if any.
func (h *Header) buildRight() string {
	if h.pendingCount == 0 {
		return ""
	}
	return styleBadgeError.Render(fmt.Sprintf("%d!", h.pendingCount))
}

// SetSize updates the header width.
func (h *Header) SetSize(width, height int) {
	h.width = width
}

// SetStep updates the highlighted breadcrumb and the step enablement.
func (h *Header) SetStep(index int) {
	h.stepIndex = index
	h.enablement = wizard.EnablementFor(index)
}

// SetPendingCount updates the notification badge.
func (h *Header) SetPendingCount(n int) {
	h.pendingCount = n
}

// Update handles messages. Header is static between state pushes.
func (h *Header) Update(msg tea.Msg) tea.Cmd {
	return nil
}

// Compile-time interface checks
var _ Component = (*Header)(nil)
