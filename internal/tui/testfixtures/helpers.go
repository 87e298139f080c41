package testfixtures

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	uv "github.com/charmbracelet/ultraviolet"
)

// Initialize test environment
func init() {
	// Ascii profile keeps rendered output stable across CI/platforms
	lipgloss.Writer.Profile = colorprofile.Ascii
}

// Canonical terminal size for all tests
const (
	TestTermWidth  = 120
	TestTermHeight = 40
)

// Render draws into a fresh canonical-size screen buffer and returns the
// rendered text. This consolidates the common pattern of:
//
//	canvas := uv.NewScreenBuffer(TestTermWidth, TestTermHeight)
//	component.Draw(canvas, canvas.Bounds())
//	content := canvas.Render()
func Render(draw func(scr uv.Screen, area uv.Rectangle)) string {
	canvas := uv.NewScreenBuffer(TestTermWidth, TestTermHeight)
	draw(canvas, canvas.Bounds())
	return canvas.Render()
}

// ErrEngine creates a scripted engine failure for the given operation.
// Useful for driving the error paths of steps and the controller.
func ErrEngine(op string) error {
	return fmt.Errorf("engine: %s failed", op)
}
