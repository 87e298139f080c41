package tui

import (
	"github.com/augurlabs/augur/internal/tui/theme"
)

// Standard key representations for consistent hints across the app.
const (
	KeyUpDown = "↑/↓"
	KeyArrows = "←/→"
	KeyEnter  = "enter"
	KeySpace  = "space"
	KeyEsc    = "esc"
	KeyTab    = "tab"
	KeyCtrlC  = "ctrl+c"
	KeyQ      = "q"
	KeyS      = "s"
	KeyR      = "r"
	KeyHelp   = "?"
)

// RenderHint renders a single key-description pair.
// Example: RenderHint("enter", "select") -> "enter select"
func RenderHint(key, desc string) string {
	s := theme.Current().S()
	return s.HintKey.Render(key) + " " + s.HintDesc.Render(desc)
}

// RenderHintBar renders a hint bar with multiple key-description pairs.
// Pairs are separated by " . " (bullet point separator).
// Example: RenderHintBar("up/down", "scroll", "enter", "select", "esc", "back")
// Returns: "up/down scroll . enter select . esc back"
func RenderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 != 0 {
		return ""
	}

	s := theme.Current().S()
	var result string

	for i := 0; i < len(pairs); i += 2 {
		key := pairs[i]
		desc := pairs[i+1]

		if i > 0 {
			result += " " + s.HintSeparator.Render(".") + " "
		}

		result += s.HintKey.Render(key) + " " + s.HintDesc.Render(desc)
	}

	return result
}

// Per-step hint bar presets, shown in the footer for the active step.

// HintData returns hints for the data step.
func HintData() string {
	return RenderHintBar(KeyEnter, "load data")
}

// HintPreprocess returns hints for the preprocess step.
func HintPreprocess() string {
	return RenderHintBar(KeyTab, "next field", KeyArrows, "change", KeyEnter, "toggle row", "m", "flip mode", KeyS, "submit")
}

// HintTrain returns hints for the train step, which is watch-only: the
// engine moves the wizard forward when training finishes.
func HintTrain() string {
	return ""
}

// HintEvaluate returns hints for the evaluate step.
func HintEvaluate() string {
	return RenderHintBar(KeyS, "save", KeyR, "restart")
}

// HintDialog returns hints shown while a notification dialog is open.
func HintDialog() string {
	return RenderHintBar(KeyEnter, "acknowledge")
}

// HintGlobal returns the trailing global hints.
func HintGlobal() string {
	return RenderHintBar(KeyHelp, "help", KeyQ, "quit")
}
