package theme

import (
	"testing"
)

// TestCatppuccinMocha_ColorPalette verifies the catppuccin_mocha color values
func TestCatppuccinMocha_ColorPalette(t *testing.T) {
	t.Parallel()

	th := Current()
	if th.Name != "catppuccin-mocha" {
		t.Fatalf("expected catppuccin-mocha theme, got %s", th.Name)
	}
	if !th.IsDark {
		t.Error("catppuccin-mocha is a dark theme")
	}

	// Verify key color values match catppuccin mocha palette
	// Reference: https://github.com/catppuccin/catppuccin
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		// Semantic colors
		{"Primary (Mauve)", th.Primary, "#cba6f7"},
		{"Secondary (Blue)", th.Secondary, "#89b4fa"},
		{"Tertiary (Lavender)", th.Tertiary, "#b4befe"},

		// Background hierarchy
		{"BgCrust", th.BgCrust, "#11111b"},
		{"BgMantle", th.BgMantle, "#181825"},
		{"BgBase", th.BgBase, "#1e1e2e"},
		{"BgSurface0", th.BgSurface0, "#313244"},
		{"BgSurface1", th.BgSurface1, "#45475a"},
		{"BgSurface2", th.BgSurface2, "#585b70"},

		// Foreground hierarchy
		{"FgMuted (Overlay0)", th.FgMuted, "#6c7086"},
		{"FgSubtle (Subtext0)", th.FgSubtle, "#a6adc8"},
		{"FgBase (Text)", th.FgBase, "#cdd6f4"},
		{"FgBright (Rosewater)", th.FgBright, "#f5e0dc"},

		// Status colors
		{"Success (Green)", th.Success, "#a6e3a1"},
		{"Warning (Yellow)", th.Warning, "#f9e2af"},
		{"Error (Red)", th.Error, "#f38ba8"},
		{"Info (Sky)", th.Info, "#89dceb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %s, want %s", tt.got, tt.expected)
			}
		})
	}
}

func TestInterpolateColor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		pos      float64
		expected string
	}{
		{"start", 0.0, "#000000"},
		{"end", 1.0, "#ffffff"},
		{"midpoint", 0.5, "#7f7f7f"},
		{"clamped below", -1.0, "#000000"},
		{"clamped above", 2.0, "#ffffff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InterpolateColor("#000000", "#ffffff", tt.pos)
			if got != tt.expected {
				t.Errorf("pos %v: got %s, want %s", tt.pos, got, tt.expected)
			}
		})
	}
}

func TestParseHexColorRoundTrip(t *testing.T) {
	t.Parallel()

	for _, hex := range []string{"#cba6f7", "#11111b", "#a6e3a1"} {
		r, g, b := ParseHexColor(hex)
		if got := FormatHexColor(r, g, b); got != hex {
			t.Errorf("round trip of %s produced %s", hex, got)
		}
	}
}

func TestApplyGradient(t *testing.T) {
	t.Parallel()

	if got := ApplyGradient("", "#000000", "#ffffff"); got != "" {
		t.Errorf("empty text should stay empty, got %q", got)
	}

	// Single rune sits at the start of the blend; longer text keeps every rune.
	if got := ApplyGradient("x", "#cba6f7", "#89b4fa"); got == "" {
		t.Error("single rune gradient should render")
	}
	got := ApplyGradient("augur", "#cba6f7", "#89b4fa")
	for _, r := range "augur" {
		if !containsRune(got, r) {
			t.Errorf("gradient output lost rune %q", r)
		}
	}
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}
