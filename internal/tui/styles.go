package tui

import (
	"charm.land/lipgloss/v2"

	"github.com/augurlabs/augur/internal/tui/theme"
)

// palette is the active theme. Component files never hardcode hex values;
// everything routes through here or theme.Current().S().
var palette = theme.Current()

// ============================================================================
// STYLE DEFINITIONS
// ============================================================================
//
// USAGE GUIDELINES:
//
//	styleHeader*  - top bar: product name, dataset name, step breadcrumbs
//	styleFooter*  - bottom bar: per-step key hints
//	stylePanel*   - step panel title rows inside the carousel strip
//	styleForm*    - preprocess form fields (label/value/focus states)
//	styleStep*    - step body text in its various states
//
// ============================================================================
var (
	// Header styles
	styleHeader = lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.FgBright)).
			Background(lipgloss.Color(palette.BgMantle)).
			Padding(0, 1)

	styleHeaderTitle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(palette.Primary)).
				Background(lipgloss.Color(palette.BgMantle)).
				Bold(true)

	styleHeaderSeparator = lipgloss.NewStyle().
				Foreground(lipgloss.Color(palette.BgSurface2)).
				Background(lipgloss.Color(palette.BgMantle))

	styleHeaderInfo = lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.FgSubtle)).
			Background(lipgloss.Color(palette.BgMantle))

	styleCrumbActive = lipgloss.NewStyle().
				Foreground(lipgloss.Color(palette.Primary)).
				Background(lipgloss.Color(palette.BgMantle)).
				Bold(true)

	styleCrumbIdle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.FgSubtle)).
			Background(lipgloss.Color(palette.BgMantle))

	styleCrumbDisabled = lipgloss.NewStyle().
				Foreground(lipgloss.Color(palette.FgMuted)).
				Background(lipgloss.Color(palette.BgMantle))

	styleBadgeError = lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.BgBase)).
			Background(lipgloss.Color(palette.Error)).
			Padding(0, 1).
			Bold(true)

	// Footer styles
	styleFooter = lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.FgSubtle)).
			Background(lipgloss.Color(palette.BgMantle)).
			Padding(0, 1)

	styleFooterKey = lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.Secondary)).
			Background(lipgloss.Color(palette.BgMantle))

	styleFooterLabel = lipgloss.NewStyle().
				Foreground(lipgloss.Color(palette.FgMuted)).
				Background(lipgloss.Color(palette.BgMantle))

	// Panel title styles (carousel strip)
	stylePanelTitle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.FgSubtle)).
			Bold(true)

	stylePanelTitleFocused = lipgloss.NewStyle().
				Foreground(lipgloss.Color(palette.Primary)).
				Bold(true)

	stylePanelRule = lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.BgSurface1))

	stylePanelRuleFocused = lipgloss.NewStyle().
				Foreground(lipgloss.Color(palette.Primary))

	// Step body styles
	styleStepText = lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.FgBase))

	styleStepMuted = lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.FgMuted))

	styleStepDisabled = lipgloss.NewStyle().
				Foreground(lipgloss.Color(palette.BgSurface2))

	styleStepSuccess = lipgloss.NewStyle().
				Foreground(lipgloss.Color(palette.Success))

	styleStepWarning = lipgloss.NewStyle().
				Foreground(lipgloss.Color(palette.Warning))

	styleStepError = lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.Error))

	styleStepValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.FgBright)).
			Bold(true)

	// Preprocess form styles
	styleFormLabel = lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.FgSubtle))

	styleFormLabelFocused = lipgloss.NewStyle().
				Foreground(lipgloss.Color(palette.Primary)).
				Bold(true)

	styleFormValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.FgBase))

	styleFormValueFocused = lipgloss.NewStyle().
				Foreground(lipgloss.Color(palette.FgBright)).
				Background(lipgloss.Color(palette.BgSurface0))

	styleFormPlaceholder = lipgloss.NewStyle().
				Foreground(lipgloss.Color(palette.FgMuted)).
				Italic(true)

	styleRowIncluded = lipgloss.NewStyle().
				Foreground(lipgloss.Color(palette.FgBase))

	styleRowExcluded = lipgloss.NewStyle().
				Foreground(lipgloss.Color(palette.FgMuted)).
				Strikethrough(true)

	styleRowCursor = lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.FgBright)).
			Background(lipgloss.Color(palette.BgSurface0))

	// Scroll indicator style
	styleScrollIndicator = lipgloss.NewStyle().
				Foreground(lipgloss.Color(palette.FgMuted)).
				Background(lipgloss.Color(palette.BgSurface0))

	// Divider style
	styleDivider = lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.BgSurface1))
)
