package tui

import uv "github.com/charmbracelet/ultraviolet"

// Layout dimensions
const (
	// HeaderHeight is the height of the header bar in rows
	HeaderHeight = 1
	// FooterHeight is the height of the footer bar in rows
	FooterHeight = 1
	// MinWidth is the smallest terminal width the wizard renders into
	MinWidth = 40
	// MinHeight is the smallest terminal height the wizard renders into
	MinHeight = 10
)

// Layout defines the rectangular regions for all UI components
type Layout struct {
	Area    uv.Rectangle
	Header  uv.Rectangle
	Content uv.Rectangle
	Footer  uv.Rectangle
}

// TooSmall reports whether the terminal is below the minimum usable size.
func (l Layout) TooSmall() bool {
	return l.Area.Dx() < MinWidth || l.Area.Dy() < MinHeight
}

// CalculateLayout computes the layout rectangles based on terminal dimensions
func CalculateLayout(width, height int) Layout {
	area := uv.Rectangle{
		Max: uv.Position{X: width, Y: height},
	}

	if height <= HeaderHeight+FooterHeight {
		// Degenerate terminal: give everything to the content region.
		return Layout{Area: area, Content: area}
	}

	// Split vertically: header | content+footer
	headerRect, rest := uv.SplitVertical(area, uv.Fixed(HeaderHeight))

	// Split content+footer: content | footer
	contentRect, footerRect := uv.SplitVertical(rest, uv.Fixed(rest.Dy()-FooterHeight))

	return Layout{
		Area:    area,
		Header:  headerRect,
		Content: contentRect,
		Footer:  footerRect,
	}
}
