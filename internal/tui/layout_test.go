package tui

import (
	"testing"
)

// TestCalculateLayout_Standard tests layout at 80x24
func TestCalculateLayout_Standard(t *testing.T) {
	width, height := 80, 24
	layout := CalculateLayout(width, height)

	// Verify area dimensions
	if layout.Area.Dx() != width || layout.Area.Dy() != height {
		t.Errorf("Area size mismatch: got %dx%d, want %dx%d",
			layout.Area.Dx(), layout.Area.Dy(), width, height)
	}

	// Verify header height
	if layout.Header.Dy() != HeaderHeight {
		t.Errorf("Header height mismatch: got %d, want %d", layout.Header.Dy(), HeaderHeight)
	}

	// Verify footer height
	if layout.Footer.Dy() != FooterHeight {
		t.Errorf("Footer height mismatch: got %d, want %d", layout.Footer.Dy(), FooterHeight)
	}

	// Content takes everything between header and footer
	wantContent := height - HeaderHeight - FooterHeight
	if layout.Content.Dy() != wantContent {
		t.Errorf("Content height mismatch: got %d, want %d", layout.Content.Dy(), wantContent)
	}
	if layout.Content.Dx() != width {
		t.Errorf("Content width mismatch: got %d, want %d", layout.Content.Dx(), width)
	}

	if layout.TooSmall() {
		t.Error("80x24 should not be too small")
	}
}

// TestCalculateLayout_RegionsStack verifies the vertical stacking order
func TestCalculateLayout_RegionsStack(t *testing.T) {
	layout := CalculateLayout(100, 40)

	if layout.Header.Min.Y != 0 {
		t.Errorf("Header should start at row 0, got %d", layout.Header.Min.Y)
	}
	if layout.Content.Min.Y != layout.Header.Max.Y {
		t.Errorf("Content should start where header ends: content %d, header end %d",
			layout.Content.Min.Y, layout.Header.Max.Y)
	}
	if layout.Footer.Min.Y != layout.Content.Max.Y {
		t.Errorf("Footer should start where content ends: footer %d, content end %d",
			layout.Footer.Min.Y, layout.Content.Max.Y)
	}
	if layout.Footer.Max.Y != 40 {
		t.Errorf("Footer should end at the bottom row, got %d", layout.Footer.Max.Y)
	}
}

// TestCalculateLayout_Degenerate tests terminals too short for the chrome
func TestCalculateLayout_Degenerate(t *testing.T) {
	for _, height := range []int{0, 1, 2} {
		layout := CalculateLayout(80, height)

		// Everything goes to the content region
		if layout.Content.Dy() != height {
			t.Errorf("height %d: content should cover the whole area, got %d rows",
				height, layout.Content.Dy())
		}
		if layout.Header.Dy() != 0 || layout.Footer.Dy() != 0 {
			t.Errorf("height %d: header/footer should be empty, got %d/%d rows",
				height, layout.Header.Dy(), layout.Footer.Dy())
		}
	}
}

// TestLayout_TooSmall tests the minimum size guard
func TestLayout_TooSmall(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		tooSmall      bool
	}{
		{"comfortable", 120, 40, false},
		{"exactly minimum", MinWidth, MinHeight, false},
		{"too narrow", MinWidth - 1, 24, true},
		{"too short", 80, MinHeight - 1, true},
		{"tiny", 10, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := CalculateLayout(tt.width, tt.height)
			if layout.TooSmall() != tt.tooSmall {
				t.Errorf("TooSmall() at %dx%d: got %v, want %v",
					tt.width, tt.height, layout.TooSmall(), tt.tooSmall)
			}
		})
	}
}
