package tui

import (
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/glamour/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/augurlabs/augur/internal/tui/theme"
)

const helpMarkdown = `# augur

A four step forecasting wizard. The engine drives navigation; the panels
below slide into view as each stage finishes.

## Steps

1. **Data**: press ` + "`enter`" + ` to load the dataset.
2. **Preprocess**: pick the datetime column, the column to predict, a batch
   period, and the rows to keep. ` + "`tab`" + ` moves between fields,
   ` + "`←/→`" + ` changes the selected value, ` + "`↑/↓`" + ` moves the row
   cursor, ` + "`enter`" + ` toggles a row, ` + "`s`" + ` submits and starts
   training.
3. **Train**: watch confidence points stream in while the model trains.
4. **Evaluate**: review the prediction. ` + "`s`" + ` saves the workbook,
   ` + "`r`" + ` restarts from the beginning.

## Global keys

| Key | Action |
|-----|--------|
| ` + "`?`" + ` | toggle this help |
| ` + "`enter`" + `/` + "`space`" + ` | acknowledge a notification |
| ` + "`q`" + `, ` + "`ctrl+c`" + ` | quit |
`

// Help is a modal overlay rendering the key reference as markdown.
type Help struct {
	visible  bool
	viewport viewport.Model
	width    int
	height   int
}

// NewHelp creates the help overlay.
func NewHelp() *Help {
	vp := viewport.New(
		viewport.WithWidth(60),
		viewport.WithHeight(20),
	)
	return &Help{viewport: vp}
}

// Toggle flips visibility, re-rendering content when opening.
func (h *Help) Toggle() {
	h.visible = !h.visible
	if h.visible {
		h.viewport.SetContent(renderMarkdown(helpMarkdown, h.contentWidth()))
		h.viewport.GotoTop()
	}
}

// Hide closes the overlay.
func (h *Help) Hide() {
	h.visible = false
}

// IsVisible returns whether the overlay is open.
func (h *Help) IsVisible() bool {
	return h.visible
}

// SetSize updates the overlay dimensions.
func (h *Help) SetSize(width, height int) {
	h.width = width
	h.height = height

	h.viewport.SetWidth(h.contentWidth())
	vpHeight := height - 6
	if vpHeight < 5 {
		vpHeight = 5
	}
	h.viewport.SetHeight(vpHeight)
	if h.visible {
		h.viewport.SetContent(renderMarkdown(helpMarkdown, h.contentWidth()))
	}
}

func (h *Help) contentWidth() int {
	w := h.width - 8
	if w < 20 {
		w = 20
	}
	return w
}

// Update handles keys while the overlay is open. Esc and ? close it; the
// rest scroll the viewport.
func (h *Help) Update(msg tea.Msg) tea.Cmd {
	if !h.visible {
		return nil
	}

	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "esc", "?":
			h.Hide()
			return nil
		}
	}

	var cmd tea.Cmd
	h.viewport, cmd = h.viewport.Update(msg)
	return cmd
}

// Draw renders the overlay centered on screen.
func (h *Help) Draw(scr uv.Screen, area uv.Rectangle) {
	if !h.visible {
		return
	}

	t := theme.Current()
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.Primary)).
		Padding(0, 2)

	body := h.viewport.View()
	footer := RenderHintBar(KeyUpDown, "scroll", KeyEsc, "close")
	box := boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, body, "", footer))

	boxWidth := lipgloss.Width(box)
	boxHeight := lipgloss.Height(box)
	x := (area.Dx() - boxWidth) / 2
	y := (area.Dy() - boxHeight) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}

	boxArea := uv.Rectangle{
		Min: uv.Position{X: area.Min.X + x, Y: area.Min.Y + y},
		Max: uv.Position{X: area.Min.X + x + boxWidth, Y: area.Min.Y + y + boxHeight},
	}
	uv.NewStyledString(box).Draw(scr, boxArea)
}

// renderMarkdown renders markdown content with syntax highlighting using glamour.
// Falls back to plain text wrapping if rendering fails.
func renderMarkdown(content string, width int) string {
	// Cap width to 120 for readability
	if width > 120 {
		width = 120
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return wrapText(content, width)
	}

	rendered, err := r.Render(content)
	if err != nil {
		return wrapText(content, width)
	}

	// Remove trailing newline that glamour adds
	return strings.TrimSuffix(rendered, "\n")
}

// wrapText is the plain fallback when markdown rendering is unavailable.
func wrapText(content string, width int) string {
	if width <= 0 {
		return content
	}

	var out []string
	for _, line := range strings.Split(content, "\n") {
		for len(line) > width {
			cut := strings.LastIndex(line[:width], " ")
			if cut <= 0 {
				cut = width
			}
			out = append(out, line[:cut])
			line = strings.TrimLeft(line[cut:], " ")
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
