package tui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

// Carousel timing. Animation runs a fixed 500ms; after a further settle
// delay with no index change the watchdog starts force-correcting the
// offset every second until the next navigation.
const (
	carouselAnimDuration   = 500 * time.Millisecond
	carouselFrameInterval  = 50 * time.Millisecond
	carouselSettleDelay    = 500 * time.Millisecond
	carouselWatchdogPeriod = 1000 * time.Millisecond
)

type carouselState int

const (
	carouselIdle carouselState = iota
	carouselAnimating
	carouselSettling
	carouselWatchdog
)

func (s carouselState) String() string {
	switch s {
	case carouselIdle:
		return "idle"
	case carouselAnimating:
		return "animating"
	case carouselSettling:
		return "settling"
	case carouselWatchdog:
		return "watchdog"
	default:
		return "unknown"
	}
}

// Messages carry the generation they were scheduled under; a navigation
// bumps the generation so timers from a superseded index fall dead.
type carouselFrameMsg struct{ gen int }
type carouselSettleMsg struct{ gen int }
type carouselWatchdogMsg struct{ gen int }

// Carousel owns the horizontal scroll position of the step strip. The
// target offset is always index × viewport width; everything else is
// animation toward it and drift correction after it.
type Carousel struct {
	state         carouselState
	gen           int
	index         int
	viewportWidth int
	offset        float64
	animStart     float64
	animBegin     time.Time
}

// NewCarousel creates a carousel resting at the first step.
func NewCarousel() *Carousel {
	return &Carousel{}
}

// Index returns the step index the carousel is scrolled (or scrolling) to.
func (c *Carousel) Index() int {
	return c.index
}

// Offset returns the current scroll offset in cells.
func (c *Carousel) Offset() int {
	return int(c.offset + 0.5)
}

func (c *Carousel) target() float64 {
	return float64(c.index * c.viewportWidth)
}

// ScrollTo starts a smooth scroll to the given step index. Any running
// animation, settle timer, or watchdog belonging to the previous index is
// cancelled by the generation bump.
func (c *Carousel) ScrollTo(index int) tea.Cmd {
	c.gen++
	c.index = index
	c.state = carouselAnimating
	c.animStart = c.offset
	c.animBegin = time.Now()

	gen := c.gen
	return tea.Tick(carouselFrameInterval, func(time.Time) tea.Msg {
		return carouselFrameMsg{gen: gen}
	})
}

// SetViewportWidth applies a resize: the offset is force-corrected to the
// new target immediately, whatever state the machine is in.
func (c *Carousel) SetViewportWidth(width int) {
	c.viewportWidth = width
	c.offset = c.target()
	c.animStart = c.offset
}

// Update advances the state machine. Stale-generation messages are dropped
// so no timer ever acts on behalf of a superseded index.
func (c *Carousel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case carouselFrameMsg:
		if msg.gen != c.gen || c.state != carouselAnimating {
			return nil
		}
		elapsed := time.Since(c.animBegin)
		if elapsed >= carouselAnimDuration {
			c.offset = c.target()
			c.state = carouselSettling
			gen := c.gen
			return tea.Tick(carouselSettleDelay, func(time.Time) tea.Msg {
				return carouselSettleMsg{gen: gen}
			})
		}

		progress := float64(elapsed) / float64(carouselAnimDuration)
		c.offset = c.animStart + (c.target()-c.animStart)*easeOutCubic(progress)
		gen := c.gen
		return tea.Tick(carouselFrameInterval, func(time.Time) tea.Msg {
			return carouselFrameMsg{gen: gen}
		})

	case carouselSettleMsg:
		if msg.gen != c.gen || c.state != carouselSettling {
			return nil
		}
		c.state = carouselWatchdog
		c.offset = c.target()
		return c.watchdogTick()

	case carouselWatchdogMsg:
		if msg.gen != c.gen || c.state != carouselWatchdog {
			return nil
		}
		c.offset = c.target()
		return c.watchdogTick()
	}
	return nil
}

func (c *Carousel) watchdogTick() tea.Cmd {
	gen := c.gen
	return tea.Tick(carouselWatchdogPeriod, func(time.Time) tea.Msg {
		return carouselWatchdogMsg{gen: gen}
	})
}

// Window cuts the visible slice out of the rendered step strip. The strip
// is StepCount panels wide; the window is one viewport starting at the
// current offset.
func (c *Carousel) Window(strip string) string {
	if c.viewportWidth <= 0 {
		return strip
	}

	left := c.Offset()
	right := left + c.viewportWidth

	lines := strings.Split(strip, "\n")
	for i, line := range lines {
		lines[i] = ansi.Cut(line, left, right)
	}
	return strings.Join(lines, "\n")
}

func easeOutCubic(p float64) float64 {
	inv := 1 - p
	return 1 - inv*inv*inv
}
