package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCarouselStartsIdle(t *testing.T) {
	t.Parallel()

	c := NewCarousel()
	c.SetViewportWidth(100)

	require.Equal(t, carouselIdle, c.state)
	require.Equal(t, 0, c.Index())
	require.Equal(t, 0, c.Offset())
}

func TestCarouselScrollToAnimatesTowardTarget(t *testing.T) {
	t.Parallel()

	c := NewCarousel()
	c.SetViewportWidth(100)

	cmd := c.ScrollTo(1)
	require.NotNil(t, cmd)
	require.Equal(t, carouselAnimating, c.state)
	require.Equal(t, 1, c.Index())

	// Halfway through the animation the offset is strictly between the
	// endpoints and the machine is still animating.
	c.animBegin = time.Now().Add(-carouselAnimDuration / 2)
	cmd = c.Update(carouselFrameMsg{gen: c.gen})
	require.NotNil(t, cmd)
	require.Equal(t, carouselAnimating, c.state)
	require.Greater(t, c.Offset(), 0)
	require.Less(t, c.Offset(), 100)
}

func TestCarouselAnimationSettlesThenWatchdogs(t *testing.T) {
	t.Parallel()

	c := NewCarousel()
	c.SetViewportWidth(100)
	_ = c.ScrollTo(1)

	// Expired animation clock: the next frame snaps to the target and
	// arms the settle timer.
	c.animBegin = time.Now().Add(-carouselAnimDuration)
	cmd := c.Update(carouselFrameMsg{gen: c.gen})
	require.NotNil(t, cmd)
	require.Equal(t, carouselSettling, c.state)
	require.Equal(t, 100, c.Offset())

	cmd = c.Update(carouselSettleMsg{gen: c.gen})
	require.NotNil(t, cmd)
	require.Equal(t, carouselWatchdog, c.state)

	// The watchdog keeps re-arming and pins the offset to the target.
	c.offset = 97
	cmd = c.Update(carouselWatchdogMsg{gen: c.gen})
	require.NotNil(t, cmd)
	require.Equal(t, carouselWatchdog, c.state)
	require.Equal(t, 100, c.Offset())
}

func TestCarouselNavigationCancelsPriorTimers(t *testing.T) {
	t.Parallel()

	c := NewCarousel()
	c.SetViewportWidth(100)

	_ = c.ScrollTo(1)
	staleGen := c.gen
	_ = c.ScrollTo(2)

	// Every timer armed for the first navigation is now stale and must
	// fall dead without touching the machine.
	c.animBegin = time.Now().Add(-carouselAnimDuration)
	require.Nil(t, c.Update(carouselFrameMsg{gen: staleGen}))
	require.Nil(t, c.Update(carouselSettleMsg{gen: staleGen}))
	require.Nil(t, c.Update(carouselWatchdogMsg{gen: staleGen}))
	require.Equal(t, carouselAnimating, c.state)
	require.Equal(t, 2, c.Index())

	// Driving the live generation to the watchdog corrects toward the
	// second target, never the first.
	require.NotNil(t, c.Update(carouselFrameMsg{gen: c.gen}))
	require.NotNil(t, c.Update(carouselSettleMsg{gen: c.gen}))
	require.Equal(t, carouselWatchdog, c.state)
	c.offset = 150
	require.NotNil(t, c.Update(carouselWatchdogMsg{gen: c.gen}))
	require.Equal(t, 200, c.Offset())
}

func TestCarouselIgnoresTimerMsgsInWrongState(t *testing.T) {
	t.Parallel()

	c := NewCarousel()
	c.SetViewportWidth(100)
	_ = c.ScrollTo(1)

	// Settle and watchdog messages for the live generation still require
	// the matching state.
	require.Nil(t, c.Update(carouselSettleMsg{gen: c.gen}))
	require.Nil(t, c.Update(carouselWatchdogMsg{gen: c.gen}))
	require.Equal(t, carouselAnimating, c.state)
}

func TestCarouselResizeForceCorrects(t *testing.T) {
	t.Parallel()

	c := NewCarousel()
	c.SetViewportWidth(100)
	_ = c.ScrollTo(2)

	// Mid-animation the offset lags the target; a resize recomputes the
	// target and jumps straight to it.
	c.animBegin = time.Now().Add(-carouselAnimDuration / 4)
	_ = c.Update(carouselFrameMsg{gen: c.gen})
	require.Less(t, c.Offset(), 200)

	c.SetViewportWidth(80)
	require.Equal(t, 160, c.Offset())
	require.Equal(t, carouselAnimating, c.state)
}

func TestCarouselWindowCutsViewport(t *testing.T) {
	t.Parallel()

	c := NewCarousel()
	c.SetViewportWidth(4)

	strip := "abcdefgh\nijklmnop"
	require.Equal(t, "abcd\nijkl", c.Window(strip))

	c.index = 1
	c.SetViewportWidth(4)
	require.Equal(t, "efgh\nmnop", c.Window(strip))
}

func TestCarouselWindowWithoutWidthPassesThrough(t *testing.T) {
	t.Parallel()

	c := NewCarousel()
	require.Equal(t, "abc", c.Window("abc"))
}
