package wizard

import "github.com/augurlabs/augur/internal/engine"

// ConfidenceSeries accumulates training confidence points in arrival
// order. A fresh series holds the single origin point (0, 0).
type ConfidenceSeries struct {
	points []engine.ConfidencePoint
}

// NewConfidenceSeries returns a series seeded with the origin point.
func NewConfidenceSeries() ConfidenceSeries {
	return ConfidenceSeries{points: []engine.ConfidencePoint{{X: 0, Y: 0}}}
}

// SetSnapshot replaces the whole series with the given points. An empty
// snapshot falls through to Clear, resetting to the origin.
func (s *ConfidenceSeries) SetSnapshot(points []engine.ConfidencePoint) {
	if len(points) == 0 {
		s.Clear()
		return
	}
	s.points = append([]engine.ConfidencePoint(nil), points...)
}

// Append adds one incoming point. Restart rule: when the series holds
// exactly one point at epoch 0 and the incoming point is also at epoch 0,
// a fresh training run has begun and the incoming point replaces the
// series outright. Everything else appends in arrival order.
func (s *ConfidenceSeries) Append(p engine.ConfidencePoint) {
	if len(s.points) == 1 && s.points[0].X == 0 && p.X == 0 {
		s.points = []engine.ConfidencePoint{p}
		return
	}
	s.points = append(s.points, p)
}

// Clear resets the series to the single origin point.
func (s *ConfidenceSeries) Clear() {
	s.points = []engine.ConfidencePoint{{X: 0, Y: 0}}
}

// Points returns the accumulated points. Callers must not mutate the
// returned slice.
func (s *ConfidenceSeries) Points() []engine.ConfidencePoint {
	return s.points
}

// Latest returns the most recently applied point.
func (s *ConfidenceSeries) Latest() engine.ConfidencePoint {
	if len(s.points) == 0 {
		return engine.ConfidencePoint{}
	}
	return s.points[len(s.points)-1]
}

// Len returns the number of accumulated points.
func (s *ConfidenceSeries) Len() int {
	return len(s.points)
}
