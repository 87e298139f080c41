package enginesim

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/augurlabs/augur/internal/engine"
)

// confidenceAt produces the training confidence sample for one epoch: a
// saturating climb toward the plateau with a little noise, clamped to a
// percentage.
func confidenceAt(epoch, endX int, plateau float64, rng *rand.Rand) float64 {
	if endX <= 0 {
		endX = 1
	}
	progress := float64(epoch) / float64(endX)
	y := plateau*(1-math.Exp(-3.2*progress)) + rng.NormFloat64()*1.5
	if y < 0 {
		y = 0
	}
	if y > 100 {
		y = 100
	}
	return math.Round(y*100) / 100
}

// buildReport fits a linear trend to the selected series and extrapolates
// it over a forecast horizon. The report graph carries the historical
// series, a fitted overlay on its tail, and the forecast, with the peaks
// taken over the predicted values.
func buildReport(timestamps []string, values []float64, rng *rand.Rand) engine.EvaluationReport {
	n := len(values)
	if n == 0 {
		return engine.EvaluationReport{}
	}

	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}

	alpha, beta := stat.LinearRegression(xs, values, nil, false)

	residuals := make([]float64, n)
	for i := range values {
		residuals[i] = values[i] - (alpha + beta*xs[i])
	}
	residStd := stat.StdDev(residuals, nil)
	if math.IsNaN(residStd) {
		residStd = 0
	}

	confidence := stat.RSquared(xs, values, nil, alpha, beta) * 100
	if math.IsNaN(confidence) || confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}

	horizon := n / 5
	if horizon < 7 {
		horizon = 7
	}
	overlap := horizon / 2
	if overlap > n {
		overlap = n
	}

	predictAt := func(i int) float64 {
		y := alpha + beta*float64(i) + rng.NormFloat64()*residStd*0.4
		return math.Round(y*100) / 100
	}

	graph := make([]engine.GraphPoint, 0, n+horizon)
	for i := 0; i < n; i++ {
		historical := values[i]
		point := engine.GraphPoint{Timestamp: timestamps[i], Historical: &historical}
		if i >= n-overlap {
			predicted := predictAt(i)
			point.Predicted = &predicted
		}
		graph = append(graph, point)
	}
	for i := 0; i < horizon; i++ {
		predicted := predictAt(n + i)
		graph = append(graph, engine.GraphPoint{
			Timestamp: extendTimestamp(timestamps, i+1),
			Predicted: &predicted,
		})
	}

	report := engine.EvaluationReport{
		Confidence: math.Round(confidence*100) / 100,
		Graph:      graph,
	}
	report.HighPeak, report.LowPeak = predictedPeaks(graph)
	return report
}

// predictedPeaks finds the highest and lowest predicted points. Both are
// nil when the graph holds no predicted values.
func predictedPeaks(graph []engine.GraphPoint) (*engine.GraphPoint, *engine.GraphPoint) {
	var high, low *engine.GraphPoint
	for i := range graph {
		p := graph[i].Predicted
		if p == nil {
			continue
		}
		if high == nil || *p > *high.Predicted {
			point := graph[i]
			high = &point
		}
		if low == nil || *p < *low.Predicted {
			point := graph[i]
			low = &point
		}
	}
	return high, low
}

// extendTimestamp continues the daily timestamp sequence past its end,
// falling back to a bare offset when the source timestamps do not parse.
func extendTimestamp(timestamps []string, offset int) string {
	if len(timestamps) > 0 {
		if last, err := time.Parse("2006-01-02", timestamps[len(timestamps)-1]); err == nil {
			return last.AddDate(0, 0, offset).Format("2006-01-02")
		}
	}
	return fmt.Sprintf("t+%d", offset)
}
