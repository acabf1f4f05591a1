package forecast

import "github.com/boddenberg/cashflow-forecast-go/internal/domain"

// MovingAverage is the mean of the last window values. A window that is
// non-positive or longer than the series averages every value; an empty
// series yields 0.
func MovingAverage(values []float64, window int) float64 {
	if len(values) == 0 {
		return 0
	}
	if window <= 0 || window > len(values) {
		window = len(values)
	}
	return mean(values[len(values)-window:])
}

// EMA returns the exponential moving average series seeded with the first value.
func EMA(values []float64, alpha float64) []float64 {
	if len(values) == 0 {
		return []float64{}
	}
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// LinearSlope fits an ordinary least-squares line over (i, values[i]) and
// returns its slope. Degenerate inputs return 0.
func LinearSlope(values []float64) float64 {
	n := float64(len(values))
	if n < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}
	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

// ClassifyTrend labels a net-flow series by the slope of its regression line.
// Series shorter than TrendMinPoints are always stable.
func (e *Engine) ClassifyTrend(netFlows []float64) domain.Trend {
	if len(netFlows) < e.params.TrendMinPoints {
		return domain.TrendStable
	}
	slope := LinearSlope(netFlows)
	switch {
	case slope > e.params.TrendSlopeThreshold:
		return domain.TrendImproving
	case slope < -e.params.TrendSlopeThreshold:
		return domain.TrendDeclining
	default:
		return domain.TrendStable
	}
}

// trendAdjustment is the linear nudge applied on projection day d.
func (e *Engine) trendAdjustment(trend domain.Trend, day int) float64 {
	switch trend {
	case domain.TrendImproving:
		return e.params.TrendNudgePerDay * float64(day)
	case domain.TrendDeclining:
		return -e.params.TrendNudgePerDay * float64(day)
	default:
		return 0
	}
}
