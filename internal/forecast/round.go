package forecast

import (
	"math"

	"github.com/shopspring/decimal"
)

// roundMoney rounds a currency amount to whole units, half away from zero.
func roundMoney(v float64) float64 {
	return decimal.NewFromFloat(v).Round(0).InexactFloat64()
}

// roundConfidence keeps two decimal places.
func roundConfidence(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// roundDays rounds a mean interval to whole days.
func roundDays(v float64) int {
	return int(math.Round(v))
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// populationVariance is the mean squared deviation from the mean.
func populationVariance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(values))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
