package insights

import (
	"math"

	"github.com/finsight/backend/internal/model"
)

// Mean returns the arithmetic mean of xs, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// StdDev returns the population standard deviation of xs (divide by N, not
// N-1), or 0 for an empty slice.
func StdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	mean := Mean(xs)
	var sumSq float64
	for _, x := range xs {
		d := x - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(xs)))
}

// CoefficientOfVariation returns stddev/mean, a scale-free measure of
// relative variability. A zero mean yields 0 rather than dividing by zero.
func CoefficientOfVariation(xs []float64) float64 {
	mean := Mean(xs)
	if mean == 0 {
		return 0
	}
	return StdDev(xs) / mean
}

// TrendSlope fits an ordinary-least-squares line to xs against index
// 0..n-1 and returns the slope normalized as (slope/mean)*100, i.e. percent
// change per step relative to the series mean. Degenerate input returns 0.
func TrendSlope(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}

	mean := Mean(xs)
	if mean == 0 {
		return 0
	}

	// OLS slope over indices 0..n-1.
	meanIdx := float64(n-1) / 2
	var num, den float64
	for i, x := range xs {
		di := float64(i) - meanIdx
		num += di * (x - mean)
		den += di * di
	}
	if den == 0 {
		return 0
	}

	slope := num / den
	return slope / mean * 100
}

// ClassifyTrend maps a normalized slope to a direction: above +5 is
// increasing, below -5 is decreasing, otherwise stable.
func ClassifyTrend(normalizedSlope float64) model.TrendDirection {
	switch {
	case normalizedSlope > 5:
		return model.TrendIncreasing
	case normalizedSlope < -5:
		return model.TrendDecreasing
	default:
		return model.TrendStable
	}
}
