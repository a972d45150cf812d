package l2stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

func usable(values, weights []float64) bool {
	if len(values) == 0 || len(values) != len(weights) {
		return false
	}
	return floats.Sum(weights) != 0
}

// Mean returns Σ(v·w)/Σw.
func Mean(values, weights []float64) float64 {
	if !usable(values, weights) {
		return 0
	}
	return stat.Mean(values, weights)
}

// Std returns the population standard deviation under the given weights.
// Mixed-sign weights can produce a negative variance estimate, which is
// reported as 0.
func Std(values, weights []float64) float64 {
	_, std := MeanStd(values, weights)
	return std
}

// MeanStd returns the weighted mean and population standard deviation.
func MeanStd(values, weights []float64) (mean, std float64) {
	if !usable(values, weights) {
		return 0, 0
	}
	mean, variance := stat.PopMeanVariance(values, weights)
	if variance <= 0 || math.IsNaN(variance) {
		return mean, 0
	}
	return mean, math.Sqrt(variance)
}

// Percentile returns the p-th percentile (p in [0, 100], clamped) of values,
// linearly interpolated on the cumulative distribution of the absolute weights.
func Percentile(values []float64, p float64, weights []float64) float64 {
	if len(values) == 0 || len(values) != len(weights) {
		return 0
	}
	x := append([]float64(nil), values...)
	w := make([]float64, len(weights))
	for i, v := range weights {
		w[i] = math.Abs(v)
	}
	if floats.Sum(w) == 0 {
		return 0
	}
	stat.SortWeighted(x, w)

	// Drop zero-weight samples so interpolation only runs between populated values.
	keep := 0
	for i := range x {
		if w[i] > 0 {
			x[keep], w[keep] = x[i], w[i]
			keep++
		}
	}
	x, w = x[:keep], w[:keep]

	p = math.Max(0, math.Min(100, p)) / 100
	// stat.Quantile compares a running sum against p·floats.Sum(w); the two
	// sums round differently, so near the top the target can be unreachable.
	var cum float64
	for _, v := range w {
		cum += v
	}
	if p >= 1 || cum < p*floats.Sum(w) {
		return x[len(x)-1]
	}
	return stat.Quantile(p, stat.LinInterp, x, w)
}
