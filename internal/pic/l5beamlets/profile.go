package l5beamlets

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Interval is a closed index range into a profile.
type Interval struct {
	Lo int `json:"lo"`
	Hi int `json:"hi"`
}

// FWHM returns the half-maximum interval around peak: the outermost samples
// reached by walking away from the peak while the profile stays at or above
// half the peak value. A side that never drops below half ends at the profile
// boundary. The interval always contains peak.
func FWHM(profile []float64, peak int) Interval {
	if len(profile) == 0 || peak < 0 || peak >= len(profile) {
		return Interval{}
	}
	half := profile[peak] / 2
	lo := peak
	for lo > 0 && profile[lo-1] >= half {
		lo--
	}
	hi := peak
	for hi < len(profile)-1 && profile[hi+1] >= half {
		hi++
	}
	return Interval{Lo: lo, Hi: hi}
}

// Width returns the physical extent of iv on axis.
func Width(axis []float64, iv Interval) float64 {
	if len(axis) == 0 {
		return 0
	}
	return axis[iv.Hi] - axis[iv.Lo]
}

// RadialCutoff returns the smallest index at which the cumulative sum of the
// one-sided profile reaches fraction of its total. It returns the last index
// when rounding keeps the sum short of the target, and 0 for an empty or
// all-zero profile.
func RadialCutoff(profile []float64, fraction float64) int {
	if len(profile) == 0 {
		return 0
	}
	cum := floats.CumSum(make([]float64, len(profile)), profile)
	total := cum[len(cum)-1]
	if total == 0 {
		return 0
	}
	target := fraction * total
	for i, v := range cum {
		if v >= target {
			return i
		}
	}
	return len(profile) - 1
}

// Project sums |density| across each row, giving the longitudinal projection.
func Project(density mat.Matrix) []float64 {
	rows, cols := density.Dims()
	out := make([]float64, rows)
	for i := range rows {
		var s float64
		for j := range cols {
			s += math.Abs(density.At(i, j))
		}
		out[i] = s
	}
	return out
}

// Transverse sums |density| over rows start..stop inclusive, giving the
// one-sided transverse profile of a segment.
func Transverse(density mat.Matrix, start, stop int) []float64 {
	_, cols := density.Dims()
	out := make([]float64, cols)
	for i := start; i <= stop; i++ {
		for j := range cols {
			out[j] += math.Abs(density.At(i, j))
		}
	}
	return out
}
