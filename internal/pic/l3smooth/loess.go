package l3smooth

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/pic.report/internal/pic/l2stats"
)

// maxCond rejects local fits whose design matrix is too ill-conditioned to
// trust; the fit then drops a polynomial degree.
const maxCond = 1e12

// WindowSamples converts a span expressed in plasma wavelengths into an odd
// number of samples on an axis with spacing dx. The result is at least 1.
func WindowSamples(span, lambda, dx float64) int {
	if span <= 0 || lambda <= 0 || dx <= 0 {
		return 1
	}
	n := int(math.Round(span * lambda / dx))
	if n < 1 {
		return 1
	}
	if n%2 == 0 {
		n++
	}
	return n
}

// Loess smooths signal with a window of the given number of samples and
// returns a new slice of the same length. Windows of 2 or fewer samples, and
// signals shorter than 3 samples, are returned as a copy.
func Loess(signal []float64, window int) []float64 {
	out := make([]float64, len(signal))
	copy(out, signal)
	if window <= 2 || len(signal) < 3 {
		return out
	}

	half := window / 2
	bandwidth := float64(half + 1)
	for i := range signal {
		lo := max(0, i-half)
		hi := min(len(signal)-1, i+half)
		out[i] = fitAt(signal, i, lo, hi, bandwidth)
	}
	return out
}

// fitAt evaluates the weighted local polynomial centred on sample i over
// signal[lo:hi+1].
func fitAt(signal []float64, i, lo, hi int, bandwidth float64) float64 {
	n := hi - lo + 1
	offsets := make([]float64, n)
	weights := make([]float64, n)
	for k := range n {
		d := float64(lo+k-i) / bandwidth
		offsets[k] = d
		weights[k] = tricube(d)
	}

	for degree := 2; degree >= 1; degree-- {
		if n <= degree {
			continue
		}
		if v, ok := polyFit(signal[lo:hi+1], offsets, weights, degree); ok {
			return v
		}
	}
	return l2stats.Mean(signal[lo:hi+1], weights)
}

// polyFit solves the weighted least squares problem for a polynomial of the
// given degree in the offsets and returns its value at offset 0.
func polyFit(y, offsets, weights []float64, degree int) (float64, bool) {
	n := len(y)
	cols := degree + 1
	a := mat.NewDense(n, cols, nil)
	b := mat.NewVecDense(n, nil)
	for r := range n {
		sw := math.Sqrt(weights[r])
		term := sw
		for c := range cols {
			a.Set(r, c, term)
			term *= offsets[r]
		}
		b.SetVec(r, sw*y[r])
	}

	var qr mat.QR
	qr.Factorize(a)
	if qr.Cond() > maxCond {
		return 0, false
	}
	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, b); err != nil {
		return 0, false
	}
	v := beta.AtVec(0)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func tricube(d float64) float64 {
	d = math.Abs(d)
	if d >= 1 {
		return 0
	}
	t := 1 - d*d*d
	return t * t * t
}
