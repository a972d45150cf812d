package l2stats

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniform(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1
	}
	return w
}

func TestMeanUniformWeights(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, n := range []int{1, 2, 7, 100, 1001} {
		values := make([]float64, n)
		var sum float64
		for i := range values {
			values[i] = rng.NormFloat64()*10 + 4
			sum += values[i]
		}
		assert.InDelta(t, sum/float64(n), Mean(values, uniform(n)), 1e-9, "n=%d", n)
	}
}

func TestMeanWeighted(t *testing.T) {
	assert.InDelta(t, 2.5, Mean([]float64{1, 2, 3}, []float64{0, 1, 1}), 1e-12)
	assert.InDelta(t, 3.0, Mean([]float64{1, 3}, []float64{0, 5}), 1e-12)
}

func TestDegenerateInputsReturnZero(t *testing.T) {
	tests := []struct {
		name    string
		values  []float64
		weights []float64
	}{
		{"empty", nil, nil},
		{"zero weights", []float64{1, 2, 3}, []float64{0, 0, 0}},
		{"mismatched", []float64{1, 2, 3}, []float64{1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Zero(t, Mean(tt.values, tt.weights))
			assert.Zero(t, Std(tt.values, tt.weights))
			assert.Zero(t, Percentile(tt.values, 50, tt.weights))
		})
	}
}

func TestCancellingWeights(t *testing.T) {
	values := []float64{1, 2}
	weights := []float64{1, -1}
	assert.Zero(t, Mean(values, weights))
	assert.Zero(t, Std(values, weights))
	// Percentile works on absolute weights, so it stays defined.
	assert.Equal(t, 1.0, Percentile(values, 50, weights))
}

func TestStd(t *testing.T) {
	// Population std of {2,4,4,4,5,5,7,9} is exactly 2.
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 2.0, Std(values, uniform(len(values))), 1e-12)

	mean, std := MeanStd(values, uniform(len(values)))
	assert.InDelta(t, 5.0, mean, 1e-12)
	assert.InDelta(t, 2.0, std, 1e-12)

	assert.Zero(t, Std([]float64{3, 3, 3}, uniform(3)))
}

func TestStdNeverNaN(t *testing.T) {
	std := Std([]float64{0, 10, 20}, []float64{-1, 3, -1})
	assert.False(t, math.IsNaN(std))
	assert.GreaterOrEqual(t, std, 0.0)
}

func TestPercentileMedian(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for _, n := range []int{1, 5, 51, 400} {
		values := make([]float64, n)
		for i := range values {
			values[i] = rng.Float64() * 100
		}
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)
		var median float64
		if n%2 == 1 {
			median = sorted[n/2]
		} else {
			median = (sorted[n/2-1] + sorted[n/2]) / 2
		}
		// Interpolation lands within one neighbouring sample of the median.
		tol := 1e-9
		if n > 1 {
			tol = sorted[n/2] - sorted[n/2-1] + 1e-9
		}
		assert.InDelta(t, median, Percentile(values, 50, uniform(n)), tol, "n=%d", n)
	}
}

func TestPercentileBounds(t *testing.T) {
	values := []float64{5, 1, 4, 2, 3}
	w := uniform(len(values))
	assert.Equal(t, 1.0, Percentile(values, 0, w))
	assert.Equal(t, 5.0, Percentile(values, 100, w))
	assert.Equal(t, 1.0, Percentile(values, -20, w))
	assert.Equal(t, 5.0, Percentile(values, 250, w))
	assert.Equal(t, []float64{5, 1, 4, 2, 3}, values, "input must not be reordered")
}

func TestPercentileTopWithInexactWeights(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 2000; trial++ {
		n := 1 + rng.Intn(40)
		values := make([]float64, n)
		w := make([]float64, n)
		for i := range values {
			values[i] = rng.NormFloat64()
			w[i] = rng.Float64() * 1e-3
		}
		top := values[0]
		for _, v := range values {
			top = math.Max(top, v)
		}
		var got float64
		require.NotPanics(t, func() { got = Percentile(values, 100, w) }, "trial %d", trial)
		assert.Equal(t, top, got, "trial %d", trial)
		require.NotPanics(t, func() { Percentile(values, 99.9999999, w) }, "trial %d", trial)
	}
}

func TestPercentileUsesAbsoluteWeights(t *testing.T) {
	values := []float64{1, 2, 3}
	pos := Percentile(values, 50, []float64{1, 1, 1})
	neg := Percentile(values, 50, []float64{-1, -1, -1})
	assert.Equal(t, pos, neg)
	assert.InDelta(t, 1.5, pos, 1e-12)
}

func TestPercentileSkipsZeroWeights(t *testing.T) {
	assert.Equal(t, 10.0, Percentile([]float64{1, 10, 100}, 50, []float64{0, 1, 0}))
}
