package l1axes

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ErrInvalidRange is returned for an empty or inverted axis, or a non-positive cell count.
var ErrInvalidRange = errors.New("invalid axis range")

// Linspace returns n evenly spaced coordinates covering [min, max] inclusive,
// multiplied by scale. It returns ErrInvalidRange unless max > min, n > 0 and
// scale > 0, so the axis it returns is always strictly increasing.
func Linspace(min, max float64, n int, scale float64) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: cell count %d", ErrInvalidRange, n)
	}
	if max <= min {
		return nil, fmt.Errorf("%w: [%g, %g]", ErrInvalidRange, min, max)
	}
	if scale <= 0 {
		return nil, fmt.Errorf("%w: scale %g", ErrInvalidRange, scale)
	}
	if n == 1 {
		return []float64{min * scale}, nil
	}
	return floats.Span(make([]float64, n), min*scale, max*scale), nil
}

// Spacing returns the distance between neighbouring samples of a uniform axis.
func Spacing(axis []float64) float64 {
	if len(axis) < 2 {
		return 0
	}
	return (axis[len(axis)-1] - axis[0]) / float64(len(axis)-1)
}

// Mirror reflects a one-sided radial axis about zero, returning
// [-r[n-1] … -r[0], r[0] … r[n-1]].
func Mirror(axis []float64) []float64 {
	n := len(axis)
	out := make([]float64, 2*n)
	for i, r := range axis {
		out[n-1-i] = -r
		out[n+i] = r
	}
	return out
}

// MirrorProfile reflects a one-sided profile to match Mirror.
func MirrorProfile(profile []float64) []float64 {
	n := len(profile)
	out := make([]float64, 2*n)
	for i, v := range profile {
		out[n-1-i] = v
		out[n+i] = v
	}
	return out
}
