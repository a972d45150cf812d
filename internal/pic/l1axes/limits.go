package l1axes

import (
	"errors"
	"fmt"
	"sort"

	"github.com/banshee-data/pic.report/internal/monitoring"
)

// ErrInvalidLimits is returned for malformed or inverted limit vectors, and for
// limits that select no samples.
var ErrInvalidLimits = errors.New("invalid axis limits")

// Limits is a closed interval [Min, Max] on one axis.
type Limits struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies inside the closed interval.
func (l Limits) Contains(v float64) bool {
	return v >= l.Min && v <= l.Max
}

// ParseLimits converts a [min, max] vector. An empty vector means "no limits"
// and returns ok=false.
func ParseLimits(v []float64) (lim Limits, ok bool, err error) {
	switch {
	case len(v) == 0:
		return Limits{}, false, nil
	case len(v) != 2:
		return Limits{}, false, fmt.Errorf("%w: expected [min, max], got %d values", ErrInvalidLimits, len(v))
	case v[1] <= v[0]:
		return Limits{}, false, fmt.Errorf("%w: inverted range [%g, %g]", ErrInvalidLimits, v[0], v[1])
	}
	return Limits{Min: v[0], Max: v[1]}, true, nil
}

// Clamp restricts lim to the box [lo, hi], logging a warning for each bound
// that had to be moved. The name identifies the axis in the warning.
func Clamp(name string, lim Limits, lo, hi float64) Limits {
	out := lim
	if out.Min < lo {
		monitoring.Warnf("%s lower limit %g lies outside the simulation box, clamping to %g", name, lim.Min, lo)
		out.Min = lo
	}
	if out.Max > hi {
		monitoring.Warnf("%s upper limit %g lies outside the simulation box, clamping to %g", name, lim.Max, hi)
		out.Max = hi
	}
	if out.Min > hi {
		monitoring.Warnf("%s lower limit %g lies outside the simulation box, clamping to %g", name, lim.Min, hi)
		out.Min = hi
	}
	if out.Max < lo {
		monitoring.Warnf("%s upper limit %g lies outside the simulation box, clamping to %g", name, lim.Max, lo)
		out.Max = lo
	}
	return out
}

// Crop returns the closed index range [lo, hi] of the increasing axis that
// falls inside lim.
func Crop(axis []float64, lim Limits) (lo, hi int, err error) {
	lo = sort.SearchFloat64s(axis, lim.Min)
	hi = sort.Search(len(axis), func(i int) bool { return axis[i] > lim.Max }) - 1
	if lo >= len(axis) || hi < lo {
		return 0, 0, fmt.Errorf("%w: [%g, %g] selects no samples", ErrInvalidLimits, lim.Min, lim.Max)
	}
	return lo, hi, nil
}

// Mask marks the values that fall inside lim.
func Mask(values []float64, lim Limits) []bool {
	m := make([]bool, len(values))
	for i, v := range values {
		m[i] = lim.Contains(v)
	}
	return m
}

// And combines masks element-wise. A nil mask counts as all true.
func And(masks ...[]bool) []bool {
	var out []bool
	for _, m := range masks {
		if m == nil {
			continue
		}
		if out == nil {
			out = append([]bool(nil), m...)
			continue
		}
		for i := range out {
			out[i] = out[i] && i < len(m) && m[i]
		}
	}
	return out
}
