// Package units provides the unit systems used to present simulation output:
// normalized plasma units and SI, plus metric prefix selection for display.
package units

import (
	"fmt"
	"math"
	"strings"
)

// Unit system constants
const (
	Normalized = "normalized"
	SI         = "si"
)

// ValidSystems contains all valid unit system values
var ValidSystems = []string{Normalized, SI}

// IsValid checks if the given unit system is in the list of valid systems
func IsValid(system string) bool {
	for _, valid := range ValidSystems {
		if system == valid {
			return true
		}
	}
	return false
}

// GetValidSystemsString returns a comma-separated string of valid systems for error messages
func GetValidSystemsString() string {
	return strings.Join(ValidSystems, ", ")
}

// Physical constants (CODATA 2018).
const (
	SpeedOfLight       = 299792458.0      // m/s
	ElementaryCharge   = 1.602176634e-19  // C
	ElectronMass       = 9.1093837015e-31 // kg
	VacuumPermittivity = 8.8541878128e-12 // F/m
)

// Quantity names a physical dimension that can be rescaled.
type Quantity string

const (
	Length  Quantity = "length"
	Time    Quantity = "time"
	Charge  Quantity = "charge"
	Density Quantity = "density"
)

// PlasmaFrequency returns the electron plasma frequency in rad/s for a
// density n0 given in m^-3.
func PlasmaFrequency(n0 float64) float64 {
	return math.Sqrt(n0 * ElementaryCharge * ElementaryCharge / (VacuumPermittivity * ElectronMass))
}

// Factors holds the multiplicative factors converting normalized quantities to SI.
type Factors struct {
	Length  float64 `json:"length"`  // m per c/ω_p
	Time    float64 `json:"time"`    // s per 1/ω_p
	Charge  float64 `json:"charge"`  // C per normalized charge unit
	Density float64 `json:"density"` // m^-3 per n_0
}

// FactorsFor derives SI conversion factors from the reference density n0 (m^-3).
// A non-positive density yields the identity factors.
func FactorsFor(n0 float64) Factors {
	if n0 <= 0 {
		return Factors{Length: 1, Time: 1, Charge: 1, Density: 1}
	}
	wp := PlasmaFrequency(n0)
	skin := SpeedOfLight / wp
	return Factors{
		Length:  skin,
		Time:    1 / wp,
		Charge:  ElementaryCharge * n0 * skin * skin * skin,
		Density: n0,
	}
}

// Scale is a resolved multiplicative factor and its display label.
type Scale struct {
	Factor float64 `json:"factor"`
	Label  string  `json:"label"`
}

// Apply rescales v.
func (s Scale) Apply(v float64) float64 {
	return v * s.Factor
}

var normalizedLabels = map[Quantity]string{
	Length:  "c/ω_p",
	Time:    "1/ω_p",
	Charge:  "e n_0 (c/ω_p)^3",
	Density: "n_0",
}

var siLabels = map[Quantity]string{
	Length:  "m",
	Time:    "s",
	Charge:  "C",
	Density: "m^-3",
}

// Resolve returns the scale for quantity q in the given unit system. explicit
// optionally names an SI unit with a metric prefix (e.g. "um", "pC"); when it is
// empty the base SI unit is used. Normalized units ignore explicit.
func Resolve(system string, q Quantity, f Factors, explicit string) (Scale, error) {
	switch system {
	case Normalized:
		label, ok := normalizedLabels[q]
		if !ok {
			return Scale{}, fmt.Errorf("unknown quantity %q", q)
		}
		return Scale{Factor: 1, Label: label}, nil
	case SI:
		base, ok := siLabels[q]
		if !ok {
			return Scale{}, fmt.Errorf("unknown quantity %q", q)
		}
		factor := factorFor(q, f)
		if explicit == "" || explicit == base {
			return Scale{Factor: factor, Label: base}, nil
		}
		if !strings.HasSuffix(explicit, base) {
			return Scale{}, fmt.Errorf("unit %q is not a %s unit (%s)", explicit, q, base)
		}
		mult, ok := prefixMultiplier(strings.TrimSuffix(explicit, base))
		if !ok {
			return Scale{}, fmt.Errorf("unknown metric prefix in unit %q", explicit)
		}
		return Scale{Factor: factor * mult, Label: explicit}, nil
	default:
		return Scale{}, fmt.Errorf("invalid unit system %q, must be one of: %s", system, GetValidSystemsString())
	}
}

func factorFor(q Quantity, f Factors) float64 {
	switch q {
	case Length:
		return f.Length
	case Time:
		return f.Time
	case Charge:
		return f.Charge
	case Density:
		return f.Density
	}
	return 1
}

type prefix struct {
	symbol string
	exp    int
}

// prefixes are ordered from largest to smallest.
var prefixes = []prefix{
	{"G", 9}, {"M", 6}, {"k", 3}, {"", 0},
	{"m", -3}, {"u", -6}, {"n", -9}, {"p", -12}, {"f", -15},
}

func prefixMultiplier(symbol string) (float64, bool) {
	if symbol == "µ" {
		symbol = "u"
	}
	for _, p := range prefixes {
		if p.symbol == symbol {
			return math.Pow10(-p.exp), true
		}
	}
	return 0, false
}

// AutoPrefix returns the multiplier and prefix symbol that bring |v| into
// [1, 1000). Zero, NaN and infinite values get the empty prefix.
func AutoPrefix(v float64) (float64, string) {
	a := math.Abs(v)
	if a == 0 || math.IsNaN(a) || math.IsInf(a, 0) {
		return 1, ""
	}
	for _, p := range prefixes {
		if a >= math.Pow10(p.exp) {
			return math.Pow10(-p.exp), p.symbol
		}
	}
	last := prefixes[len(prefixes)-1]
	return math.Pow10(-last.exp), last.symbol
}

// WithAutoPrefix rescales an SI scale so that representative lands in [1, 1000).
// Normalized scales, densities and labels that already carry a prefix are
// returned unchanged.
func WithAutoPrefix(s Scale, representative float64) Scale {
	switch s.Label {
	case siLabels[Length], siLabels[Time], siLabels[Charge]:
	default:
		return s
	}
	mult, sym := AutoPrefix(representative * s.Factor)
	return Scale{Factor: s.Factor * mult, Label: sym + s.Label}
}
