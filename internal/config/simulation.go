package config

import (
	"encoding/json"
	"fmt"

	"github.com/banshee-data/pic.report/internal/units"
)

// Coordinate systems supported by the simulation geometry.
const (
	Cartesian   = "cartesian"
	Cylindrical = "cylindrical"
)

// Species kinds. Only beams can be segmented into beamlets.
const (
	KindBeam   = "beam"
	KindPlasma = "plasma"
)

// AxisBox describes the simulation box along one axis in normalized units.
type AxisBox struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Cells int     `json:"cells"`
}

// Box holds the longitudinal (x1) and transverse (x2) extent of the grid.
type Box struct {
	X1 AxisBox `json:"x1"`
	X2 AxisBox `json:"x2"`
}

// Species describes one particle species written by the simulation.
type Species struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	// RQM is the mass-to-charge ratio; its sign is the charge sign.
	RQM float64 `json:"rqm"`
	// RawFraction is the fraction of macro-particles sampled into raw dumps.
	RawFraction float64 `json:"raw_fraction"`
}

// Bunch is one Gaussian sub-bunch of a synthetic beam, in normalized units.
type Bunch struct {
	Center       float64 `json:"center"`
	Length       float64 `json:"length"`        // rms longitudinal size
	Radius       float64 `json:"radius"`        // rms transverse size
	Density      float64 `json:"density"`       // peak density in n_0
	Energy       float64 `json:"energy"`        // mean energy proxy (gamma - 1)
	EnergySpread float64 `json:"energy_spread"` // relative rms
	Divergence   float64 `json:"divergence"`    // rms transverse momentum
}

// Synthetic configures the synthetic dump reader.
type Synthetic struct {
	Seed      int64   `json:"seed"`
	Particles int     `json:"particles"` // per bunch
	Noise     float64 `json:"noise"`     // relative density noise
	Bunches   []Bunch `json:"bunches"`
	// Drift moves every bunch by this amount per dump index.
	Drift float64 `json:"drift"`
}

// Simulation is the simulation configuration consumed by the analysis.
type Simulation struct {
	Name        string    `json:"name"`
	Coordinates string    `json:"coordinates"`
	N0          float64   `json:"n0"` // reference plasma density in m^-3
	Box         Box       `json:"box"`
	Species     []Species `json:"species"`
	// Units overrides the factors derived from N0.
	Units     *units.Factors `json:"units,omitempty"`
	Synthetic *Synthetic     `json:"synthetic,omitempty"`
}

// LoadSimulation loads and validates a simulation configuration from a JSON file.
func LoadSimulation(path string) (*Simulation, error) {
	data, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}
	var sim Simulation
	if err := json.Unmarshal(data, &sim); err != nil {
		return nil, fmt.Errorf("failed to parse simulation JSON: %w", err)
	}
	if sim.Coordinates == "" {
		sim.Coordinates = Cartesian
	}
	if err := sim.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation: %w", err)
	}
	return &sim, nil
}

// Validate checks the geometry and species definitions.
func (s *Simulation) Validate() error {
	if s.Coordinates != Cartesian && s.Coordinates != Cylindrical {
		return fmt.Errorf("coordinates must be %q or %q, got %q", Cartesian, Cylindrical, s.Coordinates)
	}
	for name, ax := range map[string]AxisBox{"x1": s.Box.X1, "x2": s.Box.X2} {
		if ax.Cells <= 0 {
			return fmt.Errorf("box.%s.cells must be positive, got %d", name, ax.Cells)
		}
		if ax.Max <= ax.Min {
			return fmt.Errorf("box.%s is inverted or empty: [%g, %g]", name, ax.Min, ax.Max)
		}
	}
	if s.N0 < 0 {
		return fmt.Errorf("n0 must be non-negative, got %g", s.N0)
	}
	seen := make(map[string]bool, len(s.Species))
	for _, sp := range s.Species {
		if sp.Name == "" {
			return fmt.Errorf("species name must not be empty")
		}
		if seen[sp.Name] {
			return fmt.Errorf("duplicate species %q", sp.Name)
		}
		seen[sp.Name] = true
		if sp.Kind != KindBeam && sp.Kind != KindPlasma {
			return fmt.Errorf("species %q: kind must be %q or %q, got %q", sp.Name, KindBeam, KindPlasma, sp.Kind)
		}
		if sp.RQM == 0 {
			return fmt.Errorf("species %q: rqm must be non-zero", sp.Name)
		}
		if sp.RawFraction <= 0 || sp.RawFraction > 1 {
			return fmt.Errorf("species %q: raw_fraction must be in (0, 1], got %g", sp.Name, sp.RawFraction)
		}
	}
	if s.Synthetic != nil && s.Synthetic.Particles < 0 {
		return fmt.Errorf("synthetic.particles must be non-negative, got %d", s.Synthetic.Particles)
	}
	return nil
}

// Factors returns the normalized-to-SI conversion factors, preferring the
// explicit override over those derived from N0.
func (s *Simulation) Factors() units.Factors {
	if s.Units != nil {
		return *s.Units
	}
	return units.FactorsFor(s.N0)
}

// FindSpecies returns the named species.
func (s *Simulation) FindSpecies(name string) (Species, bool) {
	for _, sp := range s.Species {
		if sp.Name == name {
			return sp, true
		}
	}
	return Species{}, false
}
