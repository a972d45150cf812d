// Package simctx carries the simulation configuration and the scales derived
// from it as one immutable value passed to the analysis stages.
package simctx

import (
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/pic.report/internal/config"
	"github.com/banshee-data/pic.report/internal/pic/l1axes"
	"github.com/banshee-data/pic.report/internal/units"
)

// ErrUnknownSpecies is returned when a species is not defined by the simulation.
var ErrUnknownSpecies = errors.New("unknown species")

// Context is a read-only view of one simulation together with the display
// scales chosen for an analysis. The zero value is not usable; call New.
type Context struct {
	sim     config.Simulation
	factors units.Factors
	length  units.Scale
	charge  units.Scale
	density units.Scale
}

// New resolves the display scales for sim under the unit system and optional
// explicit units in opts. The simulation is copied, so later changes to sim
// do not affect the context.
func New(sim *config.Simulation, opts *config.Options) (Context, error) {
	if sim == nil {
		return Context{}, errors.New("simulation is nil")
	}
	if opts == nil {
		opts = config.EmptyOptions()
	}
	c := Context{sim: *sim, factors: sim.Factors()}
	c.sim.Species = append([]config.Species(nil), sim.Species...)

	system := opts.GetUnitSystem()
	var err error
	if c.length, err = units.Resolve(system, units.Length, c.factors, opts.GetLengthUnit()); err != nil {
		return Context{}, fmt.Errorf("length unit: %w", err)
	}
	if c.charge, err = units.Resolve(system, units.Charge, c.factors, opts.GetChargeUnit()); err != nil {
		return Context{}, fmt.Errorf("charge unit: %w", err)
	}
	if c.density, err = units.Resolve(system, units.Density, c.factors, ""); err != nil {
		return Context{}, fmt.Errorf("density unit: %w", err)
	}

	// Without an explicit length unit, pick a prefix that suits the box.
	if opts.GetLengthUnit() == "" {
		c.length = units.WithAutoPrefix(c.length, sim.Box.X1.Max-sim.Box.X1.Min)
	}
	return c, nil
}

// Name is the simulation name.
func (c Context) Name() string { return c.sim.Name }

// Cylindrical reports whether x2 is a one-sided radial coordinate.
func (c Context) Cylindrical() bool { return c.sim.Coordinates == config.Cylindrical }

// Box returns the simulation box in normalized units.
func (c Context) Box() config.Box { return c.sim.Box }

// Factors returns the normalized-to-SI factors.
func (c Context) Factors() units.Factors { return c.factors }

// Length is the display scale applied to positions.
func (c Context) Length() units.Scale { return c.length }

// Charge is the display scale applied to charge weights.
func (c Context) Charge() units.Scale { return c.charge }

// Density is the display scale applied to densities.
func (c Context) Density() units.Scale { return c.density }

// PlasmaWavelength returns 2π c/ω_p in display length units.
func (c Context) PlasmaWavelength() float64 {
	return 2 * math.Pi * c.length.Factor
}

// Species looks up a species by name.
func (c Context) Species(name string) (config.Species, error) {
	sp, ok := c.sim.FindSpecies(name)
	if !ok {
		return config.Species{}, fmt.Errorf("%w: %q", ErrUnknownSpecies, name)
	}
	return sp, nil
}

// X1Axis returns the longitudinal cell positions in display units.
func (c Context) X1Axis() ([]float64, error) {
	b := c.sim.Box.X1
	return l1axes.Linspace(b.Min, b.Max, b.Cells, c.length.Factor)
}

// X2Axis returns the transverse cell positions in display units.
func (c Context) X2Axis() ([]float64, error) {
	b := c.sim.Box.X2
	return l1axes.Linspace(b.Min, b.Max, b.Cells, c.length.Factor)
}

// BoxLimits returns the box extent along x1 and x2 in display units.
func (c Context) BoxLimits() (x1, x2 l1axes.Limits) {
	f := c.length.Factor
	b := c.sim.Box
	return l1axes.Limits{Min: b.X1.Min * f, Max: b.X1.Max * f},
		l1axes.Limits{Min: b.X2.Min * f, Max: b.X2.Max * f}
}
