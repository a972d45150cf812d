package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/pic.report/internal/config"
	"github.com/banshee-data/pic.report/internal/monitoring"
	"github.com/banshee-data/pic.report/internal/pic/dump"
	"github.com/banshee-data/pic.report/internal/pic/l1axes"
	"github.com/banshee-data/pic.report/internal/pic/l3smooth"
	"github.com/banshee-data/pic.report/internal/pic/l4peaks"
	"github.com/banshee-data/pic.report/internal/pic/l5beamlets"
	"github.com/banshee-data/pic.report/internal/pic/simctx"
)

// ErrNotBeam is returned when the requested species is unknown or is not a
// beam. No result is produced.
var ErrNotBeam = errors.New("species is not a beam")

// Result is the outcome of one beamlet analysis.
type Result struct {
	Simulation string `json:"simulation"`
	Dump       int    `json:"dump"`
	Species    string `json:"species"`

	// Grid is the raw density grid as returned by the reader.
	Grid *dump.Grid `json:"-"`
	// X1Axis and X2Axis are the cropped axes in display units.
	X1Axis []float64 `json:"x1_axis"`
	X2Axis []float64 `json:"x2_axis"`

	Projection []float64 `json:"projection"`
	Smoothed   []float64 `json:"smoothed"`
	Window     int       `json:"window"`

	PeakCount   int                  `json:"peak_count"`
	Prominences []float64            `json:"prominences"`
	Segments    []l4peaks.Segment    `json:"segments"`
	Beamlets    []l5beamlets.Beamlet `json:"beamlets"`
	TotalCharge float64              `json:"total_charge"`

	LengthUnit string `json:"length_unit"`
	ChargeUnit string `json:"charge_unit"`
}

// ComputeBeamlets runs the beamlet analysis for one species in one dump. An
// empty species name selects the species from opts. Nil opts means defaults.
//
// Limits that stick out of the simulation box are clamped to it with a
// warning. Limits that miss the box entirely return l1axes.ErrInvalidLimits,
// and inverted limits are rejected.
func ComputeBeamlets(ctx context.Context, r dump.Reader, sim simctx.Context, dumpIndex int, species string, opts *config.Options) (*Result, error) {
	if opts == nil {
		opts = config.EmptyOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if species == "" {
		species = opts.GetSpecies()
	}

	sp, err := sim.Species(species)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotBeam, err)
	}
	if sp.Kind != config.KindBeam {
		return nil, fmt.Errorf("%w: %q is a %s species", ErrNotBeam, species, sp.Kind)
	}

	x1, err := sim.X1Axis()
	if err != nil {
		return nil, fmt.Errorf("x1 axis: %w", err)
	}
	x2, err := sim.X2Axis()
	if err != nil {
		return nil, fmt.Errorf("x2 axis: %w", err)
	}

	grid, err := r.ReadGrid(ctx, dumpIndex, dump.KindDensity, dump.ChargeDensity, species)
	if err != nil {
		return nil, fmt.Errorf("failed to read charge density: %w", err)
	}
	if rows, cols := grid.Data.Dims(); rows != len(x1) || cols != len(x2) {
		return nil, fmt.Errorf("charge density grid is %dx%d, simulation box is %dx%d", rows, cols, len(x1), len(x2))
	}
	particles, err := r.ReadParticles(ctx, dumpIndex, species)
	if err != nil {
		return nil, fmt.Errorf("failed to read raw particles: %w", err)
	}

	lf := sim.Length().Factor
	crop, err := cropToLimits(sim, opts, x1, x2)
	if err != nil {
		return nil, err
	}
	var mask []bool
	if crop.limited {
		px1 := make([]float64, len(particles))
		px2 := make([]float64, len(particles))
		for i, p := range particles {
			px1[i] = p.X1 * lf
			px2[i] = p.X2 * lf
		}
		mask = l1axes.And(l1axes.Mask(px1, crop.lim1), l1axes.Mask(px2, crop.lim2))
	}

	axis := x1[crop.lo1 : crop.hi1+1]
	radial := x2[crop.lo2 : crop.hi2+1]
	density := grid.Data.Slice(crop.lo1, crop.hi1+1, crop.lo2, crop.hi2+1)
	projection := l5beamlets.Project(density)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lambda := sim.PlasmaWavelength()
	dx := l1axes.Spacing(axis)
	window := l3smooth.WindowSamples(opts.GetSmoothSpan(), lambda, dx)
	smoothed := l3smooth.Loess(projection, window)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := l4peaks.Params{
		MinDistance:        distanceSamples(opts.GetMinPeakDistance(), lambda, dx),
		ProminenceFraction: opts.GetBeamProminence(),
	}
	segments := l4peaks.Partition(smoothed, params)

	in := l5beamlets.Input{
		Axis:          axis,
		Radial:        radial,
		Projection:    projection,
		Density:       density,
		Cylindrical:   sim.Cylindrical(),
		Particles:     particles,
		Mask:          mask,
		LengthFactor:  lf,
		ChargeFactor:  sim.Charge().Factor,
		ChargeSign:    math.Copysign(1, sp.RQM),
		RawFraction:   sp.RawFraction,
		RadialInclude: opts.GetRadialInclude(),
	}
	beamlets := l5beamlets.Measure(in, segments)

	res := &Result{
		Simulation:  sim.Name(),
		Dump:        dumpIndex,
		Species:     species,
		Grid:        grid,
		X1Axis:      axis,
		X2Axis:      radial,
		Projection:  projection,
		Smoothed:    smoothed,
		Window:      window,
		PeakCount:   len(segments),
		Prominences: make([]float64, len(segments)),
		Segments:    segments,
		Beamlets:    beamlets,
		TotalCharge: l5beamlets.Charge(particles, in),
		LengthUnit:  sim.Length().Label,
		ChargeUnit:  sim.Charge().Label,
	}
	for i, s := range segments {
		res.Prominences[i] = s.Prominence
	}

	monitoring.Logf("beamlets: %s dump %d species %q: window=%d min_distance=%d peaks=%d total_charge=%g %s",
		sim.Name(), dumpIndex, species, window, params.MinDistance, res.PeakCount, res.TotalCharge, res.ChargeUnit)
	return res, nil
}

// distanceSamples converts a length in plasma wavelengths to samples, at least 1.
func distanceSamples(wavelengths, lambda, dx float64) int {
	if dx <= 0 {
		return 1
	}
	return max(1, int(math.Round(wavelengths*lambda/dx)))
}

type cropping struct {
	limited    bool
	lim1, lim2 l1axes.Limits
	lo1, hi1   int
	lo2, hi2   int
}

// cropToLimits resolves the configured limits against the box. Limits that
// stick out of the box are clamped with a warning; limits that miss it
// entirely are an error.
func cropToLimits(sim simctx.Context, opts *config.Options, x1, x2 []float64) (cropping, error) {
	c := cropping{hi1: len(x1) - 1, hi2: len(x2) - 1}
	if opts.GetIgnoreLimits() {
		return c, nil
	}
	box1, box2 := sim.BoxLimits()

	for _, ax := range []struct {
		name   string
		raw    []float64
		box    l1axes.Limits
		axis   []float64
		lim    *l1axes.Limits
		lo, hi *int
	}{
		{"x1", opts.LimitsX1, box1, x1, &c.lim1, &c.lo1, &c.hi1},
		{"x2", opts.LimitsX2, box2, x2, &c.lim2, &c.lo2, &c.hi2},
	} {
		*ax.lim = ax.box
		lim, ok, err := l1axes.ParseLimits(ax.raw)
		if err != nil {
			return cropping{}, fmt.Errorf("%s limits: %w", ax.name, err)
		}
		if !ok {
			continue
		}
		if lim.Max < ax.box.Min || lim.Min > ax.box.Max {
			return cropping{}, fmt.Errorf("%s limits: %w: [%g, %g] lies outside the box [%g, %g]",
				ax.name, l1axes.ErrInvalidLimits, lim.Min, lim.Max, ax.box.Min, ax.box.Max)
		}
		c.limited = true
		*ax.lim = l1axes.Clamp(ax.name, lim, ax.box.Min, ax.box.Max)
		if *ax.lo, *ax.hi, err = l1axes.Crop(ax.axis, *ax.lim); err != nil {
			return cropping{}, fmt.Errorf("%s limits: %w", ax.name, err)
		}
	}
	return c, nil
}
