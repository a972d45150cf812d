// Package dump defines how the analysis reads simulation output: gridded
// fields and raw particle records addressed by dump index. The simulation I/O
// layer implements Reader; this package ships an in-memory reader and a
// synthetic reader that generates multi-bunch beams from configuration.
package dump

import (
	"context"
	"errors"

	"gonum.org/v1/gonum/mat"
)

// Grid kinds.
const (
	KindDensity = "density"
	KindField   = "field"
)

// ChargeDensity is the density grid name used by the beamlet analysis.
const ChargeDensity = "charge"

// ErrNotFound is returned when a reader has no data for the request.
var ErrNotFound = errors.New("dump data not found")

// Grid is a 2D quantity on the simulation grid. Data has one row per X1Axis
// sample and one column per X2Axis sample. Axes are in normalized units. For
// cylindrical geometry X2Axis covers the one-sided radial half.
type Grid struct {
	Kind    string
	Name    string
	Species string
	Dump    int
	X1Axis  []float64
	X2Axis  []float64
	Data    *mat.Dense
}

// Particle is one raw macro-particle record in normalized units. Q is the
// macro-particle charge weight and may be negative.
type Particle struct {
	X1, X2, X3 float64
	P1, P2, P3 float64
	Ene        float64
	Q          float64
}

// Reader gives read-only access to the dumps of one simulation. Returned data
// must not be mutated by callers.
type Reader interface {
	ReadGrid(ctx context.Context, dumpIndex int, kind, name, species string) (*Grid, error)
	ReadParticles(ctx context.Context, dumpIndex int, species string) ([]Particle, error)
}
