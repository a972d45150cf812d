package dump

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/pic.report/internal/config"
	"github.com/banshee-data/pic.report/internal/pic/l1axes"
)

// Synthetic is a Reader that generates Gaussian multi-bunch beams and a
// uniform plasma background from a simulation configuration. Output is a pure
// function of (configuration, dump index, species), so repeated reads agree.
type Synthetic struct {
	sim *config.Simulation
	cfg config.Synthetic
}

// NewSynthetic returns a synthetic reader for sim. The simulation must carry a
// synthetic section.
func NewSynthetic(sim *config.Simulation) (*Synthetic, error) {
	if sim == nil {
		return nil, errors.New("simulation is nil")
	}
	if sim.Synthetic == nil {
		return nil, fmt.Errorf("simulation %q has no synthetic section", sim.Name)
	}
	for i, b := range sim.Synthetic.Bunches {
		if b.Length <= 0 || b.Radius <= 0 {
			return nil, fmt.Errorf("synthetic bunch %d: length and radius must be positive", i)
		}
	}
	return &Synthetic{sim: sim, cfg: *sim.Synthetic}, nil
}

func (s *Synthetic) species(name string) (config.Species, error) {
	sp, ok := s.sim.FindSpecies(name)
	if !ok {
		return config.Species{}, fmt.Errorf("%w: species %q", ErrNotFound, name)
	}
	return sp, nil
}

// rng returns a generator seeded from the configured seed, the dump index,
// the species and a stream label.
func (s *Synthetic) rng(dumpIndex int, species, stream string) *rand.Rand {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d/%d/%s/%s", s.cfg.Seed, dumpIndex, species, stream)
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

func (s *Synthetic) cylindrical() bool {
	return s.sim.Coordinates == config.Cylindrical
}

// transverseCentre is the bunch axis: r = 0 in cylindrical geometry, the box
// midpoint otherwise.
func (s *Synthetic) transverseCentre() float64 {
	if s.cylindrical() {
		return 0
	}
	return (s.sim.Box.X2.Min + s.sim.Box.X2.Max) / 2
}

func (s *Synthetic) centre(b config.Bunch, dumpIndex int) float64 {
	return b.Center + s.cfg.Drift*float64(dumpIndex)
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// ReadGrid implements Reader. Only the charge density is available.
func (s *Synthetic) ReadGrid(ctx context.Context, dumpIndex int, kind, name, species string) (*Grid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if kind != KindDensity || name != ChargeDensity {
		return nil, fmt.Errorf("%w: synthetic reader has no %s %q", ErrNotFound, kind, name)
	}
	sp, err := s.species(species)
	if err != nil {
		return nil, err
	}

	x1, err := l1axes.Linspace(s.sim.Box.X1.Min, s.sim.Box.X1.Max, s.sim.Box.X1.Cells, 1)
	if err != nil {
		return nil, fmt.Errorf("x1 axis: %w", err)
	}
	x2, err := l1axes.Linspace(s.sim.Box.X2.Min, s.sim.Box.X2.Max, s.sim.Box.X2.Cells, 1)
	if err != nil {
		return nil, fmt.Errorf("x2 axis: %w", err)
	}
	data := mat.NewDense(len(x1), len(x2), nil)
	rng := s.rng(dumpIndex, species, "grid")
	q := sign(sp.RQM)
	xc := s.transverseCentre()

	for i, z := range x1 {
		for j, r := range x2 {
			var n float64
			if sp.Kind == config.KindBeam {
				for _, b := range s.cfg.Bunches {
					dz := (z - s.centre(b, dumpIndex)) / b.Length
					dr := (r - xc) / b.Radius
					n += b.Density * math.Exp(-0.5*(dz*dz+dr*dr))
				}
			} else {
				n = 1
			}
			if s.cfg.Noise > 0 {
				n *= 1 + s.cfg.Noise*rng.NormFloat64()
			}
			data.Set(i, j, q*n)
		}
	}

	return &Grid{
		Kind:    kind,
		Name:    name,
		Species: species,
		Dump:    dumpIndex,
		X1Axis:  x1,
		X2Axis:  x2,
		Data:    data,
	}, nil
}

// bunchCharge is the total normalized charge of a Gaussian bunch.
func (s *Synthetic) bunchCharge(b config.Bunch) float64 {
	if s.cylindrical() {
		return b.Density * math.Pow(2*math.Pi, 1.5) * b.Length * b.Radius * b.Radius
	}
	return b.Density * 2 * math.Pi * b.Length * b.Radius
}

// ReadParticles implements Reader. Beam species get cfg.Particles raw
// particles per bunch; plasma species get a uniform sprinkle over the box.
// Charge weights already include the raw sampling fraction.
func (s *Synthetic) ReadParticles(ctx context.Context, dumpIndex int, species string) ([]Particle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sp, err := s.species(species)
	if err != nil {
		return nil, err
	}
	rng := s.rng(dumpIndex, species, "particles")
	n := s.cfg.Particles
	if n == 0 {
		return nil, nil
	}
	q := sign(sp.RQM) * sp.RawFraction

	if sp.Kind != config.KindBeam {
		box := s.sim.Box
		volume := (box.X1.Max - box.X1.Min) * (box.X2.Max - box.X2.Min)
		out := make([]Particle, n)
		for i := range out {
			out[i] = Particle{
				X1: box.X1.Min + rng.Float64()*(box.X1.Max-box.X1.Min),
				X2: box.X2.Min + rng.Float64()*(box.X2.Max-box.X2.Min),
				Q:  q * volume / float64(n),
			}
		}
		return out, nil
	}

	xc := s.transverseCentre()
	out := make([]Particle, 0, n*len(s.cfg.Bunches))
	for _, b := range s.cfg.Bunches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		w := q * s.bunchCharge(b) / float64(n)
		zc := s.centre(b, dumpIndex)
		for range n {
			p := Particle{
				X1:  zc + b.Length*rng.NormFloat64(),
				P1:  b.Energy,
				P2:  b.Divergence * rng.NormFloat64(),
				P3:  b.Divergence * rng.NormFloat64(),
				Ene: b.Energy * (1 + b.EnergySpread*rng.NormFloat64()),
				Q:   w,
			}
			if s.cylindrical() {
				x, y := b.Radius*rng.NormFloat64(), b.Radius*rng.NormFloat64()
				p.X2 = math.Hypot(x, y)
				p.X3 = math.Atan2(y, x)
			} else {
				p.X2 = xc + b.Radius*rng.NormFloat64()
				p.X3 = b.Radius * rng.NormFloat64()
			}
			out = append(out, p)
		}
	}
	return out, nil
}
