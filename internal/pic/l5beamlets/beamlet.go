package l5beamlets

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/pic.report/internal/pic/dump"
	"github.com/banshee-data/pic.report/internal/pic/l1axes"
	"github.com/banshee-data/pic.report/internal/pic/l2stats"
	"github.com/banshee-data/pic.report/internal/pic/l4peaks"
)

// Input is everything the measurer needs for one analysis. Axes are in display
// units and already cropped; Density has one row per Axis sample and one
// column per Radial sample. Particle coordinates are normalized and converted
// with LengthFactor.
type Input struct {
	Axis        []float64
	Radial      []float64
	Projection  []float64
	Density     mat.Matrix
	Cylindrical bool

	Particles []dump.Particle
	// Mask selects the particles inside the analysis limits. Nil keeps all.
	Mask []bool

	LengthFactor  float64
	ChargeFactor  float64
	ChargeSign    float64
	RawFraction   float64
	RadialInclude float64
}

// Beamlet holds the measurements of one segment. Index fields refer to the
// segment's own profiles; positions are in display units.
type Beamlet struct {
	StartIndex int     `json:"start_index"`
	StopIndex  int     `json:"stop_index"`
	Start      float64 `json:"start"`
	Stop       float64 `json:"stop"`

	Axis         []float64 `json:"axis"`
	Profile      []float64 `json:"profile"`
	Peak         int       `json:"peak"`
	PeakPosition float64   `json:"peak_position"`
	FWHM         Interval  `json:"fwhm"`
	Width        float64   `json:"width"`
	Mean         float64   `json:"mean"`
	Std          float64   `json:"std"`

	TransverseAxis    []float64 `json:"transverse_axis"`
	TransverseProfile []float64 `json:"transverse_profile"`
	TransverseFWHM    Interval  `json:"transverse_fwhm"`
	TransverseWidth   float64   `json:"transverse_width"`
	TransverseMean    float64   `json:"transverse_mean"`
	TransverseStd     float64   `json:"transverse_std"`
	RadialCutoff      int       `json:"radial_cutoff"`
	Radius            float64   `json:"radius"`

	Charge       float64 `json:"charge"`
	Particles    int     `json:"particles"`
	Emittance    float64 `json:"emittance"`
	EnergySpread float64 `json:"energy_spread"`
}

// Measure measures every segment in order. A valley shared by two
// consecutive segments belongs to the left one: particles sitting on it are
// counted once.
func Measure(in Input, segments []l4peaks.Segment) []Beamlet {
	if len(segments) == 0 {
		return nil
	}
	out := make([]Beamlet, len(segments))
	for i, seg := range segments {
		shared := i > 0 && seg.Start == segments[i-1].Stop
		out[i] = measure(in, seg, shared)
	}
	return out
}

// MeasureSegment measures one segment of the projection on its own. Particles
// are matched on the closed interval [Start, Stop].
func MeasureSegment(in Input, seg l4peaks.Segment) Beamlet {
	return measure(in, seg, false)
}

func measure(in Input, seg l4peaks.Segment, sharedStart bool) Beamlet {
	b := Beamlet{
		StartIndex: seg.Start,
		StopIndex:  seg.Stop,
		Start:      in.Axis[seg.Start],
		Stop:       in.Axis[seg.Stop],
		Axis:       append([]float64(nil), in.Axis[seg.Start:seg.Stop+1]...),
		Profile:    append([]float64(nil), in.Projection[seg.Start:seg.Stop+1]...),
	}
	b.Peak = floats.MaxIdx(b.Profile)
	b.PeakPosition = b.Axis[b.Peak]
	b.FWHM = FWHM(b.Profile, b.Peak)
	b.Width = Width(b.Axis, b.FWHM)
	b.Mean, b.Std = l2stats.MeanStd(b.Axis, b.Profile)

	oneSided := Transverse(in.Density, seg.Start, seg.Stop)
	b.TransverseAxis = append([]float64(nil), in.Radial...)
	b.TransverseProfile = oneSided
	if in.Cylindrical {
		b.TransverseAxis = l1axes.Mirror(in.Radial)
		b.TransverseProfile = l1axes.MirrorProfile(oneSided)
	}
	if len(b.TransverseProfile) > 0 {
		tp := floats.MaxIdx(b.TransverseProfile)
		b.TransverseFWHM = FWHM(b.TransverseProfile, tp)
		b.TransverseWidth = Width(b.TransverseAxis, b.TransverseFWHM)
		b.TransverseMean, b.TransverseStd = l2stats.MeanStd(b.TransverseAxis, b.TransverseProfile)
		b.RadialCutoff = RadialCutoff(oneSided, in.RadialInclude)
		b.Radius = in.Radial[b.RadialCutoff]
	}

	sel := Select(in, b.Start, b.Stop, sharedStart)
	b.Particles = len(sel)
	b.Charge = Charge(sel, in)
	b.Emittance = Emittance(sel, in.LengthFactor)
	b.EnergySpread = EnergySpread(sel)
	return b
}

// Select returns the masked particles whose longitudinal position lies in the
// closed interval [start, stop] (display units). With openStart the start is
// excluded, giving (start, stop].
func Select(in Input, start, stop float64, openStart bool) []dump.Particle {
	lim := l1axes.Limits{Min: start, Max: stop}
	var out []dump.Particle
	for i, p := range in.Particles {
		if in.Mask != nil && !in.Mask[i] {
			continue
		}
		x := p.X1 * in.LengthFactor
		if openStart && x == start {
			continue
		}
		if lim.Contains(x) {
			out = append(out, p)
		}
	}
	return out
}

// Charge returns Σq · ChargeFactor · ChargeSign / RawFraction. An empty
// selection yields 0.
func Charge(particles []dump.Particle, in Input) float64 {
	if len(particles) == 0 || in.RawFraction == 0 {
		return 0
	}
	var q float64
	for _, p := range particles {
		q += p.Q
	}
	return q * in.ChargeFactor * in.ChargeSign / in.RawFraction
}

func chargeWeights(particles []dump.Particle) []float64 {
	w := make([]float64, len(particles))
	for i, p := range particles {
		w[i] = math.Abs(p.Q)
	}
	return w
}

// Emittance returns the normalized rms transverse emittance
// sqrt(<x2²><p2²> − <x2·p2>²) from central moments weighted by |q|, with x2
// scaled by lengthFactor.
func Emittance(particles []dump.Particle, lengthFactor float64) float64 {
	if len(particles) < 2 {
		return 0
	}
	w := chargeWeights(particles)
	x := make([]float64, len(particles))
	p := make([]float64, len(particles))
	for i, pt := range particles {
		x[i] = pt.X2 * lengthFactor
		p[i] = pt.P2
	}
	mx := l2stats.Mean(x, w)
	mp := l2stats.Mean(p, w)
	xp := make([]float64, len(particles))
	for i := range x {
		x[i] -= mx
		p[i] -= mp
		xp[i] = x[i] * p[i]
	}
	sx := l2stats.Std(x, w)
	sp := l2stats.Std(p, w)
	cxp := l2stats.Mean(xp, w)
	e2 := sx*sx*sp*sp - cxp*cxp
	if e2 <= 0 {
		return 0
	}
	return math.Sqrt(e2)
}

// EnergySpread returns the |q|-weighted relative energy spread std/mean.
func EnergySpread(particles []dump.Particle) float64 {
	if len(particles) == 0 {
		return 0
	}
	ene := make([]float64, len(particles))
	for i, p := range particles {
		ene[i] = p.Ene
	}
	mean, std := l2stats.MeanStd(ene, chargeWeights(particles))
	if mean == 0 {
		return 0
	}
	return std / math.Abs(mean)
}
