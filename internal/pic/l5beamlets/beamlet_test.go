package l5beamlets

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/pic.report/internal/pic/dump"
	"github.com/banshee-data/pic.report/internal/pic/l4peaks"
)

func TestFWHM(t *testing.T) {
	tests := []struct {
		name    string
		profile []float64
		peak    int
		want    Interval
	}{
		{"symmetric", []float64{0, 1, 3, 4, 3, 1, 0}, 3, Interval{2, 4}},
		{"left boundary", []float64{4, 4, 3, 1, 0}, 0, Interval{0, 2}},
		{"right boundary", []float64{0, 1, 3, 4}, 3, Interval{2, 3}},
		{"flat", []float64{2, 2, 2}, 1, Interval{0, 2}},
		{"single", []float64{5}, 0, Interval{0, 0}},
		{"empty", nil, 0, Interval{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FWHM(tt.profile, tt.peak))
		})
	}
}

func TestFWHMContainsPeak(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	for trial := range 200 {
		n := 1 + rng.Intn(80)
		profile := make([]float64, n)
		for i := range profile {
			profile[i] = rng.Float64()
		}
		peak := rng.Intn(n)
		iv := FWHM(profile, peak)
		require.LessOrEqual(t, iv.Lo, peak, "trial %d", trial)
		require.GreaterOrEqual(t, iv.Hi, peak, "trial %d", trial)
		require.GreaterOrEqual(t, iv.Lo, 0)
		require.Less(t, iv.Hi, n)
	}
}

func TestRadialCutoff(t *testing.T) {
	assert.Equal(t, 0, RadialCutoff(nil, 0.9))
	assert.Equal(t, 0, RadialCutoff([]float64{0, 0, 0}, 0.9))
	assert.Equal(t, 1, RadialCutoff([]float64{5, 4, 1}, 0.9))
	assert.Equal(t, 2, RadialCutoff([]float64{5, 4, 1}, 1))
	assert.Equal(t, 0, RadialCutoff([]float64{5, 4, 1}, 0.5))
	// A fraction above 1 is never reached: fall back to the last index.
	assert.Equal(t, 2, RadialCutoff([]float64{5, 4, 1}, 1.5))
}

func TestProjectAndTransverse(t *testing.T) {
	d := mat.NewDense(3, 2, []float64{
		-1, -2,
		3, 4,
		-5, 6,
	})
	assert.Equal(t, []float64{3, 7, 11}, Project(d))
	assert.Equal(t, []float64{8, 10}, Transverse(d, 1, 2))
	assert.Equal(t, []float64{1, 2}, Transverse(d, 0, 0))
}

func TestChargeClosedInterval(t *testing.T) {
	in := Input{
		Particles: []dump.Particle{
			{X1: 0.999, Q: -1},
			{X1: 1.0, Q: -2}, // exactly on start
			{X1: 1.5, Q: -4},
			{X1: 2.0, Q: -8}, // exactly on stop
			{X1: 2.001, Q: -16},
		},
		LengthFactor: 1,
		ChargeFactor: 1,
		ChargeSign:   -1,
		RawFraction:  1,
	}
	sel := Select(in, 1, 2, false)
	require.Len(t, sel, 3)
	assert.Equal(t, 14.0, Charge(sel, in))

	// An open start drops the particle on the boundary and keeps the stop.
	sel = Select(in, 1, 2, true)
	require.Len(t, sel, 2)
	assert.Equal(t, 12.0, Charge(sel, in))
	assert.NotContains(t, sel, dump.Particle{X1: 1.0, Q: -2})
}

func TestMeasureSharedValleyCountedOnce(t *testing.T) {
	in := gaussianInput(false)
	n := len(in.Axis)
	mid := n / 2
	// One particle on every grid node, including the shared valley.
	in.Particles = make([]dump.Particle, n)
	for i, x := range in.Axis {
		in.Particles[i] = dump.Particle{X1: x, Q: -1}
	}
	segments := []l4peaks.Segment{
		{Start: 0, Stop: mid},
		{Start: mid, Stop: n - 1},
	}

	beamlets := Measure(in, segments)
	require.Len(t, beamlets, 2)
	assert.Equal(t, mid+1, beamlets[0].Particles)
	assert.Equal(t, n-1-mid, beamlets[1].Particles)
	assert.Equal(t, n, beamlets[0].Particles+beamlets[1].Particles)

	total := Charge(in.Particles, in)
	assert.InDelta(t, total, beamlets[0].Charge+beamlets[1].Charge, 1e-12)

	// Measured alone, the right segment keeps its closed start.
	alone := MeasureSegment(in, segments[1])
	assert.Equal(t, n-mid, alone.Particles)
}

func TestChargeScalingAndMask(t *testing.T) {
	in := Input{
		Particles: []dump.Particle{
			{X1: 1, Q: 1},
			{X1: 2, Q: 1},
			{X1: 3, Q: 1},
		},
		Mask:         []bool{true, false, true},
		LengthFactor: 2,
		ChargeFactor: 10,
		ChargeSign:   1,
		RawFraction:  0.5,
	}
	sel := Select(in, 0, 6, false)
	require.Len(t, sel, 2)
	assert.InDelta(t, 40.0, Charge(sel, in), 1e-12)

	assert.Zero(t, Charge(nil, in))
	assert.Empty(t, Select(in, 100, 200, false))
}

func TestEmittanceUncorrelated(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	particles := make([]dump.Particle, 50000)
	for i := range particles {
		particles[i] = dump.Particle{
			X2:  0.5 * rng.NormFloat64(),
			P2:  0.2 * rng.NormFloat64(),
			Ene: 100 * (1 + 0.01*rng.NormFloat64()),
			Q:   -1,
		}
	}
	assert.InDelta(t, 0.1, Emittance(particles, 1), 0.003)
	assert.InDelta(t, 0.2, Emittance(particles, 2), 0.006)
	assert.InDelta(t, 0.01, EnergySpread(particles), 0.0005)
}

func TestEmittanceCorrelatedIsZero(t *testing.T) {
	// Perfectly correlated phase space has zero area.
	particles := make([]dump.Particle, 100)
	for i := range particles {
		x := float64(i) / 10
		particles[i] = dump.Particle{X2: x, P2: 3 * x, Q: 1}
	}
	assert.InDelta(t, 0, Emittance(particles, 1), 1e-4)
	assert.Zero(t, Emittance(particles[:1], 1))
	assert.Zero(t, EnergySpread(nil))
}

func gaussianInput(cylindrical bool) Input {
	n, m := 100, 10
	axis := make([]float64, n)
	radial := make([]float64, m)
	for i := range axis {
		axis[i] = float64(i) * 0.1
	}
	for j := range radial {
		radial[j] = float64(j) * 0.1
	}
	d := mat.NewDense(n, m, nil)
	for i := range n {
		for j := range m {
			z := (axis[i] - 5) / 0.5
			r := radial[j] / 0.3
			d.Set(i, j, -math.Exp(-0.5*(z*z+r*r)))
		}
	}
	var particles []dump.Particle
	for i := range 101 {
		particles = append(particles, dump.Particle{X1: 4 + float64(i)*0.02, Q: -0.01, Ene: 1})
	}
	return Input{
		Axis:          axis,
		Radial:        radial,
		Projection:    Project(d),
		Density:       d,
		Cylindrical:   cylindrical,
		Particles:     particles,
		LengthFactor:  1,
		ChargeFactor:  1,
		ChargeSign:    -1,
		RawFraction:   1,
		RadialInclude: 0.95,
	}
}

func TestMeasureSegment(t *testing.T) {
	in := gaussianInput(true)
	seg := l4peaks.Segment{Peak: l4peaks.Peak{Index: 50}, Start: 0, Stop: 99}
	b := MeasureSegment(in, seg)

	assert.Equal(t, 50, b.Peak)
	assert.InDelta(t, 5.0, b.PeakPosition, 1e-12)
	assert.LessOrEqual(t, b.FWHM.Lo, b.Peak)
	assert.GreaterOrEqual(t, b.FWHM.Hi, b.Peak)
	// FWHM of a Gaussian is 2.355σ; sample spacing limits the match.
	assert.InDelta(t, 2.355*0.5, b.Width, 0.2)
	assert.InDelta(t, 5.0, b.Mean, 1e-6)
	assert.InDelta(t, 0.5, b.Std, 0.01)

	// Cylindrical profiles are mirrored about the axis.
	require.Len(t, b.TransverseAxis, 20)
	require.Len(t, b.TransverseProfile, 20)
	assert.Equal(t, b.TransverseProfile[9], b.TransverseProfile[10])
	assert.InDelta(t, 0, b.TransverseMean, 1e-12)
	assert.Greater(t, b.RadialCutoff, 0)
	assert.Less(t, b.RadialCutoff, 10)
	assert.Equal(t, in.Radial[b.RadialCutoff], b.Radius)

	assert.Equal(t, 101, b.Particles)
	assert.InDelta(t, 1.01, b.Charge, 1e-9)
	assert.Zero(t, b.EnergySpread)
}

func TestMeasureCartesianKeepsOneSidedProfile(t *testing.T) {
	in := gaussianInput(false)
	b := MeasureSegment(in, l4peaks.Segment{Start: 10, Stop: 90})
	assert.Len(t, b.TransverseAxis, 10)
	assert.Len(t, b.TransverseProfile, 10)
	assert.Equal(t, 0, b.TransverseFWHM.Lo)
	assert.InDelta(t, 1.0, b.Start, 1e-12)
	assert.InDelta(t, 9.0, b.Stop, 1e-12)
	assert.Len(t, b.Profile, 81)
}

func TestMeasureEmpty(t *testing.T) {
	assert.Nil(t, Measure(gaussianInput(false), nil))
}
