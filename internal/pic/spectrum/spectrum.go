// Package spectrum computes the longitudinal power spectrum of a projection,
// used to read off the bunch modulation period of a beam.
package spectrum

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/dsputils"
	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/floats"
)

// ErrTooShort is returned for signals with fewer than 4 samples.
var ErrTooShort = errors.New("signal too short for a spectrum")

// Spectrum is the one-sided power spectrum of a uniformly sampled signal.
// Wavenumbers are in radians per unit of the sample spacing.
type Spectrum struct {
	Wavenumber []float64 `json:"wavenumber"`
	Power      []float64 `json:"power"`

	// Peak is the strongest non-DC bin; PeakWavenumber refines it with
	// parabolic interpolation.
	Peak           int     `json:"peak"`
	PeakWavenumber float64 `json:"peak_wavenumber"`
	PeakWavelength float64 `json:"peak_wavelength"`
}

// Compute returns the Hann-windowed power spectrum of signal sampled at
// spacing dx. The mean is removed first and the signal is zero padded to the
// next power of two.
func Compute(signal []float64, dx float64) (*Spectrum, error) {
	if len(signal) < 4 {
		return nil, ErrTooShort
	}
	if dx <= 0 {
		return nil, errors.New("sample spacing must be positive")
	}

	x := make([]float64, len(signal))
	copy(x, signal)
	floats.AddConst(-floats.Sum(x)/float64(len(x)), x)
	window.Apply(x, window.Hann)

	n := dsputils.NextPowerOf2(len(x))
	coeffs := fft.FFTReal(dsputils.ZeroPadF(x, n))

	bins := n/2 + 1
	s := &Spectrum{
		Wavenumber: make([]float64, bins),
		Power:      make([]float64, bins),
	}
	dk := 2 * math.Pi / (float64(n) * dx)
	for i := range bins {
		s.Wavenumber[i] = float64(i) * dk
		a := cmplx.Abs(coeffs[i])
		s.Power[i] = a * a
	}

	s.Peak = 1 + floats.MaxIdx(s.Power[1:])
	s.PeakWavenumber = refine(s.Power, s.Peak) * dk
	if s.PeakWavenumber > 0 {
		s.PeakWavelength = 2 * math.Pi / s.PeakWavenumber
	}
	return s, nil
}

// refine interpolates a parabola through the peak bin and its neighbours.
func refine(p []float64, i int) float64 {
	if i <= 0 || i >= len(p)-1 {
		return float64(i)
	}
	y1, y2, y3 := p[i-1], p[i], p[i+1]
	den := 2 * (2*y2 - y1 - y3)
	if den == 0 {
		return float64(i)
	}
	return float64(i) + (y3-y1)/den
}
