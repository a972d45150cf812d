package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	require.NotNil(t, opts.BeamProminence)
	assert.Equal(t, 0.1, *opts.BeamProminence)
	require.NotNil(t, opts.IgnoreLimits)
	assert.False(t, *opts.IgnoreLimits)

	assert.Equal(t, "beam", opts.GetSpecies())
	assert.Equal(t, 0.5, opts.GetMinPeakDistance())
	assert.Equal(t, 0.1, opts.GetSmoothSpan())
	assert.Equal(t, 0.95, opts.GetRadialInclude())
	assert.Equal(t, "normalized", opts.GetUnitSystem())
	assert.Equal(t, "", opts.GetLengthUnit())
	assert.Equal(t, "", opts.GetChargeUnit())
	assert.NoError(t, opts.Validate())
}

func TestLoadOptions(t *testing.T) {
	path := writeFile(t, "opts.json", `{
  "species": "witness",
  "ignore_limits": true,
  "beam_prominence": 0.25,
  "min_peak_distance": 1.5,
  "smooth_span": 0.2,
  "radial_include": 0.9,
  "unit_system": "si",
  "length_unit": "um",
  "charge_unit": "pC",
  "limits_x1": [2, 18]
}`)

	opts, err := LoadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, "witness", opts.GetSpecies())
	assert.True(t, opts.GetIgnoreLimits())
	assert.Equal(t, 0.25, opts.GetBeamProminence())
	assert.Equal(t, 1.5, opts.GetMinPeakDistance())
	assert.Equal(t, 0.2, opts.GetSmoothSpan())
	assert.Equal(t, 0.9, opts.GetRadialInclude())
	assert.Equal(t, "si", opts.GetUnitSystem())
	assert.Equal(t, "um", opts.GetLengthUnit())
	assert.Equal(t, "pC", opts.GetChargeUnit())
	assert.Equal(t, []float64{2, 18}, opts.LimitsX1)
	assert.Empty(t, opts.LimitsX2)
}

func TestLoadOptionsPartial(t *testing.T) {
	path := writeFile(t, "partial.json", `{"smooth_span": 0.3}`)

	opts, err := LoadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, 0.3, opts.GetSmoothSpan())
	// Unset fields fall back to defaults
	assert.Equal(t, 0.1, opts.GetBeamProminence())
	assert.Equal(t, "beam", opts.GetSpecies())
}

func TestLoadOptionsErrors(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, err := LoadOptions(filepath.Join(t.TempDir(), "missing.json"))
		assert.Error(t, err)
	})

	t.Run("non json extension", func(t *testing.T) {
		path := writeFile(t, "opts.yaml", `{}`)
		_, err := LoadOptions(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ".json extension")
	})

	t.Run("malformed", func(t *testing.T) {
		path := writeFile(t, "bad.json", `{"smooth_span": }`)
		_, err := LoadOptions(path)
		assert.Error(t, err)
	})

	t.Run("too large", func(t *testing.T) {
		path := writeFile(t, "big.json", `{"species": "`+strings.Repeat("a", maxConfigFileSize)+`"}`)
		_, err := LoadOptions(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "too large")
	})

	t.Run("invalid value", func(t *testing.T) {
		path := writeFile(t, "invalid.json", `{"radial_include": 1.5}`)
		_, err := LoadOptions(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "radial_include")
	})
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr string
	}{
		{"empty is valid", Options{}, ""},
		{"empty species", Options{Species: ptrString("")}, "species"},
		{"zero prominence", Options{BeamProminence: ptrFloat64(0)}, "beam_prominence"},
		{"prominence above one", Options{BeamProminence: ptrFloat64(1.2)}, "beam_prominence"},
		{"prominence of one", Options{BeamProminence: ptrFloat64(1)}, ""},
		{"negative distance", Options{MinPeakDistance: ptrFloat64(-1)}, "min_peak_distance"},
		{"zero span", Options{SmoothSpan: ptrFloat64(0)}, "smooth_span"},
		{"zero radial include", Options{RadialInclude: ptrFloat64(0)}, "radial_include"},
		{"bad unit system", Options{UnitSystem: ptrString("cgs")}, "unit_system"},
		{"malformed limits", Options{LimitsX1: []float64{1, 2, 3}}, "exactly 2"},
		{"inverted limits", Options{LimitsX2: []float64{3, 1}}, "inverted"},
		{"good limits", Options{LimitsX1: []float64{0, 5}, LimitsX2: []float64{-1, 1}}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadDefaultConfigFile(t *testing.T) {
	opts := MustLoadDefaultConfig()
	assert.Equal(t, DefaultOptions().GetBeamProminence(), opts.GetBeamProminence())
	assert.Equal(t, DefaultOptions().GetRadialInclude(), opts.GetRadialInclude())
	assert.Equal(t, "beam", opts.GetSpecies())
}
