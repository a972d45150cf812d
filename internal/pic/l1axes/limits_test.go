package l1axes

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/pic.report/internal/monitoring"
)

func TestParseLimits(t *testing.T) {
	lim, ok, err := ParseLimits(nil)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, Limits{}, lim)

	lim, ok, err = ParseLimits([]float64{1, 4})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, Limits{Min: 1, Max: 4}, lim)

	_, _, err = ParseLimits([]float64{1})
	assert.True(t, errors.Is(err, ErrInvalidLimits))

	_, _, err = ParseLimits([]float64{4, 1})
	assert.True(t, errors.Is(err, ErrInvalidLimits))

	_, _, err = ParseLimits([]float64{2, 2})
	assert.True(t, errors.Is(err, ErrInvalidLimits))
}

func TestClamp(t *testing.T) {
	original := monitoring.Warnf
	defer func() { monitoring.Warnf = original }()

	var warnings []string
	monitoring.SetWarner(func(format string, v ...interface{}) {
		warnings = append(warnings, fmt.Sprintf(format, v...))
	})

	got := Clamp("x1", Limits{Min: 2, Max: 8}, 0, 10)
	assert.Equal(t, Limits{Min: 2, Max: 8}, got)
	assert.Empty(t, warnings)

	got = Clamp("x1", Limits{Min: -5, Max: 15}, 0, 10)
	assert.Equal(t, Limits{Min: 0, Max: 10}, got)
	assert.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "x1 lower limit -5")

	warnings = nil
	got = Clamp("x2", Limits{Min: 12, Max: 15}, 0, 10)
	assert.Equal(t, Limits{Min: 10, Max: 10}, got)
	assert.NotEmpty(t, warnings)
}

func TestCrop(t *testing.T) {
	axis := []float64{0, 1, 2, 3, 4, 5}

	lo, hi, err := Crop(axis, Limits{Min: 1, Max: 3})
	require.NoError(t, err)
	assert.Equal(t, 1, lo)
	assert.Equal(t, 3, hi)

	lo, hi, err = Crop(axis, Limits{Min: 0.5, Max: 3.5})
	require.NoError(t, err)
	assert.Equal(t, 1, lo)
	assert.Equal(t, 3, hi)

	lo, hi, err = Crop(axis, Limits{Min: -1, Max: 10})
	require.NoError(t, err)
	assert.Equal(t, 0, lo)
	assert.Equal(t, 5, hi)

	_, _, err = Crop(axis, Limits{Min: 1.2, Max: 1.8})
	assert.True(t, errors.Is(err, ErrInvalidLimits))

	_, _, err = Crop(axis, Limits{Min: 6, Max: 7})
	assert.True(t, errors.Is(err, ErrInvalidLimits))
}

func TestMaskAndCombine(t *testing.T) {
	values := []float64{-1, 0, 0.5, 1, 2}
	m := Mask(values, Limits{Min: 0, Max: 1})
	assert.Equal(t, []bool{false, true, true, true, false}, m)

	other := []bool{true, true, false, true, true}
	assert.Equal(t, []bool{false, true, false, true, false}, And(m, other))
	assert.Equal(t, m, And(nil, m))
	assert.Nil(t, And())

	// And must not alias its first input
	combined := And(m, other)
	combined[1] = false
	assert.True(t, m[1])
}
