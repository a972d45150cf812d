package l1axes

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinspace(t *testing.T) {
	tests := []struct {
		name  string
		min   float64
		max   float64
		n     int
		scale float64
	}{
		{"unit box", 0, 1, 11, 1},
		{"scaled", -2, 6, 400, 5.3e-6},
		{"two cells", 1, 2, 2, 1},
		{"large grid", 0, 100, 4096, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			axis, err := Linspace(tt.min, tt.max, tt.n, tt.scale)
			require.NoError(t, err)
			require.Len(t, axis, tt.n)
			assert.InDelta(t, tt.min*tt.scale, axis[0], 1e-12*tt.scale)
			assert.InDelta(t, tt.max*tt.scale, axis[tt.n-1], 1e-12*tt.scale)
			for i := 1; i < len(axis); i++ {
				require.Greater(t, axis[i], axis[i-1], "axis must be strictly increasing at %d", i)
			}
		})
	}
}

func TestLinspaceSingleCell(t *testing.T) {
	axis, err := Linspace(3, 4, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{6}, axis)
}

func TestLinspaceInvalid(t *testing.T) {
	for _, tc := range []struct {
		min, max, scale float64
		n               int
	}{
		{0, 1, 1, 0},
		{0, 1, 1, -3},
		{1, 1, 1, 10},
		{2, 1, 1, 10},
		{0, 1, 0, 10},
	} {
		_, err := Linspace(tc.min, tc.max, tc.n, tc.scale)
		assert.True(t, errors.Is(err, ErrInvalidRange), "min=%g max=%g n=%d scale=%g", tc.min, tc.max, tc.n, tc.scale)
	}
}

func TestSpacing(t *testing.T) {
	axis, err := Linspace(0, 10, 101, 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.1, Spacing(axis), 1e-12)
	assert.Equal(t, 0.0, Spacing([]float64{1}))
}

func TestMirror(t *testing.T) {
	assert.Equal(t, []float64{-3, -2, -1, 1, 2, 3}, Mirror([]float64{1, 2, 3}))
	assert.Equal(t, []float64{30, 20, 10, 10, 20, 30}, MirrorProfile([]float64{10, 20, 30}))
	assert.Empty(t, Mirror(nil))
}
