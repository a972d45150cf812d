package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepoRoot(t *testing.T) {
	root := RepoRoot(t)
	_, err := os.Stat(filepath.Join(root, "go.mod"))
	require.NoError(t, err)
}

func TestRepoPath(t *testing.T) {
	path := RepoPath(t, ExampleSimulation)
	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, "simulation.example.json", filepath.Base(path))
}

func TestGaussians(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	got := Gaussians(x, []float64{2}, 1)
	assert.InDelta(t, 1, got[2], 1e-12)
	assert.InDelta(t, got[1], got[3], 1e-12)
	assert.Less(t, got[0], got[1])

	sum := Gaussians(x, []float64{0, 4}, 1)
	assert.InDelta(t, sum[0], sum[4], 1e-12)
	assert.Greater(t, sum[0], 1.0)
}
