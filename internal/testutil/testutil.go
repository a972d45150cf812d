// Package testutil provides shared test utilities and fixtures.
package testutil

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// ExampleSimulation is the repository path of the example simulation config.
const ExampleSimulation = "config/simulation.example.json"

// RepoRoot returns the directory holding go.mod, searching upwards from the
// working directory of the test.
func RepoRoot(t testing.TB) string {
	t.Helper()
	dir, err := os.Getwd()
	require.NoError(t, err)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("go.mod not found above working directory")
		}
		dir = parent
	}
}

// RepoPath resolves a slash-separated path relative to the repository root
// and fails the test if it does not exist.
func RepoPath(t testing.TB, rel string) string {
	t.Helper()
	path := filepath.Join(RepoRoot(t), filepath.FromSlash(rel))
	_, err := os.Stat(path)
	require.NoError(t, err, "fixture %s", rel)
	return path
}

// Gaussians samples a sum of unit-height normal profiles of width sigma
// centred on centres.
func Gaussians(x, centres []float64, sigma float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		for _, c := range centres {
			d := (v - c) / sigma
			out[i] += math.Exp(-0.5 * d * d)
		}
	}
	return out
}
