package dump

import (
	"context"
	"fmt"
	"sync"
)

type gridKey struct {
	dump    int
	kind    string
	name    string
	species string
}

type particleKey struct {
	dump    int
	species string
}

// Memory is a Reader backed by in-memory grids and particle lists. It is safe
// for concurrent use.
type Memory struct {
	mu        sync.RWMutex
	grids     map[gridKey]*Grid
	particles map[particleKey][]Particle
}

// NewMemory returns an empty Memory reader.
func NewMemory() *Memory {
	return &Memory{
		grids:     make(map[gridKey]*Grid),
		particles: make(map[particleKey][]Particle),
	}
}

// PutGrid stores g under its own dump, kind, name and species.
func (m *Memory) PutGrid(g *Grid) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grids[gridKey{g.Dump, g.Kind, g.Name, g.Species}] = g
}

// PutParticles stores the raw particles of one species in one dump.
func (m *Memory) PutParticles(dumpIndex int, species string, p []Particle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.particles[particleKey{dumpIndex, species}] = p
}

// ReadGrid implements Reader.
func (m *Memory) ReadGrid(ctx context.Context, dumpIndex int, kind, name, species string) (*Grid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.grids[gridKey{dumpIndex, kind, name, species}]
	if !ok {
		return nil, fmt.Errorf("%w: %s %q for species %q in dump %d", ErrNotFound, kind, name, species, dumpIndex)
	}
	return g, nil
}

// ReadParticles implements Reader.
func (m *Memory) ReadParticles(ctx context.Context, dumpIndex int, species string) ([]Particle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.particles[particleKey{dumpIndex, species}]
	if !ok {
		return nil, fmt.Errorf("%w: raw particles for species %q in dump %d", ErrNotFound, species, dumpIndex)
	}
	return p, nil
}
