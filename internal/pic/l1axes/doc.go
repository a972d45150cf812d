// Package l1axes owns Layer 1 (Axes) of the beamlet analysis.
//
// Responsibilities: physical axis arrays from box bounds, axis limits with
// clamping to the simulation box, index cropping, particle masks and
// cylindrical mirroring.
//
// Dependency rule: L1 depends on nothing above it.
package l1axes
