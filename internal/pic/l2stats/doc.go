// Package l2stats owns Layer 2 (Statistics) of the beamlet analysis.
//
// Responsibilities: weighted mean, population standard deviation and
// percentile over value/weight pairs. Every function returns 0 for empty
// input, mismatched lengths or weights that sum to zero, so callers never see
// NaN or a panic from degenerate data.
//
// Dependency rule: L2 depends only on gonum.
package l2stats
