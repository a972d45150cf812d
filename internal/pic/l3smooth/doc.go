// Package l3smooth owns Layer 3 (Smoothing) of the beamlet analysis.
//
// Responsibilities: converting a smoothing span given in plasma wavelengths to
// a window in samples, and local quadratic regression (loess) of a 1D
// projection with tricube weights.
//
// Dependency rule: L3 may depend on L2 (l2stats), never on L4+.
package l3smooth
