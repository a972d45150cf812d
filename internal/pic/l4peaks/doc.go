// Package l4peaks owns Layer 4 (Segmentation) of the beamlet analysis.
//
// Responsibilities: local maximum detection with a minimum separation,
// prominence, threshold filtering and valley-to-valley segmentation of a
// smoothed 1D signal.
//
// Dependency rule: L4 may depend on L1-L3, never on L5+.
package l4peaks
