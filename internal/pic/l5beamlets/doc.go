// Package l5beamlets owns Layer 5 (Measurement) of the beamlet analysis.
//
// Responsibilities: turning each segment of the longitudinal projection into
// a Beamlet: longitudinal and transverse profiles, half-maximum widths,
// weighted moments, radial cutoff, charge and phase-space metrics of the
// particles inside the segment.
//
// Dependency rule: L5 may depend on L1-L4 and the dump types, never on the
// pipeline.
package l5beamlets
