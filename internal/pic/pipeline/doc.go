// Package pipeline owns Layer 6 (Analysis) of the beamlet analysis.
//
// Responsibilities: ComputeBeamlets, the single entry point that reads one
// dump through a dump.Reader, crops it to the configured limits and runs
// projection, smoothing, segmentation and measurement.
//
// Dependency rule: L6 may depend on L1-L5, simctx, dump and config.
package pipeline
