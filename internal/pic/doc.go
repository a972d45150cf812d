// Package pic is the root of the particle-in-cell analysis layers.
//
// The beamlet analysis is split into layers, leaves first:
//
//	l1axes      axis arrays, unit scaling, limits and masks
//	l2stats     weighted statistics
//	l3smooth    loess smoothing of 1D projections
//	l4peaks     peak finding, prominence and valley segmentation
//	l5beamlets  per-segment measurement and charge integration
//
// Dependency rule: a layer may depend on lower layers, never on higher ones.
// The pipeline package wires the layers to a dump.Reader and a simctx.Context;
// storage and report are adapters that consume pipeline results.
package pic
