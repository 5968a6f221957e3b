// SPDX-License-Identifier: MIT

// Package lazy provides read-only, index-addressable virtual movies over a
// CNMF factorization. Nothing of shape frames×pixels is ever materialized:
// each Read multiplies the spatial footprints by the selected columns of the
// temporal traces only.
//
// Variants (closed set, one capability interface Array):
//
//   - Product, KindReconstructed: A · C, the reconstructed movie (NewRCM).
//   - Product, KindBackground:    b · f, the background movie (NewRCB).
//   - Residuals:                  Y - A·C - b·f against a raw Movie (NewResiduals).
//
// Derived statistics (dtype, global min/max, mean/min/max images) are computed
// once by the constructor and stored as plain fields; the values are never
// recomputed, and the wrapped inputs are treated as immutable, so a value may
// be read from many goroutines at once.
//
// Read shape rule:
//
//	p.Read(ndarray.Index(i))      -> (h, w)
//	p.Read(ndarray.Span(a, b))    -> (b-a, h, w), squeezed to (h, w) when b-a == 1
//
// Global bounds are an envelope built from per-component extrema of the two
// factors. They are attained only when the extrema of a footprint and of its
// trace co-occur and footprints do not overlap; otherwise they still bound
// every single-component contribution but are not necessarily tight.
package lazy
