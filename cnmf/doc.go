// SPDX-License-Identifier: MIT

// Package cnmf reconstructs frame ranges of a CNMF factorization and computes
// residuals against the raw movie the factorization was run on.
//
// The factorization (Estimates) is
//
//	Y ≈ A·C + b·f
//
// with A the sparse spatial footprints (pixels × K), C the temporal traces
// (K × T), and b·f an optional low-rank background (pixels × nb, nb × T).
// Pixels are linearized column-major: p = row + col*h.
//
// Reconstructor materializes only the requested frames:
//
//	rec, _ := cnmf.NewReconstructor(est, movie)
//	frames, _ := rec.ReconstructedMovie(ndarray.Span(100, 200))   // (100, h, w)
//	res, _ := rec.Residuals(ndarray.Index(42))                    // (1, h, w)
//
// Unlike lazy.Product.Read, the eager results always keep the leading frame
// axis, even for a single frame.
//
// For random access without materializing ranges, RCM, RCB and LazyResiduals
// return the lazy variants built from the same estimates.
package cnmf
