// SPDX-License-Identifier: MIT

// Package sparse implements the compressed-sparse-column (CSC) matrix used for
// spatial footprints: one column per component, one row per pixel.
//
// What & Why:
//
//	Spatial footprints are overwhelmingly zero (a neuron covers a few hundred
//	of hundreds of thousands of pixels), and every operation of the
//	reconstruction engine walks them column by column: per-component extrema,
//	footprint · trace products and component subsets. CSC makes each of those
//	O(nnz) instead of O(pixels × components).
//
// CSC satisfies gonum's mat.Matrix (Dims, At, T), so it can be handed to any
// gonum routine that accepts a mat.Matrix; the package's own kernels iterate
// the stored entries directly.
//
// Semantics follow scipy.sparse where they matter to callers: ColMax/ColMin
// include the implicit zero of any column that has fewer stored entries than
// rows, and Equal compares values, not storage (an explicitly stored zero
// equals an implicit one).
//
// Complexity:
//
//	At: O(log nnz(col)); ColMax/ColMin/MulVec: O(nnz + cols);
//	MulCols: O(nnz(selected) × frames).
package sparse
