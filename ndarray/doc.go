// SPDX-License-Identifier: MIT

// Package ndarray holds the dense frame data exchanged by the reconstruction
// packages: 2-D images and 3-D frame stacks, their element type, the frame
// selectors used to address a movie, and the column-major pixel reshape that
// turns a pixels×frames block into a stack of images.
//
// Conventions:
//
//   - A frame stack has shape (n, h, w); an image has shape (h, w).
//   - Element storage is row-major over the logical shape.
//   - Pixel linearization of a factorization is column-major ("Fortran"):
//     pixel index p = row + col*h.
//
// Frame selectors:
//
//	ndarray.Index(7)        // frame 7, i.e. [7, 8)
//	ndarray.Span(10, 20)    // frames [10, 20)
//	ndarray.All()           // every frame
//
// Selectors never clip: Bounds(n) fails with ErrOutOfRange whenever the
// selection leaves [0, n] or is empty.
package ndarray
