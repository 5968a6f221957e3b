// SPDX-License-Identifier: MIT

// Package memmap reads and writes raw movies in the CaImAn memmap layout.
//
// A memmap file stores the pixels × frames matrix Yr as little-endian
// float32 values with no header. Its geometry is encoded in the filename:
//
//	<prefix>_d1_<H>_d2_<W>_d3_<D>_order_<C|F>_frames_<T>_.mmap
//
// Pixel p = r + c*H holds frame t's value at (r, c). In order C the T values
// of one pixel are contiguous; in order F the P = H*W pixels of one frame are.
//
// Open maps the file read-only with golang.org/x/exp/mmap; Movie.Frames
// touches only the pages that back the requested frames, so a Movie can be
// handed to cnmf.NewReconstructor or lazy.NewResiduals without loading it.
// Only planar movies (D == 1) are supported.
package memmap
