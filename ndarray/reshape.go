// SPDX-License-Identifier: MIT

package ndarray

import "fmt"

// FromColumnMajor converts a pixel-major block into a frame stack.
//
// block holds a pixels×n matrix in row-major order: block[p*n+j] is pixel p of
// column (frame) j, with pixels linearized column-major (p = row + col*h).
// The result is the numpy expression
//
//	block.reshape((h, w, n), order="F").transpose(2, 0, 1)
//
// i.e. a (n, h, w) stack. No squeeze is applied.
// Complexity: O(h*w*n).
func FromColumnMajor(block []float64, h, w, n int, dt DType) (*Array, error) {
	if h <= 0 || w <= 0 || n <= 0 {
		return nil, arrayErrorf("FromColumnMajor", ErrBadShape)
	}
	px := h * w
	if len(block) != px*n {
		return nil, arrayErrorf("FromColumnMajor", fmt.Errorf("%d values for %dx%dx%d: %w", len(block), h, w, n, ErrBadShape))
	}

	out := make([]float64, px*n)
	var p, r, c, j int
	for p = 0; p < px; p++ {
		r, c = p%h, p/h
		dst := r*w + c // offset of (r, c) inside one frame
		src := block[p*n : (p+1)*n]
		for j = 0; j < n; j++ {
			out[j*px+dst] = src[j]
		}
	}

	return Wrap(out, dt, n, h, w)
}

// ImageFromColumnMajor reshapes a pixel vector (p = row + col*h) into an (h, w) image.
func ImageFromColumnMajor(vec []float64, h, w int, dt DType) (*Array, error) {
	st, err := FromColumnMajor(vec, h, w, 1, dt)
	if err != nil {
		return nil, err
	}

	return st.Squeeze(), nil
}

// ColumnMajor flattens frame i of a into a pixel vector with p = row + col*h,
// the inverse of ImageFromColumnMajor.
func (a *Array) ColumnMajor(i int) ([]float64, error) {
	if i < 0 || i >= a.Frames() {
		return nil, arrayErrorf("ColumnMajor", fmt.Errorf("frame %d of %d: %w", i, a.Frames(), ErrOutOfRange))
	}
	h, w := a.Height(), a.Width()
	frame := a.data[i*h*w : (i+1)*h*w]
	out := make([]float64, h*w)
	var r, c int
	for r = 0; r < h; r++ {
		for c = 0; c < w; c++ {
			out[r+c*h] = frame[r*w+c]
		}
	}

	return out, nil
}
