// SPDX-License-Identifier: MIT
// Package: ndarray
//
// Purpose:
//   - Row-major 2-D images and 3-D frame stacks carrying a DType.
//
// Exposed API:
//   - New / FromSlice / Wrap, Shape / At / Frame / Squeeze / Stack
//   - Sub / Add (dtype promotion), Equal / EqualApprox, MinMax / Mean
//   - NaNMin / NaNMax / NaNMean over raw slices

package ndarray

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Array is a dense, row-major 2-D image (h, w) or 3-D frame stack (n, h, w).
// Arrays are not mutated after construction by this module, so they may be
// shared between readers.
type Array struct {
	shape []int     // (h, w) or (n, h, w)
	data  []float64 // len == product(shape)
	dtype DType
}

// New allocates a zero-filled array of the given shape.
// Complexity: O(product(shape)).
func New(dt DType, shape ...int) (*Array, error) {
	n, err := elements(shape)
	if err != nil {
		return nil, arrayErrorf("New", err)
	}

	return &Array{shape: append([]int(nil), shape...), data: make([]float64, n), dtype: dt}, nil
}

// FromSlice copies data into a new array of the given shape.
func FromSlice(data []float64, dt DType, shape ...int) (*Array, error) {
	return Wrap(append([]float64(nil), data...), dt, shape...)
}

// Wrap builds an array that takes ownership of data (no copy). Values are
// rounded in place when dt is Float32. The caller must not modify data afterwards.
func Wrap(data []float64, dt DType, shape ...int) (*Array, error) {
	n, err := elements(shape)
	if err != nil {
		return nil, arrayErrorf("Wrap", err)
	}
	if len(data) != n {
		return nil, arrayErrorf("Wrap", fmt.Errorf("%d values for shape %v: %w", len(data), shape, ErrBadShape))
	}
	dt.roundAll(data)

	return &Array{shape: append([]int(nil), shape...), data: data, dtype: dt}, nil
}

// elements validates a rank-2 or rank-3 shape and returns its element count.
func elements(shape []int) (int, error) {
	if len(shape) != 2 && len(shape) != 3 {
		return 0, ErrBadShape
	}
	n := 1
	for _, s := range shape {
		if s <= 0 {
			return 0, ErrBadShape
		}
		n *= s
	}

	return n, nil
}

// Shape returns a copy of the logical shape.
func (a *Array) Shape() []int { return append([]int(nil), a.shape...) }

// NDim returns 2 for an image and 3 for a frame stack.
func (a *Array) NDim() int { return len(a.shape) }

// DType returns the element type.
func (a *Array) DType() DType { return a.dtype }

// Len returns the total number of elements.
func (a *Array) Len() int { return len(a.data) }

// Frames returns the number of frames: shape[0] for a stack, 1 for an image.
func (a *Array) Frames() int {
	if len(a.shape) == 3 {
		return a.shape[0]
	}

	return 1
}

// Height and Width of every frame.
func (a *Array) Height() int { return a.shape[len(a.shape)-2] }
func (a *Array) Width() int  { return a.shape[len(a.shape)-1] }

// Data returns a copy of the row-major element buffer.
func (a *Array) Data() []float64 { return append([]float64(nil), a.data...) }

// At returns the element at idx, which must have one coordinate per dimension.
// Complexity: O(ndim).
func (a *Array) At(idx ...int) (float64, error) {
	if len(idx) != len(a.shape) {
		return 0, arrayErrorf("At", fmt.Errorf("%d indices for %d dims: %w", len(idx), len(a.shape), ErrDimensionMismatch))
	}
	off := 0
	for d, i := range idx {
		if i < 0 || i >= a.shape[d] {
			return 0, arrayErrorf("At", fmt.Errorf("index %d on axis %d of size %d: %w", i, d, a.shape[d], ErrOutOfRange))
		}
		off = off*a.shape[d] + i
	}

	return a.data[off], nil
}

// Frame returns a copy of frame i as an (h, w) image. An image only has frame 0.
func (a *Array) Frame(i int) (*Array, error) {
	if i < 0 || i >= a.Frames() {
		return nil, arrayErrorf("Frame", fmt.Errorf("frame %d of %d: %w", i, a.Frames(), ErrOutOfRange))
	}
	px := a.Height() * a.Width()
	out := make([]float64, px)
	copy(out, a.data[i*px:(i+1)*px])

	return &Array{shape: []int{a.Height(), a.Width()}, data: out, dtype: a.dtype}, nil
}

// Squeeze drops a leading frame axis of length 1; other arrays are returned as is.
// The result shares storage with a.
func (a *Array) Squeeze() *Array {
	if len(a.shape) == 3 && a.shape[0] == 1 {
		return &Array{shape: []int{a.shape[1], a.shape[2]}, data: a.data, dtype: a.dtype}
	}

	return a
}

// Stack promotes an image to a one-frame (1, h, w) stack; stacks are returned as is.
// The result shares storage with a.
func (a *Array) Stack() *Array {
	if len(a.shape) == 2 {
		return &Array{shape: []int{1, a.shape[0], a.shape[1]}, data: a.data, dtype: a.dtype}
	}

	return a
}

// Sub returns a - b elementwise. Shapes must match exactly.
// Complexity: O(len).
func (a *Array) Sub(b *Array) (*Array, error) {
	if !sameShape(a.shape, b.shape) {
		return nil, arrayErrorf("Sub", fmt.Errorf("%v - %v: %w", a.shape, b.shape, ErrDimensionMismatch))
	}
	out := make([]float64, len(a.data))
	floats.SubTo(out, a.data, b.data)

	return Wrap(out, Promote(a.dtype, b.dtype), a.shape...)
}

// Add returns a + b elementwise. Shapes must match exactly.
func (a *Array) Add(b *Array) (*Array, error) {
	if !sameShape(a.shape, b.shape) {
		return nil, arrayErrorf("Add", fmt.Errorf("%v + %v: %w", a.shape, b.shape, ErrDimensionMismatch))
	}
	out := make([]float64, len(a.data))
	floats.AddTo(out, a.data, b.data)

	return Wrap(out, Promote(a.dtype, b.dtype), a.shape...)
}

// Equal reports exact equality of shape and values (NaN never equals NaN).
func (a *Array) Equal(b *Array) bool {
	return sameShape(a.shape, b.shape) && floats.Equal(a.data, b.data)
}

// EqualApprox reports equality of shape and values within an absolute or
// relative tolerance of tol.
func (a *Array) EqualApprox(b *Array, tol float64) bool {
	return sameShape(a.shape, b.shape) && floats.EqualApprox(a.data, b.data, tol)
}

// MinMax returns the smallest and largest non-NaN elements. Both are NaN when
// every element is NaN.
func (a *Array) MinMax() (lo, hi float64) {
	return NaNMin(a.data), NaNMax(a.data)
}

// Mean returns the mean over non-NaN elements (NaN if there are none).
func (a *Array) Mean() float64 {
	return NaNMean(a.data)
}

// String renders shape and dtype, e.g. "Array(50, 10, 10; float32)".
func (a *Array) String() string {
	dims := make([]string, len(a.shape))
	for i, s := range a.shape {
		dims[i] = fmt.Sprint(s)
	}

	return fmt.Sprintf("Array(%s; %s)", strings.Join(dims, ", "), a.dtype)
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}

// NaNMin returns the smallest non-NaN value of x, or NaN if there is none.
func NaNMin(x []float64) float64 {
	lo := math.NaN()
	for _, v := range x {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(lo) || v < lo {
			lo = v
		}
	}

	return lo
}

// NaNMax returns the largest non-NaN value of x, or NaN if there is none.
func NaNMax(x []float64) float64 {
	hi := math.NaN()
	for _, v := range x {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(hi) || v > hi {
			hi = v
		}
	}

	return hi
}

// NaNMean returns the mean of the non-NaN values of x, or NaN if there is none.
func NaNMean(x []float64) float64 {
	var sum float64
	var n int
	for _, v := range x {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}

	return sum / float64(n)
}
