// SPDX-License-Identifier: MIT

package ndarray

// Movie is the contract of a raw, possibly out-of-core recording with logical
// shape (frames, h, w). Implementations must be safe for concurrent readers.
type Movie interface {
	// Shape returns (frames, h, w).
	Shape() [3]int

	// DType returns the element type of the stored samples.
	DType() DType

	// Frames returns frames [start, stop) as an (n, h, w) stack, even when n == 1.
	// Out-of-range requests fail with an error wrapping ErrOutOfRange.
	Frames(start, stop int) (*Array, error)
}

// InMemory adapts a frame stack to the Movie contract.
type InMemory struct {
	a *Array
}

// NewInMemory wraps a as a Movie; an image becomes a one-frame movie.
func NewInMemory(a *Array) *InMemory { return &InMemory{a: a.Stack()} }

// Shape returns (frames, h, w).
func (m *InMemory) Shape() [3]int {
	return [3]int{m.a.shape[0], m.a.shape[1], m.a.shape[2]}
}

// DType returns the element type.
func (m *InMemory) DType() DType { return m.a.dtype }

// Frames copies frames [start, stop).
func (m *InMemory) Frames(start, stop int) (*Array, error) {
	n := m.a.shape[0]
	if start < 0 || start >= stop || stop > n {
		return nil, arrayErrorf("Frames", ErrOutOfRange)
	}
	px := m.a.shape[1] * m.a.shape[2]
	out := make([]float64, (stop-start)*px)
	copy(out, m.a.data[start*px:stop*px])

	return &Array{shape: []int{stop - start, m.a.shape[1], m.a.shape[2]}, data: out, dtype: m.a.dtype}, nil
}
