// SPDX-License-Identifier: MIT
// Package: memmap
//
// Purpose:
//   - Read-only, memory-mapped CaImAn movie implementing ndarray.Movie.

package memmap

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"golang.org/x/exp/mmap"

	"github.com/katalvlaran/cnmfrecon/ndarray"
)

var _ ndarray.Movie = (*Movie)(nil)

// Movie is a read-only memory-mapped raw movie.
// Frames may be called concurrently; Close must not race with reads.
type Movie struct {
	path   string
	layout Layout

	mu sync.RWMutex
	r  *mmap.ReaderAt
}

// Open maps the memmap file at path.
// Errors: ErrNotMemmap, ErrBadName, ErrUnsupported (D != 1), ErrSize, and
// the error from mapping the file.
func Open(path string) (*Movie, error) {
	l, err := ParseName(path)
	if err != nil {
		return nil, memmapErrorf("Open", err)
	}
	if l.Depth != 1 {
		return nil, memmapErrorf("Open", fmt.Errorf("d3 = %d: %w", l.Depth, ErrUnsupported))
	}
	r, err := mmap.Open(path)
	if err != nil {
		return nil, memmapErrorf("Open", err)
	}
	if got := int64(r.Len()); got != l.Size() {
		_ = r.Close()
		return nil, memmapErrorf("Open", fmt.Errorf("%s: %d bytes, layout needs %d: %w", path, got, l.Size(), ErrSize))
	}

	return &Movie{path: path, layout: l, r: r}, nil
}

// Path returns the file the movie was opened from.
func (m *Movie) Path() string { return m.path }

// Layout returns the decoded geometry.
func (m *Movie) Layout() Layout { return m.layout }

// Shape returns (frames, height, width).
func (m *Movie) Shape() [3]int {
	return [3]int{m.layout.Frames, m.layout.Height, m.layout.Width}
}

// DType is always ndarray.Float32.
func (m *Movie) DType() ndarray.DType { return ndarray.Float32 }

// Size returns the mapped length in bytes.
func (m *Movie) Size() int64 { return m.layout.Size() }

// Frames reads frames [start, stop) into an (n, h, w) stack.
// In order F this is one contiguous read per frame; in order C one
// contiguous read per pixel.
// Errors: wrapped ndarray.ErrOutOfRange, ErrClosed, read errors.
func (m *Movie) Frames(start, stop int) (*ndarray.Array, error) {
	l := m.layout
	if start < 0 || start >= stop || stop > l.Frames {
		return nil, memmapErrorf("Frames", fmt.Errorf("[%d:%d] of %d frames: %w", start, stop, l.Frames, ndarray.ErrOutOfRange))
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.r == nil {
		return nil, memmapErrorf("Frames", ErrClosed)
	}

	h, w, n, px := l.Height, l.Width, stop-start, l.Pixels()
	out := make([]float64, n*px)
	// dst maps pixel p of frame i to its row-major slot.
	dst := func(i, p int) int { return i*px + (p%h)*w + p/h }

	switch l.Order {
	case OrderF:
		buf := make([]byte, px*4)
		for i := 0; i < n; i++ {
			if _, err := m.r.ReadAt(buf, l.offset(0, start+i)); err != nil {
				return nil, memmapErrorf("Frames", err)
			}
			for p := 0; p < px; p++ {
				out[dst(i, p)] = decode(buf[p*4:])
			}
		}
	default:
		buf := make([]byte, n*4)
		for p := 0; p < px; p++ {
			if _, err := m.r.ReadAt(buf, l.offset(p, start)); err != nil {
				return nil, memmapErrorf("Frames", err)
			}
			for i := 0; i < n; i++ {
				out[dst(i, p)] = decode(buf[i*4:])
			}
		}
	}

	return ndarray.Wrap(out, ndarray.Float32, n, h, w)
}

// Close unmaps the file. Close is idempotent.
func (m *Movie) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.r == nil {
		return nil
	}
	err := m.r.Close()
	m.r = nil

	return err
}

func decode(b []byte) float64 {
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
}
