// SPDX-License-Identifier: MIT

package ndarray

// Mask is a boolean (h, w) image, e.g. a thresholded spatial footprint.
type Mask struct {
	h, w int
	bits []bool // row-major
}

// MaskFromColumnMajor thresholds a pixel vector (p = row + col*h):
// pixels with value >= threshold are set.
func MaskFromColumnMajor(vec []float64, h, w int, threshold float64) (*Mask, error) {
	if h <= 0 || w <= 0 || len(vec) != h*w {
		return nil, arrayErrorf("MaskFromColumnMajor", ErrBadShape)
	}
	m := &Mask{h: h, w: w, bits: make([]bool, h*w)}
	for p, v := range vec {
		if v >= threshold {
			m.bits[(p%h)*w+p/h] = true
		}
	}

	return m, nil
}

// Height and Width of the mask.
func (m *Mask) Height() int { return m.h }
func (m *Mask) Width() int  { return m.w }

// At reports whether pixel (r, c) is set. Out-of-range pixels are unset.
func (m *Mask) At(r, c int) bool {
	if r < 0 || r >= m.h || c < 0 || c >= m.w {
		return false
	}

	return m.bits[r*m.w+c]
}

// Count returns the number of set pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.bits {
		if b {
			n++
		}
	}

	return n
}

// Boundary returns the set pixels with at least one unset or out-of-image
// 4-neighbour, as (row, col) pairs in row-major order.
// Complexity: O(h*w).
func (m *Mask) Boundary() [][2]int {
	var out [][2]int
	for r := 0; r < m.h; r++ {
		for c := 0; c < m.w; c++ {
			if !m.bits[r*m.w+c] {
				continue
			}
			if !m.At(r-1, c) || !m.At(r+1, c) || !m.At(r, c-1) || !m.At(r, c+1) {
				out = append(out, [2]int{r, c})
			}
		}
	}

	return out
}
