// SPDX-License-Identifier: MIT
// Package: sparse
//
// Purpose:
//   - Compressed sparse column storage for spatial footprints with full structural validation.
//   - gonum mat.Matrix compatibility so footprints compose with dense code.

package sparse

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/cnmfrecon/ndarray"
)

// CSC is an immutable compressed-sparse-column matrix.
//
// Column j stores its entries at positions indptr[j] .. indptr[j+1]-1 of
// indices (row numbers, strictly increasing) and data (values).
type CSC struct {
	rows, cols int
	indptr     []int     // len == cols+1, indptr[0] == 0, non-decreasing
	indices    []int     // row index of each stored entry
	data       []float64 // value of each stored entry
	dtype      ndarray.DType
}

// compile-time check: CSC is usable wherever gonum expects a mat.Matrix.
var _ mat.Matrix = (*CSC)(nil)

// NewCSC validates and copies raw CSC storage.
// Stage 1 (Validate): shape, indptr monotonicity, sorted in-range row indices.
// Stage 2 (Finalize): copy the three slices and round data to dt.
// Complexity: O(nnz + cols).
func NewCSC(rows, cols int, indptr, indices []int, data []float64, dt ndarray.DType) (*CSC, error) {
	if rows <= 0 || cols <= 0 {
		return nil, cscErrorf("New", ErrBadShape)
	}
	if len(indptr) != cols+1 || indptr[0] != 0 {
		return nil, cscErrorf("New", fmt.Errorf("indptr length %d for %d cols: %w", len(indptr), cols, ErrMalformed))
	}
	nnz := indptr[cols]
	if len(indices) != nnz || len(data) != nnz {
		return nil, cscErrorf("New", fmt.Errorf("nnz %d, %d indices, %d values: %w", nnz, len(indices), len(data), ErrMalformed))
	}
	var j, k int
	// indptr must be fully bounded before indices is walked.
	for j = 0; j < cols; j++ {
		if indptr[j+1] < indptr[j] || indptr[j+1] > nnz {
			return nil, cscErrorf("New", fmt.Errorf("indptr[%d] = %d outside [%d, %d]: %w", j+1, indptr[j+1], indptr[j], nnz, ErrMalformed))
		}
	}
	for j = 0; j < cols; j++ {
		for k = indptr[j]; k < indptr[j+1]; k++ {
			if indices[k] < 0 || indices[k] >= rows {
				return nil, cscErrorf("New", fmt.Errorf("row %d in col %d: %w", indices[k], j, ErrMalformed))
			}
			if k > indptr[j] && indices[k] <= indices[k-1] {
				return nil, cscErrorf("New", fmt.Errorf("unsorted or duplicate rows in col %d: %w", j, ErrMalformed))
			}
		}
	}

	m := &CSC{
		rows:    rows,
		cols:    cols,
		indptr:  append([]int(nil), indptr...),
		indices: append([]int(nil), indices...),
		data:    append([]float64(nil), data...),
		dtype:   dt,
	}
	for k = range m.data {
		m.data[k] = dt.Round(m.data[k])
	}

	return m, nil
}

// FromMatrix converts any gonum matrix to CSC, dropping exact zeros.
// Complexity: O(rows*cols).
func FromMatrix(a mat.Matrix, dt ndarray.DType) (*CSC, error) {
	rows, cols := a.Dims()
	if rows <= 0 || cols <= 0 {
		return nil, cscErrorf("FromMatrix", ErrBadShape)
	}
	indptr := make([]int, cols+1)
	var indices []int
	var data []float64
	var i, j int
	var v float64
	for j = 0; j < cols; j++ {
		for i = 0; i < rows; i++ {
			if v = a.At(i, j); v != 0 {
				indices = append(indices, i)
				data = append(data, v)
			}
		}
		indptr[j+1] = len(indices)
	}

	return NewCSC(rows, cols, indptr, indices, data, dt)
}

// Triplet is one (row, col, value) entry for FromTriplets.
type Triplet struct {
	Row, Col int
	Value    float64
}

// FromTriplets builds a CSC from coordinate entries. Duplicate coordinates are summed.
// Complexity: O(n log n) for n entries.
func FromTriplets(rows, cols int, entries []Triplet, dt ndarray.DType) (*CSC, error) {
	if rows <= 0 || cols <= 0 {
		return nil, cscErrorf("FromTriplets", ErrBadShape)
	}
	sorted := append([]Triplet(nil), entries...)
	for _, e := range sorted {
		if e.Row < 0 || e.Row >= rows || e.Col < 0 || e.Col >= cols {
			return nil, cscErrorf("FromTriplets", fmt.Errorf("entry (%d,%d): %w", e.Row, e.Col, ErrOutOfRange))
		}
	}
	sort.SliceStable(sorted, func(a, b int) bool {
		if sorted[a].Col != sorted[b].Col {
			return sorted[a].Col < sorted[b].Col
		}
		return sorted[a].Row < sorted[b].Row
	})

	indptr := make([]int, cols+1)
	indices := make([]int, 0, len(sorted))
	data := make([]float64, 0, len(sorted))
	prevRow, prevCol := -1, -1
	for _, e := range sorted {
		if e.Row == prevRow && e.Col == prevCol {
			data[len(data)-1] += e.Value // duplicate coordinate
			continue
		}
		indices = append(indices, e.Row)
		data = append(data, e.Value)
		indptr[e.Col+1]++
		prevRow, prevCol = e.Row, e.Col
	}
	for j := 0; j < cols; j++ {
		indptr[j+1] += indptr[j]
	}

	return NewCSC(rows, cols, indptr, indices, data, dt)
}

// Dims returns (rows, cols). Implements mat.Matrix.
func (m *CSC) Dims() (r, c int) { return m.rows, m.cols }

// At returns element (i, j). Like gonum matrices it panics on out-of-range indices.
// Complexity: O(log nnz(col j)).
func (m *CSC) At(i, j int) float64 {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(mat.ErrIndexOutOfRange)
	}
	lo, hi := m.indptr[j], m.indptr[j+1]
	k := lo + sort.SearchInts(m.indices[lo:hi], i)
	if k < hi && m.indices[k] == i {
		return m.data[k]
	}

	return 0
}

// T returns the implicit transpose. Implements mat.Matrix.
func (m *CSC) T() mat.Matrix { return mat.Transpose{Matrix: m} }

// NNZ returns the number of stored entries.
func (m *CSC) NNZ() int { return len(m.data) }

// DType returns the element type.
func (m *CSC) DType() ndarray.DType { return m.dtype }

// String summarizes the matrix.
func (m *CSC) String() string {
	return fmt.Sprintf("CSC(%dx%d, nnz=%d, %s)", m.rows, m.cols, len(m.data), m.dtype)
}
