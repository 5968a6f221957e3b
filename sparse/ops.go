// SPDX-License-Identifier: MIT
// Package: sparse
//
// Purpose:
//   - Kernels over CSC footprints: column extrema, mat-vec, column-block products,
//     column subsets and structural equality.
//
// Exposed API:
//   - ColMax / ColMin        -> per-column extrema, implicit zeros included, NaN skipped
//   - MulVec(x)              -> A·x
//   - MulCols(C, comps, a, b) -> pixel-major block A[:, comps]·C[comps, a:b]
//   - Columns / Column / Equal / Dense / Raw
//
// Determinism & Performance:
//   - Fixed column→entry traversal; *mat.Dense temporal inputs use raw row views.

package sparse

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Operation name constants for error wrapping.
const (
	opMulVec  = "MulVec"
	opMulCols = "MulCols"
	opColumns = "Columns"
	opColumn  = "Column"
)

// ColMax returns, per column, the largest value of the column including its
// implicit zeros (scipy's A.max(axis=0)). NaN entries are skipped; a column
// holding only NaN entries and no implicit zero yields NaN.
// Complexity: O(nnz + cols).
func (m *CSC) ColMax() []float64 {
	return m.colReduce(func(a, b float64) bool { return a > b })
}

// ColMin is the column-wise minimum with the same conventions as ColMax.
func (m *CSC) ColMin() []float64 {
	return m.colReduce(func(a, b float64) bool { return a < b })
}

// colReduce keeps, per column, the value v for which better(v, best) held last.
func (m *CSC) colReduce(better func(a, b float64) bool) []float64 {
	out := make([]float64, m.cols)
	var j, k int
	var v, best float64
	for j = 0; j < m.cols; j++ {
		best = math.NaN()
		if m.indptr[j+1]-m.indptr[j] < m.rows {
			best = 0 // column has at least one implicit zero
		}
		for k = m.indptr[j]; k < m.indptr[j+1]; k++ {
			v = m.data[k]
			if math.IsNaN(v) {
				continue
			}
			if math.IsNaN(best) || better(v, best) {
				best = v
			}
		}
		out[j] = best
	}

	return out
}

// MulVec returns m · x as a dense vector of length rows.
// Complexity: O(nnz + rows).
func (m *CSC) MulVec(x []float64) ([]float64, error) {
	if len(x) != m.cols {
		return nil, cscErrorf(opMulVec, fmt.Errorf("len(x)=%d, cols=%d: %w", len(x), m.cols, ErrDimensionMismatch))
	}
	out := make([]float64, m.rows)
	var j, k int
	for j = 0; j < m.cols; j++ {
		xj := x[j]
		for k = m.indptr[j]; k < m.indptr[j+1]; k++ {
			out[m.indices[k]] += m.data[k] * xj
		}
	}

	return out, nil
}

// MulCols computes m[:, comps] · c[comps, start:stop] and returns it as a
// pixel-major block: out[i*n+t] is row i at frame start+t, n = stop-start.
//
// c must have one row per column of m. A nil comps selects every column.
// Components may repeat (numpy fancy-index semantics).
//
// Implementation:
//   - Stage 1: validate c's shape, the frame range and the component list.
//   - Stage 2: for each selected column, scatter value × trace-row into out.
//     *mat.Dense (any mat.RawRowViewer) traces are read without copying.
//
// Complexity: O(nnz(selected) × n) time, O(rows × n) space.
func (m *CSC) MulCols(c mat.Matrix, comps []int, start, stop int) ([]float64, error) {
	k, frames := c.Dims()
	if k != m.cols {
		return nil, cscErrorf(opMulCols, fmt.Errorf("traces have %d rows, matrix has %d cols: %w", k, m.cols, ErrDimensionMismatch))
	}
	if start < 0 || start >= stop || stop > frames {
		return nil, cscErrorf(opMulCols, fmt.Errorf("frames [%d:%d) of %d: %w", start, stop, frames, ErrOutOfRange))
	}
	if comps == nil {
		comps = identity(m.cols)
	}
	for _, j := range comps {
		if j < 0 || j >= m.cols {
			return nil, cscErrorf(opMulCols, fmt.Errorf("component %d of %d: %w", j, m.cols, ErrOutOfRange))
		}
	}

	n := stop - start
	out := make([]float64, m.rows*n)
	row := make([]float64, frames)
	raw, fast := c.(mat.RawRowViewer)
	var t, p int
	for _, j := range comps {
		lo, hi := m.indptr[j], m.indptr[j+1]
		if lo == hi {
			continue // empty footprint contributes nothing
		}
		var trace []float64
		if fast {
			trace = raw.RawRowView(j)[start:stop]
		} else {
			trace = mat.Row(row, j, c)[start:stop]
		}
		for p = lo; p < hi; p++ {
			v := m.data[p]
			dst := out[m.indices[p]*n : (m.indices[p]+1)*n]
			for t = 0; t < n; t++ {
				dst[t] += v * trace[t]
			}
		}
	}

	return out, nil
}

// Columns returns a new CSC holding the columns idx of m, in that order.
// Complexity: O(nnz(selected)).
func (m *CSC) Columns(idx []int) (*CSC, error) {
	if len(idx) == 0 {
		return nil, cscErrorf(opColumns, ErrBadShape)
	}
	indptr := make([]int, 1, len(idx)+1)
	var indices []int
	var data []float64
	for _, j := range idx {
		if j < 0 || j >= m.cols {
			return nil, cscErrorf(opColumns, fmt.Errorf("column %d of %d: %w", j, m.cols, ErrOutOfRange))
		}
		lo, hi := m.indptr[j], m.indptr[j+1]
		indices = append(indices, m.indices[lo:hi]...)
		data = append(data, m.data[lo:hi]...)
		indptr = append(indptr, len(indices))
	}

	return &CSC{rows: m.rows, cols: len(idx), indptr: indptr, indices: indices, data: data, dtype: m.dtype}, nil
}

// Column returns column j as a dense vector of length rows.
func (m *CSC) Column(j int) ([]float64, error) {
	if j < 0 || j >= m.cols {
		return nil, cscErrorf(opColumn, fmt.Errorf("column %d of %d: %w", j, m.cols, ErrOutOfRange))
	}
	out := make([]float64, m.rows)
	for k := m.indptr[j]; k < m.indptr[j+1]; k++ {
		out[m.indices[k]] = m.data[k]
	}

	return out, nil
}

// Equal reports whether m and o have the same dimensions and the same values.
// Stored zeros and implicit zeros compare equal; NaN never equals NaN.
// Complexity: O(nnz(m) + nnz(o)).
func (m *CSC) Equal(o *CSC) bool {
	if m == o {
		return true
	}
	if m == nil || o == nil || m.rows != o.rows || m.cols != o.cols {
		return false
	}
	for j := 0; j < m.cols; j++ {
		a, aEnd := m.indptr[j], m.indptr[j+1]
		b, bEnd := o.indptr[j], o.indptr[j+1]
		for a < aEnd || b < bEnd {
			switch {
			case b >= bEnd || (a < aEnd && m.indices[a] < o.indices[b]):
				if m.data[a] != 0 {
					return false
				}
				a++
			case a >= aEnd || o.indices[b] < m.indices[a]:
				if o.data[b] != 0 {
					return false
				}
				b++
			default:
				if m.data[a] != o.data[b] {
					return false
				}
				a++
				b++
			}
		}
	}

	return true
}

// Dense materializes m. Intended for small matrices and diagnostics.
func (m *CSC) Dense() *mat.Dense {
	d := mat.NewDense(m.rows, m.cols, nil)
	for j := 0; j < m.cols; j++ {
		for k := m.indptr[j]; k < m.indptr[j+1]; k++ {
			d.Set(m.indices[k], j, m.data[k])
		}
	}

	return d
}

// Raw returns copies of the CSC storage slices (indptr, indices, data).
func (m *CSC) Raw() (indptr, indices []int, data []float64) {
	return append([]int(nil), m.indptr...), append([]int(nil), m.indices...), append([]float64(nil), m.data...)
}

func identity(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	return idx
}
