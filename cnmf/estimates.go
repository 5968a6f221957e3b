// SPDX-License-Identifier: MIT

package cnmf

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/cnmfrecon/ndarray"
	"github.com/katalvlaran/cnmfrecon/sparse"
)

// Estimates is the output of a CNMF run consumed by this package.
// Treat an Estimates as read-only once it is handed to a Reconstructor.
type Estimates struct {
	A *sparse.CSC // spatial footprints, pixels × K
	C *mat.Dense  // temporal traces, K × T

	// Optional background: B is pixels × nb (sparse or dense), F is nb × T.
	B mat.Matrix
	F *mat.Dense

	Dims [2]int // (h, w); pixels == h*w

	Accepted []int // components kept by evaluation (idx_components)
	Rejected []int // components discarded by evaluation (idx_components_bad)

	TemporalDType ndarray.DType // precision C and F were produced in
}

// Validate checks that all factors fit together.
// Errors: ErrMissingEstimates, ErrComponentMismatch, ErrDimensionMismatch, ErrBadComponent.
func (e *Estimates) Validate() error {
	if e == nil || e.A == nil || e.C == nil {
		return cnmfErrorf("Validate", ErrMissingEstimates)
	}
	pixels, k := e.A.Dims()
	kc, frames := e.C.Dims()
	if k != kc {
		return cnmfErrorf("Validate", fmt.Errorf("A has %d components, C has %d: %w", k, kc, ErrComponentMismatch))
	}
	if e.Dims[0] <= 0 || e.Dims[1] <= 0 || e.Dims[0]*e.Dims[1] != pixels {
		return cnmfErrorf("Validate", fmt.Errorf("dims %v for %d pixels: %w", e.Dims, pixels, ErrDimensionMismatch))
	}
	if isNilMatrix(e.B) {
		return cnmfErrorf("Validate", fmt.Errorf("b holds a nil %T: %w", e.B, ErrMissingEstimates))
	}
	if (e.B == nil) != (e.F == nil) {
		return cnmfErrorf("Validate", fmt.Errorf("background needs both b and f: %w", ErrMissingEstimates))
	}
	if e.B != nil {
		bp, nb := e.B.Dims()
		nf, bt := e.F.Dims()
		if bp != pixels || nb != nf || bt != frames {
			return cnmfErrorf("Validate", fmt.Errorf("b %dx%d, f %dx%d for %d pixels, %d frames: %w", bp, nb, nf, bt, pixels, frames, ErrDimensionMismatch))
		}
	}
	for _, list := range [][]int{e.Accepted, e.Rejected} {
		if err := checkComponents(list, k); err != nil {
			return cnmfErrorf("Validate", err)
		}
	}

	return nil
}

// NComponents returns K.
func (e *Estimates) NComponents() int {
	_, k := e.A.Dims()
	return k
}

// NFrames returns T.
func (e *Estimates) NFrames() int {
	_, t := e.C.Dims()
	return t
}

// HasBackground reports whether b and f are present.
func (e *Estimates) HasBackground() bool { return e.B != nil && e.F != nil }

// DefaultComponents returns Accepted when it is non-empty, else every component.
func (e *Estimates) DefaultComponents() []int {
	if len(e.Accepted) > 0 {
		return append([]int(nil), e.Accepted...)
	}
	all := make([]int, e.NComponents())
	for i := range all {
		all[i] = i
	}

	return all
}

// dtype is the element type of a reconstruction from these estimates.
func (e *Estimates) dtype() ndarray.DType {
	dt := ndarray.Promote(e.A.DType(), e.TemporalDType)
	if b, ok := e.B.(*sparse.CSC); ok {
		dt = ndarray.Promote(dt, b.DType())
	}

	return dt
}

// isNilMatrix reports a non-nil interface wrapping a nil pointer.
func isNilMatrix(m mat.Matrix) bool {
	switch v := m.(type) {
	case *sparse.CSC:
		return v == nil
	case *mat.Dense:
		return v == nil
	}

	return false
}

func checkComponents(idx []int, k int) error {
	for _, j := range idx {
		if j < 0 || j >= k {
			return fmt.Errorf("component %d of %d: %w", j, k, ErrBadComponent)
		}
	}

	return nil
}

// rows copies the rows idx of c into a len(idx) × T matrix.
func rows(c *mat.Dense, idx []int) *mat.Dense {
	_, t := c.Dims()
	out := mat.NewDense(len(idx), t, nil)
	for i, j := range idx {
		out.SetRow(i, c.RawRowView(j))
	}

	return out
}
