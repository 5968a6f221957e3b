// SPDX-License-Identifier: MIT
// Package: lazy
//
// Purpose:
//   - Virtual A·C movies (RCM, RCB) that materialize only the frames a caller reads.
//   - Everything cheap is computed once at construction: value envelope and projection images.
//
// Exposed API:
//   - NewRCM(A, C, dims, opts...) / NewRCB(b, f, dims, opts...) -> *Product
//   - Product.Read(sel)     -> frame(s), squeezed to (h, w) for a single frame
//   - Product.Equal(other)  -> structural equality
//   - MeanImage / MaxImage / MinImage, Min / Max, Spatial / Temporal
//
// Determinism & Performance:
//   - Read costs O(nnz(A)·n) for n frames; construction is O(nnz(A) + K·T).
//   - A Product is immutable after construction and safe for concurrent readers.

package lazy

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/cnmfrecon/ndarray"
	"github.com/katalvlaran/cnmfrecon/sparse"
)

const (
	opNewRCM = "NewRCM"
	opNewRCB = "NewRCB"
	opRead   = "Read"
	opEqual  = "Equal"
)

// Product is the virtual movie spatial · temporal, reshaped to (frames, h, w).
// It is immutable after construction.
type Product struct {
	kind     Kind
	spatial  *sparse.CSC // pixels × components
	temporal *mat.Dense  // components × frames, private copy
	tdtype   ndarray.DType

	shape [3]int
	dtype ndarray.DType

	min, max  float64
	meanImage *ndarray.Array
	maxImage  *ndarray.Array
	minImage  *ndarray.Array
}

// NewRCM builds the reconstructed-movie array A · C.
//
// Implementation:
//   - Stage 1 (Validate): non-nil inputs, component counts, pixel count == h*w.
//   - Stage 2 (Prepare): copy the traces so later caller writes cannot reach us.
//   - Stage 3 (Derive): dtype, global envelope, mean/max/min images.
//
// Errors:
//   - ErrComponentMismatch when spatial has a different number of columns than
//     temporal has rows.
//   - ErrDimensionMismatch when dims does not describe spatial's pixel count.
//   - ErrNilInput on nil inputs.
//
// Complexity: O(nnz(A) + k·T) time, O(k·T + h·w) extra space.
func NewRCM(spatial *sparse.CSC, temporal mat.Matrix, dims [2]int, opts ...Option) (*Product, error) {
	return newProduct(opNewRCM, KindReconstructed, spatial, temporal, dims, gatherOptions(opts))
}

// NewRCB builds the background-movie array b · f. b may be a *sparse.CSC or
// any dense gonum matrix; dense input is converted with WithSpatialDType.
func NewRCB(b mat.Matrix, f mat.Matrix, dims [2]int, opts ...Option) (*Product, error) {
	o := gatherOptions(opts)
	if b == nil {
		return nil, lazyErrorf(opNewRCB, ErrNilInput)
	}
	csc, ok := b.(*sparse.CSC)
	if !ok {
		var err error
		if csc, err = sparse.FromMatrix(b, o.spatialDType); err != nil {
			return nil, lazyErrorf(opNewRCB, err)
		}
	}

	return newProduct(opNewRCB, KindBackground, csc, f, dims, o)
}

func newProduct(op string, kind Kind, spatial *sparse.CSC, temporal mat.Matrix, dims [2]int, o options) (*Product, error) {
	// Stage 1 (Validate)
	if spatial == nil || temporal == nil {
		return nil, lazyErrorf(op, ErrNilInput)
	}
	pixels, ks := spatial.Dims()
	kt, frames := temporal.Dims()
	if ks != kt {
		return nil, lazyErrorf(op, fmt.Errorf("temporal has %d components, spatial has %d: %w", kt, ks, ErrComponentMismatch))
	}
	if dims[0] <= 0 || dims[1] <= 0 || dims[0]*dims[1] != pixels {
		return nil, lazyErrorf(op, fmt.Errorf("frame dims %v for %d pixels: %w", dims, pixels, ErrDimensionMismatch))
	}

	// Stage 2 (Prepare)
	p := &Product{
		kind:     kind,
		spatial:  spatial,
		temporal: mat.DenseCopyOf(temporal),
		tdtype:   o.temporalDType,
		shape:    [3]int{frames, dims[0], dims[1]},
	}

	// Stage 3 (Derive): dtype
	if spatial.DType() == p.tdtype {
		p.dtype = p.tdtype
	} else {
		// mixed precision: take whatever a materialized frame comes out as
		frame0, err := p.compute(0, 1)
		if err != nil {
			return nil, lazyErrorf(op, err)
		}
		p.dtype = frame0.DType()
	}

	// Stage 3 (Derive): per-component extrema of both factors
	tMin := make([]float64, kt)
	tMax := make([]float64, kt)
	tMean := make([]float64, kt)
	for k := 0; k < kt; k++ {
		row := p.temporal.RawRowView(k)
		tMin[k] = ndarray.NaNMin(row)
		tMax[k] = ndarray.NaNMax(row)
		tMean[k] = ndarray.NaNMean(row)
	}
	p.min, p.max = envelope(tMin, tMax, spatial.ColMin(), spatial.ColMax())

	var err error
	if p.meanImage, err = p.image(tMean); err != nil {
		return nil, lazyErrorf(op, err)
	}
	if p.maxImage, err = p.image(tMax); err != nil {
		return nil, lazyErrorf(op, err)
	}
	if p.minImage, err = p.image(tMin); err != nil {
		return nil, lazyErrorf(op, err)
	}

	return p, nil
}

// envelope returns the smallest and largest of the eight scalars
// nanmin/nanmax(t ⊙ s) for t ∈ {tMin, tMax}, s ∈ {sMin, sMax}.
// NaN entries never win; the result is NaN only if every product is NaN.
func envelope(tMin, tMax, sMin, sMax []float64) (lo, hi float64) {
	scalars := make([]float64, 0, 8)
	prod := make([]float64, len(tMin))
	for _, t := range [][]float64{tMin, tMax} {
		for _, s := range [][]float64{sMin, sMax} {
			for k := range prod {
				prod[k] = t[k] * s[k]
			}
			scalars = append(scalars, ndarray.NaNMin(prod), ndarray.NaNMax(prod))
		}
	}

	return ndarray.NaNMin(scalars), ndarray.NaNMax(scalars)
}

// image applies the footprints to a per-component vector and reshapes the
// pixel vector column-major into (h, w).
func (p *Product) image(perComponent []float64) (*ndarray.Array, error) {
	vec, err := p.spatial.MulVec(perComponent)
	if err != nil {
		return nil, err
	}

	return ndarray.ImageFromColumnMajor(vec, p.shape[1], p.shape[2], p.dtype)
}

// compute evaluates frames [start, stop) as an unsqueezed (n, h, w) stack.
// The element type is the promotion of the two factors' types.
func (p *Product) compute(start, stop int) (*ndarray.Array, error) {
	block, err := p.spatial.MulCols(p.temporal, nil, start, stop)
	if err != nil {
		return nil, err
	}
	dt := ndarray.Promote(p.spatial.DType(), p.tdtype)

	return ndarray.FromColumnMajor(block, p.shape[1], p.shape[2], stop-start, dt)
}

// Read evaluates the selected frames: spatial · temporal[:, sel], reshaped
// column-major to (h, w, n) and transposed to (n, h, w). A single selected
// frame is squeezed to (h, w).
// Errors: wrapped ndarray.ErrOutOfRange for selections outside [0, frames].
// Complexity: O(nnz(A) × n).
func (p *Product) Read(sel ndarray.Selector) (*ndarray.Array, error) {
	start, stop, err := sel.Bounds(p.shape[0])
	if err != nil {
		return nil, lazyErrorf(opRead, err)
	}
	st, err := p.compute(start, stop)
	if err != nil {
		return nil, lazyErrorf(opRead, err)
	}

	return st.Squeeze(), nil
}

// Equal reports structural equality of the spatial and temporal matrices.
// other must be a *Product; any other Array fails with ErrIncompatibleType.
// Products of different kinds are never equal.
func (p *Product) Equal(other Array) (bool, error) {
	o, ok := other.(*Product)
	if !ok || o == nil {
		return false, lazyErrorf(opEqual, fmt.Errorf("%T: %w", other, ErrIncompatibleType))
	}
	if p.kind != o.kind {
		return false, nil
	}

	return p.spatial.Equal(o.spatial) && mat.Equal(p.temporal, o.temporal), nil
}

// Kind returns KindReconstructed or KindBackground.
func (p *Product) Kind() Kind { return p.kind }

// Shape returns (frames, h, w).
func (p *Product) Shape() [3]int { return p.shape }

// DType returns the element type of Read results.
func (p *Product) DType() ndarray.DType { return p.dtype }

// Min returns the lower envelope bound.
func (p *Product) Min() float64 { return p.min }

// Max returns the upper envelope bound.
func (p *Product) Max() float64 { return p.max }

// MeanImage is spatial · nanmean(temporal, axis=1) as an (h, w) image.
func (p *Product) MeanImage() *ndarray.Array { return p.meanImage }

// MaxImage is spatial · nanmax(temporal, axis=1). It is built from per-component
// maxima, not from a per-pixel maximum over frames.
func (p *Product) MaxImage() *ndarray.Array { return p.maxImage }

// MinImage is spatial · nanmin(temporal, axis=1), with the same caveat as MaxImage.
func (p *Product) MinImage() *ndarray.Array { return p.minImage }

// Spatial returns the footprints. The matrix is immutable.
func (p *Product) Spatial() *sparse.CSC { return p.spatial }

// Temporal returns a read-only view of the traces.
func (p *Product) Temporal() mat.Matrix { return p.temporal }

// NComponents returns the number of components.
func (p *Product) NComponents() int {
	_, k := p.spatial.Dims()
	return k
}

// NFrames returns the number of frames.
func (p *Product) NFrames() int { return p.shape[0] }

// String summarizes the array.
func (p *Product) String() string {
	return fmt.Sprintf("%s: shape %v, dtype %s, min %g, max %g, n_components: %d",
		p.kind, p.shape, p.dtype, p.min, p.max, p.NComponents())
}
