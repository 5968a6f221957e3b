// SPDX-License-Identifier: MIT
// Package: lazy
//
// Purpose:
//   - raw − RCM − RCB as a virtual movie; RCB is optional.
//
// Determinism & Performance:
//   - The raw movie is scanned once, chunk by chunk, to bound the residual envelope.

package lazy

import (
	"fmt"
	"math"

	"github.com/katalvlaran/cnmfrecon/ndarray"
)

const (
	opNewResiduals = "NewResiduals"
	opResidualRead = "Residuals.Read"
)

// Residuals is the virtual movie raw - rcm - rcb. The background term is optional.
type Residuals struct {
	raw   ndarray.Movie
	rcm   *Product
	rcb   *Product // nil when no background is subtracted
	shape [3]int
	dtype ndarray.DType

	min, max float64
}

// NewResiduals builds the residual array against raw.
//
// Implementation:
//   - Stage 1 (Validate): raw present, rcm present, all shapes identical.
//   - Stage 2 (Scan): one pass over raw in chunks of WithChunkFrames frames to
//     find its non-NaN extrema; at most one chunk is resident at a time.
//   - Stage 3 (Derive): the envelope
//     [rawMin - rcm.Max - rcb.Max, rawMax - rcm.Min - rcb.Min].
//
// Errors: ErrRawUnavailable, ErrNilInput, ErrDimensionMismatch, raw read errors.
// Complexity: O(frames·h·w) for the scan, O(chunk·h·w) memory.
func NewResiduals(raw ndarray.Movie, rcm, rcb *Product, opts ...Option) (*Residuals, error) {
	o := gatherOptions(opts)

	// Stage 1 (Validate)
	if raw == nil {
		return nil, lazyErrorf(opNewResiduals, ErrRawUnavailable)
	}
	if rcm == nil {
		return nil, lazyErrorf(opNewResiduals, ErrNilInput)
	}
	shape := raw.Shape()
	if shape != rcm.Shape() {
		return nil, lazyErrorf(opNewResiduals, fmt.Errorf("raw %v vs reconstruction %v: %w", shape, rcm.Shape(), ErrDimensionMismatch))
	}
	if rcb != nil && shape != rcb.Shape() {
		return nil, lazyErrorf(opNewResiduals, fmt.Errorf("raw %v vs background %v: %w", shape, rcb.Shape(), ErrDimensionMismatch))
	}

	r := &Residuals{raw: raw, rcm: rcm, rcb: rcb, shape: shape}
	r.dtype = ndarray.Promote(raw.DType(), rcm.DType())
	if rcb != nil {
		r.dtype = ndarray.Promote(r.dtype, rcb.DType())
	}

	// Stage 2 (Scan)
	rawMin, rawMax := math.NaN(), math.NaN()
	for start := 0; start < shape[0]; start += o.chunkFrames {
		stop := min(start+o.chunkFrames, shape[0])
		chunk, err := raw.Frames(start, stop)
		if err != nil {
			return nil, lazyErrorf(opNewResiduals, err)
		}
		lo, hi := chunk.MinMax()
		rawMin = ndarray.NaNMin([]float64{rawMin, lo})
		rawMax = ndarray.NaNMax([]float64{rawMax, hi})
	}

	// Stage 3 (Derive)
	subMax, subMin := rcm.Max(), rcm.Min()
	if rcb != nil {
		subMax += rcb.Max()
		subMin += rcb.Min()
	}
	r.min = rawMin - subMax
	r.max = rawMax - subMin

	return r, nil
}

// Read evaluates raw[sel] - rcm[sel] - rcb[sel] with the Product shape rule:
// a single selected frame is squeezed to (h, w).
func (r *Residuals) Read(sel ndarray.Selector) (*ndarray.Array, error) {
	start, stop, err := sel.Bounds(r.shape[0])
	if err != nil {
		return nil, lazyErrorf(opResidualRead, err)
	}
	out, err := r.raw.Frames(start, stop)
	if err != nil {
		return nil, lazyErrorf(opResidualRead, err)
	}
	for _, p := range []*Product{r.rcm, r.rcb} {
		if p == nil {
			continue
		}
		rec, err := p.compute(start, stop)
		if err != nil {
			return nil, lazyErrorf(opResidualRead, err)
		}
		if out, err = out.Sub(rec); err != nil {
			return nil, lazyErrorf(opResidualRead, err)
		}
	}

	return out.Squeeze(), nil
}

// Kind returns KindResiduals.
func (r *Residuals) Kind() Kind { return KindResiduals }

// Shape returns (frames, h, w).
func (r *Residuals) Shape() [3]int { return r.shape }

// DType returns the element type of Read results.
func (r *Residuals) DType() ndarray.DType { return r.dtype }

// Min returns the lower envelope bound.
func (r *Residuals) Min() float64 { return r.min }

// Max returns the upper envelope bound.
func (r *Residuals) Max() float64 { return r.max }

// String summarizes the array.
func (r *Residuals) String() string {
	return fmt.Sprintf("%s: shape %v, dtype %s, min %g, max %g, background: %t",
		KindResiduals, r.shape, r.dtype, r.min, r.max, r.rcb != nil)
}
