// SPDX-License-Identifier: MIT
// Package: cnmf
//
// Purpose:
//   - Eager reconstruction A·C (+ b·f) and residuals over frame ranges.
//   - Per-component extractions: temporal traces, masks, contours (contours.go).
//   - Constructors for the lazy RCM / RCB / residual arrays of the same estimates.
//
// Determinism & Performance:
//   - Work is proportional to the selected frames; the eager path never copies the estimates.

package cnmf

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/cnmfrecon/lazy"
	"github.com/katalvlaran/cnmfrecon/ndarray"
	"github.com/katalvlaran/cnmfrecon/sparse"
)

const (
	opNew                = "NewReconstructor"
	opReconstructedMovie = "ReconstructedMovie"
	opResiduals          = "Residuals"
	opTemporal           = "TemporalComponents"
	opMasks              = "SpatialMasks"
	opRCM                = "RCM"
	opRCB                = "RCB"
	opLazyResiduals      = "LazyResiduals"
)

// Reconstructor evaluates frame ranges of A·C (+ b·f) and residuals against
// a raw movie. It holds no mutable state and is safe for concurrent use.
type Reconstructor struct {
	est *Estimates
	raw ndarray.Movie // nil: residuals unavailable
}

// NewReconstructor validates est and, when raw is non-nil, that raw has
// the same frame count and frame dimensions as est.
func NewReconstructor(est *Estimates, raw ndarray.Movie) (*Reconstructor, error) {
	if err := est.Validate(); err != nil {
		return nil, cnmfErrorf(opNew, err)
	}
	if raw != nil {
		want := [3]int{est.NFrames(), est.Dims[0], est.Dims[1]}
		if got := raw.Shape(); got != want {
			return nil, cnmfErrorf(opNew, fmt.Errorf("raw movie %v, estimates %v: %w", got, want, ErrDimensionMismatch))
		}
	}

	return &Reconstructor{est: est, raw: raw}, nil
}

// Estimates returns the wrapped estimates.
func (r *Reconstructor) Estimates() *Estimates { return r.est }

// HasRaw reports whether a raw movie is bound.
func (r *Reconstructor) HasRaw() bool { return r.raw != nil }

// ReconstructedMovie returns A[:, comps]·C[comps, sel] (+ b·f[:, sel]) as an
// (n, h, w) stack. A single selected frame still yields a (1, h, w) stack.
//
// Defaults: components = Estimates.DefaultComponents, background on.
// Errors: wrapped ndarray.ErrOutOfRange for a bad selector, ErrBadComponent.
// Complexity: O((nnz(A[:, comps]) + pixels·nb) × n).
func (r *Reconstructor) ReconstructedMovie(sel ndarray.Selector, opts ...Option) (*ndarray.Array, error) {
	o := gatherOptions(opts)
	start, stop, err := sel.Bounds(r.est.NFrames())
	if err != nil {
		return nil, cnmfErrorf(opReconstructedMovie, err)
	}
	comps, err := o.resolveComponents(r.est)
	if err != nil {
		return nil, cnmfErrorf(opReconstructedMovie, err)
	}
	st, err := r.reconstruct(start, stop, comps, o.background)
	if err != nil {
		return nil, cnmfErrorf(opReconstructedMovie, err)
	}

	return st, nil
}

// reconstruct builds the pixel-major block and reshapes it column-major.
func (r *Reconstructor) reconstruct(start, stop int, comps []int, background bool) (*ndarray.Array, error) {
	block, err := r.est.A.MulCols(r.est.C, comps, start, stop)
	if err != nil {
		return nil, err
	}
	if background && r.est.HasBackground() {
		bg, err := r.background(start, stop)
		if err != nil {
			return nil, err
		}
		floats.Add(block, bg)
	}

	return ndarray.FromColumnMajor(block, r.est.Dims[0], r.est.Dims[1], stop-start, r.est.dtype())
}

// background returns b·f[:, start:stop] as a pixel-major block.
func (r *Reconstructor) background(start, stop int) ([]float64, error) {
	if b, ok := r.est.B.(*sparse.CSC); ok {
		return b.MulCols(r.est.F, nil, start, stop)
	}
	nb, _ := r.est.F.Dims()
	var bf mat.Dense
	bf.Mul(r.est.B, r.est.F.Slice(0, nb, start, stop))

	return bf.RawMatrix().Data, nil
}

// Residuals returns raw[sel] - ReconstructedMovie(sel) with the background
// included and default components, as an (n, h, w) stack.
// Errors: ErrRawUnavailable when no raw movie is bound, wrapped
// ndarray.ErrOutOfRange for a bad selector.
func (r *Reconstructor) Residuals(sel ndarray.Selector) (*ndarray.Array, error) {
	if r.raw == nil {
		return nil, cnmfErrorf(opResiduals, ErrRawUnavailable)
	}
	start, stop, err := sel.Bounds(r.raw.Shape()[0])
	if err != nil {
		return nil, cnmfErrorf(opResiduals, err)
	}
	rec, err := r.reconstruct(start, stop, r.est.DefaultComponents(), true)
	if err != nil {
		return nil, cnmfErrorf(opResiduals, err)
	}
	raw, err := r.raw.Frames(start, stop)
	if err != nil {
		return nil, cnmfErrorf(opResiduals, err)
	}
	res, err := raw.Sub(rec)
	if err != nil {
		return nil, cnmfErrorf(opResiduals, err)
	}

	return res, nil
}

// TemporalComponents returns C[comps] as a len(comps) × T matrix; with
// addBackground the background traces are added (C + f). A single background
// trace is broadcast over every row; otherwise f must have one row per
// selected component. A nil comps uses Estimates.DefaultComponents.
func (r *Reconstructor) TemporalComponents(comps []int, addBackground bool) (*mat.Dense, error) {
	if comps == nil {
		comps = r.est.DefaultComponents()
	}
	if err := checkComponents(comps, r.est.NComponents()); err != nil {
		return nil, cnmfErrorf(opTemporal, err)
	}
	out := rows(r.est.C, comps)
	if !addBackground {
		return out, nil
	}
	if !r.est.HasBackground() {
		return nil, cnmfErrorf(opTemporal, ErrNoBackground)
	}
	nb, _ := r.est.F.Dims()
	switch {
	case nb == 1:
		f := r.est.F.RawRowView(0)
		for i := range comps {
			floats.Add(out.RawRowView(i), f)
		}
	case nb == len(comps):
		out.Add(out, r.est.F)
	default:
		return nil, cnmfErrorf(opTemporal, fmt.Errorf("%d background traces for %d components: %w", nb, len(comps), ErrDimensionMismatch))
	}

	return out, nil
}

// SpatialMasks thresholds the footprints of comps into (h, w) masks: a pixel
// is set when its weight is >= threshold. A nil comps uses DefaultComponents.
func (r *Reconstructor) SpatialMasks(comps []int, threshold float64) ([]*ndarray.Mask, error) {
	if comps == nil {
		comps = r.est.DefaultComponents()
	}
	masks := make([]*ndarray.Mask, 0, len(comps))
	for _, j := range comps {
		col, err := r.est.A.Column(j)
		if err != nil {
			return nil, cnmfErrorf(opMasks, fmt.Errorf("%v: %w", err, ErrBadComponent))
		}
		m, err := ndarray.MaskFromColumnMajor(col, r.est.Dims[0], r.est.Dims[1], threshold)
		if err != nil {
			return nil, cnmfErrorf(opMasks, err)
		}
		masks = append(masks, m)
	}

	return masks, nil
}

// RCM returns the lazy reconstructed movie over the selected components
// (WithComponents / WithAllComponents; default DefaultComponents).
// Background options are ignored; see RCB.
func (r *Reconstructor) RCM(opts ...Option) (*lazy.Product, error) {
	comps, err := gatherOptions(opts).resolveComponents(r.est)
	if err != nil {
		return nil, cnmfErrorf(opRCM, err)
	}
	a, c := r.est.A, r.est.C
	if comps != nil {
		if a, err = a.Columns(comps); err != nil {
			return nil, cnmfErrorf(opRCM, err)
		}
		c = rows(c, comps)
	}
	p, err := lazy.NewRCM(a, c, r.est.Dims, lazy.WithTemporalDType(r.est.TemporalDType))
	if err != nil {
		return nil, cnmfErrorf(opRCM, err)
	}

	return p, nil
}

// RCB returns the lazy background movie b·f.
// Errors: ErrNoBackground when the estimates carry none.
func (r *Reconstructor) RCB() (*lazy.Product, error) {
	if !r.est.HasBackground() {
		return nil, cnmfErrorf(opRCB, ErrNoBackground)
	}
	p, err := lazy.NewRCB(r.est.B, r.est.F, r.est.Dims,
		lazy.WithTemporalDType(r.est.TemporalDType), lazy.WithSpatialDType(r.est.TemporalDType))
	if err != nil {
		return nil, cnmfErrorf(opRCB, err)
	}

	return p, nil
}

// LazyResiduals returns raw - RCM - RCB as a lazy array (RCB omitted when the
// estimates carry no background). chunkFrames bounds memory while the raw
// movie's extrema are scanned; pass 0 for lazy.DefaultChunkFrames.
func (r *Reconstructor) LazyResiduals(chunkFrames int, opts ...Option) (*lazy.Residuals, error) {
	if r.raw == nil {
		return nil, cnmfErrorf(opLazyResiduals, ErrRawUnavailable)
	}
	rcm, err := r.RCM(opts...)
	if err != nil {
		return nil, cnmfErrorf(opLazyResiduals, err)
	}
	var rcb *lazy.Product
	if r.est.HasBackground() {
		if rcb, err = r.RCB(); err != nil {
			return nil, cnmfErrorf(opLazyResiduals, err)
		}
	}
	var lopts []lazy.Option
	if chunkFrames > 0 {
		lopts = append(lopts, lazy.WithChunkFrames(chunkFrames))
	}
	res, err := lazy.NewResiduals(r.raw, rcm, rcb, lopts...)
	if err != nil {
		return nil, cnmfErrorf(opLazyResiduals, err)
	}

	return res, nil
}
