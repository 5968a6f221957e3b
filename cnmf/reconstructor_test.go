// SPDX-License-Identifier: MIT

package cnmf_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/cnmfrecon/cnmf"
	"github.com/katalvlaran/cnmfrecon/ndarray"
	"github.com/katalvlaran/cnmfrecon/sparse"
)

const (
	h      = 10
	w      = 10
	px     = h * w
	k      = 3
	frames = 50
)

var approx = cmpopts.EquateApprox(0, 1e-9)

// fixture returns estimates with three non-overlapping footprints and a
// dense single-trace background of 0.5 · f.
func fixture(t *testing.T) *cnmf.Estimates {
	t.Helper()
	var entries []sparse.Triplet
	for j := 0; j < k; j++ {
		for i := 0; i < 10; i++ {
			entries = append(entries, sparse.Triplet{Row: 30*j + i, Col: j, Value: float64(i + 1 + j)})
		}
	}
	a, err := sparse.FromTriplets(px, k, entries, ndarray.Float64)
	require.NoError(t, err)

	c := mat.NewDense(k, frames, nil)
	for j := 0; j < k; j++ {
		for f := 0; f < frames; f++ {
			c.Set(j, f, float64((f*(j+2))%7)-1.5*float64(j))
		}
	}
	b := mat.NewDense(px, 1, nil)
	for p := 0; p < px; p++ {
		b.Set(p, 0, 0.5)
	}
	fb := mat.NewDense(1, frames, nil)
	for f := 0; f < frames; f++ {
		fb.Set(0, f, float64(f%5))
	}

	return &cnmf.Estimates{A: a, C: c, B: b, F: fb, Dims: [2]int{h, w}}
}

// expected computes frame f of Σ_{j∈comps} A[:,j]C[j,f] (+ b f) with plain loops, row-major.
func expected(e *cnmf.Estimates, f int, comps []int, background bool) []float64 {
	out := make([]float64, px)
	for p := 0; p < px; p++ {
		var v float64
		for _, j := range comps {
			v += e.A.At(p, j) * e.C.At(j, f)
		}
		if background {
			v += e.B.At(p, 0) * e.F.At(0, f)
		}
		out[(p%h)*w+p/h] = v
	}

	return out
}

func randomMovie(t *testing.T, seed int64) *ndarray.InMemory {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	data := make([]float64, frames*px)
	for i := range data {
		data[i] = rng.Float64() * 100
	}
	a, err := ndarray.Wrap(data, ndarray.Float32, frames, h, w)
	require.NoError(t, err)

	return ndarray.NewInMemory(a)
}

func TestReconstructedMovie_FullRangeWithBackground(t *testing.T) {
	est := fixture(t)
	rec, err := cnmf.NewReconstructor(est, nil)
	require.NoError(t, err)

	got, err := rec.ReconstructedMovie(ndarray.All())
	require.NoError(t, err)
	require.Equal(t, []int{frames, h, w}, got.Shape())
	for _, f := range []int{0, 13, 49} {
		fr, err := got.Frame(f)
		require.NoError(t, err)
		require.Empty(t, cmp.Diff(expected(est, f, []int{0, 1, 2}, true), fr.Data(), approx), "frame %d", f)
	}
}

func TestReconstructedMovie_SingleIndexKeepsFrameAxis(t *testing.T) {
	rec, err := cnmf.NewReconstructor(fixture(t), nil)
	require.NoError(t, err)

	got, err := rec.ReconstructedMovie(ndarray.Index(3))
	require.NoError(t, err)
	require.Equal(t, []int{1, h, w}, got.Shape())
}

func TestReconstructedMovie_ComponentsAndBackground(t *testing.T) {
	est := fixture(t)
	est.Accepted = []int{0, 2}
	rec, err := cnmf.NewReconstructor(est, nil)
	require.NoError(t, err)

	def, err := rec.ReconstructedMovie(ndarray.Span(4, 6), cnmf.WithoutBackground())
	require.NoError(t, err)
	fr, err := def.Frame(1)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(expected(est, 5, []int{0, 2}, false), fr.Data(), approx), "accepted components by default")

	all, err := rec.ReconstructedMovie(ndarray.Index(5), cnmf.WithAllComponents(), cnmf.WithBackground(true))
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(expected(est, 5, []int{0, 1, 2}, true), all.Data(), approx))

	one, err := rec.ReconstructedMovie(ndarray.Index(5), cnmf.WithComponents(1), cnmf.WithoutBackground())
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(expected(est, 5, []int{1}, false), one.Data(), approx))

	_, err = rec.ReconstructedMovie(ndarray.Index(5), cnmf.WithComponents(3))
	require.ErrorIs(t, err, cnmf.ErrBadComponent)

	require.Panics(t, func() { cnmf.WithComponents() })
}

func TestReconstructedMovie_RejectsBadRanges(t *testing.T) {
	rec, err := cnmf.NewReconstructor(fixture(t), randomMovie(t, 1))
	require.NoError(t, err)

	for _, sel := range []ndarray.Selector{
		ndarray.Span(5, 5), ndarray.Span(7, 3), ndarray.Span(0, frames+1), ndarray.Span(-1, 3), ndarray.Index(frames),
	} {
		_, err = rec.ReconstructedMovie(sel)
		require.ErrorIs(t, err, ndarray.ErrOutOfRange, sel.String())
		_, err = rec.Residuals(sel)
		require.ErrorIs(t, err, ndarray.ErrOutOfRange, sel.String())
	}
}

// TestResiduals_ConstantScenario: raw == 5 everywhere, reconstruction == 2 on
// frames [10, 20), so residuals over that range are exactly 3.
func TestResiduals_ConstantScenario(t *testing.T) {
	ones := make([]sparse.Triplet, px)
	for p := range ones {
		ones[p] = sparse.Triplet{Row: p, Col: 0, Value: 1}
	}
	a, err := sparse.FromTriplets(px, 1, ones, ndarray.Float32)
	require.NoError(t, err)
	c := mat.NewDense(1, frames, nil)
	for f := 0; f < frames; f++ {
		c.Set(0, f, float64(f)) // arbitrary outside [10, 20)
	}
	for f := 10; f < 20; f++ {
		c.Set(0, f, 2)
	}
	raw := make([]float64, frames*px)
	for i := range raw {
		raw[i] = 5
	}
	movie, err := ndarray.Wrap(raw, ndarray.Float32, frames, h, w)
	require.NoError(t, err)

	est := &cnmf.Estimates{A: a, C: c, Dims: [2]int{h, w}, TemporalDType: ndarray.Float32}
	rec, err := cnmf.NewReconstructor(est, ndarray.NewInMemory(movie))
	require.NoError(t, err)

	res, err := rec.Residuals(ndarray.Span(10, 20))
	require.NoError(t, err)
	require.Equal(t, []int{10, h, w}, res.Shape())
	require.Equal(t, ndarray.Float32, res.DType())
	for _, v := range res.Data() {
		require.Equal(t, 3.0, v)
	}
}

// TestResiduals_RoundTrip: Residuals == raw - ReconstructedMovie(background on).
func TestResiduals_RoundTrip(t *testing.T) {
	movie := randomMovie(t, 7)
	rec, err := cnmf.NewReconstructor(fixture(t), movie)
	require.NoError(t, err)

	sel := ndarray.Span(17, 31)
	recon, err := rec.ReconstructedMovie(sel, cnmf.WithBackground(true))
	require.NoError(t, err)
	raw, err := movie.Frames(17, 31)
	require.NoError(t, err)
	want, err := raw.Sub(recon)
	require.NoError(t, err)

	got, err := rec.Residuals(sel)
	require.NoError(t, err)
	require.True(t, want.EqualApprox(got, 1e-12))

	single, err := rec.Residuals(ndarray.Index(0))
	require.NoError(t, err)
	require.Equal(t, []int{1, h, w}, single.Shape())
}

func TestResiduals_RawUnavailable(t *testing.T) {
	rec, err := cnmf.NewReconstructor(fixture(t), nil)
	require.NoError(t, err)
	require.False(t, rec.HasRaw())

	_, err = rec.Residuals(ndarray.Index(0))
	require.ErrorIs(t, err, cnmf.ErrRawUnavailable)
	_, err = rec.LazyResiduals(0)
	require.ErrorIs(t, err, cnmf.ErrRawUnavailable)
}

func TestNewReconstructor_Validation(t *testing.T) {
	est := fixture(t)
	short, err := ndarray.New(ndarray.Float32, frames-1, h, w)
	require.NoError(t, err)
	_, err = cnmf.NewReconstructor(est, ndarray.NewInMemory(short))
	require.ErrorIs(t, err, cnmf.ErrDimensionMismatch)

	bad := fixture(t)
	bad.C = mat.NewDense(k+1, frames, nil)
	_, err = cnmf.NewReconstructor(bad, nil)
	require.ErrorIs(t, err, cnmf.ErrComponentMismatch)

	bad = fixture(t)
	bad.F = nil
	_, err = cnmf.NewReconstructor(bad, nil)
	require.ErrorIs(t, err, cnmf.ErrMissingEstimates)

	bad = fixture(t)
	bad.Dims = [2]int{h, w + 1}
	_, err = cnmf.NewReconstructor(bad, nil)
	require.ErrorIs(t, err, cnmf.ErrDimensionMismatch)

	bad = fixture(t)
	bad.Accepted = []int{0, k}
	_, err = cnmf.NewReconstructor(bad, nil)
	require.ErrorIs(t, err, cnmf.ErrBadComponent)

	for name, b := range map[string]mat.Matrix{"nil CSC": (*sparse.CSC)(nil), "nil Dense": (*mat.Dense)(nil)} {
		bad = fixture(t)
		bad.B = b
		require.NotPanics(t, func() { _, err = cnmf.NewReconstructor(bad, nil) }, name)
		require.ErrorIs(t, err, cnmf.ErrMissingEstimates, name)
	}

	_, err = cnmf.NewReconstructor(nil, nil)
	require.ErrorIs(t, err, cnmf.ErrMissingEstimates)
}

func TestTemporalComponents(t *testing.T) {
	est := fixture(t)
	rec, err := cnmf.NewReconstructor(est, nil)
	require.NoError(t, err)

	c, err := rec.TemporalComponents([]int{2, 0}, false)
	require.NoError(t, err)
	require.Equal(t, mat.Row(nil, 2, est.C), mat.Row(nil, 0, c))
	require.Equal(t, mat.Row(nil, 0, est.C), mat.Row(nil, 1, c))

	cf, err := rec.TemporalComponents(nil, true)
	require.NoError(t, err)
	r, _ := cf.Dims()
	require.Equal(t, k, r)
	for j := 0; j < k; j++ {
		for f := 0; f < frames; f++ {
			require.Equal(t, est.C.At(j, f)+est.F.At(0, f), cf.At(j, f))
		}
	}

	est.F = mat.NewDense(2, frames, nil)
	est.B = mat.NewDense(px, 2, nil)
	rec, err = cnmf.NewReconstructor(est, nil)
	require.NoError(t, err)
	_, err = rec.TemporalComponents(nil, true)
	require.ErrorIs(t, err, cnmf.ErrDimensionMismatch)
	_, err = rec.TemporalComponents([]int{0, 1}, true)
	require.NoError(t, err)
	_, err = rec.TemporalComponents([]int{9}, false)
	require.ErrorIs(t, err, cnmf.ErrBadComponent)

	est.B, est.F = nil, nil
	rec, err = cnmf.NewReconstructor(est, nil)
	require.NoError(t, err)
	_, err = rec.TemporalComponents(nil, true)
	require.ErrorIs(t, err, cnmf.ErrNoBackground)
}

func TestSpatialMasks(t *testing.T) {
	rec, err := cnmf.NewReconstructor(fixture(t), nil)
	require.NoError(t, err)

	masks, err := rec.SpatialMasks([]int{1}, 5)
	require.NoError(t, err)
	require.Len(t, masks, 1)
	// Component 1 covers pixels 30..39 with weights 2..11; >= 5 keeps 33..39.
	require.Equal(t, 7, masks[0].Count())
	require.True(t, masks[0].At(9, 3))  // p = 39
	require.False(t, masks[0].At(0, 3)) // p = 30, weight 2

	_, err = rec.SpatialMasks([]int{k}, 0.01)
	require.ErrorIs(t, err, cnmf.ErrBadComponent)
}

func TestSpatialContours(t *testing.T) {
	est := fixture(t)
	est.Accepted = []int{1}
	rec, err := cnmf.NewReconstructor(est, nil)
	require.NoError(t, err)

	// Component 1 is a one-pixel-wide strip in column 3, so every pixel is boundary.
	contours, err := rec.SpatialContours(nil, 0.01)
	require.NoError(t, err)
	require.Len(t, contours, 1)
	require.Equal(t, 1, contours[0].Component)
	require.Len(t, contours[0].Coordinates, h)
	for i, p := range contours[0].Coordinates {
		require.Equal(t, [2]int{i, 3}, p)
	}
	require.Equal(t, [2]float64{4.5, 3}, contours[0].Center)

	// Weights of component 0 are 1..10, so nothing reaches 100.
	none, err := rec.SpatialContours([]int{0}, 100)
	require.NoError(t, err)
	require.Empty(t, none[0].Coordinates)
	require.True(t, math.IsNaN(none[0].Center[0]))

	_, err = rec.SpatialContours([]int{k}, 0.01)
	require.ErrorIs(t, err, cnmf.ErrBadComponent)
}

// TestLazyVariantsAgreeWithEager: lazy RCM + RCB and lazy residuals match the
// eager path frame for frame.
func TestLazyVariantsAgreeWithEager(t *testing.T) {
	movie := randomMovie(t, 3)
	rec, err := cnmf.NewReconstructor(fixture(t), movie)
	require.NoError(t, err)

	rcm, err := rec.RCM()
	require.NoError(t, err)
	rcb, err := rec.RCB()
	require.NoError(t, err)
	lres, err := rec.LazyResiduals(8)
	require.NoError(t, err)

	sel := ndarray.Span(20, 24)
	eager, err := rec.ReconstructedMovie(sel)
	require.NoError(t, err)
	a, err := rcm.Read(sel)
	require.NoError(t, err)
	b, err := rcb.Read(sel)
	require.NoError(t, err)
	sum, err := a.Add(b)
	require.NoError(t, err)
	require.True(t, eager.EqualApprox(sum, 1e-12))

	eagerRes, err := rec.Residuals(sel)
	require.NoError(t, err)
	lazyRes, err := lres.Read(sel)
	require.NoError(t, err)
	require.True(t, eagerRes.EqualApprox(lazyRes, 1e-9))

	sub, err := rec.RCM(cnmf.WithComponents(0, 1))
	require.NoError(t, err)
	require.Equal(t, 2, sub.NComponents())
}

func TestRCB_NoBackground(t *testing.T) {
	est := fixture(t)
	est.B, est.F = nil, nil
	rec, err := cnmf.NewReconstructor(est, randomMovie(t, 2))
	require.NoError(t, err)
	_, err = rec.RCB()
	require.ErrorIs(t, err, cnmf.ErrNoBackground)

	// Without a background the eager default simply omits b·f.
	got, err := rec.ReconstructedMovie(ndarray.Index(2))
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(expected(est, 2, []int{0, 1, 2}, false), got.Data(), approx))

	lres, err := rec.LazyResiduals(0)
	require.NoError(t, err)
	_, err = lres.Read(ndarray.Index(2))
	require.NoError(t, err)
}
