// SPDX-License-Identifier: MIT

package ndarray_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/cnmfrecon/ndarray"
)

func TestSelector_Bounds(t *testing.T) {
	cases := []struct {
		name        string
		sel         ndarray.Selector
		start, stop int
		wantErr     bool
	}{
		{"index", ndarray.Index(3), 3, 4, false},
		{"first", ndarray.Index(0), 0, 1, false},
		{"last", ndarray.Index(9), 9, 10, false},
		{"index past end", ndarray.Index(10), 0, 0, true},
		{"negative index", ndarray.Index(-1), 0, 0, true},
		{"span", ndarray.Span(2, 7), 2, 7, false},
		{"full span", ndarray.Span(0, 10), 0, 10, false},
		{"empty span", ndarray.Span(4, 4), 0, 0, true},
		{"reversed span", ndarray.Span(5, 4), 0, 0, true},
		{"span past end", ndarray.Span(8, 11), 0, 0, true},
		{"negative start", ndarray.Span(-2, 3), 0, 0, true},
		{"all", ndarray.All(), 0, 10, false},
		{"zero value", ndarray.Selector{}, 0, 10, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, stop, err := tc.sel.Bounds(10)
			if tc.wantErr {
				require.ErrorIs(t, err, ndarray.ErrOutOfRange)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.start, start)
			require.Equal(t, tc.stop, stop)
		})
	}

	_, _, err := ndarray.All().Bounds(0)
	require.ErrorIs(t, err, ndarray.ErrOutOfRange)
	require.Equal(t, "[2:7]", ndarray.Span(2, 7).String())
	require.True(t, ndarray.Index(1).IsIndex())
	require.False(t, ndarray.Span(1, 2).IsIndex())
}

func TestFromColumnMajor(t *testing.T) {
	// 2x3 frames, 2 frames. Pixel p = r + c*2; value = 10*p + frame.
	h, w, n := 2, 3, 2
	block := make([]float64, h*w*n)
	for p := 0; p < h*w; p++ {
		for j := 0; j < n; j++ {
			block[p*n+j] = float64(10*p + j)
		}
	}
	st, err := ndarray.FromColumnMajor(block, h, w, n, ndarray.Float64)
	require.NoError(t, err)
	require.Equal(t, []int{2, 2, 3}, st.Shape())

	for j := 0; j < n; j++ {
		for r := 0; r < h; r++ {
			for c := 0; c < w; c++ {
				v, err := st.At(j, r, c)
				require.NoError(t, err)
				require.Equal(t, float64(10*(r+c*h)+j), v)
			}
		}
	}

	// ColumnMajor inverts the reshape for one frame.
	vec, err := st.ColumnMajor(1)
	require.NoError(t, err)
	require.Equal(t, []float64{1, 11, 21, 31, 41, 51}, vec)

	_, err = ndarray.FromColumnMajor(block[:5], h, w, n, ndarray.Float64)
	require.ErrorIs(t, err, ndarray.ErrBadShape)
}

func TestArray_SqueezeStackFrame(t *testing.T) {
	one, err := ndarray.FromSlice([]float64{1, 2, 3, 4}, ndarray.Float64, 1, 2, 2)
	require.NoError(t, err)
	sq := one.Squeeze()
	require.Equal(t, 2, sq.NDim())
	require.Equal(t, []int{2, 2}, sq.Shape())
	require.Equal(t, []int{1, 2, 2}, sq.Stack().Shape())

	two, err := ndarray.FromSlice([]float64{1, 2, 3, 4, 5, 6, 7, 8}, ndarray.Float64, 2, 2, 2)
	require.NoError(t, err)
	require.Same(t, two, two.Squeeze())
	f, err := two.Frame(1)
	require.NoError(t, err)
	require.Equal(t, []float64{5, 6, 7, 8}, f.Data())
	_, err = two.Frame(2)
	require.ErrorIs(t, err, ndarray.ErrOutOfRange)

	_, err = two.At(0, 2, 0)
	require.ErrorIs(t, err, ndarray.ErrOutOfRange)
	_, err = two.At(0, 0)
	require.ErrorIs(t, err, ndarray.ErrDimensionMismatch)
}

func TestArray_SubAddPromote(t *testing.T) {
	a, err := ndarray.FromSlice([]float64{5, 5, 5, 5}, ndarray.Float32, 2, 2)
	require.NoError(t, err)
	b, err := ndarray.FromSlice([]float64{2, 2, 2, 2}, ndarray.Float64, 2, 2)
	require.NoError(t, err)

	d, err := a.Sub(b)
	require.NoError(t, err)
	require.Equal(t, ndarray.Float64, d.DType())
	require.Equal(t, []float64{3, 3, 3, 3}, d.Data())

	s, err := a.Add(b)
	require.NoError(t, err)
	require.Equal(t, []float64{7, 7, 7, 7}, s.Data())

	_, err = a.Sub(a.Stack())
	require.ErrorIs(t, err, ndarray.ErrDimensionMismatch)
}

func TestArray_NaNStatistics(t *testing.T) {
	nan := math.NaN()
	a, err := ndarray.FromSlice([]float64{nan, -1, 4, nan}, ndarray.Float64, 2, 2)
	require.NoError(t, err)
	lo, hi := a.MinMax()
	require.Equal(t, -1.0, lo)
	require.Equal(t, 4.0, hi)
	require.Equal(t, 1.5, a.Mean())
	require.True(t, math.IsNaN(ndarray.NaNMax([]float64{nan})))
	require.False(t, a.Equal(a), "NaN never equals NaN")
}

func TestMaskFromColumnMajor(t *testing.T) {
	// h=2, w=2; p = r + 2c.
	m, err := ndarray.MaskFromColumnMajor([]float64{0.5, 0, 0.001, 1}, 2, 2, 0.01)
	require.NoError(t, err)
	require.True(t, m.At(0, 0))
	require.False(t, m.At(1, 0))
	require.False(t, m.At(0, 1))
	require.True(t, m.At(1, 1))
	require.False(t, m.At(5, 5))
	require.Equal(t, 2, m.Count())
}

func TestMask_Boundary(t *testing.T) {
	// 3x3 block in the upper-left of a 4x4 image; only its centre is interior.
	vec := make([]float64, 16)
	for c := 0; c < 3; c++ {
		for r := 0; r < 3; r++ {
			vec[r+4*c] = 1
		}
	}
	m, err := ndarray.MaskFromColumnMajor(vec, 4, 4, 0.5)
	require.NoError(t, err)
	require.Equal(t, [][2]int{
		{0, 0}, {0, 1}, {0, 2},
		{1, 0}, {1, 2},
		{2, 0}, {2, 1}, {2, 2},
	}, m.Boundary())

	empty, err := ndarray.MaskFromColumnMajor(make([]float64, 4), 2, 2, 0.5)
	require.NoError(t, err)
	require.Empty(t, empty.Boundary())
}

func TestDType(t *testing.T) {
	require.Equal(t, "float32", ndarray.Float32.String())
	require.Equal(t, ndarray.Float64, ndarray.Promote(ndarray.Float32, ndarray.Float64))
	require.Equal(t, ndarray.Float32, ndarray.Promote(ndarray.Float32, ndarray.Float32))
	require.Equal(t, 4, ndarray.Float32.Size())

	for _, dt := range []ndarray.DType{ndarray.Float32, ndarray.Float64} {
		got, err := ndarray.ParseDType(dt.String())
		require.NoError(t, err)
		require.Equal(t, dt, got)
	}
	_, err := ndarray.ParseDType("int8")
	require.Error(t, err)
}
