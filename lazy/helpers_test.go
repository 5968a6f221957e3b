// SPDX-License-Identifier: MIT

package lazy_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/cnmfrecon/ndarray"
	"github.com/katalvlaran/cnmfrecon/sparse"
)

const (
	height = 10
	width  = 10
	pixels = height * width
	comps  = 3
	frames = 50
)

// blockFootprints gives component k the pixels [30k, 30k+10) with weights
// 1+k, 2+k, ... so footprints never overlap and each has one column maximum.
func blockFootprints(t *testing.T, dt ndarray.DType) *sparse.CSC {
	t.Helper()
	var entries []sparse.Triplet
	for k := 0; k < comps; k++ {
		for i := 0; i < 10; i++ {
			entries = append(entries, sparse.Triplet{Row: 30*k + i, Col: k, Value: float64(i+1) + float64(k)})
		}
	}
	a, err := sparse.FromTriplets(pixels, comps, entries, dt)
	require.NoError(t, err)

	return a
}

// knownTraces is a deterministic 3×50 matrix with negative and positive values.
func knownTraces() *mat.Dense {
	c := mat.NewDense(comps, frames, nil)
	for k := 0; k < comps; k++ {
		for f := 0; f < frames; f++ {
			c.Set(k, f, float64((f*(k+2))%7)-1.5*float64(k))
		}
	}

	return c
}

// randomFactors draws non-overlapping random footprints and traces, with a
// sprinkling of NaN samples in the traces.
func randomFactors(t *testing.T, seed int64) (*sparse.CSC, *mat.Dense) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(pixels)
	var entries []sparse.Triplet
	for k := 0; k < comps; k++ {
		for _, p := range perm[k*20 : k*20+1+rng.Intn(19)] {
			entries = append(entries, sparse.Triplet{Row: p, Col: k, Value: rng.NormFloat64()})
		}
	}
	a, err := sparse.FromTriplets(pixels, comps, entries, ndarray.Float64)
	require.NoError(t, err)

	c := mat.NewDense(comps, frames, nil)
	for k := 0; k < comps; k++ {
		for f := 0; f < frames; f++ {
			v := rng.NormFloat64() * 10
			if rng.Intn(25) == 0 {
				v = math.NaN()
			}
			c.Set(k, f, v)
		}
	}

	return a, c
}

// naiveFrame computes A · C[:, f] reshaped column-major with plain loops.
func naiveFrame(a *sparse.CSC, c mat.Matrix, f int) []float64 {
	out := make([]float64, pixels) // row-major (r, c)
	for p := 0; p < pixels; p++ {
		var v float64
		for k := 0; k < comps; k++ {
			v += a.At(p, k) * c.At(k, f)
		}
		r, col := p%height, p/height
		out[r*width+col] = v
	}

	return out
}
