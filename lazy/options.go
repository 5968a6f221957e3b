// SPDX-License-Identifier: MIT

package lazy

import "github.com/katalvlaran/cnmfrecon/ndarray"

// DefaultChunkFrames is the number of raw frames scanned per step when
// Residuals measures the raw movie's extrema.
const DefaultChunkFrames = 100

const panicChunkFramesInvalid = "lazy: WithChunkFrames: n must be > 0"

// Option configures constructors of this package.
type Option func(*options)

type options struct {
	temporalDType ndarray.DType // dtype of the temporal matrix (gonum stores float64)
	spatialDType  ndarray.DType // dtype assigned when a dense spatial matrix is converted
	chunkFrames   int
}

// WithTemporalDType declares the element type of the temporal traces.
// gonum matrices are always float64 in memory; this records the precision the
// traces were produced in. Default Float64.
func WithTemporalDType(dt ndarray.DType) Option {
	return func(o *options) { o.temporalDType = dt }
}

// WithSpatialDType sets the element type used when a dense spatial matrix
// (e.g. a background footprint) is converted to CSC. Default Float64.
func WithSpatialDType(dt ndarray.DType) Option {
	return func(o *options) { o.spatialDType = dt }
}

// WithChunkFrames sets how many raw frames are held in memory at once while
// Residuals scans the raw movie. Panics if n <= 0.
func WithChunkFrames(n int) Option {
	if n <= 0 {
		panic(panicChunkFramesInvalid)
	}

	return func(o *options) { o.chunkFrames = n }
}

func gatherOptions(opts []Option) options {
	o := options{
		temporalDType: ndarray.Float64,
		spatialDType:  ndarray.Float64,
		chunkFrames:   DefaultChunkFrames,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
