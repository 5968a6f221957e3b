// SPDX-License-Identifier: MIT

package ndarray

import "fmt"

// DType is the element type of a numeric array. Values are always carried as
// float64; a Float32 array holds values rounded to float32 precision.
type DType uint8

const (
	// Float64 is double precision (zero value).
	Float64 DType = iota
	// Float32 is single precision, the storage type of CaImAn memmap movies.
	Float32
)

// String returns the numpy-style type name.
func (d DType) String() string {
	switch d {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}

// ParseDType is the inverse of DType.String.
func ParseDType(s string) (DType, error) {
	switch s {
	case "float32":
		return Float32, nil
	case "float64", "":
		return Float64, nil
	default:
		return 0, fmt.Errorf("ndarray: unknown dtype %q", s)
	}
}

// Size returns the number of bytes of one element.
func (d DType) Size() int {
	if d == Float32 {
		return 4
	}

	return 8
}

// Promote returns the type that holds the result of combining a and b.
func Promote(a, b DType) DType {
	if a == Float64 || b == Float64 {
		return Float64
	}

	return Float32
}

// Round converts v to the precision of d.
func (d DType) Round(v float64) float64 {
	if d == Float32 {
		return float64(float32(v))
	}

	return v
}

// roundAll applies Round in place.
func (d DType) roundAll(data []float64) {
	if d != Float32 {
		return
	}
	for i, v := range data {
		data[i] = float64(float32(v))
	}
}
