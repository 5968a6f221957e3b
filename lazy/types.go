// SPDX-License-Identifier: MIT

package lazy

import "github.com/katalvlaran/cnmfrecon/ndarray"

// Kind tags the variant behind an Array.
type Kind uint8

const (
	// KindReconstructed is the reconstructed movie A · C.
	KindReconstructed Kind = iota
	// KindBackground is the background movie b · f.
	KindBackground
	// KindResiduals is the raw movie minus reconstruction and background.
	KindResiduals
)

func (k Kind) String() string {
	switch k {
	case KindReconstructed:
		return "RCM"
	case KindBackground:
		return "RCB"
	case KindResiduals:
		return "Residuals"
	default:
		return "unknown"
	}
}

// Array is the capability shared by every virtual movie.
type Array interface {
	// Kind identifies the variant.
	Kind() Kind

	// Shape returns (frames, h, w).
	Shape() [3]int

	// DType is the element type of Read results.
	DType() ndarray.DType

	// Min and Max bound every non-NaN element Read can return.
	Min() float64
	Max() float64

	// Read evaluates the selected frames. One selected frame yields an (h, w)
	// image, several yield an (n, h, w) stack.
	Read(sel ndarray.Selector) (*ndarray.Array, error)
}

// compile-time checks
var (
	_ Array = (*Product)(nil)
	_ Array = (*Residuals)(nil)
)
