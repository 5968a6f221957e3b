// SPDX-License-Identifier: MIT

package sparse

import (
	"errors"
	"fmt"
)

var (
	// ErrBadShape is returned when rows or cols is not positive.
	ErrBadShape = errors.New("sparse: invalid shape")

	// ErrMalformed indicates inconsistent CSC storage (indptr, indices, data).
	ErrMalformed = errors.New("sparse: malformed CSC storage")

	// ErrDimensionMismatch indicates incompatible operand dimensions.
	ErrDimensionMismatch = errors.New("sparse: dimension mismatch")

	// ErrOutOfRange indicates a column, component or frame index outside valid bounds.
	ErrOutOfRange = errors.New("sparse: index out of range")
)

func cscErrorf(op string, err error) error {
	return fmt.Errorf("CSC.%s: %w", op, err)
}
