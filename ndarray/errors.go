// SPDX-License-Identifier: MIT

package ndarray

import (
	"errors"
	"fmt"
)

var (
	// ErrBadShape is returned when a requested shape is invalid (non-positive extent,
	// unsupported rank, or a data length that disagrees with the shape).
	ErrBadShape = errors.New("ndarray: invalid shape")

	// ErrOutOfRange indicates a frame selector or element index outside valid bounds.
	ErrOutOfRange = errors.New("ndarray: index out of range")

	// ErrDimensionMismatch indicates incompatible shapes between operands.
	ErrDimensionMismatch = errors.New("ndarray: dimension mismatch")
)

// arrayErrorf tags err with the failing operation.
func arrayErrorf(op string, err error) error {
	return fmt.Errorf("ndarray.%s: %w", op, err)
}
