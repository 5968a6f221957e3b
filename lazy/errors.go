// SPDX-License-Identifier: MIT

package lazy

import (
	"errors"
	"fmt"
)

var (
	// ErrComponentMismatch is returned when spatial columns and temporal rows disagree.
	ErrComponentMismatch = errors.New("lazy: spatial and temporal component counts differ")

	// ErrDimensionMismatch indicates frame dimensions that do not fit the inputs.
	ErrDimensionMismatch = errors.New("lazy: dimension mismatch")

	// ErrIncompatibleType is returned when comparing against a non-compatible array type.
	ErrIncompatibleType = errors.New("lazy: cannot compare against incompatible type")

	// ErrNilInput indicates a required input was nil.
	ErrNilInput = errors.New("lazy: nil input")

	// ErrRawUnavailable is returned when residuals are requested without a raw movie.
	ErrRawUnavailable = errors.New("lazy: raw movie not available")
)

func lazyErrorf(op string, err error) error {
	return fmt.Errorf("lazy.%s: %w", op, err)
}
