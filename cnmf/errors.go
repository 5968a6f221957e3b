// SPDX-License-Identifier: MIT

package cnmf

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingEstimates is returned when required factors are nil or a
	// background half (b without f, or f without b) is missing.
	ErrMissingEstimates = errors.New("cnmf: missing estimates")

	// ErrComponentMismatch is returned when A's columns and C's rows disagree.
	ErrComponentMismatch = errors.New("cnmf: spatial and temporal component counts differ")

	// ErrDimensionMismatch indicates factors or a raw movie whose shapes do not fit together.
	ErrDimensionMismatch = errors.New("cnmf: dimension mismatch")

	// ErrBadComponent indicates a component index outside [0, K).
	ErrBadComponent = errors.New("cnmf: component index out of range")

	// ErrRawUnavailable is returned when residuals are requested without a raw movie.
	ErrRawUnavailable = errors.New("cnmf: raw movie not available")

	// ErrNoBackground is returned when the background is required but absent.
	ErrNoBackground = errors.New("cnmf: estimates have no background")
)

func cnmfErrorf(op string, err error) error {
	return fmt.Errorf("cnmf.%s: %w", op, err)
}
