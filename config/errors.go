// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
)

var (
	// ErrNoConfig indicates an empty manifest path.
	ErrNoConfig = errors.New("config: no TOML manifest provided")

	// ErrUnknownKey indicates a manifest key no section defines.
	ErrUnknownKey = errors.New("config: unknown key")

	// ErrInvalid indicates a manifest value outside its allowed range.
	ErrInvalid = errors.New("config: invalid value")
)

func configErrorf(op string, err error) error {
	return fmt.Errorf("config.%s: %w", op, err)
}
