// SPDX-License-Identifier: MIT

package store

import (
	"errors"
	"fmt"
)

var (
	// ErrVersion indicates a document written by an unknown format version.
	ErrVersion = errors.New("store: unsupported document version")

	// ErrCorrupt indicates a document whose matrices disagree with their declared shapes.
	ErrCorrupt = errors.New("store: corrupt document")
)

func storeErrorf(op string, err error) error {
	return fmt.Errorf("store.%s: %w", op, err)
}
