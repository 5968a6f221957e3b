// SPDX-License-Identifier: MIT

package memmap

import (
	"errors"
	"fmt"
)

var (
	// ErrNotMemmap indicates a path that is not a .mmap file.
	ErrNotMemmap = errors.New("memmap: not a memmap file")

	// ErrBadName indicates a .mmap filename whose geometry cannot be decoded.
	ErrBadName = errors.New("memmap: malformed memmap filename")

	// ErrUnsupported indicates a valid layout this package does not read (D != 1).
	ErrUnsupported = errors.New("memmap: unsupported layout")

	// ErrSize indicates a file whose length disagrees with its encoded geometry.
	ErrSize = errors.New("memmap: file size does not match layout")

	// ErrClosed indicates use of a Movie after Close.
	ErrClosed = errors.New("memmap: movie closed")
)

// memmapErrorf wraps err with the operation name.
func memmapErrorf(op string, err error) error {
	return fmt.Errorf("memmap.%s: %w", op, err)
}
