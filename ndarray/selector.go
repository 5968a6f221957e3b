// SPDX-License-Identifier: MIT

package ndarray

import "fmt"

type selectorKind uint8

const (
	selectAll selectorKind = iota
	selectIndex
	selectSpan
)

// Selector picks a contiguous run of frames. The zero value selects all frames.
type Selector struct {
	kind        selectorKind
	start, stop int
}

// Index selects the single frame i, i.e. the half-open range [i, i+1).
func Index(i int) Selector { return Selector{kind: selectIndex, start: i, stop: i + 1} }

// Span selects the half-open range [start, stop).
func Span(start, stop int) Selector { return Selector{kind: selectSpan, start: start, stop: stop} }

// All selects every frame.
func All() Selector { return Selector{} }

// IsIndex reports whether s was built with Index.
func (s Selector) IsIndex() bool { return s.kind == selectIndex }

// Bounds normalizes s against a movie of n frames and returns [start, stop).
//
// An Index must satisfy 0 <= i < n. A Span must satisfy 0 <= start < stop <= n.
// All requires n > 0. Out-of-range selections fail with ErrOutOfRange; they
// are never clipped or wrapped.
// Complexity: O(1).
func (s Selector) Bounds(n int) (start, stop int, err error) {
	switch s.kind {
	case selectAll:
		if n <= 0 {
			return 0, 0, arrayErrorf("Bounds", fmt.Errorf("empty movie: %w", ErrOutOfRange))
		}
		return 0, n, nil
	default:
		if s.start < 0 || s.start >= s.stop || s.stop > n {
			return 0, 0, arrayErrorf("Bounds", fmt.Errorf("%s of %d frames: %w", s, n, ErrOutOfRange))
		}
		return s.start, s.stop, nil
	}
}

// String renders the selector in slice notation.
func (s Selector) String() string {
	switch s.kind {
	case selectIndex:
		return fmt.Sprintf("[%d]", s.start)
	case selectSpan:
		return fmt.Sprintf("[%d:%d]", s.start, s.stop)
	default:
		return "[:]"
	}
}
