// SPDX-License-Identifier: MIT

package memmap

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Ext is the memmap file extension.
const Ext = ".mmap"

// Order is the storage order of Yr.
type Order byte

const (
	// OrderC stores each pixel's trace contiguously (row-major Yr).
	OrderC Order = 'C'
	// OrderF stores each frame contiguously (column-major Yr).
	OrderF Order = 'F'
)

func (o Order) String() string { return string(o) }

// Layout is the geometry encoded in a memmap filename.
type Layout struct {
	Height, Width, Depth int
	Frames               int
	Order                Order
}

// Pixels returns Height*Width*Depth.
func (l Layout) Pixels() int { return l.Height * l.Width * l.Depth }

// Size returns the expected file length in bytes.
func (l Layout) Size() int64 { return int64(l.Pixels()) * int64(l.Frames) * 4 }

// Name returns the memmap basename for prefix.
func (l Layout) Name(prefix string) string {
	return fmt.Sprintf("%s_d1_%d_d2_%d_d3_%d_order_%s_frames_%d_%s",
		prefix, l.Height, l.Width, l.Depth, l.Order, l.Frames, Ext)
}

// offset returns the byte offset of Yr[p, t].
func (l Layout) offset(p, t int) int64 {
	if l.Order == OrderC {
		return (int64(p)*int64(l.Frames) + int64(t)) * 4
	}

	return (int64(p) + int64(t)*int64(l.Pixels())) * 4
}

// ParseName decodes the layout from a memmap path. Only the basename is read.
//
// The basename is split on "_"; the leading prefix part and the trailing
// extension part are dropped, and the geometry is read from the end so that
// prefixes may themselves contain underscores.
//
// Errors: ErrNotMemmap, ErrBadName.
func ParseName(path string) (Layout, error) {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, Ext) {
		return Layout{}, memmapErrorf("ParseName", fmt.Errorf("%q: %w", base, ErrNotMemmap))
	}
	parts := strings.Split(base, "_")
	if len(parts) < 12 {
		return Layout{}, memmapErrorf("ParseName", fmt.Errorf("%q: %w", base, ErrBadName))
	}
	f := parts[1 : len(parts)-1]
	n := len(f)
	for tag, at := range map[string]int{"d1": n - 10, "d2": n - 8, "d3": n - 6, "order": n - 4, "frames": n - 2} {
		if f[at] != tag {
			return Layout{}, memmapErrorf("ParseName", fmt.Errorf("%q: want %q at field %d: %w", base, tag, at, ErrBadName))
		}
	}

	var l Layout
	for _, d := range []struct {
		dst *int
		at  int
	}{{&l.Height, n - 9}, {&l.Width, n - 7}, {&l.Depth, n - 5}, {&l.Frames, n - 1}} {
		v, err := strconv.Atoi(f[d.at])
		if err != nil || v <= 0 {
			return Layout{}, memmapErrorf("ParseName", fmt.Errorf("%q: field %q: %w", base, f[d.at], ErrBadName))
		}
		*d.dst = v
	}
	switch o := f[n-3]; o {
	case "C", "F":
		l.Order = Order(o[0])
	default:
		return Layout{}, memmapErrorf("ParseName", fmt.Errorf("%q: order %q: %w", base, o, ErrBadName))
	}

	return l, nil
}
