// SPDX-License-Identifier: MIT

package memmap

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/katalvlaran/cnmfrecon/ndarray"
)

// Write stores frames, an (n, h, w) stack or a single (h, w) image, as a
// memmap file named after prefix in dir and returns its path.
// Values are narrowed to float32. An existing file of that name is replaced; on failure no file is left behind.
// Errors: wrapped ndarray.ErrBadShape for an empty stack, ErrBadName for an
// unknown order, and file errors.
func Write(dir, prefix string, frames *ndarray.Array, order Order) (path string, err error) {
	if order != OrderC && order != OrderF {
		return "", memmapErrorf("Write", fmt.Errorf("order %q: %w", byte(order), ErrBadName))
	}
	st := frames.Stack()
	if st.Len() == 0 {
		return "", memmapErrorf("Write", ndarray.ErrBadShape)
	}
	shape := st.Shape()
	l := Layout{Height: shape[1], Width: shape[2], Depth: 1, Frames: shape[0], Order: order}
	name := filepath.Join(dir, l.Name(prefix))

	f, err := os.Create(name)
	if err != nil {
		return "", memmapErrorf("Write", err)
	}
	// A partial file would still carry a valid layout name.
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = memmapErrorf("Write", cerr)
		}
		if err != nil {
			_ = os.Remove(name)
			path = ""
		}
	}()

	data := st.Data()
	h, w, px := l.Height, l.Width, l.Pixels()
	// src is the row-major slot of Yr[p, t].
	src := func(p, t int) int { return t*px + (p%h)*w + p/h }

	bw := bufio.NewWriter(f)
	var word [4]byte
	put := func(v float64) error {
		binary.LittleEndian.PutUint32(word[:], math.Float32bits(float32(v)))
		_, werr := bw.Write(word[:])
		return werr
	}
	if order == OrderC {
		for p := 0; p < px; p++ {
			for t := 0; t < l.Frames; t++ {
				if err = put(data[src(p, t)]); err != nil {
					return "", memmapErrorf("Write", err)
				}
			}
		}
	} else {
		for t := 0; t < l.Frames; t++ {
			for p := 0; p < px; p++ {
				if err = put(data[src(p, t)]); err != nil {
					return "", memmapErrorf("Write", err)
				}
			}
		}
	}
	if err = bw.Flush(); err != nil {
		return "", memmapErrorf("Write", err)
	}

	return name, nil
}
