// SPDX-License-Identifier: MIT

package store

import (
	"encoding/json"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/katalvlaran/cnmfrecon/cnmf"
)

// Ext is the conventional file extension.
const Ext = ".json.zst"

// Save writes est to w. est must pass Validate.
func Save(w io.Writer, est *cnmf.Estimates) error {
	if err := est.Validate(); err != nil {
		return storeErrorf("Save", err)
	}
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return storeErrorf("Save", err)
	}
	if err := json.NewEncoder(zw).Encode(encode(est)); err != nil {
		_ = zw.Close()
		return storeErrorf("Save", err)
	}
	if err := zw.Close(); err != nil {
		return storeErrorf("Save", err)
	}

	return nil
}

// Load reads and validates estimates written by Save.
// Errors: ErrVersion, ErrCorrupt, cnmf validation errors, decode errors.
func Load(r io.Reader) (*cnmf.Estimates, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, storeErrorf("Load", err)
	}
	defer zr.Close()

	var doc document
	if err := json.NewDecoder(zr).Decode(&doc); err != nil {
		return nil, storeErrorf("Load", err)
	}
	est, err := doc.decode()
	if err != nil {
		return nil, storeErrorf("Load", err)
	}
	if err := est.Validate(); err != nil {
		return nil, storeErrorf("Load", err)
	}

	return est, nil
}

// SaveFile writes est to path, replacing any existing file.
func SaveFile(path string, est *cnmf.Estimates) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return storeErrorf("SaveFile", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = storeErrorf("SaveFile", cerr)
		}
	}()

	return Save(f, est)
}

// LoadFile reads estimates from path.
func LoadFile(path string) (*cnmf.Estimates, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, storeErrorf("LoadFile", err)
	}
	defer f.Close()

	return Load(f)
}
