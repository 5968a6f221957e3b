// SPDX-License-Identifier: MIT

package store

import (
	"encoding/binary"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/cnmfrecon/cnmf"
	"github.com/katalvlaran/cnmfrecon/ndarray"
	"github.com/katalvlaran/cnmfrecon/sparse"
)

// Version is the document format written by Save.
const Version = 1

type document struct {
	Version       int    `json:"version"`
	Dims          [2]int `json:"dims"`
	TemporalDType string `json:"temporal_dtype"`

	A cscDoc    `json:"A"`
	C denseDoc  `json:"C"`
	B *matrix   `json:"b,omitempty"`
	F *denseDoc `json:"f,omitempty"`

	Accepted []int `json:"idx_components,omitempty"`
	Rejected []int `json:"idx_components_bad,omitempty"`
}

type cscDoc struct {
	Rows    int    `json:"rows"`
	Cols    int    `json:"cols"`
	DType   string `json:"dtype"`
	Indptr  []int  `json:"indptr"`
	Indices []int  `json:"indices"`
	Data    []byte `json:"data"`
}

type denseDoc struct {
	Rows int    `json:"rows"`
	Cols int    `json:"cols"`
	Data []byte `json:"data"`
}

// matrix holds exactly one of its fields.
type matrix struct {
	Sparse *cscDoc   `json:"sparse,omitempty"`
	Dense  *denseDoc `json:"dense,omitempty"`
}

func encode(e *cnmf.Estimates) document {
	d := document{
		Version:       Version,
		Dims:          e.Dims,
		TemporalDType: e.TemporalDType.String(),
		A:             encodeCSC(e.A),
		C:             encodeDense(e.C),
		Accepted:      e.Accepted,
		Rejected:      e.Rejected,
	}
	if e.HasBackground() {
		if b, ok := e.B.(*sparse.CSC); ok {
			s := encodeCSC(b)
			d.B = &matrix{Sparse: &s}
		} else {
			dn := encodeDense(e.B)
			d.B = &matrix{Dense: &dn}
		}
		f := encodeDense(e.F)
		d.F = &f
	}

	return d
}

func (d document) decode() (*cnmf.Estimates, error) {
	if d.Version != Version {
		return nil, fmt.Errorf("version %d: %w", d.Version, ErrVersion)
	}
	tdt, err := ndarray.ParseDType(d.TemporalDType)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrCorrupt)
	}
	e := &cnmf.Estimates{Dims: d.Dims, Accepted: d.Accepted, Rejected: d.Rejected, TemporalDType: tdt}
	if e.A, err = d.A.decode(); err != nil {
		return nil, fmt.Errorf("A: %w", err)
	}
	if e.C, err = d.C.decode(); err != nil {
		return nil, fmt.Errorf("C: %w", err)
	}
	if d.B != nil {
		switch {
		case d.B.Sparse != nil:
			e.B, err = d.B.Sparse.decode()
		case d.B.Dense != nil:
			e.B, err = d.B.Dense.decode()
		default:
			err = fmt.Errorf("empty matrix: %w", ErrCorrupt)
		}
		if err != nil {
			return nil, fmt.Errorf("b: %w", err)
		}
	}
	if d.F != nil {
		if e.F, err = d.F.decode(); err != nil {
			return nil, fmt.Errorf("f: %w", err)
		}
	}

	return e, nil
}

func encodeCSC(m *sparse.CSC) cscDoc {
	r, c := m.Dims()
	indptr, indices, data := m.Raw()

	return cscDoc{Rows: r, Cols: c, DType: m.DType().String(), Indptr: indptr, Indices: indices, Data: pack(data)}
}

func (d *cscDoc) decode() (*sparse.CSC, error) {
	dt, err := ndarray.ParseDType(d.DType)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, ErrCorrupt)
	}
	data, err := unpack(d.Data, len(d.Indices))
	if err != nil {
		return nil, err
	}

	return sparse.NewCSC(d.Rows, d.Cols, d.Indptr, d.Indices, data, dt)
}

func encodeDense(m mat.Matrix) denseDoc {
	dn := mat.DenseCopyOf(m)
	r, c := dn.Dims()

	return denseDoc{Rows: r, Cols: c, Data: pack(dn.RawMatrix().Data)}
}

func (d *denseDoc) decode() (*mat.Dense, error) {
	if d.Rows <= 0 || d.Cols <= 0 {
		return nil, fmt.Errorf("shape %dx%d: %w", d.Rows, d.Cols, ErrCorrupt)
	}
	data, err := unpack(d.Data, d.Rows*d.Cols)
	if err != nil {
		return nil, err
	}

	return mat.NewDense(d.Rows, d.Cols, data), nil
}

func pack(v []float64) []byte {
	b := make([]byte, 8*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint64(b[8*i:], math.Float64bits(x))
	}

	return b
}

func unpack(b []byte, n int) ([]float64, error) {
	if len(b) != 8*n {
		return nil, fmt.Errorf("%d bytes for %d values: %w", len(b), n, ErrCorrupt)
	}
	v := make([]float64, n)
	for i := range v {
		v[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[8*i:]))
	}

	return v, nil
}
