package core

import (
	"encoding/binary"
	"fmt"
	"math"
)

// NewMatFromFloat32s creates a single-channel CV_32F Mat from row-major
// values, the usual shape of descriptor matrices.
func NewMatFromFloat32s(rows, cols int, data []float32) (*Mat, error) {
	if len(data) != rows*cols {
		return nil, fmt.Errorf("core: %d values for a %dx%d mat", len(data), rows, cols)
	}
	b := make([]byte, 4*len(data))
	for i, v := range data {
		binary.NativeEndian.PutUint32(b[4*i:], math.Float32bits(v))
	}
	return NewMatFromBytes(rows, cols, MatTypeCV32FC1, b)
}

// Float32s returns the elements of a CV_32F Mat, channels interleaved.
func (m *Mat) Float32s() ([]float32, error) {
	if m.Depth() != DepthF32 {
		return nil, fmt.Errorf("core: float32s: mat depth is %s", m.Depth())
	}
	b, err := m.Bytes()
	if err != nil {
		return nil, err
	}
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.NativeEndian.Uint32(b[4*i:]))
	}
	return out, nil
}
