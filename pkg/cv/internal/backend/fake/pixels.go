package fake

import (
	"encoding/binary"
	"math"
)

// Depth codes, as in OpenCV's CV_8U..CV_64F.
const (
	depth8U  int32 = 0
	depth8S  int32 = 1
	depth16U int32 = 2
	depth16S int32 = 3
	depth32S int32 = 4
	depth32F int32 = 5
	depth64F int32 = 6
)

func depthOf(typ int32) int32    { return typ & 7 }
func channelsOf(typ int32) int32 { return (typ >> 3) + 1 }
func makeType(depth, ch int32) int32 {
	return depth + (ch-1)<<3
}

func elemSize1(depth int32) int {
	switch depth {
	case depth8U, depth8S:
		return 1
	case depth16U, depth16S:
		return 2
	case depth32S, depth32F:
		return 4
	default:
		return 8
	}
}

// mat is a dense, continuous, row-major image.
type mat struct {
	rows, cols, typ int32
	data            []byte
}

func newMat(rows, cols, typ int32) *mat {
	m := &mat{rows: rows, cols: cols, typ: typ}
	m.data = make([]byte, m.total()*m.elemSize())
	return m
}

func (m *mat) empty() bool   { return m.rows <= 0 || m.cols <= 0 }
func (m *mat) ch() int       { return int(channelsOf(m.typ)) }
func (m *mat) depth() int32  { return depthOf(m.typ) }
func (m *mat) total() int    { return int(m.rows) * int(m.cols) }
func (m *mat) elemSize() int { return m.ch() * elemSize1(m.depth()) }

func (m *mat) clone() *mat {
	c := &mat{rows: m.rows, cols: m.cols, typ: m.typ}
	c.data = append([]byte(nil), m.data...)
	return c
}

func (m *mat) offset(r, c, k int) int {
	return ((r*int(m.cols)+c)*m.ch() + k) * elemSize1(m.depth())
}

func (m *mat) at(r, c, k int) float64 {
	b := m.data[m.offset(r, c, k):]
	switch m.depth() {
	case depth8U:
		return float64(b[0])
	case depth8S:
		return float64(int8(b[0]))
	case depth16U:
		return float64(binary.LittleEndian.Uint16(b))
	case depth16S:
		return float64(int16(binary.LittleEndian.Uint16(b)))
	case depth32S:
		return float64(int32(binary.LittleEndian.Uint32(b)))
	case depth32F:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	default:
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	}
}

// set stores v with OpenCV's saturate_cast rounding for integer depths.
func (m *mat) set(r, c, k int, v float64) {
	b := m.data[m.offset(r, c, k):]
	switch m.depth() {
	case depth8U:
		b[0] = uint8(saturate(v, 0, math.MaxUint8))
	case depth8S:
		b[0] = byte(int8(saturate(v, math.MinInt8, math.MaxInt8)))
	case depth16U:
		binary.LittleEndian.PutUint16(b, uint16(saturate(v, 0, math.MaxUint16)))
	case depth16S:
		binary.LittleEndian.PutUint16(b, uint16(int16(saturate(v, math.MinInt16, math.MaxInt16))))
	case depth32S:
		binary.LittleEndian.PutUint32(b, uint32(int32(saturate(v, math.MinInt32, math.MaxInt32))))
	case depth32F:
		binary.LittleEndian.PutUint32(b, math.Float32bits(float32(v)))
	default:
		binary.LittleEndian.PutUint64(b, math.Float64bits(v))
	}
}

func saturate(v, lo, hi float64) float64 {
	v = math.RoundToEven(v)
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// row returns row r as float64 values, channels interleaved.
func (m *mat) row(r int) []float64 {
	n := int(m.cols) * m.ch()
	out := make([]float64, n)
	for i := range out {
		out[i] = m.at(r, i/m.ch(), i%m.ch())
	}
	return out
}

// gray returns the luma of pixel (r, c), treating 3 and 4 channel images as
// BGR(A).
func (m *mat) gray(r, c int) float64 {
	if m.ch() < 3 {
		return m.at(r, c, 0)
	}
	return 0.114*m.at(r, c, 0) + 0.587*m.at(r, c, 1) + 0.299*m.at(r, c, 2)
}
