package core

import (
	"errors"
	"fmt"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/backend"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/types"
)

// Mat owns one native cv::Mat. Its shape is read once at construction and
// never changes: operations that produce a different shape return a new Mat.
//
// A Mat may be handed to another goroutine but must not be used from two at
// once. Call Close when done; a finalizer releases leaked Mats.
type Mat struct {
	n    backend.Native
	o    *ffi.Owned[backend.Mat]
	info backend.MatInfo
}

// NewMatFromBackend takes ownership of a handle returned by the native table
// n. It is exported for the sibling cv packages.
func NewMatFromBackend(n backend.Native, h ffi.Handle[backend.Mat]) *Mat {
	m := &Mat{n: n, o: ffi.Own(h, n.MatRelease)}
	if !h.IsNull() {
		m.info = n.MatInfo(h)
	}
	return m
}

// NewMat creates an empty Mat.
func NewMat() *Mat {
	n := backend.Current()
	return NewMatFromBackend(n, n.MatNew())
}

// NewMatWithSize creates a zero-filled Mat.
func NewMatWithSize(rows, cols int, t MatType) (*Mat, error) {
	r, c, err := matShape(rows, cols, t)
	if err != nil {
		return nil, err
	}
	n := backend.Current()
	h := n.MatNewWithSize(r, c, int32(t))
	if h.IsNull() {
		return nil, nullError()
	}
	return NewMatFromBackend(n, h), nil
}

// NewMatFromBytes creates a Mat holding a copy of data, which must be exactly
// rows*cols*ElemSize bytes.
func NewMatFromBytes(rows, cols int, t MatType, data []byte) (*Mat, error) {
	r, c, err := matShape(rows, cols, t)
	if err != nil {
		return nil, err
	}
	n := backend.Current()
	h, err := n.MatFromBytes(r, c, int32(t), data).Into()
	if err != nil {
		return nil, fmt.Errorf("core: mat from bytes: %w", err)
	}
	return NewMatFromBackend(n, h), nil
}

// matShape checks a requested shape before any native call.
func matShape(rows, cols int, t MatType) (int32, int32, error) {
	if rows < 0 || cols < 0 {
		return 0, 0, fmt.Errorf("core: invalid size %dx%d", rows, cols)
	}
	r, err := ffi.Int32("rows", rows)
	if err != nil {
		return 0, 0, fmt.Errorf("core: %w", err)
	}
	c, err := ffi.Int32("cols", cols)
	if err != nil {
		return 0, 0, fmt.Errorf("core: %w", err)
	}
	if err := checkEnum(t); err != nil {
		return 0, 0, err
	}
	return r, c, nil
}

// ErrAllocFailed is returned when OpenCV hands back no object for a
// constructor that should always produce one.
var ErrAllocFailed = errors.New("core: native allocation failed")

// nullError explains a null handle on a Mat that was never closed.
func nullError() error {
	if !backend.Available() {
		return backend.ErrNotBuilt
	}
	return ErrAllocFailed
}

// Borrow lends the native handle for one call; done must be called after it.
// It is exported for the sibling cv packages.
func (m *Mat) Borrow() (h ffi.Handle[backend.Mat], done func(), err error) {
	if m == nil || m.o.Closed() {
		return h, nil, ffi.ErrClosed
	}
	h, done = m.o.Borrow()
	if h.IsNull() {
		done()
		if m.o.Closed() {
			return h, nil, ffi.ErrClosed
		}
		return h, nil, nullError()
	}
	return h, done, nil
}

// Native returns the table the Mat was created with.
func (m *Mat) Native() backend.Native { return m.n }

// Close releases the native Mat. A second Close returns ErrClosed.
func (m *Mat) Close() error {
	if m == nil {
		return nil
	}
	return m.o.Close()
}

// Closed reports whether Close has been called.
func (m *Mat) Closed() bool { return m == nil || m.o.Closed() }

// IsValid reports whether the Mat holds pixels. IMRead returns an invalid Mat
// for unreadable files.
func (m *Mat) IsValid() bool {
	h, done, err := m.Borrow()
	if err != nil {
		return false
	}
	defer done()
	return m.n.MatIsValid(h)
}

func (m *Mat) Rows() int        { return int(m.info.Rows) }
func (m *Mat) Cols() int        { return int(m.info.Cols) }
func (m *Mat) Type() MatType    { return MatType(m.info.Type) }
func (m *Mat) Depth() Depth     { return m.Type().Depth() }
func (m *Mat) Channels() int    { return m.Type().Channels() }
func (m *Mat) Total() int       { return m.Rows() * m.Cols() }
func (m *Mat) ElemSize() int    { return m.Channels() * m.Depth().Size() }
func (m *Mat) Empty() bool      { return m.Total() == 0 }
func (m *Mat) Size() types.Size { return types.Size{Width: m.info.Cols, Height: m.info.Rows} }

func (m *Mat) String() string {
	if m.Closed() {
		return "Mat(closed)"
	}
	return fmt.Sprintf("Mat(%dx%d %s)", m.Rows(), m.Cols(), m.Type())
}

// Bytes returns a copy of the pixel data, row-major with channels
// interleaved.
func (m *Mat) Bytes() ([]byte, error) {
	h, done, err := m.Borrow()
	if err != nil {
		return nil, err
	}
	defer done()
	return m.n.MatData(h).Unpack(), nil
}

// Clone returns an independent copy backed by a new native Mat.
func (m *Mat) Clone() (*Mat, error) {
	b, err := m.Bytes()
	if err != nil {
		return nil, err
	}
	if m.Empty() {
		return NewMatFromBackend(m.n, m.n.MatNew()), nil
	}
	return NewMatFromBytes(m.Rows(), m.Cols(), m.Type(), b)
}

// derive runs a native operation that produces a new Mat.
func (m *Mat) derive(op string, call func(h ffi.Handle[backend.Mat]) ffi.Result[ffi.Handle[backend.Mat]]) (*Mat, error) {
	h, done, err := m.Borrow()
	if err != nil {
		return nil, err
	}
	defer done()
	out, err := call(h).Into()
	if err != nil {
		return nil, fmt.Errorf("core: %s: %w", op, err)
	}
	return NewMatFromBackend(m.n, out), nil
}

// Region returns a copy of the pixels inside r.
func (m *Mat) Region(r types.Rect) (*Mat, error) {
	return m.derive("region", func(h ffi.Handle[backend.Mat]) ffi.Result[ffi.Handle[backend.Mat]] {
		return m.n.MatRegion(h, r)
	})
}

// Resize scales to size, or by fx and fy when size is zero.
func (m *Mat) Resize(size types.Size, fx, fy float64, interp Interpolation) (*Mat, error) {
	if err := checkEnum(interp); err != nil {
		return nil, err
	}
	return m.derive("resize", func(h ffi.Handle[backend.Mat]) ffi.Result[ffi.Handle[backend.Mat]] {
		return m.n.MatResize(h, size, fx, fy, int32(interp))
	})
}

// CvtColor converts between color spaces.
func (m *Mat) CvtColor(code ColorConversion) (*Mat, error) {
	if err := checkEnum(code); err != nil {
		return nil, err
	}
	return m.derive("cvtColor", func(h ffi.Handle[backend.Mat]) ffi.Result[ffi.Handle[backend.Mat]] {
		return m.n.MatCvtColor(h, int32(code))
	})
}

// MixChannels builds a dstChannels Mat; fromTo holds (source, destination)
// channel index pairs, and a negative source fills with zero.
func (m *Mat) MixChannels(dstChannels int, fromTo []int) (*Mat, error) {
	if len(fromTo)%2 != 0 {
		return nil, fmt.Errorf("core: mixChannels: odd fromTo length %d", len(fromTo))
	}
	dst, err := ffi.Int32("dstChannels", dstChannels)
	if err != nil {
		return nil, fmt.Errorf("core: mixChannels: %w", err)
	}
	pairs, err := ffi.Int32s("fromTo", fromTo)
	if err != nil {
		return nil, fmt.Errorf("core: mixChannels: %w", err)
	}
	return m.derive("mixChannels", func(h ffi.Handle[backend.Mat]) ffi.Result[ffi.Handle[backend.Mat]] {
		return m.n.MatMixChannels(h, dst, pairs)
	})
}

// Flip mirrors the image.
func (m *Mat) Flip(code FlipCode) (*Mat, error) {
	if err := checkEnum(code); err != nil {
		return nil, err
	}
	h, done, err := m.Borrow()
	if err != nil {
		return nil, err
	}
	defer done()
	return NewMatFromBackend(m.n, m.n.MatFlip(h, int32(code))), nil
}

// InRange returns a single channel 8-bit mask, 255 where every channel lies
// within [lo, hi].
func (m *Mat) InRange(lo, hi types.Scalar) (*Mat, error) {
	return m.derive("inRange", func(h ffi.Handle[backend.Mat]) ffi.Result[ffi.Handle[backend.Mat]] {
		return m.n.MatInRange(h, lo, hi)
	})
}

// Threshold applies a fixed-level threshold to every element.
func (m *Mat) Threshold(thresh, maxval float64, t ThresholdType) (*Mat, error) {
	if err := checkEnum(t); err != nil {
		return nil, err
	}
	return m.derive("threshold", func(h ffi.Handle[backend.Mat]) ffi.Result[ffi.Handle[backend.Mat]] {
		return m.n.MatThreshold(h, thresh, maxval, int32(t))
	})
}

// ConvertTo converts every element to depth d as v*alpha + beta.
func (m *Mat) ConvertTo(d Depth, alpha, beta float64) (*Mat, error) {
	if err := checkEnum(d); err != nil {
		return nil, err
	}
	return m.derive("convertTo", func(h ffi.Handle[backend.Mat]) ffi.Result[ffi.Handle[backend.Mat]] {
		return m.n.MatConvertTo(h, int32(d), alpha, beta)
	})
}

// SetTo sets every element to s, in place.
func (m *Mat) SetTo(s types.Scalar) error {
	h, done, err := m.Borrow()
	if err != nil {
		return err
	}
	defer done()
	m.n.MatSetTo(h, s)
	return nil
}

// Rectangle draws r in place. A negative thickness fills it.
func (m *Mat) Rectangle(r types.Rect, color types.Scalar, thickness int) error {
	th, err := ffi.Int32("thickness", thickness)
	if err != nil {
		return fmt.Errorf("core: rectangle: %w", err)
	}
	h, done, err := m.Borrow()
	if err != nil {
		return err
	}
	defer done()
	m.n.MatRectangle(h, r, color, th)
	return nil
}

// CountNonZero counts the non-zero elements of a single channel Mat.
func (m *Mat) CountNonZero() (int, error) {
	h, done, err := m.Borrow()
	if err != nil {
		return 0, err
	}
	defer done()
	c, err := m.n.MatCountNonZero(h).Into()
	if err != nil {
		return 0, fmt.Errorf("core: countNonZero: %w", err)
	}
	return int(c), nil
}

// FindNonZero lists the locations of the non-zero elements in row order.
func (m *Mat) FindNonZero() ([]types.Point, error) {
	h, done, err := m.Borrow()
	if err != nil {
		return nil, err
	}
	defer done()
	return m.n.MatFindNonZero(h).Unpack(), nil
}

// MinMaxLoc finds the extreme values of a single channel Mat.
func (m *Mat) MinMaxLoc() (types.MinMaxLoc, error) {
	h, done, err := m.Borrow()
	if err != nil {
		return types.MinMaxLoc{}, err
	}
	defer done()
	r, err := m.n.MatMinMaxLoc(h).Into()
	if err != nil {
		return types.MinMaxLoc{}, fmt.Errorf("core: minMaxLoc: %w", err)
	}
	return r, nil
}

// Mean returns the per-channel mean.
func (m *Mat) Mean() (types.Scalar, error) {
	h, done, err := m.Borrow()
	if err != nil {
		return types.Scalar{}, err
	}
	defer done()
	return m.n.MatMean(h), nil
}
