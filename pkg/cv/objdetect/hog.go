package objdetect

import (
	"fmt"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/core"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/backend"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/types"
)

// SvmDetector owns the coefficient vector of a linear SVM, as produced by
// HOGDescriptor::getDefaultPeopleDetector and friends.
type SvmDetector struct {
	n backend.Native
	o *ffi.Owned[backend.SvmDetector]
}

func newSvmDetector(n backend.Native, h ffi.Handle[backend.SvmDetector]) (*SvmDetector, error) {
	if h.IsNull() {
		if !backend.Available() {
			return nil, backend.ErrNotBuilt
		}
		return nil, fmt.Errorf("objdetect: svm detector: %w", core.ErrAllocFailed)
	}
	return &SvmDetector{n: n, o: ffi.Own(h, n.SvmDetectorRelease)}, nil
}

// DefaultPeopleDetector returns the detector trained for the default 64x128
// window.
func DefaultPeopleDetector() (*SvmDetector, error) {
	n := backend.Current()
	return newSvmDetector(n, n.SvmDetectorDefaultPeople())
}

// DaimlerPeopleDetector returns the detector trained for a 48x96 window; see
// DaimlerHOGParams.
func DaimlerPeopleDetector() (*SvmDetector, error) {
	n := backend.Current()
	return newSvmDetector(n, n.SvmDetectorDaimlerPeople())
}

// NewSvmDetector copies coeffs into a native detector.
func NewSvmDetector(coeffs []float32) (*SvmDetector, error) {
	n := backend.Current()
	return newSvmDetector(n, n.SvmDetectorNew(coeffs))
}

// Coefficients returns a copy of the detector weights.
func (d *SvmDetector) Coefficients() ([]float32, error) {
	h, done, err := d.o.Lend()
	if err != nil {
		return nil, err
	}
	defer done()
	return d.n.SvmDetectorCoefficients(h).Unpack(), nil
}

// Close releases the detector. A HOGDescriptor that was given this detector
// keeps its own copy.
func (d *SvmDetector) Close() error { return d.o.Close() }

// HOGParams describe the descriptor geometry.
type HOGParams struct {
	WinSize     types.Size
	BlockSize   types.Size
	BlockStride types.Size
	CellSize    types.Size
	NBins       int
}

// DefaultHOGParams is the Dalal-Triggs geometry used by the default people
// detector.
func DefaultHOGParams() HOGParams {
	return HOGParams{
		WinSize:     types.Size{Width: 64, Height: 128},
		BlockSize:   types.Size{Width: 16, Height: 16},
		BlockStride: types.Size{Width: 8, Height: 8},
		CellSize:    types.Size{Width: 8, Height: 8},
		NBins:       9,
	}
}

// DaimlerHOGParams is the geometry DaimlerPeopleDetector expects.
func DaimlerHOGParams() HOGParams {
	p := DefaultHOGParams()
	p.WinSize = types.Size{Width: 48, Height: 96}
	return p
}

func (p HOGParams) validate() error {
	pos := func(s types.Size) bool { return s.Width > 0 && s.Height > 0 }
	if !pos(p.WinSize) || !pos(p.BlockSize) || !pos(p.BlockStride) || !pos(p.CellSize) || p.NBins <= 0 {
		return fmt.Errorf("objdetect: invalid HOG geometry %+v", p)
	}
	if p.BlockSize.Width%p.CellSize.Width != 0 || p.BlockSize.Height%p.CellSize.Height != 0 {
		return fmt.Errorf("objdetect: block %v is not a multiple of cell %v", p.BlockSize, p.CellSize)
	}
	if (p.WinSize.Width-p.BlockSize.Width)%p.BlockStride.Width != 0 ||
		(p.WinSize.Height-p.BlockSize.Height)%p.BlockStride.Height != 0 {
		return fmt.Errorf("objdetect: window %v is not aligned to block stride %v", p.WinSize, p.BlockStride)
	}
	return nil
}

// HOGDescriptor owns a cv::HOGDescriptor.
type HOGDescriptor struct {
	n backend.Native
	o *ffi.Owned[backend.HOG]
}

// NewHOGDescriptor creates a descriptor with DefaultHOGParams.
func NewHOGDescriptor() (*HOGDescriptor, error) {
	return NewHOGDescriptorWithParams(DefaultHOGParams())
}

// NewHOGDescriptorWithParams creates a descriptor with the given geometry.
func NewHOGDescriptorWithParams(p HOGParams) (*HOGDescriptor, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	bins, err := ffi.Int32("bins", p.NBins)
	if err != nil {
		return nil, fmt.Errorf("objdetect: %w", err)
	}
	n := backend.Current()
	h := n.HOGNew(backend.HOGParams{
		WinSize:     p.WinSize,
		BlockSize:   p.BlockSize,
		BlockStride: p.BlockStride,
		CellSize:    p.CellSize,
		NBins:       bins,
	})
	if h.IsNull() {
		return nil, backend.ErrNotBuilt
	}
	return &HOGDescriptor{n: n, o: ffi.Own(h, n.HOGRelease)}, nil
}

// DescriptorSize is the number of features per detection window.
func (g *HOGDescriptor) DescriptorSize() (int, error) {
	h, done, err := g.o.Lend()
	if err != nil {
		return 0, err
	}
	defer done()
	return int(g.n.HOGDescriptorSize(h)), nil
}

// SetSVMDetector copies d's coefficients into the descriptor. Their count
// must equal DescriptorSize, optionally plus one bias term.
func (g *HOGDescriptor) SetSVMDetector(d *SvmDetector) error {
	h, done, err := g.o.Lend()
	if err != nil {
		return err
	}
	defer done()
	dh, ddone, err := d.o.Lend()
	if err != nil {
		return err
	}
	defer ddone()
	if _, err := g.n.HOGSetSVMDetector(h, dh).Into(); err != nil {
		return fmt.Errorf("objdetect: set svm detector: %w", err)
	}
	return nil
}

// HOGDetectParams are the HOG detectMultiScale arguments.
type HOGDetectParams struct {
	HitThreshold         float64
	WinStride            types.Size
	Padding              types.Size
	Scale                float64
	FinalThreshold       float64
	UseMeanshiftGrouping bool
}

// DefaultHOGDetectParams returns OpenCV's defaults.
func DefaultHOGDetectParams() HOGDetectParams {
	return HOGDetectParams{Scale: 1.05, FinalThreshold: 2}
}

// Detection is one HOG hit with its SVM confidence.
type Detection struct {
	Rect   types.Rect
	Weight float64
}

// DetectMultiScale runs the configured SVM over an image pyramid. Without a
// detector set it finds nothing.
func (g *HOGDescriptor) DetectMultiScale(img *core.Mat) ([]Detection, error) {
	return g.DetectMultiScaleWithParams(img, DefaultHOGDetectParams())
}

// DetectMultiScaleWithParams is DetectMultiScale with explicit arguments.
func (g *HOGDescriptor) DetectMultiScaleWithParams(img *core.Mat, p HOGDetectParams) ([]Detection, error) {
	if p.Scale <= 1 {
		return nil, fmt.Errorf("objdetect: scale %v must be greater than 1", p.Scale)
	}
	h, done, err := g.o.Lend()
	if err != nil {
		return nil, err
	}
	defer done()
	ih, idone, err := img.Borrow()
	if err != nil {
		return nil, err
	}
	defer idone()
	rv, wv := g.n.HOGDetectMultiScale(h, ih, backend.HOGDetectParams(p))
	rects, weights := rv.Unpack(), wv.Unpack()
	if len(rects) != len(weights) {
		return nil, fmt.Errorf("objdetect: %d detections but %d weights", len(rects), len(weights))
	}
	out := make([]Detection, len(rects))
	for i := range rects {
		out[i] = Detection{Rect: rects[i], Weight: weights[i]}
	}
	return out, nil
}

// Compute returns the descriptors of every window position, concatenated.
// A zero winStride means one cell.
func (g *HOGDescriptor) Compute(img *core.Mat, winStride, padding types.Size) ([]float32, error) {
	h, done, err := g.o.Lend()
	if err != nil {
		return nil, err
	}
	defer done()
	ih, idone, err := img.Borrow()
	if err != nil {
		return nil, err
	}
	defer idone()
	return g.n.HOGCompute(h, ih, winStride, padding).Unpack(), nil
}

// Close releases the descriptor.
func (g *HOGDescriptor) Close() error { return g.o.Close() }
