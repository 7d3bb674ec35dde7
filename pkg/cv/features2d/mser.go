package features2d

import (
	"fmt"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/core"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/backend"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/types"
)

// MSERParams mirror cv::MSER::create.
type MSERParams struct {
	Delta         int
	MinArea       int
	MaxArea       int
	MaxVariation  float64
	MinDiversity  float64
	MaxEvolution  int
	AreaThreshold float64
	MinMargin     float64
	EdgeBlurSize  int
}

// DefaultMSERParams returns OpenCV's defaults.
func DefaultMSERParams() MSERParams {
	return MSERParams{
		Delta:         5,
		MinArea:       60,
		MaxArea:       14400,
		MaxVariation:  0.25,
		MinDiversity:  0.2,
		MaxEvolution:  200,
		AreaThreshold: 1.01,
		MinMargin:     0.003,
		EdgeBlurSize:  5,
	}
}

// MSER owns a maximally stable extremal region detector.
type MSER struct {
	n backend.Native
	o *ffi.Owned[backend.MSER]
}

// NewMSER creates a detector with DefaultMSERParams.
func NewMSER() (*MSER, error) { return NewMSERWithParams(DefaultMSERParams()) }

// NewMSERWithParams creates a detector.
func NewMSERWithParams(p MSERParams) (*MSER, error) {
	if p.Delta <= 0 || p.MinArea < 0 || (p.MaxArea > 0 && p.MaxArea < p.MinArea) {
		return nil, fmt.Errorf("features2d: invalid MSER params %+v", p)
	}
	var nr ffi.Narrower
	params := backend.MSERParams{
		Delta:         nr.Int32("delta", p.Delta),
		MinArea:       nr.Int32("min area", p.MinArea),
		MaxArea:       nr.Int32("max area", p.MaxArea),
		MaxVariation:  p.MaxVariation,
		MinDiversity:  p.MinDiversity,
		MaxEvolution:  nr.Int32("max evolution", p.MaxEvolution),
		AreaThreshold: p.AreaThreshold,
		MinMargin:     p.MinMargin,
		EdgeBlurSize:  nr.Int32("edge blur size", p.EdgeBlurSize),
	}
	if err := nr.Err(); err != nil {
		return nil, fmt.Errorf("features2d: MSER: %w", err)
	}
	n := backend.Current()
	h := n.MSERNew(params)
	if h.IsNull() {
		return nil, backend.ErrNotBuilt
	}
	return &MSER{n: n, o: ffi.Own(h, n.MSERRelease)}, nil
}

// DetectRegions returns each region's pixels and its bounding box; the two
// slices have equal length.
func (m *MSER) DetectRegions(img *core.Mat) ([][]types.Point, []types.Rect, error) {
	h, done, err := m.o.Lend()
	if err != nil {
		return nil, nil, err
	}
	defer done()
	ih, idone, err := img.Borrow()
	if err != nil {
		return nil, nil, err
	}
	defer idone()

	rv, bv := m.n.MSERDetectRegions(h, ih)
	regions := ffi.UnpackWith(rv, ffi.RawVec[types.Point].Copy)
	boxes := bv.Unpack()
	if len(regions) != len(boxes) {
		return nil, nil, fmt.Errorf("features2d: %d regions but %d boxes", len(regions), len(boxes))
	}
	return regions, boxes, nil
}

// Close releases the detector.
func (m *MSER) Close() error { return m.o.Close() }
