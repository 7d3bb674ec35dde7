package features2d

import (
	"fmt"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/core"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/backend"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/types"
)

// Feature2D is a detector that also computes descriptors.
type Feature2D interface {
	// DetectAndCompute finds keypoints in img, restricted to the non-zero
	// pixels of mask when mask is not nil, and returns one descriptor row
	// per keypoint. The caller owns the descriptor Mat.
	DetectAndCompute(img, mask *core.Mat) ([]types.KeyPoint, *core.Mat, error)
	Close() error
}

var (
	_ Feature2D = (*SIFT)(nil)
	_ Feature2D = (*SURF)(nil)
)

// SIFTParams mirror cv::SIFT::create. NFeatures zero keeps every keypoint.
type SIFTParams struct {
	NFeatures         int
	NOctaveLayers     int
	ContrastThreshold float64
	EdgeThreshold     float64
	Sigma             float64
}

// DefaultSIFTParams returns OpenCV's defaults.
func DefaultSIFTParams() SIFTParams {
	return SIFTParams{NOctaveLayers: 3, ContrastThreshold: 0.04, EdgeThreshold: 10, Sigma: 1.6}
}

// SIFT owns a cv::SIFT detector. Its descriptors are 128 CV_32F columns.
type SIFT struct {
	n backend.Native
	o *ffi.Owned[backend.SIFT]
}

// NewSIFT creates a detector with DefaultSIFTParams.
func NewSIFT() (*SIFT, error) { return NewSIFTWithParams(DefaultSIFTParams()) }

// NewSIFTWithParams creates a detector. Parameters OpenCV rejects come back as
// an UnknownError.
func NewSIFTWithParams(p SIFTParams) (*SIFT, error) {
	var nr ffi.Narrower
	params := backend.SIFTParams{
		NFeatures:         nr.Int32("features", p.NFeatures),
		NOctaveLayers:     nr.Int32("octave layers", p.NOctaveLayers),
		ContrastThreshold: p.ContrastThreshold,
		EdgeThreshold:     p.EdgeThreshold,
		Sigma:             p.Sigma,
	}
	if err := nr.Err(); err != nil {
		return nil, fmt.Errorf("features2d: create SIFT: %w", err)
	}
	n := backend.Current()
	h, err := n.SIFTNew(params).Into()
	if err != nil {
		return nil, fmt.Errorf("features2d: create SIFT: %w", err)
	}
	return &SIFT{n: n, o: ffi.Own(h, n.SIFTRelease)}, nil
}

func (s *SIFT) DetectAndCompute(img, mask *core.Mat) ([]types.KeyPoint, *core.Mat, error) {
	h, done, err := s.o.Lend()
	if err != nil {
		return nil, nil, err
	}
	defer done()
	ih, idone, err := img.Borrow()
	if err != nil {
		return nil, nil, err
	}
	defer idone()
	mh, mdone, err := borrowOptional(mask)
	if err != nil {
		return nil, nil, err
	}
	defer mdone()

	kv, dh := s.n.SIFTDetectAndCompute(h, ih, mh)
	kps := kv.Unpack()
	desc, err := descriptors(s.n, dh)
	if err != nil {
		return nil, nil, err
	}
	return kps, desc, nil
}

func (s *SIFT) Close() error { return s.o.Close() }

// SURFParams mirror cv::xfeatures2d::SURF::create.
type SURFParams struct {
	HessianThreshold float64
	NOctaves         int
	NOctaveLayers    int
	Extended         bool
	Upright          bool
}

// DefaultSURFParams returns OpenCV's defaults.
func DefaultSURFParams() SURFParams {
	return SURFParams{HessianThreshold: 100, NOctaves: 4, NOctaveLayers: 3}
}

// SURF owns a cv::xfeatures2d::SURF detector. It exists only in OpenCV
// builds with OPENCV_ENABLE_NONFREE; elsewhere NewSURF returns the native
// error. Descriptors are 64 columns, or 128 when Extended.
type SURF struct {
	n backend.Native
	o *ffi.Owned[backend.SURF]
}

// NewSURF creates a detector with the given Hessian threshold and otherwise
// default parameters.
func NewSURF(hessianThreshold float64) (*SURF, error) {
	p := DefaultSURFParams()
	p.HessianThreshold = hessianThreshold
	return NewSURFWithParams(p)
}

// NewSURFWithParams creates a detector.
func NewSURFWithParams(p SURFParams) (*SURF, error) {
	var nr ffi.Narrower
	params := backend.SURFParams{
		HessianThreshold: p.HessianThreshold,
		NOctaves:         nr.Int32("octaves", p.NOctaves),
		NOctaveLayers:    nr.Int32("octave layers", p.NOctaveLayers),
		Extended:         p.Extended,
		Upright:          p.Upright,
	}
	if err := nr.Err(); err != nil {
		return nil, fmt.Errorf("features2d: create SURF: %w", err)
	}
	n := backend.Current()
	h, err := n.SURFNew(params).Into()
	if err != nil {
		return nil, fmt.Errorf("features2d: create SURF: %w", err)
	}
	return &SURF{n: n, o: ffi.Own(h, n.SURFRelease)}, nil
}

func (s *SURF) DetectAndCompute(img, mask *core.Mat) ([]types.KeyPoint, *core.Mat, error) {
	h, done, err := s.o.Lend()
	if err != nil {
		return nil, nil, err
	}
	defer done()
	ih, idone, err := img.Borrow()
	if err != nil {
		return nil, nil, err
	}
	defer idone()
	mh, mdone, err := borrowOptional(mask)
	if err != nil {
		return nil, nil, err
	}
	defer mdone()

	kv, dh := s.n.SURFDetectAndCompute(h, ih, mh)
	kps := kv.Unpack()
	desc, err := descriptors(s.n, dh)
	if err != nil {
		return nil, nil, err
	}
	return kps, desc, nil
}

func (s *SURF) Close() error { return s.o.Close() }
