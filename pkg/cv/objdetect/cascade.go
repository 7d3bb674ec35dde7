package objdetect

import (
	"fmt"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/core"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/backend"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/types"
)

// CascadeClassifier owns a cv::CascadeClassifier loaded from an XML model.
type CascadeClassifier struct {
	n backend.Native
	o *ffi.Owned[backend.Cascade]
}

// CascadeFlags are the legacy detectMultiScale flags. New cascade models
// ignore all but FindBiggestObject.
type CascadeFlags int32

const (
	DoCannyPruning    CascadeFlags = 1
	ScaleImage        CascadeFlags = 2
	FindBiggestObject CascadeFlags = 4
	DoRoughSearch     CascadeFlags = 8

	allCascadeFlags = DoCannyPruning | ScaleImage | FindBiggestObject | DoRoughSearch
)

// DetectParams are the detectMultiScale arguments. The zero MaxSize means
// unbounded.
type DetectParams struct {
	ScaleFactor  float64
	MinNeighbors int
	Flags        CascadeFlags
	MinSize      types.Size
	MaxSize      types.Size
}

// DefaultDetectParams returns OpenCV's defaults: scale 1.1, 3 neighbors.
func DefaultDetectParams() DetectParams {
	return DetectParams{ScaleFactor: 1.1, MinNeighbors: 3}
}

func (p DetectParams) validate() error {
	if p.ScaleFactor <= 1 {
		return fmt.Errorf("objdetect: scale factor %v must be greater than 1", p.ScaleFactor)
	}
	if p.MinNeighbors < 0 {
		return fmt.Errorf("objdetect: negative min neighbors %d", p.MinNeighbors)
	}
	if p.Flags&^allCascadeFlags != 0 {
		return fmt.Errorf("objdetect: unknown cascade flags %d", p.Flags&^allCascadeFlags)
	}
	return nil
}

// NewCascadeClassifier loads a cascade. A path that does not exist fails with
// ErrInvalidPath before the native loader runs; a file the loader rejects is
// an UnknownError.
func NewCascadeClassifier(path string) (*CascadeClassifier, error) {
	p, err := ffi.CPath(path, true)
	if err != nil {
		return nil, err
	}
	n := backend.Current()
	h, err := n.CascadeNew(p).Into()
	if err != nil {
		return nil, fmt.Errorf("objdetect: load cascade %s: %w", path, err)
	}
	return &CascadeClassifier{n: n, o: ffi.Own(h, n.CascadeRelease)}, nil
}

// DetectMultiScale finds objects with DefaultDetectParams.
func (c *CascadeClassifier) DetectMultiScale(img *core.Mat) ([]types.Rect, error) {
	return c.DetectMultiScaleWithParams(img, DefaultDetectParams())
}

// DetectMultiScaleWithParams finds objects of every size allowed by p.
func (c *CascadeClassifier) DetectMultiScaleWithParams(img *core.Mat, p DetectParams) ([]types.Rect, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	neighbors, err := ffi.Int32("min neighbors", p.MinNeighbors)
	if err != nil {
		return nil, fmt.Errorf("objdetect: %w", err)
	}
	h, done, err := c.o.Lend()
	if err != nil {
		return nil, err
	}
	defer done()
	ih, idone, err := img.Borrow()
	if err != nil {
		return nil, err
	}
	defer idone()
	return c.n.CascadeDetectMultiScale(h, ih, backend.CascadeParams{
		ScaleFactor:  p.ScaleFactor,
		MinNeighbors: neighbors,
		Flags:        int32(p.Flags),
		MinSize:      p.MinSize,
		MaxSize:      p.MaxSize,
	}).Unpack(), nil
}

// Close releases the classifier.
func (c *CascadeClassifier) Close() error { return c.o.Close() }
