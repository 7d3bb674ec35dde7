// Package video wraps background subtraction and the mean-shift trackers.
package video

import (
	"errors"
	"fmt"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/core"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/backend"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/types"
)

// BackgroundSubtractor owns a MOG2 or KNN background model.
type BackgroundSubtractor struct {
	n backend.Native
	o *ffi.Owned[backend.BgSub]
}

// MOG2Params mirror createBackgroundSubtractorMOG2.
type MOG2Params struct {
	History       int
	VarThreshold  float64
	DetectShadows bool
}

// KNNParams mirror createBackgroundSubtractorKNN.
type KNNParams struct {
	History        int
	Dist2Threshold float64
	DetectShadows  bool
}

// NewBackgroundSubtractorMOG2 creates a Gaussian-mixture model with OpenCV's
// defaults.
func NewBackgroundSubtractorMOG2() (*BackgroundSubtractor, error) {
	return NewBackgroundSubtractorMOG2WithParams(MOG2Params{History: 500, VarThreshold: 16, DetectShadows: true})
}

// NewBackgroundSubtractorMOG2WithParams creates a Gaussian-mixture model.
func NewBackgroundSubtractorMOG2WithParams(p MOG2Params) (*BackgroundSubtractor, error) {
	if p.History <= 0 || p.VarThreshold < 0 {
		return nil, fmt.Errorf("video: invalid MOG2 params %+v", p)
	}
	history, err := ffi.Int32("history", p.History)
	if err != nil {
		return nil, fmt.Errorf("video: %w", err)
	}
	n := backend.Current()
	return newSubtractor(n, n.BgSubMOG2New(history, p.VarThreshold, p.DetectShadows))
}

// NewBackgroundSubtractorKNN creates a k-nearest-neighbours model with
// OpenCV's defaults.
func NewBackgroundSubtractorKNN() (*BackgroundSubtractor, error) {
	return NewBackgroundSubtractorKNNWithParams(KNNParams{History: 500, Dist2Threshold: 400, DetectShadows: true})
}

// NewBackgroundSubtractorKNNWithParams creates a k-nearest-neighbours model.
func NewBackgroundSubtractorKNNWithParams(p KNNParams) (*BackgroundSubtractor, error) {
	if p.History <= 0 || p.Dist2Threshold < 0 {
		return nil, fmt.Errorf("video: invalid KNN params %+v", p)
	}
	history, err := ffi.Int32("history", p.History)
	if err != nil {
		return nil, fmt.Errorf("video: %w", err)
	}
	n := backend.Current()
	return newSubtractor(n, n.BgSubKNNNew(history, p.Dist2Threshold, p.DetectShadows))
}

func newSubtractor(n backend.Native, h ffi.Handle[backend.BgSub]) (*BackgroundSubtractor, error) {
	if h.IsNull() {
		return nil, backend.ErrNotBuilt
	}
	return &BackgroundSubtractor{n: n, o: ffi.Own(h, n.BgSubRelease)}, nil
}

// Apply updates the model with frame and returns the foreground mask, using
// the automatically chosen learning rate.
func (b *BackgroundSubtractor) Apply(frame *core.Mat) (*core.Mat, error) {
	return b.ApplyWithRate(frame, -1)
}

// ApplyWithRate is Apply with an explicit learning rate in [0, 1]; 0 leaves
// the model untouched, 1 replaces it with frame and a negative rate lets
// OpenCV choose.
func (b *BackgroundSubtractor) ApplyWithRate(frame *core.Mat, learningRate float64) (*core.Mat, error) {
	h, done, err := b.o.Lend()
	if err != nil {
		return nil, err
	}
	defer done()
	fh, fdone, err := frame.Borrow()
	if err != nil {
		return nil, err
	}
	defer fdone()
	mask, err := b.n.BgSubApply(h, fh, learningRate).Into()
	if err != nil {
		return nil, fmt.Errorf("video: apply: %w", err)
	}
	return core.NewMatFromBackend(b.n, mask), nil
}

// BackgroundImage returns the current background estimate. ok is false until
// the model has seen a frame.
func (b *BackgroundSubtractor) BackgroundImage() (img *core.Mat, ok bool, err error) {
	h, done, err := b.o.Lend()
	if err != nil {
		return nil, false, err
	}
	defer done()
	bh, ok := b.n.BgSubBackgroundImage(h).Get()
	if !ok {
		return nil, false, nil
	}
	return core.NewMatFromBackend(b.n, bh), true, nil
}

// Close releases the model.
func (b *BackgroundSubtractor) Close() error { return b.o.Close() }

var errNoCriteria = errors.New("video: termination criteria sets neither count nor eps")

func checkCriteria(tc types.TermCriteria) error {
	if tc.Type&(types.TermCount|types.TermEps) == 0 {
		return errNoCriteria
	}
	return nil
}

// MeanShift moves window toward the densest part of the back-projection prob
// and returns the number of iterations it took.
func MeanShift(prob *core.Mat, window types.Rect, tc types.TermCriteria) (int, types.Rect, error) {
	if err := checkCriteria(tc); err != nil {
		return 0, window, err
	}
	h, done, err := prob.Borrow()
	if err != nil {
		return 0, window, err
	}
	defer done()
	iters, w := prob.Native().MeanShift(h, window, tc)
	return int(iters), w, nil
}

// CamShift runs MeanShift and then fits an oriented box to the tracked
// object. It returns the box and the window to start the next frame from.
func CamShift(prob *core.Mat, window types.Rect, tc types.TermCriteria) (types.RotatedRect, types.Rect, error) {
	if err := checkCriteria(tc); err != nil {
		return types.RotatedRect{}, window, err
	}
	h, done, err := prob.Borrow()
	if err != nil {
		return types.RotatedRect{}, window, err
	}
	defer done()
	box, w := prob.Native().CamShift(h, window, tc)
	return box, w, nil
}
