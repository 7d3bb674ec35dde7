// Package imghash wraps OpenCV's img_hash perceptual hashes.
//
// A Hasher is the one native kind in this module that is safe for
// concurrent use: compute and compare keep no per-call state, so a single
// Hasher may serve many goroutines. The Mats passed to it are not.
package imghash

import (
	"fmt"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/core"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/backend"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
)

// Algorithm selects one of the img_hash implementations.
type Algorithm int32

const (
	AverageHash Algorithm = iota
	BlockMeanHash
	ColorMomentHash
	MarrHildrethHash
	PHash
	RadialVarianceHash
)

func (a Algorithm) Valid() bool { return a >= AverageHash && a <= RadialVarianceHash }

func (a Algorithm) String() string {
	switch a {
	case AverageHash:
		return "AverageHash"
	case BlockMeanHash:
		return "BlockMeanHash"
	case ColorMomentHash:
		return "ColorMomentHash"
	case MarrHildrethHash:
		return "MarrHildrethHash"
	case PHash:
		return "PHash"
	case RadialVarianceHash:
		return "RadialVarianceHash"
	}
	return fmt.Sprintf("Algorithm(%d)", int32(a))
}

// Hasher owns one img_hash algorithm instance.
type Hasher struct {
	n    backend.Native
	o    *ffi.Owned[backend.ImgHash]
	algo Algorithm
}

// New creates a hasher. An unknown algorithm fails with ErrEnumConversion
// before any native call.
func New(algo Algorithm) (*Hasher, error) {
	if _, err := ffi.EnumFrom[Algorithm](int32(algo)); err != nil {
		return nil, err
	}
	n := backend.Current()
	h, err := n.HashNew(int32(algo)).Into()
	if err != nil {
		return nil, fmt.Errorf("imghash: create %s: %w", algo, err)
	}
	return &Hasher{n: n, o: ffi.Own(h, n.HashRelease), algo: algo}, nil
}

// Algorithm returns the algorithm the hasher was created with.
func (h *Hasher) Algorithm() Algorithm { return h.algo }

// Compute returns the hash of img as a one-row Mat.
func (h *Hasher) Compute(img *core.Mat) (*core.Mat, error) {
	hh, done, err := h.o.Lend()
	if err != nil {
		return nil, err
	}
	defer done()
	ih, idone, err := img.Borrow()
	if err != nil {
		return nil, err
	}
	defer idone()
	out, err := h.n.HashCompute(hh, ih).Into()
	if err != nil {
		return nil, fmt.Errorf("imghash: %s compute: %w", h.algo, err)
	}
	return core.NewMatFromBackend(h.n, out), nil
}

// Compare returns the algorithm's distance between two hashes computed by
// it; lower is more similar.
func (h *Hasher) Compare(a, b *core.Mat) (float64, error) {
	hh, done, err := h.o.Lend()
	if err != nil {
		return 0, err
	}
	defer done()
	ah, adone, err := a.Borrow()
	if err != nil {
		return 0, err
	}
	defer adone()
	bh, bdone, err := b.Borrow()
	if err != nil {
		return 0, err
	}
	defer bdone()
	return h.n.HashCompare(hh, ah, bh), nil
}

// Close releases the hasher.
func (h *Hasher) Close() error { return h.o.Close() }
