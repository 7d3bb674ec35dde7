package core

import (
	"fmt"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/backend"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
)

// GpuMat owns a cv::cuda::GpuMat.
type GpuMat struct {
	n backend.Native
	o *ffi.Owned[backend.GpuMat]
}

// NewGpuMat allocates an empty device matrix. Upload fails when the library
// has no CUDA device.
func NewGpuMat() (*GpuMat, error) {
	n := backend.Current()
	h := n.GpuMatNew()
	if h.IsNull() {
		return nil, nullError()
	}
	return &GpuMat{n: n, o: ffi.Own(h, n.GpuMatRelease)}, nil
}

// Upload copies m to the device.
func (g *GpuMat) Upload(m *Mat) error {
	gh, gdone := g.o.Borrow()
	defer gdone()
	if gh.IsNull() {
		return ffi.ErrClosed
	}
	mh, mdone, err := m.Borrow()
	if err != nil {
		return err
	}
	defer mdone()
	if _, err := g.n.GpuMatUpload(gh, mh).Into(); err != nil {
		return fmt.Errorf("core: gpumat upload: %w", err)
	}
	return nil
}

// Download copies the device data into a new Mat.
func (g *GpuMat) Download() (*Mat, error) {
	gh, done := g.o.Borrow()
	defer done()
	if gh.IsNull() {
		return nil, ffi.ErrClosed
	}
	h, err := g.n.GpuMatDownload(gh).Into()
	if err != nil {
		return nil, fmt.Errorf("core: gpumat download: %w", err)
	}
	return NewMatFromBackend(g.n, h), nil
}

// Close releases the device matrix.
func (g *GpuMat) Close() error { return g.o.Close() }

// CUDADeviceCount returns the number of CUDA devices OpenCV can use.
func CUDADeviceCount() int { return int(backend.Current().CUDADeviceCount()) }
