package core

import (
	"fmt"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/backend"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
)

// SetNumThreads sets OpenCV's worker thread count. Zero disables threading
// and a negative value restores the default.
func SetNumThreads(n int) error {
	t, err := ffi.Int32("threads", n)
	if err != nil {
		return fmt.Errorf("core: setNumThreads: %w", err)
	}
	backend.Current().SetNumThreads(t)
	return nil
}

// NumThreads returns OpenCV's worker thread count.
func NumThreads() int { return int(backend.Current().NumThreads()) }

// SetUseOptimized toggles the SIMD and IPP code paths.
func SetUseOptimized(on bool) { backend.Current().SetUseOptimized(on) }

// UseOptimized reports whether optimized code paths are enabled.
func UseOptimized() bool { return backend.Current().UseOptimized() }

// NativeVersion returns the linked OpenCV version, or "" when no native
// library is linked.
func NativeVersion() string { return backend.Current().Version() }
