package cv

import "github.com/hsiuhsiu/opencv-go/pkg/cv/internal/backend"

var (
	Version       = "v0.0.0-in-progress"
	PinnedOpenCV  = "4.10.0"
	NativeLibName = "opencv4"
)

// WrapperVersion returns the semantic version populated at build time via
// ldflags. In development it defaults to v0.0.0-in-progress.
func WrapperVersion() string {
	return Version
}

// NativeVersion returns the version reported by the linked OpenCV if
// available; otherwise it falls back to the pinned release the bindings are
// written against.
func NativeVersion() string {
	if v := backend.Current().Version(); v != "" {
		return v
	}
	return PinnedOpenCV
}

// Available reports whether the native bindings are linked into this binary.
func Available() bool {
	return backend.Available()
}
