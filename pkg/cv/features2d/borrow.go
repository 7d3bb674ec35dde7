package features2d

import (
	"github.com/hsiuhsiu/opencv-go/pkg/cv/core"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/backend"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
)

func noop() {}

// borrowOptional lends m's handle, or the null handle when m is nil.
func borrowOptional(m *core.Mat) (ffi.Handle[backend.Mat], func(), error) {
	if m == nil {
		return ffi.Handle[backend.Mat]{}, noop, nil
	}
	return m.Borrow()
}

// descriptors wraps a descriptor matrix handed back next to a keypoint
// vector.
func descriptors(n backend.Native, h ffi.Handle[backend.Mat]) (*core.Mat, error) {
	if h.IsNull() {
		return nil, backend.ErrNotBuilt
	}
	return core.NewMatFromBackend(n, h), nil
}
