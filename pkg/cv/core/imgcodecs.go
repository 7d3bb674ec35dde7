package core

import (
	"errors"
	"fmt"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/backend"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
)

// ErrWriteFailed reports that IMWrite's encoder ran but the file could not be
// written.
var ErrWriteFailed = errors.New("core: image write failed")

// IMRead loads an image file. A file that does not exist or cannot be decoded
// yields a Mat whose IsValid is false, not an error; only an unusable path
// string is rejected, with ErrInvalidPath, before any native call.
func IMRead(path string, mode ImreadMode) (*Mat, error) {
	p, err := ffi.CPath(path, false)
	if err != nil {
		return nil, err
	}
	if err := checkEnum(mode); err != nil {
		return nil, err
	}
	n := backend.Current()
	h := n.ImRead(p, int32(mode))
	if h.IsNull() {
		return nil, nullError()
	}
	return NewMatFromBackend(n, h), nil
}

// IMDecode decodes an encoded image held in memory. Undecodable input yields
// an invalid Mat.
func IMDecode(buf []byte, mode ImreadMode) (*Mat, error) {
	if err := checkEnum(mode); err != nil {
		return nil, err
	}
	n := backend.Current()
	h := n.ImDecode(buf, int32(mode))
	if h.IsNull() {
		return nil, nullError()
	}
	return NewMatFromBackend(n, h), nil
}

// IMWrite encodes m in the format named by path's extension.
func IMWrite(path string, m *Mat) error {
	p, err := ffi.CPath(path, false)
	if err != nil {
		return err
	}
	h, done, err := m.Borrow()
	if err != nil {
		return err
	}
	defer done()
	ok, err := m.n.ImWrite(p, h).Into()
	if err != nil {
		return fmt.Errorf("core: imwrite %s: %w", path, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrWriteFailed, path)
	}
	return nil
}

// IMEncode encodes m in the format named by ext, such as ".png".
func IMEncode(ext string, m *Mat) ([]byte, error) {
	e, err := ffi.CString("extension", ext)
	if err != nil {
		return nil, err
	}
	h, done, err := m.Borrow()
	if err != nil {
		return nil, err
	}
	defer done()
	v, err := m.n.ImEncode(e, h).Into()
	if err != nil {
		return nil, fmt.Errorf("core: imencode %s: %w", ext, err)
	}
	return v.Unpack(), nil
}
