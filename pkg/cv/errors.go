package cv

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/core"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/backend"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
)

// Errors shared by every cv package. Use errors.Is to match them.
var (
	ErrInvalidPath    = ffi.ErrInvalidPath
	ErrEnumConversion = ffi.ErrEnumConversion
	ErrEntryNotFound  = ffi.ErrEntryNotFound
	ErrClosed         = ffi.ErrClosed
	ErrConsumed       = ffi.ErrConsumed
	ErrOutOfRange     = ffi.ErrOutOfRange
	ErrNotBuilt       = backend.ErrNotBuilt
	ErrAllocFailed    = core.ErrAllocFailed

	// ErrLibraryClosed is returned by a second Library.Close.
	ErrLibraryClosed = errors.New("cv: library already closed")

	// ErrInvalidConfig wraps every Config validation failure.
	ErrInvalidConfig = errors.New("cv: invalid config")
)

type (
	// EnumConversionError carries a native value no Go enum knows.
	EnumConversionError = ffi.EnumConversionError
	// UnknownError carries the message of a failure inside OpenCV.
	UnknownError = ffi.UnknownError
)

// IsNative reports whether err was raised by OpenCV rather than by argument
// checking on the Go side.
func IsNative(err error) bool { return ffi.IsNative(err) }

// RemapError converts errors from internal layers into the public taxonomy.
// This is exported for use by the cv subpackages.
func RemapError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, verrs)
	}
	return err
}
