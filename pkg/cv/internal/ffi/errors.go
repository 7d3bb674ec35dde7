package ffi

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPath reports a path that cannot be handed to native code: it
	// is empty, is not valid UTF-8, contains a NUL byte, or does not exist
	// when the call requires it to.
	ErrInvalidPath = errors.New("cv: invalid path")

	// ErrEnumConversion is matched by every *EnumConversionError.
	ErrEnumConversion = errors.New("cv: native enum value out of range")

	// ErrEntryNotFound reports that a resource file the native side needs
	// (trained data, vocabulary, model weights) is absent.
	ErrEntryNotFound = errors.New("cv: entry not found")

	// ErrClosed is returned when a method is called on a released wrapper.
	ErrClosed = errors.New("cv: native object already closed")

	// ErrConsumed is returned by a second Result.Into.
	ErrConsumed = errors.New("cv: foreign result already consumed")

	// ErrOutOfRange reports an integer argument that does not fit the
	// native int32 parameter it is passed as.
	ErrOutOfRange = errors.New("cv: argument out of int32 range")
)

// EnumConversionError reports a native integer that maps to no known Go enum
// value. It signals a binding/library version mismatch rather than a caller
// mistake.
type EnumConversionError struct {
	Type  string
	Value int32
}

func (e *EnumConversionError) Error() string {
	return fmt.Sprintf("cv: %d is not a valid %s", e.Value, e.Type)
}

// Is makes errors.Is(err, ErrEnumConversion) hold.
func (e *EnumConversionError) Is(target error) bool {
	return target == ErrEnumConversion
}

// UnknownError carries the text of a failure reported by the native library.
type UnknownError struct {
	Msg string
}

func (e *UnknownError) Error() string {
	return "cv: native error: " + e.Msg
}

// IsNative reports whether err originated in the native library as opposed
// to a conversion failure on the Go side.
func IsNative(err error) bool {
	var u *UnknownError
	return errors.As(err, &u)
}
