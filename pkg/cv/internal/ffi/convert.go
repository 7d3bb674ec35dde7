package ffi

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Enum is implemented by Go enums that mirror a native integer discriminant.
type Enum interface {
	~int32
	Valid() bool
}

// EnumFrom converts a native discriminant. Values outside the known set
// return *EnumConversionError carrying the raw value; it never panics.
func EnumFrom[E Enum](raw int32) (E, error) {
	e := E(raw)
	if !e.Valid() {
		var zero E
		return zero, &EnumConversionError{Type: fmt.Sprintf("%T", zero), Value: raw}
	}
	return e, nil
}

// CPath checks that path can be handed to native code as a NUL-terminated
// string. With mustExist it also requires the path to exist. All failures
// wrap ErrInvalidPath and happen before any native call.
func CPath(path string, mustExist bool) (string, error) {
	switch {
	case path == "":
		return "", fmt.Errorf("%w: empty path", ErrInvalidPath)
	case !utf8.ValidString(path):
		return "", fmt.Errorf("%w: %q is not valid UTF-8", ErrInvalidPath, path)
	case strings.IndexByte(path, 0) >= 0:
		return "", fmt.Errorf("%w: %q contains a NUL byte", ErrInvalidPath, path)
	}
	if mustExist {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("%w: %s: %v", ErrInvalidPath, path, err)
		}
	}
	return path, nil
}

// ResourcePath resolves name inside dir for a native resource file, such as
// "eng.traineddata" under a tessdata directory. A missing file wraps
// ErrEntryNotFound; an unusable dir or name wraps ErrInvalidPath.
func ResourcePath(dir, name string) (string, error) {
	if _, err := CPath(dir, true); err != nil {
		return "", err
	}
	full, err := CPath(filepath.Join(dir, name), false)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(full); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrEntryNotFound, full)
		}
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidPath, full, err)
	}
	return full, nil
}

// CString validates a non-path string argument the same way.
func CString(what, s string) (string, error) {
	if strings.IndexByte(s, 0) >= 0 {
		return "", fmt.Errorf("cv: %s %q contains a NUL byte", what, s)
	}
	return s, nil
}

// Int32 narrows an int argument to the native int32. Values outside the
// int32 range wrap ErrOutOfRange rather than wrapping around.
func Int32(what string, v int) (int32, error) {
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %s %d", ErrOutOfRange, what, v)
	}
	return int32(v), nil
}

// Int32s narrows every element of vs with Int32.
func Int32s(what string, vs []int) ([]int32, error) {
	out := make([]int32, len(vs))
	for i, v := range vs {
		n, err := Int32(what, v)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// Narrower narrows several int arguments and keeps the first failure, so a
// params struct can be converted field by field and checked once.
type Narrower struct {
	err error
}

// Int32 narrows v unless an earlier field already failed.
func (n *Narrower) Int32(what string, v int) int32 {
	if n.err != nil {
		return 0
	}
	r, err := Int32(what, v)
	n.err = err
	return r
}

// Err returns the first failure.
func (n *Narrower) Err() error { return n.err }
