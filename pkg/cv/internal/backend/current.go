package backend

import (
	"errors"
	"sync/atomic"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
)

// ErrNotBuilt reports that the native bindings were not linked into the
// current binary (cgo disabled or built without the opencv tag).
var ErrNotBuilt = errors.New("cv/internal/backend: native bindings not built")

type box struct{ n Native }

var current atomic.Pointer[box]

func init() {
	current.Store(&box{n: linked()})
}

// Current returns the installed function table. Wrappers capture it at
// construction so that a handle is always released through the table that
// created it.
func Current() Native {
	return current.Load().n
}

// Install replaces the function table and returns a func restoring the
// previous one. Tests use it to swap in the in-memory native layer.
func Install(n Native) (restore func()) {
	prev := current.Swap(&box{n: n})
	return func() { current.Store(prev) }
}

// Available reports whether a working table is installed.
func Available() bool {
	_, stub := Current().(Unavailable)
	return !stub
}

// Mouse is the registry the native mouse trampoline dispatches into.
var Mouse = ffi.NewRegistry[MouseRaw]()
