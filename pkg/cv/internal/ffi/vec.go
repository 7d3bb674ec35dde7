package ffi

import (
	"sync"
	"unsafe"
)

// Vec is a view over a buffer allocated by native code: a pointer, an element
// count and the native function that frees the buffer. T must have the same
// layout as the native element type.
//
// The zero Vec is the {nil, 0} out-parameter state; it unpacks to an empty
// slice and frees nothing. Copies of a Vec share one state, so the buffer is
// released once no matter which copy is unpacked.
type Vec[T any] struct {
	s *vecState
}

type vecState struct {
	mu   sync.Mutex
	ptr  unsafe.Pointer
	n    int
	free func(unsafe.Pointer)
	done bool
}

// NewVec wraps a native buffer of n elements. free is called exactly once,
// by the first Unpack or UnpackWith, even when n is zero.
func NewVec[T any](ptr unsafe.Pointer, n int, free func(unsafe.Pointer)) Vec[T] {
	if ptr == nil || n < 0 {
		n = 0
	}
	return Vec[T]{s: &vecState{ptr: ptr, n: n, free: free}}
}

// VecOf builds a Vec over Go memory. free, when non-nil, is called on the
// first Unpack. The in-memory native layer uses it to hand back results.
func VecOf[T any](items []T, free func(unsafe.Pointer)) Vec[T] {
	if len(items) == 0 {
		return NewVec[T](nil, 0, free)
	}
	return NewVec[T](unsafe.Pointer(&items[0]), len(items), free)
}

// Len returns the number of elements not yet unpacked.
func (v Vec[T]) Len() int {
	if v.s == nil {
		return 0
	}
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.done {
		return 0
	}
	return v.s.n
}

// Unpack copies the elements into a Go slice, in order, and then frees the
// native buffer. Later calls return an empty slice.
func (v Vec[T]) Unpack() []T {
	return UnpackWith(v, func(t T) T { return t })
}

// UnpackWith converts every element with conv and then frees the native
// buffer once. Elements that point into storage owned by the buffer (CStr,
// RawVec) must be fully copied by conv, because that storage is gone when
// UnpackWith returns.
func UnpackWith[T, U any](v Vec[T], conv func(T) U) []U {
	if v.s == nil {
		return []U{}
	}
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	if v.s.done {
		return []U{}
	}
	v.s.done = true

	out := make([]U, v.s.n)
	if v.s.n > 0 {
		src := unsafe.Slice((*T)(v.s.ptr), v.s.n)
		for i := range src {
			out[i] = conv(src[i])
		}
	}
	if v.s.free != nil {
		v.s.free(v.s.ptr)
	}
	v.s.ptr, v.s.n = nil, 0
	return out
}

// RawVec is a {ptr, len} pair nested inside another native buffer, such as
// one row of a vector<vector<Point>>. Its storage is released together with
// the enclosing Vec; RawVec itself is never freed.
type RawVec[T any] struct {
	Ptr unsafe.Pointer
	Len uintptr
}

// RawVecOf points a RawVec at Go memory.
func RawVecOf[T any](items []T) RawVec[T] {
	if len(items) == 0 {
		return RawVec[T]{}
	}
	return RawVec[T]{Ptr: unsafe.Pointer(&items[0]), Len: uintptr(len(items))}
}

// Copy returns a Go-owned copy of the elements.
func (r RawVec[T]) Copy() []T {
	if r.Ptr == nil || r.Len == 0 {
		return []T{}
	}
	out := make([]T, r.Len)
	copy(out, unsafe.Slice((*T)(r.Ptr), r.Len))
	return out
}
