package ffi

import "sync"

// Result is a native "value or error text" union.
type Result[T any] struct {
	s *resultState[T]
}

type resultState[T any] struct {
	mu       sync.Mutex
	ok       bool
	value    T
	err      Text
	local    error
	consumed bool
}

// Ok builds the success branch.
func Ok[T any](v T) Result[T] {
	return Result[T]{s: &resultState[T]{ok: true, value: v}}
}

// Err builds the failure branch around a native error string.
func Err[T any](msg Text) Result[T] {
	return Result[T]{s: &resultState[T]{err: msg}}
}

// Fail builds a failure that happened on the Go side of the boundary, such
// as a missing native backend. Into returns err unchanged.
func Fail[T any](err error) Result[T] {
	return Result[T]{s: &resultState[T]{local: err}}
}

// Into consumes the result. On failure the message is copied into Go memory
// before the native error storage is freed, and returned as *UnknownError. On
// success the error storage is never touched. A second call returns
// ErrConsumed.
func (r Result[T]) Into() (T, error) {
	var zero T
	if r.s == nil {
		return zero, ErrConsumed
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.consumed {
		return zero, ErrConsumed
	}
	r.s.consumed = true
	if r.s.local != nil {
		return zero, r.s.local
	}
	if !r.s.ok {
		return zero, &UnknownError{Msg: r.s.err.Take()}
	}
	v := r.s.value
	r.s.value = zero
	return v, nil
}

// Option is a native "present or absent" union.
//
// Disposal policy is per instantiation and documented where the backend
// builds one. For handle payloads the native side releases its own slot when
// the value is absent and a present handle is wrapped into an Owned at once.
// Scalar payloads need no disposal.
type Option[T any] struct {
	present bool
	value   T
}

// Some builds a present Option.
func Some[T any](v T) Option[T] {
	return Option[T]{present: true, value: v}
}

// None builds an absent Option.
func None[T any]() Option[T] {
	return Option[T]{}
}

// OptionFrom builds an Option from a native discriminant. read is called only
// when present is true, so an absent value slot is never read.
func OptionFrom[T any](present bool, read func() T) Option[T] {
	if !present {
		return None[T]()
	}
	return Some(read())
}

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) {
	if !o.present {
		var zero T
		return zero, false
	}
	return o.value, true
}

// IsSome reports whether the value is present.
func (o Option[T]) IsSome() bool { return o.present }
