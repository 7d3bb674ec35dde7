package ffi

import (
	"context"
	"runtime"
	"sync/atomic"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/logging"
)

// Owned is the single owner of a native handle. It calls release exactly once,
// either from Close or, for wrappers dropped without Close, from a finalizer.
//
// Owned must not be copied after first use; pass *Owned around.
type Owned[K Kind] struct {
	h       Handle[K]
	release func(Handle[K])
	closed  atomic.Bool
	borrows atomic.Int32
}

// Own takes ownership of h. The caller must not release h itself afterwards.
func Own[K Kind](h Handle[K], release func(Handle[K])) *Owned[K] {
	o := &Owned[K]{h: h, release: release}
	runtime.SetFinalizer(o, (*Owned[K]).finalize)
	return o
}

// Borrow lends the handle for one native call. The returned function must be
// called once the call returns; it keeps o reachable until then so the
// finalizer cannot release the handle mid-call. A closed wrapper lends the
// null handle.
func (o *Owned[K]) Borrow() (Handle[K], func()) {
	if o == nil || o.closed.Load() {
		return Handle[K]{}, func() {}
	}
	if SharingOf[K]() == Transferable && settings.Load().DetectConcurrentUse {
		if n := o.borrows.Add(1); n > 1 {
			Log().Warn(context.Background(), "transferable handle used concurrently",
				logging.Kind(KindName[K]()), "borrowers", n)
		}
		return o.h, func() {
			o.borrows.Add(-1)
			runtime.KeepAlive(o)
		}
	}
	return o.h, func() { runtime.KeepAlive(o) }
}

// Lend is Borrow for wrappers that report use after Close: a closed wrapper
// yields ErrClosed and no release func.
func (o *Owned[K]) Lend() (Handle[K], func(), error) {
	h, done := o.Borrow()
	if h.IsNull() {
		done()
		return h, nil, ErrClosed
	}
	return h, done, nil
}

// Closed reports whether the handle has been released.
func (o *Owned[K]) Closed() bool {
	return o == nil || o.closed.Load()
}

// Close releases the native object. The second and later calls return
// ErrClosed and make no native call.
func (o *Owned[K]) Close() error {
	if o == nil {
		return nil
	}
	if !o.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	runtime.SetFinalizer(o, nil)
	o.releaseHandle()
	return nil
}

func (o *Owned[K]) finalize() {
	if !o.closed.CompareAndSwap(false, true) {
		return
	}
	o.releaseHandle()
	msg, kind := "native object released by finalizer; call Close", logging.Kind(KindName[K]())
	if settings.Load().LogLeaks {
		Log().Warn(context.Background(), msg, kind)
	} else {
		Log().Debug(context.Background(), msg, kind)
	}
}

func (o *Owned[K]) releaseHandle() {
	h := o.h
	o.h = Handle[K]{}
	if !h.IsNull() && o.release != nil {
		o.release(h)
	}
}
