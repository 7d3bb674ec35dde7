package ffi

import (
	"sync"
	"sync/atomic"
)

// Registry stores Go closures for native callbacks. Native code receives only
// the integer id, passed back as its user-data pointer; Go pointers never
// cross the boundary. Ids start at 1 and are never reused.
type Registry[E any] struct {
	mu    sync.Mutex
	next  uintptr
	boxes map[uintptr]func(E)
}

// NewRegistry returns an empty registry.
func NewRegistry[E any]() *Registry[E] {
	return &Registry[E]{next: 1, boxes: map[uintptr]func(E){}}
}

// Register boxes fn and returns its registration. The caller owns the
// registration and must Release it only after native code has dropped the id.
func (r *Registry[E]) Register(fn func(E)) *Registration[E] {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.next
	r.next++
	r.boxes[id] = fn
	return &Registration[E]{r: r, id: id}
}

// Dispatch invokes the closure registered under id. It is what the native
// trampoline calls; it never frees the box. It reports false for an unknown
// id.
func (r *Registry[E]) Dispatch(id uintptr, ev E) bool {
	r.mu.Lock()
	fn, ok := r.boxes[id]
	r.mu.Unlock()
	if !ok {
		return false
	}
	fn(ev)
	return true
}

// Live reports whether id is still registered.
func (r *Registry[E]) Live(id uintptr) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.boxes[id]
	return ok
}

// Len returns the number of live registrations.
func (r *Registry[E]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.boxes)
}

func (r *Registry[E]) del(id uintptr) {
	r.mu.Lock()
	delete(r.boxes, id)
	r.mu.Unlock()
}

// Registration is one boxed closure owned by the object that installed it.
type Registration[E any] struct {
	r        *Registry[E]
	id       uintptr
	released atomic.Bool
}

// ID returns the value passed to native code as user data.
func (g *Registration[E]) ID() uintptr {
	if g == nil {
		return 0
	}
	return g.id
}

// Release frees the box. Calling it while native code may still invoke the
// id makes later dispatches silently miss. Release is idempotent.
func (g *Registration[E]) Release() {
	if g == nil || !g.released.CompareAndSwap(false, true) {
		return
	}
	g.r.del(g.id)
}
