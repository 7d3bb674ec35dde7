// Package fake is an in-memory implementation of the native function table.
// It models enough of OpenCV for the wrappers to be tested without the C
// library, and it keeps the books a leak or double-free test needs: live
// objects per kind, release counts, freed buffers and an ordered event log.
package fake

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"unsafe"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/backend"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/types"
)

type (
	hmat   = ffi.Handle[backend.Mat]
	matRes = ffi.Result[hmat]
)

// Native is the in-memory function table. The zero value is not usable; call
// New.
type Native struct {
	mu       sync.Mutex
	next     uintptr
	objs     map[uintptr]any
	kinds    map[uintptr]string
	calls    map[string]int
	released map[string]int
	double   []string
	events   []string
	keys     []int32
	windows  map[string]uintptr

	lastDelay int32
	threads   int32
	optimized bool

	buffersFreed atomic.Int64
	textsFreed   atomic.Int64

	// CUDADevices is what CUDADeviceCount reports.
	CUDADevices int32
	// NonFree enables the patented xfeatures2d algorithms (SURF).
	NonFree bool
	// Detections is what cascade and HOG detection report, before size
	// filtering.
	Detections []types.Rect
	// OCRText is what every recognizer reads.
	OCRText string
	// OutOfMemory makes the allocating constructors return a null handle.
	OutOfMemory bool
}

var _ backend.Native = (*Native)(nil)

// New returns an empty native layer with OpenCV's runtime defaults.
func New() *Native {
	return &Native{
		next:      0x1000,
		objs:      map[uintptr]any{},
		kinds:     map[uintptr]string{},
		calls:     map[string]int{},
		released:  map[string]int{},
		windows:   map[string]uintptr{},
		threads:   8,
		optimized: true,
		OCRText:   "hello world",
	}
}

// WideInt returns 1<<32 + 2, an int that truncates to 2 when narrowed to
// int32. It skips t where int is 32 bits wide.
func WideInt(t testing.TB) int {
	t.Helper()
	if math.MaxInt == math.MaxInt32 {
		t.Skip("int is 32 bits")
	}
	var v int64 = 1<<32 + 2
	return int(v)
}

// Install creates a native layer, installs it as the current function table
// and restores the previous table when t finishes.
func Install(t testing.TB) *Native {
	t.Helper()
	n := New()
	t.Cleanup(backend.Install(n))
	return n
}

// enter counts a call and takes the lock. Use as defer n.enter("Name")().
func (n *Native) enter(name string) func() {
	n.mu.Lock()
	n.calls[name]++
	return n.mu.Unlock
}

func alloc[K ffi.Kind](n *Native, obj any) ffi.Handle[K] {
	addr := n.next
	n.next += 0x10
	n.objs[addr] = obj
	n.kinds[addr] = ffi.KindName[K]()
	return ffi.HandleAt[K](addr)
}

func lookup[T any, K ffi.Kind](n *Native, h ffi.Handle[K]) (T, bool) {
	var zero T
	if h.IsNull() || n.kinds[h.Addr()] != ffi.KindName[K]() {
		return zero, false
	}
	v, ok := n.objs[h.Addr()].(T)
	return v, ok
}

func release[K ffi.Kind](n *Native, h ffi.Handle[K]) {
	kind := ffi.KindName[K]()
	if h.IsNull() {
		return
	}
	if n.kinds[h.Addr()] != kind {
		n.double = append(n.double, fmt.Sprintf("%s@%#x", kind, h.Addr()))
		return
	}
	delete(n.objs, h.Addr())
	delete(n.kinds, h.Addr())
	n.released[kind]++
}

func errResult[T any](n *Native, format string, args ...any) ffi.Result[T] {
	msg := fmt.Sprintf(format, args...)
	return ffi.Err[T](ffi.NewText(ffi.CStrOf(msg), n.freeText))
}

func (n *Native) freeBuf(unsafe.Pointer) { n.buffersFreed.Add(1) }
func (n *Native) freeText(ffi.CStr)      { n.textsFreed.Add(1) }

func vecOf[T any](n *Native, items []T) ffi.Vec[T] { return ffi.VecOf(items, n.freeBuf) }

func (n *Native) event(format string, args ...any) {
	n.events = append(n.events, fmt.Sprintf(format, args...))
}

// Calls returns how many times the named function was called.
func (n *Native) Calls(name string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls[name]
}

// Live returns the number of live objects of the given kind, or of every
// kind when kind is empty.
func (n *Native) Live(kind string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, k := range n.kinds {
		if kind == "" || k == kind {
			c++
		}
	}
	return c
}

// LiveKinds lists the kinds that still have live objects, sorted.
func (n *Native) LiveKinds() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	seen := map[string]bool{}
	for _, k := range n.kinds {
		seen[k] = true
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Released returns how many objects of kind were released.
func (n *Native) Released(kind string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.released[kind]
}

// DoubleFrees lists releases of handles that were not live.
func (n *Native) DoubleFrees() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.double...)
}

// Events returns the ordered event log.
func (n *Native) Events() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.events...)
}

// BuffersFreed counts vector buffers handed back through their free function.
func (n *Native) BuffersFreed() int64 { return n.buffersFreed.Load() }

// TextsFreed counts native strings handed back through their free function.
func (n *Native) TextsFreed() int64 { return n.textsFreed.Load() }

// PushKey queues a key press for WaitKey.
func (n *Native) PushKey(k int32) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.keys = append(n.keys, k)
}
