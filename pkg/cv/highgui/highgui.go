// Package highgui provides named windows with mouse callbacks and WaitKey.
//
// Mouse callbacks cross the native boundary as integer ids into a registry
// of Go closures. A Window always uninstalls its callback from the native
// side before it frees the closure, so the native event loop never holds an
// id whose closure is gone.
package highgui

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/core"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/backend"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/logging"
)

// WindowFlags are the namedWindow flags.
type WindowFlags int32

const (
	WindowNormal      WindowFlags = 0x0
	WindowAutosize    WindowFlags = 0x1
	WindowKeepRatio   WindowFlags = 0x0
	WindowFreeRatio   WindowFlags = 0x100
	WindowGUINormal   WindowFlags = 0x10
	WindowGUIExpanded WindowFlags = 0x0
)

// MouseEventType is cv::MouseEventTypes.
type MouseEventType int32

const (
	MouseMove MouseEventType = iota
	LeftButtonDown
	RightButtonDown
	MiddleButtonDown
	LeftButtonUp
	RightButtonUp
	MiddleButtonUp
	LeftButtonDoubleClick
	RightButtonDoubleClick
	MiddleButtonDoubleClick
	MouseWheel
	MouseHWheel
)

func (e MouseEventType) Valid() bool { return e >= MouseMove && e <= MouseHWheel }

// MouseEventFlags is a bitmask of cv::MouseEventFlags.
type MouseEventFlags int32

const (
	FlagLeftButton   MouseEventFlags = 1
	FlagRightButton  MouseEventFlags = 2
	FlagMiddleButton MouseEventFlags = 4
	FlagCtrlKey      MouseEventFlags = 8
	FlagShiftKey     MouseEventFlags = 16
	FlagAltKey       MouseEventFlags = 32
)

// MouseEvent is one event delivered to a window's callback.
type MouseEvent struct {
	Type  MouseEventType
	X     int
	Y     int
	Flags MouseEventFlags
}

// Window owns a named native window and at most one mouse callback. A
// Window dropped without Close is torn down by finalizers in the same order
// as Close. A callback that references its own Window keeps it reachable, so
// such a Window must be closed.
type Window struct {
	n    backend.Native
	o    *ffi.Owned[backend.Window]
	name string

	mu  sync.Mutex
	reg *ffi.Registration[backend.MouseRaw]
}

// NewWindow creates a named window.
func NewWindow(name string, flags WindowFlags) (*Window, error) {
	if name == "" {
		return nil, fmt.Errorf("highgui: empty window name")
	}
	cname, err := ffi.CString("window name", name)
	if err != nil {
		return nil, err
	}
	n := backend.Current()
	h := n.WindowNew(cname, int32(flags))
	if h.IsNull() {
		return nil, backend.ErrNotBuilt
	}
	w := &Window{n: n, o: ffi.Own(h, n.WindowRelease), name: name}
	runtime.SetFinalizer(w, (*Window).finalize)
	return w, nil
}

// finalize runs before the finalizer of w.o, which stays reachable through w
// until this returns. It uninstalls and frees the callback; the native window
// is destroyed by w.o's finalizer in a later cycle.
func (w *Window) finalize() {
	w.mu.Lock()
	defer w.mu.Unlock()
	h, done, err := w.o.Lend()
	if err != nil {
		return
	}
	defer done()
	w.clearLocked(h)
}

// Name returns the window name.
func (w *Window) Name() string { return w.name }

// IMShow displays img in the window.
func (w *Window) IMShow(img *core.Mat) error {
	h, done, err := w.o.Lend()
	if err != nil {
		return err
	}
	defer done()
	ih, idone, err := img.Borrow()
	if err != nil {
		return err
	}
	defer idone()
	w.n.WindowShow(h, ih)
	return nil
}

// SetMouseCallback installs fn as the window's mouse callback, replacing the
// previous one. A nil fn only removes the current callback. Events with a
// type this package does not know are dropped and logged.
func (w *Window) SetMouseCallback(fn func(MouseEvent)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	h, done, err := w.o.Lend()
	if err != nil {
		return err
	}
	defer done()

	w.clearLocked(h)
	if fn == nil {
		return nil
	}
	name := w.name
	w.reg = backend.Mouse.Register(func(raw backend.MouseRaw) {
		typ, err := ffi.EnumFrom[MouseEventType](raw.Event)
		if err != nil {
			ffi.Log().Warn(context.Background(), "dropping mouse event",
				logging.Kind(backend.Window{}.KindName()), "window", name, "error", err)
			return
		}
		fn(MouseEvent{Type: typ, X: int(raw.X), Y: int(raw.Y), Flags: MouseEventFlags(raw.Flags)})
	})
	w.n.WindowSetMouseCallback(h, w.reg.ID())
	return nil
}

// clearLocked uninstalls the native callback first and only then frees the
// closure.
func (w *Window) clearLocked(h ffi.Handle[backend.Window]) {
	if w.reg == nil {
		return
	}
	w.n.WindowClearMouseCallback(h)
	w.reg.Release()
	w.reg = nil
}

// Close removes the callback and destroys the window. A second Close
// returns ErrClosed.
func (w *Window) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	h, done, err := w.o.Lend()
	if err != nil {
		return err
	}
	w.clearLocked(h)
	done()
	runtime.SetFinalizer(w, nil)
	return w.o.Close()
}

// WaitKey waits up to delayMs milliseconds for a key press, or forever when
// delayMs is zero or less. Delays beyond the int32 range are clamped to it.
// ok is false when the delay elapsed without one.
func WaitKey(delayMs int) (key int, ok bool) {
	d := int32(max(min(delayMs, math.MaxInt32), math.MinInt32))
	k, ok := backend.Current().WaitKey(d).Get()
	return int(k), ok
}
