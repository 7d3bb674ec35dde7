package ffi_test

import (
	"bytes"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/logging"
)

type widget struct{}

func (widget) KindName() string     { return "Widget" }
func (widget) Sharing() ffi.Sharing { return ffi.Transferable }

type gadget struct{}

func (gadget) KindName() string     { return "Gadget" }
func (gadget) Sharing() ffi.Sharing { return ffi.Shareable }

type releaseCounter struct {
	n    atomic.Int64
	mu   sync.Mutex
	seen map[uintptr]int
}

func newCounter() *releaseCounter {
	return &releaseCounter{seen: map[uintptr]int{}}
}

func (c *releaseCounter) release(h ffi.Handle[widget]) {
	c.n.Add(1)
	c.mu.Lock()
	c.seen[h.Addr()]++
	c.mu.Unlock()
}

func TestOwnedCloseReleasesExactlyOnce(t *testing.T) {
	const n = 8
	c := newCounter()
	owned := make([]*ffi.Owned[widget], n)
	for i := range owned {
		owned[i] = ffi.Own(ffi.HandleAt[widget](uintptr(i+1)), c.release)
	}
	for _, o := range owned {
		require.NoError(t, o.Close())
	}
	assert.Equal(t, int64(n), c.n.Load())

	for _, o := range owned {
		assert.ErrorIs(t, o.Close(), ffi.ErrClosed)
	}
	assert.Equal(t, int64(n), c.n.Load(), "second Close must not release again")
	for addr, count := range c.seen {
		assert.Equal(t, 1, count, "address %d", addr)
	}
}

func TestOwnedBorrow(t *testing.T) {
	c := newCounter()
	o := ffi.Own(ffi.HandleAt[widget](42), c.release)

	h, done := o.Borrow()
	assert.Equal(t, uintptr(42), h.Addr())
	assert.False(t, o.Closed())
	done()

	require.NoError(t, o.Close())
	h, done = o.Borrow()
	defer done()
	assert.True(t, h.IsNull())
	assert.True(t, o.Closed())
}

func TestOwnedLendAfterClose(t *testing.T) {
	c := newCounter()
	o := ffi.Own(ffi.HandleAt[widget](7), c.release)

	h, done, err := o.Lend()
	require.NoError(t, err)
	assert.Equal(t, uintptr(7), h.Addr())
	done()

	require.NoError(t, o.Close())
	_, done, err = o.Lend()
	assert.ErrorIs(t, err, ffi.ErrClosed)
	assert.Nil(t, done)
}

func TestOwnedNullHandleIsNotReleased(t *testing.T) {
	c := newCounter()
	o := ffi.Own(ffi.Handle[widget]{}, c.release)
	require.NoError(t, o.Close())
	assert.Zero(t, c.n.Load())
}

func TestNilOwnedIsSafe(t *testing.T) {
	var o *ffi.Owned[widget]
	assert.NoError(t, o.Close())
	assert.True(t, o.Closed())
	h, done := o.Borrow()
	done()
	assert.True(t, h.IsNull())
}

func TestOwnedFinalizerReleasesLeakedWrapper(t *testing.T) {
	c := newCounter()
	func() {
		_ = ffi.Own(ffi.HandleAt[widget](7), c.release)
	}()

	assert.Eventually(t, func() bool {
		runtime.GC()
		return c.n.Load() == 1
	}, 5*time.Second, 10*time.Millisecond)
}

func TestConcurrentBorrowIsLogged(t *testing.T) {
	var buf bytes.Buffer
	prev := ffi.CurrentSettings()
	t.Cleanup(func() { ffi.Configure(prev) })
	ffi.Configure(ffi.Settings{
		Logger:              logging.New(slog.New(slog.NewTextHandler(&buf, nil))),
		DetectConcurrentUse: true,
	})

	c := newCounter()
	o := ffi.Own(ffi.HandleAt[widget](1), c.release)
	defer o.Close()

	_, done1 := o.Borrow()
	_, done2 := o.Borrow()
	done2()
	done1()
	assert.Contains(t, buf.String(), "transferable handle used concurrently")
	assert.Contains(t, buf.String(), "kind=Widget")

	buf.Reset()
	shared := ffi.Own(ffi.HandleAt[gadget](1), func(ffi.Handle[gadget]) {})
	defer shared.Close()
	_, d1 := shared.Borrow()
	_, d2 := shared.Borrow()
	d2()
	d1()
	assert.Empty(t, buf.String(), "shareable kinds are never reported")
}

func TestKindMetadata(t *testing.T) {
	assert.Equal(t, "Widget", ffi.KindName[widget]())
	assert.Equal(t, ffi.Transferable, ffi.SharingOf[widget]())
	assert.Equal(t, ffi.Shareable, ffi.SharingOf[gadget]())
	assert.Equal(t, "shareable", ffi.Shareable.String())
}
