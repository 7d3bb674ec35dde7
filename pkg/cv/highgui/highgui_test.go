package highgui_test

import (
	"bytes"
	"log/slog"
	"math"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/core"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/highgui"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/backend"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/backend/fake"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/logging"
)

func TestCallbackUnregisteredBeforeFree(t *testing.T) {
	n := fake.Install(t)
	base := backend.Mouse.Len()

	w, err := highgui.NewWindow("main", highgui.WindowAutosize)
	require.NoError(t, err)

	require.NoError(t, w.SetMouseCallback(func(highgui.MouseEvent) {}))
	require.NoError(t, w.SetMouseCallback(func(highgui.MouseEvent) {}))
	assert.Equal(t, base+1, backend.Mouse.Len(), "the replaced closure is freed")
	require.NoError(t, w.Close())
	assert.Equal(t, base, backend.Mouse.Len())

	events := n.Events()
	require.Len(t, events, 6)
	assert.Equal(t, "create main", events[0])
	assert.Regexp(t, `^set main id=\d+$`, events[1])
	assert.Regexp(t, `^clear main id=\d+ live=true$`, events[2], "native side drops the id while the closure still exists")
	assert.Regexp(t, `^set main id=\d+$`, events[3])
	assert.Regexp(t, `^clear main id=\d+ live=true$`, events[4])
	assert.Equal(t, "destroy main callback=0", events[5])
	assert.NotEqual(t, events[1][len("set main "):], events[3][len("set main "):], "ids are not reused")

	require.ErrorIs(t, w.Close(), ffi.ErrClosed)
	require.ErrorIs(t, w.SetMouseCallback(func(highgui.MouseEvent) {}), ffi.ErrClosed)
	assert.Equal(t, base, backend.Mouse.Len())
	assert.Equal(t, 1, n.Released("Window"))
}

func TestMouseEventsDeliveredInOrder(t *testing.T) {
	n := fake.Install(t)

	w, err := highgui.NewWindow("canvas", highgui.WindowNormal)
	require.NoError(t, err)
	defer w.Close()

	var got []highgui.MouseEvent
	require.NoError(t, w.SetMouseCallback(func(ev highgui.MouseEvent) { got = append(got, ev) }))

	raw := []backend.MouseRaw{
		{Event: 1, X: 3, Y: 4, Flags: 1},
		{Event: 0, X: 5, Y: 6, Flags: 1 | 8},
		{Event: 4, X: 7, Y: 8},
	}
	for _, ev := range raw {
		require.True(t, n.TriggerMouse("canvas", ev))
	}
	assert.Equal(t, []highgui.MouseEvent{
		{Type: highgui.LeftButtonDown, X: 3, Y: 4, Flags: highgui.FlagLeftButton},
		{Type: highgui.MouseMove, X: 5, Y: 6, Flags: highgui.FlagLeftButton | highgui.FlagCtrlKey},
		{Type: highgui.LeftButtonUp, X: 7, Y: 8},
	}, got)

	require.NoError(t, w.SetMouseCallback(nil))
	assert.False(t, n.TriggerMouse("canvas", raw[0]))
	assert.Len(t, got, 3)
}

func TestUnknownMouseEventDropped(t *testing.T) {
	n := fake.Install(t)

	var buf bytes.Buffer
	prev := ffi.CurrentSettings()
	ffi.Configure(ffi.Settings{Logger: logging.New(slog.New(slog.NewTextHandler(&buf, nil)))})
	t.Cleanup(func() { ffi.Configure(prev) })

	w, err := highgui.NewWindow("w", highgui.WindowNormal)
	require.NoError(t, err)
	defer w.Close()

	calls := 0
	require.NoError(t, w.SetMouseCallback(func(highgui.MouseEvent) { calls++ }))

	assert.True(t, n.TriggerMouse("w", backend.MouseRaw{Event: 42}))
	assert.Zero(t, calls)
	assert.Contains(t, buf.String(), "dropping mouse event")
	assert.Contains(t, buf.String(), "kind=Window")
	assert.NotContains(t, buf.String(), "0x")

	assert.True(t, n.TriggerMouse("w", backend.MouseRaw{Event: int32(highgui.MouseWheel)}))
	assert.Equal(t, 1, calls)
}

func TestWindowClosedStopsDelivery(t *testing.T) {
	n := fake.Install(t)

	w, err := highgui.NewWindow("gone", highgui.WindowNormal)
	require.NoError(t, err)
	require.NoError(t, w.SetMouseCallback(func(highgui.MouseEvent) { t.Error("callback after Close") }))
	require.NoError(t, w.Close())

	assert.False(t, n.TriggerMouse("gone", backend.MouseRaw{Event: 1}))
	assert.Empty(t, n.DoubleFrees())
}

func TestDroppedWindowUnregistersBeforeFree(t *testing.T) {
	n := fake.Install(t)
	base := backend.Mouse.Len()

	func() {
		w, err := highgui.NewWindow("leak", highgui.WindowNormal)
		require.NoError(t, err)
		require.NoError(t, w.SetMouseCallback(func(highgui.MouseEvent) {}))
	}()

	assert.Eventually(t, func() bool {
		runtime.GC()
		return n.Released("Window") == 1 && backend.Mouse.Len() == base
	}, 2*time.Second, 10*time.Millisecond)

	events := n.Events()
	require.Len(t, events, 4)
	assert.Equal(t, "create leak", events[0])
	assert.Regexp(t, `^set leak id=\d+$`, events[1])
	assert.Regexp(t, `^clear leak id=\d+ live=true$`, events[2])
	assert.Equal(t, "destroy leak callback=0", events[3])
	assert.Empty(t, n.DoubleFrees())
}

func TestIMShowAndWaitKey(t *testing.T) {
	n := fake.Install(t)

	w, err := highgui.NewWindow("view", highgui.WindowAutosize)
	require.NoError(t, err)
	defer w.Close()
	assert.Equal(t, "view", w.Name())

	img, err := core.NewMatWithSize(2, 2, core.MatTypeCV8UC3)
	require.NoError(t, err)
	require.NoError(t, w.IMShow(img))
	assert.Equal(t, 1, n.Shown("view"))

	require.NoError(t, img.Close())
	require.ErrorIs(t, w.IMShow(img), ffi.ErrClosed)

	_, ok := highgui.WaitKey(1)
	assert.False(t, ok)
	n.PushKey('q')
	key, ok := highgui.WaitKey(0)
	assert.True(t, ok)
	assert.Equal(t, 'q', rune(key))
}

func TestWindowNameValidation(t *testing.T) {
	n := fake.Install(t)

	_, err := highgui.NewWindow("", highgui.WindowNormal)
	require.Error(t, err)
	_, err = highgui.NewWindow("a\x00b", highgui.WindowNormal)
	require.Error(t, err)
	assert.Zero(t, n.Calls("WindowNew"))
}

func TestWaitKeyClampsDelay(t *testing.T) {
	n := fake.Install(t)

	highgui.WaitKey(fake.WideInt(t))
	assert.Equal(t, int32(math.MaxInt32), n.LastWaitDelay())
	highgui.WaitKey(-fake.WideInt(t))
	assert.Equal(t, int32(math.MinInt32), n.LastWaitDelay())
	highgui.WaitKey(25)
	assert.Equal(t, int32(25), n.LastWaitDelay())
}
