package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/core"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/backend/fake"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
)

func TestGpuMatWithoutDevice(t *testing.T) {
	n := fake.Install(t)
	assert.Zero(t, core.CUDADeviceCount())

	g, err := core.NewGpuMat()
	require.NoError(t, err)
	defer g.Close()

	m := gray(t, 1, 1, 1)
	err = g.Upload(m)
	assert.True(t, ffi.IsNative(err))

	_, err = g.Download()
	assert.True(t, ffi.IsNative(err))
	assert.EqualValues(t, 2, n.TextsFreed())
}

func TestGpuMatRoundTrip(t *testing.T) {
	n := fake.Install(t)
	n.CUDADevices = 1
	assert.Equal(t, 1, core.CUDADeviceCount())

	g, err := core.NewGpuMat()
	require.NoError(t, err)

	m := gray(t, 1, 3, 4, 5, 6)
	require.NoError(t, g.Upload(m))

	back, err := g.Download()
	require.NoError(t, err)
	defer back.Close()
	b, err := back.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{4, 5, 6}, b)

	require.NoError(t, g.Close())
	require.ErrorIs(t, g.Close(), ffi.ErrClosed)
	require.ErrorIs(t, g.Upload(m), ffi.ErrClosed)
	assert.Equal(t, 1, n.Released("GpuMat"))
}

func TestRuntimeKnobs(t *testing.T) {
	n := fake.Install(t)

	require.NoError(t, core.SetNumThreads(2))
	assert.Equal(t, 2, core.NumThreads())
	core.SetUseOptimized(false)
	assert.False(t, core.UseOptimized())
	assert.NotEmpty(t, core.NativeVersion())
	assert.Equal(t, 1, n.Calls("SetNumThreads"))
}
