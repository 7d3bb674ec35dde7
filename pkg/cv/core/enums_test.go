package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/core"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/backend/fake"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
)

func TestMatTypePacking(t *testing.T) {
	tests := []struct {
		typ      core.MatType
		depth    core.Depth
		channels int
		name     string
	}{
		{core.MatTypeCV8UC1, core.DepthU8, 1, "CV_8UC1"},
		{core.MatTypeCV8UC3, core.DepthU8, 3, "CV_8UC3"},
		{core.MatTypeCV8UC4, core.DepthU8, 4, "CV_8UC4"},
		{core.MatTypeCV32FC3, core.DepthF32, 3, "CV_32FC3"},
		{core.MatTypeCV64FC1, core.DepthF64, 1, "CV_64FC1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.depth, tt.typ.Depth())
			assert.Equal(t, tt.channels, tt.typ.Channels())
			assert.Equal(t, tt.name, tt.typ.String())
			assert.Equal(t, tt.typ, core.MakeType(tt.depth, tt.channels))
		})
	}
}

func TestDepthFromRejectsUnknownValue(t *testing.T) {
	d, err := core.DepthFrom(5)
	require.NoError(t, err)
	assert.Equal(t, core.DepthF32, d)

	_, err = core.DepthFrom(7)
	var ee *ffi.EnumConversionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, int32(7), ee.Value)
	assert.Equal(t, "core.Depth", ee.Type)
	assert.Equal(t, "Depth(7)", core.Depth(7).String())

	_, err = core.MatTypeFrom(-1)
	require.ErrorIs(t, err, ffi.ErrEnumConversion)
}

func TestFloat32Mat(t *testing.T) {
	fake.Install(t)

	m, err := core.NewMatFromFloat32s(2, 2, []float32{0.5, -1, 3, 1e6})
	require.NoError(t, err)
	defer m.Close()
	assert.Equal(t, core.MatTypeCV32FC1, m.Type())

	got, err := m.Float32s()
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, -1, 3, 1e6}, got)

	_, err = core.NewMatFromFloat32s(2, 2, []float32{1})
	require.Error(t, err)

	u8, err := core.NewMatWithSize(1, 1, core.MatTypeCV8UC1)
	require.NoError(t, err)
	defer u8.Close()
	_, err = u8.Float32s()
	require.Error(t, err)
}
