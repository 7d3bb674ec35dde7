package types_test

import (
	"image"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/types"
)

func TestNativeLayout(t *testing.T) {
	values := []any{
		types.Point{},
		types.Point2f{},
		types.Size{},
		types.Size2f{},
		types.Rect{},
		types.Scalar{},
		types.TermCriteria{},
		types.KeyPoint{},
		types.DMatch{},
		types.RotatedRect{},
		types.MinMaxLoc{},
	}
	require.Len(t, values, len(types.NativeLayouts), "every native layout must be checked")

	for _, v := range values {
		typ := reflect.TypeOf(v)
		t.Run(typ.Name(), func(t *testing.T) {
			want, ok := types.NativeLayouts[typ.Name()]
			require.True(t, ok, "no native layout recorded for %s", typ.Name())

			assert.Equal(t, want.Size, typ.Size(), "size")
			require.Equal(t, len(want.Offsets), typ.NumField(), "field count")
			for i := 0; i < typ.NumField(); i++ {
				assert.Equal(t, want.Offsets[i], typ.Field(i).Offset, "offset of %s", typ.Field(i).Name)
			}
		})
	}
}

func TestRectFieldOrder(t *testing.T) {
	typ := reflect.TypeOf(types.Rect{})
	names := make([]string, typ.NumField())
	for i := range names {
		names[i] = typ.Field(i).Name
		assert.Equal(t, reflect.Int32, typ.Field(i).Type.Kind())
	}
	assert.Equal(t, []string{"X", "Y", "Width", "Height"}, names)
}

func TestRectImageConversion(t *testing.T) {
	r := types.Rect{X: 3, Y: 4, Width: 10, Height: 20}
	img := r.Image()
	assert.Equal(t, image.Rect(3, 4, 13, 24), img)
	assert.Equal(t, r, types.RectFromImage(img))
	assert.Equal(t, int32(200), r.Area())
	assert.False(t, r.Empty())
	assert.True(t, types.Rect{Width: 0, Height: 5}.Empty())
}

func TestRectContains(t *testing.T) {
	r := types.Rect{X: 0, Y: 0, Width: 2, Height: 2}
	tests := []struct {
		p    types.Point
		want bool
	}{
		{types.Point{X: 0, Y: 0}, true},
		{types.Point{X: 1, Y: 1}, true},
		{types.Point{X: 2, Y: 1}, false},
		{types.Point{X: 1, Y: 2}, false},
		{types.Point{X: -1, Y: 0}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, r.Contains(tt.p), "%+v", tt.p)
	}
}
