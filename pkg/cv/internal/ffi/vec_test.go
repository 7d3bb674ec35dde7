package ffi_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/types"
)

func TestVecUnpackIsOneShot(t *testing.T) {
	native := []types.Rect{
		{X: 1, Y: 2, Width: 3, Height: 4},
		{X: 5, Y: 6, Width: 7, Height: 8},
		{X: 9, Y: 10, Width: 11, Height: 12},
	}
	frees := 0
	v := ffi.VecOf(native, func(p unsafe.Pointer) {
		frees++
		assert.Equal(t, unsafe.Pointer(&native[0]), p)
		for i := range native {
			native[i] = types.Rect{X: -1}
		}
	})
	require.Equal(t, 3, v.Len())

	got := v.Unpack()
	assert.Equal(t, []types.Rect{
		{X: 1, Y: 2, Width: 3, Height: 4},
		{X: 5, Y: 6, Width: 7, Height: 8},
		{X: 9, Y: 10, Width: 11, Height: 12},
	}, got, "elements must be copied before the buffer is freed")
	assert.Equal(t, 1, frees)
	assert.Zero(t, v.Len())

	again := v.Unpack()
	assert.Empty(t, again, "second unpack is a no-op")
	assert.Equal(t, 1, frees, "second unpack must not free again")
}

func TestVecCopiesShareState(t *testing.T) {
	frees := 0
	v := ffi.VecOf([]int32{1, 2}, func(unsafe.Pointer) { frees++ })
	cp := v

	assert.Equal(t, []int32{1, 2}, cp.Unpack())
	assert.Empty(t, v.Unpack())
	assert.Equal(t, 1, frees)
}

func TestZeroVecIsEmptyOutParam(t *testing.T) {
	var v ffi.Vec[types.Point]
	assert.Zero(t, v.Len())
	assert.Empty(t, v.Unpack())
}

func TestEmptyVecStillFreesOnce(t *testing.T) {
	frees := 0
	v := ffi.NewVec[types.Point](nil, 0, func(unsafe.Pointer) { frees++ })
	assert.Empty(t, v.Unpack())
	assert.Empty(t, v.Unpack())
	assert.Equal(t, 1, frees)
}

func TestUnpackWithNestedElements(t *testing.T) {
	rows := [][]types.Point{
		{{X: 1, Y: 1}, {X: 2, Y: 2}},
		{},
		{{X: 3, Y: 3}},
	}
	outer := make([]ffi.RawVec[types.Point], len(rows))
	for i, r := range rows {
		outer[i] = ffi.RawVecOf(r)
	}
	frees := 0
	v := ffi.VecOf(outer, func(unsafe.Pointer) {
		frees++
		// Native teardown frees the rows too.
		for _, r := range rows {
			for i := range r {
				r[i] = types.Point{X: -9, Y: -9}
			}
		}
	})

	got := ffi.UnpackWith(v, ffi.RawVec[types.Point].Copy)
	assert.Equal(t, [][]types.Point{
		{{X: 1, Y: 1}, {X: 2, Y: 2}},
		{},
		{{X: 3, Y: 3}},
	}, got)
	assert.Equal(t, 1, frees)
}

func TestUnpackWithStrings(t *testing.T) {
	words := []ffi.CStr{ffi.CStrOf("hello"), ffi.CStrOf(""), ffi.CStrOf("world")}
	frees := 0
	v := ffi.VecOf(words, func(unsafe.Pointer) { frees++ })

	assert.Equal(t, []string{"hello", "", "world"}, ffi.UnpackWith(v, ffi.CStr.String))
	assert.Equal(t, 1, frees)
}

func TestCStrReplacesInvalidUTF8(t *testing.T) {
	raw := []byte{'o', 'k', 0xff}
	c := ffi.CStr{Ptr: &raw[0], Len: uintptr(len(raw))}
	assert.Equal(t, "ok\uFFFD", c.String())
}

func TestTextTakeCopiesThenFrees(t *testing.T) {
	buf := []byte("native message")
	frees := 0
	txt := ffi.NewText(ffi.CStr{Ptr: &buf[0], Len: uintptr(len(buf))}, func(ffi.CStr) {
		frees++
		for i := range buf {
			buf[i] = 0
		}
	})

	assert.Equal(t, "native message", txt.Take())
	assert.Equal(t, 1, frees)
	assert.Equal(t, "", txt.Take())
	assert.Equal(t, 1, frees)
}
