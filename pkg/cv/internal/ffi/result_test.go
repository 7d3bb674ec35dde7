package ffi_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
)

func TestResultOk(t *testing.T) {
	r := ffi.Ok(int32(7))
	v, err := r.Into()
	require.NoError(t, err)
	assert.Equal(t, int32(7), v)

	_, err = r.Into()
	assert.ErrorIs(t, err, ffi.ErrConsumed)
}

func TestResultErrOwnsMessage(t *testing.T) {
	const msg = "classifier failed to load"
	buf := []byte(msg)
	frees := 0
	r := ffi.Err[ffi.Handle[widget]](ffi.NewText(ffi.CStr{Ptr: &buf[0], Len: uintptr(len(buf))}, func(ffi.CStr) {
		frees++
	}))

	h, err := r.Into()
	require.Error(t, err)
	assert.True(t, h.IsNull())
	assert.Equal(t, 1, frees)

	// Drop the native buffer; the Go error must be unaffected.
	for i := range buf {
		buf[i] = 'x'
	}

	var u *ffi.UnknownError
	require.True(t, errors.As(err, &u))
	assert.Equal(t, msg, u.Msg)
	assert.True(t, ffi.IsNative(err))

	_, err = r.Into()
	assert.ErrorIs(t, err, ffi.ErrConsumed)
	assert.Equal(t, 1, frees)
}

func TestZeroResultIsConsumed(t *testing.T) {
	var r ffi.Result[int]
	_, err := r.Into()
	assert.ErrorIs(t, err, ffi.ErrConsumed)
}

func TestOption(t *testing.T) {
	v, ok := ffi.Some(int32(27)).Get()
	assert.True(t, ok)
	assert.Equal(t, int32(27), v)

	v, ok = ffi.None[int32]().Get()
	assert.False(t, ok)
	assert.Zero(t, v)
}

func TestOptionFromNeverReadsAbsentSlot(t *testing.T) {
	reads := 0
	read := func() *int {
		reads++
		return nil
	}

	o := ffi.OptionFrom(false, read)
	assert.False(t, o.IsSome())
	assert.Zero(t, reads)

	x := 5
	o = ffi.OptionFrom(true, func() *int { reads++; return &x })
	got, ok := o.Get()
	require.True(t, ok)
	assert.Equal(t, 5, *got)
	assert.Equal(t, 1, reads)
}

func TestResultFailIsHostLocal(t *testing.T) {
	local := errors.New("backend missing")
	_, err := ffi.Fail[int](local).Into()
	assert.ErrorIs(t, err, local)
	assert.False(t, ffi.IsNative(err))
}
