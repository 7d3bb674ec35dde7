package backend_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/backend"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/backend/fake"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
)

func TestShareableAllowlist(t *testing.T) {
	assert.Equal(t, ffi.Shareable, ffi.SharingOf[backend.ImgHash]())
	assert.True(t, backend.Shareable("ImgHash"))

	transferable := []string{
		ffi.KindName[backend.Mat](),
		ffi.KindName[backend.GpuMat](),
		ffi.KindName[backend.Cascade](),
		ffi.KindName[backend.HOG](),
		ffi.KindName[backend.SvmDetector](),
		ffi.KindName[backend.MSER](),
		ffi.KindName[backend.SIFT](),
		ffi.KindName[backend.SURF](),
		ffi.KindName[backend.Matcher](),
		ffi.KindName[backend.BOWTrainer](),
		ffi.KindName[backend.OCR](),
		ffi.KindName[backend.BgSub](),
		ffi.KindName[backend.Window](),
	}
	for _, k := range transferable {
		assert.False(t, backend.Shareable(k), k)
	}
	assert.Equal(t, ffi.Transferable, ffi.SharingOf[backend.Window]())
	assert.Equal(t, "CascadeClassifier", ffi.KindName[backend.Cascade]())
}

func TestInstallRestores(t *testing.T) {
	before := backend.Current()
	n := fake.New()
	restore := backend.Install(n)
	assert.Same(t, n, backend.Current())
	assert.True(t, backend.Available())
	restore()
	assert.Equal(t, before, backend.Current())
}

func TestUnavailableFailsWithErrNotBuilt(t *testing.T) {
	t.Cleanup(backend.Install(backend.Unavailable{}))
	assert.False(t, backend.Available())

	n := backend.Current()
	assert.True(t, n.MatNew().IsNull())

	_, err := n.MatFromBytes(1, 1, 0, []byte{0}).Into()
	require.ErrorIs(t, err, backend.ErrNotBuilt)
	_, err = n.CascadeNew("face.xml").Into()
	require.ErrorIs(t, err, backend.ErrNotBuilt)

	assert.Empty(t, n.MatData(ffi.Handle[backend.Mat]{}).Unpack())
	_, ok := n.WaitKey(0).Get()
	assert.False(t, ok)
}
