package imghash_test

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/core"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/imghash"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/backend"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/backend/fake"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/logging"
)

// halves returns an 8x8 image whose left half is lit, or the right half when
// right is set.
func halves(t testing.TB, right bool) *core.Mat {
	t.Helper()
	data := make([]byte, 64)
	for i := range data {
		if (i%8 < 4) != right {
			data[i] = 255
		}
	}
	m, err := core.NewMatFromBytes(8, 8, core.MatTypeCV8UC1, data)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestEveryAlgorithm(t *testing.T) {
	fake.Install(t)

	for algo := imghash.AverageHash; algo <= imghash.RadialVarianceHash; algo++ {
		t.Run(algo.String(), func(t *testing.T) {
			h, err := imghash.New(algo)
			require.NoError(t, err)
			defer h.Close()
			assert.Equal(t, algo, h.Algorithm())

			a, err := h.Compute(halves(t, false))
			require.NoError(t, err)
			defer a.Close()
			b, err := h.Compute(halves(t, true))
			require.NoError(t, err)
			defer b.Close()

			raw, err := a.Bytes()
			require.NoError(t, err)
			assert.Equal(t, bytes.Repeat([]byte{0x0F}, 8), raw)

			same, err := h.Compare(a, a)
			require.NoError(t, err)
			assert.Zero(t, same)
			diff, err := h.Compare(a, b)
			require.NoError(t, err)
			assert.Equal(t, 64.0, diff)
		})
	}
}

func TestUnknownAlgorithm(t *testing.T) {
	n := fake.Install(t)

	_, err := imghash.New(imghash.Algorithm(6))
	require.ErrorIs(t, err, ffi.ErrEnumConversion)
	assert.Zero(t, n.Calls("HashNew"))
	assert.Equal(t, "Algorithm(6)", imghash.Algorithm(6).String())
}

func TestComputeEmptyImage(t *testing.T) {
	fake.Install(t)

	h, err := imghash.New(imghash.PHash)
	require.NoError(t, err)
	defer h.Close()

	empty := core.NewMat()
	defer empty.Close()
	_, err = h.Compute(empty)
	var ue *ffi.UnknownError
	require.ErrorAs(t, err, &ue)
	assert.Contains(t, ue.Msg, "input.empty()")
}

func TestHasherIsShareable(t *testing.T) {
	fake.Install(t)
	assert.True(t, backend.Shareable(backend.ImgHash{}.KindName()))

	var buf bytes.Buffer
	prev := ffi.CurrentSettings()
	ffi.Configure(ffi.Settings{
		Logger:              logging.New(slog.New(slog.NewTextHandler(&buf, nil))),
		DetectConcurrentUse: true,
	})
	t.Cleanup(func() { ffi.Configure(prev) })

	h, err := imghash.New(imghash.AverageHash)
	require.NoError(t, err)
	defer h.Close()
	ref, err := h.Compute(halves(t, false))
	require.NoError(t, err)
	defer ref.Close()
	refBytes, err := ref.Bytes()
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			data := make([]byte, 64)
			for j := range data {
				if j%8 < 4 {
					data[j] = 255
				}
			}
			img, err := core.NewMatFromBytes(8, 8, core.MatTypeCV8UC1, data)
			if err != nil {
				errs[i] = err
				return
			}
			defer img.Close()
			for k := 0; k < 20; k++ {
				out, err := h.Compute(img)
				if err != nil {
					errs[i] = err
					return
				}
				got, err := out.Bytes()
				_ = out.Close()
				if err != nil {
					errs[i] = err
					return
				}
				if !bytes.Equal(got, refBytes) {
					errs[i] = assert.AnError
					return
				}
			}
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.NotContains(t, buf.String(), "concurrently")
}

func TestClosedHasher(t *testing.T) {
	n := fake.Install(t)

	h, err := imghash.New(imghash.BlockMeanHash)
	require.NoError(t, err)
	require.NoError(t, h.Close())

	_, err = h.Compute(halves(t, false))
	require.ErrorIs(t, err, ffi.ErrClosed)
	_, err = h.Compare(halves(t, false), halves(t, true))
	require.ErrorIs(t, err, ffi.ErrClosed)
	assert.Zero(t, n.Calls("HashCompute"))
	assert.Equal(t, 1, n.Released("ImgHash"))
}
