package features2d_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/core"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/features2d"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/backend/fake"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/types"
)

// grayWith returns a rows x cols 8-bit image whose pixels are zero except
// where set maps {row, col} to a value.
func grayWith(t *testing.T, rows, cols int, set map[[2]int]byte) *core.Mat {
	t.Helper()
	data := make([]byte, rows*cols)
	for rc, v := range set {
		data[rc[0]*cols+rc[1]] = v
	}
	m, err := core.NewMatFromBytes(rows, cols, core.MatTypeCV8UC1, data)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func floats(t *testing.T, rows, cols int, v ...float32) *core.Mat {
	t.Helper()
	m, err := core.NewMatFromFloat32s(rows, cols, v)
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestMSERDetectRegions(t *testing.T) {
	n := fake.Install(t)

	set := map[[2]int]byte{{8, 8}: 255}
	for r := 1; r <= 3; r++ {
		for c := 1; c <= 3; c++ {
			set[[2]int{r, c}] = 200
		}
	}
	img := grayWith(t, 10, 10, set)

	p := features2d.DefaultMSERParams()
	p.MinArea, p.MaxArea = 2, 100
	m, err := features2d.NewMSERWithParams(p)
	require.NoError(t, err)
	defer m.Close()

	regions, boxes, err := m.DetectRegions(img)
	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.Len(t, regions[0], 9)
	assert.Equal(t, types.Point{X: 1, Y: 1}, regions[0][0])
	assert.Equal(t, types.Point{X: 3, Y: 3}, regions[0][8])
	assert.Equal(t, []types.Rect{{X: 1, Y: 1, Width: 3, Height: 3}}, boxes)
	assert.EqualValues(t, 2, n.BuffersFreed(), "one release per outer vector")

	def, err := features2d.NewMSER()
	require.NoError(t, err)
	defer def.Close()
	regions, boxes, err = def.DetectRegions(img)
	require.NoError(t, err)
	assert.Empty(t, regions)
	assert.Empty(t, boxes)
}

func TestMSERRejectsBadParams(t *testing.T) {
	n := fake.Install(t)

	p := features2d.DefaultMSERParams()
	p.MaxArea = 10
	_, err := features2d.NewMSERWithParams(p)
	require.Error(t, err)
	assert.Zero(t, n.Calls("MSERNew"))
}

func TestSIFTDetectAndCompute(t *testing.T) {
	n := fake.Install(t)

	img := grayWith(t, 4, 4, map[[2]int]byte{{0, 1}: 255, {2, 3}: 255, {3, 0}: 255, {1, 1}: 254})

	s, err := features2d.NewSIFT()
	require.NoError(t, err)
	defer s.Close()

	kps, desc, err := s.DetectAndCompute(img, nil)
	require.NoError(t, err)
	defer desc.Close()
	require.Len(t, kps, 3)
	assert.Equal(t, types.Point2f{X: 1, Y: 0}, kps[0].Pt)
	assert.Equal(t, types.Point2f{X: 3, Y: 2}, kps[1].Pt)
	assert.Equal(t, types.Point2f{X: 0, Y: 3}, kps[2].Pt)
	assert.Equal(t, 3, desc.Rows())
	assert.Equal(t, 128, desc.Cols())
	assert.Equal(t, core.MatTypeCV32FC1, desc.Type())

	row, err := desc.Float32s()
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0, 1, 0}, row[:4])

	mask := grayWith(t, 4, 4, map[[2]int]byte{{0, 1}: 255, {3, 0}: 255})
	kps, masked, err := s.DetectAndCompute(img, mask)
	require.NoError(t, err)
	defer masked.Close()
	assert.Len(t, kps, 2)
	assert.Equal(t, 2, masked.Rows())

	require.NoError(t, mask.Close())
	_, _, err = s.DetectAndCompute(img, mask)
	require.ErrorIs(t, err, ffi.ErrClosed)
	assert.Equal(t, 2, n.Calls("SIFTDetectAndCompute"))
}

func TestSIFTFeatureLimitAndErrors(t *testing.T) {
	n := fake.Install(t)

	p := features2d.DefaultSIFTParams()
	p.NFeatures = 1
	s, err := features2d.NewSIFTWithParams(p)
	require.NoError(t, err)
	defer s.Close()

	img := grayWith(t, 2, 2, map[[2]int]byte{{0, 0}: 255, {1, 1}: 255})
	kps, desc, err := s.DetectAndCompute(img, nil)
	require.NoError(t, err)
	defer desc.Close()
	assert.Len(t, kps, 1)

	empty := core.NewMat()
	defer empty.Close()
	kps, desc2, err := s.DetectAndCompute(empty, nil)
	require.NoError(t, err)
	defer desc2.Close()
	assert.Empty(t, kps)
	assert.True(t, desc2.Empty())

	p.NOctaveLayers = 0
	_, err = features2d.NewSIFTWithParams(p)
	assert.True(t, ffi.IsNative(err))
	assert.Equal(t, 1, n.Live("SIFT"))
}

func TestSURFNeedsNonFree(t *testing.T) {
	n := fake.Install(t)

	_, err := features2d.NewSURF(400)
	require.Error(t, err)
	assert.True(t, ffi.IsNative(err))
	assert.ErrorContains(t, err, "OPENCV_ENABLE_NONFREE")

	n.NonFree = true
	img := grayWith(t, 3, 3, map[[2]int]byte{{1, 1}: 255})

	for _, tt := range []struct {
		extended bool
		cols     int
	}{{false, 64}, {true, 128}} {
		p := features2d.DefaultSURFParams()
		p.Extended = tt.extended
		var f features2d.Feature2D
		f, err = features2d.NewSURFWithParams(p)
		require.NoError(t, err)

		kps, desc, err := f.DetectAndCompute(img, nil)
		require.NoError(t, err)
		assert.Len(t, kps, 1)
		assert.Equal(t, tt.cols, desc.Cols())
		require.NoError(t, desc.Close())
		require.NoError(t, f.Close())
	}
	assert.Zero(t, n.Live("SURF"))
}

func TestMatcherMatchAndKnnMatch(t *testing.T) {
	n := fake.Install(t)

	query := floats(t, 2, 2, 0, 0, 10, 10)
	train := floats(t, 3, 2, 9, 9, 1, 1, 100, 100)

	m, err := features2d.NewDescriptorMatcher(features2d.MatcherBruteForce)
	require.NoError(t, err)
	defer m.Close()

	matches, err := m.Match(query, train)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, int32(0), matches[0].QueryIdx)
	assert.Equal(t, int32(1), matches[0].TrainIdx)
	assert.Equal(t, int32(1), matches[1].QueryIdx)
	assert.Equal(t, int32(0), matches[1].TrainIdx)
	assert.InDelta(t, math.Sqrt2, matches[0].Distance, 1e-5)

	before := n.BuffersFreed()
	knn, err := m.KnnMatch(query, train, 2)
	require.NoError(t, err)
	assert.Equal(t, before+1, n.BuffersFreed(), "nested rows are freed with the outer vector")
	require.Len(t, knn, 2)
	require.Len(t, knn[0], 2)
	assert.Equal(t, []int32{1, 0}, []int32{knn[0][0].TrainIdx, knn[0][1].TrainIdx})
	assert.Equal(t, []int32{0, 1}, []int32{knn[1][0].TrainIdx, knn[1][1].TrainIdx})
	assert.LessOrEqual(t, knn[1][0].Distance, knn[1][1].Distance)

	_, err = m.KnnMatch(query, train, 0)
	require.Error(t, err)
}

func TestMatcherTrainCollection(t *testing.T) {
	fake.Install(t)

	m, err := features2d.NewDescriptorMatcher(features2d.MatcherBruteForceL1)
	require.NoError(t, err)
	defer m.Close()

	require.NoError(t, m.Add(floats(t, 1, 2, 5, 5), floats(t, 2, 2, 9, 9, 0, 1)))
	require.NoError(t, m.Train())

	matches, err := m.Match(floats(t, 1, 2, 0, 0), nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, types.DMatch{QueryIdx: 0, TrainIdx: 1, ImgIdx: 1, Distance: 1}, matches[0])
}

func TestMatcherHamming(t *testing.T) {
	fake.Install(t)

	bytesMat := func(rows int, b ...byte) *core.Mat {
		m, err := core.NewMatFromBytes(rows, len(b)/rows, core.MatTypeCV8UC1, b)
		require.NoError(t, err)
		t.Cleanup(func() { _ = m.Close() })
		return m
	}

	m, err := features2d.NewDescriptorMatcher(features2d.MatcherBruteForceHamming)
	require.NoError(t, err)
	defer m.Close()

	matches, err := m.Match(bytesMat(1, 0x0F), bytesMat(3, 0xFF, 0x0E, 0x0F))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, int32(2), matches[0].TrainIdx)
	assert.Zero(t, matches[0].Distance)
}

func TestFlannTrainNeedsDescriptors(t *testing.T) {
	fake.Install(t)

	m, err := features2d.NewDescriptorMatcher(features2d.MatcherFlannBased)
	require.NoError(t, err)
	defer m.Close()

	err = m.Train()
	assert.True(t, ffi.IsNative(err))

	require.NoError(t, m.Add(floats(t, 1, 2, 1, 2)))
	require.NoError(t, m.Train())
}

func TestMatcherTypeValidatedBeforeNativeCall(t *testing.T) {
	n := fake.Install(t)

	_, err := features2d.NewDescriptorMatcher(features2d.MatcherType(9))
	var ee *ffi.EnumConversionError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, int32(9), ee.Value)
	assert.Zero(t, n.Calls("MatcherNew"))
	assert.Equal(t, "BruteForce-Hamming", features2d.MatcherBruteForceHamming.String())
}

func TestBOWKMeansTrainer(t *testing.T) {
	n := fake.Install(t)

	tc := types.TermCriteria{Type: types.TermCount | types.TermEps, MaxCount: 10, Epsilon: 1e-3}
	b, err := features2d.NewBOWKMeansTrainer(2, tc, 1, features2d.KMeansPPCenters)
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, b.Add(floats(t, 2, 2, 0, 0, 0, 1)))
	require.NoError(t, b.Add(floats(t, 2, 2, 10, 10, 10, 11)))
	count, err := b.DescriptorsCount()
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	vocab, err := b.Cluster()
	require.NoError(t, err)
	defer vocab.Close()
	assert.Equal(t, 2, vocab.Rows())
	centers, err := vocab.Float32s()
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0.5, 10, 10.5}, centers)

	big, err := features2d.NewBOWKMeansTrainer(5, tc, 1, features2d.KMeansRandomCenters)
	require.NoError(t, err)
	defer big.Close()
	require.NoError(t, big.Add(floats(t, 1, 2, 1, 1)))
	_, err = big.Cluster()
	assert.True(t, ffi.IsNative(err))

	_, err = features2d.NewBOWKMeansTrainer(2, types.TermCriteria{}, 1, features2d.KMeansRandomCenters)
	require.Error(t, err)
	assert.Equal(t, 2, n.Calls("BOWNew"))
}

func TestFeatures2DRejectsOutOfRangeInts(t *testing.T) {
	n := fake.Install(t)
	wide := fake.WideInt(t)
	tc := types.TermCriteria{Type: types.TermCount, MaxCount: 10}

	mp := features2d.DefaultMSERParams()
	mp.MaxArea = wide
	_, err := features2d.NewMSERWithParams(mp)
	require.ErrorIs(t, err, ffi.ErrOutOfRange)

	sp := features2d.DefaultSIFTParams()
	sp.NFeatures = wide
	_, err = features2d.NewSIFTWithParams(sp)
	require.ErrorIs(t, err, ffi.ErrOutOfRange)

	up := features2d.DefaultSURFParams()
	up.NOctaves = wide
	_, err = features2d.NewSURFWithParams(up)
	require.ErrorIs(t, err, ffi.ErrOutOfRange)

	_, err = features2d.NewBOWKMeansTrainer(wide, tc, 1, features2d.KMeansRandomCenters)
	require.ErrorIs(t, err, ffi.ErrOutOfRange)
	_, err = features2d.NewBOWKMeansTrainer(2, tc, wide, features2d.KMeansRandomCenters)
	require.ErrorIs(t, err, ffi.ErrOutOfRange)

	m, err := features2d.NewDescriptorMatcher(features2d.MatcherBruteForce)
	require.NoError(t, err)
	defer m.Close()
	q := floats(t, 1, 2, 0, 0)
	_, err = m.KnnMatch(q, q, wide)
	require.ErrorIs(t, err, ffi.ErrOutOfRange)

	for _, name := range []string{"MSERNew", "SIFTNew", "SURFNew", "BOWNew", "MatcherKnnMatch"} {
		assert.Zero(t, n.Calls(name), name)
	}
}
