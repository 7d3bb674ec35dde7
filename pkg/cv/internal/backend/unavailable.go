package backend

import (
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/types"
)

// Unavailable is the function table used when no native library is linked.
// Constructors return null handles, vectors are empty and every fallible call
// fails with ErrNotBuilt.
type Unavailable struct{}

var _ Native = Unavailable{}

func fail[T any]() ffi.Result[T] { return ffi.Fail[T](ErrNotBuilt) }

func (Unavailable) Version() string        { return "" }
func (Unavailable) SetNumThreads(int32)    {}
func (Unavailable) NumThreads() int32      { return 0 }
func (Unavailable) SetUseOptimized(bool)   {}
func (Unavailable) UseOptimized() bool     { return false }
func (Unavailable) CUDADeviceCount() int32 { return 0 }

func (Unavailable) MatNew() ffi.Handle[Mat]                      { return ffi.Handle[Mat]{} }
func (Unavailable) MatNewWithSize(int32, int32, int32) ffi.Handle[Mat] { return ffi.Handle[Mat]{} }
func (Unavailable) MatFromBytes(int32, int32, int32, []byte) ffi.Result[ffi.Handle[Mat]] {
	return fail[ffi.Handle[Mat]]()
}
func (Unavailable) MatRelease(ffi.Handle[Mat])            {}
func (Unavailable) MatInfo(ffi.Handle[Mat]) MatInfo       { return MatInfo{} }
func (Unavailable) MatIsValid(ffi.Handle[Mat]) bool       { return false }
func (Unavailable) MatData(ffi.Handle[Mat]) ffi.Vec[byte] { return ffi.Vec[byte]{} }
func (Unavailable) MatRegion(ffi.Handle[Mat], types.Rect) ffi.Result[ffi.Handle[Mat]] {
	return fail[ffi.Handle[Mat]]()
}
func (Unavailable) MatResize(ffi.Handle[Mat], types.Size, float64, float64, int32) ffi.Result[ffi.Handle[Mat]] {
	return fail[ffi.Handle[Mat]]()
}
func (Unavailable) MatCvtColor(ffi.Handle[Mat], int32) ffi.Result[ffi.Handle[Mat]] {
	return fail[ffi.Handle[Mat]]()
}
func (Unavailable) MatMixChannels(ffi.Handle[Mat], int32, []int32) ffi.Result[ffi.Handle[Mat]] {
	return fail[ffi.Handle[Mat]]()
}
func (Unavailable) MatFlip(ffi.Handle[Mat], int32) ffi.Handle[Mat] { return ffi.Handle[Mat]{} }
func (Unavailable) MatInRange(ffi.Handle[Mat], types.Scalar, types.Scalar) ffi.Result[ffi.Handle[Mat]] {
	return fail[ffi.Handle[Mat]]()
}
func (Unavailable) MatThreshold(ffi.Handle[Mat], float64, float64, int32) ffi.Result[ffi.Handle[Mat]] {
	return fail[ffi.Handle[Mat]]()
}
func (Unavailable) MatConvertTo(ffi.Handle[Mat], int32, float64, float64) ffi.Result[ffi.Handle[Mat]] {
	return fail[ffi.Handle[Mat]]()
}
func (Unavailable) MatSetTo(ffi.Handle[Mat], types.Scalar)                           {}
func (Unavailable) MatRectangle(ffi.Handle[Mat], types.Rect, types.Scalar, int32)    {}
func (Unavailable) MatCountNonZero(ffi.Handle[Mat]) ffi.Result[int32]                { return fail[int32]() }
func (Unavailable) MatFindNonZero(ffi.Handle[Mat]) ffi.Vec[types.Point]              { return ffi.Vec[types.Point]{} }
func (Unavailable) MatMinMaxLoc(ffi.Handle[Mat]) ffi.Result[types.MinMaxLoc]         { return fail[types.MinMaxLoc]() }
func (Unavailable) MatMean(ffi.Handle[Mat]) types.Scalar                             { return types.Scalar{} }
func (Unavailable) ImRead(string, int32) ffi.Handle[Mat]                             { return ffi.Handle[Mat]{} }
func (Unavailable) ImDecode([]byte, int32) ffi.Handle[Mat]                           { return ffi.Handle[Mat]{} }
func (Unavailable) ImWrite(string, ffi.Handle[Mat]) ffi.Result[bool]                 { return fail[bool]() }
func (Unavailable) ImEncode(string, ffi.Handle[Mat]) ffi.Result[ffi.Vec[byte]]       { return fail[ffi.Vec[byte]]() }
func (Unavailable) GpuMatNew() ffi.Handle[GpuMat]                                    { return ffi.Handle[GpuMat]{} }
func (Unavailable) GpuMatUpload(ffi.Handle[GpuMat], ffi.Handle[Mat]) ffi.Result[bool] { return fail[bool]() }
func (Unavailable) GpuMatDownload(ffi.Handle[GpuMat]) ffi.Result[ffi.Handle[Mat]] {
	return fail[ffi.Handle[Mat]]()
}
func (Unavailable) GpuMatRelease(ffi.Handle[GpuMat]) {}

func (Unavailable) CascadeNew(string) ffi.Result[ffi.Handle[Cascade]] {
	return fail[ffi.Handle[Cascade]]()
}
func (Unavailable) CascadeDetectMultiScale(ffi.Handle[Cascade], ffi.Handle[Mat], CascadeParams) ffi.Vec[types.Rect] {
	return ffi.Vec[types.Rect]{}
}
func (Unavailable) CascadeRelease(ffi.Handle[Cascade])                     {}
func (Unavailable) SvmDetectorDefaultPeople() ffi.Handle[SvmDetector]      { return ffi.Handle[SvmDetector]{} }
func (Unavailable) SvmDetectorDaimlerPeople() ffi.Handle[SvmDetector]      { return ffi.Handle[SvmDetector]{} }
func (Unavailable) SvmDetectorNew([]float32) ffi.Handle[SvmDetector]       { return ffi.Handle[SvmDetector]{} }
func (Unavailable) SvmDetectorCoefficients(ffi.Handle[SvmDetector]) ffi.Vec[float32] {
	return ffi.Vec[float32]{}
}
func (Unavailable) SvmDetectorRelease(ffi.Handle[SvmDetector]) {}
func (Unavailable) HOGNew(HOGParams) ffi.Handle[HOG]           { return ffi.Handle[HOG]{} }
func (Unavailable) HOGDescriptorSize(ffi.Handle[HOG]) int32    { return 0 }
func (Unavailable) HOGSetSVMDetector(ffi.Handle[HOG], ffi.Handle[SvmDetector]) ffi.Result[bool] {
	return fail[bool]()
}
func (Unavailable) HOGDetectMultiScale(ffi.Handle[HOG], ffi.Handle[Mat], HOGDetectParams) (ffi.Vec[types.Rect], ffi.Vec[float64]) {
	return ffi.Vec[types.Rect]{}, ffi.Vec[float64]{}
}
func (Unavailable) HOGCompute(ffi.Handle[HOG], ffi.Handle[Mat], types.Size, types.Size) ffi.Vec[float32] {
	return ffi.Vec[float32]{}
}
func (Unavailable) HOGRelease(ffi.Handle[HOG]) {}

func (Unavailable) MSERNew(MSERParams) ffi.Handle[MSER] { return ffi.Handle[MSER]{} }
func (Unavailable) MSERDetectRegions(ffi.Handle[MSER], ffi.Handle[Mat]) (ffi.Vec[ffi.RawVec[types.Point]], ffi.Vec[types.Rect]) {
	return ffi.Vec[ffi.RawVec[types.Point]]{}, ffi.Vec[types.Rect]{}
}
func (Unavailable) MSERRelease(ffi.Handle[MSER])                       {}
func (Unavailable) SIFTNew(SIFTParams) ffi.Result[ffi.Handle[SIFT]]    { return fail[ffi.Handle[SIFT]]() }
func (Unavailable) SIFTDetectAndCompute(ffi.Handle[SIFT], ffi.Handle[Mat], ffi.Handle[Mat]) (ffi.Vec[types.KeyPoint], ffi.Handle[Mat]) {
	return ffi.Vec[types.KeyPoint]{}, ffi.Handle[Mat]{}
}
func (Unavailable) SIFTRelease(ffi.Handle[SIFT])                    {}
func (Unavailable) SURFNew(SURFParams) ffi.Result[ffi.Handle[SURF]] { return fail[ffi.Handle[SURF]]() }
func (Unavailable) SURFDetectAndCompute(ffi.Handle[SURF], ffi.Handle[Mat], ffi.Handle[Mat]) (ffi.Vec[types.KeyPoint], ffi.Handle[Mat]) {
	return ffi.Vec[types.KeyPoint]{}, ffi.Handle[Mat]{}
}
func (Unavailable) SURFRelease(ffi.Handle[SURF])                          {}
func (Unavailable) MatcherNew(int32) ffi.Result[ffi.Handle[Matcher]]      { return fail[ffi.Handle[Matcher]]() }
func (Unavailable) MatcherAdd(ffi.Handle[Matcher], []ffi.Handle[Mat])     {}
func (Unavailable) MatcherTrain(ffi.Handle[Matcher]) ffi.Result[bool]     { return fail[bool]() }
func (Unavailable) MatcherMatch(ffi.Handle[Matcher], ffi.Handle[Mat], ffi.Handle[Mat]) ffi.Vec[types.DMatch] {
	return ffi.Vec[types.DMatch]{}
}
func (Unavailable) MatcherKnnMatch(ffi.Handle[Matcher], ffi.Handle[Mat], ffi.Handle[Mat], int32) ffi.Vec[ffi.RawVec[types.DMatch]] {
	return ffi.Vec[ffi.RawVec[types.DMatch]]{}
}
func (Unavailable) MatcherRelease(ffi.Handle[Matcher]) {}
func (Unavailable) BOWNew(int32, types.TermCriteria, int32, int32) ffi.Handle[BOWTrainer] {
	return ffi.Handle[BOWTrainer]{}
}
func (Unavailable) BOWAdd(ffi.Handle[BOWTrainer], ffi.Handle[Mat])    {}
func (Unavailable) BOWDescriptorsCount(ffi.Handle[BOWTrainer]) int32  { return 0 }
func (Unavailable) BOWCluster(ffi.Handle[BOWTrainer]) ffi.Result[ffi.Handle[Mat]] {
	return fail[ffi.Handle[Mat]]()
}
func (Unavailable) BOWRelease(ffi.Handle[BOWTrainer]) {}

func (Unavailable) HashNew(int32) ffi.Result[ffi.Handle[ImgHash]] { return fail[ffi.Handle[ImgHash]]() }
func (Unavailable) HashCompute(ffi.Handle[ImgHash], ffi.Handle[Mat]) ffi.Result[ffi.Handle[Mat]] {
	return fail[ffi.Handle[Mat]]()
}
func (Unavailable) HashCompare(ffi.Handle[ImgHash], ffi.Handle[Mat], ffi.Handle[Mat]) float64 { return 0 }
func (Unavailable) HashRelease(ffi.Handle[ImgHash])                                           {}

func (Unavailable) OCRNew(int32, OCRParams) ffi.Result[ffi.Handle[OCR]] { return fail[ffi.Handle[OCR]]() }
func (Unavailable) OCRRun(ffi.Handle[OCR], ffi.Handle[Mat], int32, int32) OCRRun {
	return OCRRun{}
}
func (Unavailable) OCRRelease(ffi.Handle[OCR]) {}

func (Unavailable) BgSubMOG2New(int32, float64, bool) ffi.Handle[BgSub] { return ffi.Handle[BgSub]{} }
func (Unavailable) BgSubKNNNew(int32, float64, bool) ffi.Handle[BgSub]  { return ffi.Handle[BgSub]{} }
func (Unavailable) BgSubApply(ffi.Handle[BgSub], ffi.Handle[Mat], float64) ffi.Result[ffi.Handle[Mat]] {
	return fail[ffi.Handle[Mat]]()
}
func (Unavailable) BgSubBackgroundImage(ffi.Handle[BgSub]) ffi.Option[ffi.Handle[Mat]] {
	return ffi.None[ffi.Handle[Mat]]()
}
func (Unavailable) BgSubRelease(ffi.Handle[BgSub]) {}
func (Unavailable) CamShift(ffi.Handle[Mat], types.Rect, types.TermCriteria) (types.RotatedRect, types.Rect) {
	return types.RotatedRect{}, types.Rect{}
}
func (Unavailable) MeanShift(ffi.Handle[Mat], types.Rect, types.TermCriteria) (int32, types.Rect) {
	return 0, types.Rect{}
}

func (Unavailable) WindowNew(string, int32) ffi.Handle[Window]          { return ffi.Handle[Window]{} }
func (Unavailable) WindowShow(ffi.Handle[Window], ffi.Handle[Mat])      {}
func (Unavailable) WindowSetMouseCallback(ffi.Handle[Window], uintptr)  {}
func (Unavailable) WindowClearMouseCallback(ffi.Handle[Window])         {}
func (Unavailable) WindowRelease(ffi.Handle[Window])                    {}
func (Unavailable) WaitKey(int32) ffi.Option[int32]                     { return ffi.None[int32]() }
