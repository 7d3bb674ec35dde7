package backend

import (
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/types"
)

// MatInfo is the shape snapshot a Mat wrapper caches.
type MatInfo struct {
	Rows int32
	Cols int32
	Type int32
}

// CascadeParams mirrors CascadeClassifier::detectMultiScale arguments.
type CascadeParams struct {
	ScaleFactor  float64
	MinNeighbors int32
	Flags        int32
	MinSize      types.Size
	MaxSize      types.Size
}

// HOGParams mirrors the HOGDescriptor constructor.
type HOGParams struct {
	WinSize     types.Size
	BlockSize   types.Size
	BlockStride types.Size
	CellSize    types.Size
	NBins       int32
}

// HOGDetectParams mirrors HOGDescriptor::detectMultiScale arguments.
type HOGDetectParams struct {
	HitThreshold         float64
	WinStride            types.Size
	Padding              types.Size
	Scale                float64
	FinalThreshold       float64
	UseMeanshiftGrouping bool
}

// MSERParams mirrors MSER::create.
type MSERParams struct {
	Delta         int32
	MinArea       int32
	MaxArea       int32
	MaxVariation  float64
	MinDiversity  float64
	MaxEvolution  int32
	AreaThreshold float64
	MinMargin     float64
	EdgeBlurSize  int32
}

// SIFTParams mirrors SIFT::create.
type SIFTParams struct {
	NFeatures         int32
	NOctaveLayers     int32
	ContrastThreshold float64
	EdgeThreshold     float64
	Sigma             float64
}

// SURFParams mirrors xfeatures2d::SURF::create.
type SURFParams struct {
	HessianThreshold float64
	NOctaves         int32
	NOctaveLayers    int32
	Extended         bool
	Upright          bool
}

// OCRParams carries the variant-specific constructor arguments of the text
// module recognizers.
type OCRParams struct {
	// Tesseract
	DataPath    string
	Language    string
	Whitelist   string
	EngineMode  int32
	PageSegMode int32

	// HMM decoder
	ClassifierPath string
	Vocabulary     string
	Transition     ffi.Handle[Mat]
	Emission       ffi.Handle[Mat]
	DecoderMode    int32
	ClassifierType int32

	// Holistic word recognizer
	ArchPath    string
	WeightsPath string
	WordsPath   string
}

// OCRRun is what OCR::run hands back: the full text plus per-component boxes,
// words and confidences, each in its own native buffer.
type OCRRun struct {
	Text        ffi.Text
	Boxes       ffi.Vec[types.Rect]
	Words       ffi.Vec[ffi.CStr]
	Confidences ffi.Vec[float32]
}

// MouseRaw is a mouse event exactly as the native callback reports it.
type MouseRaw struct {
	Event int32
	X     int32
	Y     int32
	Flags int32
}

// Runtime covers global library state.
type Runtime interface {
	Version() string
	SetNumThreads(n int32)
	NumThreads() int32
	SetUseOptimized(on bool)
	UseOptimized() bool
	CUDADeviceCount() int32
}

// Core covers cv::Mat and imgcodecs.
type Core interface {
	MatNew() ffi.Handle[Mat]
	MatNewWithSize(rows, cols, typ int32) ffi.Handle[Mat]
	MatFromBytes(rows, cols, typ int32, data []byte) ffi.Result[ffi.Handle[Mat]]
	MatRelease(ffi.Handle[Mat])
	MatInfo(ffi.Handle[Mat]) MatInfo
	MatIsValid(ffi.Handle[Mat]) bool
	MatData(ffi.Handle[Mat]) ffi.Vec[byte]
	MatRegion(ffi.Handle[Mat], types.Rect) ffi.Result[ffi.Handle[Mat]]
	MatResize(m ffi.Handle[Mat], size types.Size, fx, fy float64, interp int32) ffi.Result[ffi.Handle[Mat]]
	MatCvtColor(m ffi.Handle[Mat], code int32) ffi.Result[ffi.Handle[Mat]]
	MatMixChannels(m ffi.Handle[Mat], dstChannels int32, fromTo []int32) ffi.Result[ffi.Handle[Mat]]
	MatFlip(m ffi.Handle[Mat], code int32) ffi.Handle[Mat]
	MatInRange(m ffi.Handle[Mat], lo, hi types.Scalar) ffi.Result[ffi.Handle[Mat]]
	MatThreshold(m ffi.Handle[Mat], thresh, maxval float64, typ int32) ffi.Result[ffi.Handle[Mat]]
	MatConvertTo(m ffi.Handle[Mat], rtype int32, alpha, beta float64) ffi.Result[ffi.Handle[Mat]]
	MatSetTo(m ffi.Handle[Mat], s types.Scalar)
	MatRectangle(m ffi.Handle[Mat], r types.Rect, color types.Scalar, thickness int32)
	MatCountNonZero(ffi.Handle[Mat]) ffi.Result[int32]
	MatFindNonZero(ffi.Handle[Mat]) ffi.Vec[types.Point]
	MatMinMaxLoc(ffi.Handle[Mat]) ffi.Result[types.MinMaxLoc]
	MatMean(ffi.Handle[Mat]) types.Scalar

	ImRead(path string, flags int32) ffi.Handle[Mat]
	ImDecode(buf []byte, flags int32) ffi.Handle[Mat]
	ImWrite(path string, m ffi.Handle[Mat]) ffi.Result[bool]
	ImEncode(ext string, m ffi.Handle[Mat]) ffi.Result[ffi.Vec[byte]]
}

// CUDA covers cv::cuda::GpuMat.
type CUDA interface {
	GpuMatNew() ffi.Handle[GpuMat]
	GpuMatUpload(g ffi.Handle[GpuMat], m ffi.Handle[Mat]) ffi.Result[bool]
	GpuMatDownload(ffi.Handle[GpuMat]) ffi.Result[ffi.Handle[Mat]]
	GpuMatRelease(ffi.Handle[GpuMat])
}

// ObjDetect covers cascades, HOG and SVM detectors.
type ObjDetect interface {
	CascadeNew(path string) ffi.Result[ffi.Handle[Cascade]]
	CascadeDetectMultiScale(c ffi.Handle[Cascade], img ffi.Handle[Mat], p CascadeParams) ffi.Vec[types.Rect]
	CascadeRelease(ffi.Handle[Cascade])

	SvmDetectorDefaultPeople() ffi.Handle[SvmDetector]
	SvmDetectorDaimlerPeople() ffi.Handle[SvmDetector]
	SvmDetectorNew(coeffs []float32) ffi.Handle[SvmDetector]
	SvmDetectorCoefficients(ffi.Handle[SvmDetector]) ffi.Vec[float32]
	SvmDetectorRelease(ffi.Handle[SvmDetector])

	HOGNew(HOGParams) ffi.Handle[HOG]
	HOGDescriptorSize(ffi.Handle[HOG]) int32
	HOGSetSVMDetector(h ffi.Handle[HOG], d ffi.Handle[SvmDetector]) ffi.Result[bool]
	HOGDetectMultiScale(h ffi.Handle[HOG], img ffi.Handle[Mat], p HOGDetectParams) (ffi.Vec[types.Rect], ffi.Vec[float64])
	HOGCompute(h ffi.Handle[HOG], img ffi.Handle[Mat], winStride, padding types.Size) ffi.Vec[float32]
	HOGRelease(ffi.Handle[HOG])
}

// Features2D covers detectors, descriptors and matchers.
type Features2D interface {
	MSERNew(MSERParams) ffi.Handle[MSER]
	MSERDetectRegions(m ffi.Handle[MSER], img ffi.Handle[Mat]) (ffi.Vec[ffi.RawVec[types.Point]], ffi.Vec[types.Rect])
	MSERRelease(ffi.Handle[MSER])

	SIFTNew(SIFTParams) ffi.Result[ffi.Handle[SIFT]]
	SIFTDetectAndCompute(s ffi.Handle[SIFT], img, mask ffi.Handle[Mat]) (ffi.Vec[types.KeyPoint], ffi.Handle[Mat])
	SIFTRelease(ffi.Handle[SIFT])

	SURFNew(SURFParams) ffi.Result[ffi.Handle[SURF]]
	SURFDetectAndCompute(s ffi.Handle[SURF], img, mask ffi.Handle[Mat]) (ffi.Vec[types.KeyPoint], ffi.Handle[Mat])
	SURFRelease(ffi.Handle[SURF])

	MatcherNew(kind int32) ffi.Result[ffi.Handle[Matcher]]
	MatcherAdd(m ffi.Handle[Matcher], descriptors []ffi.Handle[Mat])
	MatcherTrain(ffi.Handle[Matcher]) ffi.Result[bool]
	MatcherMatch(m ffi.Handle[Matcher], query, train ffi.Handle[Mat]) ffi.Vec[types.DMatch]
	MatcherKnnMatch(m ffi.Handle[Matcher], query, train ffi.Handle[Mat], k int32) ffi.Vec[ffi.RawVec[types.DMatch]]
	MatcherRelease(ffi.Handle[Matcher])

	BOWNew(clusterCount int32, tc types.TermCriteria, attempts, flags int32) ffi.Handle[BOWTrainer]
	BOWAdd(b ffi.Handle[BOWTrainer], descriptors ffi.Handle[Mat])
	BOWDescriptorsCount(ffi.Handle[BOWTrainer]) int32
	BOWCluster(ffi.Handle[BOWTrainer]) ffi.Result[ffi.Handle[Mat]]
	BOWRelease(ffi.Handle[BOWTrainer])
}

// ImgHashing covers the img_hash module.
type ImgHashing interface {
	HashNew(algo int32) ffi.Result[ffi.Handle[ImgHash]]
	HashCompute(h ffi.Handle[ImgHash], img ffi.Handle[Mat]) ffi.Result[ffi.Handle[Mat]]
	HashCompare(h ffi.Handle[ImgHash], a, b ffi.Handle[Mat]) float64
	HashRelease(ffi.Handle[ImgHash])
}

// Text covers the text module recognizers.
type Text interface {
	OCRNew(variant int32, p OCRParams) ffi.Result[ffi.Handle[OCR]]
	OCRRun(o ffi.Handle[OCR], img ffi.Handle[Mat], minConfidence, level int32) OCRRun
	OCRRelease(ffi.Handle[OCR])
}

// Video covers background subtraction and tracking.
type Video interface {
	BgSubMOG2New(history int32, varThreshold float64, detectShadows bool) ffi.Handle[BgSub]
	BgSubKNNNew(history int32, dist2Threshold float64, detectShadows bool) ffi.Handle[BgSub]
	BgSubApply(b ffi.Handle[BgSub], frame ffi.Handle[Mat], learningRate float64) ffi.Result[ffi.Handle[Mat]]
	// BgSubBackgroundImage is absent until the model has seen a frame. When
	// absent the native side frees its own slot.
	BgSubBackgroundImage(ffi.Handle[BgSub]) ffi.Option[ffi.Handle[Mat]]
	BgSubRelease(ffi.Handle[BgSub])

	CamShift(prob ffi.Handle[Mat], window types.Rect, tc types.TermCriteria) (types.RotatedRect, types.Rect)
	MeanShift(prob ffi.Handle[Mat], window types.Rect, tc types.TermCriteria) (int32, types.Rect)
}

// HighGUI covers named windows and their mouse callbacks.
type HighGUI interface {
	WindowNew(name string, flags int32) ffi.Handle[Window]
	WindowShow(w ffi.Handle[Window], m ffi.Handle[Mat])
	// WindowSetMouseCallback installs the trampoline with id as its user
	// data, replacing any previous one.
	WindowSetMouseCallback(w ffi.Handle[Window], id uintptr)
	// WindowClearMouseCallback uninstalls the trampoline. After it returns
	// native code no longer holds the id.
	WindowClearMouseCallback(ffi.Handle[Window])
	WindowRelease(ffi.Handle[Window])
	// WaitKey is absent when the delay elapsed without a key press.
	WaitKey(delayMs int32) ffi.Option[int32]
}

// Native is the complete foreign function table.
type Native interface {
	Runtime
	Core
	CUDA
	ObjDetect
	Features2D
	ImgHashing
	Text
	Video
	HighGUI
}
