package backend

import "github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"

// Marker types for every native object kind. They are never instantiated
// with data; they only parameterize ffi.Handle.
type (
	Mat         struct{}
	GpuMat      struct{}
	Cascade     struct{}
	HOG         struct{}
	SvmDetector struct{}
	MSER        struct{}
	SIFT        struct{}
	SURF        struct{}
	Matcher     struct{}
	BOWTrainer  struct{}
	ImgHash     struct{}
	OCR         struct{}
	BgSub       struct{}
	Window      struct{}
)

// shareable lists the kinds OpenCV documents as safe for concurrent use.
// The img_hash algorithms keep no per-call state in compute/compare. Every
// other kind is transferable only: it may change goroutines, never be used
// from two at once.
var shareable = map[string]bool{
	"ImgHash": true,
}

// Shareable reports whether kind is on the concurrent-use allowlist.
func Shareable(kind string) bool { return shareable[kind] }

func sharing(kind string) ffi.Sharing {
	if shareable[kind] {
		return ffi.Shareable
	}
	return ffi.Transferable
}

func (Mat) KindName() string         { return "Mat" }
func (GpuMat) KindName() string      { return "GpuMat" }
func (Cascade) KindName() string     { return "CascadeClassifier" }
func (HOG) KindName() string         { return "HOGDescriptor" }
func (SvmDetector) KindName() string { return "SvmDetector" }
func (MSER) KindName() string        { return "MSER" }
func (SIFT) KindName() string        { return "SIFT" }
func (SURF) KindName() string        { return "SURF" }
func (Matcher) KindName() string     { return "DescriptorMatcher" }
func (BOWTrainer) KindName() string  { return "BOWKMeansTrainer" }
func (ImgHash) KindName() string     { return "ImgHash" }
func (OCR) KindName() string         { return "OCR" }
func (BgSub) KindName() string       { return "BackgroundSubtractor" }
func (Window) KindName() string      { return "Window" }

func (k Mat) Sharing() ffi.Sharing         { return sharing(k.KindName()) }
func (k GpuMat) Sharing() ffi.Sharing      { return sharing(k.KindName()) }
func (k Cascade) Sharing() ffi.Sharing     { return sharing(k.KindName()) }
func (k HOG) Sharing() ffi.Sharing         { return sharing(k.KindName()) }
func (k SvmDetector) Sharing() ffi.Sharing { return sharing(k.KindName()) }
func (k MSER) Sharing() ffi.Sharing        { return sharing(k.KindName()) }
func (k SIFT) Sharing() ffi.Sharing        { return sharing(k.KindName()) }
func (k SURF) Sharing() ffi.Sharing        { return sharing(k.KindName()) }
func (k Matcher) Sharing() ffi.Sharing     { return sharing(k.KindName()) }
func (k BOWTrainer) Sharing() ffi.Sharing  { return sharing(k.KindName()) }
func (k ImgHash) Sharing() ffi.Sharing     { return sharing(k.KindName()) }
func (k OCR) Sharing() ffi.Sharing         { return sharing(k.KindName()) }
func (k BgSub) Sharing() ffi.Sharing       { return sharing(k.KindName()) }
func (k Window) Sharing() ffi.Sharing      { return sharing(k.KindName()) }
