package core

import (
	"fmt"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
)

// Depth is the element type of a Mat channel.
type Depth int32

const (
	DepthU8  Depth = 0
	DepthS8  Depth = 1
	DepthU16 Depth = 2
	DepthS16 Depth = 3
	DepthS32 Depth = 4
	DepthF32 Depth = 5
	DepthF64 Depth = 6
)

// Valid reports whether d is a known depth.
func (d Depth) Valid() bool { return d >= DepthU8 && d <= DepthF64 }

// Size returns the byte size of one channel value.
func (d Depth) Size() int {
	switch d {
	case DepthU8, DepthS8:
		return 1
	case DepthU16, DepthS16:
		return 2
	case DepthS32, DepthF32:
		return 4
	case DepthF64:
		return 8
	}
	return 0
}

func (d Depth) String() string {
	switch d {
	case DepthU8:
		return "8U"
	case DepthS8:
		return "8S"
	case DepthU16:
		return "16U"
	case DepthS16:
		return "16S"
	case DepthS32:
		return "32S"
	case DepthF32:
		return "32F"
	case DepthF64:
		return "64F"
	}
	return fmt.Sprintf("Depth(%d)", int32(d))
}

// MatType packs a depth and a channel count the way CV_MAKETYPE does.
type MatType int32

const (
	MatTypeCV8UC1  MatType = 0
	MatTypeCV8UC2  MatType = 8
	MatTypeCV8UC3  MatType = 16
	MatTypeCV8UC4  MatType = 24
	MatTypeCV16UC1 MatType = 2
	MatTypeCV32SC1 MatType = 4
	MatTypeCV32FC1 MatType = 5
	MatTypeCV32FC3 MatType = 21
	MatTypeCV64FC1 MatType = 6
)

// maxChannels is CV_CN_MAX.
const maxChannels = 512

// MakeType combines a depth and a channel count.
func MakeType(d Depth, channels int) MatType {
	return MatType(int32(d) + int32(channels-1)<<3)
}

// Depth returns the channel element type.
func (t MatType) Depth() Depth { return Depth(int32(t) & 7) }

// Channels returns the number of channels.
func (t MatType) Channels() int { return int(int32(t)>>3) + 1 }

// Valid reports whether t has a known depth and a channel count in range.
func (t MatType) Valid() bool {
	return t >= 0 && t.Depth().Valid() && t.Channels() <= maxChannels
}

func (t MatType) String() string {
	return fmt.Sprintf("CV_%sC%d", t.Depth(), t.Channels())
}

// ImreadMode selects how IMRead and IMDecode convert the decoded image.
type ImreadMode int32

const (
	ImreadUnchanged ImreadMode = -1
	ImreadGrayscale ImreadMode = 0
	ImreadColor     ImreadMode = 1
)

func (m ImreadMode) Valid() bool { return m >= ImreadUnchanged && m <= ImreadColor }

// ColorConversion is a cvtColor code.
type ColorConversion int32

const (
	ColorBGRToBGRA ColorConversion = 0
	ColorBGRAToBGR ColorConversion = 1
	ColorBGRToRGB  ColorConversion = 4
	ColorRGBToBGR  ColorConversion = ColorBGRToRGB
	ColorBGRToGray ColorConversion = 6
	ColorRGBToGray ColorConversion = 7
	ColorGrayToBGR ColorConversion = 8
	ColorGrayToRGB ColorConversion = ColorGrayToBGR
	ColorBGRToHSV  ColorConversion = 40
	ColorHSVToBGR  ColorConversion = 54
)

func (c ColorConversion) Valid() bool {
	switch c {
	case ColorBGRToBGRA, ColorBGRAToBGR, ColorBGRToRGB, ColorBGRToGray, ColorRGBToGray,
		ColorGrayToBGR, ColorBGRToHSV, ColorHSVToBGR:
		return true
	}
	return false
}

// Interpolation is a resize interpolation flag.
type Interpolation int32

const (
	InterpNearest  Interpolation = 0
	InterpLinear   Interpolation = 1
	InterpCubic    Interpolation = 2
	InterpArea     Interpolation = 3
	InterpLanczos4 Interpolation = 4
)

func (i Interpolation) Valid() bool { return i >= InterpNearest && i <= InterpLanczos4 }

// FlipCode selects the flip axis.
type FlipCode int32

const (
	FlipBoth       FlipCode = -1
	FlipVertical   FlipCode = 0
	FlipHorizontal FlipCode = 1
)

func (f FlipCode) Valid() bool { return f >= FlipBoth && f <= FlipHorizontal }

// ThresholdType selects the threshold operation.
type ThresholdType int32

const (
	ThresholdBinary    ThresholdType = 0
	ThresholdBinaryInv ThresholdType = 1
	ThresholdTrunc     ThresholdType = 2
	ThresholdToZero    ThresholdType = 3
	ThresholdToZeroInv ThresholdType = 4
)

func (t ThresholdType) Valid() bool { return t >= ThresholdBinary && t <= ThresholdToZeroInv }

// checkEnum rejects values outside the known set before they reach native
// code.
func checkEnum[E ffi.Enum](e E) error {
	_, err := ffi.EnumFrom[E](int32(e))
	return err
}

// DepthFrom converts a native depth code.
func DepthFrom(raw int32) (Depth, error) { return ffi.EnumFrom[Depth](raw) }

// MatTypeFrom converts a native type code.
func MatTypeFrom(raw int32) (MatType, error) { return ffi.EnumFrom[MatType](raw) }
