package types

import "image"

// Point is cv::Point (two int32 fields).
type Point struct {
	X int32
	Y int32
}

// Point2f is cv::Point2f.
type Point2f struct {
	X float32
	Y float32
}

// Size is cv::Size.
type Size struct {
	Width  int32
	Height int32
}

// Size2f is cv::Size2f.
type Size2f struct {
	Width  float32
	Height float32
}

// Rect is cv::Rect: four consecutive int32 fields.
type Rect struct {
	X      int32
	Y      int32
	Width  int32
	Height int32
}

// Scalar is cv::Scalar, four doubles.
type Scalar struct {
	Val [4]float64
}

// TermCriteria is cv::TermCriteria. Type is a bitmask of TermCount and
// TermEps.
type TermCriteria struct {
	Type     int32
	MaxCount int32
	Epsilon  float64
}

// Termination criteria flags.
const (
	TermCount int32 = 1
	TermEps   int32 = 2
)

// KeyPoint is cv::KeyPoint.
type KeyPoint struct {
	Pt       Point2f
	Size     float32
	Angle    float32
	Response float32
	Octave   int32
	ClassID  int32
}

// DMatch is cv::DMatch.
type DMatch struct {
	QueryIdx int32
	TrainIdx int32
	ImgIdx   int32
	Distance float32
}

// RotatedRect is cv::RotatedRect.
type RotatedRect struct {
	Center Point2f
	Size   Size2f
	Angle  float32
}

// MinMaxLoc is the result of cv::minMaxLoc on a single channel.
type MinMaxLoc struct {
	Min    float64
	Max    float64
	MinLoc Point
	MaxLoc Point
}

// NewScalar builds a Scalar from up to four channel values.
func NewScalar(v0, v1, v2, v3 float64) Scalar {
	return Scalar{Val: [4]float64{v0, v1, v2, v3}}
}

// RectFromImage converts an image.Rectangle.
func RectFromImage(r image.Rectangle) Rect {
	return Rect{
		X:      int32(r.Min.X),
		Y:      int32(r.Min.Y),
		Width:  int32(r.Dx()),
		Height: int32(r.Dy()),
	}
}

// Image converts r to an image.Rectangle.
func (r Rect) Image() image.Rectangle {
	return image.Rect(int(r.X), int(r.Y), int(r.X+r.Width), int(r.Y+r.Height))
}

// Area returns Width*Height.
func (r Rect) Area() int32 { return r.Width * r.Height }

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether p lies inside r (right and bottom edges excluded,
// as in cv::Rect::contains).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.Width && p.Y >= r.Y && p.Y < r.Y+r.Height
}

// Area returns Width*Height.
func (s Size) Area() int32 { return s.Width * s.Height }
