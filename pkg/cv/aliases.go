package cv

import (
	"github.com/hsiuhsiu/opencv-go/pkg/cv/core"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/types"
)

// Type aliases so the common value types can be spelled cv.Rect and so on.

type (
	Mat          = core.Mat
	MatType      = core.MatType
	Point        = types.Point
	Point2f      = types.Point2f
	Size         = types.Size
	Rect         = types.Rect
	Scalar       = types.Scalar
	TermCriteria = types.TermCriteria
	KeyPoint     = types.KeyPoint
	DMatch       = types.DMatch
)

// NewMat returns an empty Mat. See core.NewMat.
func NewMat() *Mat {
	return core.NewMat()
}

// IMRead reads an image file. See core.IMRead.
func IMRead(path string, mode core.ImreadMode) (*Mat, error) {
	return core.IMRead(path, mode)
}
