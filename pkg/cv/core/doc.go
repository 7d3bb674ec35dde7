// Package core wraps cv::Mat, cv::cuda::GpuMat and the image codecs.
//
// Every wrapper owns exactly one native object and releases it exactly once,
// on Close or, for wrappers that are dropped, from a finalizer. Shapes are
// cached in Go; operations that change shape return a new Mat.
//
//	img, err := core.IMRead("in.png", core.ImreadColor)
//	if err != nil {
//		return err
//	}
//	defer img.Close()
//	if !img.IsValid() {
//		return errors.New("unreadable image")
//	}
//	gray, err := img.CvtColor(core.ColorBGRToGray)
package core
