// Package features2d wraps OpenCV's keypoint detectors (MSER, SIFT, SURF),
// descriptor matchers and the bag-of-words trainer.
//
// Keypoint and match vectors come back from the native library in buffers
// that are copied into Go slices and freed before a call returns; nested
// vectors (MSER regions, k-nearest matches) are copied row by row before the
// single outer release.
package features2d
