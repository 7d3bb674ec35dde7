// Package objdetect wraps OpenCV's Haar/LBP cascade classifier and the HOG
// people detector.
//
// Each type owns one native object. None of them may be used from two
// goroutines at once; hand them over instead.
package objdetect
