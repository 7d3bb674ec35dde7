// Package cv is the entry point of the OpenCV bindings. It opens the native
// library with a validated Config, re-exports the error taxonomy shared by
// every subpackage and reports versions.
//
// The wrappers themselves live in subpackages: core (Mat, GpuMat, codecs),
// objdetect, features2d, imghash, text, video and highgui. Each wrapper owns
// exactly one native object and releases it on Close.
//
// The native bindings are compiled only with cgo and the opencv build tag:
//
//	go build -tags opencv ./...
//
// Without them every constructor fails with ErrNotBuilt, so code using this
// module still compiles and tests everywhere.
package cv
