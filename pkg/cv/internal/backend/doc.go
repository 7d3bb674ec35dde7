// Package backend hosts the flat native function table the Go API calls
// through. The cgo implementation lives behind the `cgo && opencv` build tags
// so that the rest of the repository compiles without cgo or OpenCV; other
// builds get a stub that returns null handles and ErrNotBuilt.
//
// No package other than this one imports "C".
package backend
