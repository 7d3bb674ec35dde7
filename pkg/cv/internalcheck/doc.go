// Package internalcheck holds policy tests over the binding's source tree.
//
// The tests load the cv packages with golang.org/x/tools/go/packages and
// inspect their syntax and types: only the backend may import "C", no public
// API may expose unsafe.Pointer, and no public package may format values with
// %p or %x, which would leak native addresses into errors and logs.
//
// # Internal Use Only
//
// This package has no API. Applications should use pkg/cv and its
// subpackages instead.
package internalcheck
