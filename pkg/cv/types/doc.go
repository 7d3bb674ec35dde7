// Package types holds the plain value types shared with the native library:
// points, sizes, rectangles, scalars, keypoints and matches.
//
// Every type here has the same field order, width and size as its C
// counterpart so that slices of them can be copied straight out of native
// buffers. They carry no ownership and are never released.
package types
