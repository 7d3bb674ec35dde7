// Package ffi holds the ownership rules every native call goes through.
//
// # Handles
//
// A Handle[K] is an opaque reference to a native object of kind K. K is a
// zero-sized marker type declared by the backend; it makes a Mat handle and a
// classifier handle distinct Go types. The address inside is unexported and
// only the backend can mint or read it.
//
// # Ownership
//
// Owned[K] pairs a handle with the native function that releases it. Close
// releases exactly once, a finalizer covers wrappers that are dropped without
// Close, and Borrow lends the handle for the duration of a single call.
//
// # Foreign containers
//
// Native calls hand back buffers they allocated: Vec[T] ({ptr, len, free}),
// Text (one string) and Result[T] (value or error text). Each is consumed
// once: Unpack, Take and Into copy into Go memory and then release the native
// storage. Consuming a Vec or Text a second time is a no-op that yields an
// empty value; a second Into returns ErrConsumed.
//
// # Callbacks
//
// Registry[E] stores Go closures under integer ids that native code carries
// as its user-data pointer. Native code never frees an id; the owner of the
// Registration does, after it has unregistered the id with native code.
package ffi
