//go:build cgo && opencv

package backend

/*
#include <stdint.h>
*/
import "C"

// cvGoMouseTrampoline is installed as the native mouse callback. user is the
// registry id of the Go handler; an id that is no longer registered is ignored.
//
//export cvGoMouseTrampoline
func cvGoMouseTrampoline(event, x, y, flags C.int32_t, user C.uintptr_t) {
	Mouse.Dispatch(uintptr(user), MouseRaw{
		Event: int32(event),
		X:     int32(x),
		Y:     int32(y),
		Flags: int32(flags),
	})
}
