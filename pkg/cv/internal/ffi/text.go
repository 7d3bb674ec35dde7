package ffi

import (
	"strings"
	"sync"
	"unsafe"
)

// CStr is a {ptr, len} string view with the layout of the native cv_str_t.
// Inside a Vec its bytes belong to the Vec's buffer.
type CStr struct {
	Ptr *byte
	Len uintptr
}

// CStrOf points a CStr at the bytes of s. The bytes must not be modified.
func CStrOf(s string) CStr {
	if s == "" {
		return CStr{}
	}
	return CStr{Ptr: unsafe.StringData(s), Len: uintptr(len(s))}
}

// String copies the bytes into a Go string. Invalid UTF-8 sequences are
// replaced with U+FFFD.
func (c CStr) String() string {
	if c.Ptr == nil || c.Len == 0 {
		return ""
	}
	return strings.ToValidUTF8(string(unsafe.Slice(c.Ptr, c.Len)), "\uFFFD")
}

// Text is a single string allocated by native code together with the function
// that frees it.
type Text struct {
	s *textState
}

type textState struct {
	mu   sync.Mutex
	c    CStr
	free func(CStr)
	done bool
}

// NewText wraps a native string. free is called once, by the first Take.
func NewText(c CStr, free func(CStr)) Text {
	return Text{s: &textState{c: c, free: free}}
}

// Take copies the string into Go memory and then frees the native storage.
// Later calls return "".
func (t Text) Take() string {
	if t.s == nil {
		return ""
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.s.done {
		return ""
	}
	t.s.done = true
	out := t.s.c.String()
	if t.s.free != nil {
		t.s.free(t.s.c)
	}
	t.s.c = CStr{}
	return out
}
