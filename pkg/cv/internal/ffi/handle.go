package ffi

// Sharing states what the native library guarantees for one object kind.
type Sharing uint8

const (
	// Transferable objects may move between goroutines, one user at a time.
	Transferable Sharing = iota
	// Shareable objects may be used from several goroutines at once.
	Shareable
)

func (s Sharing) String() string {
	switch s {
	case Transferable:
		return "transferable"
	case Shareable:
		return "shareable"
	default:
		return "unknown"
	}
}

// Kind is implemented by the zero-sized marker types that name a native
// object kind.
type Kind interface {
	KindName() string
	Sharing() Sharing
}

// Handle is an opaque reference to a native object of kind K. The zero Handle
// is the null handle.
type Handle[K Kind] struct {
	addr uintptr
}

// HandleAt wraps a native address. Only the backend calls this.
func HandleAt[K Kind](addr uintptr) Handle[K] {
	return Handle[K]{addr: addr}
}

// Addr returns the native address. Only the backend calls this.
func (h Handle[K]) Addr() uintptr { return h.addr }

// IsNull reports whether h is the null handle.
func (h Handle[K]) IsNull() bool { return h.addr == 0 }

// KindName returns the name of K.
func KindName[K Kind]() string {
	var k K
	return k.KindName()
}

// SharingOf returns the sharing policy of K.
func SharingOf[K Kind]() Sharing {
	var k K
	return k.Sharing()
}
