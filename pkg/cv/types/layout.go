package types

// Field offsets and sizes of the native structs these types mirror, as laid
// out by the C++ shim on every supported 64-bit target. A mismatch is silent
// memory corruption, so layout_test.go pins every type against this table.
type Layout struct {
	Size    uintptr
	Offsets []uintptr
}

// NativeLayouts records the native layout of each value type by name.
var NativeLayouts = map[string]Layout{
	"Point":        {Size: 8, Offsets: []uintptr{0, 4}},
	"Point2f":      {Size: 8, Offsets: []uintptr{0, 4}},
	"Size":         {Size: 8, Offsets: []uintptr{0, 4}},
	"Size2f":       {Size: 8, Offsets: []uintptr{0, 4}},
	"Rect":         {Size: 16, Offsets: []uintptr{0, 4, 8, 12}},
	"Scalar":       {Size: 32, Offsets: []uintptr{0}},
	"TermCriteria": {Size: 16, Offsets: []uintptr{0, 4, 8}},
	"KeyPoint":     {Size: 28, Offsets: []uintptr{0, 8, 12, 16, 20, 24}},
	"DMatch":       {Size: 16, Offsets: []uintptr{0, 4, 8, 12}},
	"RotatedRect":  {Size: 20, Offsets: []uintptr{0, 8, 16}},
	"MinMaxLoc":    {Size: 32, Offsets: []uintptr{0, 8, 16, 24}},
}
