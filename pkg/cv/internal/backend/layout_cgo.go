//go:build cgo && opencv

package backend

/*
#include "cvapi.h"
*/
import "C"

import (
	"unsafe"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/types"
)

// cLayouts reports the layout of each C struct the value types are copied
// into, keyed like types.NativeLayouts.
func cLayouts() map[string]types.Layout {
	var (
		pt   C.cv_point_t
		pt2f C.cv_point2f_t
		sz   C.cv_size_t
		sz2f C.cv_size2f_t
		rect C.cv_rect_t
		sc   C.cv_scalar_t
		tc   C.cv_term_criteria_t
		kp   C.cv_keypoint_t
		dm   C.cv_dmatch_t
		rr   C.cv_rotated_rect_t
		mm   C.cv_min_max_loc_t
	)
	return map[string]types.Layout{
		"Point":   {Size: uintptr(C.sizeof_cv_point_t), Offsets: []uintptr{unsafe.Offsetof(pt.x), unsafe.Offsetof(pt.y)}},
		"Point2f": {Size: uintptr(C.sizeof_cv_point2f_t), Offsets: []uintptr{unsafe.Offsetof(pt2f.x), unsafe.Offsetof(pt2f.y)}},
		"Size":    {Size: uintptr(C.sizeof_cv_size_t), Offsets: []uintptr{unsafe.Offsetof(sz.width), unsafe.Offsetof(sz.height)}},
		"Size2f":  {Size: uintptr(C.sizeof_cv_size2f_t), Offsets: []uintptr{unsafe.Offsetof(sz2f.width), unsafe.Offsetof(sz2f.height)}},
		"Rect": {Size: uintptr(C.sizeof_cv_rect_t), Offsets: []uintptr{
			unsafe.Offsetof(rect.x), unsafe.Offsetof(rect.y), unsafe.Offsetof(rect.width), unsafe.Offsetof(rect.height),
		}},
		"Scalar": {Size: uintptr(C.sizeof_cv_scalar_t), Offsets: []uintptr{unsafe.Offsetof(sc.val)}},
		"TermCriteria": {Size: uintptr(C.sizeof_cv_term_criteria_t), Offsets: []uintptr{
			unsafe.Offsetof(tc._type), unsafe.Offsetof(tc.max_count), unsafe.Offsetof(tc.epsilon),
		}},
		"KeyPoint": {Size: uintptr(C.sizeof_cv_keypoint_t), Offsets: []uintptr{
			unsafe.Offsetof(kp.pt), unsafe.Offsetof(kp.size), unsafe.Offsetof(kp.angle),
			unsafe.Offsetof(kp.response), unsafe.Offsetof(kp.octave), unsafe.Offsetof(kp.class_id),
		}},
		"DMatch": {Size: uintptr(C.sizeof_cv_dmatch_t), Offsets: []uintptr{
			unsafe.Offsetof(dm.query_idx), unsafe.Offsetof(dm.train_idx), unsafe.Offsetof(dm.img_idx), unsafe.Offsetof(dm.distance),
		}},
		"RotatedRect": {Size: uintptr(C.sizeof_cv_rotated_rect_t), Offsets: []uintptr{
			unsafe.Offsetof(rr.center), unsafe.Offsetof(rr.size), unsafe.Offsetof(rr.angle),
		}},
		"MinMaxLoc": {Size: uintptr(C.sizeof_cv_min_max_loc_t), Offsets: []uintptr{
			unsafe.Offsetof(mm.min), unsafe.Offsetof(mm.max), unsafe.Offsetof(mm.min_loc), unsafe.Offsetof(mm.max_loc),
		}},
	}
}
