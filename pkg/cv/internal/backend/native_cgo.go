//go:build cgo && opencv

package backend

/*
#cgo pkg-config: opencv4
#cgo CFLAGS: -I${SRCDIR}
#cgo LDFLAGS: -lcvapi
#include <stdlib.h>
#include "cvapi.h"

extern void cvGoMouseTrampoline(int32_t event, int32_t x, int32_t y, int32_t flags, uintptr_t user);
*/
import "C"

import (
	"unsafe"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/types"
)

func linked() Native { return cgoNative{} }

// cgoNative calls into libcvapi. Every method is a direct translation of one
// C function; ownership of returned buffers moves into the ffi wrappers
// together with the matching free function.
type cgoNative struct{}

func ptr[K ffi.Kind](h ffi.Handle[K]) unsafe.Pointer { return unsafe.Pointer(h.Addr()) }

func handle[K ffi.Kind](p unsafe.Pointer) ffi.Handle[K] { return ffi.HandleAt[K](uintptr(p)) }

func freeBuf(p unsafe.Pointer) { C.cv_buf_free(p) }

func vec[T any](v C.cv_vec_t) ffi.Vec[T] {
	return ffi.NewVec[T](v.ptr, int(v.len), freeBuf)
}

func nestedVec[T any](v C.cv_vec_t) ffi.Vec[ffi.RawVec[T]] {
	n := v.len
	return ffi.NewVec[ffi.RawVec[T]](v.ptr, int(n), func(p unsafe.Pointer) { C.cv_vecvec_free(p, n) })
}

func cstr(s C.cv_str_t) ffi.CStr {
	return ffi.CStr{Ptr: (*byte)(unsafe.Pointer(s.ptr)), Len: uintptr(s.len)}
}

func text(s C.cv_str_t) ffi.Text {
	return ffi.NewText(cstr(s), func(c ffi.CStr) { C.cv_str_free((*C.char)(unsafe.Pointer(c.Ptr))) })
}

func result[T any](r C.cv_result_t, value func() T) ffi.Result[T] {
	if bool(r.ok) {
		return ffi.Ok(value())
	}
	return ffi.Err[T](text(r.err))
}

func matResult(r C.cv_result_t, out C.cv_mat_t) ffi.Result[ffi.Handle[Mat]] {
	return result(r, func() ffi.Handle[Mat] { return handle[Mat](out) })
}

func cSize(s types.Size) C.cv_size_t       { return *(*C.cv_size_t)(unsafe.Pointer(&s)) }
func cRect(r types.Rect) C.cv_rect_t       { return *(*C.cv_rect_t)(unsafe.Pointer(&r)) }
func cScalar(s types.Scalar) C.cv_scalar_t { return *(*C.cv_scalar_t)(unsafe.Pointer(&s)) }
func cTerm(t types.TermCriteria) C.cv_term_criteria_t {
	return *(*C.cv_term_criteria_t)(unsafe.Pointer(&t))
}

// cString allocates a C copy of s. The caller frees it.
func cString(s string) *C.char {
	if s == "" {
		return nil
	}
	return C.CString(s)
}

func free(p *C.char) {
	if p != nil {
		C.free(unsafe.Pointer(p))
	}
}

// runtime

func (cgoNative) Version() string         { return C.GoString(C.cv_version()) }
func (cgoNative) SetNumThreads(n int32)   { C.cv_set_num_threads(C.int32_t(n)) }
func (cgoNative) NumThreads() int32       { return int32(C.cv_get_num_threads()) }
func (cgoNative) SetUseOptimized(on bool) { C.cv_set_use_optimized(C.bool(on)) }
func (cgoNative) UseOptimized() bool      { return bool(C.cv_use_optimized()) }
func (cgoNative) CUDADeviceCount() int32  { return int32(C.cv_cuda_device_count()) }

// core

func (cgoNative) MatNew() ffi.Handle[Mat] { return handle[Mat](C.cv_mat_new()) }

func (cgoNative) MatNewWithSize(rows, cols, typ int32) ffi.Handle[Mat] {
	return handle[Mat](C.cv_mat_new_with_size(C.int32_t(rows), C.int32_t(cols), C.int32_t(typ)))
}

func (cgoNative) MatFromBytes(rows, cols, typ int32, data []byte) ffi.Result[ffi.Handle[Mat]] {
	var p unsafe.Pointer
	if len(data) > 0 {
		p = unsafe.Pointer(&data[0])
	}
	var out C.cv_mat_t
	res := C.cv_mat_from_bytes(C.int32_t(rows), C.int32_t(cols), C.int32_t(typ), p, C.size_t(len(data)), &out)
	return matResult(res, out)
}

func (cgoNative) MatRelease(m ffi.Handle[Mat]) { C.cv_mat_release(ptr(m)) }

func (cgoNative) MatInfo(m ffi.Handle[Mat]) MatInfo {
	var rows, cols, typ C.int32_t
	C.cv_mat_info(ptr(m), &rows, &cols, &typ)
	return MatInfo{Rows: int32(rows), Cols: int32(cols), Type: int32(typ)}
}

func (cgoNative) MatIsValid(m ffi.Handle[Mat]) bool { return bool(C.cv_mat_is_valid(ptr(m))) }

func (cgoNative) MatData(m ffi.Handle[Mat]) ffi.Vec[byte] { return vec[byte](C.cv_mat_data(ptr(m))) }

func (cgoNative) MatRegion(m ffi.Handle[Mat], r types.Rect) ffi.Result[ffi.Handle[Mat]] {
	var out C.cv_mat_t
	res := C.cv_mat_region(ptr(m), cRect(r), &out)
	return matResult(res, out)
}

func (cgoNative) MatResize(m ffi.Handle[Mat], size types.Size, fx, fy float64, interp int32) ffi.Result[ffi.Handle[Mat]] {
	var out C.cv_mat_t
	res := C.cv_mat_resize(ptr(m), cSize(size), C.double(fx), C.double(fy), C.int32_t(interp), &out)
	return matResult(res, out)
}

func (cgoNative) MatCvtColor(m ffi.Handle[Mat], code int32) ffi.Result[ffi.Handle[Mat]] {
	var out C.cv_mat_t
	res := C.cv_mat_cvt_color(ptr(m), C.int32_t(code), &out)
	return matResult(res, out)
}

func (cgoNative) MatMixChannels(m ffi.Handle[Mat], dstChannels int32, fromTo []int32) ffi.Result[ffi.Handle[Mat]] {
	var p *C.int32_t
	if len(fromTo) > 0 {
		p = (*C.int32_t)(unsafe.Pointer(&fromTo[0]))
	}
	var out C.cv_mat_t
	res := C.cv_mat_mix_channels(ptr(m), C.int32_t(dstChannels), p, C.size_t(len(fromTo)), &out)
	return matResult(res, out)
}

func (cgoNative) MatFlip(m ffi.Handle[Mat], code int32) ffi.Handle[Mat] {
	return handle[Mat](C.cv_mat_flip(ptr(m), C.int32_t(code)))
}

func (cgoNative) MatInRange(m ffi.Handle[Mat], lo, hi types.Scalar) ffi.Result[ffi.Handle[Mat]] {
	var out C.cv_mat_t
	res := C.cv_mat_in_range(ptr(m), cScalar(lo), cScalar(hi), &out)
	return matResult(res, out)
}

func (cgoNative) MatThreshold(m ffi.Handle[Mat], thresh, maxval float64, typ int32) ffi.Result[ffi.Handle[Mat]] {
	var out C.cv_mat_t
	res := C.cv_mat_threshold(ptr(m), C.double(thresh), C.double(maxval), C.int32_t(typ), &out)
	return matResult(res, out)
}

func (cgoNative) MatConvertTo(m ffi.Handle[Mat], rtype int32, alpha, beta float64) ffi.Result[ffi.Handle[Mat]] {
	var out C.cv_mat_t
	res := C.cv_mat_convert_to(ptr(m), C.int32_t(rtype), C.double(alpha), C.double(beta), &out)
	return matResult(res, out)
}

func (cgoNative) MatSetTo(m ffi.Handle[Mat], s types.Scalar) { C.cv_mat_set_to(ptr(m), cScalar(s)) }

func (cgoNative) MatRectangle(m ffi.Handle[Mat], r types.Rect, color types.Scalar, thickness int32) {
	C.cv_mat_rectangle(ptr(m), cRect(r), cScalar(color), C.int32_t(thickness))
}

func (cgoNative) MatCountNonZero(m ffi.Handle[Mat]) ffi.Result[int32] {
	var out C.int32_t
	r := C.cv_mat_count_non_zero(ptr(m), &out)
	return result(r, func() int32 { return int32(out) })
}

func (cgoNative) MatFindNonZero(m ffi.Handle[Mat]) ffi.Vec[types.Point] {
	return vec[types.Point](C.cv_mat_find_non_zero(ptr(m)))
}

func (cgoNative) MatMinMaxLoc(m ffi.Handle[Mat]) ffi.Result[types.MinMaxLoc] {
	var out C.cv_min_max_loc_t
	r := C.cv_mat_min_max_loc(ptr(m), &out)
	return result(r, func() types.MinMaxLoc { return *(*types.MinMaxLoc)(unsafe.Pointer(&out)) })
}

func (cgoNative) MatMean(m ffi.Handle[Mat]) types.Scalar {
	s := C.cv_mat_mean(ptr(m))
	return *(*types.Scalar)(unsafe.Pointer(&s))
}

func (cgoNative) ImRead(path string, flags int32) ffi.Handle[Mat] {
	p := cString(path)
	defer free(p)
	return handle[Mat](C.cv_imread(p, C.int32_t(flags)))
}

func (cgoNative) ImDecode(buf []byte, flags int32) ffi.Handle[Mat] {
	if len(buf) == 0 {
		return handle[Mat](C.cv_imdecode(nil, 0, C.int32_t(flags)))
	}
	return handle[Mat](C.cv_imdecode(unsafe.Pointer(&buf[0]), C.size_t(len(buf)), C.int32_t(flags)))
}

func (cgoNative) ImWrite(path string, m ffi.Handle[Mat]) ffi.Result[bool] {
	p := cString(path)
	defer free(p)
	var out C.bool
	r := C.cv_imwrite(p, ptr(m), &out)
	return result(r, func() bool { return bool(out) })
}

func (cgoNative) ImEncode(ext string, m ffi.Handle[Mat]) ffi.Result[ffi.Vec[byte]] {
	e := cString(ext)
	defer free(e)
	var out C.cv_vec_t
	r := C.cv_imencode(e, ptr(m), &out)
	return result(r, func() ffi.Vec[byte] { return vec[byte](out) })
}

// cuda

func (cgoNative) GpuMatNew() ffi.Handle[GpuMat] { return handle[GpuMat](C.cv_gpumat_new()) }

func (cgoNative) GpuMatUpload(g ffi.Handle[GpuMat], m ffi.Handle[Mat]) ffi.Result[bool] {
	return result(C.cv_gpumat_upload(ptr(g), ptr(m)), func() bool { return true })
}

func (cgoNative) GpuMatDownload(g ffi.Handle[GpuMat]) ffi.Result[ffi.Handle[Mat]] {
	var out C.cv_mat_t
	res := C.cv_gpumat_download(ptr(g), &out)
	return matResult(res, out)
}

func (cgoNative) GpuMatRelease(g ffi.Handle[GpuMat]) { C.cv_gpumat_release(ptr(g)) }

// objdetect

func (cgoNative) CascadeNew(path string) ffi.Result[ffi.Handle[Cascade]] {
	p := cString(path)
	defer free(p)
	var out C.cv_cascade_t
	r := C.cv_cascade_new(p, &out)
	return result(r, func() ffi.Handle[Cascade] { return handle[Cascade](out) })
}

func (cgoNative) CascadeDetectMultiScale(c ffi.Handle[Cascade], img ffi.Handle[Mat], p CascadeParams) ffi.Vec[types.Rect] {
	v := C.cv_cascade_detect_multi_scale(ptr(c), ptr(img), C.double(p.ScaleFactor), C.int32_t(p.MinNeighbors),
		C.int32_t(p.Flags), cSize(p.MinSize), cSize(p.MaxSize))
	return vec[types.Rect](v)
}

func (cgoNative) CascadeRelease(c ffi.Handle[Cascade]) { C.cv_cascade_release(ptr(c)) }

func (cgoNative) SvmDetectorDefaultPeople() ffi.Handle[SvmDetector] {
	return handle[SvmDetector](C.cv_svm_detector_default_people())
}

func (cgoNative) SvmDetectorDaimlerPeople() ffi.Handle[SvmDetector] {
	return handle[SvmDetector](C.cv_svm_detector_daimler_people())
}

func (cgoNative) SvmDetectorNew(coeffs []float32) ffi.Handle[SvmDetector] {
	var p *C.float
	if len(coeffs) > 0 {
		p = (*C.float)(unsafe.Pointer(&coeffs[0]))
	}
	return handle[SvmDetector](C.cv_svm_detector_new(p, C.size_t(len(coeffs))))
}

func (cgoNative) SvmDetectorCoefficients(d ffi.Handle[SvmDetector]) ffi.Vec[float32] {
	return vec[float32](C.cv_svm_detector_coefficients(ptr(d)))
}

func (cgoNative) SvmDetectorRelease(d ffi.Handle[SvmDetector]) { C.cv_svm_detector_release(ptr(d)) }

func (cgoNative) HOGNew(p HOGParams) ffi.Handle[HOG] {
	return handle[HOG](C.cv_hog_new(cSize(p.WinSize), cSize(p.BlockSize), cSize(p.BlockStride),
		cSize(p.CellSize), C.int32_t(p.NBins)))
}

func (cgoNative) HOGDescriptorSize(h ffi.Handle[HOG]) int32 {
	return int32(C.cv_hog_descriptor_size(ptr(h)))
}

func (cgoNative) HOGSetSVMDetector(h ffi.Handle[HOG], d ffi.Handle[SvmDetector]) ffi.Result[bool] {
	return result(C.cv_hog_set_svm_detector(ptr(h), ptr(d)), func() bool { return true })
}

func (cgoNative) HOGDetectMultiScale(h ffi.Handle[HOG], img ffi.Handle[Mat], p HOGDetectParams) (ffi.Vec[types.Rect], ffi.Vec[float64]) {
	var rects, weights C.cv_vec_t
	C.cv_hog_detect_multi_scale(ptr(h), ptr(img), C.double(p.HitThreshold), cSize(p.WinStride), cSize(p.Padding),
		C.double(p.Scale), C.double(p.FinalThreshold), C.bool(p.UseMeanshiftGrouping), &rects, &weights)
	return vec[types.Rect](rects), vec[float64](weights)
}

func (cgoNative) HOGCompute(h ffi.Handle[HOG], img ffi.Handle[Mat], winStride, padding types.Size) ffi.Vec[float32] {
	return vec[float32](C.cv_hog_compute(ptr(h), ptr(img), cSize(winStride), cSize(padding)))
}

func (cgoNative) HOGRelease(h ffi.Handle[HOG]) { C.cv_hog_release(ptr(h)) }

// features2d

func (cgoNative) MSERNew(p MSERParams) ffi.Handle[MSER] {
	return handle[MSER](C.cv_mser_new(C.int32_t(p.Delta), C.int32_t(p.MinArea), C.int32_t(p.MaxArea),
		C.double(p.MaxVariation), C.double(p.MinDiversity), C.int32_t(p.MaxEvolution),
		C.double(p.AreaThreshold), C.double(p.MinMargin), C.int32_t(p.EdgeBlurSize)))
}

func (cgoNative) MSERDetectRegions(m ffi.Handle[MSER], img ffi.Handle[Mat]) (ffi.Vec[ffi.RawVec[types.Point]], ffi.Vec[types.Rect]) {
	var regions, boxes C.cv_vec_t
	C.cv_mser_detect_regions(ptr(m), ptr(img), &regions, &boxes)
	return nestedVec[types.Point](regions), vec[types.Rect](boxes)
}

func (cgoNative) MSERRelease(m ffi.Handle[MSER]) { C.cv_mser_release(ptr(m)) }

func (cgoNative) SIFTNew(p SIFTParams) ffi.Result[ffi.Handle[SIFT]] {
	var out C.cv_sift_t
	r := C.cv_sift_new(C.int32_t(p.NFeatures), C.int32_t(p.NOctaveLayers), C.double(p.ContrastThreshold),
		C.double(p.EdgeThreshold), C.double(p.Sigma), &out)
	return result(r, func() ffi.Handle[SIFT] { return handle[SIFT](out) })
}

func (cgoNative) SIFTDetectAndCompute(s ffi.Handle[SIFT], img, mask ffi.Handle[Mat]) (ffi.Vec[types.KeyPoint], ffi.Handle[Mat]) {
	var kps C.cv_vec_t
	var desc C.cv_mat_t
	C.cv_sift_detect_and_compute(ptr(s), ptr(img), ptr(mask), &kps, &desc)
	return vec[types.KeyPoint](kps), handle[Mat](desc)
}

func (cgoNative) SIFTRelease(s ffi.Handle[SIFT]) { C.cv_sift_release(ptr(s)) }

func (cgoNative) SURFNew(p SURFParams) ffi.Result[ffi.Handle[SURF]] {
	var out C.cv_surf_t
	r := C.cv_surf_new(C.double(p.HessianThreshold), C.int32_t(p.NOctaves), C.int32_t(p.NOctaveLayers),
		C.bool(p.Extended), C.bool(p.Upright), &out)
	return result(r, func() ffi.Handle[SURF] { return handle[SURF](out) })
}

func (cgoNative) SURFDetectAndCompute(s ffi.Handle[SURF], img, mask ffi.Handle[Mat]) (ffi.Vec[types.KeyPoint], ffi.Handle[Mat]) {
	var kps C.cv_vec_t
	var desc C.cv_mat_t
	C.cv_surf_detect_and_compute(ptr(s), ptr(img), ptr(mask), &kps, &desc)
	return vec[types.KeyPoint](kps), handle[Mat](desc)
}

func (cgoNative) SURFRelease(s ffi.Handle[SURF]) { C.cv_surf_release(ptr(s)) }

func (cgoNative) MatcherNew(kind int32) ffi.Result[ffi.Handle[Matcher]] {
	var out C.cv_matcher_t
	r := C.cv_matcher_new(C.int32_t(kind), &out)
	return result(r, func() ffi.Handle[Matcher] { return handle[Matcher](out) })
}

func (cgoNative) MatcherAdd(m ffi.Handle[Matcher], descriptors []ffi.Handle[Mat]) {
	if len(descriptors) == 0 {
		return
	}
	// C memory so the array holds no Go pointers.
	arr := (*C.cv_mat_t)(C.malloc(C.size_t(len(descriptors)) * C.size_t(unsafe.Sizeof(C.cv_mat_t(nil)))))
	defer C.free(unsafe.Pointer(arr))
	dst := unsafe.Slice(arr, len(descriptors))
	for i, d := range descriptors {
		dst[i] = C.cv_mat_t(ptr(d))
	}
	C.cv_matcher_add(ptr(m), arr, C.size_t(len(descriptors)))
}

func (cgoNative) MatcherTrain(m ffi.Handle[Matcher]) ffi.Result[bool] {
	return result(C.cv_matcher_train(ptr(m)), func() bool { return true })
}

func (cgoNative) MatcherMatch(m ffi.Handle[Matcher], query, train ffi.Handle[Mat]) ffi.Vec[types.DMatch] {
	return vec[types.DMatch](C.cv_matcher_match(ptr(m), ptr(query), ptr(train)))
}

func (cgoNative) MatcherKnnMatch(m ffi.Handle[Matcher], query, train ffi.Handle[Mat], k int32) ffi.Vec[ffi.RawVec[types.DMatch]] {
	return nestedVec[types.DMatch](C.cv_matcher_knn_match(ptr(m), ptr(query), ptr(train), C.int32_t(k)))
}

func (cgoNative) MatcherRelease(m ffi.Handle[Matcher]) { C.cv_matcher_release(ptr(m)) }

func (cgoNative) BOWNew(clusterCount int32, tc types.TermCriteria, attempts, flags int32) ffi.Handle[BOWTrainer] {
	return handle[BOWTrainer](C.cv_bow_new(C.int32_t(clusterCount), cTerm(tc), C.int32_t(attempts), C.int32_t(flags)))
}

func (cgoNative) BOWAdd(b ffi.Handle[BOWTrainer], descriptors ffi.Handle[Mat]) {
	C.cv_bow_add(ptr(b), ptr(descriptors))
}

func (cgoNative) BOWDescriptorsCount(b ffi.Handle[BOWTrainer]) int32 {
	return int32(C.cv_bow_descriptors_count(ptr(b)))
}

func (cgoNative) BOWCluster(b ffi.Handle[BOWTrainer]) ffi.Result[ffi.Handle[Mat]] {
	var out C.cv_mat_t
	res := C.cv_bow_cluster(ptr(b), &out)
	return matResult(res, out)
}

func (cgoNative) BOWRelease(b ffi.Handle[BOWTrainer]) { C.cv_bow_release(ptr(b)) }

// img_hash

func (cgoNative) HashNew(algo int32) ffi.Result[ffi.Handle[ImgHash]] {
	var out C.cv_imghash_t
	r := C.cv_imghash_new(C.int32_t(algo), &out)
	return result(r, func() ffi.Handle[ImgHash] { return handle[ImgHash](out) })
}

func (cgoNative) HashCompute(h ffi.Handle[ImgHash], img ffi.Handle[Mat]) ffi.Result[ffi.Handle[Mat]] {
	var out C.cv_mat_t
	res := C.cv_imghash_compute(ptr(h), ptr(img), &out)
	return matResult(res, out)
}

func (cgoNative) HashCompare(h ffi.Handle[ImgHash], a, b ffi.Handle[Mat]) float64 {
	return float64(C.cv_imghash_compare(ptr(h), ptr(a), ptr(b)))
}

func (cgoNative) HashRelease(h ffi.Handle[ImgHash]) { C.cv_imghash_release(ptr(h)) }

// text

func (cgoNative) OCRNew(variant int32, p OCRParams) ffi.Result[ffi.Handle[OCR]] {
	strs := []*C.char{
		cString(p.DataPath), cString(p.Language), cString(p.Whitelist), cString(p.ClassifierPath),
		cString(p.Vocabulary), cString(p.ArchPath), cString(p.WeightsPath), cString(p.WordsPath),
	}
	defer func() {
		for _, s := range strs {
			free(s)
		}
	}()
	cp := C.cv_ocr_params_t{
		datapath:        strs[0],
		language:        strs[1],
		whitelist:       strs[2],
		engine_mode:     C.int32_t(p.EngineMode),
		page_seg_mode:   C.int32_t(p.PageSegMode),
		classifier_path: strs[3],
		vocabulary:      strs[4],
		transition:      ptr(p.Transition),
		emission:        ptr(p.Emission),
		decoder_mode:    C.int32_t(p.DecoderMode),
		classifier_type: C.int32_t(p.ClassifierType),
		arch_path:       strs[5],
		weights_path:    strs[6],
		words_path:      strs[7],
	}
	var out C.cv_ocr_t
	r := C.cv_ocr_new(C.int32_t(variant), &cp, &out)
	return result(r, func() ffi.Handle[OCR] { return handle[OCR](out) })
}

func (cgoNative) OCRRun(o ffi.Handle[OCR], img ffi.Handle[Mat], minConfidence, level int32) OCRRun {
	var (
		txt                       C.cv_str_t
		boxes, words, confidences C.cv_vec_t
	)
	C.cv_ocr_run(ptr(o), ptr(img), C.int32_t(minConfidence), C.int32_t(level), &txt, &boxes, &words, &confidences)
	n := words.len
	return OCRRun{
		Text:  text(txt),
		Boxes: vec[types.Rect](boxes),
		Words: ffi.NewVec[ffi.CStr](words.ptr, int(words.len), func(p unsafe.Pointer) {
			C.cv_strvec_free(p, n)
		}),
		Confidences: vec[float32](confidences),
	}
}

func (cgoNative) OCRRelease(o ffi.Handle[OCR]) { C.cv_ocr_release(ptr(o)) }

// video

func (cgoNative) BgSubMOG2New(history int32, varThreshold float64, detectShadows bool) ffi.Handle[BgSub] {
	return handle[BgSub](C.cv_bgsub_mog2_new(C.int32_t(history), C.double(varThreshold), C.bool(detectShadows)))
}

func (cgoNative) BgSubKNNNew(history int32, dist2Threshold float64, detectShadows bool) ffi.Handle[BgSub] {
	return handle[BgSub](C.cv_bgsub_knn_new(C.int32_t(history), C.double(dist2Threshold), C.bool(detectShadows)))
}

func (cgoNative) BgSubApply(b ffi.Handle[BgSub], frame ffi.Handle[Mat], learningRate float64) ffi.Result[ffi.Handle[Mat]] {
	var out C.cv_mat_t
	res := C.cv_bgsub_apply(ptr(b), ptr(frame), C.double(learningRate), &out)
	return matResult(res, out)
}

func (cgoNative) BgSubBackgroundImage(b ffi.Handle[BgSub]) ffi.Option[ffi.Handle[Mat]] {
	o := C.cv_bgsub_background_image(ptr(b))
	return ffi.OptionFrom(bool(o.present), func() ffi.Handle[Mat] { return handle[Mat](o.value) })
}

func (cgoNative) BgSubRelease(b ffi.Handle[BgSub]) { C.cv_bgsub_release(ptr(b)) }

func (cgoNative) CamShift(prob ffi.Handle[Mat], window types.Rect, tc types.TermCriteria) (types.RotatedRect, types.Rect) {
	w := cRect(window)
	rr := C.cv_cam_shift(ptr(prob), &w, cTerm(tc))
	return *(*types.RotatedRect)(unsafe.Pointer(&rr)), *(*types.Rect)(unsafe.Pointer(&w))
}

func (cgoNative) MeanShift(prob ffi.Handle[Mat], window types.Rect, tc types.TermCriteria) (int32, types.Rect) {
	w := cRect(window)
	n := C.cv_mean_shift(ptr(prob), &w, cTerm(tc))
	return int32(n), *(*types.Rect)(unsafe.Pointer(&w))
}

// highgui

func (cgoNative) WindowNew(name string, flags int32) ffi.Handle[Window] {
	n := cString(name)
	defer free(n)
	return handle[Window](C.cv_window_new(n, C.int32_t(flags)))
}

func (cgoNative) WindowShow(w ffi.Handle[Window], m ffi.Handle[Mat]) { C.cv_window_show(ptr(w), ptr(m)) }

func (cgoNative) WindowSetMouseCallback(w ffi.Handle[Window], id uintptr) {
	C.cv_window_set_mouse_callback(ptr(w), C.cv_mouse_fn(C.cvGoMouseTrampoline), C.uintptr_t(id))
}

func (cgoNative) WindowClearMouseCallback(w ffi.Handle[Window]) { C.cv_window_clear_mouse_callback(ptr(w)) }

func (cgoNative) WindowRelease(w ffi.Handle[Window]) { C.cv_window_release(ptr(w)) }

func (cgoNative) WaitKey(delayMs int32) ffi.Option[int32] {
	o := C.cv_wait_key(C.int32_t(delayMs))
	return ffi.OptionFrom(bool(o.present), func() int32 { return int32(o.value) })
}
