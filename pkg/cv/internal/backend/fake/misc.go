package fake

import (
	"math"
	"math/bits"
	"strings"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/backend"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/types"
)

// Hash algorithms; every one is modelled as an 8x8 average hash.
const (
	hashAverage        = 0
	hashRadialVariance = 5
)

type imgHash struct{ algo int32 }

func (n *Native) HashNew(algo int32) ffi.Result[ffi.Handle[backend.ImgHash]] {
	defer n.enter("HashNew")()
	if algo < hashAverage || algo > hashRadialVariance {
		return errResult[ffi.Handle[backend.ImgHash]](n, "unknown img_hash algorithm %d", algo)
	}
	return ffi.Ok(alloc[backend.ImgHash](n, &imgHash{algo: algo}))
}

func (n *Native) HashCompute(h ffi.Handle[backend.ImgHash], img hmat) matRes {
	defer n.enter("HashCompute")()
	if _, ok := lookup[*imgHash](n, h); !ok {
		return errResult[hmat](n, "invalid handle")
	}
	m, ok := n.mat(img)
	if !ok || m.empty() {
		return errResult[hmat](n, "!input.empty()")
	}
	var cells [64]float64
	var mean float64
	for i := range cells {
		r := (i / 8) * int(m.rows) / 8
		c := (i % 8) * int(m.cols) / 8
		cells[i] = m.gray(r, c)
		mean += cells[i]
	}
	mean /= 64
	out := newMat(1, 8, makeType(depth8U, 1))
	for i, v := range cells {
		if v > mean {
			out.data[i/8] |= 1 << (i % 8)
		}
	}
	return ffi.Ok(n.newHandle(out))
}

// HashCompare returns the Hamming distance between two hashes, or +Inf when
// either is not a hash.
func (n *Native) HashCompare(h ffi.Handle[backend.ImgHash], a, b hmat) float64 {
	defer n.enter("HashCompare")()
	ma, ok := n.mat(a)
	mb, ok2 := n.mat(b)
	if !ok || !ok2 || len(ma.data) != len(mb.data) {
		return math.Inf(1)
	}
	d := 0
	for i := range ma.data {
		d += bits.OnesCount8(ma.data[i] ^ mb.data[i])
	}
	return float64(d)
}

func (n *Native) HashRelease(h ffi.Handle[backend.ImgHash]) {
	defer n.enter("HashRelease")()
	release(n, h)
}

type ocr struct {
	variant int32
	p       backend.OCRParams
}

func (n *Native) OCRNew(variant int32, p backend.OCRParams) ffi.Result[ffi.Handle[backend.OCR]] {
	defer n.enter("OCRNew")()
	switch variant {
	case 0:
	case 1:
		if _, ok := n.mat(p.Transition); !ok {
			return errResult[ffi.Handle[backend.OCR]](n, "transition probability table is required")
		}
		if _, ok := n.mat(p.Emission); !ok {
			return errResult[ffi.Handle[backend.OCR]](n, "emission probability table is required")
		}
	case 2:
	default:
		return errResult[ffi.Handle[backend.OCR]](n, "unknown OCR variant %d", variant)
	}
	return ffi.Ok(alloc[backend.OCR](n, &ocr{variant: variant, p: p}))
}

// OCRRun reads n.OCRText and splits it into words laid out left to right.
func (n *Native) OCRRun(h ffi.Handle[backend.OCR], img hmat, minConfidence, level int32) backend.OCRRun {
	defer n.enter("OCRRun")()
	o, ok := lookup[*ocr](n, h)
	m, ok2 := n.mat(img)
	if !ok || !ok2 || m.empty() {
		return backend.OCRRun{}
	}
	text := n.OCRText
	if o.p.Whitelist != "" {
		text = strings.Map(func(r rune) rune {
			if r == ' ' || strings.ContainsRune(o.p.Whitelist, r) {
				return r
			}
			return -1
		}, text)
	}
	var (
		words []ffi.CStr
		boxes []types.Rect
		confs []float32
		x     int32
	)
	for _, w := range strings.Fields(text) {
		conf := float32(90)
		if conf < float32(minConfidence) {
			continue
		}
		words = append(words, ffi.CStrOf(w))
		boxes = append(boxes, types.Rect{X: x, Y: 0, Width: int32(len(w)) * 8, Height: min(m.rows, 16)})
		confs = append(confs, conf)
		x += int32(len(w)+1) * 8
	}
	return backend.OCRRun{
		Text:        ffi.NewText(ffi.CStrOf(text), n.freeText),
		Boxes:       vecOf(n, boxes),
		Words:       vecOf(n, words),
		Confidences: vecOf(n, confs),
	}
}

func (n *Native) OCRRelease(h ffi.Handle[backend.OCR]) {
	defer n.enter("OCRRelease")()
	release(n, h)
}

type bgSub struct {
	threshold  float64
	background *mat
}

func (n *Native) BgSubMOG2New(history int32, varThreshold float64, detectShadows bool) ffi.Handle[backend.BgSub] {
	defer n.enter("BgSubMOG2New")()
	return alloc[backend.BgSub](n, &bgSub{threshold: math.Sqrt(varThreshold) * 2.5})
}

func (n *Native) BgSubKNNNew(history int32, dist2Threshold float64, detectShadows bool) ffi.Handle[backend.BgSub] {
	defer n.enter("BgSubKNNNew")()
	return alloc[backend.BgSub](n, &bgSub{threshold: math.Sqrt(dist2Threshold)})
}

// BgSubApply marks pixels whose luma differs from the background model by
// more than the threshold. The model follows the frames at learningRate,
// with a negative rate meaning "replace".
func (n *Native) BgSubApply(h ffi.Handle[backend.BgSub], frame hmat, learningRate float64) matRes {
	defer n.enter("BgSubApply")()
	b, ok := lookup[*bgSub](n, h)
	m, ok2 := n.mat(frame)
	if !ok || !ok2 {
		return errResult[hmat](n, "invalid handle")
	}
	if m.empty() {
		return errResult[hmat](n, "!image.empty()")
	}
	mask := newMat(m.rows, m.cols, makeType(depth8U, 1))
	if b.background == nil || b.background.rows != m.rows || b.background.cols != m.cols {
		b.background = m.clone()
		return ffi.Ok(n.newHandle(mask))
	}
	for r := 0; r < int(m.rows); r++ {
		for c := 0; c < int(m.cols); c++ {
			if math.Abs(m.gray(r, c)-b.background.gray(r, c)) > b.threshold {
				mask.set(r, c, 0, 255)
			}
		}
	}
	rate := learningRate
	if rate < 0 || rate > 1 {
		rate = 1
	}
	for r := 0; r < int(m.rows); r++ {
		for c := 0; c < int(m.cols); c++ {
			for k := 0; k < m.ch(); k++ {
				old := b.background.at(r, c, k)
				b.background.set(r, c, k, old+(m.at(r, c, k)-old)*rate)
			}
		}
	}
	return ffi.Ok(n.newHandle(mask))
}

func (n *Native) BgSubBackgroundImage(h ffi.Handle[backend.BgSub]) ffi.Option[hmat] {
	defer n.enter("BgSubBackgroundImage")()
	b, ok := lookup[*bgSub](n, h)
	return ffi.OptionFrom(ok && b.background != nil, func() hmat { return n.newHandle(b.background.clone()) })
}

func (n *Native) BgSubRelease(h ffi.Handle[backend.BgSub]) {
	defer n.enter("BgSubRelease")()
	release(n, h)
}

// meanShift moves window to the centroid of prob until it moves less than
// the epsilon or the iteration budget runs out.
func meanShift(prob *mat, window types.Rect, tc types.TermCriteria) (int32, types.Rect) {
	maxIter := int32(100)
	if tc.Type&types.TermCount != 0 {
		maxIter = tc.MaxCount
	}
	eps := 1.0
	if tc.Type&types.TermEps != 0 {
		eps = tc.Epsilon
	}
	var it int32
	for it = 0; it < maxIter; it++ {
		var m00, m10, m01 float64
		for y := max(window.Y, 0); y < min(window.Y+window.Height, prob.rows); y++ {
			for x := max(window.X, 0); x < min(window.X+window.Width, prob.cols); x++ {
				v := prob.at(int(y), int(x), 0)
				m00 += v
				m10 += v * float64(x)
				m01 += v * float64(y)
			}
		}
		if m00 == 0 {
			break
		}
		dx := int32(math.Round(m10/m00)) - (window.X + window.Width/2)
		dy := int32(math.Round(m01/m00)) - (window.Y + window.Height/2)
		window.X = min(max(window.X+dx, 0), prob.cols-window.Width)
		window.Y = min(max(window.Y+dy, 0), prob.rows-window.Height)
		if math.Hypot(float64(dx), float64(dy)) < eps {
			it++
			break
		}
	}
	return it, window
}

func (n *Native) CamShift(prob hmat, window types.Rect, tc types.TermCriteria) (types.RotatedRect, types.Rect) {
	defer n.enter("CamShift")()
	m, ok := n.mat(prob)
	if !ok || m.empty() {
		return types.RotatedRect{}, window
	}
	_, w := meanShift(m, window, tc)
	return types.RotatedRect{
		Center: types.Point2f{X: float32(w.X) + float32(w.Width)/2, Y: float32(w.Y) + float32(w.Height)/2},
		Size:   types.Size2f{Width: float32(w.Width), Height: float32(w.Height)},
	}, w
}

func (n *Native) MeanShift(prob hmat, window types.Rect, tc types.TermCriteria) (int32, types.Rect) {
	defer n.enter("MeanShift")()
	m, ok := n.mat(prob)
	if !ok || m.empty() {
		return 0, window
	}
	return meanShift(m, window, tc)
}

type window struct {
	name     string
	callback uintptr
	shown    int
}

func (n *Native) WindowNew(name string, flags int32) ffi.Handle[backend.Window] {
	defer n.enter("WindowNew")()
	h := alloc[backend.Window](n, &window{name: name})
	n.windows[name] = h.Addr()
	n.event("create %s", name)
	return h
}

func (n *Native) WindowShow(h ffi.Handle[backend.Window], img hmat) {
	defer n.enter("WindowShow")()
	if w, ok := lookup[*window](n, h); ok {
		w.shown++
	}
}

func (n *Native) WindowSetMouseCallback(h ffi.Handle[backend.Window], id uintptr) {
	defer n.enter("WindowSetMouseCallback")()
	w, ok := lookup[*window](n, h)
	if !ok {
		return
	}
	w.callback = id
	n.event("set %s id=%d", w.name, id)
}

// WindowClearMouseCallback logs whether the id it drops was still
// registered, which is what callback ordering tests look at.
func (n *Native) WindowClearMouseCallback(h ffi.Handle[backend.Window]) {
	defer n.enter("WindowClearMouseCallback")()
	w, ok := lookup[*window](n, h)
	if !ok {
		return
	}
	n.event("clear %s id=%d live=%t", w.name, w.callback, w.callback != 0 && backend.Mouse.Live(w.callback))
	w.callback = 0
}

func (n *Native) WindowRelease(h ffi.Handle[backend.Window]) {
	defer n.enter("WindowRelease")()
	if w, ok := lookup[*window](n, h); ok {
		n.event("destroy %s callback=%d", w.name, w.callback)
		delete(n.windows, w.name)
	}
	release(n, h)
}

func (n *Native) WaitKey(delayMs int32) ffi.Option[int32] {
	defer n.enter("WaitKey")()
	n.lastDelay = delayMs
	if len(n.keys) == 0 {
		return ffi.None[int32]()
	}
	k := n.keys[0]
	n.keys = n.keys[1:]
	return ffi.Some(k)
}

// LastWaitDelay returns the delay passed to the latest WaitKey.
func (n *Native) LastWaitDelay() int32 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.lastDelay
}

// Shown reports how many frames were shown in the named window.
func (n *Native) Shown(name string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	if w, ok := n.objs[n.windows[name]].(*window); ok {
		return w.shown
	}
	return 0
}

// TriggerMouse delivers ev to the named window's callback the way the native
// event loop would. It reports whether a callback was installed.
func (n *Native) TriggerMouse(name string, ev backend.MouseRaw) bool {
	n.mu.Lock()
	w, ok := n.objs[n.windows[name]].(*window)
	var id uintptr
	if ok {
		id = w.callback
	}
	n.mu.Unlock()
	if id == 0 {
		return false
	}
	return backend.Mouse.Dispatch(id, ev)
}
