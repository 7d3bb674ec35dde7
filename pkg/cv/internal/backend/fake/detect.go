package fake

import (
	"bytes"
	"math"
	"math/bits"
	"os"
	"sort"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/backend"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/types"
)

type cascade struct{ path string }

func (n *Native) CascadeNew(path string) ffi.Result[ffi.Handle[backend.Cascade]] {
	defer n.enter("CascadeNew")()
	b, err := os.ReadFile(path)
	if err != nil || !bytes.Contains(b, []byte("<opencv_storage>")) {
		return errResult[ffi.Handle[backend.Cascade]](n, "cascade: failed to load %s", path)
	}
	return ffi.Ok(alloc[backend.Cascade](n, &cascade{path: path}))
}

// detections filters n.Detections by size and image bounds.
func (n *Native) detections(img *mat, minSize, maxSize types.Size) []types.Rect {
	var out []types.Rect
	for _, r := range n.Detections {
		if r.Width < minSize.Width || r.Height < minSize.Height {
			continue
		}
		if maxSize.Width > 0 && (r.Width > maxSize.Width || r.Height > maxSize.Height) {
			continue
		}
		if r.X+r.Width > img.cols || r.Y+r.Height > img.rows {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (n *Native) CascadeDetectMultiScale(c ffi.Handle[backend.Cascade], img hmat, p backend.CascadeParams) ffi.Vec[types.Rect] {
	defer n.enter("CascadeDetectMultiScale")()
	_, ok := lookup[*cascade](n, c)
	m, ok2 := n.mat(img)
	if !ok || !ok2 || m.empty() {
		return ffi.Vec[types.Rect]{}
	}
	found := n.detections(m, p.MinSize, p.MaxSize)
	if p.Flags&findBiggestObject != 0 && len(found) > 1 {
		biggest := found[0]
		for _, r := range found[1:] {
			if r.Area() > biggest.Area() {
				biggest = r
			}
		}
		found = []types.Rect{biggest}
	}
	return vecOf(n, found)
}

// findBiggestObject is CASCADE_FIND_BIGGEST_OBJECT.
const findBiggestObject = 4

func (n *Native) CascadeRelease(c ffi.Handle[backend.Cascade]) {
	defer n.enter("CascadeRelease")()
	release(n, c)
}

type svmDetector struct{ coeffs []float32 }

// Detector sizes of the bundled people models: a 3780 wide descriptor for
// the 64x128 window and 1980 for Daimler's 48x96, plus the bias term.
const (
	defaultPeopleLen = 3781
	daimlerPeopleLen = 1981
)

func (n *Native) SvmDetectorDefaultPeople() ffi.Handle[backend.SvmDetector] {
	defer n.enter("SvmDetectorDefaultPeople")()
	return alloc[backend.SvmDetector](n, &svmDetector{coeffs: make([]float32, defaultPeopleLen)})
}

func (n *Native) SvmDetectorDaimlerPeople() ffi.Handle[backend.SvmDetector] {
	defer n.enter("SvmDetectorDaimlerPeople")()
	return alloc[backend.SvmDetector](n, &svmDetector{coeffs: make([]float32, daimlerPeopleLen)})
}

func (n *Native) SvmDetectorNew(coeffs []float32) ffi.Handle[backend.SvmDetector] {
	defer n.enter("SvmDetectorNew")()
	return alloc[backend.SvmDetector](n, &svmDetector{coeffs: append([]float32(nil), coeffs...)})
}

func (n *Native) SvmDetectorCoefficients(d ffi.Handle[backend.SvmDetector]) ffi.Vec[float32] {
	defer n.enter("SvmDetectorCoefficients")()
	s, ok := lookup[*svmDetector](n, d)
	if !ok {
		return ffi.Vec[float32]{}
	}
	return vecOf(n, append([]float32(nil), s.coeffs...))
}

func (n *Native) SvmDetectorRelease(d ffi.Handle[backend.SvmDetector]) {
	defer n.enter("SvmDetectorRelease")()
	release(n, d)
}

type hog struct {
	p        backend.HOGParams
	detector []float32
}

func (h *hog) descriptorSize() int32 {
	p := h.p
	if p.BlockStride.Width <= 0 || p.BlockStride.Height <= 0 || p.CellSize.Width <= 0 || p.CellSize.Height <= 0 {
		return 0
	}
	blocksX := (p.WinSize.Width-p.BlockSize.Width)/p.BlockStride.Width + 1
	blocksY := (p.WinSize.Height-p.BlockSize.Height)/p.BlockStride.Height + 1
	cells := (p.BlockSize.Width / p.CellSize.Width) * (p.BlockSize.Height / p.CellSize.Height)
	return blocksX * blocksY * cells * p.NBins
}

func (n *Native) HOGNew(p backend.HOGParams) ffi.Handle[backend.HOG] {
	defer n.enter("HOGNew")()
	return alloc[backend.HOG](n, &hog{p: p})
}

func (n *Native) HOGDescriptorSize(h ffi.Handle[backend.HOG]) int32 {
	defer n.enter("HOGDescriptorSize")()
	g, ok := lookup[*hog](n, h)
	if !ok {
		return 0
	}
	return g.descriptorSize()
}

func (n *Native) HOGSetSVMDetector(h ffi.Handle[backend.HOG], d ffi.Handle[backend.SvmDetector]) ffi.Result[bool] {
	defer n.enter("HOGSetSVMDetector")()
	g, ok := lookup[*hog](n, h)
	s, ok2 := lookup[*svmDetector](n, d)
	if !ok || !ok2 {
		return errResult[bool](n, "invalid handle")
	}
	if size := int(g.descriptorSize()); len(s.coeffs) != size && len(s.coeffs) != size+1 {
		return errResult[bool](n, "checkDetectorSize(): detector has %d coefficients, want %d", len(s.coeffs), size+1)
	}
	g.detector = append([]float32(nil), s.coeffs...)
	return ffi.Ok(true)
}

func (n *Native) HOGDetectMultiScale(h ffi.Handle[backend.HOG], img hmat, p backend.HOGDetectParams) (ffi.Vec[types.Rect], ffi.Vec[float64]) {
	defer n.enter("HOGDetectMultiScale")()
	g, ok := lookup[*hog](n, h)
	m, ok2 := n.mat(img)
	if !ok || !ok2 || len(g.detector) == 0 || m.empty() {
		return ffi.Vec[types.Rect]{}, ffi.Vec[float64]{}
	}
	rects := n.detections(m, g.p.WinSize, types.Size{})
	weights := make([]float64, len(rects))
	for i := range weights {
		weights[i] = 1
	}
	return vecOf(n, rects), vecOf(n, weights)
}

func (n *Native) HOGCompute(h ffi.Handle[backend.HOG], img hmat, winStride, padding types.Size) ffi.Vec[float32] {
	defer n.enter("HOGCompute")()
	g, ok := lookup[*hog](n, h)
	m, ok2 := n.mat(img)
	if !ok || !ok2 {
		return ffi.Vec[float32]{}
	}
	w, ht := m.cols+2*padding.Width, m.rows+2*padding.Height
	if w < g.p.WinSize.Width || ht < g.p.WinSize.Height {
		return ffi.Vec[float32]{}
	}
	if winStride.Width <= 0 || winStride.Height <= 0 {
		winStride = g.p.CellSize
	}
	windows := ((w-g.p.WinSize.Width)/winStride.Width + 1) * ((ht-g.p.WinSize.Height)/winStride.Height + 1)
	out := make([]float32, int(windows)*int(g.descriptorSize()))
	mean := float32(n.meanGray(m) / 255)
	for i := range out {
		out[i] = mean
	}
	return vecOf(n, out)
}

func (n *Native) meanGray(m *mat) float64 {
	if m.empty() {
		return 0
	}
	var s float64
	for r := 0; r < int(m.rows); r++ {
		for c := 0; c < int(m.cols); c++ {
			s += m.gray(r, c)
		}
	}
	return s / float64(m.total())
}

func (n *Native) HOGRelease(h ffi.Handle[backend.HOG]) {
	defer n.enter("HOGRelease")()
	release(n, h)
}

type mser struct{ p backend.MSERParams }

func (n *Native) MSERNew(p backend.MSERParams) ffi.Handle[backend.MSER] {
	defer n.enter("MSERNew")()
	return alloc[backend.MSER](n, &mser{p: p})
}

// MSERDetectRegions reports the 4-connected components of non-zero pixels
// whose area lies within [MinArea, MaxArea].
func (n *Native) MSERDetectRegions(h ffi.Handle[backend.MSER], img hmat) (ffi.Vec[ffi.RawVec[types.Point]], ffi.Vec[types.Rect]) {
	defer n.enter("MSERDetectRegions")()
	ms, ok := lookup[*mser](n, h)
	m, ok2 := n.mat(img)
	if !ok || !ok2 || m.empty() {
		return ffi.Vec[ffi.RawVec[types.Point]]{}, ffi.Vec[types.Rect]{}
	}
	seen := make([]bool, m.total())
	var regions []ffi.RawVec[types.Point]
	var boxes []types.Rect
	for r := 0; r < int(m.rows); r++ {
		for c := 0; c < int(m.cols); c++ {
			if seen[r*int(m.cols)+c] || m.gray(r, c) == 0 {
				continue
			}
			pts := flood(m, seen, r, c)
			if len(pts) < int(ms.p.MinArea) || (ms.p.MaxArea > 0 && len(pts) > int(ms.p.MaxArea)) {
				continue
			}
			regions = append(regions, ffi.RawVecOf(pts))
			boxes = append(boxes, bounding(pts))
		}
	}
	return vecOf(n, regions), vecOf(n, boxes)
}

func flood(m *mat, seen []bool, r0, c0 int) []types.Point {
	var pts []types.Point
	stack := []types.Point{{X: int32(c0), Y: int32(r0)}}
	seen[r0*int(m.cols)+c0] = true
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		pts = append(pts, p)
		for _, d := range [4][2]int32{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			x, y := p.X+d[0], p.Y+d[1]
			if x < 0 || y < 0 || x >= m.cols || y >= m.rows {
				continue
			}
			i := int(y)*int(m.cols) + int(x)
			if seen[i] || m.gray(int(y), int(x)) == 0 {
				continue
			}
			seen[i] = true
			stack = append(stack, types.Point{X: x, Y: y})
		}
	}
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].Y != pts[j].Y {
			return pts[i].Y < pts[j].Y
		}
		return pts[i].X < pts[j].X
	})
	return pts
}

func bounding(pts []types.Point) types.Rect {
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	return types.Rect{X: minX, Y: minY, Width: maxX - minX + 1, Height: maxY - minY + 1}
}

func (n *Native) MSERRelease(h ffi.Handle[backend.MSER]) {
	defer n.enter("MSERRelease")()
	release(n, h)
}

type sift struct{ p backend.SIFTParams }

func (n *Native) SIFTNew(p backend.SIFTParams) ffi.Result[ffi.Handle[backend.SIFT]] {
	defer n.enter("SIFTNew")()
	if p.NFeatures < 0 || p.NOctaveLayers < 1 || p.Sigma <= 0 {
		return errResult[ffi.Handle[backend.SIFT]](n, "SIFT: invalid parameters")
	}
	return ffi.Ok(alloc[backend.SIFT](n, &sift{p: p}))
}

// keypoints treats every pixel at full intensity as a keypoint and gives it
// a descriptor of the requested width filled from its coordinates.
func (n *Native) keypoints(img, mask hmat, limit int32, width int32) (ffi.Vec[types.KeyPoint], hmat) {
	m, ok := n.mat(img)
	if !ok || m.empty() {
		return ffi.Vec[types.KeyPoint]{}, n.newHandle(&mat{})
	}
	mk, hasMask := n.mat(mask)
	var kps []types.KeyPoint
	for r := 0; r < int(m.rows); r++ {
		for c := 0; c < int(m.cols); c++ {
			if m.gray(r, c) < 255 {
				continue
			}
			if hasMask && !mk.empty() && mk.at(r, c, 0) == 0 {
				continue
			}
			if limit > 0 && int32(len(kps)) == limit {
				break
			}
			kps = append(kps, types.KeyPoint{
				Pt:       types.Point2f{X: float32(c), Y: float32(r)},
				Size:     1.6,
				Angle:    -1,
				Response: 1,
				ClassID:  -1,
			})
		}
	}
	desc := newMat(int32(len(kps)), width, makeType(depth32F, 1))
	for i, kp := range kps {
		for j := 0; j < int(width); j++ {
			v := kp.Pt.X
			if j%2 == 1 {
				v = kp.Pt.Y
			}
			desc.set(i, j, 0, float64(v))
		}
	}
	return vecOf(n, kps), n.newHandle(desc)
}

func (n *Native) SIFTDetectAndCompute(s ffi.Handle[backend.SIFT], img, mask hmat) (ffi.Vec[types.KeyPoint], hmat) {
	defer n.enter("SIFTDetectAndCompute")()
	sf, ok := lookup[*sift](n, s)
	if !ok {
		return ffi.Vec[types.KeyPoint]{}, hmat{}
	}
	return n.keypoints(img, mask, sf.p.NFeatures, 128)
}

func (n *Native) SIFTRelease(s ffi.Handle[backend.SIFT]) {
	defer n.enter("SIFTRelease")()
	release(n, s)
}

type surf struct{ p backend.SURFParams }

func (n *Native) SURFNew(p backend.SURFParams) ffi.Result[ffi.Handle[backend.SURF]] {
	defer n.enter("SURFNew")()
	if !n.NonFree {
		return errResult[ffi.Handle[backend.SURF]](n,
			"This algorithm is patented and is excluded in this configuration; Set OPENCV_ENABLE_NONFREE CMake option and rebuild the library")
	}
	return ffi.Ok(alloc[backend.SURF](n, &surf{p: p}))
}

func (n *Native) SURFDetectAndCompute(s ffi.Handle[backend.SURF], img, mask hmat) (ffi.Vec[types.KeyPoint], hmat) {
	defer n.enter("SURFDetectAndCompute")()
	sf, ok := lookup[*surf](n, s)
	if !ok {
		return ffi.Vec[types.KeyPoint]{}, hmat{}
	}
	width := int32(64)
	if sf.p.Extended {
		width = 128
	}
	return n.keypoints(img, mask, 0, width)
}

func (n *Native) SURFRelease(s ffi.Handle[backend.SURF]) {
	defer n.enter("SURFRelease")()
	release(n, s)
}

// Matcher kinds as passed by the wrappers.
const (
	matchBruteForce        = 1
	matchBruteForceL1      = 2
	matchBruteForceHamming = 3
	matchFlannBased        = 4
)

type matcher struct {
	kind  int32
	train []*mat
}

func (n *Native) MatcherNew(kind int32) ffi.Result[ffi.Handle[backend.Matcher]] {
	defer n.enter("MatcherNew")()
	if kind < matchBruteForce || kind > matchFlannBased {
		return errResult[ffi.Handle[backend.Matcher]](n, "Unknown matcher name")
	}
	return ffi.Ok(alloc[backend.Matcher](n, &matcher{kind: kind}))
}

func (n *Native) MatcherAdd(h ffi.Handle[backend.Matcher], descriptors []hmat) {
	defer n.enter("MatcherAdd")()
	mt, ok := lookup[*matcher](n, h)
	if !ok {
		return
	}
	for _, d := range descriptors {
		if m, ok := n.mat(d); ok {
			mt.train = append(mt.train, m.clone())
		}
	}
}

func (n *Native) MatcherTrain(h ffi.Handle[backend.Matcher]) ffi.Result[bool] {
	defer n.enter("MatcherTrain")()
	mt, ok := lookup[*matcher](n, h)
	if !ok {
		return errResult[bool](n, "invalid handle")
	}
	if mt.kind == matchFlannBased && len(mt.train) == 0 {
		return errResult[bool](n, "FLANN index requires training descriptors")
	}
	return ffi.Ok(true)
}

func (mt *matcher) distance(a, b []float64) float64 {
	var d float64
	switch mt.kind {
	case matchBruteForceHamming:
		for i := range a {
			d += float64(bits.OnesCount8(uint8(a[i]) ^ uint8(b[i])))
		}
	case matchBruteForceL1:
		for i := range a {
			d += math.Abs(a[i] - b[i])
		}
	default:
		for i := range a {
			d += (a[i] - b[i]) * (a[i] - b[i])
		}
		d = math.Sqrt(d)
	}
	return d
}

// knn returns, for each query row, the k nearest rows across the train
// sets, closest first.
func (n *Native) knn(mt *matcher, query *mat, train []*mat, k int) [][]types.DMatch {
	out := make([][]types.DMatch, query.rows)
	for q := 0; q < int(query.rows); q++ {
		qr := query.row(q)
		var cands []types.DMatch
		for img, t := range train {
			if t.cols != query.cols {
				continue
			}
			for r := 0; r < int(t.rows); r++ {
				cands = append(cands, types.DMatch{
					QueryIdx: int32(q),
					TrainIdx: int32(r),
					ImgIdx:   int32(img),
					Distance: float32(mt.distance(qr, t.row(r))),
				})
			}
		}
		sort.SliceStable(cands, func(i, j int) bool { return cands[i].Distance < cands[j].Distance })
		out[q] = cands[:min(k, len(cands))]
	}
	return out
}

func (n *Native) trainSet(mt *matcher, train hmat) []*mat {
	if t, ok := n.mat(train); ok {
		return []*mat{t}
	}
	return mt.train
}

func (n *Native) MatcherMatch(h ffi.Handle[backend.Matcher], query, train hmat) ffi.Vec[types.DMatch] {
	defer n.enter("MatcherMatch")()
	mt, ok := lookup[*matcher](n, h)
	q, ok2 := n.mat(query)
	if !ok || !ok2 {
		return ffi.Vec[types.DMatch]{}
	}
	var out []types.DMatch
	for _, row := range n.knn(mt, q, n.trainSet(mt, train), 1) {
		out = append(out, row...)
	}
	return vecOf(n, out)
}

func (n *Native) MatcherKnnMatch(h ffi.Handle[backend.Matcher], query, train hmat, k int32) ffi.Vec[ffi.RawVec[types.DMatch]] {
	defer n.enter("MatcherKnnMatch")()
	mt, ok := lookup[*matcher](n, h)
	q, ok2 := n.mat(query)
	if !ok || !ok2 || k <= 0 {
		return ffi.Vec[ffi.RawVec[types.DMatch]]{}
	}
	rows := n.knn(mt, q, n.trainSet(mt, train), int(k))
	out := make([]ffi.RawVec[types.DMatch], len(rows))
	for i, r := range rows {
		out[i] = ffi.RawVecOf(r)
	}
	return vecOf(n, out)
}

func (n *Native) MatcherRelease(h ffi.Handle[backend.Matcher]) {
	defer n.enter("MatcherRelease")()
	release(n, h)
}

type bowTrainer struct {
	clusters int32
	tc       types.TermCriteria
	rows     [][]float64
	cols     int32
}

func (n *Native) BOWNew(clusterCount int32, tc types.TermCriteria, attempts, flags int32) ffi.Handle[backend.BOWTrainer] {
	defer n.enter("BOWNew")()
	return alloc[backend.BOWTrainer](n, &bowTrainer{clusters: clusterCount, tc: tc})
}

func (n *Native) BOWAdd(h ffi.Handle[backend.BOWTrainer], descriptors hmat) {
	defer n.enter("BOWAdd")()
	b, ok := lookup[*bowTrainer](n, h)
	m, ok2 := n.mat(descriptors)
	if !ok || !ok2 || m.empty() {
		return
	}
	if b.cols != 0 && b.cols != m.cols {
		return
	}
	b.cols = m.cols
	for r := 0; r < int(m.rows); r++ {
		b.rows = append(b.rows, m.row(r))
	}
}

func (n *Native) BOWDescriptorsCount(h ffi.Handle[backend.BOWTrainer]) int32 {
	defer n.enter("BOWDescriptorsCount")()
	b, ok := lookup[*bowTrainer](n, h)
	if !ok {
		return 0
	}
	return int32(len(b.rows))
}

// BOWCluster runs Lloyd's k-means seeded with the first k descriptors.
func (n *Native) BOWCluster(h ffi.Handle[backend.BOWTrainer]) matRes {
	defer n.enter("BOWCluster")()
	b, ok := lookup[*bowTrainer](n, h)
	if !ok {
		return errResult[hmat](n, "invalid handle")
	}
	k := int(b.clusters)
	if k <= 0 || len(b.rows) < k {
		return errResult[hmat](n, "N >= K: %d descriptors for %d clusters", len(b.rows), k)
	}
	centers := make([][]float64, k)
	for i := range centers {
		centers[i] = append([]float64(nil), b.rows[i]...)
	}
	iters := 10
	if b.tc.Type&types.TermCount != 0 && b.tc.MaxCount > 0 {
		iters = int(b.tc.MaxCount)
	}
	l2 := &matcher{kind: matchBruteForce}
	for it := 0; it < iters; it++ {
		sums := make([][]float64, k)
		counts := make([]int, k)
		for i := range sums {
			sums[i] = make([]float64, b.cols)
		}
		for _, row := range b.rows {
			best, bestD := 0, math.Inf(1)
			for c, center := range centers {
				if d := l2.distance(row, center); d < bestD {
					best, bestD = c, d
				}
			}
			counts[best]++
			for j, v := range row {
				sums[best][j] += v
			}
		}
		var shift float64
		for c := range centers {
			if counts[c] == 0 {
				continue
			}
			next := make([]float64, b.cols)
			for j := range next {
				next[j] = sums[c][j] / float64(counts[c])
			}
			shift = math.Max(shift, l2.distance(next, centers[c]))
			centers[c] = next
		}
		if b.tc.Type&types.TermEps != 0 && shift <= b.tc.Epsilon {
			break
		}
	}
	out := newMat(int32(k), b.cols, makeType(depth32F, 1))
	for r, center := range centers {
		for c, v := range center {
			out.set(r, c, 0, v)
		}
	}
	return ffi.Ok(n.newHandle(out))
}

func (n *Native) BOWRelease(h ffi.Handle[backend.BOWTrainer]) {
	defer n.enter("BOWRelease")()
	release(n, h)
}
