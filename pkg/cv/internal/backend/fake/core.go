package fake

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/backend"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/internal/ffi"
	"github.com/hsiuhsiu/opencv-go/pkg/cv/types"
)

func (n *Native) Version() string { return "4.10.0-fake" }

func (n *Native) SetNumThreads(t int32) {
	defer n.enter("SetNumThreads")()
	if t < 0 {
		t = 8
	}
	n.threads = t
}

func (n *Native) NumThreads() int32 {
	defer n.enter("NumThreads")()
	return n.threads
}

func (n *Native) SetUseOptimized(on bool) {
	defer n.enter("SetUseOptimized")()
	n.optimized = on
}

func (n *Native) UseOptimized() bool {
	defer n.enter("UseOptimized")()
	return n.optimized
}

func (n *Native) CUDADeviceCount() int32 {
	defer n.enter("CUDADeviceCount")()
	return n.CUDADevices
}

func (n *Native) newHandle(m *mat) hmat { return alloc[backend.Mat](n, m) }

func (n *Native) mat(h hmat) (*mat, bool) { return lookup[*mat](n, h) }

func (n *Native) MatNew() hmat {
	defer n.enter("MatNew")()
	if n.OutOfMemory {
		return hmat{}
	}
	return n.newHandle(&mat{})
}

func (n *Native) MatNewWithSize(rows, cols, typ int32) hmat {
	defer n.enter("MatNewWithSize")()
	if n.OutOfMemory || rows < 0 || cols < 0 || typ < 0 {
		return hmat{}
	}
	return n.newHandle(newMat(rows, cols, typ))
}

func (n *Native) MatFromBytes(rows, cols, typ int32, data []byte) matRes {
	defer n.enter("MatFromBytes")()
	m := &mat{rows: rows, cols: cols, typ: typ}
	if rows < 0 || cols < 0 || typ < 0 || len(data) != m.total()*m.elemSize() {
		return errResult[hmat](n, "data length %d does not match %dx%d type %d", len(data), rows, cols, typ)
	}
	m.data = append([]byte(nil), data...)
	return ffi.Ok(n.newHandle(m))
}

func (n *Native) MatRelease(h hmat) {
	defer n.enter("MatRelease")()
	release(n, h)
}

func (n *Native) MatInfo(h hmat) backend.MatInfo {
	defer n.enter("MatInfo")()
	m, ok := n.mat(h)
	if !ok {
		return backend.MatInfo{}
	}
	return backend.MatInfo{Rows: m.rows, Cols: m.cols, Type: m.typ}
}

func (n *Native) MatIsValid(h hmat) bool {
	defer n.enter("MatIsValid")()
	m, ok := n.mat(h)
	return ok && !m.empty()
}

func (n *Native) MatData(h hmat) ffi.Vec[byte] {
	defer n.enter("MatData")()
	m, ok := n.mat(h)
	if !ok {
		return ffi.Vec[byte]{}
	}
	return vecOf(n, append([]byte(nil), m.data...))
}

// unary runs op on the mat behind h and wraps its output in a new handle.
func (n *Native) unary(h hmat, op func(*mat) (*mat, string)) matRes {
	m, ok := n.mat(h)
	if !ok {
		return errResult[hmat](n, "invalid Mat handle %#x", h.Addr())
	}
	out, msg := op(m)
	if msg != "" {
		return errResult[hmat](n, "%s", msg)
	}
	return ffi.Ok(n.newHandle(out))
}

func (n *Native) MatRegion(h hmat, r types.Rect) matRes {
	defer n.enter("MatRegion")()
	return n.unary(h, func(m *mat) (*mat, string) {
		if r.X < 0 || r.Y < 0 || r.Width < 0 || r.Height < 0 || r.X+r.Width > m.cols || r.Y+r.Height > m.rows {
			return nil, "0 <= roi.x && 0 <= roi.width && roi.x + roi.width <= m.cols && 0 <= roi.y && 0 <= roi.height && roi.y + roi.height <= m.rows"
		}
		out := newMat(r.Height, r.Width, m.typ)
		es := m.elemSize()
		for y := 0; y < int(r.Height); y++ {
			src := m.offset(int(r.Y)+y, int(r.X), 0)
			copy(out.data[y*int(r.Width)*es:], m.data[src:src+int(r.Width)*es])
		}
		return out, ""
	})
}

func (n *Native) MatResize(h hmat, size types.Size, fx, fy float64, interp int32) matRes {
	defer n.enter("MatResize")()
	return n.unary(h, func(m *mat) (*mat, string) {
		w, ht := size.Width, size.Height
		if w == 0 && ht == 0 {
			w = int32(math.Round(float64(m.cols) * fx))
			ht = int32(math.Round(float64(m.rows) * fy))
		}
		if m.empty() || w <= 0 || ht <= 0 {
			return nil, "!ssize.empty() && !dsize.empty()"
		}
		out := newMat(ht, w, m.typ)
		for y := 0; y < int(ht); y++ {
			sy := y * int(m.rows) / int(ht)
			for x := 0; x < int(w); x++ {
				sx := x * int(m.cols) / int(w)
				for k := 0; k < m.ch(); k++ {
					out.set(y, x, k, m.at(sy, sx, k))
				}
			}
		}
		return out, ""
	})
}

// Color conversion codes the in-memory layer understands.
const (
	colorBGR2BGRA = 0
	colorBGRA2BGR = 1
	colorBGR2RGB  = 4
	colorBGR2GRAY = 6
	colorRGB2GRAY = 7
	colorGRAY2BGR = 8
)

func (n *Native) MatCvtColor(h hmat, code int32) matRes {
	defer n.enter("MatCvtColor")()
	return n.unary(h, func(m *mat) (*mat, string) {
		var in, outCh int
		var px func(m *mat, r, c int) []float64
		switch code {
		case colorBGR2BGRA:
			in, outCh = 3, 4
			px = func(m *mat, r, c int) []float64 { return []float64{m.at(r, c, 0), m.at(r, c, 1), m.at(r, c, 2), 255} }
		case colorBGRA2BGR:
			in, outCh = 4, 3
			px = func(m *mat, r, c int) []float64 { return []float64{m.at(r, c, 0), m.at(r, c, 1), m.at(r, c, 2)} }
		case colorBGR2RGB:
			in, outCh = 3, 3
			px = func(m *mat, r, c int) []float64 { return []float64{m.at(r, c, 2), m.at(r, c, 1), m.at(r, c, 0)} }
		case colorBGR2GRAY:
			in, outCh = 3, 1
			px = func(m *mat, r, c int) []float64 { return []float64{m.gray(r, c)} }
		case colorRGB2GRAY:
			in, outCh = 3, 1
			px = func(m *mat, r, c int) []float64 {
				return []float64{0.299*m.at(r, c, 0) + 0.587*m.at(r, c, 1) + 0.114*m.at(r, c, 2)}
			}
		case colorGRAY2BGR:
			in, outCh = 1, 3
			px = func(m *mat, r, c int) []float64 {
				v := m.at(r, c, 0)
				return []float64{v, v, v}
			}
		default:
			return nil, "unsupported color conversion code"
		}
		if m.ch() != in {
			return nil, "Invalid number of channels in input image"
		}
		out := newMat(m.rows, m.cols, makeType(m.depth(), int32(outCh)))
		for r := 0; r < int(m.rows); r++ {
			for c := 0; c < int(m.cols); c++ {
				for k, v := range px(m, r, c) {
					out.set(r, c, k, v)
				}
			}
		}
		return out, ""
	})
}

func (n *Native) MatMixChannels(h hmat, dstChannels int32, fromTo []int32) matRes {
	defer n.enter("MatMixChannels")()
	return n.unary(h, func(m *mat) (*mat, string) {
		if len(fromTo)%2 != 0 || dstChannels <= 0 || dstChannels > 4 {
			return nil, "fromTo must hold index pairs"
		}
		out := newMat(m.rows, m.cols, makeType(m.depth(), dstChannels))
		for i := 0; i < len(fromTo); i += 2 {
			src, dst := int(fromTo[i]), int(fromTo[i+1])
			if src >= m.ch() || dst < 0 || dst >= int(dstChannels) {
				return nil, "channel index out of range"
			}
			for r := 0; r < int(m.rows); r++ {
				for c := 0; c < int(m.cols); c++ {
					v := 0.0
					if src >= 0 {
						v = m.at(r, c, src)
					}
					out.set(r, c, dst, v)
				}
			}
		}
		return out, ""
	})
}

func (n *Native) MatFlip(h hmat, code int32) hmat {
	defer n.enter("MatFlip")()
	m, ok := n.mat(h)
	if !ok {
		return hmat{}
	}
	out := newMat(m.rows, m.cols, m.typ)
	for r := 0; r < int(m.rows); r++ {
		for c := 0; c < int(m.cols); c++ {
			sr, sc := r, c
			if code <= 0 {
				sr = int(m.rows) - 1 - r
			}
			if code != 0 {
				sc = int(m.cols) - 1 - c
			}
			for k := 0; k < m.ch(); k++ {
				out.set(r, c, k, m.at(sr, sc, k))
			}
		}
	}
	return n.newHandle(out)
}

func (n *Native) MatInRange(h hmat, lo, hi types.Scalar) matRes {
	defer n.enter("MatInRange")()
	return n.unary(h, func(m *mat) (*mat, string) {
		out := newMat(m.rows, m.cols, makeType(depth8U, 1))
		for r := 0; r < int(m.rows); r++ {
			for c := 0; c < int(m.cols); c++ {
				in := true
				for k := 0; k < m.ch() && k < 4; k++ {
					v := m.at(r, c, k)
					in = in && v >= lo.Val[k] && v <= hi.Val[k]
				}
				if in {
					out.set(r, c, 0, 255)
				}
			}
		}
		return out, ""
	})
}

// Threshold types.
const (
	threshBinary    = 0
	threshBinaryInv = 1
	threshTrunc     = 2
	threshToZero    = 3
	threshToZeroInv = 4
)

func (n *Native) MatThreshold(h hmat, thresh, maxval float64, typ int32) matRes {
	defer n.enter("MatThreshold")()
	return n.unary(h, func(m *mat) (*mat, string) {
		if typ < threshBinary || typ > threshToZeroInv {
			return nil, "Unknown threshold type"
		}
		out := newMat(m.rows, m.cols, m.typ)
		for r := 0; r < int(m.rows); r++ {
			for c := 0; c < int(m.cols); c++ {
				for k := 0; k < m.ch(); k++ {
					v := m.at(r, c, k)
					above := v > thresh
					switch typ {
					case threshBinary:
						v = pick(above, maxval, 0)
					case threshBinaryInv:
						v = pick(above, 0, maxval)
					case threshTrunc:
						v = pick(above, thresh, v)
					case threshToZero:
						v = pick(above, v, 0)
					case threshToZeroInv:
						v = pick(above, 0, v)
					}
					out.set(r, c, k, v)
				}
			}
		}
		return out, ""
	})
}

func pick(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}

func (n *Native) MatConvertTo(h hmat, rtype int32, alpha, beta float64) matRes {
	defer n.enter("MatConvertTo")()
	return n.unary(h, func(m *mat) (*mat, string) {
		depth := m.depth()
		if rtype >= 0 {
			depth = depthOf(rtype)
		}
		out := newMat(m.rows, m.cols, makeType(depth, channelsOf(m.typ)))
		for r := 0; r < int(m.rows); r++ {
			for c := 0; c < int(m.cols); c++ {
				for k := 0; k < m.ch(); k++ {
					out.set(r, c, k, m.at(r, c, k)*alpha+beta)
				}
			}
		}
		return out, ""
	})
}

func (n *Native) MatSetTo(h hmat, s types.Scalar) {
	defer n.enter("MatSetTo")()
	m, ok := n.mat(h)
	if !ok {
		return
	}
	for r := 0; r < int(m.rows); r++ {
		for c := 0; c < int(m.cols); c++ {
			for k := 0; k < m.ch() && k < 4; k++ {
				m.set(r, c, k, s.Val[k])
			}
		}
	}
}

func (n *Native) MatRectangle(h hmat, rect types.Rect, color types.Scalar, thickness int32) {
	defer n.enter("MatRectangle")()
	m, ok := n.mat(h)
	if !ok {
		return
	}
	x0, y0 := int(rect.X), int(rect.Y)
	x1, y1 := x0+int(rect.Width)-1, y0+int(rect.Height)-1
	t := int(thickness)
	for r := max(y0, 0); r <= min(y1, int(m.rows)-1); r++ {
		for c := max(x0, 0); c <= min(x1, int(m.cols)-1); c++ {
			edge := r < y0+t || r > y1-t || c < x0+t || c > x1-t
			if thickness >= 0 && !edge {
				continue
			}
			for k := 0; k < m.ch() && k < 4; k++ {
				m.set(r, c, k, color.Val[k])
			}
		}
	}
}

const errSingleChannel = "src.channels() == 1"

func (n *Native) MatCountNonZero(h hmat) ffi.Result[int32] {
	defer n.enter("MatCountNonZero")()
	m, ok := n.mat(h)
	if !ok {
		return errResult[int32](n, "invalid Mat handle %#x", h.Addr())
	}
	if m.ch() != 1 {
		return errResult[int32](n, errSingleChannel)
	}
	var cnt int32
	for r := 0; r < int(m.rows); r++ {
		for c := 0; c < int(m.cols); c++ {
			if m.at(r, c, 0) != 0 {
				cnt++
			}
		}
	}
	return ffi.Ok(cnt)
}

func (n *Native) MatFindNonZero(h hmat) ffi.Vec[types.Point] {
	defer n.enter("MatFindNonZero")()
	m, ok := n.mat(h)
	if !ok || m.ch() != 1 {
		return ffi.Vec[types.Point]{}
	}
	var pts []types.Point
	for r := 0; r < int(m.rows); r++ {
		for c := 0; c < int(m.cols); c++ {
			if m.at(r, c, 0) != 0 {
				pts = append(pts, types.Point{X: int32(c), Y: int32(r)})
			}
		}
	}
	return vecOf(n, pts)
}

func (n *Native) MatMinMaxLoc(h hmat) ffi.Result[types.MinMaxLoc] {
	defer n.enter("MatMinMaxLoc")()
	m, ok := n.mat(h)
	if !ok {
		return errResult[types.MinMaxLoc](n, "invalid Mat handle %#x", h.Addr())
	}
	if m.ch() != 1 {
		return errResult[types.MinMaxLoc](n, errSingleChannel)
	}
	if m.empty() {
		return ffi.Ok(types.MinMaxLoc{MinLoc: types.Point{X: -1, Y: -1}, MaxLoc: types.Point{X: -1, Y: -1}})
	}
	res := types.MinMaxLoc{Min: math.Inf(1), Max: math.Inf(-1)}
	for r := 0; r < int(m.rows); r++ {
		for c := 0; c < int(m.cols); c++ {
			v := m.at(r, c, 0)
			if v < res.Min {
				res.Min, res.MinLoc = v, types.Point{X: int32(c), Y: int32(r)}
			}
			if v > res.Max {
				res.Max, res.MaxLoc = v, types.Point{X: int32(c), Y: int32(r)}
			}
		}
	}
	return ffi.Ok(res)
}

func (n *Native) MatMean(h hmat) types.Scalar {
	defer n.enter("MatMean")()
	m, ok := n.mat(h)
	if !ok || m.empty() {
		return types.Scalar{}
	}
	var s types.Scalar
	for r := 0; r < int(m.rows); r++ {
		for c := 0; c < int(m.cols); c++ {
			for k := 0; k < m.ch() && k < 4; k++ {
				s.Val[k] += m.at(r, c, k)
			}
		}
	}
	for k := range s.Val {
		s.Val[k] /= float64(m.total())
	}
	return s
}

// Imread flags.
const (
	readUnchanged = -1
	readGrayscale = 0
)

func (n *Native) ImRead(path string, flags int32) hmat {
	defer n.enter("ImRead")()
	if n.OutOfMemory {
		return hmat{}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return n.newHandle(&mat{})
	}
	return n.newHandle(decode(b, flags))
}

func (n *Native) ImDecode(buf []byte, flags int32) hmat {
	defer n.enter("ImDecode")()
	if n.OutOfMemory {
		return hmat{}
	}
	return n.newHandle(decode(buf, flags))
}

// decode returns an empty mat for anything image.Decode rejects, the way
// imread does.
func decode(b []byte, flags int32) *mat {
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return &mat{}
	}
	bounds := img.Bounds()
	rows, cols := int32(bounds.Dy()), int32(bounds.Dx())
	_, isGray := img.(*image.Gray)
	o, ok := img.(interface{ Opaque() bool })
	hasAlpha := ok && !o.Opaque()

	ch := int32(3)
	switch {
	case flags == readGrayscale, flags == readUnchanged && isGray:
		ch = 1
	case flags == readUnchanged && hasAlpha:
		ch = 4
	}
	m := newMat(rows, cols, makeType(depth8U, ch))
	for y := 0; y < int(rows); y++ {
		for x := 0; x < int(cols); x++ {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			switch ch {
			case 1:
				m.set(y, x, 0, float64(color.GrayModel.Convert(c).(color.Gray).Y))
			default:
				m.set(y, x, 0, float64(c.B))
				m.set(y, x, 1, float64(c.G))
				m.set(y, x, 2, float64(c.R))
				if ch == 4 {
					m.set(y, x, 3, float64(c.A))
				}
			}
		}
	}
	return m
}

func encode(m *mat, ext string) ([]byte, string) {
	if m.empty() {
		return nil, "!_img.empty()"
	}
	if m.depth() != depth8U {
		return nil, "image depth not supported by encoder"
	}
	var img image.Image
	switch m.ch() {
	case 1:
		g := image.NewGray(image.Rect(0, 0, int(m.cols), int(m.rows)))
		copy(g.Pix, m.data)
		img = g
	case 3, 4:
		rgba := image.NewNRGBA(image.Rect(0, 0, int(m.cols), int(m.rows)))
		for y := 0; y < int(m.rows); y++ {
			for x := 0; x < int(m.cols); x++ {
				a := uint8(255)
				if m.ch() == 4 {
					a = uint8(m.at(y, x, 3))
				}
				rgba.SetNRGBA(x, y, color.NRGBA{R: uint8(m.at(y, x, 2)), G: uint8(m.at(y, x, 1)), B: uint8(m.at(y, x, 0)), A: a})
			}
		}
		img = rgba
	default:
		return nil, "unsupported number of channels"
	}
	var buf bytes.Buffer
	var err error
	switch strings.ToLower(ext) {
	case ".png":
		err = png.Encode(&buf, img)
	case ".jpg", ".jpeg":
		err = jpeg.Encode(&buf, img, nil)
	default:
		return nil, "could not find a writer for the specified extension"
	}
	if err != nil {
		return nil, err.Error()
	}
	return buf.Bytes(), ""
}

func (n *Native) ImWrite(path string, h hmat) ffi.Result[bool] {
	defer n.enter("ImWrite")()
	m, ok := n.mat(h)
	if !ok {
		return errResult[bool](n, "invalid Mat handle %#x", h.Addr())
	}
	b, msg := encode(m, filepath.Ext(path))
	if msg != "" {
		return errResult[bool](n, "%s", msg)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return ffi.Ok(false)
	}
	return ffi.Ok(true)
}

func (n *Native) ImEncode(ext string, h hmat) ffi.Result[ffi.Vec[byte]] {
	defer n.enter("ImEncode")()
	m, ok := n.mat(h)
	if !ok {
		return errResult[ffi.Vec[byte]](n, "invalid Mat handle %#x", h.Addr())
	}
	b, msg := encode(m, ext)
	if msg != "" {
		return errResult[ffi.Vec[byte]](n, "%s", msg)
	}
	return ffi.Ok(vecOf(n, b))
}

type gpuMat struct{ m *mat }

func (n *Native) GpuMatNew() ffi.Handle[backend.GpuMat] {
	defer n.enter("GpuMatNew")()
	if n.OutOfMemory {
		return ffi.Handle[backend.GpuMat]{}
	}
	return alloc[backend.GpuMat](n, &gpuMat{})
}

func (n *Native) GpuMatUpload(g ffi.Handle[backend.GpuMat], h hmat) ffi.Result[bool] {
	defer n.enter("GpuMatUpload")()
	if n.CUDADevices == 0 {
		return errResult[bool](n, "The library is compiled without CUDA support")
	}
	gm, ok := lookup[*gpuMat](n, g)
	m, ok2 := n.mat(h)
	if !ok || !ok2 {
		return errResult[bool](n, "invalid handle")
	}
	gm.m = m.clone()
	return ffi.Ok(true)
}

func (n *Native) GpuMatDownload(g ffi.Handle[backend.GpuMat]) matRes {
	defer n.enter("GpuMatDownload")()
	gm, ok := lookup[*gpuMat](n, g)
	if !ok || gm.m == nil {
		return errResult[hmat](n, "GpuMat is empty")
	}
	return ffi.Ok(n.newHandle(gm.m.clone()))
}

func (n *Native) GpuMatRelease(g ffi.Handle[backend.GpuMat]) {
	defer n.enter("GpuMatRelease")()
	release(n, g)
}
