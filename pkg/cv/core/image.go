package core

import (
	"fmt"
	"image"
	"image/color"
)

// NewMatFromImage copies img into a Mat: *image.Gray becomes CV_8UC1, any
// other image CV_8UC4 in BGRA order (alpha not premultiplied).
func NewMatFromImage(img image.Image) (*Mat, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if g, ok := img.(*image.Gray); ok {
		data := make([]byte, 0, w*h)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			off := g.PixOffset(b.Min.X, y)
			data = append(data, g.Pix[off:off+w]...)
		}
		return NewMatFromBytes(h, w, MatTypeCV8UC1, data)
	}
	data := make([]byte, 0, w*h*4)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			data = append(data, c.B, c.G, c.R, c.A)
		}
	}
	return NewMatFromBytes(h, w, MatTypeCV8UC4, data)
}

// ToImage converts an 8-bit Mat with 1, 3 or 4 channels (gray, BGR, BGRA)
// into a Go image.
func (m *Mat) ToImage() (image.Image, error) {
	if m.Depth() != DepthU8 {
		return nil, fmt.Errorf("core: toImage: unsupported depth %s", m.Depth())
	}
	data, err := m.Bytes()
	if err != nil {
		return nil, err
	}
	rect := image.Rect(0, 0, m.Cols(), m.Rows())
	switch ch := m.Channels(); ch {
	case 1:
		g := image.NewGray(rect)
		copy(g.Pix, data)
		return g, nil
	case 3, 4:
		img := image.NewNRGBA(rect)
		for i, j := 0, 0; i+ch <= len(data); i, j = i+ch, j+4 {
			img.Pix[j+0] = data[i+2]
			img.Pix[j+1] = data[i+1]
			img.Pix[j+2] = data[i]
			img.Pix[j+3] = 255
			if ch == 4 {
				img.Pix[j+3] = data[i+3]
			}
		}
		return img, nil
	default:
		return nil, fmt.Errorf("core: toImage: unsupported channel count %d", ch)
	}
}
