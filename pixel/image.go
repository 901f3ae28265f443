package pixel

import (
	"image"
	"image/color"

	"github.com/BeatGlow/lcd/draw"
)

// Image is a 16-bits per pixel 5-6-5-bit RGB image with pixels in host order.
type Image struct {
	// Rect is the image bounding box.
	Rect image.Rectangle

	// Pix are the image pixels.
	Pix []uint16

	// Stride is the Pix stride (in pixels) between vertically adjacent pixels.
	Stride int
}

// NewImage returns a w×h image with all pixels black.
func NewImage(w, h int) *Image {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Image{
		Rect:   image.Rect(0, 0, w, h),
		Pix:    make([]uint16, w*h),
		Stride: w,
	}
}

// FromImage converts any image to an RGB565 image anchored at (0,0).
func FromImage(src image.Image) *Image {
	if i, ok := src.(*Image); ok && i.Rect.Min == (image.Point{}) {
		return i
	}
	b := src.Bounds()
	dst := NewImage(b.Dx(), b.Dy())
	draw.Draw(dst, dst.Rect, src, b.Min, draw.Src)
	return dst
}

func (p *Image) Bounds() image.Rectangle {
	return p.Rect
}

func (p *Image) ColorModel() color.Model {
	return RGB565Model
}

// PixOffset returns the index of the pixel at (x, y) in Pix.
func (p *Image) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x - p.Rect.Min.X)
}

func (p *Image) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return color.Transparent
	}
	return RGB565{p.Pix[p.PixOffset(x, y)]}
}

func (p *Image) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(p.Rect) {
		return
	}
	p.Pix[p.PixOffset(x, y)] = toRGB565(c).V
}

// Clear the image.
func (p *Image) Clear() {
	for i := range p.Pix {
		p.Pix[i] = 0
	}
}

// Fill the image with a single color.
func (p *Image) Fill(c color.Color) {
	value := toRGB565(c).V
	for i := range p.Pix {
		p.Pix[i] = value
	}
}

// SubImage returns an image sharing pixels with p, limited to r.
func (p *Image) SubImage(r image.Rectangle) *Image {
	r = r.Intersect(p.Rect)
	if r.Empty() {
		return &Image{Stride: p.Stride}
	}
	i := p.PixOffset(r.Min.X, r.Min.Y)
	return &Image{
		Rect:   r,
		Pix:    p.Pix[i:],
		Stride: p.Stride,
	}
}

// Interface checks.
var _ draw.Image = (*Image)(nil)
