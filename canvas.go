package lcd

import (
	"fmt"
	"image"
	"image/color"

	"tinygo.org/x/drivers"

	"github.com/BeatGlow/lcd/pixel"
)

// Canvas is a full surface image that is pushed to the panel through a Blitter.
//
// It can be drawn to with the draw and text packages, and implements drivers.Displayer for
// renderers written against the TinyGo driver interface.
type Canvas struct {
	*pixel.Image
	b *Blitter
}

// NewCanvas returns a black canvas the size of the blitter surface.
func NewCanvas(b *Blitter) *Canvas {
	r := b.Bounds()
	return &Canvas{
		Image: pixel.NewImage(r.Dx(), r.Dy()),
		b:     b,
	}
}

func (c *Canvas) String() string {
	return fmt.Sprintf("canvas %s on %s", c.Rect.Size(), c.b)
}

// Size is the canvas size in pixels.
func (c *Canvas) Size() (x, y int16) {
	return int16(c.Rect.Dx()), int16(c.Rect.Dy())
}

// SetPixel sets the pixel at (x, y), pixels outside the canvas are ignored.
func (c *Canvas) SetPixel(x, y int16, col color.RGBA) {
	c.Set(int(x), int(y), col)
}

// Display sends the whole canvas to the panel.
func (c *Canvas) Display() error {
	return c.b.DrawFrame(c.Pix)
}

// Flush sends the part of the canvas inside r to the panel.
func (c *Canvas) Flush(r image.Rectangle) error {
	if r = r.Intersect(c.Rect); r.Empty() {
		return nil
	}
	return c.b.DrawRegion(r.Min.X, r.Min.Y, r.Dx(), r.Dy(), &Source{
		Pix:    c.Pix,
		X:      r.Min.X,
		Y:      r.Min.Y,
		Stride: c.Stride,
	})
}

// Interface checks.
var _ drivers.Displayer = (*Canvas)(nil)
