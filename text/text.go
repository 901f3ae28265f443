// Package text renders strings with an embedded Go font.
package text

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// ErrSize is returned for a non-positive font size.
var ErrSize = errors.New("text: invalid font size")

// DefaultSize is the font size in points used by the status screens.
const DefaultSize = 20

var (
	regular     *truetype.Font
	regularErr  error
	regularOnce sync.Once
)

func parseRegular() (*truetype.Font, error) {
	regularOnce.Do(func() {
		regular, regularErr = truetype.Parse(goregular.TTF)
	})
	return regular, regularErr
}

// Face is a sized font face.
type Face struct {
	face    font.Face
	ascent  int
	descent int
}

// NewFace returns the Go Regular font at size points (72 DPI, so one point is one pixel).
func NewFace(size float64) (*Face, error) {
	if size <= 0 {
		return nil, ErrSize
	}
	f, err := parseRegular()
	if err != nil {
		return nil, err
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	m := face.Metrics()
	return &Face{
		face:    face,
		ascent:  m.Ascent.Ceil(),
		descent: m.Descent.Ceil(),
	}, nil
}

// Close releases the face.
func (f *Face) Close() error {
	return f.face.Close()
}

// LineHeight is the height of one line of text in pixels.
func (f *Face) LineHeight() int {
	return f.ascent + f.descent
}

// Measure returns the size of s in pixels.
func (f *Face) Measure(s string) image.Point {
	return image.Pt(font.MeasureString(f.face, s).Ceil(), f.LineHeight())
}

// Draw draws s with its top left corner at p.
func (f *Face) Draw(dst draw.Image, p image.Point, s string, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: f.face,
		Dot:  fixed.P(p.X, p.Y+f.ascent),
	}
	d.DrawString(s)
}

// DrawCentered draws s horizontally centered in dst with its top at y.
func (f *Face) DrawCentered(dst draw.Image, y int, s string, c color.Color) {
	r := dst.Bounds()
	w := f.Measure(s).X
	f.Draw(dst, image.Pt(r.Min.X+(r.Dx()-w)/2, y), s, c)
}
