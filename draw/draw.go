// Package draw provides the drawing primitives used to compose status screens on a panel canvas.
package draw

import (
	"image"
	"image/color"
	"image/draw"
)

// Image is an alias for [image/draw.Image].
type Image = draw.Image

// Op is an alias for [image/draw.Op].
type Op = draw.Op

const (
	// Over specifies ``(src in mask) over dst''.
	Over Op = draw.Over

	// Src specifies ``src in mask''.
	Src Op = draw.Src
)

// Draw calls [image/draw.DrawMask] with a nil mask.
func Draw(dst Image, r image.Rectangle, src image.Image, sp image.Point, op Op) {
	draw.DrawMask(dst, r, src, sp, nil, image.Point{}, op)
}

// Fill paints every pixel of r in dst with c.
func Fill(dst Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}
