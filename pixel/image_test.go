package pixel

import (
	"image"
	"image/color"
	"math/rand"
	"testing"
)

func TestImage(t *testing.T) {
	testCases := []image.Point{
		{},
		image.Pt(1, 1),
		image.Pt(2, 2),
		image.Pt(320, 24),
		image.Pt(150, 82),
	}
	for _, test := range testCases {
		t.Run(test.String(), func(it *testing.T) {
			i := NewImage(test.X, test.Y)

			if v := i.Bounds().Size(); !v.Eq(test) {
				it.Errorf("expected image size %s, got %s", test, v)
			}
			if v := i.ColorModel(); v != RGB565Model {
				it.Errorf("expected color model %T, got %T", RGB565Model, v)
			}

			it.Run("in-bounds", func(itt *testing.T) {
				for y := 0; y < test.Y; y++ {
					for x := 0; x < test.X; x++ {
						c := testRandomColor()
						i.Set(x, y, c)
						if v := i.ColorModel().Convert(c); i.At(x, y) != v {
							itt.Fatalf("pixel (%d,%d) is %#+v, expected %#+v (%v)", x, y, i.At(x, y), v, c)
						}
					}
				}
			})

			it.Run("out-bounds", func(itt *testing.T) {
				for y := -test.Y; y < test.Y*2; y++ {
					for x := -test.X; x < test.X*2; x++ {
						i.Set(x, y, testRandomColor())
						if x < 0 || y < 0 {
							if v := i.At(x, y); v != color.Transparent {
								itt.Fatalf("pixel (%d,%d) is %#+v, expected transparent", x, y, v)
							}
						}
					}
				}
			})

			it.Run("fill", func(itt *testing.T) {
				c := testRandomColor()
				i.Fill(c)
				if test.X > 0 && test.Y > 0 {
					x := rand.Intn(test.X)
					y := rand.Intn(test.Y)
					if v := i.ColorModel().Convert(c); i.At(x, y) != v {
						itt.Fatalf("pixel (%d,%d) is %#+v, expected %#+v (%v)", x, y, i.At(x, y), v, c)
					}
				}
			})

			it.Run("clear", func(itt *testing.T) {
				i.Clear()
				for j, v := range i.Pix {
					if v != 0 {
						itt.Fatalf("pixel %d is %#04x, expected black", j, v)
					}
				}
			})
		})
	}
}

func TestSubImage(t *testing.T) {
	i := NewImage(8, 8)
	s := i.SubImage(image.Rect(2, 3, 5, 6))
	s.Set(2, 3, White)
	if v := i.Pix[3*8+2]; v != White.V {
		t.Errorf("expected shared pixel to be %#04x, got %#04x", White.V, v)
	}
	if v := s.At(1, 3); v != color.Transparent {
		t.Errorf("expected pixel outside sub image to be transparent, got %v", v)
	}
	if s := i.SubImage(image.Rect(10, 10, 12, 12)); !s.Rect.Empty() {
		t.Errorf("expected empty sub image, got %s", s.Rect)
	}
}

func TestFromImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(4, 4, 6, 7))
	src.Set(4, 4, color.White)
	dst := FromImage(src)
	if v := dst.Bounds(); v != image.Rect(0, 0, 2, 3) {
		t.Fatalf("expected bounds (0,0)-(2,3), got %s", v)
	}
	if v := dst.Pix[0]; v != White.V {
		t.Errorf("expected first pixel white, got %#04x", v)
	}
	if v := dst.Pix[1]; v != Black.V {
		t.Errorf("expected second pixel black, got %#04x", v)
	}
}

func testRandomColor() color.Color {
	return color.RGBA{
		R: uint8(rand.Intn(255)),
		G: uint8(rand.Intn(255)),
		B: uint8(rand.Intn(255)),
		A: 0xFF,
	}
}
