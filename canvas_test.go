package lcd

import (
	"image"
	"image/color"
	"testing"

	"github.com/BeatGlow/lcd/pixel"
)

func TestCanvas(t *testing.T) {
	b, tr := newTestBlitter(t, &BlitterConfig{Width: 8, Height: 6, StripeHeight: 3})
	c := NewCanvas(b)

	if x, y := c.Size(); x != 8 || y != 6 {
		t.Fatalf("expected size 8x6, got %dx%d", x, y)
	}

	c.SetPixel(2, 1, color.RGBA{R: 0xff, A: 0xff})
	c.SetPixel(-1, 1, color.RGBA{R: 0xff, A: 0xff})
	c.SetPixel(8, 1, color.RGBA{R: 0xff, A: 0xff})
	if v := c.Pix[1*8+2]; v != pixel.Red.V {
		t.Fatalf("expected red pixel %#04x, got %#04x", pixel.Red.V, v)
	}

	t.Run("display", func(it *testing.T) {
		tr.submits = nil
		if err := c.Display(); err != nil {
			it.Fatal(err)
		}
		if len(tr.submits) != 2 {
			it.Fatalf("expected 2 submissions, got %d", len(tr.submits))
		}
		checkRows(it, tr.submits, 0, 6)
		checkAlternation(it, tr.submits)
		if v := tr.submits[0].pix[1*8+2]; v != pixel.Swap(pixel.Red.V) {
			it.Errorf("expected wire pixel %#04x, got %#04x", pixel.Swap(pixel.Red.V), v)
		}
	})

	t.Run("flush", func(it *testing.T) {
		tr.submits = nil
		if err := c.Flush(image.Rect(1, 1, 4, 3)); err != nil {
			it.Fatal(err)
		}
		if len(tr.submits) != 2 {
			it.Fatalf("expected 2 submissions, got %d", len(tr.submits))
		}
		checkRows(it, tr.submits, 1, 3)
		for _, s := range tr.submits {
			if s.x0 != 1 || s.x1 != 4 || len(s.pix) != 3 {
				it.Errorf("expected columns 1-4, got %d-%d with %d pixels", s.x0, s.x1, len(s.pix))
			}
		}
		if v := tr.submits[0].pix[1]; v != pixel.Swap(pixel.Red.V) {
			it.Errorf("expected wire pixel %#04x, got %#04x", pixel.Swap(pixel.Red.V), v)
		}
	})

	t.Run("flush-clipped", func(it *testing.T) {
		tr.submits = nil
		if err := c.Flush(image.Rect(6, 4, 20, 20)); err != nil {
			it.Fatal(err)
		}
		checkRows(it, tr.submits, 4, 6)
		for _, s := range tr.submits {
			if s.x0 != 6 || s.x1 != 8 {
				it.Errorf("expected columns 6-8, got %d-%d", s.x0, s.x1)
			}
		}
	})

	t.Run("flush-outside", func(it *testing.T) {
		tr.submits = nil
		if err := c.Flush(image.Rect(-5, -5, 0, 0)); err != nil {
			it.Fatal(err)
		}
		if len(tr.submits) != 0 {
			it.Errorf("expected no submissions, got %d", len(tr.submits))
		}
	})
}
