package text

import (
	"image"
	"image/color"
	"testing"
)

func TestNewFace(t *testing.T) {
	for _, size := range []float64{0, -1} {
		if _, err := NewFace(size); err != ErrSize {
			t.Errorf("size %g: expected %v, got %v", size, ErrSize, err)
		}
	}

	f, err := NewFace(DefaultSize)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if h := f.LineHeight(); h < DefaultSize || h > DefaultSize*2 {
		t.Errorf("unexpected line height %d for %dpt", h, DefaultSize)
	}
}

func TestMeasure(t *testing.T) {
	f, err := NewFace(DefaultSize)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if w := f.Measure("").X; w != 0 {
		t.Errorf("expected empty string to have no width, got %d", w)
	}
	narrow, wide := f.Measure("ii"), f.Measure("WW")
	if narrow.X <= 0 || narrow.X >= wide.X {
		t.Errorf("expected 0 < %d < %d", narrow.X, wide.X)
	}
	if one, two := f.Measure("W").X, wide.X; two < 2*one-1 || two > 2*one+1 {
		t.Errorf("expected twice the width of W (%d), got %d", one, two)
	}
}

func TestDrawCentered(t *testing.T) {
	f, err := NewFace(DefaultSize)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	const s = "Low battery"
	dst := image.NewGray(image.Rect(0, 0, 200, 60))
	f.DrawCentered(dst, 10, s, color.White)

	size := f.Measure(s)
	left := (200 - size.X) / 2
	inside := image.Rect(left-1, 9, left+size.X+1, 11+size.Y)

	var lit int
	for y := 0; y < 60; y++ {
		for x := 0; x < 200; x++ {
			if dst.GrayAt(x, y).Y == 0 {
				continue
			}
			if !image.Pt(x, y).In(inside) {
				t.Fatalf("pixel (%d,%d) drawn outside %s", x, y, inside)
			}
			lit++
		}
	}
	if lit == 0 {
		t.Error("expected text to be drawn")
	}
}
