package pixel

import (
	"image/color"
	"testing"
)

func TestSwap(t *testing.T) {
	tests := []struct {
		in, want uint16
	}{
		{0x0000, 0x0000},
		{0xffff, 0xffff},
		{0x1234, 0x3412},
		{0xf800, 0x00f8},
		{0x001f, 0x1f00},
	}
	for _, test := range tests {
		if v := Swap(test.in); v != test.want {
			t.Errorf("Swap(%#04x): expected %#04x, got %#04x", test.in, test.want, v)
		}
	}
}

func TestSwapRoundTrip(t *testing.T) {
	for p := 0; p <= 0xffff; p++ {
		if v := Swap(Swap(uint16(p))); v != uint16(p) {
			t.Fatalf("Swap(Swap(%#04x)) = %#04x", p, v)
		}
	}
}

func TestRGB565(t *testing.T) {
	tests := []struct {
		name string
		c    RGB565
		want color.RGBA64
	}{
		{"black", Black, color.RGBA64{0, 0, 0, 0xffff}},
		{"white", White, color.RGBA64{0xffff, 0xffff, 0xffff, 0xffff}},
		{"red", Red, color.RGBA64{0xffff, 0, 0, 0xffff}},
		{"green", Green, color.RGBA64{0, 0xffff, 0, 0xffff}},
		{"blue", Blue, color.RGBA64{0, 0, 0xffff, 0xffff}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r, g, b, a := test.c.RGBA()
			if got := (color.RGBA64{uint16(r), uint16(g), uint16(b), uint16(a)}); got != test.want {
				t.Errorf("expected %v, got %v", test.want, got)
			}
		})
	}
}

func TestRGB565Model(t *testing.T) {
	tests := []struct {
		in   color.Color
		want RGB565
	}{
		{color.Black, Black},
		{color.White, White},
		{color.RGBA{R: 0xff, A: 0xff}, Red},
		{color.RGBA{G: 0xff, A: 0xff}, Green},
		{color.RGBA{B: 0xff, A: 0xff}, Blue},
		{RGB565{0x1234}, RGB565{0x1234}},
	}
	for _, test := range tests {
		if v := RGB565Model.Convert(test.in); v != test.want {
			t.Errorf("Convert(%v): expected %#04x, got %v", test.in, test.want.V, v)
		}
	}
	if v := RGB(0xff, 0xff, 0xff); v != White {
		t.Errorf("RGB(white): expected %#04x, got %#04x", White.V, v.V)
	}
}
