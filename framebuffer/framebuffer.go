// Package framebuffer provides a panel transport on the operating system's native framebuffer.
//
// This requires framebuffer device support in the operating system and a framebuffer in 16-bit
// RGB 5-6-5 mode, such as the fbtft drivers expose for SPI panels. The framebuffer can be opened
// with the [Open] call, and is written to like any other panel transport.
package framebuffer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"log"
	"os"

	"github.com/BeatGlow/lcd"
)

// Errors
var (
	ErrNotSupported = errors.New("framebuffer: not supported")
	ErrFormat       = errors.New("framebuffer: unsupported pixel format")
)

var debug = os.Getenv("LCD_DEBUG") != ""

// FrameBuffer writes pixels to framebuffer memory.
//
// Pixels are stored in host order, 16-bit little-endian RGB 5-6-5. Submit writes synchronously,
// so the transport never holds on to a stripe buffer.
type FrameBuffer struct {
	name   string
	mem    []byte
	width  int
	height int
	stride int
	close  func() error
}

// New returns a FrameBuffer on mem, with stride bytes per line.
func New(mem []byte, width, height, stride int) (*FrameBuffer, error) {
	if width <= 0 || height <= 0 || stride < width*2 || len(mem) < (height-1)*stride+width*2 {
		return nil, fmt.Errorf("framebuffer: %d bytes can not hold %dx%d with stride %d", len(mem), width, height, stride)
	}
	return &FrameBuffer{
		name:   "memory",
		mem:    mem,
		width:  width,
		height: height,
		stride: stride,
	}, nil
}

func (fb *FrameBuffer) String() string {
	return fmt.Sprintf("framebuffer %s %dx%d", fb.name, fb.width, fb.height)
}

// Bounds is the framebuffer bounding box.
func (fb *FrameBuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, fb.width, fb.height)
}

// QueueDepth is zero, Submit is done with the pixels when it returns.
func (fb *FrameBuffer) QueueDepth() int {
	return 0
}

// Submit writes the wire order pixels of (x0,y0)-(x1,y1), end exclusive.
func (fb *FrameBuffer) Submit(x0, y0, x1, y1 int, pix []uint16) error {
	if x0 < 0 || y0 < 0 || x1 > fb.width || y1 > fb.height || x1 <= x0 || y1 <= y0 {
		return fmt.Errorf("framebuffer: window (%d,%d)-(%d,%d) outside %dx%d", x0, y0, x1, y1, fb.width, fb.height)
	}
	w := x1 - x0
	if n := w * (y1 - y0); len(pix) < n {
		return fmt.Errorf("framebuffer: window (%d,%d)-(%d,%d) needs %d pixels, got %d", x0, y0, x1, y1, n, len(pix))
	}
	if debug {
		log.Printf("framebuffer: write (%d,%d)-(%d,%d)", x0, y0, x1, y1)
	}

	for y := y0; y < y1; y++ {
		line := fb.mem[y*fb.stride+x0*2:]
		for _, v := range pix[:w] {
			// Wire order is the byte swapped host value, written big-endian it is little-endian host order.
			binary.BigEndian.PutUint16(line, v)
			line = line[2:]
		}
		pix = pix[w:]
	}
	return nil
}

// Close the framebuffer.
func (fb *FrameBuffer) Close() error {
	if fb.close == nil {
		return nil
	}
	err := fb.close()
	fb.close = nil
	fb.mem = nil
	return err
}

// bitField describes a color channel.
type bitField struct {
	Offset   uint32 // Beginning of bitfield
	Length   uint32 // Length of bitfield
	MsbRight uint32 // != 0 : Most significant bit is right
}

// checkFormat accepts RGB 5-6-5 with red in the high bits.
func checkFormat(bitsPerPixel uint32, red, green, blue, alpha bitField) error {
	if bitsPerPixel == 16 &&
		red.Offset == 11 && red.Length == 5 &&
		green.Offset == 5 && green.Length == 6 &&
		blue.Offset == 0 && blue.Length == 5 &&
		alpha.Length == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d bpp, red %d@%d, green %d@%d, blue %d@%d", ErrFormat, bitsPerPixel,
		red.Length, red.Offset, green.Length, green.Offset, blue.Length, blue.Offset)
}

// Interface checks.
var _ lcd.Transport = (*FrameBuffer)(nil)
