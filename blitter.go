package lcd

import (
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/BeatGlow/lcd/pixel"
)

// stripeBuffers is the number of stripe buffers a Blitter alternates between.
const stripeBuffers = 2

// Allocator returns a buffer of n pixels that the transport can transfer from, such as DMA
// capable memory.
type Allocator func(n int) ([]uint16, error)

// BlitterConfig describes the surface a Blitter draws to.
type BlitterConfig struct {
	// Width of the surface in pixels.
	Width int

	// Height of the surface in pixels.
	Height int

	// StripeHeight is the number of rows sent per transfer by full frame draws.
	StripeHeight int

	// Alloc allocates the stripe buffers, nil allocates from the Go heap.
	Alloc Allocator
}

// DefaultBlitterConfig are the default configuration values.
var DefaultBlitterConfig = BlitterConfig{
	Width:        DefaultWidth,
	Height:       DefaultHeight,
	StripeHeight: DefaultStripeHeight,
}

// Source is a pixel buffer in host order that a region is copied from.
type Source struct {
	// Pix holds the source pixels.
	Pix []uint16

	// X and Y are the offset of the copied sub-rectangle in Pix.
	X, Y int

	// Stride is the number of pixels between vertically adjacent source pixels.
	Stride int
}

// Blitter converts pixels to wire order and streams them to a Transport in stripes.
//
// Two stripe buffers are used: while the transport drains the buffer submitted last, the other
// one is filled. A Blitter is not safe for concurrent use.
type Blitter struct {
	t            Transport
	width        int
	height       int
	stripeHeight int
	buf          [stripeBuffers][]uint16
	active       int
	closed       bool
}

// NewBlitter allocates the stripe buffers for drawing to t.
func NewBlitter(t Transport, config *BlitterConfig) (*Blitter, error) {
	if t == nil {
		return nil, ErrNoTransport
	}
	if config == nil {
		config = new(BlitterConfig)
		*config = DefaultBlitterConfig
	}

	c := *config
	if c.Width == 0 {
		c.Width = DefaultBlitterConfig.Width
	}
	if c.Height == 0 {
		c.Height = DefaultBlitterConfig.Height
	}
	if c.StripeHeight == 0 {
		c.StripeHeight = DefaultBlitterConfig.StripeHeight
	}
	if c.Width < 0 || c.Height < 0 || c.StripeHeight < 0 {
		return nil, fmt.Errorf("lcd: invalid size %dx%d with stripe height %d", c.Width, c.Height, c.StripeHeight)
	}
	if c.StripeHeight > c.Height {
		c.StripeHeight = c.Height
	}

	// Both buffers may be reused before the transport is done with them otherwise.
	if depth := t.QueueDepth(); depth >= stripeBuffers {
		return nil, fmt.Errorf("%w: depth %d, %d buffers", ErrQueueDepth, depth, stripeBuffers)
	}

	alloc := c.Alloc
	if alloc == nil {
		alloc = heapAlloc
	}

	b := &Blitter{
		t:            t,
		width:        c.Width,
		height:       c.Height,
		stripeHeight: c.StripeHeight,
	}
	size := c.Width * c.StripeHeight
	for i := range b.buf {
		p, err := alloc(size)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrAllocation, err)
		}
		if len(p) < size {
			return nil, fmt.Errorf("%w: got %d pixels, need %d", ErrAllocation, len(p), size)
		}
		b.buf[i] = p[:size]
	}
	return b, nil
}

func heapAlloc(n int) ([]uint16, error) {
	return make([]uint16, n), nil
}

func (b *Blitter) String() string {
	return fmt.Sprintf("blitter %dx%d, %d row stripes", b.width, b.height, b.stripeHeight)
}

// Bounds is the surface bounding box.
func (b *Blitter) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// StripeHeight is the number of rows per full frame transfer.
func (b *Blitter) StripeHeight() int {
	return b.stripeHeight
}

// DrawFrame sends a full frame of width×height host order pixels. A nil frame draws black.
//
// When DrawFrame returns all stripes have been submitted, the last one may still be in flight. A
// failure of that last transfer is returned by the next draw or by Wait, wrapping
// ErrPreviousTransfer when the transport reports it that way.
func (b *Blitter) DrawFrame(frame []uint16) error {
	if b.closed {
		return ErrClosed
	}

	produce := zeroRow
	if frame != nil {
		if len(frame) != b.width*b.height {
			return fmt.Errorf("%w: got %d pixels, need %dx%d", ErrFrameSize, len(frame), b.width, b.height)
		}
		produce = func(dst []uint16, row int) {
			swapRow(dst, frame[row*b.width:])
		}
	}
	return b.stripes(0, 0, b.width, b.height, b.stripeHeight, produce)
}

// DrawRegion sends the width×height rectangle at (left, top) one row per transfer, copied from
// src or black if src is nil. Width and height below 1 are treated as 1. Rows and columns outside
// the surface are skipped.
func (b *Blitter) DrawRegion(left, top, width, height int, src *Source) error {
	if b.closed {
		return ErrClosed
	}
	if left < 0 || top < 0 {
		return fmt.Errorf("%w: origin (%d,%d)", ErrInvalidRegion, left, top)
	}
	width = max(width, 1)
	height = max(height, 1)

	produce := zeroRow
	if src != nil {
		if err := src.check(width, height); err != nil {
			return err
		}
		produce = func(dst []uint16, row int) {
			swapRow(dst, src.Pix[(row+src.Y)*src.Stride+src.X:])
		}
	}

	if left >= b.width || top >= b.height {
		return nil
	}
	return b.stripes(left, top, min(width, b.width-left), height, 1, produce)
}

// Clear fills the surface with the host order color c.
//
// Each stripe buffer is filled once, when it is first used, and resent for every later stripe.
// The buffer submitted last by a previous draw is only filled after the first Submit returned.
func (b *Blitter) Clear(c uint16) error {
	if b.closed {
		return ErrClosed
	}

	var (
		v      = pixel.Swap(c)
		filled [stripeBuffers]bool
	)
	return b.stripes(0, 0, b.width, b.height, b.stripeHeight, func(_ []uint16, _ int) {
		if !filled[b.active] {
			fillRow(b.buf[b.active], v)
			filled[b.active] = true
		}
	})
}

// Wait blocks until the transport finished the last submitted stripe.
func (b *Blitter) Wait() error {
	if w, ok := b.t.(Waiter); ok {
		if err := w.Wait(); err != nil {
			return fmt.Errorf("%w: %w", ErrTransport, err)
		}
	}
	return nil
}

// Close waits for the last transfer and releases the stripe buffers.
func (b *Blitter) Close() error {
	if b.closed {
		return nil
	}
	err := b.Wait()
	b.closed = true
	for i := range b.buf {
		b.buf[i] = nil
	}
	return err
}

// stripes splits the w×h rectangle at (x, y) in stripes of at most n rows, clipped to the
// surface height. Each stripe is produced row by row in the active buffer and submitted, after
// which the other buffer becomes active.
func (b *Blitter) stripes(x, y, w, h, n int, produce func(dst []uint16, row int)) error {
	bottom := min(y+h, b.height)
	for top := y; top < bottom; top += n {
		rows := min(n, bottom-top)
		buf := b.buf[b.active][:w*rows]
		for r := 0; r < rows; r++ {
			produce(buf[r*w:(r+1)*w], top-y+r)
		}
		if err := b.submit(x, top, x+w, top+rows, buf); err != nil {
			return err
		}
	}
	return nil
}

func (b *Blitter) submit(x0, y0, x1, y1 int, buf []uint16) error {
	if debug {
		log.Printf("lcd: submit buffer %d (%d,%d)-(%d,%d)", b.active, x0, y0, x1, y1)
	}
	err := b.t.Submit(x0, y0, x1, y1, buf)
	b.active ^= 1
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrPreviousTransfer):
		return fmt.Errorf("%w: %w", ErrTransport, err)
	default:
		return fmt.Errorf("%w: rows %d-%d: %w", ErrTransport, y0, y1, err)
	}
}

func (src *Source) check(width, height int) error {
	if src.X < 0 || src.Y < 0 || src.Stride < 1 {
		return fmt.Errorf("%w: offset (%d,%d) stride %d", ErrSourceBounds, src.X, src.Y, src.Stride)
	}
	if last := (height-1+src.Y)*src.Stride + width - 1 + src.X; last >= len(src.Pix) {
		return fmt.Errorf("%w: pixel %d of %d", ErrSourceBounds, last, len(src.Pix))
	}
	return nil
}

func zeroRow(dst []uint16, _ int) {
	fillRow(dst, 0)
}

func fillRow(dst []uint16, v uint16) {
	for i := range dst {
		dst[i] = v
	}
}

func swapRow(dst, src []uint16) {
	for i := range dst {
		dst[i] = pixel.Swap(src[i])
	}
}
