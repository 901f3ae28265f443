// Package lcd drives 16-bit serial LCD panels through a double-buffered stripe blitter.
//
// A [Blitter] converts frame buffers or sub-rectangles of a tile set to the byte order the panel
// expects and streams them to a [Transport] in stripes, filling one stripe buffer while the other
// one is still being transmitted.
package lcd

import (
	"errors"
	"os"
)

var debug bool

func init() {
	debug = os.Getenv("LCD_DEBUG") != ""
}

// Errors
var (
	ErrInvalidRegion = errors.New("lcd: invalid region")
	ErrAllocation    = errors.New("lcd: stripe buffer allocation failed")
	ErrTransport     = errors.New("lcd: transport failure")
	ErrFrameSize     = errors.New("lcd: frame size does not match display")
	ErrSourceBounds  = errors.New("lcd: source out of bounds")
	ErrQueueDepth    = errors.New("lcd: transport queue depth exceeds stripe buffers")
	ErrClosed        = errors.New("lcd: closed")

	// ErrPreviousTransfer is wrapped by transports that report the failure of an earlier
	// asynchronous transfer from a later call.
	ErrPreviousTransfer = errors.New("lcd: previous transfer failed")
	ErrNoTransport      = errors.New("lcd: no transport")
)

// Default surface geometry.
const (
	DefaultWidth        = 320
	DefaultHeight       = 240
	DefaultStripeHeight = 24
)

// Rotation defines pixel rotation.
type Rotation uint8

// Supported rotations.
const (
	NoRotation Rotation = iota
	Rotate90            // Rotate 90° clock wise
	Rotate180           // Rotate 180°
	Rotate270           // Rotate 270° clock wise
)

func (r Rotation) String() string {
	switch r % 4 {
	case Rotate90:
		return "90°"
	case Rotate180:
		return "180°"
	case Rotate270:
		return "270°"
	default:
		return "0°"
	}
}
