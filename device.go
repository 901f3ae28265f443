package lcd

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"log"
	"strings"
	"time"

	"github.com/BeatGlow/lcd/draw"
	"github.com/BeatGlow/lcd/pixel"
	"github.com/BeatGlow/lcd/text"
)

// DeviceConfig is the display device configuration.
type DeviceConfig struct {
	// Blitter is the surface configuration.
	Blitter BlitterConfig

	// FontSize of the status screen text, in pixels.
	FontSize float64

	// SplashHold is how long the splash screen stays up once fully revealed.
	SplashHold time.Duration
}

// DefaultDeviceConfig are the default configuration values.
var DefaultDeviceConfig = DeviceConfig{
	Blitter:    DefaultBlitterConfig,
	FontSize:   text.DefaultSize,
	SplashHold: time.Second,
}

// Device is a panel with its backlight.
type Device struct {
	t      Transport
	b      *Blitter
	bl     Backlight
	canvas *Canvas
	face   *text.Face
	hold   time.Duration
	sleep  func(context.Context, time.Duration) error
}

// NewDevice sets up the stripe buffers for t. The backlight is optional.
func NewDevice(t Transport, bl Backlight, config *DeviceConfig) (*Device, error) {
	if config == nil {
		config = new(DeviceConfig)
		*config = DefaultDeviceConfig
	}

	b, err := NewBlitter(t, &config.Blitter)
	if err != nil {
		return nil, err
	}

	size := config.FontSize
	if size == 0 {
		size = DefaultDeviceConfig.FontSize
	}
	face, err := text.NewFace(size)
	if err != nil {
		_ = b.Close()
		return nil, err
	}

	return &Device{
		t:      t,
		b:      b,
		bl:     bl,
		canvas: NewCanvas(b),
		face:   face,
		hold:   config.SplashHold,
		sleep:  sleep,
	}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil || d <= 0 {
		return err
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (d *Device) String() string {
	return fmt.Sprintf("%s via %s", d.b, d.t)
}

// Blitter is the device blitter.
func (d *Device) Blitter() *Blitter {
	return d.b
}

// Canvas is the full surface image drawn by the status screens.
func (d *Device) Canvas() *Canvas {
	return d.canvas
}

// PowerOn blanks the panel with the backlight off, then turns the backlight on.
func (d *Device) PowerOn() error {
	if err := d.setBrightness(0); err != nil {
		return err
	}
	if err := d.b.DrawFrame(nil); err != nil {
		return err
	}
	if err := d.b.Wait(); err != nil {
		return err
	}
	return d.setBrightness(100)
}

// PowerOff switches the backlight off.
func (d *Device) PowerOff() error {
	if d.bl == nil {
		return nil
	}
	if o, ok := d.bl.(interface{ Off() error }); ok {
		return o.Off()
	}
	return d.setBrightness(0)
}

func (d *Device) setBrightness(percent int) error {
	if d.bl == nil {
		return nil
	}
	if err := d.bl.SetBrightness(percent); err != nil {
		return fmt.Errorf("lcd: backlight: %w", err)
	}
	return nil
}

// Splash clears the panel to white and reveals sprite centered on it from left to right, one
// column per step.
func (d *Device) Splash(ctx context.Context, sprite *pixel.Image, step time.Duration) error {
	if err := d.b.Clear(0xffff); err != nil {
		return err
	}

	var (
		surface = d.b.Bounds()
		size    = sprite.Rect.Size()
		left    = max((surface.Dx()-size.X)/2, 0)
		top     = max((surface.Dy()-size.Y)/2, 0)
		src     = &Source{Pix: sprite.Pix, Stride: sprite.Stride}
	)
	if debug {
		log.Printf("lcd: splash %s at (%d,%d)", size, left, top)
	}
	for width := 1; width <= size.X; width++ {
		if err := d.b.DrawRegion(left, top, width, size.Y, src); err != nil {
			return err
		}
		if err := d.sleep(ctx, step); err != nil {
			return err
		}
	}
	return d.sleep(ctx, d.hold)
}

// ShowMessage shows msg centered on a black screen, one line per newline.
func (d *Device) ShowMessage(msg string) error {
	c := d.canvas
	c.Clear()
	d.drawLines(c.Rect.Dy()/2, strings.Split(msg, "\n"), pixel.White)
	return c.Display()
}

// drawLines draws lines centered vertically around y.
func (d *Device) drawLines(y int, lines []string, col color.Color) {
	h := d.face.LineHeight()
	y -= len(lines) * h / 2
	for _, line := range lines {
		d.face.DrawCentered(d.canvas, y, line, col)
		y += h
	}
}

// ShowHourglass shows a busy indicator.
func (d *Device) ShowHourglass() error {
	c := d.canvas
	c.Clear()

	var (
		r      = c.Rect
		cx, cy = r.Dx() / 2, r.Dy() / 2
		w      = r.Dy() / 4
		h      = r.Dy() / 3
		top    = cy - h/2
		bottom = cy + h/2
		sand   = pixel.RGB(0xf0, 0xc0, 0x40)
	)
	draw.Box(c, image.Rect(cx-w/2-4, top-4, cx+w/2+5, top), pixel.White)
	draw.Box(c, image.Rect(cx-w/2-4, bottom+1, cx+w/2+5, bottom+5), pixel.White)
	draw.Line(c, image.Pt(cx-w/2, top), image.Pt(cx+w/2, bottom), pixel.White)
	draw.Line(c, image.Pt(cx+w/2, top), image.Pt(cx-w/2, bottom), pixel.White)
	draw.Line(c, image.Pt(cx-w/2, top), image.Pt(cx+w/2, top), pixel.White)
	draw.Line(c, image.Pt(cx-w/2, bottom), image.Pt(cx+w/2, bottom), pixel.White)
	draw.Triangle(c, image.Pt(cx-w/4, cy-h/4), image.Pt(cx+w/4, cy-h/4), image.Pt(cx, cy), sand)
	draw.Triangle(c, image.Pt(cx, cy+h/4), image.Pt(cx-w/2+2, bottom-1), image.Pt(cx+w/2-2, bottom-1), sand)
	return c.Display()
}

// ShowEmptyBattery shows an empty battery with a warning.
func (d *Device) ShowEmptyBattery() error {
	c := d.canvas
	c.Clear()

	var (
		r    = c.Rect
		w, h = r.Dx() / 3, r.Dy() / 4
		body = image.Rect((r.Dx()-w)/2, (r.Dy()-h)/2-h/2, (r.Dx()+w)/2, (r.Dy()+h)/2-h/2)
		tip  = image.Rect(body.Max.X, body.Min.Y+h/3, body.Max.X+w/12+1, body.Max.Y-h/3)
	)
	draw.RoundedRectangle(c, body, 4, pixel.White)
	draw.Box(c, tip, pixel.White)
	draw.Fill(c, image.Rect(body.Min.X+4, body.Min.Y+4, body.Min.X+4+w/10, body.Max.Y-4), pixel.Red)
	d.drawLines(body.Max.Y+h/2+d.face.LineHeight()/2, []string{"Battery empty"}, pixel.White)
	return c.Display()
}

// Close waits for the last transfer and releases the stripe buffers. Transports implementing
// io.Closer are closed too.
func (d *Device) Close() error {
	var errs []error
	errs = append(errs, d.b.Close(), d.face.Close())
	if c, ok := d.t.(io.Closer); ok {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
