package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"os/signal"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/lcd"
	"github.com/BeatGlow/lcd/draw"
	"github.com/BeatGlow/lcd/framebuffer"
	"github.com/BeatGlow/lcd/pixel"
	"github.com/BeatGlow/lcd/text"
)

func main() {
	spiPortFlag := flag.String("spi", "", "SPI port (default: use first available)")
	speedFlag := flag.Int64("hz", int64(lcd.DefaultSPIConfig.Speed/physic.Hertz), "SPI clock speed in Hz")
	resetPinFlag := flag.String("reset", lcd.DefaultResetPin, "Reset GPIO pin")
	dcPinFlag := flag.String("dc", lcd.DefaultDCPin, "Data/Command GPIO pin (DC)")
	csPinFlag := flag.String("cs", "", "Chip select GPIO pin (default: hardware chip select)")
	blPinFlag := flag.String("bl", "GPIO18", "Backlight GPIO pin, empty for none")
	fbFlag := flag.String("fb", "", "Framebuffer device to use instead of SPI, e.g. /dev/fb1")
	rotateFlag := flag.String("rotate", "90", "Display rotation")
	demoFlag := flag.String("demo", "splash", "Demo to run: splash, gradient, clear, message, hourglass or battery")
	flag.Parse()

	var rotation lcd.Rotation
	switch *rotateFlag {
	case "", "no", "0":
		rotation = lcd.NoRotation
	case "90", "right", "cw":
		rotation = lcd.Rotate90
	case "180", "flip":
		rotation = lcd.Rotate180
	case "270", "left", "ccw":
		rotation = lcd.Rotate270
	default:
		fatal(fmt.Errorf("invalid rotation %q specified", *rotateFlag))
	}

	if _, err := host.Init(); err != nil {
		fatal(err)
	}

	var (
		transport lcd.Transport
		backlight lcd.Backlight
		config    = lcd.DefaultDeviceConfig
		err       error
	)
	if *fbFlag != "" {
		var fb *framebuffer.FrameBuffer
		if fb, err = framebuffer.Open(*fbFlag); err != nil {
			fatal(err)
		}
		size := fb.Bounds().Size()
		config.Blitter.Width, config.Blitter.Height = size.X, size.Y
		transport = fb
	} else {
		spiConfig := lcd.DefaultSPIConfig
		spiConfig.Port = *spiPortFlag
		spiConfig.Speed = physic.Frequency(*speedFlag) * physic.Hertz
		spiConfig.Reset = pin(*resetPinFlag)
		spiConfig.DC = pin(*dcPinFlag)
		if *csPinFlag != "" {
			spiConfig.CS = pin(*csPinFlag)
		}

		var conn lcd.Conn
		if conn, err = lcd.OpenSPI(&spiConfig); err != nil {
			fatal(err)
		}
		fmt.Printf("using connection: %s\n", conn)

		panelConfig := lcd.DefaultST7789Config
		panelConfig.Rotation = rotation
		if rotation == lcd.NoRotation || rotation == lcd.Rotate180 {
			panelConfig.Width, panelConfig.Height = panelConfig.Height, panelConfig.Width
		}
		if transport, err = lcd.NewST7789(conn, &panelConfig); err != nil {
			_ = conn.Close()
			fatal(err)
		}
		config.Blitter.Width, config.Blitter.Height = panelConfig.Width, panelConfig.Height
	}
	fmt.Printf("using transport: %s\n", transport)

	if *blPinFlag != "" {
		if backlight, err = lcd.NewPWMBacklight(pin(*blPinFlag), nil); err != nil {
			fatal(err)
		}
	}

	d, err := lcd.NewDevice(transport, backlight, &config)
	if err != nil {
		fatal(err)
	}
	defer d.Close()
	fmt.Printf("using device: %s\n", d)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err = d.PowerOn(); err != nil {
		fatal(err)
	}
	defer d.PowerOff()

	switch *demoFlag {
	case "splash":
		var sprite *pixel.Image
		if sprite, err = splashSprite(); err == nil {
			err = d.Splash(ctx, sprite, 20*time.Millisecond)
		}
	case "gradient":
		fmt.Println("hit control-c to stop...")
		var logo *pixel.Image
		if logo, err = splashSprite(); err == nil {
			err = gradient(ctx, d.Canvas(), logo)
		}
	case "clear":
		err = d.Blitter().Clear(pixel.Blue.V)
	case "message":
		err = d.ShowMessage("Hello,\nworld!")
	case "hourglass":
		err = d.ShowHourglass()
	case "battery":
		err = d.ShowEmptyBattery()
	default:
		err = fmt.Errorf("unsupported demo %q", *demoFlag)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fatal(err)
	}
	if err = d.Blitter().Wait(); err != nil {
		fatal(err)
	}
	if *demoFlag != "gradient" && *demoFlag != "splash" {
		select {
		case <-ctx.Done():
		case <-time.After(5 * time.Second):
		}
	}
}

func pin(name string) gpio.PinIO {
	p := gpioreg.ByName(name)
	if p == nil {
		fatal(fmt.Errorf("no GPIO pin named %q", name))
	}
	return p
}

// splashSprite renders a 150x82 logo.
func splashSprite() (*pixel.Image, error) {
	logo := image.NewRGBA(image.Rect(0, 0, 150, 82))
	r := logo.Bounds()
	for y := 0; y < r.Max.Y; y++ {
		for x := 0; x < r.Max.X; x++ {
			logo.Set(x, y, color.RGBA{R: uint8(x * 255 / r.Max.X), G: 0x40, B: uint8(y * 255 / r.Max.Y), A: 0xff})
		}
	}
	draw.RoundedRectangle(logo, r, 8, color.White)

	face, err := text.NewFace(32)
	if err != nil {
		return nil, err
	}
	defer face.Close()
	face.DrawCentered(logo, (r.Dy()-face.LineHeight())/2, "lcd", color.White)
	return pixel.FromImage(logo), nil
}

func gradient(ctx context.Context, c *lcd.Canvas, logo image.Image) error {
	var (
		offset  int
		ticker  = time.NewTicker(50 * time.Millisecond)
		r       = c.Bounds()
		box     = image.Rect(r.Dx()/4, r.Dy()/4, r.Dx()*3/4, r.Dy()*3/4)
		logoPos = image.Rectangle{Min: image.Pt(r.Dx()-logo.Bounds().Dx()-4, 4)}
	)
	logoPos.Max = logoPos.Min.Add(logo.Bounds().Size())
	defer ticker.Stop()

	for {
		for y := 0; y < r.Max.Y; y++ {
			for x := 0; x < r.Max.X; x++ {
				c.Set(x, y, color.RGBA{
					R: uint8(x + y + offset),
					G: uint8(x - y + offset),
					B: uint8(x + y - offset),
					A: 0xff,
				})
			}
		}
		draw.RoundedBox(c, box, 8, pixel.Black)
		draw.Triangle(c, image.Pt(box.Min.X+16, box.Max.Y-16), image.Pt(r.Dx()/2, box.Min.Y+16), image.Pt(box.Max.X-16, box.Max.Y-16), pixel.RGB(0xff, uint8(offset), 0))

		draw.Draw(c, logoPos, logo, image.Point{}, draw.Over)

		if err := c.Display(); err != nil {
			return err
		}

		offset++
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
