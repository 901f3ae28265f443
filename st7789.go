package lcd

import (
	"encoding/binary"
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Registers (from st7789.pdf).
const (
	st7789NOP       = 0x00
	st7789SWRESET   = 0x01 // Software Reset
	st7789SLPIN     = 0x10
	st7789SLPOUT    = 0x11 // Sleep Out
	st7789NORON     = 0x13
	st7789INVOFF    = 0x20 // Display Inversion Off
	st7789INVON     = 0x21 // Display Inversion On
	st7789DISPOFF   = 0x28 // Display Off
	st7789DISPON    = 0x29 // Display On
	st7789CASET     = 0x2A // Column Address Set
	st7789RASET     = 0x2B // Row Address Set
	st7789RAMWR     = 0x2C // Memory Write
	st7789MADCTL    = 0x36 // Memory Data Access Control
	st7789COLMOD    = 0x3A // Interface Pixel Format
	st7789PORCTRL   = 0xB2 // Porch Setting
	st7789GCTRL     = 0xB7 // Gate Control
	st7789VCOMS     = 0xBB // VCOM Setting
	st7789LCMCTRL   = 0xC0 // LCM Control
	st7789VDVVRHEN  = 0xC2 // VDV and VRH Command Enable
	st7789VRHS      = 0xC3 // VRH Set
	st7789VDVSET    = 0xC4 // VDV Set
	st7789VCMOFSET  = 0xC5 // VCOM Offset Set
	st7789FRCTR2    = 0xC6 // Frame Rate Control in Normal Mode
	st7789PWCTRL1   = 0xD0 // Power Control 1
	st7789PVGAMCTRL = 0xE0 // Positive Voltage Gamma Control
	st7789NVGAMCTRL = 0xE1 // Negative Voltage Gamma Control
	st7789PWCTRL2   = 0xE8 // Power Control 2
	st7789EQCTRL    = 0xE9 // Equalize Time Control
)

// Memory Data Access Control (MADCTL) bit fields.
const (
	_                           byte = 1 << iota // D0: reserved
	_                                            // D1: reserved
	st7789DisplayDataLatchOrder                  // D2: MH
	st7789RGBOrder                               // D3: RGB
	st7789LineAddressOrder                       // D4: ML
	st7789PageColumnOrder                        // D5: MV
	st7789ColumnAddressOrder                     // D6: MX
	st7789PageAddressOrder                       // D7: MY
)

// InitCommand is a panel register write, optionally followed by a delay.
type InitCommand struct {
	Cmd   byte
	Data  []byte
	Delay time.Duration
}

// DefaultST7789Init brings an ST7789V out of reset in 16-bit RGB 5-6-5 mode.
var DefaultST7789Init = []InitCommand{
	{Cmd: st7789SWRESET, Delay: 100 * time.Millisecond},
	{Cmd: st7789COLMOD, Data: []byte{0x05}},                          // 65k colors
	{Cmd: st7789VCMOFSET, Data: []byte{0x1A}},                        // VCOM offset
	{Cmd: st7789PORCTRL, Data: []byte{0x05, 0x05, 0x00, 0x33, 0x33}}, // Porch Setting
	{Cmd: st7789GCTRL, Data: []byte{0x05}},                           // Gate Control: 12.2V / -10.43V
	{Cmd: st7789VCOMS, Data: []byte{0x3F}},
	{Cmd: st7789LCMCTRL, Data: []byte{0x2C}},
	{Cmd: st7789VDVVRHEN, Data: []byte{0x01}},
	{Cmd: st7789VRHS, Data: []byte{0x0F}}, // 4.3V + (vcom + vcom offset + vdv)
	{Cmd: st7789VDVSET, Data: []byte{0xBE}},
	{Cmd: st7789FRCTR2, Data: []byte{0x01}}, // 111Hz
	{Cmd: st7789PWCTRL1, Data: []byte{0xA4, 0xA1}},
	{Cmd: st7789PWCTRL2, Data: []byte{0x03}},
	{Cmd: st7789EQCTRL, Data: []byte{0x09, 0x09, 0x08}},
	{Cmd: st7789PVGAMCTRL, Data: []byte{0xD0, 0x05, 0x09, 0x09, 0x08, 0x14, 0x28, 0x33, 0x3F, 0x07, 0x13, 0x14, 0x28, 0x30}},
	{Cmd: st7789NVGAMCTRL, Data: []byte{0xD0, 0x05, 0x09, 0x09, 0x08, 0x03, 0x24, 0x32, 0x32, 0x3B, 0x14, 0x13, 0x28, 0x2F}},
	{Cmd: st7789INVOFF},
	{Cmd: st7789SLPOUT},
	{Cmd: st7789DISPON, Delay: 100 * time.Millisecond},
}

// ST7789Config is the panel configuration.
type ST7789Config struct {
	// Width of the panel in pixels, after rotation.
	Width int

	// Height of the panel in pixels, after rotation.
	Height int

	// Rotation of the panel.
	Rotation Rotation

	// ColOffset and RowOffset move the window in panel RAM.
	ColOffset, RowOffset int

	// Init is the register sequence sent after reset, nil uses DefaultST7789Init.
	Init []InitCommand
}

// DefaultST7789Config is a 320x240 panel in landscape.
var DefaultST7789Config = ST7789Config{
	Width:    DefaultWidth,
	Height:   DefaultHeight,
	Rotation: Rotate90,
}

// ST7789 is a Transport for ST7789 panels.
//
// Submit converts the pixels to bytes in host memory order, which is the big-endian wire order
// for pixels swapped by a Blitter, and sends them from a separate goroutine. The next call waits
// for that transfer.
type ST7789 struct {
	c         Conn
	width     int
	height    int
	colOffset int
	rowOffset int
	rotation  Rotation
	tx        []byte
	inflight  chan error
	sleep     func(time.Duration)
}

// NewST7789 resets and initializes the panel.
func NewST7789(c Conn, config *ST7789Config) (*ST7789, error) {
	if config == nil {
		config = new(ST7789Config)
		*config = DefaultST7789Config
	}

	d := &ST7789{
		c:     c,
		sleep: time.Sleep,
	}
	if err := d.init(config); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *ST7789) String() string {
	return fmt.Sprintf("ST7789 %dx%d", d.width, d.height)
}

func (d *ST7789) init(config *ST7789Config) (err error) {
	if d.width = config.Width; d.width == 0 {
		d.width = DefaultST7789Config.Width
	}
	if d.height = config.Height; d.height == 0 {
		d.height = DefaultST7789Config.Height
	}
	d.colOffset = config.ColOffset
	d.rowOffset = config.RowOffset

	if (config.Rotation == NoRotation || config.Rotation == Rotate180) && (d.width > 240 || d.height > 320) {
		return fmt.Errorf("st7789: invalid size %dx%d, maximum size is 240x320 at %s rotation", d.width, d.height, config.Rotation)
	} else if (config.Rotation == Rotate90 || config.Rotation == Rotate270) && (d.width > 320 || d.height > 240) {
		return fmt.Errorf("st7789: invalid size %dx%d, maximum size is 320x240 at %s rotation", d.width, d.height, config.Rotation)
	}

	// reset the device.
	if err = d.c.Reset(gpio.High); err != nil {
		return
	}
	d.sleep(100 * time.Millisecond)
	if err = d.c.Reset(gpio.Low); err != nil {
		return
	}
	d.sleep(100 * time.Millisecond)
	if err = d.c.Reset(gpio.High); err != nil {
		return
	}
	d.sleep(10 * time.Millisecond)

	commands := config.Init
	if commands == nil {
		commands = DefaultST7789Init
	}
	for _, command := range commands {
		if err = d.c.Command(command.Cmd, command.Data...); err != nil {
			return fmt.Errorf("st7789: init command %#02x: %w", command.Cmd, err)
		}
		if command.Delay > 0 {
			d.sleep(command.Delay)
		}
	}

	return d.SetRotation(config.Rotation)
}

// QueueDepth is zero, Submit copies the pixels before it returns.
func (d *ST7789) QueueDepth() int {
	return 0
}

// Submit sends the pixels of (x0,y0)-(x1,y1), end exclusive. A failure of the previous transfer
// is returned wrapping ErrPreviousTransfer.
func (d *ST7789) Submit(x0, y0, x1, y1 int, pix []uint16) error {
	if err := d.Wait(); err != nil {
		return fmt.Errorf("%w: %w", ErrPreviousTransfer, err)
	}
	if x0 < 0 || y0 < 0 || x1 > d.width || y1 > d.height || x1 <= x0 || y1 <= y0 {
		return fmt.Errorf("st7789: window (%d,%d)-(%d,%d) outside %dx%d", x0, y0, x1, y1, d.width, d.height)
	}
	n := (x1 - x0) * (y1 - y0)
	if len(pix) < n {
		return fmt.Errorf("st7789: window (%d,%d)-(%d,%d) needs %d pixels, got %d", x0, y0, x1, y1, n, len(pix))
	}

	if err := d.SetWindow(x0, y0, x1-1, y1-1); err != nil {
		return err
	}

	if cap(d.tx) < n*2 {
		d.tx = make([]byte, n*2)
	}
	tx := d.tx[:n*2]
	for i, p := range pix[:n] {
		binary.LittleEndian.PutUint16(tx[i*2:], p)
	}

	done := make(chan error, 1)
	d.inflight = done
	go func() {
		done <- d.c.Data(tx...)
	}()
	return nil
}

// Wait blocks until the last submitted transfer completed.
func (d *ST7789) Wait() error {
	if d.inflight == nil {
		return nil
	}
	err := <-d.inflight
	d.inflight = nil
	if err != nil {
		return fmt.Errorf("st7789: write: %w", err)
	}
	return nil
}

// Close waits for the last transfer, switches the display off and closes the connection.
func (d *ST7789) Close() error {
	if err := d.Show(false); err != nil {
		_ = d.c.Close()
		return err
	}
	return d.c.Close()
}

// Show toggles the display on or off.
func (d *ST7789) Show(show bool) error {
	if err := d.Wait(); err != nil {
		return err
	}
	var command = byte(st7789DISPOFF)
	if show {
		command = byte(st7789DISPON)
	}
	return d.c.Command(command)
}

// SetRotation adjusts the pixel rotation.
func (d *ST7789) SetRotation(rotation Rotation) error {
	if err := d.Wait(); err != nil {
		return err
	}
	rotation &= 3

	var madctl byte
	switch rotation {
	case NoRotation:
		madctl = 0
	case Rotate90:
		madctl = st7789ColumnAddressOrder | st7789PageColumnOrder
	case Rotate180:
		madctl = st7789ColumnAddressOrder | st7789PageAddressOrder
	case Rotate270:
		madctl = st7789PageAddressOrder | st7789PageColumnOrder
	}

	d.rotation = rotation
	if debug {
		log.Printf("st7789: madctl %s -> %#02x", rotation, madctl)
	}
	return d.c.Command(st7789MADCTL, madctl)
}

// SetWindow selects the panel RAM window (x0,y0)-(x1,y1), end inclusive, and starts a memory write.
func (d *ST7789) SetWindow(x0, y0, x1, y1 int) error {
	if d.rotation == Rotate90 || d.rotation == Rotate270 {
		x0 += d.rowOffset
		y0 += d.colOffset
		x1 += d.rowOffset
		y1 += d.colOffset
	} else {
		x0 += d.colOffset
		y0 += d.rowOffset
		x1 += d.colOffset
		y1 += d.rowOffset
	}
	for _, command := range [][]byte{
		{st7789CASET, byte(x0 >> 8), byte(x0), byte(x1 >> 8), byte(x1)}, // Column address
		{st7789RASET, byte(y0 >> 8), byte(y0), byte(y1 >> 8), byte(y1)}, // Row address
		{st7789RAMWR}, // Write to RAM
	} {
		if err := d.c.Command(command[0], command[1:]...); err != nil {
			return err
		}
	}
	return nil
}

// Interface checks.
var (
	_ Transport = (*ST7789)(nil)
	_ Waiter    = (*ST7789)(nil)
)
