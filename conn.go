package lcd

import (
	"errors"
	"fmt"
	"io"
	"log"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
)

// Conn errors.
var (
	ErrResetPin = errors.New("lcd: reset GPIO pin is invalid")
	ErrDCPin    = errors.New("lcd: data/command (DC) GPIO pin is invalid")
)

// Conn is the connection interface for communicating with hardware.
type Conn interface {
	String() string

	// Close the connection.
	Close() error

	// Reset sets the reset pin to the provided level.
	Reset(gpio.Level) error

	// Command sends a command byte with optional arguments.
	Command(byte, ...byte) error

	// Data sends data bytes.
	Data(...byte) error
}

// SPIConfig describes the SPI bus configuration.
type SPIConfig struct {
	// Port is the periph SPI port name, empty selects the first available port.
	Port string

	// Mode is the SPI clock mode.
	Mode spi.Mode

	// Speed is the SPI clock speed.
	Speed physic.Frequency

	// DataLow inverts the data/command pin, data is sent with DC low.
	DataLow bool

	// BatchSize is the largest single SPI write.
	BatchSize uint

	// Reset pin, nil selects GPIO25.
	Reset gpio.PinOut

	// DC is the data/command pin, nil selects GPIO24.
	DC gpio.PinOut

	// CS is an optional chip select pin, for ports without hardware chip select.
	CS gpio.PinOut
}

// DefaultSPIConfig are the default configuration values.
//
// The batch size fits one full stripe plus the window commands in a single write.
var DefaultSPIConfig = SPIConfig{
	Mode:      spi.Mode0,
	Speed:     80 * physic.MegaHertz,
	BatchSize: DefaultStripeHeight*DefaultWidth*2 + 8,
}

// Default pin names.
const (
	DefaultResetPin = "GPIO25"
	DefaultDCPin    = "GPIO24"
)

type spiConn struct {
	port      io.Closer
	bus       spi.Conn
	reset     gpio.PinOut
	dc        gpio.PinOut
	dcLevel   gpio.Level
	dcValid   bool
	cs        gpio.PinOut
	dataLow   bool
	batchSize uint
}

// OpenSPI opens the SPI port and the control pins. The periph host drivers must be initialized.
func OpenSPI(config *SPIConfig) (Conn, error) {
	if config == nil {
		config = new(SPIConfig)
		*config = DefaultSPIConfig
	}

	c := *config
	if c.Reset == nil {
		c.Reset = gpioreg.ByName(DefaultResetPin)
	}
	if c.DC == nil {
		c.DC = gpioreg.ByName(DefaultDCPin)
	}
	if c.Speed == 0 {
		c.Speed = DefaultSPIConfig.Speed
	}

	port, err := spireg.Open(c.Port)
	if err != nil {
		return nil, err
	}

	bus, err := port.Connect(c.Speed, c.Mode, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("lcd: SPI connect at %s: %w", c.Speed, err)
	}

	sc, err := newSPIConn(bus, port, &c)
	if err != nil {
		_ = port.Close()
		return nil, err
	}
	return sc, nil
}

func newSPIConn(bus spi.Conn, port io.Closer, config *SPIConfig) (*spiConn, error) {
	if config.Reset == nil || config.Reset == gpio.INVALID {
		return nil, ErrResetPin
	}
	if config.DC == nil || config.DC == gpio.INVALID {
		return nil, ErrDCPin
	}

	batchSize := config.BatchSize
	if batchSize == 0 {
		batchSize = DefaultSPIConfig.BatchSize
	}
	if l, ok := bus.(conn.Limits); ok {
		if n := l.MaxTxSize(); n > 0 && uint(n) < batchSize {
			batchSize = uint(n)
		}
	}

	return &spiConn{
		port:      port,
		bus:       bus,
		reset:     config.Reset,
		dc:        config.DC,
		cs:        config.CS,
		dataLow:   config.DataLow,
		batchSize: batchSize,
	}, nil
}

func (c *spiConn) String() string {
	return fmt.Sprintf("SPI bus %s", c.bus)
}

func (c *spiConn) Close() error {
	if c.port == nil {
		return nil
	}
	return c.port.Close()
}

func (c *spiConn) Reset(level gpio.Level) error {
	return c.reset.Out(level)
}

func (c *spiConn) updateDC(level gpio.Level) error {
	if !c.dcValid || c.dcLevel != level {
		if err := c.dc.Out(level); err != nil {
			return err
		}
		c.dcLevel = level
		c.dcValid = true
	}
	return nil
}

func (c *spiConn) updateCS(level gpio.Level) error {
	if c.cs == nil {
		return nil
	}
	return c.cs.Out(level)
}

func (c *spiConn) Command(cmnd byte, data ...byte) (err error) {
	if err = c.updateCS(gpio.Low); err != nil {
		return
	}
	if err = c.updateDC(gpio.Level(c.dataLow)); err != nil {
		return
	}
	if err = c.bus.Tx([]byte{cmnd}, nil); err != nil {
		return
	}
	if len(data) > 0 {
		if err = c.updateDC(gpio.Level(!c.dataLow)); err != nil {
			return
		}
		if err = c.writeChunked(data); err != nil {
			return
		}
	}
	return c.updateCS(gpio.High)
}

func (c *spiConn) Data(data ...byte) (err error) {
	if len(data) == 0 {
		return
	}
	if err = c.updateDC(gpio.Level(!c.dataLow)); err != nil {
		return
	}
	if err = c.updateCS(gpio.Low); err != nil {
		return
	}
	if err = c.writeChunked(data); err != nil {
		return
	}
	return c.updateCS(gpio.High)
}

func (c *spiConn) writeChunked(data []byte) error {
	size := int(c.batchSize)
	if debug && len(data) > size {
		log.Printf("lcd: write %d bytes of data in %d chunks", len(data), (len(data)+size-1)/size)
	}
	for len(data) > 0 {
		n := min(len(data), size)
		if err := c.bus.Tx(data[:n], nil); err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}
