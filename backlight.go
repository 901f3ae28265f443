package lcd

import (
	"errors"
	"fmt"
	"log"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// ErrBacklightPin is returned for a missing backlight pin.
var ErrBacklightPin = errors.New("lcd: backlight GPIO pin is invalid")

// Backlight controls the panel backlight brightness.
type Backlight interface {
	// SetBrightness sets the brightness in percent, clamped to 0-100.
	SetBrightness(percent int) error
}

// fadeStep is the interval between duty cycle updates while fading.
const fadeStep = 10 * time.Millisecond

// BacklightConfig describes a PWM driven backlight.
type BacklightConfig struct {
	// Frequency is the PWM frequency.
	Frequency physic.Frequency

	// FadeTime is the time it takes to reach a new brightness.
	FadeTime time.Duration

	// OffFadeTime is the time it takes to fade out when switching off.
	OffFadeTime time.Duration

	// ActiveLow inverts the duty cycle, for backlights that light up with the pin low.
	ActiveLow bool
}

// DefaultBacklightConfig are the default configuration values.
var DefaultBacklightConfig = BacklightConfig{
	Frequency:   5 * physic.KiloHertz,
	FadeTime:    500 * time.Millisecond,
	OffFadeTime: 100 * time.Millisecond,
}

// PWMBacklight is a Backlight on a PWM capable pin.
type PWMBacklight struct {
	pin         gpio.PinOut
	frequency   physic.Frequency
	fadeTime    time.Duration
	offFadeTime time.Duration
	activeLow   bool
	duty        gpio.Duty
	sleep       func(time.Duration)
}

// NewPWMBacklight sets up the pin with the backlight switched off.
func NewPWMBacklight(pin gpio.PinOut, config *BacklightConfig) (*PWMBacklight, error) {
	if pin == nil || pin == gpio.INVALID {
		return nil, ErrBacklightPin
	}
	if config == nil {
		config = new(BacklightConfig)
		*config = DefaultBacklightConfig
	}

	b := &PWMBacklight{
		pin:         pin,
		frequency:   config.Frequency,
		fadeTime:    config.FadeTime,
		offFadeTime: config.OffFadeTime,
		activeLow:   config.ActiveLow,
		sleep:       time.Sleep,
	}
	if b.frequency == 0 {
		b.frequency = DefaultBacklightConfig.Frequency
	}
	if err := b.setDuty(0); err != nil {
		return nil, fmt.Errorf("lcd: backlight %s: %w", pin, err)
	}
	return b, nil
}

func (b *PWMBacklight) String() string {
	return fmt.Sprintf("PWM backlight on %s at %s", b.pin, b.frequency)
}

// Brightness is the current brightness in percent.
func (b *PWMBacklight) Brightness() int {
	return int(int64(b.duty) * 100 / int64(gpio.DutyMax))
}

// SetBrightness fades to the new brightness over the configured fade time.
func (b *PWMBacklight) SetBrightness(percent int) error {
	percent = min(max(percent, 0), 100)
	return b.fade(gpio.Duty(int64(gpio.DutyMax)*int64(percent)/100), b.fadeTime)
}

// Off fades out and drives the pin to its inactive level.
func (b *PWMBacklight) Off() error {
	if err := b.fade(0, b.offFadeTime); err != nil {
		return err
	}
	return b.pin.Out(gpio.Level(b.activeLow))
}

func (b *PWMBacklight) fade(target gpio.Duty, d time.Duration) error {
	steps := int(d / fadeStep)
	if steps < 1 {
		steps = 1
	}
	if debug {
		log.Printf("lcd: backlight fade %s -> %s in %d steps", b.duty, target, steps)
	}

	from := int64(b.duty)
	for i := 1; i <= steps; i++ {
		duty := from + (int64(target)-from)*int64(i)/int64(steps)
		if err := b.setDuty(gpio.Duty(duty)); err != nil {
			return err
		}
		if i < steps {
			b.sleep(fadeStep)
		}
	}
	return nil
}

func (b *PWMBacklight) setDuty(duty gpio.Duty) error {
	out := duty
	if b.activeLow {
		out = gpio.DutyMax - duty
	}
	if err := b.pin.PWM(out, b.frequency); err != nil {
		return err
	}
	b.duty = duty
	return nil
}

var _ Backlight = (*PWMBacklight)(nil)
