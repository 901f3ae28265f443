package lcd

import (
	"testing"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
)

func newTestBacklight(t *testing.T, config *BacklightConfig) (*PWMBacklight, *gpiotest.Pin, *int) {
	t.Helper()
	pin := &gpiotest.Pin{N: "BL", Num: 18}
	b, err := NewPWMBacklight(pin, config)
	if err != nil {
		t.Fatal(err)
	}
	var sleeps int
	b.sleep = func(d time.Duration) {
		if d != fadeStep {
			t.Errorf("expected sleep of %s, got %s", fadeStep, d)
		}
		sleeps++
	}
	return b, pin, &sleeps
}

func TestNewPWMBacklight(t *testing.T) {
	t.Run("invalid", func(it *testing.T) {
		if _, err := NewPWMBacklight(nil, nil); err != ErrBacklightPin {
			it.Errorf("expected %v, got %v", ErrBacklightPin, err)
		}
		if _, err := NewPWMBacklight(gpio.INVALID, nil); err != ErrBacklightPin {
			it.Errorf("expected %v, got %v", ErrBacklightPin, err)
		}
	})
	t.Run("default", func(it *testing.T) {
		_, pin, _ := newTestBacklight(it, nil)
		if pin.F != 5*physic.KiloHertz {
			it.Errorf("expected 5kHz, got %s", pin.F)
		}
		if pin.D != 0 {
			it.Errorf("expected backlight off, got duty %s", pin.D)
		}
	})
}

func TestSetBrightness(t *testing.T) {
	tests := []struct {
		percent int
		want    gpio.Duty
	}{
		{100, gpio.DutyMax},
		{50, gpio.DutyMax / 2},
		{0, 0},
		{150, gpio.DutyMax},
		{-5, 0},
	}
	b, pin, sleeps := newTestBacklight(t, nil)
	for _, test := range tests {
		*sleeps = 0
		if err := b.SetBrightness(test.percent); err != nil {
			t.Fatal(err)
		}
		if pin.D != test.want {
			t.Errorf("%d%%: expected duty %s, got %s", test.percent, test.want, pin.D)
		}
		if *sleeps != 49 {
			t.Errorf("%d%%: expected 49 fade steps, got %d", test.percent, *sleeps)
		}
		if want := min(max(test.percent, 0), 100); b.Brightness() != want {
			t.Errorf("%d%%: expected brightness %d, got %d", test.percent, want, b.Brightness())
		}
	}
}

func TestFadeIsMonotonic(t *testing.T) {
	b, pin, _ := newTestBacklight(t, nil)
	last := pin.D
	b.sleep = func(time.Duration) {
		if pin.D < last {
			t.Errorf("duty decreased from %s to %s", last, pin.D)
		}
		last = pin.D
	}
	if err := b.SetBrightness(100); err != nil {
		t.Fatal(err)
	}
}

func TestBacklightOff(t *testing.T) {
	b, pin, sleeps := newTestBacklight(t, nil)
	if err := b.SetBrightness(100); err != nil {
		t.Fatal(err)
	}
	*sleeps = 0
	if err := b.Off(); err != nil {
		t.Fatal(err)
	}
	if *sleeps != 9 {
		t.Errorf("expected 9 fade steps, got %d", *sleeps)
	}
	if pin.L != gpio.Low {
		t.Errorf("expected pin low, got %s", pin.L)
	}
	if b.Brightness() != 0 {
		t.Errorf("expected brightness 0, got %d", b.Brightness())
	}
}

func TestBacklightActiveLow(t *testing.T) {
	config := DefaultBacklightConfig
	config.ActiveLow = true
	config.FadeTime = 0
	b, pin, sleeps := newTestBacklight(t, &config)
	if pin.D != gpio.DutyMax {
		t.Errorf("expected inverted duty %s, got %s", gpio.DutyMax, pin.D)
	}
	if err := b.SetBrightness(100); err != nil {
		t.Fatal(err)
	}
	if pin.D != 0 {
		t.Errorf("expected inverted duty 0, got %s", pin.D)
	}
	if *sleeps != 0 {
		t.Errorf("expected no fade steps, got %d", *sleeps)
	}
	if err := b.Off(); err != nil {
		t.Fatal(err)
	}
	if pin.L != gpio.High {
		t.Errorf("expected pin high, got %s", pin.L)
	}
}
