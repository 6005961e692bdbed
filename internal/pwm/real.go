//go:build linux

package pwm

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// carrier is the PWM frequency for dimming. Well above flicker perception
// and low enough for software PWM on pins without a hardware channel.
const carrier = 8 * physic.KiloHertz

// RealWriter drives the MOSFET gate pin via periph.
type RealWriter struct {
	pin gpio.PinIO
}

// NewRealWriter initializes the periph host and claims the named pin.
func NewRealWriter(pinName string) (*RealWriter, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}
	pin := gpioreg.ByName(pinName)
	if pin == nil {
		return nil, fmt.Errorf("no such pin %q", pinName)
	}
	// Start with the lamp off.
	if err := pin.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("set %s low: %w", pinName, err)
	}
	return &RealWriter{pin: pin}, nil
}

// Write sets the output duty. Full off and full on avoid the PWM carrier
// entirely and drive the gate as a plain level.
func (w *RealWriter) Write(duty int) error {
	duty = clamp(duty)
	switch duty {
	case 0:
		if err := w.pin.Out(gpio.Low); err != nil {
			return fmt.Errorf("set %s low: %w", w.pin.Name(), err)
		}
		return nil
	case Scale:
		if err := w.pin.Out(gpio.High); err != nil {
			return fmt.Errorf("set %s high: %w", w.pin.Name(), err)
		}
		return nil
	}

	d := gpio.Duty(int64(duty) * int64(gpio.DutyMax) / Scale)
	if err := w.pin.PWM(d, carrier); err != nil {
		return fmt.Errorf("pwm %s duty %d: %w", w.pin.Name(), duty, err)
	}
	return nil
}

// Close forces the output low so the lamp lands in a defined off state.
func (w *RealWriter) Close() error {
	if err := w.pin.Out(gpio.Low); err != nil {
		return fmt.Errorf("release %s: %w", w.pin.Name(), err)
	}
	return nil
}
