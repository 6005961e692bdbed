// Package pwm provides the dimmable output hardware abstraction.
// The real implementation drives a MOSFET gate through a PWM-capable pin
// using periph.io. The fake implementation records writes for tests.
package pwm

// Scale is the full-scale duty value of the output. Writers map [0, Scale]
// onto whatever resolution the hardware offers.
const Scale = 255

// DefaultPin is the MOSFET gate pin (BCM naming, as periph registers it).
const DefaultPin = "GPIO12"

// Writer drives the physical output duty.
type Writer interface {
	// Write sets the output duty. Values are clamped to [0, Scale].
	Write(duty int) error

	// Close releases the output, leaving the lamp off.
	Close() error
}

func clamp(duty int) int {
	if duty < 0 {
		return 0
	}
	if duty > Scale {
		return Scale
	}
	return duty
}
