// Package dimmer owns the output duty value and moves it toward a target,
// either instantly or as a stepped fade. Fades are advanced one unit per
// Step call so the control loop can drive them from a timer tick and stay
// responsive to button edges; the blocking FadeTo form is also provided.
package dimmer

import (
	"fmt"
	"time"

	"github.com/sweeney/sign-lamp/internal/pwm"
)

// DefaultStepDelay is the time between fade steps.
const DefaultStepDelay = 20 * time.Millisecond

// Dimmer tracks the current and target duty and drives a pwm.Writer.
// Not safe for concurrent use; the control loop is the only caller.
type Dimmer struct {
	out     pwm.Writer
	maxDuty int
	current int
	target  int
}

// New creates a Dimmer with duty range [0, maxDuty]. The output is assumed
// to start at zero (callers write zero at startup).
func New(out pwm.Writer, maxDuty int) *Dimmer {
	if maxDuty < 0 {
		maxDuty = 0
	}
	if maxDuty > pwm.Scale {
		maxDuty = pwm.Scale
	}
	return &Dimmer{out: out, maxDuty: maxDuty}
}

// Current returns the duty last written (or assumed at startup).
func (d *Dimmer) Current() int { return d.current }

// Target returns the duty the dimmer is moving toward.
func (d *Dimmer) Target() int { return d.target }

// MaxDuty returns the top of the duty range.
func (d *Dimmer) MaxDuty() int { return d.maxDuty }

// Fading reports whether a fade is in progress.
func (d *Dimmer) Fading() bool { return d.current != d.target }

func (d *Dimmer) clamp(duty int) int {
	if duty < 0 {
		return 0
	}
	if duty > d.maxDuty {
		return d.maxDuty
	}
	return duty
}

// Set immediately sets the duty with a single physical write. It also
// cancels any fade in progress: current and target land on the same value.
func (d *Dimmer) Set(target int) error {
	target = d.clamp(target)
	if err := d.out.Write(target); err != nil {
		return fmt.Errorf("write duty %d: %w", target, err)
	}
	d.current = target
	d.target = target
	return nil
}

// SetTarget sets the fade target without touching the output. Subsequent
// Step calls walk the output toward it.
func (d *Dimmer) SetTarget(target int) {
	d.target = d.clamp(target)
}

// Step moves the current duty one unit toward the target and writes the new
// value. It reports done=true once current equals target, including the
// no-op case. A failed write leaves the current duty unchanged, so the next
// step retries the same value.
func (d *Dimmer) Step() (done bool, err error) {
	if d.current == d.target {
		return true, nil
	}
	next := d.current + 1
	if d.current > d.target {
		next = d.current - 1
	}
	if err := d.out.Write(next); err != nil {
		return false, fmt.Errorf("write duty %d: %w", next, err)
	}
	d.current = next
	return d.current == d.target, nil
}

// FadeTo ramps synchronously to the target, one unit per stepDelay, writing
// every intermediate value. No-op when already at the target. The sleep
// function is injectable so tests run without waiting.
func (d *Dimmer) FadeTo(target int, stepDelay time.Duration, sleep func(time.Duration)) error {
	d.SetTarget(target)
	for d.Fading() {
		sleep(stepDelay)
		if _, err := d.Step(); err != nil {
			return err
		}
	}
	return nil
}
