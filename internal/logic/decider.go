package logic

import (
	"time"

	"github.com/sweeney/sign-lamp/internal/solar"
)

// Decision is the output of one control tick.
type Decision struct {
	Phase  Phase
	Target int  // duty the output should move toward
	Act    bool // false when the override policy bypasses the automatic decision
	// Changed is true when the phase differs from the previous tick
	// (including the first tick, which establishes it).
	Changed bool
	// Fallback is true when today's solar events were degenerate (polar
	// conditions or a calculator fault) and the documented always-dark
	// fallback was applied.
	Fallback bool
}

// Decider merges the day/night classification with the override state under
// the configured policy, once per control tick. It keeps only the previous
// phase; solar events are recomputed by the caller every tick and passed in.
type Decider struct {
	policy    Policy
	onDuty    int
	lastPhase Phase
}

// NewDecider creates a Decider that commands onDuty when dark and zero when
// light.
func NewDecider(policy Policy, onDuty int) *Decider {
	return &Decider{policy: policy, onDuty: onDuty}
}

// Decide classifies now against today's solar events and merges the result
// with the override state.
//
// A day without valid solar events is treated as always dark: for an outdoor
// light the safe degraded state is on, matching what the fixture does every
// night anyway. The decision never produces an out-of-range duty.
func (d *Decider) Decide(now time.Time, day solar.Day, ov OverrideState) Decision {
	dec := Decision{Phase: PhaseLight, Act: true}

	if !day.Valid {
		dec.Fallback = true
		dec.Phase = PhaseDark
	} else if IsDark(now, day.Sunrise, day.Sunset) {
		dec.Phase = PhaseDark
	}

	if dec.Phase == PhaseDark {
		dec.Target = d.onDuty
	}

	dec.Changed = d.lastPhase != dec.Phase
	d.lastPhase = dec.Phase

	// Under latch the button is the sole authority while active: the
	// automatic decision is computed (for status and logs) but not acted on.
	// Under tracksun the flag never gates the output.
	if d.policy == PolicyLatch && ov.Active {
		dec.Act = false
	}

	return dec
}

// Phase returns the phase established by the previous Decide call, or the
// empty string before the first tick.
func (d *Decider) Phase() Phase {
	return d.lastPhase
}
