// Package logic contains pure business logic for the lamp controller: the
// day/night classification, button debounce, the manual-override state and
// the per-tick output decision. This package has NO external dependencies
// (no GPIO, MQTT, OS, or time.Sleep). Time is always injectable via
// time.Time parameters.
package logic

import "time"

// Phase classifies the current moment relative to today's solar events.
type Phase string

const (
	PhaseDark  Phase = "DARK"
	PhaseLight Phase = "LIGHT"
)

// Policy selects what a button press means. The two policies are deliberately
// distinct behaviors, selected by configuration, never merged.
type Policy string

const (
	// PolicyLatch: a press toggles the lamp and latches it; while latched,
	// the automatic sun decision is bypassed entirely and the press itself
	// drives an immediate instant-mode output write.
	PolicyLatch Policy = "latch"

	// PolicyTrackSun: a press toggles only the override flag; the automatic
	// sun decision keeps running and keeps driving the output every tick.
	// The flag is surfaced in status and logs but does not alter the output.
	PolicyTrackSun Policy = "tracksun"
)

// ParsePolicy validates a policy name from configuration.
func ParsePolicy(s string) (Policy, bool) {
	switch Policy(s) {
	case PolicyLatch, PolicyTrackSun:
		return Policy(s), true
	}
	return "", false
}

// Mode selects how target duty changes are applied to the output.
type Mode string

const (
	ModeInstant Mode = "instant"
	ModeFade    Mode = "fade"
)

// ParseMode validates a mode name from configuration.
func ParseMode(s string) (Mode, bool) {
	switch Mode(s) {
	case ModeInstant, ModeFade:
		return Mode(s), true
	}
	return "", false
}

// EventType labels a published state transition.
type EventType string

const (
	EventDark        EventType = "DARK"
	EventLight       EventType = "LIGHT"
	EventOverrideOn  EventType = "OVERRIDE_ON"
	EventOverrideOff EventType = "OVERRIDE_OFF"
)

// Event represents a state transition to be published.
type Event struct {
	Timestamp time.Time
	Type      EventType
	Phase     Phase
	Duty      int // target duty commanded alongside the transition
	Override  OverrideState
}
