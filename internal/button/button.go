// Package button provides the momentary-button input abstraction.
// The real implementation subscribes to falling-edge events on a GPIO line
// through the Linux GPIO character device. The fake implementation lets
// tests inject edges.
//
// Edges are delivered raw: contact-bounce suppression is the control loop's
// job (internal/logic.Debounce), so the debounce window stays testable.
package button

import "time"

// DefaultPin is the button line (BCM numbering), wired active-low with the
// internal pull-up.
const DefaultPin = 17

// Edge is a single falling-edge event.
type Edge struct {
	// Time is the observation timestamp. It carries a monotonic reading,
	// which is what the debounce comparison needs.
	Time time.Time
}

// Source delivers button edges.
type Source interface {
	// Edges returns the channel edges arrive on. The channel is never
	// closed while the source is open.
	Edges() <-chan Edge

	// Close releases the GPIO line.
	Close() error
}
