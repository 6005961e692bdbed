package logic

import "time"

// DefaultDebounce is the contact-bounce suppression window for the button.
const DefaultDebounce = 200 * time.Millisecond

// Debounce suppresses edges that arrive within a fixed window of the last
// accepted edge. It keeps a single last-accepted timestamp: a rejected edge
// does not extend the window.
//
// Timestamps must come from a monotonic source (time.Now carries a monotonic
// reading). Not safe for concurrent use; the control loop is the only caller.
type Debounce struct {
	window   time.Duration
	last     time.Time
	accepted bool
}

// NewDebounce creates a Debounce with the given suppression window.
func NewDebounce(window time.Duration) *Debounce {
	return &Debounce{window: window}
}

// Accept reports whether an edge at the given instant should be acted on.
// The first edge is always accepted. An edge exactly at the window boundary
// is accepted.
func (d *Debounce) Accept(now time.Time) bool {
	if d.accepted && now.Sub(d.last) < d.window {
		return false
	}
	d.last = now
	d.accepted = true
	return true
}
