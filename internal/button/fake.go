package button

import "time"

// FakeSource lets tests inject button edges.
type FakeSource struct {
	edges chan Edge

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeSource creates a FakeSource with the given channel buffer.
func NewFakeSource(buffer int) *FakeSource {
	return &FakeSource{edges: make(chan Edge, buffer)}
}

// Edges returns the edge channel.
func (f *FakeSource) Edges() <-chan Edge {
	return f.edges
}

// Press injects an edge observed at the given instant. Blocks if the buffer
// is full, so tests notice an unconsumed backlog.
func (f *FakeSource) Press(at time.Time) {
	f.edges <- Edge{Time: at}
}

// Close marks the source as closed.
func (f *FakeSource) Close() error {
	f.Closed = true
	return nil
}
