package pwm

// FakeWriter records duty writes for test assertions.
type FakeWriter struct {
	// Writes contains every duty value written, in order, after clamping.
	Writes []int

	// WriteError, if set, will be returned by Write.
	WriteError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeWriter creates a FakeWriter.
func NewFakeWriter() *FakeWriter {
	return &FakeWriter{}
}

// Write records the clamped duty value.
func (f *FakeWriter) Write(duty int) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Writes = append(f.Writes, clamp(duty))
	return nil
}

// Close marks the writer as closed.
func (f *FakeWriter) Close() error {
	f.Closed = true
	return nil
}

// Last returns the most recently written duty, or -1 if nothing was written.
func (f *FakeWriter) Last() int {
	if len(f.Writes) == 0 {
		return -1
	}
	return f.Writes[len(f.Writes)-1]
}

// Reset clears recorded writes.
func (f *FakeWriter) Reset() {
	f.Writes = nil
	f.Closed = false
	f.WriteError = nil
}
