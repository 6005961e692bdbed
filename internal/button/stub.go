//go:build !linux

package button

import "errors"

// RealSource is not available on non-Linux platforms.
type RealSource struct{}

// NewRealSource returns an error on non-Linux platforms.
func NewRealSource(pin int) (*RealSource, error) {
	return nil, errors.New("button: not supported on this platform (requires Linux)")
}

// Edges is not implemented on non-Linux platforms.
func (s *RealSource) Edges() <-chan Edge {
	return nil
}

// Close is not implemented on non-Linux platforms.
func (s *RealSource) Close() error {
	return nil
}
