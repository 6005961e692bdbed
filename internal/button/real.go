//go:build linux

package button

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// RealSource delivers falling edges from actual hardware using the Linux
// GPIO character device.
type RealSource struct {
	chip  *gpiocdev.Chip
	line  *gpiocdev.Line
	edges chan Edge
}

// NewRealSource requests the button line as input with pull-up and
// subscribes to falling edges.
func NewRealSource(pin int) (*RealSource, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	s := &RealSource{
		chip: chip,
		// Small buffer: if the loop is briefly busy a bounce train can
		// queue a few edges; anything beyond that is dropped, and the
		// debounce window would reject it anyway.
		edges: make(chan Edge, 8),
	}

	line, err := chip.RequestLine(pin,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithFallingEdge,
		gpiocdev.WithEventHandler(s.handleEvent))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request button pin %d: %w", pin, err)
	}
	s.line = line

	return s, nil
}

// handleEvent runs on gpiocdev's event goroutine; it must never block.
func (s *RealSource) handleEvent(evt gpiocdev.LineEvent) {
	select {
	case s.edges <- Edge{Time: time.Now()}:
	default:
	}
}

// Edges returns the edge channel.
func (s *RealSource) Edges() <-chan Edge {
	return s.edges
}

// Close releases the line and chip.
func (s *RealSource) Close() error {
	var errs []error
	if s.line != nil {
		if err := s.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close button line: %w", err))
		}
	}
	if s.chip != nil {
		if err := s.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
