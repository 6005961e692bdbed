// Package mqtt provides MQTT publishing with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/sign-lamp/internal/logic"
)

// Topic is the MQTT topic for lamp transition events.
const Topic = "home/sign-lamp/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "home/sign-lamp/system"

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a lamp transition event to the broker.
	// Returns error if publishing fails (must not crash the process).
	Publish(event logic.Event) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g. "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g. "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Lamp LampPayload `json:"lamp"`
}

// LampPayload contains the lamp event details.
type LampPayload struct {
	Timestamp string          `json:"timestamp"`
	Event     string          `json:"event"`
	Phase     string          `json:"phase"`
	Duty      int             `json:"duty"`
	Override  OverridePayload `json:"override"`
}

// OverridePayload represents the manual override state.
type OverridePayload struct {
	Active bool `json:"active"`
	On     bool `json:"on"`
}

// FormatPayload creates the JSON payload for a lamp event.
func FormatPayload(event logic.Event) ([]byte, error) {
	payload := Payload{
		Lamp: LampPayload{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     string(event.Type),
			Phase:     string(event.Phase),
			Duty:      event.Duty,
			Override: OverridePayload{
				Active: event.Override.Active,
				On:     event.Override.On,
			},
		},
	}
	return json.Marshal(payload)
}

// SystemPayload represents the MQTT message payload for simple system events
// that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
