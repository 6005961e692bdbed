package mqtt

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sweeney/sign-lamp/internal/logic"
)

func testEvent() logic.Event {
	return logic.Event{
		Timestamp: time.Date(2024, time.June, 21, 20, 0, 0, 0, time.FixedZone("CST", -6*3600)),
		Type:      logic.EventDark,
		Phase:     logic.PhaseDark,
		Duty:      192,
		Override:  logic.OverrideState{},
	}
}

func TestFormatPayload(t *testing.T) {
	data, err := FormatPayload(testEvent())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded Payload
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}

	if decoded.Lamp.Event != "DARK" {
		t.Errorf("event: got %q, want DARK", decoded.Lamp.Event)
	}
	if decoded.Lamp.Phase != "DARK" {
		t.Errorf("phase: got %q, want DARK", decoded.Lamp.Phase)
	}
	if decoded.Lamp.Duty != 192 {
		t.Errorf("duty: got %d, want 192", decoded.Lamp.Duty)
	}
	// Timestamps are normalized to UTC: 20:00 CST is 02:00 UTC next day.
	if decoded.Lamp.Timestamp != "2024-06-22T02:00:00Z" {
		t.Errorf("timestamp: got %q, want 2024-06-22T02:00:00Z", decoded.Lamp.Timestamp)
	}
}

func TestFormatPayloadOverride(t *testing.T) {
	event := testEvent()
	event.Type = logic.EventOverrideOn
	event.Override = logic.OverrideState{Active: true, On: true}

	data, err := FormatPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded Payload
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if !decoded.Lamp.Override.Active || !decoded.Lamp.Override.On {
		t.Errorf("override: got %+v, want active/on", decoded.Lamp.Override)
	}
}

func TestFormatSystemPayload(t *testing.T) {
	event := SystemEvent{
		Timestamp: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}

	data, err := FormatSystemPayload(event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded SystemPayload
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if decoded.System.Event != "SHUTDOWN" {
		t.Errorf("event: got %q, want SHUTDOWN", decoded.System.Event)
	}
	if decoded.System.Reason != "SIGTERM" {
		t.Errorf("reason: got %q, want SIGTERM", decoded.System.Reason)
	}
	if decoded.System.Timestamp != "2026-01-01T12:00:00Z" {
		t.Errorf("timestamp: got %q", decoded.System.Timestamp)
	}
}

func TestFormatSystemPayloadRaw(t *testing.T) {
	raw := []byte(`{"status":{"event":"HEARTBEAT"}}`)
	data, err := FormatSystemPayload(SystemEvent{Event: "HEARTBEAT", RawPayload: raw})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != string(raw) {
		t.Errorf("raw payload not passed through: got %s", data)
	}
}

func TestFormatSystemPayloadOmitsEmptyReason(t *testing.T) {
	data, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Now(),
		Event:     "STARTUP",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var generic map[string]map[string]any
	if err := json.Unmarshal(data, &generic); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if _, ok := generic["system"]["reason"]; ok {
		t.Error("empty reason should be omitted from JSON")
	}
}

func TestFakePublisherRecords(t *testing.T) {
	f := NewFakePublisher()

	if err := f.Publish(testEvent()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.PublishSystem(SystemEvent{Event: "STARTUP"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.Events) != 1 || len(f.Payloads) != 1 {
		t.Errorf("events/payloads: got %d/%d, want 1/1", len(f.Events), len(f.Payloads))
	}
	if len(f.SystemEvents) != 1 || len(f.SystemPayloads) != 1 {
		t.Errorf("system events/payloads: got %d/%d, want 1/1", len(f.SystemEvents), len(f.SystemPayloads))
	}
}

func TestFakePublisherErrors(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("simulated error")
	f.PublishSystemError = errors.New("simulated error")

	if err := f.Publish(testEvent()); err == nil {
		t.Error("expected publish error")
	}
	if err := f.PublishSystem(SystemEvent{}); err == nil {
		t.Error("expected system publish error")
	}
	if len(f.Events) != 0 || len(f.SystemEvents) != 0 {
		t.Error("failed publishes should not be recorded")
	}
}

func TestFakePublisherReset(t *testing.T) {
	f := NewFakePublisher()
	f.Publish(testEvent())
	f.Connected = true
	f.Close()

	f.Reset()
	if len(f.Events) != 0 || f.Closed || f.Connected {
		t.Errorf("reset incomplete: %+v", f)
	}
}
