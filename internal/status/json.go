package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Phase         string       `json:"phase"`
	CurrentDuty   int          `json:"current_duty"`
	TargetDuty    int          `json:"target_duty"`
	Sunrise       string       `json:"sunrise,omitempty"`
	Sunset        string       `json:"sunset,omitempty"`
	SolarValid    bool         `json:"solar_valid"`
	Override      OverrideJSON `json:"override"`
	Ready         bool         `json:"ready"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"counts"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// OverrideJSON is the JSON representation of the manual override.
type OverrideJSON struct {
	Active bool `json:"active"`
	On     bool `json:"on"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of the counters.
type CountsJSON struct {
	Ticks            int `json:"ticks"`
	DarkTransitions  int `json:"dark_transitions"`
	LightTransitions int `json:"light_transitions"`
	ButtonToggles    int `json:"button_toggles"`
	FadeStepsWritten int `json:"fade_steps_written"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	StdOffsetHours int     `json:"tz_offset_hours"`
	DSTOffsetHours int     `json:"dst_offset_hours"`
	TickMs         int64   `json:"tick_ms"`
	MaxDuty        int     `json:"max_duty"`
	FadeStepMs     int64   `json:"fade_step_ms"`
	Mode           string  `json:"mode"`
	Policy         string  `json:"policy"`
	Broker         string  `json:"broker"`
	HTTPAddr       string  `json:"http_addr"`
	HeartbeatMs    int64   `json:"heartbeat_ms"`
}

func buildInner(snap Snapshot) StatusInner {
	phase := string(snap.Phase)
	if phase == "" {
		phase = "UNKNOWN"
	}

	inner := StatusInner{
		Phase:       phase,
		CurrentDuty: snap.CurrentDuty,
		TargetDuty:  snap.TargetDuty,
		SolarValid:  snap.SolarValid,
		Override: OverrideJSON{
			Active: snap.Override.Active,
			On:     snap.Override.On,
		},
		Ready:         snap.TimeSynced,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Ticks:            snap.Counts.Ticks,
			DarkTransitions:  snap.Counts.DarkTransitions,
			LightTransitions: snap.Counts.LightTransitions,
			ButtonToggles:    snap.Counts.ButtonToggles,
			FadeStepsWritten: snap.Counts.FadeStepsWritten,
		},
		Config: ConfigJSON{
			Latitude:       snap.Config.Latitude,
			Longitude:      snap.Config.Longitude,
			StdOffsetHours: snap.Config.StdOffsetHours,
			DSTOffsetHours: snap.Config.DSTOffsetHours,
			TickMs:         snap.Config.TickMs,
			MaxDuty:        snap.Config.MaxDuty,
			FadeStepMs:     snap.Config.FadeStepMs,
			Mode:           snap.Config.Mode,
			Policy:         snap.Config.Policy,
			Broker:         snap.Config.Broker,
			HTTPAddr:       snap.Config.HTTPAddr,
			HeartbeatMs:    snap.Config.HeartbeatMs,
		},
	}

	// Sunrise/sunset are local wall-clock instants; RFC3339 keeps the zone.
	if snap.SolarValid {
		inner.Sunrise = snap.Sunrise.Format(time.RFC3339)
		inner.Sunset = snap.Sunset.Format(time.RFC3339)
	}

	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}

	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
