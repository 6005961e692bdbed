// Package status provides a thread-safe status tracker for the sign-lamp
// daemon. It is read by the HTTP status page and serialized into MQTT
// system events.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/sign-lamp/internal/logic"
	"github.com/sweeney/sign-lamp/internal/solar"
)

// NetworkInfo contains network state as reported by pi-helper.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	Latitude       float64
	Longitude      float64
	StdOffsetHours int
	DSTOffsetHours int
	TickMs         int64
	MaxDuty        int
	FadeStepMs     int64
	Mode           string
	Policy         string
	Broker         string
	HTTPAddr       string
	HeartbeatMs    int64
}

// Counts tracks how often things happened since startup.
type Counts struct {
	Ticks            int
	DarkTransitions  int
	LightTransitions int
	ButtonToggles    int
	FadeStepsWritten int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Phase         logic.Phase
	Override      logic.OverrideState
	CurrentDuty   int
	TargetDuty    int
	Sunrise       time.Time
	Sunset        time.Time
	SolarValid    bool
	TimeSynced    bool
	Counts        Counts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets the per-tick state. Called from the control loop every tick.
func (t *Tracker) Update(phase logic.Phase, ov logic.OverrideState, currentDuty, targetDuty int, day solar.Day, counts Counts) {
	t.mu.Lock()
	t.snap.Phase = phase
	t.snap.Override = ov
	t.snap.CurrentDuty = currentDuty
	t.snap.TargetDuty = targetDuty
	t.snap.Sunrise = day.Sunrise
	t.snap.Sunset = day.Sunset
	t.snap.SolarValid = day.Valid
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetDuty updates only the duty fields, for fade steps and button presses
// between ticks.
func (t *Tracker) SetDuty(currentDuty, targetDuty int) {
	t.mu.Lock()
	t.snap.CurrentDuty = currentDuty
	t.snap.TargetDuty = targetDuty
	t.mu.Unlock()
}

// SetOverride updates the override state, for button presses between ticks.
func (t *Tracker) SetOverride(ov logic.OverrideState) {
	t.mu.Lock()
	t.snap.Override = ov
	t.mu.Unlock()
}

// SetCounts replaces the counters without touching the rest of the state.
func (t *Tracker) SetCounts(counts Counts) {
	t.mu.Lock()
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetTimeSynced records whether the wall clock has passed the sync gate.
func (t *Tracker) SetTimeSynced(synced bool) {
	t.mu.Lock()
	t.snap.TimeSynced = synced
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
