package logic

import "sync"

// OverrideState is a consistent snapshot of the manual override.
type OverrideState struct {
	// Active is toggled by every accepted button press under either policy.
	Active bool
	// On is the last manually commanded lamp state. Only PolicyLatch
	// toggles it; under PolicyTrackSun the tick loop remains in charge.
	On bool
}

// Override holds the manually commanded state shared between the button
// event path and the tick loop. All access goes through accessor operations
// under a mutex so the two-field state can never be observed torn.
type Override struct {
	mu    sync.Mutex
	state OverrideState
}

// Toggle applies one accepted button press under the given policy and
// returns the resulting state.
func (o *Override) Toggle(policy Policy) OverrideState {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state.Active = !o.state.Active
	if policy == PolicyLatch {
		o.state.On = !o.state.On
	}
	return o.state
}

// State returns a snapshot of the current override state.
func (o *Override) State() OverrideState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}
