package logic

import "time"

// IsDark reports whether now falls outside today's daylight window.
// The window is half-open: the instant of sunrise is daylight, the instant
// of sunset is dark. Everything before sunrise and after sunset is dark,
// including all of the following day until the events are recomputed.
func IsDark(now, sunrise, sunset time.Time) bool {
	if !now.Before(sunrise) && now.Before(sunset) {
		return false
	}
	return true
}
