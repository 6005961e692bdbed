package logic

import (
	"testing"
	"time"
)

func TestIsDarkHalfOpenInterval(t *testing.T) {
	zone := time.FixedZone("CST", -6*3600)
	sunrise := time.Date(2024, time.June, 21, 4, 50, 0, 0, zone)
	sunset := time.Date(2024, time.June, 21, 20, 0, 0, 0, zone)

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"exactly sunrise", sunrise, false},
		{"one second before sunrise", sunrise.Add(-time.Second), true},
		{"one second after sunrise", sunrise.Add(time.Second), false},
		{"midday", time.Date(2024, time.June, 21, 12, 0, 0, 0, zone), false},
		{"one second before sunset", sunset.Add(-time.Second), false},
		{"exactly sunset", sunset, true},
		{"late evening", time.Date(2024, time.June, 21, 22, 0, 0, 0, zone), true},
		{"just after midnight", time.Date(2024, time.June, 21, 0, 10, 0, 0, zone), true},
		{"next day before recompute", time.Date(2024, time.June, 22, 12, 0, 0, 0, zone), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsDark(tc.now, sunrise, sunset); got != tc.want {
				t.Errorf("IsDark(%v) = %v, want %v", tc.now, got, tc.want)
			}
		})
	}
}
