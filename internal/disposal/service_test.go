package disposal

import (
	"testing"
	"time"
)

func TestExpired(t *testing.T) {
	now := time.Date(2025, time.July, 10, 12, 0, 0, 0, time.UTC)
	in72h := now.Add(-72 * time.Hour)
	in71h := now.Add(-71 * time.Hour)

	cases := []struct {
		name        string
		lastInAt    *time.Time
		expireHours int
		want        bool
	}{
		{"never stocked in", nil, 72, false},
		{"no shelf life set", &in72h, 0, false},
		{"exactly at the limit", &in72h, 72, true},
		{"just inside the limit", &in71h, 72, false},
		{"long past", &in72h, 24, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Expired(tc.lastInAt, tc.expireHours, now); got != tc.want {
				t.Errorf("Expired = %v, want %v", got, tc.want)
			}
		})
	}
}
