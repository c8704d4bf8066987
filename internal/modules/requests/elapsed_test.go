package requests

import (
	"testing"
	"time"
)

func TestElapsed(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		ago  time.Duration
		want string
	}{
		{"seconds only", 45 * time.Second, "45s"},
		{"zero seconds", 0, "0s"},
		{"minutes and seconds", 125 * time.Second, "2m 5s"},
		{"exact minute", 60 * time.Second, "1m 0s"},
		{"hours and minutes", 3725 * time.Second, "1h 2m"},
		{"exact hour", time.Hour, "1h 0m"},
		{"many hours", 26*time.Hour + 5*time.Minute, "26h 5m"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Elapsed(now, now.Add(-tc.ago))
			if got != tc.want {
				t.Errorf("Elapsed(-%v) = %q, want %q", tc.ago, got, tc.want)
			}
		})
	}
}

func TestElapsedInvalidTimestamps(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	if got := Elapsed(now, time.Time{}); got != "" {
		t.Errorf("zero createdAt: got %q, want empty", got)
	}
	if got := Elapsed(now, now.Add(time.Minute)); got != "" {
		t.Errorf("future createdAt: got %q, want empty", got)
	}
}
