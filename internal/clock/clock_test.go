package clock_test

import (
	"testing"
	"time"

	"github.com/donburnsideAZ/project-tracker/internal/clock"
)

func TestFakeClock(t *testing.T) {
	start := time.Date(2024, 12, 31, 23, 30, 0, 0, time.UTC)
	c := clock.Fake(start)
	if !c.Now().Equal(start) {
		t.Errorf("Now = %v, want %v", c.Now(), start)
	}
	if got := clock.Today(c); got != "2024-12-31" {
		t.Errorf("Today = %q, want 2024-12-31", got)
	}

	c.Advance(time.Hour)
	if got := clock.Today(c); got != "2025-01-01" {
		t.Errorf("Today after Advance = %q, want 2025-01-01", got)
	}

	c.Set(start)
	if !c.Now().Equal(start) {
		t.Errorf("Now after Set = %v, want %v", c.Now(), start)
	}
}
