package timer_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/donburnsideAZ/project-tracker/internal/timer"
)

func TestStartStop(t *testing.T) {
	s := timer.NewStore(filepath.Join(t.TempDir(), "timer.json"))

	if st, err := s.Active(); err != nil || st != nil {
		t.Fatalf("Active on fresh store = %v, %v", st, err)
	}

	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	if prev, err := s.Start(timer.State{ProjectID: "P1", WorkType: "Creation", StartedAt: start}); err != nil || prev != nil {
		t.Fatalf("Start = %v, %v", prev, err)
	}
	prev, err := s.Start(timer.State{ProjectID: "P2", WorkType: "Review", StartedAt: start.Add(time.Hour)})
	if err != nil {
		t.Fatal(err)
	}
	if prev == nil || prev.ProjectID != "P1" {
		t.Errorf("replaced timer = %+v, want P1", prev)
	}

	st, err := s.Stop()
	if err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if st.ProjectID != "P2" || !st.StartedAt.Equal(start.Add(time.Hour)) {
		t.Errorf("stopped = %+v", st)
	}
	if _, err := s.Stop(); !errors.Is(err, timer.ErrNotRunning) {
		t.Errorf("second Stop err = %v, want ErrNotRunning", err)
	}
}

func TestStateEntry(t *testing.T) {
	start := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	st := timer.State{ProjectID: "P1", WorkType: "Creation", Notes: "n", StartedAt: start}
	tests := []struct {
		end  time.Time
		want int
	}{
		{start.Add(20 * time.Minute), 1},
		{start.Add(150 * time.Minute), 2},
		{start.Add(-time.Minute), 1},
	}
	for _, tt := range tests {
		e := st.Entry(tt.end, tt.end)
		if e.Hours != tt.want {
			t.Errorf("Entry(%v) hours = %d, want %d", tt.end.Sub(start), e.Hours, tt.want)
		}
		if e.Date != "2024-01-10" || e.ProjectID != "P1" || e.Notes != "n" || e.ID == "" {
			t.Errorf("Entry = %+v", e)
		}
	}
}

func TestCorruptStateIsBackedUp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timer.json")
	if err := os.WriteFile(path, []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	s := timer.NewStore(path)
	if _, err := s.Active(); err == nil {
		t.Fatal("expected error for corrupt state")
	}
	if _, err := os.Stat(path + ".corrupt"); err != nil {
		t.Errorf("backup missing: %v", err)
	}
	if st, err := s.Active(); err != nil || st != nil {
		t.Errorf("Active after backup = %v, %v", st, err)
	}
}
