package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/donburnsideAZ/project-tracker/internal/model"
	"github.com/donburnsideAZ/project-tracker/internal/storage"
	"github.com/donburnsideAZ/project-tracker/internal/timer"
)

// timerFixture sets up a data root with project P1, a roster user "tester"
// and a timer on P1 that has been running for ago.
func timerFixture(t *testing.T, ago time.Duration) (root string, started time.Time) {
	t.Helper()
	isolate(t)
	root = filepath.Join(t.TempDir(), "shared")
	if out, err := run(t, "init", root); err != nil {
		t.Fatalf("init: %v\n%s", err, out)
	}
	roster := filepath.Join(t.TempDir(), "people.json")
	if err := os.WriteFile(roster, []byte(`[{"username": "tester"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "team", "import-employees", roster); err != nil {
		t.Fatal(err)
	}
	if out, err := run(t, "project", "new", "Alpha", "--id", "P1"); err != nil {
		t.Fatalf("project new: %v\n%s", err, out)
	}

	store, err := timerStore()
	if err != nil {
		t.Fatal(err)
	}
	started = time.Now().Add(-ago)
	if _, err := store.Start(timer.State{ProjectID: "P1", WorkType: "Creation", StartedAt: started}); err != nil {
		t.Fatal(err)
	}
	return root, started
}

func activeTimer(t *testing.T) *timer.State {
	t.Helper()
	store, err := timerStore()
	if err != nil {
		t.Fatal(err)
	}
	st, err := store.Active()
	if err != nil {
		t.Fatal(err)
	}
	return st
}

func TestStopLogsElapsedTime(t *testing.T) {
	root, started := timerFixture(t, 2*time.Hour+2*time.Minute+2*time.Second)
	stopNotes = ""

	out, err := run(t, "--user", "tester", "stop", "--notes", "wrap up")
	if err != nil {
		t.Fatalf("stop: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Elapsed: 2h 2m ") || !strings.Contains(out, "logged 2h") {
		t.Errorf("stop output = %q", out)
	}
	if st := activeTimer(t); st != nil {
		t.Errorf("timer still active after stop: %+v", st)
	}

	date := started.Format(model.DateLayout)
	day, err := storage.NewTimeEntries(storage.Env{Root: root}).LoadDay("tester", date)
	if err != nil {
		t.Fatal(err)
	}
	if len(day.Entries) != 1 || day.Entries[0].Hours != 2 || day.Entries[0].Notes != "wrap up" {
		t.Errorf("entries = %+v", day.Entries)
	}

	if _, err := run(t, "--user", "tester", "stop"); err == nil || !strings.Contains(err.Error(), "no active timer") {
		t.Errorf("second stop: err = %v", err)
	}
}

func TestTimerSurvivesFailedLogging(t *testing.T) {
	root, started := timerFixture(t, 90*time.Minute)
	stopNotes, startNotes, startWorkType = "", "", ""

	date := started.Format(model.DateLayout)
	dayPath := storage.TimeFilePath(root, "tester", date)
	if err := os.MkdirAll(filepath.Dir(dayPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dayPath, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, "--user", "tester", "stop"); err == nil {
		t.Fatal("stop succeeded with a corrupt day file")
	}
	st := activeTimer(t)
	if st == nil || st.ProjectID != "P1" || !st.StartedAt.Equal(started) {
		t.Fatalf("timer after failed stop = %+v, want the original P1 timer", st)
	}

	// The corrupt file has been moved aside, so booking now succeeds.
	out, err := run(t, "--user", "tester", "stop")
	if err != nil {
		t.Fatalf("stop after backup: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Elapsed: 1h 30m ") || !strings.Contains(out, "logged 1h") {
		t.Errorf("stop output = %q", out)
	}
	if _, err := os.Stat(dayPath + ".corrupt"); err != nil {
		t.Errorf("corrupt backup missing: %v", err)
	}
}

func TestStartKeepsPreviousTimerWhenLoggingFails(t *testing.T) {
	root, started := timerFixture(t, 3*time.Hour)
	stopNotes, startNotes, startWorkType = "", "", ""

	dayPath := storage.TimeFilePath(root, "tester", started.Format(model.DateLayout))
	if err := os.MkdirAll(filepath.Dir(dayPath), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dayPath, []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := run(t, "--user", "tester", "start", "P1"); err == nil {
		t.Fatal("start succeeded while the previous timer could not be logged")
	}
	if st := activeTimer(t); st == nil || !st.StartedAt.Equal(started) {
		t.Fatalf("previous timer replaced: %+v", st)
	}

	out, err := run(t, "--user", "tester", "start", "P1")
	if err != nil {
		t.Fatalf("start: %v\n%s", err, out)
	}
	if !strings.Contains(out, "auto-stopping") {
		t.Errorf("start output = %q", out)
	}
	if st := activeTimer(t); st == nil || st.StartedAt.Equal(started) {
		t.Errorf("new timer not started: %+v", st)
	}
}

func TestFormatElapsed(t *testing.T) {
	for seconds, want := range map[int64]string{
		45:           "45s",
		125:          "2m 5s",
		26*3600 + 5:  "26h 0m 5s",
		3600 + 60*59: "1h 59m 0s",
	} {
		if got := formatElapsed(seconds); got != want {
			t.Errorf("formatElapsed(%d) = %q, want %q", seconds, got, want)
		}
	}
}
