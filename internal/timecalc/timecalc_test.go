package timecalc_test

import (
	"strings"
	"testing"
	"time"

	"github.com/donburnsideAZ/project-tracker/internal/timecalc"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0s"},
		{45, "45s"},
		{60, "1m"},
		{90, "1m"},
		{3600, "1h 0m"},
		{3661, "1h 1m"},
		{5400, "1h 30m"},
	}
	for _, tt := range tests {
		got := timecalc.FormatDuration(tt.seconds)
		if got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatDurationHHMMSS(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "00:00:00"},
		{61, "00:01:01"},
		{3661, "01:01:01"},
	}
	for _, tt := range tests {
		got := timecalc.FormatDurationHHMMSS(tt.seconds)
		if got != tt.want {
			t.Errorf("FormatDurationHHMMSS(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestHoursFromDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want int
	}{
		{0, 1},
		{-time.Hour, 1},
		{59 * time.Minute, 1},
		{time.Hour, 1},
		{119 * time.Minute, 1},
		{2 * time.Hour, 2},
		{7*time.Hour + 59*time.Minute, 7},
	}
	for _, tt := range tests {
		got := timecalc.HoursFromDuration(tt.d)
		if got != tt.want {
			t.Errorf("HoursFromDuration(%v) = %d, want %d", tt.d, got, tt.want)
		}
	}
}

func TestWeekRange(t *testing.T) {
	// 2026-02-27 is a Friday (week 9).
	fri := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	monday, sunday := timecalc.WeekRange(fri)

	wantMonday := time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)
	wantSunday := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	if !monday.Equal(wantMonday) {
		t.Errorf("WeekRange monday = %v, want %v", monday, wantMonday)
	}
	if !sunday.Equal(wantSunday) {
		t.Errorf("WeekRange sunday = %v, want %v", sunday, wantSunday)
	}
}

func TestISOWeekLabel(t *testing.T) {
	fri := time.Date(2026, 2, 27, 10, 0, 0, 0, time.UTC)
	got := timecalc.ISOWeekLabel(fri)
	if got != "2026-W09" {
		t.Errorf("ISOWeekLabel = %q, want %q", got, "2026-W09")
	}
}

func TestDayCount(t *testing.T) {
	d := func(day int) time.Time { return time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC) }
	tests := []struct {
		from, to time.Time
		want     int
	}{
		{d(1), d(1), 1},
		{d(1), d(5), 5},
		{d(1), d(10), 10},
		{d(5), d(1), 0},
	}
	for _, tt := range tests {
		got := timecalc.DayCount(tt.from, tt.to)
		if got != tt.want {
			t.Errorf("DayCount(%s, %s) = %d, want %d", timecalc.FormatDate(tt.from), timecalc.FormatDate(tt.to), got, tt.want)
		}
	}
}

func TestPeriodRange(t *testing.T) {
	// 2024-05-16 is a Thursday.
	today := time.Date(2024, 5, 16, 15, 30, 0, 0, time.UTC)
	tests := []struct {
		name     string
		from, to string
	}{
		{"Today", "2024-05-16", "2024-05-16"},
		{"yesterday", "2024-05-15", "2024-05-15"},
		{"This Week", "2024-05-13", "2024-05-16"},
		{"last-7-days", "2024-05-10", "2024-05-16"},
		{"This Month", "2024-05-01", "2024-05-16"},
		{"last_30_days", "2024-04-17", "2024-05-16"},
		{"This Quarter", "2024-04-01", "2024-05-16"},
	}
	for _, tt := range tests {
		from, to, err := timecalc.PeriodRange(tt.name, today)
		if err != nil {
			t.Fatalf("PeriodRange(%q): %v", tt.name, err)
		}
		if got := timecalc.FormatDate(from); got != tt.from {
			t.Errorf("PeriodRange(%q) from = %s, want %s", tt.name, got, tt.from)
		}
		if got := timecalc.FormatDate(to); got != tt.to {
			t.Errorf("PeriodRange(%q) to = %s, want %s", tt.name, got, tt.to)
		}
	}

	if _, _, err := timecalc.PeriodRange("fortnight", today); err == nil {
		t.Error("PeriodRange(fortnight): expected error")
	}
}

func TestParseDate(t *testing.T) {
	got, err := timecalc.ParseDate("2024-01-10", time.UTC)
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if !got.Equal(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ParseDate = %v", got)
	}
	if _, err := timecalc.ParseDate("10/01/2024", time.UTC); err == nil {
		t.Error("ParseDate: expected error for non-ISO date")
	}
}

func TestGenerateProjectID(t *testing.T) {
	ts := time.Date(2026, 2, 27, 8, 32, 10, 0, time.UTC)
	id := timecalc.GenerateProjectID(ts)
	if len(id) != len("PRJ-20260227083210-XXXX") {
		t.Errorf("GenerateProjectID length = %d, want %d", len(id), len("PRJ-20260227083210-XXXX"))
	}
	if !strings.HasPrefix(id, "PRJ-20260227083210-") {
		t.Errorf("GenerateProjectID prefix = %q, want %q", id, "PRJ-20260227083210-")
	}
	if suffix := id[len(id)-4:]; strings.ToUpper(suffix) != suffix {
		t.Errorf("GenerateProjectID suffix = %q, want upper case", suffix)
	}
}
