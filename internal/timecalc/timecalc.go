package timecalc

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// GenerateProjectID creates a project ID of the form PRJ-<timestamp>-<random4>.
func GenerateProjectID(t time.Time) string {
	const chars = "0123456789ABCDEF"
	suffix := make([]byte, 4)
	for i := range suffix {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(chars))))
		suffix[i] = chars[n.Int64()]
	}
	return fmt.Sprintf("PRJ-%s-%s", t.Format("20060102150405"), string(suffix))
}

// HoursFromDuration converts a measured duration to whole hours, rounding
// down with a floor of one hour.
func HoursFromDuration(d time.Duration) int {
	h := int(d / time.Hour)
	if h < 1 {
		return 1
	}
	return h
}

// FormatDuration formats seconds as a human-readable string like "1h 40m" or "45m" or "30s".
func FormatDuration(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", s)
}

// FormatDurationHHMMSS formats seconds as HH:MM:SS.
func FormatDurationHHMMSS(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// ParseDate parses a yyyy-mm-dd string as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// FormatDate formats t as yyyy-mm-dd.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// StartOfDay returns 00:00:00 of the same day.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	// Go's weekday: Sunday=0, Monday=1, …, Saturday=6
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // treat Sunday as 7 (ISO)
	}
	monday := StartOfDay(t.AddDate(0, 0, -(wd - 1)))
	sunday := monday.AddDate(0, 0, 6)
	return monday, sunday
}

// ISOWeekLabel returns a label like "2026-W09".
func ISOWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// DayCount returns the number of calendar days in [from, to] inclusive, or 0
// when to is before from.
func DayCount(from, to time.Time) int {
	from, to = StartOfDay(from), StartOfDay(to)
	if to.Before(from) {
		return 0
	}
	n := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}

// Periods lists the report presets accepted by PeriodRange.
var Periods = []string{
	"Today", "Yesterday", "This Week", "Last 7 Days",
	"This Month", "Last 30 Days", "This Quarter",
}

// PeriodRange returns the inclusive day range for a named preset relative to
// today. Names are matched case-insensitively; hyphens and underscores count
// as spaces.
func PeriodRange(name string, today time.Time) (time.Time, time.Time, error) {
	today = StartOfDay(today)
	key := strings.ToLower(strings.NewReplacer("-", " ", "_", " ").Replace(strings.TrimSpace(name)))
	switch key {
	case "today":
		return today, today, nil
	case "yesterday":
		y := today.AddDate(0, 0, -1)
		return y, y, nil
	case "this week", "week":
		monday, _ := WeekRange(today)
		return monday, today, nil
	case "last 7 days":
		return today.AddDate(0, 0, -6), today, nil
	case "this month", "month":
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()), today, nil
	case "last 30 days":
		return today.AddDate(0, 0, -29), today, nil
	case "this quarter", "quarter":
		startMonth := time.Month((int(today.Month())-1)/3*3 + 1)
		return time.Date(today.Year(), startMonth, 1, 0, 0, 0, 0, today.Location()), today, nil
	}
	return time.Time{}, time.Time{}, fmt.Errorf("unknown period %q (want one of: %s)", name, strings.Join(Periods, ", "))
}
