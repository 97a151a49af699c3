// Package model holds the in-memory entities of the project tracker. The
// on-disk JSON shapes, including legacy variants, live in internal/codec.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/donburnsideAZ/project-tracker/internal/timecalc"
)

// DateLayout is the calendar-day format used in entries and file names.
const DateLayout = "2006-01-02"

// TimeEntry is one logged unit of work. Hours are whole hours only.
type TimeEntry struct {
	ID        string
	ProjectID string
	WorkType  string
	Hours     int
	// Date is the day the work applies to (yyyy-mm-dd), independent of CreatedAt.
	Date      string
	Notes     string
	CreatedAt time.Time
}

// DailyTimeFile is one user's entries for one calendar day, in insertion order.
type DailyTimeFile struct {
	UserID  string
	Date    string
	Entries []TimeEntry
}

// TotalHours sums the hours of every entry in the file.
func (f DailyTimeFile) TotalHours() int {
	total := 0
	for _, e := range f.Entries {
		total += e.Hours
	}
	return total
}

// NewTimeEntry builds an entry for directly entered hours. An empty date
// means the day of now.
func NewTimeEntry(projectID, workType string, hours int, date, notes string, now time.Time) TimeEntry {
	if date == "" {
		date = now.Format(DateLayout)
	}
	return TimeEntry{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		WorkType:  workType,
		Hours:     hours,
		Date:      date,
		Notes:     notes,
		CreatedAt: now,
	}
}

// NewTimeEntryFromSpan builds an entry from a start/end pair. The duration is
// rounded down to whole hours with a floor of one hour, and the work date is
// the day of start.
func NewTimeEntryFromSpan(projectID, workType string, start, end time.Time, notes string, now time.Time) TimeEntry {
	return NewTimeEntry(projectID, workType, timecalc.HoursFromDuration(end.Sub(start)), start.Format(DateLayout), notes, now)
}
