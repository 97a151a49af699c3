package msgraph

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/donburnsideAZ/project-tracker/internal/model"
	"github.com/donburnsideAZ/project-tracker/internal/timecalc"
)

// EntryIDPrefix marks entries imported from Outlook. The rest of the id is
// the Graph event id, which makes re-imports detectable.
const EntryIDPrefix = "outlook-"

// ErrNoProject is returned when a sync has no project to book events to.
var ErrNoProject = errors.New("no project for imported events (set outlook.default_project or pass --project)")

// EntryStore is the part of the time-entry store a sync writes to.
type EntryStore interface {
	Append(user string, e model.TimeEntry) error
	Contains(user, date, entryID string) bool
}

// SyncResult holds counters for a sync operation.
type SyncResult struct {
	Imported int
	Skipped  int
	Filtered int
	Errors   int
}

// SyncOptions configures a sync run.
type SyncOptions struct {
	User     string
	Project  string
	WorkType string
	Timezone string
	DryRun   bool
	Now      time.Time
	// Out receives one progress line per event. Nil discards them.
	Out io.Writer
}

// parseGraphTime parses a Graph API dateTime string in the given timezone.
// Graph returns times like "2026-02-27T09:00:00.0000000" without a zone suffix
// when a Prefer: outlook.timezone header is set.
func parseGraphTime(dt, tz string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, dt); err == nil {
		return t, nil
	}

	loc := time.Local
	if tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}
	for _, layout := range []string{
		"2006-01-02T15:04:05.0000000",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, dt, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse graph time %q", dt)
}

// buildNotes combines the subject, body preview and location into entry notes.
func buildNotes(event CalendarEvent) string {
	var parts []string
	for _, s := range []string{event.Subject, event.BodyPreview, event.Location.DisplayName} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

// ShouldSkip reports whether the event is never imported: cancelled,
// all-day, private, shown as free, or missing times.
func ShouldSkip(event CalendarEvent) bool {
	switch {
	case event.IsCancelled, event.IsAllDay:
		return true
	case event.Sensitivity == "private", event.ShowAs == "free":
		return true
	case event.Start.DateTime == "" || event.End.DateTime == "":
		return true
	}
	return false
}

// MapEventToEntry converts a Graph CalendarEvent into a time entry dated on
// the event's start day. The duration is rounded down to whole hours with a
// floor of one hour.
func MapEventToEntry(event CalendarEvent, opts SyncOptions) (model.TimeEntry, error) {
	start, err := parseGraphTime(event.Start.DateTime, opts.Timezone)
	if err != nil {
		return model.TimeEntry{}, fmt.Errorf("parsing start time: %w", err)
	}
	end, err := parseGraphTime(event.End.DateTime, opts.Timezone)
	if err != nil {
		return model.TimeEntry{}, fmt.Errorf("parsing end time: %w", err)
	}
	if end.Before(start) {
		return model.TimeEntry{}, fmt.Errorf("event ends before it starts")
	}

	return model.TimeEntry{
		ID:        EntryIDPrefix + event.ID,
		ProjectID: opts.Project,
		WorkType:  opts.WorkType,
		Hours:     timecalc.HoursFromDuration(end.Sub(start)),
		Date:      timecalc.FormatDate(start),
		Notes:     buildNotes(event),
		CreatedAt: opts.Now,
	}, nil
}

// SyncEvents books events into store for opts.User. Events already imported
// are skipped, so running a sync twice over the same window is a no-op.
func SyncEvents(store EntryStore, events []CalendarEvent, opts SyncOptions) (SyncResult, error) {
	var result SyncResult
	if opts.Project == "" {
		return result, ErrNoProject
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	for _, event := range events {
		if ShouldSkip(event) {
			result.Filtered++
			continue
		}

		entry, err := MapEventToEntry(event, opts)
		if err != nil {
			fmt.Fprintf(out, "  ! Error mapping event %q: %v\n", event.Subject, err)
			result.Errors++
			continue
		}

		if store.Contains(opts.User, entry.Date, entry.ID) {
			fmt.Fprintf(out, "  – Skipped:  %s (already imported)\n", event.Subject)
			result.Skipped++
			continue
		}

		if !opts.DryRun {
			if err := store.Append(opts.User, entry); err != nil {
				fmt.Fprintf(out, "  ! Error saving %q: %v\n", event.Subject, err)
				result.Errors++
				continue
			}
		}
		fmt.Fprintf(out, "  ✓ Imported: %s %s (%dh)\n", entry.Date, event.Subject, entry.Hours)
		result.Imported++
	}

	return result, nil
}
