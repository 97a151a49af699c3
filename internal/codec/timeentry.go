package codec

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/donburnsideAZ/project-tracker/internal/model"
)

// timeEntryDoc is the union of the current and legacy entry shapes. Legacy
// entries stored duration_minutes and start_time instead of hours and date.
type timeEntryDoc struct {
	ID              *string      `json:"id"`
	ProjectID       string       `json:"project_id"`
	WorkType        string       `json:"work_type"`
	Hours           *json.Number `json:"hours"`
	DurationMinutes *json.Number `json:"duration_minutes"`
	Date            string       `json:"date"`
	StartTime       string       `json:"start_time"`
	Notes           string       `json:"notes"`
	CreatedAt       string       `json:"created_at"`
}

// wholeNumber truncates a JSON number to an int.
func wholeNumber(n *json.Number) (int, bool) {
	if n == nil {
		return 0, false
	}
	if i, err := n.Int64(); err == nil {
		return int(i), true
	}
	f, err := n.Float64()
	if err != nil {
		return 0, false
	}
	return int(math.Trunc(f)), true
}

func (d *timeEntryDoc) entry() (model.TimeEntry, error) {
	if d.ID == nil || *d.ID == "" {
		return model.TimeEntry{}, malformed(KindTimeEntry, "missing id", nil)
	}
	e := model.TimeEntry{
		ID:        *d.ID,
		ProjectID: d.ProjectID,
		WorkType:  d.WorkType,
		Date:      d.Date,
		Notes:     d.Notes,
		CreatedAt: parseTimestamp(d.CreatedAt),
	}
	// hours, then duration_minutes / 60.
	if h, ok := wholeNumber(d.Hours); ok {
		e.Hours = h
	} else if m, ok := wholeNumber(d.DurationMinutes); ok {
		e.Hours = m / 60
	}
	if e.Hours < 0 {
		e.Hours = 0
	}
	// date, then the day part of start_time.
	if e.Date == "" && len(d.StartTime) >= 10 {
		e.Date = d.StartTime[:10]
	}
	return e, nil
}

// DecodeTimeEntry decodes a single time entry object.
func DecodeTimeEntry(raw []byte) (model.TimeEntry, error) {
	var doc timeEntryDoc
	if err := decodeObject(KindTimeEntry, raw, &doc); err != nil {
		return model.TimeEntry{}, err
	}
	return doc.entry()
}

type timeEntryOut struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	WorkType  string `json:"work_type"`
	Hours     int    `json:"hours"`
	Date      string `json:"date"`
	Notes     string `json:"notes"`
	CreatedAt string `json:"created_at"`
}

func entryOut(e model.TimeEntry) timeEntryOut {
	return timeEntryOut{
		ID:        e.ID,
		ProjectID: e.ProjectID,
		WorkType:  e.WorkType,
		Hours:     e.Hours,
		Date:      e.Date,
		Notes:     e.Notes,
		CreatedAt: formatTimestamp(e.CreatedAt),
	}
}

// EncodeTimeEntry encodes e in the current schema.
func EncodeTimeEntry(e model.TimeEntry) ([]byte, error) {
	return encode(entryOut(e))
}

type dailyFileDoc struct {
	UserID  *string           `json:"user_id"`
	Date    *string           `json:"date"`
	Entries []json.RawMessage `json:"entries"`
}

// DecodeDailyFile decodes a per-user daily time file. A file whose entries
// cannot all be decoded is malformed as a whole.
func DecodeDailyFile(raw []byte) (model.DailyTimeFile, error) {
	f, skipped, err := DecodeDailyFileLenient(raw)
	if err != nil {
		return model.DailyTimeFile{}, err
	}
	if len(skipped) > 0 {
		return model.DailyTimeFile{}, skipped[0]
	}
	return f, nil
}

// DecodeDailyFileLenient decodes a daily time file, dropping entries that
// cannot be decoded. Each dropped entry is reported in skipped. A bad header
// still fails the whole file.
func DecodeDailyFileLenient(raw []byte) (f model.DailyTimeFile, skipped []error, err error) {
	var doc dailyFileDoc
	if err := decodeObject(KindDailyFile, raw, &doc); err != nil {
		return model.DailyTimeFile{}, nil, err
	}
	if doc.UserID == nil || *doc.UserID == "" {
		return model.DailyTimeFile{}, nil, malformed(KindDailyFile, "missing user_id", nil)
	}
	if doc.Date == nil || *doc.Date == "" {
		return model.DailyTimeFile{}, nil, malformed(KindDailyFile, "missing date", nil)
	}

	f = model.DailyTimeFile{UserID: *doc.UserID, Date: *doc.Date}
	for i, raw := range doc.Entries {
		var ed timeEntryDoc
		if err := decodeObject(KindTimeEntry, raw, &ed); err != nil {
			skipped = append(skipped, malformed(KindDailyFile, fmt.Sprintf("entry %d", i), err))
			continue
		}
		e, err := ed.entry()
		if err != nil {
			skipped = append(skipped, malformed(KindDailyFile, fmt.Sprintf("entry %d", i), err))
			continue
		}
		f.Entries = append(f.Entries, e)
	}
	return f, skipped, nil
}

type dailyFileOut struct {
	UserID  string         `json:"user_id"`
	Date    string         `json:"date"`
	Entries []timeEntryOut `json:"entries"`
}

// EncodeDailyFile encodes f in the current schema.
func EncodeDailyFile(f model.DailyTimeFile) ([]byte, error) {
	entries := make([]timeEntryOut, 0, len(f.Entries))
	for _, e := range f.Entries {
		entries = append(entries, entryOut(e))
	}
	return encode(dailyFileOut{UserID: f.UserID, Date: f.Date, Entries: entries})
}
