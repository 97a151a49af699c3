package storage

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/donburnsideAZ/project-tracker/internal/codec"
	"github.com/donburnsideAZ/project-tracker/internal/model"
)

// DayRecord is one daily time file as seen by a scan. UserID and Date come
// from the file name.
type DayRecord struct {
	UserID  string
	Date    string
	Path    string
	Entries []model.TimeEntry
}

// TimeEntries stores one file per user per day under <root>/time.
type TimeEntries struct {
	env Env
}

// NewTimeEntries returns a time-entry store.
func NewTimeEntries(env Env) *TimeEntries {
	return &TimeEntries{env: env}
}

func validateEntry(user string, e model.TimeEntry) error {
	switch {
	case user == "":
		return fmt.Errorf("%w: no user", ErrInvalidEntry)
	case strings.ContainsAny(user, `/\`):
		return fmt.Errorf("%w: bad user id %q", ErrInvalidEntry, user)
	case e.ProjectID == "":
		return fmt.Errorf("%w: no project", ErrInvalidEntry)
	case e.Hours < 1:
		return fmt.Errorf("%w: hours must be at least 1, got %d", ErrInvalidEntry, e.Hours)
	}
	if _, err := time.Parse(model.DateLayout, e.Date); err != nil {
		return fmt.Errorf("%w: bad date %q", ErrInvalidEntry, e.Date)
	}
	return nil
}

// Append adds e to the user's file for e.Date, creating the file on first
// use. Entries are not de-duplicated. A corrupt existing file is moved aside
// to <path>.corrupt and the append is refused.
func (s *TimeEntries) Append(user string, e model.TimeEntry) error {
	if err := validateEntry(user, e); err != nil {
		return err
	}
	if err := s.env.Check(); err != nil {
		s.env.logger().Warn("time entry not saved", zap.String("user", user), zap.Error(err))
		return nil
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	path := TimeFilePath(s.env.Root, user, e.Date)
	day, err := s.load(path, user, e.Date)
	if errors.Is(err, codec.ErrMalformedRecord) {
		// Back up corrupt file and abort.
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		s.env.logger().Warn("corrupt time file backed up", zap.String("path", path), zap.String("backup", backupPath), zap.Error(err))
		return fmt.Errorf("corrupt time file %s (backed up to %s): %w", path, backupPath, err)
	}
	if err != nil {
		return err
	}

	day.UserID, day.Date = user, e.Date
	day.Entries = append(day.Entries, e)
	data, err := codec.EncodeDailyFile(day)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return writeFile(path, data)
}

// load reads a daily file, returning an empty one when it does not exist.
func (s *TimeEntries) load(path, user, date string) (model.DailyTimeFile, error) {
	data, ok, err := readFile(path)
	if err != nil {
		return model.DailyTimeFile{}, err
	}
	if !ok {
		return model.DailyTimeFile{UserID: user, Date: date}, nil
	}
	f, err := codec.DecodeDailyFile(data)
	if err != nil {
		return model.DailyTimeFile{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// LoadDay returns the user's file for date. A missing file is an empty,
// valid day.
func (s *TimeEntries) LoadDay(user, date string) (model.DailyTimeFile, error) {
	if err := s.env.Check(); err != nil {
		return model.DailyTimeFile{UserID: user, Date: date}, nil
	}
	return s.load(TimeFilePath(s.env.Root, user, date), user, date)
}

// Contains reports whether the user's file for date holds an entry with id.
func (s *TimeEntries) Contains(user, date, entryID string) bool {
	day, err := s.LoadDay(user, date)
	if err != nil {
		return false
	}
	for _, e := range day.Entries {
		if e.ID == entryID {
			return true
		}
	}
	return false
}

// ScanAll yields every readable daily file. Files that vanish or fail to
// decode mid-scan are skipped, as are single entries that fail to decode.
func (s *TimeEntries) ScanAll() iter.Seq[DayRecord] {
	return s.scan("", func(string) bool { return true })
}

// ScanUser yields the daily files belonging to user only.
func (s *TimeEntries) ScanUser(user string) iter.Seq[DayRecord] {
	if user == "" {
		return func(func(DayRecord) bool) {}
	}
	return s.scan(user+"_", func(owner string) bool { return owner == user })
}

func (s *TimeEntries) scan(prefix string, match func(user string) bool) iter.Seq[DayRecord] {
	return func(yield func(DayRecord) bool) {
		log := s.env.logger()
		if err := s.env.Check(); err != nil {
			return
		}
		dir := filepath.Join(s.env.Root, TimeDir)
		names, err := jsonFiles(dir)
		if err != nil {
			log.Debug("no time directory", zap.String("path", dir), zap.Error(err))
			return
		}
		for _, name := range names {
			if !strings.HasPrefix(name, prefix) {
				continue
			}
			user, date, ok := ParseTimeFileName(name)
			if !ok || !match(user) {
				continue
			}
			path := filepath.Join(dir, name)
			data, ok, err := readFile(path)
			if err != nil || !ok {
				log.Debug("time file unreadable", zap.String("path", path), zap.Error(err))
				continue
			}
			f, skipped, err := codec.DecodeDailyFileLenient(data)
			if err != nil {
				log.Warn("skipping time file", zap.String("path", path), zap.Error(err))
				continue
			}
			for _, serr := range skipped {
				log.Warn("skipping time entry", zap.String("path", path), zap.Error(serr))
			}
			if !yield(DayRecord{UserID: user, Date: date, Path: path, Entries: f.Entries}) {
				return
			}
		}
	}
}
