// Package timer keeps the running start/stop timer of this machine. The state
// is local and never synced; only the time entry produced on stop reaches the
// shared data root.
package timer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/donburnsideAZ/project-tracker/internal/config"
	"github.com/donburnsideAZ/project-tracker/internal/model"
)

// ErrNotRunning is returned by Stop when no timer is active.
var ErrNotRunning = errors.New("no active timer")

// State is a running timer.
type State struct {
	ProjectID string    `json:"project_id"`
	WorkType  string    `json:"work_type"`
	Notes     string    `json:"notes,omitempty"`
	StartedAt time.Time `json:"started_at"`
}

// Elapsed returns the time since the timer started.
func (s State) Elapsed(now time.Time) time.Duration {
	return now.Sub(s.StartedAt)
}

// Entry converts the timer into a time entry ending at end. Hours are the
// elapsed whole hours with a floor of one.
func (s State) Entry(end, now time.Time) model.TimeEntry {
	return model.NewTimeEntryFromSpan(s.ProjectID, s.WorkType, s.StartedAt, end, s.Notes, now)
}

// Store persists the timer state in a single file.
type Store struct {
	path string
}

// NewStore returns a Store backed by path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns ~/.projecttracker/timer.json.
func DefaultPath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "timer.json"), nil
}

// Active returns the running timer, or nil when none is running.
func (s *Store) Active() (*State, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading timer state: %w", err)
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		// Back up corrupt file and treat the timer as stopped.
		_ = os.Rename(s.path, s.path+".corrupt")
		return nil, fmt.Errorf("corrupt timer state in %s (backed up): %w", s.path, err)
	}
	return &st, nil
}

// Start records st as the running timer, replacing any previous one, which
// is returned so the caller can log it.
func (s *Store) Start(st State) (*State, error) {
	prev, err := s.Active()
	if err != nil {
		prev = nil
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return prev, fmt.Errorf("encoding timer state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return prev, fmt.Errorf("creating timer directory: %w", err)
	}
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return prev, fmt.Errorf("writing timer state: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return prev, fmt.Errorf("writing timer state: %w", err)
	}
	return prev, nil
}

// Stop clears the running timer and returns it.
func (s *Store) Stop() (State, error) {
	st, err := s.Active()
	if err != nil {
		return State{}, err
	}
	if st == nil {
		return State{}, ErrNotRunning
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return State{}, fmt.Errorf("clearing timer state: %w", err)
	}
	return *st, nil
}
