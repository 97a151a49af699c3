package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/donburnsideAZ/project-tracker/internal/codec"
	"github.com/donburnsideAZ/project-tracker/internal/model"
)

// TeamStore reads and writes the shared team_data.json document.
type TeamStore struct {
	env Env
}

// NewTeamStore returns a team configuration store.
func NewTeamStore(env Env) *TeamStore {
	return &TeamStore{env: env}
}

// Load returns the team document. It reports false when the document is
// missing or cannot be decoded.
func (s *TeamStore) Load() (model.TeamData, bool) {
	if s.env.Check() != nil {
		return model.TeamData{}, false
	}
	path := TeamDataPath(s.env.Root)
	data, ok, err := readFile(path)
	if err != nil || !ok {
		if err != nil {
			s.env.logger().Warn("team data unreadable", zap.String("path", path), zap.Error(err))
		}
		return model.TeamData{}, false
	}
	t, err := codec.DecodeTeamData(data)
	if err != nil {
		s.env.logger().Warn("team data malformed", zap.String("path", path), zap.Error(err))
		return model.TeamData{}, false
	}
	return t, true
}

// Save overwrites the whole team document.
func (s *TeamStore) Save(t model.TeamData) error {
	if err := s.env.Check(); err != nil {
		s.env.logger().Warn("team data not saved", zap.Error(err))
		return nil
	}
	data, err := codec.EncodeTeamData(t)
	if err != nil {
		return fmt.Errorf("encoding team data: %w", err)
	}
	return writeFile(TeamDataPath(s.env.Root), data)
}

// Update applies fn to the current document, or to the defaults when there is
// none, and saves the result. Nothing is written when fn fails.
func (s *TeamStore) Update(fn func(*model.TeamData) error) error {
	t, ok := s.Load()
	if !ok {
		t = model.DefaultTeamData()
	}
	if err := fn(&t); err != nil {
		return err
	}
	return s.Save(t)
}

// EnsureDefaults creates the data root layout and writes the default team
// document if none exists yet.
func (s *TeamStore) EnsureDefaults() error {
	if s.env.Root == "" {
		return ErrMissingDataRoot
	}
	for _, dir := range []string{ProjectsDir, TimeDir} {
		if err := os.MkdirAll(filepath.Join(s.env.Root, dir), 0o755); err != nil {
			return fmt.Errorf("storage error creating directories: %w", err)
		}
	}
	path := TeamDataPath(s.env.Root)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("storage error reading %s: %w", path, err)
	}
	s.env.logger().Info("writing default team data", zap.String("path", path))
	return s.Save(model.DefaultTeamData())
}
