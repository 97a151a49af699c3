package storage

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/donburnsideAZ/project-tracker/internal/codec"
)

// Preferences stores per-user starred projects in <root>/<user>_starred.json.
// A user only ever writes their own file.
type Preferences struct {
	env Env
}

// NewPreferences returns a preference store.
func NewPreferences(env Env) *Preferences {
	return &Preferences{env: env}
}

// Starred returns the user's starred project ids. Unreadable files count as
// empty.
func (s *Preferences) Starred(user string) map[string]bool {
	if user == "" || s.env.Check() != nil {
		return map[string]bool{}
	}
	path := StarredPath(s.env.Root, user)
	data, ok, err := readFile(path)
	if err != nil || !ok {
		return map[string]bool{}
	}
	set, err := codec.DecodeStarred(data)
	if err != nil {
		s.env.logger().Debug("ignoring starred file", zap.String("path", path), zap.Error(err))
		return map[string]bool{}
	}
	return set
}

// IsStarred reports whether user has starred projectID.
func (s *Preferences) IsStarred(user, projectID string) bool {
	return s.Starred(user)[projectID]
}

// SetStarred stars or unstars projectID for user.
func (s *Preferences) SetStarred(user, projectID string, starred bool) error {
	if user == "" || !validFileStem(user) {
		return fmt.Errorf("invalid user id %q", user)
	}
	if err := s.env.Check(); err != nil {
		s.env.logger().Warn("starred projects not saved", zap.String("user", user), zap.Error(err))
		return nil
	}
	set := s.Starred(user)
	if starred {
		set[projectID] = true
	} else {
		delete(set, projectID)
	}
	data, err := codec.EncodeStarred(set)
	if err != nil {
		return fmt.Errorf("encoding starred projects: %w", err)
	}
	return writeFile(StarredPath(s.env.Root, user), data)
}
