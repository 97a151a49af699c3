package storage

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/donburnsideAZ/project-tracker/internal/codec"
	"github.com/donburnsideAZ/project-tracker/internal/model"
	"github.com/donburnsideAZ/project-tracker/internal/richtext"
	"github.com/donburnsideAZ/project-tracker/internal/timecalc"
)

// ActivityFunc returns, for one user, the latest activity time per project id.
type ActivityFunc func(user string) map[string]time.Time

// Projects stores one JSON file per project under <root>/projects and keeps
// the last loaded set in memory.
type Projects struct {
	env      Env
	activity ActivityFunc

	mu    sync.RWMutex
	cache map[string]model.Project
}

// NewProjects returns a project store. activity may be nil, in which case
// recency ordering falls back to modification time.
func NewProjects(env Env, activity ActivityFunc) *Projects {
	return &Projects{env: env, activity: activity, cache: map[string]model.Project{}}
}

// LoadAll reads every project file and replaces the cache. Files that cannot
// be read or decoded are skipped and reported.
func (s *Projects) LoadAll() (map[string]model.Project, []Warning) {
	log := s.env.logger()
	loaded := map[string]model.Project{}
	var warnings []Warning

	if err := s.env.Check(); err != nil {
		log.Debug("project load skipped", zap.Error(err))
		s.replace(loaded)
		return loaded, nil
	}

	dir := filepath.Join(s.env.Root, ProjectsDir)
	names, err := jsonFiles(dir)
	if err != nil {
		log.Debug("no projects directory", zap.String("path", dir), zap.Error(err))
	}
	for _, name := range names {
		path := filepath.Join(dir, name)
		p, err := s.read(path)
		if err != nil {
			log.Warn("skipping project file", zap.String("path", path), zap.Error(err))
			warnings = append(warnings, Warning{Path: path, Err: err})
			continue
		}
		loaded[p.ID] = p
	}

	s.replace(loaded)
	out := make(map[string]model.Project, len(loaded))
	for id, p := range loaded {
		out[id] = p
	}
	return out, warnings
}

func (s *Projects) read(path string) (model.Project, error) {
	data, ok, err := readFile(path)
	if err != nil {
		return model.Project{}, err
	}
	if !ok {
		return model.Project{}, fmt.Errorf("%s vanished", path)
	}
	return codec.DecodeProject(data)
}

func (s *Projects) replace(m map[string]model.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = m
}

// Get returns the cached project with internal id id.
func (s *Projects) Get(id string) (model.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.cache[id]
	return p, ok
}

// Lookup resolves ref as an internal id first, then as an external id.
func (s *Projects) Lookup(ref string) (model.Project, bool) {
	if p, ok := s.Get(ref); ok {
		return p, true
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.cache {
		if p.ExternalID == ref {
			return p, true
		}
	}
	return model.Project{}, false
}

// Create builds a new, unsaved project. When externalID is given it also
// becomes the internal id; otherwise an id is generated from the clock.
func (s *Projects) Create(name, externalID, actor string) model.Project {
	now := s.env.now()
	id := externalID
	if id == "" {
		id = timecalc.GenerateProjectID(now)
	}
	return model.Project{
		ID:         id,
		ExternalID: externalID,
		Name:       name,
		Status:     model.DefaultStatus,
		CreatedAt:  now,
		CreatedBy:  actor,
		ModifiedAt: now,
		ModifiedBy: actor,
	}
}

// Save stamps the modification fields, sanitizes the notes and rewrites the
// project's file. Saves from different machines are not reconciled.
func (s *Projects) Save(p *model.Project, actor string) error {
	if p.ID == "" || !validFileStem(p.FileID()) {
		return fmt.Errorf("%w: bad file id %q", ErrInvalidProject, p.FileID())
	}
	if err := s.env.Check(); err != nil {
		s.env.logger().Warn("project not saved", zap.String("id", p.ID), zap.Error(err))
		return nil
	}

	p.ModifiedAt = s.env.now()
	p.ModifiedBy = actor
	p.Notes = richtext.Sanitize(p.Notes)

	data, err := codec.EncodeProject(*p)
	if err != nil {
		return fmt.Errorf("encoding project %s: %w", p.ID, err)
	}
	if err := writeFile(ProjectPath(s.env.Root, *p), data); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[p.ID] = *p
	return nil
}

// List returns the cached projects ordered by id.
func (s *Projects) List() []model.Project {
	s.mu.RLock()
	out := make([]model.Project, 0, len(s.cache))
	for _, p := range s.cache {
		out = append(out, p)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ListByRecency orders the cached projects by the user's latest activity on
// each, then by modification time, then by id.
func (s *Projects) ListByRecency(user string) []model.Project {
	projects := s.List()
	var activity map[string]time.Time
	if s.activity != nil {
		activity = s.activity(user)
	}
	last := func(p model.Project) time.Time {
		t := activity[p.ID]
		if p.ExternalID != "" && activity[p.ExternalID].After(t) {
			t = activity[p.ExternalID]
		}
		return t
	}

	sort.SliceStable(projects, func(i, j int) bool {
		ai, aj := last(projects[i]), last(projects[j])
		if !ai.Equal(aj) {
			return ai.After(aj)
		}
		mi, mj := projects[i].ModifiedAt, projects[j].ModifiedAt
		if !mi.Equal(mj) {
			return mi.After(mj)
		}
		return projects[i].ID < projects[j].ID
	})
	return projects
}

// ListForHome splits the recency listing into the user's starred projects
// and the rest.
func (s *Projects) ListForHome(user string, starred map[string]bool) (stars, others []model.Project) {
	for _, p := range s.ListByRecency(user) {
		if starred[p.ID] {
			stars = append(stars, p)
		} else {
			others = append(others, p)
		}
	}
	return stars, others
}
