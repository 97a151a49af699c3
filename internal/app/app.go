// Package app wires the stores, identity resolver and report engine for one
// data root. It is the only place that knows how they fit together.
package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/donburnsideAZ/project-tracker/internal/clock"
	"github.com/donburnsideAZ/project-tracker/internal/config"
	"github.com/donburnsideAZ/project-tracker/internal/identity"
	"github.com/donburnsideAZ/project-tracker/internal/model"
	"github.com/donburnsideAZ/project-tracker/internal/report"
	"github.com/donburnsideAZ/project-tracker/internal/storage"
)

// ErrUnknownUser is returned when a user override is not on the roster.
var ErrUnknownUser = errors.New("user is not on the team roster")

// Options carries the environment an App runs in. Zero values select the
// real clock, the OS account, a no-op logger and the default config path.
type Options struct {
	Clock    clock.Clock
	Log      *zap.Logger
	Accounts identity.AccountProvider
	// ConfigPath is where SetDataFolder persists the config.
	ConfigPath string
}

// App holds every store for the configured data root.
type App struct {
	Config config.Config
	Env    storage.Env
	Log    *zap.Logger

	Projects *storage.Projects
	Entries  *storage.TimeEntries
	Team     *storage.TeamStore
	Prefs    *storage.Preferences
	Identity *identity.Resolver
	Reports  *report.Engine

	opts Options
}

// New builds an App from cfg. Nothing is read from disk until a store is used.
func New(cfg config.Config, opts Options) *App {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	a := &App{Config: cfg, Log: opts.Log, opts: opts}
	a.Identity = identity.NewResolver(opts.Accounts, a.roster)
	a.Reload()
	return a
}

// Reload rebuilds every store for the current Config.DataFolder, dropping
// any cached project index.
func (a *App) Reload() {
	a.Env = storage.Env{Root: a.Config.DataFolder, Clock: a.opts.Clock, Log: a.Log}
	a.Entries = storage.NewTimeEntries(a.Env)
	a.Team = storage.NewTeamStore(a.Env)
	a.Prefs = storage.NewPreferences(a.Env)
	a.Projects = storage.NewProjects(a.Env, a.lastActivity)
	a.Reports = report.NewEngine(a.Entries, a.Projects, a.opts.Clock)

	if a.Config.User != "" && !a.Identity.SetCurrentUser(a.Config.User) {
		a.Log.Debug("configured user not on roster", zap.String("user", a.Config.User))
	}
}

// Configured reports storage.ErrMissingDataRoot unless the data root exists.
func (a *App) Configured() error {
	return a.Env.Check()
}

// Now returns the App clock's current time.
func (a *App) Now() time.Time {
	return a.opts.Clock.Now()
}

// Today returns the current calendar day as yyyy-mm-dd.
func (a *App) Today() string {
	return clock.Today(a.opts.Clock)
}

// SetDataFolder switches to folder, persists the choice and reloads.
func (a *App) SetDataFolder(folder string) error {
	abs, err := filepath.Abs(folder)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", folder, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrMissingDataRoot, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", storage.ErrMissingDataRoot, abs)
	}

	a.Config.SetDataFolder(abs)
	if err := a.saveConfig(); err != nil {
		return err
	}
	a.Reload()
	a.Log.Info("data folder changed", zap.String("root", abs))
	return nil
}

// Init creates folder if needed, makes it the data root and writes the
// default team document when none exists.
func (a *App) Init(folder string) error {
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return fmt.Errorf("creating data folder: %w", err)
	}
	if err := a.SetDataFolder(folder); err != nil {
		return err
	}
	return a.Team.EnsureDefaults()
}

func (a *App) saveConfig() error {
	if a.opts.ConfigPath != "" {
		return config.SaveFile(a.opts.ConfigPath, a.Config)
	}
	return config.Save(a.Config)
}

// CurrentUser returns the id the current person logs time under.
func (a *App) CurrentUser() string {
	return a.Identity.CurrentUserID()
}

// SetUser overrides the OS account with a roster id.
func (a *App) SetUser(id string) error {
	if !a.Identity.SetCurrentUser(id) {
		return fmt.Errorf("%w: %s", ErrUnknownUser, id)
	}
	return nil
}

// TeamData returns the team document, or the defaults when it is absent.
func (a *App) TeamData() model.TeamData {
	t, ok := a.Team.Load()
	if !ok {
		return model.DefaultTeamData()
	}
	return t
}

func (a *App) roster() []model.Employee {
	t, ok := a.Team.Load()
	if !ok {
		return nil
	}
	return t.Employees
}

func (a *App) lastActivity(user string) map[string]time.Time {
	return a.Reports.UserLastActivity(user)
}
