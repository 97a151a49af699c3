package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
)

// Config is the per-machine configuration for ptrack, stored in
// ~/.projecttracker/config.json. The file is JSONC: // and /* */ comments
// and trailing commas are accepted.
type Config struct {
	// DataFolder is the shared, synced folder holding all tracker data.
	DataFolder string `json:"data_folder"`
	// RecentFolders lists previously used data folders, most recent first.
	RecentFolders []string `json:"recent_folders"`
	// LogLevel is one of debug, info, warn, error. Empty means warn.
	LogLevel string `json:"log_level"`
	// User overrides the OS account name when set.
	User    string        `json:"user"`
	Outlook OutlookConfig `json:"outlook"`
}

// OutlookConfig holds Microsoft Graph / Outlook calendar import settings.
type OutlookConfig struct {
	// TenantID is the Azure AD tenant. Use "common" for personal/multi-tenant accounts.
	TenantID string `json:"tenant_id"`
	// ClientID is the Azure app (client) ID for the OAuth2 device code flow.
	ClientID string `json:"client_id"`
	// DefaultProject is the project id assigned to imported Outlook events.
	DefaultProject string `json:"default_project"`
	// DefaultWorkType is the work type assigned to imported Outlook events.
	DefaultWorkType string `json:"default_work_type"`
	// Timezone is the IANA timezone for event times (e.g. "Europe/Berlin"). Empty = local.
	Timezone string `json:"timezone"`
}

const (
	// DefaultTenantID is the Microsoft "common" tenant (supports personal and
	// multi-tenant organisational accounts without additional registration).
	DefaultTenantID = "common"
	// DefaultClientID is the well-known public Azure CLI app ID.
	// It supports device code flow without a client secret and requires no
	// app registration. Replace with your own registered app ID for
	// organisational or production deployments.
	DefaultClientID = "04b07795-8542-4c4a-95af-30b2c573d5ab"
	// DefaultWorkType is the work type used for imported meetings.
	DefaultWorkType = "Meetings"

	// MaxRecentFolders bounds RecentFolders.
	MaxRecentFolders = 5

	// EnvDataFolder and EnvUser override the file settings.
	EnvDataFolder = "PTRACK_DATA"
	EnvUser       = "PTRACK_USER"
)

// defaultConfig returns a Config pre-filled with sensible defaults.
func defaultConfig() Config {
	return Config{
		LogLevel: "warn",
		Outlook: OutlookConfig{
			TenantID:        DefaultTenantID,
			ClientID:        DefaultClientID,
			DefaultWorkType: DefaultWorkType,
		},
	}
}

// configTemplate is the annotated config written on first run.
const configTemplate = `// ptrack configuration - ~/.projecttracker/config.json
//
// This file is JSONC: comments and trailing commas are allowed.
// ptrack rewrites it (without comments) when you run "ptrack config set-data".
{
  // Shared folder holding team_data.json, projects/ and time/.
  // Usually a folder synced by OneDrive, Dropbox or similar.
  // Can be overridden with the PTRACK_DATA environment variable or --data.
  "data_folder": "",

  // Previously used data folders, most recent first.
  "recent_folders": [],

  // Log verbosity on stderr: debug, info, warn or error.
  "log_level": "warn",

  // Roster id to act as when the OS account name is not on the roster.
  // Can be overridden with PTRACK_USER or --user.
  "user": "",

  // Microsoft Graph / Outlook calendar import
  "outlook": {
    // Azure AD tenant ID: "common" or your organisation's tenant GUID.
    "tenant_id": "common",

    // Azure application (client) ID used for the OAuth2 device code flow.
    // The built-in value is the public Azure CLI app; no app registration needed.
    "client_id": "04b07795-8542-4c4a-95af-30b2c573d5ab",

    // Project id assigned to imported calendar events.
    // Can be overridden per import with: ptrack outlook sync --project <id>
    "default_project": "",

    // Work type assigned to imported calendar events.
    "default_work_type": "Meetings",

    // IANA timezone for interpreting event times, e.g. "Europe/Berlin".
    // Leave empty to use the local timezone.
    "timezone": "",
  },
}
`

// Dir returns ~/.projecttracker, the per-machine state directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".projecttracker"), nil
}

// FilePath returns the path to ~/.projecttracker/config.json.
func FilePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Parse reads JSONC config data and fills unset fields with defaults.
func Parse(data []byte) (Config, error) {
	cfg := defaultConfig()
	if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("parsing config: %w", err)
	}

	// Fill zero-value fields with built-in defaults so callers always get
	// a usable Config even if the user only partially fills in the file.
	if cfg.Outlook.TenantID == "" {
		cfg.Outlook.TenantID = DefaultTenantID
	}
	if cfg.Outlook.ClientID == "" {
		cfg.Outlook.ClientID = DefaultClientID
	}
	if cfg.Outlook.DefaultWorkType == "" {
		cfg.Outlook.DefaultWorkType = DefaultWorkType
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	return cfg, nil
}

// Load reads ~/.projecttracker/config.json, creating it with annotated
// defaults on first run, and applies environment overrides.
func Load() (Config, error) {
	path, err := FilePath()
	if err != nil {
		return applyEnv(defaultConfig()), err
	}
	cfg, err := LoadFile(path)
	return applyEnv(cfg), err
}

// LoadFile reads the config at path, writing the annotated template there
// when it does not exist.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeFile(path, []byte(configTemplate)); writeErr != nil {
			return defaultConfig(), fmt.Errorf("could not create config file %s: %w", path, writeErr)
		}
		return defaultConfig(), nil
	}
	if err != nil {
		return defaultConfig(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w\nTip: delete the file to regenerate defaults", path, err)
	}
	return cfg, nil
}

func applyEnv(cfg Config) Config {
	if v := strings.TrimSpace(os.Getenv(EnvDataFolder)); v != "" {
		cfg.DataFolder = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvUser)); v != "" {
		cfg.User = v
	}
	return cfg
}

// SetDataFolder makes folder the active data folder and moves it to the
// front of the recent list.
func (c *Config) SetDataFolder(folder string) {
	folder = filepath.Clean(folder)
	c.DataFolder = folder
	recent := []string{folder}
	for _, f := range c.RecentFolders {
		if f != folder && len(recent) < MaxRecentFolders {
			recent = append(recent, f)
		}
	}
	c.RecentFolders = recent
}

// Save writes cfg to ~/.projecttracker/config.json.
func Save(cfg Config) error {
	path, err := FilePath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

// SaveFile writes cfg to path as indented JSON. Comments in an existing file
// are not preserved.
func SaveFile(path string, cfg Config) error {
	if cfg.RecentFolders == nil {
		cfg.RecentFolders = []string{}
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return writeFile(path, append(data, '\n'))
}

// writeFile creates the config directory and writes data to path.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
