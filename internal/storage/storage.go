// Package storage persists the tracker's records as JSON files under a shared
// data root. Every mutation is a whole-file rewrite through a temporary file
// and rename; there is no locking between machines and the last writer wins.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/donburnsideAZ/project-tracker/internal/clock"
)

var (
	// ErrMissingDataRoot is reported when no data root is configured or the
	// configured directory does not exist.
	ErrMissingDataRoot = errors.New("data root not configured or missing")
	// ErrInvalidEntry is returned by Append for entries that cannot be stored.
	ErrInvalidEntry = errors.New("invalid time entry")
	// ErrInvalidProject is returned by Save for projects without a usable id.
	ErrInvalidProject = errors.New("invalid project")
)

// Env is the shared context of every store: where the data lives, what time
// it is, and where to log.
type Env struct {
	Root  string
	Clock clock.Clock
	Log   *zap.Logger
}

// Check reports ErrMissingDataRoot unless Root names an existing directory.
func (e Env) Check() error {
	if e.Root == "" {
		return ErrMissingDataRoot
	}
	info, err := os.Stat(e.Root)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrMissingDataRoot, e.Root)
	}
	return nil
}

func (e Env) logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}

func (e Env) now() time.Time {
	if e.Clock == nil {
		return time.Now()
	}
	return e.Clock.Now()
}

// Warning describes a file that was skipped while loading.
type Warning struct {
	Path string
	Err  error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %v", w.Path, w.Err)
}

// writeFile atomically replaces path with data.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	// Atomic write: write to temp file then rename.
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("storage error creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// readFile returns the contents of path. A missing file yields (nil, false, nil).
func readFile(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("storage error reading %s: %w", path, err)
	}
	return data, true, nil
}

// jsonFiles lists the *.json files directly inside dir, sorted by name.
func jsonFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}
