package storage

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/donburnsideAZ/project-tracker/internal/model"
)

// Layout of the data root.
const (
	ProjectsDir   = "projects"
	TimeDir       = "time"
	TeamDataFile  = "team_data.json"
	starredSuffix = "_starred.json"
)

// ProjectPath returns <root>/projects/<file id>.json.
func ProjectPath(root string, p model.Project) string {
	return filepath.Join(root, ProjectsDir, p.FileID()+".json")
}

// TimeFilePath returns <root>/time/<user>_<date>.json.
func TimeFilePath(root, user, date string) string {
	return filepath.Join(root, TimeDir, user+"_"+date+".json")
}

// StarredPath returns <root>/<user>_starred.json.
func StarredPath(root, user string) string {
	return filepath.Join(root, user+starredSuffix)
}

// TeamDataPath returns <root>/team_data.json.
func TeamDataPath(root string) string {
	return filepath.Join(root, TeamDataFile)
}

// ParseTimeFileName splits a daily time file name into user id and date. The
// split is on the last underscore, so user ids may contain underscores.
func ParseTimeFileName(name string) (user, date string, ok bool) {
	stem, found := strings.CutSuffix(filepath.Base(name), ".json")
	if !found {
		return "", "", false
	}
	i := strings.LastIndexByte(stem, '_')
	if i <= 0 {
		return "", "", false
	}
	user, date = stem[:i], stem[i+1:]
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return "", "", false
	}
	return user, date, true
}

// validFileStem reports whether id can be used as a file name stem.
func validFileStem(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, `/\`)
}
