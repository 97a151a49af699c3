// Package teamimport reads lookup-list items and employee rosters from JSON,
// CSV or YAML files and merges them into the team document.
package teamimport

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/donburnsideAZ/project-tracker/internal/model"
)

// DefaultRole is given to imported employees without a role.
const DefaultRole = "SME"

// Format is an import file format.
type Format string

const (
	JSON Format = "json"
	CSV  Format = "csv"
	YAML Format = "yaml"
)

// ErrUnsupportedFormat is returned for file extensions other than .json,
// .csv, .yaml and .yml.
var ErrUnsupportedFormat = errors.New("unsupported import format")

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON, nil
	case ".csv":
		return CSV, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Result counts what a merge did.
type Result struct {
	Added   int
	Skipped int
}

// decodeArray reads a top-level JSON or YAML array.
func decodeArray(r io.Reader, format Format) ([]any, error) {
	var items []any
	switch format {
	case JSON:
		if err := json.NewDecoder(r).Decode(&items); err != nil {
			return nil, fmt.Errorf("reading JSON array: %w", err)
		}
	case YAML:
		if err := yaml.NewDecoder(r).Decode(&items); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("reading YAML list: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return items, nil
}

// text renders a scalar as trimmed text. Non-scalars yield "".
func text(v any) string {
	switch v.(type) {
	case nil, map[string]any, []any:
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

// firstField returns the value of the first key present in m.
func firstField(m map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return text(v), true
		}
	}
	return "", false
}

func newCSVReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader
}

// ParseList reads list items. JSON and YAML files hold an array of strings or
// of objects carrying one of name, value, label, title or singular; CSV files
// contribute the first column of every row, skipping a header row that names
// one of those keys.
func ParseList(r io.Reader, format Format, singular string) ([]string, error) {
	keys := []string{"name", "value", "label", "title"}
	if singular != "" {
		keys = append(keys, singular)
	}

	if format == CSV {
		rows, err := newCSVReader(r).ReadAll()
		if err != nil {
			return nil, fmt.Errorf("reading CSV: %w", err)
		}
		var items []string
		for i, row := range rows {
			if len(row) == 0 {
				continue
			}
			cell := strings.TrimSpace(row[0])
			if i == 0 && isHeader(cell, keys) {
				continue
			}
			if cell != "" {
				items = append(items, cell)
			}
		}
		return items, nil
	}

	raw, err := decodeArray(r, format)
	if err != nil {
		return nil, err
	}
	var items []string
	for _, v := range raw {
		switch x := v.(type) {
		case string:
			items = append(items, strings.TrimSpace(x))
		case map[string]any:
			if s, ok := firstField(x, keys...); ok {
				items = append(items, s)
			}
		}
	}
	return items, nil
}

func isHeader(cell string, keys []string) bool {
	for _, k := range keys {
		if strings.EqualFold(cell, k) {
			return true
		}
	}
	return false
}

var (
	idKeys   = []string{"id", "username", "ID"}
	nameKeys = []string{"name", "Name", "display_name"}
	roleKeys = []string{"role", "Role"}
)

func employeeFrom(get func(keys ...string) string) (model.Employee, bool) {
	e := model.Employee{ID: get(idKeys...), Name: get(nameKeys...), Role: get(roleKeys...)}
	if e.ID == "" {
		return model.Employee{}, false
	}
	if e.Name == "" {
		e.Name = e.ID
	}
	if e.Role == "" {
		e.Role = DefaultRole
	}
	return e, true
}

// ParseEmployees reads roster entries. JSON and YAML files hold an array of
// objects; CSV files need a header row. Ids come from id, username or ID,
// names from name, Name or display_name (defaulting to the id), and roles
// from role or Role (defaulting to DefaultRole). Rows without an id are
// dropped.
func ParseEmployees(r io.Reader, format Format) ([]model.Employee, error) {
	var out []model.Employee

	if format == CSV {
		reader := newCSVReader(r)
		header, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV header: %w", err)
		}
		col := map[string]int{}
		for i, h := range header {
			if _, dup := col[strings.TrimSpace(h)]; !dup {
				col[strings.TrimSpace(h)] = i
			}
		}
		for {
			row, err := reader.Read()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, fmt.Errorf("reading CSV: %w", err)
			}
			get := func(keys ...string) string {
				for _, k := range keys {
					if i, ok := col[k]; ok && i < len(row) {
						if v := strings.TrimSpace(row[i]); v != "" {
							return v
						}
					}
				}
				return ""
			}
			if e, ok := employeeFrom(get); ok {
				out = append(out, e)
			}
		}
		return out, nil
	}

	raw, err := decodeArray(r, format)
	if err != nil {
		return nil, err
	}
	for _, v := range raw {
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		get := func(keys ...string) string {
			for _, k := range keys {
				if s, ok := firstField(m, k); ok && s != "" {
					return s
				}
			}
			return ""
		}
		if e, ok := employeeFrom(get); ok {
			out = append(out, e)
		}
	}
	return out, nil
}

// MergeList appends items not already present. Empty items and duplicates
// are counted as skipped.
func MergeList(existing, items []string) ([]string, Result) {
	var res Result
	seen := make(map[string]bool, len(existing))
	for _, s := range existing {
		seen[s] = true
	}
	for _, s := range items {
		if s == "" || seen[s] {
			res.Skipped++
			continue
		}
		seen[s] = true
		existing = append(existing, s)
		res.Added++
	}
	return existing, res
}

// MergeEmployees appends employees whose id is not already on the roster.
func MergeEmployees(existing, incoming []model.Employee) ([]model.Employee, Result) {
	var res Result
	seen := make(map[string]bool, len(existing))
	for _, e := range existing {
		seen[e.ID] = true
	}
	for _, e := range incoming {
		if e.ID == "" || seen[e.ID] {
			res.Skipped++
			continue
		}
		seen[e.ID] = true
		existing = append(existing, e)
		res.Added++
	}
	return existing, res
}

// Lists names the importable lists of the team document.
var Lists = []string{"work_types", "project_statuses", "tags", "team_roles"}

// ListTarget returns the list of t called name, together with the singular
// key used when reading objects. Any other name is taken as the key of a
// project field, whose allowed values are returned.
func ListTarget(t *model.TeamData, name string) (*[]string, string, error) {
	name = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	switch name {
	case "work_types":
		return &t.WorkTypes, "work_type", nil
	case "project_statuses", "statuses":
		return &t.ProjectStatuses, "project_status", nil
	case "tags":
		return &t.Tags, "tag", nil
	case "team_roles", "roles":
		return &t.TeamRoles, "team_role", nil
	}
	for i := range t.ProjectFields {
		if t.ProjectFields[i].Key == name {
			return &t.ProjectFields[i].Values, name, nil
		}
	}
	return nil, "", fmt.Errorf("unknown list %q (want one of %s or a project field key)", name, strings.Join(Lists, ", "))
}
