package codec

import (
	"encoding/json"
	"sort"
	"strconv"

	"github.com/donburnsideAZ/project-tracker/internal/model"
)

// projectDoc is the union of the current and legacy project shapes.
type projectDoc struct {
	ID              *string                    `json:"id"`
	ProjectID       string                     `json:"project_id"`
	Name            string                     `json:"name"`
	Status          string                     `json:"status"`
	TargetHours     json.Number                `json:"target_hours"`
	TeamAssignments map[string]json.RawMessage `json:"team_assignments"`
	CustomFields    map[string]json.RawMessage `json:"custom_fields"`
	Modules         []json.RawMessage          `json:"tms"`
	Tags            []json.RawMessage          `json:"tags"`
	Notes           string                     `json:"notes"`
	CreatedAt       string                     `json:"created_at"`
	CreatedBy       string                     `json:"created_by"`
	ModifiedAt      string                     `json:"modified_at"`
	ModifiedBy      string                     `json:"modified_by"`

	// Legacy flat fields.
	CourseID              string      `json:"course_id"`
	Campus                string      `json:"campus"`
	Offer                 string      `json:"offer"`
	SubOffer              string      `json:"sub_offer"`
	EffortType            string      `json:"effort_type"`
	CourseType            string      `json:"course_type"`
	CourseDurationMinutes json.Number `json:"course_duration_minutes"`
	LPO                   string      `json:"lpo"`
	SME                   string      `json:"sme"`
	LXO                   string      `json:"lxo"`
}

// legacySource is one entry of a fallback table: the key the value lands
// under and the legacy attribute that supplies it.
type legacySource struct {
	key   string
	value func(*projectDoc) string
}

// legacyCustomFields is consulted for each key after custom_fields.
var legacyCustomFields = []legacySource{
	{"campus", func(d *projectDoc) string { return d.Campus }},
	{"offer", func(d *projectDoc) string { return d.Offer }},
	{"sub_offer", func(d *projectDoc) string { return d.SubOffer }},
	{"effort_type", func(d *projectDoc) string { return d.EffortType }},
	{"course_type", func(d *projectDoc) string { return d.CourseType }},
	{"course_duration_minutes", func(d *projectDoc) string {
		n, err := d.CourseDurationMinutes.Int64()
		if err != nil || n == 0 {
			return ""
		}
		return strconv.FormatInt(n, 10)
	}},
}

// legacyAssignments is consulted for each role after team_assignments.
var legacyAssignments = []legacySource{
	{"lpo", func(d *projectDoc) string { return d.LPO }},
	{"sme", func(d *projectDoc) string { return d.SME }},
	{"lxo", func(d *projectDoc) string { return d.LXO }},
}

func applyFallbacks(dst map[string]string, doc *projectDoc, table []legacySource) map[string]string {
	for _, src := range table {
		if _, ok := dst[src.key]; ok {
			continue
		}
		v := src.value(doc)
		if v == "" {
			continue
		}
		if dst == nil {
			dst = map[string]string{}
		}
		dst[src.key] = v
	}
	return dst
}

// DecodeProject decodes a project document.
func DecodeProject(raw []byte) (model.Project, error) {
	var doc projectDoc
	if err := decodeObject(KindProject, raw, &doc); err != nil {
		return model.Project{}, err
	}
	if doc.ID == nil || *doc.ID == "" {
		return model.Project{}, malformed(KindProject, "missing id", nil)
	}

	p := model.Project{
		ID:         *doc.ID,
		ExternalID: doc.ProjectID,
		Name:       doc.Name,
		Status:     doc.Status,
		Tags:       stringList(doc.Tags),
		Notes:      doc.Notes,
		CreatedAt:  parseTimestamp(doc.CreatedAt),
		CreatedBy:  doc.CreatedBy,
		ModifiedAt: parseTimestamp(doc.ModifiedAt),
		ModifiedBy: doc.ModifiedBy,
	}
	if p.ExternalID == "" {
		p.ExternalID = doc.CourseID
	}
	if doc.TargetHours != "" {
		if f, err := doc.TargetHours.Float64(); err == nil && f > 0 {
			p.TargetHours = f
		}
	}
	p.CustomFields = applyFallbacks(scalarMap(doc.CustomFields), &doc, legacyCustomFields)
	p.TeamAssignments = applyFallbacks(scalarMap(doc.TeamAssignments), &doc, legacyAssignments)
	p.Modules = decodeModules(doc.Modules)
	return p, nil
}

type moduleDoc struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

// decodeModules keeps well-formed chunking-guide items, sorted by number.
func decodeModules(items []json.RawMessage) []model.TrainingModule {
	var out []model.TrainingModule
	seen := map[int]bool{}
	for _, raw := range items {
		var m moduleDoc
		if err := json.Unmarshal(raw, &m); err != nil || m.Number <= 0 || seen[m.Number] {
			continue
		}
		seen[m.Number] = true
		out = append(out, model.TrainingModule{Number: m.Number, Name: m.Name, Status: m.Status})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out
}

type projectOut struct {
	ID              string            `json:"id"`
	ProjectID       string            `json:"project_id"`
	Name            string            `json:"name"`
	Status          string            `json:"status"`
	TargetHours     float64           `json:"target_hours"`
	TeamAssignments map[string]string `json:"team_assignments"`
	CustomFields    map[string]string `json:"custom_fields"`
	Modules         []moduleDoc       `json:"tms"`
	Tags            []string          `json:"tags"`
	Notes           string            `json:"notes"`
	CreatedAt       string            `json:"created_at"`
	CreatedBy       string            `json:"created_by"`
	ModifiedAt      string            `json:"modified_at"`
	ModifiedBy      string            `json:"modified_by"`
}

// EncodeProject encodes p in the current schema.
func EncodeProject(p model.Project) ([]byte, error) {
	modules := make([]moduleDoc, 0, len(p.Modules))
	for _, m := range p.Modules {
		modules = append(modules, moduleDoc{Number: m.Number, Name: m.Name, Status: m.Status})
	}
	return encode(projectOut{
		ID:              p.ID,
		ProjectID:       p.ExternalID,
		Name:            p.Name,
		Status:          p.Status,
		TargetHours:     p.TargetHours,
		TeamAssignments: nonNilMap(p.TeamAssignments),
		CustomFields:    nonNilMap(p.CustomFields),
		Modules:         modules,
		Tags:            nonNilList(p.Tags),
		Notes:           p.Notes,
		CreatedAt:       formatTimestamp(p.CreatedAt),
		CreatedBy:       p.CreatedBy,
		ModifiedAt:      formatTimestamp(p.ModifiedAt),
		ModifiedBy:      p.ModifiedBy,
	})
}
