package codec

import (
	"encoding/json"
	"sort"

	"github.com/donburnsideAZ/project-tracker/internal/model"
)

type employeeDoc struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type projectFieldDoc struct {
	Key    string            `json:"key"`
	Label  string            `json:"label"`
	Values []json.RawMessage `json:"values"`
}

type optionalTabDoc struct {
	Enabled bool   `json:"enabled"`
	Type    string `json:"type"`
	Label   string `json:"label"`
}

type teamDataDoc struct {
	WorkTypes       []json.RawMessage `json:"work_types"`
	Employees       []json.RawMessage `json:"employees"`
	ProjectStatuses []json.RawMessage `json:"project_statuses"`
	Tags            []json.RawMessage `json:"tags"`
	ProjectFields   []json.RawMessage `json:"project_fields"`
	TeamRoles       []json.RawMessage `json:"team_roles"`
	OptionalTab     *optionalTabDoc   `json:"optional_tab"`

	// Legacy lookup lists, superseded by project_fields.
	Campuses    []json.RawMessage `json:"campuses"`
	Offers      []json.RawMessage `json:"offers"`
	SubOffers   []json.RawMessage `json:"sub_offers"`
	EffortTypes []json.RawMessage `json:"effort_types"`
	CourseTypes []json.RawMessage `json:"course_types"`
}

// legacyField maps a legacy lookup list onto the project field it became.
type legacyField struct {
	key, label string
	values     func(*teamDataDoc) []json.RawMessage
}

// legacyProjectFields is consulted for each key after project_fields.
var legacyProjectFields = []legacyField{
	{"campus", "Campus", func(d *teamDataDoc) []json.RawMessage { return d.Campuses }},
	{"offer", "Offer", func(d *teamDataDoc) []json.RawMessage { return d.Offers }},
	{"sub_offer", "Sub-Offer", func(d *teamDataDoc) []json.RawMessage { return d.SubOffers }},
	{"effort_type", "Effort Type", func(d *teamDataDoc) []json.RawMessage { return d.EffortTypes }},
	{"course_type", "Course Type", func(d *teamDataDoc) []json.RawMessage { return d.CourseTypes }},
}

// DecodeTeamData decodes the shared team configuration document.
func DecodeTeamData(raw []byte) (model.TeamData, error) {
	var doc teamDataDoc
	if err := decodeObject(KindTeamData, raw, &doc); err != nil {
		return model.TeamData{}, err
	}

	t := model.TeamData{
		WorkTypes:       stringList(doc.WorkTypes),
		ProjectStatuses: stringList(doc.ProjectStatuses),
		Tags:            stringList(doc.Tags),
		TeamRoles:       stringList(doc.TeamRoles),
	}
	seen := map[string]bool{}
	for _, raw := range doc.Employees {
		var e employeeDoc
		if err := json.Unmarshal(raw, &e); err != nil || e.ID == "" || seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		t.Employees = append(t.Employees, model.Employee{ID: e.ID, Name: e.Name, Role: e.Role})
	}
	for _, raw := range doc.ProjectFields {
		var f projectFieldDoc
		if err := json.Unmarshal(raw, &f); err != nil || f.Key == "" {
			continue
		}
		if _, dup := t.ProjectField(f.Key); dup {
			continue
		}
		t.ProjectFields = append(t.ProjectFields, model.ProjectField{
			Key: f.Key, Label: f.Label, Values: stringList(f.Values),
		})
	}
	for _, lf := range legacyProjectFields {
		if _, ok := t.ProjectField(lf.key); ok {
			continue
		}
		values := stringList(lf.values(&doc))
		if len(values) == 0 {
			continue
		}
		t.ProjectFields = append(t.ProjectFields, model.ProjectField{Key: lf.key, Label: lf.label, Values: values})
	}
	if doc.OptionalTab != nil && (doc.OptionalTab.Enabled || doc.OptionalTab.Type != "" || doc.OptionalTab.Label != "") {
		t.OptionalTab = &model.OptionalTab{
			Enabled: doc.OptionalTab.Enabled,
			Type:    doc.OptionalTab.Type,
			Label:   doc.OptionalTab.Label,
		}
	}
	return t, nil
}

type projectFieldOut struct {
	Key    string   `json:"key"`
	Label  string   `json:"label"`
	Values []string `json:"values"`
}

type teamDataOut struct {
	WorkTypes       []string          `json:"work_types"`
	Employees       []employeeDoc     `json:"employees"`
	ProjectStatuses []string          `json:"project_statuses"`
	Tags            []string          `json:"tags"`
	TeamRoles       []string          `json:"team_roles"`
	ProjectFields   []projectFieldOut `json:"project_fields"`
	OptionalTab     *optionalTabDoc   `json:"optional_tab,omitempty"`
}

// EncodeTeamData encodes t in the current schema.
func EncodeTeamData(t model.TeamData) ([]byte, error) {
	out := teamDataOut{
		WorkTypes:       nonNilList(t.WorkTypes),
		Employees:       make([]employeeDoc, 0, len(t.Employees)),
		ProjectStatuses: nonNilList(t.ProjectStatuses),
		Tags:            nonNilList(t.Tags),
		TeamRoles:       nonNilList(t.TeamRoles),
		ProjectFields:   make([]projectFieldOut, 0, len(t.ProjectFields)),
	}
	for _, e := range t.Employees {
		out.Employees = append(out.Employees, employeeDoc{ID: e.ID, Name: e.Name, Role: e.Role})
	}
	for _, f := range t.ProjectFields {
		out.ProjectFields = append(out.ProjectFields, projectFieldOut{Key: f.Key, Label: f.Label, Values: nonNilList(f.Values)})
	}
	if t.OptionalTab != nil {
		out.OptionalTab = &optionalTabDoc{Enabled: t.OptionalTab.Enabled, Type: t.OptionalTab.Type, Label: t.OptionalTab.Label}
	}
	return encode(out)
}

type starredDoc struct {
	Starred []json.RawMessage `json:"starred"`
}

// DecodeStarred decodes a per-user starred file into a set of project ids.
func DecodeStarred(raw []byte) (map[string]bool, error) {
	var doc starredDoc
	if err := decodeObject(KindStarred, raw, &doc); err != nil {
		return nil, err
	}
	set := map[string]bool{}
	for _, id := range stringList(doc.Starred) {
		if id != "" {
			set[id] = true
		}
	}
	return set, nil
}

// EncodeStarred encodes a starred set with ids in sorted order.
func EncodeStarred(set map[string]bool) ([]byte, error) {
	ids := make([]string, 0, len(set))
	for id, on := range set {
		if on {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return encode(struct {
		Starred []string `json:"starred"`
	}{ids})
}
