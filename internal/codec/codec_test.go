package codec_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/donburnsideAZ/project-tracker/internal/codec"
	"github.com/donburnsideAZ/project-tracker/internal/model"
)

func TestProjectRoundTrip(t *testing.T) {
	ts := time.Date(2026, 2, 27, 8, 32, 10, 0, time.UTC)
	p := model.Project{
		ID:              "PRJ-20260227083210-AB12",
		ExternalID:      "ECM-101",
		Name:            "Onboarding course",
		Status:          "In Progress",
		TargetHours:     40,
		TeamAssignments: map[string]string{"Owner": "alice"},
		CustomFields:    map[string]string{"priority": "High"},
		Modules:         []model.TrainingModule{{Number: 1, Name: "Intro", Status: "Complete"}},
		Tags:            []string{"pilot"},
		Notes:           "<p>kickoff</p>",
		CreatedAt:       ts,
		CreatedBy:       "alice",
		ModifiedAt:      ts.Add(time.Hour),
		ModifiedBy:      "bob",
	}

	data, err := codec.EncodeProject(p)
	if err != nil {
		t.Fatalf("EncodeProject: %v", err)
	}
	got, err := codec.DecodeProject(data)
	if err != nil {
		t.Fatalf("DecodeProject: %v", err)
	}
	if !reflect.DeepEqual(got, p) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, p)
	}

	again, err := codec.EncodeProject(got)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, again) {
		t.Errorf("re-encoding changed bytes:\n%s\n%s", data, again)
	}
}

func TestEncodeProjectEmptyCollections(t *testing.T) {
	data, err := codec.EncodeProject(model.Project{ID: "p1"})
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	for _, want := range []string{`"team_assignments": {}`, `"custom_fields": {}`, `"tms": []`, `"tags": []`} {
		if !strings.Contains(s, want) {
			t.Errorf("encoded project missing %s:\n%s", want, s)
		}
	}
	if !strings.HasSuffix(s, "}\n") {
		t.Error("encoded project should end with a newline")
	}
}

func TestDecodeLegacyProject(t *testing.T) {
	raw := []byte(`{
		"id": "p1",
		"name": "Legacy course",
		"course_id": "C-9",
		"campus": "North",
		"effort_type": "Build",
		"course_duration_minutes": 90,
		"sme": "carol",
		"lpo": "dave",
		"custom_fields": {"campus": "South"},
		"team_assignments": {"lpo": "erin"}
	}`)
	p, err := codec.DecodeProject(raw)
	if err != nil {
		t.Fatalf("DecodeProject: %v", err)
	}
	if p.ExternalID != "C-9" {
		t.Errorf("ExternalID = %q, want %q", p.ExternalID, "C-9")
	}
	wantFields := map[string]string{"campus": "South", "effort_type": "Build", "course_duration_minutes": "90"}
	if !reflect.DeepEqual(p.CustomFields, wantFields) {
		t.Errorf("CustomFields = %v, want %v", p.CustomFields, wantFields)
	}
	wantAssign := map[string]string{"lpo": "erin", "sme": "carol"}
	if !reflect.DeepEqual(p.TeamAssignments, wantAssign) {
		t.Errorf("TeamAssignments = %v, want %v", p.TeamAssignments, wantAssign)
	}

	data, err := codec.EncodeProject(p)
	if err != nil {
		t.Fatal(err)
	}
	var top map[string]any
	if err := json.Unmarshal(data, &top); err != nil {
		t.Fatal(err)
	}
	for _, legacy := range []string{"course_id", "campus", "effort_type", "course_duration_minutes", "sme", "lpo"} {
		if _, ok := top[legacy]; ok {
			t.Errorf("legacy key %q written back:\n%s", legacy, data)
		}
	}
}

func TestDecodeProjectPrefersCurrentExternalID(t *testing.T) {
	p, err := codec.DecodeProject([]byte(`{"id":"p1","project_id":"NEW","course_id":"OLD"}`))
	if err != nil {
		t.Fatal(err)
	}
	if p.ExternalID != "NEW" {
		t.Errorf("ExternalID = %q, want NEW", p.ExternalID)
	}
}

func TestDecodeProjectValueShapes(t *testing.T) {
	raw := []byte(`{
		"id": "p1",
		"custom_fields": {"n": 3, "b": true, "s": "x", "obj": {"a": 1}, "nil": null, "empty": ""},
		"tms": [{"number": 2, "name": "B"}, "junk", {"number": 0, "name": "zero"}, {"number": 1, "name": "A"}, {"number": 2, "name": "dup"}],
		"tags": ["a", 5, "b"],
		"target_hours": -3
	}`)
	p, err := codec.DecodeProject(raw)
	if err != nil {
		t.Fatal(err)
	}
	wantFields := map[string]string{"n": "3", "b": "true", "s": "x"}
	if !reflect.DeepEqual(p.CustomFields, wantFields) {
		t.Errorf("CustomFields = %v, want %v", p.CustomFields, wantFields)
	}
	wantModules := []model.TrainingModule{{Number: 1, Name: "A"}, {Number: 2, Name: "B"}}
	if !reflect.DeepEqual(p.Modules, wantModules) {
		t.Errorf("Modules = %+v, want %+v", p.Modules, wantModules)
	}
	if !reflect.DeepEqual(p.Tags, []string{"a", "b"}) {
		t.Errorf("Tags = %v", p.Tags)
	}
	if p.TargetHours != 0 {
		t.Errorf("TargetHours = %v, want 0", p.TargetHours)
	}
}

func TestDecodeNaiveTimestamp(t *testing.T) {
	p, err := codec.DecodeProject([]byte(`{"id":"p1","created_at":"2024-03-01T09:15:00.123456","modified_at":"garbage"}`))
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, 3, 1, 9, 15, 0, 123456000, time.Local)
	if !p.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", p.CreatedAt, want)
	}
	if !p.ModifiedAt.IsZero() {
		t.Errorf("ModifiedAt = %v, want zero", p.ModifiedAt)
	}
}

func TestMalformedRecords(t *testing.T) {
	tests := []struct {
		name   string
		decode func([]byte) error
		raw    string
	}{
		{"project not object", func(b []byte) error { _, err := codec.DecodeProject(b); return err }, `[1,2]`},
		{"project bad json", func(b []byte) error { _, err := codec.DecodeProject(b); return err }, `{"id":`},
		{"project missing id", func(b []byte) error { _, err := codec.DecodeProject(b); return err }, `{"name":"x"}`},
		{"entry missing id", func(b []byte) error { _, err := codec.DecodeTimeEntry(b); return err }, `{"hours":2}`},
		{"daily missing user", func(b []byte) error { _, err := codec.DecodeDailyFile(b); return err }, `{"date":"2024-01-01","entries":[]}`},
		{"daily missing date", func(b []byte) error { _, err := codec.DecodeDailyFile(b); return err }, `{"user_id":"alice","entries":[]}`},
		{"daily bad entry", func(b []byte) error { _, err := codec.DecodeDailyFile(b); return err }, `{"user_id":"alice","date":"2024-01-01","entries":[{"hours":1}]}`},
		{"team empty", func(b []byte) error { _, err := codec.DecodeTeamData(b); return err }, ``},
		{"starred string", func(b []byte) error { _, err := codec.DecodeStarred(b); return err }, `"p1"`},
	}
	for _, tt := range tests {
		err := tt.decode([]byte(tt.raw))
		if !errors.Is(err, codec.ErrMalformedRecord) {
			t.Errorf("%s: err = %v, want ErrMalformedRecord", tt.name, err)
		}
		var me *codec.MalformedError
		if !errors.As(err, &me) {
			t.Errorf("%s: err is not a *MalformedError", tt.name)
		}
	}
}

func TestDailyFileRoundTrip(t *testing.T) {
	ts := time.Date(2024, 1, 10, 17, 0, 0, 0, time.UTC)
	f := model.DailyTimeFile{
		UserID: "alice",
		Date:   "2024-01-10",
		Entries: []model.TimeEntry{
			{ID: "e1", ProjectID: "P", WorkType: "Creation", Hours: 3, Date: "2024-01-10", Notes: "a & b", CreatedAt: ts},
			{ID: "e2", ProjectID: "Q", WorkType: "Review", Hours: 1, Date: "2024-01-10", CreatedAt: ts},
		},
	}
	data, err := codec.EncodeDailyFile(f)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"a & b"`)) {
		t.Errorf("notes should not be HTML-escaped:\n%s", data)
	}
	got, err := codec.DecodeDailyFile(data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, f) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, f)
	}
}

func TestDecodeLegacyTimeEntry(t *testing.T) {
	tests := []struct {
		raw       string
		wantHours int
		wantDate  string
	}{
		{`{"id":"e","duration_minutes":150,"start_time":"2024-01-10T09:00:00"}`, 2, "2024-01-10"},
		{`{"id":"e","duration_minutes":59,"start_time":"2024-01-10T09:00:00"}`, 0, "2024-01-10"},
		{`{"id":"e","hours":4,"duration_minutes":600,"date":"2024-02-01","start_time":"2024-01-10"}`, 4, "2024-02-01"},
		{`{"id":"e","hours":2.0}`, 2, ""},
	}
	for _, tt := range tests {
		e, err := codec.DecodeTimeEntry([]byte(tt.raw))
		if err != nil {
			t.Fatalf("DecodeTimeEntry(%s): %v", tt.raw, err)
		}
		if e.Hours != tt.wantHours {
			t.Errorf("DecodeTimeEntry(%s) hours = %d, want %d", tt.raw, e.Hours, tt.wantHours)
		}
		if e.Date != tt.wantDate {
			t.Errorf("DecodeTimeEntry(%s) date = %q, want %q", tt.raw, e.Date, tt.wantDate)
		}
	}
}

func TestDecodeNegativeHours(t *testing.T) {
	for _, raw := range []string{
		`{"id":"e","hours":-4}`,
		`{"id":"e","duration_minutes":-120}`,
	} {
		e, err := codec.DecodeTimeEntry([]byte(raw))
		if err != nil {
			t.Fatalf("DecodeTimeEntry(%s): %v", raw, err)
		}
		if e.Hours != 0 {
			t.Errorf("DecodeTimeEntry(%s) hours = %d, want 0", raw, e.Hours)
		}
	}

	f, err := codec.DecodeDailyFile([]byte(`{"user_id":"alice","date":"2024-01-01","entries":[{"id":"x","project_id":"P","hours":-4}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if f.TotalHours() != 0 {
		t.Errorf("TotalHours = %d, want 0", f.TotalHours())
	}
}

func TestDecodeDailyFileLenient(t *testing.T) {
	raw := []byte(`{"user_id":"alice","date":"2024-01-01","entries":[
		{"id":"a","project_id":"P","hours":2},
		{"project_id":"P","hours":5},
		[1],
		{"id":"b","project_id":"P","hours":3}
	]}`)
	f, skipped, err := codec.DecodeDailyFileLenient(raw)
	if err != nil {
		t.Fatalf("DecodeDailyFileLenient: %v", err)
	}
	if len(f.Entries) != 2 || f.TotalHours() != 5 {
		t.Errorf("entries = %+v, want a and b", f.Entries)
	}
	if len(skipped) != 2 {
		t.Fatalf("skipped = %v, want 2", skipped)
	}
	for _, err := range skipped {
		if !errors.Is(err, codec.ErrMalformedRecord) {
			t.Errorf("skipped err = %v, want ErrMalformedRecord", err)
		}
	}
	if !strings.Contains(skipped[0].Error(), "entry 1") {
		t.Errorf("skipped[0] = %v, want entry index", skipped[0])
	}

	if _, err := codec.DecodeDailyFile(raw); !errors.Is(err, codec.ErrMalformedRecord) {
		t.Errorf("strict decode err = %v, want ErrMalformedRecord", err)
	}
	if _, _, err := codec.DecodeDailyFileLenient([]byte(`{"date":"2024-01-01","entries":[]}`)); !errors.Is(err, codec.ErrMalformedRecord) {
		t.Errorf("missing user_id: err = %v", err)
	}
}

func TestTeamDataRoundTrip(t *testing.T) {
	td := model.DefaultTeamData()
	td.Employees = []model.Employee{{ID: "alice", Name: "Alice", Role: "SME"}}
	td.OptionalTab = &model.OptionalTab{Enabled: true, Type: "notes", Label: "Extra"}

	data, err := codec.EncodeTeamData(td)
	if err != nil {
		t.Fatal(err)
	}
	got, err := codec.DecodeTeamData(data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.WorkTypes, td.WorkTypes) {
		t.Errorf("WorkTypes = %v, want %v", got.WorkTypes, td.WorkTypes)
	}
	if !reflect.DeepEqual(got.Employees, td.Employees) {
		t.Errorf("Employees = %v, want %v", got.Employees, td.Employees)
	}
	if got.FieldValues("priority")[2] != "High" {
		t.Errorf("priority values = %v", got.FieldValues("priority"))
	}
	if got.OptionalTab == nil || *got.OptionalTab != *td.OptionalTab {
		t.Errorf("OptionalTab = %+v, want %+v", got.OptionalTab, td.OptionalTab)
	}
	again, err := codec.EncodeTeamData(got)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, again) {
		t.Errorf("re-encoding changed bytes:\n%s\n%s", data, again)
	}
}

func TestDecodeLegacyTeamData(t *testing.T) {
	raw := []byte(`{
		"work_types": ["Planning"],
		"employees": [{"id": "alice", "name": "Alice"}, {"name": "no id"}, {"id": "alice", "name": "dup"}],
		"project_fields": [{"key": "campus", "label": "Campus", "values": ["Main"]}],
		"campuses": ["North", "South"],
		"offers": ["Degree"],
		"sub_offers": [],
		"optional_tab": {}
	}`)
	td, err := codec.DecodeTeamData(raw)
	if err != nil {
		t.Fatal(err)
	}
	if len(td.Employees) != 1 || td.Employees[0].Name != "Alice" {
		t.Errorf("Employees = %+v", td.Employees)
	}
	if got := td.FieldValues("campus"); !reflect.DeepEqual(got, []string{"Main"}) {
		t.Errorf("campus = %v, want [Main]", got)
	}
	if got := td.FieldValues("offer"); !reflect.DeepEqual(got, []string{"Degree"}) {
		t.Errorf("offer = %v, want [Degree]", got)
	}
	if _, ok := td.ProjectField("sub_offer"); ok {
		t.Error("empty legacy list should not become a project field")
	}
	if td.OptionalTab != nil {
		t.Errorf("OptionalTab = %+v, want nil", td.OptionalTab)
	}
}

func TestStarred(t *testing.T) {
	data, err := codec.EncodeStarred(map[string]bool{"b": true, "a": true, "c": false})
	if err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"starred\": [\n    \"a\",\n    \"b\"\n  ]\n}\n"
	if string(data) != want {
		t.Errorf("EncodeStarred = %q, want %q", data, want)
	}
	set, err := codec.DecodeStarred(data)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(set, map[string]bool{"a": true, "b": true}) {
		t.Errorf("DecodeStarred = %v", set)
	}
}
