package model

// Employee is a team member who can log time. ID equals the OS account name.
type Employee struct {
	ID   string
	Name string
	Role string
}

// ProjectField defines one custom project field and its allowed values.
type ProjectField struct {
	Key    string
	Label  string
	Values []string
}

// OptionalTab configures the single extra project tab.
type OptionalTab struct {
	Enabled bool
	Type    string
	Label   string
}

// TeamData is the shared configuration document for the whole team.
type TeamData struct {
	WorkTypes       []string
	Employees       []Employee
	ProjectStatuses []string
	Tags            []string
	ProjectFields   []ProjectField
	TeamRoles       []string
	OptionalTab     *OptionalTab
}

// ProjectField returns the field definition for key.
func (t TeamData) ProjectField(key string) (ProjectField, bool) {
	for _, f := range t.ProjectFields {
		if f.Key == key {
			return f, true
		}
	}
	return ProjectField{}, false
}

// FieldValues returns the allowed values of field key, or nil.
func (t TeamData) FieldValues(key string) []string {
	f, ok := t.ProjectField(key)
	if !ok {
		return nil
	}
	return f.Values
}

// Employee returns the roster entry with the given id.
func (t TeamData) Employee(id string) (Employee, bool) {
	for _, e := range t.Employees {
		if e.ID == id {
			return e, true
		}
	}
	return Employee{}, false
}

// DefaultTeamData is the minimal schema written to a fresh data root.
func DefaultTeamData() TeamData {
	return TeamData{
		WorkTypes: []string{
			"Planning", "Creation", "Review", "Production",
			"Admin", "Meetings", "Miscellaneous",
		},
		Employees:       []Employee{},
		ProjectStatuses: []string{"Not Started", "In Progress", "Complete"},
		Tags:            []string{},
		TeamRoles:       []string{"Owner", "Contributor", "Reviewer"},
		ProjectFields: []ProjectField{
			{Key: "category", Label: "Category", Values: []string{}},
			{Key: "priority", Label: "Priority", Values: []string{"Low", "Medium", "High"}},
		},
	}
}
