package model

import (
	"sort"
	"time"
)

// DefaultStatus is assigned to newly created projects.
const DefaultStatus = "Not Started"

// Project is a unit of work that time is logged against.
type Project struct {
	// ID is the internal identifier. It never changes once assigned.
	ID string
	// ExternalID is the externally assigned identifier. When set it is used
	// as the file name stem instead of ID.
	ExternalID  string
	Name        string
	Status      string
	TargetHours float64

	// TeamAssignments maps a team role key to an employee id.
	TeamAssignments map[string]string
	// CustomFields maps a field key from TeamData.ProjectFields to its value.
	// An empty value means unset; such keys are dropped when decoded, as
	// are empty team assignments.
	CustomFields map[string]string

	Modules []TrainingModule
	Tags    []string
	// Notes is sanitized HTML.
	Notes string

	CreatedAt  time.Time
	CreatedBy  string
	ModifiedAt time.Time
	ModifiedBy string
}

// FileID returns the identifier used for the project's file name.
func (p Project) FileID() string {
	if p.ExternalID != "" {
		return p.ExternalID
	}
	return p.ID
}

// CustomField returns the value for key, or "" when unset.
func (p Project) CustomField(key string) string {
	return p.CustomFields[key]
}

// SetCustomField sets a custom field value. An empty value removes the key.
func (p *Project) SetCustomField(key, value string) {
	if value == "" {
		delete(p.CustomFields, key)
		return
	}
	if p.CustomFields == nil {
		p.CustomFields = map[string]string{}
	}
	p.CustomFields[key] = value
}

// Assign sets the employee for a team role. An empty employee id clears it.
func (p *Project) Assign(role, employeeID string) {
	if employeeID == "" {
		delete(p.TeamAssignments, role)
		return
	}
	if p.TeamAssignments == nil {
		p.TeamAssignments = map[string]string{}
	}
	p.TeamAssignments[role] = employeeID
}

// TrainingModule is one chapter of a project's chunking guide.
type TrainingModule struct {
	Number int
	Name   string
	Status string
}

// NextModuleNumber returns the lowest positive number not yet used by a module.
func (p Project) NextModuleNumber() int {
	used := make(map[int]bool, len(p.Modules))
	for _, m := range p.Modules {
		used[m.Number] = true
	}
	n := 1
	for used[n] {
		n++
	}
	return n
}

// AddModule appends a module with the next free number and returns it.
func (p *Project) AddModule(name, status string) TrainingModule {
	if status == "" {
		status = DefaultStatus
	}
	m := TrainingModule{Number: p.NextModuleNumber(), Name: name, Status: status}
	p.Modules = append(p.Modules, m)
	p.sortModules()
	return m
}

// UpdateModule changes the name and status of module number. It reports
// whether the module exists.
func (p *Project) UpdateModule(number int, name, status string) bool {
	for i := range p.Modules {
		if p.Modules[i].Number == number {
			p.Modules[i].Name = name
			p.Modules[i].Status = status
			return true
		}
	}
	return false
}

// RemoveModule deletes module number and reports whether it existed.
func (p *Project) RemoveModule(number int) bool {
	for i := range p.Modules {
		if p.Modules[i].Number == number {
			p.Modules = append(p.Modules[:i], p.Modules[i+1:]...)
			return true
		}
	}
	return false
}

func (p *Project) sortModules() {
	sort.SliceStable(p.Modules, func(i, j int) bool {
		return p.Modules[i].Number < p.Modules[j].Number
	})
}
