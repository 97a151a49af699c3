package cmd

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/donburnsideAZ/project-tracker/internal/model"
	"github.com/donburnsideAZ/project-tracker/internal/report"
	"github.com/donburnsideAZ/project-tracker/internal/richtext"
)

var (
	newProjectID     string
	newProjectTarget float64
	newProjectStatus string

	moduleStatus string
	moduleName   string
	showLogLines int
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Create, inspect and edit projects",
}

var projectNewCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectNew,
}

var projectShowCmd = &cobra.Command{
	Use:   "show <project>",
	Short: "Show a project's details and time log",
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectShow,
}

var projectSetCmd = &cobra.Command{
	Use:   "set <project> <field> <value>",
	Short: "Change one project field",
	Long: `set changes one field of a project and saves it.

Fields: name, status, target_hours, notes, tags (comma-separated),
project_id (external id), any project field key from team_data.json, or a
team role (assigns an employee id; an empty value clears it).`,
	Args: cobra.ExactArgs(3),
	RunE: runProjectSet,
}

var projectStarCmd = &cobra.Command{
	Use:   "star <project>",
	Short: "Star a project so it is listed first",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return runProjectStar(cmd, args[0], true) },
}

var projectUnstarCmd = &cobra.Command{
	Use:   "unstar <project>",
	Short: "Remove a project's star",
	Args:  cobra.ExactArgs(1),
	RunE:  func(cmd *cobra.Command, args []string) error { return runProjectStar(cmd, args[0], false) },
}

var projectModuleCmd = &cobra.Command{
	Use:   "module",
	Short: "Edit a project's chunking guide",
}

var projectModuleAddCmd = &cobra.Command{
	Use:   "add <project> <name>",
	Short: "Add a module with the next free number",
	Args:  cobra.ExactArgs(2),
	RunE:  runModuleAdd,
}

var projectModuleSetCmd = &cobra.Command{
	Use:   "set <project> <number>",
	Short: "Rename a module or change its status",
	Args:  cobra.ExactArgs(2),
	RunE:  runModuleSet,
}

var projectModuleRmCmd = &cobra.Command{
	Use:   "rm <project> <number>",
	Short: "Remove a module",
	Args:  cobra.ExactArgs(2),
	RunE:  runModuleRm,
}

func init() {
	projectNewCmd.Flags().StringVar(&newProjectID, "id", "", "External project id, used as the file name")
	projectNewCmd.Flags().Float64Var(&newProjectTarget, "target", 0, "Target hours")
	projectNewCmd.Flags().StringVar(&newProjectStatus, "status", "", "Initial status")
	projectShowCmd.Flags().IntVar(&showLogLines, "log", 10, "Number of time log lines to show (0 for all)")

	projectModuleAddCmd.Flags().StringVar(&moduleStatus, "status", "", "Module status")
	projectModuleSetCmd.Flags().StringVar(&moduleStatus, "status", "", "New status")
	projectModuleSetCmd.Flags().StringVar(&moduleName, "name", "", "New name")
	projectModuleCmd.AddCommand(projectModuleAddCmd, projectModuleSetCmd, projectModuleRmCmd)

	projectCmd.AddCommand(projectNewCmd, projectShowCmd, projectSetCmd,
		projectStarCmd, projectUnstarCmd, projectModuleCmd)
}

// checkAllowed accepts value when allowed is empty or contains it
// case-insensitively, returning the canonical spelling.
func checkAllowed(what, value string, allowed []string) (string, error) {
	if value == "" || len(allowed) == 0 {
		return value, nil
	}
	for _, a := range allowed {
		if strings.EqualFold(a, value) {
			return a, nil
		}
	}
	return "", fmt.Errorf("invalid %s %q (want one of: %s)", what, value, strings.Join(allowed, ", "))
}

// roleKey is the team_assignments key for a role label.
func roleKey(role string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(role)), " ", "_")
}

func runProjectNew(cmd *cobra.Command, args []string) error {
	if err := requireData(); err != nil {
		return err
	}
	loadProjects()
	if newProjectID != "" {
		if _, ok := tracker.Projects.Lookup(newProjectID); ok {
			return fmt.Errorf("project %q already exists", newProjectID)
		}
	}
	status, err := checkAllowed("status", newProjectStatus, tracker.TeamData().ProjectStatuses)
	if err != nil {
		return err
	}

	user := tracker.CurrentUser()
	p := tracker.Projects.Create(args[0], newProjectID, user)
	p.TargetHours = newProjectTarget
	if status != "" {
		p.Status = status
	}
	if err := tracker.Projects.Save(&p, user); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created project %s: %s\n", p.FileID(), p.Name)
	return nil
}

func runProjectShow(cmd *cobra.Command, args []string) error {
	if err := requireData(); err != nil {
		return err
	}
	p, err := resolveProject(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	team := tracker.TeamData()

	fmt.Fprintln(out, headingStyle.Render(p.Name))
	fmt.Fprintf(out, "  ID:       %s\n", p.ID)
	if p.ExternalID != "" && p.ExternalID != p.ID {
		fmt.Fprintf(out, "  External: %s\n", p.ExternalID)
	}
	fmt.Fprintf(out, "  Status:   %s\n", p.Status)
	if tracker.Prefs.IsStarred(tracker.CurrentUser(), p.ID) {
		fmt.Fprintln(out, "  Starred:  yes")
	}

	log := tracker.Reports.ProjectLog(p.ID)
	if p.ExternalID != "" && p.ExternalID != p.ID {
		ext := tracker.Reports.ProjectLog(p.ExternalID)
		log.Lines = append(log.Lines, ext.Lines...)
		log.Total += ext.Total
		sort.SliceStable(log.Lines, func(i, j int) bool { return log.Lines[i].Date > log.Lines[j].Date })
	}
	ratio := report.Divide(float64(log.Total), p.TargetHours)
	fmt.Fprintf(out, "  Hours:    %d of %s target (ratio %s)\n", log.Total, formatTarget(p.TargetHours), ratio)

	printFields(out, p, team)
	printKeyed(out, "Team", p.TeamAssignments, func(k string) string { return k })
	if len(p.Tags) > 0 {
		fmt.Fprintf(out, "  Tags:     %s\n", strings.Join(p.Tags, ", "))
	}
	if len(p.Modules) > 0 {
		fmt.Fprintln(out, headingStyle.Render("Chunking guide"))
		for _, m := range p.Modules {
			fmt.Fprintf(out, "  %3d  %-32s %s\n", m.Number, m.Name, dimStyle.Render(m.Status))
		}
	}
	if notes := richtext.PlainText(p.Notes); notes != "" {
		fmt.Fprintln(out, headingStyle.Render("Notes"))
		fmt.Fprintln(out, notes)
	}

	if len(log.Lines) > 0 {
		fmt.Fprintln(out, headingStyle.Render("Time log"))
		lines := log.Lines
		if showLogLines > 0 && len(lines) > showLogLines {
			lines = lines[:showLogLines]
		}
		for _, l := range lines {
			fmt.Fprintf(out, "  %s  %-12s %-14s %3dh  %s\n", l.Date, l.User, l.WorkType, l.Hours, l.Notes)
		}
		if len(lines) < len(log.Lines) {
			fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("  ... %d more", len(log.Lines)-len(lines))))
		}
	}
	return nil
}

func formatTarget(h float64) string {
	if h <= 0 {
		return "no"
	}
	return strconv.FormatFloat(h, 'f', -1, 64) + "h"
}

// printFields lists custom fields in team schema order, then any keys the
// schema no longer defines.
func printFields(w io.Writer, p model.Project, team model.TeamData) {
	if len(p.CustomFields) == 0 {
		return
	}
	fmt.Fprintln(w, headingStyle.Render("Fields"))
	shown := map[string]bool{}
	for _, f := range team.ProjectFields {
		if v := p.CustomField(f.Key); v != "" {
			label := f.Label
			if label == "" {
				label = f.Key
			}
			fmt.Fprintf(w, "  %-20s %s\n", label+":", v)
			shown[f.Key] = true
		}
	}
	rest := map[string]string{}
	for k, v := range p.CustomFields {
		if !shown[k] {
			rest[k] = v
		}
	}
	printKeyed(w, "", rest, func(k string) string { return k })
}

func printKeyed(w io.Writer, title string, m map[string]string, label func(string) string) {
	if len(m) == 0 {
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if title != "" {
		fmt.Fprintln(w, headingStyle.Render(title))
	}
	for _, k := range keys {
		fmt.Fprintf(w, "  %-20s %s\n", label(k)+":", m[k])
	}
}

// applyProjectField sets one field of p from its command-line form.
func applyProjectField(p *model.Project, team model.TeamData, field, value string) error {
	var err error
	switch strings.ToLower(field) {
	case "name":
		if strings.TrimSpace(value) == "" {
			return errors.New("name cannot be empty")
		}
		p.Name = value
	case "status":
		if p.Status, err = checkAllowed("status", value, team.ProjectStatuses); err != nil {
			return err
		}
	case "target", "target_hours":
		t, err := strconv.ParseFloat(value, 64)
		if err != nil || t < 0 {
			return fmt.Errorf("target hours must be a number >= 0, got %q", value)
		}
		p.TargetHours = t
	case "notes":
		p.Notes = value
	case "tags":
		p.Tags = nil
		for _, t := range strings.Split(value, ",") {
			if t = strings.TrimSpace(t); t != "" && !slices.Contains(p.Tags, t) {
				p.Tags = append(p.Tags, t)
			}
		}
	case "project_id", "external_id":
		p.ExternalID = strings.TrimSpace(value)
	default:
		if f, ok := team.ProjectField(field); ok {
			v, err := checkAllowed(f.Label, value, team.FieldValues(f.Key))
			if err != nil {
				return err
			}
			p.SetCustomField(f.Key, v)
			return nil
		}
		for _, role := range team.TeamRoles {
			if roleKey(role) == roleKey(field) {
				if value != "" {
					if _, ok := team.Employee(value); !ok && len(team.Employees) > 0 {
						return fmt.Errorf("employee %q is not on the roster", value)
					}
				}
				p.Assign(roleKey(role), value)
				return nil
			}
		}
		return fmt.Errorf("unknown field %q", field)
	}
	return nil
}

func runProjectSet(cmd *cobra.Command, args []string) error {
	if err := requireData(); err != nil {
		return err
	}
	p, err := resolveProject(args[0])
	if err != nil {
		return err
	}
	if err := applyProjectField(&p, tracker.TeamData(), args[1], args[2]); err != nil {
		return err
	}
	if err := tracker.Projects.Save(&p, tracker.CurrentUser()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated %s: %s\n", p.FileID(), args[1])
	return nil
}

func runProjectStar(cmd *cobra.Command, ref string, starred bool) error {
	if err := requireData(); err != nil {
		return err
	}
	p, err := resolveProject(ref)
	if err != nil {
		return err
	}
	if err := tracker.Prefs.SetStarred(tracker.CurrentUser(), p.ID, starred); err != nil {
		return err
	}
	verb := "Starred"
	if !starred {
		verb = "Unstarred"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, p.FileID())
	return nil
}

func moduleNumber(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("module number must be a positive integer, got %q", s)
	}
	return n, nil
}

func runModuleAdd(cmd *cobra.Command, args []string) error {
	if err := requireData(); err != nil {
		return err
	}
	p, err := resolveProject(args[0])
	if err != nil {
		return err
	}
	status, err := checkAllowed("status", moduleStatus, tracker.TeamData().ProjectStatuses)
	if err != nil {
		return err
	}
	m := p.AddModule(args[1], status)
	if err := tracker.Projects.Save(&p, tracker.CurrentUser()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added module %d to %s: %s\n", m.Number, p.FileID(), m.Name)
	return nil
}

func runModuleSet(cmd *cobra.Command, args []string) error {
	if err := requireData(); err != nil {
		return err
	}
	p, err := resolveProject(args[0])
	if err != nil {
		return err
	}
	n, err := moduleNumber(args[1])
	if err != nil {
		return err
	}
	idx := slices.IndexFunc(p.Modules, func(m model.TrainingModule) bool { return m.Number == n })
	if idx < 0 {
		return fmt.Errorf("project %s has no module %d", p.FileID(), n)
	}
	name, status := p.Modules[idx].Name, p.Modules[idx].Status
	if moduleName != "" {
		name = moduleName
	}
	if moduleStatus != "" {
		if status, err = checkAllowed("status", moduleStatus, tracker.TeamData().ProjectStatuses); err != nil {
			return err
		}
	}
	p.UpdateModule(n, name, status)
	if err := tracker.Projects.Save(&p, tracker.CurrentUser()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated module %d of %s\n", n, p.FileID())
	return nil
}

func runModuleRm(cmd *cobra.Command, args []string) error {
	if err := requireData(); err != nil {
		return err
	}
	p, err := resolveProject(args[0])
	if err != nil {
		return err
	}
	n, err := moduleNumber(args[1])
	if err != nil {
		return err
	}
	if !p.RemoveModule(n) {
		return fmt.Errorf("project %s has no module %d", p.FileID(), n)
	}
	if err := tracker.Projects.Save(&p, tracker.CurrentUser()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed module %d from %s\n", n, p.FileID())
	return nil
}
