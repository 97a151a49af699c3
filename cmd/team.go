package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/donburnsideAZ/project-tracker/internal/model"
	"github.com/donburnsideAZ/project-tracker/internal/teamimport"
)

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "Show and import the shared team configuration",
}

var teamShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the team's lists, fields and roster",
	Args:  cobra.NoArgs,
	RunE:  runTeamShow,
}

var teamImportListCmd = &cobra.Command{
	Use:   "import-list <list> <file>",
	Short: "Add items from a JSON, CSV or YAML file to a team list",
	Long: `import-list merges items into one of the team lists: work_types,
project_statuses, tags, team_roles, or the values of a project field given by
its key. Items already present are skipped.

JSON and YAML files hold an array of strings, or of objects with a name,
value, label or title key. CSV files are read from the first column; a
header row is skipped.`,
	Args: cobra.ExactArgs(2),
	RunE: runTeamImportList,
}

var teamImportEmployeesCmd = &cobra.Command{
	Use:   "import-employees <file>",
	Short: "Add employees from a JSON, CSV or YAML file to the roster",
	Long: `import-employees merges employees into the roster. Each record needs an
id (or username); name defaults to the id and role to SME. Employees whose
id is already on the roster are skipped. CSV files need a header row.`,
	Args: cobra.ExactArgs(1),
	RunE: runTeamImportEmployees,
}

func init() {
	teamCmd.AddCommand(teamShowCmd, teamImportListCmd, teamImportEmployeesCmd)
}

func runTeamShow(cmd *cobra.Command, args []string) error {
	if err := requireData(); err != nil {
		return err
	}
	team, ok := tracker.Team.Load()
	out := cmd.OutOrStdout()
	if !ok {
		fmt.Fprintln(out, dimStyle.Render("team_data.json missing or unreadable; showing defaults"))
		team = model.DefaultTeamData()
	}

	printList := func(title string, items []string) {
		fmt.Fprintf(out, "%s %s\n", headingStyle.Render(title+":"), strings.Join(items, ", "))
	}
	printList("Work types", team.WorkTypes)
	printList("Statuses", team.ProjectStatuses)
	printList("Tags", team.Tags)
	printList("Roles", team.TeamRoles)
	for _, f := range team.ProjectFields {
		printList(fmt.Sprintf("%s (%s)", f.Label, f.Key), f.Values)
	}
	if team.OptionalTab != nil && team.OptionalTab.Enabled {
		fmt.Fprintf(out, "%s %s (%s)\n", headingStyle.Render("Optional tab:"), team.OptionalTab.Label, team.OptionalTab.Type)
	}

	fmt.Fprintln(out, headingStyle.Render("Employees:"))
	if len(team.Employees) == 0 {
		fmt.Fprintln(out, dimStyle.Render("  (none)"))
	}
	for _, e := range team.Employees {
		fmt.Fprintf(out, "  %-16s %-28s %s\n", e.ID, e.Name, e.Role)
	}
	return nil
}

// openImport opens path and detects its format from the extension.
func openImport(path string) (*os.File, teamimport.Format, error) {
	format, err := teamimport.FormatFromPath(path)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening import file: %w", err)
	}
	return f, format, nil
}

func runTeamImportList(cmd *cobra.Command, args []string) error {
	if err := requireData(); err != nil {
		return err
	}
	f, format, err := openImport(args[1])
	if err != nil {
		return err
	}
	defer f.Close()

	var res teamimport.Result
	err = tracker.Team.Update(func(t *model.TeamData) error {
		list, singular, err := teamimport.ListTarget(t, args[0])
		if err != nil {
			return err
		}
		items, err := teamimport.ParseList(f, format, singular)
		if err != nil {
			return err
		}
		*list, res = teamimport.MergeList(*list, items)
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d item(s) into %s, skipped %d\n", res.Added, args[0], res.Skipped)
	return nil
}

func runTeamImportEmployees(cmd *cobra.Command, args []string) error {
	if err := requireData(); err != nil {
		return err
	}
	f, format, err := openImport(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	employees, err := teamimport.ParseEmployees(f, format)
	if err != nil {
		return err
	}
	var res teamimport.Result
	err = tracker.Team.Update(func(t *model.TeamData) error {
		t.Employees, res = teamimport.MergeEmployees(t.Employees, employees)
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d employee(s), skipped %d\n", res.Added, res.Skipped)
	return nil
}
