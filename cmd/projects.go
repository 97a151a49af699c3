package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/donburnsideAZ/project-tracker/internal/model"
)

var (
	projectsHours bool
	projectsAll   bool
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects, starred first, then by your latest activity",
	Args:  cobra.NoArgs,
	RunE:  runProjects,
}

func init() {
	projectsCmd.Flags().BoolVar(&projectsHours, "hours", false, "Show total logged hours per project")
	projectsCmd.Flags().BoolVar(&projectsAll, "all", false, "Order by id instead of recency, ignoring stars")
}

func runProjects(cmd *cobra.Command, args []string) error {
	if err := requireData(); err != nil {
		return err
	}
	loadProjects()
	out := cmd.OutOrStdout()

	if projectsAll {
		printProjects(out, tracker.Projects.List())
		return nil
	}

	user := tracker.CurrentUser()
	stars, others := tracker.Projects.ListForHome(user, tracker.Prefs.Starred(user))
	if len(stars) == 0 && len(others) == 0 {
		fmt.Fprintln(out, "No projects yet. Create one with \"ptrack project new <name>\".")
		return nil
	}
	if len(stars) > 0 {
		fmt.Fprintln(out, headingStyle.Render("★ Starred"))
		printProjects(out, stars)
		fmt.Fprintln(out)
	}
	if len(others) > 0 {
		fmt.Fprintln(out, headingStyle.Render("Projects"))
		printProjects(out, others)
	}
	return nil
}

func printProjects(w io.Writer, projects []model.Project) {
	for _, p := range projects {
		line := fmt.Sprintf("%-24s %-32s %s", p.FileID(), p.Name, dimStyle.Render(p.Status))
		if projectsHours {
			line += fmt.Sprintf("  %dh", projectHours(p))
		}
		fmt.Fprintln(w, line)
	}
}

// projectHours sums the hours logged under either of the project's ids.
func projectHours(p model.Project) int {
	total := tracker.Reports.ProjectTotalHours(p.ID)
	if p.ExternalID != "" && p.ExternalID != p.ID {
		total += tracker.Reports.ProjectTotalHours(p.ExternalID)
	}
	return total
}
