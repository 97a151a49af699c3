package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/donburnsideAZ/project-tracker/internal/model"
	"github.com/donburnsideAZ/project-tracker/internal/timecalc"
)

var (
	logWorkType string
	logDate     string
	logNotes    string
)

var logCmd = &cobra.Command{
	Use:   "log <project> <hours>",
	Short: "Log whole hours against a project",
	Args:  cobra.ExactArgs(2),
	RunE:  runLog,
}

func init() {
	logCmd.Flags().StringVarP(&logWorkType, "type", "t", "", "Work type (default: the team's first work type)")
	logCmd.Flags().StringVarP(&logDate, "date", "d", "", "Work date YYYY-MM-DD (default: today)")
	logCmd.Flags().StringVarP(&logNotes, "notes", "n", "", "Optional notes")
}

func runLog(cmd *cobra.Command, args []string) error {
	if err := requireData(); err != nil {
		return err
	}
	p, err := resolveProject(args[0])
	if err != nil {
		return err
	}
	hours, err := strconv.Atoi(args[1])
	if err != nil || hours < 1 {
		return fmt.Errorf("hours must be a whole number of at least 1, got %q", args[1])
	}
	workType, err := pickWorkType(logWorkType)
	if err != nil {
		return err
	}
	if logDate != "" {
		if _, err := timecalc.ParseDate(logDate, tracker.Now().Location()); err != nil {
			return err
		}
	}

	user := tracker.CurrentUser()
	entry := model.NewTimeEntry(p.ID, workType, hours, logDate, logNotes, tracker.Now())
	if err := tracker.Entries.Append(user, entry); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Logged %dh %s on %s (%s) for %s\n", hours, workType, p.ID, entry.Date, user)
	fmt.Fprintf(cmd.OutOrStdout(), "Today: %dh\n", tracker.Reports.TodayTotal(user))
	return nil
}
