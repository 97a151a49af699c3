package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donburnsideAZ/project-tracker/internal/timecalc"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running timer and today's hours",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	if err := requireData(); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	now := tracker.Now()
	user := tracker.CurrentUser()

	store, err := timerStore()
	if err != nil {
		return err
	}
	active, err := store.Active()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}

	if active != nil {
		elapsed := int64(active.Elapsed(now).Seconds())
		fmt.Fprintln(out, headingStyle.Render("Running:"))
		fmt.Fprintf(out, "  Project: %s\n", active.ProjectID)
		fmt.Fprintf(out, "  Type: %s\n", active.WorkType)
		fmt.Fprintf(out, "  Since: %s\n", active.StartedAt.Format("15:04"))
		fmt.Fprintf(out, "  Elapsed: %s\n", timecalc.FormatDurationHHMMSS(elapsed))
	} else {
		fmt.Fprintln(out, "No active timer.")
	}

	fmt.Fprintf(out, "Today (%s): %dh logged by %s.\n", tracker.Today(), tracker.Reports.TodayTotal(user), user)
	return nil
}
