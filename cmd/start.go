package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donburnsideAZ/project-tracker/internal/timecalc"
	"github.com/donburnsideAZ/project-tracker/internal/timer"
)

var (
	startWorkType string
	startNotes    string
)

var startCmd = &cobra.Command{
	Use:   "start <project>",
	Short: "Start the timer for a project",
	Long: `start begins timing work on a project. The timer lives on this machine
only; "ptrack stop" turns it into a time entry of whole hours (at least one).
A timer that is already running is stopped and logged first.`,
	Args: cobra.ExactArgs(1),
	RunE: runStart,
}

func init() {
	startCmd.Flags().StringVarP(&startWorkType, "type", "t", "", "Work type (default: the team's first work type)")
	startCmd.Flags().StringVarP(&startNotes, "notes", "n", "", "Optional notes")
}

func timerStore() (*timer.Store, error) {
	path, err := timer.DefaultPath()
	if err != nil {
		return nil, err
	}
	return timer.NewStore(path), nil
}

func runStart(cmd *cobra.Command, args []string) error {
	if err := requireData(); err != nil {
		return err
	}
	p, err := resolveProject(args[0])
	if err != nil {
		return err
	}
	workType, err := pickWorkType(startWorkType)
	if err != nil {
		return err
	}
	store, err := timerStore()
	if err != nil {
		return err
	}

	now := tracker.Now()
	prev, err := store.Active()
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
	}
	if prev != nil {
		elapsed := int64(prev.Elapsed(now).Seconds())
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: auto-stopping active timer for project %q after %s\n",
			prev.ProjectID, timecalc.FormatDuration(elapsed))
		if _, err := bookTimer(*prev); err != nil {
			return fmt.Errorf("previous timer kept running: %w", err)
		}
	}
	if _, err := store.Start(timer.State{ProjectID: p.ID, WorkType: workType, Notes: startNotes, StartedAt: now}); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Started timer for project %q (%s) at %s\n", p.ID, workType, now.Format("15:04:05"))
	return nil
}
