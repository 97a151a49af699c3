package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donburnsideAZ/project-tracker/internal/model"
	"github.com/donburnsideAZ/project-tracker/internal/timer"
)

var stopNotes string

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running timer and log its hours",
	Args:  cobra.NoArgs,
	RunE:  runStop,
}

func init() {
	stopCmd.Flags().StringVarP(&stopNotes, "notes", "n", "", "Append notes to the entry")
}

func runStop(cmd *cobra.Command, args []string) error {
	if err := requireData(); err != nil {
		return err
	}
	store, err := timerStore()
	if err != nil {
		return err
	}
	active, err := store.Active()
	if err != nil {
		return err
	}
	if active == nil {
		return errors.New("no active timer to stop")
	}

	st := *active
	if stopNotes != "" {
		if st.Notes != "" {
			st.Notes += "\n"
		}
		st.Notes += stopNotes
	}
	entry, err := bookTimer(st)
	if err != nil {
		return fmt.Errorf("timer kept running: %w", err)
	}
	if _, err := store.Stop(); err != nil && !errors.Is(err, timer.ErrNotRunning) {
		return err
	}

	elapsed := int64(st.Elapsed(tracker.Now()).Seconds())
	fmt.Fprintf(cmd.OutOrStdout(), "Stopped timer for project %q. Elapsed: %s, logged %dh on %s\n",
		st.ProjectID, formatElapsed(elapsed), entry.Hours, entry.Date)
	return nil
}

// bookTimer writes the entry for a stopped timer.
func bookTimer(st timer.State) (model.TimeEntry, error) {
	now := tracker.Now()
	entry := st.Entry(now, now)
	return entry, tracker.Entries.Append(tracker.CurrentUser(), entry)
}

func formatElapsed(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
