package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/donburnsideAZ/project-tracker/internal/msgraph"
	"github.com/donburnsideAZ/project-tracker/internal/timecalc"
)

var (
	outlookSyncFrom     string
	outlookSyncTo       string
	outlookSyncDate     string
	outlookSyncDryRun   bool
	outlookSyncProject  string
	outlookSyncWorkType string
	outlookSyncTZ       string
)

var outlookCmd = &cobra.Command{
	Use:   "outlook",
	Short: "Outlook calendar integration",
}

var outlookSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import Outlook calendar events as time entries",
	Long: `sync reads your Outlook calendar through Microsoft Graph and logs each
meeting as a time entry of whole hours (at least one) on the meeting's day.
Cancelled, all-day, private and "free" events are ignored. Events imported
before are skipped, so running sync again is safe.`,
	Args: cobra.NoArgs,
	RunE: runOutlookSync,
}

func init() {
	outlookSyncCmd.Flags().StringVar(&outlookSyncFrom, "from", "", "Start date (YYYY-MM-DD); required when --to is specified")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTo, "to", "", "End date (YYYY-MM-DD); defaults to today")
	outlookSyncCmd.Flags().StringVar(&outlookSyncDate, "date", "", "Sync a specific date (YYYY-MM-DD)")
	outlookSyncCmd.Flags().BoolVar(&outlookSyncDryRun, "dry-run", false, "Print planned imports without writing")
	outlookSyncCmd.Flags().StringVar(&outlookSyncProject, "project", "", "Project for imported events (default: outlook.default_project)")
	outlookSyncCmd.Flags().StringVar(&outlookSyncWorkType, "type", "", "Work type for imported events (default: outlook.default_work_type)")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTZ, "timezone", "", "IANA timezone for event times (default: outlook.timezone)")
	outlookCmd.AddCommand(outlookSyncCmd)
}

// syncWindow returns the [from, to) range of the sync flags, whole days.
func syncWindow(now time.Time) (time.Time, time.Time, error) {
	loc := now.Location()
	today := timecalc.StartOfDay(now)
	switch {
	case outlookSyncDate != "":
		d, err := timecalc.ParseDate(outlookSyncDate, loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return d, d.AddDate(0, 0, 1), nil

	case outlookSyncFrom != "" || outlookSyncTo != "":
		if outlookSyncFrom == "" {
			return time.Time{}, time.Time{}, errors.New("--from is required when --to is specified")
		}
		from, err := timecalc.ParseDate(outlookSyncFrom, loc)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to := today
		if outlookSyncTo != "" {
			if to, err = timecalc.ParseDate(outlookSyncTo, loc); err != nil {
				return time.Time{}, time.Time{}, err
			}
		}
		return from, to.AddDate(0, 0, 1), nil
	}
	return today, today.AddDate(0, 0, 1), nil
}

func runOutlookSync(cmd *cobra.Command, args []string) error {
	if err := requireData(); err != nil {
		return err
	}
	cfg := tracker.Config.Outlook
	now := tracker.Now()
	out := cmd.OutOrStdout()

	from, to, err := syncWindow(now)
	if err != nil {
		return err
	}

	projectRef := outlookSyncProject
	if projectRef == "" {
		projectRef = cfg.DefaultProject
	}
	if projectRef == "" {
		return msgraph.ErrNoProject
	}
	p, err := resolveProject(projectRef)
	if err != nil {
		return err
	}
	wt := outlookSyncWorkType
	if wt == "" {
		wt = cfg.DefaultWorkType
	}
	workType, err := pickWorkType(wt)
	if err != nil {
		return err
	}
	timezone := outlookSyncTZ
	if timezone == "" {
		timezone = cfg.Timezone
	}

	dryTag := ""
	if outlookSyncDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Fprintf(out, "Syncing Outlook events (%s → %s) into %s%s...\n",
		timecalc.FormatDate(from), timecalc.FormatDate(to.AddDate(0, 0, -1)), p.ID, dryTag)
	fmt.Fprintln(out)

	ctx := cmd.Context()
	auth, err := msgraph.NewAuth(cfg, logger)
	if err != nil {
		return err
	}
	auth.Prompt = out
	client, err := auth.Client(ctx)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	events, err := client.GetCalendarView(ctx, from, to, timezone)
	if err != nil {
		return fmt.Errorf("failed to fetch calendar events: %w", err)
	}

	result, err := msgraph.SyncEvents(tracker.Entries, events, msgraph.SyncOptions{
		User:     tracker.CurrentUser(),
		Project:  p.ID,
		WorkType: workType,
		Timezone: timezone,
		DryRun:   outlookSyncDryRun,
		Now:      now,
		Out:      out,
	})
	if err != nil {
		return fmt.Errorf("sync error: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, headingStyle.Render("Summary:"))
	fmt.Fprintf(out, "  %d imported\n", result.Imported)
	fmt.Fprintf(out, "  %d skipped (already imported)\n", result.Skipped)
	fmt.Fprintf(out, "  %d ignored (cancelled, all-day, private or free)\n", result.Filtered)
	if result.Errors > 0 {
		return fmt.Errorf("%d event(s) could not be imported", result.Errors)
	}
	return nil
}
