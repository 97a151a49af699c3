package cmd

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/donburnsideAZ/project-tracker/internal/report"
	"github.com/donburnsideAZ/project-tracker/internal/timecalc"
)

// rangeFlags selects the reporting window and user of report and export.
type rangeFlags struct {
	period string
	from   string
	to     string
	user   string
	mine   bool
	format string
}

func (r *rangeFlags) register(c *cobra.Command, defaultFormat, formats string) {
	c.Flags().StringVarP(&r.period, "period", "p", "This Week", "Preset: "+strings.Join(timecalc.Periods, ", "))
	c.Flags().StringVar(&r.from, "from", "", "Start date YYYY-MM-DD (overrides --period)")
	c.Flags().StringVar(&r.to, "to", "", "End date YYYY-MM-DD (default: today)")
	c.Flags().StringVar(&r.user, "for", "", "Only this user's entries")
	c.Flags().BoolVar(&r.mine, "mine", false, "Only your own entries")
	c.Flags().StringVarP(&r.format, "format", "f", defaultFormat, "Output format: "+formats)
}

// filter resolves the flags into a report filter relative to now.
func (r *rangeFlags) filter(now time.Time) (report.Filter, error) {
	var f report.Filter
	loc := now.Location()
	switch {
	case r.from != "" || r.to != "":
		if r.from == "" {
			return f, errors.New("--from is required when --to is specified")
		}
		from, err := timecalc.ParseDate(r.from, loc)
		if err != nil {
			return f, err
		}
		to := timecalc.StartOfDay(now)
		if r.to != "" {
			if to, err = timecalc.ParseDate(r.to, loc); err != nil {
				return f, err
			}
		}
		f.From, f.To = from, to
	default:
		from, to, err := timecalc.PeriodRange(r.period, now)
		if err != nil {
			return f, err
		}
		f.From, f.To = from, to
	}

	f.User = r.user
	if r.mine {
		f.User = tracker.CurrentUser()
	}
	return f, nil
}

var reportFlags rangeFlags

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize hours by project and work type",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportFlags.register(reportCmd, "md", "md, csv, json")
}

func runReport(cmd *cobra.Command, args []string) error {
	if err := requireData(); err != nil {
		return err
	}
	f, err := reportFlags.filter(tracker.Now())
	if err != nil {
		return err
	}
	loadProjects()
	res := tracker.Reports.Report(f)

	out := cmd.OutOrStdout()
	switch reportFlags.format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "csv":
		return writeReportCSV(out, res)
	case "md", "":
		printReport(out, res)
		return nil
	}
	return fmt.Errorf("unknown format %q", reportFlags.format)
}

func writeReportCSV(w io.Writer, res report.Result) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"project_id", "name", "hours", "target_hours", "ratio"})
	for _, p := range res.ByProject {
		ratio := ""
		if p.Ratio.Valid {
			ratio = strconv.FormatFloat(p.Ratio.Value, 'f', 4, 64)
		}
		_ = cw.Write([]string{
			p.ProjectID,
			p.Name,
			strconv.Itoa(p.Hours),
			strconv.FormatFloat(p.Target, 'f', -1, 64),
			ratio,
		})
	}
	cw.Flush()
	return cw.Error()
}

func printReport(w io.Writer, res report.Result) {
	title := fmt.Sprintf("Report %s – %s", res.From, res.To)
	if week := weekLabel(res.From, res.To); week != "" {
		title += " · " + week
	}
	if res.User != "" {
		title += " (" + res.User + ")"
	}
	fmt.Fprintln(w, headingStyle.Render(title))
	fmt.Fprintln(w, "--------------------------------")
	fmt.Fprintf(w, "%-24s%dh\n", "Total", res.TotalHours)
	fmt.Fprintf(w, "%-24s%d\n", "Entries", res.EntryCount)
	fmt.Fprintf(w, "%-24s%d\n", "Projects", res.ProjectCount)
	fmt.Fprintf(w, "%-24s%s\n", "Avg hours/day", res.AvgPerDay)
	fmt.Fprintf(w, "%-24s%s\n", "Avg hours/target", res.AvgRatio)

	if len(res.ByProject) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headingStyle.Render("By project"))
		for _, p := range res.ByProject {
			name := p.Name
			if name == "" {
				name = dimStyle.Render("(unknown)")
			}
			fmt.Fprintf(w, "%-24s%-32s%5dh  %s\n", p.ProjectID, name, p.Hours, p.Ratio)
		}
	}
	if len(res.ByWorkType) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headingStyle.Render("By work type"))
		for _, t := range res.ByWorkType {
			fmt.Fprintf(w, "%-24s%5dh  %s\n", t.WorkType, t.Hours, t.Percent.Percent())
		}
	}
}

// weekLabel returns the ISO week label when from and to fall in one week.
func weekLabel(from, to string) string {
	f, err := timecalc.ParseDate(from, time.Local)
	if err != nil {
		return ""
	}
	t, err := timecalc.ParseDate(to, time.Local)
	if err != nil || t.Before(f) {
		return ""
	}
	if timecalc.ISOWeekLabel(f) != timecalc.ISOWeekLabel(t) {
		return ""
	}
	return timecalc.ISOWeekLabel(f)
}
