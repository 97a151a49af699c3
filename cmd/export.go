package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/donburnsideAZ/project-tracker/internal/report"
	"github.com/donburnsideAZ/project-tracker/internal/richtext"
)

var exportFlags rangeFlags

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export time entries to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportFlags.register(exportCmd, "csv", "csv, json")
}

func runExport(cmd *cobra.Command, args []string) error {
	if err := requireData(); err != nil {
		return err
	}
	f, err := exportFlags.filter(tracker.Now())
	if err != nil {
		return err
	}
	loadProjects()
	rows := tracker.Reports.Report(f).Rows

	out := cmd.OutOrStdout()
	switch exportFlags.format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "csv", "":
		return writeRowsCSV(out, rows)
	}
	return fmt.Errorf("unknown format %q", exportFlags.format)
}

// writeRowsCSV writes one line per entry. Notes are flattened to plain text.
func writeRowsCSV(w io.Writer, rows []report.Row) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"date", "user", "project_id", "project_name", "work_type", "hours", "notes"})
	for _, r := range rows {
		_ = cw.Write([]string{
			r.Date,
			r.User,
			r.ProjectID,
			r.ProjectName,
			r.WorkType,
			strconv.Itoa(r.Hours),
			richtext.PlainText(r.Notes),
		})
	}
	cw.Flush()
	return cw.Error()
}
