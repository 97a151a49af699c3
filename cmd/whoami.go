package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show which roster entry you log time as",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func runWhoami(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Account: %s\n", tracker.Identity.Account())
	if e, ok := tracker.Identity.CurrentUser(); ok {
		fmt.Fprintf(out, "Employee: %s (%s), role %s\n", e.Name, e.ID, e.Role)
		return nil
	}
	fmt.Fprintln(out, "Employee: not on the team roster; time is logged under the account name.")
	return nil
}
