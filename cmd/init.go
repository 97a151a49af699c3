package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init <folder>",
	Short: "Set up a shared data folder and make it the active one",
	Long: `init creates the folder layout (projects/, time/) and a default
team_data.json if the folder does not have one yet, then remembers the folder
in ~/.projecttracker/config.json. Existing data is never overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	if err := tracker.Init(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Data folder ready: %s\n", tracker.Env.Root)
	return nil
}
