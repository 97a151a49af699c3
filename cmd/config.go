package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donburnsideAZ/project-tracker/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change this machine's settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the config file location and data folder",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetDataCmd = &cobra.Command{
	Use:   "set-data <folder>",
	Short: "Switch to an existing data folder",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigSetData,
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetDataCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	path, err := config.FilePath()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Config:      %s\n", path)
	fmt.Fprintf(out, "Data folder: %s\n", tracker.Config.DataFolder)
	if err := tracker.Configured(); err != nil {
		fmt.Fprintf(out, "             %s\n", dimStyle.Render(err.Error()))
	}
	for i, f := range tracker.Config.RecentFolders {
		fmt.Fprintf(out, "Recent %d:    %s\n", i+1, f)
	}
	return nil
}

func runConfigSetData(cmd *cobra.Command, args []string) error {
	if err := tracker.SetDataFolder(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Data folder set to %s\n", tracker.Env.Root)
	if _, ok := tracker.Team.Load(); !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "No team_data.json found there; run \"ptrack init\" on it to create one.")
	}
	return nil
}
