package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/donburnsideAZ/project-tracker/internal/app"
	"github.com/donburnsideAZ/project-tracker/internal/config"
	"github.com/donburnsideAZ/project-tracker/internal/model"
)

var (
	flagData    string
	flagUser    string
	flagVerbose bool

	// tracker is built by the root command before any subcommand runs.
	tracker *app.App
	logger  = zap.NewNop()
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

var rootCmd = &cobra.Command{
	Use:   "ptrack",
	Short: "Project Tracker – team time tracking on a shared folder",
	Long: `ptrack tracks the hours a team spends on projects.
All data is stored as human-readable JSON files in a shared folder
(OneDrive, Dropbox, a network drive, ...). There is no server.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute is the entry point called from main.
func Execute() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagData, "data", "", "Data folder (overrides config and PTRACK_DATA)")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", "", "Act as this roster id instead of the OS account")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging on stderr")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(teamCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(outlookCmd)
}

// setup loads the config and builds the App for the chosen data folder.
func setup(cmd *cobra.Command, args []string) error {
	cfg, cfgErr := config.Load()
	if flagData != "" {
		cfg.DataFolder = flagData
	}

	logger = newLogger(cfg.LogLevel, flagVerbose)
	if cfgErr != nil {
		logger.Warn("using default config", zap.Error(cfgErr))
	}

	tracker = app.New(cfg, app.Options{Log: logger})
	if flagUser != "" {
		if err := tracker.SetUser(flagUser); err != nil {
			return err
		}
	}
	return nil
}

// newLogger returns a console logger on stderr at the configured level.
func newLogger(level string, verbose bool) *zap.Logger {
	lvl := zapcore.WarnLevel
	if l, err := zapcore.ParseLevel(level); err == nil {
		lvl = l
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stderr), lvl)
	return zap.New(core)
}

// requireData fails with a hint when no usable data folder is configured.
func requireData() error {
	if err := tracker.Configured(); err != nil {
		return fmt.Errorf("%w\nRun \"ptrack init <folder>\" or \"ptrack config set-data <folder>\" first", err)
	}
	return nil
}

var errUnknownProject = errors.New("unknown project")

// loadProjects refreshes the project index. Skipped files are logged by the
// store.
func loadProjects() {
	_, warnings := tracker.Projects.LoadAll()
	if len(warnings) > 0 {
		logger.Debug("project index loaded with warnings", zap.Int("skipped", len(warnings)))
	}
}

// resolveProject finds a project by internal or external id.
func resolveProject(ref string) (model.Project, error) {
	loadProjects()
	p, ok := tracker.Projects.Lookup(ref)
	if !ok {
		return model.Project{}, fmt.Errorf("%w %q (see \"ptrack projects\")", errUnknownProject, ref)
	}
	return p, nil
}

// pickWorkType returns want when it is one of the team's work types, or the
// first work type when want is empty.
func pickWorkType(want string) (string, error) {
	types := tracker.TeamData().WorkTypes
	if want == "" {
		if len(types) == 0 {
			return "", errors.New("no work types configured; pass --type")
		}
		return types[0], nil
	}
	for _, t := range types {
		if strings.EqualFold(t, want) {
			return t, nil
		}
	}
	if len(types) == 0 {
		return want, nil
	}
	return "", fmt.Errorf("unknown work type %q (want one of: %s)", want, strings.Join(types, ", "))
}
