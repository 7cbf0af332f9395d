package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arbortool/arbor/cli"
	"github.com/arbortool/arbor/logger"
)

var (
	debugMode             bool
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "arbor",
	Short: "Terminal workspace manager for tmux sessions and git worktrees",
	Long: `Arbor provisions tmux sessions and git worktrees for your projects.

Each project is a YAML file describing where its repository lives and which
tmux windows to open for it. Branch worktrees get their own directory with
auxiliary files copied or symlinked in and post-create commands run inside.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if debugMode {
			logger.SetDebug(true)
		}
		// check reports on missing tools, so it must run without them.
		if cmd.Name() == "check" {
			return nil
		}
		if err := cli.ValidateRequired(cli.DefaultPrerequisites()); err != nil {
			return fmt.Errorf("%w\n\nRun 'arbor check' to see all prerequisites", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
}

// Execute runs the root command
func Execute() error {
	// Set version dynamically
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	defer logger.Close()
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("arbor %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("arbor %s\n", version)
}
