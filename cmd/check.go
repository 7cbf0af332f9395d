package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arbortool/arbor/cli"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that required tools are installed",
	Long:  `Looks for git, tmux, and $EDITOR and reports what was found.`,
	Args:  cobra.NoArgs,
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	results := cli.CheckAll(cli.DefaultPrerequisites())
	fmt.Fprint(cmd.OutOrStdout(), cli.FormatCheckResults(results))
	return nil
}
