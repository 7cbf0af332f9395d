package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arbortool/arbor/config"
)

var removeYes bool

var removeCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Delete a project config",
	Long: `Deletes the project configuration file. The repository and any
worktrees are left on disk.`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().BoolVarP(&removeYes, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	return runRemoveWithReader(os.Stdin, args[0])
}

// runRemoveWithReader allows injecting a reader for testing
func runRemoveWithReader(input io.Reader, name string) error {
	exists, err := config.ProjectExists(name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("project %q not found", name)
	}

	if !removeYes {
		if !confirm(input, fmt.Sprintf("Delete project %q?", name)) {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := config.DeleteProject(name); err != nil {
		return err
	}
	fmt.Printf("Deleted project %s\n", color.GreenString(name))
	return nil
}
