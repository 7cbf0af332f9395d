package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/arbortool/arbor/config"
)

var editCmd = &cobra.Command{
	Use:   "edit <name>",
	Short: "Open a project config in your editor",
	Long:  `Opens the project configuration file in $EDITOR, or vi when unset.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

func init() {
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	name := args[0]

	exists, err := config.ProjectExists(name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("project %q not found; create it with: arbor init %s", name, name)
	}

	path, err := config.ProjectFilePath(name)
	if err != nil {
		return err
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	// The editor takes over the terminal, so it runs in the foreground
	// with our stdio rather than through an executor.
	editorCmd := exec.Command(editor, path)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr
	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor %s: %w", editor, err)
	}
	return nil
}
