package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arbortool/arbor/config"
	"github.com/arbortool/arbor/git"
	"github.com/arbortool/arbor/session"
)

var startCmd = &cobra.Command{
	Use:   "start [name]",
	Short: "Launch or attach the project's tmux session",
	Long: `Starts the tmux session for the project, creating its configured
windows, or attaches when the session is already running. With no argument,
the project whose root is the current directory is started. A project with
a repo URL is cloned on first start if the root directory does not exist.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStart,
}

func init() {
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	name, err := resolveProjectName(args)
	if err != nil {
		return err
	}

	project, err := config.LoadProject(name)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := ensureRoot(ctx, project); err != nil {
		return err
	}

	launcher := session.NewLauncher()
	return launcher.Start(ctx, project)
}

// resolveProjectName maps the optional name argument to a project,
// falling back to the project whose root is the current directory.
func resolveProjectName(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	name, err := config.FindProjectByRoot(cwd)
	if err != nil {
		return "", err
	}
	if name == "" {
		return "", fmt.Errorf("no project configured for %s; pass a project name", cwd)
	}
	return name, nil
}

// ensureRoot clones the project repository when the root directory does
// not exist yet.
func ensureRoot(ctx context.Context, project *config.Project) error {
	root, err := project.RootPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(root); err == nil {
		return nil
	}

	if project.Repo == "" {
		return fmt.Errorf("project root %s does not exist", root)
	}

	fmt.Printf("Cloning %s into %s...\n", project.Repo, root)
	if err := git.NewService().Clone(ctx, project.Repo, root); err != nil {
		return err
	}
	fmt.Println(color.GreenString("Clone complete."))
	return nil
}
