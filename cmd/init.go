package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arbortool/arbor/config"
	"github.com/arbortool/arbor/git"
)

var (
	initRoot string
	initRepo string
)

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Create a project config",
	Long: `Creates a project configuration file under the projects directory.

The argument is a project name or a git URL; with a URL the name is derived
from the final path segment. With no argument, the current directory must be
a git repository: the project is named after the directory and its origin
URL is recorded.

Examples:
  arbor init myapp
  arbor init git@github.com:me/myapp.git
  arbor init myapp --root ~/Work/myapp`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initRoot, "root", "", "Project root directory (default ~/Work/<name>)")
	initCmd.Flags().StringVar(&initRepo, "repo", "", "Repository URL to clone on first start")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.EnsureDirs(); err != nil {
		return err
	}

	name := ""
	root := initRoot
	repo := initRepo

	if len(args) > 0 {
		if config.IsGitURL(args[0]) {
			repo = args[0]
			name = config.NameFromRepoURL(args[0])
			if name == "" {
				return fmt.Errorf("could not derive a project name from %q", args[0])
			}
		} else {
			name = args[0]
		}
	}

	// With no argument, describe the repository we are standing in.
	if name == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}

		ctx := context.Background()
		svc := git.NewService()
		if !svc.IsRepo(ctx, cwd) {
			return fmt.Errorf("not inside a git repository; pass a project name or URL")
		}

		name = filepath.Base(cwd)
		if root == "" {
			root = cwd
		}
		if repo == "" && svc.HasRemoteOrigin(ctx, cwd) {
			url, err := svc.RemoteOriginURL(ctx, cwd)
			if err != nil {
				return err
			}
			repo = url
		}
	}

	if root == "" {
		root = "~/Work/" + name
	}

	path, err := config.WriteProjectTemplate(name, root, repo)
	if err != nil {
		return err
	}

	fmt.Printf("Created %s\n", color.GreenString(path))
	if repo != "" {
		fmt.Println("The repository will be cloned on first start.")
	}
	fmt.Println()
	fmt.Printf("Edit it with:  arbor edit %s\n", name)
	fmt.Printf("Start it with: arbor start %s\n", name)
	return nil
}
