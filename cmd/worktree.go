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
	"github.com/arbortool/arbor/runner"
	"github.com/arbortool/arbor/session"
	"github.com/arbortool/arbor/worktree"
)

var worktreeNoWindow bool

var worktreeCmd = &cobra.Command{
	Use:     "worktree",
	Aliases: []string{"wt"},
	Short:   "Manage git worktrees for a project",
}

var worktreeNewCmd = &cobra.Command{
	Use:   "new <project> <branch>",
	Short: "Create a worktree for a branch",
	Long: `Creates a git worktree for the branch under the worktree base directory.

The branch is reused if it exists locally or on origin and created
otherwise. Configured files are copied or symlinked into the new worktree,
post-create commands run inside it, and when the project's tmux session is
running a window for the worktree opens there.`,
	Args: cobra.ExactArgs(2),
	RunE: runWorktreeNew,
}

var worktreeRmCmd = &cobra.Command{
	Use:   "rm <project> <branch>",
	Short: "Remove a branch's worktree and delete the branch",
	Args:  cobra.ExactArgs(2),
	RunE:  runWorktreeRm,
}

var worktreeLsCmd = &cobra.Command{
	Use:   "ls <project>",
	Short: "List the project's worktrees",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorktreeLs,
}

var worktreeMergeCmd = &cobra.Command{
	Use:   "merge <project> <branch>",
	Short: "Merge a branch into the default branch",
	Long: `Checks out the repository's default branch in the project root and
merges the given branch into it. Conflicts are left for manual resolution.`,
	Args: cobra.ExactArgs(2),
	RunE: runWorktreeMerge,
}

func init() {
	worktreeNewCmd.Flags().BoolVar(&worktreeNoWindow, "no-window", false, "Do not open a tmux window for the new worktree")
	worktreeCmd.AddCommand(worktreeNewCmd)
	worktreeCmd.AddCommand(worktreeRmCmd)
	worktreeCmd.AddCommand(worktreeLsCmd)
	worktreeCmd.AddCommand(worktreeMergeCmd)
	rootCmd.AddCommand(worktreeCmd)
}

func runWorktreeNew(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	project, err := config.LoadProject(args[0])
	if err != nil {
		return err
	}
	branch := args[1]

	ctx := context.Background()
	svc := worktree.NewService()
	path, err := svc.Create(ctx, cfg, project, branch)
	if err != nil {
		return err
	}
	fmt.Printf("Created worktree %s\n", color.GreenString(path))

	if commands := worktree.PostCreateCommands(project); len(commands) > 0 {
		if err := runner.Run(commands, path); err != nil {
			return err
		}
	}

	if !worktreeNoWindow {
		launcher := session.NewLauncher()
		opened, err := launcher.OpenWorktreeWindow(ctx, project, path, filepath.Base(path))
		if err != nil {
			fmt.Fprintln(os.Stderr, color.YellowString("Warning: could not open a window for the worktree: %v", err))
		} else if opened {
			fmt.Printf("Opened window %s in session %s\n", filepath.Base(path), project.Name)
		}
	}
	return nil
}

func runWorktreeRm(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	project, err := config.LoadProject(args[0])
	if err != nil {
		return err
	}
	branch := args[1]

	if err := worktree.NewService().Delete(context.Background(), cfg, project, branch); err != nil {
		return err
	}
	fmt.Printf("Removed worktree for %s\n", color.GreenString(branch))
	return nil
}

func runWorktreeLs(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	project, err := config.LoadProject(args[0])
	if err != nil {
		return err
	}

	infos, err := worktree.NewService().List(context.Background(), cfg, project)
	if err != nil {
		return err
	}

	if len(infos) == 0 {
		fmt.Println("No worktrees.")
		return nil
	}

	for _, info := range infos {
		fmt.Printf("  %s  %s\n", color.GreenString(info.Branch), info.Path)
	}
	return nil
}

func runWorktreeMerge(cmd *cobra.Command, args []string) error {
	project, err := config.LoadProject(args[0])
	if err != nil {
		return err
	}
	branch := args[1]

	root, err := project.RootPath()
	if err != nil {
		return err
	}

	defaultBranch, err := git.NewService().MergeToDefault(context.Background(), root, branch)
	if err != nil {
		return err
	}

	fmt.Printf("Merged %s into %s\n", color.GreenString(branch), color.GreenString(defaultBranch))
	fmt.Printf("Remove the worktree with: arbor worktree rm %s %s\n", project.Name, branch)
	return nil
}
