package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arbortool/arbor/config"
	"github.com/arbortool/arbor/logger"
	"github.com/arbortool/arbor/worktree"
)

var cleanYes bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove log files and prune stale worktree records",
	Long: `Removes arbor's log files and runs git worktree prune in every
configured project. Pruning is best-effort: projects whose root directory
is missing are skipped.

It will prompt for confirmation before proceeding unless the --yes flag
is used.`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVarP(&cleanYes, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	return runCleanWithReader(os.Stdin)
}

// runCleanWithReader allows injecting a reader for testing
func runCleanWithReader(input io.Reader) error {
	names, err := config.ListProjects()
	if err != nil {
		return fmt.Errorf("error listing projects: %w", err)
	}

	fmt.Println("This will clean:")
	fmt.Println("  - All arbor log files")
	if len(names) > 0 {
		fmt.Printf("  - Stale worktree records in %d project(s)\n", len(names))
	}

	if !cleanYes {
		if !confirm(input, "Continue?") {
			fmt.Println("Aborted.")
			return nil
		}
	}

	logsCleared, err := logger.ClearLogs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: error clearing logs: %v\n", err)
	}

	ctx := context.Background()
	svc := worktree.NewService()
	pruned := 0
	for _, name := range names {
		project, err := config.LoadProject(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", name, err)
			continue
		}
		root, err := project.RootPath()
		if err != nil {
			continue
		}
		if _, err := os.Stat(root); err != nil {
			continue
		}
		if err := svc.Prune(ctx, project); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: prune failed for %s: %v\n", name, err)
			continue
		}
		pruned++
	}

	fmt.Println()
	fmt.Println("Cleaned:")
	fmt.Printf("  - %d log file(s) removed\n", logsCleared)
	if pruned > 0 {
		fmt.Printf("  - %d project(s) pruned\n", pruned)
	}
	return nil
}

// confirm prompts the user for y/n confirmation
func confirm(input io.Reader, prompt string) bool {
	reader := bufio.NewReader(input)
	fmt.Printf("%s [y/N]: ", prompt)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
