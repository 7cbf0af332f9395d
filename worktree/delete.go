package worktree

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/arbortool/arbor/config"
	"github.com/arbortool/arbor/logger"
)

// Delete removes the worktree for branch and deletes its local branch.
// When git's own removal fails (e.g. the worktree metadata is broken),
// the directory is removed directly and stale metadata pruned. Branch
// deletion failure never fails the overall delete: a missing branch is
// already the desired end state, anything else is a printed warning.
func (s *Service) Delete(ctx context.Context, cfg *config.GlobalConfig, project *config.Project, branch string) error {
	log := logger.WithComponent("worktree")

	base, err := cfg.WorktreeBasePath()
	if err != nil {
		return err
	}
	root, err := project.RootPath()
	if err != nil {
		return err
	}

	path := BranchPath(base, project.Name, branch)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("no worktree at %s", path)
	}

	output, err := s.executor.CombinedOutput(ctx, root, "git", "worktree", "remove", "--force", path)
	if err != nil {
		log.Warn("git worktree remove failed, removing directly",
			"path", path, "output", strings.TrimSpace(string(output)), "err", err)
		if rmErr := os.RemoveAll(path); rmErr != nil {
			return fmt.Errorf("failed to remove worktree directory: %w", rmErr)
		}
		if _, pruneErr := s.executor.CombinedOutput(ctx, root, "git", "worktree", "prune"); pruneErr != nil {
			log.Warn("git worktree prune failed", "err", pruneErr)
		}
	}

	_, stderr, err := s.executor.Run(ctx, root, "git", "branch", "-D", branch)
	if err != nil && !strings.Contains(string(stderr), "not found") {
		fmt.Fprintln(os.Stderr, color.YellowString("Warning: failed to delete branch %s: %s",
			branch, strings.TrimSpace(string(stderr))))
		log.Warn("branch deletion failed", "branch", branch, "stderr", strings.TrimSpace(string(stderr)))
	}

	log.Info("deleted worktree", "project", project.Name, "branch", branch, "path", path)
	return nil
}
