package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/arbortool/arbor/logger"
)

// CheckoutBranch checks out the specified branch in the given repo.
// Returns an error if the checkout fails (e.g., uncommitted changes
// would be overwritten).
func (s *Service) CheckoutBranch(ctx context.Context, repoPath, branch string) error {
	output, err := s.executor.CombinedOutput(ctx, repoPath, "git", "checkout", branch)
	if err != nil {
		return fmt.Errorf("git checkout failed: %s: %w", strings.TrimSpace(string(output)), err)
	}

	logger.WithComponent("git").Info("checked out branch", "branch", branch, "repoPath", repoPath)
	return nil
}

// MergeToDefault merges branch into the repository's default branch,
// checking the default branch out first. On success it returns the name
// of the default branch that received the merge. A merge failure
// surfaces git's output so the caller can resolve conflicts manually.
func (s *Service) MergeToDefault(ctx context.Context, repoPath, branch string) (string, error) {
	log := logger.WithComponent("git")
	defaultBranch := s.DefaultBranch(ctx, repoPath)
	log.Info("merging branch into default", "branch", branch, "defaultBranch", defaultBranch, "repoPath", repoPath)

	if err := s.CheckoutBranch(ctx, repoPath, defaultBranch); err != nil {
		return "", fmt.Errorf("failed to checkout %s: %w", defaultBranch, err)
	}

	output, err := s.executor.CombinedOutput(ctx, repoPath, "git", "merge", branch)
	if err != nil {
		hint := fmt.Sprintf(`

To resolve this merge manually:
  1. cd %s
  2. Check git status for details
  3. Fix the issue and commit, or abort with: git merge --abort`, repoPath)
		return "", fmt.Errorf("merge failed: %s%s: %w", strings.TrimSpace(string(output)), hint, err)
	}

	log.Info("merged branch into default", "branch", branch, "defaultBranch", defaultBranch)
	return defaultBranch, nil
}
