package git

import (
	"context"
	"strings"
)

// DefaultBranch returns the repository's default branch name. It
// prefers the short name of origin's HEAD ref, falls back to probing
// for a local main then master, and assumes main when nothing resolves.
func (s *Service) DefaultBranch(ctx context.Context, repoPath string) string {
	output, err := s.executor.Output(ctx, repoPath, "git", "symbolic-ref", "refs/remotes/origin/HEAD", "--short")
	if err == nil {
		// Output is like "origin/main".
		ref := strings.TrimSpace(string(output))
		if branch, ok := strings.CutPrefix(ref, "origin/"); ok && branch != "" {
			return branch
		}
		if ref != "" {
			return ref
		}
	}

	for _, branch := range []string{"main", "master"} {
		if _, _, err := s.executor.Run(ctx, repoPath, "git", "rev-parse", "--verify", branch); err == nil {
			return branch
		}
	}

	return "main"
}
