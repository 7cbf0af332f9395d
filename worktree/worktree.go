// Package worktree orchestrates git worktrees for a project: creating
// them under a per-project base directory, provisioning them with files
// from the project root, listing them, and tearing them down.
//
// The package is organized into focused modules:
//   - worktree.go: Service struct, paths, branch probes
//   - create.go: worktree creation and provisioning
//   - delete.go: worktree removal with filesystem fallback
//   - list.go: porcelain listing
//   - copy.go: symlink-preserving file replication
package worktree

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arbortool/arbor/config"
	aexec "github.com/arbortool/arbor/exec"
)

// Info describes one worktree of a project.
type Info struct {
	Path   string
	Branch string
}

// Service performs worktree operations with explicit dependency
// injection. Each Service instance holds its own executor, enabling
// proper testing and avoiding global state.
type Service struct {
	executor aexec.CommandExecutor
}

// NewService creates a new Service with the default real executor.
func NewService() *Service {
	return &Service{executor: aexec.NewRealExecutor()}
}

// NewServiceWithExecutor creates a new Service with a custom executor.
// This is primarily used for testing where a mock executor is needed.
func NewServiceWithExecutor(executor aexec.CommandExecutor) *Service {
	return &Service{executor: executor}
}

// BranchPath returns the directory the worktree for branch lives at:
// {base}/{project}/{branch}, with path separators in the branch name
// flattened to hyphens so every worktree is a direct child of the
// project directory.
func BranchPath(base, project, branch string) string {
	return filepath.Join(base, project, strings.ReplaceAll(branch, "/", "-"))
}

// BranchExists reports whether branch resolves as a local ref in the
// repository at repoPath.
func (s *Service) BranchExists(ctx context.Context, repoPath, branch string) bool {
	_, _, err := s.executor.Run(ctx, repoPath, "git", "rev-parse", "--verify", branch)
	return err == nil
}

// RemoteBranchExists reports whether origin/branch resolves in the
// repository at repoPath.
func (s *Service) RemoteBranchExists(ctx context.Context, repoPath, branch string) bool {
	_, _, err := s.executor.Run(ctx, repoPath, "git", "rev-parse", "--verify", "origin/"+branch)
	return err == nil
}

// Prune removes stale worktree records from the project repository,
// the ones whose directories are already gone.
func (s *Service) Prune(ctx context.Context, project *config.Project) error {
	root, err := project.RootPath()
	if err != nil {
		return err
	}

	output, err := s.executor.CombinedOutput(ctx, root, "git", "worktree", "prune")
	if err != nil {
		return fmt.Errorf("failed to prune worktrees: %s: %w", strings.TrimSpace(string(output)), err)
	}
	return nil
}

// PostCreateCommands returns the commands the project wants run inside
// a freshly created worktree.
func PostCreateCommands(project *config.Project) []string {
	if project.Worktree == nil {
		return nil
	}
	return project.Worktree.PostCreate
}
