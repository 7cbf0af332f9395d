package worktree

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arbortool/arbor/config"
	"github.com/arbortool/arbor/logger"
)

// Create makes a worktree for branch under the project's worktree base
// and provisions it from the project root. If branch exists locally or
// on origin it is checked out; otherwise a new branch is created from
// the current HEAD. Returns the worktree path.
//
// Provisioning errors leave the created worktree in place; there is no
// rollback.
func (s *Service) Create(ctx context.Context, cfg *config.GlobalConfig, project *config.Project, branch string) (string, error) {
	log := logger.WithComponent("worktree")

	base, err := cfg.WorktreeBasePath()
	if err != nil {
		return "", err
	}
	root, err := project.RootPath()
	if err != nil {
		return "", err
	}

	path := BranchPath(base, project.Name, branch)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("worktree already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create worktree parent directory: %w", err)
	}

	args := []string{"worktree", "add"}
	if s.BranchExists(ctx, root, branch) || s.RemoteBranchExists(ctx, root, branch) {
		args = append(args, path, branch)
	} else {
		args = append(args, "-b", branch, path)
	}

	_, stderr, err := s.executor.Run(ctx, root, "git", args...)
	if err != nil {
		return "", fmt.Errorf("git worktree add failed: %s: %w", strings.TrimSpace(string(stderr)), err)
	}
	log.Info("created worktree", "project", project.Name, "branch", branch, "path", path)

	if err := s.provision(project, root, path); err != nil {
		return "", err
	}

	return path, nil
}

// provision applies the project's copy and symlink lists to a new
// worktree. Sources that don't exist are skipped; configs may list
// optional files.
func (s *Service) provision(project *config.Project, root, path string) error {
	if project.Worktree == nil {
		return nil
	}
	log := logger.WithComponent("worktree")

	for _, rel := range project.Worktree.Copy {
		src := filepath.Join(root, rel)
		if _, err := os.Lstat(src); os.IsNotExist(err) {
			log.Debug("skipping missing copy source", "path", rel)
			continue
		}
		if err := copyPath(src, filepath.Join(path, rel)); err != nil {
			return fmt.Errorf("failed to copy %s into worktree: %w", rel, err)
		}
	}

	for _, rel := range project.Worktree.Symlink {
		src := filepath.Join(root, rel)
		if _, err := os.Lstat(src); os.IsNotExist(err) {
			log.Debug("skipping missing symlink source", "path", rel)
			continue
		}
		if err := makeSymlink(src, filepath.Join(path, rel)); err != nil {
			return fmt.Errorf("failed to symlink %s into worktree: %w", rel, err)
		}
	}

	return nil
}
