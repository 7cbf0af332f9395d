package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arbortool/arbor/logger"
)

// IsRepo reports whether path is inside a git work tree.
func (s *Service) IsRepo(ctx context.Context, path string) bool {
	output, err := s.executor.Output(ctx, path, "git", "rev-parse", "--is-inside-work-tree")
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(output)) == "true"
}

// HasRemoteOrigin checks if the repository has a remote named "origin".
func (s *Service) HasRemoteOrigin(ctx context.Context, repoPath string) bool {
	_, _, err := s.executor.Run(ctx, repoPath, "git", "remote", "get-url", "origin")
	return err == nil
}

// RemoteOriginURL returns the URL of the "origin" remote.
func (s *Service) RemoteOriginURL(ctx context.Context, repoPath string) (string, error) {
	output, err := s.executor.Output(ctx, repoPath, "git", "remote", "get-url", "origin")
	if err != nil {
		return "", fmt.Errorf("failed to get remote origin URL: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// Clone clones url into dest. The parent directory is created if needed.
func (s *Service) Clone(ctx context.Context, url, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create parent directory for %s: %w", dest, err)
	}

	output, err := s.executor.CombinedOutput(ctx, "", "git", "clone", url, dest)
	if err != nil {
		return fmt.Errorf("failed to clone %s: %s: %w", url, strings.TrimSpace(string(output)), err)
	}

	logger.WithComponent("git").Info("cloned repository", "url", url, "dest", dest)
	return nil
}
