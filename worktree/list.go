package worktree

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arbortool/arbor/config"
)

// List returns the project's worktrees, i.e. the repository's worktrees
// whose path falls under {base}/{project}.
func (s *Service) List(ctx context.Context, cfg *config.GlobalConfig, project *config.Project) ([]Info, error) {
	base, err := cfg.WorktreeBasePath()
	if err != nil {
		return nil, err
	}
	root, err := project.RootPath()
	if err != nil {
		return nil, err
	}

	output, err := s.executor.Output(ctx, root, "git", "worktree", "list", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("git worktree list failed: %w", err)
	}

	prefix := filepath.Join(base, project.Name) + string(filepath.Separator)
	var infos []Info
	for _, info := range parseWorktreeList(string(output)) {
		if strings.HasPrefix(info.Path, prefix) {
			infos = append(infos, info)
		}
	}
	return infos, nil
}

// parseWorktreeList parses `git worktree list --porcelain` output. Each
// stanza starts with a "worktree <path>" line; the previous record is
// flushed when a new stanza starts, and once more at the end. Only
// complete path+branch pairs are kept, so detached worktrees (which
// have no branch line) are skipped.
func parseWorktreeList(output string) []Info {
	var infos []Info
	var path, branch string

	flush := func() {
		if path != "" && branch != "" {
			infos = append(infos, Info{Path: path, Branch: branch})
		}
		path, branch = "", ""
	}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case strings.HasPrefix(line, "worktree "):
			flush()
			path = strings.TrimPrefix(line, "worktree ")
		case strings.HasPrefix(line, "branch "):
			ref := strings.TrimPrefix(line, "branch ")
			branch = strings.TrimPrefix(ref, "refs/heads/")
		}
	}
	flush()
	return infos
}
