// Package config loads Arbor's global and per-project configuration.
//
// The global config lives at {configDir}/config.yaml and per-project
// configs at {configDir}/projects/<name>.yaml. Both are plain YAML files
// meant to be edited by hand; values are immutable once loaded.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/arbortool/arbor/paths"
)

// GlobalConfig holds settings that apply across all projects.
type GlobalConfig struct {
	// WorktreeBase overrides the directory worktrees are created under.
	// Supports a leading ~. Empty means the default data directory.
	WorktreeBase string `yaml:"worktree_base,omitempty"`
}

// Load reads the global config from disk, or returns defaults if the
// file doesn't exist.
func Load() (*GlobalConfig, error) {
	path, err := paths.ConfigFilePath()
	if err != nil {
		return nil, err
	}

	cfg := &GlobalConfig{}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return cfg, nil
}

// WorktreeBasePath returns the absolute directory worktrees are created
// under, expanding a leading ~ in the configured override.
func (c *GlobalConfig) WorktreeBasePath() (string, error) {
	if c.WorktreeBase != "" {
		return paths.ExpandHome(c.WorktreeBase)
	}
	return paths.WorktreesDir()
}

// EnsureDirs creates the directories Arbor needs: the config dir, the
// projects dir, and the worktree base.
func (c *GlobalConfig) EnsureDirs() error {
	configDir, err := paths.ConfigDir()
	if err != nil {
		return err
	}
	projectsDir, err := paths.ProjectsDir()
	if err != nil {
		return err
	}
	base, err := c.WorktreeBasePath()
	if err != nil {
		return err
	}

	for _, dir := range []string{configDir, projectsDir, base} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}
