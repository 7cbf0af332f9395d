// Package git provides repository-level git operations for cloning,
// default branch resolution, and merging worktree branches back into
// the default branch.
//
// The package is organized into focused modules:
//   - service.go: Service struct and constructors
//   - repo.go: repository probes (IsRepo, remote origin) and cloning
//   - branch.go: default branch resolution
//   - merge.go: checkout and merge-to-default
package git
