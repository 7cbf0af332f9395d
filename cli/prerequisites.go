// Package cli provides utilities for CLI tool validation.
package cli

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Prerequisite represents a CLI tool Arbor depends on.
type Prerequisite struct {
	Name        string   // Command name (e.g., "git", "tmux")
	Required    bool     // Whether the tool is required to run the app
	Description string   // Human-readable description
	InstallURL  string   // URL for installation instructions
	VersionArgs []string // Arguments that print the tool's version
}

// DefaultPrerequisites returns the list of CLI tools needed by Arbor.
func DefaultPrerequisites() []Prerequisite {
	return []Prerequisite{
		{
			Name:        "git",
			Required:    true,
			Description: "Git version control",
			InstallURL:  "https://git-scm.com/downloads",
			VersionArgs: []string{"--version"},
		},
		{
			Name:        "tmux",
			Required:    true,
			Description: "tmux terminal multiplexer",
			InstallURL:  "https://github.com/tmux/tmux/wiki/Installing",
			VersionArgs: []string{"-V"},
		},
	}
}

// CheckResult contains the result of checking a prerequisite.
type CheckResult struct {
	Prerequisite Prerequisite
	Found        bool
	Path         string // Path to the executable if found
	Version      string // Version string if available
	Error        error
}

// Check verifies that a CLI tool is available in PATH.
func Check(prereq Prerequisite) CheckResult {
	result := CheckResult{Prerequisite: prereq}

	path, err := exec.LookPath(prereq.Name)
	if err != nil {
		result.Error = fmt.Errorf("%s not found in PATH", prereq.Name)
		return result
	}

	result.Found = true
	result.Path = path
	result.Version = getVersion(prereq.Name, prereq.VersionArgs)

	return result
}

// CheckAll verifies all prerequisites plus the $EDITOR setting.
func CheckAll(prereqs []Prerequisite) []CheckResult {
	results := make([]CheckResult, 0, len(prereqs)+1)
	for _, prereq := range prereqs {
		results = append(results, Check(prereq))
	}
	results = append(results, CheckEditor())
	return results
}

// CheckEditor reports whether $EDITOR is set. Arbor falls back to vi
// when it isn't, so this is informational only.
func CheckEditor() CheckResult {
	result := CheckResult{
		Prerequisite: Prerequisite{
			Name:        "$EDITOR",
			Required:    false,
			Description: "Editor used by arbor edit (defaults to vi)",
		},
	}
	if editor := os.Getenv("EDITOR"); editor != "" {
		result.Found = true
		result.Version = editor
	}
	return result
}

// ValidateRequired checks that all required prerequisites are met.
// Returns nil if all required tools are found, otherwise an error
// describing what's missing.
func ValidateRequired(prereqs []Prerequisite) error {
	var missing []string

	for _, prereq := range prereqs {
		if !prereq.Required {
			continue
		}
		result := Check(prereq)
		if !result.Found {
			missing = append(missing, fmt.Sprintf("  - %s (%s)\n    Install: %s",
				prereq.Name, prereq.Description, prereq.InstallURL))
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required CLI tools:\n%s", strings.Join(missing, "\n"))
	}

	return nil
}

// getVersion runs the tool with its version arguments and returns the
// first line of output.
func getVersion(name string, args []string) string {
	if len(args) == 0 {
		return ""
	}

	output, err := exec.Command(name, args...).Output()
	if err != nil {
		return ""
	}

	line, _, _ := strings.Cut(string(output), "\n")
	version := strings.TrimSpace(line)
	if len(version) > 100 {
		version = version[:100] + "..."
	}
	return version
}

// FormatCheckResults formats check results for display.
func FormatCheckResults(results []CheckResult) string {
	var sb strings.Builder

	sb.WriteString("Prerequisites:\n")
	for _, r := range results {
		status := "✓"
		if !r.Found {
			if r.Prerequisite.Required {
				status = "✗"
			} else {
				status = "○"
			}
		}

		sb.WriteString(fmt.Sprintf("  %s %s", status, r.Prerequisite.Name))
		if r.Found && r.Version != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", r.Version))
		} else if !r.Found {
			if r.Prerequisite.Required {
				sb.WriteString(" [REQUIRED]")
			} else {
				sb.WriteString(" [optional]")
			}
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
