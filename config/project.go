package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/arbortool/arbor/paths"
)

// Project describes one configured project: where its repository lives,
// the tmux windows to create for it, and how to provision its worktrees.
type Project struct {
	Name     string          `yaml:"name"`
	Root     string          `yaml:"root"`
	Repo     string          `yaml:"repo,omitempty"`
	Windows  []Window        `yaml:"windows,omitempty"`
	Worktree *WorktreeConfig `yaml:"worktree,omitempty"`
}

// WorktreeConfig lists the auxiliary files brought into every new
// worktree: paths copied (deep, symlink-preserving), paths symlinked back
// to the project root, and shell commands run after creation.
type WorktreeConfig struct {
	Copy       []string `yaml:"copy,omitempty"`
	Symlink    []string `yaml:"symlink,omitempty"`
	PostCreate []string `yaml:"post_create,omitempty"`
}

// Window describes one tmux window of a project session. The YAML form is
// compact: a list entry is either a bare name, a single-key mapping whose
// value is null (no command), a command string, or a block with command
// and panes.
//
//	windows:
//	  - editor:
//	      panes: [nvim, npm run dev]
//	  - shell:
//	  - git: lazygit
type Window struct {
	Name    string
	Command string
	Panes   []string
}

// windowBody is the block form of a window value.
type windowBody struct {
	Command string   `yaml:"command,omitempty"`
	Panes   []string `yaml:"panes,omitempty"`
}

// UnmarshalYAML decodes the compact window forms.
func (w *Window) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		// bare window name
		return node.Decode(&w.Name)

	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return fmt.Errorf("window entry must have exactly one key (line %d)", node.Line)
		}
		keyNode, valNode := node.Content[0], node.Content[1]
		if err := keyNode.Decode(&w.Name); err != nil {
			return err
		}

		switch {
		case valNode.Tag == "!!null":
			return nil
		case valNode.Kind == yaml.ScalarNode:
			return valNode.Decode(&w.Command)
		case valNode.Kind == yaml.MappingNode:
			var body windowBody
			if err := valNode.Decode(&body); err != nil {
				return err
			}
			w.Command = body.Command
			w.Panes = body.Panes
			return nil
		default:
			return fmt.Errorf("unsupported value for window %q (line %d)", w.Name, valNode.Line)
		}

	default:
		return fmt.Errorf("unsupported window entry (line %d)", node.Line)
	}
}

// projectNamePattern restricts names to characters safe for file names
// and tmux session names.
var projectNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateProjectName checks that name is usable as a project name.
func ValidateProjectName(name string) error {
	if name == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	if !projectNamePattern.MatchString(name) {
		return fmt.Errorf("invalid project name %q: only letters, digits, hyphens and underscores are allowed", name)
	}
	return nil
}

// Validate checks that the project is internally consistent.
func (p *Project) Validate() error {
	if err := ValidateProjectName(p.Name); err != nil {
		return err
	}
	if p.Root == "" {
		return fmt.Errorf("project %q has no root", p.Name)
	}
	for _, w := range p.Windows {
		if w.Name == "" {
			return fmt.Errorf("project %q has a window with no name", p.Name)
		}
		if w.Command != "" && len(w.Panes) > 0 {
			return fmt.Errorf("window %q has both a command and panes; use one per window", w.Name)
		}
	}
	return nil
}

// RootPath returns the project root with a leading ~ expanded.
func (p *Project) RootPath() (string, error) {
	return paths.ExpandHome(p.Root)
}

// ProjectFilePath returns the path of the config file for name.
func ProjectFilePath(name string) (string, error) {
	dir, err := paths.ProjectsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name+".yaml"), nil
}

// LoadProject reads and validates the project config for name.
func LoadProject(name string) (*Project, error) {
	path, err := ProjectFilePath(name)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("project %q not found", name)
	}
	if err != nil {
		return nil, err
	}

	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if p.Name == "" {
		p.Name = name
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}

// ProjectExists reports whether a config file for name exists.
func ProjectExists(name string) (bool, error) {
	path, err := ProjectFilePath(name)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// DeleteProject removes the config file for name.
func DeleteProject(name string) error {
	path, err := ProjectFilePath(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("project %q not found", name)
		}
		return err
	}
	return nil
}

// ListProjects returns the names of all configured projects, sorted.
func ListProjects() ([]string, error) {
	dir, err := paths.ProjectsDir()
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name, ok := strings.CutSuffix(e.Name(), ".yaml"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// FindProjectByRoot returns the name of a configured project whose root
// refers to the same directory as root, or "" if none does.
func FindProjectByRoot(root string) (string, error) {
	names, err := ListProjects()
	if err != nil {
		return "", err
	}
	expanded, err := paths.ExpandHome(root)
	if err != nil {
		return "", err
	}

	for _, name := range names {
		p, err := LoadProject(name)
		if err != nil {
			continue
		}
		pRoot, err := p.RootPath()
		if err != nil {
			continue
		}
		if SamePath(pRoot, expanded) {
			return name, nil
		}
	}
	return "", nil
}

const projectTemplate = `# Arbor project: %[1]s
name: %[1]s
root: %[2]s
%[3]s
# Windows created by ` + "`arbor start`" + `. Each entry is a window name with
# an optional command, or a block with panes for splits.
windows:
  - editor:
      panes:
        - $EDITOR .
  - shell:

# Brought into every new worktree. Sources that don't exist are skipped.
worktree:
  copy: []
  symlink: []
  post_create: []
`

// WriteProjectTemplate scaffolds a new project config file. It refuses to
// overwrite an existing one.
func WriteProjectTemplate(name, root, repo string) (string, error) {
	if err := ValidateProjectName(name); err != nil {
		return "", err
	}

	path, err := ProjectFilePath(name)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("project %q already exists", name)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}

	repoLine := ""
	if repo != "" {
		repoLine = fmt.Sprintf("repo: %s\n", repo)
	}

	content := fmt.Sprintf(projectTemplate, name, root, repoLine)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// IsGitURL reports whether s looks like a cloneable git URL rather than a
// filesystem path.
func IsGitURL(s string) bool {
	for _, prefix := range []string{"https://", "http://", "ssh://", "git://", "git@"} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

// NameFromRepoURL derives a project name from a git URL: the final path
// segment with any .git suffix removed.
func NameFromRepoURL(url string) string {
	s := strings.TrimSuffix(url, "/")
	if i := strings.LastIndexAny(s, "/:"); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSuffix(s, ".git")
}
