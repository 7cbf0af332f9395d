package session

import (
	"context"

	"github.com/arbortool/arbor/config"
	aexec "github.com/arbortool/arbor/exec"
	"github.com/arbortool/arbor/logger"
	"github.com/arbortool/arbor/tmux"
)

// Launcher provisions and attaches tmux sessions for projects.
type Launcher struct {
	client *tmux.Client
}

// NewLauncher creates a Launcher using the real executor.
func NewLauncher() *Launcher {
	return &Launcher{client: tmux.NewClient()}
}

// NewLauncherWithExecutor creates a Launcher with a custom executor.
// This is primarily used for testing where a mock executor is needed.
func NewLauncherWithExecutor(executor aexec.CommandExecutor) *Launcher {
	return &Launcher{client: tmux.NewClientWithExecutor(executor)}
}

// Start attaches to the project's tmux session, creating and populating
// it first when it doesn't exist.
func (l *Launcher) Start(ctx context.Context, project *config.Project) error {
	log := logger.WithProject(project.Name)

	if l.client.HasSession(ctx, project.Name) {
		log.Info("attaching to existing session")
		return l.client.Attach(project.Name)
	}

	if err := l.create(ctx, project); err != nil {
		return err
	}
	return l.client.Attach(project.Name)
}

// create builds the project's session detached: the first window with
// the session itself, the rest one by one, then commands and panes.
func (l *Launcher) create(ctx context.Context, project *config.Project) error {
	root, err := project.RootPath()
	if err != nil {
		return err
	}

	first := config.Window{Name: "main"}
	var rest []config.Window
	if len(project.Windows) > 0 {
		first = project.Windows[0]
		rest = project.Windows[1:]
	}

	if err := l.client.NewSession(ctx, project.Name, first.Name, root); err != nil {
		return err
	}
	if err := l.realizeWindow(ctx, project.Name, first, root); err != nil {
		return err
	}

	for _, w := range rest {
		if err := l.client.NewWindow(ctx, project.Name, w.Name, root); err != nil {
			return err
		}
		if err := l.realizeWindow(ctx, project.Name, w, root); err != nil {
			return err
		}
	}

	logger.WithProject(project.Name).Info("created session", "windows", 1+len(rest))
	return nil
}

// realizeWindow types the window's command or realizes its panes. The
// first pane command runs in the window's original pane; each further
// pane is a split of it.
func (l *Launcher) realizeWindow(ctx context.Context, session string, w config.Window, dir string) error {
	target := session + ":" + w.Name

	if w.Command != "" {
		if err := l.client.SendKeys(ctx, target, w.Command); err != nil {
			return err
		}
	}

	for i, pane := range w.Panes {
		if i > 0 {
			if err := l.client.SplitWindow(ctx, target, dir); err != nil {
				return err
			}
		}
		if pane != "" {
			if err := l.client.SendKeys(ctx, target, pane); err != nil {
				return err
			}
		}
	}
	return nil
}

// OpenWorktreeWindow adds a window rooted at path to the project's
// running session through the control-mode client, so it appears live.
// Returns false without error when not inside tmux or when the
// project's session isn't running.
func (l *Launcher) OpenWorktreeWindow(ctx context.Context, project *config.Project, path, name string) (bool, error) {
	if !tmux.InsideTmux() {
		return false, nil
	}
	if !l.client.HasSession(ctx, project.Name) {
		return false, nil
	}

	ctl, err := tmux.ConnectAttach("", project.Name)
	if err != nil {
		return false, err
	}
	defer ctl.Close()

	if err := ctl.NewWindow(project.Name, name, path); err != nil {
		return false, err
	}

	logger.WithProject(project.Name).Info("opened worktree window",
		"window", name, "path", path)
	return true, nil
}
