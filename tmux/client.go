package tmux

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	aexec "github.com/arbortool/arbor/exec"
)

// Client runs one-shot tmux commands (tmux <subcommand>), one process
// per call. Use it for session provisioning; use ControlClient when live
// control over a running server is needed.
type Client struct {
	executor aexec.CommandExecutor
}

// NewClient creates a Client using the real executor.
func NewClient() *Client {
	return &Client{executor: aexec.NewRealExecutor()}
}

// NewClientWithExecutor creates a Client with a custom executor.
// This is primarily used for testing where a mock executor is needed.
func NewClientWithExecutor(executor aexec.CommandExecutor) *Client {
	return &Client{executor: executor}
}

// InsideTmux reports whether the current process runs inside a tmux
// client.
func InsideTmux() bool {
	return os.Getenv("TMUX") != ""
}

// HasSession reports whether a session named name exists.
func (c *Client) HasSession(ctx context.Context, name string) bool {
	_, err := c.executor.CombinedOutput(ctx, "", "tmux", "has-session", "-t", name)
	return err == nil
}

// NewSession creates a detached session with an initial window.
func (c *Client) NewSession(ctx context.Context, name, windowName, dir string) error {
	output, err := c.executor.CombinedOutput(ctx, "", "tmux",
		"new-session", "-d", "-s", name, "-n", windowName, "-c", dir)
	if err != nil {
		return fmt.Errorf("failed to create session %q: %s: %w", name, strings.TrimSpace(string(output)), err)
	}
	return nil
}

// NewWindow creates a detached window in session, starting in dir.
func (c *Client) NewWindow(ctx context.Context, session, name, dir string) error {
	output, err := c.executor.CombinedOutput(ctx, "", "tmux",
		"new-window", "-d", "-t", session, "-n", name, "-c", dir)
	if err != nil {
		return fmt.Errorf("failed to create window %q: %s: %w", name, strings.TrimSpace(string(output)), err)
	}
	return nil
}

// SplitWindow splits the target window's active pane, starting the new
// pane in dir. The new pane becomes the active one, so a following
// SendKeys to the same target reaches it.
func (c *Client) SplitWindow(ctx context.Context, target, dir string) error {
	output, err := c.executor.CombinedOutput(ctx, "", "tmux",
		"split-window", "-t", target, "-c", dir)
	if err != nil {
		return fmt.Errorf("failed to split window %q: %s: %w", target, strings.TrimSpace(string(output)), err)
	}
	return nil
}

// SendKeys types keys into the target's active pane followed by Enter.
func (c *Client) SendKeys(ctx context.Context, target, keys string) error {
	output, err := c.executor.CombinedOutput(ctx, "", "tmux",
		"send-keys", "-t", target, keys, "Enter")
	if err != nil {
		return fmt.Errorf("failed to send keys to %q: %s: %w", target, strings.TrimSpace(string(output)), err)
	}
	return nil
}

// ListWindows returns the window names of a session.
func (c *Client) ListWindows(ctx context.Context, session string) ([]string, error) {
	output, err := c.executor.Output(ctx, "", "tmux",
		"list-windows", "-t", session, "-F", "#{window_name}")
	if err != nil {
		return nil, fmt.Errorf("failed to list windows of %q: %w", session, err)
	}

	var names []string
	for _, line := range strings.Split(strings.TrimSpace(string(output)), "\n") {
		if line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// KillSession terminates the named session.
func (c *Client) KillSession(ctx context.Context, name string) error {
	output, err := c.executor.CombinedOutput(ctx, "", "tmux", "kill-session", "-t", name)
	if err != nil {
		return fmt.Errorf("failed to kill session %q: %s: %w", name, strings.TrimSpace(string(output)), err)
	}
	return nil
}

// Attach brings the named session to the foreground: attach-session
// when outside tmux, switch-client when already inside one. The tmux
// process takes over the terminal, so this bypasses the executor.
func (c *Client) Attach(name string) error {
	subcommand := "attach-session"
	if InsideTmux() {
		subcommand = "switch-client"
	}

	cmd := exec.Command("tmux", subcommand, "-t", name)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to attach to session %q: %w", name, err)
	}
	return nil
}
