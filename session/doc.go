// Package session turns a project config into a running tmux session.
//
// # Overview
//
// Each configured project maps to one tmux session named after the
// project. Starting a project either attaches to its existing session
// or creates it from scratch: a detached session rooted at the project
// directory, one window per configured window entry, commands typed
// into their windows, pane splits realized, and finally an attach.
//
// # Windows
//
// The first configured window becomes the session's initial window
// (created together with the session); when a project configures no
// windows the session gets a single window named "main". Remaining
// windows are created detached in order. A window either runs one
// command or holds a list of panes: the first pane command runs in the
// window's original pane and each further pane is a split.
//
// # Worktree windows
//
// When a worktree is created from inside the project's running tmux
// session, OpenWorktreeWindow adds a window for it through the
// control-mode client, so the window appears in the live session
// without re-attaching.
package session
