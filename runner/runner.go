// Package runner executes a list of shell commands sequentially in a
// working directory and streams their output as events.
//
// The streaming form (Start) runs the batch on a background goroutine
// and is consumed by non-blocking polling, so a rendering loop is never
// blocked. The blocking form (Run) executes in the caller's goroutine
// with inherited stdio, for non-interactive use such as post-create
// provisioning from the CLI.
package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/google/uuid"

	aexec "github.com/arbortool/arbor/exec"
	"github.com/arbortool/arbor/logger"
)

// EventKind discriminates entries in the runner's event stream.
type EventKind int

const (
	// EventLine is one line of command output, from stdout or stderr.
	EventLine EventKind = iota
	// EventStarted announces a command about to execute.
	EventStarted
	// EventFinished announces a command's completion.
	EventFinished
	// EventAllDone terminates the stream after the last command.
	EventAllDone
)

// Event is one entry in the runner's output stream.
type Event struct {
	Kind    EventKind
	Line    string // EventLine
	Command string // EventStarted, EventFinished
	Success bool   // EventFinished; for EventAllDone, true iff every command succeeded
}

// Runner is a handle to a batch of commands executing in the
// background. Discarding the handle doesn't stop the batch; the
// commands run to completion regardless.
type Runner struct {
	mu      sync.Mutex
	pending []Event

	done chan struct{}
}

// Start launches the commands sequentially in dir on a background
// goroutine and returns immediately. Each command runs as `sh -c`.
func Start(commands []string, dir string) *Runner {
	return StartWithExecutor(aexec.GetDefaultExecutor(), commands, dir)
}

// StartWithExecutor is Start with a custom executor, primarily for
// testing.
func StartWithExecutor(executor aexec.CommandExecutor, commands []string, dir string) *Runner {
	r := &Runner{
		done: make(chan struct{}),
	}
	go r.run(executor, commands, dir)
	return r
}

// Poll returns the oldest pending event without blocking. The second
// return is false when no event is pending; combined with IsRunning it
// distinguishes "none yet" from "none ever again".
func (r *Runner) Poll() (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.pending) == 0 {
		return Event{}, false
	}
	ev := r.pending[0]
	r.pending = r.pending[1:]
	return ev, true
}

// IsRunning reports whether the batch is still executing. Events may
// remain pending after it turns false.
func (r *Runner) IsRunning() bool {
	select {
	case <-r.done:
		return false
	default:
		return true
	}
}

func (r *Runner) run(executor aexec.CommandExecutor, commands []string, dir string) {
	batch := uuid.New().String()[:8]
	log := logger.WithComponent("runner").With("batch", batch)
	log.Info("batch started", "commands", len(commands), "dir", dir)

	allOK := true
	for _, command := range commands {
		r.send(Event{Kind: EventStarted, Command: command})

		ok := r.runOne(executor, command, dir, log)
		if !ok {
			allOK = false
		}
		r.send(Event{Kind: EventFinished, Command: command, Success: ok})
	}

	r.send(Event{Kind: EventAllDone, Success: allOK})
	log.Info("batch finished", "success", allOK)

	close(r.done)
}

func (r *Runner) runOne(executor aexec.CommandExecutor, command, dir string, log *slog.Logger) bool {
	handle, err := executor.Start(context.Background(), dir, "sh", "-c", command)
	if err != nil {
		// A command that can't spawn is reported like a failed one, and
		// the batch moves on.
		r.send(Event{Kind: EventLine, Line: fmt.Sprintf("Failed to start: %v", err)})
		log.Warn("command failed to start", "command", command, "err", err)
		return false
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go r.forwardLines(handle.Stdout(), &wg)
	go r.forwardLines(handle.Stderr(), &wg)

	// Both readers must drain before Wait, which closes the pipes.
	wg.Wait()

	if err := handle.Wait(); err != nil {
		log.Warn("command failed", "command", command, "err", err)
		return false
	}
	return true
}

// forwardLines fans one output stream into the event queue, line by
// line. Lines may be arbitrarily long, and a trailing line without a
// newline is still delivered. Reading runs to end of stream so the
// pipe is always fully drained.
func (r *Runner) forwardLines(stream io.Reader, wg *sync.WaitGroup) {
	defer wg.Done()

	reader := bufio.NewReader(stream)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(line, "\n")
			line = strings.TrimSuffix(line, "\r")
			r.send(Event{Kind: EventLine, Line: line})
		}
		if err != nil {
			return
		}
	}
}

// send queues an event. The queue is unbounded so no event is dropped
// before the consumer polls it; a handle nobody polls accumulates
// events until the batch ends and the handle is collected.
func (r *Runner) send(ev Event) {
	r.mu.Lock()
	r.pending = append(r.pending, ev)
	r.mu.Unlock()
}

// Run executes the commands sequentially in dir with inherited stdio,
// announcing each one. A command that exits non-zero produces a warning
// and the sequence continues; only a failure to spawn aborts.
func Run(commands []string, dir string) error {
	for _, command := range commands {
		fmt.Printf("Running: %s\n", command)

		cmd := exec.Command("sh", "-c", command)
		cmd.Dir = dir
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			if _, ok := err.(*exec.ExitError); ok {
				fmt.Fprintln(os.Stderr, color.YellowString("Warning: command failed: %s", command))
				continue
			}
			return fmt.Errorf("failed to run %q: %w", command, err)
		}
	}
	return nil
}
