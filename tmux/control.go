package tmux

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/arbortool/arbor/logger"
)

// DebugEnvVar enables protocol-level diagnostics: when set to any
// non-empty value, every line written to and read from the control
// connection is echoed to stderr.
const DebugEnvVar = "ARBOR_TMUX_DEBUG"

// ControlClient is a connection to a tmux server in control mode
// (tmux -C). It owns the spawned tmux process and speaks the line
// protocol over its stdin/stdout: commands go in, reply blocks framed by
// %begin/%end markers come out, with asynchronous notifications
// interleaved.
//
// A client holds at most one command in flight. Close terminates the
// owned process; callers must Close on every path.
type ControlClient struct {
	cmd    *exec.Cmd
	stdin  io.Writer
	stdout *bufio.Reader
}

// Connect spawns a control-mode tmux client for the server on the named
// socket (tmux -L). An empty socketName connects to the default server.
// Connecting without a target session makes tmux create one, as a plain
// tmux invocation would.
func Connect(socketName string) (*ControlClient, error) {
	args := []string{}
	if socketName != "" {
		args = append(args, "-L", socketName)
	}
	args = append(args, "-C")
	return connect(args)
}

// ConnectPath spawns a control-mode tmux client for the server on the
// given socket path (tmux -S).
func ConnectPath(socketPath string) (*ControlClient, error) {
	return connect([]string{"-S", socketPath, "-C"})
}

// ConnectAttach spawns a control-mode client attached to an existing
// session, so no new session is created.
func ConnectAttach(socketName, session string) (*ControlClient, error) {
	args := []string{}
	if socketName != "" {
		args = append(args, "-L", socketName)
	}
	args = append(args, "-C", "attach-session", "-t", session)
	return connect(args)
}

func connect(args []string) (*ControlClient, error) {
	cmd := exec.Command("tmux", args...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open tmux stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to open tmux stdout: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to spawn tmux in control mode: %w", err)
	}

	c := &ControlClient{
		cmd:    cmd,
		stdin:  stdin,
		stdout: bufio.NewReader(stdout),
	}

	// The server opens the connection with a reply block for the
	// implicit command (new-session or attach-session). Consume it so
	// the first Send reads its own block, not this one.
	if _, err := c.readReply(); err != nil {
		c.Close()
		return nil, fmt.Errorf("tmux control mode handshake failed: %w", err)
	}

	logger.WithComponent("tmux").Debug("control mode connected", "args", strings.Join(args, " "))
	return c, nil
}

// replyState tracks progress through one command's reply block.
type replyState int

const (
	// awaitingBegin: the command was written but its %begin marker has
	// not arrived yet. Plain lines seen here belong to unrelated traffic.
	awaitingBegin replyState = iota
	// collecting: inside the reply block; plain lines are output, and
	// the block ends at the %end carrying the same id as the %begin.
	collecting
)

// Send writes a command to the server and reads until its reply block
// completes, returning the block's output lines in arrival order.
//
// Asynchronous %-notifications interleaved with the reply are discarded.
// A %error or %exit line fails the call, as does EOF before the closing
// marker or a marker line whose id cannot be parsed.
func (c *ControlClient) Send(command string) ([]string, error) {
	if debugEnabled() {
		fmt.Fprintf(os.Stderr, "tmux-control >> %s\n", command)
	}

	if _, err := fmt.Fprintf(c.stdin, "%s\n", command); err != nil {
		return nil, fmt.Errorf("failed to write to tmux control mode: %w", err)
	}

	return c.readReply()
}

// readReply runs the reply state machine: discard traffic until a %begin
// arrives, then accumulate plain lines until the %end carrying the same
// id.
func (c *ControlClient) readReply() ([]string, error) {
	state := awaitingBegin
	var wantID uint64
	var output []string

	for {
		raw, err := c.stdout.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("tmux control mode closed unexpectedly")
			}
			return nil, fmt.Errorf("failed to read from tmux control mode: %w", err)
		}
		line := strings.TrimRight(raw, "\r\n")

		if debugEnabled() {
			fmt.Fprintf(os.Stderr, "tmux-control << %s\n", line)
		}

		switch {
		case strings.HasPrefix(line, "%exit"):
			return nil, fmt.Errorf("tmux control mode exited")

		case strings.HasPrefix(line, "%error"):
			return nil, fmt.Errorf("tmux error: %s", line)

		case strings.HasPrefix(line, "%begin"):
			if state == awaitingBegin {
				id, err := parseCommandID(line)
				if err != nil {
					return nil, err
				}
				wantID = id
				state = collecting
			}

		case strings.HasPrefix(line, "%end"):
			if state == collecting {
				id, err := parseCommandID(line)
				if err != nil {
					return nil, err
				}
				// An %end for a different id is stale; keep reading.
				if id == wantID {
					return output, nil
				}
			}

		case strings.HasPrefix(line, "%"):
			// asynchronous notification, not part of the reply

		default:
			if state == collecting {
				output = append(output, line)
			}
		}
	}
}

// NewWindow creates a detached window named name in the given session,
// starting in dir.
func (c *ControlClient) NewWindow(session, name, dir string) error {
	command := fmt.Sprintf("new-window -d -t %s -n %s -c %s",
		quoteArg(session), quoteArg(name), quoteArg(dir))
	if _, err := c.Send(command); err != nil {
		return fmt.Errorf("failed to create window %q: %w", name, err)
	}
	return nil
}

// Close terminates the owned tmux process and reaps it. Safe to call
// more than once.
func (c *ControlClient) Close() {
	if c.cmd == nil {
		return
	}
	if c.cmd.Process != nil {
		c.cmd.Process.Kill()
		c.cmd.Wait()
	}
	c.cmd = nil
	logger.WithComponent("tmux").Debug("control mode closed")
}

// parseCommandID extracts the command id from a %begin/%end/%error
// marker line: the third whitespace-separated token, a non-negative
// integer. Marker lines that don't carry one are a protocol fault.
func parseCommandID(line string) (uint64, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return 0, fmt.Errorf("malformed tmux control line: %q", line)
	}
	id, err := strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed command id in tmux control line: %q", line)
	}
	return id, nil
}

// quoteArg makes a value safe to embed in a control-mode command line:
// wrap in double quotes, escaping backslashes and embedded quotes.
func quoteArg(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		if r == '\\' || r == '"' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}

func debugEnabled() bool {
	return os.Getenv(DebugEnvVar) != ""
}
