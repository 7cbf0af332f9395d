package tmux

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/google/uuid"
)

// scriptedClient builds a ControlClient over an in-memory transport:
// reads come from script, writes land in the returned buffer.
func scriptedClient(script string) (*ControlClient, *bytes.Buffer) {
	var written bytes.Buffer
	return &ControlClient{
		stdin:  &written,
		stdout: bufio.NewReader(strings.NewReader(script)),
	}, &written
}

func TestSend_ReplyBlock(t *testing.T) {
	script := "%begin 1578922740 42 1\n" +
		"line one\n" +
		"line two\n" +
		"%end 1578922740 42 1\n"
	client, written := scriptedClient(script)

	lines, err := client.Send("list-sessions")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(lines) != 2 || lines[0] != "line one" || lines[1] != "line two" {
		t.Errorf("unexpected reply lines: %v", lines)
	}
	if got := written.String(); got != "list-sessions\n" {
		t.Errorf("written %q, want %q", got, "list-sessions\\n")
	}
}

func TestSend_DiscardsNoiseAroundReply(t *testing.T) {
	script := "stray output from another client\n" +
		"%sessions-changed\n" +
		"%begin 100 7 0\n" +
		"kept\n" +
		"%output %1 interleaved notification\n" +
		"also kept\n" +
		"%end 100 7 0\n"
	client, _ := scriptedClient(script)

	lines, err := client.Send("show-options")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(lines) != 2 || lines[0] != "kept" || lines[1] != "also kept" {
		t.Errorf("unexpected reply lines: %v", lines)
	}
}

func TestSend_MismatchedEndKeepsReading(t *testing.T) {
	script := "%begin 100 7 0\n" +
		"a\n" +
		"%end 100 6 0\n" +
		"b\n" +
		"%end 100 7 0\n"
	client, _ := scriptedClient(script)

	lines, err := client.Send("anything")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(lines) != 2 || lines[0] != "a" || lines[1] != "b" {
		t.Errorf("reply terminated on mismatched %%end: %v", lines)
	}
}

func TestSend_SequentialCommandsKeepTheirReplies(t *testing.T) {
	script := "%begin 100 1 0\n" +
		"first-out\n" +
		"%end 100 1 0\n" +
		"%window-add @2\n" +
		"%begin 100 2 0\n" +
		"second-out\n" +
		"%end 100 2 0\n"
	client, written := scriptedClient(script)

	first, err := client.Send("first")
	if err != nil {
		t.Fatalf("first Send: %v", err)
	}
	second, err := client.Send("second")
	if err != nil {
		t.Fatalf("second Send: %v", err)
	}

	if len(first) != 1 || first[0] != "first-out" {
		t.Errorf("first reply = %v", first)
	}
	if len(second) != 1 || second[0] != "second-out" {
		t.Errorf("second reply = %v", second)
	}
	if got := written.String(); got != "first\nsecond\n" {
		t.Errorf("written %q", got)
	}
}

func TestSend_ErrorLineFailsCall(t *testing.T) {
	errorLine := "%error 100 3 0 unknown command: florp"
	client, _ := scriptedClient(errorLine + "\n")

	_, err := client.Send("florp")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), errorLine) {
		t.Errorf("error %q should contain the literal error line", err)
	}
}

func TestSend_ExitFailsCall(t *testing.T) {
	client, _ := scriptedClient("%exit\n")

	_, err := client.Send("anything")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "exited") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSend_EOFMidReply(t *testing.T) {
	script := "%begin 100 4 0\n" +
		"partial\n"
	client, _ := scriptedClient(script)

	_, err := client.Send("anything")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "closed unexpectedly") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSend_EOFBeforeBegin(t *testing.T) {
	client, _ := scriptedClient("")

	_, err := client.Send("anything")
	if err == nil || !strings.Contains(err.Error(), "closed unexpectedly") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSend_MalformedMarkers(t *testing.T) {
	tests := []struct {
		name   string
		script string
	}{
		{"begin missing id", "%begin 100\n"},
		{"begin non-numeric id", "%begin 100 abc 0\n"},
		{"begin negative id", "%begin 100 -5 0\n"},
		{"end missing id", "%begin 100 9 0\nout\n%end 100\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := scriptedClient(tt.script)
			_, err := client.Send("anything")
			if err == nil {
				t.Fatal("expected protocol fault")
			}
			if !strings.Contains(err.Error(), "malformed") {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSend_CarriageReturnsTrimmed(t *testing.T) {
	script := "%begin 100 5 0\r\n" +
		"windows line\r\n" +
		"%end 100 5 0\r\n"
	client, _ := scriptedClient(script)

	lines, err := client.Send("anything")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(lines) != 1 || lines[0] != "windows line" {
		t.Errorf("unexpected reply lines: %v", lines)
	}
}

func TestNewWindow_ComposesQuotedCommand(t *testing.T) {
	script := "%begin 100 5 0\n%end 100 5 0\n"
	client, written := scriptedClient(script)

	if err := client.NewWindow("dev", `feat"x`, "/tmp/work dir"); err != nil {
		t.Fatalf("NewWindow: %v", err)
	}

	want := `new-window -d -t "dev" -n "feat\"x" -c "/tmp/work dir"` + "\n"
	if got := written.String(); got != want {
		t.Errorf("written %q, want %q", got, want)
	}
}

func TestParseCommandID(t *testing.T) {
	tests := []struct {
		line    string
		want    uint64
		wantErr bool
	}{
		{"%begin 1578922740 269 1", 269, false},
		{"%end 1578922740 0 1", 0, false},
		{"%begin 100", 0, true},
		{"%begin", 0, true},
		{"%begin 100 notanumber 1", 0, true},
		{"%begin 100 -1 1", 0, true},
	}

	for _, tt := range tests {
		got, err := parseCommandID(tt.line)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseCommandID(%q): expected error", tt.line)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseCommandID(%q): %v", tt.line, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseCommandID(%q) = %d, want %d", tt.line, got, tt.want)
		}
	}
}

func TestQuoteArg(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", `"plain"`},
		{"with space", `"with space"`},
		{`a"b`, `"a\"b"`},
		{`a\b`, `"a\\b"`},
		{`a"b\c`, `"a\"b\\c"`},
		{"", `""`},
	}

	for _, tt := range tests {
		if got := quoteArg(tt.in); got != tt.want {
			t.Errorf("quoteArg(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

// TestControlClient_Integration exercises the protocol against a real
// tmux server on a private socket.
func TestControlClient_Integration(t *testing.T) {
	if _, err := exec.LookPath("tmux"); err != nil {
		t.Skip("tmux not installed")
	}

	socket := fmt.Sprintf("arbor-test-%d-%s", os.Getpid(), uuid.New().String()[:8])
	t.Cleanup(func() {
		exec.Command("tmux", "-L", socket, "kill-server").Run()
	})

	client, err := Connect(socket)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer client.Close()

	// The connection's implicit session exists; give it a known name.
	if _, err := client.Send("rename-session ctl"); err != nil {
		t.Fatalf("rename-session: %v", err)
	}

	lines, err := client.Send(`list-sessions -F "#{session_name}"`)
	if err != nil {
		t.Fatalf("list-sessions: %v", err)
	}
	found := false
	for _, l := range lines {
		if l == "ctl" {
			found = true
		}
	}
	if !found {
		t.Fatalf("session ctl not listed in %v", lines)
	}

	if err := client.NewWindow("ctl", "extra", t.TempDir()); err != nil {
		t.Fatalf("NewWindow: %v", err)
	}

	lines, err = client.Send(`list-windows -t ctl -F "#{window_name}"`)
	if err != nil {
		t.Fatalf("list-windows: %v", err)
	}
	found = false
	for _, l := range lines {
		if l == "extra" {
			found = true
		}
	}
	if !found {
		t.Errorf("window extra not listed in %v", lines)
	}

	badCmd := "definitely-not-a-tmux-command"
	if _, err := client.Send(badCmd); err == nil {
		t.Errorf("expected %%error reply for unknown command")
	}
}
