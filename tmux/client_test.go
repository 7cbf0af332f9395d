package tmux

import (
	"context"
	"errors"
	"strings"
	"testing"

	aexec "github.com/arbortool/arbor/exec"
)

func TestHasSession(t *testing.T) {
	mock := aexec.NewMockExecutor(nil)
	mock.AddExactMatch("tmux", []string{"has-session", "-t", "present"}, aexec.MockResponse{})
	mock.AddExactMatch("tmux", []string{"has-session", "-t", "absent"}, aexec.MockResponse{
		Stderr: []byte("can't find session: absent"),
		Err:    errors.New("exit status 1"),
	})

	client := NewClientWithExecutor(mock)
	ctx := context.Background()

	if !client.HasSession(ctx, "present") {
		t.Error("HasSession(present) = false, want true")
	}
	if client.HasSession(ctx, "absent") {
		t.Error("HasSession(absent) = true, want false")
	}
}

func TestNewSession(t *testing.T) {
	mock := aexec.NewMockExecutor(nil)
	client := NewClientWithExecutor(mock)

	if err := client.NewSession(context.Background(), "myapp", "editor", "/code/myapp"); err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	calls := mock.GetCalls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	want := []string{"new-session", "-d", "-s", "myapp", "-n", "editor", "-c", "/code/myapp"}
	if !equalArgs(calls[0].Args, want) {
		t.Errorf("args = %v, want %v", calls[0].Args, want)
	}
}

func TestNewSession_ErrorCarriesOutput(t *testing.T) {
	mock := aexec.NewMockExecutor(nil)
	mock.AddPrefixMatch("tmux", []string{"new-session"}, aexec.MockResponse{
		Stderr: []byte("duplicate session: myapp\n"),
		Err:    errors.New("exit status 1"),
	})
	client := NewClientWithExecutor(mock)

	err := client.NewSession(context.Background(), "myapp", "editor", "/code")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "duplicate session") {
		t.Errorf("error %q should carry tmux output", err)
	}
}

func TestNewWindowOneShot(t *testing.T) {
	mock := aexec.NewMockExecutor(nil)
	client := NewClientWithExecutor(mock)

	if err := client.NewWindow(context.Background(), "myapp", "shell", "/code"); err != nil {
		t.Fatalf("NewWindow: %v", err)
	}

	calls := mock.GetCalls()
	want := []string{"new-window", "-d", "-t", "myapp", "-n", "shell", "-c", "/code"}
	if len(calls) != 1 || !equalArgs(calls[0].Args, want) {
		t.Errorf("calls = %v, want one call %v", calls, want)
	}
}

func TestSplitWindowAndSendKeys(t *testing.T) {
	mock := aexec.NewMockExecutor(nil)
	client := NewClientWithExecutor(mock)
	ctx := context.Background()

	if err := client.SplitWindow(ctx, "myapp:editor", "/code"); err != nil {
		t.Fatalf("SplitWindow: %v", err)
	}
	if err := client.SendKeys(ctx, "myapp:editor", "npm run dev"); err != nil {
		t.Fatalf("SendKeys: %v", err)
	}

	calls := mock.GetCalls()
	if len(calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(calls))
	}
	if !equalArgs(calls[0].Args, []string{"split-window", "-t", "myapp:editor", "-c", "/code"}) {
		t.Errorf("split args = %v", calls[0].Args)
	}
	if !equalArgs(calls[1].Args, []string{"send-keys", "-t", "myapp:editor", "npm run dev", "Enter"}) {
		t.Errorf("send-keys args = %v", calls[1].Args)
	}
}

func TestListWindows(t *testing.T) {
	mock := aexec.NewMockExecutor(nil)
	mock.AddPrefixMatch("tmux", []string{"list-windows"}, aexec.MockResponse{
		Stdout: []byte("editor\nshell\ngit\n"),
	})
	client := NewClientWithExecutor(mock)

	names, err := client.ListWindows(context.Background(), "myapp")
	if err != nil {
		t.Fatalf("ListWindows: %v", err)
	}
	if len(names) != 3 || names[0] != "editor" || names[2] != "git" {
		t.Errorf("names = %v", names)
	}
}

func TestListWindows_Empty(t *testing.T) {
	mock := aexec.NewMockExecutor(nil)
	client := NewClientWithExecutor(mock)

	names, err := client.ListWindows(context.Background(), "myapp")
	if err != nil {
		t.Fatalf("ListWindows: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("names = %v, want none", names)
	}
}

func TestKillSession(t *testing.T) {
	mock := aexec.NewMockExecutor(nil)
	client := NewClientWithExecutor(mock)

	if err := client.KillSession(context.Background(), "myapp"); err != nil {
		t.Fatalf("KillSession: %v", err)
	}

	calls := mock.GetCalls()
	if len(calls) != 1 || !equalArgs(calls[0].Args, []string{"kill-session", "-t", "myapp"}) {
		t.Errorf("calls = %v", calls)
	}
}

func TestInsideTmux(t *testing.T) {
	t.Setenv("TMUX", "")
	if InsideTmux() {
		t.Error("InsideTmux = true with empty TMUX")
	}

	t.Setenv("TMUX", "/tmp/tmux-1000/default,1234,0")
	if !InsideTmux() {
		t.Error("InsideTmux = false with TMUX set")
	}
}

func equalArgs(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
