package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arbortool/arbor/paths"
)

// setupTestLogger creates a temp log file and initializes the logger with it.
func setupTestLogger(t *testing.T) (string, func()) {
	t.Helper()
	Reset()

	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test-debug.log")
	if err := Init(logPath); err != nil {
		t.Fatalf("Failed to init logger: %v", err)
	}

	return logPath, func() {
		Reset()
	}
}

func TestGet(t *testing.T) {
	_, cleanup := setupTestLogger(t)
	defer cleanup()

	log := Get()
	if log == nil {
		t.Fatal("Get() returned nil")
	}

	// Should not panic
	log.Info("test message")
	log.Debug("debug message", "key", "value")
	log.Warn("warning", "count", 42)
	log.Error("error occurred", "err", "something failed")
}

func TestGet_StructuredLogging(t *testing.T) {
	logPath, cleanup := setupTestLogger(t)
	defer cleanup()

	log := Get()
	log.Info("worktree created", "branch", "feature-x", "attempt", 1)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	contentStr := string(content)
	if !strings.Contains(contentStr, "worktree created") {
		t.Error("Should contain message")
	}
	if !strings.Contains(contentStr, "branch=feature-x") {
		t.Error("Should contain structured field")
	}
}

func TestWithComponent(t *testing.T) {
	logPath, cleanup := setupTestLogger(t)
	defer cleanup()

	log := WithComponent("tmux")
	log.Info("window opened")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	if !strings.Contains(string(content), "component=tmux") {
		t.Error("Log entry should carry the component field")
	}
}

func TestWithProject(t *testing.T) {
	logPath, cleanup := setupTestLogger(t)
	defer cleanup()

	log := WithProject("myapp")
	log.Info("session started")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	if !strings.Contains(string(content), "project=myapp") {
		t.Error("Log entry should carry the project field")
	}
}

func TestSetDebug(t *testing.T) {
	logPath, cleanup := setupTestLogger(t)
	defer cleanup()

	SetDebug(false)
	Get().Debug("hidden message")

	SetDebug(true)
	Get().Debug("visible message")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}

	contentStr := string(content)
	if strings.Contains(contentStr, "hidden message") {
		t.Error("Debug entry logged while debug level disabled")
	}
	if !strings.Contains(contentStr, "visible message") {
		t.Error("Debug entry missing while debug level enabled")
	}
}

func TestInit_CreatesDirectory(t *testing.T) {
	Reset()
	defer Reset()

	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "nested", "dir", "arbor.log")

	if err := Init(logPath); err != nil {
		t.Fatalf("Init: %v", err)
	}

	Get().Info("hello")

	if _, err := os.Stat(logPath); err != nil {
		t.Errorf("Log file should exist: %v", err)
	}
}

func TestInit_Idempotent(t *testing.T) {
	logPath, cleanup := setupTestLogger(t)
	defer cleanup()

	// A second Init with a different path is a no-op
	other := filepath.Join(t.TempDir(), "other.log")
	if err := Init(other); err != nil {
		t.Fatalf("second Init: %v", err)
	}

	Get().Info("after second init")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "after second init") {
		t.Error("Entries should still go to the first path")
	}
	if _, err := os.Stat(other); !os.IsNotExist(err) {
		t.Error("Second path should not have been created")
	}
}

func TestReset_AllowsReinit(t *testing.T) {
	_, cleanup := setupTestLogger(t)
	cleanup()

	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "second.log")
	if err := Init(logPath); err != nil {
		t.Fatalf("Init after Reset: %v", err)
	}
	defer Reset()

	Get().Info("fresh logger")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "fresh logger") {
		t.Error("Reinitialized logger should write to the new path")
	}
}

func TestClearLogs(t *testing.T) {
	Reset()
	defer Reset()

	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("XDG_STATE_HOME", "")
	paths.Reset()
	t.Cleanup(paths.Reset)

	logsDir := filepath.Join(tmpDir, ".arbor", "logs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"arbor.log", "old.log"} {
		if err := os.WriteFile(filepath.Join(logsDir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	count, err := ClearLogs()
	if err != nil {
		t.Fatalf("ClearLogs: %v", err)
	}
	if count != 2 {
		t.Errorf("ClearLogs removed %d files, want 2", count)
	}

	remaining, _ := filepath.Glob(filepath.Join(logsDir, "*.log"))
	if len(remaining) != 0 {
		t.Errorf("Log files remain after ClearLogs: %v", remaining)
	}
}
