package logging

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func readLogLines(t *testing.T, path string) []map[string]any {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log file: %v", err)
	}
	defer f.Close()

	var lines []map[string]any
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("log line is not JSON: %v: %s", err, scanner.Text())
		}
		lines = append(lines, entry)
	}
	return lines
}

func TestNewLogger_WritesJSONToStateDir(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogger(dir, "debug", DefaultRotationConfig())
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	logger.Info("loop started", "iteration", 1)
	logger.Debug("detail", "key", "value")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	lines := readLogLines(t, filepath.Join(dir, LogFileName))
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(lines))
	}
	if lines[0]["msg"] != "loop started" {
		t.Errorf("unexpected first message: %v", lines[0]["msg"])
	}
	if lines[0]["iteration"] != float64(1) {
		t.Errorf("expected iteration attribute, got %v", lines[0]["iteration"])
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogger(dir, "warn", DefaultRotationConfig())
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	logger.Debug("dropped")
	logger.Info("dropped too")
	logger.Warn("kept")
	logger.Error("also kept")
	_ = logger.Close()

	lines := readLogLines(t, filepath.Join(dir, LogFileName))
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines at warn level, got %d", len(lines))
	}
}

func TestLogger_PersistentAttributes(t *testing.T) {
	dir := t.TempDir()

	logger, err := NewLogger(dir, "info", DefaultRotationConfig())
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	child := logger.WithPhase("driver").WithRun("abcd1234")
	child.Info("iteration started", "iteration", 2)
	_ = logger.Close()

	lines := readLogLines(t, filepath.Join(dir, LogFileName))
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	entry := lines[0]
	if entry["phase"] != "driver" {
		t.Errorf("expected phase attribute, got %v", entry["phase"])
	}
	if entry["run_id"] != "abcd1234" {
		t.Errorf("expected run_id attribute, got %v", entry["run_id"])
	}
}

func TestLogger_WithDoesNotMutateParent(t *testing.T) {
	logger := NopLogger()

	child := logger.With("key", "value")
	if child == logger {
		t.Fatal("With must return a child logger")
	}
	if len(logger.attrs) != 0 {
		t.Error("parent attributes mutated by With")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()
	// Must not panic or write anywhere
	logger.Info("ignored")
	if err := logger.Close(); err != nil {
		t.Errorf("Close on nop logger failed: %v", err)
	}
}
