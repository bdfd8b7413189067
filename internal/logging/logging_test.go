package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("Level(%d).String() = %q, expected %q", tt.level, got, tt.expected)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{" warn ", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"info", LevelInfo},
		{"", LevelInfo},
		{"loud", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelWarn, Output: &buf, Prefix: "test"})

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown %d", 1)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected debug and info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "[WARN] test: shown 1") {
		t.Errorf("expected warn line, got %q", out)
	}
}

func TestLoggerFieldsSorted(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelDebug, Output: &buf})

	l.WithComponent("caret").WithFields(map[string]any{"probes": 3, "line": 0}).Debug("located")

	if !strings.HasSuffix(buf.String(), "located {component=caret, line=0, probes=3}\n") {
		t.Errorf("unexpected line %q", buf.String())
	}
}

func TestDerivedLoggerSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	root := New(Config{Level: LevelError, Output: &buf})
	child := root.WithComponent("cursor")

	root.SetLevel(LevelDebug)
	child.Debug("now visible")

	if !strings.Contains(buf.String(), "now visible") {
		t.Error("expected level change on root to apply to derived logger")
	}
	if child.Level() != LevelDebug {
		t.Errorf("expected LevelDebug, got %v", child.Level())
	}
}

func TestNullLogger(t *testing.T) {
	l := Null()
	l.Error("nothing")
	l.WithField("k", "v").Info("nothing")

	var nilLogger *Logger
	nilLogger.Info("no panic")
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tinyedit.log")
	l, closer, err := OpenFile(path, LevelInfo)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l.Info("hello")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[INFO] tinyedit: hello") {
		t.Errorf("unexpected file content %q", data)
	}
}

func TestOpenFileEmptyPath(t *testing.T) {
	l, closer, err := OpenFile("", LevelDebug)
	if err != nil || l == nil || closer == nil {
		t.Fatalf("expected null logger, got %v %v %v", l, closer, err)
	}
	l.Info("discarded")
	_ = closer.Close()
}

func TestDisableEnable(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: LevelDebug, Output: &buf})
	child := l.WithComponent("app")

	l.Disable()
	child.Info("muted")
	l.Enable()
	child.Info("audible")

	out := buf.String()
	if strings.Contains(out, "muted") {
		t.Errorf("expected no output while disabled, got %q", out)
	}
	if !strings.Contains(out, "audible") {
		t.Errorf("expected output after Enable, got %q", out)
	}
}
