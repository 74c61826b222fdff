package config

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestLevelParsing(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantLevel slog.Level
	}{
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"default for unknown", "bogus", slog.LevelInfo},
		{"default for empty", "", slog.LevelInfo},
		{"case insensitive", "DEBUG", slog.LevelDebug},
	}
	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := InitLogging(tt.level, io.Discard)
			if !logger.Enabled(ctx, tt.wantLevel) {
				t.Errorf("level %s should be enabled for input %q", tt.wantLevel, tt.level)
			}
			if tt.wantLevel > slog.LevelDebug {
				below := tt.wantLevel - 4 // slog levels are spaced by 4
				if logger.Enabled(ctx, below) {
					t.Errorf("level %s should be disabled for input %q", below, tt.level)
				}
			}
		})
	}
}

// A bytes.Buffer is never a terminal, so InitLogging must pick JSON.
func TestInitLoggingNonTerminalWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLogging("info", &buf)
	logger.With("component", "session").Info("measurement started", "backend", "dryrun")

	var m map[string]any
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("expected JSON output, got: %s", buf.String())
	}
	if m["msg"] != "measurement started" {
		t.Errorf("msg = %v, want %q", m["msg"], "measurement started")
	}
	if m["component"] != "session" {
		t.Errorf("component = %v, want %q", m["component"], "session")
	}
	if m["backend"] != "dryrun" {
		t.Errorf("backend = %v, want %q", m["backend"], "dryrun")
	}
}

func TestTTYUsesTextHandler(t *testing.T) {
	var buf bytes.Buffer
	h := newHandler(&buf, true, &slog.HandlerOptions{Level: slog.LevelInfo})
	slog.New(h).Info("test message", "key", "value")

	output := buf.String()
	if strings.Contains(output, "{") {
		t.Errorf("text handler produced JSON-like output: %s", output)
	}
	if !strings.Contains(output, "key=value") {
		t.Errorf("expected key=value in text output, got: %s", output)
	}
}

func TestInitLoggingLeavesDefaultLogger(t *testing.T) {
	before := slog.Default()
	_ = InitLogging("debug", io.Discard)
	if slog.Default() != before {
		t.Error("InitLogging must not call slog.SetDefault")
	}
}
