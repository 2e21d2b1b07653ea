package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
)

func TestLogger_JSONFieldsFromArgs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(LevelInfo, FormatJSON, &buf).With("component", "ingest")
	logger.Info("fetched", "provider", "WSOP", "count", 3, "error", errors.New("partial"))
	logger.Debug("dropped below level")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one log line, got %d: %q", len(lines), buf.String())
	}

	var payload map[string]any
	if err := sonic.UnmarshalString(lines[0], &payload); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if payload["msg"] != "fetched" || payload["provider"] != "WSOP" || payload["component"] != "ingest" {
		t.Fatalf("unexpected payload: %v", payload)
	}
	if payload["error"] != "partial" {
		t.Fatalf("expected error field, got %v", payload["error"])
	}
	if caller, _ := payload["caller"].(string); !strings.Contains(caller, "logger_test.go") {
		t.Fatalf("caller should point at the call site, got %q", caller)
	}
}

func TestLogger_ContextWithoutSpanHasNoTraceFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(LevelDebug, FormatJSON, &buf)
	logger.WarnContext(context.Background(), "no span")

	if strings.Contains(buf.String(), "trace_id") {
		t.Fatalf("unexpected trace fields: %s", buf.String())
	}
}

func TestLogger_NilReceiverFallsBackToDefault(t *testing.T) {
	var l *Logger
	l.Info("ignored")
	if l.With("k", "v") == nil {
		t.Fatalf("With on nil logger should return a usable logger")
	}
}
