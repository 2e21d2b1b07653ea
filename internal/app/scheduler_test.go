package app

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/robfig/cron/v3"

	"github.com/KingBodhi/jungleverse/internal/platform/logging"
)

func TestNewScheduler_DisabledWithoutSchedule(t *testing.T) {
	t.Parallel()

	a, err := New(context.Background(), memoryConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })

	c, err := a.NewScheduler()
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	if c != nil {
		t.Fatalf("expected no scheduler when INGEST_SCHEDULE is empty")
	}
}

func TestNewScheduler_RegistersFetch(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	cfg.IngestSchedule = "0 */6 * * *"
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	cfg.IngestScheduleTZ = loc

	a, err := New(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })

	c, err := a.NewScheduler()
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}
	if got := len(c.Entries()); got != 1 {
		t.Fatalf("expected one scheduled entry, got %d", got)
	}
	if c.Location().String() != "America/New_York" {
		t.Fatalf("unexpected scheduler location: %s", c.Location())
	}
}

func TestNewScheduler_RejectsBadSpec(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	cfg.IngestSchedule = "not a schedule"

	a, err := New(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })

	if _, err := a.NewScheduler(); err == nil {
		t.Fatalf("expected error for invalid schedule")
	}
}

func TestCronLogger_RecoveredPanicGoesToStructuredLog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := cronLogger{logger: logging.New(logging.LevelInfo, logging.FormatJSON, &buf)}

	job := cron.NewChain(cron.Recover(logger)).Then(cron.FuncJob(func() { panic("scrape exploded") }))
	job.Run()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one log line, got %d: %q", len(lines), buf.String())
	}
	var payload map[string]any
	if err := sonic.UnmarshalString(lines[0], &payload); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if payload["level"] != "ERROR" || payload["msg"] != "panic" {
		t.Fatalf("unexpected payload: %v", payload)
	}
	if payload["error"] != "scrape exploded" {
		t.Fatalf("expected panic value in error field, got %v", payload["error"])
	}
}

func TestCronLogger_InfoIsDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := cronLogger{logger: logging.New(logging.LevelInfo, logging.FormatJSON, &buf)}
	logger.Info("wake", "now", time.Now())

	if buf.Len() != 0 {
		t.Fatalf("expected cron info below the info level, got %q", buf.String())
	}
}
