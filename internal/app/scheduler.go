package app

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/KingBodhi/jungleverse/internal/platform/logging"
)

const scheduledFetchTimeout = 10 * time.Minute

// NewScheduler registers a full provider fetch on INGEST_SCHEDULE. It returns
// nil when no schedule is configured. Overlapping runs are skipped.
func (a *App) NewScheduler() (*cron.Cron, error) {
	if a.Config.IngestSchedule == "" {
		return nil, nil
	}

	loc := a.Config.IngestScheduleTZ
	if loc == nil {
		loc = time.UTC
	}

	logger := cronLogger{logger: a.Logger.Named("cron")}
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	if _, err := c.AddFunc(a.Config.IngestSchedule, a.runScheduledFetch); err != nil {
		return nil, fmt.Errorf("register ingest schedule %q: %w", a.Config.IngestSchedule, err)
	}

	return c, nil
}

func (a *App) runScheduledFetch() {
	ctx, cancel := context.WithTimeout(context.Background(), scheduledFetchTimeout)
	defer cancel()

	result, err := a.Orchestrator.FetchAll(ctx, "")
	if err != nil {
		a.Logger.Error("scheduled fetch failed", "error", err)
		return
	}

	a.Logger.Info("scheduled fetch completed",
		"providers", len(result.Providers),
		"created", result.Totals.Created,
		"updated", result.Totals.Updated,
		"skipped", result.Totals.Skipped,
		"unresolved", result.Totals.Unresolved,
		"failed", result.Totals.Failed,
		"warnings", len(result.Warnings),
		"duration_ms", result.Duration.Milliseconds(),
	)
}

// cronLogger adapts logging.Logger to cron.Logger. cron reports every tick
// through Info, so those lines go to debug.
type cronLogger struct {
	logger *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}
