package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/KingBodhi/jungleverse/internal/domain/provider"
	"github.com/KingBodhi/jungleverse/internal/platform/logging"
)

// ConnectorRegistry is the ordered set of connectors a fetch cycle walks.
type ConnectorRegistry interface {
	All() []provider.Connector
	Find(name string) (provider.Connector, bool)
}

// FetchRecorder receives the outcome of every connector fetch.
type FetchRecorder interface {
	LogSuccess(providerName string, dataType provider.DataType, recordCount int, duration time.Duration)
	LogError(providerName string, dataType provider.DataType, err error, duration time.Duration)
}

type FetchResult struct {
	Providers []ProviderFetchResult `json:"providers"`
	Warnings  []string              `json:"warnings"`
	Totals    IngestStats           `json:"totals"`
	Duration  time.Duration         `json:"-"`
}

type ProviderFetchResult struct {
	Provider    string           `json:"provider"`
	Tournaments *DataFetchResult `json:"tournaments,omitempty"`
	CashGames   *DataFetchResult `json:"cashGames,omitempty"`
}

type DataFetchResult struct {
	Fetched    int         `json:"fetched"`
	Ingested   IngestStats `json:"ingested"`
	DurationMs int64       `json:"durationMs"`
	Error      string      `json:"error,omitempty"`
}

type OrchestratorService struct {
	registry    ConnectorRegistry
	ingestion   *IngestionService
	recorder    FetchRecorder
	logger      *logging.Logger
	concurrency int
	now         func() time.Time
}

func NewOrchestratorService(
	registry ConnectorRegistry,
	ingestion *IngestionService,
	recorder FetchRecorder,
	concurrency int,
	logger *logging.Logger,
) *OrchestratorService {
	if logger == nil {
		logger = logging.Default()
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	return &OrchestratorService{
		registry:    registry,
		ingestion:   ingestion,
		recorder:    recorder,
		logger:      logger,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// FetchAll runs every registered connector, or only providerName when it is
// set. A failing connector is reported as a warning and never stops the
// others; only an unknown provider name fails the call.
func (s *OrchestratorService) FetchAll(ctx context.Context, providerName string) (FetchResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OrchestratorService.FetchAll")
	defer span.End()

	connectors, err := s.selectConnectors(providerName)
	if err != nil {
		return FetchResult{}, err
	}

	started := s.now()
	run := s.ingestion.NewRun()
	s.logger.InfoContext(ctx, "provider fetch started", "providers", len(connectors), "concurrency", s.concurrency)

	var rows []providerRun
	workerCount := min(s.concurrency, len(connectors))
	if workerCount <= 1 {
		rows, err = s.runSequential(ctx, run, connectors)
	} else {
		rows, err = s.runPooled(ctx, run, connectors, workerCount)
	}
	if err != nil {
		return FetchResult{}, err
	}

	result := FetchResult{
		Providers: make([]ProviderFetchResult, 0, len(rows)),
		Warnings:  make([]string, 0),
	}
	for _, row := range rows {
		result.Providers = append(result.Providers, row.result)
		result.Warnings = append(result.Warnings, row.warnings...)
		if row.result.Tournaments != nil {
			result.Totals = result.Totals.Add(row.result.Tournaments.Ingested)
		}
		if row.result.CashGames != nil {
			result.Totals = result.Totals.Add(row.result.CashGames.Ingested)
		}
	}
	result.Duration = s.now().Sub(started)

	s.logger.InfoContext(ctx, "provider fetch completed",
		"providers", len(rows),
		"warnings", len(result.Warnings),
		"created", result.Totals.Created,
		"updated", result.Totals.Updated,
		"skipped", result.Totals.Skipped,
		"unresolved", result.Totals.Unresolved,
		"failed", result.Totals.Failed,
		"duration_ms", result.Duration.Milliseconds(),
	)

	return result, nil
}

func (s *OrchestratorService) selectConnectors(providerName string) ([]provider.Connector, error) {
	providerName = strings.TrimSpace(providerName)
	if providerName == "" {
		return s.registry.All(), nil
	}

	connector, ok := s.registry.Find(providerName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, providerName)
	}
	return []provider.Connector{connector}, nil
}

type providerRun struct {
	index    int
	result   ProviderFetchResult
	warnings []string
}

func (s *OrchestratorService) runSequential(ctx context.Context, run *IngestRun, connectors []provider.Connector) ([]providerRun, error) {
	rows := make([]providerRun, 0, len(connectors))
	for idx, connector := range connectors {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("provider fetch cancelled: %w", err)
		}
		rows = append(rows, s.runConnector(ctx, run, idx, connector))
	}
	return rows, nil
}

func (s *OrchestratorService) runPooled(ctx context.Context, run *IngestRun, connectors []provider.Connector, workerCount int) ([]providerRun, error) {
	results := make(chan providerRun, len(connectors))
	var failedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for idx, connector := range connectors {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			row := s.runConnector(ctx, run, idx, connector)
			if len(row.warnings) > 0 {
				failedCount.Add(1)
			}
			results <- row
		}); err != nil {
			workers.Done()
			return nil, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	rows := make([]providerRun, len(connectors))
	for row := range results {
		rows[row.index] = row
	}
	s.logger.DebugContext(ctx, "pooled provider fetch finished", "workers", workerCount, "providers_with_warnings", failedCount.Load())

	return rows, nil
}

func (s *OrchestratorService) runConnector(ctx context.Context, run *IngestRun, index int, connector provider.Connector) providerRun {
	name := connector.Name()
	row := providerRun{
		index:  index,
		result: ProviderFetchResult{Provider: name},
	}

	if source, ok := connector.(provider.TournamentSource); ok {
		res := s.fetchData(ctx, name, provider.DataTypeTournaments, func(ctx context.Context) (int, ingestFunc, error) {
			items, err := source.FetchTournaments(ctx, provider.FetchOptions{})
			if err != nil {
				return 0, nil, err
			}
			return len(items), func(ctx context.Context) IngestStats { return run.IngestTournaments(ctx, items) }, nil
		})
		row.result.Tournaments = &res
		row.warnings = append(row.warnings, dataWarnings(name, provider.DataTypeTournaments, res)...)
	}

	if source, ok := connector.(provider.CashGameSource); ok {
		res := s.fetchData(ctx, name, provider.DataTypeCashGames, func(ctx context.Context) (int, ingestFunc, error) {
			items, err := source.FetchCashGames(ctx, provider.FetchOptions{})
			if err != nil {
				return 0, nil, err
			}
			return len(items), func(ctx context.Context) IngestStats { return run.IngestCashGames(ctx, items) }, nil
		})
		row.result.CashGames = &res
		row.warnings = append(row.warnings, dataWarnings(name, provider.DataTypeCashGames, res)...)
	}

	return row
}

type ingestFunc func(ctx context.Context) IngestStats

// fetchData times and records the fetch, then ingests what it returned. A
// connector panic is reported as an ordinary fetch error.
func (s *OrchestratorService) fetchData(
	ctx context.Context,
	name string,
	dataType provider.DataType,
	fetch func(ctx context.Context) (int, ingestFunc, error),
) (res DataFetchResult) {
	started := s.now()
	defer func() {
		if recovered := recover(); recovered != nil {
			err := fmt.Errorf("connector panic: %v", recovered)
			res = DataFetchResult{
				DurationMs: s.now().Sub(started).Milliseconds(),
				Error:      err.Error(),
			}
			s.recordError(ctx, name, dataType, err, s.now().Sub(started))
		}
	}()

	fetched, ingest, err := fetch(ctx)
	duration := s.now().Sub(started)
	res.DurationMs = duration.Milliseconds()
	if err != nil {
		res.Error = err.Error()
		s.recordError(ctx, name, dataType, err, duration)
		return res
	}

	res.Fetched = fetched
	if s.recorder != nil {
		s.recorder.LogSuccess(name, dataType, fetched, duration)
	}
	stats := ingest(ctx)
	res.Ingested = stats
	s.logger.InfoContext(ctx, "provider data ingested",
		"provider", name,
		"data_type", string(dataType),
		"fetched", fetched,
		"created", stats.Created,
		"updated", stats.Updated,
		"skipped", stats.Skipped,
		"unresolved", stats.Unresolved,
		"failed", stats.Failed,
	)

	return res
}

func (s *OrchestratorService) recordError(ctx context.Context, name string, dataType provider.DataType, err error, duration time.Duration) {
	if s.recorder != nil {
		s.recorder.LogError(name, dataType, err, duration)
	}
	s.logger.WarnContext(ctx, "provider fetch failed", "provider", name, "data_type", string(dataType), "error", err)
}

func dataWarnings(name string, dataType provider.DataType, res DataFetchResult) []string {
	var out []string
	if res.Error != "" {
		out = append(out, fmt.Sprintf("%s %s: %s", name, dataType, res.Error))
	}
	if res.Ingested.Unresolved > 0 {
		out = append(out, fmt.Sprintf("%s %s: %d records skipped for unknown poker rooms", name, dataType, res.Ingested.Unresolved))
	}
	return out
}
