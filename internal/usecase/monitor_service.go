package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/valyala/bytebufferpool"

	"github.com/KingBodhi/jungleverse/internal/domain/provider"
	"github.com/KingBodhi/jungleverse/internal/platform/cache"
	"github.com/KingBodhi/jungleverse/internal/platform/fetchlog"
	"github.com/KingBodhi/jungleverse/internal/platform/logging"
	"github.com/KingBodhi/jungleverse/internal/platform/resilience"
)

type HealthStatus string

const (
	HealthHealthy  HealthStatus = "healthy"
	HealthDegraded HealthStatus = "degraded"
	HealthDown     HealthStatus = "down"
)

const (
	DefaultSlowResponseThreshold = 5 * time.Second

	validationSampleSize = 5
	staleTournamentAge   = 24 * time.Hour
)

type FetchStatsReader interface {
	ProviderStats(providerName string) fetchlog.ProviderStats
	AllProviderStats() map[string]fetchlog.ProviderStats
	Errors(n int) []fetchlog.Entry
}

type ProviderCache interface {
	Stats() cache.Stats
	DeletePrefix(ctx context.Context, prefix string) int
	Clear()
}

type BreakerReporter interface {
	Snapshots() []resilience.BreakerSnapshot
}

type ProviderHealth struct {
	Provider            string       `json:"provider"`
	Status              HealthStatus `json:"status"`
	LastSuccessfulFetch *time.Time   `json:"lastSuccessfulFetch,omitempty"`
	LastError           string       `json:"lastError,omitempty"`
	SuccessRate         float64      `json:"successRate"`
	AvgResponseTime     *float64     `json:"avgResponseTime,omitempty"`
}

type SystemHealth struct {
	Status    HealthStatus                 `json:"status"`
	Providers []ProviderHealth             `json:"providers"`
	Cache     cache.Stats                  `json:"cache"`
	Breakers  []resilience.BreakerSnapshot `json:"breakers,omitempty"`
	Timestamp time.Time                    `json:"timestamp"`
}

type ValidationResult struct {
	Provider  string    `json:"provider"`
	Valid     bool      `json:"valid"`
	Issues    []string  `json:"issues"`
	Timestamp time.Time `json:"timestamp"`
}

type HealthReport struct {
	Summary         string       `json:"summary"`
	Health          SystemHealth `json:"health"`
	Recommendations []string     `json:"recommendations"`
	Timestamp       time.Time    `json:"timestamp"`
}

type MonitorConfig struct {
	SlowResponseThreshold time.Duration
}

type MonitorService struct {
	registry      ConnectorRegistry
	stats         FetchStatsReader
	cache         ProviderCache
	breakers      BreakerReporter
	validate      *validator.Validate
	slowThreshold time.Duration
	logger        *logging.Logger
	now           func() time.Time
}

func NewMonitorService(
	registry ConnectorRegistry,
	stats FetchStatsReader,
	providerCache ProviderCache,
	breakers BreakerReporter,
	cfg MonitorConfig,
	logger *logging.Logger,
) *MonitorService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.SlowResponseThreshold <= 0 {
		cfg.SlowResponseThreshold = DefaultSlowResponseThreshold
	}

	return &MonitorService{
		registry:      registry,
		stats:         stats,
		cache:         providerCache,
		breakers:      breakers,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
		slowThreshold: cfg.SlowResponseThreshold,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *MonitorService) ProviderHealth(providerName string) ProviderHealth {
	stats := s.stats.ProviderStats(providerName)

	status := HealthHealthy
	switch {
	case stats.TotalFetches == 0, stats.SuccessRate < 0.5:
		status = HealthDown
	case stats.SuccessRate < 0.8:
		status = HealthDegraded
	}

	return ProviderHealth{
		Provider:            providerName,
		Status:              status,
		LastSuccessfulFetch: stats.LastSuccess,
		LastError:           stats.LastError,
		SuccessRate:         stats.SuccessRate,
		AvgResponseTime:     stats.AvgDuration,
	}
}

func (s *MonitorService) SystemHealth() SystemHealth {
	connectors := s.registry.All()
	providers := make([]ProviderHealth, 0, len(connectors))
	downCount, degradedCount := 0, 0
	for _, connector := range connectors {
		item := s.ProviderHealth(connector.Name())
		switch item.Status {
		case HealthDown:
			downCount++
		case HealthDegraded:
			degradedCount++
		}
		providers = append(providers, item)
	}

	total := float64(len(providers))
	status := HealthHealthy
	switch {
	case float64(downCount) > total/2:
		status = HealthDown
	case downCount > 0, float64(degradedCount) > total/3:
		status = HealthDegraded
	}

	out := SystemHealth{
		Status:    status,
		Providers: providers,
		Cache:     s.cache.Stats(),
		Timestamp: s.now().UTC(),
	}
	if s.breakers != nil {
		out.Breakers = s.breakers.Snapshots()
	}

	return out
}

// Validate runs an uncached fetch against one connector and samples the
// first records of each data kind for shape problems.
func (s *MonitorService) Validate(ctx context.Context, providerName string) ValidationResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.MonitorService.Validate")
	defer span.End()

	result := ValidationResult{
		Provider:  providerName,
		Issues:    make([]string, 0),
		Timestamp: s.now().UTC(),
	}

	connector, ok := s.registry.Find(providerName)
	if !ok {
		result.Issues = append(result.Issues, "Provider not found in registry")
		return result
	}
	result.Provider = connector.Name()
	opts := provider.FetchOptions{SkipCache: true}

	if source, ok := connector.(provider.TournamentSource); ok {
		items, err := source.FetchTournaments(ctx, opts)
		if err != nil {
			return s.validationFailed(ctx, result, err)
		}
		if len(items) == 0 {
			result.Issues = append(result.Issues, "No tournaments returned")
		}
		for _, item := range items[:min(len(items), validationSampleSize)] {
			result.Issues = append(result.Issues, s.tournamentIssues(item)...)
		}
	}

	if source, ok := connector.(provider.CashGameSource); ok {
		items, err := source.FetchCashGames(ctx, opts)
		if err != nil {
			return s.validationFailed(ctx, result, err)
		}
		if len(items) == 0 {
			result.Issues = append(result.Issues, "No cash games returned")
		}
		for _, item := range items[:min(len(items), validationSampleSize)] {
			result.Issues = append(result.Issues, s.cashGameIssues(item)...)
		}
	}

	result.Valid = len(result.Issues) == 0
	return result
}

func (s *MonitorService) validationFailed(ctx context.Context, result ValidationResult, err error) ValidationResult {
	s.logger.WarnContext(ctx, "provider validation fetch failed", "provider", result.Provider, "error", err)
	result.Valid = false
	result.Issues = []string{"Validation error: " + err.Error()}
	return result
}

func (s *MonitorService) tournamentIssues(item provider.NormalizedTournament) []string {
	issues := fieldIssues(s.validate.Struct(item), map[string]string{
		"PokerRoom":   "Missing pokerRoom field",
		"Variant":     "Missing variant field",
		"StartTime":   "Missing startTime field",
		"BuyinAmount": "Invalid buyinAmount",
	})
	if !item.StartTime.IsZero() && item.StartTime.Before(s.now().Add(-staleTournamentAge)) {
		issues = append(issues, "Tournament in the past (>24h)")
	}
	return issues
}

func (s *MonitorService) cashGameIssues(item provider.NormalizedCashGame) []string {
	issues := fieldIssues(s.validate.Struct(item), map[string]string{
		"PokerRoom":  "Missing pokerRoom field",
		"Variant":    "Missing variant field",
		"SmallBlind": "Invalid blinds",
		"BigBlind":   "Invalid blinds",
		"MinBuyin":   "Invalid buy-in range",
		"MaxBuyin":   "Invalid buy-in range",
	})
	if item.MinBuyin > item.MaxBuyin && !containsString(issues, "Min buy-in exceeds max buy-in") {
		issues = append(issues, "Min buy-in exceeds max buy-in")
	}
	return issues
}

// fieldIssues maps validator failures to one message per distinct field
// message, in field declaration order.
func fieldIssues(err error, messages map[string]string) []string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}

	out := make([]string, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		message, ok := messages[fieldErr.StructField()]
		if !ok {
			message = fmt.Sprintf("Invalid %s (%s)", fieldErr.Field(), fieldErr.Tag())
		}
		if fieldErr.Tag() == "gtefield" {
			message = "Min buy-in exceeds max buy-in"
		}
		if !containsString(out, message) {
			out = append(out, message)
		}
	}
	return out
}

func (s *MonitorService) Report() HealthReport {
	health := s.SystemHealth()
	recommendations := make([]string, 0)
	healthy := 0

	for _, item := range health.Providers {
		switch item.Status {
		case HealthHealthy:
			healthy++
		case HealthDown:
			lastError := item.LastError
			if lastError == "" {
				lastError = "Unknown"
			}
			recommendations = append(recommendations, fmt.Sprintf("%s is down. Last error: %s", item.Provider, lastError))
		case HealthDegraded:
			recommendations = append(recommendations, fmt.Sprintf("%s is degraded (success rate: %.1f%%)", item.Provider, item.SuccessRate*100))
		}

		if item.AvgResponseTime != nil && *item.AvgResponseTime > float64(s.slowThreshold.Milliseconds()) {
			recommendations = append(recommendations, fmt.Sprintf("%s has slow response times (avg: %.0fms)", item.Provider, *item.AvgResponseTime))
		}
	}

	if float64(health.Cache.Expired) > float64(health.Cache.Size)*0.3 {
		recommendations = append(recommendations, fmt.Sprintf("High cache expiration rate (%d/%d)", health.Cache.Expired, health.Cache.Size))
	}

	return HealthReport{
		Summary:         reportSummary(health, healthy),
		Health:          health,
		Recommendations: recommendations,
		Timestamp:       health.Timestamp,
	}
}

func reportSummary(health SystemHealth, healthy int) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("System: ")
	_, _ = buf.WriteString(strings.ToUpper(string(health.Status)))
	_, _ = buf.WriteString(" | Providers: ")
	_, _ = buf.WriteString(strconv.Itoa(healthy))
	_ = buf.WriteByte('/')
	_, _ = buf.WriteString(strconv.Itoa(len(health.Providers)))
	_, _ = buf.WriteString(" healthy | Cache: ")
	_, _ = buf.WriteString(strconv.Itoa(health.Cache.Size))
	_, _ = buf.WriteString(" entries")

	return buf.String()
}

// ClearProviderCache drops every cached result of one provider and reports
// how many entries were removed.
func (s *MonitorService) ClearProviderCache(ctx context.Context, providerName string) int {
	name := strings.TrimSpace(providerName)
	if connector, ok := s.registry.Find(name); ok {
		name = connector.Name()
	}
	removed := s.cache.DeletePrefix(ctx, name+":")
	s.logger.InfoContext(ctx, "provider cache cleared", "provider", name, "removed", removed)
	return removed
}

func (s *MonitorService) ClearAllCache(ctx context.Context) {
	s.cache.Clear()
	s.logger.InfoContext(ctx, "provider cache cleared", "provider", "all")
}

func (s *MonitorService) ProviderStatistics(providerName string) fetchlog.ProviderStats {
	return s.stats.ProviderStats(providerName)
}

func (s *MonitorService) AllProviderStats() map[string]fetchlog.ProviderStats {
	return s.stats.AllProviderStats()
}

func (s *MonitorService) RecentErrors(n int) []fetchlog.Entry {
	if n <= 0 {
		n = 20
	}
	return s.stats.Errors(n)
}

func containsString(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
