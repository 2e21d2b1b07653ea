package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/KingBodhi/jungleverse/internal/platform/fetchlog"
	"github.com/KingBodhi/jungleverse/internal/usecase"
)

const (
	actionFetch      = "fetch"
	actionStatus     = "status"
	actionHealth     = "health"
	actionStats      = "stats"
	actionValidate   = "validate"
	actionClearCache = "clear-cache"

	recentErrorLimit = 10
)

type ingestQuery struct {
	Provider string `validate:"omitempty,max=64,printascii"`
	Action   string `validate:"omitempty,max=32"`
}

type fetchResponse struct {
	Success   bool                          `json:"success"`
	Message   string                        `json:"message"`
	Duration  string                        `json:"duration"`
	Timestamp time.Time                     `json:"timestamp"`
	Warnings  []string                      `json:"warnings"`
	Totals    usecase.IngestStats           `json:"totals"`
	Providers []usecase.ProviderFetchResult `json:"providers"`
}

type fetchFailedResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details"`
}

type statusResponse struct {
	Summary         string               `json:"summary"`
	Health          usecase.SystemHealth `json:"health"`
	Recommendations []string             `json:"recommendations"`
	Timestamp       time.Time            `json:"timestamp"`
}

type healthResponse struct {
	Status    usecase.HealthStatus     `json:"status"`
	Providers []usecase.ProviderHealth `json:"providers"`
	Cache     any                      `json:"cache"`
	Breakers  any                      `json:"breakers,omitempty"`
	Timestamp time.Time                `json:"timestamp"`
}

type providerStatsResponse struct {
	Provider   string                 `json:"provider"`
	Statistics fetchlog.ProviderStats `json:"statistics"`
	Health     usecase.ProviderHealth `json:"health"`
	Timestamp  time.Time              `json:"timestamp"`
}

type allStatsResponse struct {
	Providers    map[string]fetchlog.ProviderStats `json:"providers"`
	RecentErrors []fetchlog.Entry                  `json:"recentErrors"`
	Timestamp    time.Time                         `json:"timestamp"`
}

type validateResponse struct {
	Provider  string    `json:"provider"`
	Valid     bool      `json:"valid"`
	Issues    []string  `json:"issues"`
	Timestamp time.Time `json:"timestamp"`
}

type clearCacheResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Removed   *int      `json:"removed,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Ingest serves GET /ingest?provider=&action=. Unknown actions fall back to
// a fetch.
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Ingest")
	defer span.End()

	query := ingestQuery{
		Provider: strings.TrimSpace(r.URL.Query().Get("provider")),
		Action:   strings.ToLower(strings.TrimSpace(r.URL.Query().Get("action"))),
	}
	if err := h.validator.Struct(query); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	switch query.Action {
	case actionStatus:
		report := h.monitor.Report()
		writeJSON(ctx, w, http.StatusOK, statusResponse{
			Summary:         report.Summary,
			Health:          report.Health,
			Recommendations: report.Recommendations,
			Timestamp:       h.now().UTC(),
		})
	case actionHealth:
		health := h.monitor.SystemHealth()
		writeJSON(ctx, w, http.StatusOK, healthResponse{
			Status:    health.Status,
			Providers: health.Providers,
			Cache:     health.Cache,
			Breakers:  health.Breakers,
			Timestamp: health.Timestamp,
		})
	case actionStats:
		h.writeStats(ctx, w, query.Provider)
	case actionValidate:
		if query.Provider == "" {
			writeJSON(ctx, w, http.StatusBadRequest, errorResponse{
				Error:   "Provider name required for validation",
				Details: "set the provider query parameter",
			})
			return
		}
		result := h.monitor.Validate(ctx, query.Provider)
		writeJSON(ctx, w, http.StatusOK, validateResponse{
			Provider:  query.Provider,
			Valid:     result.Valid,
			Issues:    result.Issues,
			Timestamp: result.Timestamp,
		})
	case actionClearCache:
		h.writeClearCache(ctx, w, query.Provider)
	default:
		h.writeFetch(ctx, w, query.Provider)
	}
}

func (h *Handler) writeFetch(ctx context.Context, w http.ResponseWriter, providerName string) {
	started := h.now()

	result, err := h.orchestrator.FetchAll(ctx, providerName)
	if err != nil {
		h.logger.ErrorContext(ctx, "provider fetch failed", "provider", providerName, "error", err)
		writeJSON(ctx, w, http.StatusInternalServerError, fetchFailedResponse{
			Success: false,
			Error:   "Data fetching failed",
			Details: err.Error(),
		})
		return
	}

	scope := "all-providers"
	if providerName != "" {
		scope = "provider:" + providerName
	}
	writeJSON(ctx, w, http.StatusOK, fetchResponse{
		Success:   true,
		Message:   fmt.Sprintf("Data fetching completed successfully (%s)", scope),
		Duration:  fmt.Sprintf("%dms", h.now().Sub(started).Milliseconds()),
		Timestamp: h.now().UTC(),
		Warnings:  result.Warnings,
		Totals:    result.Totals,
		Providers: result.Providers,
	})
}

func (h *Handler) writeStats(ctx context.Context, w http.ResponseWriter, providerName string) {
	if providerName != "" {
		writeJSON(ctx, w, http.StatusOK, providerStatsResponse{
			Provider:   providerName,
			Statistics: h.monitor.ProviderStatistics(providerName),
			Health:     h.monitor.ProviderHealth(providerName),
			Timestamp:  h.now().UTC(),
		})
		return
	}

	writeJSON(ctx, w, http.StatusOK, allStatsResponse{
		Providers:    h.monitor.AllProviderStats(),
		RecentErrors: h.monitor.RecentErrors(recentErrorLimit),
		Timestamp:    h.now().UTC(),
	})
}

func (h *Handler) writeClearCache(ctx context.Context, w http.ResponseWriter, providerName string) {
	if providerName != "" {
		removed := h.monitor.ClearProviderCache(ctx, providerName)
		writeJSON(ctx, w, http.StatusOK, clearCacheResponse{
			Success:   true,
			Message:   "Cache cleared for " + providerName,
			Removed:   &removed,
			Timestamp: h.now().UTC(),
		})
		return
	}

	h.monitor.ClearAllCache(ctx)
	writeJSON(ctx, w, http.StatusOK, clearCacheResponse{
		Success:   true,
		Message:   "All cache cleared",
		Timestamp: h.now().UTC(),
	})
}
