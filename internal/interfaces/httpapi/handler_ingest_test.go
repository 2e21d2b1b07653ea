package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/KingBodhi/jungleverse/external/providers"
	"github.com/KingBodhi/jungleverse/internal/domain/provider"
	"github.com/KingBodhi/jungleverse/internal/infrastructure/repository/memory"
	"github.com/KingBodhi/jungleverse/internal/platform/cache"
	"github.com/KingBodhi/jungleverse/internal/platform/fetchlog"
	"github.com/KingBodhi/jungleverse/internal/platform/id"
	"github.com/KingBodhi/jungleverse/internal/platform/logging"
	"github.com/KingBodhi/jungleverse/internal/platform/resilience"
	"github.com/KingBodhi/jungleverse/internal/usecase"
)

type fakeStarsConnector struct{}

func (fakeStarsConnector) Name() string                { return "PokerStars" }
func (fakeStarsConnector) Category() provider.Category { return provider.CategoryOnline }
func (fakeStarsConnector) PokerRooms() []string        { return []string{"Pokerstars"} }

func (fakeStarsConnector) FetchTournaments(_ context.Context, _ provider.FetchOptions) ([]provider.NormalizedTournament, error) {
	return []provider.NormalizedTournament{{
		PokerRoom:   "Pokerstars",
		Variant:     provider.VariantNLHE,
		StartTime:   time.Now().Add(2 * time.Hour).UTC().Truncate(time.Minute),
		BuyinAmount: 109,
	}}, nil
}

func newTestRouter(t *testing.T) (http.Handler, *cache.Store) {
	t.Helper()

	logger := logging.NewNop()
	registry := providers.NewRegistryOf(fakeStarsConnector{})
	store := cache.NewStore(time.Hour)
	t.Cleanup(store.Close)
	recorder := fetchlog.New(0, logger)

	ingestion := usecase.NewIngestionService(
		memory.NewPokerRoomRepository(memory.SeedPokerRooms()),
		memory.NewTournamentRepository(),
		memory.NewCashGameRepository(),
		id.NewUUIDGenerator(),
		logger,
	)
	orchestrator := usecase.NewOrchestratorService(registry, ingestion, recorder, 1, logger)
	monitor := usecase.NewMonitorService(
		registry,
		recorder,
		store,
		resilience.NewBreakerSet(resilience.DefaultCircuitBreakerConfig()),
		usecase.MonitorConfig{},
		logger,
	)

	return NewRouter(NewHandler(orchestrator, monitor, logger), logger, []string{"*"}), store
}

func serve(t *testing.T, router http.Handler, target string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal %s response: %v (body=%s)", target, err, rec.Body.String())
	}
	return rec.Code, body
}

func TestHandler_Healthz(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	code, body := serve(t, router, "/healthz")
	if code != http.StatusOK || body["status"] != "ok" {
		t.Fatalf("unexpected healthz response: code=%d body=%v", code, body)
	}
}

func TestHandler_Ingest_FetchAll(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	code, body := serve(t, router, "/ingest")
	if code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%v", code, body)
	}
	if body["success"] != true {
		t.Fatalf("expected success=true, got %v", body["success"])
	}
	if body["message"] != "Data fetching completed successfully (all-providers)" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
	if duration, _ := body["duration"].(string); !strings.HasSuffix(duration, "ms") {
		t.Fatalf("unexpected duration: %v", body["duration"])
	}
	rows, _ := body["providers"].([]any)
	if len(rows) != 1 {
		t.Fatalf("unexpected providers: %v", body["providers"])
	}
}

func TestHandler_Ingest_UnknownActionFallsBackToFetch(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	code, body := serve(t, router, "/ingest?action=bogus&provider=pokerstars")
	if code != http.StatusOK || body["message"] != "Data fetching completed successfully (provider:pokerstars)" {
		t.Fatalf("unexpected response: code=%d body=%v", code, body)
	}
}

func TestHandler_Ingest_UnknownProviderFails(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	code, body := serve(t, router, "/ingest?provider=Nowhere")
	if code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", code)
	}
	if body["success"] != false || body["error"] != "Data fetching failed" {
		t.Fatalf("unexpected body: %v", body)
	}
	if details, _ := body["details"].(string); !strings.Contains(details, "unknown provider") {
		t.Fatalf("unexpected details: %v", body["details"])
	}
}

func TestHandler_Ingest_ValidateRequiresProvider(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	code, body := serve(t, router, "/ingest?action=validate")
	if code != http.StatusBadRequest || body["error"] != "Provider name required for validation" {
		t.Fatalf("unexpected response: code=%d body=%v", code, body)
	}

	code, body = serve(t, router, "/ingest?action=validate&provider=PokerStars")
	if code != http.StatusOK || body["valid"] != true || body["provider"] != "PokerStars" {
		t.Fatalf("unexpected validate response: code=%d body=%v", code, body)
	}
}

func TestHandler_Ingest_StatsAndHealthAfterFetch(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	if code, _ := serve(t, router, "/ingest?action=fetch"); code != http.StatusOK {
		t.Fatalf("fetch failed: %d", code)
	}

	code, body := serve(t, router, "/ingest?action=stats&provider=PokerStars")
	if code != http.StatusOK {
		t.Fatalf("unexpected stats status: %d", code)
	}
	stats, _ := body["statistics"].(map[string]any)
	if stats["totalFetches"] != float64(1) {
		t.Fatalf("unexpected statistics: %v", body["statistics"])
	}
	health, _ := body["health"].(map[string]any)
	if health["status"] != "healthy" {
		t.Fatalf("unexpected provider health: %v", body["health"])
	}

	code, body = serve(t, router, "/ingest?action=stats")
	if code != http.StatusOK {
		t.Fatalf("unexpected all-stats status: %d", code)
	}
	if _, ok := body["recentErrors"]; !ok {
		t.Fatalf("expected recentErrors key: %v", body)
	}

	code, body = serve(t, router, "/ingest?action=health")
	if code != http.StatusOK || body["status"] != "healthy" {
		t.Fatalf("unexpected health response: code=%d body=%v", code, body)
	}

	code, body = serve(t, router, "/ingest?action=status")
	if code != http.StatusOK {
		t.Fatalf("unexpected status response code: %d", code)
	}
	if summary, _ := body["summary"].(string); !strings.HasPrefix(summary, "System: HEALTHY | Providers: 1/1 healthy") {
		t.Fatalf("unexpected summary: %v", body["summary"])
	}
}

func TestHandler_Ingest_ClearCache(t *testing.T) {
	t.Parallel()

	router, store := newTestRouter(t)
	store.Set(context.Background(), "PokerStars:tournaments:latest", 1)
	store.Set(context.Background(), "GGpoker:tournaments:latest", 1)

	code, body := serve(t, router, "/ingest?action=clear-cache&provider=PokerStars")
	if code != http.StatusOK || body["message"] != "Cache cleared for PokerStars" || body["removed"] != float64(1) {
		t.Fatalf("unexpected response: code=%d body=%v", code, body)
	}

	code, body = serve(t, router, "/ingest?action=clear-cache")
	if code != http.StatusOK || body["message"] != "All cache cleared" {
		t.Fatalf("unexpected response: code=%d body=%v", code, body)
	}
	if store.Stats().Size != 0 {
		t.Fatalf("expected empty cache")
	}
}

func TestHandler_Ingest_RejectsOversizedProvider(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	code, body := serve(t, router, "/ingest?provider="+strings.Repeat("x", 65))
	if code != http.StatusBadRequest || body["error"] != "Invalid request" {
		t.Fatalf("unexpected response: code=%d body=%v", code, body)
	}
}

func TestRouter_RecoversPanics(t *testing.T) {
	t.Parallel()

	logger := logging.NewNop()
	router := NewRouter(NewHandler(nil, nil, logger), logger, nil)

	code, body := serve(t, router, "/ingest?action=health")
	if code != http.StatusInternalServerError || body["error"] != "Request failed" {
		t.Fatalf("unexpected response: code=%d body=%v", code, body)
	}
}
