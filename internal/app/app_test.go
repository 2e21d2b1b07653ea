package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/KingBodhi/jungleverse/internal/config"
	"github.com/KingBodhi/jungleverse/internal/platform/logging"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:                  config.EnvDev,
		HTTPAddr:                ":0",
		StorageDriver:           config.StorageMemory,
		CacheDefaultTTL:         time.Hour,
		CacheSweepInterval:      time.Minute,
		FetchLogCapacity:        100,
		ProviderTimeout:         time.Second,
		ProviderCircuitEnabled:  true,
		ProviderCircuitFailures: 3,
		ProviderCircuitOpen:     time.Second,
		ProviderCircuitHalfOpen: 1,
		IngestConcurrency:       2,
		CORSAllowedOrigins:      []string{"*"},
	}
}

func TestNew_MemoryStorage(t *testing.T) {
	t.Parallel()

	a, err := New(context.Background(), memoryConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })

	if got := len(a.Registry.All()); got != 8 {
		t.Fatalf("expected 8 registered connectors, got %d", got)
	}

	rooms, err := a.Rooms.List(context.Background())
	if err != nil {
		t.Fatalf("list rooms: %v", err)
	}
	if len(rooms) == 0 {
		t.Fatalf("expected seeded rooms in memory storage")
	}
}

func TestNewHTTPServer_ServesHealthz(t *testing.T) {
	t.Parallel()

	a, err := New(context.Background(), memoryConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })

	srv, err := a.NewHTTPServer()
	if err != nil {
		t.Fatalf("new http server: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected healthz status: %d", rec.Code)
	}
}

func TestNewHTTPServer_RequiresAddr(t *testing.T) {
	t.Parallel()

	cfg := memoryConfig()
	cfg.HTTPAddr = ""
	a, err := New(context.Background(), cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })

	if _, err := a.NewHTTPServer(); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}
