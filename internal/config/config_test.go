package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("INGEST_SCHEDULE", "")
	t.Setenv("POKERATLAS_ROOMS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StorageDriver != StorageMemory {
		t.Fatalf("unexpected StorageDriver: %q", cfg.StorageDriver)
	}
	if cfg.CacheDefaultTTL != time.Hour || cfg.CacheSweepInterval != 10*time.Minute {
		t.Fatalf("unexpected cache defaults: ttl=%s sweep=%s", cfg.CacheDefaultTTL, cfg.CacheSweepInterval)
	}
	if cfg.FetchLogCapacity != 1000 {
		t.Fatalf("unexpected FetchLogCapacity: %d", cfg.FetchLogCapacity)
	}
	if cfg.ProviderTimeout != 20*time.Second {
		t.Fatalf("unexpected ProviderTimeout: %s", cfg.ProviderTimeout)
	}
	if cfg.IngestConcurrency != 1 {
		t.Fatalf("unexpected IngestConcurrency: %d", cfg.IngestConcurrency)
	}
	if cfg.MonitorSlowThreshold != 5*time.Second {
		t.Fatalf("unexpected MonitorSlowThreshold: %s", cfg.MonitorSlowThreshold)
	}
	if cfg.IngestScheduleTZ.String() != "UTC" {
		t.Fatalf("unexpected IngestScheduleTZ: %s", cfg.IngestScheduleTZ)
	}
	if len(cfg.PokerAtlasRooms) != 0 {
		t.Fatalf("expected no PokerAtlas rooms, got %v", cfg.PokerAtlasRooms)
	}
}

func TestLoad_PostgresRequiresDBURL(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DB_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when STORAGE_DRIVER=postgres without DB_URL")
	}
}

func TestLoad_RejectsUnknownStorageDriver(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORAGE_DRIVER", "mongo")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown STORAGE_DRIVER")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-other=1, uptrace-dsn=\"https://token@api.uptrace.dev?grpc=4317\"")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_ProviderSettings(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PROVIDER_TIMEOUT", "5s")
	t.Setenv("PROVIDER_MAX_RETRIES", "3")
	t.Setenv("PROVIDER_REQUESTS_PER_SECOND", "0.5")
	t.Setenv("PROVIDER_CIRCUIT_ENABLED", "false")
	t.Setenv("POKERATLAS_ROOMS", "bestbet St. Augustine=abc-123, Seminole Hard Rock=def-456")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ProviderTimeout != 5*time.Second || cfg.ProviderMaxRetries != 3 {
		t.Fatalf("unexpected provider client settings: %+v", cfg)
	}
	if cfg.ProviderRequestsPerSecond != 0.5 {
		t.Fatalf("unexpected ProviderRequestsPerSecond: %v", cfg.ProviderRequestsPerSecond)
	}
	if cfg.ProviderCircuitEnabled {
		t.Fatalf("expected ProviderCircuitEnabled=false")
	}
	want := []RoomKey{
		{Name: "bestbet St. Augustine", Key: "abc-123"},
		{Name: "Seminole Hard Rock", Key: "def-456"},
	}
	if len(cfg.PokerAtlasRooms) != len(want) {
		t.Fatalf("unexpected PokerAtlasRooms: %v", cfg.PokerAtlasRooms)
	}
	for i := range want {
		if cfg.PokerAtlasRooms[i] != want[i] {
			t.Fatalf("room %d: got %+v want %+v", i, cfg.PokerAtlasRooms[i], want[i])
		}
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "negative retries", key: "PROVIDER_MAX_RETRIES", value: "-1"},
		{name: "zero timeout", key: "PROVIDER_TIMEOUT", value: "0s"},
		{name: "bad duration", key: "CACHE_DEFAULT_TTL", value: "soon"},
		{name: "zero concurrency", key: "INGEST_CONCURRENCY", value: "0"},
		{name: "bad cron", key: "INGEST_SCHEDULE", value: "every hour"},
		{name: "bad timezone", key: "INGEST_SCHEDULE_TIMEZONE", value: "Mars/Olympus"},
		{name: "bad room pair", key: "POKERATLAS_ROOMS", value: "no-key"},
		{name: "bad capacity", key: "FETCH_LOG_CAPACITY", value: "lots"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("APP_ENV", EnvDev)
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_IngestSchedule(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("INGEST_SCHEDULE", "0 */6 * * *")
	t.Setenv("INGEST_SCHEDULE_TIMEZONE", "America/New_York")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.IngestSchedule != "0 */6 * * *" {
		t.Fatalf("unexpected IngestSchedule: %q", cfg.IngestSchedule)
	}
	if cfg.IngestScheduleTZ.String() != "America/New_York" {
		t.Fatalf("unexpected IngestScheduleTZ: %s", cfg.IngestScheduleTZ)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]string{
		"debug":   "debug",
		"WARNING": "warn",
		"error":   "error",
		"":        "info",
		"verbose": "info",
	}
	for in, want := range tests {
		if got := parseLogLevel(in).String(); got != want {
			t.Fatalf("parseLogLevel(%q)=%s want=%s", in, got, want)
		}
	}
}
