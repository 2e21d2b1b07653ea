package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/KingBodhi/jungleverse/internal/platform/logging"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// RoomKey pairs a poker room name with its PokerAtlas feed key.
type RoomKey struct {
	Name string
	Key  string
}

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                  string
	ServiceName             string
	ServiceVersion          string
	HTTPAddr                string
	ReadTimeout             time.Duration
	WriteTimeout            time.Duration
	LogLevel                logging.Level
	CORSAllowedOrigins      []string
	StorageDriver           string
	DBURL                   string
	DBDisablePreparedBinary bool

	CacheDefaultTTL    time.Duration
	CacheSweepInterval time.Duration
	FetchLogCapacity   int

	ProviderTimeout           time.Duration
	ProviderMaxRetries        int
	ProviderRequestsPerSecond float64
	ProviderUserAgent         string
	ProviderCircuitEnabled    bool
	ProviderCircuitFailures   int
	ProviderCircuitOpen       time.Duration
	ProviderCircuitHalfOpen   int
	PokerAtlasRooms           []RoomKey

	IngestConcurrency    int
	IngestSchedule       string
	IngestScheduleTZ     *time.Location
	MonitorSlowThreshold time.Duration

	PprofEnabled               bool
	PprofAddr                  string
	UptraceEnabled             bool
	UptraceDSN                 string
	PyroscopeEnabled           bool
	PyroscopeServerAddress     string
	PyroscopeAppName           string
	PyroscopeAuthToken         string
	PyroscopeBasicAuthUser     string
	PyroscopeBasicAuthPassword string
	PyroscopeUploadRate        time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		AppEnv:                 appEnv,
		ServiceName:            strings.TrimSpace(getEnv("APP_SERVICE_NAME", "jungleverse-ingest")),
		ServiceVersion:         strings.TrimSpace(getEnv("APP_SERVICE_VERSION", "dev")),
		HTTPAddr:               strings.TrimSpace(getEnv("APP_HTTP_ADDR", ":8080")),
		LogLevel:               parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		CORSAllowedOrigins:     splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		DBURL:                  strings.TrimSpace(getEnv("DB_URL", "")),
		ProviderUserAgent:      strings.TrimSpace(getEnv("PROVIDER_USER_AGENT", "")),
		PprofAddr:              strings.TrimSpace(getEnv("PPROF_ADDR", ":6060")),
		UptraceDSN:             strings.TrimSpace(getEnv("UPTRACE_DSN", "")),
		PyroscopeServerAddress: strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", "")),
		PyroscopeAuthToken:     strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser: strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		IngestSchedule:         strings.TrimSpace(getEnv("INGEST_SCHEDULE", "")),
	}
	cfg.PyroscopeBasicAuthPassword = strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", ""))
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))

	if cfg.ReadTimeout, err = positiveDuration("APP_READ_TIMEOUT", "15s"); err != nil {
		return Config{}, err
	}
	if cfg.WriteTimeout, err = positiveDuration("APP_WRITE_TIMEOUT", "120s"); err != nil {
		return Config{}, err
	}

	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(getEnv("STORAGE_DRIVER", StorageMemory)))
	switch cfg.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if cfg.DBURL == "" {
			return Config{}, fmt.Errorf("DB_URL is required when STORAGE_DRIVER=postgres")
		}
	default:
		return Config{}, fmt.Errorf("invalid STORAGE_DRIVER %q: valid values are %s, %s", cfg.StorageDriver, StorageMemory, StoragePostgres)
	}
	if cfg.DBDisablePreparedBinary, err = strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "false")); err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}

	if cfg.CacheDefaultTTL, err = positiveDuration("CACHE_DEFAULT_TTL", "1h"); err != nil {
		return Config{}, err
	}
	if cfg.CacheSweepInterval, err = positiveDuration("CACHE_SWEEP_INTERVAL", "10m"); err != nil {
		return Config{}, err
	}
	if cfg.FetchLogCapacity, err = getEnvAsInt("FETCH_LOG_CAPACITY", 1000); err != nil {
		return Config{}, fmt.Errorf("parse FETCH_LOG_CAPACITY: %w", err)
	}
	if cfg.FetchLogCapacity < 1 {
		return Config{}, fmt.Errorf("FETCH_LOG_CAPACITY must be >= 1")
	}

	if cfg.ProviderTimeout, err = positiveDuration("PROVIDER_TIMEOUT", "20s"); err != nil {
		return Config{}, err
	}
	if cfg.ProviderMaxRetries, err = getEnvAsInt("PROVIDER_MAX_RETRIES", 1); err != nil {
		return Config{}, fmt.Errorf("parse PROVIDER_MAX_RETRIES: %w", err)
	}
	if cfg.ProviderMaxRetries < 0 {
		return Config{}, fmt.Errorf("PROVIDER_MAX_RETRIES must be >= 0")
	}
	if cfg.ProviderRequestsPerSecond, err = strconv.ParseFloat(getEnv("PROVIDER_REQUESTS_PER_SECOND", "2"), 64); err != nil {
		return Config{}, fmt.Errorf("parse PROVIDER_REQUESTS_PER_SECOND: %w", err)
	}
	if cfg.ProviderRequestsPerSecond < 0 {
		return Config{}, fmt.Errorf("PROVIDER_REQUESTS_PER_SECOND must be >= 0")
	}
	if cfg.ProviderCircuitEnabled, err = strconv.ParseBool(getEnv("PROVIDER_CIRCUIT_ENABLED", "true")); err != nil {
		return Config{}, fmt.Errorf("parse PROVIDER_CIRCUIT_ENABLED: %w", err)
	}
	if cfg.ProviderCircuitFailures, err = getEnvAsInt("PROVIDER_CIRCUIT_FAILURE_COUNT", 5); err != nil {
		return Config{}, fmt.Errorf("parse PROVIDER_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cfg.ProviderCircuitFailures < 1 {
		return Config{}, fmt.Errorf("PROVIDER_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	if cfg.ProviderCircuitOpen, err = positiveDuration("PROVIDER_CIRCUIT_OPEN_TIMEOUT", "30s"); err != nil {
		return Config{}, err
	}
	if cfg.ProviderCircuitHalfOpen, err = getEnvAsInt("PROVIDER_CIRCUIT_HALF_OPEN_MAX_REQ", 1); err != nil {
		return Config{}, fmt.Errorf("parse PROVIDER_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if cfg.ProviderCircuitHalfOpen < 1 {
		return Config{}, fmt.Errorf("PROVIDER_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	if cfg.PokerAtlasRooms, err = parseRoomKeys(getEnv("POKERATLAS_ROOMS", "")); err != nil {
		return Config{}, fmt.Errorf("parse POKERATLAS_ROOMS: %w", err)
	}

	if cfg.IngestConcurrency, err = getEnvAsInt("INGEST_CONCURRENCY", 1); err != nil {
		return Config{}, fmt.Errorf("parse INGEST_CONCURRENCY: %w", err)
	}
	if cfg.IngestConcurrency < 1 {
		return Config{}, fmt.Errorf("INGEST_CONCURRENCY must be >= 1")
	}
	if cfg.IngestSchedule != "" {
		if _, err := cron.ParseStandard(cfg.IngestSchedule); err != nil {
			return Config{}, fmt.Errorf("parse INGEST_SCHEDULE: %w", err)
		}
	}
	if cfg.IngestScheduleTZ, err = time.LoadLocation(getEnv("INGEST_SCHEDULE_TIMEZONE", "UTC")); err != nil {
		return Config{}, fmt.Errorf("parse INGEST_SCHEDULE_TIMEZONE: %w", err)
	}
	if cfg.MonitorSlowThreshold, err = positiveDuration("MONITOR_SLOW_RESPONSE_THRESHOLD", "5s"); err != nil {
		return Config{}, err
	}

	if cfg.PprofEnabled, err = strconv.ParseBool(getEnv("PPROF_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	if cfg.PprofEnabled && cfg.PprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	if cfg.UptraceEnabled, err = strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if cfg.UptraceEnabled && cfg.UptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	if cfg.PyroscopeEnabled, err = strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	if cfg.PyroscopeEnabled && cfg.PyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	if cfg.PyroscopeUploadRate, err = positiveDuration("PYROSCOPE_UPLOAD_RATE", "15s"); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func positiveDuration(key, fallback string) (time.Duration, error) {
	value, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("%s must be > 0", key)
	}
	return value, nil
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

// parseRoomKeys reads "room name=feed-key,..." pairs.
func parseRoomKeys(raw string) ([]RoomKey, error) {
	var out []RoomKey
	for _, item := range splitCSV(raw) {
		segments := strings.SplitN(item, "=", 2)
		if len(segments) != 2 {
			return nil, fmt.Errorf("invalid room item %q, expected name=key", item)
		}

		name := strings.TrimSpace(segments[0])
		key := strings.TrimSpace(segments[1])
		if name == "" || key == "" {
			return nil, fmt.Errorf("empty room name or key in item %q", item)
		}
		out = append(out, RoomKey{Name: name, Key: key})
	}
	return out, nil
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
