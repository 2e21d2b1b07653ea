package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/KingBodhi/jungleverse/external/providers"
	"github.com/KingBodhi/jungleverse/internal/config"
	"github.com/KingBodhi/jungleverse/internal/domain/cashgame"
	"github.com/KingBodhi/jungleverse/internal/domain/pokerroom"
	"github.com/KingBodhi/jungleverse/internal/domain/tournament"
	repocache "github.com/KingBodhi/jungleverse/internal/infrastructure/repository/cache"
	"github.com/KingBodhi/jungleverse/internal/infrastructure/repository/memory"
	"github.com/KingBodhi/jungleverse/internal/infrastructure/repository/postgres"
	"github.com/KingBodhi/jungleverse/internal/interfaces/httpapi"
	"github.com/KingBodhi/jungleverse/internal/platform/cache"
	"github.com/KingBodhi/jungleverse/internal/platform/fetchlog"
	idgen "github.com/KingBodhi/jungleverse/internal/platform/id"
	"github.com/KingBodhi/jungleverse/internal/platform/logging"
	"github.com/KingBodhi/jungleverse/internal/platform/ratelimit"
	"github.com/KingBodhi/jungleverse/internal/platform/resilience"
	"github.com/KingBodhi/jungleverse/internal/usecase"
)

// App holds the process-wide collaborators shared by the HTTP server, the
// scheduler and the CLI.
type App struct {
	Config       config.Config
	Logger       *logging.Logger
	Cache        *cache.Store
	FetchLog     *fetchlog.Log
	Breakers     *resilience.BreakerSet
	Registry     *providers.Registry
	Rooms        *usecase.RoomService
	Orchestrator *usecase.OrchestratorService
	Monitor      *usecase.MonitorService

	db        *sqlx.DB
	roomCache *cache.Store
}

const roomCacheTTL = 5 * time.Minute

type repositories struct {
	rooms       pokerroom.Repository
	tournaments tournament.Repository
	cashGames   cashgame.Repository
}

// New builds the application graph. The cache sweeper runs until ctx is
// done or Close is called.
func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}

	a := &App{Config: cfg, Logger: logger}

	repos, err := a.openRepositories()
	if err != nil {
		return nil, err
	}

	a.Cache = cache.NewStore(cfg.CacheDefaultTTL)
	a.Cache.StartSweeper(ctx, cfg.CacheSweepInterval, func(removed int) {
		if removed > 0 {
			logger.Debug("cache sweep", "removed", removed)
		}
	})
	a.FetchLog = fetchlog.New(cfg.FetchLogCapacity, logger)
	a.Breakers = resilience.NewBreakerSet(resilience.CircuitBreakerConfig{
		Enabled:          cfg.ProviderCircuitEnabled,
		FailureThreshold: cfg.ProviderCircuitFailures,
		OpenTimeout:      cfg.ProviderCircuitOpen,
		HalfOpenMaxReq:   cfg.ProviderCircuitHalfOpen,
	})

	client := providers.NewClient(providers.ClientConfig{
		Timeout:           cfg.ProviderTimeout,
		MaxRetries:        cfg.ProviderMaxRetries,
		RequestsPerSecond: cfg.ProviderRequestsPerSecond,
		UserAgent:         cfg.ProviderUserAgent,
		Logger:            logger,
		Breakers:          a.Breakers,
	})
	a.Registry = providers.NewRegistry(providers.Deps{
		Client:  client,
		Cache:   a.Cache,
		Limiter: ratelimit.New(),
		Logger:  logger,
	}, providers.RegistryConfig{PokerAtlasRooms: pokerAtlasRooms(cfg.PokerAtlasRooms)})

	ids := idgen.NewUUIDGenerator()
	ingestion := usecase.NewIngestionService(repos.rooms, repos.tournaments, repos.cashGames, ids, logger)
	a.Rooms = usecase.NewRoomService(repos.rooms, ids, logger)
	a.Orchestrator = usecase.NewOrchestratorService(a.Registry, ingestion, a.FetchLog, cfg.IngestConcurrency, logger)
	a.Monitor = usecase.NewMonitorService(
		a.Registry,
		a.FetchLog,
		a.Cache,
		a.Breakers,
		usecase.MonitorConfig{SlowResponseThreshold: cfg.MonitorSlowThreshold},
		logger,
	)

	return a, nil
}

func (a *App) openRepositories() (repositories, error) {
	if a.Config.StorageDriver != config.StoragePostgres {
		a.Logger.Info("using in-memory storage")
		return repositories{
			rooms:       memory.NewPokerRoomRepository(memory.SeedPokerRooms()),
			tournaments: memory.NewTournamentRepository(),
			cashGames:   memory.NewCashGameRepository(),
		}, nil
	}

	db, err := otelsqlx.Open("postgres",
		normalizeDBURL(a.Config.DBURL, a.Config.DBDisablePreparedBinary),
		otelsql.WithAttributes(attribute.String("db.system", "postgresql")),
		otelsql.WithDBName(dbNameFromURL(a.Config.DBURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return repositories{}, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return repositories{}, fmt.Errorf("ping postgres: %w", err)
	}
	a.db = db
	a.Logger.Info("using postgres storage", "db_name", dbNameFromURL(a.Config.DBURL))

	a.roomCache = cache.NewStore(roomCacheTTL)

	return repositories{
		rooms:       repocache.NewPokerRoomRepository(postgres.NewPokerRoomRepository(db), a.roomCache),
		tournaments: postgres.NewTournamentRepository(db),
		cashGames:   postgres.NewCashGameRepository(db),
	}, nil
}

// NewHTTPServer exposes /healthz and /ingest.
func (a *App) NewHTTPServer() (*http.Server, error) {
	handler := httpapi.NewHandler(a.Orchestrator, a.Monitor, a.Logger)
	router := httpapi.NewRouter(handler, a.Logger, a.Config.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         a.Config.HTTPAddr,
		Handler:      router,
		ReadTimeout:  a.Config.ReadTimeout,
		WriteTimeout: a.Config.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

// Close stops the cache sweeper and releases the database handle.
func (a *App) Close() error {
	if a.Cache != nil {
		a.Cache.Close()
	}
	if a.roomCache != nil {
		a.roomCache.Clear()
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

func pokerAtlasRooms(keys []config.RoomKey) []providers.PokerAtlasRoom {
	out := make([]providers.PokerAtlasRoom, 0, len(keys))
	for _, key := range keys {
		out = append(out, providers.PokerAtlasRoom{Name: key.Name, Key: key.Key})
	}
	return out
}
