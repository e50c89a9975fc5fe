package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/gameroom/internal/broadcast"
	"github.com/mcoot/gameroom/internal/config"
	"github.com/mcoot/gameroom/internal/dependencies/clock"
	"github.com/mcoot/gameroom/internal/dependencies/random"
	"github.com/mcoot/gameroom/internal/rules"
	"github.com/mcoot/gameroom/internal/services/auth"
	"github.com/mcoot/gameroom/internal/services/session"
	"github.com/mcoot/gameroom/internal/storage"
	"github.com/mcoot/gameroom/internal/storage/memory"
	redisstorage "github.com/mcoot/gameroom/internal/storage/redis"
	"github.com/mcoot/gameroom/internal/storage/relational"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypePostgres = "postgres"
	StorageTypeSQLite   = "sqlite"
)

// Broadcaster type constants
const (
	BroadcasterTypeLocal = "local"
	BroadcasterTypeRedis = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Rules       *rules.Registry
	Engine      *session.Engine
	AuthService *auth.Service

	// Hubs fans snapshots out to this instance's subscribers. Relay is set
	// when snapshots travel between instances over Redis, and must be Run.
	Hubs  *broadcast.Local
	Relay *broadcast.RedisRelay

	closers []func() error
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend: memory, redis, postgres or sqlite
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType
	// or BroadcasterType is "redis")
	RedisConfig *redisstorage.Config
	// PostgresDSN is required if StorageType is "postgres"
	PostgresDSN string
	// SQLitePath is required if StorageType is "sqlite"
	SQLitePath string
	// BroadcasterType selects local or redis fan-out
	// If empty, defaults to "local"
	BroadcasterType string
	// BufferSize is the per-subscriber queue length (optional)
	BufferSize int
}

// FromConfig maps loaded server configuration onto a factory Config
func FromConfig(cfg *config.Config, logger *slog.Logger) Config {
	redisCfg := redisstorage.Config{
		URL:            cfg.Redis.URL,
		PoolSize:       cfg.Redis.PoolSize,
		MinIdleConns:   cfg.Redis.MinIdleConns,
		GuestPlayerTTL: cfg.Redis.GuestPlayerTTL,
		RoomTTL:        cfg.Redis.RoomTTL,
	}
	return Config{
		AuthConfig: auth.Config{
			Secret:          cfg.Auth.JWTSecret,
			SessionDuration: cfg.Auth.SessionDuration,
		},
		Logger:          logger,
		StorageType:     cfg.Storage.Type,
		RedisConfig:     &redisCfg,
		PostgresDSN:     cfg.Storage.PostgresDSN,
		SQLitePath:      cfg.Storage.SQLitePath,
		BroadcasterType: cfg.Broadcaster.Type,
		BufferSize:      cfg.Broadcaster.BufferSize,
	}
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var (
		store       storage.Storage
		redisClient *redis.Client
		closers     []func() error
	)
	closeAll := func() {
		for _, c := range closers {
			_ = c()
		}
	}

	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
		redisClient = redisStore.Client()
		closers = append(closers, redisStore.Close)
	case StorageTypePostgres:
		if cfg.PostgresDSN == "" {
			return nil, errors.New("PostgresDSN required when StorageType is postgres")
		}
		pgStore, err := relational.OpenPostgres(cfg.PostgresDSN, logger)
		if err != nil {
			return nil, err
		}
		store = pgStore
		closers = append(closers, pgStore.Close)
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		sqliteStore, err := relational.OpenSQLite(cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		store = sqliteStore
		closers = append(closers, sqliteStore.Close)
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be memory, redis, postgres or sqlite", storageType)
	}

	bufferSize := cfg.BufferSize
	if bufferSize <= 0 {
		bufferSize = broadcast.DefaultBufferSize
	}
	hubs := broadcast.NewLocal(logger, bufferSize)

	var relay *broadcast.RedisRelay
	switch cfg.BroadcasterType {
	case "", BroadcasterTypeLocal:
	case BroadcasterTypeRedis:
		if redisClient == nil {
			if cfg.RedisConfig == nil {
				closeAll()
				return nil, errors.New("RedisConfig required when BroadcasterType is redis")
			}
			client, err := redisstorage.NewClient(*cfg.RedisConfig)
			if err != nil {
				closeAll()
				return nil, err
			}
			redisClient = client
			closers = append(closers, client.Close)
		}
		relay = broadcast.NewRedisRelay(redisClient, hubs, logger)
	default:
		closeAll()
		return nil, fmt.Errorf("invalid BroadcasterType %q: must be local or redis", cfg.BroadcasterType)
	}

	// Use default auth config if not provided
	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 && authCfg.Secret == "" {
		authCfg = auth.DefaultConfig()
	}

	app := newWithDependencies(store, clock.New(), random.New(), hubs, relay, authCfg, logger)
	app.closers = closers
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(
	store storage.Storage,
	clk clock.Clock,
	rnd random.Random,
	hubs *broadcast.Local,
	relay *broadcast.RedisRelay,
	authCfg auth.Config,
	logger *slog.Logger,
) *App {
	var broadcaster broadcast.Broadcaster = hubs
	if relay != nil {
		broadcaster = relay
	}

	registry := rules.DefaultRegistry()

	return &App{
		Storage:     store,
		Clock:       clk,
		Random:      rnd,
		Rules:       registry,
		Engine:      session.NewEngine(store, registry, broadcaster, clk, rnd, logger),
		AuthService: auth.New(store, clk, authCfg),
		Hubs:        hubs,
		Relay:       relay,
	}
}

// Close shuts down subscriptions and releases storage connections
func (a *App) Close() error {
	a.Hubs.Close()
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
