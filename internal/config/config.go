// Package config loads server configuration from an optional YAML file
// and the environment
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the complete server configuration. Environment variables
// override values read from the file.
type Config struct {
	LogLevel    string      `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTP        HTTP        `yaml:"http"`
	Storage     Storage     `yaml:"storage"`
	Redis       Redis       `yaml:"redis"`
	Broadcaster Broadcaster `yaml:"broadcaster"`
	Auth        Auth        `yaml:"auth"`
}

type HTTP struct {
	Host            string        `yaml:"host" env:"HTTP_HOST" env-default:""`
	Port            int           `yaml:"port" env:"HTTP_PORT" env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read-timeout" env:"HTTP_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout    time.Duration `yaml:"write-timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown-timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"30s"`
}

type Storage struct {
	// Type is one of memory, redis, postgres or sqlite
	Type        string `yaml:"type" env:"STORAGE_TYPE" env-default:"memory"`
	PostgresDSN string `yaml:"postgres-dsn" env:"POSTGRES_DSN"`
	SQLitePath  string `yaml:"sqlite-path" env:"SQLITE_PATH" env-default:"gameroom.db"`
}

type Redis struct {
	URL            string        `yaml:"url" env:"REDIS_URL" env-default:"redis://localhost:6379/0"`
	PoolSize       int           `yaml:"pool-size" env:"REDIS_POOL_SIZE" env-default:"10"`
	MinIdleConns   int           `yaml:"min-idle-conns" env:"REDIS_MIN_IDLE_CONNS" env-default:"2"`
	GuestPlayerTTL time.Duration `yaml:"guest-player-ttl" env:"REDIS_GUEST_PLAYER_TTL" env-default:"24h"`
	RoomTTL        time.Duration `yaml:"room-ttl" env:"REDIS_ROOM_TTL" env-default:"24h"`
}

type Broadcaster struct {
	// Type is local for a single instance, or redis to relay snapshots
	// between instances
	Type            string        `yaml:"type" env:"BROADCASTER_TYPE" env-default:"local"`
	BufferSize      int           `yaml:"buffer-size" env:"BROADCASTER_BUFFER_SIZE" env-default:"16"`
	JanitorInterval time.Duration `yaml:"janitor-interval" env:"BROADCASTER_JANITOR_INTERVAL" env-default:"1m"`
}

type Auth struct {
	JWTSecret       string        `yaml:"jwt-secret" env:"JWT_SECRET"`
	SessionDuration time.Duration `yaml:"session-duration" env:"SESSION_DURATION" env-default:"24h"`
}

// Load reads configuration from path when it is non-empty, otherwise from
// the environment alone
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("unable to load config file: %w", err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("unable to load config from environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad is Load that panics on error
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.Storage.Type {
	case "memory", "redis", "sqlite":
	case "postgres":
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("postgres storage requires a DSN")
		}
	default:
		return fmt.Errorf("invalid storage type %q", c.Storage.Type)
	}

	switch c.Broadcaster.Type {
	case "local", "redis":
	default:
		return fmt.Errorf("invalid broadcaster type %q", c.Broadcaster.Type)
	}
	return nil
}

// SlogLevel converts the configured log level
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
