package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. BELOTE_STORAGE_DRIVER.
const EnvPrefix = "BELOTE_"

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverBolt     = "bolt"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config struct to hold the configuration settings
type Config struct {
	Storage       StorageConfig       `yaml:"storage" envPrefix:"STORAGE_"`
	HTTP          HTTPConfig          `yaml:"http" envPrefix:"HTTP_"`
	Observability ObservabilityConfig `yaml:"observability" envPrefix:"OBSERVABILITY_"`
	Events        EventsConfig        `yaml:"events" envPrefix:"EVENTS_"`
}

// StorageConfig selects and configures the key-value backend.
type StorageConfig struct {
	Driver      string      `yaml:"driver" env:"DRIVER"`
	Key         string      `yaml:"key" env:"KEY"`
	Path        string      `yaml:"path" env:"PATH"`
	DSN         string      `yaml:"dsn" env:"DSN"`
	AutoMigrate bool        `yaml:"auto_migrate" env:"AUTO_MIGRATE"`
	Redis       RedisConfig `yaml:"redis" envPrefix:"REDIS_"`
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"ADDR"`
	Password string `yaml:"password" env:"PASSWORD"`
	DB       int    `yaml:"db" env:"DB"`
	Prefix   string `yaml:"prefix" env:"PREFIX"`
}

// HTTPConfig holds the local API server configuration.
type HTTPConfig struct {
	Addr            string        `yaml:"addr" env:"ADDR"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
	// RateLimit is requests per second per client IP; zero disables limiting.
	RateLimit      float64  `yaml:"rate_limit" env:"RATE_LIMIT"`
	RateBurst      int      `yaml:"rate_burst" env:"RATE_BURST"`
	AllowedOrigins []string `yaml:"allowed_origins" env:"ALLOWED_ORIGINS" envSeparator:","`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	LogLevel       string `yaml:"log_level" env:"LOG_LEVEL"`
	LogFormat      string `yaml:"log_format" env:"LOG_FORMAT"`
	MetricsEnabled bool   `yaml:"metrics_enabled" env:"METRICS_ENABLED"`
}

// Event bus drivers.
const (
	EventsNone   = "none"
	EventsMemory = "memory"
	EventsNATS   = "nats"
)

// EventsConfig selects where game events are published.
type EventsConfig struct {
	Driver string     `yaml:"driver" env:"DRIVER"`
	NATS   NATSConfig `yaml:"nats" envPrefix:"NATS_"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL string `yaml:"url" env:"URL"`
	// NKeySeedFile authenticates with an nkey seed when set.
	NKeySeedFile string `yaml:"nkey_seed_file" env:"NKEY_SEED_FILE"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Storage: StorageConfig{
			Driver:      DriverBolt,
			Key:         "belote-games",
			Path:        "belote.db",
			AutoMigrate: true,
			Redis: RedisConfig{
				Addr:   "127.0.0.1:6379",
				Prefix: "belote:",
			},
		},
		HTTP: HTTPConfig{
			Addr:            "127.0.0.1:8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			RateLimit:       20,
			RateBurst:       40,
		},
		Observability: ObservabilityConfig{
			LogLevel:       "info",
			LogFormat:      "text",
			MetricsEnabled: true,
		},
		Events: EventsConfig{
			Driver: EventsMemory,
			NATS:   NATSConfig{URL: "nats://127.0.0.1:4222"},
		},
	}
}

// LoadConfig builds the configuration from defaults, the YAML file (if it
// exists), the dotenv files (if they exist) and finally BELOTE_* variables.
func LoadConfig(filename string, dotenvFiles ...string) (*Config, error) {
	cfg := Default()

	if filename != "" {
		data, err := os.ReadFile(filename)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		}
	}

	for _, f := range dotenvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the selected storage driver has what it needs.
func (c Config) Validate() error {
	s := c.Storage
	if s.Key == "" {
		return errors.New("storage.key must not be empty")
	}
	switch s.Driver {
	case DriverMemory:
	case DriverBolt:
		if s.Path == "" {
			return errors.New("storage.path is required for the bolt driver")
		}
	case DriverSQLite, DriverPostgres:
		if s.DSN == "" {
			return fmt.Errorf("storage.dsn is required for the %s driver", s.Driver)
		}
	case DriverRedis:
		if s.Redis.Addr == "" {
			return errors.New("storage.redis.addr is required for the redis driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", s.Driver)
	}

	if c.HTTP.RateLimit < 0 || c.HTTP.RateBurst < 0 {
		return errors.New("http.rate_limit and http.rate_burst must not be negative")
	}
	if c.HTTP.RateLimit > 0 && c.HTTP.RateBurst == 0 {
		return errors.New("http.rate_burst is required when http.rate_limit is set")
	}

	switch c.Events.Driver {
	case EventsNone, EventsMemory:
	case EventsNATS:
		if c.Events.NATS.URL == "" {
			return errors.New("events.nats.url is required for the nats driver")
		}
	default:
		return fmt.Errorf("unknown events driver %q", c.Events.Driver)
	}
	return nil
}
