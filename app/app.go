package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/belote-tracker/app/eventbus"
	gameservice "github.com/Black-And-White-Club/belote-tracker/app/modules/game/application"
	"github.com/Black-And-White-Club/belote-tracker/app/modules/game/infrastructure/kvstore"
	kvmigrations "github.com/Black-And-White-Club/belote-tracker/app/modules/game/infrastructure/kvstore/migrations"
	gamedb "github.com/Black-And-White-Club/belote-tracker/app/modules/game/infrastructure/repositories"
	"github.com/Black-And-White-Club/belote-tracker/app/observability"
	"github.com/Black-And-White-Club/belote-tracker/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/uptrace/bun"
)

// App holds the wired belote components.
type App struct {
	Config   *config.Config
	Logger   *slog.Logger
	Store    kvstore.Store
	DB       *bun.DB
	Registry *prometheus.Registry
	Metrics  *observability.PrometheusMetrics
	Bus      eventbus.EventBus
	Repo     *gamedb.Impl
	Service  *gameservice.GameService
}

// NewApp opens the configured store and wires the game service on top of it.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	store, db, err := OpenStore(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, err
	}

	var metrics observability.GameMetrics = observability.NoopMetrics{}
	var registry *prometheus.Registry
	var promMetrics *observability.PrometheusMetrics
	if cfg.Observability.MetricsEnabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		promMetrics, err = observability.NewPrometheusMetrics(registry)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		metrics = promMetrics
	}

	bus, err := eventbus.New(ctx, cfg.Events, logger.With(slog.String("component", "eventbus")))
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to open event bus: %w", err)
	}
	var serviceOpts []gameservice.Option
	if bus != nil {
		serviceOpts = append(serviceOpts, gameservice.WithPublisher(bus))
	}

	repo := gamedb.NewRepository(store,
		gamedb.WithKey(cfg.Storage.Key),
		gamedb.WithLogger(logger.With(slog.String("component", "game_repository"))),
	)
	service := gameservice.NewGameService(repo, logger.With(slog.String("component", "game_service")), metrics, observability.Tracer(), serviceOpts...)

	return &App{
		Config:   cfg,
		Logger:   logger,
		Store:    store,
		DB:       db,
		Registry: registry,
		Metrics:  promMetrics,
		Bus:      bus,
		Repo:     repo,
		Service:  service,
	}, nil
}

// OpenStore opens the key-value backend named by cfg.Driver. The bun handle
// is returned for the SQL drivers and nil otherwise.
func OpenStore(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (kvstore.Store, *bun.DB, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return kvstore.NewMemoryStore(), nil, nil

	case config.DriverBolt:
		store, err := kvstore.OpenBolt(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil

	case config.DriverSQLite, config.DriverPostgres:
		db, err := kvstore.OpenSQL(cfg.Driver, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		if cfg.AutoMigrate {
			group, err := kvmigrations.Up(ctx, db)
			if err != nil {
				_ = db.Close()
				return nil, nil, err
			}
			if !group.IsZero() {
				logger.InfoContext(ctx, "Applied storage migrations", slog.String("group", group.String()))
			}
		}
		return kvstore.NewBunStore(db), db, nil

	case config.DriverRedis:
		store, err := kvstore.OpenRedis(ctx, kvstore.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, nil, nil
	}
	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

// Close releases the event bus and the store.
func (app *App) Close() error {
	var errs []error
	if app.Bus != nil {
		errs = append(errs, app.Bus.Close())
		app.Bus = nil
	}
	if app.Store != nil {
		if err := app.Store.Close(); !errors.Is(err, kvstore.ErrClosed) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// EventMetrics returns the metrics sink for event handlers.
func (app *App) EventMetrics() observability.EventMetrics {
	if app.Metrics == nil {
		return observability.NoopMetrics{}
	}
	return app.Metrics
}
