package testutils

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/testcontainers/testcontainers-go/modules/nats"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"

	"github.com/Black-And-White-Club/belote-tracker/app/modules/game/infrastructure/kvstore"
	kvmigrations "github.com/Black-And-White-Club/belote-tracker/app/modules/game/infrastructure/kvstore/migrations"
	"github.com/Black-And-White-Club/belote-tracker/integration_tests/containers"
)

// TestEnvironment holds a migrated Postgres database for integration tests.
type TestEnvironment struct {
	Ctx           context.Context
	CancelContext context.CancelFunc
	PgContainer   *postgres.PostgresContainer
	NatsContainer *nats.NATSContainer
	DSN           string
	NatsURL       string
	DB            *bun.DB
	Logger        *slog.Logger
}

// NewTestEnvironment starts Postgres and NATS, opens Postgres through the bun
// store driver and applies the storage migrations.
func NewTestEnvironment(ctx context.Context) (*TestEnvironment, error) {
	ctx, cancel := context.WithCancel(ctx)

	pgContainer, dsn, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to setup postgres container: %w", err)
	}

	env := &TestEnvironment{
		Ctx:           ctx,
		CancelContext: cancel,
		PgContainer:   pgContainer,
		DSN:           dsn,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
	if err != nil {
		env.Cleanup()
		return nil, fmt.Errorf("failed to setup nats container: %w", err)
	}
	env.NatsContainer = natsContainer
	env.NatsURL = natsURL

	db, err := kvstore.OpenSQL(kvstore.DriverPostgres, dsn)
	if err != nil {
		env.Cleanup()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	env.DB = db

	if _, err := kvmigrations.Up(ctx, db); err != nil {
		env.Cleanup()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return env, nil
}

// Reset empties the key-value table between tests.
func (env *TestEnvironment) Reset(t *testing.T) {
	t.Helper()
	if _, err := env.DB.NewTruncateTable().Model((*kvstore.Entry)(nil)).Exec(env.Ctx); err != nil {
		t.Fatalf("failed to truncate belote_kv: %v", err)
	}
}

// Cleanup closes the database and terminates the containers.
func (env *TestEnvironment) Cleanup() {
	if env.DB != nil {
		_ = env.DB.Close()
	}
	if env.PgContainer != nil {
		_ = env.PgContainer.Terminate(context.Background())
	}
	if env.NatsContainer != nil {
		_ = env.NatsContainer.Terminate(context.Background())
	}
	env.CancelContext()
}
