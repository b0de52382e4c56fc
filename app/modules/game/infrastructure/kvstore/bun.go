package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Entry is one stored key.
type Entry struct {
	bun.BaseModel `bun:"table:belote_kv,alias:kv"`

	StorageKey string    `bun:"storage_key,pk"`
	Payload    string    `bun:"payload,notnull"`
	UpdatedAt  time.Time `bun:"updated_at,notnull"`
}

// BunStore keeps values in the belote_kv table.
type BunStore struct {
	db  bun.IDB
	now func() time.Time
}

// NewBunStore wraps an open bun handle. The schema must already exist,
// see CreateSchema and the kvmigrations package.
func NewBunStore(db bun.IDB) *BunStore {
	return &BunStore{db: db, now: time.Now}
}

// OpenSQL opens a bun handle for driver ("sqlite" or "postgres").
func OpenSQL(driver, dsn string) (*bun.DB, error) {
	switch driver {
	case DriverPostgres:
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
		if err := sqldb.Ping(); err != nil {
			_ = sqldb.Close()
			return nil, fmt.Errorf("ping postgres: %w", err)
		}
		return bun.NewDB(sqldb, pgdialect.New()), nil
	case DriverSQLite:
		sqldb, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		// SQLite serializes writers; one connection also keeps :memory: databases alive.
		sqldb.SetMaxOpenConns(1)
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	}
	return nil, fmt.Errorf("unsupported sql driver %q", driver)
}

// CreateSchema creates the belote_kv table if it does not exist.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	if _, err := db.NewCreateTable().Model((*Entry)(nil)).IfNotExists().Exec(ctx); err != nil {
		return fmt.Errorf("create belote_kv table: %w", err)
	}
	return nil
}

// DropSchema drops the belote_kv table.
func DropSchema(ctx context.Context, db bun.IDB) error {
	if _, err := db.NewDropTable().Model((*Entry)(nil)).IfExists().Exec(ctx); err != nil {
		return fmt.Errorf("drop belote_kv table: %w", err)
	}
	return nil
}

func (s *BunStore) ReadRaw(ctx context.Context, key string) (string, bool, error) {
	entry := new(Entry)
	err := s.db.NewSelect().
		Model(entry).
		Where("storage_key = ?", key).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return entry.Payload, true, nil
}

func (s *BunStore) WriteRaw(ctx context.Context, key, value string) error {
	entry := &Entry{
		StorageKey: key,
		Payload:    value,
		UpdatedAt:  s.now().UTC(),
	}
	_, err := s.db.NewInsert().
		Model(entry).
		On("CONFLICT (storage_key) DO UPDATE").
		Set("payload = EXCLUDED.payload").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}

// Close closes the handle when the store owns a *bun.DB.
func (s *BunStore) Close() error {
	if db, ok := s.db.(*bun.DB); ok {
		return db.Close()
	}
	return nil
}
