package kvmigrations

import (
	"context"

	"github.com/Black-And-White-Club/belote-tracker/app/modules/game/infrastructure/kvstore"
	"github.com/uptrace/bun"
)

// Migrations run inside the CLI and at app start, so they stay silent on
// stdout; callers report the applied group themselves.
func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		return kvstore.CreateSchema(ctx, db)
	}, func(ctx context.Context, db *bun.DB) error {
		return kvstore.DropSchema(ctx, db)
	})
}
