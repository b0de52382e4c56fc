package kvmigrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the belote_kv schema history.
var Migrations = migrate.NewMigrations()

func init() {
	// New migrations created from the CLI land next to this file.
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
}
