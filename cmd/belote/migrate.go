package main

import (
	"fmt"
	"strings"

	"github.com/Black-And-White-Club/belote-tracker/app/modules/game/infrastructure/kvstore"
	kvmigrations "github.com/Black-And-White-Club/belote-tracker/app/modules/game/infrastructure/kvstore/migrations"
	"github.com/Black-And-White-Club/belote-tracker/config"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

// migrator opens the configured SQL database. Only the sqlite and postgres
// drivers have a schema to migrate.
func (r *runner) migrator(c *cli.Context) (*migrate.Migrator, func() error, error) {
	cfg, err := r.loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	switch cfg.Storage.Driver {
	case config.DriverSQLite, config.DriverPostgres:
	default:
		return nil, nil, fmt.Errorf("storage driver %q has no schema to migrate", cfg.Storage.Driver)
	}
	db, err := kvstore.OpenSQL(cfg.Storage.Driver, cfg.Storage.DSN)
	if err != nil {
		return nil, nil, err
	}
	return migrate.NewMigrator(db, kvmigrations.Migrations), db.Close, nil
}

func (r *runner) migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations for the sqlite and postgres drivers",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					m, closeDB, err := r.migrator(c)
					if err != nil {
						return err
					}
					defer closeDB()
					if err := m.Init(contextOf(c)); err != nil {
						return err
					}
					fmt.Fprintln(r.stdout, "Migration tables ready")
					return nil
				},
			},
			{
				Name:  "up",
				Usage: "apply pending migrations",
				Action: func(c *cli.Context) error {
					m, closeDB, err := r.migrator(c)
					if err != nil {
						return err
					}
					defer closeDB()
					ctx := contextOf(c)
					if err := m.Init(ctx); err != nil {
						return err
					}
					group, err := m.Migrate(ctx)
					if err != nil {
						return err
					}
					if group.IsZero() {
						fmt.Fprintln(r.stdout, "No new migrations to run")
						return nil
					}
					fmt.Fprintf(r.stdout, "Migrated to %s\n", group)
					return nil
				},
			},
			{
				Name:  "down",
				Usage: "roll back the last migration group",
				Action: func(c *cli.Context) error {
					m, closeDB, err := r.migrator(c)
					if err != nil {
						return err
					}
					defer closeDB()
					group, err := m.Rollback(contextOf(c))
					if err != nil {
						return err
					}
					if group.IsZero() {
						fmt.Fprintln(r.stdout, "No groups to roll back")
						return nil
					}
					fmt.Fprintf(r.stdout, "Rolled back %s\n", group)
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: func(c *cli.Context) error {
					m, closeDB, err := r.migrator(c)
					if err != nil {
						return err
					}
					defer closeDB()
					ms, err := m.MigrationsWithStatus(contextOf(c))
					if err != nil {
						return err
					}
					fmt.Fprintf(r.stdout, "Migrations: %s\n", ms)
					fmt.Fprintf(r.stdout, "Applied: %s\n", ms.Applied())
					fmt.Fprintf(r.stdout, "Unapplied: %s\n", ms.Unapplied())
					return nil
				},
			},
			{
				Name:      "create_go",
				Usage:     "create Go migration",
				ArgsUsage: "<name words...>",
				Action: func(c *cli.Context) error {
					m, closeDB, err := r.migrator(c)
					if err != nil {
						return err
					}
					defer closeDB()
					mf, err := m.CreateGoMigration(contextOf(c), migrationName(c))
					if err != nil {
						return err
					}
					fmt.Fprintf(r.stdout, "Created migration %s (%s)\n", mf.Name, mf.Path)
					return nil
				},
			},
			{
				Name:      "create_sql",
				Usage:     "create up and down SQL migrations",
				ArgsUsage: "<name words...>",
				Action: func(c *cli.Context) error {
					m, closeDB, err := r.migrator(c)
					if err != nil {
						return err
					}
					defer closeDB()
					files, err := m.CreateSQLMigrations(contextOf(c), migrationName(c))
					if err != nil {
						return err
					}
					for _, mf := range files {
						fmt.Fprintf(r.stdout, "Created migration %s (%s)\n", mf.Name, mf.Path)
					}
					return nil
				},
			},
		},
	}
}

func migrationName(c *cli.Context) string {
	return strings.Join(c.Args().Slice(), "_")
}
