package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/Black-And-White-Club/belote-tracker/app"
	"github.com/Black-And-White-Club/belote-tracker/app/observability"
	"github.com/Black-And-White-Club/belote-tracker/config"
	"github.com/urfave/cli/v2"
)

// runner carries what every command shares within one invocation.
type runner struct {
	stdout io.Writer
	stderr io.Writer
	app    *app.App
}

func newCLI(stdout, stderr io.Writer) *cli.App {
	r := &runner{stdout: stdout, stderr: stderr}
	return &cli.App{
		Name:      "belote",
		Usage:     "keep score of Belote games",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "config.yaml", Usage: "path to the YAML configuration file"},
			&cli.StringFlag{Name: "env-file", Value: ".env", Usage: "dotenv file loaded before BELOTE_* overrides"},
			&cli.BoolFlag{Name: "json", Usage: "print JSON instead of text"},
		},
		Commands: []*cli.Command{
			r.gameCommand(),
			r.roundCommand(),
			r.chartCommand(),
			r.exportCommand(),
			r.serveCommand(),
			r.eventsCommand(),
			r.migrateCommand(),
		},
		After: func(*cli.Context) error {
			return r.close()
		},
	}
}

func (r *runner) loadConfig(c *cli.Context) (*config.Config, error) {
	return config.LoadConfig(c.String("config"), c.String("env-file"))
}

// application wires the App on first use.
func (r *runner) application(c *cli.Context) (*app.App, error) {
	if r.app != nil {
		return r.app, nil
	}
	cfg, err := r.loadConfig(c)
	if err != nil {
		return nil, err
	}
	logger, err := observability.NewLogger(r.stderr, cfg.Observability.LogFormat, cfg.Observability.LogLevel)
	if err != nil {
		return nil, err
	}
	a, err := app.NewApp(contextOf(c), cfg, logger)
	if err != nil {
		return nil, err
	}
	r.app = a
	return a, nil
}

func (r *runner) close() error {
	if r.app == nil {
		return nil
	}
	err := r.app.Close()
	r.app = nil
	return err
}

func (r *runner) printJSON(v any) error {
	enc := json.NewEncoder(r.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *runner) writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := r.stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(r.stdout, "Wrote %d bytes to %s\n", len(data), path)
	return nil
}

func contextOf(c *cli.Context) context.Context {
	if c.Context != nil {
		return c.Context
	}
	return context.Background()
}

// signalContext ends on SIGINT or SIGTERM.
func signalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
