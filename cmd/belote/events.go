package main

import (
	"fmt"

	"github.com/Black-And-White-Club/belote-tracker/config"
	"github.com/urfave/cli/v2"
)

func (r *runner) eventsCommand() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "follow game events published by other belote processes",
		Subcommands: []*cli.Command{
			{
				Name:  "watch",
				Usage: "print game events as JSON lines until interrupted",
				Action: func(c *cli.Context) error {
					a, err := r.application(c)
					if err != nil {
						return err
					}
					if a.Config.Events.Driver != config.EventsNATS {
						return fmt.Errorf("events driver %q only reaches this process; use nats to watch", a.Config.Events.Driver)
					}

					ctx := contextOf(c)
					ctx, stop := signalContext(ctx)
					defer stop()
					return a.RunEventRouter(ctx, r.stdout, nil)
				},
			},
		},
	}
}
