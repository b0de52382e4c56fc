package app

import (
	"context"
	"io"
	"log/slog"

	gamerouter "github.com/Black-And-White-Club/belote-tracker/app/modules/game/infrastructure/router"
	gamesubscribers "github.com/Black-And-White-Club/belote-tracker/app/modules/game/infrastructure/subscribers"
	"github.com/Black-And-White-Club/belote-tracker/app/observability"
)

// RunEventRouter consumes game events from the bus until ctx ends, writing
// them to sink as JSON lines when sink is non-nil. ready is closed once every
// handler is subscribed. It returns immediately when events are disabled.
func (app *App) RunEventRouter(ctx context.Context, sink io.Writer, ready chan<- struct{}) error {
	if app.Bus == nil {
		if ready != nil {
			close(ready)
		}
		return nil
	}

	logger := app.Logger.With(slog.String("component", "game_router"))
	router, err := gamerouter.NewGameRouter(logger, app.Bus, observability.Tracer())
	if err != nil {
		return err
	}
	handlers := gamesubscribers.NewEventHandlers(logger, app.EventMetrics(), sink)
	if err := router.Configure(ctx, handlers); err != nil {
		return err
	}

	if ready != nil {
		go func() {
			select {
			case <-router.Running():
				close(ready)
			case <-ctx.Done():
			}
		}()
	}
	return router.Run(ctx)
}
