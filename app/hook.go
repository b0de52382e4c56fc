package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

// WaitForShutdown returns a channel closed on SIGINT, SIGTERM or when ctx ends.
func (app *App) WaitForShutdown(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(interrupt)

		select {
		case sig := <-interrupt:
			app.Logger.Info("Shutdown signal received", slog.String("signal", sig.String()))
		case <-ctx.Done():
			app.Logger.Info("Application context canceled")
		}
	}()
	return done
}

func (app *App) shutdown(srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), app.Config.HTTP.ShutdownTimeout)
	defer cancel()

	app.Logger.Info("Shutting down server")
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	app.Logger.Info("Server shut down gracefully")
	return nil
}
