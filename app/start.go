package app

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
)

// Start serves the API until ctx is canceled or a shutdown signal arrives.
func (app *App) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", app.Config.HTTP.Addr)
	if err != nil {
		return err
	}
	return app.Serve(ctx, listener)
}

// Serve serves the API on listener until ctx is canceled or a shutdown
// signal arrives, then drains in-flight requests.
func (app *App) Serve(ctx context.Context, listener net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	routerErr := make(chan error, 1)
	go func() {
		routerErr <- app.RunEventRouter(ctx, nil, nil)
	}()

	srv := &http.Server{
		Handler:      app.Router(),
		ReadTimeout:  app.Config.HTTP.ReadTimeout,
		WriteTimeout: app.Config.HTTP.WriteTimeout,
	}

	app.Logger.InfoContext(ctx, "Starting server", slog.String("addr", listener.Addr().String()))

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		cancel()
		<-routerErr
		return err
	case <-app.WaitForShutdown(ctx):
	}

	err := app.shutdown(srv)
	cancel()
	if rerr := <-routerErr; rerr != nil {
		app.Logger.Warn("Event router stopped with error", slog.String("error", rerr.Error()))
	}
	return err
}
