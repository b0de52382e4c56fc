package app

import (
	"net/http"

	gameservice "github.com/Black-And-White-Club/belote-tracker/app/modules/game/application"
	gamehandlers "github.com/Black-And-White-Club/belote-tracker/app/modules/game/infrastructure/handlers"
	"github.com/prometheus/client_golang/prometheus"
)

// Router returns the HTTP handler of the local API.
func (app *App) Router() http.Handler {
	handlers := gamehandlers.NewGameHandlers(app.Service, gameservice.NewSinceParser(nil), app.Logger)

	var gatherer prometheus.Gatherer
	if app.Registry != nil {
		gatherer = app.Registry
	}

	var middlewares []func(http.Handler) http.Handler
	if len(app.Config.HTTP.AllowedOrigins) > 0 {
		middlewares = append(middlewares, gamehandlers.CORSMiddleware(app.Config.HTTP.AllowedOrigins))
	}
	if app.Config.HTTP.RateLimit > 0 {
		limiter := gamehandlers.NewIPRateLimiter(app.Config.HTTP.RateLimit, app.Config.HTTP.RateBurst)
		middlewares = append(middlewares, gamehandlers.RateLimitMiddleware(limiter))
	}
	return gamehandlers.NewRouter(handlers, gatherer, middlewares...)
}
