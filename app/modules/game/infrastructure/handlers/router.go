package gamehandlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Mount registers the game routes on r.
func (h *GameHandlers) Mount(r chi.Router) {
	r.Route("/games", func(r chi.Router) {
		r.Get("/", h.HandleListGames)
		r.Post("/", h.HandleCreateGame)

		r.Route("/{gameID}", func(r chi.Router) {
			r.Get("/", h.HandleGetGame)
			r.Delete("/", h.HandleDeleteGame)

			r.Post("/rounds", h.HandleRecordRound)
			r.Post("/rounds/import", h.HandleImportRounds)
			r.Delete("/rounds/{roundID}", h.HandleDeleteRound)

			r.Get("/stats", h.HandleStats)
			r.Get("/charts/{kind}.png", h.HandleChart)
			r.Get("/export.xlsx", h.HandleExport)
		})
	})
}

// NewRouter builds the full HTTP handler. A nil gatherer disables /metrics.
// Extra middlewares run after the standard chi stack.
func NewRouter(h *GameHandlers, gatherer prometheus.Gatherer, middlewares ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middlewares...)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	h.Mount(r)
	return r
}
