// Package server exposes the calculator over HTTP as JSON endpoints.
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	pkgerrors "github.com/chazu/cabinetcut/pkg/errors"
	"github.com/chazu/cabinetcut/pkg/logger"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps groups what the router needs. DB and Gatherer are optional: without
// a database the health check skips the ping, and without a gatherer the
// default prometheus registry is served.
type Deps struct {
	Service  Calculator
	Logger   *logger.Logger
	DB       Pinger
	Gatherer prometheus.Gatherer
}

func NewRouter(deps Deps) http.Handler {
	logg := deps.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(
		Recoverer(logg),
		RequestID(logg),
		Logging(logg),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no route for "+r.Method+" "+r.URL.Path))
	})

	r.Get("/healthz", healthHandler(deps.DB, logg))
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/cutlists", computeHandler(deps.Service, logg))
		r.Get("/history", historyHandler(deps.Service))
		r.Post("/history", storeHandler(deps.Service, logg))
		r.Post("/previews", previewHandler(deps.Service, logg))
		r.Post("/scripts", scriptHandler(deps.Service, logg))
		r.Get("/preferences/preview", getPreviewPreferenceHandler(deps.Service, logg))
		r.Put("/preferences/preview", putPreviewPreferenceHandler(deps.Service, logg))
	})

	return r
}

func healthHandler(db Pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
		}
		WriteSuccess(w, map[string]string{"status": "ok"})
	}
}
