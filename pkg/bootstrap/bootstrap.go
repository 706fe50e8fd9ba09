// Package bootstrap assembles the calculator service from configuration.
// Both the desktop app and the HTTP service start through it.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/chazu/cabinetcut/pkg/calculator"
	"github.com/chazu/cabinetcut/pkg/config"
	"github.com/chazu/cabinetcut/pkg/db"
	"github.com/chazu/cabinetcut/pkg/engine"
	"github.com/chazu/cabinetcut/pkg/history"
	"github.com/chazu/cabinetcut/pkg/kernel/sdfx"
	"github.com/chazu/cabinetcut/pkg/logger"
	"github.com/chazu/cabinetcut/pkg/metrics"
	"github.com/chazu/cabinetcut/pkg/prefs"
)

// Runtime holds the wired service and the resources it owns.
type Runtime struct {
	Service  *calculator.Service
	DB       *db.Client // nil when persistence is disabled
	Registry *prometheus.Registry
}

// New wires the calculator. When cfg.DB is enabled the history is restored
// from SQLite and every stored unit and preference is written back to it.
func New(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*Runtime, error) {
	if logg == nil {
		logg = logger.Nop()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	params := calculator.ServiceParams{
		History: history.NewStore(),
		Engine: engine.NewEngine(
			engine.WithTimeout(cfg.Script.Timeout),
			engine.WithMaxCabinets(cfg.Script.MaxCabinets),
			engine.WithMaxInFlight(cfg.Script.MaxInFlight),
			// Requests share the engine; one must not supersede another.
			engine.WithSupersede(false),
		),
		Kernel:  sdfx.NewWithCells(cfg.Preview.MeshCells),
		Metrics: metrics.NewCalculator(reg),
		Logger:  logg,
	}

	rt := &Runtime{Registry: reg}

	if cfg.DB.Enabled() {
		client, err := db.Open(ctx, cfg.DB.Path, logg)
		if err != nil {
			return nil, fmt.Errorf("bootstrap database: %w", err)
		}
		repo := history.NewRepository(client)
		units, err := repo.List(ctx)
		if err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("restore history: %w", err)
		}
		params.History = history.Restore(units)
		params.Repository = repo
		params.Prefs = prefs.NewRepository(client.DB())
		rt.DB = client

		logg.Info(logg.WithField(ctx, "units", len(units)), "history restored")
	}

	svc, err := calculator.NewService(params)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	rt.Service = svc
	return rt, nil
}

// Close releases the database, if any.
func (r *Runtime) Close() error {
	if r == nil || r.DB == nil {
		return nil
	}
	return r.DB.Close()
}
