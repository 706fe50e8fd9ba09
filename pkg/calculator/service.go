// Package calculator is the service facade shared by the desktop app and the
// HTTP service. It computes cutlists, keeps the history, renders previews
// and runs batch scripts, logging and recording metrics along the way.
package calculator

import (
	"context"
	"errors"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/chazu/cabinetcut/pkg/cabinet"
	"github.com/chazu/cabinetcut/pkg/cutlist"
	"github.com/chazu/cabinetcut/pkg/engine"
	pkgerrors "github.com/chazu/cabinetcut/pkg/errors"
	"github.com/chazu/cabinetcut/pkg/history"
	"github.com/chazu/cabinetcut/pkg/kernel"
	"github.com/chazu/cabinetcut/pkg/logger"
	"github.com/chazu/cabinetcut/pkg/metrics"
	"github.com/chazu/cabinetcut/pkg/prefs"
	"github.com/chazu/cabinetcut/pkg/preview"
)

// DefaultShowPreview is the preview preference before the user toggles it.
const DefaultShowPreview = true

// HistoryRepository persists stored units.
type HistoryRepository interface {
	Save(ctx context.Context, u history.Unit) error
	List(ctx context.Context) ([]history.Unit, error)
}

// ServiceParams groups dependencies for the calculator service. History,
// Engine and Kernel are required; the rest are optional.
type ServiceParams struct {
	History    *history.Store
	Repository HistoryRepository
	Prefs      prefs.Store
	Engine     *engine.Engine
	Kernel     kernel.Kernel
	Metrics    *metrics.Calculator
	Logger     *logger.Logger
}

// Service exposes the calculator operations. It is safe for concurrent use.
type Service struct {
	history *history.Store
	repo    HistoryRepository
	prefs   prefs.Store
	engine  *engine.Engine
	kernel  kernel.Kernel
	metrics *metrics.Calculator
	log     *logger.Logger
}

// Result is a computed cutlist with its rendered rows.
type Result struct {
	Config  cabinet.Config  `json:"config"`
	CutList cutlist.CutList `json:"cutList"`
	Rows    []cutlist.Row   `json:"rows"`
}

// NewService builds a calculator service with the required dependencies.
func NewService(params ServiceParams) (*Service, error) {
	if params.History == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "history store is required")
	}
	if params.Engine == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "script engine is required")
	}
	if params.Kernel == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "geometry kernel is required")
	}
	s := &Service{
		history: params.History,
		repo:    params.Repository,
		prefs:   params.Prefs,
		engine:  params.Engine,
		kernel:  params.Kernel,
		metrics: params.Metrics,
		log:     params.Logger,
	}
	if s.prefs == nil {
		s.prefs = prefs.NewMemory()
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	return s, nil
}

// Compute derives the cutlist for cfg. The door count is derived first
// unless it was set manually.
func (s *Service) Compute(ctx context.Context, cfg cabinet.Config) (Result, error) {
	cfg = cfg.Resolve()
	ctx = s.log.WithCabinetType(ctx, cfg.Type.String())

	cl, err := cutlist.Compute(cfg)
	if err != nil {
		typed := classify(err)
		s.metrics.IncFailure(string(typed.Code()))
		s.log.Warn(s.log.WithField(ctx, "error", err.Error()), "cutlist.rejected")
		return Result{}, typed
	}

	s.metrics.IncComputed(cfg.Type.String())
	s.log.Debug(s.log.WithFields(ctx, map[string]any{
		"pieces": cl.Len(),
		"boards": cl.TotalQuantity(),
	}), "cutlist.computed")
	return Result{Config: cfg, CutList: cl, Rows: cutlist.Format(cl)}, nil
}

// Store computes cfg and appends it to the history. Persistence failures are
// logged and never fail the append.
func (s *Service) Store(ctx context.Context, cfg cabinet.Config) (history.Unit, error) {
	res, err := s.Compute(ctx, cfg)
	if err != nil {
		return history.Unit{}, err
	}

	unit := s.history.Append(res.Config, res.CutList)
	s.metrics.IncAppend()
	ctx = s.log.WithFields(ctx, map[string]any{"unit_id": unit.ID.String(), "seq": unit.Seq})
	s.log.Info(ctx, "history.appended")

	if s.repo != nil {
		if err := s.repo.Save(ctx, unit); err != nil {
			s.log.Error(ctx, "history.persist_failed", err)
		}
	}
	return unit, nil
}

// History returns every stored unit in insertion order.
func (s *Service) History(_ context.Context) []history.Unit {
	return s.history.List()
}

// Preview renders the preview meshes for p.
func (s *Service) Preview(ctx context.Context, p preview.Params) ([]*kernel.Mesh, error) {
	if err := ctx.Err(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeTimeout, err, "preview canceled")
	}

	start := time.Now()
	meshes, err := preview.Render(p, s.kernel)
	elapsed := time.Since(start)
	if err != nil {
		typed := classify(err)
		s.metrics.IncFailure(string(typed.Code()))
		s.log.Warn(s.log.WithField(ctx, "error", err.Error()), "preview.failed")
		return nil, typed
	}

	s.metrics.ObservePreview(elapsed)
	s.log.Debug(s.log.WithFields(ctx, map[string]any{
		"meshes":     len(meshes),
		"elapsed_ms": elapsed.Milliseconds(),
	}), "preview.rendered")
	return meshes, nil
}

// ShowPreview reads the preview display preference.
func (s *Service) ShowPreview(ctx context.Context) (bool, error) {
	show, err := s.prefs.Bool(ctx, prefs.KeyShowPreview, DefaultShowPreview)
	if err != nil {
		return DefaultShowPreview, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load preview preference")
	}
	return show, nil
}

// SetShowPreview stores the preview display preference.
func (s *Service) SetShowPreview(ctx context.Context, show bool) error {
	if err := s.prefs.SetBool(ctx, prefs.KeyShowPreview, show); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save preview preference")
	}
	s.log.Info(s.log.WithField(ctx, "show", show), "prefs.preview_updated")
	return nil
}

// ScriptCabinet is the outcome for one cabinet declared by a script.
// Failed cabinets carry Errors and no cutlist.
type ScriptCabinet struct {
	Name    string          `json:"name"`
	Config  cabinet.Config  `json:"config"`
	CutList cutlist.CutList `json:"cutList"`
	Rows    []cutlist.Row   `json:"rows,omitempty"`
	Errors  []FieldDetail   `json:"errors,omitempty"`
}

// ScriptResult lists the script's cabinets in declaration order.
type ScriptResult struct {
	Cabinets []ScriptCabinet `json:"cabinets"`
	Failed   int             `json:"failed"`
}

// RunScript evaluates a batch script and computes every declared cabinet
// concurrently. Errors in the script itself fail the run; invalid cabinets
// are reported per cabinet.
func (s *Service) RunScript(ctx context.Context, source string) (ScriptResult, error) {
	items, evalErrs, err := s.engine.Evaluate(ctx, source)
	switch {
	case err != nil:
		typed := classifyScript(err)
		s.metrics.IncScriptRun(outcomeFor(typed.Code()))
		s.log.Warn(s.log.WithFields(ctx, map[string]any{
			"error":       err.Error(),
			"timeout":     s.engine.Timeout().String(),
			"maxInFlight": s.engine.MaxInFlight(),
		}), "script.aborted")
		return ScriptResult{}, typed
	case len(evalErrs) > 0:
		s.metrics.IncScriptRun("eval_error")
		s.log.Info(s.log.WithField(ctx, "errors", len(evalErrs)), "script.rejected")
		return ScriptResult{}, pkgerrors.New(pkgerrors.CodeScript, "script has errors").WithDetails(evalErrs)
	}

	cabinets := make([]ScriptCabinet, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cfg := item.Config.Resolve()
			sc := ScriptCabinet{Name: item.Name, Config: cfg}
			cl, err := cutlist.Compute(cfg)
			if err != nil {
				sc.Errors = fieldDetails(err)
			} else {
				sc.CutList = cl
				sc.Rows = cutlist.Format(cl)
				s.metrics.IncComputed(cfg.Type.String())
			}
			cabinets[i] = sc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.metrics.IncScriptRun("canceled")
		return ScriptResult{}, pkgerrors.Wrap(pkgerrors.CodeTimeout, err, "script run canceled")
	}

	res := ScriptResult{Cabinets: cabinets}
	for _, c := range cabinets {
		if len(c.Errors) > 0 {
			res.Failed++
		}
	}
	s.metrics.IncScriptRun("ok")
	s.log.Info(s.log.WithFields(ctx, map[string]any{
		"cabinets": len(cabinets),
		"failed":   res.Failed,
	}), "script.completed")
	return res, nil
}

func classifyScript(err error) *pkgerrors.Error {
	switch {
	case errors.Is(err, engine.ErrTimeout),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return pkgerrors.Wrap(pkgerrors.CodeTimeout, err, "script evaluation stopped")
	case errors.Is(err, engine.ErrBusy):
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "script engine busy")
	case errors.Is(err, engine.ErrSuperseded):
		return pkgerrors.Wrap(pkgerrors.CodeScript, err, "script superseded by a newer run")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "script evaluation failed")
	}
}

func outcomeFor(code pkgerrors.Code) string {
	switch code {
	case pkgerrors.CodeTimeout:
		return "timeout"
	case pkgerrors.CodeScript:
		return "superseded"
	case pkgerrors.CodeDependency:
		return "busy"
	default:
		return "error"
	}
}
