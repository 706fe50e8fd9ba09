package server

import (
	"context"
	"net/http"

	"github.com/chazu/cabinetcut/pkg/cabinet"
	"github.com/chazu/cabinetcut/pkg/calculator"
	"github.com/chazu/cabinetcut/pkg/history"
	"github.com/chazu/cabinetcut/pkg/kernel"
	"github.com/chazu/cabinetcut/pkg/logger"
	"github.com/chazu/cabinetcut/pkg/preview"
)

// Calculator is the subset of the calculator service the HTTP layer needs.
type Calculator interface {
	Compute(ctx context.Context, cfg cabinet.Config) (calculator.Result, error)
	Store(ctx context.Context, cfg cabinet.Config) (history.Unit, error)
	History(ctx context.Context) []history.Unit
	Preview(ctx context.Context, p preview.Params) ([]*kernel.Mesh, error)
	ShowPreview(ctx context.Context) (bool, error)
	SetShowPreview(ctx context.Context, show bool) error
	RunScript(ctx context.Context, source string) (calculator.ScriptResult, error)
}

type historyResponse struct {
	Units []history.Unit `json:"units"`
}

type previewResponse struct {
	Meshes []*kernel.Mesh `json:"meshes"`
}

type preferenceResponse struct {
	Show bool `json:"show"`
}

func computeHandler(svc Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cabinetRequest
		if err := DecodeJSONBody(w, r, &req); err != nil {
			WriteError(r.Context(), logg, w, err)
			return
		}
		res, err := svc.Compute(r.Context(), req.config())
		if err != nil {
			WriteError(r.Context(), logg, w, err)
			return
		}
		WriteSuccess(w, res)
	}
}

func storeHandler(svc Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cabinetRequest
		if err := DecodeJSONBody(w, r, &req); err != nil {
			WriteError(r.Context(), logg, w, err)
			return
		}
		unit, err := svc.Store(r.Context(), req.config())
		if err != nil {
			WriteError(r.Context(), logg, w, err)
			return
		}
		WriteSuccessStatus(w, http.StatusCreated, unit)
	}
}

func historyHandler(svc Calculator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		units := svc.History(r.Context())
		if units == nil {
			units = []history.Unit{}
		}
		WriteSuccess(w, historyResponse{Units: units})
	}
}

func previewHandler(svc Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req cabinetRequest
		if err := DecodeJSONBody(w, r, &req); err != nil {
			WriteError(r.Context(), logg, w, err)
			return
		}
		meshes, err := svc.Preview(r.Context(), preview.FromConfig(req.config()))
		if err != nil {
			WriteError(r.Context(), logg, w, err)
			return
		}
		WriteSuccess(w, previewResponse{Meshes: meshes})
	}
}

func scriptHandler(svc Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scriptRequest
		if err := DecodeJSONBody(w, r, &req); err != nil {
			WriteError(r.Context(), logg, w, err)
			return
		}
		res, err := svc.RunScript(r.Context(), req.Source)
		if err != nil {
			WriteError(r.Context(), logg, w, err)
			return
		}
		WriteSuccess(w, res)
	}
}

func getPreviewPreferenceHandler(svc Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		show, err := svc.ShowPreview(r.Context())
		if err != nil {
			WriteError(r.Context(), logg, w, err)
			return
		}
		WriteSuccess(w, preferenceResponse{Show: show})
	}
}

func putPreviewPreferenceHandler(svc Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req previewPreference
		if err := DecodeJSONBody(w, r, &req); err != nil {
			WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.SetShowPreview(r.Context(), *req.Show); err != nil {
			WriteError(r.Context(), logg, w, err)
			return
		}
		WriteSuccess(w, preferenceResponse{Show: *req.Show})
	}
}
