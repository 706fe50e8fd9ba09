package main

import (
	"context"
	"sync"
	"time"

	"github.com/chazu/cabinetcut/pkg/cabinet"
	"github.com/chazu/cabinetcut/pkg/calculator"
	"github.com/chazu/cabinetcut/pkg/cutlist"
	"github.com/chazu/cabinetcut/pkg/engine"
	pkgerrors "github.com/chazu/cabinetcut/pkg/errors"
	"github.com/chazu/cabinetcut/pkg/history"
	"github.com/chazu/cabinetcut/pkg/logger"
	"github.com/chazu/cabinetcut/pkg/preview"
)

// categoryColors assigns each preview part category a fixed color.
var categoryColors = map[string]string{
	preview.CategoryBody:       "#C8A27A",
	preview.CategoryDoor:       "#4A90D9",
	preview.CategoryHandle:     "#7F8C8D",
	preview.CategoryCountertop: "#ECF0F1",
	preview.CategoryLeg:        "#34495E",
}

// colorPalette colors parts whose category has no fixed color.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App is the Wails backend. It owns one session form and exposes the
// calculator to the frontend via bindings.
type App struct {
	ctx context.Context
	svc *calculator.Service
	log *logger.Logger

	mu   sync.Mutex
	form *cabinet.Form
}

// MeshData is the JSON-serializable mesh format sent to the frontend.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	PartName string    `json:"partName"`
	Category string    `json:"category"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable script error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// CalcResult is the form state after an update with its cutlist rows.
// Errors is non-empty when the current form cannot be computed.
type CalcResult struct {
	Config cabinet.Config           `json:"config"`
	Rows   []cutlist.Row            `json:"rows"`
	Errors []calculator.FieldDetail `json:"errors"`
}

// HistoryEntry is one stored cabinet as shown in the history list.
type HistoryEntry struct {
	Seq       int            `json:"seq"`
	CreatedAt time.Time      `json:"createdAt"`
	Config    cabinet.Config `json:"config"`
	Rows      []cutlist.Row  `json:"rows"`
}

// PreviewResult carries the preview meshes. Hidden is set when the user
// turned the preview off; Error and Code are set when the form cannot be
// rendered.
type PreviewResult struct {
	Meshes []MeshData `json:"meshes"`
	Hidden bool       `json:"hidden"`
	Error  string     `json:"error,omitempty"`
	Code   string     `json:"code,omitempty"`
}

// ScriptResult is a batch script outcome for the script panel.
type ScriptResult struct {
	Cabinets []calculator.ScriptCabinet `json:"cabinets"`
	Failed   int                        `json:"failed"`
	Errors   []EvalErrorData            `json:"errors"`
}

// NewApp creates an App around a wired calculator service.
func NewApp(svc *calculator.Service, policy cabinet.Policy, logg *logger.Logger) *App {
	if logg == nil {
		logg = logger.Nop()
	}
	return &App{
		ctx:  context.Background(),
		svc:  svc,
		log:  logg,
		form: cabinet.NewForm(policy),
	}
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// Update applies a partial form change and recomputes the cutlist.
func (a *App) Update(p cabinet.Patch) CalcResult {
	a.mu.Lock()
	a.form.Apply(p)
	cfg := a.form.Config()
	a.mu.Unlock()

	result := CalcResult{
		Config: cfg,
		Rows:   []cutlist.Row{},
		Errors: []calculator.FieldDetail{},
	}

	res, err := a.svc.Compute(a.ctx, cfg)
	if err != nil {
		result.Errors = fieldDetailsOf(err)
		return result
	}
	result.Config = res.Config
	result.Rows = res.Rows
	return result
}

// Store appends the current form to the history.
func (a *App) Store() (HistoryEntry, error) {
	a.mu.Lock()
	cfg := a.form.Config()
	a.mu.Unlock()

	u, err := a.svc.Store(a.ctx, cfg)
	if err != nil {
		return HistoryEntry{}, err
	}
	return historyEntry(u), nil
}

// History lists stored cabinets, oldest first.
func (a *App) History() []HistoryEntry {
	units := a.svc.History(a.ctx)
	entries := make([]HistoryEntry, 0, len(units))
	for _, u := range units {
		entries = append(entries, historyEntry(u))
	}
	return entries
}

// Preview renders the current form as colored meshes.
func (a *App) Preview() PreviewResult {
	result := PreviewResult{Meshes: []MeshData{}}
	if !a.ShowPreview() {
		result.Hidden = true
		return result
	}

	a.mu.Lock()
	cfg := a.form.Config()
	a.mu.Unlock()

	meshes, err := a.svc.Preview(a.ctx, preview.FromConfig(cfg))
	if err != nil {
		result.Error = errorMessage(err)
		result.Code = string(pkgerrors.CodeOf(err))
		return result
	}

	for i, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			PartName: m.PartName,
			Category: m.Category,
			Color:    colorFor(m.Category, i),
		})
	}
	return result
}

// ShowPreview reports the persisted preview preference. Read failures fall
// back to showing the preview.
func (a *App) ShowPreview() bool {
	show, err := a.svc.ShowPreview(a.ctx)
	if err != nil {
		a.log.Error(a.ctx, "prefs.read_failed", err)
		return calculator.DefaultShowPreview
	}
	return show
}

func (a *App) SetShowPreview(show bool) error {
	return a.svc.SetShowPreview(a.ctx, show)
}

// RunScript evaluates a batch script. Script errors are returned in Errors
// rather than as a Go error so the editor can mark them.
func (a *App) RunScript(source string) ScriptResult {
	result := ScriptResult{
		Cabinets: []calculator.ScriptCabinet{},
		Errors:   []EvalErrorData{},
	}

	res, err := a.svc.RunScript(a.ctx, source)
	if err != nil {
		result.Errors = evalErrorsOf(err)
		return result
	}
	if res.Cabinets != nil {
		result.Cabinets = res.Cabinets
	}
	result.Failed = res.Failed
	return result
}

func historyEntry(u history.Unit) HistoryEntry {
	return HistoryEntry{
		Seq:       u.Seq,
		CreatedAt: u.CreatedAt,
		Config:    u.Config,
		Rows:      u.Rows,
	}
}

func colorFor(category string, index int) string {
	if c, ok := categoryColors[category]; ok {
		return c
	}
	return colorPalette[index%len(colorPalette)]
}

func fieldDetailsOf(err error) []calculator.FieldDetail {
	if typed := pkgerrors.As(err); typed != nil {
		if details, ok := typed.Details().([]calculator.FieldDetail); ok && len(details) > 0 {
			return details
		}
	}
	return []calculator.FieldDetail{{Field: "config", Message: errorMessage(err)}}
}

func evalErrorsOf(err error) []EvalErrorData {
	if typed := pkgerrors.As(err); typed != nil {
		if details, ok := typed.Details().([]engine.EvalError); ok && len(details) > 0 {
			out := make([]EvalErrorData, 0, len(details))
			for _, e := range details {
				out = append(out, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
			}
			return out
		}
	}
	return []EvalErrorData{{Message: errorMessage(err)}}
}

// errorMessage prefers the typed message over the wrapped chain.
func errorMessage(err error) string {
	if typed := pkgerrors.As(err); typed != nil && typed.Message() != "" {
		return typed.Message()
	}
	return err.Error()
}
