package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/cabinetcut/pkg/calculator"
	"github.com/chazu/cabinetcut/pkg/engine"
	"github.com/chazu/cabinetcut/pkg/history"
	"github.com/chazu/cabinetcut/pkg/kernel/sdfx"
	"github.com/chazu/cabinetcut/pkg/logger"
	"github.com/chazu/cabinetcut/pkg/metrics"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func newTestRouter(t *testing.T, db Pinger) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	svc, err := calculator.NewService(calculator.ServiceParams{
		History: history.NewStore(),
		Engine:  engine.NewEngine(engine.WithSupersede(false)),
		Kernel:  sdfx.NewWithCells(24),
		Metrics: metrics.NewCalculator(reg),
		Logger:  logger.Nop(),
	})
	require.NoError(t, err)
	return NewRouter(Deps{Service: svc, Logger: logger.Nop(), DB: db, Gatherer: reg})
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)

	var env envelope
	if strings.HasPrefix(resp.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	}
	return resp, env
}

func TestHealthz(t *testing.T) {
	h := newTestRouter(t, stubPinger{})
	resp, env := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))
	assert.NotEmpty(t, resp.Header().Get(requestIDHeader))
}

func TestHealthzWithoutDatabase(t *testing.T) {
	h := newTestRouter(t, nil)
	resp, _ := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestHealthzDatabaseDown(t *testing.T) {
	h := newTestRouter(t, stubPinger{err: errors.New("disk gone")})
	resp, env := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "DEPENDENCY_ERROR", env.Error.Code)
}

func TestUnknownRoute(t *testing.T) {
	h := newTestRouter(t, nil)
	resp, env := do(t, h, http.MethodGet, "/v1/cabinets", "")
	require.Equal(t, http.StatusNotFound, resp.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
	assert.Equal(t, "no route for GET /v1/cabinets", env.Error.Message)
}

func TestRequestIDIsPropagated(t *testing.T) {
	h := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "req-42")
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	assert.Equal(t, "req-42", resp.Header().Get(requestIDHeader))
}

func TestComputeCutlist(t *testing.T) {
	h := newTestRouter(t, nil)
	resp, env := do(t, h, http.MethodPost, "/v1/cutlists", `{"type":"base","length":100}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var res struct {
		Config struct {
			DoorCount int     `json:"doorCount"`
			Height    float64 `json:"height"`
		} `json:"config"`
		Rows []json.RawMessage `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, 2, res.Config.DoorCount)
	assert.Equal(t, 72.0, res.Config.Height)
	assert.NotEmpty(t, res.Rows)

	metricsResp := httptest.NewRecorder()
	h.ServeHTTP(metricsResp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, metricsResp.Code)
	assert.Contains(t, metricsResp.Body.String(), "cabinet_cutlists_computed_total")
}

func TestComputeManualDoorCount(t *testing.T) {
	h := newTestRouter(t, nil)
	resp, env := do(t, h, http.MethodPost, "/v1/cutlists", `{"type":"base","length":100,"doorCount":3}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var res struct {
		Config struct {
			DoorCount         int  `json:"doorCount"`
			DoorCountIsManual bool `json:"doorCountIsManual"`
		} `json:"config"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, 3, res.Config.DoorCount)
	assert.True(t, res.Config.DoorCountIsManual)
}

func TestComputeRejectsInvalidDimensions(t *testing.T) {
	h := newTestRouter(t, nil)
	resp, env := do(t, h, http.MethodPost, "/v1/cutlists", `{"type":"base","length":100,"height":-1,"depth":0}`)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	var details []calculator.FieldDetail
	require.NoError(t, json.Unmarshal(env.Error.Details, &details))
	fields := map[string]bool{}
	for _, d := range details {
		fields[d.Field] = true
	}
	assert.True(t, fields["height"])
	assert.True(t, fields["depth"])
}

func TestComputeRejectsUnknownType(t *testing.T) {
	h := newTestRouter(t, nil)
	resp, env := do(t, h, http.MethodPost, "/v1/cutlists", `{"type":"island","length":100}`)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "unknown field", body: `{"type":"base","length":100,"colour":"red"}`},
		{name: "malformed", body: `{"type":`},
		{name: "missing type", body: `{"length":100}`, field: "type"},
		{name: "missing length", body: `{"type":"wall"}`, field: "length"},
		{name: "negative shelves", body: `{"type":"wall","length":60,"shelves":-1}`, field: "shelves"},
		{name: "door count over limit", body: `{"type":"base","length":100,"doorCount":100000}`, field: "doorCount"},
		{name: "zero door count", body: `{"type":"base","length":100,"doorCount":0}`, field: "doorCount"},
	}

	h := newTestRouter(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, env := do(t, h, http.MethodPost, "/v1/cutlists", tt.body)
			require.Equal(t, http.StatusBadRequest, resp.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
			if tt.field == "" {
				return
			}
			var details map[string]string
			require.NoError(t, json.Unmarshal(env.Error.Details, &details))
			assert.Contains(t, details, tt.field)
		})
	}
}

func TestHistoryRoundTrip(t *testing.T) {
	h := newTestRouter(t, nil)

	resp, env := do(t, h, http.MethodGet, "/v1/history", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"units":[]}`, string(env.Data))

	resp, env = do(t, h, http.MethodPost, "/v1/history", `{"type":"wall","length":60}`)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var stored struct {
		Seq int `json:"seq"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &stored))
	assert.Equal(t, 1, stored.Seq)

	resp, _ = do(t, h, http.MethodPost, "/v1/history", `{"type":"base","length":0.5,"height":-2}`)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	resp, env = do(t, h, http.MethodGet, "/v1/history", "")
	require.Equal(t, http.StatusOK, resp.Code)
	var list historyResponse
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list.Units, 1)
	assert.Equal(t, "wall", list.Units[0].Config.Type.String())
	assert.NotEmpty(t, list.Units[0].Rows)
}

func TestPreview(t *testing.T) {
	h := newTestRouter(t, nil)
	resp, env := do(t, h, http.MethodPost, "/v1/previews", `{"type":"wall","length":60,"handleType":"magnet"}`)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var res struct {
		Meshes []struct {
			PartName string `json:"partName"`
			Category string `json:"category"`
		} `json:"meshes"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.NotEmpty(t, res.Meshes)
	categories := map[string]bool{}
	for _, m := range res.Meshes {
		categories[m.Category] = true
	}
	assert.True(t, categories["body"])
	assert.True(t, categories["door"])
	assert.False(t, categories["countertop"])
}

func TestPreviewRejectsDoorsThatDoNotFit(t *testing.T) {
	h := newTestRouter(t, nil)
	resp, env := do(t, h, http.MethodPost, "/v1/previews", `{"type":"base","length":30,"doorCount":40,"handleType":"classic"}`)
	require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	var details []calculator.FieldDetail
	require.NoError(t, json.Unmarshal(env.Error.Details, &details))
	require.Len(t, details, 1)
	assert.Equal(t, "length", details[0].Field)
}

func TestRunScript(t *testing.T) {
	h := newTestRouter(t, nil)
	body := `{"source":"(cabinet \"sink\" :type :base :length 120)\n(cabinet \"tall\" :type :full :length 60)"}`
	resp, env := do(t, h, http.MethodPost, "/v1/scripts", body)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var res calculator.ScriptResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	require.Len(t, res.Cabinets, 2)
	assert.Equal(t, "sink", res.Cabinets[0].Name)
	assert.Equal(t, "tall", res.Cabinets[1].Name)
	assert.Zero(t, res.Failed)
}

func TestRunScriptSyntaxError(t *testing.T) {
	h := newTestRouter(t, nil)
	resp, env := do(t, h, http.MethodPost, "/v1/scripts", `{"source":"(cabinet \"x\" :type"}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code, resp.Body.String())
	require.NotNil(t, env.Error)
	assert.Equal(t, "SCRIPT_ERROR", env.Error.Code)
	assert.NotEmpty(t, env.Error.Details)
}

func TestRunScriptRequiresSource(t *testing.T) {
	h := newTestRouter(t, nil)
	resp, _ := do(t, h, http.MethodPost, "/v1/scripts", `{"source":""}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestPreviewPreference(t *testing.T) {
	h := newTestRouter(t, nil)

	resp, env := do(t, h, http.MethodGet, "/v1/preferences/preview", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"show":true}`, string(env.Data))

	resp, env = do(t, h, http.MethodPut, "/v1/preferences/preview", `{"show":false}`)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"show":false}`, string(env.Data))

	resp, env = do(t, h, http.MethodGet, "/v1/preferences/preview", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"show":false}`, string(env.Data))

	resp, _ = do(t, h, http.MethodPut, "/v1/preferences/preview", `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestRecovererWritesInternalError(t *testing.T) {
	h := Recoverer(logger.Nop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	assert.Equal(t, "INTERNAL_ERROR", env.Error.Code)
	assert.Equal(t, "internal server error", env.Error.Message)
	assert.Empty(t, env.Error.Details)
}

func TestWriteErrorUntyped(t *testing.T) {
	resp := httptest.NewRecorder()
	WriteError(context.Background(), logger.Nop(), resp, errors.New("leaky detail"))
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.NotContains(t, resp.Body.String(), "leaky detail")
}
