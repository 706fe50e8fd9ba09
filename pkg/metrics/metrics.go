package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Calculator records cutlist, history, preview and script activity.
type Calculator struct {
	computed      *prometheus.CounterVec
	failures      *prometheus.CounterVec
	appends       prometheus.Counter
	previewRender prometheus.Histogram
	scriptRuns    *prometheus.CounterVec
}

// NewCalculator registers the calculator metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewCalculator(reg prometheus.Registerer) *Calculator {
	if reg == nil {
		return &Calculator{}
	}
	computed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cabinet_cutlists_computed_total",
		Help: "Cutlists computed, by cabinet type.",
	}, []string{"type"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cabinet_cutlist_errors_total",
		Help: "Cutlist computations rejected, by error code.",
	}, []string{"code"})
	appends := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cabinet_history_appends_total",
		Help: "Cabinet units appended to history.",
	})
	previewRender := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cabinet_preview_render_seconds",
		Help:    "Time spent building and meshing 3D previews.",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
	})
	scriptRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cabinet_script_runs_total",
		Help: "Batch script evaluations, by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(computed, failures, appends, previewRender, scriptRuns)
	return &Calculator{
		computed:      computed,
		failures:      failures,
		appends:       appends,
		previewRender: previewRender,
		scriptRuns:    scriptRuns,
	}
}

func (c *Calculator) IncComputed(cabinetType string) {
	if c == nil || c.computed == nil {
		return
	}
	c.computed.WithLabelValues(normalizeLabel(cabinetType)).Inc()
}

func (c *Calculator) IncFailure(code string) {
	if c == nil || c.failures == nil {
		return
	}
	c.failures.WithLabelValues(normalizeLabel(code)).Inc()
}

func (c *Calculator) IncAppend() {
	if c == nil || c.appends == nil {
		return
	}
	c.appends.Inc()
}

func (c *Calculator) ObservePreview(d time.Duration) {
	if c == nil || c.previewRender == nil {
		return
	}
	c.previewRender.Observe(d.Seconds())
}

// IncScriptRun counts a script evaluation by outcome: "ok", "eval_error",
// "timeout", "busy", "superseded", "canceled" or "error".
func (c *Calculator) IncScriptRun(outcome string) {
	if c == nil || c.scriptRuns == nil {
		return
	}
	c.scriptRuns.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
