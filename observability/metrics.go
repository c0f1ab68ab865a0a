// Package observability provides Prometheus metrics for pup runs, model
// requests and capability executions.
package observability

import "github.com/prometheus/client_golang/prometheus"

// LLMBuckets defines histogram buckets suited for LLM inference latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

// Status label values shared by the counters below.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

var (
	// RunsTotal counts finished runs by pup name and outcome
	// (text, structured, bail, error).
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartpup_runs_total",
			Help: "Finished runs",
		},
		[]string{"pup", "outcome"},
	)

	// RunDuration records end-to-end run duration in seconds.
	RunDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "smartpup_run_duration_seconds",
			Help:    "Run duration",
			Buckets: LLMBuckets,
		},
		[]string{"pup"},
	)

	// RunIterations records the number of model requests a run issued.
	RunIterations = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "smartpup_run_iterations",
			Help:    "Model requests per run",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"pup"},
	)

	// ActiveRuns tracks the number of runs in progress.
	ActiveRuns = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "smartpup_runs_active",
			Help: "Active runs",
		},
	)

	// ModelRequestsTotal counts completion requests sent to model providers.
	ModelRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartpup_model_requests_total",
			Help: "Model requests",
		},
		[]string{"provider", "model", "status"},
	)

	// ModelLatency records model request latency in seconds.
	ModelLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "smartpup_model_latency_seconds",
			Help:    "Model latency",
			Buckets: LLMBuckets,
		},
		[]string{"provider", "model"},
	)

	// ModelTokensTotal counts tokens processed by direction (input/output).
	ModelTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartpup_model_tokens_total",
			Help: "Token count",
		},
		[]string{"provider", "model", "direction"},
	)

	// ToolExecutionsTotal counts capability executions by name and outcome.
	ToolExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartpup_tool_executions_total",
			Help: "Tool executions",
		},
		[]string{"tool_name", "status"},
	)

	// ToolDuration records capability execution time in seconds.
	ToolDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "smartpup_tool_duration_seconds",
			Help:    "Tool execution duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"tool_name"},
	)

	// ToolRegistrationsTotal counts registry instantiations by outcome.
	ToolRegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartpup_tool_registrations_total",
			Help: "Tool registrations",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(
		RunsTotal,
		RunDuration,
		RunIterations,
		ActiveRuns,
		ModelRequestsTotal,
		ModelLatency,
		ModelTokensTotal,
		ToolExecutionsTotal,
		ToolDuration,
		ToolRegistrationsTotal,
	)
}

// Status maps an error to a status label value.
func Status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusOK
}
