package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the API
	Registry = prometheus.NewRegistry()
	// HTTPRequests counts requests by method, path, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// OptimizerRuns counts single-objective runs by objective and outcome
	OptimizerRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "optimizer_runs_total", Help: "Optimizer runs by objective and outcome."},
		[]string{"objective", "status"},
	)
	// OptimizerDuration tracks wall-clock run duration in seconds
	OptimizerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "optimizer_run_duration_seconds", Help: "Optimizer run duration in seconds.", Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}},
		[]string{"objective"},
	)
	// OptimizerIterations tracks outer iterations consumed per run
	OptimizerIterations = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "optimizer_iterations", Help: "Outer iterations per optimizer run.", Buckets: []float64{10, 25, 50, 100, 200, 300, 500}},
		[]string{"objective"},
	)
	// FrontPoints counts sweep point outcomes by mode and feasibility
	FrontPoints = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "front_sweep_points_total", Help: "Front sweep points by mode and outcome."},
		[]string{"mode", "status"},
	)
	// FrontSize tracks the curated front size per completed sweep
	FrontSize = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "front_size", Help: "Curated front size per completed sweep.", Buckets: []float64{1, 2, 5, 10, 15, 20, 30}},
		[]string{"mode"},
	)
)

// RegisterDefault registers collectors to the default registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(OptimizerRuns)
		Registry.MustRegister(OptimizerDuration)
		Registry.MustRegister(OptimizerIterations)
		Registry.MustRegister(FrontPoints)
		Registry.MustRegister(FrontSize)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
