package runner

import "github.com/prometheus/client_golang/prometheus"

// Result labels for runner metrics.
const (
	resultOK       = "ok"
	resultNotFound = "not_found"
	resultExit     = "exit_error"
	resultTimeout  = "timeout"
	resultCanceled = "canceled"
	resultError    = "error"
)

var (
	runsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "llamarelay",
			Subsystem: "runner",
			Name:      "runs_total",
			Help:      "Total number of runner invocations by result",
		},
		[]string{"result"},
	)

	runDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "llamarelay",
			Subsystem: "runner",
			Name:      "run_duration_seconds",
			Help:      "Wall time of runner invocations in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
		[]string{"result"},
	)

	runsInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "llamarelay",
			Subsystem: "runner",
			Name:      "inflight",
			Help:      "Runner processes currently executing",
		},
	)
)

func init() {
	prometheus.MustRegister(runsTotal, runDuration, runsInflight)
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return resultOK
	case IsNotFound(err):
		return resultNotFound
	case IsTimeout(err):
		return resultTimeout
	case IsCanceled(err):
		return resultCanceled
	}
	if _, ok := ExitCode(err); ok {
		return resultExit
	}
	return resultError
}
