// Package metrics registers the Prometheus collectors for solver calls and
// oracle analyses.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Status label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// SolverMetrics holds all collectors. Obtain it with New.
type SolverMetrics struct {
	SolvesTotal         *prometheus.CounterVec
	BisectionIterations prometheus.Histogram
	AnalysisPointsTotal prometheus.Counter
	AnalysisMaxAbsError prometheus.Gauge
	AnalysisRunsTotal   *prometheus.CounterVec
}

var (
	solverMetricsOnce sync.Once
	solverMetrics     *SolverMetrics
)

// New creates and registers the collectors on first use and returns the same
// instance afterwards.
func New() *SolverMetrics {
	solverMetricsOnce.Do(func() {
		solverMetrics = &SolverMetrics{
			SolvesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "normalcurve",
					Subsystem: "solver",
					Name:      "solves_total",
					Help:      "Curve operations by operation and outcome",
				},
				[]string{"op", "status"},
			),
			BisectionIterations: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Namespace: "normalcurve",
					Subsystem: "solver",
					Name:      "bisection_iterations",
					Help:      "Iterations spent per reserve search",
					Buckets:   []float64{1, 5, 10, 15, 20, 30, 50, 100, 1000},
				},
			),
			AnalysisPointsTotal: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "normalcurve",
					Subsystem: "analysis",
					Name:      "points_total",
					Help:      "Points compared against the contract executor",
				},
			),
			AnalysisMaxAbsError: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "normalcurve",
					Subsystem: "analysis",
					Name:      "max_abs_error",
					Help:      "Largest |contract - float| seen in the last analysis",
				},
			),
			AnalysisRunsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "normalcurve",
					Subsystem: "analysis",
					Name:      "runs_total",
					Help:      "Analyses by outcome",
				},
				[]string{"status"},
			),
		}
	})
	return solverMetrics
}

// ObserveSolve counts one curve operation.
func (m *SolverMetrics) ObserveSolve(op string, err error) {
	m.SolvesTotal.WithLabelValues(op, status(err)).Inc()
}

func status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusOK
}
