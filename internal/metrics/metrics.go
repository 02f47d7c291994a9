// Package metrics provides centralized Prometheus metrics registry for the trust evaluator.
package metrics

import (
	"context"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Namespace prefixes every metric exported by the evaluator.
const Namespace = "trust_eval"

// Component label values
const (
	ComponentCalibration = "calibration"
	ComponentCorrelation = "correlation"
	ComponentEdge        = "edge"
	ComponentSystem      = "system"
)

// Status label values
const (
	StatusSuccess      = "success"
	StatusInsufficient = "insufficient"
	StatusFailure      = "failure"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	EvaluationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "evaluations_total",
		Help:      "Total number of evaluations by component and status",
	}, []string{"component", "status"})
	RecordsLoadedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "records_loaded_total",
		Help:      "Total number of historical records loaded by kind",
	}, []string{"kind"})
	RowsRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "rows_rejected_total",
		Help:      "Total number of input rows rejected by source",
	}, []string{"source"})
)

// Histogram metrics
var (
	EvaluationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "evaluation_duration_seconds",
		Help:      "Duration of evaluations in seconds",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	}, []string{"component"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(EvaluationsTotal)
		registry.MustRegister(RecordsLoadedTotal)
		registry.MustRegister(RowsRejectedTotal)

		// Register histogram metrics
		registry.MustRegister(EvaluationDuration)

		// Register evaluation gauges
		registry.MustRegister(CalibrationECE)
		registry.MustRegister(CalibrationMCE)
		registry.MustRegister(CalibrationSamples)
		registry.MustRegister(EdgeROI)
		registry.MustRegister(EdgePValue)
		registry.MustRegister(EdgeCLVMean)
		registry.MustRegister(EdgeBets)
		registry.MustRegister(CorrelationEvents)
		registry.MustRegister(TrustScore)
		registry.MustRegister(SystemTrustworthy)
		registry.MustRegister(SystemIssues)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// RecordEvaluation records an evaluation of a component.
func RecordEvaluation(component, status string, durationSeconds float64) {
	EvaluationsTotal.WithLabelValues(component, status).Inc()
	EvaluationDuration.WithLabelValues(component).Observe(durationSeconds)
}

// RecordLoaded records historical records accepted into the engines.
func RecordLoaded(kind string, count int) {
	RecordsLoadedTotal.WithLabelValues(kind).Add(float64(count))
}

// RecordRejectedRow records an input row skipped during loading.
func RecordRejectedRow(source string) {
	RowsRejectedTotal.WithLabelValues(source).Inc()
}

// Push sends the current registry contents to a Prometheus Pushgateway.
func Push(ctx context.Context, url, job string) error {
	if url == "" {
		return fmt.Errorf("pushgateway url is empty")
	}
	if err := push.New(url, job).Gatherer(GetRegistry()).PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics: %w", err)
	}
	return nil
}
