// Package metrics defines evaluation result gauges.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Calibration gauges
var (
	CalibrationECE = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "calibration_ece",
		Help:      "Expected calibration error of the latest evaluation",
	})
	CalibrationMCE = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "calibration_mce",
		Help:      "Maximum calibration error of the latest evaluation",
	})
	CalibrationSamples = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "calibration_samples",
		Help:      "Number of predictions in the latest calibration evaluation",
	})
)

// Edge gauges
var (
	EdgeROI = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "edge_roi",
		Help:      "Return on investment across recorded bets",
	})
	EdgePValue = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "edge_profit_p_value",
		Help:      "Two-sided p-value of the per-unit profit t-test",
	})
	EdgeCLVMean = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "edge_clv_mean",
		Help:      "Mean closing line value across bets with closing odds",
	})
	EdgeBets = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "edge_bets",
		Help:      "Number of bets in the latest edge validation",
	})
)

// Correlation and system gauges
var (
	CorrelationEvents = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "correlation_events",
		Help:      "Number of game outcome events recorded",
	})
	TrustScore = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "trust_score",
		Help:      "Composite trust score by kind",
	}, []string{"kind"})
	SystemTrustworthy = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "system_trustworthy",
		Help:      "1 when every check passed in the latest system evaluation",
	})
	SystemIssues = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "system_issues",
		Help:      "Number of issues found in the latest system evaluation",
	})
)

// UpdateCalibration sets the calibration gauges.
func UpdateCalibration(samples int, ece, mce float64) {
	CalibrationSamples.Set(float64(samples))
	CalibrationECE.Set(ece)
	CalibrationMCE.Set(mce)
}

// UpdateEdge sets the edge gauges.
func UpdateEdge(bets int, roi, pValue, clvMean float64) {
	EdgeBets.Set(float64(bets))
	EdgeROI.Set(roi)
	EdgePValue.Set(pValue)
	EdgeCLVMean.Set(clvMean)
}

// UpdateCorrelationEvents sets the number of recorded outcome events.
func UpdateCorrelationEvents(n int) {
	CorrelationEvents.Set(float64(n))
}

// UpdateTrustScore sets a composite trust score gauge.
// kind should be one of: "relationship", "probability"
func UpdateTrustScore(kind string, score float64) {
	TrustScore.WithLabelValues(kind).Set(score)
}

// UpdateSystem sets the system verdict gauges.
func UpdateSystem(trustworthy bool, issues int) {
	v := 0.0
	if trustworthy {
		v = 1
	}
	SystemTrustworthy.Set(v)
	SystemIssues.Set(float64(issues))
}
