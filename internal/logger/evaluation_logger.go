package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// EvaluationLogger provides dedicated logging for trust evaluations.
type EvaluationLogger struct {
	*logrus.Entry
}

// NewEvaluationLogger creates a new evaluation logger.
func NewEvaluationLogger(baseLogger *logrus.Logger) *EvaluationLogger {
	return &EvaluationLogger{
		Entry: baseLogger.WithField("component", "evaluation"),
	}
}

// LogCalibration logs a calibration evaluation.
func (el *EvaluationLogger) LogCalibration(samples int, ece, mce float64, level string, trustworthy bool, duration time.Duration) {
	el.WithFields(logrus.Fields{
		"samples":           samples,
		"ece":               ece,
		"mce":               mce,
		"calibration_level": level,
		"trustworthy":       trustworthy,
		"duration_ms":       float64(duration.Microseconds()) / 1000,
	}).Info("Calibration evaluation completed")
}

// LogEdge logs an edge validation.
func (el *EvaluationLogger) LogEdge(bets int, roi, pValue, clvMean float64, hasEdge bool, duration time.Duration) {
	el.WithFields(logrus.Fields{
		"bets":        bets,
		"roi":         roi,
		"p_value":     pValue,
		"clv_mean":    clvMean,
		"has_edge":    hasEdge,
		"duration_ms": float64(duration.Microseconds()) / 1000,
	}).Info("Edge validation completed")
}

// LogCorrelation logs a pairwise correlation estimate.
func (el *EvaluationLogger) LogCorrelation(labelA, labelB string, samples int, correlation, trustLevel float64) {
	el.WithFields(logrus.Fields{
		"label_a":     labelA,
		"label_b":     labelB,
		"samples":     samples,
		"correlation": correlation,
		"trust_level": trustLevel,
	}).Info("Correlation estimated")
}

// LogSystemTrust logs the aggregated system verdict.
func (el *EvaluationLogger) LogSystemTrust(trustworthy bool, issues []string) {
	entry := el.WithFields(logrus.Fields{
		"trustworthy": trustworthy,
		"issue_count": len(issues),
		"issues":      issues,
	})
	if trustworthy {
		entry.Info("System trust evaluated")
		return
	}
	entry.Warn("System is not trustworthy")
}
