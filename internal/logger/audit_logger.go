// Package logger provides audit logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging for data entering and
// results leaving the evaluator.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogDataLoaded logs a bulk load into the engines.
func (al *AuditLogger) LogDataLoaded(source string, predictions, bets, events int) {
	al.WithFields(logrus.Fields{
		"source":      source,
		"predictions": predictions,
		"bets":        bets,
		"events":      events,
		"event_type":  "data_loaded",
	}).Info("Historical data loaded")
}

// LogRunPersisted logs a stored evaluation run.
func (al *AuditLogger) LogRunPersisted(runID string, trustworthy bool) {
	al.WithFields(logrus.Fields{
		"run_id":      runID,
		"trustworthy": trustworthy,
		"event_type":  "run_persisted",
	}).Info("Evaluation run persisted")
}

// LogRejectedRow logs an input row that failed validation.
func (al *AuditLogger) LogRejectedRow(source string, row int, reason string) {
	al.WithFields(logrus.Fields{
		"source":     source,
		"row":        row,
		"reason":     reason,
		"event_type": "row_rejected",
	}).Warn("Input row rejected")
}
