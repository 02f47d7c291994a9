package models

import (
	"time"

	"github.com/google/uuid"
)

// PredictionRecord is one recorded (probability, outcome) pair.
type PredictionRecord struct {
	ID                   uuid.UUID      `db:"id" json:"id"`
	PredictedProbability float64        `db:"predicted_probability" json:"predicted_probability"`
	ActualOutcome        bool           `db:"actual_outcome" json:"actual_outcome"`
	Metadata             map[string]any `db:"metadata" json:"metadata,omitempty"`
	RecordedAt           time.Time      `db:"recorded_at" json:"recorded_at"`
}

// Outcome returns the actual outcome as 0 or 1.
func (p PredictionRecord) Outcome() float64 {
	if p.ActualOutcome {
		return 1
	}
	return 0
}

// GameOutcomeRecord holds every market outcome observed for a single event.
type GameOutcomeRecord struct {
	EventID    string          `db:"event_id" json:"event_id"`
	RecordedAt time.Time       `db:"recorded_at" json:"recorded_at"`
	Outcomes   map[string]bool `db:"outcomes" json:"outcomes"`
}

// Lookup returns the label's outcome as 0 or 1 and whether the label was present.
func (g GameOutcomeRecord) Lookup(label string) (float64, bool) {
	won, ok := g.Outcomes[label]
	if !ok {
		return 0, false
	}
	if won {
		return 1, true
	}
	return 0, true
}
