package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EvaluationRun represents a persisted system trust evaluation
type EvaluationRun struct {
	ID             uuid.UUID       `db:"id" json:"id"`
	Trustworthy    bool            `db:"trustworthy" json:"trustworthy"`
	ECE            float64         `db:"ece" json:"ece"`
	ROI            float64         `db:"roi" json:"roi"`
	PValue         float64         `db:"p_value" json:"p_value"`
	EventsRecorded int             `db:"events_recorded" json:"events_recorded"`
	Issues         []string        `db:"issues" json:"issues"`
	Recommendation string          `db:"recommendation" json:"recommendation"`
	FullResults    json.RawMessage `db:"full_results" json:"full_results"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}
