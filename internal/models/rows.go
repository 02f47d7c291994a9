package models

import "time"

// DefaultStake is applied to prediction rows carrying odds but no stake.
const DefaultStake = 100.0

// PredictionRow is one row of the bulk prediction table.
type PredictionRow struct {
	PredictedProb float64  `json:"predicted_prob" validate:"gte=0,lte=1"`
	ActualOutcome bool     `json:"actual_outcome"`
	DecimalOdds   *float64 `json:"decimal_odds,omitempty" validate:"omitempty,gt=1"`
	Stake         *float64 `json:"stake,omitempty" validate:"omitempty,gt=0"`
	ClosingOdds   *float64 `json:"closing_odds,omitempty" validate:"omitempty,gt=1"`
}

// StakeOrDefault returns the row stake, falling back to DefaultStake.
func (r PredictionRow) StakeOrDefault() float64 {
	if r.Stake == nil {
		return DefaultStake
	}
	return *r.Stake
}

// OutcomeRow is one row of the bulk game outcome table.
type OutcomeRow struct {
	GameID   string          `json:"game_id"`
	GameDate time.Time       `json:"game_date"`
	Outcomes map[string]bool `json:"outcomes" validate:"required,min=1"`
}
