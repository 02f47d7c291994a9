// Package repository provides PostgreSQL access to evaluation inputs and results.
package repository

import (
	"fmt"
)

// Repositories holds all repository implementations
type Repositories struct {
	Prediction    PredictionRepository
	Outcome       OutcomeRepository
	EvaluationRun EvaluationRunRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(q Querier) (*Repositories, error) {
	if q == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Prediction:    NewPostgresPredictionRepository(q),
		Outcome:       NewPostgresOutcomeRepository(q),
		EvaluationRun: NewPostgresEvaluationRunRepository(q),
	}, nil
}
