package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/betting-trust/internal/models"
	"github.com/yourusername/betting-trust/internal/repository"
)

// LoadFromRepositories loads predictions and outcomes recorded since the given time
func (s *TrustSystem) LoadFromRepositories(ctx context.Context, repos *repository.Repositories, since time.Time) (LoadSummary, error) {
	predictions, err := repos.Prediction.ListSince(ctx, since)
	if err != nil {
		return LoadSummary{}, fmt.Errorf("failed to load predictions: %w", err)
	}

	outcomes, err := repos.Outcome.ListSince(ctx, since)
	if err != nil {
		return LoadSummary{}, fmt.Errorf("failed to load game outcomes: %w", err)
	}

	return s.LoadHistoricalOutcomes("postgres", predictions, outcomes)
}

// NewEvaluationRun converts a system verdict into a persistable run
func NewEvaluationRun(verdict SystemTrust, now time.Time) (*models.EvaluationRun, error) {
	full, err := json.Marshal(verdict)
	if err != nil {
		return nil, fmt.Errorf("failed to encode system verdict: %w", err)
	}

	return &models.EvaluationRun{
		ID:             uuid.New(),
		Trustworthy:    verdict.IsTrustworthy,
		ECE:            verdict.Calibration.ECE,
		ROI:            verdict.Edge.ROI,
		PValue:         verdict.Edge.PValue,
		EventsRecorded: verdict.Correlations.NEvents,
		Issues:         verdict.Issues,
		Recommendation: verdict.Recommendation,
		FullResults:    full,
		CreatedAt:      now,
	}, nil
}

// SaveRun persists a system verdict
func (s *TrustSystem) SaveRun(ctx context.Context, runs repository.EvaluationRunRepository, verdict SystemTrust) (*models.EvaluationRun, error) {
	run, err := NewEvaluationRun(verdict, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := runs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to save evaluation run: %w", err)
	}

	s.audit.LogRunPersisted(run.ID.String(), run.Trustworthy)
	return run, nil
}
