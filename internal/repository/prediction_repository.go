package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/betting-trust/internal/models"
)

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db Querier
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db Querier) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// ListSince retrieves settled predictions recorded at or after since, oldest first
func (r *PostgresPredictionRepository) ListSince(ctx context.Context, since time.Time) ([]models.PredictionRow, error) {
	query := `
		SELECT predicted_prob, actual_outcome, decimal_odds, stake, closing_odds
		FROM model_predictions
		WHERE recorded_at >= $1
		ORDER BY recorded_at ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var predictions []models.PredictionRow
	for rows.Next() {
		var p models.PredictionRow
		if err := rows.Scan(&p.PredictedProb, &p.ActualOutcome, &p.DecimalOdds, &p.Stake, &p.ClosingOdds); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating predictions: %w", err)
	}

	return predictions, nil
}
