package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/betting-trust/internal/models"
)

// PostgresOutcomeRepository implements OutcomeRepository for PostgreSQL
type PostgresOutcomeRepository struct {
	db Querier
}

// NewPostgresOutcomeRepository creates a new outcome repository
func NewPostgresOutcomeRepository(db Querier) OutcomeRepository {
	return &PostgresOutcomeRepository{db: db}
}

// ListSince retrieves game outcomes played at or after since. Each game's
// labelled outcomes are folded into a single row, games ordered by date.
func (r *PostgresOutcomeRepository) ListSince(ctx context.Context, since time.Time) ([]models.OutcomeRow, error) {
	query := `
		SELECT game_id, game_date, label, occurred
		FROM game_outcomes
		WHERE game_date >= $1
		ORDER BY game_date ASC, game_id ASC, label ASC
	`

	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query game outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []models.OutcomeRow
	index := make(map[string]int)
	for rows.Next() {
		var (
			gameID   string
			gameDate time.Time
			label    string
			occurred bool
		)
		if err := rows.Scan(&gameID, &gameDate, &label, &occurred); err != nil {
			return nil, fmt.Errorf("failed to scan game outcome: %w", err)
		}

		i, ok := index[gameID]
		if !ok {
			i = len(outcomes)
			index[gameID] = i
			outcomes = append(outcomes, models.OutcomeRow{
				GameID:   gameID,
				GameDate: gameDate,
				Outcomes: make(map[string]bool),
			})
		}
		outcomes[i].Outcomes[label] = occurred
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating game outcomes: %w", err)
	}

	return outcomes, nil
}
