package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/betting-trust/internal/models"
)

const evaluationRunColumns = `id, trustworthy, ece, roi, p_value, events_recorded, issues, recommendation, full_results, created_at`

// PostgresEvaluationRunRepository implements EvaluationRunRepository for PostgreSQL
type PostgresEvaluationRunRepository struct {
	db Querier
}

// NewPostgresEvaluationRunRepository creates a new evaluation run repository
func NewPostgresEvaluationRunRepository(db Querier) EvaluationRunRepository {
	return &PostgresEvaluationRunRepository{db: db}
}

// Create inserts a new evaluation run
func (r *PostgresEvaluationRunRepository) Create(ctx context.Context, run *models.EvaluationRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}

	query := `
		INSERT INTO evaluation_runs (` + evaluationRunColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		run.ID, run.Trustworthy, run.ECE, run.ROI, run.PValue, run.EventsRecorded,
		run.Issues, run.Recommendation, run.FullResults, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create evaluation run: %w", err)
	}

	return nil
}

// GetByID retrieves an evaluation run by ID
func (r *PostgresEvaluationRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.EvaluationRun, error) {
	query := `SELECT ` + evaluationRunColumns + ` FROM evaluation_runs WHERE id = $1`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

// GetLatest retrieves the most recent evaluation run
func (r *PostgresEvaluationRunRepository) GetLatest(ctx context.Context) (*models.EvaluationRun, error) {
	query := `SELECT ` + evaluationRunColumns + ` FROM evaluation_runs ORDER BY created_at DESC LIMIT 1`
	return r.scanOne(r.db.QueryRow(ctx, query))
}

func (r *PostgresEvaluationRunRepository) scanOne(row pgx.Row) (*models.EvaluationRun, error) {
	run := &models.EvaluationRun{}
	err := row.Scan(
		&run.ID, &run.Trustworthy, &run.ECE, &run.ROI, &run.PValue, &run.EventsRecorded,
		&run.Issues, &run.Recommendation, &run.FullResults, &run.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get evaluation run: %w", err)
	}

	return run, nil
}
