package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yourusername/betting-trust/internal/models"
)

// Querier is the subset of pgxpool.Pool used by the repositories.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PredictionRepository defines the interface for historical prediction data access
type PredictionRepository interface {
	ListSince(ctx context.Context, since time.Time) ([]models.PredictionRow, error)
}

// OutcomeRepository defines the interface for game outcome data access
type OutcomeRepository interface {
	ListSince(ctx context.Context, since time.Time) ([]models.OutcomeRow, error)
}

// EvaluationRunRepository defines the interface for persisted evaluation runs
type EvaluationRunRepository interface {
	Create(ctx context.Context, run *models.EvaluationRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.EvaluationRun, error)
	GetLatest(ctx context.Context) (*models.EvaluationRun, error)
}
