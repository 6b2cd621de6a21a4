// internal/repositories/manual_run_repo.go
package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/aeolab/aeolab-workflows/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type manualRunRepo struct {
	db *sqlx.DB
}

func NewManualRunRepo(db *sqlx.DB) ManualRunRepository {
	return &manualRunRepo{db: db}
}

func (r *manualRunRepo) ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*models.ManualTrackingRun, error) {
	var runs []*models.ManualTrackingRun
	query := `SELECT id, user_id, business_id, run_at
	          FROM manual_tracking_runs
	          WHERE user_id = $1 AND run_at >= $2
	          ORDER BY run_at ASC`
	if err := r.db.SelectContext(ctx, &runs, query, userID, since); err != nil {
		return nil, fmt.Errorf("failed to list manual runs for user %s: %w", userID, err)
	}
	return runs, nil
}

func (r *manualRunRepo) Create(ctx context.Context, run *models.ManualTrackingRun) error {
	query := `INSERT INTO manual_tracking_runs (id, user_id, business_id, run_at)
	          VALUES (:id, :user_id, :business_id, :run_at)`
	if _, err := r.db.NamedExecContext(ctx, query, run); err != nil {
		return fmt.Errorf("failed to record manual run for user %s: %w", run.UserID, err)
	}
	return nil
}
