// internal/repositories/result_repo.go
package repositories

import (
	"context"
	"fmt"

	"github.com/aeolab/aeolab-workflows/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type trackingResultRepo struct {
	db *sqlx.DB
}

func NewTrackingResultRepo(db *sqlx.DB) TrackingResultRepository {
	return &trackingResultRepo{db: db}
}

func (r *trackingResultRepo) Create(ctx context.Context, result *models.TrackingResult) error {
	query := `INSERT INTO tracking_results
	          (id, prompt_id, ai_platform, appeared, position, full_response_text, status, error_message, tracked_at)
	          VALUES (:id, :prompt_id, :ai_platform, :appeared, :position, :full_response_text, :status, :error_message, :tracked_at)`
	if _, err := r.db.NamedExecContext(ctx, query, result); err != nil {
		return fmt.Errorf("failed to insert tracking result for prompt %s: %w", result.PromptID, err)
	}
	return nil
}

func (r *trackingResultRepo) ListRecentByBusiness(ctx context.Context, businessID uuid.UUID, limit int) ([]*models.TrackingResult, error) {
	var results []*models.TrackingResult
	query := `SELECT tr.id, tr.prompt_id, tr.ai_platform, tr.appeared, tr.position,
	                 tr.full_response_text, tr.status, tr.error_message, tr.tracked_at
	          FROM tracking_results tr
	          JOIN tracked_prompts tp ON tp.id = tr.prompt_id
	          WHERE tp.business_id = $1
	          ORDER BY tr.tracked_at DESC
	          LIMIT $2`
	if err := r.db.SelectContext(ctx, &results, query, businessID, limit); err != nil {
		return nil, fmt.Errorf("failed to list results for business %s: %w", businessID, err)
	}
	return results, nil
}
