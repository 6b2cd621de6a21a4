// internal/repositories/prompt_repo.go
package repositories

import (
	"context"
	"fmt"

	"github.com/aeolab/aeolab-workflows/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type trackedPromptRepo struct {
	db *sqlx.DB
}

func NewTrackedPromptRepo(db *sqlx.DB) TrackedPromptRepository {
	return &trackedPromptRepo{db: db}
}

func (r *trackedPromptRepo) GetActiveByBusiness(ctx context.Context, businessID uuid.UUID) ([]*models.TrackedPrompt, error) {
	var prompts []*models.TrackedPrompt
	query := `SELECT id, business_id, prompt_text, is_active, created_at
	          FROM tracked_prompts
	          WHERE business_id = $1 AND is_active = TRUE
	          ORDER BY created_at ASC`
	if err := r.db.SelectContext(ctx, &prompts, query, businessID); err != nil {
		return nil, fmt.Errorf("failed to get active prompts for business %s: %w", businessID, err)
	}
	return prompts, nil
}

func (r *trackedPromptRepo) BulkCreate(ctx context.Context, prompts []*models.TrackedPrompt) error {
	if len(prompts) == 0 {
		return nil
	}
	query := `INSERT INTO tracked_prompts (id, business_id, prompt_text, is_active, created_at)
	          VALUES (:id, :business_id, :prompt_text, :is_active, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, prompts); err != nil {
		return fmt.Errorf("failed to bulk create prompts: %w", err)
	}
	return nil
}
