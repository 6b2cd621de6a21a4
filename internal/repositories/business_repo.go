// internal/repositories/business_repo.go
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aeolab/aeolab-workflows/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type businessRepo struct {
	db *sqlx.DB
}

func NewBusinessRepo(db *sqlx.DB) BusinessRepository {
	return &businessRepo{db: db}
}

func (r *businessRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	var business models.Business
	query := `SELECT id, user_id, business_name, industry, country, location, website_url,
	                 last_checked_at, next_check_date, created_at
	          FROM businesses WHERE id = $1`
	if err := r.db.GetContext(ctx, &business, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get business %s: %w", id, err)
	}
	return &business, nil
}

func (r *businessRepo) ListDueForCheck(ctx context.Context, now time.Time) ([]*models.Business, error) {
	var businesses []*models.Business
	query := `SELECT id, user_id, business_name, industry, country, location, website_url,
	                 last_checked_at, next_check_date, created_at
	          FROM businesses WHERE next_check_date <= $1 ORDER BY next_check_date ASC`
	if err := r.db.SelectContext(ctx, &businesses, query, now); err != nil {
		return nil, fmt.Errorf("failed to list due businesses: %w", err)
	}
	return businesses, nil
}

func (r *businessRepo) UpdateCheckDates(ctx context.Context, id uuid.UUID, lastCheckedAt, nextCheckDate time.Time) error {
	query := `UPDATE businesses SET last_checked_at = $2, next_check_date = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, lastCheckedAt, nextCheckDate); err != nil {
		return fmt.Errorf("failed to update check dates for business %s: %w", id, err)
	}
	return nil
}
