// internal/repositories/subscription_repo.go
package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aeolab/aeolab-workflows/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type subscriptionRepo struct {
	db *sqlx.DB
}

func NewSubscriptionRepo(db *sqlx.DB) SubscriptionRepository {
	return &subscriptionRepo{db: db}
}

func (r *subscriptionRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.UserSubscription, error) {
	var subscription models.UserSubscription
	query := `SELECT id, user_id, subscription_status, trial_ends_at
	          FROM user_subscriptions WHERE user_id = $1`
	if err := r.db.GetContext(ctx, &subscription, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription for user %s: %w", userID, err)
	}
	return &subscription, nil
}
