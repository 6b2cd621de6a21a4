// internal/repositories/interfaces.go
package repositories

import (
	"context"
	"time"

	"github.com/aeolab/aeolab-workflows/internal/models"
	"github.com/google/uuid"
)

// BusinessRepository reads business profiles and maintains their scheduling
// fields. Get operations return (nil, nil) when no row exists.
type BusinessRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Business, error)
	ListDueForCheck(ctx context.Context, now time.Time) ([]*models.Business, error)
	UpdateCheckDates(ctx context.Context, id uuid.UUID, lastCheckedAt, nextCheckDate time.Time) error
}

// TrackedPromptRepository manages the generated prompt battery per business.
type TrackedPromptRepository interface {
	GetActiveByBusiness(ctx context.Context, businessID uuid.UUID) ([]*models.TrackedPrompt, error)
	BulkCreate(ctx context.Context, prompts []*models.TrackedPrompt) error
}

// TrackingResultRepository appends check results and serves the result window
// used for visibility scoring. Rows are never updated.
type TrackingResultRepository interface {
	Create(ctx context.Context, result *models.TrackingResult) error
	ListRecentByBusiness(ctx context.Context, businessID uuid.UUID, limit int) ([]*models.TrackingResult, error)
}

// ManualRunRepository is the append-only log backing the manual-run quota.
type ManualRunRepository interface {
	ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*models.ManualTrackingRun, error)
	Create(ctx context.Context, run *models.ManualTrackingRun) error
}

// SubscriptionRepository reads the per-tenant subscription tier consumed by
// the sweep cadence guard.
type SubscriptionRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.UserSubscription, error)
}
