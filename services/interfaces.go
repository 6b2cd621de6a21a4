// services/interfaces.go
package services

import (
	"context"
	"fmt"

	"github.com/aeolab/aeolab-workflows/internal/detection"
	"github.com/aeolab/aeolab-workflows/internal/models"
	"github.com/aeolab/aeolab-workflows/internal/openrouter"
	"github.com/aeolab/aeolab-workflows/internal/repositories"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// RepositoryManager bundles all database repositories behind one injection
// point.
type RepositoryManager struct {
	db            *sqlx.DB
	Businesses    repositories.BusinessRepository
	Prompts       repositories.TrackedPromptRepository
	Results       repositories.TrackingResultRepository
	ManualRuns    repositories.ManualRunRepository
	Subscriptions repositories.SubscriptionRepository
}

// NewRepositoryManager creates a repository manager over one connection pool.
func NewRepositoryManager(db *sqlx.DB) *RepositoryManager {
	return &RepositoryManager{
		db:            db,
		Businesses:    repositories.NewBusinessRepo(db),
		Prompts:       repositories.NewTrackedPromptRepo(db),
		Results:       repositories.NewTrackingResultRepo(db),
		ManualRuns:    repositories.NewManualRunRepo(db),
		Subscriptions: repositories.NewSubscriptionRepo(db),
	}
}

// AIQuerier is the gateway surface the pipeline consumes.
type AIQuerier interface {
	Query(ctx context.Context, prompt string, platform models.Platform) *openrouter.Result
}

// MentionDetector decides whether a business appears in a response.
type MentionDetector interface {
	Detect(ctx context.Context, businessName, responseText string, platform models.Platform) detection.Detection
}

// TrackingService runs the tracking pipeline for one business: every active
// prompt against every platform, with per-check failure isolation.
type TrackingService interface {
	RunTrackingForBusiness(ctx context.Context, businessID uuid.UUID) *models.TrackingSummary
}

// QuotaService gates user-initiated runs to the rolling-window allowance.
type QuotaService interface {
	CheckQuota(ctx context.Context, userID uuid.UUID) (*models.QuotaStatus, error)
	RunManual(ctx context.Context, userID, businessID uuid.UUID) (*ManualRunOutcome, error)
}

// SweepService processes every business whose next check date has passed,
// applying the subscription-tier cadence guard.
type SweepService interface {
	RunScheduledSweep(ctx context.Context) (*models.SweepSummary, error)
}

// AnalyticsService derives the visibility score from stored results.
type AnalyticsService interface {
	VisibilityStats(ctx context.Context, businessID uuid.UUID, limit int) (*models.VisibilityStats, error)
}

// PromptService generates and stores the prompt battery at business setup.
type PromptService interface {
	SetupPrompts(ctx context.Context, businessID uuid.UUID) (int, error)
}

// ManualRunOutcome is what the manual-run entry point reports back to the
// user: the run summary plus the quota left after this run.
type ManualRunOutcome struct {
	Summary       models.TrackingSummary `json:"summary"`
	RemainingRuns int                    `json:"remaining_runs"`
}

// QuotaExceededError is returned when a tenant has used up its manual-run
// allowance. The message is user-facing and never carries upstream detail.
type QuotaExceededError struct {
	RetryAfterHours int
}

func (e *QuotaExceededError) Error() string {
	plural := "s"
	if e.RetryAfterHours == 1 {
		plural = ""
	}
	return fmt.Sprintf("Rate limit exceeded. You can run manual tracking %d times per day. Try again in %d hour%s.",
		maxManualRunsPerWindow, e.RetryAfterHours, plural)
}
