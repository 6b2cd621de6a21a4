// services/quota_service.go
package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/aeolab/aeolab-workflows/internal/models"
	"github.com/google/uuid"
)

const (
	// maxManualRunsPerWindow is the manual-run allowance per tenant per
	// rolling window.
	maxManualRunsPerWindow = 2
	quotaWindow            = 24 * time.Hour
)

type quotaService struct {
	repos    *RepositoryManager
	tracking TrackingService
	now      func() time.Time
}

func NewQuotaService(repos *RepositoryManager, tracking TrackingService) QuotaService {
	return &quotaService{
		repos:    repos,
		tracking: tracking,
		now:      time.Now,
	}
}

// CheckQuota derives the remaining manual-run allowance and the reset time
// from the append-only run log. Nothing is stored; the window rolls.
func (s *quotaService) CheckQuota(ctx context.Context, userID uuid.UUID) (*models.QuotaStatus, error) {
	windowStart := s.now().Add(-quotaWindow)
	runs, err := s.repos.ManualRuns.ListSince(ctx, userID, windowStart)
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit: %w", err)
	}

	remaining := maxManualRunsPerWindow - len(runs)
	if remaining < 0 {
		remaining = 0
	}

	// Reset when the oldest run in the window ages out, rounded up to hours.
	resetHours := 0
	if len(runs) > 0 {
		expiresAt := runs[0].RunAt.Add(quotaWindow)
		hoursRemaining := expiresAt.Sub(s.now()).Hours()
		if hoursRemaining < 0 {
			hoursRemaining = 0
		}
		resetHours = int(math.Ceil(hoursRemaining))
	}

	return &models.QuotaStatus{RemainingRuns: remaining, ResetHours: resetHours}, nil
}

// RunManual is the user-initiated entry point: quota gate, tracking run,
// then a new row in the run log. A quota failure comes back as
// *QuotaExceededError so callers can surface the retry-after figure.
func (s *quotaService) RunManual(ctx context.Context, userID, businessID uuid.UUID) (*ManualRunOutcome, error) {
	status, err := s.CheckQuota(ctx, userID)
	if err != nil {
		// Graceful degradation: a broken quota check should not block the
		// user's run.
		fmt.Printf("[QuotaService] ⚠️ Error checking rate limit, continuing: %v\n", err)
		status = &models.QuotaStatus{RemainingRuns: maxManualRunsPerWindow}
	}

	if status.RemainingRuns == 0 {
		return nil, &QuotaExceededError{RetryAfterHours: status.ResetHours}
	}

	summary := s.tracking.RunTrackingForBusiness(ctx, businessID)
	if !summary.Success {
		return nil, fmt.Errorf("tracking failed: %d errors occurred", summary.Errors)
	}

	run := &models.ManualTrackingRun{
		ID:         uuid.New(),
		UserID:     userID,
		BusinessID: businessID,
		RunAt:      s.now(),
	}
	if err := s.repos.ManualRuns.Create(ctx, run); err != nil {
		// Failing to log the run must not fail the run itself.
		fmt.Printf("[QuotaService] ⚠️ Error recording manual run: %v\n", err)
	}

	remaining := status.RemainingRuns - 1
	if remaining < 0 {
		remaining = 0
	}

	return &ManualRunOutcome{Summary: *summary, RemainingRuns: remaining}, nil
}
