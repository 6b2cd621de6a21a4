// services/tracking_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aeolab/aeolab-workflows/internal/models"
	"github.com/google/uuid"
)

const (
	// queryPacingDelay is the mandatory gap after every gateway query, both
	// inter-platform and inter-prompt, to keep outbound call volume bounded.
	queryPacingDelay = 500 * time.Millisecond

	// checkInterval is how far out the next scheduled check is pushed after
	// a run completes.
	checkInterval = 7 * 24 * time.Hour
)

type trackingService struct {
	repos    *RepositoryManager
	querier  AIQuerier
	detector MentionDetector
	sleep    func(time.Duration)
	now      func() time.Time
}

// NewTrackingService creates the tracking orchestrator. The pacing sleep and
// clock are injectable for tests.
func NewTrackingService(repos *RepositoryManager, querier AIQuerier, detector MentionDetector) TrackingService {
	return &trackingService{
		repos:    repos,
		querier:  querier,
		detector: detector,
		sleep:    time.Sleep,
		now:      time.Now,
	}
}

// RunTrackingForBusiness checks every active prompt for the business against
// every platform, sequentially and in fixed order. One failed check never
// stops the batch; Success is false only when the business or its prompt set
// could not be loaded at all.
func (s *trackingService) RunTrackingForBusiness(ctx context.Context, businessID uuid.UUID) (summary *models.TrackingSummary) {
	summary = &models.TrackingSummary{}

	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("[TrackingService] ❌ Fatal error in tracking: %v\n", r)
			summary.Success = false
		}
	}()

	business, err := s.repos.Businesses.GetByID(ctx, businessID)
	if err != nil || business == nil {
		fmt.Printf("[TrackingService] ❌ Business %s not found: %v\n", businessID, err)
		return summary
	}

	fmt.Printf("[TrackingService] 🚀 Starting tracking for business: %s\n", business.BusinessName)

	prompts, err := s.repos.Prompts.GetActiveByBusiness(ctx, businessID)
	if err != nil || len(prompts) == 0 {
		fmt.Printf("[TrackingService] ❌ No active prompts found for business %s: %v\n", businessID, err)
		return summary
	}

	fmt.Printf("[TrackingService] Found %d active prompts\n", len(prompts))
	summary.Success = true

	for _, prompt := range prompts {
		for _, platform := range models.Platforms {
			outcome := s.runSingleCheck(ctx, business, prompt, platform)
			if outcome.ok {
				summary.Results++
			} else {
				summary.Errors++
				fmt.Printf("[TrackingService] ⚠️ Check failed for prompt %s on %s: %s\n", prompt.ID, platform, outcome.reason)
			}
			s.sleep(queryPacingDelay)
		}
	}

	// Scheduling metadata moves forward even when individual checks failed;
	// a failed update only logs.
	now := s.now()
	if err := s.repos.Businesses.UpdateCheckDates(ctx, businessID, now, now.Add(checkInterval)); err != nil {
		fmt.Printf("[TrackingService] ⚠️ Failed to update check dates for business %s: %v\n", businessID, err)
	} else {
		fmt.Printf("[TrackingService] Business updated - next check: %s\n", now.Add(checkInterval).Format(time.RFC3339))
	}

	fmt.Printf("[TrackingService] ✅ Tracking completed - Results: %d, Errors: %d\n", summary.Results, summary.Errors)
	return summary
}

// checkOutcome is the explicit per-check result accumulated into the summary.
type checkOutcome struct {
	ok     bool
	reason string
}

// runSingleCheck queries one platform for one prompt and writes exactly one
// result row. Failed queries produce a failed row with the error message and
// no response/detection fields.
func (s *trackingService) runSingleCheck(ctx context.Context, business *models.Business, prompt *models.TrackedPrompt, platform models.Platform) checkOutcome {
	fmt.Printf("[TrackingService] Querying %s for prompt: %s\n", platform, prompt.ID)
	queryResult := s.querier.Query(ctx, prompt.PromptText, platform)

	row := &models.TrackingResult{
		ID:         uuid.New(),
		PromptID:   prompt.ID,
		AIPlatform: platform,
		TrackedAt:  s.now(),
	}

	if queryResult.Success && queryResult.ResponseText != nil {
		det := s.detector.Detect(ctx, business.BusinessName, *queryResult.ResponseText, platform)
		appeared := det.Appeared
		row.Appeared = &appeared
		row.Position = det.Position
		row.FullResponseText = queryResult.ResponseText
		row.Status = models.StatusSuccess

		if err := s.repos.Results.Create(ctx, row); err != nil {
			return checkOutcome{reason: fmt.Sprintf("failed to store result: %v", err)}
		}

		fmt.Printf("[TrackingService] %s result saved - appeared: %t, position: %v\n", platform, det.Appeared, det.Position)
		return checkOutcome{ok: true}
	}

	errorMessage := "Unknown error"
	if queryResult.ErrorMessage != nil {
		errorMessage = *queryResult.ErrorMessage
	} else if queryResult.Success {
		errorMessage = "Empty response from platform"
	}

	row.Status = models.StatusFailed
	row.ErrorMessage = &errorMessage

	if err := s.repos.Results.Create(ctx, row); err != nil {
		fmt.Printf("[TrackingService] ⚠️ Failed to store failure row for prompt %s: %v\n", prompt.ID, err)
	}
	return checkOutcome{reason: errorMessage}
}
