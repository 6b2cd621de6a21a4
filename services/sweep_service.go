// services/sweep_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aeolab/aeolab-workflows/internal/models"
)

const (
	// Minimum gap between runs per subscription tier. Guards against
	// double-processing when a manual run already refreshed the business
	// inside the same period.
	trialCheckFrequency = 24 * time.Hour
	paidCheckFrequency  = 168 * time.Hour
)

type sweepService struct {
	repos    *RepositoryManager
	tracking TrackingService
	now      func() time.Time
}

func NewSweepService(repos *RepositoryManager, tracking TrackingService) SweepService {
	return &sweepService{
		repos:    repos,
		tracking: tracking,
		now:      time.Now,
	}
}

// RunScheduledSweep processes every business whose next check date has
// passed. Businesses without a subscription record, or checked more recently
// than their tier allows, are skipped. One failing business never stops the
// sweep.
func (s *sweepService) RunScheduledSweep(ctx context.Context) (*models.SweepSummary, error) {
	now := s.now()
	businesses, err := s.repos.Businesses.ListDueForCheck(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch due businesses: %w", err)
	}

	summary := &models.SweepSummary{}
	if len(businesses) == 0 {
		fmt.Printf("[SweepService] No businesses need tracking\n")
		return summary, nil
	}

	fmt.Printf("[SweepService] Found %d businesses to check\n", len(businesses))

	for _, business := range businesses {
		subscription, err := s.repos.Subscriptions.GetByUserID(ctx, business.UserID)
		if err != nil || subscription == nil {
			fmt.Printf("[SweepService] No subscription found for business %s, skipping\n", business.ID)
			summary.Skipped++
			continue
		}

		frequency := paidCheckFrequency
		if subscription.SubscriptionStatus == "trial" {
			frequency = trialCheckFrequency
		}

		if business.LastCheckedAt != nil {
			sinceLastCheck := now.Sub(*business.LastCheckedAt)
			if sinceLastCheck < frequency {
				fmt.Printf("[SweepService] Business %s checked too recently (%.1f hours ago), skipping\n",
					business.ID, sinceLastCheck.Hours())
				summary.Skipped++
				continue
			}
		}

		fmt.Printf("[SweepService] Processing business %s\n", business.ID)
		result := s.tracking.RunTrackingForBusiness(ctx, business.ID)
		if result.Success {
			summary.Processed++
			fmt.Printf("[SweepService] Business %s processed: %d results, %d errors\n",
				business.ID, result.Results, result.Errors)
		} else {
			summary.Errors++
			fmt.Printf("[SweepService] ❌ Business %s failed: %d errors\n", business.ID, result.Errors)
		}
	}

	fmt.Printf("[SweepService] ✅ Sweep complete - processed %d, skipped %d, errors %d\n",
		summary.Processed, summary.Skipped, summary.Errors)
	return summary, nil
}
