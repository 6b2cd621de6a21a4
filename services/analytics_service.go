// services/analytics_service.go
package services

import (
	"context"
	"fmt"
	"math"

	"github.com/aeolab/aeolab-workflows/internal/models"
	"github.com/google/uuid"
)

// defaultResultWindow covers the most recent full run of a 10-prompt battery
// across both platforms, with headroom for a partial rerun.
const defaultResultWindow = 40

type analyticsService struct {
	repos *RepositoryManager
}

func NewAnalyticsService(repos *RepositoryManager) AnalyticsService {
	return &analyticsService{repos: repos}
}

// VisibilityStats derives the visibility score over the most recent result
// rows. Failed checks are excluded from the score entirely and reported as a
// separate count; no successful checks means a score of 0.
func (s *analyticsService) VisibilityStats(ctx context.Context, businessID uuid.UUID, limit int) (*models.VisibilityStats, error) {
	if limit <= 0 {
		limit = defaultResultWindow
	}

	results, err := s.repos.Results.ListRecentByBusiness(ctx, businessID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load results for business %s: %w", businessID, err)
	}

	stats := &models.VisibilityStats{}
	for _, result := range results {
		if result.Status != models.StatusSuccess {
			stats.FailedChecks++
			continue
		}
		stats.SuccessfulChecks++
		if result.Appeared != nil && *result.Appeared {
			stats.AppearedCount++
		}
	}

	if stats.SuccessfulChecks > 0 {
		stats.Score = int(math.Round(100 * float64(stats.AppearedCount) / float64(stats.SuccessfulChecks)))
	}

	return stats, nil
}
