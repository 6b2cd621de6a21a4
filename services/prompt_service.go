// services/prompt_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/aeolab/aeolab-workflows/internal/models"
	"github.com/aeolab/aeolab-workflows/internal/prompts"
	"github.com/google/uuid"
)

type promptService struct {
	repos *RepositoryManager
	now   func() time.Time
}

func NewPromptService(repos *RepositoryManager) PromptService {
	return &promptService{
		repos: repos,
		now:   time.Now,
	}
}

// SetupPrompts generates the fixed prompt battery for a business and stores
// every prompt as active. An industry without a mapping is a configuration
// error, not a crash.
func (s *promptService) SetupPrompts(ctx context.Context, businessID uuid.UUID) (int, error) {
	business, err := s.repos.Businesses.GetByID(ctx, businessID)
	if err != nil {
		return 0, fmt.Errorf("failed to load business %s: %w", businessID, err)
	}
	if business == nil {
		return 0, fmt.Errorf("business %s not found", businessID)
	}

	generated := prompts.GeneratePrompts(business.Industry, business.Country, business.Location)
	if len(generated) == 0 {
		return 0, fmt.Errorf("no prompt mapping for industry %q", business.Industry)
	}

	rows := make([]*models.TrackedPrompt, 0, len(generated))
	createdAt := s.now()
	for _, text := range generated {
		rows = append(rows, &models.TrackedPrompt{
			ID:         uuid.New(),
			BusinessID: businessID,
			PromptText: text,
			IsActive:   true,
			CreatedAt:  createdAt,
		})
	}

	if err := s.repos.Prompts.BulkCreate(ctx, rows); err != nil {
		return 0, fmt.Errorf("failed to store prompts for business %s: %w", businessID, err)
	}

	fmt.Printf("[PromptService] ✅ Stored %d prompts for business %s\n", len(rows), businessID)
	return len(rows), nil
}
