// internal/testutil/fixtures.go
package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/aeolab/aeolab-workflows/internal/models"
	"github.com/aeolab/aeolab-workflows/internal/openrouter"
)

// SuccessResult builds a successful gateway result carrying the given text.
func SuccessResult(text string) *openrouter.Result {
	tokens := 42
	return &openrouter.Result{
		Success:      true,
		ResponseText: &text,
		TokensUsed:   &tokens,
	}
}

// FailedResult builds a failed gateway result carrying the given message.
func FailedResult(message string) *openrouter.Result {
	return &openrouter.Result{
		Success:      false,
		ErrorMessage: &message,
	}
}

// SampleBusiness returns a plumbing business in Austin with a due check date.
func SampleBusiness() *models.Business {
	return &models.Business{
		ID:            uuid.New(),
		UserID:        uuid.New(),
		BusinessName:  "Reliable Rooter",
		Industry:      "Plumbing Services",
		Country:       "United States",
		Location:      "Austin, TX",
		NextCheckDate: time.Now().Add(-time.Hour),
		CreatedAt:     time.Now().Add(-30 * 24 * time.Hour),
	}
}

// SamplePrompts returns a small active prompt battery for a business.
func SamplePrompts(businessID uuid.UUID, texts ...string) []*models.TrackedPrompt {
	prompts := make([]*models.TrackedPrompt, 0, len(texts))
	for _, text := range texts {
		prompts = append(prompts, &models.TrackedPrompt{
			ID:         uuid.New(),
			BusinessID: businessID,
			PromptText: text,
			IsActive:   true,
			CreatedAt:  time.Now(),
		})
	}
	return prompts
}

// SampleRankedResponse is a numbered-list answer mentioning the sample
// business in second place.
const SampleRankedResponse = `Here are some solid options for plumbing in Austin:

1. Austin Plumbing Pros - known for fast emergency service.
2. Reliable Rooter - great reviews for drain work and fair pricing.
3. Hill Country Pipeworks - good for larger remodel jobs.

Any of these should be able to help with a standard repair.`
