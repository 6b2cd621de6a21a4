// services/prompt_service_test.go
package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/aeolab/aeolab-workflows/internal/testutil"
)

func newPromptFixture(t *testing.T) (*promptService, *testutil.FakeBusinessRepo, *testutil.FakePromptRepo) {
	t.Helper()

	businesses := testutil.NewFakeBusinessRepo()
	prompts := &testutil.FakePromptRepo{}
	service := &promptService{
		repos: &RepositoryManager{Businesses: businesses, Prompts: prompts},
		now:   func() time.Time { return time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC) },
	}
	return service, businesses, prompts
}

func TestSetupPromptsStoresBattery(t *testing.T) {
	service, businesses, prompts := newPromptFixture(t)
	business := testutil.SampleBusiness()
	businesses.Businesses[business.ID] = business

	count, err := service.SetupPrompts(context.Background(), business.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 10 {
		t.Errorf("count = %d, want 10", count)
	}
	if len(prompts.Created) != 10 {
		t.Fatalf("stored %d prompts, want 10", len(prompts.Created))
	}
	for i, row := range prompts.Created {
		if !row.IsActive {
			t.Errorf("prompt %d not active", i)
		}
		if row.BusinessID != business.ID {
			t.Errorf("prompt %d wrong business", i)
		}
		if strings.TrimSpace(row.PromptText) == "" {
			t.Errorf("prompt %d empty", i)
		}
	}
}

func TestSetupPromptsUnknownIndustry(t *testing.T) {
	service, businesses, prompts := newPromptFixture(t)
	business := testutil.SampleBusiness()
	business.Industry = "Quantum Computing"
	businesses.Businesses[business.ID] = business

	_, err := service.SetupPrompts(context.Background(), business.ID)
	if err == nil {
		t.Fatal("expected error for unmapped industry")
	}
	if !strings.Contains(err.Error(), "no prompt mapping") {
		t.Errorf("unexpected error: %v", err)
	}
	if len(prompts.Created) != 0 {
		t.Errorf("stored %d prompts, want 0", len(prompts.Created))
	}
}

func TestSetupPromptsBusinessNotFound(t *testing.T) {
	service, _, prompts := newPromptFixture(t)

	_, err := service.SetupPrompts(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected error for unknown business")
	}
	if len(prompts.Created) != 0 {
		t.Errorf("stored %d prompts, want 0", len(prompts.Created))
	}
}
