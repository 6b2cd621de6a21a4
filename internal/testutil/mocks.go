// internal/testutil/mocks.go
package testutil

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/aeolab/aeolab-workflows/internal/detection"
	"github.com/aeolab/aeolab-workflows/internal/models"
	"github.com/aeolab/aeolab-workflows/internal/openrouter"
)

// QueryCall records one call into the mock querier.
type QueryCall struct {
	Prompt   string
	Platform models.Platform
}

// MockQuerier is a configurable stand-in for the gateway client.
type MockQuerier struct {
	QueryFunc func(ctx context.Context, prompt string, platform models.Platform) *openrouter.Result
	Calls     []QueryCall
}

func (m *MockQuerier) Query(ctx context.Context, prompt string, platform models.Platform) *openrouter.Result {
	m.Calls = append(m.Calls, QueryCall{Prompt: prompt, Platform: platform})
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, prompt, platform)
	}
	return SuccessResult("mock response")
}

// MockDetector is a configurable stand-in for mention detection.
type MockDetector struct {
	DetectFunc func(ctx context.Context, businessName, responseText string, platform models.Platform) detection.Detection
	Calls      int
}

func (m *MockDetector) Detect(ctx context.Context, businessName, responseText string, platform models.Platform) detection.Detection {
	m.Calls++
	if m.DetectFunc != nil {
		return m.DetectFunc(ctx, businessName, responseText, platform)
	}
	return detection.Detection{}
}

// FakeBusinessRepo keeps businesses in memory and records scheduling updates.
type FakeBusinessRepo struct {
	Businesses map[uuid.UUID]*models.Business
	GetErr     error
	ListErr    error
	UpdateErr  error

	UpdatedID      uuid.UUID
	UpdatedLast    time.Time
	UpdatedNext    time.Time
	UpdateCalled   bool
	ListDueResults []*models.Business
}

func NewFakeBusinessRepo() *FakeBusinessRepo {
	return &FakeBusinessRepo{Businesses: make(map[uuid.UUID]*models.Business)}
}

func (f *FakeBusinessRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Business, error) {
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	return f.Businesses[id], nil
}

func (f *FakeBusinessRepo) ListDueForCheck(ctx context.Context, now time.Time) ([]*models.Business, error) {
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	if f.ListDueResults != nil {
		return f.ListDueResults, nil
	}
	var due []*models.Business
	for _, b := range f.Businesses {
		if !b.NextCheckDate.After(now) {
			due = append(due, b)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ID.String() < due[j].ID.String() })
	return due, nil
}

func (f *FakeBusinessRepo) UpdateCheckDates(ctx context.Context, id uuid.UUID, lastCheckedAt, nextCheckDate time.Time) error {
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	f.UpdateCalled = true
	f.UpdatedID = id
	f.UpdatedLast = lastCheckedAt
	f.UpdatedNext = nextCheckDate
	return nil
}

// FakePromptRepo serves a fixed prompt battery.
type FakePromptRepo struct {
	Prompts   []*models.TrackedPrompt
	GetErr    error
	CreateErr error
	Created   []*models.TrackedPrompt
}

func (f *FakePromptRepo) GetActiveByBusiness(ctx context.Context, businessID uuid.UUID) ([]*models.TrackedPrompt, error) {
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	return f.Prompts, nil
}

func (f *FakePromptRepo) BulkCreate(ctx context.Context, prompts []*models.TrackedPrompt) error {
	if f.CreateErr != nil {
		return f.CreateErr
	}
	f.Created = append(f.Created, prompts...)
	return nil
}

// FakeResultRepo appends result rows in memory.
type FakeResultRepo struct {
	Created   []*models.TrackingResult
	CreateErr error
	Recent    []*models.TrackingResult
	ListErr   error
}

func (f *FakeResultRepo) Create(ctx context.Context, result *models.TrackingResult) error {
	if f.CreateErr != nil {
		return f.CreateErr
	}
	f.Created = append(f.Created, result)
	return nil
}

func (f *FakeResultRepo) ListRecentByBusiness(ctx context.Context, businessID uuid.UUID, limit int) ([]*models.TrackingResult, error) {
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	if limit < len(f.Recent) {
		return f.Recent[:limit], nil
	}
	return f.Recent, nil
}

// FakeManualRunRepo backs the quota window with an in-memory run log.
type FakeManualRunRepo struct {
	Runs      []*models.ManualTrackingRun
	ListErr   error
	CreateErr error
	Created   []*models.ManualTrackingRun
}

func (f *FakeManualRunRepo) ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]*models.ManualTrackingRun, error) {
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	var matched []*models.ManualTrackingRun
	for _, run := range f.Runs {
		if run.UserID == userID && !run.RunAt.Before(since) {
			matched = append(matched, run)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].RunAt.Before(matched[j].RunAt) })
	return matched, nil
}

func (f *FakeManualRunRepo) Create(ctx context.Context, run *models.ManualTrackingRun) error {
	if f.CreateErr != nil {
		return f.CreateErr
	}
	f.Created = append(f.Created, run)
	f.Runs = append(f.Runs, run)
	return nil
}

// FakeSubscriptionRepo serves subscriptions keyed by user.
type FakeSubscriptionRepo struct {
	Subscriptions map[uuid.UUID]*models.UserSubscription
	GetErr        error
}

func NewFakeSubscriptionRepo() *FakeSubscriptionRepo {
	return &FakeSubscriptionRepo{Subscriptions: make(map[uuid.UUID]*models.UserSubscription)}
}

func (f *FakeSubscriptionRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.UserSubscription, error) {
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	return f.Subscriptions[userID], nil
}
