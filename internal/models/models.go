// internal/models/models.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Platform identifies one of the AI chat models a prompt is checked against.
type Platform string

const (
	PlatformChatGPT    Platform = "chatgpt"
	PlatformPerplexity Platform = "perplexity"
)

// Platforms lists the supported platforms in the order they are queried
// within a tracking run.
var Platforms = []Platform{PlatformChatGPT, PlatformPerplexity}

// ResultStatus records whether a single platform check completed.
type ResultStatus string

const (
	StatusSuccess ResultStatus = "success"
	StatusFailed  ResultStatus = "failed"
)

// Business is one tracked business profile. Scheduling fields are the only
// ones the tracking pipeline mutates.
type Business struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	UserID        uuid.UUID  `db:"user_id" json:"user_id"`
	BusinessName  string     `db:"business_name" json:"business_name"`
	Industry      string     `db:"industry" json:"industry"`
	Country       string     `db:"country" json:"country"`
	Location      string     `db:"location" json:"location"`
	WebsiteURL    *string    `db:"website_url" json:"website_url,omitempty"`
	LastCheckedAt *time.Time `db:"last_checked_at" json:"last_checked_at,omitempty"`
	NextCheckDate time.Time  `db:"next_check_date" json:"next_check_date"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// TrackedPrompt is one of the generated search prompts for a business.
// Created in bulk at setup; the pipeline only ever reads them.
type TrackedPrompt struct {
	ID         uuid.UUID `db:"id" json:"id"`
	BusinessID uuid.UUID `db:"business_id" json:"business_id"`
	PromptText string    `db:"prompt_text" json:"prompt_text"`
	IsActive   bool      `db:"is_active" json:"is_active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// TrackingResult is one platform check for one prompt. Append-only.
//
// Invariant: StatusFailed rows have Appeared, Position and FullResponseText
// nil; StatusSuccess rows always carry a non-nil Appeared.
type TrackingResult struct {
	ID               uuid.UUID    `db:"id" json:"id"`
	PromptID         uuid.UUID    `db:"prompt_id" json:"prompt_id"`
	AIPlatform       Platform     `db:"ai_platform" json:"ai_platform"`
	Appeared         *bool        `db:"appeared" json:"appeared,omitempty"`
	Position         *int         `db:"position" json:"position,omitempty"`
	FullResponseText *string      `db:"full_response_text" json:"full_response_text,omitempty"`
	Status           ResultStatus `db:"status" json:"status"`
	ErrorMessage     *string      `db:"error_message" json:"error_message,omitempty"`
	TrackedAt        time.Time    `db:"tracked_at" json:"tracked_at"`
}

// ManualTrackingRun logs one user-initiated run for quota accounting.
type ManualTrackingRun struct {
	ID         uuid.UUID `db:"id" json:"id"`
	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	BusinessID uuid.UUID `db:"business_id" json:"business_id"`
	RunAt      time.Time `db:"run_at" json:"run_at"`
}

// UserSubscription carries the subscription tier used by the sweep cadence
// guard. Billing fields live in the billing service and are not modeled here.
type UserSubscription struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	UserID             uuid.UUID `db:"user_id" json:"user_id"`
	SubscriptionStatus string    `db:"subscription_status" json:"subscription_status"`
	TrialEndsAt        time.Time `db:"trial_ends_at" json:"trial_ends_at"`
}

// TrackingSummary is the outcome of one tracking run for one business.
// Success is false only when the business or its active prompts could not be
// loaded; individual check failures show up in Errors instead.
type TrackingSummary struct {
	Success bool `json:"success"`
	Results int  `json:"results"`
	Errors  int  `json:"errors"`
}

// SweepSummary aggregates one scheduled sweep over all due businesses.
type SweepSummary struct {
	Processed int `json:"processed"`
	Skipped   int `json:"skipped"`
	Errors    int `json:"errors"`
}

// QuotaStatus reports the manual-run allowance left in the rolling window.
type QuotaStatus struct {
	RemainingRuns int `json:"remaining_runs"`
	ResetHours    int `json:"reset_hours"`
}

// VisibilityStats is the derived visibility score over a result window.
// Failed checks are excluded from the score but reported in FailedChecks.
type VisibilityStats struct {
	Score            int `json:"score"`
	AppearedCount    int `json:"appeared_count"`
	SuccessfulChecks int `json:"successful_checks"`
	FailedChecks     int `json:"failed_checks"`
}
