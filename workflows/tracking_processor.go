// workflows/tracking_processor.go
package workflows

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/inngest/inngestgo"
	"github.com/inngest/inngestgo/step"

	"github.com/aeolab/aeolab-workflows/internal/models"
	"github.com/aeolab/aeolab-workflows/services"
)

// BusinessCheckEvent triggers one tracking run for one business.
type BusinessCheckEvent struct {
	BusinessID  string `json:"business_id"`
	TriggeredBy string `json:"triggered_by"`
}

type TrackingProcessor struct {
	trackingService services.TrackingService
	client          inngestgo.Client
}

func NewTrackingProcessor(trackingService services.TrackingService) *TrackingProcessor {
	return &TrackingProcessor{
		trackingService: trackingService,
	}
}

func (p *TrackingProcessor) SetClient(client inngestgo.Client) {
	p.client = client
}

// ProcessBusiness runs the full prompt battery for one business when a
// check-requested event arrives.
func (p *TrackingProcessor) ProcessBusiness() inngestgo.ServableFunction {
	fn, err := inngestgo.CreateFunction(
		p.client,
		inngestgo.FunctionOpts{
			ID:   "process-business-tracking",
			Name: "Process Business - Visibility Tracking Run",
		},
		inngestgo.EventTrigger("tracking/business.check.requested", nil),
		func(ctx context.Context, input inngestgo.Input[BusinessCheckEvent]) (any, error) {
			businessID, err := uuid.Parse(input.Event.Data.BusinessID)
			if err != nil {
				return nil, fmt.Errorf("invalid business_id %q: %w", input.Event.Data.BusinessID, err)
			}

			fmt.Printf("[ProcessBusiness] Starting tracking run for business: %s\n", businessID)

			summary, err := step.Run(ctx, "run-tracking", func(ctx context.Context) (*models.TrackingSummary, error) {
				return p.trackingService.RunTrackingForBusiness(ctx, businessID), nil
			})
			if err != nil {
				return nil, fmt.Errorf("tracking step failed: %w", err)
			}

			return map[string]interface{}{
				"business_id":  businessID.String(),
				"triggered_by": input.Event.Data.TriggeredBy,
				"success":      summary.Success,
				"results":      summary.Results,
				"errors":       summary.Errors,
			}, nil
		},
	)

	if err != nil {
		fmt.Printf("Failed to create business tracking function: %v\n", err)
	}

	return fn
}
