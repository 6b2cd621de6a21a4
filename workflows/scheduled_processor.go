// workflows/scheduled_processor.go
package workflows

import (
	"context"
	"fmt"
	"time"

	"github.com/inngest/inngestgo"
	"github.com/inngest/inngestgo/step"

	"github.com/aeolab/aeolab-workflows/internal/config"
	"github.com/aeolab/aeolab-workflows/internal/models"
	"github.com/aeolab/aeolab-workflows/services"
)

type ScheduledProcessor struct {
	sweepService services.SweepService
	config       *config.Config
	client       inngestgo.Client
}

func NewScheduledProcessor(sweepService services.SweepService, cfg *config.Config) *ScheduledProcessor {
	return &ScheduledProcessor{
		sweepService: sweepService,
		config:       cfg,
	}
}

func (p *ScheduledProcessor) SetClient(client inngestgo.Client) {
	p.client = client
}

// HourlyTrackingSweep runs the scheduled sweep over every business whose
// next check date has passed. CRON_ENABLED=false turns the trigger into a
// no-op so staging deployments never burn API quota.
func (p *ScheduledProcessor) HourlyTrackingSweep() inngestgo.ServableFunction {
	fn, err := inngestgo.CreateFunction(
		p.client,
		inngestgo.FunctionOpts{
			ID:   "hourly-tracking-sweep",
			Name: "Hourly Tracking Sweep - Visibility Checks",
		},
		inngestgo.CronTrigger("0 * * * *"), // Every hour on the hour
		func(ctx context.Context, input inngestgo.Input[any]) (any, error) {
			now := time.Now()

			if !p.config.CronEnabled {
				fmt.Printf("[ScheduledProcessor] Cron disabled, skipping sweep\n")
				return map[string]interface{}{
					"execution_date": now.Format("2006-01-02 15:04"),
					"skipped":        true,
					"message":        "Cron execution disabled by configuration",
				}, nil
			}

			summary, err := step.Run(ctx, "run-scheduled-sweep", func(ctx context.Context) (*models.SweepSummary, error) {
				return p.sweepService.RunScheduledSweep(ctx)
			})
			if err != nil {
				return nil, fmt.Errorf("scheduled sweep failed: %w", err)
			}

			return map[string]interface{}{
				"execution_date": now.Format("2006-01-02 15:04"),
				"processed":      summary.Processed,
				"skipped":        summary.Skipped,
				"errors":         summary.Errors,
				"message": fmt.Sprintf("Sweep complete: %d processed, %d skipped, %d errors",
					summary.Processed, summary.Skipped, summary.Errors),
			}, nil
		},
	)

	if err != nil {
		fmt.Printf("Failed to create hourly tracking sweep function: %v\n", err)
	}

	return fn
}
