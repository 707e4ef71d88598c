// workflows/competitive_processor.go
package workflows

import (
	"context"
	"fmt"
	"time"

	"github.com/inngest/inngestgo"
	"github.com/inngest/inngestgo/step"

	"github.com/AI-Template-SDK/senso-competitive/internal/config"
	"github.com/AI-Template-SDK/senso-competitive/internal/models"
	"github.com/AI-Template-SDK/senso-competitive/services"
)

// AnalysisRequestedEvent triggers a full competitive analysis run
type AnalysisRequestedEvent struct {
	BrandConfig           models.BrandConfig `json:"brand_config"`
	Models                []string           `json:"models,omitempty"`
	MaxQueriesPerCategory int                `json:"max_queries_per_category,omitempty"`
}

type CompetitiveProcessor struct {
	analysisService services.CompetitiveAnalysisService
	reportStore     services.ReportStore
	client          inngestgo.Client
	cfg             *config.Config
}

func NewCompetitiveProcessor(
	analysisService services.CompetitiveAnalysisService,
	reportStore services.ReportStore,
	cfg *config.Config,
) *CompetitiveProcessor {
	return &CompetitiveProcessor{
		analysisService: analysisService,
		reportStore:     reportStore,
		cfg:             cfg,
	}
}

func (p *CompetitiveProcessor) SetClient(client inngestgo.Client) {
	p.client = client
}

// ProcessAnalysis runs the pipeline and persists the snapshot
func (p *CompetitiveProcessor) ProcessAnalysis() inngestgo.ServableFunction {
	fn, _ := inngestgo.CreateFunction(
		p.client,
		inngestgo.FunctionOpts{
			ID:      "competitive-analysis",
			Name:    "Competitive Analysis - Win/Loss Pipeline",
			Retries: inngestgo.IntPtr(3),
		},
		inngestgo.EventTrigger("competitive/analysis.requested", nil),
		func(ctx context.Context, input inngestgo.Input[AnalysisRequestedEvent]) (any, error) {
			cfg := input.Event.Data.BrandConfig
			fmt.Printf("[ProcessAnalysis] Starting competitive analysis for brand: %s\n", cfg.BrandName)

			// Step 1: run the full pipeline
			output, err := step.Run(ctx, "run-analysis", func(ctx context.Context) (*services.AnalysisOutput, error) {
				opts := &services.RunOptions{
					Models:                input.Event.Data.Models,
					MaxQueriesPerCategory: input.Event.Data.MaxQueriesPerCategory,
					ModelCallDelay:        2 * time.Second,
				}
				return p.analysisService.Run(ctx, &cfg, opts)
			})
			if err != nil {
				return nil, fmt.Errorf("step 'run-analysis' failed: %w", err)
			}

			// Step 2: persist the snapshot keyed by brand
			brandID, err := step.Run(ctx, "save-analysis", func(ctx context.Context) (string, error) {
				analysis := &models.SavedAnalysis{
					BrandConfig: cfg,
					Report:      *output.Report,
					Results:     output.Results,
					ActionPlan:  *output.ActionPlan,
					SavedAt:     time.Now().UTC(),
				}
				id, err := p.reportStore.SaveAnalysis(ctx, analysis)
				if err != nil {
					return "", fmt.Errorf("failed to save analysis: %w", err)
				}
				return id.String(), nil
			})
			if err != nil {
				return nil, fmt.Errorf("step 'save-analysis' failed: %w", err)
			}

			fmt.Printf("[ProcessAnalysis] ✅ Completed analysis for %s (brand %s)\n", cfg.BrandName, brandID)
			return map[string]interface{}{
				"brand_id":          brandID,
				"brand_name":        cfg.BrandName,
				"total_queries":     output.Report.TotalQueries,
				"win_rate":          output.Report.WinRate,
				"gaps":              len(output.Gaps),
				"processing_errors": len(output.ProcessingErrors),
			}, nil
		},
	)
	return fn
}
