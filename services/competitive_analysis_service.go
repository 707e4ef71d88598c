// services/competitive_analysis_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/AI-Template-SDK/senso-competitive/internal/models"
	"github.com/google/uuid"
)

type competitiveAnalysisService struct {
	queryGenerator QueryGeneratorService
	factory        ProviderFactory
	parser         MentionParserService
	winLoss        WinLossService
	signalAnalyzer SignalAnalyzerService
	gapAnalyzer    GapAnalyzerService
	actionPlan     ActionPlanService
}

// NewCompetitiveAnalysisService wires the full pipeline. All stages after the
// execution matrix are pure and run in-process.
func NewCompetitiveAnalysisService(
	queryGenerator QueryGeneratorService,
	factory ProviderFactory,
	parser MentionParserService,
	winLoss WinLossService,
	signalAnalyzer SignalAnalyzerService,
	gapAnalyzer GapAnalyzerService,
	actionPlan ActionPlanService,
) CompetitiveAnalysisService {
	return &competitiveAnalysisService{
		queryGenerator: queryGenerator,
		factory:        factory,
		parser:         parser,
		winLoss:        winLoss,
		signalAnalyzer: signalAnalyzer,
		gapAnalyzer:    gapAnalyzer,
		actionPlan:     actionPlan,
	}
}

// Run executes the whole analysis: query synthesis, the sequential
// query x model matrix, win/loss evaluation, competitor teardowns, gap
// attribution and the action plan. A failing model call only loses that one
// (query, model) execution; the run itself fails only on context cancellation.
func (s *competitiveAnalysisService) Run(ctx context.Context, cfg *models.BrandConfig, opts *RunOptions) (*AnalysisOutput, error) {
	fmt.Printf("[Run] 🚀 Starting competitive analysis for brand: %s (%d competitors)\n", cfg.BrandName, len(cfg.Competitors))
	startTime := time.Now()

	if opts == nil {
		opts = &RunOptions{}
	}
	modelList := opts.Models
	if len(modelList) == 0 {
		modelList = DefaultModels
	}
	maxPerCategory := opts.MaxQueriesPerCategory
	if maxPerCategory == 0 {
		maxPerCategory = DefaultMaxQueriesPerCategory
	}

	queries := s.queryGenerator.Generate(cfg)
	queries = s.queryGenerator.Deduplicate(queries)
	queries = s.queryGenerator.LimitPerCategory(queries, maxPerCategory)
	fmt.Printf("[Run] Generated %d queries across %d categories\n", len(queries), len(models.AllCategories))

	output := &AnalysisOutput{Queries: queries}
	brandNames := cfg.BrandNames()

	// Queries one at a time, models one at a time, in fixed order. The only
	// suspension points are the provider calls, the parser and the
	// rate-limit delay between model calls.
	executionsByQuery := make(map[uuid.UUID][]models.QueryExecution, len(queries))
	for queryIndex, query := range queries {
		for modelIndex, model := range modelList {
			emitProgress(opts.OnProgress, models.ProgressEvent{
				Stage:        "executing",
				CurrentQuery: queryIndex + 1,
				TotalQueries: len(queries),
				CurrentModel: model,
				Message:      fmt.Sprintf("Asking %s: %s", model, query.Text),
			})

			exec, err := s.executeQuery(ctx, query, model, brandNames)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				errMsg := fmt.Sprintf("query %q on %s: %v", query.Text, model, err)
				fmt.Printf("[Run] ⚠️ Skipping execution: %s\n", errMsg)
				output.ProcessingErrors = append(output.ProcessingErrors, errMsg)
			} else {
				executionsByQuery[query.ID] = append(executionsByQuery[query.ID], *exec)
			}

			if opts.ModelCallDelay > 0 && modelIndex < len(modelList)-1 {
				if err := sleepContext(ctx, opts.ModelCallDelay); err != nil {
					return nil, err
				}
			}
		}
	}

	// Downstream stages are pure; grouping preserves query order so the
	// report aggregation stays deterministic.
	results := make([]models.WinLossResult, 0, len(queries))
	for _, query := range queries {
		results = append(results, s.winLoss.CalculateWinLoss(query, executionsByQuery[query.ID], cfg.BrandName))
	}
	output.Results = results

	output.Report = s.winLoss.BuildReport(cfg, results)
	output.Teardowns = s.signalAnalyzer.AnalyzeCompetitors(ctx, cfg, results)
	output.Gaps = s.gapAnalyzer.AnalyzeGaps(cfg, results, output.Teardowns)
	output.ActionPlan = s.actionPlan.GeneratePlan(cfg, output.Report, output.Gaps, output.Teardowns)

	emitProgress(opts.OnProgress, models.ProgressEvent{
		Stage:        "complete",
		CurrentQuery: len(queries),
		TotalQueries: len(queries),
		Message:      fmt.Sprintf("Analysis complete: %.1f%% win rate", output.Report.WinRate),
	})

	fmt.Printf("[Run] ✅ Analysis complete in %.1fs: %d wins, %d losses, %d partial (%.1f%% win rate, %d errors)\n",
		time.Since(startTime).Seconds(), output.Report.Wins, output.Report.Losses,
		output.Report.Partial, output.Report.WinRate, len(output.ProcessingErrors))

	return output, nil
}

// executeQuery runs one (query, model) pair: ask the model, parse mentions
// from the raw answer, apply the single-execution winner rule
func (s *competitiveAnalysisService) executeQuery(ctx context.Context, query models.GeneratedQuery, model string, brandNames []string) (*models.QueryExecution, error) {
	provider, err := s.factory.GetProvider(model)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve provider: %w", err)
	}

	prompt := buildQueryPrompt(query.Text)

	callStart := time.Now()
	response, err := provider.RunQuestion(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("model call failed: %w", err)
	}
	latency := time.Since(callStart)

	parsed := s.parser.Parse(ctx, response.Response, brandNames)
	winner := s.winLoss.ExecutionWinner(parsed.Mentions, brandNames)

	return &models.QueryExecution{
		ID:              uuid.New(),
		QueryID:         query.ID,
		QueryText:       query.Text,
		Model:           model,
		RawResponse:     response.Response,
		BrandsMentioned: parsed.Mentions,
		Winner:          winner,
		Sentiment:       userSentiment(parsed.Mentions, brandNames),
		ParseSource:     parsed.Source,
		LatencyMs:       latency.Milliseconds(),
		InputTokens:     response.InputTokens,
		OutputTokens:    response.OutputTokens,
		Cost:            response.Cost,
		ExecutedAt:      time.Now().UTC(),
	}, nil
}

// buildQueryPrompt wraps the raw buyer query the way a real user would ask an
// assistant for a recommendation
func buildQueryPrompt(queryText string) string {
	return fmt.Sprintf("%s? Give me your honest recommendation with specific names.", queryText)
}

// userSentiment is the first brand's sentiment; the brand list always starts
// with the user brand
func userSentiment(mentions []models.BrandMention, brandNames []string) models.Sentiment {
	if len(brandNames) == 0 {
		return models.SentimentNeutral
	}
	for _, m := range mentions {
		if normalizeBrand(m.Brand) == normalizeBrand(brandNames[0]) {
			return m.Sentiment
		}
	}
	return models.SentimentNeutral
}

func emitProgress(callback func(models.ProgressEvent), event models.ProgressEvent) {
	if callback != nil {
		callback(event)
	}
}

// sleepContext waits for the delay or the context, whichever ends first
func sleepContext(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
