// services/interfaces.go
package services

import (
	"context"
	"time"

	"github.com/AI-Template-SDK/senso-competitive/internal/models"
	"github.com/google/uuid"
	"github.com/invopop/jsonschema"
)

// QueryGeneratorService synthesizes buyer-style queries from a brand config.
// Generate is deterministic in content given the same config; only ids differ.
type QueryGeneratorService interface {
	Generate(cfg *models.BrandConfig) []models.GeneratedQuery
	Deduplicate(queries []models.GeneratedQuery) []models.GeneratedQuery
	LimitPerCategory(queries []models.GeneratedQuery, n int) []models.GeneratedQuery
}

// LLMExtractor is the ParseWithLLM port: given an extraction prompt it returns
// free text expected to contain a JSON array. May fail or return garbage.
type LLMExtractor interface {
	Extract(ctx context.Context, prompt string) (string, error)
}

// ParseResult tags extracted mentions with the path that produced them
type ParseResult struct {
	Mentions []models.BrandMention
	Source   models.ParseSource
}

// MentionParserService turns one raw AI answer into per-brand mentions.
// Parse never fails: when the LLM path is unusable it falls back to local
// string matching.
type MentionParserService interface {
	Parse(ctx context.Context, rawResponse string, brands []string) *ParseResult
}

// AIResponse contains the response from an AI provider
type AIResponse struct {
	Response     string
	InputTokens  int
	OutputTokens int
	Cost         float64
}

// AIProvider is the AskModel port for one AI assistant
type AIProvider interface {
	GetProviderName() string
	RunQuestion(ctx context.Context, prompt string) (*AIResponse, error)
}

// ProviderFactory resolves a model name to its provider
type ProviderFactory interface {
	GetProvider(model string) (AIProvider, error)
}

// WinLossService applies the winner rules and builds the aggregate report.
// All methods are pure.
type WinLossService interface {
	ExecutionWinner(mentions []models.BrandMention, brandOrder []string) *string
	CalculateWinLoss(query models.GeneratedQuery, executions []models.QueryExecution, userBrand string) models.WinLossResult
	BuildReport(cfg *models.BrandConfig, results []models.WinLossResult) *models.CompetitiveReport
}

// ContentSignalProbe abstractly inspects a website for AEO-relevant signals.
// Implementations may legitimately return all-false/zero signals when no
// inspection is performed.
type ContentSignalProbe interface {
	Probe(ctx context.Context, websiteURL string) (*models.ContentSignals, error)
}

// SignalAnalyzerService derives competitor teardowns from probe signals and
// the queries lost to each competitor
type SignalAnalyzerService interface {
	AnalyzeCompetitors(ctx context.Context, cfg *models.BrandConfig, results []models.WinLossResult) []models.CompetitorTeardown
}

// GapAnalyzerService attributes lost queries to competitor advantages. Pure.
type GapAnalyzerService interface {
	AnalyzeGaps(cfg *models.BrandConfig, results []models.WinLossResult, teardowns []models.CompetitorTeardown) []models.QueryGap
}

// ActionPlanService turns gaps and teardowns into a bucketed fix plan with
// generated artifacts. Pure; artifacts are templated, never LLM-generated.
type ActionPlanService interface {
	GeneratePlan(cfg *models.BrandConfig, report *models.CompetitiveReport, gaps []models.QueryGap, teardowns []models.CompetitorTeardown) *models.CompetitiveActionPlan
}

// RunOptions configures a full competitive analysis run
type RunOptions struct {
	Models                []string
	MaxQueriesPerCategory int
	ModelCallDelay        time.Duration
	OnProgress            func(models.ProgressEvent)
}

// DefaultModels is the model list used when RunOptions.Models is empty, in
// execution order
var DefaultModels = []string{"chatgpt", "perplexity", "gemini"}

// DefaultMaxQueriesPerCategory caps each query family
const DefaultMaxQueriesPerCategory = 10

// AnalysisOutput bundles everything one run produces
type AnalysisOutput struct {
	Queries          []models.GeneratedQuery
	Results          []models.WinLossResult
	Report           *models.CompetitiveReport
	Teardowns        []models.CompetitorTeardown
	Gaps             []models.QueryGap
	ActionPlan       *models.CompetitiveActionPlan
	ProcessingErrors []string
}

// CompetitiveAnalysisService sequences the whole pipeline: query synthesis,
// the query×model execution matrix, win/loss evaluation, gap analysis and
// action plan generation
type CompetitiveAnalysisService interface {
	Run(ctx context.Context, cfg *models.BrandConfig, opts *RunOptions) (*AnalysisOutput, error)
}

// ExportService renders a saved analysis for download
type ExportService interface {
	ExportJSON(analysis *models.SavedAnalysis) ([]byte, error)
	ExportMarkdown(analysis *models.SavedAnalysis) string
}

// ReportStore is the persistence port for analysis snapshots, keyed by brand
type ReportStore interface {
	EnsureSchema(ctx context.Context) error
	SaveAnalysis(ctx context.Context, analysis *models.SavedAnalysis) (uuid.UUID, error)
	GetAnalysis(ctx context.Context, brandID uuid.UUID) (*models.SavedAnalysis, error)
	ListAnalyses(ctx context.Context) ([]models.AnalysisSummary, error)
}

type CostService interface {
	CalculateCost(provider, model string, inputTokens, outputTokens int, webSearch bool) float64
}

// CompetitorPage is one externally supplied page of competitor content for
// the optional content index
type CompetitorPage struct {
	URL     string `json:"url"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ContentIndexService indexes competitor page text for keyword and semantic
// lookups. Entirely optional: the pipeline runs without it.
type ContentIndexService interface {
	EnsureCollections(ctx context.Context) error
	IndexCompetitorContent(ctx context.Context, competitor string, pages []CompetitorPage) error
	KeywordPresent(ctx context.Context, competitor, keyword string) (bool, error)
}

// GenerateSchema generates a JSON schema for structured outputs
func GenerateSchema[T any]() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	var zero T
	schema := reflector.Reflect(zero)

	// Convert to the format expected by OpenAI
	result := map[string]interface{}{
		"type":       "object",
		"properties": schema.Properties,
		"required":   schema.Required,
	}

	if schema.AdditionalProperties != nil {
		result["additionalProperties"] = false
	}

	return result
}
