// internal/models/models.go
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// QueryCategory classifies a generated query by buyer intent
type QueryCategory string

const (
	CategoryRecommendation QueryCategory = "recommendation"
	CategoryComparison     QueryCategory = "comparison"
	CategoryValidation     QueryCategory = "validation"
	CategoryFeature        QueryCategory = "feature"
)

// AllCategories lists every query category in report ordering
var AllCategories = []QueryCategory{
	CategoryRecommendation,
	CategoryComparison,
	CategoryValidation,
	CategoryFeature,
}

// MentionPosition is the ordinal prominence of a brand in an AI answer
type MentionPosition string

const (
	PositionPrimary   MentionPosition = "primary"
	PositionSecondary MentionPosition = "secondary"
	PositionTertiary  MentionPosition = "tertiary"
	PositionMentioned MentionPosition = "mentioned"
	PositionNone      MentionPosition = "none"
)

// PositionScore maps a position to the 1 (best) .. 5 (absent) scale used in
// per-model report stats
func PositionScore(p MentionPosition) int {
	switch p {
	case PositionPrimary:
		return 1
	case PositionSecondary:
		return 2
	case PositionTertiary:
		return 3
	case PositionMentioned:
		return 4
	default:
		return 5
	}
}

// ParseMentionPosition maps loosely-formatted LLM output onto the enum
func ParseMentionPosition(s string) (MentionPosition, bool) {
	switch MentionPosition(strings.ToLower(strings.TrimSpace(s))) {
	case PositionPrimary:
		return PositionPrimary, true
	case PositionSecondary:
		return PositionSecondary, true
	case PositionTertiary:
		return PositionTertiary, true
	case PositionMentioned:
		return PositionMentioned, true
	case PositionNone:
		return PositionNone, true
	}
	return PositionNone, false
}

// Sentiment of a brand mention
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// ParseSentiment maps loosely-formatted LLM output onto the enum, defaulting
// anything unrecognized to neutral
func ParseSentiment(s string) Sentiment {
	switch Sentiment(strings.ToLower(strings.TrimSpace(s))) {
	case SentimentPositive:
		return SentimentPositive
	case SentimentNegative:
		return SentimentNegative
	}
	return SentimentNeutral
}

// OverallResult is the per-query win/loss classification across models
type OverallResult string

const (
	ResultWin     OverallResult = "win"
	ResultLoss    OverallResult = "loss"
	ResultPartial OverallResult = "partial"
	ResultUnclear OverallResult = "unclear"
)

// ParseSource tags how a set of brand mentions was produced
type ParseSource string

const (
	ParseSourceLLM      ParseSource = "llm"
	ParseSourceFallback ParseSource = "fallback"
)

// Competitor is a named rival brand in the analysis
type Competitor struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	WebsiteURL string    `json:"website_url"`
	IsPrimary  bool      `json:"is_primary"` // primary competitors get denser query coverage
}

// BrandConfig describes the brand under analysis. Treated as immutable once a
// run starts; competitor edits go through the copy-on-write helpers.
type BrandConfig struct {
	BrandID        uuid.UUID    `json:"brand_id"`
	BrandName      string       `json:"brand_name"`
	WebsiteURL     string       `json:"website_url"`
	Category       string       `json:"category"`
	Subcategories  []string     `json:"subcategories,omitempty"`
	TargetCustomer string       `json:"target_customer,omitempty"`
	PrimaryUseCase string       `json:"primary_use_case,omitempty"`
	Geography      []string     `json:"geography,omitempty"`
	Competitors    []Competitor `json:"competitors"`
}

// WithCompetitor returns a copy of the config with the competitor appended
func (c BrandConfig) WithCompetitor(comp Competitor) BrandConfig {
	out := c
	out.Competitors = make([]Competitor, 0, len(c.Competitors)+1)
	out.Competitors = append(out.Competitors, c.Competitors...)
	out.Competitors = append(out.Competitors, comp)
	return out
}

// WithoutCompetitor returns a copy of the config with the competitor removed
func (c BrandConfig) WithoutCompetitor(id uuid.UUID) BrandConfig {
	out := c
	out.Competitors = make([]Competitor, 0, len(c.Competitors))
	for _, comp := range c.Competitors {
		if comp.ID != id {
			out.Competitors = append(out.Competitors, comp)
		}
	}
	return out
}

// PrimaryCompetitors returns the primary competitors in configured order
func (c BrandConfig) PrimaryCompetitors() []Competitor {
	var out []Competitor
	for _, comp := range c.Competitors {
		if comp.IsPrimary {
			out = append(out, comp)
		}
	}
	return out
}

// BrandNames returns the user brand followed by every competitor name, in
// configured order. This ordering is load-bearing: the win/loss tie-breaks
// iterate brands in this order.
func (c BrandConfig) BrandNames() []string {
	names := make([]string, 0, len(c.Competitors)+1)
	names = append(names, c.BrandName)
	for _, comp := range c.Competitors {
		names = append(names, comp.Name)
	}
	return names
}

// GeneratedQuery is one synthesized buyer-style query. Identity is the id;
// dedup equality is case-insensitive trimmed text.
type GeneratedQuery struct {
	ID                   uuid.UUID     `json:"id"`
	Text                 string        `json:"text"`
	Category             QueryCategory `json:"category"`
	Intent               string        `json:"intent"`
	CompetitorsMentioned []string      `json:"competitors_mentioned,omitempty"`
}

// BrandMention is one brand's extracted placement within a single AI answer
type BrandMention struct {
	Brand       string          `json:"brand"`
	Position    MentionPosition `json:"position"`
	Sentiment   Sentiment       `json:"sentiment"`
	Context     string          `json:"context"`
	CitationURL *string         `json:"citation_url,omitempty"`
}

// QueryExecution is one (query, model) run. Immutable once created.
type QueryExecution struct {
	ID              uuid.UUID      `json:"id"`
	QueryID         uuid.UUID      `json:"query_id"`
	QueryText       string         `json:"query_text"`
	Model           string         `json:"model"`
	RawResponse     string         `json:"raw_response"`
	BrandsMentioned []BrandMention `json:"brands_mentioned"`
	Winner          *string        `json:"winner,omitempty"`
	Sentiment       Sentiment      `json:"sentiment"`
	ParseSource     ParseSource    `json:"parse_source"`
	LatencyMs       int64          `json:"latency_ms"`
	InputTokens     int            `json:"input_tokens"`
	OutputTokens    int            `json:"output_tokens"`
	Cost            float64        `json:"cost"`
	ExecutedAt      time.Time      `json:"executed_at"`
}

// ModelResult is the per-model summary within a WinLossResult
type ModelResult struct {
	Winner              *string                    `json:"winner,omitempty"`
	UserBrandPosition   MentionPosition            `json:"user_brand_position"`
	UserBrandSentiment  Sentiment                  `json:"user_brand_sentiment"`
	CompetitorPositions map[string]MentionPosition `json:"competitor_positions"`
}

// WinLossResult is the per-query verdict across all models.
// ModelOrder preserves insertion order for ModelResults so that the
// winningBrand tie-break stays deterministic.
type WinLossResult struct {
	ID           uuid.UUID              `json:"id"`
	Query        GeneratedQuery         `json:"query"`
	Executions   []QueryExecution       `json:"executions"`
	ModelResults map[string]ModelResult `json:"model_results"`
	ModelOrder   []string               `json:"model_order"`
	Overall      OverallResult          `json:"overall_result"`
	WinningBrand *string                `json:"winning_brand,omitempty"`
}

// CategoryStats aggregates win/loss counts for one query category
type CategoryStats struct {
	Total   int     `json:"total"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	Partial int     `json:"partial"`
	WinRate float64 `json:"win_rate"` // percent
}

// CompetitorStats aggregates results for queries involving one competitor
type CompetitorStats struct {
	Name         string  `json:"name"`
	QueriesTotal int     `json:"queries_total"`
	QueriesWon   int     `json:"queries_won"`
	QueriesLost  int     `json:"queries_lost"`
	WinRateVs    float64 `json:"win_rate_vs"` // percent, user brand vs this competitor
}

// ModelStats aggregates results for one AI model
type ModelStats struct {
	Model           string  `json:"model"`
	Total           int     `json:"total"`
	Wins            int     `json:"wins"`
	WinRate         float64 `json:"win_rate"`          // percent
	AvgUserPosition float64 `json:"avg_user_position"` // 1 (primary) .. 5 (none)
}

// ScoredResult pairs a WinLossResult with its impact score for top-5 lists
type ScoredResult struct {
	Result WinLossResult `json:"result"`
	Impact float64       `json:"impact"`
}

// CompetitiveReport is the immutable aggregate snapshot of one full run
type CompetitiveReport struct {
	ID              uuid.UUID                       `json:"id"`
	BrandName       string                          `json:"brand_name"`
	TotalQueries    int                             `json:"total_queries"`
	TotalExecutions int                             `json:"total_executions"`
	Wins            int                             `json:"wins"`
	Losses          int                             `json:"losses"`
	Partial         int                             `json:"partial"`
	Unclear         int                             `json:"unclear"`
	WinRate         float64                         `json:"win_rate"` // percent
	ByCategory      map[QueryCategory]CategoryStats `json:"by_category"`
	ByCompetitor    []CompetitorStats               `json:"by_competitor"`
	ByModel         []ModelStats                    `json:"by_model"`
	BiggestWins     []ScoredResult                  `json:"biggest_wins"`
	BiggestLosses   []ScoredResult                  `json:"biggest_losses"`
	CloseCalls      []ScoredResult                  `json:"close_calls"`
	TotalCost       float64                         `json:"total_cost"`
	GeneratedAt     time.Time                       `json:"generated_at"`
}

// ContentSignals are abstract AEO observations about one website. A probe may
// legitimately return the zero value when no inspection was performed.
type ContentSignals struct {
	HasComparisonPages     bool     `json:"has_comparison_pages"`
	ComparisonPageCount    int      `json:"comparison_page_count"`
	HasFAQSchema           bool     `json:"has_faq_schema"`
	HasProductSchema       bool     `json:"has_product_schema"`
	HasOrganizationSchema  bool     `json:"has_organization_schema"`
	HasLLMTxt              bool     `json:"has_llm_txt"`
	UsesDefinitiveLanguage bool     `json:"uses_definitive_language"`
	HasAudiencePages       bool     `json:"has_audience_pages"`
	HasPricingPage         bool     `json:"has_pricing_page"`
	TrustSignalCount       int      `json:"trust_signal_count"`
	Headings               []string `json:"headings,omitempty"` // H1 texts, when inspected
}

// CompetitorTeardown is the derived advantage profile of one competitor
type CompetitorTeardown struct {
	Competitor      Competitor      `json:"competitor"`
	WebsiteURL      string          `json:"website_url"`
	Signals         ContentSignals  `json:"signals"`
	KeywordPresence map[string]bool `json:"keyword_presence"`
	Advantages      []string        `json:"advantages"`
}

// GapDifficulty estimates how hard a gap is to close
type GapDifficulty string

const (
	DifficultyEasy   GapDifficulty = "easy"
	DifficultyMedium GapDifficulty = "medium"
	DifficultyHard   GapDifficulty = "hard"
)

// QueryGap is a lost query paired with attribution and a remediation sketch
type QueryGap struct {
	ID                uuid.UUID      `json:"id"`
	Query             GeneratedQuery `json:"query"`
	Category          QueryCategory  `json:"category"`
	WinningCompetitor string         `json:"winning_competitor"`
	WhyTheyWin        []string       `json:"why_they_win"`
	WhatYouNeed       []string       `json:"what_you_need"`
	Difficulty        GapDifficulty  `json:"difficulty"`
	Priority          int            `json:"priority"` // 0..10
}

// FixEffort buckets the implementation effort of a fix
type FixEffort string

const (
	EffortLow    FixEffort = "low"
	EffortMedium FixEffort = "medium"
	EffortHigh   FixEffort = "high"
)

// ComparisonPageOutline is a generated artifact: the skeleton of a
// brand-vs-competitor page
type ComparisonPageOutline struct {
	Title    string   `json:"title"`
	Slug     string   `json:"slug"`
	Sections []string `json:"sections"`
}

// SchemaSnippet is a generated JSON-LD artifact
type SchemaSnippet struct {
	SchemaType string `json:"schema_type"`
	JSONLD     string `json:"json_ld"`
}

// ContentRewrite is a generated artifact describing a language change
type ContentRewrite struct {
	Target      string `json:"target"`
	Instruction string `json:"instruction"`
	Example     string `json:"example"`
}

// Fix is one actionable remediation item
type Fix struct {
	ID              uuid.UUID              `json:"id"`
	Type            string                 `json:"type"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	Effort          FixEffort              `json:"effort"`
	EstimatedHours  float64                `json:"estimated_hours"`
	PotentialWins   int                    `json:"potential_wins"`
	QueriesAffected []string               `json:"queries_affected"`
	SkillRequired   string                 `json:"skill_required"`
	Steps           []string               `json:"steps"`
	PageOutline     *ComparisonPageOutline `json:"page_outline,omitempty"`
	Schema          *SchemaSnippet         `json:"schema,omitempty"`
	Rewrite         *ContentRewrite        `json:"rewrite,omitempty"`
}

// CompetitiveActionPlan buckets fixes by urgency. Immutable once generated;
// regenerating produces a plan with fresh ids.
type CompetitiveActionPlan struct {
	ID                     uuid.UUID `json:"id"`
	Critical               []Fix     `json:"critical"`
	High                   []Fix     `json:"high"`
	Medium                 []Fix     `json:"medium"`
	Low                    []Fix     `json:"low"`
	QuickWins              []Fix     `json:"quick_wins"` // overlaps the urgency buckets
	LLMTxtContent          string    `json:"llm_txt_content"`
	TotalPotentialWins     int       `json:"total_potential_wins"`
	TotalHours             float64   `json:"total_hours"`
	EstimatedImpactPercent int       `json:"estimated_impact_percent"`
	GeneratedAt            time.Time `json:"generated_at"`
}

// AllFixes returns the urgency buckets flattened in severity order
func (p *CompetitiveActionPlan) AllFixes() []Fix {
	out := make([]Fix, 0, len(p.Critical)+len(p.High)+len(p.Medium)+len(p.Low))
	out = append(out, p.Critical...)
	out = append(out, p.High...)
	out = append(out, p.Medium...)
	out = append(out, p.Low...)
	return out
}

// ProgressEvent is emitted synchronously at each pipeline step boundary
type ProgressEvent struct {
	Stage        string `json:"stage"` // "executing" or "complete"
	CurrentQuery int    `json:"current_query"`
	TotalQueries int    `json:"total_queries"`
	CurrentModel string `json:"current_model,omitempty"`
	Message      string `json:"message"`
}

// SavedAnalysis is the persisted snapshot shape, keyed by brand id
type SavedAnalysis struct {
	BrandConfig BrandConfig           `json:"brand_config"`
	Report      CompetitiveReport     `json:"report"`
	Results     []WinLossResult       `json:"results"`
	ActionPlan  CompetitiveActionPlan `json:"action_plan"`
	SavedAt     time.Time             `json:"saved_at"`
}

// AnalysisSummary is one row of the lightweight analysis index
type AnalysisSummary struct {
	BrandID      uuid.UUID `json:"brand_id"`
	BrandName    string    `json:"brand_name"`
	ReportID     uuid.UUID `json:"report_id"`
	WinRate      float64   `json:"win_rate"`
	TotalQueries int       `json:"total_queries"`
	CreatedAt    time.Time `json:"created_at"`
}
