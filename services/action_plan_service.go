// services/action_plan_service.go
package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/AI-Template-SDK/senso-competitive/internal/models"
	"github.com/google/uuid"
)

type actionPlanService struct{}

func NewActionPlanService() ActionPlanService {
	return &actionPlanService{}
}

// GeneratePlan turns gaps and teardowns into bucketed fixes with generated
// artifacts. Pure: every artifact is templated from BrandConfig and the gaps,
// never from a model call.
func (s *actionPlanService) GeneratePlan(cfg *models.BrandConfig, report *models.CompetitiveReport, gaps []models.QueryGap, teardowns []models.CompetitorTeardown) *models.CompetitiveActionPlan {
	var fixes []models.Fix
	fixes = append(fixes, comparisonPageFixes(cfg, gaps)...)
	fixes = append(fixes, landingPageFixes(cfg, gaps)...)
	fixes = append(fixes, schemaFixes(cfg, gaps)...)
	fixes = append(fixes, llmTxtFix(cfg))
	fixes = append(fixes, contentLanguageFixes(cfg, gaps)...)

	plan := &models.CompetitiveActionPlan{
		ID:            uuid.New(),
		LLMTxtContent: buildLLMTxt(cfg),
		GeneratedAt:   time.Now().UTC(),
	}

	for _, fix := range fixes {
		plan.TotalPotentialWins += fix.PotentialWins
		plan.TotalHours += fix.EstimatedHours
		bucketFix(plan, fix)
	}

	totalQueries := report.TotalQueries
	if totalQueries < 1 {
		totalQueries = 1
	}
	impact := int(float64(plan.TotalPotentialWins)/float64(totalQueries)*100 + 0.5)
	if impact > 50 {
		impact = 50
	}
	plan.EstimatedImpactPercent = impact

	fmt.Printf("[GeneratePlan] Generated %d fixes (%d critical, %d quick wins, %.1f hours, est. impact %d%%)\n",
		len(fixes), len(plan.Critical), len(plan.QuickWins), plan.TotalHours, plan.EstimatedImpactPercent)

	return plan
}

// bucketFix files a fix under exactly one urgency bucket. Quick wins overlap
// the buckets rather than replacing them.
func bucketFix(plan *models.CompetitiveActionPlan, fix models.Fix) {
	switch {
	case fix.PotentialWins >= 3 || len(fix.QueriesAffected) >= 5:
		plan.Critical = append(plan.Critical, fix)
	case fix.PotentialWins >= 2:
		plan.High = append(plan.High, fix)
	case fix.Effort == models.EffortMedium:
		plan.Medium = append(plan.Medium, fix)
	default:
		plan.Low = append(plan.Low, fix)
	}
	if fix.PotentialWins >= 1 && fix.Effort == models.EffortLow {
		plan.QuickWins = append(plan.QuickWins, fix)
	}
}

// comparisonPageFixes emits one fix per distinct competitor appearing in
// comparison gaps, aggregating every affected query for that competitor
func comparisonPageFixes(cfg *models.BrandConfig, gaps []models.QueryGap) []models.Fix {
	type aggregate struct {
		competitor string
		queries    []string
		wins       int
	}
	byCompetitor := make(map[string]*aggregate)
	var order []string

	for _, gap := range gaps {
		if gap.Category != models.CategoryComparison {
			continue
		}
		key := normalizeBrand(gap.WinningCompetitor)
		agg, ok := byCompetitor[key]
		if !ok {
			agg = &aggregate{competitor: gap.WinningCompetitor}
			byCompetitor[key] = agg
			order = append(order, key)
		}
		agg.queries = append(agg.queries, gap.Query.Text)
		agg.wins++
	}

	fixes := make([]models.Fix, 0, len(order))
	for _, key := range order {
		agg := byCompetitor[key]
		fixes = append(fixes, models.Fix{
			ID:    uuid.New(),
			Type:  "comparison-page",
			Title: fmt.Sprintf("Create comparison page: %s vs %s", cfg.BrandName, agg.competitor),
			Description: fmt.Sprintf("AI assistants favor %s on head-to-head queries. A dedicated, honest comparison page gives them citable material that presents %s's side.",
				agg.competitor, cfg.BrandName),
			Effort:          models.EffortMedium,
			EstimatedHours:  8,
			PotentialWins:   agg.wins,
			QueriesAffected: agg.queries,
			SkillRequired:   "content marketing",
			Steps: []string{
				fmt.Sprintf("Research %s's current positioning and pricing", agg.competitor),
				"Draft the page from the outline, keeping claims factual and sourced",
				"Add a feature comparison table with specific numbers",
				"Publish under a crawlable URL and submit for indexing",
			},
			PageOutline: comparisonOutline(cfg.BrandName, agg.competitor),
		})
	}
	return fixes
}

// comparisonOutline is the fixed eight-section skeleton for a head-to-head
// page
func comparisonOutline(brand, competitor string) *models.ComparisonPageOutline {
	return &models.ComparisonPageOutline{
		Title: fmt.Sprintf("%s vs %s: Honest Comparison", brand, competitor),
		Slug:  fmt.Sprintf("%s-vs-%s", slugify(brand), slugify(competitor)),
		Sections: []string{
			"Overview: what each product is for",
			"At-a-glance comparison table",
			"Pricing comparison",
			"Feature-by-feature breakdown",
			fmt.Sprintf("Who should choose %s", brand),
			fmt.Sprintf("Who should choose %s", competitor),
			"Switching guide",
			"Frequently asked questions",
		},
	}
}

// landingPageFixes emits one fix per recommendation gap whose remediation
// calls for a landing page
func landingPageFixes(cfg *models.BrandConfig, gaps []models.QueryGap) []models.Fix {
	var fixes []models.Fix
	for _, gap := range gaps {
		if gap.Category != models.CategoryRecommendation {
			continue
		}
		need, ok := needMentioning(gap.WhatYouNeed, "landing page")
		if !ok {
			continue
		}
		fixes = append(fixes, models.Fix{
			ID:    uuid.New(),
			Type:  "landing-page",
			Title: fmt.Sprintf("Build landing page for %q", gap.Query.Text),
			Description: fmt.Sprintf("%s wins this recommendation query. %s",
				gap.WinningCompetitor, need),
			Effort:          models.EffortMedium,
			EstimatedHours:  6,
			PotentialWins:   1,
			QueriesAffected: []string{gap.Query.Text},
			SkillRequired:   "content marketing",
			Steps: []string{
				"Write a heading that answers the query directly",
				"Cover the use case with concrete examples and proof points",
				"Interlink from the main navigation so crawlers find it",
			},
		})
	}
	return fixes
}

func needMentioning(needs []string, phrase string) (string, bool) {
	for _, need := range needs {
		if strings.Contains(strings.ToLower(need), phrase) {
			return need, true
		}
	}
	return "", false
}

// schemaFixes are always present: FAQPage, Organization and Product JSON-LD
// with fixed effort estimates
func schemaFixes(cfg *models.BrandConfig, gaps []models.QueryGap) []models.Fix {
	schemaGapQueries := queriesNeeding(gaps, "schema", "structured data")
	productWins := len(schemaGapQueries)
	if productWins < 1 {
		productWins = 1
	}

	return []models.Fix{
		{
			ID:             uuid.New(),
			Type:           "schema",
			Title:          "Add FAQPage schema markup",
			Description:    "FAQ schema gives AI assistants direct question/answer pairs to cite.",
			Effort:         models.EffortLow,
			EstimatedHours: 2,
			PotentialWins:  1,
			SkillRequired:  "frontend development",
			Steps: []string{
				"Collect the ten most common buyer questions",
				"Embed the JSON-LD snippet on the FAQ page",
				"Validate with the schema.org validator",
			},
			Schema: &models.SchemaSnippet{SchemaType: "FAQPage", JSONLD: faqPageJSONLD(cfg)},
		},
		{
			ID:             uuid.New(),
			Type:           "schema",
			Title:          "Add Organization schema markup",
			Description:    "Organization schema establishes the brand entity AI assistants resolve mentions against.",
			Effort:         models.EffortLow,
			EstimatedHours: 1,
			PotentialWins:  1,
			SkillRequired:  "frontend development",
			Steps: []string{
				"Embed the JSON-LD snippet on the homepage",
				"Validate with the schema.org validator",
			},
			Schema: &models.SchemaSnippet{SchemaType: "Organization", JSONLD: organizationJSONLD(cfg)},
		},
		{
			ID:              uuid.New(),
			Type:            "schema",
			Title:           "Add Product schema markup",
			Description:     "Product schema describes capabilities in a machine-readable form feature queries key on.",
			Effort:          models.EffortLow,
			EstimatedHours:  2,
			PotentialWins:   productWins,
			QueriesAffected: schemaGapQueries,
			SkillRequired:   "frontend development",
			Steps: []string{
				"Embed the JSON-LD snippet on the product page",
				"Keep the feature list in sync with documentation",
				"Validate with the schema.org validator",
			},
			Schema: &models.SchemaSnippet{SchemaType: "Product", JSONLD: productJSONLD(cfg)},
		},
	}
}

func queriesNeeding(gaps []models.QueryGap, phrases ...string) []string {
	var queries []string
	for _, gap := range gaps {
		for _, phrase := range phrases {
			if _, ok := needMentioning(gap.WhatYouNeed, phrase); ok {
				queries = append(queries, gap.Query.Text)
				break
			}
		}
	}
	return queries
}

// llmTxtFix is always present
func llmTxtFix(cfg *models.BrandConfig) models.Fix {
	return models.Fix{
		ID:             uuid.New(),
		Type:           "llm-txt",
		Title:          "Publish llm.txt brand context file",
		Description:    "A machine-readable brand summary at /llm.txt gives AI crawlers an authoritative description to draw from.",
		Effort:         models.EffortLow,
		EstimatedHours: 1,
		PotentialWins:  1,
		SkillRequired:  "content marketing",
		Steps: []string{
			"Review the generated llm.txt content for accuracy",
			"Serve it at the site root as /llm.txt",
		},
	}
}

// contentLanguageFixes fire when gap attribution points at definitive
// language or heading targeting
func contentLanguageFixes(cfg *models.BrandConfig, gaps []models.QueryGap) []models.Fix {
	var affected []string
	for _, gap := range gaps {
		for _, why := range gap.WhyTheyWin {
			lower := strings.ToLower(why)
			if strings.Contains(lower, "definitive") || strings.Contains(lower, "heading") || strings.Contains(lower, "h1") {
				affected = append(affected, gap.Query.Text)
				break
			}
		}
	}
	if len(affected) == 0 {
		return nil
	}
	return []models.Fix{{
		ID:              uuid.New(),
		Type:            "content-language",
		Title:           "Rewrite key headings with definitive language",
		Description:     "Competitors win these queries with headings that state claims outright. Hedged copy rarely gets cited.",
		Effort:          models.EffortLow,
		EstimatedHours:  3,
		PotentialWins:   len(affected),
		QueriesAffected: affected,
		SkillRequired:   "copywriting",
		Steps: []string{
			"Audit H1/H2 headings on the highest-traffic pages",
			"Replace hedged phrasing with direct, specific claims",
			"Mirror the exact wording buyers use in the lost queries",
		},
		Rewrite: &models.ContentRewrite{
			Target:      "page headings",
			Instruction: "State the claim directly instead of hedging it",
			Example:     fmt.Sprintf("\"%s is the %s for %s\" instead of \"a popular option\"", cfg.BrandName, cfg.Category, orDefault(cfg.TargetCustomer, "your team")),
		},
	}}
}

func faqPageJSONLD(cfg *models.BrandConfig) string {
	doc := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "FAQPage",
		"mainEntity": []map[string]interface{}{
			{
				"@type": "Question",
				"name":  fmt.Sprintf("What is %s?", cfg.BrandName),
				"acceptedAnswer": map[string]interface{}{
					"@type": "Answer",
					"text":  fmt.Sprintf("%s is a %s for %s.", cfg.BrandName, cfg.Category, orDefault(cfg.TargetCustomer, "businesses")),
				},
			},
			{
				"@type": "Question",
				"name":  fmt.Sprintf("Is %s legit?", cfg.BrandName),
				"acceptedAnswer": map[string]interface{}{
					"@type": "Answer",
					"text":  fmt.Sprintf("Yes. %s is an established %s provider.", cfg.BrandName, cfg.Category),
				},
			},
		},
	}
	return marshalJSONLD(doc)
}

func organizationJSONLD(cfg *models.BrandConfig) string {
	doc := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "Organization",
		"name":        cfg.BrandName,
		"url":         cfg.WebsiteURL,
		"description": fmt.Sprintf("%s is a %s.", cfg.BrandName, cfg.Category),
	}
	return marshalJSONLD(doc)
}

func productJSONLD(cfg *models.BrandConfig) string {
	doc := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "Product",
		"name":        cfg.BrandName,
		"description": fmt.Sprintf("%s - %s for %s.", cfg.BrandName, cfg.Category, orDefault(cfg.TargetCustomer, "businesses")),
		"brand": map[string]interface{}{
			"@type": "Brand",
			"name":  cfg.BrandName,
		},
	}
	return marshalJSONLD(doc)
}

func marshalJSONLD(doc map[string]interface{}) string {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// buildLLMTxt templates the machine-readable brand summary served at /llm.txt
func buildLLMTxt(cfg *models.BrandConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", cfg.BrandName)
	fmt.Fprintf(&b, "> %s is a %s.\n\n", cfg.BrandName, cfg.Category)
	if cfg.PrimaryUseCase != "" {
		fmt.Fprintf(&b, "Primary use case: %s\n", cfg.PrimaryUseCase)
	}
	if cfg.TargetCustomer != "" {
		fmt.Fprintf(&b, "Built for: %s\n", cfg.TargetCustomer)
	}
	if len(cfg.Geography) > 0 {
		fmt.Fprintf(&b, "Available in: %s\n", strings.Join(cfg.Geography, ", "))
	}
	if len(cfg.Competitors) > 0 {
		names := make([]string, 0, len(cfg.Competitors))
		for _, comp := range cfg.Competitors {
			names = append(names, comp.Name)
		}
		fmt.Fprintf(&b, "Commonly compared with: %s\n", strings.Join(names, ", "))
	}
	if cfg.WebsiteURL != "" {
		fmt.Fprintf(&b, "\nWebsite: %s\n", cfg.WebsiteURL)
	}
	return b.String()
}

func slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
