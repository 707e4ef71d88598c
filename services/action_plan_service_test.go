// services/action_plan_service_test.go
package services

import (
	"strings"
	"testing"

	"github.com/AI-Template-SDK/senso-competitive/internal/models"
	"github.com/google/uuid"
)

func planTestConfig() *models.BrandConfig {
	return &models.BrandConfig{
		BrandID:    uuid.New(),
		BrandName:  "Acme",
		WebsiteURL: "https://acme.example.com",
		Category:   "CRM",
		Competitors: []models.Competitor{
			{ID: uuid.New(), Name: "Beta", IsPrimary: true},
		},
	}
}

func comparisonGap(text, competitor string) models.QueryGap {
	return models.QueryGap{
		ID:                uuid.New(),
		Query:             models.GeneratedQuery{ID: uuid.New(), Text: text, Category: models.CategoryComparison},
		Category:          models.CategoryComparison,
		WinningCompetitor: competitor,
		WhyTheyWin:        []string{competitor + " has dedicated comparison pages"},
		WhatYouNeed:       []string{"Create a comparison page covering Acme vs " + competitor},
	}
}

func TestGeneratePlanComparisonFix(t *testing.T) {
	svc := NewActionPlanService()
	cfg := planTestConfig()
	report := &models.CompetitiveReport{TotalQueries: 10}

	gaps := []models.QueryGap{
		comparisonGap("Acme vs Beta", "Beta"),
		comparisonGap("Beta vs Acme", "Beta"),
		comparisonGap("Acme or Beta", "Beta"),
	}

	plan := svc.GeneratePlan(cfg, report, gaps, nil)

	var comparisonFix *models.Fix
	for _, fix := range plan.AllFixes() {
		if fix.Type == "comparison-page" {
			f := fix
			comparisonFix = &f
		}
	}
	if comparisonFix == nil {
		t.Fatal("expected a comparison-page fix")
	}
	if comparisonFix.Title != "Create comparison page: Acme vs Beta" {
		t.Errorf("unexpected title: %q", comparisonFix.Title)
	}
	if comparisonFix.PotentialWins != 3 {
		t.Errorf("expected 3 potential wins aggregated, got %d", comparisonFix.PotentialWins)
	}
	if len(comparisonFix.QueriesAffected) != 3 {
		t.Errorf("expected 3 affected queries, got %d", len(comparisonFix.QueriesAffected))
	}
	if comparisonFix.PageOutline == nil || len(comparisonFix.PageOutline.Sections) != 8 {
		t.Fatalf("expected an 8-section outline, got %+v", comparisonFix.PageOutline)
	}
	if comparisonFix.PageOutline.Slug != "acme-vs-beta" {
		t.Errorf("unexpected slug: %q", comparisonFix.PageOutline.Slug)
	}

	// potentialWins >= 3 puts the fix in critical
	foundCritical := false
	for _, fix := range plan.Critical {
		if fix.Type == "comparison-page" {
			foundCritical = true
		}
	}
	if !foundCritical {
		t.Error("expected comparison fix bucketed critical")
	}
}

func TestGeneratePlanAlwaysPresentFixes(t *testing.T) {
	svc := NewActionPlanService()
	plan := svc.GeneratePlan(planTestConfig(), &models.CompetitiveReport{TotalQueries: 5}, nil, nil)

	typeCounts := make(map[string]int)
	for _, fix := range plan.AllFixes() {
		typeCounts[fix.Type]++
	}
	if typeCounts["schema"] != 3 {
		t.Errorf("expected 3 schema fixes, got %d", typeCounts["schema"])
	}
	if typeCounts["llm-txt"] != 1 {
		t.Errorf("expected 1 llm.txt fix, got %d", typeCounts["llm-txt"])
	}

	if !strings.Contains(plan.LLMTxtContent, "# Acme") {
		t.Errorf("llm.txt content missing brand heading: %q", plan.LLMTxtContent)
	}
	if !strings.Contains(plan.LLMTxtContent, "Beta") {
		t.Error("llm.txt content should list competitors")
	}

	for _, fix := range plan.AllFixes() {
		if fix.Type != "schema" {
			continue
		}
		if fix.Schema == nil || !strings.Contains(fix.Schema.JSONLD, "https://schema.org") {
			t.Errorf("schema fix %q missing JSON-LD context", fix.Title)
		}
	}
}

func TestBucketFix(t *testing.T) {
	tests := []struct {
		name       string
		fix        models.Fix
		wantBucket string
		quickWin   bool
	}{
		{
			name:       "three potential wins is critical",
			fix:        models.Fix{PotentialWins: 3, QueriesAffected: []string{"q1"}, Effort: models.EffortHigh},
			wantBucket: "critical",
		},
		{
			name:       "five affected queries is critical",
			fix:        models.Fix{PotentialWins: 1, QueriesAffected: []string{"a", "b", "c", "d", "e"}, Effort: models.EffortLow},
			wantBucket: "critical",
			quickWin:   true,
		},
		{
			name:       "two potential wins is high",
			fix:        models.Fix{PotentialWins: 2, Effort: models.EffortHigh},
			wantBucket: "high",
		},
		{
			name:       "medium effort is medium",
			fix:        models.Fix{PotentialWins: 1, Effort: models.EffortMedium},
			wantBucket: "medium",
		},
		{
			name:       "low effort single win is low but quick",
			fix:        models.Fix{PotentialWins: 1, Effort: models.EffortLow},
			wantBucket: "low",
			quickWin:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := &models.CompetitiveActionPlan{}
			bucketFix(plan, tt.fix)

			buckets := map[string][]models.Fix{
				"critical": plan.Critical,
				"high":     plan.High,
				"medium":   plan.Medium,
				"low":      plan.Low,
			}
			for name, fixes := range buckets {
				want := 0
				if name == tt.wantBucket {
					want = 1
				}
				if len(fixes) != want {
					t.Errorf("bucket %s has %d fixes, expected %d", name, len(fixes), want)
				}
			}
			if (len(plan.QuickWins) == 1) != tt.quickWin {
				t.Errorf("expected quickWin=%v, got %d quick wins", tt.quickWin, len(plan.QuickWins))
			}
		})
	}
}

func TestGeneratePlanImpactCap(t *testing.T) {
	svc := NewActionPlanService()
	cfg := planTestConfig()

	// Many comparison gaps against a single query total force the raw
	// percentage far above the cap
	var gaps []models.QueryGap
	for i := 0; i < 20; i++ {
		gaps = append(gaps, comparisonGap("Acme vs Beta variant", "Beta"))
	}

	plan := svc.GeneratePlan(cfg, &models.CompetitiveReport{TotalQueries: 1}, gaps, nil)

	if plan.EstimatedImpactPercent > 50 {
		t.Errorf("estimated impact must be capped at 50, got %d", plan.EstimatedImpactPercent)
	}
	if plan.EstimatedImpactPercent != 50 {
		t.Errorf("expected the cap to bind at 50, got %d", plan.EstimatedImpactPercent)
	}
}

func TestGeneratePlanZeroQueriesDoesNotDivide(t *testing.T) {
	svc := NewActionPlanService()
	plan := svc.GeneratePlan(planTestConfig(), &models.CompetitiveReport{TotalQueries: 0}, nil, nil)

	if plan.EstimatedImpactPercent < 0 || plan.EstimatedImpactPercent > 50 {
		t.Errorf("impact out of range with zero queries: %d", plan.EstimatedImpactPercent)
	}
}

func TestGeneratePlanLandingPageAndLanguageFixes(t *testing.T) {
	svc := NewActionPlanService()
	cfg := planTestConfig()

	gaps := []models.QueryGap{
		{
			ID:                uuid.New(),
			Query:             models.GeneratedQuery{ID: uuid.New(), Text: "Best CRM for freelancers", Category: models.CategoryRecommendation},
			Category:          models.CategoryRecommendation,
			WinningCompetitor: "Beta",
			WhyTheyWin:        []string{"Beta targets \"freelancers\" in its page headings"},
			WhatYouNeed:       []string{"Add a landing page with a heading targeting \"freelancers\""},
		},
	}

	plan := svc.GeneratePlan(cfg, &models.CompetitiveReport{TotalQueries: 10}, gaps, nil)

	foundLanding, foundLanguage := false, false
	for _, fix := range plan.AllFixes() {
		switch fix.Type {
		case "landing-page":
			foundLanding = true
		case "content-language":
			foundLanguage = true
			if fix.Rewrite == nil {
				t.Error("content-language fix missing rewrite artifact")
			}
		}
	}
	if !foundLanding {
		t.Error("expected a landing-page fix for the recommendation gap")
	}
	if !foundLanguage {
		t.Error("expected a content-language fix for heading-targeting attribution")
	}
}
