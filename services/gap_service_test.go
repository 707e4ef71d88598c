// services/gap_service_test.go
package services

import (
	"strings"
	"testing"

	"github.com/AI-Template-SDK/senso-competitive/internal/models"
	"github.com/google/uuid"
)

func lossResult(text string, category models.QueryCategory, winner string) models.WinLossResult {
	return models.WinLossResult{
		ID:           uuid.New(),
		Query:        models.GeneratedQuery{ID: uuid.New(), Text: text, Category: category},
		Overall:      models.ResultLoss,
		WinningBrand: strPtr(winner),
	}
}

func gapTestConfig() *models.BrandConfig {
	return &models.BrandConfig{
		BrandName:      "Acme",
		Category:       "CRM",
		TargetCustomer: "freelancers",
		Competitors: []models.Competitor{
			{ID: uuid.New(), Name: "Beta", WebsiteURL: "https://beta.example.com", IsPrimary: true},
		},
	}
}

func TestAnalyzeGapsSkipsNonLosses(t *testing.T) {
	svc := NewGapAnalyzerService()
	results := []models.WinLossResult{
		{Query: models.GeneratedQuery{Text: "Best CRM"}, Overall: models.ResultWin},
		{Query: models.GeneratedQuery{Text: "Acme vs Beta"}, Overall: models.ResultPartial, WinningBrand: strPtr("Acme")},
		{Query: models.GeneratedQuery{Text: "Is Acme legit"}, Overall: models.ResultLoss, WinningBrand: nil},
	}

	gaps := svc.AnalyzeGaps(gapTestConfig(), results, nil)
	if len(gaps) != 0 {
		t.Errorf("expected no gaps for wins, partials and winnerless losses, got %d", len(gaps))
	}
}

func TestAnalyzeGapsAttribution(t *testing.T) {
	svc := NewGapAnalyzerService()
	cfg := gapTestConfig()

	tests := []struct {
		name           string
		result         models.WinLossResult
		teardowns      []models.CompetitorTeardown
		wantDifficulty models.GapDifficulty
		wantPriority   int
		wantNeedPart   string
	}{
		{
			name:           "comparison gap needs a page",
			result:         lossResult("Acme vs Beta", models.CategoryComparison, "Beta"),
			wantDifficulty: models.DifficultyHard,
			wantPriority:   7, // base 5 + 2 primary competitor in text
			wantNeedPart:   "comparison page",
		},
		{
			name:           "recommendation gap without heading match is easy",
			result:         lossResult("Best CRM", models.CategoryRecommendation, "Beta"),
			wantDifficulty: models.DifficultyEasy,
			wantPriority:   8, // base 5 + 3 recommendation
			wantNeedPart:   "comprehensive content",
		},
		{
			name:   "recommendation gap with heading match needs a landing page",
			result: lossResult("Best CRM for freelancers", models.CategoryRecommendation, "Beta"),
			teardowns: []models.CompetitorTeardown{{
				Competitor:      cfg.Competitors[0],
				KeywordPresence: map[string]bool{"freelancers": true},
			}},
			wantDifficulty: models.DifficultyHard,
			wantPriority:   10, // base 5 + 3 recommendation + 2 target customer
			wantNeedPart:   "landing page",
		},
		{
			name:           "feature gap is medium",
			result:         lossResult("CRM with lowest fees", models.CategoryFeature, "Beta"),
			wantDifficulty: models.DifficultyMedium,
			wantPriority:   5,
			wantNeedPart:   "Structured data",
		},
		{
			name:           "validation gap is easy",
			result:         lossResult("Is Acme legit", models.CategoryValidation, "Beta"),
			wantDifficulty: models.DifficultyEasy,
			wantPriority:   5,
			wantNeedPart:   "trust content",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gaps := svc.AnalyzeGaps(cfg, []models.WinLossResult{tt.result}, tt.teardowns)
			if len(gaps) != 1 {
				t.Fatalf("expected 1 gap, got %d", len(gaps))
			}
			gap := gaps[0]

			if gap.WinningCompetitor != "Beta" {
				t.Errorf("expected winning competitor Beta, got %s", gap.WinningCompetitor)
			}
			if gap.Difficulty != tt.wantDifficulty {
				t.Errorf("expected difficulty %s, got %s", tt.wantDifficulty, gap.Difficulty)
			}
			if gap.Priority != tt.wantPriority {
				t.Errorf("expected priority %d, got %d", tt.wantPriority, gap.Priority)
			}
			found := false
			for _, need := range gap.WhatYouNeed {
				if strings.Contains(strings.ToLower(need), strings.ToLower(tt.wantNeedPart)) {
					found = true
				}
			}
			if !found {
				t.Errorf("expected a need mentioning %q, got %v", tt.wantNeedPart, gap.WhatYouNeed)
			}
			if len(gap.WhyTheyWin) == 0 {
				t.Error("expected at least one why-they-win entry")
			}
		})
	}
}

func TestAnalyzeGapsSortedByPriority(t *testing.T) {
	svc := NewGapAnalyzerService()
	results := []models.WinLossResult{
		lossResult("Is Acme legit", models.CategoryValidation, "Beta"),         // priority 5
		lossResult("Best CRM", models.CategoryRecommendation, "Beta"),          // priority 8
		lossResult("CRM with lowest fees", models.CategoryFeature, "Beta"),     // priority 5
		lossResult("Acme vs Beta", models.CategoryComparison, "Beta"),          // priority 7
	}

	gaps := svc.AnalyzeGaps(gapTestConfig(), results, nil)

	if len(gaps) != 4 {
		t.Fatalf("expected 4 gaps, got %d", len(gaps))
	}
	for i := 1; i < len(gaps); i++ {
		if gaps[i].Priority > gaps[i-1].Priority {
			t.Errorf("gaps not sorted by descending priority: %d before %d", gaps[i-1].Priority, gaps[i].Priority)
		}
	}
	if gaps[0].Query.Text != "Best CRM" {
		t.Errorf("expected recommendation gap first, got %q", gaps[0].Query.Text)
	}
}
