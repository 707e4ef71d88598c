// services/winloss_service_test.go
package services

import (
	"testing"

	"github.com/AI-Template-SDK/senso-competitive/internal/models"
	"github.com/google/uuid"
)

func mention(brand string, pos models.MentionPosition, sentiment models.Sentiment) models.BrandMention {
	return models.BrandMention{Brand: brand, Position: pos, Sentiment: sentiment}
}

func execWithWinner(model string, winner *string) models.QueryExecution {
	return models.QueryExecution{
		ID:     uuid.New(),
		Model:  model,
		Winner: winner,
	}
}

func strPtr(s string) *string { return &s }

func TestExecutionWinner(t *testing.T) {
	svc := NewWinLossService()
	brandOrder := []string{"Acme", "Beta", "Gamma"}

	tests := []struct {
		name     string
		mentions []models.BrandMention
		expected *string
	}{
		{
			name: "primary wins outright",
			mentions: []models.BrandMention{
				mention("Acme", models.PositionSecondary, models.SentimentPositive),
				mention("Beta", models.PositionPrimary, models.SentimentNeutral),
			},
			expected: strPtr("Beta"),
		},
		{
			name: "single secondary wins",
			mentions: []models.BrandMention{
				mention("Acme", models.PositionMentioned, models.SentimentNeutral),
				mention("Beta", models.PositionSecondary, models.SentimentNeutral),
			},
			expected: strPtr("Beta"),
		},
		{
			name: "multiple secondaries first positive wins",
			mentions: []models.BrandMention{
				mention("Acme", models.PositionSecondary, models.SentimentNeutral),
				mention("Beta", models.PositionSecondary, models.SentimentPositive),
				mention("Gamma", models.PositionSecondary, models.SentimentPositive),
			},
			expected: strPtr("Beta"),
		},
		{
			name: "multiple secondaries none positive has no winner",
			mentions: []models.BrandMention{
				mention("Acme", models.PositionSecondary, models.SentimentNeutral),
				mention("Beta", models.PositionSecondary, models.SentimentNegative),
			},
			expected: nil,
		},
		{
			name: "mentions only has no winner",
			mentions: []models.BrandMention{
				mention("Acme", models.PositionMentioned, models.SentimentPositive),
				mention("Beta", models.PositionNone, models.SentimentNeutral),
			},
			expected: nil,
		},
		{
			name: "brand list order breaks primary ties",
			mentions: []models.BrandMention{
				mention("Gamma", models.PositionPrimary, models.SentimentNeutral),
				mention("Acme", models.PositionPrimary, models.SentimentNeutral),
			},
			expected: strPtr("Acme"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.ExecutionWinner(tt.mentions, brandOrder)
			if (got == nil) != (tt.expected == nil) {
				t.Fatalf("expected winner %v, got %v", deref(tt.expected), deref(got))
			}
			if got != nil && *got != *tt.expected {
				t.Errorf("expected winner %s, got %s", *tt.expected, *got)
			}
		})
	}
}

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}

func TestCalculateWinLossOverall(t *testing.T) {
	svc := NewWinLossService()
	query := models.GeneratedQuery{ID: uuid.New(), Text: "Best CRM", Category: models.CategoryRecommendation}

	tests := []struct {
		name     string
		winners  []*string
		expected models.OverallResult
		winning  *string
	}{
		{
			name:     "all user brand is win",
			winners:  []*string{strPtr("Acme"), strPtr("Acme"), strPtr("Acme")},
			expected: models.ResultWin,
			winning:  strPtr("Acme"),
		},
		{
			name:     "no user brand is loss",
			winners:  []*string{strPtr("Beta"), strPtr("Beta"), strPtr("Beta")},
			expected: models.ResultLoss,
			winning:  strPtr("Beta"),
		},
		{
			name:     "mixed is partial with most frequent winner",
			winners:  []*string{strPtr("Acme"), strPtr("Acme"), strPtr("Beta")},
			expected: models.ResultPartial,
			winning:  strPtr("Acme"),
		},
		{
			name:     "zero executions is unclear",
			winners:  nil,
			expected: models.ResultUnclear,
			winning:  nil,
		},
		{
			name:     "frequency tie goes to first appearance",
			winners:  []*string{strPtr("Beta"), strPtr("Acme")},
			expected: models.ResultPartial,
			winning:  strPtr("Beta"),
		},
	}

	modelNames := []string{"chatgpt", "perplexity", "gemini"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var executions []models.QueryExecution
			for i, winner := range tt.winners {
				executions = append(executions, execWithWinner(modelNames[i], winner))
			}

			result := svc.CalculateWinLoss(query, executions, "Acme")

			if result.Overall != tt.expected {
				t.Errorf("expected overall %s, got %s", tt.expected, result.Overall)
			}
			if (result.WinningBrand == nil) != (tt.winning == nil) {
				t.Fatalf("expected winning brand %v, got %v", deref(tt.winning), deref(result.WinningBrand))
			}
			if result.WinningBrand != nil && *result.WinningBrand != *tt.winning {
				t.Errorf("expected winning brand %s, got %s", *tt.winning, *result.WinningBrand)
			}
			if len(result.ModelOrder) != len(executions) {
				t.Errorf("expected %d entries in model order, got %d", len(executions), len(result.ModelOrder))
			}
		})
	}
}

func TestImpactScoreMonotonicity(t *testing.T) {
	recWin := models.WinLossResult{
		Query:   models.GeneratedQuery{Category: models.CategoryRecommendation},
		Overall: models.ResultWin,
		Executions: []models.QueryExecution{
			execWithWinner("chatgpt", strPtr("Acme")),
			execWithWinner("perplexity", strPtr("Acme")),
		},
	}
	featureWin := models.WinLossResult{
		Query:   models.GeneratedQuery{Category: models.CategoryFeature},
		Overall: models.ResultWin,
		Executions: []models.QueryExecution{
			execWithWinner("chatgpt", strPtr("Acme")),
			execWithWinner("perplexity", strPtr("Acme")),
		},
	}

	recScore := impactScore(recWin, "Acme")
	featureScore := impactScore(featureWin, "Acme")
	if recScore <= featureScore {
		t.Errorf("recommendation win (%.1f) should outscore feature win (%.1f)", recScore, featureScore)
	}

	loss := models.WinLossResult{
		Query:   models.GeneratedQuery{Category: models.CategoryComparison},
		Overall: models.ResultLoss,
		Executions: []models.QueryExecution{
			execWithWinner("chatgpt", strPtr("Beta")),
			execWithWinner("perplexity", strPtr("Beta")),
		},
	}
	if got := impactScore(loss, "Acme"); got != -18 {
		t.Errorf("unanimous comparison loss should score -18, got %.1f", got)
	}

	partial := models.WinLossResult{
		Query:   models.GeneratedQuery{Category: models.CategoryValidation},
		Overall: models.ResultPartial,
		Executions: []models.QueryExecution{
			execWithWinner("chatgpt", strPtr("Acme")),
			execWithWinner("perplexity", strPtr("Beta")),
		},
	}
	if got := impactScore(partial, "Acme"); got != 2 {
		t.Errorf("partial validation result should score 2, got %.1f", got)
	}
}

func TestBuildReport(t *testing.T) {
	svc := NewWinLossService()
	cfg := &models.BrandConfig{
		BrandName: "Acme",
		Competitors: []models.Competitor{
			{ID: uuid.New(), Name: "Beta", IsPrimary: true},
		},
	}

	queries := []models.GeneratedQuery{
		{ID: uuid.New(), Text: "Best CRM", Category: models.CategoryRecommendation},
		{ID: uuid.New(), Text: "Acme vs Beta", Category: models.CategoryComparison, CompetitorsMentioned: []string{"Beta"}},
		{ID: uuid.New(), Text: "Is Acme legit", Category: models.CategoryValidation},
	}

	results := []models.WinLossResult{
		svc.CalculateWinLoss(queries[0], []models.QueryExecution{
			execWithWinner("chatgpt", strPtr("Acme")),
			execWithWinner("perplexity", strPtr("Acme")),
		}, "Acme"),
		svc.CalculateWinLoss(queries[1], []models.QueryExecution{
			execWithWinner("chatgpt", strPtr("Beta")),
			execWithWinner("perplexity", strPtr("Beta")),
		}, "Acme"),
		svc.CalculateWinLoss(queries[2], []models.QueryExecution{
			execWithWinner("chatgpt", strPtr("Acme")),
			execWithWinner("perplexity", nil),
		}, "Acme"),
	}

	report := svc.BuildReport(cfg, results)

	if report.TotalQueries != 3 || report.Wins != 1 || report.Losses != 1 || report.Partial != 1 {
		t.Errorf("unexpected totals: %+v", report)
	}
	if report.TotalExecutions != 6 {
		t.Errorf("expected 6 executions, got %d", report.TotalExecutions)
	}

	recStats := report.ByCategory[models.CategoryRecommendation]
	if recStats.Total != 1 || recStats.Wins != 1 || recStats.WinRate != 100 {
		t.Errorf("unexpected recommendation stats: %+v", recStats)
	}

	if len(report.ByCompetitor) != 1 {
		t.Fatalf("expected one competitor entry, got %d", len(report.ByCompetitor))
	}
	betaStats := report.ByCompetitor[0]
	if betaStats.QueriesTotal != 1 || betaStats.QueriesLost != 1 {
		t.Errorf("unexpected Beta stats: %+v", betaStats)
	}

	if len(report.ByModel) != 2 {
		t.Fatalf("expected two model entries, got %d", len(report.ByModel))
	}
	if report.ByModel[0].Model != "chatgpt" {
		t.Errorf("expected chatgpt first in model order, got %s", report.ByModel[0].Model)
	}
	chatgptStats := report.ByModel[0]
	if chatgptStats.Total != 3 || chatgptStats.Wins != 2 {
		t.Errorf("unexpected chatgpt stats: %+v", chatgptStats)
	}

	if len(report.BiggestWins) != 1 || len(report.BiggestLosses) != 1 || len(report.CloseCalls) != 1 {
		t.Errorf("unexpected top lists: wins=%d losses=%d close=%d",
			len(report.BiggestWins), len(report.BiggestLosses), len(report.CloseCalls))
	}
}
