// services/gap_service.go
package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/AI-Template-SDK/senso-competitive/internal/models"
	"github.com/google/uuid"
)

type gapAnalyzerService struct{}

func NewGapAnalyzerService() GapAnalyzerService {
	return &gapAnalyzerService{}
}

// AnalyzeGaps attributes every lost query to the winning competitor and
// derives what content change would close the gap. Pure: teardowns carry all
// the external evidence.
func (s *gapAnalyzerService) AnalyzeGaps(cfg *models.BrandConfig, results []models.WinLossResult, teardowns []models.CompetitorTeardown) []models.QueryGap {
	teardownByName := make(map[string]models.CompetitorTeardown, len(teardowns))
	for _, td := range teardowns {
		teardownByName[normalizeBrand(td.Competitor.Name)] = td
	}

	var gaps []models.QueryGap
	for _, result := range results {
		if result.Overall != models.ResultLoss || result.WinningBrand == nil {
			continue
		}
		winner := *result.WinningBrand
		teardown := teardownByName[normalizeBrand(winner)]

		gap := models.QueryGap{
			ID:                uuid.New(),
			Query:             result.Query,
			Category:          result.Query.Category,
			WinningCompetitor: winner,
		}
		s.attributeGap(&gap, cfg, winner, teardown)
		gap.Difficulty = gapDifficulty(gap.WhatYouNeed)
		gap.Priority = gapPriority(gap, cfg)

		gaps = append(gaps, gap)
	}

	sort.SliceStable(gaps, func(i, j int) bool { return gaps[i].Priority > gaps[j].Priority })
	return gaps
}

func (s *gapAnalyzerService) attributeGap(gap *models.QueryGap, cfg *models.BrandConfig, winner string, teardown models.CompetitorTeardown) {
	switch gap.Category {
	case models.CategoryComparison:
		if teardown.Signals.HasComparisonPages {
			gap.WhyTheyWin = append(gap.WhyTheyWin,
				fmt.Sprintf("%s has dedicated comparison pages that AI assistants can cite", winner))
		} else {
			gap.WhyTheyWin = append(gap.WhyTheyWin,
				fmt.Sprintf("%s is presented more favorably in head-to-head answers", winner))
		}
		gap.WhatYouNeed = append(gap.WhatYouNeed,
			fmt.Sprintf("Create a comparison page covering %s vs %s", cfg.BrandName, winner))

	case models.CategoryRecommendation:
		if keyword, ok := matchedHeadingKeyword(gap.Query.Text, teardown); ok {
			gap.WhyTheyWin = append(gap.WhyTheyWin,
				fmt.Sprintf("%s targets %q in its page headings", winner, keyword))
			gap.WhatYouNeed = append(gap.WhatYouNeed,
				fmt.Sprintf("Add a landing page with a heading targeting %q", keyword))
		} else {
			gap.WhyTheyWin = append(gap.WhyTheyWin,
				fmt.Sprintf("%s has stronger brand recognition for this query", winner))
			gap.WhatYouNeed = append(gap.WhatYouNeed,
				"More comprehensive content covering this topic")
		}

	case models.CategoryFeature:
		gap.WhyTheyWin = append(gap.WhyTheyWin,
			fmt.Sprintf("%s documents this capability in a way assistants surface", winner))
		gap.WhatYouNeed = append(gap.WhatYouNeed,
			"Feature documentation covering this capability",
			"Structured data (Product schema) describing the feature")

	default: // validation
		gap.WhyTheyWin = append(gap.WhyTheyWin,
			fmt.Sprintf("%s carries more visible trust signals", winner))
		gap.WhatYouNeed = append(gap.WhatYouNeed,
			"More third-party reviews and trust content")
	}
}

// matchedHeadingKeyword returns the first stop-word-filtered query term found
// in the competitor's keyword-presence map or probed headings
func matchedHeadingKeyword(queryText string, teardown models.CompetitorTeardown) (string, bool) {
	for _, term := range queryTerms(queryText) {
		if teardown.KeywordPresence[term] {
			return term, true
		}
		for _, heading := range teardown.Signals.Headings {
			if strings.Contains(strings.ToLower(heading), term) {
				return term, true
			}
		}
	}
	return "", false
}

// gapDifficulty: hard when a new page is required, medium when both schema
// and content changes are needed, easy otherwise
func gapDifficulty(whatYouNeed []string) models.GapDifficulty {
	needsPage := false
	needsSchema := false
	needsContent := false
	for _, need := range whatYouNeed {
		lower := strings.ToLower(need)
		if strings.Contains(lower, "page") {
			needsPage = true
		}
		if strings.Contains(lower, "schema") || strings.Contains(lower, "structured data") {
			needsSchema = true
		}
		if strings.Contains(lower, "content") || strings.Contains(lower, "documentation") {
			needsContent = true
		}
	}
	switch {
	case needsPage:
		return models.DifficultyHard
	case needsSchema && needsContent:
		return models.DifficultyMedium
	default:
		return models.DifficultyEasy
	}
}

// gapPriority: base 5, +3 for recommendation queries, +2 for comparison
// queries naming a primary competitor, +2 when the query targets the
// configured customer, capped at 10
func gapPriority(gap models.QueryGap, cfg *models.BrandConfig) int {
	priority := 5
	if gap.Category == models.CategoryRecommendation {
		priority += 3
	}
	if gap.Category == models.CategoryComparison {
		queryLower := strings.ToLower(gap.Query.Text)
		for _, comp := range cfg.PrimaryCompetitors() {
			if strings.Contains(queryLower, strings.ToLower(comp.Name)) {
				priority += 2
				break
			}
		}
	}
	if cfg.TargetCustomer != "" && strings.Contains(strings.ToLower(gap.Query.Text), strings.ToLower(cfg.TargetCustomer)) {
		priority += 2
	}
	if priority > 10 {
		priority = 10
	}
	return priority
}
