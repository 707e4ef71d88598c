// services/winloss_service.go
package services

import (
	"sort"
	"strings"
	"time"

	"github.com/AI-Template-SDK/senso-competitive/internal/models"
	"github.com/google/uuid"
)

type winLossService struct{}

func NewWinLossService() WinLossService {
	return &winLossService{}
}

// ExecutionWinner applies the single-execution winner rule. Mentions arrive
// in brand-list order, which is the iteration order for every tie-break:
//  1. any primary mention wins outright
//  2. exactly one secondary mention wins
//  3. among multiple secondaries, the first with positive sentiment wins
//  4. otherwise there is no winner
func (s *winLossService) ExecutionWinner(mentions []models.BrandMention, brandOrder []string) *string {
	ordered := orderMentions(mentions, brandOrder)

	for _, m := range ordered {
		if m.Position == models.PositionPrimary {
			winner := m.Brand
			return &winner
		}
	}

	var secondaries []models.BrandMention
	for _, m := range ordered {
		if m.Position == models.PositionSecondary {
			secondaries = append(secondaries, m)
		}
	}

	if len(secondaries) == 1 {
		winner := secondaries[0].Brand
		return &winner
	}
	if len(secondaries) > 1 {
		for _, m := range secondaries {
			if m.Sentiment == models.SentimentPositive {
				winner := m.Brand
				return &winner
			}
		}
	}

	return nil
}

// orderMentions reorders mentions into brand-list order; mentions for brands
// outside the list keep their relative order at the end
func orderMentions(mentions []models.BrandMention, brandOrder []string) []models.BrandMention {
	if len(brandOrder) == 0 {
		return mentions
	}
	rank := make(map[string]int, len(brandOrder))
	for i, name := range brandOrder {
		rank[normalizeBrand(name)] = i
	}
	ordered := make([]models.BrandMention, len(mentions))
	copy(ordered, mentions)
	sort.SliceStable(ordered, func(i, j int) bool {
		ri, iok := rank[normalizeBrand(ordered[i].Brand)]
		rj, jok := rank[normalizeBrand(ordered[j].Brand)]
		if iok && jok {
			return ri < rj
		}
		return iok && !jok
	})
	return ordered
}

// CalculateWinLoss aggregates one query's executions into a WinLossResult.
// overallResult and winningBrand are pure functions of the per-model results.
func (s *winLossService) CalculateWinLoss(query models.GeneratedQuery, executions []models.QueryExecution, userBrand string) models.WinLossResult {
	result := models.WinLossResult{
		ID:           uuid.New(),
		Query:        query,
		Executions:   executions,
		ModelResults: make(map[string]models.ModelResult, len(executions)),
	}

	for _, exec := range executions {
		modelResult := models.ModelResult{
			Winner:              exec.Winner,
			UserBrandPosition:   models.PositionNone,
			UserBrandSentiment:  models.SentimentNeutral,
			CompetitorPositions: make(map[string]models.MentionPosition),
		}
		for _, m := range exec.BrandsMentioned {
			if strings.EqualFold(m.Brand, userBrand) {
				modelResult.UserBrandPosition = m.Position
				modelResult.UserBrandSentiment = m.Sentiment
			} else {
				modelResult.CompetitorPositions[m.Brand] = m.Position
			}
		}
		if _, exists := result.ModelResults[exec.Model]; !exists {
			result.ModelOrder = append(result.ModelOrder, exec.Model)
		}
		result.ModelResults[exec.Model] = modelResult
	}

	result.Overall = overallResult(executions, userBrand)
	result.WinningBrand = winningBrand(executions)

	return result
}

func overallResult(executions []models.QueryExecution, userBrand string) models.OverallResult {
	if len(executions) == 0 {
		return models.ResultUnclear
	}
	userWins := 0
	for _, exec := range executions {
		if exec.Winner != nil && strings.EqualFold(*exec.Winner, userBrand) {
			userWins++
		}
	}
	switch userWins {
	case len(executions):
		return models.ResultWin
	case 0:
		return models.ResultLoss
	default:
		return models.ResultPartial
	}
}

// winningBrand is the most frequent non-null winner across executions.
// Executions are walked in append order so that the first-encountered brand
// wins frequency ties deterministically.
func winningBrand(executions []models.QueryExecution) *string {
	counts := make(map[string]int)
	var firstSeen []string
	for _, exec := range executions {
		if exec.Winner == nil {
			continue
		}
		if _, seen := counts[*exec.Winner]; !seen {
			firstSeen = append(firstSeen, *exec.Winner)
		}
		counts[*exec.Winner]++
	}
	if len(firstSeen) == 0 {
		return nil
	}
	best := firstSeen[0]
	for _, brand := range firstSeen[1:] {
		if counts[brand] > counts[best] {
			best = brand
		}
	}
	return &best
}

// BuildReport aggregates all per-query results into the immutable report
func (s *winLossService) BuildReport(cfg *models.BrandConfig, results []models.WinLossResult) *models.CompetitiveReport {
	report := &models.CompetitiveReport{
		ID:           uuid.New(),
		BrandName:    cfg.BrandName,
		TotalQueries: len(results),
		ByCategory:   make(map[models.QueryCategory]models.CategoryStats),
		GeneratedAt:  time.Now().UTC(),
	}

	for _, result := range results {
		report.TotalExecutions += len(result.Executions)
		for _, exec := range result.Executions {
			report.TotalCost += exec.Cost
		}

		stats := report.ByCategory[result.Query.Category]
		stats.Total++
		switch result.Overall {
		case models.ResultWin:
			report.Wins++
			stats.Wins++
		case models.ResultLoss:
			report.Losses++
			stats.Losses++
		case models.ResultPartial:
			report.Partial++
			stats.Partial++
		default:
			report.Unclear++
		}
		report.ByCategory[result.Query.Category] = stats
	}

	if report.TotalQueries > 0 {
		report.WinRate = float64(report.Wins) / float64(report.TotalQueries) * 100
	}
	for category, stats := range report.ByCategory {
		if stats.Total > 0 {
			stats.WinRate = float64(stats.Wins) / float64(stats.Total) * 100
		}
		report.ByCategory[category] = stats
	}

	report.ByCompetitor = competitorStats(cfg, results)
	report.ByModel = modelStats(cfg, results)

	report.BiggestWins, report.BiggestLosses, report.CloseCalls = topResults(cfg, results)

	return report
}

// competitorStats restricts each competitor's stats to queries that mention
// that competitor or were won by it
func competitorStats(cfg *models.BrandConfig, results []models.WinLossResult) []models.CompetitorStats {
	out := make([]models.CompetitorStats, 0, len(cfg.Competitors))
	for _, comp := range cfg.Competitors {
		stats := models.CompetitorStats{Name: comp.Name}
		for _, result := range results {
			if !resultInvolvesCompetitor(result, comp.Name) {
				continue
			}
			stats.QueriesTotal++
			if result.Overall == models.ResultWin {
				stats.QueriesWon++
			}
			if result.Overall == models.ResultLoss && result.WinningBrand != nil &&
				strings.EqualFold(*result.WinningBrand, comp.Name) {
				stats.QueriesLost++
			}
		}
		if stats.QueriesTotal > 0 {
			stats.WinRateVs = float64(stats.QueriesWon) / float64(stats.QueriesTotal) * 100
		}
		out = append(out, stats)
	}
	return out
}

func resultInvolvesCompetitor(result models.WinLossResult, competitor string) bool {
	for _, name := range result.Query.CompetitorsMentioned {
		if strings.EqualFold(name, competitor) {
			return true
		}
	}
	if strings.Contains(strings.ToLower(result.Query.Text), strings.ToLower(competitor)) {
		return true
	}
	return result.WinningBrand != nil && strings.EqualFold(*result.WinningBrand, competitor)
}

// modelStats computes win rate and average user-brand position per model, in
// first-encountered model order
func modelStats(cfg *models.BrandConfig, results []models.WinLossResult) []models.ModelStats {
	statsByModel := make(map[string]*models.ModelStats)
	positionSum := make(map[string]int)
	var order []string

	for _, result := range results {
		for _, model := range result.ModelOrder {
			modelResult := result.ModelResults[model]
			stats, ok := statsByModel[model]
			if !ok {
				stats = &models.ModelStats{Model: model}
				statsByModel[model] = stats
				order = append(order, model)
			}
			stats.Total++
			if modelResult.Winner != nil && strings.EqualFold(*modelResult.Winner, cfg.BrandName) {
				stats.Wins++
			}
			positionSum[model] += models.PositionScore(modelResult.UserBrandPosition)
		}
	}

	out := make([]models.ModelStats, 0, len(order))
	for _, model := range order {
		stats := statsByModel[model]
		if stats.Total > 0 {
			stats.WinRate = float64(stats.Wins) / float64(stats.Total) * 100
			stats.AvgUserPosition = float64(positionSum[model]) / float64(stats.Total)
		}
		out = append(out, *stats)
	}
	return out
}

// impactScore ranks results for the top-5 lists: base +/-10 for win/loss and
// +/-2 for partial, boosted for recommendation (x1.5) and comparison (x1.3)
// queries, with a further +/-5 when every model agreed on the same winner
func impactScore(result models.WinLossResult, userBrand string) float64 {
	var base float64
	switch result.Overall {
	case models.ResultWin:
		base = 10
	case models.ResultLoss:
		base = -10
	case models.ResultPartial:
		base = 2
	default:
		return 0
	}

	switch result.Query.Category {
	case models.CategoryRecommendation:
		base *= 1.5
	case models.CategoryComparison:
		base *= 1.3
	}

	if unanimousWinner(result.Executions) {
		if result.Overall == models.ResultWin {
			base += 5
		} else if result.Overall == models.ResultLoss {
			base -= 5
		}
	}

	return base
}

// unanimousWinner reports whether every execution produced the same non-null
// winner
func unanimousWinner(executions []models.QueryExecution) bool {
	if len(executions) == 0 {
		return false
	}
	first := executions[0].Winner
	if first == nil {
		return false
	}
	for _, exec := range executions[1:] {
		if exec.Winner == nil || !strings.EqualFold(*exec.Winner, *first) {
			return false
		}
	}
	return true
}

func topResults(cfg *models.BrandConfig, results []models.WinLossResult) (wins, losses, closeCalls []models.ScoredResult) {
	for _, result := range results {
		scored := models.ScoredResult{Result: result, Impact: impactScore(result, cfg.BrandName)}
		switch result.Overall {
		case models.ResultWin:
			wins = append(wins, scored)
		case models.ResultLoss:
			losses = append(losses, scored)
		case models.ResultPartial:
			closeCalls = append(closeCalls, scored)
		}
	}

	sort.SliceStable(wins, func(i, j int) bool { return wins[i].Impact > wins[j].Impact })
	sort.SliceStable(losses, func(i, j int) bool { return losses[i].Impact < losses[j].Impact })
	sort.SliceStable(closeCalls, func(i, j int) bool { return abs(closeCalls[i].Impact) > abs(closeCalls[j].Impact) })

	return capTop(wins, 5), capTop(losses, 5), capTop(closeCalls, 5)
}

func capTop(results []models.ScoredResult, n int) []models.ScoredResult {
	if len(results) > n {
		return results[:n]
	}
	return results
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
