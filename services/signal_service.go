// services/signal_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/AI-Template-SDK/senso-competitive/internal/models"
)

type signalAnalyzerService struct {
	probe        ContentSignalProbe
	contentIndex ContentIndexService
}

// NewSignalAnalyzerService builds teardowns from the probe's content signals
// and the queries lost to each competitor. The content index is optional and
// only sharpens the keyword-presence map when configured.
func NewSignalAnalyzerService(probe ContentSignalProbe, contentIndex ContentIndexService) SignalAnalyzerService {
	return &signalAnalyzerService{probe: probe, contentIndex: contentIndex}
}

// stopWords filters query terms down to the ones worth checking on a
// competitor's site
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "is": true, "are": true, "was": true,
	"be": true, "to": true, "of": true, "in": true, "on": true, "for": true,
	"or": true, "vs": true, "and": true, "with": true, "best": true,
	"way": true, "how": true, "what": true, "which": true, "it": true,
}

func (s *signalAnalyzerService) AnalyzeCompetitors(ctx context.Context, cfg *models.BrandConfig, results []models.WinLossResult) []models.CompetitorTeardown {
	teardowns := make([]models.CompetitorTeardown, 0, len(cfg.Competitors))

	for _, comp := range cfg.Competitors {
		teardown := models.CompetitorTeardown{
			Competitor:      comp,
			WebsiteURL:      comp.WebsiteURL,
			KeywordPresence: make(map[string]bool),
		}

		if s.probe != nil {
			signals, err := s.probe.Probe(ctx, comp.WebsiteURL)
			if err != nil {
				fmt.Printf("[AnalyzeCompetitors] ⚠️ Probe failed for %s (%s): %v\n", comp.Name, comp.WebsiteURL, err)
			} else if signals != nil {
				teardown.Signals = *signals
			}
		}

		for _, keyword := range lostQueryKeywords(comp.Name, results) {
			teardown.KeywordPresence[keyword] = s.keywordPresent(ctx, comp.Name, keyword, teardown.Signals)
		}

		teardown.Advantages = signalAdvantages(teardown.Signals)
		teardowns = append(teardowns, teardown)
	}

	return teardowns
}

// keywordPresent prefers the content index when one is wired; otherwise a
// keyword counts as present when it appears in a probed heading
func (s *signalAnalyzerService) keywordPresent(ctx context.Context, competitor, keyword string, signals models.ContentSignals) bool {
	if s.contentIndex != nil {
		present, err := s.contentIndex.KeywordPresent(ctx, competitor, keyword)
		if err == nil {
			return present
		}
		fmt.Printf("[AnalyzeCompetitors] ⚠️ Keyword lookup failed for %s/%q: %v\n", competitor, keyword, err)
	}
	for _, heading := range signals.Headings {
		if strings.Contains(strings.ToLower(heading), keyword) {
			return true
		}
	}
	return false
}

// lostQueryKeywords extracts the stop-word-filtered terms of every query lost
// to the competitor, deduplicated in first-seen order
func lostQueryKeywords(competitor string, results []models.WinLossResult) []string {
	seen := make(map[string]bool)
	var keywords []string
	for _, result := range results {
		if result.Overall != models.ResultLoss {
			continue
		}
		if result.WinningBrand == nil || !strings.EqualFold(*result.WinningBrand, competitor) {
			continue
		}
		for _, term := range queryTerms(result.Query.Text) {
			if !seen[term] {
				seen[term] = true
				keywords = append(keywords, term)
			}
		}
	}
	return keywords
}

func queryTerms(text string) []string {
	var terms []string
	for _, field := range strings.Fields(strings.ToLower(text)) {
		term := strings.Trim(field, ".,!?:;\"'")
		if term == "" || len(term) < 3 || stopWords[term] {
			continue
		}
		terms = append(terms, term)
	}
	return terms
}

// signalAdvantages converts present signals into the human-readable advantage
// strings the gap analyzer keys on
func signalAdvantages(signals models.ContentSignals) []string {
	var advantages []string
	if signals.HasComparisonPages {
		advantages = append(advantages, fmt.Sprintf("Has %d dedicated comparison pages", signals.ComparisonPageCount))
	}
	if signals.HasFAQSchema {
		advantages = append(advantages, "Uses FAQ schema markup that AI assistants can cite directly")
	}
	if signals.HasProductSchema {
		advantages = append(advantages, "Uses Product schema markup")
	}
	if signals.HasOrganizationSchema {
		advantages = append(advantages, "Uses Organization schema markup")
	}
	if signals.HasLLMTxt {
		advantages = append(advantages, "Publishes an llm.txt brand context file")
	}
	if signals.UsesDefinitiveLanguage {
		advantages = append(advantages, "Uses definitive language in headings and copy")
	}
	if signals.HasAudiencePages {
		advantages = append(advantages, "Has audience-specific landing pages")
	}
	if signals.HasPricingPage {
		advantages = append(advantages, "Has a transparent pricing page")
	}
	if signals.TrustSignalCount > 0 {
		advantages = append(advantages, fmt.Sprintf("Shows %d trust signals (reviews, badges, case studies)", signals.TrustSignalCount))
	}
	return advantages
}

// nullContentSignalProbe performs no inspection and reports zero signals
type nullContentSignalProbe struct{}

// NewNullContentSignalProbe is the default probe when no crawler or content
// index is configured
func NewNullContentSignalProbe() ContentSignalProbe {
	return &nullContentSignalProbe{}
}

func (p *nullContentSignalProbe) Probe(ctx context.Context, websiteURL string) (*models.ContentSignals, error) {
	return &models.ContentSignals{}, nil
}
