// services/signal_service_test.go
package services

import (
	"context"
	"fmt"
	"reflect"
	"testing"

	"github.com/AI-Template-SDK/senso-competitive/internal/models"
)

// stubProbe returns fixed signals per website URL
type stubProbe struct {
	signals map[string]*models.ContentSignals
	err     error
}

func (p *stubProbe) Probe(ctx context.Context, websiteURL string) (*models.ContentSignals, error) {
	if p.err != nil {
		return nil, p.err
	}
	if signals, ok := p.signals[websiteURL]; ok {
		return signals, nil
	}
	return &models.ContentSignals{}, nil
}

func TestQueryTerms(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"stop words dropped", "Best CRM for freelancers", []string{"crm", "freelancers"}},
		{"short tokens dropped", "Is it a CRM?", []string{"crm"}},
		{"punctuation trimmed", "Acme vs. Beta!", []string{"acme", "beta"}},
		{"all stop words", "what is the best way", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := queryTerms(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestLostQueryKeywords(t *testing.T) {
	results := []models.WinLossResult{
		{Query: models.GeneratedQuery{Text: "Best CRM for freelancers"}, Overall: models.ResultLoss, WinningBrand: strPtr("Beta")},
		{Query: models.GeneratedQuery{Text: "CRM with invoicing"}, Overall: models.ResultLoss, WinningBrand: strPtr("beta")},
		{Query: models.GeneratedQuery{Text: "Best CRM in Canada"}, Overall: models.ResultLoss, WinningBrand: strPtr("Gamma")},
		{Query: models.GeneratedQuery{Text: "Acme vs Beta"}, Overall: models.ResultWin},
	}

	keywords := lostQueryKeywords("Beta", results)

	// deduplicated, first-seen order, case-insensitive winner match,
	// other competitors' losses excluded
	expected := []string{"crm", "freelancers", "invoicing"}
	if !reflect.DeepEqual(keywords, expected) {
		t.Errorf("expected %v, got %v", expected, keywords)
	}
}

func TestAnalyzeCompetitorsHeadingPresence(t *testing.T) {
	cfg := minimalConfig()
	cfg.Competitors[0].WebsiteURL = "https://beta.example.com"

	probe := &stubProbe{signals: map[string]*models.ContentSignals{
		"https://beta.example.com": {
			Headings:            []string{"The Best CRM for Freelancers", "Pricing"},
			HasComparisonPages:  true,
			ComparisonPageCount: 4,
			HasFAQSchema:        true,
			TrustSignalCount:    12,
		},
	}}
	svc := NewSignalAnalyzerService(probe, nil)

	results := []models.WinLossResult{
		{Query: models.GeneratedQuery{Text: "Best CRM for freelancers"}, Overall: models.ResultLoss, WinningBrand: strPtr("Beta")},
	}

	teardowns := svc.AnalyzeCompetitors(context.Background(), cfg, results)
	if len(teardowns) != 1 {
		t.Fatalf("expected 1 teardown, got %d", len(teardowns))
	}
	teardown := teardowns[0]

	if !teardown.KeywordPresence["freelancers"] {
		t.Error("expected freelancers present via probed headings")
	}
	if !teardown.KeywordPresence["crm"] {
		t.Error("expected crm present via probed headings")
	}

	wantAdvantages := map[string]bool{
		"Has 4 dedicated comparison pages": true,
		"Uses FAQ schema markup that AI assistants can cite directly": true,
		"Shows 12 trust signals (reviews, badges, case studies)":      true,
	}
	if len(teardown.Advantages) != len(wantAdvantages) {
		t.Fatalf("unexpected advantages: %v", teardown.Advantages)
	}
	for _, advantage := range teardown.Advantages {
		if !wantAdvantages[advantage] {
			t.Errorf("unexpected advantage: %q", advantage)
		}
	}
}

func TestAnalyzeCompetitorsNullProbe(t *testing.T) {
	svc := NewSignalAnalyzerService(NewNullContentSignalProbe(), nil)

	results := []models.WinLossResult{
		{Query: models.GeneratedQuery{Text: "Best CRM"}, Overall: models.ResultLoss, WinningBrand: strPtr("Beta")},
	}

	teardowns := svc.AnalyzeCompetitors(context.Background(), minimalConfig(), results)
	if len(teardowns) != 1 {
		t.Fatalf("expected 1 teardown, got %d", len(teardowns))
	}
	teardown := teardowns[0]

	if len(teardown.Advantages) != 0 {
		t.Errorf("null probe should yield no advantages, got %v", teardown.Advantages)
	}
	if teardown.KeywordPresence["crm"] {
		t.Error("null probe should report keywords absent")
	}
}

func TestAnalyzeCompetitorsProbeFailureKeepsTeardown(t *testing.T) {
	svc := NewSignalAnalyzerService(&stubProbe{err: fmt.Errorf("connection refused")}, nil)

	teardowns := svc.AnalyzeCompetitors(context.Background(), minimalConfig(), nil)
	if len(teardowns) != 1 {
		t.Fatalf("probe failure must not drop the teardown, got %d", len(teardowns))
	}
	if teardowns[0].Competitor.Name != "Beta" {
		t.Errorf("unexpected competitor: %s", teardowns[0].Competitor.Name)
	}
}

// stubContentIndex answers keyword lookups from a fixed set
type stubContentIndex struct {
	present map[string]bool
	err     error
}

func (s *stubContentIndex) EnsureCollections(ctx context.Context) error { return nil }

func (s *stubContentIndex) IndexCompetitorContent(ctx context.Context, competitor string, pages []CompetitorPage) error {
	return nil
}

func (s *stubContentIndex) KeywordPresent(ctx context.Context, competitor, keyword string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.present[keyword], nil
}

func TestAnalyzeCompetitorsPrefersContentIndex(t *testing.T) {
	// Headings say no, the index says yes; the index wins
	probe := &stubProbe{signals: map[string]*models.ContentSignals{}}
	index := &stubContentIndex{present: map[string]bool{"invoicing": true}}
	svc := NewSignalAnalyzerService(probe, index)

	results := []models.WinLossResult{
		{Query: models.GeneratedQuery{Text: "CRM with invoicing"}, Overall: models.ResultLoss, WinningBrand: strPtr("Beta")},
	}

	teardowns := svc.AnalyzeCompetitors(context.Background(), minimalConfig(), results)
	if !teardowns[0].KeywordPresence["invoicing"] {
		t.Error("expected index-backed keyword lookup to report presence")
	}
	if teardowns[0].KeywordPresence["crm"] {
		t.Error("expected crm absent per the index")
	}
}

func TestAnalyzeCompetitorsIndexFailureFallsBackToHeadings(t *testing.T) {
	probe := &stubProbe{signals: map[string]*models.ContentSignals{
		"https://beta.example.com": {Headings: []string{"Invoicing built in"}},
	}}
	index := &stubContentIndex{err: fmt.Errorf("search unavailable")}

	cfg := minimalConfig()
	cfg.Competitors[0].WebsiteURL = "https://beta.example.com"
	svc := NewSignalAnalyzerService(probe, index)

	results := []models.WinLossResult{
		{Query: models.GeneratedQuery{Text: "CRM with invoicing"}, Overall: models.ResultLoss, WinningBrand: strPtr("Beta")},
	}

	teardowns := svc.AnalyzeCompetitors(context.Background(), cfg, results)
	if !teardowns[0].KeywordPresence["invoicing"] {
		t.Error("expected heading fallback when the index errors")
	}
}
