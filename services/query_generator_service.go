// services/query_generator_service.go
package services

import (
	"fmt"
	"strings"

	"github.com/AI-Template-SDK/senso-competitive/internal/models"
	"github.com/google/uuid"
)

type queryGeneratorService struct{}

func NewQueryGeneratorService() QueryGeneratorService {
	return &queryGeneratorService{}
}

// validationSuffixes drive the "Is {brand} X" trust queries
var validationSuffixes = []string{"legit", "safe", "reliable", "trustworthy", "good", "worth it"}

// featurePhrases drive the "{category} with X" queries
var featurePhrases = []string{"lowest fees", "cheapest", "fastest", "easiest to use", "most secure"}

// Generate produces the four query families in a fixed order. Content is
// fully determined by the config; only ids are random. Empty optional fields
// simply suppress the queries that depend on them.
func (s *queryGeneratorService) Generate(cfg *models.BrandConfig) []models.GeneratedQuery {
	var queries []models.GeneratedQuery
	queries = append(queries, s.recommendationQueries(cfg)...)
	queries = append(queries, s.comparisonQueries(cfg)...)
	queries = append(queries, s.validationQueries(cfg)...)
	queries = append(queries, s.featureQueries(cfg)...)
	return queries
}

func (s *queryGeneratorService) recommendationQueries(cfg *models.BrandConfig) []models.GeneratedQuery {
	var queries []models.GeneratedQuery
	add := func(text, intent string, competitors ...string) {
		queries = append(queries, newQuery(text, models.CategoryRecommendation, intent, competitors))
	}

	add(fmt.Sprintf("Best %s", cfg.Category), "general-recommendation")

	if cfg.TargetCustomer != "" {
		add(fmt.Sprintf("Best %s for %s", cfg.Category, cfg.TargetCustomer), "audience-recommendation")
	}

	if cfg.PrimaryUseCase != "" {
		add(fmt.Sprintf("Best %s for %s", cfg.Category, cfg.PrimaryUseCase), "use-case-recommendation")
		add(fmt.Sprintf("Best way to %s", cfg.PrimaryUseCase), "use-case-recommendation")
	}

	for _, geo := range cfg.Geography {
		add(fmt.Sprintf("Best %s in %s", cfg.Category, geo), "geo-recommendation")
		if cfg.PrimaryUseCase != "" {
			add(fmt.Sprintf("Best %s for %s in %s", cfg.Category, cfg.PrimaryUseCase, geo), "geo-recommendation")
		}
	}

	for _, sub := range cfg.Subcategories {
		add(fmt.Sprintf("Best %s", sub), "subcategory-recommendation")
		if cfg.TargetCustomer != "" {
			add(fmt.Sprintf("Best %s for %s", sub, cfg.TargetCustomer), "subcategory-recommendation")
		}
	}

	for _, comp := range cfg.PrimaryCompetitors() {
		add(fmt.Sprintf("Best alternative to %s", comp.Name), "alternative-seeking", comp.Name)
		add(fmt.Sprintf("%s alternatives", comp.Name), "alternative-seeking", comp.Name)
	}

	return queries
}

func (s *queryGeneratorService) comparisonQueries(cfg *models.BrandConfig) []models.GeneratedQuery {
	var queries []models.GeneratedQuery
	add := func(text, intent string, competitors ...string) {
		queries = append(queries, newQuery(text, models.CategoryComparison, intent, competitors))
	}

	for _, comp := range cfg.Competitors {
		add(fmt.Sprintf("%s vs %s", cfg.BrandName, comp.Name), "direct-comparison", comp.Name)
		add(fmt.Sprintf("%s vs %s", comp.Name, cfg.BrandName), "direct-comparison", comp.Name)
		add(fmt.Sprintf("%s or %s", cfg.BrandName, comp.Name), "either-or", comp.Name)
	}

	// Multi-way and landscape queries use the first two primary competitors
	// in configured order
	primaries := cfg.PrimaryCompetitors()
	if len(primaries) >= 2 {
		c1, c2 := primaries[0].Name, primaries[1].Name
		add(fmt.Sprintf("%s vs %s vs %s", cfg.BrandName, c1, c2), "multi-comparison", c1, c2)
		add(fmt.Sprintf("%s vs %s", c1, c2), "landscape-comparison", c1, c2)
	}

	return queries
}

func (s *queryGeneratorService) validationQueries(cfg *models.BrandConfig) []models.GeneratedQuery {
	var queries []models.GeneratedQuery
	add := func(text, intent string) {
		queries = append(queries, newQuery(text, models.CategoryValidation, intent, nil))
	}

	for _, suffix := range validationSuffixes {
		add(fmt.Sprintf("Is %s %s", cfg.BrandName, suffix), "trust-check")
	}
	add(fmt.Sprintf("%s reviews", cfg.BrandName), "review-seeking")
	add(fmt.Sprintf("%s review", cfg.BrandName), "review-seeking")
	add(fmt.Sprintf("%s complaints", cfg.BrandName), "negative-research")
	add(fmt.Sprintf("%s problems", cfg.BrandName), "negative-research")
	add(fmt.Sprintf("What is %s", cfg.BrandName), "brand-discovery")

	return queries
}

func (s *queryGeneratorService) featureQueries(cfg *models.BrandConfig) []models.GeneratedQuery {
	var queries []models.GeneratedQuery
	add := func(text, intent string) {
		queries = append(queries, newQuery(text, models.CategoryFeature, intent, nil))
	}

	for _, feature := range featurePhrases {
		add(fmt.Sprintf("%s with %s", cfg.Category, feature), "feature-search")
	}
	if cfg.PrimaryUseCase != "" {
		add(cfg.PrimaryUseCase, "use-case-search")
		add(fmt.Sprintf("How to %s", cfg.PrimaryUseCase), "how-to")
	}
	if cfg.TargetCustomer != "" {
		add(fmt.Sprintf("%s for %s", cfg.Category, cfg.TargetCustomer), "audience-search")
	}

	return queries
}

// Deduplicate keeps the first occurrence per case-insensitive trimmed text
func (s *queryGeneratorService) Deduplicate(queries []models.GeneratedQuery) []models.GeneratedQuery {
	seen := make(map[string]bool, len(queries))
	out := make([]models.GeneratedQuery, 0, len(queries))
	for _, q := range queries {
		key := strings.ToLower(strings.TrimSpace(q.Text))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, q)
	}
	return out
}

// LimitPerCategory truncates each category's list to its first n entries,
// preserving overall order
func (s *queryGeneratorService) LimitPerCategory(queries []models.GeneratedQuery, n int) []models.GeneratedQuery {
	if n <= 0 {
		return queries
	}
	counts := make(map[models.QueryCategory]int)
	out := make([]models.GeneratedQuery, 0, len(queries))
	for _, q := range queries {
		if counts[q.Category] >= n {
			continue
		}
		counts[q.Category]++
		out = append(out, q)
	}
	return out
}

func newQuery(text string, category models.QueryCategory, intent string, competitors []string) models.GeneratedQuery {
	return models.GeneratedQuery{
		ID:                   uuid.New(),
		Text:                 text,
		Category:             category,
		Intent:               intent,
		CompetitorsMentioned: competitors,
	}
}
