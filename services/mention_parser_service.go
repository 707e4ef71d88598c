// services/mention_parser_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/AI-Template-SDK/senso-competitive/internal/models"
)

type mentionParserService struct {
	extractor LLMExtractor
}

// NewMentionParserService creates a parser backed by the given ParseWithLLM
// port. A nil extractor forces the deterministic fallback path.
func NewMentionParserService(extractor LLMExtractor) MentionParserService {
	return &mentionParserService{extractor: extractor}
}

// mentionExtract mirrors the JSON entries the extraction LLM is asked for
type mentionExtract struct {
	Brand       string  `json:"brand" jsonschema_description:"Brand name exactly as provided in the brand list"`
	Position    string  `json:"position" jsonschema:"enum=primary,enum=secondary,enum=tertiary,enum=mentioned,enum=none" jsonschema_description:"Prominence of the brand in the answer"`
	Sentiment   string  `json:"sentiment" jsonschema:"enum=positive,enum=neutral,enum=negative" jsonschema_description:"Sentiment toward the brand"`
	Context     string  `json:"context" jsonschema_description:"Short snippet where the brand appears, empty if absent"`
	CitationURL *string `json:"citation_url,omitempty" jsonschema_description:"URL cited alongside the mention, null if none"`
}

// MentionExtractionResponse is the structured-output wrapper for the
// extraction call
type MentionExtractionResponse struct {
	Mentions []mentionExtract `json:"mentions" jsonschema_description:"One entry per listed brand, including absent brands with position none"`
}

// Parse extracts one BrandMention per brand from the raw answer. The LLM path
// is tried first; any failure there (call error, no JSON array, malformed
// entries) drops to the local fallback, so Parse itself never fails.
func (s *mentionParserService) Parse(ctx context.Context, rawResponse string, brands []string) *ParseResult {
	if s.extractor != nil {
		mentions, err := s.parseWithLLM(ctx, rawResponse, brands)
		if err == nil {
			return &ParseResult{Mentions: mentions, Source: models.ParseSourceLLM}
		}
		fmt.Printf("[Parse] ⚠️ LLM extraction failed, using fallback: %v\n", err)
	}

	return &ParseResult{
		Mentions: s.parseFallback(rawResponse, brands),
		Source:   models.ParseSourceFallback,
	}
}

func (s *mentionParserService) parseWithLLM(ctx context.Context, rawResponse string, brands []string) ([]models.BrandMention, error) {
	prompt := buildExtractionPrompt(rawResponse, brands)

	raw, err := s.extractor.Extract(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("extraction call failed: %w", err)
	}

	arrayText, err := extractJSONArray(raw)
	if err != nil {
		return nil, fmt.Errorf("no JSON array in extraction output: %w", err)
	}

	var entries []mentionExtract
	if err := json.Unmarshal([]byte(arrayText), &entries); err != nil {
		return nil, fmt.Errorf("failed to decode extraction array: %w", err)
	}

	// Strict mapping onto the enums: unknown positions are rejected rather
	// than trusted, unmapped sentiment defaults to neutral.
	byBrand := make(map[string]models.BrandMention, len(entries))
	for _, entry := range entries {
		position, ok := models.ParseMentionPosition(entry.Position)
		if !ok && strings.TrimSpace(entry.Position) != "" {
			return nil, fmt.Errorf("invalid position %q for brand %q", entry.Position, entry.Brand)
		}
		key := normalizeBrand(entry.Brand)
		if key == "" {
			continue
		}
		if _, exists := byBrand[key]; exists {
			continue // keep the first entry per brand
		}
		byBrand[key] = models.BrandMention{
			Brand:       entry.Brand,
			Position:    position,
			Sentiment:   models.ParseSentiment(entry.Sentiment),
			Context:     entry.Context,
			CitationURL: entry.CitationURL,
		}
	}

	// Every listed brand gets exactly one mention, absent brands included.
	// Entries for brands outside the list are dropped.
	mentions := make([]models.BrandMention, 0, len(brands))
	for _, brand := range brands {
		if m, ok := byBrand[normalizeBrand(brand)]; ok {
			m.Brand = brand
			mentions = append(mentions, m)
			continue
		}
		mentions = append(mentions, models.BrandMention{
			Brand:     brand,
			Position:  models.PositionNone,
			Sentiment: models.SentimentNeutral,
		})
	}

	return mentions, nil
}

// parseFallback ranks brands by their first case-insensitive occurrence in
// the response: rank 0 is primary, 1 secondary, 2 tertiary, everything after
// that is merely mentioned. Sentiment is always neutral here.
func (s *mentionParserService) parseFallback(rawResponse string, brands []string) []models.BrandMention {
	lower := strings.ToLower(rawResponse)

	type match struct {
		brand string
		index int
	}
	var matched []match
	unmatchedMention := make(map[string]models.BrandMention)

	for _, brand := range brands {
		idx := strings.Index(lower, strings.ToLower(brand))
		if idx < 0 {
			unmatchedMention[brand] = models.BrandMention{
				Brand:     brand,
				Position:  models.PositionNone,
				Sentiment: models.SentimentNeutral,
			}
			continue
		}
		matched = append(matched, match{brand: brand, index: idx})
	}

	// Stable sort keeps brand-list order for brands first seen at the same
	// offset
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].index < matched[j].index
	})

	rankPosition := []models.MentionPosition{
		models.PositionPrimary,
		models.PositionSecondary,
		models.PositionTertiary,
	}

	positionByBrand := make(map[string]models.BrandMention, len(matched))
	for rank, m := range matched {
		position := models.PositionMentioned
		if rank < len(rankPosition) {
			position = rankPosition[rank]
		}
		positionByBrand[m.brand] = models.BrandMention{
			Brand:     m.brand,
			Position:  position,
			Sentiment: models.SentimentNeutral,
			Context:   firstSentenceContaining(rawResponse, m.brand),
		}
	}

	// Output preserves brand-list order
	mentions := make([]models.BrandMention, 0, len(brands))
	for _, brand := range brands {
		if m, ok := positionByBrand[brand]; ok {
			mentions = append(mentions, m)
		} else {
			mentions = append(mentions, unmatchedMention[brand])
		}
	}
	return mentions
}

func buildExtractionPrompt(rawResponse string, brands []string) string {
	brandList := strings.Join(brands, ", ")

	return fmt.Sprintf(`You are an expert text analysis specialist. Analyze the AI assistant answer below and report how each of the listed brands appears in it.

**BRANDS TO ANALYZE:** %s

**RULES:**
1. Return a JSON array with EXACTLY one object per listed brand, even when the brand does not appear (use position "none").
2. Each object has the fields: brand, position, sentiment, context, citation_url.
3. position is one of: "primary" (the clear top recommendation), "secondary" (strong alternative), "tertiary" (third-tier option), "mentioned" (appears without endorsement), "none" (absent).
4. sentiment is one of: "positive", "neutral", "negative".
5. context is the exact sentence or fragment where the brand appears, empty string when absent.
6. citation_url is the URL cited alongside the mention, or null.
7. Do not invent brands that are not in the list. Do not skip brands that are.

**ANSWER TO ANALYZE:**
`+"```"+`
%s
`+"```"+`

Return only the JSON array.`, brandList, rawResponse)
}

// extractJSONArray returns the first syntactically balanced JSON array
// literal in text, tolerating surrounding prose and markdown fences
func extractJSONArray(text string) (string, error) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i, r := range text {
		if start < 0 {
			if r == '[' {
				start = i
				depth = 1
			}
			continue
		}

		if escaped {
			escaped = false
			continue
		}
		switch r {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '[':
			if !inString {
				depth++
			}
		case ']':
			if !inString {
				depth--
				if depth == 0 {
					return text[start : i+1], nil
				}
			}
		}
	}

	return "", fmt.Errorf("no balanced JSON array found")
}

// firstSentenceContaining returns the first sentence (split on . ! ?) that
// contains the brand, truncated to 200 characters
func firstSentenceContaining(text, brand string) string {
	brandLower := strings.ToLower(brand)
	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	for _, sentence := range sentences {
		if strings.Contains(strings.ToLower(sentence), brandLower) {
			trimmed := strings.TrimSpace(sentence)
			if len(trimmed) > 200 {
				trimmed = trimmed[:200]
			}
			return trimmed
		}
	}
	return ""
}

func normalizeBrand(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
