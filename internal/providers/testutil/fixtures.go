package testutil

import (
	"github.com/AI-Template-SDK/senso-competitive/internal/config"
	"github.com/AI-Template-SDK/senso-competitive/internal/models"
	"github.com/google/uuid"
)

// SampleConfig returns a test configuration
func SampleConfig() *config.Config {
	return &config.Config{
		OpenAIAPIKey:    "test-openai-key",
		AnthropicAPIKey: "test-anthropic-key",
		ExtractionModel: "gpt-4.1-mini",
		BrightData: config.BrightDataConfig{
			APIKey:              "test-api-key",
			PerplexityDatasetID: "test-perplexity-id",
			GeminiDatasetID:     "test-gemini-id",
		},
	}
}

// SampleBrandConfig returns a CRM brand with one primary competitor
func SampleBrandConfig() *models.BrandConfig {
	return &models.BrandConfig{
		BrandID:    uuid.New(),
		BrandName:  "Acme",
		WebsiteURL: "https://acme.example.com",
		Category:   "CRM",
		Competitors: []models.Competitor{
			{ID: uuid.New(), Name: "Beta", WebsiteURL: "https://beta.example.com", IsPrimary: true},
		},
	}
}

// SamplePerplexityResponse returns a mock BrightData snapshot payload
func SamplePerplexityResponse() string {
	return `[
		{
			"url": "https://www.perplexity.ai",
			"prompt": "Best CRM",
			"answer_text_markdown": "For most teams the best CRM is Acme. Beta is a solid alternative.",
			"citations": ["https://example.com/crm-guide"],
			"index": 1
		}
	]`
}

// SampleErrorResponse returns a mock error result from BrightData
func SampleErrorResponse() string {
	return `[
		{
			"error": "Request timeout",
			"url": "https://www.perplexity.ai",
			"prompt": "Best CRM",
			"index": 1
		}
	]`
}

// SampleStatusResponse returns a mock status response (building)
func SampleStatusResponse() string {
	return `{
		"status": "building",
		"message": "Snapshot is still being built"
	}`
}
