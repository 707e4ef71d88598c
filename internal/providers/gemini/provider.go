// internal/providers/gemini/provider.go
package gemini

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AI-Template-SDK/senso-competitive/internal/config"
	"github.com/AI-Template-SDK/senso-competitive/internal/providers/common"
	"github.com/AI-Template-SDK/senso-competitive/services"
)

// Provider answers buyer queries through the BrightData Gemini dataset
type Provider struct {
	client      *common.BrightDataClient
	datasetID   string
	costService services.CostService
}

// Request is the payload structure for Gemini jobs via BrightData
type Request []Input

// Input represents a single query
type Input struct {
	URL     string `json:"url"`
	Prompt  string `json:"prompt"`
	Country string `json:"country"`
	Index   int    `json:"index"`
}

// Result is the scraped answer for a single query
type Result struct {
	URL                string      `json:"url"`
	Prompt             string      `json:"prompt"`
	AnswerTextMarkdown string      `json:"answer_text_markdown"`
	Citations          interface{} `json:"citations"`
	Index              int         `json:"index"`
	Error              string      `json:"error,omitempty"`
}

// NewProvider creates a Gemini provider
func NewProvider(cfg *config.Config, costService services.CostService) *Provider {
	fmt.Printf("[NewGeminiProvider] Creating provider\n")
	fmt.Printf("[NewGeminiProvider]   - API Key: %s\n", common.MaskAPIKey(cfg.BrightData.APIKey))
	fmt.Printf("[NewGeminiProvider]   - Dataset ID: %s\n", cfg.BrightData.GeminiDatasetID)

	if cfg.BrightData.GeminiDatasetID == "" {
		fmt.Printf("[NewGeminiProvider] ⚠️ WARNING: GEMINI_DATASET_ID is empty!\n")
	}

	return &Provider{
		client:      common.NewBrightDataClient(cfg.BrightData.APIKey),
		datasetID:   cfg.BrightData.GeminiDatasetID,
		costService: costService,
	}
}

// NewProviderWithClient wires a custom BrightData client, used by tests
func NewProviderWithClient(client *common.BrightDataClient, datasetID string, costService services.CostService) *Provider {
	return &Provider{client: client, datasetID: datasetID, costService: costService}
}

func (p *Provider) GetProviderName() string {
	return "gemini"
}

func (p *Provider) RunQuestion(ctx context.Context, prompt string) (*services.AIResponse, error) {
	payload := Request{
		{
			URL:     "https://gemini.google.com",
			Prompt:  prompt,
			Country: "US",
			Index:   1,
		},
	}

	snapshotID, err := p.client.SubmitJob(ctx, payload, p.datasetID)
	if err != nil {
		return nil, fmt.Errorf("failed to submit BrightData job: %w", err)
	}
	fmt.Printf("[GeminiProvider] 📋 Job submitted with snapshot ID: %s\n", snapshotID)

	if err := p.client.PollUntilComplete(ctx, snapshotID, "GeminiProvider"); err != nil {
		return nil, fmt.Errorf("failed to poll BrightData job: %w", err)
	}

	bodyBytes, err := p.client.GetResults(ctx, snapshotID, "GeminiProvider")
	if err != nil {
		return nil, fmt.Errorf("failed to get results: %w", err)
	}

	var results []Result
	if err := json.Unmarshal(bodyBytes, &results); err != nil {
		return nil, fmt.Errorf("failed to decode results: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("no results returned from BrightData")
	}
	result := results[0]
	if result.Error != "" {
		return nil, fmt.Errorf("BrightData job returned error: %s", result.Error)
	}
	if result.AnswerTextMarkdown == "" {
		return nil, fmt.Errorf("empty answer in BrightData result")
	}

	inputTokens := common.EstimateTokens(prompt)
	outputTokens := common.EstimateTokens(result.AnswerTextMarkdown)

	return &services.AIResponse{
		Response:     result.AnswerTextMarkdown,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		Cost:         p.costService.CalculateCost(p.GetProviderName(), "gemini-2.5-flash", inputTokens, outputTokens, true),
	}, nil
}
