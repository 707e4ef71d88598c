// internal/providers/claude/provider.go
package claude

import (
	"context"
	"fmt"
	"strings"

	"github.com/AI-Template-SDK/senso-competitive/internal/config"
	"github.com/AI-Template-SDK/senso-competitive/services"
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Provider answers buyer queries through the Anthropic messages API
type Provider struct {
	client      *anthropic.Client
	model       string
	costService services.CostService
}

// NewProvider creates a Claude provider backed by the given Anthropic model
func NewProvider(cfg *config.Config, model string, costService services.CostService) *Provider {
	fmt.Printf("[NewClaudeProvider] Creating provider (model: %s, key length: %d)\n", model, len(cfg.AnthropicAPIKey))

	client := anthropic.NewClient(
		option.WithAPIKey(cfg.AnthropicAPIKey),
	)

	return &Provider{
		client:      &client,
		model:       model,
		costService: costService,
	}
}

func (p *Provider) GetProviderName() string {
	return "claude"
}

func (p *Provider) RunQuestion(ctx context.Context, prompt string) (*services.AIResponse, error) {
	messages := []anthropic.MessageParam{{
		Content: []anthropic.ContentBlockParamUnion{{
			OfText: &anthropic.TextBlockParam{Text: prompt},
		}},
		Role: anthropic.MessageParamRoleUser,
	}}

	response, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   2000,
		Messages:    messages,
		Temperature: anthropic.Float(0.7),
	})
	if err != nil {
		return nil, fmt.Errorf("message request failed: %w", err)
	}

	fullResponse := extractResponseText(*response)
	if fullResponse == "" {
		return nil, fmt.Errorf("empty response from Anthropic")
	}

	inputTokens := int(response.Usage.InputTokens)
	outputTokens := int(response.Usage.OutputTokens)

	return &services.AIResponse{
		Response:     fullResponse,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		Cost:         p.costService.CalculateCost(p.GetProviderName(), p.model, inputTokens, outputTokens, false),
	}, nil
}

func extractResponseText(response anthropic.Message) string {
	var parts []string
	for _, block := range response.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	return strings.Join(parts, "\n")
}
