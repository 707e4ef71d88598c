// internal/providers/factory.go
package providers

import (
	"fmt"
	"strings"

	"github.com/AI-Template-SDK/senso-competitive/internal/config"
	"github.com/AI-Template-SDK/senso-competitive/internal/providers/chatgpt"
	"github.com/AI-Template-SDK/senso-competitive/internal/providers/claude"
	"github.com/AI-Template-SDK/senso-competitive/internal/providers/gemini"
	"github.com/AI-Template-SDK/senso-competitive/internal/providers/perplexity"
	"github.com/AI-Template-SDK/senso-competitive/services"
)

const (
	defaultOpenAIModel    = "gpt-4.1"
	defaultAnthropicModel = "claude-sonnet-4-20250514"
)

// Factory resolves model names to providers, reusing instances per model
type Factory struct {
	cfg         *config.Config
	costService services.CostService
	providers   map[string]services.AIProvider
}

// NewFactory creates a provider factory for the configured credentials
func NewFactory(cfg *config.Config, costService services.CostService) *Factory {
	return &Factory{
		cfg:         cfg,
		costService: costService,
		providers:   make(map[string]services.AIProvider),
	}
}

// GetProvider creates the appropriate AI provider based on the model name
func (f *Factory) GetProvider(modelName string) (services.AIProvider, error) {
	modelLower := strings.ToLower(modelName)

	if provider, ok := f.providers[modelLower]; ok {
		return provider, nil
	}

	provider, err := f.newProvider(modelName, modelLower)
	if err != nil {
		return nil, err
	}
	f.providers[modelLower] = provider
	return provider, nil
}

func (f *Factory) newProvider(modelName, modelLower string) (services.AIProvider, error) {
	// ChatGPT via the OpenAI API
	if strings.Contains(modelLower, "chatgpt") || strings.Contains(modelLower, "gpt") {
		if f.cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is empty in config")
		}
		fmt.Printf("[ProviderFactory] 🎯 Selected ChatGPT provider for model: %s\n", modelName)
		return chatgpt.NewProvider(f.cfg, defaultOpenAIModel, f.costService), nil
	}

	// Perplexity via BrightData
	if strings.Contains(modelLower, "perplexity") || strings.Contains(modelLower, "sonar") {
		fmt.Printf("[ProviderFactory] 🎯 Selected Perplexity provider for model: %s\n", modelName)
		return perplexity.NewProvider(f.cfg, f.costService), nil
	}

	// Gemini via BrightData
	if strings.Contains(modelLower, "gemini") {
		fmt.Printf("[ProviderFactory] 🎯 Selected Gemini provider for model: %s\n", modelName)
		return gemini.NewProvider(f.cfg, f.costService), nil
	}

	// Claude via the Anthropic API
	if strings.Contains(modelLower, "claude") || strings.Contains(modelLower, "sonnet") ||
		strings.Contains(modelLower, "opus") || strings.Contains(modelLower, "haiku") {
		if f.cfg.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("Anthropic API key is empty in config")
		}
		fmt.Printf("[ProviderFactory] 🎯 Selected Claude provider for model: %s\n", modelName)
		return claude.NewProvider(f.cfg, defaultAnthropicModel, f.costService), nil
	}

	return nil, fmt.Errorf("unsupported model: %s", modelName)
}
