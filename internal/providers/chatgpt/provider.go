// internal/providers/chatgpt/provider.go
package chatgpt

import (
	"context"
	"fmt"

	"github.com/AI-Template-SDK/senso-competitive/internal/config"
	"github.com/AI-Template-SDK/senso-competitive/services"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Provider answers buyer queries through the OpenAI chat completions API
type Provider struct {
	client      *openai.Client
	model       string
	costService services.CostService
}

// NewProvider creates a ChatGPT provider backed by the given OpenAI model
func NewProvider(cfg *config.Config, model string, costService services.CostService) *Provider {
	fmt.Printf("[NewChatGPTProvider] Creating provider (model: %s, key length: %d)\n", model, len(cfg.OpenAIAPIKey))

	client := openai.NewClient(
		option.WithAPIKey(cfg.OpenAIAPIKey),
	)

	return &Provider{
		client:      &client,
		model:       model,
		costService: costService,
	}
}

func (p *Provider) GetProviderName() string {
	return "chatgpt"
}

// RunQuestion asks the model the query as a plain consumer question and
// returns the free-text answer
func (p *Provider) RunQuestion(ctx context.Context, prompt string) (*services.AIResponse, error) {
	response, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You are a helpful assistant that gives honest, specific product recommendations with real brand names."),
			openai.UserMessage(prompt),
		},
		Model:       openai.ChatModel(p.model),
		Temperature: openai.Float(0.7),
		MaxTokens:   openai.Int(2000),
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(response.Choices) == 0 {
		return nil, fmt.Errorf("no response choices returned from OpenAI")
	}

	inputTokens := int(response.Usage.PromptTokens)
	outputTokens := int(response.Usage.CompletionTokens)

	return &services.AIResponse{
		Response:     response.Choices[0].Message.Content,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		Cost:         p.costService.CalculateCost(p.GetProviderName(), p.model, inputTokens, outputTokens, false),
	}, nil
}

// CreateEmbedding embeds text chunks for the content index
func (p *Provider) CreateEmbedding(ctx context.Context, inputs []string, model string) ([][]float32, error) {
	response, err := p.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: inputs},
		Model: openai.EmbeddingModel(model),
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}

	vectors := make([][]float32, len(response.Data))
	for i, item := range response.Data {
		vector := make([]float32, len(item.Embedding))
		for j, v := range item.Embedding {
			vector[j] = float32(v)
		}
		vectors[i] = vector
	}
	return vectors, nil
}
