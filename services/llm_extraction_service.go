// services/llm_extraction_service.go
package services

import (
	"context"
	"fmt"

	"github.com/AI-Template-SDK/senso-competitive/internal/config"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// llmExtractionService implements the LLMExtractor port on top of OpenAI
// structured outputs. The parser still treats its output as untrusted text:
// it re-validates the JSON array before mapping anything onto the enums.
type llmExtractionService struct {
	client      *openai.Client
	model       string
	costService CostService
}

func NewLLMExtractionService(cfg *config.Config, costService CostService) LLMExtractor {
	fmt.Printf("[NewLLMExtractionService] Creating extraction service with OpenAI key (length: %d)\n", len(cfg.OpenAIAPIKey))

	client := openai.NewClient(
		option.WithAPIKey(cfg.OpenAIAPIKey),
	)

	return &llmExtractionService{
		client:      &client,
		model:       cfg.ExtractionModel,
		costService: costService,
	}
}

func (s *llmExtractionService) Extract(ctx context.Context, prompt string) (string, error) {
	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "brand_mention_extraction",
		Description: openai.String("Extract per-brand mention position, sentiment and context from an AI answer"),
		Schema:      GenerateSchema[MentionExtractionResponse](),
		Strict:      openai.Bool(true),
	}

	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You are an expert text analysis specialist. Report how each listed brand appears in the answer, covering every brand exactly once."),
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(s.model),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: schemaParam},
		},
		Temperature: openai.Float(0.1), // keep extraction consistent
	}

	chatResponse, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to extract brand mentions: %w", err)
	}

	if len(chatResponse.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned from OpenAI")
	}

	if s.costService != nil {
		cost := s.costService.CalculateCost("openai", s.model,
			int(chatResponse.Usage.PromptTokens), int(chatResponse.Usage.CompletionTokens), false)
		fmt.Printf("[Extract] ✅ Extraction call completed (input: %d, output: %d, cost: $%.6f)\n",
			chatResponse.Usage.PromptTokens, chatResponse.Usage.CompletionTokens, cost)
	}

	return chatResponse.Choices[0].Message.Content, nil
}
