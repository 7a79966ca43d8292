package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/MrSirThe1st/blob-app-sub001/config"

	openai "github.com/sashabaranov/go-openai"
)

// ErrNoStructuredOutput signals that the reasoning service returned nothing
// usable: no choices, empty content, or content that is not well-formed JSON.
// Callers treat it the same as any other service failure.
var ErrNoStructuredOutput = errors.New("reasoning service returned no structured output")

// StructuredSchema describes the strict output shape the reasoning service
// must emit. Schema is a JSON Schema document.
type StructuredSchema struct {
	Name   string
	Schema json.RawMessage
}

// ReasoningClient is the boundary to the external reasoning service. The core
// sends a system instruction, a user-context prompt and a strict output-schema
// descriptor, and expects back either a schema-valid payload or an explicit
// absence signal (ErrNoStructuredOutput).
type ReasoningClient interface {
	ProposeStructured(ctx context.Context, systemPrompt string, userPrompt string, schema StructuredSchema) (json.RawMessage, error)
}

type openaiReasoningClient struct {
	model string
}

// NewReasoningClient creates a ReasoningClient backed by the configured LLM
// provider for AppConfig.ReasoningModel.
func NewReasoningClient() ReasoningClient {
	return &openaiReasoningClient{model: config.AppConfig.ReasoningModel}
}

func (c *openaiReasoningClient) ProposeStructured(ctx context.Context, systemPrompt string, userPrompt string, schema StructuredSchema) (json.RawMessage, error) {
	providerKey, modelExists := config.AppConfig.LLMModels[c.model]
	if !modelExists {
		errMsg := fmt.Sprintf("provider for reasoning model '%s' not found in llm_models", c.model)
		log.Printf("ERROR: [ReasoningClient] %s", errMsg)
		return nil, errors.New(errMsg)
	}
	providerConfig, providerExists := config.AppConfig.LLMProviders[providerKey]
	if !providerExists {
		errMsg := fmt.Sprintf("provider configuration for key '%s' (model '%s') not found in llm_providers", providerKey, c.model)
		log.Printf("ERROR: [ReasoningClient] %s", errMsg)
		return nil, errors.New(errMsg)
	}
	if providerConfig.APIKey == "" || providerConfig.BaseURL == "" {
		errMsg := fmt.Sprintf("API key or BaseURL for reasoning provider '%s' is not configured", providerKey)
		log.Printf("ERROR: [ReasoningClient] %s", errMsg)
		return nil, errors.New(errMsg)
	}

	openaiConfig := openai.DefaultConfig(providerConfig.APIKey)
	openaiConfig.BaseURL = providerConfig.BaseURL
	client := openai.NewClientWithConfig(openaiConfig)

	completion, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: 0.2,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schema.Name,
				Schema: schema.Schema,
				Strict: true,
			},
		},
	})
	if err != nil {
		log.Printf("ERROR: [ReasoningClient] Structured completion failed for model %s (schema '%s'): %v", c.model, schema.Name, err)
		return nil, fmt.Errorf("reasoning call failed for model %s: %w", c.model, err)
	}

	if len(completion.Choices) == 0 {
		log.Printf("WARN: [ReasoningClient] Model %s returned no choices for schema '%s'.", c.model, schema.Name)
		return nil, ErrNoStructuredOutput
	}
	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if content == "" || !json.Valid([]byte(content)) {
		log.Printf("WARN: [ReasoningClient] Model %s returned non-JSON content for schema '%s': %.100s", c.model, schema.Name, content)
		return nil, ErrNoStructuredOutput
	}
	return json.RawMessage(content), nil
}
