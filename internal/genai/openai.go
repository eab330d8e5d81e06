package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// openaiGenerator calls an OpenAI-compatible chat completions endpoint.
// It implements the Generator interface.
type openaiGenerator struct {
	client   openai.Client
	provider Provider
}

// NewOpenAIGenerator creates a generator for an OpenAI-compatible provider.
// Returns nil if apiKey is empty (provider disabled). baseURL overrides the
// provider's default endpoint when non-empty.
func NewOpenAIGenerator(provider Provider, apiKey, baseURL string) (Generator, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled when no API key
	}

	if baseURL == "" {
		endpoint, ok := ProviderEndpoint[provider]
		if !ok {
			return nil, fmt.Errorf("unsupported OpenAI-compatible provider: %s", provider)
		}
		baseURL = endpoint
	}

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	)

	return &openaiGenerator{
		client:   client,
		provider: provider,
	}, nil
}

// Generate sends prompt as a single user message.
func (g *openaiGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(Temperature),
		TopP:        openai.Float(TopP),
		MaxTokens:   openai.Int(MaxOutputTokens),
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", WrapError(fmt.Errorf("chat completion failed: %w", err), g.provider, model, openaiStatus(err))
	}

	if len(resp.Choices) == 0 {
		return "", WrapError(ErrEmptyResponse, g.provider, model, 0)
	}
	result := strings.TrimSpace(resp.Choices[0].Message.Content)
	if result == "" {
		return "", WrapError(ErrEmptyResponse, g.provider, model, 0)
	}

	if resp.Usage.TotalTokens > 0 {
		slog.DebugContext(ctx, "generation completed",
			"provider", g.provider,
			"model", model,
			"input_tokens", resp.Usage.PromptTokens,
			"output_tokens", resp.Usage.CompletionTokens)
	}
	return result, nil
}

// openaiStatus extracts the HTTP status from an SDK error, 0 if unknown.
func openaiStatus(err error) int {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// Provider returns the provider type for this generator.
func (g *openaiGenerator) Provider() Provider {
	if g == nil {
		return ""
	}
	return g.provider
}

// Close releases resources.
// Safe to call on nil receiver.
func (g *openaiGenerator) Close() error {
	return nil
}
