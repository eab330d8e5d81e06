package genai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"
)

// safetyCategories are blocked at medium probability and above.
var safetyCategories = []genai.HarmCategory{
	genai.HarmCategoryHarassment,
	genai.HarmCategoryHateSpeech,
	genai.HarmCategorySexuallyExplicit,
	genai.HarmCategoryDangerousContent,
}

// geminiGenerator calls the Gemini API.
// It implements the Generator interface.
type geminiGenerator struct {
	client *genai.Client
	config *genai.GenerateContentConfig
}

// NewGeminiGenerator creates a Gemini generator.
// Returns nil if apiKey is empty (provider disabled).
func NewGeminiGenerator(ctx context.Context, apiKey string) (Generator, error) {
	if apiKey == "" {
		return nil, nil //nolint:nilnil // Intentional: provider disabled when no API key
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &geminiGenerator{
		client: client,
		config: geminiConfig(),
	}, nil
}

func geminiConfig() *genai.GenerateContentConfig {
	safety := make([]*genai.SafetySetting, 0, len(safetyCategories))
	for _, c := range safetyCategories {
		safety = append(safety, &genai.SafetySetting{
			Category:  c,
			Threshold: genai.HarmBlockThresholdBlockMediumAndAbove,
		})
	}
	return &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](Temperature),
		TopP:            genai.Ptr[float32](TopP),
		TopK:            genai.Ptr[float32](TopK),
		MaxOutputTokens: MaxOutputTokens,
		SafetySettings:  safety,
	}
}

// Generate sends prompt to model and returns the first candidate's text.
func (g *geminiGenerator) Generate(ctx context.Context, model, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), g.config)
	if err != nil {
		// SDK errors carry the status in the message ("Error 429, ..."),
		// which ClassifyError matches.
		return "", WrapError(fmt.Errorf("generate content failed: %w", err), ProviderGemini, model, 0)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", WrapError(ErrEmptyResponse, ProviderGemini, model, 0)
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			text.WriteString(part.Text)
		}
	}
	result := strings.TrimSpace(text.String())
	if result == "" {
		return "", WrapError(ErrEmptyResponse, ProviderGemini, model, 0)
	}

	if resp.UsageMetadata != nil {
		slog.DebugContext(ctx, "generation completed",
			"provider", ProviderGemini,
			"model", model,
			"input_tokens", resp.UsageMetadata.PromptTokenCount,
			"output_tokens", resp.UsageMetadata.CandidatesTokenCount)
	}
	return result, nil
}

// Provider returns the provider type for this generator.
func (g *geminiGenerator) Provider() Provider {
	return ProviderGemini
}

// Close releases resources.
// Safe to call on nil receiver.
func (g *geminiGenerator) Close() error {
	// genai.Client has no Close method in current SDK version
	return nil
}
