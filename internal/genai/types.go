// Package genai produces free-text replies from generative language models.
//
// Architecture:
//   - Gemini: google.golang.org/genai (official SDK)
//   - Groq: github.com/openai/openai-go/v3 against the OpenAI-compatible endpoint
//
// Models form one ordered chain that ends in a degraded sentinel. A Responder
// walks the chain from the last model that worked, moving past models that
// are rate limited or keep failing. When the walk runs out the caller serves
// canned keyword text instead.
package genai

import (
	"context"
	"errors"
	"fmt"
)

// Provider represents an LLM provider.
type Provider string

const (
	// ProviderGemini represents Google's Gemini API (non-OpenAI-compatible).
	ProviderGemini Provider = "gemini"
	// ProviderGroq represents Groq's API (OpenAI-compatible, fast inference).
	ProviderGroq Provider = "groq"
)

// ProviderEndpoint defines the base URL for OpenAI-compatible providers.
// Gemini is not included as it uses a different SDK.
var ProviderEndpoint = map[Provider]string{
	ProviderGroq: "https://api.groq.com/openai/v1/",
}

// IsOpenAICompatible returns true if the provider uses OpenAI-compatible API.
func (p Provider) IsOpenAICompatible() bool {
	_, ok := ProviderEndpoint[p]
	return ok
}

// String returns the string representation of the provider.
func (p Provider) String() string {
	return string(p)
}

// ModelKind separates real models from the degraded sentinel.
type ModelKind int

const (
	// KindGenerative is a model that can be called.
	KindGenerative ModelKind = iota
	// KindDegraded marks the end of the chain: reaching it means keyword
	// matching answers instead.
	KindDegraded
)

// String returns a human-readable kind.
func (k ModelKind) String() string {
	if k == KindDegraded {
		return "degraded"
	}
	return "generative"
}

// DegradedModelName names the sentinel entry.
const DegradedModelName = "keyword-fallback"

// ModelDescriptor is one entry in the fallback chain.
type ModelDescriptor struct {
	Name     string    `json:"name"`
	Provider Provider  `json:"provider,omitempty"`
	Kind     ModelKind `json:"-"`
	Enabled  bool      `json:"enabled"`
}

// Generative reports whether the entry can be sent a request.
func (d ModelDescriptor) Generative() bool {
	return d.Kind == KindGenerative
}

// Generator calls one provider. Implementations must be safe for
// concurrent use and must respect ctx cancellation.
type Generator interface {
	// Generate returns the model's reply to prompt. An empty reply is an error.
	Generate(ctx context.Context, model, prompt string) (string, error)
	// Provider returns the provider type for metrics.
	Provider() Provider
	// Close releases any resources held by the generator.
	Close() error
}

// Default model configurations.
// First element is primary model, subsequent elements are fallbacks.
var (
	DefaultGeminiModels = []string{"gemini-2.5-flash", "gemini-2.5-flash-lite", "gemini-2.0-flash"}
	DefaultGroqModels   = []string{"llama-3.3-70b-versatile"}
)

// Generation parameters shared by every provider.
const (
	Temperature     = 0.7
	MaxOutputTokens = 300
	TopP            = 0.95
	TopK            = 40
)

// BuildChain lays out the Gemini models, then the Groq models, then the
// sentinel. Models of a provider without a credential stay in the chain
// but are disabled.
func BuildChain(geminiModels, groqModels []string, geminiEnabled, groqEnabled bool) []ModelDescriptor {
	chain := make([]ModelDescriptor, 0, len(geminiModels)+len(groqModels)+1)
	for _, name := range geminiModels {
		chain = append(chain, ModelDescriptor{Name: name, Provider: ProviderGemini, Kind: KindGenerative, Enabled: geminiEnabled})
	}
	for _, name := range groqModels {
		chain = append(chain, ModelDescriptor{Name: name, Provider: ProviderGroq, Kind: KindGenerative, Enabled: groqEnabled})
	}
	return append(chain, ModelDescriptor{Name: DegradedModelName, Kind: KindDegraded, Enabled: true})
}

// Chain validation errors.
var (
	ErrEmptyChain        = errors.New("genai: model chain is empty")
	ErrSentinelPlacement = errors.New("genai: model chain must end with exactly one degraded entry")
	ErrNoGenerativeModel = errors.New("genai: model chain has no generative entry")
)

// ValidateChain checks the chain shape: non-empty, exactly one degraded
// entry placed last, and at least one generative entry before it.
func ValidateChain(chain []ModelDescriptor) error {
	if len(chain) == 0 {
		return ErrEmptyChain
	}
	degraded := 0
	for i, d := range chain {
		if d.Kind == KindDegraded {
			degraded++
			if i != len(chain)-1 {
				return fmt.Errorf("%w: %q at position %d", ErrSentinelPlacement, d.Name, i)
			}
		}
		if d.Kind == KindGenerative && d.Name == "" {
			return fmt.Errorf("genai: model at position %d has no name", i)
		}
	}
	if degraded != 1 {
		return ErrSentinelPlacement
	}
	if len(chain) < 2 {
		return ErrNoGenerativeModel
	}
	return nil
}
