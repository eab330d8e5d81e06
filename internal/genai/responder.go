package genai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sjc-hospitality/hestia-bot/internal/language"
)

// DefaultAttemptTimeout bounds a single model call.
const DefaultAttemptTimeout = 12 * time.Second

// Recorder receives per-attempt observations. *metrics.Metrics satisfies it.
type Recorder interface {
	RecordAIRequest(provider, model, status string, duration float64)
	RecordChainAdvance(model, reason string, activeIndex int)
	SetActiveIndex(activeIndex int)
}

// Responder walks the model chain for each request.
type Responder struct {
	chain          *ModelChain
	generators     map[Provider]Generator
	attemptTimeout time.Duration
	recorder       Recorder
}

// Option configures a Responder.
type Option func(*Responder)

// WithAttemptTimeout overrides DefaultAttemptTimeout.
func WithAttemptTimeout(d time.Duration) Option {
	return func(r *Responder) {
		if d > 0 {
			r.attemptTimeout = d
		}
	}
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(rec Recorder) Option {
	return func(r *Responder) {
		r.recorder = rec
	}
}

// WithGenerator registers the generator serving a provider. A nil
// generator is ignored, which leaves that provider's models unreachable.
func WithGenerator(g Generator) Option {
	return func(r *Responder) {
		if g != nil {
			r.generators[g.Provider()] = g
		}
	}
}

// NewResponder creates a Responder over chain.
func NewResponder(chain *ModelChain, opts ...Option) *Responder {
	r := &Responder{
		chain:          chain,
		generators:     make(map[Provider]Generator),
		attemptTimeout: DefaultAttemptTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Enabled reports whether any provider has a generator.
func (r *Responder) Enabled() bool {
	return r != nil && len(r.generators) > 0
}

// Chain returns the underlying model chain.
func (r *Responder) Chain() *ModelChain {
	return r.chain
}

// Generate returns a reply to message in lang, or false when no model
// produced one. Failures never escape: the caller falls back to canned text.
func (r *Responder) Generate(ctx context.Context, message string, lang language.Tag) (string, bool) {
	if !r.Enabled() {
		return "", false
	}

	prompt := BuildPrompt(message, lang)
	models := r.chain.models

	for i := r.chain.ActiveIndex(); i < len(models); i++ {
		if ctx.Err() != nil {
			return "", false
		}

		model := models[i]
		if !model.Enabled || !model.Generative() {
			continue
		}
		gen, ok := r.generators[model.Provider]
		if !ok {
			continue
		}

		text, err := r.attempt(ctx, gen, model, prompt)
		if err == nil {
			active := r.chain.recordSuccess(i)
			if r.recorder != nil {
				r.recorder.SetActiveIndex(active)
			}
			return text, true
		}

		kind := ClassifyError(err)
		advanced, active := r.chain.recordFailure(i, kind)
		slog.WarnContext(ctx, "model call failed",
			"provider", model.Provider,
			"model", model.Name,
			"failure", kind.String(),
			"advanced", advanced,
			"active_index", active,
			"error", err)

		if advanced && r.recorder != nil {
			reason := "consecutive_failures"
			if kind == FailureRateLimit {
				reason = "rate_limit"
			}
			r.recorder.RecordChainAdvance(model.Name, reason, active)
		}
	}

	slog.WarnContext(ctx, "all models exhausted, using keyword fallback",
		"language", lang.String())
	return "", false
}

// attempt makes one bounded call to model.
func (r *Responder) attempt(ctx context.Context, gen Generator, model ModelDescriptor, prompt string) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, r.attemptTimeout)
	defer cancel()

	start := time.Now()
	text, err := gen.Generate(attemptCtx, model.Name, prompt)
	duration := time.Since(start)

	if err == nil && text == "" {
		err = ErrEmptyResponse
	}
	if err != nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
	}

	if r.recorder != nil {
		status := "success"
		if err != nil {
			status = ClassifyError(err).String()
		}
		r.recorder.RecordAIRequest(model.Provider.String(), model.Name, status, duration.Seconds())
	}
	return text, err
}

// Close releases every generator.
func (r *Responder) Close() error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, g := range r.generators {
		if err := g.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
