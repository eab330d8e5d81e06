package genai

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// ErrEmptyResponse is returned when a call succeeds but carries no text.
var ErrEmptyResponse = errors.New("genai: response has no candidate text")

// FailureKind groups generation errors by how the chain reacts to them.
type FailureKind int

const (
	// FailureOther counts toward the consecutive-failure limit.
	FailureOther FailureKind = iota
	// FailureRateLimit moves the chain past the model immediately.
	FailureRateLimit
	// FailureTimeout is a per-attempt deadline; it counts like FailureOther.
	FailureTimeout
)

// String returns the metric label for the kind.
func (k FailureKind) String() string {
	switch k {
	case FailureRateLimit:
		return "rate_limit"
	case FailureTimeout:
		return "timeout"
	default:
		return "error"
	}
}

// LLMError wraps an error with the provider and HTTP status that produced it.
type LLMError struct {
	Err        error
	StatusCode int
	Provider   Provider
	Model      string
}

// Error implements the error interface.
func (e *LLMError) Error() string {
	if e.StatusCode > 0 {
		return e.Err.Error() + " (status: " + strconv.Itoa(e.StatusCode) + ")"
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *LLMError) Unwrap() error {
	return e.Err
}

// WrapError wraps an error with provider, model and status code information.
func WrapError(err error, provider Provider, model string, statusCode int) error {
	if err == nil {
		return nil
	}
	return &LLMError{
		Err:        err,
		StatusCode: statusCode,
		Provider:   provider,
		Model:      model,
	}
}

// ClassifyError decides how the chain treats err.
// HTTP 429 and quota/rate-limit wording are FailureRateLimit; deadline
// errors are FailureTimeout; everything else is FailureOther.
func ClassifyError(err error) FailureKind {
	if err == nil {
		return FailureOther
	}

	var llmErr *LLMError
	if errors.As(err, &llmErr) && llmErr.StatusCode == http.StatusTooManyRequests {
		return FailureRateLimit
	}

	errStr := strings.ToLower(err.Error())
	if containsAny(errStr, "quota", "rate limit", "rate_limit", "too many requests",
		"resource_exhausted", "resource exhausted", "429") {
		return FailureRateLimit
	}

	if errors.Is(err, context.DeadlineExceeded) || containsAny(errStr, "deadline exceeded", "timeout") {
		return FailureTimeout
	}

	return FailureOther
}

// IsRateLimited reports whether err is a rate-limit or quota signal.
func IsRateLimited(err error) bool {
	return ClassifyError(err) == FailureRateLimit
}

// containsAny checks if s contains any of the substrings.
func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
