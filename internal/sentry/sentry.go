// Package sentry sets up error reporting. Events go either to a plain Sentry
// DSN or to Better Stack Errors, which speaks the Sentry protocol.
package sentry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// ErrMissingHost is returned when a Better Stack token comes without a host.
var ErrMissingHost = errors.New("sentry: host is required with a token")

// Config holds error reporting settings. DSN wins over Token/Host.
type Config struct {
	DSN string

	// Token and Host address a Better Stack Errors application.
	Token string
	Host  string

	Environment string
	Release     string

	// SampleRate defaults to 1.
	SampleRate float64
	Debug      bool
}

// ResolveDSN returns the effective DSN, or "" when reporting is disabled.
func (c Config) ResolveDSN() (string, error) {
	if c.DSN != "" {
		return c.DSN, nil
	}
	if c.Token == "" {
		return "", nil
	}
	if c.Host == "" {
		return "", ErrMissingHost
	}
	// Better Stack ignores the project ID but the SDK requires one.
	return fmt.Sprintf("https://%s@%s/1", c.Token, c.Host), nil
}

// Initialize configures the global hub. It is a no-op when no DSN or token
// is configured.
func Initialize(cfg Config) error {
	dsn, err := cfg.ResolveDSN()
	if err != nil || dsn == "" {
		return err
	}

	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 1.0
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		SampleRate:       sampleRate,
		Debug:            cfg.Debug,
		AttachStacktrace: true,
	})
}

// Flush waits up to timeout for buffered events. It reports whether the
// buffer drained.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

// IsEnabled reports whether a client is bound to the global hub.
func IsEnabled() bool {
	return sentry.CurrentHub().Client() != nil
}

// CaptureException reports err through the hub attached to ctx, falling
// back to the global hub.
func CaptureException(ctx context.Context, err error) {
	if err == nil || !IsEnabled() {
		return
	}
	hubFromContext(ctx).CaptureException(err)
}

// CapturePanic reports a recovered panic value tagged with the Messenger
// sender.
func CapturePanic(ctx context.Context, recovered any, userID string) {
	if recovered == nil || !IsEnabled() {
		return
	}
	hub := hubFromContext(ctx).Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		if userID != "" {
			scope.SetUser(sentry.User{ID: userID})
		}
		scope.SetLevel(sentry.LevelFatal)
	})
	hub.RecoverWithContext(ctx, recovered)
}

func hubFromContext(ctx context.Context) *sentry.Hub {
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		return hub
	}
	return sentry.CurrentHub()
}
