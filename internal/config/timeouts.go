package config

import "time"

// Webhook timeouts. Meta retries a delivery that is not acknowledged within
// a few seconds, so the POST handler answers before any processing and the
// event work runs detached.
const (
	// WebhookProcessing bounds the handling of one messaging event. The AI
	// chain alone can spend several attempt timeouts, so this is a leak
	// guard rather than a latency target.
	WebhookProcessing = 60 * time.Second

	WebhookHTTPRead  = 10 * time.Second
	WebhookHTTPWrite = 15 * time.Second
	WebhookHTTPIdle  = 120 * time.Second
)

// AI timeouts
const (
	// AIAttempt bounds one call to one model.
	AIAttempt = 12 * time.Second
)

// Session defaults
const (
	SessionTTL = 30 * 24 * time.Hour
)

// Background job intervals
const (
	SessionCleanupInterval     = 6 * time.Hour
	SessionCleanupInitialDelay = 5 * time.Minute
	MetricsUpdateInterval      = time.Minute
	RateLimiterCleanupInterval = 5 * time.Minute
)

// ReadinessCheck bounds the session store ping behind /ready.
const ReadinessCheck = 3 * time.Second

// GracefulShutdown lets in-flight events finish before exit.
const GracefulShutdown = 30 * time.Second
