package config

//nolint:gosec,revive // Environment variable keys are not credentials and do not need per-const comments.
const (
	// Messenger (page token required)
	EnvPageAccessToken = "HESTIA_PAGE_ACCESS_TOKEN"
	EnvVerifyToken     = "HESTIA_VERIFY_TOKEN"
	EnvAppSecret       = "HESTIA_APP_SECRET"
	EnvGraphAPIBase    = "HESTIA_GRAPH_API_BASE"

	// Server
	EnvPort            = "HESTIA_PORT"
	EnvLogLevel        = "HESTIA_LOG_LEVEL"
	EnvShutdownTimeout = "HESTIA_SHUTDOWN_TIMEOUT"
	EnvWebhookTimeout  = "HESTIA_WEBHOOK_TIMEOUT"

	// Generative models
	EnvGeminiAPIKey     = "HESTIA_GEMINI_API_KEY"
	EnvGroqAPIKey       = "HESTIA_GROQ_API_KEY"
	EnvGeminiModels     = "HESTIA_GEMINI_MODELS"
	EnvGroqModels       = "HESTIA_GROQ_MODELS"
	EnvAIAttemptTimeout = "HESTIA_AI_ATTEMPT_TIMEOUT"

	// Session store
	EnvSessionBackend  = "HESTIA_SESSION_BACKEND"
	EnvSessionTTL      = "HESTIA_SESSION_TTL"
	EnvSessionCapacity = "HESTIA_SESSION_CAPACITY"
	EnvSQLitePath      = "HESTIA_SQLITE_PATH"
	EnvRedisURL        = "HESTIA_REDIS_URL"

	// Rate limits
	EnvSendRateRPS    = "HESTIA_SEND_RATE_RPS"
	EnvUserRateBurst  = "HESTIA_USER_RATE_BURST"
	EnvUserRateRefill = "HESTIA_USER_RATE_REFILL"

	// Sentry / Better Stack Errors
	EnvSentryDSN         = "HESTIA_SENTRY_DSN"
	EnvSentryToken       = "HESTIA_SENTRY_TOKEN"
	EnvSentryHost        = "HESTIA_SENTRY_HOST"
	EnvSentryEnvironment = "HESTIA_SENTRY_ENVIRONMENT"

	// Better Stack logs
	EnvBetterStackToken    = "HESTIA_BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "HESTIA_BETTERSTACK_ENDPOINT"

	// Basic auth for /metrics and /admin
	EnvMetricsUsername = "HESTIA_METRICS_USERNAME"
	EnvMetricsPassword = "HESTIA_METRICS_PASSWORD"
	EnvAdminUsername   = "HESTIA_ADMIN_USERNAME"
	EnvAdminPassword   = "HESTIA_ADMIN_PASSWORD"
)

// legacyKeys are the unprefixed names used by existing deployments.
// A prefixed key always wins.
var legacyKeys = map[string]string{
	EnvPageAccessToken: "PAGE_ACCESS_TOKEN",
	EnvVerifyToken:     "VERIFY_TOKEN",
	EnvGeminiAPIKey:    "GEMINI_API_KEY",
	EnvPort:            "PORT",
}
