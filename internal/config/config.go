// Package config loads the server configuration from HESTIA_* environment
// variables, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Session backends.
const (
	SessionBackendMemory = "memory"
	SessionBackendSQLite = "sqlite"
	SessionBackendRedis  = "redis"
)

// DefaultVerifyToken matches the token registered for the existing page.
const DefaultVerifyToken = "sjcverify123"

// Config holds all application configuration
type Config struct {
	// Messenger
	PageAccessToken string
	VerifyToken     string
	AppSecret       string // empty disables signature checks
	GraphAPIBase    string

	// Server
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration
	WebhookTimeout  time.Duration

	// Generative models. Empty model lists mean the built-in defaults.
	GeminiAPIKey     string
	GroqAPIKey       string
	GeminiModels     []string
	GroqModels       []string
	AIAttemptTimeout time.Duration

	// Session store
	SessionBackend  string
	SessionTTL      time.Duration
	SessionCapacity int
	SQLitePath      string
	RedisURL        string

	// Rate limits
	SendRateRPS    float64
	UserRateBurst  float64 // 0 disables the per-sender limit
	UserRateRefill float64 // tokens per second

	// Error tracking
	SentryDSN         string
	SentryToken       string
	SentryHost        string
	SentryEnvironment string

	// Remote logs
	BetterStackToken    string
	BetterStackEndpoint string

	// Basic auth. An empty password leaves /metrics open and disables /admin.
	MetricsUsername string
	MetricsPassword string
	AdminUsername   string
	AdminPassword   string
}

// Load reads .env (if present) and the environment, then validates.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// FromEnv reads the environment without validating.
func FromEnv() *Config {
	return &Config{
		PageAccessToken: getEnv(EnvPageAccessToken, ""),
		VerifyToken:     getEnv(EnvVerifyToken, DefaultVerifyToken),
		AppSecret:       getEnv(EnvAppSecret, ""),
		GraphAPIBase:    getEnv(EnvGraphAPIBase, "https://graph.facebook.com/v19.0"),

		Port:            getEnv(EnvPort, "10000"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, GracefulShutdown),
		WebhookTimeout:  getDurationEnv(EnvWebhookTimeout, WebhookProcessing),

		GeminiAPIKey:     getEnv(EnvGeminiAPIKey, ""),
		GroqAPIKey:       getEnv(EnvGroqAPIKey, ""),
		GeminiModels:     getListEnv(EnvGeminiModels),
		GroqModels:       getListEnv(EnvGroqModels),
		AIAttemptTimeout: getDurationEnv(EnvAIAttemptTimeout, AIAttempt),

		SessionBackend:  strings.ToLower(getEnv(EnvSessionBackend, SessionBackendMemory)),
		SessionTTL:      getDurationEnv(EnvSessionTTL, SessionTTL),
		SessionCapacity: getIntEnv(EnvSessionCapacity, 10000),
		SQLitePath:      getEnv(EnvSQLitePath, "data/sessions.db"),
		RedisURL:        getEnv(EnvRedisURL, ""),

		SendRateRPS:    getFloatEnv(EnvSendRateRPS, 50),
		UserRateBurst:  getFloatEnv(EnvUserRateBurst, 0),
		UserRateRefill: getFloatEnv(EnvUserRateRefill, 0.2),

		SentryDSN:         getEnv(EnvSentryDSN, ""),
		SentryToken:       getEnv(EnvSentryToken, ""),
		SentryHost:        getEnv(EnvSentryHost, ""),
		SentryEnvironment: getEnv(EnvSentryEnvironment, "production"),

		BetterStackToken:    getEnv(EnvBetterStackToken, ""),
		BetterStackEndpoint: getEnv(EnvBetterStackEndpoint, ""),

		MetricsUsername: getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword: getEnv(EnvMetricsPassword, ""),
		AdminUsername:   getEnv(EnvAdminUsername, "admin"),
		AdminPassword:   getEnv(EnvAdminPassword, ""),
	}
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.PageAccessToken == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvPageAccessToken))
	}
	if c.VerifyToken == "" {
		errs = append(errs, fmt.Errorf("%s must not be empty", EnvVerifyToken))
	}
	if c.Port == "" {
		errs = append(errs, fmt.Errorf("%s is required", EnvPort))
	} else if p, err := strconv.Atoi(c.Port); err != nil || p <= 0 || p > 65535 {
		errs = append(errs, fmt.Errorf("%s must be a TCP port, got %q", EnvPort, c.Port))
	}

	for key, d := range map[string]time.Duration{
		EnvShutdownTimeout:  c.ShutdownTimeout,
		EnvWebhookTimeout:   c.WebhookTimeout,
		EnvAIAttemptTimeout: c.AIAttemptTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", key, d))
		}
	}

	switch c.SessionBackend {
	case SessionBackendMemory:
		if c.SessionCapacity <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %d", EnvSessionCapacity, c.SessionCapacity))
		}
	case SessionBackendSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, fmt.Errorf("%s is required for the sqlite backend", EnvSQLitePath))
		}
	case SessionBackendRedis:
		if c.RedisURL == "" {
			errs = append(errs, fmt.Errorf("%s is required for the redis backend", EnvRedisURL))
		}
	default:
		errs = append(errs, fmt.Errorf("%s must be one of memory, sqlite, redis; got %q", EnvSessionBackend, c.SessionBackend))
	}
	if c.SessionTTL < 0 {
		errs = append(errs, fmt.Errorf("%s cannot be negative, got %v", EnvSessionTTL, c.SessionTTL))
	}

	if c.SendRateRPS <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvSendRateRPS, c.SendRateRPS))
	}
	if c.UserRateBurst != 0 && c.UserRateBurst < 1 {
		errs = append(errs, fmt.Errorf("%s must be 0 (disabled) or at least 1, got %v", EnvUserRateBurst, c.UserRateBurst))
	}
	if c.UserRateBurst > 0 && c.UserRateRefill <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive when %s is set, got %v",
			EnvUserRateRefill, EnvUserRateBurst, c.UserRateRefill))
	}

	if c.SentryToken != "" && c.SentryHost == "" && c.SentryDSN == "" {
		errs = append(errs, fmt.Errorf("%s is required with %s", EnvSentryHost, EnvSentryToken))
	}
	if c.AdminPassword != "" && c.AdminUsername == "" {
		errs = append(errs, fmt.Errorf("%s is required with %s", EnvAdminUsername, EnvAdminPassword))
	}

	return errors.Join(errs...)
}

// HasAIProvider reports whether any generative backend has a key.
func (c *Config) HasAIProvider() bool {
	return c.GeminiAPIKey != "" || c.GroqAPIKey != ""
}

// AdminEnabled reports whether the /admin routes are mounted.
func (c *Config) AdminEnabled() bool {
	return c.AdminPassword != ""
}

// getEnv reads key, then its legacy unprefixed name, then falls back.
func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	if legacy, ok := legacyKeys[key]; ok {
		if value := strings.TrimSpace(os.Getenv(legacy)); value != "" {
			return value
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if v, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return v
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

// getListEnv splits a comma-separated value, dropping blanks and repeats.
func getListEnv(key string) []string {
	raw := getEnv(key, "")
	if raw == "" {
		return nil
	}
	var out []string
	for part := range strings.SplitSeq(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" && !slices.Contains(out, part) {
			out = append(out, part)
		}
	}
	return out
}
