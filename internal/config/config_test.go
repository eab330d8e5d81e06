package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a config that passes Validate.
func validConfig() *Config {
	return &Config{
		PageAccessToken:  "page-token",
		VerifyToken:      DefaultVerifyToken,
		Port:             "10000",
		ShutdownTimeout:  GracefulShutdown,
		WebhookTimeout:   WebhookProcessing,
		AIAttemptTimeout: AIAttempt,
		SessionBackend:   SessionBackendMemory,
		SessionTTL:       SessionTTL,
		SessionCapacity:  100,
		SendRateRPS:      50,
		UserRateBurst:    10,
		UserRateRefill:   0.2,
		AdminUsername:    "admin",
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvPageAccessToken, "page-token")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "page-token", cfg.PageAccessToken)
	assert.Equal(t, "sjcverify123", cfg.VerifyToken)
	assert.Equal(t, "10000", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "https://graph.facebook.com/v19.0", cfg.GraphAPIBase)
	assert.Equal(t, SessionBackendMemory, cfg.SessionBackend)
	assert.Equal(t, 12*time.Second, cfg.AIAttemptTimeout)
	assert.Equal(t, 60*time.Second, cfg.WebhookTimeout)
	assert.Nil(t, cfg.GeminiModels)
	assert.False(t, cfg.HasAIProvider())
	assert.False(t, cfg.AdminEnabled())
	assert.Zero(t, cfg.UserRateBurst, "per-sender limit is off by default")
}

func TestLoad_MissingPageToken(t *testing.T) {
	t.Setenv(EnvPageAccessToken, "")
	t.Setenv("PAGE_ACCESS_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvPageAccessToken)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv(EnvPageAccessToken, "page-token")
	t.Setenv(EnvGeminiAPIKey, "gemini-key")
	t.Setenv(EnvGeminiModels, " gemini-2.5-flash, ,gemini-2.0-flash,gemini-2.5-flash ")
	t.Setenv(EnvGroqModels, "llama-3.3-70b-versatile")
	t.Setenv(EnvAIAttemptTimeout, "5s")
	t.Setenv(EnvSessionBackend, "Redis")
	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	t.Setenv(EnvUserRateBurst, "3")
	t.Setenv(EnvSessionCapacity, "not-a-number")
	t.Setenv(EnvAdminPassword, "s3cret")

	cfg := FromEnv()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"gemini-2.5-flash", "gemini-2.0-flash"}, cfg.GeminiModels)
	assert.Equal(t, []string{"llama-3.3-70b-versatile"}, cfg.GroqModels)
	assert.Equal(t, 5*time.Second, cfg.AIAttemptTimeout)
	assert.Equal(t, SessionBackendRedis, cfg.SessionBackend)
	assert.Equal(t, 3.0, cfg.UserRateBurst)
	assert.Equal(t, 10000, cfg.SessionCapacity, "unparseable values keep the default")
	assert.True(t, cfg.HasAIProvider())
	assert.True(t, cfg.AdminEnabled())
}

func TestFromEnv_LegacyKeys(t *testing.T) {
	t.Setenv("PAGE_ACCESS_TOKEN", "legacy-token")
	t.Setenv("VERIFY_TOKEN", "legacy-verify")
	t.Setenv("GEMINI_API_KEY", "legacy-gemini")
	t.Setenv("PORT", "8080")
	t.Setenv(EnvPort, "9090")

	cfg := FromEnv()
	assert.Equal(t, "legacy-token", cfg.PageAccessToken)
	assert.Equal(t, "legacy-verify", cfg.VerifyToken)
	assert.Equal(t, "legacy-gemini", cfg.GeminiAPIKey)
	assert.Equal(t, "9090", cfg.Port, "prefixed key wins")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"no page token", func(c *Config) { c.PageAccessToken = "" }, EnvPageAccessToken},
		{"bad port", func(c *Config) { c.Port = "http" }, EnvPort},
		{"port out of range", func(c *Config) { c.Port = "70000" }, EnvPort},
		{"zero attempt timeout", func(c *Config) { c.AIAttemptTimeout = 0 }, EnvAIAttemptTimeout},
		{"unknown backend", func(c *Config) { c.SessionBackend = "mongo" }, EnvSessionBackend},
		{"sqlite without path", func(c *Config) { c.SessionBackend = SessionBackendSQLite }, EnvSQLitePath},
		{"redis without url", func(c *Config) { c.SessionBackend = SessionBackendRedis }, EnvRedisURL},
		{"zero capacity", func(c *Config) { c.SessionCapacity = 0 }, EnvSessionCapacity},
		{"negative ttl", func(c *Config) { c.SessionTTL = -time.Second }, EnvSessionTTL},
		{"zero send rate", func(c *Config) { c.SendRateRPS = 0 }, EnvSendRateRPS},
		{"burst below one", func(c *Config) { c.UserRateBurst = 0.5 }, EnvUserRateBurst},
		{"negative burst", func(c *Config) { c.UserRateBurst = -1 }, EnvUserRateBurst},
		{"limit disabled", func(c *Config) {
			c.UserRateBurst = 0
			c.UserRateRefill = 0
		}, ""},
		{"limit without refill", func(c *Config) { c.UserRateRefill = 0 }, EnvUserRateRefill},
		{"sentry token without host", func(c *Config) { c.SentryToken = "tok" }, EnvSentryHost},
		{"admin password without user", func(c *Config) {
			c.AdminPassword = "pw"
			c.AdminUsername = ""
		}, EnvAdminUsername},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_JoinsAllErrors(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.PageAccessToken = ""
	cfg.SendRateRPS = 0
	cfg.SessionBackend = "mongo"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Len(t, strings.Split(err.Error(), "\n"), 3)
}
