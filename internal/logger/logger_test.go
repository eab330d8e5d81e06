package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/sjc-hospitality/hestia-bot/internal/ctxutil"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Failed to parse JSON log %q: %v", buf.String(), err)
	}
	return entry
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"invalid", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			t.Parallel()
			if got := ParseLevel(tt.level); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.level, got, tt.want)
			}
			if got := New(tt.level).Level(); got != tt.want {
				t.Errorf("New(%q).Level() = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestLogger_JSONFormat(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.Warn("quota low")

	entry := decode(t, &buf)
	for _, field := range []string{"timestamp", "level", "message"} {
		if _, ok := entry[field]; !ok {
			t.Errorf("JSON log missing required field %q", field)
		}
	}
	if entry["message"] != "quota low" {
		t.Errorf("message = %v, want %q", entry["message"], "quota low")
	}
	if entry["level"] != "warning" {
		t.Errorf("level = %v, want %q", entry["level"], "warning")
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := NewWithWriter("warn", &buf)

	log.Info("dropped")
	log.Debugf("dropped %d", 2)
	if buf.Len() != 0 {
		t.Errorf("Expected no output below warn, got %q", buf.String())
	}

	log.Errorf("kept %d", 3)
	if entry := decode(t, &buf); entry["message"] != "kept 3" {
		t.Errorf("message = %v, want %q", entry["message"], "kept 3")
	}
}

func TestLogger_Fields(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.WithModule("webhook").
		WithRequestID("req-123").
		WithError(errors.New("boom")).
		WithFields(map[string]any{"model": "gemini-2.5-flash", "attempt": 2}).
		Info("attempt failed")

	entry := decode(t, &buf)
	want := map[string]any{
		"module":     "webhook",
		"request_id": "req-123",
		"error":      "boom",
		"model":      "gemini-2.5-flash",
		"attempt":    float64(2),
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s = %v, want %v", k, entry[k], v)
		}
	}
}

func TestLogger_WithContext(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	ctx := ctxutil.WithRequestID(ctxutil.WithUserID(context.Background(), "psid-1"), "req-9")
	log.WithContext(ctx).Info("handled")

	entry := decode(t, &buf)
	if entry["user_id"] != "psid-1" {
		t.Errorf("user_id = %v, want psid-1", entry["user_id"])
	}
	if entry["request_id"] != "req-9" {
		t.Errorf("request_id = %v, want req-9", entry["request_id"])
	}

	if same := log.WithContext(context.Background()); same != log {
		t.Error("Expected WithContext on an empty context to return the receiver")
	}
}

func TestLogger_ContextMethods(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.InfoContext(ctxutil.WithUserID(context.Background(), "psid-2"), "handled")

	if entry := decode(t, &buf); entry["user_id"] != "psid-2" {
		t.Errorf("user_id = %v, want psid-2", entry["user_id"])
	}
}

func TestLogger_ShutdownWithoutRemote(t *testing.T) {
	t.Parallel()
	log := New("info")
	if err := log.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() = %v, want nil", err)
	}
}

func TestNewWithOptions_BetterStack(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	log := NewWithOptions(Options{
		Level:               "info",
		Writer:              &buf,
		BetterStackToken:    "test-token",
		BetterStackEndpoint: "http://127.0.0.1:1",
	})
	if log.remote == nil {
		t.Fatal("Expected a remote sink when a token is configured")
	}

	log.Info("local copy")
	if entry := decode(t, &buf); entry["message"] != "local copy" {
		t.Errorf("message = %v, want %q", entry["message"], "local copy")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultAsyncFlushTimeout)
	defer cancel()
	_ = log.Shutdown(ctx)
}
