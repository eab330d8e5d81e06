// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/sjc-hospitality/hestia-bot/internal/bot"
	"github.com/sjc-hospitality/hestia-bot/internal/buildinfo"
	"github.com/sjc-hospitality/hestia-bot/internal/catalog"
	"github.com/sjc-hospitality/hestia-bot/internal/config"
	"github.com/sjc-hospitality/hestia-bot/internal/genai"
	"github.com/sjc-hospitality/hestia-bot/internal/logger"
	"github.com/sjc-hospitality/hestia-bot/internal/messenger"
	"github.com/sjc-hospitality/hestia-bot/internal/metrics"
	"github.com/sjc-hospitality/hestia-bot/internal/ratelimit"
	"github.com/sjc-hospitality/hestia-bot/internal/sentry"
	"github.com/sjc-hospitality/hestia-bot/internal/session"
	"github.com/sjc-hospitality/hestia-bot/internal/webhook"
)

// Application manages the application lifecycle and dependencies.
type Application struct {
	cfg            *config.Config
	logger         *logger.Logger
	sessions       session.Store
	metrics        *metrics.Metrics
	registry       *prometheus.Registry
	responder      *genai.Responder
	userLimiter    *ratelimit.KeyedLimiter
	webhookHandler *webhook.Handler
	server         *http.Server
	wg             sync.WaitGroup // background jobs
}

// Initialize creates and initializes a new application with all dependencies.
func Initialize(ctx context.Context, cfg *config.Config) (*Application, error) {
	log := logger.NewWithOptions(logger.Options{
		Level:               cfg.LogLevel,
		Writer:              os.Stdout,
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})

	log = log.WithField("service", buildinfo.Service)
	if host, err := os.Hostname(); err == nil && host != "" {
		log = log.WithField("instance_id", host)
	}

	// Package-level slog calls get user_id/request_id through ContextHandler.
	slog.SetDefault(log.Logger)

	log.WithFields(buildinfo.Fields()).Info("Initializing application...")
	if cfg.BetterStackToken != "" {
		log.WithField("endpoint", cfg.BetterStackEndpoint).Info("Better Stack logging enabled")
	}

	if err := sentry.Initialize(sentry.Config{
		DSN:         cfg.SentryDSN,
		Token:       cfg.SentryToken,
		Host:        cfg.SentryHost,
		Environment: cfg.SentryEnvironment,
		Release:     buildinfo.Release(),
	}); err != nil {
		log.WithError(err).Warn("Error tracking disabled")
	} else if sentry.IsEnabled() {
		log.WithField("environment", cfg.SentryEnvironment).Info("Error tracking enabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	)
	m := metrics.New(registry)

	sessions, err := session.New(ctx, session.Options{
		Backend:    cfg.SessionBackend,
		TTL:        cfg.SessionTTL,
		Capacity:   cfg.SessionCapacity,
		SQLitePath: cfg.SQLitePath,
		RedisURL:   cfg.RedisURL,
	})
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}
	log.WithField("backend", cfg.SessionBackend).
		WithField("ttl", cfg.SessionTTL.String()).
		Info("Session store ready")

	responder, err := buildResponder(ctx, cfg, m)
	if err != nil {
		_ = sessions.Close()
		return nil, fmt.Errorf("responder: %w", err)
	}
	if responder.Enabled() {
		names := make([]string, 0, len(responder.Chain().Models()))
		for _, model := range responder.Chain().Models() {
			if model.Enabled {
				names = append(names, model.Name)
			}
		}
		log.WithField("models", names).Info("Generative replies enabled")
	} else {
		log.Warn("No AI provider key configured, serving keyword replies only")
	}

	conversation := bot.NewHandler(bot.HandlerConfig{
		Catalog:   catalog.Default(),
		Sessions:  sessions,
		Responder: responder,
		Logger:    log.WithModule("bot"),
		Recorder:  m,
	})

	client := messenger.NewClient(cfg.PageAccessToken,
		messenger.WithGraphAPIBase(cfg.GraphAPIBase),
		messenger.WithLimiter(ratelimit.New(cfg.SendRateRPS, cfg.SendRateRPS)),
	)

	opts := []webhook.HandlerOption{webhook.WithProcessTimeout(cfg.WebhookTimeout)}
	var userLimiter *ratelimit.KeyedLimiter
	if cfg.UserRateBurst > 0 {
		userLimiter = ratelimit.NewKeyedLimiter(ratelimit.KeyedConfig{
			Name:          "user",
			Burst:         cfg.UserRateBurst,
			RefillRate:    cfg.UserRateRefill,
			CleanupPeriod: config.RateLimiterCleanupInterval,
			Recorder:      m,
		})
		opts = append(opts, webhook.WithUserLimiter(userLimiter))
		log.WithField("burst", cfg.UserRateBurst).
			WithField("refill_per_sec", cfg.UserRateRefill).
			Info("Per-sender rate limit enabled")
	}

	webhookHandler, err := webhook.NewHandler(webhook.HandlerConfig{
		VerifyToken:  cfg.VerifyToken,
		AppSecret:    cfg.AppSecret,
		Conversation: conversation,
		Sender:       client,
		Metrics:      m,
		Logger:       log,
	}, opts...)
	if err != nil {
		if userLimiter != nil {
			userLimiter.Stop()
		}
		_ = responder.Close()
		_ = sessions.Close()
		return nil, fmt.Errorf("webhook: %w", err)
	}
	if cfg.AppSecret == "" {
		log.Warn("HESTIA_APP_SECRET not set, webhook signatures are not verified")
	}

	app := &Application{
		cfg:            cfg,
		logger:         log,
		sessions:       sessions,
		metrics:        m,
		registry:       registry,
		responder:      responder,
		userLimiter:    userLimiter,
		webhookHandler: webhookHandler,
	}

	gin.SetMode(gin.ReleaseMode)
	app.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.router(),
		ReadHeaderTimeout: config.WebhookHTTPRead,
		ReadTimeout:       config.WebhookHTTPRead,
		WriteTimeout:      config.WebhookHTTPWrite,
		IdleTimeout:       config.WebhookHTTPIdle,
	}

	log.Info("Initialization complete")
	return app, nil
}

// buildResponder assembles the model chain and one generator per provider
// that has a key.
func buildResponder(ctx context.Context, cfg *config.Config, m *metrics.Metrics) (*genai.Responder, error) {
	geminiModels := cfg.GeminiModels
	if len(geminiModels) == 0 {
		geminiModels = genai.DefaultGeminiModels
	}
	groqModels := cfg.GroqModels
	if len(groqModels) == 0 {
		groqModels = genai.DefaultGroqModels
	}

	chain, err := genai.NewModelChain(genai.BuildChain(
		geminiModels, groqModels,
		cfg.GeminiAPIKey != "", cfg.GroqAPIKey != "",
	))
	if err != nil {
		return nil, err
	}

	gemini, err := genai.NewGeminiGenerator(ctx, cfg.GeminiAPIKey)
	if err != nil {
		return nil, err
	}
	groq, err := genai.NewOpenAIGenerator(genai.ProviderGroq, cfg.GroqAPIKey, "")
	if err != nil {
		if gemini != nil {
			_ = gemini.Close()
		}
		return nil, err
	}

	return genai.NewResponder(chain,
		genai.WithAttemptTimeout(cfg.AIAttemptTimeout),
		genai.WithRecorder(m),
		genai.WithGenerator(gemini),
		genai.WithGenerator(groq),
	), nil
}

// router mounts every HTTP route.
func (a *Application) router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if sentry.IsEnabled() {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(securityHeadersMiddleware())
	router.Use(loggingMiddleware(a.logger))

	a.registerRoutes(router)
	return router
}

// Run serves HTTP and runs background jobs until ctx is canceled or the
// server fails, then shuts down.
//
// Shutdown order:
//  1. Cancel background jobs and wait for them
//  2. Stop accepting requests and drain in-flight ones
//  3. Wait for detached webhook events
//  4. Close resources (limiter, responder, session store, error tracking, logs)
func (a *Application) Run(ctx context.Context) error {
	jobsCtx, cancelJobs := context.WithCancel(ctx)
	defer cancelJobs()
	a.startBackgroundJobs(jobsCtx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.WithField("port", a.cfg.Port).Info("Starting HTTP server")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		a.logger.Info("Received shutdown signal")

		cancelJobs()
		a.logger.Info("Waiting for background jobs to finish...")
		start := time.Now()
		a.wg.Wait()
		a.logger.WithField("duration_ms", time.Since(start).Milliseconds()).
			Info("All background jobs completed")

		return a.shutdown()
	})
	return g.Wait()
}

// startBackgroundJobs starts all background goroutines tracked by the WaitGroup.
func (a *Application) startBackgroundJobs(ctx context.Context) {
	if c, ok := a.sessions.(sessionCleaner); ok {
		a.wg.Go(func() {
			a.sessionCleanup(ctx, c)
		})
	}
	a.wg.Go(func() {
		a.updateGaugeMetrics(ctx)
	})
}

// shutdown performs graceful shutdown of the HTTP server and resources.
// It runs after background jobs have stopped.
func (a *Application) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	a.logger.Info("Stopping HTTP server...")
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Error("HTTP server shutdown error")
	}

	a.logger.Info("Waiting for webhook events to complete...")
	if err := a.webhookHandler.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Warn("Webhook handler shutdown timeout")
	}

	a.logger.Info("Closing resources...")

	if a.userLimiter != nil {
		a.userLimiter.Stop()
	}

	if err := a.responder.Close(); err != nil {
		a.logger.WithError(err).WithField("component", "responder").Error("Component close error")
	}

	if err := a.sessions.Close(); err != nil {
		a.logger.WithError(err).WithField("component", "session_store").Error("Component close error")
	}

	if sentry.IsEnabled() && !sentry.Flush(2*time.Second) {
		a.logger.Warn("Error tracking flush timed out")
	}

	a.logger.Info("Shutdown complete")
	if err := a.logger.Shutdown(shutdownCtx); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "logger shutdown: %v\n", err)
	}
	return nil
}
