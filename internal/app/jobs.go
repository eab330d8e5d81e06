package app

import (
	"context"
	"time"

	"github.com/sjc-hospitality/hestia-bot/internal/config"
)

// sessionCleaner is implemented by stores that need expired rows swept.
type sessionCleaner interface {
	Cleanup(ctx context.Context) (int64, error)
}

// sessionCleanup sweeps expired sessions after an initial delay, then on a
// fixed interval, until ctx is canceled.
func (a *Application) sessionCleanup(ctx context.Context, c sessionCleaner) {
	a.logger.Debug("Session cleanup job started")
	defer a.logger.Debug("Session cleanup job stopped")

	select {
	case <-ctx.Done():
		return
	case <-time.After(config.SessionCleanupInitialDelay):
		a.runSessionCleanup(ctx, c)
	}

	ticker := time.NewTicker(config.SessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Debug("Session cleanup received shutdown signal")
			return
		case <-ticker.C:
			a.runSessionCleanup(ctx, c)
		}
	}
}

func (a *Application) runSessionCleanup(ctx context.Context, c sessionCleaner) {
	start := time.Now()
	deleted, err := c.Cleanup(ctx)
	if err != nil {
		a.logger.WithError(err).Error("Failed to cleanup expired sessions")
		return
	}
	a.logger.WithField("deleted", deleted).
		WithField("duration_ms", time.Since(start).Milliseconds()).
		Info("Session cleanup completed")
}

// updateGaugeMetrics records session count and the active model index,
// once at start and then every MetricsUpdateInterval.
func (a *Application) updateGaugeMetrics(ctx context.Context) {
	a.logger.Debug("Gauge metrics job started")
	defer a.logger.Debug("Gauge metrics job stopped")

	ticker := time.NewTicker(config.MetricsUpdateInterval)
	defer ticker.Stop()

	a.recordGaugeMetrics(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.recordGaugeMetrics(ctx)
		}
	}
}

func (a *Application) recordGaugeMetrics(ctx context.Context) {
	if a.metrics == nil {
		return
	}

	if n, err := a.sessions.Len(ctx); err == nil {
		a.metrics.SetSessionEntries(n)
	} else {
		a.logger.WithError(err).Debug("Failed to count sessions for metrics")
	}
	a.metrics.SetActiveIndex(a.responder.Chain().ActiveIndex())
}
