package app

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sjc-hospitality/hestia-bot/internal/buildinfo"
	"github.com/sjc-hospitality/hestia-bot/internal/config"
)

func (a *Application) registerRoutes(router *gin.Engine) {
	router.GET("/", a.serviceInfo)
	router.HEAD("/", a.serviceInfo)
	router.GET("/healthz", a.livenessCheck)
	router.HEAD("/healthz", a.livenessCheck)
	router.GET("/ready", a.readinessCheck)
	router.HEAD("/ready", a.readinessCheck)

	router.GET("/webhook", a.webhookHandler.Verify)
	router.POST("/webhook", a.webhookHandler.Receive)

	router.GET("/metrics",
		basicAuthMiddleware("metrics", a.cfg.MetricsPassword != "", a.cfg.MetricsUsername, a.cfg.MetricsPassword),
		gin.WrapH(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))

	if a.cfg.AdminEnabled() {
		admin := router.Group("/admin",
			basicAuthMiddleware("admin", true, a.cfg.AdminUsername, a.cfg.AdminPassword))
		admin.GET("/models", a.listModels)
		admin.POST("/models/reset", a.resetModels)
	}
}

func (a *Application) serviceInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": buildinfo.Service,
		"release": buildinfo.Release(),
	})
}

func (a *Application) livenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

func (a *Application) readinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), config.ReadinessCheck)
	defer cancel()

	if err := a.sessions.Ping(ctx); err != nil {
		a.logger.WithError(err).Warn("Readiness check failed: session store unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"reason": "session store unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":        "ready",
		"session_store": a.cfg.SessionBackend,
		"features": gin.H{
			"ai_replies":         a.responder.Enabled(),
			"signature_checking": a.cfg.AppSecret != "",
		},
	})
}

func (a *Application) listModels(c *gin.Context) {
	chain := a.responder.Chain()
	c.JSON(http.StatusOK, gin.H{
		"models": chain.Models(),
		"health": chain.Snapshot(),
	})
}

// resetModels returns the chain to its first model with clean failure counts.
// It is the only way back from the degraded entry.
func (a *Application) resetModels(c *gin.Context) {
	chain := a.responder.Chain()
	before := chain.ActiveIndex()
	chain.Reset()
	a.metrics.SetActiveIndex(0)

	a.logger.WithField("previous_index", before).Info("Model chain reset")
	c.JSON(http.StatusOK, gin.H{
		"health": chain.Snapshot(),
	})
}
