// Package webhook receives Messenger webhook deliveries, answers Meta's
// verification handshake, and dispatches each messaging event to the
// conversation handler in its own goroutine.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sjc-hospitality/hestia-bot/internal/bot"
	"github.com/sjc-hospitality/hestia-bot/internal/catalog"
	"github.com/sjc-hospitality/hestia-bot/internal/ctxutil"
	"github.com/sjc-hospitality/hestia-bot/internal/logger"
	"github.com/sjc-hospitality/hestia-bot/internal/messenger"
	"github.com/sjc-hospitality/hestia-bot/internal/metrics"
	"github.com/sjc-hospitality/hestia-bot/internal/ratelimit"
	"github.com/sjc-hospitality/hestia-bot/internal/sentry"
)

const (
	// EventReceived is the acknowledgement body Meta expects.
	EventReceived = "EVENT_RECEIVED"

	defaultProcessTimeout = 60 * time.Second
	deliveryTimeout       = 30 * time.Second
	defaultMaxEvents      = 100
	maxBodyBytes          = 1 << 20
)

// ConversationHandler turns an event into its reply. *bot.Handler
// satisfies it.
type ConversationHandler interface {
	HandleEvent(ctx context.Context, ev bot.Event) bot.OutboundMessage
	// Throttled answers an event that will not be handled.
	Throttled(ctx context.Context, userID string) bot.OutboundMessage
}

// Sender delivers replies. *messenger.Client satisfies it.
type Sender interface {
	SendText(ctx context.Context, recipientID, text string, replies []messenger.QuickReply) (*messenger.SendResponse, error)
	SendAction(ctx context.Context, recipientID, action string) error
}

// Handler serves GET and POST /webhook.
type Handler struct {
	verifyToken string
	appSecret   string

	conversation ConversationHandler
	sender       Sender
	metrics      *metrics.Metrics
	logger       *logger.Logger
	userLimiter  *ratelimit.KeyedLimiter

	processTimeout time.Duration
	maxEvents      int

	wg sync.WaitGroup
}

// HandlerConfig holds the required collaborators.
type HandlerConfig struct {
	VerifyToken  string
	AppSecret    string
	Conversation ConversationHandler
	Sender       Sender
	Metrics      *metrics.Metrics
	Logger       *logger.Logger
}

// HandlerOption configures optional Handler behavior.
type HandlerOption func(*Handler)

// WithProcessTimeout bounds the handling of one event.
func WithProcessTimeout(d time.Duration) HandlerOption {
	return func(h *Handler) {
		if d > 0 {
			h.processTimeout = d
		}
	}
}

// WithUserLimiter answers senders that exceed their bucket with the
// slow-down reply. A nil limiter leaves senders unthrottled.
func WithUserLimiter(l *ratelimit.KeyedLimiter) HandlerOption {
	return func(h *Handler) { h.userLimiter = l }
}

// WithMaxEvents caps the events fully handled from one delivery. The rest
// get the slow-down reply.
func WithMaxEvents(n int) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxEvents = n
		}
	}
}

// NewHandler creates a Handler.
func NewHandler(cfg HandlerConfig, opts ...HandlerOption) (*Handler, error) {
	if cfg.Conversation == nil || cfg.Sender == nil || cfg.Metrics == nil || cfg.Logger == nil {
		return nil, errors.New("webhook: conversation, sender, metrics and logger are required")
	}
	h := &Handler{
		verifyToken:    cfg.VerifyToken,
		appSecret:      cfg.AppSecret,
		conversation:   cfg.Conversation,
		sender:         cfg.Sender,
		metrics:        cfg.Metrics,
		logger:         cfg.Logger.WithModule("webhook"),
		processTimeout: defaultProcessTimeout,
		maxEvents:      defaultMaxEvents,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Verify answers the subscription handshake.
func (h *Handler) Verify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token != "" && token == h.verifyToken {
		h.logger.Info("Webhook verified")
		c.String(http.StatusOK, challenge)
		return
	}
	h.logger.WithField("mode", mode).Warn("Webhook verification rejected")
	c.Status(http.StatusForbidden)
}

// Receive acknowledges a delivery and processes its events in the background.
func (h *Handler) Receive(c *gin.Context) {
	start := time.Now()

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		h.metrics.RecordWebhook("delivery", "bad_request", time.Since(start).Seconds())
		c.Status(http.StatusBadRequest)
		return
	}

	if h.appSecret != "" && !messenger.VerifySignature(h.appSecret, body, c.GetHeader(messenger.SignatureHeader)) {
		h.logger.Warn("Invalid webhook signature")
		h.metrics.RecordWebhook("delivery", "invalid_signature", time.Since(start).Seconds())
		c.Status(http.StatusUnauthorized)
		return
	}

	var payload messenger.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.logger.WithError(err).Warn("Malformed webhook body")
		h.metrics.RecordWebhook("delivery", "bad_request", time.Since(start).Seconds())
		c.Status(http.StatusBadRequest)
		return
	}

	if payload.Object != messenger.ObjectPage {
		h.metrics.RecordWebhook("delivery", "not_page", time.Since(start).Seconds())
		c.Status(http.StatusNotFound)
		return
	}

	events := messenger.ParseEvents(payload)
	var overflow []messenger.InboundEvent
	if len(events) > h.maxEvents {
		h.logger.WithField("event_count", len(events)).
			WithField("limit", h.maxEvents).
			Warn("Too many events in delivery; answering the rest with the slow-down reply")
		events, overflow = events[:h.maxEvents], events[h.maxEvents:]
	}

	c.String(http.StatusOK, EventReceived)
	h.metrics.RecordWebhook("delivery", "accepted", time.Since(start).Seconds())

	ctx := ctxutil.PreserveTracing(ctxutil.WithRequestID(c.Request.Context(), uuid.NewString()))
	for _, ev := range events {
		h.wg.Go(func() { h.processEvent(ctx, ev, false) })
	}
	for _, ev := range overflow {
		h.wg.Go(func() { h.processEvent(ctx, ev, true) })
	}
}

// processEvent handles one event end to end. Panics stop here.
// Every event gets exactly one reply. A throttled event gets the slow-down
// text instead of a full answer. The processing timeout does not apply to
// delivery.
func (h *Handler) processEvent(ctx context.Context, in messenger.InboundEvent, throttled bool) {
	start := time.Now()
	ev := toBotEvent(in)
	kind := ev.Kind.String()
	ctx = ctxutil.WithUserID(ctx, in.SenderID)
	log := h.logger.WithContext(ctx).WithField("event_type", kind)

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", fmt.Sprint(r)).
				WithField("stack", string(debug.Stack())).
				Error("Panic while processing event")
			sentry.CapturePanic(ctx, r, in.SenderID)
			h.metrics.RecordWebhook(kind, "panic", time.Since(start).Seconds())
		}
	}()

	if !throttled && h.userLimiter != nil && !h.userLimiter.Allow(in.SenderID) {
		throttled = true
	}

	status := "success"
	var out bot.OutboundMessage
	if throttled {
		status = "rate_limited"
		log.Warn("Sender throttled; sending slow-down reply")
		out = h.throttledReply(ctx, in.SenderID)
	} else {
		if ev.Kind == bot.KindText && !bot.IsGreeting(ev.Payload) {
			h.sendTyping(ctx, log, in.SenderID)
		}
		out = h.handle(ctx, ev)
	}

	if err := h.deliver(ctx, out); err != nil {
		status = "delivery_error"
		h.logDeliveryError(log, err)
	}

	h.metrics.RecordWebhook(kind, status, time.Since(start).Seconds())
	log.WithField("language", out.Language.String()).
		WithField("duration_ms", time.Since(start).Milliseconds()).
		Info("Event processed")
}

// handle runs the conversation under the processing timeout.
func (h *Handler) handle(ctx context.Context, ev bot.Event) bot.OutboundMessage {
	ctx, cancel := context.WithTimeout(ctx, h.processTimeout)
	defer cancel()
	return h.conversation.HandleEvent(ctx, ev)
}

func (h *Handler) throttledReply(ctx context.Context, userID string) bot.OutboundMessage {
	ctx, cancel := context.WithTimeout(ctx, h.processTimeout)
	defer cancel()
	return h.conversation.Throttled(ctx, userID)
}

// sendTyping shows the typing indicator before slow work. Failure is only
// logged.
func (h *Handler) sendTyping(ctx context.Context, log *logger.Logger, recipientID string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deliveryTimeout)
	defer cancel()
	err := h.sender.SendAction(ctx, recipientID, messenger.ActionTypingOn)
	h.metrics.RecordDelivery("typing", messenger.ErrorKind(err))
	if err != nil {
		log.WithError(err).Debug("Failed to send typing indicator")
	}
}

// deliver sends out under its own deadline, detached from whatever
// cancellation ctx carries.
func (h *Handler) deliver(ctx context.Context, out bot.OutboundMessage) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), deliveryTimeout)
	defer cancel()
	_, err := h.sender.SendText(ctx, out.RecipientID, out.Body, toQuickReplies(out.QuickReplies))
	h.metrics.RecordDelivery("message", messenger.ErrorKind(err))
	return err
}

func (h *Handler) logDeliveryError(log *logger.Logger, err error) {
	var de *messenger.DeliveryError
	switch {
	case errors.As(err, &de) && de.IsAuthError():
		log.WithError(err).Error("Page access token rejected; replies will fail until it is replaced")
		sentry.CaptureException(context.Background(), err)
	case errors.As(err, &de) && de.IsRequestError():
		log.WithError(err).Warn("Send API rejected the reply")
	default:
		log.WithError(err).Error("Failed to deliver reply")
	}
}

// Shutdown waits for in-flight events or until ctx is done.
func (h *Handler) Shutdown(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.wg.Wait()
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func toBotEvent(in messenger.InboundEvent) bot.Event {
	if in.IsMenuSelection {
		return bot.Event{UserID: in.SenderID, Kind: bot.KindMenuSelection, Payload: in.Payload}
	}
	return bot.Event{UserID: in.SenderID, Kind: bot.KindText, Payload: in.Text}
}

func toQuickReplies(replies []catalog.QuickReply) []messenger.QuickReply {
	if len(replies) == 0 {
		return nil
	}
	out := make([]messenger.QuickReply, len(replies))
	for i, qr := range replies {
		out[i] = messenger.TextQuickReply(qr.Label, string(qr.Topic))
	}
	return out
}
