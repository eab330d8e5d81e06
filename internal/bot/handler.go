// Package bot turns one inbound user event into exactly one outbound reply.
//
// A text event resolves the user's language, answers greetings with the
// welcome text, asks the generative responder for everything else, and falls
// back to keyword-matched canned text when no model answers. A menu selection
// looks the topic up directly.
package bot

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/sjc-hospitality/hestia-bot/internal/catalog"
	"github.com/sjc-hospitality/hestia-bot/internal/ctxutil"
	"github.com/sjc-hospitality/hestia-bot/internal/language"
	"github.com/sjc-hospitality/hestia-bot/internal/logger"
	"github.com/sjc-hospitality/hestia-bot/internal/session"
)

// EventKind separates typed text from tapped menu entries.
type EventKind int

const (
	// KindText is a free-text message.
	KindText EventKind = iota
	// KindMenuSelection is a quick-reply tap or postback carrying a topic key.
	KindMenuSelection
)

// String returns the metric label for the kind.
func (k EventKind) String() string {
	if k == KindMenuSelection {
		return "menu_selection"
	}
	return "text"
}

// GetStartedPayload is the postback sent by the Messenger "Get Started" button.
const GetStartedPayload = "GET_STARTED"

// MaxRetainTokens is the longest message (in whitespace tokens) that cannot
// overwrite a stored language with an English classification.
const MaxRetainTokens = 2

// greetings are matched exactly against the trimmed, case-folded text.
var greetings = []string{"hello", "hi", "hey", "start", "kumusta", "musta", "kamusta", "get started"}

// Event is one normalized inbound user event.
type Event struct {
	UserID  string
	Kind    EventKind
	Payload string
}

// OutboundMessage is the reply for one event.
type OutboundMessage struct {
	RecipientID  string
	Body         string
	QuickReplies []catalog.QuickReply
	Language     language.Tag
}

// Responder produces a generated reply, or false when none is available.
type Responder interface {
	Generate(ctx context.Context, message string, lang language.Tag) (string, bool)
}

// Recorder receives handler observations. *metrics.Metrics satisfies it.
type Recorder interface {
	RecordKeywordFallback(language string)
	RecordSessionError(op string)
}

// Handler is the conversation orchestrator. It holds no per-user state of
// its own; language preferences live in the session store.
type Handler struct {
	catalog   *catalog.Catalog
	sessions  session.Store
	responder Responder
	logger    *logger.Logger
	recorder  Recorder
}

// HandlerConfig holds the handler's collaborators.
type HandlerConfig struct {
	Catalog   *catalog.Catalog
	Sessions  session.Store
	Responder Responder
	Logger    *logger.Logger
	Recorder  Recorder
}

// NewHandler creates a Handler. Catalog defaults to catalog.Default and
// Sessions to an in-memory store.
func NewHandler(cfg HandlerConfig) *Handler {
	h := &Handler{
		catalog:   cfg.Catalog,
		sessions:  cfg.Sessions,
		responder: cfg.Responder,
		logger:    cfg.Logger,
		recorder:  cfg.Recorder,
	}
	if h.catalog == nil {
		h.catalog = catalog.Default()
	}
	if h.sessions == nil {
		h.sessions = session.NewMemoryStore(session.DefaultCapacity, 0)
	}
	if h.logger == nil {
		h.logger = logger.New("info")
	}
	return h
}

// HandleEvent returns the reply for ev. It never panics: a fault while
// handling becomes the apology reply.
func (h *Handler) HandleEvent(ctx context.Context, ev Event) (out OutboundMessage) {
	ctx = ctxutil.WithUserID(ctx, ev.UserID)
	lang := language.English

	defer func() {
		if r := recover(); r != nil {
			h.logger.WithContext(ctx).
				WithField("panic", fmt.Sprint(r)).
				WithField("stack", string(debug.Stack())).
				Error("Recovered from panic while handling event")
			out = h.reply(ev.UserID, h.catalog.Apology(lang), lang)
		}
	}()

	switch ev.Kind {
	case KindMenuSelection:
		lang = h.storedLanguage(ctx, ev.UserID)
		return h.handleMenuSelection(ctx, ev, lang)
	default:
		text := strings.TrimSpace(ev.Payload)
		lang = h.resolveLanguage(ctx, ev.UserID, text)
		return h.handleText(ctx, ev.UserID, text, lang)
	}
}

// Throttled returns the slow-down reply for an event that will not be
// handled, in the sender's stored language. The stored language is left
// unchanged.
func (h *Handler) Throttled(ctx context.Context, userID string) OutboundMessage {
	ctx = ctxutil.WithUserID(ctx, userID)
	lang := h.storedLanguage(ctx, userID)
	return h.reply(userID, h.catalog.SlowDown(lang), lang)
}

func (h *Handler) handleMenuSelection(ctx context.Context, ev Event, lang language.Tag) OutboundMessage {
	if strings.EqualFold(strings.TrimSpace(ev.Payload), GetStartedPayload) {
		return h.reply(ev.UserID, h.catalog.Welcome(lang), lang)
	}

	topic := catalog.ParseTopic(ev.Payload)
	text, err := h.catalog.Lookup(topic, lang)
	if errors.Is(err, catalog.ErrUnknownTopic) {
		h.logger.WithContext(ctx).WithField("payload", ev.Payload).Debug("Unknown menu topic")
		return h.reply(ev.UserID, h.catalog.NotUnderstood(lang), lang)
	}
	return h.reply(ev.UserID, text, lang)
}

func (h *Handler) handleText(ctx context.Context, userID, text string, lang language.Tag) OutboundMessage {
	if IsGreeting(text) {
		return h.reply(userID, h.catalog.Welcome(lang), lang)
	}

	if h.responder != nil {
		if generated, ok := h.responder.Generate(ctx, text, lang); ok {
			return h.reply(userID, generated, lang)
		}
	}

	if h.recorder != nil {
		h.recorder.RecordKeywordFallback(lang.String())
	}
	matched, topic := h.catalog.KeywordMatch(text, lang)
	h.logger.WithContext(ctx).
		WithField("topic", string(topic)).
		WithField("language", lang.String()).
		Debug("Served keyword fallback")
	return h.reply(userID, matched, lang)
}

// resolveLanguage applies the retention policy and stores the result.
// A stored language survives a short message that detects as English.
func (h *Handler) resolveLanguage(ctx context.Context, userID, text string) language.Tag {
	fresh := language.Detect(text)

	stored, found, err := h.sessions.Get(ctx, userID)
	if err != nil {
		h.sessionError(ctx, "get", err)
		found = false
	}

	if found && fresh == language.English && len(strings.Fields(text)) <= MaxRetainTokens {
		return stored
	}

	if err := h.sessions.Set(ctx, userID, fresh); err != nil {
		h.sessionError(ctx, "set", err)
	}
	return fresh
}

// storedLanguage returns the user's language without changing it.
func (h *Handler) storedLanguage(ctx context.Context, userID string) language.Tag {
	stored, found, err := h.sessions.Get(ctx, userID)
	if err != nil {
		h.sessionError(ctx, "get", err)
		return language.English
	}
	if !found {
		return language.English
	}
	return stored
}

func (h *Handler) sessionError(ctx context.Context, op string, err error) {
	if h.recorder != nil {
		h.recorder.RecordSessionError(op)
	}
	h.logger.WithContext(ctx).WithError(err).WithField("op", op).Warn("Session store failed")
}

func (h *Handler) reply(userID, body string, lang language.Tag) OutboundMessage {
	return OutboundMessage{
		RecipientID:  userID,
		Body:         body,
		QuickReplies: h.catalog.QuickReplies(lang),
		Language:     lang,
	}
}

// IsGreeting reports whether text is exactly one of the greeting phrases,
// ignoring case and surrounding space.
func IsGreeting(text string) bool {
	folded := cases.Fold().String(strings.TrimSpace(text))
	return slices.Contains(greetings, folded)
}
