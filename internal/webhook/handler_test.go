package webhook

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sjc-hospitality/hestia-bot/internal/bot"
	"github.com/sjc-hospitality/hestia-bot/internal/catalog"
	"github.com/sjc-hospitality/hestia-bot/internal/language"
	"github.com/sjc-hospitality/hestia-bot/internal/logger"
	"github.com/sjc-hospitality/hestia-bot/internal/messenger"
	"github.com/sjc-hospitality/hestia-bot/internal/metrics"
	"github.com/sjc-hospitality/hestia-bot/internal/ratelimit"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type sentMessage struct {
	recipientID string
	text        string
	replies     []messenger.QuickReply
}

type fakeSender struct {
	mu      sync.Mutex
	sent    []sentMessage
	actions []string
	sendErr error
}

// SendText fails like the real client when ctx is already done.
func (s *fakeSender) SendText(ctx context.Context, recipientID, text string, replies []messenger.QuickReply) (*messenger.SendResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentMessage{recipientID, text, replies})
	return &messenger.SendResponse{RecipientID: recipientID}, s.sendErr
}

func (s *fakeSender) SendAction(ctx context.Context, recipientID, action string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, recipientID+":"+action)
	return nil
}

func (s *fakeSender) Sent() []sentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sentMessage(nil), s.sent...)
}

func (s *fakeSender) Actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.actions...)
}

const slowDownBody = "slow down"

// echoConversation replies with the event payload. With slow set it holds
// every event until its context expires.
type echoConversation struct {
	mu        sync.Mutex
	events    []bot.Event
	throttled []string
	panic     bool
	slow      bool
}

func (c *echoConversation) HandleEvent(ctx context.Context, ev bot.Event) bot.OutboundMessage {
	c.mu.Lock()
	c.events = append(c.events, ev)
	c.mu.Unlock()
	if c.panic {
		panic("handler exploded")
	}
	if c.slow {
		<-ctx.Done()
	}
	return bot.OutboundMessage{
		RecipientID:  ev.UserID,
		Body:         "echo: " + ev.Payload,
		QuickReplies: []catalog.QuickReply{{Label: "Costs", Topic: catalog.TopicCosts}},
		Language:     language.English,
	}
}

func (c *echoConversation) Throttled(_ context.Context, userID string) bot.OutboundMessage {
	c.mu.Lock()
	c.throttled = append(c.throttled, userID)
	c.mu.Unlock()
	return bot.OutboundMessage{RecipientID: userID, Body: slowDownBody, Language: language.English}
}

type testEnv struct {
	handler *Handler
	router  *gin.Engine
	sender  *fakeSender
	conv    *echoConversation
	metrics *metrics.Metrics
}

func newTestEnv(t *testing.T, appSecret string, opts ...HandlerOption) *testEnv {
	t.Helper()
	env := &testEnv{
		sender:  &fakeSender{},
		conv:    &echoConversation{},
		metrics: metrics.New(prometheus.NewRegistry()),
	}
	h, err := NewHandler(HandlerConfig{
		VerifyToken:  "sjcverify123",
		AppSecret:    appSecret,
		Conversation: env.conv,
		Sender:       env.sender,
		Metrics:      env.metrics,
		Logger:       logger.NewWithWriter("error", io.Discard),
	}, opts...)
	require.NoError(t, err)
	env.handler = h

	env.router = gin.New()
	env.router.GET("/webhook", h.Verify)
	env.router.POST("/webhook", h.Receive)
	return env
}

func (e *testEnv) post(t *testing.T, body, signature string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(messenger.SignatureHeader, signature)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) drain(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, e.handler.Shutdown(ctx))
}

const textDelivery = `{"object":"page","entry":[{"id":"p","time":1,"messaging":[
	{"sender":{"id":"u1"},"recipient":{"id":"p"},"timestamp":1,"message":{"mid":"m1","text":"what programs do you offer"}}
]}]}`

func TestVerify(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, "")

	tests := []struct {
		name   string
		query  string
		status int
		body   string
	}{
		{"valid", "hub.mode=subscribe&hub.verify_token=sjcverify123&hub.challenge=CHALLENGE_ACCEPTED", http.StatusOK, "CHALLENGE_ACCEPTED"},
		{"wrong token", "hub.mode=subscribe&hub.verify_token=nope&hub.challenge=x", http.StatusForbidden, ""},
		{"wrong mode", "hub.mode=unsubscribe&hub.verify_token=sjcverify123&hub.challenge=x", http.StatusForbidden, ""},
		{"missing params", "", http.StatusForbidden, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w := httptest.NewRecorder()
			env.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/webhook?"+tt.query, nil))
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.body, w.Body.String())
		})
	}
}

func TestReceive_TextEvent(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, "")

	w := env.post(t, textDelivery, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, EventReceived, w.Body.String())
	env.drain(t)

	sent := env.sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "u1", sent[0].recipientID)
	assert.Equal(t, "echo: what programs do you offer", sent[0].text)
	assert.Equal(t, []messenger.QuickReply{{ContentType: "text", Title: "Costs", Payload: "COSTS"}}, sent[0].replies)
	assert.Equal(t, []string{"u1:typing_on"}, env.sender.Actions())

	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.WebhookEventsTotal.WithLabelValues("text", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.DeliveriesTotal.WithLabelValues("message", "ok")))
}

func TestReceive_MenuSelectionAndGreetingSkipTyping(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, "")
	body := `{"object":"page","entry":[{"id":"p","messaging":[
		{"sender":{"id":"u1"},"message":{"mid":"m1","text":"Location","quick_reply":{"payload":"LOCATION"}}},
		{"sender":{"id":"u2"},"postback":{"title":"Get Started","payload":"GET_STARTED"}},
		{"sender":{"id":"u3"},"message":{"mid":"m3","text":"hi"}}
	]}]}`

	require.Equal(t, http.StatusOK, env.post(t, body, "").Code)
	env.drain(t)

	assert.Len(t, env.sender.Sent(), 3)
	assert.Empty(t, env.sender.Actions(), "no typing indicator without AI work")

	env.conv.mu.Lock()
	defer env.conv.mu.Unlock()
	assert.ElementsMatch(t, []bot.Event{
		{UserID: "u1", Kind: bot.KindMenuSelection, Payload: "LOCATION"},
		{UserID: "u2", Kind: bot.KindMenuSelection, Payload: "GET_STARTED"},
		{UserID: "u3", Kind: bot.KindText, Payload: "hi"},
	}, env.conv.events)
}

func TestReceive_Signature(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, "app-secret")

	w := env.post(t, textDelivery, "sha256=deadbeef")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.post(t, textDelivery, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.post(t, textDelivery, messenger.Sign("app-secret", []byte(textDelivery)))
	assert.Equal(t, http.StatusOK, w.Code)
	env.drain(t)

	assert.Len(t, env.sender.Sent(), 1)
	assert.Equal(t, 2.0, testutil.ToFloat64(env.metrics.WebhookEventsTotal.WithLabelValues("delivery", "invalid_signature")))
}

func TestReceive_RejectsBadPayloads(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, "")

	assert.Equal(t, http.StatusBadRequest, env.post(t, `{not json`, "").Code)
	assert.Equal(t, http.StatusNotFound, env.post(t, `{"object":"instagram","entry":[]}`, "").Code)

	oversized := `{"object":"page","pad":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	assert.Equal(t, http.StatusBadRequest, env.post(t, oversized, "").Code)

	env.drain(t)
	assert.Empty(t, env.sender.Sent())
}

func TestReceive_PageWithoutEvents(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, "")

	w := env.post(t, `{"object":"page","entry":[{"id":"p","messaging":[{"sender":{"id":"u1"},"delivery":{}}]}]}`, "")
	assert.Equal(t, http.StatusOK, w.Code)
	env.drain(t)
	assert.Empty(t, env.sender.Sent())
}

func TestReceive_MaxEvents(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, "", WithMaxEvents(2))
	body := `{"object":"page","entry":[{"id":"p","messaging":[
		{"sender":{"id":"u1"},"message":{"text":"LOCATION please"}},
		{"sender":{"id":"u2"},"message":{"text":"LOCATION please"}},
		{"sender":{"id":"u3"},"message":{"text":"LOCATION please"}}
	]}]}`

	require.Equal(t, http.StatusOK, env.post(t, body, "").Code)
	env.drain(t)

	sent := env.sender.Sent()
	require.Len(t, sent, 3, "events past the cap are answered, not dropped")
	bodies := make(map[string]string, len(sent))
	for _, m := range sent {
		bodies[m.recipientID] = m.text
	}
	assert.Equal(t, map[string]string{
		"u1": "echo: LOCATION please",
		"u2": "echo: LOCATION please",
		"u3": slowDownBody,
	}, bodies)

	env.conv.mu.Lock()
	defer env.conv.mu.Unlock()
	assert.Len(t, env.conv.events, 2)
	assert.Equal(t, []string{"u3"}, env.conv.throttled)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.WebhookEventsTotal.WithLabelValues("text", "rate_limited")))
}

func TestReceive_UserRateLimit(t *testing.T) {
	t.Parallel()
	limiter := ratelimit.NewKeyedLimiter(ratelimit.KeyedConfig{Name: "user", Burst: 1, RefillRate: 0.001})
	defer limiter.Stop()
	env := newTestEnv(t, "", WithUserLimiter(limiter))

	require.Equal(t, http.StatusOK, env.post(t, textDelivery, "").Code)
	env.drain(t)
	require.Equal(t, http.StatusOK, env.post(t, textDelivery, "").Code)
	env.drain(t)

	sent := env.sender.Sent()
	require.Len(t, sent, 2, "the over-limit event still gets a reply")
	assert.Equal(t, "echo: what programs do you offer", sent[0].text)
	assert.Equal(t, "u1", sent[1].recipientID)
	assert.Equal(t, slowDownBody, sent[1].text)
	assert.Equal(t, []string{"u1:typing_on"}, env.sender.Actions(), "no typing indicator for a throttled event")

	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.WebhookEventsTotal.WithLabelValues("text", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.WebhookEventsTotal.WithLabelValues("text", "rate_limited")))
}

func TestReceive_NoUserLimiterNeverThrottles(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, "")

	for range 5 {
		require.Equal(t, http.StatusOK, env.post(t, textDelivery, "").Code)
	}
	env.drain(t)

	sent := env.sender.Sent()
	require.Len(t, sent, 5)
	for _, m := range sent {
		assert.Equal(t, "echo: what programs do you offer", m.text)
	}
}

func TestReceive_DeliversAfterProcessTimeout(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, "", WithProcessTimeout(20*time.Millisecond))
	env.conv.slow = true

	start := time.Now()
	require.Equal(t, http.StatusOK, env.post(t, textDelivery, "").Code)
	env.drain(t)

	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	sent := env.sender.Sent()
	require.Len(t, sent, 1, "reply is sent on its own deadline")
	assert.Equal(t, "echo: what programs do you offer", sent[0].text)
	assert.Equal(t, []string{"u1:typing_on"}, env.sender.Actions())
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.WebhookEventsTotal.WithLabelValues("text", "success")))
	assert.Zero(t, testutil.ToFloat64(env.metrics.WebhookEventsTotal.WithLabelValues("text", "delivery_error")))
}

func TestReceive_PanicIsContained(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, "")
	env.conv.panic = true

	require.Equal(t, http.StatusOK, env.post(t, textDelivery, "").Code)
	env.drain(t)

	assert.Empty(t, env.sender.Sent())
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.WebhookEventsTotal.WithLabelValues("text", "panic")))
}

func TestReceive_DeliveryErrors(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, "")
	env.sender.sendErr = &messenger.DeliveryError{StatusCode: http.StatusBadRequest, Graph: messenger.GraphError{Code: 190}}

	require.Equal(t, http.StatusOK, env.post(t, textDelivery, "").Code)
	env.drain(t)

	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.WebhookEventsTotal.WithLabelValues("text", "delivery_error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.DeliveriesTotal.WithLabelValues("message", "auth_error")))
}

func TestShutdown_Timeout(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, "")
	release := make(chan struct{})
	env.handler.wg.Go(func() { <-release })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, env.handler.Shutdown(ctx), context.DeadlineExceeded)

	close(release)
	env.drain(t)
}

func TestNewHandler_RequiresCollaborators(t *testing.T) {
	t.Parallel()
	_, err := NewHandler(HandlerConfig{})
	assert.Error(t, err)
}
