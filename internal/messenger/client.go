// Package messenger talks to the Facebook Messenger platform: it parses
// webhook payloads, checks their signature and delivers replies through the
// Graph Send API.
package messenger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sjc-hospitality/hestia-bot/internal/ratelimit"
)

const (
	// DefaultGraphAPIBase is the versioned Graph API root.
	DefaultGraphAPIBase = "https://graph.facebook.com/v19.0"
	defaultHTTPTimeout  = 10 * time.Second

	// Platform limits.
	MaxTextRunes       = 2000
	MaxQuickReplies    = 13
	MaxQuickReplyTitle = 20

	// ActionTypingOn shows the typing indicator.
	ActionTypingOn = "typing_on"

	contentTypeText = "text"
	maxErrorBody    = 4096
)

// authErrorCode is the Graph API code for an invalid or expired token.
const authErrorCode = 190

// DeliveryError is a Send API call the platform rejected.
type DeliveryError struct {
	StatusCode int
	Graph      GraphError
}

func (e *DeliveryError) Error() string {
	if e.Graph.Message != "" {
		return fmt.Sprintf("messenger: send failed (status %d, code %d): %s", e.StatusCode, e.Graph.Code, e.Graph.Message)
	}
	return fmt.Sprintf("messenger: send failed (status %d)", e.StatusCode)
}

// IsAuthError reports a page token problem. Every later send will fail the
// same way until the token is replaced.
func (e *DeliveryError) IsAuthError() bool {
	return e.Graph.Code == authErrorCode ||
		e.StatusCode == http.StatusUnauthorized ||
		e.StatusCode == http.StatusForbidden
}

// IsRequestError reports a rejection of this particular request, such as a
// recipient who can no longer be messaged. A Graph error body counts even
// when it arrives with a non-4xx status below 500.
func (e *DeliveryError) IsRequestError() bool {
	if e.IsAuthError() || e.StatusCode >= 500 {
		return false
	}
	return e.Graph.Code != 0 || e.StatusCode >= 400
}

// Kind returns the metric label for the error.
func (e *DeliveryError) Kind() string {
	switch {
	case e.IsAuthError():
		return "auth_error"
	case e.IsRequestError():
		return "request_error"
	default:
		return "server_error"
	}
}

// ErrorKind labels any error returned by Client for metrics.
func ErrorKind(err error) string {
	if err == nil {
		return "ok"
	}
	var de *DeliveryError
	if errors.As(err, &de) {
		return de.Kind()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "transport_error"
}

// Client sends messages through the Graph Send API.
type Client struct {
	pageAccessToken string
	graphAPIBase    string
	httpClient      *http.Client
	limiter         *ratelimit.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithGraphAPIBase overrides the Graph API root, mainly for tests.
func WithGraphAPIBase(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.graphAPIBase = strings.TrimRight(base, "/")
		}
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLimiter makes every call wait for a token from l first.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// NewClient creates a Send API client for one page.
func NewClient(pageAccessToken string, opts ...Option) *Client {
	c := &Client{
		pageAccessToken: pageAccessToken,
		graphAPIBase:    DefaultGraphAPIBase,
		httpClient:      &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SendText delivers text with optional quick replies to recipientID.
// Text and titles are truncated to the platform limits and extra quick
// replies are dropped.
func (c *Client) SendText(ctx context.Context, recipientID, text string, replies []QuickReply) (*SendResponse, error) {
	return c.send(ctx, SendRequest{
		Recipient: Participant{ID: recipientID},
		Message: &SendMessage{
			Text:         truncateRunes(text, MaxTextRunes),
			QuickReplies: normalizeQuickReplies(replies),
		},
	})
}

// SendAction sends a sender action such as ActionTypingOn.
func (c *Client) SendAction(ctx context.Context, recipientID, action string) error {
	_, err := c.send(ctx, SendRequest{
		Recipient:    Participant{ID: recipientID},
		SenderAction: action,
	})
	return err
}

// TextQuickReply builds a text quick reply.
func TextQuickReply(title, payload string) QuickReply {
	return QuickReply{ContentType: contentTypeText, Title: title, Payload: payload}
}

func (c *Client) send(ctx context.Context, req SendRequest) (*SendResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("messenger: waiting for send limiter: %w", err)
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("messenger: marshal send request: %w", err)
	}

	endpoint := c.graphAPIBase + "/me/messages?" + url.Values{"access_token": {c.pageAccessToken}}.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("messenger: create request: %w", redact(err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("messenger: send message: %w", redact(err))
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return nil, fmt.Errorf("messenger: read response: %w", err)
	}

	var sendResp SendResponse
	_ = json.Unmarshal(respBody, &sendResp)

	if sendResp.Error != nil || resp.StatusCode != http.StatusOK {
		de := &DeliveryError{StatusCode: resp.StatusCode}
		if sendResp.Error != nil {
			de.Graph = *sendResp.Error
		}
		return &sendResp, de
	}
	return &sendResp, nil
}

// redact strips the request URL, which carries the access token, from
// transport errors.
func redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s: %w", urlErr.Op, urlErr.Err)
	}
	return err
}

func normalizeQuickReplies(replies []QuickReply) []QuickReply {
	if len(replies) == 0 {
		return nil
	}
	n := min(len(replies), MaxQuickReplies)
	out := make([]QuickReply, n)
	for i, qr := range replies[:n] {
		if qr.ContentType == "" {
			qr.ContentType = contentTypeText
		}
		qr.Title = truncateRunes(qr.Title, MaxQuickReplyTitle)
		out[i] = qr
	}
	return out
}

func truncateRunes(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
