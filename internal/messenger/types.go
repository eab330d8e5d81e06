package messenger

// WebhookPayload is the body Meta posts to the webhook.
type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry groups the messaging events of one page.
type Entry struct {
	ID        string      `json:"id"`
	Time      int64       `json:"time"`
	Messaging []Messaging `json:"messaging"`
}

// Messaging is a single event. Exactly one of Message, Postback or the
// delivery/read receipts is set; only the first two are handled.
type Messaging struct {
	Sender    Participant `json:"sender"`
	Recipient Participant `json:"recipient"`
	Timestamp int64       `json:"timestamp"`
	Message   *Message    `json:"message,omitempty"`
	Postback  *Postback   `json:"postback,omitempty"`
}

// Participant is a page-scoped ID.
type Participant struct {
	ID string `json:"id"`
}

// Message is an inbound message. QuickReply is set when the user tapped
// one of the buttons offered with the previous reply.
type Message struct {
	MID        string             `json:"mid"`
	Text       string             `json:"text"`
	IsEcho     bool               `json:"is_echo,omitempty"`
	QuickReply *QuickReplyPayload `json:"quick_reply,omitempty"`
}

// QuickReplyPayload carries the payload of a tapped quick reply.
type QuickReplyPayload struct {
	Payload string `json:"payload"`
}

// Postback is a tap on a persistent menu item or the Get Started button.
type Postback struct {
	Title   string `json:"title"`
	Payload string `json:"payload"`
}

// SendRequest is the Send API request body.
type SendRequest struct {
	Recipient    Participant  `json:"recipient"`
	Message      *SendMessage `json:"message,omitempty"`
	SenderAction string       `json:"sender_action,omitempty"`
}

// SendMessage is the outbound message content.
type SendMessage struct {
	Text         string       `json:"text"`
	QuickReplies []QuickReply `json:"quick_replies,omitempty"`
}

// QuickReply is a button offered under a message.
type QuickReply struct {
	ContentType string `json:"content_type"`
	Title       string `json:"title"`
	Payload     string `json:"payload"`
}

// SendResponse is the Send API response body.
type SendResponse struct {
	RecipientID string      `json:"recipient_id"`
	MessageID   string      `json:"message_id"`
	Error       *GraphError `json:"error,omitempty"`
}

// GraphError is the error object returned by the Graph API.
type GraphError struct {
	Message      string `json:"message"`
	Type         string `json:"type"`
	Code         int    `json:"code"`
	ErrorSubcode int    `json:"error_subcode"`
	FBTraceID    string `json:"fbtrace_id"`
}

// InboundEvent is a messaging event reduced to what the bot acts on.
type InboundEvent struct {
	SenderID  string
	MessageID string
	Timestamp int64

	// Text is the typed text, empty for menu selections.
	Text string
	// Payload is the quick-reply or postback payload.
	Payload string
	// IsMenuSelection is true for quick-reply taps and postbacks.
	IsMenuSelection bool
}
