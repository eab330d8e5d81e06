package messenger

import "strings"

// ObjectPage is the only webhook object type the bot subscribes to.
const ObjectPage = "page"

// ParseEvents flattens p into the events the bot answers, in delivery order.
// Echoes of the page's own messages, receipts, and messages without text
// (stickers, attachments) are skipped.
func ParseEvents(p WebhookPayload) []InboundEvent {
	var events []InboundEvent
	for _, entry := range p.Entry {
		for _, m := range entry.Messaging {
			ev, ok := parseMessaging(m)
			if ok {
				events = append(events, ev)
			}
		}
	}
	return events
}

func parseMessaging(m Messaging) (InboundEvent, bool) {
	ev := InboundEvent{SenderID: m.Sender.ID, Timestamp: m.Timestamp}
	if ev.SenderID == "" {
		return ev, false
	}

	switch {
	case m.Postback != nil:
		ev.IsMenuSelection = true
		ev.Payload = m.Postback.Payload
		return ev, strings.TrimSpace(ev.Payload) != ""
	case m.Message != nil:
		if m.Message.IsEcho {
			return ev, false
		}
		ev.MessageID = m.Message.MID
		if qr := m.Message.QuickReply; qr != nil && strings.TrimSpace(qr.Payload) != "" {
			ev.IsMenuSelection = true
			ev.Payload = qr.Payload
			return ev, true
		}
		ev.Text = strings.TrimSpace(m.Message.Text)
		return ev, ev.Text != ""
	default:
		return ev, false
	}
}
