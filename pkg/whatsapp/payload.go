package whatsapp

import "strings"

const (
	// MaxReplyButtons is the Cloud API limit for reply buttons per message.
	MaxReplyButtons = 3
	// MaxListRows is the Cloud API limit for list rows per message.
	MaxListRows = 10
)

// ReplyButton is one tappable option on an interactive button message.
type ReplyButton struct {
	ID    string
	Title string
}

// ListRow is one selectable row on an interactive list message.
type ListRow struct {
	ID          string
	Title       string
	Description string
}

// Notification mirrors the webhook envelope the Cloud API delivers.
type Notification struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

type Change struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

type ChangeValue struct {
	MessagingProduct string    `json:"messaging_product"`
	Messages         []Message `json:"messages"`
	Statuses         []Status  `json:"statuses"`
}

// Message is one inbound user message.
type Message struct {
	From        string       `json:"from"`
	ID          string       `json:"id"`
	Timestamp   string       `json:"timestamp"`
	Type        string       `json:"type"`
	Text        *TextBody    `json:"text,omitempty"`
	Interactive *Interactive `json:"interactive,omitempty"`
}

type TextBody struct {
	Body string `json:"body"`
}

type Interactive struct {
	Type        string     `json:"type"`
	ButtonReply *ReplyInfo `json:"button_reply,omitempty"`
	ListReply   *ReplyInfo `json:"list_reply,omitempty"`
}

type ReplyInfo struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Status is a delivery receipt; the bot ignores these.
type Status struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Inbound is the normalized view of one user turn extracted from a
// notification: who sent it, the message ID, and the effective text. For
// interactive replies the effective text is the tapped option's ID.
type Inbound struct {
	WaID      string
	MessageID string
	Text      string
	Supported bool
}

// FirstInbound pulls the first user message out of a webhook notification.
// It returns false when the notification carries no messages (delivery
// receipts, unrelated objects).
func FirstInbound(n Notification) (Inbound, bool) {
	if n.Object != "whatsapp_business_account" {
		return Inbound{}, false
	}
	for _, entry := range n.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				return normalizeMessage(msg), true
			}
		}
	}
	return Inbound{}, false
}

func normalizeMessage(msg Message) Inbound {
	inbound := Inbound{
		WaID:      msg.From,
		MessageID: msg.ID,
	}
	switch msg.Type {
	case "text":
		if msg.Text != nil {
			inbound.Text = strings.ToLower(strings.TrimSpace(msg.Text.Body))
			inbound.Supported = true
		}
	case "interactive":
		if msg.Interactive == nil {
			return inbound
		}
		switch msg.Interactive.Type {
		case "button_reply":
			if msg.Interactive.ButtonReply != nil {
				inbound.Text = msg.Interactive.ButtonReply.ID
				inbound.Supported = true
			}
		case "list_reply":
			if msg.Interactive.ListReply != nil {
				inbound.Text = msg.Interactive.ListReply.ID
				inbound.Supported = true
			}
		}
	}
	return inbound
}
