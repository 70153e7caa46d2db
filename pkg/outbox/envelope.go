package outbox

import (
	"encoding/json"
	"time"
)

// ActorRef identifies who produced the event. For this bot the actor is the
// WhatsApp user driving the conversation.
type ActorRef struct {
	WaID string `json:"waId"`
}

// PayloadEnvelope is the stable payload structure stored in outbox_events.
type PayloadEnvelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	OccurredAt time.Time       `json:"occurredAt"`
	Actor      *ActorRef       `json:"actor,omitempty"`
	Data       json.RawMessage `json:"data"`
}
