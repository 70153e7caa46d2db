package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/pedidoz-backend/pkg/enums"
)

// ConversationLog is an append-only record of one handled turn.
type ConversationLog struct {
	ID          uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	WaID        string                  `gorm:"column:wa_id;not null;index"`
	MessageID   string                  `gorm:"column:message_id;not null"`
	UserMessage string                  `gorm:"column:user_message;not null"`
	BotResponse string                  `gorm:"column:bot_response;not null"`
	State       enums.ConversationState `gorm:"column:state;not null"`
	CreatedAt   time.Time               `gorm:"column:created_at;autoCreateTime"`
}
