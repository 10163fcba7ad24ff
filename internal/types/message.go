package types

import (
	"time"

	"github.com/google/uuid"
)

// Message is one turn in a conversation. Rows are immutable once appended
// and ordered by Seq, which is monotonic within a conversation.
type Message struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ConversationID uuid.UUID `gorm:"type:uuid;not null;index:idx_message_conversation_seq,unique" json:"conversation_id"`
	Seq            int64     `gorm:"column:seq;not null;index:idx_message_conversation_seq,unique" json:"seq"`
	Role           Role      `gorm:"column:role;not null" json:"role"`
	Content        string    `gorm:"column:content;not null" json:"content"`
	CreatedAt      time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Message) TableName() string { return "message" }
