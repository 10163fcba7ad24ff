package types

import (
	"time"

	"github.com/google/uuid"
)

// Document is an ingested contract. The normalized text is immutable once
// written; re-analysis of edited text means a new Document.
type Document struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Text      string    `gorm:"column:text;not null" json:"text"`
	Category  string    `gorm:"column:category" json:"category,omitempty"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Document) TableName() string { return "document" }
