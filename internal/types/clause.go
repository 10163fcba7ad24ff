package types

import (
	"time"

	"github.com/google/uuid"
)

// Clause is one contiguous unit of contract text produced by a single
// segmentation run. Positions are stable within that run only; a
// re-analysis writes a fresh batch under a new analysis id rather than
// mutating these rows.
type Clause struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DocumentID uuid.UUID `gorm:"type:uuid;not null;index" json:"document_id"`
	Document   *Document `gorm:"constraint:OnDelete:CASCADE;foreignKey:DocumentID;references:ID" json:"document,omitempty"`
	AnalysisID uuid.UUID `gorm:"type:uuid;not null;index" json:"analysis_id"`
	Position   int       `gorm:"column:position;not null" json:"position"`
	Text       string    `gorm:"column:text;not null" json:"text"`
	Heading    string    `gorm:"column:heading" json:"heading,omitempty"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Clause) TableName() string { return "clause" }
