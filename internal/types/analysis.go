package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SummaryPoint is one plain-language bullet in an analysis summary. The
// severity tag is display metadata derived from the assessments that
// justify the point; the ClauseAssessment rows stay the source of truth.
type SummaryPoint struct {
	Text           string    `json:"text"`
	Severity       RiskLevel `json:"severity"`
	ClausePosition *int      `json:"clause_position,omitempty"`
}

// Analysis is the immutable output of one segmentation+classification run.
// A re-analysis creates a new row; nothing here is updated in place.
type Analysis struct {
	ID                   uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DocumentID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"document_id"`
	Document             *Document      `gorm:"constraint:OnDelete:CASCADE;foreignKey:DocumentID;references:ID" json:"document,omitempty"`
	RiskLevel            RiskLevel      `gorm:"column:risk_level;not null" json:"risk_level"`
	RiskyClausePositions datatypes.JSON `gorm:"column:risky_clause_positions;type:jsonb" json:"risky_clause_positions"`
	SummaryPoints        datatypes.JSON `gorm:"column:summary_points;type:jsonb" json:"summary_points"`
	Rationale            string         `gorm:"column:rationale" json:"rationale"`
	ClauseCount          int            `gorm:"column:clause_count;not null" json:"clause_count"`
	CreatedAt            time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt            time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Analysis) TableName() string { return "analysis" }
