package types

import (
	"time"

	"github.com/google/uuid"
)

// ClauseAssessment is the per-clause risk verdict for one analysis run.
// Exactly one row exists per (analysis, clause position) pair.
type ClauseAssessment struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AnalysisID     uuid.UUID `gorm:"type:uuid;not null;index:idx_assessment_analysis_position,unique" json:"analysis_id"`
	ClausePosition int       `gorm:"column:clause_position;not null;index:idx_assessment_analysis_position,unique" json:"clause_position"`
	RiskLevel      RiskLevel `gorm:"column:risk_level;not null" json:"risk_level"`
	Rationale      string    `gorm:"column:rationale;not null" json:"rationale"`
	Suggestion     string    `gorm:"column:suggestion" json:"suggestion,omitempty"`
	CreatedAt      time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (ClauseAssessment) TableName() string { return "clause_assessment" }
