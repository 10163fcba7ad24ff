package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/clausewise/clausewise-backend/internal/logger"
  "github.com/clausewise/clausewise-backend/internal/types"
)

type ClauseAssessmentRepo interface {
  Create(ctx context.Context, tx *gorm.DB, assessments []*types.ClauseAssessment) ([]*types.ClauseAssessment, error)
  GetByAnalysisIDs(ctx context.Context, tx *gorm.DB, analysisIDs []uuid.UUID) ([]*types.ClauseAssessment, error)
}

type clauseAssessmentRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewClauseAssessmentRepo(db *gorm.DB, baseLog *logger.Logger) ClauseAssessmentRepo {
  repoLog := baseLog.With("repo", "ClauseAssessmentRepo")
  return &clauseAssessmentRepo{db: db, log: repoLog}
}

func (ar *clauseAssessmentRepo) Create(ctx context.Context, tx *gorm.DB, assessments []*types.ClauseAssessment) ([]*types.ClauseAssessment, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }

  if len(assessments) == 0 {
    return []*types.ClauseAssessment{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&assessments).Error; err != nil {
    return nil, err
  }

  return assessments, nil
}

func (ar *clauseAssessmentRepo) GetByAnalysisIDs(ctx context.Context, tx *gorm.DB, analysisIDs []uuid.UUID) ([]*types.ClauseAssessment, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }

  var results []*types.ClauseAssessment

  if len(analysisIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("analysis_id IN ?", analysisIDs).
    Order("clause_position ASC").
    Find(&results).Error; err != nil {
      return nil, err
  }
  return results, nil
}
