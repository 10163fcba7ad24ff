package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/clausewise/clausewise-backend/internal/logger"
  "github.com/clausewise/clausewise-backend/internal/types"
)

type ClauseRepo interface {
  Create(ctx context.Context, tx *gorm.DB, clauses []*types.Clause) ([]*types.Clause, error)
  GetByAnalysisIDs(ctx context.Context, tx *gorm.DB, analysisIDs []uuid.UUID) ([]*types.Clause, error)
}

type clauseRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewClauseRepo(db *gorm.DB, baseLog *logger.Logger) ClauseRepo {
  repoLog := baseLog.With("repo", "ClauseRepo")
  return &clauseRepo{db: db, log: repoLog}
}

func (cr *clauseRepo) Create(ctx context.Context, tx *gorm.DB, clauses []*types.Clause) ([]*types.Clause, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  if len(clauses) == 0 {
    return []*types.Clause{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&clauses).Error; err != nil {
    return nil, err
  }

  return clauses, nil
}

func (cr *clauseRepo) GetByAnalysisIDs(ctx context.Context, tx *gorm.DB, analysisIDs []uuid.UUID) ([]*types.Clause, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  var results []*types.Clause

  if len(analysisIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("analysis_id IN ?", analysisIDs).
    Order("position ASC").
    Find(&results).Error; err != nil {
      return nil, err
  }
  return results, nil
}
