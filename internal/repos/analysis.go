package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/clausewise/clausewise-backend/internal/logger"
  "github.com/clausewise/clausewise-backend/internal/types"
)

type AnalysisRepo interface {
  Create(ctx context.Context, tx *gorm.DB, analyses []*types.Analysis) ([]*types.Analysis, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, analysisIDs []uuid.UUID) ([]*types.Analysis, error)
  GetLatestByDocumentID(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) (*types.Analysis, error)
}

type analysisRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewAnalysisRepo(db *gorm.DB, baseLog *logger.Logger) AnalysisRepo {
  repoLog := baseLog.With("repo", "AnalysisRepo")
  return &analysisRepo{db: db, log: repoLog}
}

func (ar *analysisRepo) Create(ctx context.Context, tx *gorm.DB, analyses []*types.Analysis) ([]*types.Analysis, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }

  if len(analyses) == 0 {
    return []*types.Analysis{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&analyses).Error; err != nil {
    return nil, err
  }

  return analyses, nil
}

func (ar *analysisRepo) GetByIDs(ctx context.Context, tx *gorm.DB, analysisIDs []uuid.UUID) ([]*types.Analysis, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }

  var results []*types.Analysis

  if len(analysisIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", analysisIDs).
    Find(&results).Error; err != nil {
      return nil, err
  }
  return results, nil
}

func (ar *analysisRepo) GetLatestByDocumentID(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) (*types.Analysis, error) {
  transaction := tx
  if transaction == nil {
    transaction = ar.db
  }

  var result types.Analysis

  err := transaction.WithContext(ctx).
    Where("document_id = ?", documentID).
    Order("created_at DESC").
    First(&result).Error
  if err != nil {
    if errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, nil
    }
    return nil, err
  }
  return &result, nil
}
