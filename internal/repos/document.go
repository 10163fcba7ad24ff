package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/clausewise/clausewise-backend/internal/logger"
  "github.com/clausewise/clausewise-backend/internal/types"
)

type DocumentRepo interface {
  Create(ctx context.Context, tx *gorm.DB, documents []*types.Document) ([]*types.Document, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, documentIDs []uuid.UUID) ([]*types.Document, error)
}

type documentRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewDocumentRepo(db *gorm.DB, baseLog *logger.Logger) DocumentRepo {
  repoLog := baseLog.With("repo", "DocumentRepo")
  return &documentRepo{db: db, log: repoLog}
}

func (dr *documentRepo) Create(ctx context.Context, tx *gorm.DB, documents []*types.Document) ([]*types.Document, error) {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }

  if len(documents) == 0 {
    return []*types.Document{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&documents).Error; err != nil {
    return nil, err
  }

  return documents, nil
}

func (dr *documentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, documentIDs []uuid.UUID) ([]*types.Document, error) {
  transaction := tx
  if transaction == nil {
    transaction = dr.db
  }

  var results []*types.Document

  if len(documentIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", documentIDs).
    Find(&results).Error; err != nil {
      return nil, err
  }
  return results, nil
}
