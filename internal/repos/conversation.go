package repos

import (
  "context"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/clausewise/clausewise-backend/internal/logger"
  "github.com/clausewise/clausewise-backend/internal/types"
)

type ConversationRepo interface {
  Create(ctx context.Context, tx *gorm.DB, conversations []*types.Conversation) ([]*types.Conversation, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, conversationIDs []uuid.UUID) ([]*types.Conversation, error)
  GetByDocumentIDs(ctx context.Context, tx *gorm.DB, documentIDs []uuid.UUID) ([]*types.Conversation, error)
  Touch(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID, at time.Time) error
}

type conversationRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewConversationRepo(db *gorm.DB, baseLog *logger.Logger) ConversationRepo {
  repoLog := baseLog.With("repo", "ConversationRepo")
  return &conversationRepo{db: db, log: repoLog}
}

func (cr *conversationRepo) Create(ctx context.Context, tx *gorm.DB, conversations []*types.Conversation) ([]*types.Conversation, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  if len(conversations) == 0 {
    return []*types.Conversation{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&conversations).Error; err != nil {
    return nil, err
  }

  return conversations, nil
}

func (cr *conversationRepo) GetByIDs(ctx context.Context, tx *gorm.DB, conversationIDs []uuid.UUID) ([]*types.Conversation, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  var results []*types.Conversation

  if len(conversationIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", conversationIDs).
    Find(&results).Error; err != nil {
      return nil, err
  }
  return results, nil
}

func (cr *conversationRepo) GetByDocumentIDs(ctx context.Context, tx *gorm.DB, documentIDs []uuid.UUID) ([]*types.Conversation, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  var results []*types.Conversation

  if len(documentIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("document_id IN ?", documentIDs).
    Order("created_at ASC").
    Find(&results).Error; err != nil {
      return nil, err
  }
  return results, nil
}

func (cr *conversationRepo) Touch(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID, at time.Time) error {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  return transaction.WithContext(ctx).
    Model(&types.Conversation{}).
    Where("id = ?", conversationID).
    Update("updated_at", at).Error
}
