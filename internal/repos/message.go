package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/clausewise/clausewise-backend/internal/logger"
  "github.com/clausewise/clausewise-backend/internal/types"
)

type MessageRepo interface {
  Create(ctx context.Context, tx *gorm.DB, messages []*types.Message) ([]*types.Message, error)
  GetByConversationIDs(ctx context.Context, tx *gorm.DB, conversationIDs []uuid.UUID) ([]*types.Message, error)
  MaxSeq(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID) (int64, error)
}

type messageRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewMessageRepo(db *gorm.DB, baseLog *logger.Logger) MessageRepo {
  repoLog := baseLog.With("repo", "MessageRepo")
  return &messageRepo{db: db, log: repoLog}
}

func (mr *messageRepo) Create(ctx context.Context, tx *gorm.DB, messages []*types.Message) ([]*types.Message, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }

  if len(messages) == 0 {
    return []*types.Message{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&messages).Error; err != nil {
    return nil, err
  }

  return messages, nil
}

func (mr *messageRepo) GetByConversationIDs(ctx context.Context, tx *gorm.DB, conversationIDs []uuid.UUID) ([]*types.Message, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }

  var results []*types.Message

  if len(conversationIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("conversation_id IN ?", conversationIDs).
    Order("seq ASC").
    Find(&results).Error; err != nil {
      return nil, err
  }
  return results, nil
}

func (mr *messageRepo) MaxSeq(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = mr.db
  }

  var maxSeq int64

  if err := transaction.WithContext(ctx).
    Model(&types.Message{}).
    Where("conversation_id = ?", conversationID).
    Select("COALESCE(MAX(seq), 0)").
    Scan(&maxSeq).Error; err != nil {
    return 0, err
  }
  return maxSeq, nil
}
