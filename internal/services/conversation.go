package services

import (
  "context"
  "fmt"
  "strings"
  "sync"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/clausewise/clausewise-backend/internal/answer"
  "github.com/clausewise/clausewise-backend/internal/apperr"
  "github.com/clausewise/clausewise-backend/internal/logger"
  "github.com/clausewise/clausewise-backend/internal/repos"
  "github.com/clausewise/clausewise-backend/internal/types"
  "github.com/clausewise/clausewise-backend/internal/utils"
)

type ConversationService interface {
  Create(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) (*types.Conversation, error)
  Get(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID) (*types.Conversation, error)
  Ask(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID, question string) (*types.Conversation, error)
  AskDirect(ctx context.Context, tx *gorm.DB, documentID uuid.UUID, question string) (string, error)
}

// conversationLocks hands out one mutex per conversation id so appends to
// the same conversation serialize while independent conversations proceed
// concurrently.
type conversationLocks struct {
  mu    sync.Mutex
  locks map[uuid.UUID]*sync.Mutex
}

func newConversationLocks() *conversationLocks {
  return &conversationLocks{locks: map[uuid.UUID]*sync.Mutex{}}
}

func (cl *conversationLocks) get(conversationID uuid.UUID) *sync.Mutex {
  cl.mu.Lock()
  defer cl.mu.Unlock()
  lock, ok := cl.locks[conversationID]
  if !ok {
    lock = &sync.Mutex{}
    cl.locks[conversationID] = lock
  }
  return lock
}

type conversationService struct {
  db               *gorm.DB
  log              *logger.Logger
  documentRepo     repos.DocumentRepo
  conversationRepo repos.ConversationRepo
  messageRepo      repos.MessageRepo
  generator        answer.Generator
  locks            *conversationLocks

  answerTimeout time.Duration
  maxRetries    int
}

func NewConversationService(
  db *gorm.DB,
  baseLog *logger.Logger,
  documentRepo repos.DocumentRepo,
  conversationRepo repos.ConversationRepo,
  messageRepo repos.MessageRepo,
  generator answer.Generator,
) ConversationService {
  serviceLog := baseLog.With("service", "ConversationService")
  answerTimeout := utils.GetEnvAsInt("ANSWER_TIMEOUT_SECONDS", 30, serviceLog)
  maxRetries := utils.GetEnvAsInt("ANSWER_MAX_RETRIES", 2, serviceLog)
  return &conversationService{
    db:               db,
    log:              serviceLog,
    documentRepo:     documentRepo,
    conversationRepo: conversationRepo,
    messageRepo:      messageRepo,
    generator:        generator,
    locks:            newConversationLocks(),
    answerTimeout:    time.Duration(answerTimeout) * time.Second,
    maxRetries:       maxRetries,
  }
}

func (cs *conversationService) Create(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) (*types.Conversation, error) {
  documents, err := cs.documentRepo.GetByIDs(ctx, tx, []uuid.UUID{documentID})
  if err != nil {
    return nil, fmt.Errorf("get document: %w", err)
  }
  if len(documents) == 0 || documents[0] == nil {
    return nil, apperr.ErrDocumentNotFound
  }

  now := time.Now()
  conversation := &types.Conversation{
    ID:         uuid.New(),
    DocumentID: documentID,
    CreatedAt:  now,
    UpdatedAt:  now,
  }
  if _, err := cs.conversationRepo.Create(ctx, tx, []*types.Conversation{conversation}); err != nil {
    cs.log.Error("Create conversation failed", "error", err, "document_id", documentID)
    return nil, fmt.Errorf("create conversation: %w", err)
  }
  conversation.Messages = []*types.Message{}
  return conversation, nil
}

func (cs *conversationService) Get(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID) (*types.Conversation, error) {
  conversations, err := cs.conversationRepo.GetByIDs(ctx, tx, []uuid.UUID{conversationID})
  if err != nil {
    return nil, fmt.Errorf("get conversation: %w", err)
  }
  if len(conversations) == 0 || conversations[0] == nil {
    return nil, apperr.ErrConversationNotFound
  }
  conversation := conversations[0]

  messages, err := cs.messageRepo.GetByConversationIDs(ctx, tx, []uuid.UUID{conversationID})
  if err != nil {
    return nil, fmt.Errorf("get messages: %w", err)
  }
  conversation.Messages = messages
  return conversation, nil
}

// Ask appends one user/assistant message pair as a single logical
// transaction: answer generation happens first, then both rows commit
// together, so readers never observe a dangling user message. Calls for the
// same conversation id are serialized.
func (cs *conversationService) Ask(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID, question string) (*types.Conversation, error) {
  question = strings.TrimSpace(question)
  if question == "" {
    return nil, apperr.ErrEmptyQuestion
  }

  lock := cs.locks.get(conversationID)
  lock.Lock()
  defer lock.Unlock()

  conversation, err := cs.Get(ctx, tx, conversationID)
  if err != nil {
    return nil, err
  }

  documents, err := cs.documentRepo.GetByIDs(ctx, tx, []uuid.UUID{conversation.DocumentID})
  if err != nil {
    return nil, fmt.Errorf("get document: %w", err)
  }
  if len(documents) == 0 || documents[0] == nil {
    return nil, apperr.ErrDocumentNotFound
  }
  document := documents[0]

  answerText := cs.answerWithRetry(ctx, document.Text, document.Category, conversation.Messages, question)

  now := time.Now()
  userMessage := &types.Message{
    ID:             uuid.New(),
    ConversationID: conversationID,
    Role:           types.RoleUser,
    Content:        question,
    CreatedAt:      now,
  }
  assistantMessage := &types.Message{
    ID:             uuid.New(),
    ConversationID: conversationID,
    Role:           types.RoleAssistant,
    Content:        answerText,
    CreatedAt:      now,
  }

  err = runInTx(ctx, cs.db, tx, func(t *gorm.DB) error {
    maxSeq, err := cs.messageRepo.MaxSeq(ctx, t, conversationID)
    if err != nil {
      return fmt.Errorf("max seq: %w", err)
    }
    userMessage.Seq = maxSeq + 1
    assistantMessage.Seq = maxSeq + 2
    if _, err := cs.messageRepo.Create(ctx, t, []*types.Message{userMessage, assistantMessage}); err != nil {
      return fmt.Errorf("append messages: %w", err)
    }
    if err := cs.conversationRepo.Touch(ctx, t, conversationID, now); err != nil {
      return fmt.Errorf("touch conversation: %w", err)
    }
    return nil
  })
  if err != nil {
    cs.log.Error("Ask persistence failed", "error", err, "conversation_id", conversationID)
    return nil, err
  }

  conversation.Messages = append(conversation.Messages, userMessage, assistantMessage)
  conversation.UpdatedAt = now
  return conversation, nil
}

// AskDirect answers a one-off question with empty history and persists
// nothing. Given the same empty history it behaves exactly like Ask on a
// fresh conversation.
func (cs *conversationService) AskDirect(ctx context.Context, tx *gorm.DB, documentID uuid.UUID, question string) (string, error) {
  question = strings.TrimSpace(question)
  if question == "" {
    return "", apperr.ErrEmptyQuestion
  }

  documents, err := cs.documentRepo.GetByIDs(ctx, tx, []uuid.UUID{documentID})
  if err != nil {
    return "", fmt.Errorf("get document: %w", err)
  }
  if len(documents) == 0 || documents[0] == nil {
    return "", apperr.ErrDocumentNotFound
  }
  document := documents[0]

  return cs.answerWithRetry(ctx, document.Text, document.Category, nil, question), nil
}

// answerWithRetry never surfaces a failure: transient generator errors are
// retried with jittered backoff and anything worse falls back to the
// generic answer, so a failed turn cannot corrupt conversation state.
func (cs *conversationService) answerWithRetry(ctx context.Context, documentText string, category string, history []*types.Message, question string) (result string) {
  defer func() {
    if r := recover(); r != nil {
      cs.log.Error("Answer generation panicked", "panic", fmt.Sprint(r))
      result = answer.Fallback
    }
  }()

  backoff := 500 * time.Millisecond
  var lastErr error

  for attempt := 0; attempt <= cs.maxRetries; attempt++ {
    attemptCtx, cancel := context.WithTimeout(ctx, cs.answerTimeout)
    text, err := cs.generator.Answer(attemptCtx, documentText, category, history, question)
    cancel()
    if err == nil && strings.TrimSpace(text) != "" {
      return text
    }
    if err == nil {
      err = fmt.Errorf("generator returned empty answer")
    }
    lastErr = err
    if ctx.Err() != nil {
      break
    }
    if attempt < cs.maxRetries {
      sleepFor := jitterSleep(capBackoff(backoff))
      cs.log.Warn("Answer generation retrying",
        "attempt", attempt+1,
        "max_retries", cs.maxRetries,
        "sleep", sleepFor.String(),
        "error", err.Error(),
      )
      time.Sleep(sleepFor)
      backoff *= 2
    }
  }

  cs.log.Warn("Answer generation degraded to fallback",
    "error", fmt.Errorf("%w: %v", apperr.ErrAnswerTimeout, lastErr).Error(),
  )
  return answer.Fallback
}
