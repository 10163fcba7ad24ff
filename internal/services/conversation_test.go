package services

import (
  "context"
  "errors"
  "strings"
  "sync"
  "testing"

  "github.com/google/uuid"

  "github.com/clausewise/clausewise-backend/internal/answer"
  "github.com/clausewise/clausewise-backend/internal/apperr"
  "github.com/clausewise/clausewise-backend/internal/types"
)

func newTestConversationService(t *testing.T, store *fakeStore, generator answer.Generator) ConversationService {
  t.Helper()
  log := testLogger(t)
  if generator == nil {
    generator = answer.NewTemplateGenerator(log)
  }
  return NewConversationService(
    nil,
    log,
    &fakeDocumentRepo{s: store},
    &fakeConversationRepo{s: store},
    &fakeMessageRepo{s: store},
    generator,
  )
}

func seedDocument(store *fakeStore, text string) *types.Document {
  document := &types.Document{ID: uuid.New(), Text: text}
  store.documents[document.ID] = document
  return document
}

func TestCreateConversation(t *testing.T) {
  store := newFakeStore()
  svc := newTestConversationService(t, store, nil)
  document := seedDocument(store, twoClauseContract)

  conversation, err := svc.Create(context.Background(), nil, document.ID)
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if conversation.DocumentID != document.ID {
    t.Fatalf("conversation bound to wrong document")
  }
  if len(conversation.Messages) != 0 {
    t.Fatalf("new conversation should have no messages, got %d", len(conversation.Messages))
  }
}

func TestCreateConversation_UnknownDocument(t *testing.T) {
  svc := newTestConversationService(t, newFakeStore(), nil)
  if _, err := svc.Create(context.Background(), nil, uuid.New()); !errors.Is(err, apperr.ErrDocumentNotFound) {
    t.Fatalf("expected ErrDocumentNotFound, got %v", err)
  }
}

func TestAsk_AppendsOneUserAssistantPair(t *testing.T) {
  store := newFakeStore()
  svc := newTestConversationService(t, store, nil)
  document := seedDocument(store, twoClauseContract)

  conversation, err := svc.Create(context.Background(), nil, document.ID)
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }

  updated, err := svc.Ask(context.Background(), nil, conversation.ID, "What are the termination terms?")
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if len(updated.Messages) != 2 {
    t.Fatalf("expected 2 messages after one ask, got %d", len(updated.Messages))
  }
  if updated.Messages[0].Role != types.RoleUser || updated.Messages[1].Role != types.RoleAssistant {
    t.Fatalf("expected user then assistant, got %q then %q", updated.Messages[0].Role, updated.Messages[1].Role)
  }
  if !strings.Contains(updated.Messages[1].Content, "30 days") {
    t.Fatalf("answer should quote the notice period, got %q", updated.Messages[1].Content)
  }

  updated, err = svc.Ask(context.Background(), nil, conversation.ID, "And confidentiality?")
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if len(updated.Messages) != 4 {
    t.Fatalf("expected 4 messages after two asks, got %d", len(updated.Messages))
  }
  for i, m := range updated.Messages {
    if m.Seq != int64(i+1) {
      t.Fatalf("message %d has seq %d", i, m.Seq)
    }
  }
}

func TestAsk_EmptyQuestion(t *testing.T) {
  store := newFakeStore()
  svc := newTestConversationService(t, store, nil)
  document := seedDocument(store, twoClauseContract)
  conversation, err := svc.Create(context.Background(), nil, document.ID)
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }

  for _, q := range []string{"", "   ", "\n\t"} {
    if _, err := svc.Ask(context.Background(), nil, conversation.ID, q); !errors.Is(err, apperr.ErrEmptyQuestion) {
      t.Fatalf("question %q: expected ErrEmptyQuestion, got %v", q, err)
    }
  }
  if len(store.messages) != 0 {
    t.Fatalf("rejected questions must persist nothing, got %d messages", len(store.messages))
  }
}

func TestAsk_UnknownConversation(t *testing.T) {
  svc := newTestConversationService(t, newFakeStore(), nil)
  if _, err := svc.Ask(context.Background(), nil, uuid.New(), "hello?"); !errors.Is(err, apperr.ErrConversationNotFound) {
    t.Fatalf("expected ErrConversationNotFound, got %v", err)
  }
}

func TestAsk_ConcurrentAsksStayOrdered(t *testing.T) {
  store := newFakeStore()
  svc := newTestConversationService(t, store, nil)
  document := seedDocument(store, twoClauseContract)
  conversation, err := svc.Create(context.Background(), nil, document.ID)
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }

  const askers = 8
  var wg sync.WaitGroup
  for i := 0; i < askers; i++ {
    wg.Add(1)
    go func() {
      defer wg.Done()
      if _, err := svc.Ask(context.Background(), nil, conversation.ID, "What about termination?"); err != nil {
        t.Errorf("ask failed: %v", err)
      }
    }()
  }
  wg.Wait()

  final, err := svc.Get(context.Background(), nil, conversation.ID)
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if len(final.Messages) != askers*2 {
    t.Fatalf("expected %d messages, got %d", askers*2, len(final.Messages))
  }
  for i, m := range final.Messages {
    if m.Seq != int64(i+1) {
      t.Fatalf("message %d has seq %d, history has gaps or duplicates", i, m.Seq)
    }
    wantRole := types.RoleUser
    if i%2 == 1 {
      wantRole = types.RoleAssistant
    }
    if m.Role != wantRole {
      t.Fatalf("message %d has role %q, want %q", i, m.Role, wantRole)
    }
  }
}

func TestAskDirect(t *testing.T) {
  store := newFakeStore()
  svc := newTestConversationService(t, store, nil)
  document := seedDocument(store, twoClauseContract)

  got, err := svc.AskDirect(context.Background(), nil, document.ID, "How can we terminate?")
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }
  if !strings.Contains(got, "30 days") {
    t.Fatalf("answer should quote the notice period, got %q", got)
  }
  if len(store.conversations) != 0 || len(store.messages) != 0 {
    t.Fatalf("direct ask must not persist conversation state")
  }
}

func TestAskDirect_UnknownDocument(t *testing.T) {
  svc := newTestConversationService(t, newFakeStore(), nil)
  if _, err := svc.AskDirect(context.Background(), nil, uuid.New(), "terminate?"); !errors.Is(err, apperr.ErrDocumentNotFound) {
    t.Fatalf("expected ErrDocumentNotFound, got %v", err)
  }
}

func TestAsk_PanickingGeneratorFallsBack(t *testing.T) {
  t.Setenv("ANSWER_MAX_RETRIES", "0")
  store := newFakeStore()
  svc := newTestConversationService(t, store, panicGenerator{})
  document := seedDocument(store, twoClauseContract)
  conversation, err := svc.Create(context.Background(), nil, document.ID)
  if err != nil {
    t.Fatalf("unexpected error: %v", err)
  }

  updated, err := svc.Ask(context.Background(), nil, conversation.ID, "What happens now?")
  if err != nil {
    t.Fatalf("generator crash must not fail the turn: %v", err)
  }
  if updated.Messages[1].Content != answer.Fallback {
    t.Fatalf("expected the fallback answer, got %q", updated.Messages[1].Content)
  }
}
