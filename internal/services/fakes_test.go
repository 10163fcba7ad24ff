package services

import (
  "context"
  "errors"
  "sort"
  "sync"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/clausewise/clausewise-backend/internal/risk"
  "github.com/clausewise/clausewise-backend/internal/types"
)

// fakeStore is an in-memory stand-in for the database. The repo fakes built
// on it share one mutex so concurrent service calls exercise the same
// interleavings the real repos would see.
type fakeStore struct {
  mu            sync.Mutex
  documents     map[uuid.UUID]*types.Document
  analyses      []*types.Analysis
  clauses       []*types.Clause
  assessments   []*types.ClauseAssessment
  conversations map[uuid.UUID]*types.Conversation
  messages      []*types.Message
}

func newFakeStore() *fakeStore {
  return &fakeStore{
    documents:     map[uuid.UUID]*types.Document{},
    conversations: map[uuid.UUID]*types.Conversation{},
  }
}

type fakeDocumentRepo struct{ s *fakeStore }

func (r *fakeDocumentRepo) Create(ctx context.Context, tx *gorm.DB, documents []*types.Document) ([]*types.Document, error) {
  r.s.mu.Lock()
  defer r.s.mu.Unlock()
  for _, d := range documents {
    r.s.documents[d.ID] = d
  }
  return documents, nil
}

func (r *fakeDocumentRepo) GetByIDs(ctx context.Context, tx *gorm.DB, documentIDs []uuid.UUID) ([]*types.Document, error) {
  r.s.mu.Lock()
  defer r.s.mu.Unlock()
  var out []*types.Document
  for _, id := range documentIDs {
    if d, ok := r.s.documents[id]; ok {
      out = append(out, d)
    }
  }
  return out, nil
}

type fakeAnalysisRepo struct{ s *fakeStore }

func (r *fakeAnalysisRepo) Create(ctx context.Context, tx *gorm.DB, analyses []*types.Analysis) ([]*types.Analysis, error) {
  r.s.mu.Lock()
  defer r.s.mu.Unlock()
  r.s.analyses = append(r.s.analyses, analyses...)
  return analyses, nil
}

func (r *fakeAnalysisRepo) GetByIDs(ctx context.Context, tx *gorm.DB, analysisIDs []uuid.UUID) ([]*types.Analysis, error) {
  r.s.mu.Lock()
  defer r.s.mu.Unlock()
  var out []*types.Analysis
  for _, id := range analysisIDs {
    for _, a := range r.s.analyses {
      if a.ID == id {
        out = append(out, a)
      }
    }
  }
  return out, nil
}

func (r *fakeAnalysisRepo) GetLatestByDocumentID(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) (*types.Analysis, error) {
  r.s.mu.Lock()
  defer r.s.mu.Unlock()
  for i := len(r.s.analyses) - 1; i >= 0; i-- {
    if r.s.analyses[i].DocumentID == documentID {
      return r.s.analyses[i], nil
    }
  }
  return nil, nil
}

type fakeClauseRepo struct{ s *fakeStore }

func (r *fakeClauseRepo) Create(ctx context.Context, tx *gorm.DB, clauses []*types.Clause) ([]*types.Clause, error) {
  r.s.mu.Lock()
  defer r.s.mu.Unlock()
  r.s.clauses = append(r.s.clauses, clauses...)
  return clauses, nil
}

func (r *fakeClauseRepo) GetByAnalysisIDs(ctx context.Context, tx *gorm.DB, analysisIDs []uuid.UUID) ([]*types.Clause, error) {
  r.s.mu.Lock()
  defer r.s.mu.Unlock()
  var out []*types.Clause
  for _, id := range analysisIDs {
    for _, c := range r.s.clauses {
      if c.AnalysisID == id {
        out = append(out, c)
      }
    }
  }
  sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
  return out, nil
}

type fakeAssessmentRepo struct{ s *fakeStore }

func (r *fakeAssessmentRepo) Create(ctx context.Context, tx *gorm.DB, assessments []*types.ClauseAssessment) ([]*types.ClauseAssessment, error) {
  r.s.mu.Lock()
  defer r.s.mu.Unlock()
  r.s.assessments = append(r.s.assessments, assessments...)
  return assessments, nil
}

func (r *fakeAssessmentRepo) GetByAnalysisIDs(ctx context.Context, tx *gorm.DB, analysisIDs []uuid.UUID) ([]*types.ClauseAssessment, error) {
  r.s.mu.Lock()
  defer r.s.mu.Unlock()
  var out []*types.ClauseAssessment
  for _, id := range analysisIDs {
    for _, a := range r.s.assessments {
      if a.AnalysisID == id {
        out = append(out, a)
      }
    }
  }
  sort.Slice(out, func(i, j int) bool { return out[i].ClausePosition < out[j].ClausePosition })
  return out, nil
}

type fakeConversationRepo struct{ s *fakeStore }

func (r *fakeConversationRepo) Create(ctx context.Context, tx *gorm.DB, conversations []*types.Conversation) ([]*types.Conversation, error) {
  r.s.mu.Lock()
  defer r.s.mu.Unlock()
  for _, c := range conversations {
    r.s.conversations[c.ID] = c
  }
  return conversations, nil
}

func (r *fakeConversationRepo) GetByIDs(ctx context.Context, tx *gorm.DB, conversationIDs []uuid.UUID) ([]*types.Conversation, error) {
  r.s.mu.Lock()
  defer r.s.mu.Unlock()
  var out []*types.Conversation
  for _, id := range conversationIDs {
    if c, ok := r.s.conversations[id]; ok {
      copied := *c
      out = append(out, &copied)
    }
  }
  return out, nil
}

func (r *fakeConversationRepo) GetByDocumentIDs(ctx context.Context, tx *gorm.DB, documentIDs []uuid.UUID) ([]*types.Conversation, error) {
  r.s.mu.Lock()
  defer r.s.mu.Unlock()
  var out []*types.Conversation
  for _, id := range documentIDs {
    for _, c := range r.s.conversations {
      if c.DocumentID == id {
        copied := *c
        out = append(out, &copied)
      }
    }
  }
  return out, nil
}

func (r *fakeConversationRepo) Touch(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID, at time.Time) error {
  r.s.mu.Lock()
  defer r.s.mu.Unlock()
  c, ok := r.s.conversations[conversationID]
  if !ok {
    return errors.New("conversation not found")
  }
  c.UpdatedAt = at
  return nil
}

type fakeMessageRepo struct{ s *fakeStore }

func (r *fakeMessageRepo) Create(ctx context.Context, tx *gorm.DB, messages []*types.Message) ([]*types.Message, error) {
  r.s.mu.Lock()
  defer r.s.mu.Unlock()
  for _, m := range messages {
    for _, existing := range r.s.messages {
      if existing.ConversationID == m.ConversationID && existing.Seq == m.Seq {
        return nil, errors.New("duplicate seq for conversation")
      }
    }
    r.s.messages = append(r.s.messages, m)
  }
  return messages, nil
}

func (r *fakeMessageRepo) GetByConversationIDs(ctx context.Context, tx *gorm.DB, conversationIDs []uuid.UUID) ([]*types.Message, error) {
  r.s.mu.Lock()
  defer r.s.mu.Unlock()
  var out []*types.Message
  for _, id := range conversationIDs {
    for _, m := range r.s.messages {
      if m.ConversationID == id {
        out = append(out, m)
      }
    }
  }
  sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
  return out, nil
}

func (r *fakeMessageRepo) MaxSeq(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID) (int64, error) {
  r.s.mu.Lock()
  defer r.s.mu.Unlock()
  var max int64
  for _, m := range r.s.messages {
    if m.ConversationID == conversationID && m.Seq > max {
      max = m.Seq
    }
  }
  return max, nil
}

// failingClassifier errors on every call so degradation paths can be tested.
type failingClassifier struct{}

func (failingClassifier) Classify(ctx context.Context, clauseText string, category string) (risk.Assessment, error) {
  return risk.Assessment{}, errors.New("classifier unavailable")
}

// panicGenerator simulates a crashing answer backend.
type panicGenerator struct{}

func (panicGenerator) Answer(ctx context.Context, documentText string, category string, history []*types.Message, question string) (string, error) {
  panic("generator crashed")
}
