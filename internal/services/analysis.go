package services

import (
  "context"
  "encoding/json"
  "fmt"
  "time"

  "github.com/google/uuid"
  "golang.org/x/sync/errgroup"
  "gorm.io/gorm"

  "github.com/clausewise/clausewise-backend/internal/apperr"
  redisclient "github.com/clausewise/clausewise-backend/internal/clients/redis"
  "github.com/clausewise/clausewise-backend/internal/logger"
  "github.com/clausewise/clausewise-backend/internal/normalization"
  "github.com/clausewise/clausewise-backend/internal/repos"
  "github.com/clausewise/clausewise-backend/internal/risk"
  "github.com/clausewise/clausewise-backend/internal/segmentation"
  "github.com/clausewise/clausewise-backend/internal/types"
  "github.com/clausewise/clausewise-backend/internal/utils"
)

type AnalysisService interface {
  SegmentAndAnalyze(ctx context.Context, tx *gorm.DB, text string, category string) (*types.Analysis, error)
  GetDocument(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) (*types.Document, error)
  GetLatestAnalysis(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) (*types.Analysis, error)
  ListClauseAssessments(ctx context.Context, tx *gorm.DB, analysisID uuid.UUID) ([]*types.ClauseAssessment, error)
}

type analysisService struct {
  db             *gorm.DB
  log            *logger.Logger
  documentRepo   repos.DocumentRepo
  clauseRepo     repos.ClauseRepo
  analysisRepo   repos.AnalysisRepo
  assessmentRepo repos.ClauseAssessmentRepo
  classifier     risk.Classifier
  cache          redisclient.AnalysisCache

  maxConcurrency  int
  classifyTimeout time.Duration
  maxRetries      int
}

func NewAnalysisService(
  db *gorm.DB,
  baseLog *logger.Logger,
  documentRepo repos.DocumentRepo,
  clauseRepo repos.ClauseRepo,
  analysisRepo repos.AnalysisRepo,
  assessmentRepo repos.ClauseAssessmentRepo,
  classifier risk.Classifier,
  cache redisclient.AnalysisCache,
) AnalysisService {
  serviceLog := baseLog.With("service", "AnalysisService")
  maxConcurrency := utils.GetEnvAsInt("ANALYZE_MAX_CONCURRENCY", 4, serviceLog)
  classifyTimeout := utils.GetEnvAsInt("CLASSIFY_TIMEOUT_SECONDS", 10, serviceLog)
  maxRetries := utils.GetEnvAsInt("CLASSIFY_MAX_RETRIES", 2, serviceLog)
  return &analysisService{
    db:              db,
    log:             serviceLog,
    documentRepo:    documentRepo,
    clauseRepo:      clauseRepo,
    analysisRepo:    analysisRepo,
    assessmentRepo:  assessmentRepo,
    classifier:      classifier,
    cache:           cache,
    maxConcurrency:  maxConcurrency,
    classifyTimeout: time.Duration(classifyTimeout) * time.Second,
    maxRetries:      maxRetries,
  }
}

// SegmentAndAnalyze runs the full pipeline: normalize, segment, classify
// each clause, aggregate, persist one immutable analysis run. Concurrent
// calls for the same document each produce their own run.
func (as *analysisService) SegmentAndAnalyze(ctx context.Context, tx *gorm.DB, text string, category string) (*types.Analysis, error) {
  normalized, err := normalization.NormalizeDocument(text)
  if err != nil {
    return nil, err
  }
  category = normalization.ParseInputString(category)

  clauses := segmentation.Segment(normalized)
  as.log.Debug("Segmented document", "clause_count", len(clauses))

  assessments, err := as.classifyAll(ctx, clauses, category)
  if err != nil {
    return nil, err
  }

  assessed := make([]risk.Assessed, 0, len(clauses))
  for i, clause := range clauses {
    assessed = append(assessed, risk.Assessed{
      Position:   clause.Position,
      Heading:    clause.Heading,
      Assessment: assessments[i],
    })
  }
  summary := risk.Aggregate(assessed)

  positionsJSON, err := json.Marshal(summary.RiskyPositions)
  if err != nil {
    return nil, fmt.Errorf("marshal risky positions: %w", err)
  }
  pointsJSON, err := json.Marshal(summary.Points)
  if err != nil {
    return nil, fmt.Errorf("marshal summary points: %w", err)
  }

  now := time.Now()
  document := &types.Document{
    ID:        uuid.New(),
    Text:      normalized,
    Category:  category,
    CreatedAt: now,
    UpdatedAt: now,
  }
  analysis := &types.Analysis{
    ID:                   uuid.New(),
    DocumentID:           document.ID,
    RiskLevel:            summary.Level,
    RiskyClausePositions: positionsJSON,
    SummaryPoints:        pointsJSON,
    Rationale:            summary.Rationale,
    ClauseCount:          len(clauses),
    CreatedAt:            now,
    UpdatedAt:            now,
  }

  clauseRows := make([]*types.Clause, 0, len(clauses))
  assessmentRows := make([]*types.ClauseAssessment, 0, len(clauses))
  for i, clause := range clauses {
    clauseRows = append(clauseRows, &types.Clause{
      ID:         uuid.New(),
      DocumentID: document.ID,
      AnalysisID: analysis.ID,
      Position:   clause.Position,
      Text:       clause.Text,
      Heading:    clause.Heading,
      CreatedAt:  now,
    })
    assessmentRows = append(assessmentRows, &types.ClauseAssessment{
      ID:             uuid.New(),
      AnalysisID:     analysis.ID,
      ClausePosition: clause.Position,
      RiskLevel:      assessments[i].Level,
      Rationale:      assessments[i].Rationale,
      Suggestion:     assessments[i].Suggestion,
      CreatedAt:      now,
    })
  }

  err = runInTx(ctx, as.db, tx, func(t *gorm.DB) error {
    if _, err := as.documentRepo.Create(ctx, t, []*types.Document{document}); err != nil {
      return fmt.Errorf("create document: %w", err)
    }
    if _, err := as.analysisRepo.Create(ctx, t, []*types.Analysis{analysis}); err != nil {
      return fmt.Errorf("create analysis: %w", err)
    }
    if _, err := as.clauseRepo.Create(ctx, t, clauseRows); err != nil {
      return fmt.Errorf("create clauses: %w", err)
    }
    if _, err := as.assessmentRepo.Create(ctx, t, assessmentRows); err != nil {
      return fmt.Errorf("create assessments: %w", err)
    }
    return nil
  })
  if err != nil {
    as.log.Error("SegmentAndAnalyze persistence failed", "error", err, "document_id", document.ID)
    return nil, err
  }

  if as.cache != nil {
    if err := as.cache.Set(ctx, analysis); err != nil {
      as.log.Warn("Failed to cache analysis", "error", err, "document_id", document.ID)
    }
  }

  as.log.Info("Analysis run complete",
    "document_id", document.ID,
    "analysis_id", analysis.ID,
    "risk_level", analysis.RiskLevel,
    "clause_count", analysis.ClauseCount,
  )
  return analysis, nil
}

// classifyAll fans clause classification out with bounded concurrency and
// collects results back into clause order before aggregation runs.
func (as *analysisService) classifyAll(ctx context.Context, clauses []segmentation.Clause, category string) ([]risk.Assessment, error) {
  assessments := make([]risk.Assessment, len(clauses))

  g, gctx := errgroup.WithContext(ctx)
  g.SetLimit(as.maxConcurrency)
  for i, clause := range clauses {
    i, clause := i, clause
    g.Go(func() error {
      if err := gctx.Err(); err != nil {
        return err
      }
      assessments[i] = as.classifyWithRetry(gctx, clause.Text, category)
      return nil
    })
  }
  if err := g.Wait(); err != nil {
    return nil, fmt.Errorf("classification aborted: %w", err)
  }
  return assessments, nil
}

// classifyWithRetry never fails the run: transient classifier errors are
// retried with jittered exponential backoff, then the clause degrades to
// the default low-risk assessment.
func (as *analysisService) classifyWithRetry(ctx context.Context, clauseText string, category string) risk.Assessment {
  backoff := 500 * time.Millisecond
  var lastErr error

  for attempt := 0; attempt <= as.maxRetries; attempt++ {
    attemptCtx, cancel := context.WithTimeout(ctx, as.classifyTimeout)
    assessment, err := as.classifier.Classify(attemptCtx, clauseText, category)
    cancel()
    if err == nil {
      return assessment
    }
    lastErr = err
    if ctx.Err() != nil {
      break
    }
    if attempt < as.maxRetries {
      sleepFor := jitterSleep(capBackoff(backoff))
      as.log.Warn("Clause classification retrying",
        "attempt", attempt+1,
        "max_retries", as.maxRetries,
        "sleep", sleepFor.String(),
        "error", err.Error(),
      )
      time.Sleep(sleepFor)
      backoff *= 2
    }
  }

  as.log.Warn("Clause classification degraded to default level",
    "error", fmt.Errorf("%w: %v", apperr.ErrClassificationTimeout, lastErr).Error(),
  )
  return risk.DefaultAssessment()
}

func (as *analysisService) GetDocument(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) (*types.Document, error) {
  documents, err := as.documentRepo.GetByIDs(ctx, tx, []uuid.UUID{documentID})
  if err != nil {
    return nil, fmt.Errorf("get document: %w", err)
  }
  if len(documents) == 0 || documents[0] == nil {
    return nil, apperr.ErrDocumentNotFound
  }
  return documents[0], nil
}

func (as *analysisService) GetLatestAnalysis(ctx context.Context, tx *gorm.DB, documentID uuid.UUID) (*types.Analysis, error) {
  if as.cache != nil && tx == nil {
    cached, err := as.cache.Get(ctx, documentID)
    if err != nil {
      as.log.Warn("Analysis cache lookup failed", "error", err, "document_id", documentID)
    } else if cached != nil {
      return cached, nil
    }
  }

  analysis, err := as.analysisRepo.GetLatestByDocumentID(ctx, tx, documentID)
  if err != nil {
    return nil, fmt.Errorf("get latest analysis: %w", err)
  }
  if analysis == nil {
    if _, err := as.GetDocument(ctx, tx, documentID); err != nil {
      return nil, err
    }
    return nil, apperr.ErrAnalysisNotFound
  }

  if as.cache != nil && tx == nil {
    if err := as.cache.Set(ctx, analysis); err != nil {
      as.log.Warn("Failed to cache analysis", "error", err, "document_id", documentID)
    }
  }
  return analysis, nil
}

func (as *analysisService) ListClauseAssessments(ctx context.Context, tx *gorm.DB, analysisID uuid.UUID) ([]*types.ClauseAssessment, error) {
  analyses, err := as.analysisRepo.GetByIDs(ctx, tx, []uuid.UUID{analysisID})
  if err != nil {
    return nil, fmt.Errorf("get analysis: %w", err)
  }
  if len(analyses) == 0 || analyses[0] == nil {
    return nil, apperr.ErrAnalysisNotFound
  }
  assessments, err := as.assessmentRepo.GetByAnalysisIDs(ctx, tx, []uuid.UUID{analysisID})
  if err != nil {
    return nil, fmt.Errorf("list assessments: %w", err)
  }
  return assessments, nil
}
