package handlers

import (
	"net/http"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/clausewise/clausewise-backend/internal/logger"
	"github.com/clausewise/clausewise-backend/internal/services"
)

type AnalysisHandler struct {
	log             *logger.Logger
	analysisService services.AnalysisService
}

func NewAnalysisHandler(log *logger.Logger, analysisService services.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{
		log:             log.With("handler", "AnalysisHandler"),
		analysisService: analysisService,
	}
}

type analyzeRequest struct {
	Text     string `json:"text" binding:"required"`
	Category string `json:"category"`
}

// POST /api/analyses
// Full pipeline: ingest the text, segment, classify, aggregate.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	analysis, err := h.analysisService.SegmentAndAnalyze(c.Request.Context(), nil, req.Text, req.Category)
	if err != nil {
		h.log.Error("Analyze failed", "error", err)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"analysis": analysis})
}

// GET /api/documents/:id
func (h *AnalysisHandler) GetDocument(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_document_id", err)
		return
	}
	document, err := h.analysisService.GetDocument(c.Request.Context(), nil, documentID)
	if err != nil {
		h.log.Error("GetDocument failed", "error", err, "document_id", documentID)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"document": document})
}

// GET /api/documents/:id/analysis
// Latest analysis run for the document.
func (h *AnalysisHandler) GetAnalysis(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_document_id", err)
		return
	}
	analysis, err := h.analysisService.GetLatestAnalysis(c.Request.Context(), nil, documentID)
	if err != nil {
		h.log.Error("GetAnalysis failed", "error", err, "document_id", documentID)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"analysis": analysis})
}

// GET /api/analyses/:id/assessments
func (h *AnalysisHandler) ListAssessments(c *gin.Context) {
	analysisID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_analysis_id", err)
		return
	}
	assessments, err := h.analysisService.ListClauseAssessments(c.Request.Context(), nil, analysisID)
	if err != nil {
		h.log.Error("ListAssessments failed", "error", err, "analysis_id", analysisID)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"assessments": assessments})
}
