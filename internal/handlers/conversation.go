package handlers

import (
	"net/http"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/clausewise/clausewise-backend/internal/logger"
	"github.com/clausewise/clausewise-backend/internal/services"
)

type ConversationHandler struct {
	log                 *logger.Logger
	conversationService services.ConversationService
}

func NewConversationHandler(log *logger.Logger, conversationService services.ConversationService) *ConversationHandler {
	return &ConversationHandler{
		log:                 log.With("handler", "ConversationHandler"),
		conversationService: conversationService,
	}
}

type askRequest struct {
	Question string `json:"question" binding:"required"`
}

// POST /api/documents/:id/conversations
func (h *ConversationHandler) CreateConversation(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_document_id", err)
		return
	}
	conversation, err := h.conversationService.Create(c.Request.Context(), nil, documentID)
	if err != nil {
		h.log.Error("CreateConversation failed", "error", err, "document_id", documentID)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"conversation": conversation})
}

// GET /api/conversations/:id
func (h *ConversationHandler) GetConversation(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_conversation_id", err)
		return
	}
	conversation, err := h.conversationService.Get(c.Request.Context(), nil, conversationID)
	if err != nil {
		h.log.Error("GetConversation failed", "error", err, "conversation_id", conversationID)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"conversation": conversation})
}

// POST /api/conversations/:id/ask
// Appends one user/assistant pair and returns the updated conversation.
func (h *ConversationHandler) Ask(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_conversation_id", err)
		return
	}
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	conversation, err := h.conversationService.Ask(c.Request.Context(), nil, conversationID, req.Question)
	if err != nil {
		h.log.Error("Ask failed", "error", err, "conversation_id", conversationID)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"conversation": conversation})
}

// POST /api/documents/:id/ask
// One-off Q&A with no persisted conversation.
func (h *ConversationHandler) AskDirect(c *gin.Context) {
	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_document_id", err)
		return
	}
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	answerText, err := h.conversationService.AskDirect(c.Request.Context(), nil, documentID, req.Question)
	if err != nil {
		h.log.Error("AskDirect failed", "error", err, "document_id", documentID)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"answer": answerText})
}
