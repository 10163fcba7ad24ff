package handlers

import (
  "errors"
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/clausewise/clausewise-backend/internal/apperr"
)

type APIError struct {
  Message     string	`json:"message"`
  Code	      string	`json:"code,omitempty"`
}

type ErrorEnvelope struct {
  Error	      APIError	`json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
  msg := "unknown error"
  if err != nil {
    msg = err.Error()
  }
  c.JSON(status, ErrorEnvelope{
    Error: APIError{
      Message: msg,
      Code:    code,
    },
  })
}

func RespondOK(c *gin.Context, payload any) {
  c.JSON(http.StatusOK, payload)
}

// RespondServiceError maps the service error taxonomy onto HTTP statuses:
// validation errors are 400, missing entities 404, everything else a
// generic 500 without leaking internals.
func RespondServiceError(c *gin.Context, err error) {
  switch {
  case errors.Is(err, apperr.ErrInvalidDocument):
    RespondError(c, http.StatusBadRequest, "invalid_document", err)
  case errors.Is(err, apperr.ErrEmptyQuestion):
    RespondError(c, http.StatusBadRequest, "empty_question", err)
  case errors.Is(err, apperr.ErrDocumentNotFound):
    RespondError(c, http.StatusNotFound, "document_not_found", err)
  case errors.Is(err, apperr.ErrAnalysisNotFound):
    RespondError(c, http.StatusNotFound, "analysis_not_found", err)
  case errors.Is(err, apperr.ErrConversationNotFound):
    RespondError(c, http.StatusNotFound, "conversation_not_found", err)
  default:
    RespondError(c, http.StatusInternalServerError, "internal_error", errors.New("internal error"))
  }
}
