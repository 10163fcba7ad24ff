package apperr

import "errors"

var (
	// ErrInvalidDocument flags text that is empty or too short to segment
	// after normalization. Never retried, surfaced as a validation error.
	ErrInvalidDocument = errors.New("invalid document")
	// ErrDocumentNotFound is the sentinel for a missing document reference.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrAnalysisNotFound is the sentinel for a missing analysis record.
	ErrAnalysisNotFound = errors.New("analysis not found")
	// ErrConversationNotFound is the sentinel for a missing conversation.
	ErrConversationNotFound = errors.New("conversation not found")
	// ErrEmptyQuestion flags a question that is blank after trimming.
	ErrEmptyQuestion = errors.New("empty question")
	// ErrClassificationTimeout marks an exhausted classifier call. Internal:
	// the pipeline degrades the clause to the default level instead of
	// surfacing it.
	ErrClassificationTimeout = errors.New("classification timed out")
	// ErrAnswerTimeout marks an exhausted answer-generation call. Internal:
	// the conversation layer substitutes the fallback answer.
	ErrAnswerTimeout = errors.New("answer generation timed out")
)
