package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/clausewise/clausewise-backend/internal/logger"
	"github.com/clausewise/clausewise-backend/internal/types"
)

// Fallback is returned whenever no better answer can be produced. Q&A must
// always yield a non-empty answer; a failed turn never surfaces an error to
// the conversation.
const Fallback = "I couldn't find an answer to that in this document. Try asking about termination, confidentiality, payment, or liability terms."

// Generator produces a context-aware answer from the document text, the
// ordered prior turns and the new question. The template default below is a
// placeholder implementation; a retrieval- or model-backed generator can be
// substituted without changing any caller.
type Generator interface {
	Answer(ctx context.Context, documentText string, category string, history []*types.Message, question string) (string, error)
}

type questionTopic struct {
	name     string
	keywords []string
	lead     string
}

// Topic routing is keyword-driven and checked in declaration order.
var questionTopics = []questionTopic{
	{
		name:     "termination",
		keywords: []string{"terminat", "cancel", "end the agreement", "notice period", "exit"},
		lead:     "On termination, the document says:",
	},
	{
		name:     "confidentiality",
		keywords: []string{"confidential", "nda", "disclos", "secret", "privacy"},
		lead:     "On confidentiality, the document says:",
	},
	{
		name:     "payment",
		keywords: []string{"pay", "fee", "invoice", "price", "cost", "compensation"},
		lead:     "On payment terms, the document says:",
	},
	{
		name:     "liability",
		keywords: []string{"liab", "indemn", "damages", "responsib"},
		lead:     "On liability, the document says:",
	},
}

// TemplateGenerator is the default keyword-template answerer.
type TemplateGenerator struct {
	log *logger.Logger
}

func NewTemplateGenerator(baseLog *logger.Logger) *TemplateGenerator {
	return &TemplateGenerator{log: baseLog.With("service", "TemplateGenerator")}
}

func (tg *TemplateGenerator) Answer(ctx context.Context, documentText string, category string, history []*types.Message, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	lowered := strings.ToLower(question)
	for _, topic := range questionTopics {
		if !containsAny(lowered, topic.keywords) {
			continue
		}
		excerpt := findExcerpt(documentText, topic.keywords)
		if excerpt == "" {
			return fmt.Sprintf("The document does not appear to address %s directly.", topic.name), nil
		}
		tg.log.Debug("Matched question topic", "topic", topic.name)
		return fmt.Sprintf("%s %q", topic.lead, excerpt), nil
	}

	return Fallback, nil
}

func containsAny(lowered string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(lowered, term) {
			return true
		}
	}
	return false
}

// findExcerpt returns the first substantive sentence of the document
// mentioning any of the topic keywords, so answers quote the clause they
// rely on. Short fragments (numbering, bare headings) only match when no
// full sentence does.
func findExcerpt(documentText string, keywords []string) string {
	sentences := splitSentences(documentText)
	fallback := ""
	for _, sentence := range sentences {
		if !containsAny(strings.ToLower(sentence), keywords) {
			continue
		}
		if len(sentence) >= 25 {
			return sentence
		}
		if fallback == "" {
			fallback = sentence
		}
	}
	return fallback
}

func splitSentences(text string) []string {
	var out []string
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' || r == '\n' {
			if s := strings.TrimSpace(text[start : i+1]); s != "" {
				out = append(out, s)
			}
			start = i + 1
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}
