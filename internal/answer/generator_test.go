package answer

import (
	"context"
	"strings"
	"testing"

	"github.com/clausewise/clausewise-backend/internal/logger"
)

const contractText = "1. Termination. Either party may terminate this Agreement upon 30 days' notice. 2. Confidentiality. Each party shall protect Confidential Information."

func newTestGenerator(t *testing.T) *TemplateGenerator {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	return NewTemplateGenerator(log)
}

func TestAnswer_TerminationQuestionQuotesNoticePeriod(t *testing.T) {
	tg := newTestGenerator(t)
	got, err := tg.Answer(context.Background(), contractText, "", nil, "What are the termination terms?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "30 days") {
		t.Fatalf("answer should quote the notice period, got %q", got)
	}
	if !strings.Contains(got, "termination") {
		t.Fatalf("answer should name the topic, got %q", got)
	}
}

func TestAnswer_ConfidentialityQuestion(t *testing.T) {
	tg := newTestGenerator(t)
	got, err := tg.Answer(context.Background(), contractText, "", nil, "Is there an NDA clause?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(got, "Confidential Information") {
		t.Fatalf("answer should quote the confidentiality clause, got %q", got)
	}
}

func TestAnswer_UnknownTopicFallsBack(t *testing.T) {
	tg := newTestGenerator(t)
	got, err := tg.Answer(context.Background(), contractText, "", nil, "What is the meaning of life?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != Fallback {
		t.Fatalf("expected the fallback answer, got %q", got)
	}
	if got == "" {
		t.Fatalf("answers must never be empty")
	}
}

func TestAnswer_TopicAbsentFromDocument(t *testing.T) {
	tg := newTestGenerator(t)
	got, err := tg.Answer(context.Background(), contractText, "", nil, "What are the late payment fees?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == "" {
		t.Fatalf("answers must never be empty")
	}
	if !strings.Contains(got, "payment") {
		t.Fatalf("answer should acknowledge the topic, got %q", got)
	}
}

func TestAnswer_CanceledContext(t *testing.T) {
	tg := newTestGenerator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := tg.Answer(ctx, contractText, "", nil, "termination?"); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestFindExcerpt_PrefersSubstantiveSentences(t *testing.T) {
	got := findExcerpt(contractText, []string{"terminat"})
	if !strings.Contains(got, "30 days") {
		t.Fatalf("expected the substantive sentence, got %q", got)
	}
	if got == "1. Termination." {
		t.Fatalf("should not return the bare heading")
	}
}
