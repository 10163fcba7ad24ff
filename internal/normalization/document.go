package normalization

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/clausewise/clausewise-backend/internal/apperr"
)

// MinDocumentLength is the smallest normalized text that can still be
// segmented into clauses. Anything shorter fails ingestion.
const MinDocumentLength = 20

var blankLineRuns = regexp.MustCompile(`\n{3,}`)

// NormalizeDocument canonicalizes raw extracted contract text: line endings
// become \n, control characters are stripped, horizontal whitespace runs
// collapse to single spaces and blank-line runs collapse to one blank line.
// Paragraph breaks survive so the segmenter can fall back to them.
func NormalizeDocument(raw string) (string, error) {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		default:
			return r
		}
	}, text)

	lines := strings.Split(text, "\n")
	for i := range lines {
		lines[i] = strings.Join(strings.Fields(lines[i]), " ")
	}
	text = strings.Join(lines, "\n")
	text = blankLineRuns.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)

	if len(text) < MinDocumentLength {
		return "", fmt.Errorf("document text is empty or too short after normalization: %w", apperr.ErrInvalidDocument)
	}
	return text, nil
}
