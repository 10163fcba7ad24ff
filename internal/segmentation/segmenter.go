package segmentation

import (
	"regexp"
	"strings"
)

// Clause is one contiguous unit of contract text, zero-indexed by order of
// first appearance within a single segmentation run.
type Clause struct {
	Position int
	Heading  string
	Text     string
}

// Numbered section headers: "1.", "2)", "3.1." either at line start or right
// after sentence-ending punctuation, followed by an uppercase opener. The
// submatch marks where the clause text begins.
var headerPattern = regexp.MustCompile(`(?:^|\n|[.!?:;]\s)\s*(\d{1,3}(?:\.\d{1,3})*[.)]\s+[\p{Lu}"'])`)

var headerPrefix = regexp.MustCompile(`^\d{1,3}(?:\.\d{1,3})*[.)]\s+`)

// Segment splits normalized text into an ordered clause sequence. Numbered
// section headers are the primary boundary; when none are present the text
// is split on blank-line paragraphs instead. Whitespace-only pieces are
// discarded without consuming a position. Identical input always yields an
// identical sequence.
func Segment(text string) []Clause {
	matches := headerPattern.FindAllStringSubmatchIndex(text, -1)

	var pieces []string
	if len(matches) == 0 {
		pieces = splitParagraphs(text)
	} else {
		starts := make([]int, 0, len(matches))
		for _, m := range matches {
			starts = append(starts, m[2])
		}
		if lead := strings.TrimSpace(text[:starts[0]]); lead != "" {
			pieces = append(pieces, lead)
		}
		for i, start := range starts {
			end := len(text)
			if i+1 < len(starts) {
				end = starts[i+1]
			}
			if piece := strings.TrimSpace(text[start:end]); piece != "" {
				pieces = append(pieces, piece)
			}
		}
	}

	clauses := make([]Clause, 0, len(pieces))
	for _, piece := range pieces {
		clauses = append(clauses, Clause{
			Position: len(clauses),
			Heading:  extractHeading(piece),
			Text:     piece,
		})
	}
	return clauses
}

func splitParagraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// extractHeading pulls a short title sentence that directly follows a
// numbered header, e.g. "7. Termination. Either party..." -> "Termination".
// Long or sentence-like openers are not headings.
func extractHeading(piece string) string {
	body := headerPrefix.ReplaceAllString(piece, "")
	if body == piece {
		return ""
	}
	idx := strings.IndexAny(body, ".:")
	if idx <= 0 {
		return ""
	}
	candidate := strings.TrimSpace(body[:idx])
	if candidate == "" || len(candidate) > 64 || len(strings.Fields(candidate)) > 6 {
		return ""
	}
	return candidate
}
