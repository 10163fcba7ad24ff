package risk

import (
	"fmt"
	"strings"

	"github.com/clausewise/clausewise-backend/internal/types"
)

// Assessed pairs a clause with its assessment, in clause order.
type Assessed struct {
	Position   int
	Heading    string
	Assessment Assessment
}

// Summary is the document-level aggregation of one assessment set.
type Summary struct {
	Level          types.RiskLevel
	RiskyPositions []int
	Points         []types.SummaryPoint
	Rationale      string
}

// Aggregate folds an ordered assessment set into one document summary.
// The document level is the worst clause level present (LOW when the set is
// empty or all LOW); risky positions keep clause order. The function is
// pure: the same input always produces a byte-identical result.
func Aggregate(assessed []Assessed) Summary {
	level := types.RiskLow
	riskyPositions := make([]int, 0, len(assessed))
	for _, a := range assessed {
		level = types.MaxRiskLevel(level, a.Assessment.Level)
		if a.Assessment.Level.Rank() >= types.RiskMedium.Rank() {
			riskyPositions = append(riskyPositions, a.Position)
		}
	}

	points := buildSummaryPoints(level, riskyPositions, assessed)

	rationale := fmt.Sprintf("%d of %d clauses flagged at medium risk or higher.", len(riskyPositions), len(assessed))
	if len(riskyPositions) == 0 {
		rationale = fmt.Sprintf("None of the %d clauses matched a known risk signal.", len(assessed))
	}

	return Summary{
		Level:          level,
		RiskyPositions: riskyPositions,
		Points:         points,
		Rationale:      rationale,
	}
}

func buildSummaryPoints(level types.RiskLevel, riskyPositions []int, assessed []Assessed) []types.SummaryPoint {
	points := make([]types.SummaryPoint, 0, len(riskyPositions)+1)
	points = append(points, types.SummaryPoint{
		Text:     fmt.Sprintf("Overall risk is %s: %d of %d clauses flagged.", level, len(riskyPositions), len(assessed)),
		Severity: level,
	})

	if len(riskyPositions) == 0 {
		points = append(points, types.SummaryPoint{
			Text:     "No material risk signals were detected.",
			Severity: types.RiskLow,
		})
		return points
	}

	for _, a := range assessed {
		if a.Assessment.Level.Rank() < types.RiskMedium.Rank() {
			continue
		}
		label := fmt.Sprintf("Clause %d", a.Position)
		if a.Heading != "" {
			label = fmt.Sprintf("Clause %d (%s)", a.Position, a.Heading)
		}
		text := fmt.Sprintf("%s: %s", label, a.Assessment.Rationale)
		pos := a.Position
		points = append(points, types.SummaryPoint{
			Text:           text,
			Severity:       tagSeverity(text, assessed),
			ClausePosition: &pos,
		})
	}
	return points
}

// tagSeverity assigns a display severity to a summary point by keyword
// overlap against the assessments that justify it. This tag is presentation
// metadata only; the per-clause assessments remain the risk source of truth.
func tagSeverity(pointText string, assessed []Assessed) types.RiskLevel {
	pointWords := significantWords(pointText)
	severity := types.RiskLow
	for _, a := range assessed {
		overlap := 0
		for word := range significantWords(a.Assessment.Rationale) {
			if pointWords[word] {
				overlap++
			}
		}
		if overlap >= 2 {
			severity = types.MaxRiskLevel(severity, a.Assessment.Level)
		}
	}
	return severity
}

func significantWords(text string) map[string]bool {
	words := map[string]bool{}
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, ".,;:()\"'")
		if len(w) > 3 {
			words[w] = true
		}
	}
	return words
}
