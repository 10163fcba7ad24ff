package risk

import (
	"context"
	"strings"

	"github.com/clausewise/clausewise-backend/internal/logger"
	"github.com/clausewise/clausewise-backend/internal/types"
)

// Assessment is the verdict for a single clause.
type Assessment struct {
	Level      types.RiskLevel
	Rationale  string
	Suggestion string
}

// Classifier scores one clause. Implementations must tolerate arbitrary
// text and must be swappable without touching callers; the rule-based
// default below shares this contract with any future model-backed scorer.
type Classifier interface {
	Classify(ctx context.Context, clauseText string, category string) (Assessment, error)
}

// DefaultAssessment is the degraded verdict used when a clause cannot be
// classified (timeouts, unrecognized text). The run continues instead of
// failing.
func DefaultAssessment() Assessment {
	return Assessment{
		Level:     types.RiskLow,
		Rationale: "No common risk signals were detected in this clause.",
	}
}

type signalRule struct {
	name       string
	level      types.RiskLevel
	anyOf      []string
	noneOf     []string
	rationale  string
	suggestion string
}

// Rules are evaluated top to bottom, high-severity rules first; the first
// match decides the verdict, so identical clause text always produces the
// same assessment.
var signalRules = []signalRule{
	{
		name:       "uncapped_indemnification",
		level:      types.RiskHigh,
		anyOf:      []string{"indemnif", "hold harmless"},
		noneOf:     []string{"liability cap", "limitation of liability", "limited to", "shall not exceed"},
		rationale:  "Indemnification obligations without a liability cap can expose a party to open-ended losses.",
		suggestion: "Add a cap tying indemnification exposure to fees paid under the agreement.",
	},
	{
		name:       "non_compete",
		level:      types.RiskHigh,
		anyOf:      []string{"non-compete", "noncompete", "not compete", "refrain from competing"},
		rationale:  "Non-compete terms restrict future business activity and are heavily scrutinized in many jurisdictions.",
		suggestion: "Narrow the restriction by duration, geography and scope of activity.",
	},
	{
		name:      "unlimited_liability",
		level:     types.RiskHigh,
		anyOf:     []string{"unlimited liability", "liable for all", "without limit"},
		rationale: "The clause appears to accept liability without any stated limit.",
	},
	{
		name:       "liquidated_damages",
		level:      types.RiskHigh,
		anyOf:      []string{"liquidated damages", "penalty of"},
		rationale:  "Fixed liquidated damages or penalties apply regardless of actual loss.",
		suggestion: "Confirm the amount is a genuine pre-estimate of loss, not a penalty.",
	},
	{
		name:       "termination",
		level:      types.RiskMedium,
		anyOf:      []string{"terminate", "termination"},
		rationale:  "Termination language found; check whether the right is mutual and what notice period applies.",
		suggestion: "Ensure termination rights are mutual and the notice period is workable.",
	},
	{
		name:       "auto_renewal",
		level:      types.RiskMedium,
		anyOf:      []string{"automatically renew", "automatic renewal", "auto-renew"},
		rationale:  "The agreement renews automatically unless action is taken before the renewal date.",
		suggestion: "Calendar the opt-out window or convert renewal to an affirmative election.",
	},
	{
		name:      "exclusivity",
		level:     types.RiskMedium,
		anyOf:     []string{"exclusive", "exclusivity", "sole provider"},
		rationale: "Exclusivity terms limit the ability to work with other counterparties.",
	},
	{
		name:       "late_payment_penalty",
		level:      types.RiskMedium,
		anyOf:      []string{"late fee", "late charge", "interest on overdue"},
		rationale:  "Late-payment charges accrue on overdue amounts.",
		suggestion: "Verify the rate is lawful and that a cure period applies before charges start.",
	},
	{
		name:      "waiver_of_rights",
		level:     types.RiskMedium,
		anyOf:     []string{"waive", "waiver of"},
		rationale: "The clause waives rights or remedies; confirm the waiver is intended and mutual.",
	},
}

// RuleClassifier is the default lexical classifier.
type RuleClassifier struct {
	log   *logger.Logger
	rules []signalRule
}

func NewRuleClassifier(baseLog *logger.Logger) *RuleClassifier {
	return &RuleClassifier{
		log:   baseLog.With("service", "RuleClassifier"),
		rules: signalRules,
	}
}

func (rc *RuleClassifier) Classify(ctx context.Context, clauseText string, category string) (Assessment, error) {
	if err := ctx.Err(); err != nil {
		return Assessment{}, err
	}

	lowered := strings.ToLower(clauseText)
	for _, rule := range rc.rules {
		if !matchesAny(lowered, rule.anyOf) {
			continue
		}
		if matchesAny(lowered, rule.noneOf) {
			continue
		}
		rc.log.Debug("Risk signal matched", "signal", rule.name, "level", rule.level)
		return Assessment{
			Level:      rule.level,
			Rationale:  rule.rationale,
			Suggestion: rule.suggestion,
		}, nil
	}

	return DefaultAssessment(), nil
}

func matchesAny(lowered string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(lowered, term) {
			return true
		}
	}
	return false
}
