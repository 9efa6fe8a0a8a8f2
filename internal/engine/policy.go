package engine

import (
	"fmt"

	"caseintake/internal/model"
)

// Verdict classifies one answer turn into exactly one disposition
type Verdict string

const (
	VerdictMandatoryFollowUp Verdict = "mandatory_followup"
	VerdictOptionalFollowUp  Verdict = "optional_followup"
	VerdictAdvance           Verdict = "advance"
)

// SegmentRule holds the per-segment decision thresholds. Earlier segments
// demand more detail than later ones.
type SegmentRule struct {
	// DetailThreshold is the score below which an insufficient answer
	// triggers a mandatory follow-up
	DetailThreshold int `json:"detailThreshold"`

	// MaxResponseLength is the escape hatch: at or past this length the
	// user has already written enough that asking again is unfair, even
	// on a moderate score
	MaxResponseLength int `json:"maxResponseLength"`
}

// ValidateRules checks the rule table at startup: every configured segment
// must have a rule with a threshold in [1,10] and a positive max length.
func ValidateRules(segments []SegmentConfig, rules map[string]SegmentRule) error {
	for _, seg := range segments {
		rule, ok := rules[seg.ID]
		if !ok {
			return fmt.Errorf("no rule for segment %q", seg.ID)
		}
		if rule.DetailThreshold < 1 || rule.DetailThreshold > 10 {
			return fmt.Errorf("segment %q: detail threshold %d out of range [1,10]", seg.ID, rule.DetailThreshold)
		}
		if rule.MaxResponseLength <= 0 {
			return fmt.Errorf("segment %q: max response length must be positive", seg.ID)
		}
	}
	return nil
}

// Decide classifies a turn. Pure function; the rules are checked in this
// exact order:
//
//  1. mandatory follow-up when the answer is genuinely insufficient and
//     still short enough that asking again is cheap, within budget;
//  2. optional follow-up: at most one "nice to have" deepening question on
//     an already-acceptable answer, only on the first turn of a segment;
//  3. otherwise advance.
//
// Rule 1 requires !HasEnoughDetail and rule 2 requires HasEnoughDetail, so
// the two can never both fire for the same evaluation.
func Decide(eval *model.EvaluationResult, responseLength int, rule SegmentRule, followUpCount, maxFollowUps int) Verdict {
	if !eval.HasEnoughDetail &&
		eval.DetailScore < rule.DetailThreshold &&
		responseLength < rule.MaxResponseLength &&
		followUpCount < maxFollowUps {
		return VerdictMandatoryFollowUp
	}

	if eval.HasEnoughDetail &&
		eval.DetailScore >= 6 && eval.DetailScore < 8 &&
		followUpCount == 0 &&
		len(eval.SuggestedImprovements) > 0 {
		return VerdictOptionalFollowUp
	}

	return VerdictAdvance
}
