package engine

import (
	"testing"

	"caseintake/internal/model"
)

func TestDecideMandatoryFollowUp(t *testing.T) {
	rule := SegmentRule{DetailThreshold: 7, MaxResponseLength: 150}
	eval := &model.EvaluationResult{HasEnoughDetail: false, DetailScore: 4}

	got := Decide(eval, 42, rule, 0, 2)
	if got != VerdictMandatoryFollowUp {
		t.Errorf("short weak answer should trigger mandatory follow-up, got %s", got)
	}
}

func TestDecideLongAnswerEscapesFollowUp(t *testing.T) {
	rule := SegmentRule{DetailThreshold: 7, MaxResponseLength: 150}
	eval := &model.EvaluationResult{HasEnoughDetail: false, DetailScore: 4}

	// Same evaluation, but the user has already written plenty
	got := Decide(eval, 150, rule, 0, 2)
	if got != VerdictAdvance {
		t.Errorf("answer at max length should advance, got %s", got)
	}
}

func TestDecideBudgetExhaustedAdvances(t *testing.T) {
	rule := SegmentRule{DetailThreshold: 7, MaxResponseLength: 150}
	eval := &model.EvaluationResult{HasEnoughDetail: false, DetailScore: 3}

	got := Decide(eval, 10, rule, 2, 2)
	if got != VerdictAdvance {
		t.Errorf("exhausted budget should advance, got %s", got)
	}
}

func TestDecideOptionalFollowUpFirstTurnOnly(t *testing.T) {
	rule := SegmentRule{DetailThreshold: 7, MaxResponseLength: 150}
	eval := &model.EvaluationResult{
		HasEnoughDetail:       true,
		DetailScore:           6,
		SuggestedImprovements: []string{"mention concrete numbers"},
	}

	if got := Decide(eval, 120, rule, 0, 2); got != VerdictOptionalFollowUp {
		t.Errorf("borderline passing first turn should offer optional follow-up, got %s", got)
	}

	// Identical evaluation on a later turn is advance, never a second
	// optional question.
	if got := Decide(eval, 120, rule, 1, 2); got != VerdictAdvance {
		t.Errorf("optional follow-up after turn one should advance, got %s", got)
	}
}

func TestDecideOptionalNeedsSuggestions(t *testing.T) {
	rule := SegmentRule{DetailThreshold: 7, MaxResponseLength: 150}
	eval := &model.EvaluationResult{HasEnoughDetail: true, DetailScore: 7}

	if got := Decide(eval, 120, rule, 0, 2); got != VerdictAdvance {
		t.Errorf("no suggestions means nothing to ask, got %s", got)
	}
}

func TestDecideStrongAnswerAdvances(t *testing.T) {
	rule := SegmentRule{DetailThreshold: 7, MaxResponseLength: 150}
	eval := &model.EvaluationResult{
		HasEnoughDetail:       true,
		DetailScore:           9,
		SuggestedImprovements: []string{"even more numbers"},
	}

	if got := Decide(eval, 30, rule, 0, 2); got != VerdictAdvance {
		t.Errorf("score 9 should advance regardless of suggestions, got %s", got)
	}
}

func TestDecideVerdictsAreMutuallyExclusive(t *testing.T) {
	// Sweep the input space: every combination must produce exactly one
	// verdict, and mandatory and optional can never trade places on the
	// same evaluation because they require opposite HasEnoughDetail.
	rule := SegmentRule{DetailThreshold: 7, MaxResponseLength: 150}
	for _, enough := range []bool{true, false} {
		for score := 1; score <= 10; score++ {
			for _, length := range []int{0, 149, 150, 500} {
				for fu := 0; fu <= 2; fu++ {
					eval := &model.EvaluationResult{
						HasEnoughDetail:       enough,
						DetailScore:           score,
						SuggestedImprovements: []string{"x"},
					}
					got := Decide(eval, length, rule, fu, 2)
					switch got {
					case VerdictMandatoryFollowUp:
						if enough {
							t.Fatalf("mandatory fired with hasEnoughDetail=true (score=%d)", score)
						}
					case VerdictOptionalFollowUp:
						if !enough {
							t.Fatalf("optional fired with hasEnoughDetail=false (score=%d)", score)
						}
					case VerdictAdvance:
					default:
						t.Fatalf("unknown verdict %q", got)
					}
				}
			}
		}
	}
}

func TestDecideIsPure(t *testing.T) {
	rule := SegmentRule{DetailThreshold: 7, MaxResponseLength: 150}
	eval := &model.EvaluationResult{HasEnoughDetail: false, DetailScore: 4}

	first := Decide(eval, 42, rule, 0, 2)
	for i := 0; i < 10; i++ {
		if got := Decide(eval, 42, rule, 0, 2); got != first {
			t.Fatalf("identical inputs produced different verdicts: %s then %s", first, got)
		}
	}
	if eval.DetailScore != 4 || eval.HasEnoughDetail {
		t.Error("Decide mutated its evaluation input")
	}
}

func TestValidateRules(t *testing.T) {
	segments := DefaultSegments()

	if err := ValidateRules(segments, DefaultRules()); err != nil {
		t.Fatalf("default rules should validate: %v", err)
	}

	missing := DefaultRules()
	delete(missing, "resources")
	if err := ValidateRules(segments, missing); err == nil {
		t.Error("expected error for segment without a rule")
	}

	badThreshold := DefaultRules()
	badThreshold["challenges"] = SegmentRule{DetailThreshold: 11, MaxResponseLength: 200}
	if err := ValidateRules(segments, badThreshold); err == nil {
		t.Error("expected error for threshold out of range")
	}

	badLength := DefaultRules()
	badLength["challenges"] = SegmentRule{DetailThreshold: 7, MaxResponseLength: 0}
	if err := ValidateRules(segments, badLength); err == nil {
		t.Error("expected error for non-positive max length")
	}
}
