package quality

import (
	"fmt"
	"strings"

	"caseintake/internal/model"
)

// Vocabulary that describes symptoms rather than causes. A problem
// statement stuck at symptom level without any causal language loses points.
var symptomWords = []string{
	"slow", "losing", "struggling", "declining", "too much time",
	"manual", "expensive", "inefficient", "low sales", "falling behind",
	"time-consuming", "error-prone",
}

var causalWords = []string{
	"root cause", "underlying", "stems from", "driven by", "caused by",
	"originates", "traced to",
}

var causalConnectives = []string{
	"because", "due to", "since", "as a result", "which means",
	"leads to", "therefore",
}

// Verbs that make an objective measurable
var measurableVerbs = []string{
	"increase", "reduce", "decrease", "grow", "cut", "double",
	"reach", "achieve", "save", "improve by", "raise", "lower",
}

// Signals that an outcome is quantified
var quantifySignals = []string{
	"%", "percent", "half", "double", "twice", "per week", "per month",
	"hours", "days",
}

// Domain-specific metric vocabulary per business category. A credible
// business case should speak in its industry's numbers.
var categoryMetrics = map[model.Category][]string{
	model.CategoryRetail: {
		"sales", "revenue", "conversion", "basket", "foot traffic",
		"inventory", "customers", "margin",
	},
	model.CategoryTechnology: {
		"users", "churn", "uptime", "latency", "retention", "signups",
		"subscriptions", "mrr",
	},
	model.CategoryManufacturing: {
		"throughput", "downtime", "defect", "lead time", "output",
		"utilization", "scrap", "capacity",
	},
	model.CategoryHospitality: {
		"occupancy", "bookings", "covers", "reviews", "average spend",
		"table turnover", "guests",
	},
	model.CategoryServices: {
		"billable", "clients", "utilization", "retainer", "response time",
		"cases", "referrals",
	},
	model.CategoryOther: {
		"revenue", "costs", "customers", "hours", "efficiency", "sales",
	},
}

// Gate scores a generated document against the content-quality rubric
type Gate struct {
	config GateConfig
}

// NewGate creates a gate with the given configuration
func NewGate(config GateConfig) *Gate {
	return &Gate{config: config}
}

// CheckQuality scores the document, starting at 10 and subtracting a fixed
// penalty per detected deficiency. The score is clamped to [1,10] and the
// document passes at PassScore or above. Every deduction appends a
// human-readable issue and, where applicable, a corrective suggestion: the
// gate is diagnostic, not merely a boolean.
func (g *Gate) CheckQuality(doc *model.GeneratedDocument, category model.Category, stage model.Stage) model.QualityCheckResult {
	score := 10.0
	result := model.QualityCheckResult{}

	problem := strings.TrimSpace(doc.ProblemStatement)
	problemLower := strings.ToLower(problem)

	// Problem statement length
	if len(problem) < g.config.MinProblemLength {
		score -= 2
		result.Issues = append(result.Issues, "problem statement is too brief to establish the case")
		result.Suggestions = append(result.Suggestions, "expand the problem statement with concrete context: what is failing, for whom, and how often")
		if problem == "" {
			result.MissingElements = append(result.MissingElements, "problemStatement")
		}
	}

	// Symptom language without causal language
	if containsAny(problemLower, symptomWords) &&
		!containsAny(problemLower, causalWords) &&
		!containsAny(problemLower, causalConnectives) {
		score -= 1.5
		result.Issues = append(result.Issues, "problem statement describes symptoms without naming a cause")
		result.Suggestions = append(result.Suggestions, "explain why the problem occurs, not just what it looks like")
	}

	// Quantification in the problem statement
	if !containsDigit(problem) {
		score -= 1
		result.Issues = append(result.Issues, "problem statement contains no numbers")
		result.Suggestions = append(result.Suggestions, "quantify the problem: lost hours, missed revenue, error rates")
	}

	// Objectives
	if len(doc.Objectives) < 2 {
		score -= 1
		result.Issues = append(result.Issues, "fewer than two objectives stated")
		result.MissingElements = append(result.MissingElements, "objectives")
	}
	for _, obj := range doc.Objectives {
		lower := strings.ToLower(obj)
		if !containsAny(lower, measurableVerbs) && !containsDigit(obj) {
			score -= 0.5
			result.Issues = append(result.Issues, fmt.Sprintf("objective %q is not measurable", truncate(obj, 60)))
			result.Suggestions = append(result.Suggestions, "restate each objective with a measurable verb or a target number")
		}
	}

	// Expected outcomes
	if len(doc.ExpectedOutcomes) < 2 {
		score -= 0.5
		result.Issues = append(result.Issues, "fewer than two expected outcomes listed")
		result.MissingElements = append(result.MissingElements, "expectedOutcomes")
	}
	for _, outcome := range doc.ExpectedOutcomes {
		lower := strings.ToLower(outcome)
		if !containsDigit(outcome) && !containsAny(lower, quantifySignals) {
			score -= 0.3
			result.Issues = append(result.Issues, fmt.Sprintf("outcome %q has no quantified target", truncate(outcome, 60)))
		}
	}

	// Domain metric coverage
	metrics := categoryMetrics[category]
	if metrics == nil {
		metrics = categoryMetrics[model.CategoryOther]
	}
	if !containsAny(strings.ToLower(docText(doc)), metrics) {
		score -= 1
		result.Issues = append(result.Issues, fmt.Sprintf("document never mentions %s-specific metrics", categoryLabel(category)))
		result.Suggestions = append(result.Suggestions, "anchor the case in the metrics this industry is measured by")
	}

	// Current-state narrative
	if len(strings.TrimSpace(doc.CurrentState)) < g.config.MinCurrentStateLength {
		score -= 0.5
		result.Issues = append(result.Issues, "current-state narrative is too thin")
		if strings.TrimSpace(doc.CurrentState) == "" {
			result.MissingElements = append(result.MissingElements, "currentState")
		}
	}

	// Proposed solutions
	if len(doc.ProposedSolutions) == 0 {
		score -= 2
		result.Issues = append(result.Issues, "no proposed solutions")
		result.MissingElements = append(result.MissingElements, "proposedSolutions")
	}
	for _, sol := range doc.ProposedSolutions {
		if len(sol.Actions) < 2 {
			score -= 0.5
			result.Issues = append(result.Issues, fmt.Sprintf("solution %q lists fewer than two concrete actions", truncate(sol.Title, 60)))
			result.Suggestions = append(result.Suggestions, "break each solution into at least two concrete actions")
		}
	}

	// Risk narrative
	if len(strings.TrimSpace(doc.RiskAssessment)) < g.config.MinRiskLength {
		score -= 0.5
		result.Issues = append(result.Issues, "risk assessment is missing or too short")
		if strings.TrimSpace(doc.RiskAssessment) == "" {
			result.MissingElements = append(result.MissingElements, "riskAssessment")
		}
	}

	result.Score = clampScore(score)
	result.Passed = result.Score >= g.config.PassScore
	return result
}

func clampScore(score float64) float64 {
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

func containsDigit(text string) bool {
	for _, r := range text {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func categoryLabel(category model.Category) string {
	if category == "" {
		return string(model.CategoryOther)
	}
	return string(category)
}

// docText flattens the sections searched for metric vocabulary
func docText(doc *model.GeneratedDocument) string {
	var sb strings.Builder
	sb.WriteString(doc.ProblemStatement)
	sb.WriteString(" ")
	sb.WriteString(doc.CurrentState)
	for _, o := range doc.Objectives {
		sb.WriteString(" ")
		sb.WriteString(o)
	}
	for _, o := range doc.ExpectedOutcomes {
		sb.WriteString(" ")
		sb.WriteString(o)
	}
	return sb.String()
}
