package quality

// GateConfig holds the rubric thresholds for document quality checks
type GateConfig struct {
	MinProblemLength      int     // minimum chars for the problem statement
	MinCurrentStateLength int     // minimum chars for the current-state narrative
	MinRiskLength         int     // minimum chars for the risk assessment
	PassScore             float64 // score at or above which the document passes
}

// DefaultGateConfig returns the rubric thresholds used in production
func DefaultGateConfig() GateConfig {
	return GateConfig{
		MinProblemLength:      100,
		MinCurrentStateLength: 80,
		MinRiskLength:         60,
		PassScore:             7.0,
	}
}
