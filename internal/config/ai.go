package config

import "os"

// GeminiModels defines which Gemini models to use for different tasks
type GeminiModels struct {
	// Eval is for per-answer evaluation (needs to be fast)
	Eval string `json:"eval"`

	// FollowUp is for on-demand follow-up question generation (needs to be fast)
	FollowUp string `json:"followUp"`

	// DocGen is for business case document generation (quality over speed)
	DocGen string `json:"docGen"`
}

// AIConfig holds all AI-related configuration
type AIConfig struct {
	APIKey    string       `json:"-"` // Never serialize
	BaseURL   string       `json:"baseUrl"`
	Models    GeminiModels `json:"models"`
	TimeoutMS int          `json:"timeoutMs"`
}

// DefaultAIConfig returns the default AI configuration
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:  os.Getenv("GEMINI_API_KEY"),
		BaseURL: "https://generativelanguage.googleapis.com/v1beta/models",
		Models: GeminiModels{
			// Fast models for the interview loop
			Eval:     getEnvOrDefault("GEMINI_MODEL_EVAL", "gemini-2.5-flash-preview-05-20"),
			FollowUp: getEnvOrDefault("GEMINI_MODEL_FOLLOWUP", "gemini-2.5-flash-preview-05-20"),

			// Quality model for submission-time generation
			DocGen: getEnvOrDefault("GEMINI_MODEL_DOCGEN", "gemini-2.0-flash"),
		},
		TimeoutMS: 10000, // 10 second default timeout
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the full endpoint for a given model
func (c *AIConfig) ModelEndpoint(model string) string {
	return c.BaseURL + "/" + model + ":generateContent"
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
