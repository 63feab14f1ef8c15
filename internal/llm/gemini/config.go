package gemini

import (
	"errors"

	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/config"
)

// holds Gemini-specific configuration
type Config struct {
	APIKey string
	Model  string
}

func NewConfig(cfg *config.Config) (*Config, error) {
	if cfg.Gemini.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY environment variable is required")
	}

	model := cfg.Gemini.Model
	if model == "" {
		model = "gemini-2.5-flash" // default model
	}

	return &Config{
		APIKey: cfg.Gemini.APIKey,
		Model:  model,
	}, nil
}
