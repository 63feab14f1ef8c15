package gemini

import (
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/config"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/llm"
)

// Register Gemini provider on package import
func init() {
	llm.RegisterProvider("gemini", func(cfg *config.Config) (llm.Provider, error) {
		geminiConfig, err := NewConfig(cfg)
		if err != nil {
			return nil, err
		}
		return NewClient(geminiConfig)
	})
}
