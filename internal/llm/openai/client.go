// Package openai registers the "openai" provider: chat completions over plain HTTP.
package openai

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/config"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/llm"
)

const completionsPath = "/v1/chat/completions"

func init() {
	llm.RegisterProvider("openai", func(cfg *config.Config) (llm.Provider, error) {
		return NewClient(cfg.OpenAI, &http.Client{Timeout: cfg.OracleTimeout})
	})
}

// NewClient builds a chat client authenticated with a bearer key
func NewClient(cfg config.ChatConfig, httpClient *http.Client) (*llm.ChatClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OPENAI_API_KEY environment variable is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &llm.ChatClient{
		Provider:    "openai",
		Endpoint:    strings.TrimRight(cfg.BaseURL, "/") + completionsPath,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Headers:     map[string]string{"Authorization": "Bearer " + cfg.APIKey},
		HTTPClient:  httpClient,
	}, nil
}
