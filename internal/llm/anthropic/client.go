// Package anthropic registers the "anthropic" provider: the messages API over plain HTTP.
package anthropic

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/config"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/llm"
)

const (
	messagesPath = "/v1/messages"
	apiVersion   = "2023-06-01"
)

func init() {
	llm.RegisterProvider("anthropic", func(cfg *config.Config) (llm.Provider, error) {
		return NewClient(cfg.Anthropic, &http.Client{Timeout: cfg.OracleTimeout})
	})
}

// NewClient builds a chat client authenticated with x-api-key
func NewClient(cfg config.ChatConfig, httpClient *http.Client) (*llm.ChatClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY environment variable is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &llm.ChatClient{
		Provider:    "anthropic",
		Endpoint:    strings.TrimRight(cfg.BaseURL, "/") + messagesPath,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		Headers: map[string]string{
			"x-api-key":         cfg.APIKey,
			"anthropic-version": apiVersion,
		},
		HTTPClient: httpClient,
	}, nil
}
