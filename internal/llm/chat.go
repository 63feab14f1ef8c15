package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/models"
)

// maximum response body read from a chat endpoint
const maxChatResponseBytes = 1 << 20

// ErrUnrecognizedResponse is returned when a body matches neither supported completion shape
var ErrUnrecognizedResponse = errors.New("unrecognized completion response shape")

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the request body shared by the OpenAI and Anthropic chat endpoints
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

// completionEnvelope covers both {choices:[{message:{content}}]} and {content:[{text}]}
type completionEnvelope struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// ExtractText normalizes an OpenAI-style or Anthropic-style completion body to its text
func ExtractText(body []byte) (string, error) {
	var env completionEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", fmt.Errorf("decode completion: %w", err)
	}
	if env.Error != nil && env.Error.Message != "" {
		return "", fmt.Errorf("completion error: %s", env.Error.Message)
	}

	if len(env.Choices) > 0 {
		text := strings.TrimSpace(env.Choices[0].Message.Content)
		if text == "" {
			return "", ErrUnrecognizedResponse
		}
		return text, nil
	}

	var parts []string
	for _, block := range env.Content {
		if block.Type != "" && block.Type != "text" {
			continue
		}
		if block.Text != "" {
			parts = append(parts, block.Text)
		}
	}
	if len(parts) == 0 {
		return "", ErrUnrecognizedResponse
	}
	return strings.TrimSpace(strings.Join(parts, "\n")), nil
}

// ChatClient posts a single-turn chat request and normalizes the reply.
// The OpenAI and Anthropic providers are both configured instances of it.
type ChatClient struct {
	Provider    string
	Endpoint    string
	Model       string
	MaxTokens   int
	Temperature float64
	Headers     map[string]string
	HTTPClient  *http.Client
}

func (c *ChatClient) GenerateContent(ctx context.Context, prompt string, requestID string) (*models.GenerationResponse, error) {
	startTime := time.Now()

	payload, err := json.Marshal(ChatRequest{
		Model:       c.Model,
		Messages:    []ChatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   c.MaxTokens,
		Temperature: c.Temperature,
	})
	if err != nil {
		return nil, c.fail(ErrCodeInvalidInput, "Failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, c.fail(ErrCodeInvalidInput, "Failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, c.fail(ErrCodeTimeout, "Request timed out", err)
		}
		return nil, c.fail(ErrCodeServiceDown, "Request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxChatResponseBytes))
	if err != nil {
		return nil, c.fail(ErrCodeServiceDown, "Failed to read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.fail(codeForStatus(resp.StatusCode),
			fmt.Sprintf("unexpected status %d", resp.StatusCode), errors.New(truncate(string(body), 200)))
	}

	text, err := ExtractText(body)
	if err != nil {
		return nil, c.fail(ErrCodeInvalidInput, "Failed to extract response text", err)
	}

	return &models.GenerationResponse{
		Content:   text,
		RequestID: requestID,
		Metadata: models.GenerationMetadata{
			ProcessingTime: int(time.Since(startTime).Milliseconds()),
			Provider:       c.Provider,
			Model:          c.Model,
		},
	}, nil
}

func (c *ChatClient) GetProviderName() string {
	return c.Provider
}

func (c *ChatClient) fail(code, message string, err error) error {
	return &ProviderError{Provider: c.Provider, Code: code, Message: message, Err: err}
}

func codeForStatus(status int) string {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrCodeAPIKey
	case status == http.StatusTooManyRequests:
		return ErrCodeRateLimit
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return ErrCodeTimeout
	case status >= 400 && status < 500:
		return ErrCodeInvalidInput
	default:
		return ErrCodeServiceDown
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
