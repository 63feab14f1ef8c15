// Package tts synthesizes interviewer speech through ElevenLabs
package tts

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

	"go.uber.org/zap"

	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/config"
	"github.com/pratikacharya1234/AI-Interview-Platform-sub003/internal/poll"
)

const (
	retryAttempts = 3
	retryDelay    = time.Second
	maxAudioBytes = 10 << 20
)

// ErrNotConfigured is returned when no API key is set; callers fall back to browser speech
var ErrNotConfigured = errors.New("text-to-speech is not configured")

// known voice names; anything else is passed through as a voice id
var voices = map[string]string{
	"rachel": "21m00Tcm4TlvDq8ikWAM",
	"adam":   "pNInz6obpgDQGcFmaJgB",
	"domi":   "AZnzlk1XvdvUeBnXmlld",
	"elli":   "MF3mGyEYCl7XYWbV9V6O",
	"josh":   "TxGEqnHWrfWFTfGW9XjX",
	"arnold": "VR6AewLTigWG4xSOukaG",
	"sam":    "yoZ06aMxZJJ28mfd3POQ",
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"use_speaker_boost"`
}

type synthesisRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

var defaultVoiceSettings = voiceSettings{
	Stability:       0.5,
	SimilarityBoost: 0.75,
	Style:           0.0,
	UseSpeakerBoost: true,
}

type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	retryDelay time.Duration
	logger     *zap.Logger
}

func NewClient(cfg config.TTSConfig, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		model:      cfg.Model,
		httpClient: httpClient,
		retryDelay: retryDelay,
		logger:     logger,
	}
}

// Configured reports whether an API key is set
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

// VoiceID resolves a voice name to an ElevenLabs voice id
func VoiceID(voice string) string {
	if id, ok := voices[strings.ToLower(strings.TrimSpace(voice))]; ok {
		return id
	}
	return voice
}

// Synthesize returns MP3 audio for text, retrying transient failures
func (c *Client) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	payload, err := json.Marshal(synthesisRequest{
		Text:          text,
		ModelID:       c.model,
		VoiceSettings: defaultVoiceSettings,
	})
	if err != nil {
		return nil, fmt.Errorf("encode tts request: %w", err)
	}
	url := fmt.Sprintf("%s/v1/text-to-speech/%s", c.baseURL, VoiceID(voice))

	var audio []byte
	attempt := 0
	err = poll.Retry(ctx, retryAttempts, c.retryDelay, func(ctx context.Context) error {
		attempt++
		body, postErr := c.post(ctx, url, payload)
		if postErr != nil {
			c.logger.Warn("TTS request failed", zap.Int("attempt", attempt), zap.Error(postErr))
			return postErr
		}
		audio = body
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("tts failed after %d attempts: %w", attempt, err)
	}
	return audio, nil
}

func (c *Client) post(ctx context.Context, url string, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAudioBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		statusErr := fmt.Errorf("elevenlabs returned status %d: %s", resp.StatusCode, string(body))
		// only server errors and rate limiting can clear up on their own
		if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, poll.Permanent(statusErr)
		}
		return nil, statusErr
	}
	if len(body) == 0 {
		return nil, errors.New("elevenlabs returned empty audio")
	}
	return body, nil
}
