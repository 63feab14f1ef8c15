package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// supported oracle providers; "none" runs on the heuristic scorer only
var SupportedProviders = map[string]bool{
	"gemini":    true,
	"openai":    true,
	"anthropic": true,
	"none":      true,
}

// app config, built once at startup and passed to every adapter
type Config struct {
	Port     string
	LogLevel string
	Provider string

	Gemini     GeminiConfig
	OpenAI     ChatConfig
	Anthropic  ChatConfig
	ElevenLabs TTSConfig
	Database   DatabaseConfig
	Redis      RedisConfig

	JWTSecret      string
	AllowedOrigins []string

	OracleTimeout time.Duration
	TurnTimeout   time.Duration

	LeaseTTL          time.Duration
	LeasePollInterval time.Duration
	LeaseMaxAttempts  int

	HeuristicJitter float64
	HeuristicSeed   int64
	ScoreCacheTTL   time.Duration

	BackfillEnabled  bool
	BackfillSchedule string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

// shared by the OpenAI and Anthropic chat providers
type ChatConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature float64
}

type TTSConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type DatabaseConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     string
	SSLMode  string
}

// DSN renders the postgres connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

type RedisConfig struct {
	Addr     string
	Password string
}

// loads configuration from environment variables
func LoadConfig() (*Config, error) {
	config := &Config{
		Port:     getEnvOrDefault("PORT", "8080"),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		Provider: strings.ToLower(getEnvOrDefault("AI_PROVIDER", "gemini")),
		Gemini: GeminiConfig{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  getEnvOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		},
		OpenAI: ChatConfig{
			APIKey:      os.Getenv("OPENAI_API_KEY"),
			Model:       getEnvOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
			BaseURL:     getEnvOrDefault("OPENAI_BASE_URL", "https://api.openai.com"),
			MaxTokens:   getEnvAsInt("OPENAI_MAX_TOKENS", 800),
			Temperature: getEnvAsFloat("OPENAI_TEMPERATURE", 0.3),
		},
		Anthropic: ChatConfig{
			APIKey:      os.Getenv("ANTHROPIC_API_KEY"),
			Model:       getEnvOrDefault("ANTHROPIC_MODEL", "claude-3-haiku-20240307"),
			BaseURL:     getEnvOrDefault("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
			MaxTokens:   getEnvAsInt("ANTHROPIC_MAX_TOKENS", 800),
			Temperature: getEnvAsFloat("ANTHROPIC_TEMPERATURE", 0.3),
		},
		ElevenLabs: TTSConfig{
			APIKey:  os.Getenv("ELEVENLABS_API_KEY"),
			BaseURL: getEnvOrDefault("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io"),
			Model:   getEnvOrDefault("ELEVENLABS_MODEL", "eleven_monolingual_v1"),
		},
		Database: DatabaseConfig{
			Host:     getEnvOrDefault("POSTGRES_HOST", "localhost"),
			User:     getEnvOrDefault("POSTGRES_USER", "postgres"),
			Password: getEnvOrDefault("POSTGRES_PASSWORD", "postgres"),
			Name:     getEnvOrDefault("POSTGRES_DB", "postgres"),
			Port:     getEnvOrDefault("POSTGRES_PORT", "5432"),
			SSLMode:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		JWTSecret:         os.Getenv("JWT_SECRET"),
		AllowedOrigins:    splitList(getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:3000")),
		OracleTimeout:     getEnvAsDuration("ORACLE_TIMEOUT", 20*time.Second),
		TurnTimeout:       getEnvAsDuration("TURN_TIMEOUT", 45*time.Second),
		LeaseTTL:          getEnvAsDuration("LEASE_TTL", 60*time.Second),
		LeasePollInterval: getEnvAsDuration("LEASE_POLL_INTERVAL", 100*time.Millisecond),
		LeaseMaxAttempts:  getEnvAsInt("LEASE_MAX_ATTEMPTS", 50),
		HeuristicJitter:   getEnvAsFloat("HEURISTIC_JITTER", 1.0),
		HeuristicSeed:     int64(getEnvAsInt("HEURISTIC_SEED", 0)),
		ScoreCacheTTL:     getEnvAsDuration("SCORE_CACHE_TTL", 15*time.Minute),
		BackfillEnabled:   getEnvAsBool("SUMMARY_BACKFILL_ENABLED", true),
		BackfillSchedule:  getEnvOrDefault("SUMMARY_BACKFILL_SCHEDULE", "*/10 * * * *"),
	}
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if !SupportedProviders[config.Provider] {
		return errors.New("unsupported AI provider: " + config.Provider + ". Currently supported: gemini, openai, anthropic, none")
	}
	if config.LeaseMaxAttempts <= 0 {
		return errors.New("LEASE_MAX_ATTEMPTS must be positive")
	}
	if config.LeasePollInterval <= 0 {
		return errors.New("LEASE_POLL_INTERVAL must be positive")
	}
	if config.TurnTimeout <= 0 || config.OracleTimeout <= 0 {
		return errors.New("ORACLE_TIMEOUT and TURN_TIMEOUT must be positive")
	}
	// the lease must outlive the longest turn it guards
	if config.LeaseTTL <= config.TurnTimeout {
		return errors.New("LEASE_TTL must be greater than TURN_TIMEOUT")
	}
	if config.HeuristicJitter < 0 {
		return errors.New("HEURISTIC_JITTER must not be negative")
	}
	// provider credentials are checked by each provider's factory; a missing key degrades to heuristic scoring
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
