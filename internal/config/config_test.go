package config

import (
	"testing"
	"time"
)

func TestLoadConfig_DefaultProvider(t *testing.T) {
	t.Setenv("AI_PROVIDER", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.Provider != "gemini" {
		t.Fatalf("expected provider gemini, got %s", cfg.Provider)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Port)
	}
	if cfg.LeaseMaxAttempts != 50 {
		t.Fatalf("expected default lease attempts 50, got %d", cfg.LeaseMaxAttempts)
	}
}

func TestLoadConfig_UnsupportedProvider(t *testing.T) {
	t.Setenv("AI_PROVIDER", "unknown")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}

func TestLoadConfig_ProviderIsCaseInsensitive(t *testing.T) {
	t.Setenv("AI_PROVIDER", "OpenAI")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Provider != "openai" {
		t.Fatalf("expected openai, got %s", cfg.Provider)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("AI_PROVIDER", "none")
	t.Setenv("TURN_TIMEOUT", "5s")
	t.Setenv("LEASE_MAX_ATTEMPTS", "3")
	t.Setenv("HEURISTIC_JITTER", "0")
	t.Setenv("SUMMARY_BACKFILL_ENABLED", "false")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.TurnTimeout != 5*time.Second {
		t.Fatalf("expected 5s turn timeout, got %v", cfg.TurnTimeout)
	}
	if cfg.LeaseMaxAttempts != 3 {
		t.Fatalf("expected 3 lease attempts, got %d", cfg.LeaseMaxAttempts)
	}
	if cfg.HeuristicJitter != 0 {
		t.Fatalf("expected jitter disabled, got %f", cfg.HeuristicJitter)
	}
	if cfg.BackfillEnabled {
		t.Fatal("expected backfill disabled")
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins: %v", cfg.AllowedOrigins)
	}
}

func TestLoadConfig_RejectsNegativeJitter(t *testing.T) {
	t.Setenv("AI_PROVIDER", "none")
	t.Setenv("HEURISTIC_JITTER", "-1")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for negative jitter")
	}
}

func TestLoadConfig_LeaseMustOutliveTurn(t *testing.T) {
	t.Setenv("AI_PROVIDER", "none")
	t.Setenv("TURN_TIMEOUT", "45s")

	for _, ttl := range []string{"30s", "45s"} {
		t.Setenv("LEASE_TTL", ttl)
		if _, err := LoadConfig(); err == nil {
			t.Fatalf("expected error for LEASE_TTL %s not above TURN_TIMEOUT", ttl)
		}
	}

	t.Setenv("LEASE_TTL", "46s")
	if _, err := LoadConfig(); err != nil {
		t.Fatalf("expected LEASE_TTL above TURN_TIMEOUT to load, got %v", err)
	}
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("UNIT_TEST_ENV", "value")
	if got := getEnvOrDefault("UNIT_TEST_ENV", "fallback"); got != "value" {
		t.Fatalf("expected env value, got %s", got)
	}

	t.Setenv("UNIT_TEST_ENV", "")
	if got := getEnvOrDefault("UNIT_TEST_ENV", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback value, got %s", got)
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("TEST_INT", "10")
	if got := getEnvAsInt("TEST_INT", 5); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
	t.Setenv("TEST_INT", "ten")
	if got := getEnvAsInt("TEST_INT", 5); got != 5 {
		t.Fatalf("expected default 5 for unparsable value, got %d", got)
	}

	t.Setenv("TEST_FLOAT", "0.5")
	if got := getEnvAsFloat("TEST_FLOAT", 0.1); got != 0.5 {
		t.Fatalf("expected 0.5, got %f", got)
	}

	t.Setenv("TEST_DURATION", "250ms")
	if got := getEnvAsDuration("TEST_DURATION", time.Second); got != 250*time.Millisecond {
		t.Fatalf("expected 250ms, got %v", got)
	}

	if got := getEnvAsBool("MISSING_BOOL", true); !got {
		t.Fatal("expected default true")
	}
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", User: "u", Password: "p", Name: "n", Port: "5432", SSLMode: "disable"}
	want := "host=db user=u password=p dbname=n port=5432 sslmode=disable"
	if got := d.DSN(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
