package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("NBP_POLL_SECS", "")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("SSH_PORT", "")

	cfg := Load()
	if cfg.RedisURL != "localhost:6379" {
		t.Fatalf("expected default redis url, got %s", cfg.RedisURL)
	}
	if cfg.NBPPollSecs != 300 {
		t.Fatalf("expected default poll secs 300, got %d", cfg.NBPPollSecs)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default http port 8080, got %s", cfg.HTTPPort)
	}
	if cfg.SSHPort != "2222" {
		t.Fatalf("expected default ssh port 2222, got %s", cfg.SSHPort)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Fatalf("expected default model, got %s", cfg.OpenAIModel)
	}
}

func TestLoadWithEnv(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://example")
	t.Setenv("REDIS_URL", "redis:6379")
	t.Setenv("NBP_POLL_SECS", "120")

	cfg := Load()
	if cfg.TelegramBotToken != "token" || cfg.DatabaseURL != "postgres://example" || cfg.RedisURL != "redis:6379" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.NBPPollSecs != 120 {
		t.Fatalf("expected poll secs 120, got %d", cfg.NBPPollSecs)
	}

	t.Setenv("NBP_POLL_SECS", "bad")
	cfg = Load()
	if cfg.NBPPollSecs != 300 {
		t.Fatalf("invalid poll secs should fall back to default, got %d", cfg.NBPPollSecs)
	}
}
