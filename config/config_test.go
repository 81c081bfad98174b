package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DatabaseURL != filepath.Join(".", "data", "plantcare.db") {
		t.Errorf("Unexpected DatabaseURL: %s", cfg.DatabaseURL)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected port 8080, got %s", cfg.Port)
	}
	if cfg.ReminderTime != "08:00" {
		t.Errorf("Expected reminder 08:00, got %s", cfg.ReminderTime)
	}
	if cfg.APIKey != "" {
		t.Errorf("Expected no API key, got %s", cfg.APIKey)
	}
	if cfg.TelegramEnabled() {
		t.Error("Expected Telegram to be disabled")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PLANTCARE_DATABASE_URL", "/tmp/plants.db")
	t.Setenv("PLANTCARE_SERVER_PORT", "9090")
	t.Setenv("PLANTCARE_API_KEY", "secret")
	t.Setenv("PLANTCARE_TELEGRAM_TOKEN", "token")
	t.Setenv("PLANTCARE_TELEGRAM_CHAT_ID", "42")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DatabaseURL != "/tmp/plants.db" || cfg.Port != "9090" || cfg.APIKey != "secret" {
		t.Errorf("Unexpected config: %+v", cfg)
	}
	if !cfg.TelegramEnabled() || cfg.TelegramChatID != 42 {
		t.Errorf("Expected Telegram chat 42, got %+v", cfg)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	content := "server_port: \"7070\"\nreminder_time: \"06:30\"\n"
	if err := os.WriteFile(filepath.Join(dir, "plantcare.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	// 環境変数がファイルより優先される
	t.Setenv("PLANTCARE_REMINDER_TIME", "07:15")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "7070" {
		t.Errorf("Expected port from file, got %s", cfg.Port)
	}
	if cfg.ReminderTime != "07:15" {
		t.Errorf("Expected reminder from env, got %s", cfg.ReminderTime)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}
