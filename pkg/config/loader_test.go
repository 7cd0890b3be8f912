package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFrom_Defaults(t *testing.T) {
	// Act
	cfg, err := LoadFrom(t.TempDir())

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.HTTP.Port)
	}
	if cfg.Session.TTL != 30*time.Minute || cfg.Session.MaxRetries != 3 || cfg.Session.SweepInterval != 5*time.Minute {
		t.Errorf("unexpected session defaults: %+v", cfg.Session)
	}
	if cfg.Dialogue.DefaultLanguage != "en" || cfg.Dialogue.Timezone != "Europe/Berlin" {
		t.Errorf("unexpected dialogue defaults: %+v", cfg.Dialogue)
	}
	if cfg.LLM.Model != "gpt-4o-mini" {
		t.Errorf("unexpected model %q", cfg.LLM.Model)
	}
}

func TestLoadFrom_FileAndEnv(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	yaml := []byte(`
http:
  port: 9090
session:
  ttl: 10m
  max_retries: 5
dialogue:
  timezone: UTC
redis:
  url: redis://file:6379/0
`)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("REDIS_URL", "redis://env:6379/1")
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("APP_SESSION_MAX_RETRIES", "4")

	// Act
	cfg, err := LoadFrom(dir)

	// Assert
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 || cfg.Session.TTL != 10*time.Minute {
		t.Errorf("file values not applied: %+v %+v", cfg.HTTP, cfg.Session)
	}
	if cfg.Redis.URL != "redis://env:6379/1" {
		t.Errorf("env alias should win over file, got %q", cfg.Redis.URL)
	}
	if cfg.LLM.APIKey != "sk-env" {
		t.Errorf("OPENAI_API_KEY not bound, got %q", cfg.LLM.APIKey)
	}
	if cfg.Session.MaxRetries != 4 {
		t.Errorf("prefixed env override not applied, got %d", cfg.Session.MaxRetries)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad timezone", map[string]string{"DEFAULT_TIMEZONE": "Mars/Olympus"}},
		{"zero retries", map[string]string{"APP_SESSION_MAX_RETRIES": "0"}},
		{"bad port", map[string]string{"HTTP_PORT": "70000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if _, err := LoadFrom(t.TempDir()); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
