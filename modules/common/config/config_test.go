package config

import (
	"strings"
	"testing"
	"time"
)

func TestFromEnv_Defaults(t *testing.T) {
	for _, key := range []string{
		"OPENAI_API_KEY", "TEXT_PROVIDER", "IMAGE_PROVIDER", "TEXT_MODEL", "TEXT_TEMPERATURE",
		"IMAGE_MODEL", "PROFILE_TIMEOUT", "IMAGE_TIMEOUT", "REDIS_HOST", "SHARE_URL", "PORT", "GEMINI_WEBP_QUALITY",
	} {
		t.Setenv(key, "")
	}

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if err := cfg.validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	if cfg.TextModel != "gpt-4o" {
		t.Errorf("TextModel = %q, want gpt-4o", cfg.TextModel)
	}
	if cfg.TextTemperature != 1.0 {
		t.Errorf("TextTemperature = %v, want 1.0", cfg.TextTemperature)
	}
	if cfg.ImageModel != "dall-e-3" {
		t.Errorf("ImageModel = %q, want dall-e-3", cfg.ImageModel)
	}
	if cfg.ProfileTimeout != 60*time.Second || cfg.ImageTimeout != 120*time.Second {
		t.Errorf("timeouts = %s/%s", cfg.ProfileTimeout, cfg.ImageTimeout)
	}
	if cfg.QueueEnabled() {
		t.Error("queue should be disabled without REDIS_HOST")
	}
	if cfg.ShareURL != "https://pastlife.streamlit.app" {
		t.Errorf("ShareURL = %q", cfg.ShareURL)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.GeminiWebPQuality != 90 {
		t.Errorf("GeminiWebPQuality = %d, want 90", cfg.GeminiWebPQuality)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("TEXT_TEMPERATURE", "0.7")
	t.Setenv("PROFILE_TIMEOUT", "5s")
	t.Setenv("REDIS_HOST", "cache.local")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_USE_TLS", "true")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.TextTemperature != 0.7 {
		t.Errorf("TextTemperature = %v, want 0.7", cfg.TextTemperature)
	}
	if cfg.ProfileTimeout != 5*time.Second {
		t.Errorf("ProfileTimeout = %s, want 5s", cfg.ProfileTimeout)
	}
	if !cfg.QueueEnabled() {
		t.Error("queue should be enabled")
	}
	if got := cfg.GetRedisAddr(); got != "cache.local:6380" {
		t.Errorf("GetRedisAddr = %q", got)
	}
	if !cfg.RedisUseTLS {
		t.Error("RedisUseTLS should be true")
	}
}

func TestFromEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"TEXT_TEMPERATURE", "hot"},
		{"PROFILE_TIMEOUT", "soon"},
		{"IMAGE_TIMEOUT", "10"},
		{"GEMINI_WEBP_QUALITY", "high"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := FromEnv(); err == nil || !strings.Contains(err.Error(), tt.key) {
				t.Errorf("expected error mentioning %s, got %v", tt.key, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			TextProvider:    ProviderOpenAI,
			ImageProvider:   ProviderOpenAI,
			TextTemperature: 1.0,
			ProfileTimeout:  time.Second,
			ImageTimeout:    time.Second,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"ok", func(c *Config) {}, ""},
		{"unknown provider", func(c *Config) { c.ImageProvider = "stability" }, "unknown provider"},
		{"gemini without key", func(c *Config) { c.TextProvider = ProviderGemini }, "GEMINI_API_KEY"},
		{"gemini with key", func(c *Config) { c.TextProvider = ProviderGemini; c.GeminiAPIKey = "k" }, ""},
		{"temperature", func(c *Config) { c.TextTemperature = 3 }, "TEXT_TEMPERATURE"},
		{"timeout", func(c *Config) { c.ImageTimeout = 0 }, "IMAGE_TIMEOUT"},
		{"webp quality", func(c *Config) { c.GeminiWebPQuality = 101 }, "GEMINI_WEBP_QUALITY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}
