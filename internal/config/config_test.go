package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("CADPARSE_MODEL", "")
	t.Setenv("LLM_TIMEOUT", "")
	t.Setenv("LLM_MAX_ATTEMPTS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != ":8080" {
		t.Errorf("Port = %q, want :8080", cfg.Port)
	}
	if cfg.Model != "gemini-2.5-flash" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.LLMTimeout != 60*time.Second {
		t.Errorf("LLMTimeout = %v", cfg.LLMTimeout)
	}
	if cfg.MaxAttempts != 1 {
		t.Errorf("MaxAttempts = %d", cfg.MaxAttempts)
	}
}

func TestLoadPortNormalization(t *testing.T) {
	t.Setenv("PORT", "9090")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != ":9090" {
		t.Errorf("Port = %q, want :9090", cfg.Port)
	}

	t.Setenv("PORT", ":7000")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != ":7000" {
		t.Errorf("Port = %q, want :7000", cfg.Port)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CADPARSE_MODEL", "gemini-2.5-pro")
	t.Setenv("LLM_TIMEOUT", "5s")
	t.Setenv("LLM_MAX_ATTEMPTS", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model != "gemini-2.5-pro" {
		t.Errorf("Model = %q", cfg.Model)
	}
	if cfg.LLMTimeout != 5*time.Second {
		t.Errorf("LLMTimeout = %v", cfg.LLMTimeout)
	}
	if cfg.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d", cfg.MaxAttempts)
	}
}

func TestLoadRejectsBadOverrides(t *testing.T) {
	t.Setenv("LLM_TIMEOUT", "soon")
	t.Setenv("LLM_MAX_ATTEMPTS", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LLMTimeout != 60*time.Second {
		t.Errorf("LLMTimeout = %v, want default", cfg.LLMTimeout)
	}
	if cfg.MaxAttempts != 1 {
		t.Errorf("MaxAttempts = %d, want default", cfg.MaxAttempts)
	}
}
