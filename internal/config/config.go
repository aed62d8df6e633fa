package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries process configuration sourced from the environment.
// The API key is the collaborator credential; it is never logged and never
// embedded in pipeline output.
type Config struct {
	APIKey      string
	Model       string
	Port        string
	LLMTimeout  time.Duration
	MaxAttempts int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		APIKey:      strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		Model:       firstNonEmpty(strings.TrimSpace(os.Getenv("CADPARSE_MODEL")), "gemini-2.5-flash"),
		Port:        resolvePort(),
		LLMTimeout:  resolveDuration("LLM_TIMEOUT", 60*time.Second),
		MaxAttempts: resolveInt("LLM_MAX_ATTEMPTS", 1),
	}, nil
}

func resolvePort() string {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		return ":8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}

func resolveDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func resolveInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
