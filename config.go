package scitalk

import (
	"fmt"
	"os"
	"strings"
)

// Config holds the webserver configuration, read from the environment.
type Config struct {
	Port          string
	OpenAIKey     string
	Model         string
	FontDir       string
	TemplateDir   string
	SessionSecret string
	TranscriptDir string // empty disables per-session transcript files
	Verbose       bool
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8180"),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		Model:         getEnv("OPENAI_MODEL", DefaultModel),
		FontDir:       getEnv("FONT_DIR", "fonts"),
		TemplateDir:   getEnv("TEMPLATE_DIR", "templates"),
		SessionSecret: getEnv("SESSION_SECRET", "scitalk-dev-secret"),
		TranscriptDir: getEnv("TRANSCRIPT_DIR", ""),
		Verbose:       getEnvBool("VERBOSE", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.OpenAIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable is required")
	}
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.FontDir == "" {
		return fmt.Errorf("FONT_DIR cannot be empty")
	}
	if c.TemplateDir == "" {
		return fmt.Errorf("TEMPLATE_DIR cannot be empty")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
