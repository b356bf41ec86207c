package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	AIOff    = "off"
	AIGemini = "gemini"
)

type Config struct {
	Port string

	// Upload limits
	MaxUploadBytes int64

	// Splitting defaults
	MaxLevel    int
	Concurrency int

	// Title clean-up
	AIProvider   string
	GoogleAPIKey string
	GeminiModel  string

	// HTTP timeouts
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8080"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 104857600), // 100MB

		MaxLevel:    envInt("MAX_LEVEL", 3),
		Concurrency: envInt("CONCURRENCY", 4),

		AIProvider:   envOr("AI_PROVIDER", AIOff),
		GoogleAPIKey: os.Getenv("GOOGLE_API_KEY"),
		GeminiModel:  envOr("GEMINI_MODEL", "gemini-2.5-flash"),

		ReadTimeout:     envDuration("READ_TIMEOUT", 60*time.Second),
		WriteTimeout:    envDuration("WRITE_TIMEOUT", 5*time.Minute),
		ShutdownTimeout: envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 104857600
	}
	if cfg.MaxLevel < 0 {
		cfg.MaxLevel = 3
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 60 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Minute
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	return cfg
}

func (c Config) Validate() error {
	switch c.AIProvider {
	case AIOff:
	case AIGemini:
		if c.GoogleAPIKey == "" {
			return fmt.Errorf("GOOGLE_API_KEY is required when AI_PROVIDER=%s", AIGemini)
		}
	default:
		return fmt.Errorf("unknown AI_PROVIDER %q (want %s or %s)", c.AIProvider, AIOff, AIGemini)
	}
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
