package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"signup-service/internal/pkg/jwt"
	"signup-service/internal/service/email"
)

type AppConfig struct {
	// Server
	HTTPAddr  string
	RedisAddr string
	RedisPass string

	// DatabaseURL is optional; orders are kept in memory without it.
	DatabaseURL string

	// JWT
	JWT jwt.Config

	// SMTP is optional; confirmations are logged without a host.
	SMTP email.SMTPConfig

	// Case state
	CaseTTL            time.Duration
	StateSchemaVersion string

	// Simulated backends
	DevPanelEnabled      bool
	SimulatedLatency     time.Duration
	SigningDelay         time.Duration
	IdentifyMaxAttempts  int64
	IdentifyAttemptRange time.Duration
}

// Load loads environment variables into AppConfig.
func Load() AppConfig {
	return AppConfig{
		HTTPAddr:  getEnv("HTTP_ADDR", ":8000"),
		RedisAddr: getEnv("REDIS_ADDR", ""),
		RedisPass: getEnv("REDIS_PASS", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		JWT: jwt.Config{
			PrivPath: getEnv("JWT_PRIVATE_KEY_PATH", ""),
			PubPath:  getEnv("JWT_PUBLIC_KEY_PATH", ""),
			Issuer:   "signup-service",
			Audience: "signup-clients",
			TTL:      getDuration("CASE_TTL", 24*time.Hour),
			KID:      "signup-key",
		},

		SMTP: email.SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASS", ""),
			FromName: getEnv("SMTP_FROM_NAME", "Bixia"),
			Secure:   strings.ToLower(getEnv("SMTP_SECURE", "false")) == "true",
		},

		CaseTTL:            getDuration("CASE_TTL", 24*time.Hour),
		StateSchemaVersion: getEnv("STATE_SCHEMA_VERSION", "v3"),

		DevPanelEnabled:      strings.ToLower(getEnv("DEV_PANEL_ENABLED", "false")) == "true",
		SimulatedLatency:     getDuration("SIMULATED_LATENCY", 800*time.Millisecond),
		SigningDelay:         getDuration("SIGNING_DELAY", 3*time.Second),
		IdentifyMaxAttempts:  getInt("IDENTIFY_MAX_ATTEMPTS", 5),
		IdentifyAttemptRange: 15 * time.Minute,
	}
}

// HasKeyFiles reports whether both signing key paths are configured.
func (c AppConfig) HasKeyFiles() bool {
	return c.JWT.PrivPath != "" && c.JWT.PubPath != ""
}

// --- Helper functions ---

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func getInt(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
