package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"HTTP_ADDR", "DATABASE_URL", "CASE_TTL", "DEV_PANEL_ENABLED", "SIMULATED_LATENCY", "SIGNING_DELAY", "IDENTIFY_MAX_ATTEMPTS", "JWT_PRIVATE_KEY_PATH", "JWT_PUBLIC_KEY_PATH", "SMTP_HOST", "SMTP_PORT", "SMTP_SECURE"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	assert.Equal(t, ":8000", cfg.HTTPAddr)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, 24*time.Hour, cfg.CaseTTL)
	assert.Equal(t, "v3", cfg.StateSchemaVersion)
	assert.False(t, cfg.DevPanelEnabled)
	assert.Equal(t, 800*time.Millisecond, cfg.SimulatedLatency)
	assert.Equal(t, 3*time.Second, cfg.SigningDelay)
	assert.Equal(t, int64(5), cfg.IdentifyMaxAttempts)
	assert.False(t, cfg.HasKeyFiles())
	assert.Empty(t, cfg.SMTP.Host)
	assert.Equal(t, "587", cfg.SMTP.Port)
	assert.False(t, cfg.SMTP.Secure)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CASE_TTL", "2h")
	t.Setenv("DEV_PANEL_ENABLED", "TRUE")
	t.Setenv("SIMULATED_LATENCY", "0s")
	t.Setenv("IDENTIFY_MAX_ATTEMPTS", "nope")
	t.Setenv("SIGNING_DELAY", "-1s")
	t.Setenv("JWT_PRIVATE_KEY_PATH", "/keys/priv.pem")
	t.Setenv("JWT_PUBLIC_KEY_PATH", "/keys/pub.pem")

	cfg := Load()
	assert.Equal(t, 2*time.Hour, cfg.CaseTTL)
	assert.Equal(t, 2*time.Hour, cfg.JWT.TTL)
	assert.True(t, cfg.DevPanelEnabled)
	assert.Zero(t, cfg.SimulatedLatency)
	assert.Equal(t, int64(5), cfg.IdentifyMaxAttempts)
	assert.Equal(t, 3*time.Second, cfg.SigningDelay)
	assert.True(t, cfg.HasKeyFiles())
}
