// internal/pkg/jwt/loader.go
package jwt

import (
	"fmt"
	"time"
)

type Config struct {
	PrivPath string
	PubPath  string
	Issuer   string
	Audience string
	TTL      time.Duration
	KID      string
}

type Manager struct {
	Generator *Generator
	Verifier  *Verifier
}

func LoadAndBuild(cfg Config) (*Manager, error) {
	key, err := LoadSigningKey(cfg.PrivPath, cfg.PubPath, cfg.KID)
	if err != nil {
		return nil, fmt.Errorf("failed to load signing key from %s: %w", cfg.PrivPath, err)
	}
	return build(cfg, key), nil
}

// NewEphemeral signs with a key generated in memory. Tokens do not survive a
// restart; used in development and tests when no key files are configured.
func NewEphemeral(cfg Config) (*Manager, error) {
	key, err := GenerateSigningKey(cfg.KID)
	if err != nil {
		return nil, err
	}
	return build(cfg, key), nil
}

func build(cfg Config, key *SigningKey) *Manager {
	return &Manager{
		Generator: NewGenerator(key, cfg.Issuer, cfg.Audience, cfg.TTL),
		Verifier:  NewVerifier(key, cfg.Issuer, cfg.Audience),
	}
}
