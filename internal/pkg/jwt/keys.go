// internal/pkg/jwt/keys.go
package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"os"

	"golang.org/x/crypto/blake2b"
)

// SigningKey is the RSA pair that case tokens are signed with. ID travels in
// the token's kid header so a verifier can tell a rotated key from a forged
// token.
type SigningKey struct {
	ID      string
	Private *rsa.PrivateKey
	Public  *rsa.PublicKey
}

// LoadSigningKey reads the PEM pair from disk. An empty kid is derived from
// the public key.
func LoadSigningKey(privPath, pubPath, kid string) (*SigningKey, error) {
	privPEM, err := os.ReadFile(privPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}
	pubPEM, err := os.ReadFile(pubPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read public key: %w", err)
	}
	return ParseSigningKey(privPEM, pubPEM, kid)
}

// ParseSigningKey accepts PKCS1 or PKCS8 private keys and PKCS1 or PKIX
// public keys. The two halves must belong together.
func ParseSigningKey(privPEM, pubPEM []byte, kid string) (*SigningKey, error) {
	priv, err := parsePrivate(privPEM)
	if err != nil {
		return nil, err
	}
	pub, err := parsePublic(pubPEM)
	if err != nil {
		return nil, err
	}
	if !priv.PublicKey.Equal(pub) {
		return nil, fmt.Errorf("public key does not match the private key")
	}
	return newSigningKey(priv, kid)
}

// GenerateSigningKey makes an in-memory key. Tokens signed with it do not
// survive a restart.
func GenerateSigningKey(kid string) (*SigningKey, error) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("failed to generate signing key: %w", err)
	}
	return newSigningKey(priv, kid)
}

func newSigningKey(priv *rsa.PrivateKey, kid string) (*SigningKey, error) {
	if kid == "" {
		id, err := keyID(&priv.PublicKey)
		if err != nil {
			return nil, err
		}
		kid = id
	}
	return &SigningKey{ID: kid, Private: priv, Public: &priv.PublicKey}, nil
}

// keyID fingerprints the public key.
func keyID(pub *rsa.PublicKey) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return "", fmt.Errorf("failed to encode public key: %w", err)
	}
	sum := blake2b.Sum256(der)
	return hex.EncodeToString(sum[:8]), nil
}

func parsePrivate(b []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(b)
	if block == nil {
		return nil, fmt.Errorf("no PEM block in private key")
	}
	switch block.Type {
	case "RSA PRIVATE KEY":
		return x509.ParsePKCS1PrivateKey(block.Bytes)
	case "PRIVATE KEY":
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PKCS8 private key: %w", err)
		}
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("not an RSA private key")
		}
		return rsaKey, nil
	}
	return nil, fmt.Errorf("invalid PEM private key type: %s", block.Type)
}

func parsePublic(b []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(b)
	if block == nil {
		return nil, fmt.Errorf("no PEM block in public key")
	}
	switch block.Type {
	case "RSA PUBLIC KEY":
		return x509.ParsePKCS1PublicKey(block.Bytes)
	case "PUBLIC KEY":
		key, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PKIX public key: %w", err)
		}
		rsaKey, ok := key.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("not an RSA public key")
		}
		return rsaKey, nil
	}
	return nil, fmt.Errorf("invalid PEM public key type: %s", block.Type)
}
