package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager(t *testing.T, ttl time.Duration) *Manager {
	t.Helper()
	m, err := NewEphemeral(Config{Issuer: "signup-service", Audience: "signup-clients", TTL: ttl, KID: "test"})
	require.NoError(t, err)
	return m
}

func TestCaseTokenRoundTrip(t *testing.T) {
	m := testManager(t, time.Hour)

	tok, jti, err := m.Generator.GenerateCaseToken("01JCASE", "PRIVATE")
	require.NoError(t, err)
	assert.NotEmpty(t, jti)

	claims, err := m.Verifier.VerifyCaseToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "01JCASE", claims.CaseID)
	assert.Equal(t, "PRIVATE", claims.CustomerType)
	assert.Equal(t, jti, claims.ID)
}

func TestCaseTokenRejectsForeignKey(t *testing.T) {
	a := testManager(t, time.Hour)
	b := testManager(t, time.Hour)

	tok, _, err := a.Generator.GenerateCaseToken("01JCASE", "")
	require.NoError(t, err)

	_, err = b.Verifier.VerifyCaseToken(tok)
	assert.Error(t, err)
}

func TestCaseTokenExpired(t *testing.T) {
	m := testManager(t, -time.Minute)
	tok, _, err := m.Generator.GenerateCaseToken("01JCASE", "")
	require.NoError(t, err)

	_, err = m.Verifier.VerifyCaseToken(tok)
	assert.Error(t, err)
}

func TestCaseTokenNeedsCaseID(t *testing.T) {
	_, _, err := testManager(t, time.Hour).Generator.GenerateCaseToken("", "")
	assert.Error(t, err)
}

func TestCaseTokenCarriesKeyID(t *testing.T) {
	m := testManager(t, time.Hour)
	tok, _, err := m.Generator.GenerateCaseToken("01JCASE", "COMPANY")
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(tok, &Claims{})
	require.NoError(t, err)
	assert.Equal(t, "test", parsed.Header["kid"])
}

func TestCaseTokenRejectsRotatedKeyID(t *testing.T) {
	key, err := GenerateSigningKey("2025-01")
	require.NoError(t, err)
	gen := NewGenerator(key, "signup-service", "signup-clients", time.Hour)
	tok, _, err := gen.GenerateCaseToken("01JCASE", "PRIVATE")
	require.NoError(t, err)

	rotated := &SigningKey{ID: "2025-02", Private: key.Private, Public: key.Public}
	_, err = NewVerifier(rotated, "signup-service", "signup-clients").VerifyCaseToken(tok)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2025-01")

	_, err = NewVerifier(key, "signup-service", "signup-clients").VerifyCaseToken(tok)
	assert.NoError(t, err)
}

func TestCaseTokenRejectsUnknownCustomerType(t *testing.T) {
	m := testManager(t, time.Hour)
	tok, _, err := m.Generator.GenerateCaseToken("01JCASE", "private")
	require.NoError(t, err)

	_, err = m.Verifier.VerifyCaseToken(tok)
	assert.Error(t, err)
}

func writePEM(t *testing.T, dir, name, typ string, der []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: typ, Bytes: der}), 0o600))
	return path
}

func TestLoadSigningKey(t *testing.T) {
	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	pkcs8, err := x509.MarshalPKCS8PrivateKey(priv)
	require.NoError(t, err)
	pkix, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	require.NoError(t, err)

	dir := t.TempDir()
	pairs := []struct {
		name      string
		priv, pub string
	}{
		{"pkcs1", writePEM(t, dir, "p1.pem", "RSA PRIVATE KEY", x509.MarshalPKCS1PrivateKey(priv)), writePEM(t, dir, "p1.pub", "RSA PUBLIC KEY", x509.MarshalPKCS1PublicKey(&priv.PublicKey))},
		{"pkcs8", writePEM(t, dir, "p8.pem", "PRIVATE KEY", pkcs8), writePEM(t, dir, "p8.pub", "PUBLIC KEY", pkix)},
	}
	var ids []string
	for _, p := range pairs {
		key, err := LoadSigningKey(p.priv, p.pub, "")
		require.NoError(t, err, p.name)
		assert.Len(t, key.ID, 16, p.name)
		ids = append(ids, key.ID)
	}
	assert.Equal(t, ids[0], ids[1], "the key id depends on the key, not its encoding")

	key, err := LoadSigningKey(pairs[0].priv, pairs[0].pub, "signup-key")
	require.NoError(t, err)
	assert.Equal(t, "signup-key", key.ID)

	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	foreign := writePEM(t, dir, "other.pub", "RSA PUBLIC KEY", x509.MarshalPKCS1PublicKey(&other.PublicKey))
	_, err = LoadSigningKey(pairs[0].priv, foreign, "")
	assert.ErrorContains(t, err, "does not match")

	_, err = LoadSigningKey(pairs[0].pub, pairs[0].pub, "")
	assert.ErrorContains(t, err, "invalid PEM private key type")

	_, err = LoadSigningKey(filepath.Join(dir, "missing.pem"), pairs[0].pub, "")
	assert.Error(t, err)

	_, err = ParseSigningKey([]byte(strings.Repeat("x", 10)), nil, "")
	assert.ErrorContains(t, err, "no PEM block")
}
