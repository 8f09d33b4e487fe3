// internal/pkg/jwt/generator.go
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

type Generator struct {
	key      *SigningKey
	issuer   string
	audience string
	Ttl      time.Duration
}

func NewGenerator(key *SigningKey, issuer, audience string, ttl time.Duration) *Generator {
	return &Generator{
		key:      key,
		issuer:   issuer,
		audience: audience,
		Ttl:      ttl,
	}
}

// GenerateCaseToken signs a token for the case. It returns the token and its jti.
func (g *Generator) GenerateCaseToken(caseID, customerType string) (string, string, error) {
	if g.key == nil || g.key.Private == nil {
		return "", "", fmt.Errorf("jwt generator has nil private key")
	}
	if caseID == "" {
		return "", "", fmt.Errorf("case token needs a case id")
	}

	now := time.Now()
	jti := ulid.Make().String()

	claims := &Claims{
		CaseID:       caseID,
		CustomerType: customerType,
		Purpose:      PurposeCase,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    g.issuer,
			Subject:   caseID,
			Audience:  []string{g.audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(g.Ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        jti,
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	tok.Header["kid"] = g.key.ID

	signed, err := tok.SignedString(g.key.Private)
	return signed, jti, err
}
