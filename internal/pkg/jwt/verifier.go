// internal/pkg/jwt/verifier.go
package jwt

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

type Verifier struct {
	key      *SigningKey
	issuer   string
	audience string
}

func NewVerifier(key *SigningKey, issuer, audience string) *Verifier {
	return &Verifier{
		key:      key,
		issuer:   issuer,
		audience: audience,
	}
}

// Verify validates a JWT token and returns the claims
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	if v.key == nil || v.key.Public == nil {
		return nil, fmt.Errorf("jwt verifier has nil public key")
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		if kid, _ := token.Header["kid"].(string); kid != v.key.ID {
			return nil, fmt.Errorf("unknown signing key %q", kid)
		}
		return v.key.Public, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	if claims.Issuer != v.issuer {
		return nil, fmt.Errorf("invalid issuer: expected %s, got %s", v.issuer, claims.Issuer)
	}

	if !claims.VerifyAudience(v.audience, true) {
		return nil, fmt.Errorf("invalid audience")
	}

	return claims, nil
}

// VerifyCaseToken verifies that the token grants access to a case.
func (v *Verifier) VerifyCaseToken(tokenString string) (*Claims, error) {
	claims, err := v.Verify(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.Purpose != PurposeCase {
		return nil, fmt.Errorf("token is not a case token")
	}
	if claims.CaseID == "" || claims.CaseID != claims.Subject {
		return nil, fmt.Errorf("case token subject mismatch")
	}
	switch claims.CustomerType {
	case "", CustomerTypePrivate, CustomerTypeCompany:
	default:
		return nil, fmt.Errorf("case token has unknown customer type %q", claims.CustomerType)
	}

	return claims, nil
}
