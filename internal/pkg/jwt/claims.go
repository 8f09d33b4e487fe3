// internal/pkg/jwt/claims.go
package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// PurposeCase marks a token that grants access to one signup case.
const PurposeCase = "case"

// Customer types a case token may carry. They mirror the wizard flows.
const (
	CustomerTypePrivate = "PRIVATE"
	CustomerTypeCompany = "COMPANY"
)

// Claims represents the JWT claims of a case token
type Claims struct {
	CaseID       string `json:"case_id"`
	CustomerType string `json:"customer_type,omitempty"`
	Purpose      string `json:"purpose"`
	jwt.RegisteredClaims
}

// VerifyAudience checks if the expected audience is listed in the claims.
func (c *Claims) VerifyAudience(audience string, required bool) bool {
	if len(c.Audience) == 0 {
		return !required
	}

	for _, aud := range c.Audience {
		if aud == audience {
			return true
		}
	}

	return false
}
