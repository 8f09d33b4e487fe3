// internal/middleware/auth_middleware.go
package middleware

import (
	"net/http"
	"strings"

	"signup-service/internal/pkg/jwt"
	"signup-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Context keys set by the case middleware.
const (
	CaseIDKey       = "case_id"
	CustomerTypeKey = "customer_type"
	JTIKey          = "jti"
)

type CaseVerifier interface {
	VerifyCaseToken(token string) (*jwt.Claims, error)
}

type AuthMiddleware struct {
	verifier CaseVerifier
}

func NewAuthMiddleware(verifier CaseVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
	}
}

// Auth requires a valid case token and puts the case id on the context.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "missing case token", nil)
			return
		}

		claims, err := m.verifier.VerifyCaseToken(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid or expired case token", err)
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth reads a case token when one is sent. Requests without one, or
// with a broken one, continue without a case.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		if claims, err := m.verifier.VerifyCaseToken(token); err == nil {
			setClaims(c, claims)
		}
		c.Next()
	}
}

func setClaims(c *gin.Context, claims *jwt.Claims) {
	c.Set(CaseIDKey, claims.CaseID)
	c.Set(CustomerTypeKey, claims.CustomerType)
	c.Set(JTIKey, claims.ID)
}

// extractToken reads the Bearer token, falling back to the token query param
// for websocket upgrades.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	return c.Query("token")
}

func GetCaseID(c *gin.Context) (string, bool) {
	v, exists := c.Get(CaseIDKey)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

func GetJTI(c *gin.Context) (string, bool) {
	jti, exists := c.Get(JTIKey)
	if !exists {
		return "", false
	}
	id, ok := jti.(string)
	return id, ok
}
