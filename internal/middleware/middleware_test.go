package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"signup-service/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T) (*gin.Engine, *jwt.Manager) {
	t.Helper()
	m, err := jwt.NewEphemeral(jwt.Config{Issuer: "signup-service", Audience: "signup-clients", TTL: time.Hour})
	require.NoError(t, err)

	auth := NewAuthMiddleware(m.Verifier)
	r := gin.New()
	r.Use(RecoveryMiddleware(zap.NewNop()), LoggingMiddleware(zap.NewNop()), CORSMiddleware())
	r.GET("/case", auth.Auth(), func(c *gin.Context) {
		c.String(http.StatusOK, MustGetCaseID(c)+"/"+GetCustomerType(c))
	})
	r.GET("/optional", auth.OptionalAuth(), func(c *gin.Context) {
		if HasCase(c) {
			c.String(http.StatusOK, MustGetCaseID(c))
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	return r, m
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequiresCaseToken(t *testing.T) {
	r, m := newRouter(t)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/case", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/case", "garbage").Code)

	tok, _, err := m.Generator.GenerateCaseToken("01JCASE", "PRIVATE")
	require.NoError(t, err)
	w := get(r, "/case", tok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "01JCASE/PRIVATE", w.Body.String())

	w = get(r, "/case?token="+tok, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalAuth(t *testing.T) {
	r, m := newRouter(t)
	assert.Equal(t, "anonymous", get(r, "/optional", "").Body.String())
	assert.Equal(t, "anonymous", get(r, "/optional", "garbage").Body.String())

	tok, _, err := m.Generator.GenerateCaseToken("01JCASE", "")
	require.NoError(t, err)
	assert.Equal(t, "01JCASE", get(r, "/optional", tok).Body.String())
}

func TestRecoveryAndCORS(t *testing.T) {
	r, _ := newRouter(t)

	w := get(r, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")

	req := httptest.NewRequest(http.MethodOptions, "/case", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
