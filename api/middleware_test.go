package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pvaldes/travelbooking/internal/apperr"
	"github.com/pvaldes/travelbooking/internal/domain"
	"github.com/stretchr/testify/assert"
)

type stubVerifier struct {
	claims *domain.Claims
	err    error
	calls  int
}

func (s *stubVerifier) VerifyToken(ctx context.Context, token string) (*domain.Claims, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

func newGuardedRouter(verifier TokenVerifier, role gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	auth := NewAuthMiddleware(verifier)
	router.GET("/secure", auth.Authenticate(), role, func(c *gin.Context) {
		claims, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"user": claims.UserID})
	})
	return router
}

func doSecure(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/secure", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	verifier := &stubVerifier{}
	router := newGuardedRouter(verifier, RequireUser())

	w := doSecure(router, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"No token provided"}`, w.Body.String())
	// No verification round trip without a token.
	assert.Zero(t, verifier.calls)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	verifier := &stubVerifier{err: apperr.ErrUnauthenticated}
	router := newGuardedRouter(verifier, RequireUser())

	w := doSecure(router, "Bearer bad-token")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Invalid token"}`, w.Body.String())
}

func TestAuthenticate_IdentityServiceDown_FailsClosed(t *testing.T) {
	verifier := &stubVerifier{err: apperr.ErrDependencyUnavailable}
	router := newGuardedRouter(verifier, RequireUser())

	w := doSecure(router, "Bearer any-token")

	// An unreachable identity service rejects, never allows.
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_AttachesClaims(t *testing.T) {
	verifier := &stubVerifier{claims: &domain.Claims{UserID: "user-1", Email: "user@example.com"}}
	router := newGuardedRouter(verifier, RequireUser())

	w := doSecure(router, "Bearer good-token")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":"user-1"}`, w.Body.String())
}

func TestRequireAdmin_RejectsNonAdmin(t *testing.T) {
	verifier := &stubVerifier{claims: &domain.Claims{UserID: "user-1"}}
	router := newGuardedRouter(verifier, RequireAdmin())

	w := doSecure(router, "Bearer good-token")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Admin privileges required"}`, w.Body.String())
}

func TestRequireAdmin_AllowsAdmin(t *testing.T) {
	verifier := &stubVerifier{claims: &domain.Claims{UserID: "admin-1", IsAdmin: true}}
	router := newGuardedRouter(verifier, RequireAdmin())

	w := doSecure(router, "Bearer good-token")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAdmin_WithoutAuthenticateIsLogicError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	// Chain assembled wrong on purpose: no Authenticate stage.
	router.GET("/secure", RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := doSecure(router, "Bearer good-token")

	// Distinct from 403: this is a bug in route wiring, not a role failure.
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
