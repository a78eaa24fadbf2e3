package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pvaldes/travelbooking/internal/domain"
)

const claimsContextKey = "auth.claims"

// TokenVerifier resolves a bearer token to claims. The catalog and booking
// services use the remote identity client here; the identity service wires
// its own local authority.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*domain.Claims, error)
}

// AuthMiddleware is the ordered guard chain for privileged routes:
// Authenticate first, then a role gate. Order is part of the contract.
type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// Authenticate extracts the bearer token, verifies it, and attaches the
// resolved claims to the request context. Every verification failure,
// including an unreachable identity service, is a rejection: this gate
// fails closed.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
			return
		}

		tokenString := header
		if strings.HasPrefix(header, "Bearer ") {
			tokenString = strings.TrimPrefix(header, "Bearer ")
		}

		claims, err := m.verifier.VerifyToken(c.Request.Context(), tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(claimsContextKey, *claims)
		c.Next()
	}
}

// RequireAdmin gates a route on the admin role. It must run after
// Authenticate; absent claims means the chain was assembled wrong, which is
// surfaced as a 500 rather than masked as a 403.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentUser(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "authentication context missing"})
			return
		}
		if !claims.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin privileges required"})
			return
		}
		c.Next()
	}
}

// RequireUser accepts any authenticated principal.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "authentication context missing"})
			return
		}
		c.Next()
	}
}

// CurrentUser reads the claims Authenticate attached to this request.
func CurrentUser(c *gin.Context) (domain.Claims, bool) {
	v, exists := c.Get(claimsContextKey)
	if !exists {
		return domain.Claims{}, false
	}
	claims, ok := v.(domain.Claims)
	return claims, ok
}
