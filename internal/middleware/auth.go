// Package middleware provides gin middleware for the API server.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/auth"
)

const identityKey = "auth.identity"

// RequireAuth validates the Authorization bearer token and stores the
// resolved identity in the request context. Requests without a valid token
// are rejected before any handler runs.
func RequireAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "authentication required"})
			return
		}

		claims, err := auth.VerifyToken(jwtSecret, header)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
			return
		}

		c.Set(identityKey, claims)
		c.Next()
	}
}

// Identity returns the authenticated claims set by RequireAuth, or nil.
func Identity(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(identityKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}
