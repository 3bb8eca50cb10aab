package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"taskgate/internal/users"
	"taskgate/pkg/logger"

	"github.com/gin-gonic/gin"
)

const authorizationHeader = "Authorization"
const bearerPrefix = "Bearer "

// UserStore is the read-only user lookup the validation protocols need.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (users.User, error)
}

// RequireAccessToken runs the access-token protocol on every request:
// extract bearer token, decode, check type, check expiry, resolve the
// user, inject the identity. Every failure terminates in a 401; a user
// store outage is the only 5xx.
func RequireAccessToken(m *Manager, store UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(authorizationHeader))
		if raw == "" || !strings.HasPrefix(raw, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tok := strings.TrimPrefix(raw, bearerPrefix)

		claims, err := m.Decode(tok)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		if claims.TokenType != TokenTypeAccess {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "wrong token type"})
			return
		}
		if claims.ExpiredAt(time.Now()) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		user, err := store.GetByUsername(c.Request.Context(), claims.Username)
		if err != nil {
			if errors.Is(err, users.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			logger.FromGin(c).Error("user lookup failed", "err", err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "user store unavailable"})
			return
		}

		c.Request = c.Request.WithContext(WithUser(c.Request.Context(), user))
		c.Next()
	}
}
