package middleware

import (
	"errors"
	"net/http"
	"strings"

	"mrp/internal/microservices/http-api/models"
	"mrp/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const currentUserKey = "currentUser"

// bearerToken extracts the token from "Authorization: Bearer <token>".
// Anything else yields "".
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2) // 0 is Bearer, 1 is token
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// OptionalAuth resolves the bearer token when there is one. A missing,
// malformed, unknown or expired token all mean "no session".
func OptionalAuth(sessions service.SessionService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Next()
			return
		}

		user, err := sessions.Validate(c.Request.Context(), token)
		switch {
		case err == nil:
			c.Set(currentUserKey, user)
			c.Set("userID", user.ID)
		case errors.Is(err, service.ErrInvalidToken):
		default:
			log.Error().Err(err).Msg("session lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		c.Next()
	}
}

// RequireAuth rejects requests that OptionalAuth did not resolve to a user.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}
