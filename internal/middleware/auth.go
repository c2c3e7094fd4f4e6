package middleware

import (
	"net/http"
	"strings"

	"card-casino-go/internal/auth"
	"card-casino-go/internal/config"

	"github.com/gin-gonic/gin"
)

const (
	ContextSessionID = "sessionID"
	ContextGame      = "game"
)

// RequireSession accepts a session token from the auth cookie or an Authorization header.
func RequireSession(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := TokenFromRequest(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		claims, err := auth.ParseAndValidateToken(token, cfg)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ContextSessionID, claims.SessionID)
		c.Set(ContextGame, claims.Game)
		c.Next()
	}
}

// TokenFromRequest prefers the HttpOnly cookie over an Authorization: Bearer header.
func TokenFromRequest(c *gin.Context) string {
	if v, err := c.Cookie(auth.AuthCookieName); err == nil {
		if t := strings.TrimSpace(v); t != "" {
			return t
		}
	}
	authz := c.GetHeader("Authorization")
	if authz != "" {
		parts := strings.SplitN(authz, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return ""
}
