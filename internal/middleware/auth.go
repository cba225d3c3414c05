package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/bizbook/bizbook_backend/internal/platform/config"
	"github.com/bizbook/bizbook_backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware verifies the Bearer token and stores the authenticated user
// ID in the context. Every business route is owner-scoped through this ID.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		userID, err := utils.ValidateAccessToken(cfg, parts[1])
		if err != nil {
			logger.Warn("Token validation failed", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		withUserID(c, userID)
		c.Next()
	}
}
