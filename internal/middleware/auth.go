package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wellnest-app/wellnest-backend/internal/logger"
	"github.com/wellnest-app/wellnest-backend/internal/services"
)

// AuthMiddleware verifies the bearer token and installs the request data
// carrier on the request context before any protected handler runs.
func AuthMiddleware(authService services.AuthService, log *logger.Logger) gin.HandlerFunc {
	mwLog := log.With("middleware", "auth")
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		ctx, err := authService.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			mwLog.Debug("Rejected token", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
