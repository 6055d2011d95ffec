package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"staybook/config"

	"github.com/gin-gonic/gin"
)

// AdminAuthMiddleware gates operational endpoints (on-demand sweep) behind a
// static API key from configuration.
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		key := config.AppConfig.AdminAPIKey
		if key == "" || subtle.ConstantTimeCompare([]byte(tokenString), []byte(key)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized admin access"})
			return
		}

		c.Set("isAdmin", true)
		c.Next()
	}
}
