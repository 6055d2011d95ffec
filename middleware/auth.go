package middleware

import (
	"context"
	"net/http"
	"strings"

	"staybook/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuthMiddleware validates the bearer token, checks it against the auth
// cache (so revoked tokens stop working server-side) and stores the caller's
// id and role on the request context.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		userID, role, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Insufficient authorization",
			})
			return
		}

		// A token is only good while its hash is still cached; revocation
		// deletes the entry.
		cached, err := utils.GetAuthCacheClient().Get(context.Background(), utils.AuthCachePrefix+userID).Result()
		if err != nil || cached != utils.HashToken(tokenString) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Session expired or revoked",
			})
			return
		}

		c.Set("userID", userID)
		c.Set("role", role)
		c.Next()
	}
}

// CallerID returns the authenticated caller's id set by JWTAuthMiddleware.
func CallerID(c *gin.Context) string {
	return c.GetString("userID")
}

// CallerRole returns the authenticated caller's role set by JWTAuthMiddleware.
func CallerRole(c *gin.Context) string {
	return c.GetString("role")
}
