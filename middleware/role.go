package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRole rejects callers whose token role does not match. Authorization
// against the specific reservation (guest vs host relationship) happens in
// the service's transition guards; this only gates whole route groups.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CallerRole(c) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "This action requires the '" + role + "' role",
			})
			return
		}
		c.Next()
	}
}
