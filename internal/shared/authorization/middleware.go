package authorization

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func abortForbidden(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"error":   gin.H{"type": "forbidden", "message": msg},
	})
}

// RequireAdmin allows any admin role class, scoped or not.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok || !actor.Class().IsAdmin() {
			abortForbidden(c, "admin access required")
			return
		}
		c.Next()
	}
}

// RequireRoles allows only the listed raw roles.
func RequireRoles(roles ...UserRole) gin.HandlerFunc {
	allowed := make(map[UserRole]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok || !allowed[actor.Role] {
			abortForbidden(c, "insufficient role")
			return
		}
		c.Next()
	}
}
