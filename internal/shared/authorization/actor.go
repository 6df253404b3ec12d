package authorization

import (
	"github.com/gin-gonic/gin"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/constants"
)

// Actor is the identity resolved for a request.
type Actor struct {
	UserID   uint
	Role     UserRole
	TenantID uint
}

func (a Actor) Class() RoleClass {
	return a.Role.Class()
}

// SetActor stores the resolved actor on the gin context.
func SetActor(c *gin.Context, actor Actor) {
	c.Set(constants.ContextKeyActor, actor)
	c.Set("user_id", actor.UserID)
	c.Set("tenant_id", actor.TenantID)
	c.Set("user_role", string(actor.Role))
}

// ActorFrom returns the actor stored by the auth middleware.
func ActorFrom(c *gin.Context) (Actor, bool) {
	v, ok := c.Get(constants.ContextKeyActor)
	if !ok {
		return Actor{}, false
	}
	actor, ok := v.(Actor)
	return actor, ok
}
