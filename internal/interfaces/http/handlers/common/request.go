// Package common provides shared HTTP handler utilities.
package common

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/utils"
)

// RequireActor returns the authenticated actor or answers 401.
func RequireActor(c *gin.Context) (authorization.Actor, bool) {
	actor, ok := authorization.ActorFrom(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return authorization.Actor{}, false
	}
	return actor, true
}

// BindJSON binds the request body into req and answers 400 on failure.
func BindJSON(c *gin.Context, req any, log logger.Interface) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		log.Warnw("invalid request body", "path", c.FullPath(), "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return false
	}
	return true
}

// BindOptionalJSON binds a body that may be empty.
func BindOptionalJSON(c *gin.Context, req any, log logger.Interface) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	return BindJSON(c, req, log)
}
