package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/constants"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/utils"
)

// SecretVerifier checks a presented shared secret.
type SecretVerifier interface {
	Enabled() bool
	Verify(presented string) error
}

// RequireCronSecret guards internal scheduler endpoints with the
// X-Cron-Secret header. Without a configured secret the endpoint is closed.
func RequireCronSecret(verifier SecretVerifier, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !verifier.Enabled() {
			log.Warnw("cron endpoint called but no cron secret is configured", "path", c.FullPath())
			utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("cron endpoint disabled"))
			c.Abort()
			return
		}
		if err := verifier.Verify(c.GetHeader(constants.HeaderCronSecret)); err != nil {
			log.Warnw("invalid cron secret", "client_ip", c.ClientIP(), "error", err)
			utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("invalid cron secret"))
			c.Abort()
			return
		}
		c.Next()
	}
}
