package utils

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/id"
)

// ParseSIDParam reads a prefixed public ID such as "tkt_8Hx2..." from the
// route parameter name. entity names the resource in the error message.
func ParseSIDParam(c *gin.Context, name, prefix, entity string) (string, error) {
	sid := c.Param(name)
	if sid == "" {
		return "", errors.NewValidationError(entity + " ID is required")
	}
	if err := id.ValidatePrefix(sid, prefix); err != nil {
		return "", errors.NewValidationError(
			fmt.Sprintf("invalid %s ID format, expected %s_xxxxx", entity, prefix), err.Error())
	}
	return sid, nil
}

// ParseOptionalUintQuery reads a positive integer filter. A missing key
// returns 0.
func ParseOptionalUintQuery(c *gin.Context, key string) (uint, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, errors.NewValidationError("invalid " + key)
	}
	return uint(v), nil
}
