package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/constants"
)

// Pagination is a 1-based page request taken from list endpoints.
type Pagination struct {
	Page     int
	PageSize int
}

// ParsePagination reads page and page_size. Unparsable or non-positive values
// fall back to the defaults, and page_size never exceeds MaxPageSize.
func ParsePagination(c *gin.Context) Pagination {
	return Pagination{
		Page:     positiveQuery(c, "page", constants.DefaultPage),
		PageSize: min(positiveQuery(c, "page_size", constants.DefaultPageSize), constants.MaxPageSize),
	}
}

func positiveQuery(c *gin.Context, key string, fallback int) int {
	n, err := strconv.Atoi(c.DefaultQuery(key, ""))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
