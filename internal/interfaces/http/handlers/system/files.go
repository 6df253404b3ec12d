package system

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/interfaces/http/handlers/common"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/utils"
)

// FileHandler serves stored uploads to members of the owning tenant.
type FileHandler struct {
	baseDir string
	logger  logger.Interface
}

func NewFileHandler(baseDir string, logger logger.Interface) *FileHandler {
	return &FileHandler{baseDir: baseDir, logger: logger}
}

// Serve handles GET <public_url>/:tenant/:name
func (h *FileHandler) Serve(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}

	tenant, err := strconv.ParseUint(c.Param("tenant"), 10, 64)
	if err != nil || tenant == 0 {
		utils.ErrorResponse(c, http.StatusNotFound, "file not found")
		return
	}
	if uint(tenant) != actor.TenantID && actor.Role != authorization.RoleSuperAdmin {
		utils.ErrorResponse(c, http.StatusNotFound, "file not found")
		return
	}

	name := filepath.Base(c.Param("name"))
	if name == "." || name == string(filepath.Separator) {
		utils.ErrorResponse(c, http.StatusNotFound, "file not found")
		return
	}
	path := filepath.Join(h.baseDir, strconv.FormatUint(tenant, 10), name)
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			h.logger.Warnw("failed to stat stored file", "path", path, "error", err)
		}
		utils.ErrorResponse(c, http.StatusNotFound, "file not found")
		return
	}

	c.Header("X-Content-Type-Options", "nosniff")
	c.File(path)
}
