package ticket

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/ticket/usecases"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/interfaces/http/handlers/common"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/utils"
)

// AddComment handles POST /tickets/:sid/comments
func (h *TicketHandler) AddComment(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}
	sid, err := parseTicketSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req AddCommentRequest
	if !common.BindJSON(c, &req, h.logger) {
		return
	}

	result, err := h.uc.AddComment.Execute(c.Request.Context(), usecases.AddCommentCommand{
		Actor:      actor,
		SID:        sid,
		Body:       req.Body,
		IsInternal: req.IsInternal,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Comment added successfully")
}

// ListComments handles GET /tickets/:sid/comments. Requesters do not see
// internal notes.
func (h *TicketHandler) ListComments(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}
	sid, err := parseTicketSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.uc.ListComments.Execute(c.Request.Context(), usecases.ListCommentsQuery{Actor: actor, SID: sid})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
