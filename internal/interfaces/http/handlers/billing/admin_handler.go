package billing

import (
	"net/http"

	"github.com/gin-gonic/gin"

	subusecases "github.com/karumbidza/TickTrack-Pro-sub003/internal/application/subscription/usecases"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/interfaces/http/handlers/common"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/id"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/utils"
)

func parseSubscriptionSID(c *gin.Context) (string, error) {
	return utils.ParseSIDParam(c, "sid", id.PrefixSubscription, "subscription")
}

// SuspendSubscription handles POST /admin/subscriptions/:sid/suspend
// @Summary Suspend a tenant subscription
// @Tags admin
// @Accept json
// @Produce json
// @Security Bearer
// @Param sid path string true "Subscription ID"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /api/v1/admin/subscriptions/{sid}/suspend [post]
func (h *Handler) SuspendSubscription(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}
	sid, err := parseSubscriptionSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req SuspendRequest
	if !common.BindJSON(c, &req, h.logger) {
		return
	}

	result, err := h.uc.Suspend.Execute(c.Request.Context(), subusecases.SuspendSubscriptionCommand{
		Actor:  actor,
		SID:    sid,
		Reason: req.Reason,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Subscription suspended", result)
}

func (h *Handler) ReinstateSubscription(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}
	sid, err := parseSubscriptionSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.uc.Reinstate.Execute(c.Request.Context(), subusecases.ReinstateSubscriptionCommand{Actor: actor, SID: sid})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Subscription reinstated", result)
}

func (h *Handler) CancelSubscription(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}
	sid, err := parseSubscriptionSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.uc.Cancel.Execute(c.Request.Context(), subusecases.CancelSubscriptionCommand{Actor: actor, SID: sid})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "Subscription cancelled", result)
}
