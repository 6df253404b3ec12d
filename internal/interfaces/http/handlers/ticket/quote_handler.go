package ticket

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/ticket/usecases"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/interfaces/http/handlers/common"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/utils"
)

// RequestQuotes handles POST /tickets/:sid/quote-requests
// @Summary Invite contractors to quote
// @Tags quotes
// @Accept json
// @Produce json
// @Security Bearer
// @Param sid path string true "Ticket ID"
// @Param request body RequestQuoteRequest true "Invited contractors"
// @Success 200 {object} utils.APIResponse
// @Router /api/v1/tickets/{sid}/quote-requests [post]
func (h *TicketHandler) RequestQuotes(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}
	sid, err := parseTicketSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req RequestQuoteRequest
	if !common.BindJSON(c, &req, h.logger) {
		return
	}

	result, err := h.uc.RequestQuote.Execute(c.Request.Context(), usecases.RequestQuoteCommand{
		Actor:         actor,
		SID:           sid,
		ContractorIDs: req.ContractorIDs,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Quote requests sent", result)
}

func (h *TicketHandler) ListQuotes(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}
	sid, err := parseTicketSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.uc.ListQuotes.Execute(c.Request.Context(), usecases.ListQuotesQuery{Actor: actor, SID: sid})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// SubmitQuote handles POST /tickets/:sid/quotes. Only invited contractors may submit.
func (h *TicketHandler) SubmitQuote(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}
	sid, err := parseTicketSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req SubmitQuoteRequest
	if !common.BindJSON(c, &req, h.logger) {
		return
	}

	result, err := h.uc.SubmitQuote.Execute(c.Request.Context(), usecases.SubmitQuoteCommand{
		Actor:       actor,
		SID:         sid,
		AmountCents: req.AmountCents,
		Description: req.Description,
		FileURL:     req.FileURL,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Quote submitted")
}

func (h *TicketHandler) ApproveQuote(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}
	sid, err := parseTicketSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ApproveQuoteRequest
	if !common.BindJSON(c, &req, h.logger) {
		return
	}

	result, err := h.uc.ApproveQuote.Execute(c.Request.Context(), usecases.ApproveQuoteCommand{
		Actor:        actor,
		SID:          sid,
		ContractorID: req.ContractorID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Quote approved", result)
}

func (h *TicketHandler) RejectQuote(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}
	sid, err := parseTicketSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ReasonRequest
	if !common.BindJSON(c, &req, h.logger) {
		return
	}

	result, err := h.uc.RejectQuote.Execute(c.Request.Context(), usecases.RejectQuoteCommand{
		Actor:  actor,
		SID:    sid,
		Reason: req.Reason,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Quotes rejected", result)
}
