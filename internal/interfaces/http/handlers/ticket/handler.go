package ticket

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/ticket/usecases"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/interfaces/http/handlers/common"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/id"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/utils"
)

// Deps lists the ticket use cases the handler serves.
type Deps struct {
	Create       usecases.CreateTicketExecutor
	Get          usecases.GetTicketExecutor
	List         usecases.ListTicketsExecutor
	History      usecases.GetTicketHistoryExecutor
	Transition   usecases.ApplyTransitionExecutor
	Cancel       usecases.CancelTicketExecutor
	Assign       usecases.AssignTicketExecutor
	Unassign     usecases.UnassignTicketExecutor
	RejectJob    usecases.RejectJobExecutor
	RequestQuote usecases.RequestQuoteExecutor
	SubmitQuote  usecases.SubmitQuoteExecutor
	ApproveQuote usecases.ApproveQuoteExecutor
	RejectQuote  usecases.RejectQuoteExecutor
	ListQuotes   usecases.ListQuotesExecutor
	AddComment   usecases.AddCommentExecutor
	ListComments usecases.ListCommentsExecutor
}

type TicketHandler struct {
	uc     Deps
	logger logger.Interface
}

func NewTicketHandler(deps Deps, logger logger.Interface) *TicketHandler {
	return &TicketHandler{
		uc:     deps,
		logger: logger,
	}
}

func parseTicketSID(c *gin.Context) (string, error) {
	return utils.ParseSIDParam(c, "sid", id.PrefixTicket, "ticket")
}

// CreateTicket handles POST /tickets
// @Summary Create a new ticket
// @Tags tickets
// @Accept json
// @Produce json
// @Security Bearer
// @Param ticket body CreateTicketRequest true "Ticket data"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /api/v1/tickets [post]
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}

	var req CreateTicketRequest
	if !common.BindJSON(c, &req, h.logger) {
		return
	}

	result, err := h.uc.Create.Execute(c.Request.Context(), req.ToCommand(actor))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Ticket created successfully")
}

// ListTickets handles GET /tickets
// @Summary List tickets visible to the caller
// @Tags tickets
// @Produce json
// @Security Bearer
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param status query string false "Status filter"
// @Param priority query string false "Priority filter"
// @Param department query string false "Department filter"
// @Success 200 {object} utils.APIResponse
// @Router /api/v1/tickets [get]
func (h *TicketHandler) ListTickets(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}

	query, err := parseListTicketsQuery(c, actor)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.uc.List.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Tickets, result.Total, result.Page, result.PageSize)
}

// GetTicket handles GET /tickets/:sid
// @Summary Get ticket by ID
// @Tags tickets
// @Produce json
// @Security Bearer
// @Param sid path string true "Ticket ID"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/v1/tickets/{sid} [get]
func (h *TicketHandler) GetTicket(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}
	sid, err := parseTicketSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.uc.Get.Execute(c.Request.Context(), usecases.GetTicketQuery{Actor: actor, SID: sid})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetHistory handles GET /tickets/:sid/history
func (h *TicketHandler) GetHistory(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}
	sid, err := parseTicketSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.uc.History.Execute(c.Request.Context(), usecases.GetTicketHistoryQuery{Actor: actor, SID: sid})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ApplyTransition handles POST /tickets/:sid/transitions
// @Summary Move a ticket along the workflow
// @Description Accepts an action name (accept, confirm_arrival, start_work, ...) or a target status.
// @Tags tickets
// @Accept json
// @Produce json
// @Security Bearer
// @Param sid path string true "Ticket ID"
// @Param transition body TransitionRequest true "Transition"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /api/v1/tickets/{sid}/transitions [post]
func (h *TicketHandler) ApplyTransition(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}
	sid, err := parseTicketSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req TransitionRequest
	if !common.BindJSON(c, &req, h.logger) {
		return
	}
	if err := req.Validate(); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.uc.Transition.Execute(c.Request.Context(), req.ToRequest(actor, sid))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket updated successfully", result)
}

// CancelTicket handles POST /tickets/:sid/cancel
func (h *TicketHandler) CancelTicket(c *gin.Context) {
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

	result, err := h.uc.Cancel.Execute(c.Request.Context(), usecases.CancelTicketCommand{
		Actor:  actor,
		SID:    sid,
		Reason: req.Reason,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket cancelled", result)
}

// AssignTicket handles POST /tickets/:sid/assign
func (h *TicketHandler) AssignTicket(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}
	sid, err := parseTicketSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req AssignTicketRequest
	if !common.BindJSON(c, &req, h.logger) {
		return
	}

	result, err := h.uc.Assign.Execute(c.Request.Context(), usecases.AssignTicketCommand{
		Actor:      actor,
		SID:        sid,
		AssigneeID: req.AssigneeID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket assigned successfully", result)
}

// UnassignTicket handles POST /tickets/:sid/unassign
func (h *TicketHandler) UnassignTicket(c *gin.Context) {
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
	if !common.BindOptionalJSON(c, &req, h.logger) {
		return
	}

	result, err := h.uc.Unassign.Execute(c.Request.Context(), usecases.UnassignTicketCommand{
		Actor:  actor,
		SID:    sid,
		Reason: req.Reason,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Ticket unassigned", result)
}

// RejectJob handles POST /tickets/:sid/reject-job
func (h *TicketHandler) RejectJob(c *gin.Context) {
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

	result, err := h.uc.RejectJob.Execute(c.Request.Context(), usecases.RejectJobCommand{
		Actor:  actor,
		SID:    sid,
		Reason: req.Reason,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Job handed back", result)
}
