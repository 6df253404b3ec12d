// Package billing serves the subscription and payment endpoints. Tenants
// reach them even while their access is blocked so that they can pay.
package billing

import (
	"net/http"

	"github.com/gin-gonic/gin"

	payusecases "github.com/karumbidza/TickTrack-Pro-sub003/internal/application/payment/usecases"
	subusecases "github.com/karumbidza/TickTrack-Pro-sub003/internal/application/subscription/usecases"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/interfaces/http/handlers/common"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/id"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/utils"
)

type Deps struct {
	GetSubscription subusecases.GetSubscriptionExecutor
	Initiate        payusecases.InitiatePaymentExecutor
	Poll            payusecases.PollPaymentExecutor
	ListPayments    payusecases.ListPaymentsExecutor
	BankTransfer    payusecases.ConfirmBankTransferExecutor
	StartTrial      subusecases.StartTrialExecutor
	Suspend         subusecases.SuspendSubscriptionExecutor
	Reinstate       subusecases.ReinstateSubscriptionExecutor
	Cancel          subusecases.CancelSubscriptionExecutor
}

type Handler struct {
	uc     Deps
	logger logger.Interface
}

func NewHandler(deps Deps, logger logger.Interface) *Handler {
	return &Handler{uc: deps, logger: logger}
}

// GetSubscription handles GET /billing/subscription
// @Summary Current tenant subscription
// @Tags billing
// @Produce json
// @Security Bearer
// @Param tenant_id query int false "Tenant (super admin only)"
// @Success 200 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Router /api/v1/billing/subscription [get]
func (h *Handler) GetSubscription(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}

	query := subusecases.GetSubscriptionQuery{Actor: actor}
	tenantID, err := utils.ParseOptionalUintQuery(c, "tenant_id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	query.TenantID = tenantID

	result, err := h.uc.GetSubscription.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// InitiatePayment handles POST /billing/payments
// @Summary Start a subscription payment
// @Description Creates a pending payment and returns the provider redirect URL.
// @Tags billing
// @Accept json
// @Produce json
// @Security Bearer
// @Success 201 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Router /api/v1/billing/payments [post]
func (h *Handler) InitiatePayment(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}

	var req InitiatePaymentRequest
	if !common.BindOptionalJSON(c, &req, h.logger) {
		return
	}

	result, err := h.uc.Initiate.Execute(c.Request.Context(), payusecases.InitiatePaymentCommand{
		Actor:      actor,
		PayerEmail: req.PayerEmail,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.CreatedResponse(c, result, "Payment initiated")
}

func (h *Handler) ListPayments(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}
	result, err := h.uc.ListPayments.Execute(c.Request.Context(), payusecases.ListPaymentsQuery{Actor: actor})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// PollPayment handles GET /billing/payments/:sid/status. A pending answer is
// a normal 200.
func (h *Handler) PollPayment(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}
	sid, err := utils.ParseSIDParam(c, "sid", id.PrefixPayment, "payment")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.uc.Poll.Execute(c.Request.Context(), payusecases.PollPaymentQuery{Actor: actor, SID: sid})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ConfirmBankTransfer handles POST /billing/bank-transfers
// @Summary Confirm a manual bank transfer
// @Description Confirming the same reference twice credits the subscription once.
// @Tags billing
// @Accept json
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 403 {object} utils.APIResponse
// @Router /api/v1/billing/bank-transfers [post]
func (h *Handler) ConfirmBankTransfer(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}

	var req BankTransferRequest
	if !common.BindJSON(c, &req, h.logger) {
		return
	}

	result, err := h.uc.BankTransfer.Execute(c.Request.Context(), req.ToCommand(actor))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	msg := "Bank transfer confirmed"
	if result.AlreadyProcessed {
		msg = "Bank transfer already recorded"
	}
	utils.SuccessResponse(c, http.StatusOK, msg, result)
}

func (h *Handler) StartTrial(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}

	var req StartTrialRequest
	if !common.BindOptionalJSON(c, &req, h.logger) {
		return
	}

	result, err := h.uc.StartTrial.Execute(c.Request.Context(), req.ToCommand(actor))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.CreatedResponse(c, result, "Trial started")
}
