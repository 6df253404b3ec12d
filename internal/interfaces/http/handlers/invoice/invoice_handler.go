package invoice

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/invoice/usecases"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/interfaces/http/handlers/common"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/id"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/utils"
)

// Deps lists the invoice ledger use cases the handler serves.
type Deps struct {
	Submit               usecases.SubmitInvoiceExecutor
	Get                  usecases.GetInvoiceExecutor
	List                 usecases.ListInvoicesExecutor
	Revisions            usecases.GetRevisionChainExecutor
	Approve              usecases.ApproveInvoiceExecutor
	Reject               usecases.RejectInvoiceExecutor
	RecordPayment        usecases.RecordPaymentExecutor
	RequestClarification usecases.RequestClarificationExecutor
	RespondClarification usecases.RespondClarificationExecutor
	CreateBatch          usecases.CreatePaymentBatchExecutor
	GetBatch             usecases.GetPaymentBatchExecutor
	ListBatches          usecases.ListPaymentBatchesExecutor
	ExportBatch          usecases.ExportPaymentBatchExecutor
}

type Handler struct {
	uc          Deps
	maxFileSize int64
	logger      logger.Interface
}

func NewHandler(deps Deps, maxFileSize int64, logger logger.Interface) *Handler {
	return &Handler{
		uc:          deps,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

func parseInvoiceSID(c *gin.Context) (string, error) {
	return utils.ParseSIDParam(c, "sid", id.PrefixInvoice, "invoice")
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// formFile opens an optional upload. The returned closer is never nil.
func (h *Handler) formFile(c *gin.Context, field string) (*usecases.Upload, func(), error) {
	noop := func() {}
	if !isMultipart(c) {
		return nil, noop, nil
	}
	fh, err := c.FormFile(field)
	if err != nil {
		if stderrors.Is(err, http.ErrMissingFile) {
			return nil, noop, nil
		}
		return nil, noop, errors.NewValidationError("invalid file upload", err.Error())
	}
	if h.maxFileSize > 0 && fh.Size > h.maxFileSize {
		return nil, noop, errors.NewValidationError("file too large")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, noop, errors.NewValidationError("invalid file upload", err.Error())
	}
	return &usecases.Upload{Filename: fh.Filename, Reader: f}, func() { _ = f.Close() }, nil
}

// SubmitInvoice handles POST /invoices
// @Summary Submit an invoice for a completed ticket
// @Description JSON, or multipart with an optional "file" part (pdf, png or jpeg).
// @Tags invoices
// @Accept json,mpfd
// @Produce json
// @Security Bearer
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /api/v1/invoices [post]
func (h *Handler) SubmitInvoice(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}

	var req SubmitInvoiceRequest
	if isMultipart(c) {
		if err := c.ShouldBind(&req); err != nil {
			utils.ErrorResponseWithError(c, utils.BindingError(err))
			return
		}
	} else if !common.BindJSON(c, &req, h.logger) {
		return
	}

	file, closeFile, err := h.formFile(c, "file")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	defer closeFile()

	result, err := h.uc.Submit.Execute(c.Request.Context(), req.ToCommand(actor, file))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Invoice submitted successfully")
}

func (h *Handler) ListInvoices(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}
	query, err := parseListInvoicesQuery(c, actor)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.uc.List.Execute(c.Request.Context(), query)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Invoices, result.Total, result.Page, result.PageSize)
}

func (h *Handler) GetInvoice(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}
	sid, err := parseInvoiceSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.uc.Get.Execute(c.Request.Context(), usecases.GetInvoiceQuery{Actor: actor, SID: sid})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetRevisions handles GET /invoices/:sid/revisions, oldest revision first.
func (h *Handler) GetRevisions(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}
	sid, err := parseInvoiceSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.uc.Revisions.Execute(c.Request.Context(), usecases.GetRevisionChainQuery{Actor: actor, SID: sid})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *Handler) ApproveInvoice(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}
	sid, err := parseInvoiceSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.uc.Approve.Execute(c.Request.Context(), usecases.ApproveInvoiceCommand{Actor: actor, SID: sid})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Invoice approved", result)
}

func (h *Handler) RejectInvoice(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}
	sid, err := parseInvoiceSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req ReasonRequest
	if !common.BindJSON(c, &req, h.logger) {
		return
	}

	result, err := h.uc.Reject.Execute(c.Request.Context(), usecases.RejectInvoiceCommand{
		Actor:  actor,
		SID:    sid,
		Reason: req.Reason,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Invoice rejected", result)
}

// RecordPayment handles POST /invoices/:sid/payments
// @Summary Record a payment against an approved invoice
// @Tags invoices
// @Accept json
// @Produce json
// @Security Bearer
// @Param sid path string true "Invoice ID"
// @Param payment body RecordPaymentRequest true "Amount"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /api/v1/invoices/{sid}/payments [post]
func (h *Handler) RecordPayment(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}
	sid, err := parseInvoiceSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req RecordPaymentRequest
	if !common.BindJSON(c, &req, h.logger) {
		return
	}

	result, err := h.uc.RecordPayment.Execute(c.Request.Context(), usecases.RecordPaymentCommand{
		Actor:       actor,
		SID:         sid,
		AmountCents: req.AmountCents,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Payment recorded", result)
}

func (h *Handler) RequestClarification(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}
	sid, err := parseInvoiceSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req TextRequest
	if !common.BindJSON(c, &req, h.logger) {
		return
	}

	result, err := h.uc.RequestClarification.Execute(c.Request.Context(), usecases.RequestClarificationCommand{
		Actor: actor,
		SID:   sid,
		Text:  req.Text,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Clarification requested", result)
}

func (h *Handler) RespondClarification(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}
	sid, err := parseInvoiceSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req TextRequest
	if !common.BindJSON(c, &req, h.logger) {
		return
	}

	result, err := h.uc.RespondClarification.Execute(c.Request.Context(), usecases.RespondClarificationCommand{
		Actor: actor,
		SID:   sid,
		Text:  req.Text,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Clarification answered", result)
}
