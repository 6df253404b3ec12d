package invoice

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/invoice/usecases"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/interfaces/http/handlers/common"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/id"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/utils"
)

func parseBatchSID(c *gin.Context) (string, error) {
	return utils.ParseSIDParam(c, "sid", id.PrefixPaymentBatch, "payment batch")
}

// CreateBatch handles POST /payment-batches
// @Summary Pay a selection of approved invoices in one batch
// @Description JSON, or multipart with an optional "proof_of_payment" part.
// @Tags payment-batches
// @Accept json,mpfd
// @Produce json
// @Security Bearer
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /api/v1/payment-batches [post]
func (h *Handler) CreateBatch(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}

	var req CreateBatchRequest
	if isMultipart(c) {
		if err := c.ShouldBind(&req); err != nil {
			utils.ErrorResponseWithError(c, utils.BindingError(err))
			return
		}
	} else if !common.BindJSON(c, &req, h.logger) {
		return
	}

	proof, closeFile, err := h.formFile(c, "proof_of_payment")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	defer closeFile()

	result, err := h.uc.CreateBatch.Execute(c.Request.Context(), usecases.CreatePaymentBatchCommand{
		Actor:       actor,
		InvoiceSIDs: req.InvoiceIDs,
		PopFileURL:  req.PopFileURL,
		ProofOfPay:  proof,
		Notes:       req.Notes,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Payment batch created")
}

func (h *Handler) ListBatches(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}
	p := utils.ParsePagination(c)

	result, err := h.uc.ListBatches.Execute(c.Request.Context(), usecases.ListPaymentBatchesQuery{
		Actor:    actor,
		Page:     p.Page,
		PageSize: p.PageSize,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Batches, result.Total, result.Page, result.PageSize)
}

func (h *Handler) GetBatch(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}
	sid, err := parseBatchSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.uc.GetBatch.Execute(c.Request.Context(), usecases.GetPaymentBatchQuery{Actor: actor, SID: sid})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// ExportBatch handles GET /payment-batches/:sid/export and streams the
// remittance spreadsheet as an attachment.
func (h *Handler) ExportBatch(c *gin.Context) {
	actor, ok := common.RequireActor(c)
	if !ok {
		return
	}
	sid, err := parseBatchSID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.uc.ExportBatch.Execute(c.Request.Context(), usecases.ExportPaymentBatchQuery{Actor: actor, SID: sid})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
