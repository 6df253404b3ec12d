package invoice

import (
	"github.com/gin-gonic/gin"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/invoice/usecases"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/utils"
)

// SubmitInvoiceRequest binds both the JSON and the multipart form of an
// invoice submission; the file part is read separately.
type SubmitInvoiceRequest struct {
	TicketID        string `json:"ticket_id" form:"ticket_id" binding:"required"`
	InvoiceNumber   string `json:"invoice_number" form:"invoice_number" binding:"required,max=100"`
	AmountCents     int64  `json:"amount_cents" form:"amount_cents" binding:"required,gt=0"`
	Currency        string `json:"currency" form:"currency" binding:"omitempty,len=3"`
	WorkDescription string `json:"work_description" form:"work_description" binding:"max=5000"`
}

func (r *SubmitInvoiceRequest) ToCommand(actor authorization.Actor, file *usecases.Upload) usecases.SubmitInvoiceCommand {
	return usecases.SubmitInvoiceCommand{
		Actor:           actor,
		TicketSID:       r.TicketID,
		InvoiceNumber:   r.InvoiceNumber,
		AmountCents:     r.AmountCents,
		Currency:        r.Currency,
		WorkDescription: r.WorkDescription,
		File:            file,
	}
}

type ReasonRequest struct {
	Reason string `json:"reason" binding:"required,max=2000"`
}

type TextRequest struct {
	Text string `json:"text" binding:"required,max=5000"`
}

type RecordPaymentRequest struct {
	AmountCents int64 `json:"amount_cents" binding:"required,gt=0"`
}

// CreateBatchRequest binds the JSON and multipart forms of a payment batch.
type CreateBatchRequest struct {
	InvoiceIDs []string `json:"invoice_ids" form:"invoice_ids" binding:"required,min=1,max=500"`
	PopFileURL string   `json:"pop_file_url" form:"pop_file_url" binding:"omitempty,max=500"`
	Notes      string   `json:"notes" form:"notes" binding:"max=2000"`
}

func parseListInvoicesQuery(c *gin.Context, actor authorization.Actor) (usecases.ListInvoicesQuery, error) {
	p := utils.ParsePagination(c)
	query := usecases.ListInvoicesQuery{
		Actor:      actor,
		Status:     c.Query("status"),
		ActiveOnly: c.Query("active") == "true",
		Page:       p.Page,
		PageSize:   p.PageSize,
	}

	for key, dst := range map[string]**uint{
		"contractor_id": &query.ContractorID,
		"ticket_id":     &query.TicketID,
	} {
		v, err := utils.ParseOptionalUintQuery(c, key)
		if err != nil {
			return query, err
		}
		if v != 0 {
			*dst = &v
		}
	}
	return query, nil
}
