package routes

import (
	"github.com/gin-gonic/gin"

	invoicehandlers "github.com/karumbidza/TickTrack-Pro-sub003/internal/interfaces/http/handlers/invoice"
)

type InvoiceRouteConfig struct {
	InvoiceHandler *invoicehandlers.Handler
}

func SetupInvoiceRoutes(api *gin.RouterGroup, config *InvoiceRouteConfig) {
	h := config.InvoiceHandler

	invoices := api.Group("/invoices")
	{
		invoices.POST("", h.SubmitInvoice)
		invoices.GET("", h.ListInvoices)
		invoices.GET("/:sid/revisions", h.GetRevisions)
		invoices.POST("/:sid/approve", h.ApproveInvoice)
		invoices.POST("/:sid/reject", h.RejectInvoice)
		invoices.POST("/:sid/payments", h.RecordPayment)
		invoices.POST("/:sid/clarification", h.RequestClarification)
		invoices.POST("/:sid/clarification-response", h.RespondClarification)
		invoices.GET("/:sid", h.GetInvoice)
	}

	batches := api.Group("/payment-batches")
	{
		batches.POST("", h.CreateBatch)
		batches.GET("", h.ListBatches)
		batches.GET("/:sid/export", h.ExportBatch)
		batches.GET("/:sid", h.GetBatch)
	}
}
