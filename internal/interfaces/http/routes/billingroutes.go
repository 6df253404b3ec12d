package routes

import (
	"github.com/gin-gonic/gin"

	billinghandlers "github.com/karumbidza/TickTrack-Pro-sub003/internal/interfaces/http/handlers/billing"
)

type BillingRouteConfig struct {
	BillingHandler *billinghandlers.Handler
}

// SetupBillingRoutes mounts the endpoints a tenant can reach while blocked.
func SetupBillingRoutes(api *gin.RouterGroup, config *BillingRouteConfig) {
	h := config.BillingHandler

	billing := api.Group("/billing")
	{
		billing.GET("/subscription", h.GetSubscription)
		billing.POST("/payments", h.InitiatePayment)
		billing.GET("/payments", h.ListPayments)
		billing.GET("/payments/:sid/status", h.PollPayment)
		billing.POST("/bank-transfers", h.ConfirmBankTransfer)
		billing.POST("/trial", h.StartTrial)
	}
}

// SetupAdminRoutes mounts the platform operator endpoints.
func SetupAdminRoutes(api *gin.RouterGroup, config *BillingRouteConfig) {
	h := config.BillingHandler

	subscriptions := api.Group("/admin/subscriptions")
	{
		subscriptions.POST("/:sid/suspend", h.SuspendSubscription)
		subscriptions.POST("/:sid/reinstate", h.ReinstateSubscription)
		subscriptions.POST("/:sid/cancel", h.CancelSubscription)
	}
}
