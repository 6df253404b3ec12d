package routes

import (
	"github.com/gin-gonic/gin"

	tickethandlers "github.com/karumbidza/TickTrack-Pro-sub003/internal/interfaces/http/handlers/ticket"
)

type TicketRouteConfig struct {
	TicketHandler *tickethandlers.TicketHandler
}

// SetupTicketRoutes mounts the ticket workflow under an already
// authenticated and permission-checked group.
func SetupTicketRoutes(api *gin.RouterGroup, config *TicketRouteConfig) {
	tickets := api.Group("/tickets")
	{
		// Collection operations (no ID parameter)
		tickets.POST("", config.TicketHandler.CreateTicket)
		tickets.GET("", config.TicketHandler.ListTickets)

		// Workflow actions
		tickets.GET("/:sid/history", config.TicketHandler.GetHistory)
		tickets.POST("/:sid/transitions", config.TicketHandler.ApplyTransition)
		tickets.POST("/:sid/cancel", config.TicketHandler.CancelTicket)
		tickets.POST("/:sid/assign", config.TicketHandler.AssignTicket)
		tickets.POST("/:sid/unassign", config.TicketHandler.UnassignTicket)
		tickets.POST("/:sid/reject-job", config.TicketHandler.RejectJob)

		// Quote sub-flow
		tickets.POST("/:sid/quote-requests", config.TicketHandler.RequestQuotes)
		tickets.GET("/:sid/quotes", config.TicketHandler.ListQuotes)
		tickets.POST("/:sid/quotes", config.TicketHandler.SubmitQuote)
		tickets.POST("/:sid/quotes/approve", config.TicketHandler.ApproveQuote)
		tickets.POST("/:sid/quotes/reject", config.TicketHandler.RejectQuote)

		tickets.GET("/:sid/comments", config.TicketHandler.ListComments)
		tickets.POST("/:sid/comments", config.TicketHandler.AddComment)

		tickets.GET("/:sid", config.TicketHandler.GetTicket)
	}
}
