package http

import (
	billingHandlers "github.com/karumbidza/TickTrack-Pro-sub003/internal/interfaces/http/handlers/billing"
	invoiceHandlers "github.com/karumbidza/TickTrack-Pro-sub003/internal/interfaces/http/handlers/invoice"
	systemHandlers "github.com/karumbidza/TickTrack-Pro-sub003/internal/interfaces/http/handlers/system"
	ticketHandlers "github.com/karumbidza/TickTrack-Pro-sub003/internal/interfaces/http/handlers/ticket"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	ticketHandler  *ticketHandlers.TicketHandler
	invoiceHandler *invoiceHandlers.Handler

	// Billing
	billingHandler *billingHandlers.Handler
	webhookHandler *billingHandlers.WebhookHandler
	cronHandler    *billingHandlers.CronHandler

	// System
	healthHandler *systemHandlers.HealthHandler
	fileHandler   *systemHandlers.FileHandler
}
