package constants

const (
	// Environments
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// Default pagination
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// HTTP Headers
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderCronSecret    = "X-Cron-Secret"

	// Context keys
	ContextKeyRequestID = "request_id"
	ContextKeyActor     = "actor"
	ContextKeyAccess    = "subscription_access"

	// Default currency for money amounts when none is given
	DefaultCurrency = "USD"
)

// Table names
const (
	TableTickets               = "tickets"
	TableTicketStatusHistory   = "ticket_status_history"
	TableTicketComments        = "ticket_comments"
	TableQuoteRequests         = "quote_requests"
	TableInvoices              = "invoices"
	TablePaymentBatches        = "payment_batches"
	TablePaymentBatchSequences = "payment_batch_sequences"
	TablePayments              = "payments"
	TableProcessedWebhooks     = "processed_webhooks"
	TableSubscriptions         = "subscriptions"
	TableNotificationOutbox    = "notification_outbox"
	TableUserDirectory         = "user_directory"
	TableCasbinRule            = "casbin_rule"
)
