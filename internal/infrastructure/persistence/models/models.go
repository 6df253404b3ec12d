package models

// All returns every model, in the order used by AutoMigrate in tests.
func All() []any {
	return []any{
		&TicketModel{},
		&TicketStatusHistoryModel{},
		&CommentModel{},
		&QuoteRequestModel{},
		&InvoiceModel{},
		&PaymentBatchModel{},
		&PaymentBatchSequenceModel{},
		&PaymentModel{},
		&ProcessedWebhookModel{},
		&SubscriptionModel{},
		&OutboxModel{},
		&UserDirectoryModel{},
	}
}
