package http

import (
	"gorm.io/gorm"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/invoice"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/notification"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/payment"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/subscription"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/repository"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	ticketRepo        ticket.TicketRepository
	ticketHistoryRepo ticket.HistoryRepository
	quoteRequestRepo  ticket.QuoteRequestRepository
	commentRepo       ticket.CommentRepository
	invoiceRepo       invoice.InvoiceRepository
	paymentBatchRepo  invoice.PaymentBatchRepository
	batchSequences    invoice.SequenceAllocator
	paymentRepo       payment.PaymentRepository
	webhookLedger     payment.WebhookLedger
	subscriptionRepo  subscription.SubscriptionRepository
	outboxRepo        notification.OutboxRepository
	recipientDir      notification.RecipientDirectory
}

// newRepositories creates all repository instances from the database connection.
func newRepositories(db *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		ticketRepo:        repository.NewTicketRepository(db),
		ticketHistoryRepo: repository.NewTicketHistoryRepository(db),
		quoteRequestRepo:  repository.NewQuoteRequestRepository(db),
		commentRepo:       repository.NewTicketCommentRepository(db),
		invoiceRepo:       repository.NewInvoiceRepository(db),
		paymentBatchRepo:  repository.NewPaymentBatchRepository(db),
		batchSequences:    repository.NewBatchSequenceAllocator(db),
		paymentRepo:       repository.NewPaymentRepository(db),
		webhookLedger:     repository.NewWebhookLedger(db),
		subscriptionRepo:  repository.NewSubscriptionRepository(db, log),
		outboxRepo:        repository.NewOutboxRepository(db),
		recipientDir:      repository.NewRecipientDirectory(db),
	}
}
