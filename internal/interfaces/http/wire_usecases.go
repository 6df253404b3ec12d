package http

import (
	invoiceUsecases "github.com/karumbidza/TickTrack-Pro-sub003/internal/application/invoice/usecases"
	notificationUsecases "github.com/karumbidza/TickTrack-Pro-sub003/internal/application/notification/usecases"
	paymentUsecases "github.com/karumbidza/TickTrack-Pro-sub003/internal/application/payment/usecases"
	subscriptionUsecases "github.com/karumbidza/TickTrack-Pro-sub003/internal/application/subscription/usecases"
	ticketUsecases "github.com/karumbidza/TickTrack-Pro-sub003/internal/application/ticket/usecases"
)

// allUseCases holds all use case instances used by the application.
type allUseCases struct {
	// Ticket workflow
	createTicketUC     *ticketUsecases.CreateTicketUseCase
	getTicketUC        *ticketUsecases.GetTicketUseCase
	listTicketsUC      *ticketUsecases.ListTicketsUseCase
	getTicketHistoryUC *ticketUsecases.GetTicketHistoryUseCase
	transitionTicketUC *ticketUsecases.TransitionTicketUseCase
	applyTransitionUC  *ticketUsecases.ApplyTransitionUseCase
	cancelTicketUC     *ticketUsecases.CancelTicketUseCase

	// Assignment and quotes
	assignTicketUC   *ticketUsecases.AssignTicketUseCase
	unassignTicketUC *ticketUsecases.UnassignTicketUseCase
	rejectJobUC      *ticketUsecases.RejectJobUseCase
	requestQuoteUC   *ticketUsecases.RequestQuoteUseCase
	submitQuoteUC    *ticketUsecases.SubmitQuoteUseCase
	approveQuoteUC   *ticketUsecases.ApproveQuoteUseCase
	rejectQuoteUC    *ticketUsecases.RejectQuoteUseCase
	listQuotesUC     *ticketUsecases.ListQuotesUseCase

	// Comments
	addCommentUC   *ticketUsecases.AddCommentUseCase
	listCommentsUC *ticketUsecases.ListCommentsUseCase

	// Invoice ledger
	submitInvoiceUC        *invoiceUsecases.SubmitInvoiceUseCase
	getInvoiceUC           *invoiceUsecases.GetInvoiceUseCase
	listInvoicesUC         *invoiceUsecases.ListInvoicesUseCase
	getRevisionChainUC     *invoiceUsecases.GetRevisionChainUseCase
	approveInvoiceUC       *invoiceUsecases.ApproveInvoiceUseCase
	rejectInvoiceUC        *invoiceUsecases.RejectInvoiceUseCase
	recordPaymentUC        *invoiceUsecases.RecordPaymentUseCase
	requestClarificationUC *invoiceUsecases.RequestClarificationUseCase
	respondClarificationUC *invoiceUsecases.RespondClarificationUseCase

	// Payment batches
	createPaymentBatchUC *invoiceUsecases.CreatePaymentBatchUseCase
	getPaymentBatchUC    *invoiceUsecases.GetPaymentBatchUseCase
	listPaymentBatchesUC *invoiceUsecases.ListPaymentBatchesUseCase
	exportPaymentBatchUC *invoiceUsecases.ExportPaymentBatchUseCase

	// Subscription
	accessResolver          *subscriptionUsecases.AccessResolver
	getSubscriptionUC       *subscriptionUsecases.GetSubscriptionUseCase
	startTrialUC            *subscriptionUsecases.StartTrialUseCase
	activateFromPaymentUC   *subscriptionUsecases.ActivateFromPaymentUseCase
	runDailyCheckUC         *subscriptionUsecases.RunDailyCheckUseCase
	suspendSubscriptionUC   *subscriptionUsecases.SuspendSubscriptionUseCase
	reinstateSubscriptionUC *subscriptionUsecases.ReinstateSubscriptionUseCase
	cancelSubscriptionUC    *subscriptionUsecases.CancelSubscriptionUseCase

	// Payment
	settler             *paymentUsecases.Settler
	initiatePaymentUC   *paymentUsecases.InitiatePaymentUseCase
	pollPaymentUC       *paymentUsecases.PollPaymentUseCase
	listPaymentsUC      *paymentUsecases.ListPaymentsUseCase
	ingestWebhookUC     *paymentUsecases.IngestWebhookUseCase
	confirmBankTransfer *paymentUsecases.ConfirmBankTransferUseCase

	// Notification outbox
	relayOutboxUC *notificationUsecases.RelayOutboxUseCase
}
