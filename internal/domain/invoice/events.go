package invoice

import (
	"time"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/events"
)

const (
	AggregateType      = "invoice"
	BatchAggregateType = "payment_batch"
)

const (
	EventSubmitted              = "invoice.submitted"
	EventApproved               = "invoice.approved"
	EventRejected               = "invoice.rejected"
	EventPaid                   = "invoice.paid"
	EventClarificationRequested = "invoice.clarification_requested"
	EventClarificationAnswered  = "invoice.clarification_answered"
	EventBatchCreated           = "payment_batch.created"
)

type InvoiceEvent struct {
	events.BaseEvent
	InvoiceNumber  string `json:"invoice_number"`
	TicketID       uint   `json:"ticket_id"`
	ContractorID   uint   `json:"contractor_id"`
	AmountCents    int64  `json:"amount_cents"`
	BalanceCents   int64  `json:"balance_cents"`
	Currency       string `json:"currency"`
	RevisionNumber int    `json:"revision_number"`
	Note           string `json:"note,omitempty"`
}

// newInvoiceEvent addresses the contractor, except for submissions and
// clarification answers, which go to the tenant's admins.
func newInvoiceEvent(inv *Invoice, eventType string, at time.Time, note string) InvoiceEvent {
	var recipients []uint
	if eventType != EventSubmitted && eventType != EventClarificationAnswered {
		recipients = append(recipients, inv.contractorID)
	}
	return InvoiceEvent{
		BaseEvent:      events.NewBaseEvent(AggregateType, inv.sid, eventType, inv.tenantID, at, recipients...),
		InvoiceNumber:  inv.invoiceNumber,
		TicketID:       inv.ticketID,
		ContractorID:   inv.contractorID,
		AmountCents:    inv.amount,
		BalanceCents:   inv.balance,
		Currency:       inv.currency,
		RevisionNumber: inv.revisionNumber,
		Note:           note,
	}
}

// RecordSubmitted is called once the invoice has its SID.
func (inv *Invoice) RecordSubmitted(now time.Time) {
	inv.Record(newInvoiceEvent(inv, EventSubmitted, now, ""))
}

type BatchCreatedEvent struct {
	events.BaseEvent
	BatchNumber  string `json:"batch_number"`
	InvoiceCount int    `json:"invoice_count"`
	TotalCents   int64  `json:"total_cents"`
	Currency     string `json:"currency"`
}

func newBatchCreatedEvent(b *PaymentBatch, contractorIDs []uint, at time.Time) BatchCreatedEvent {
	return BatchCreatedEvent{
		BaseEvent:    events.NewBaseEvent(BatchAggregateType, b.sid, EventBatchCreated, b.tenantID, at, contractorIDs...),
		BatchNumber:  b.batchNumber,
		InvoiceCount: len(b.invoiceIDs),
		TotalCents:   b.totalAmount,
		Currency:     b.currency,
	}
}
