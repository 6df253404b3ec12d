package invoice

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/invoice/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/events"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/money"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
)

const (
	maxInvoiceNumberLength = 64
	maxTextLength          = 5000
)

// Invoice is a contractor's bill for one ticket. Rejected invoices are never
// edited; a resubmission deactivates them and starts a new revision.
type Invoice struct {
	events.Recorder

	id                    uint
	sid                   string
	invoiceNumber         string
	tenantID              uint
	ticketID              uint
	contractorID          uint
	amount                int64
	paidAmount            int64
	balance               int64
	currency              string
	status                vo.InvoiceStatus
	isActive              bool
	revisionNumber        int
	previousInvoiceID     *uint
	workDescription       string
	fileURL               string
	rejectionReason       string
	clarificationRequest  string
	clarificationResponse string
	paymentBatchID        *uint
	approvedByID          *uint
	approvedAt            *time.Time
	paidAt                *time.Time
	version               int
	createdAt             time.Time
	updatedAt             time.Time
}

// SubmitParams is the contractor-supplied part of an invoice.
type SubmitParams struct {
	TenantID        uint
	TicketID        uint
	ContractorID    uint
	InvoiceNumber   string
	AmountCents     int64
	Currency        string
	WorkDescription string
	FileURL         string
}

func (p SubmitParams) validate() error {
	if p.TenantID == 0 || p.TicketID == 0 || p.ContractorID == 0 {
		return errors.NewValidationError("tenant, ticket and contractor are required")
	}
	number := strings.TrimSpace(p.InvoiceNumber)
	if number == "" {
		return errors.NewValidationError("invoice number is required")
	}
	if len(number) > maxInvoiceNumberLength {
		return errors.NewValidationError(fmt.Sprintf("invoice number exceeds %d characters", maxInvoiceNumberLength))
	}
	if p.AmountCents <= 0 {
		return errors.NewValidationError("amount must be positive")
	}
	if len(p.WorkDescription) > maxTextLength {
		return errors.NewValidationError(fmt.Sprintf("work description exceeds %d characters", maxTextLength))
	}
	return nil
}

// NewInvoice creates the first revision of an invoice for a ticket.
func NewInvoice(p SubmitParams, now time.Time) (*Invoice, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &Invoice{
		invoiceNumber:   strings.TrimSpace(p.InvoiceNumber),
		tenantID:        p.TenantID,
		ticketID:        p.TicketID,
		contractorID:    p.ContractorID,
		amount:          p.AmountCents,
		balance:         p.AmountCents,
		currency:        money.NormalizeCurrency(p.Currency),
		status:          vo.StatusPending,
		isActive:        true,
		revisionNumber:  1,
		workDescription: strings.TrimSpace(p.WorkDescription),
		fileURL:         p.FileURL,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

// Revise deactivates this rejected invoice and returns its successor. Both
// must be persisted in the same transaction.
func (inv *Invoice) Revise(p SubmitParams, now time.Time) (*Invoice, error) {
	if !inv.isActive {
		return nil, errors.NewConflictError("invoice has already been superseded")
	}
	if inv.status != vo.StatusRejected {
		return nil, errors.NewConflictError("an active invoice already exists for this ticket", inv.invoiceNumber)
	}
	if p.TicketID != inv.ticketID || p.TenantID != inv.tenantID {
		return nil, errors.NewValidationError("revision must be for the same ticket")
	}

	next, err := NewInvoice(p, now)
	if err != nil {
		return nil, err
	}
	prevID := inv.id
	next.revisionNumber = inv.revisionNumber + 1
	next.previousInvoiceID = &prevID

	inv.isActive = false
	inv.touch(now)
	return next, nil
}

type ReconstructParams struct {
	ID                    uint
	SID                   string
	InvoiceNumber         string
	TenantID              uint
	TicketID              uint
	ContractorID          uint
	AmountCents           int64
	PaidAmountCents       int64
	BalanceCents          int64
	Currency              string
	Status                vo.InvoiceStatus
	IsActive              bool
	RevisionNumber        int
	PreviousInvoiceID     *uint
	WorkDescription       string
	FileURL               string
	RejectionReason       string
	ClarificationRequest  string
	ClarificationResponse string
	PaymentBatchID        *uint
	ApprovedByID          *uint
	ApprovedAt            *time.Time
	PaidAt                *time.Time
	Version               int
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

func ReconstructInvoice(p ReconstructParams) (*Invoice, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("invoice ID cannot be zero")
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid invoice status: %s", p.Status)
	}
	if p.AmountCents != p.PaidAmountCents+p.BalanceCents {
		return nil, fmt.Errorf("invoice %d: amount %d does not equal paid %d plus balance %d",
			p.ID, p.AmountCents, p.PaidAmountCents, p.BalanceCents)
	}
	return &Invoice{
		id:                    p.ID,
		sid:                   p.SID,
		invoiceNumber:         p.InvoiceNumber,
		tenantID:              p.TenantID,
		ticketID:              p.TicketID,
		contractorID:          p.ContractorID,
		amount:                p.AmountCents,
		paidAmount:            p.PaidAmountCents,
		balance:               p.BalanceCents,
		currency:              p.Currency,
		status:                p.Status,
		isActive:              p.IsActive,
		revisionNumber:        p.RevisionNumber,
		previousInvoiceID:     p.PreviousInvoiceID,
		workDescription:       p.WorkDescription,
		fileURL:               p.FileURL,
		rejectionReason:       p.RejectionReason,
		clarificationRequest:  p.ClarificationRequest,
		clarificationResponse: p.ClarificationResponse,
		paymentBatchID:        p.PaymentBatchID,
		approvedByID:          p.ApprovedByID,
		approvedAt:            p.ApprovedAt,
		paidAt:                p.PaidAt,
		version:               p.Version,
		createdAt:             p.CreatedAt,
		updatedAt:             p.UpdatedAt,
	}, nil
}

func (inv *Invoice) ID() uint                      { return inv.id }
func (inv *Invoice) SID() string                   { return inv.sid }
func (inv *Invoice) InvoiceNumber() string         { return inv.invoiceNumber }
func (inv *Invoice) TenantID() uint                { return inv.tenantID }
func (inv *Invoice) TicketID() uint                { return inv.ticketID }
func (inv *Invoice) ContractorID() uint            { return inv.contractorID }
func (inv *Invoice) AmountCents() int64            { return inv.amount }
func (inv *Invoice) PaidAmountCents() int64        { return inv.paidAmount }
func (inv *Invoice) BalanceCents() int64           { return inv.balance }
func (inv *Invoice) Currency() string              { return inv.currency }
func (inv *Invoice) Status() vo.InvoiceStatus      { return inv.status }
func (inv *Invoice) IsActive() bool                { return inv.isActive }
func (inv *Invoice) RevisionNumber() int           { return inv.revisionNumber }
func (inv *Invoice) PreviousInvoiceID() *uint      { return inv.previousInvoiceID }
func (inv *Invoice) WorkDescription() string       { return inv.workDescription }
func (inv *Invoice) FileURL() string               { return inv.fileURL }
func (inv *Invoice) RejectionReason() string       { return inv.rejectionReason }
func (inv *Invoice) ClarificationRequest() string  { return inv.clarificationRequest }
func (inv *Invoice) ClarificationResponse() string { return inv.clarificationResponse }
func (inv *Invoice) PaymentBatchID() *uint         { return inv.paymentBatchID }
func (inv *Invoice) ApprovedByID() *uint           { return inv.approvedByID }
func (inv *Invoice) ApprovedAt() *time.Time        { return inv.approvedAt }
func (inv *Invoice) PaidAt() *time.Time            { return inv.paidAt }
func (inv *Invoice) Version() int                  { return inv.version }
func (inv *Invoice) CreatedAt() time.Time          { return inv.createdAt }
func (inv *Invoice) UpdatedAt() time.Time          { return inv.updatedAt }

func (inv *Invoice) Amount() money.Money  { return money.New(inv.amount, inv.currency) }
func (inv *Invoice) Balance() money.Money { return money.New(inv.balance, inv.currency) }

func (inv *Invoice) SetID(id uint) error {
	if inv.id != 0 {
		return fmt.Errorf("invoice ID is already set")
	}
	inv.id = id
	return nil
}

func (inv *Invoice) SetSID(sid string) error {
	if inv.sid != "" {
		return fmt.Errorf("invoice SID is already set")
	}
	inv.sid = sid
	return nil
}

func (inv *Invoice) transitionTo(target vo.InvoiceStatus) error {
	if !inv.status.CanTransitionTo(target) {
		return errors.NewInvalidTransitionError(
			fmt.Sprintf("cannot move invoice from %s to %s", inv.status, target))
	}
	inv.status = target
	return nil
}

func (inv *Invoice) Approve(adminID uint, now time.Time) error {
	if err := inv.transitionTo(vo.StatusApproved); err != nil {
		return err
	}
	by := adminID
	approved := now
	inv.approvedByID = &by
	inv.approvedAt = &approved
	inv.touch(now)
	inv.Record(newInvoiceEvent(inv, EventApproved, now, ""))
	return nil
}

// Reject keeps the invoice active so that the next submission becomes its
// revision.
func (inv *Invoice) Reject(reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return errors.NewValidationError("a rejection reason is required")
	}
	if err := inv.transitionTo(vo.StatusRejected); err != nil {
		return err
	}
	inv.rejectionReason = reason
	inv.touch(now)
	inv.Record(newInvoiceEvent(inv, EventRejected, now, reason))
	return nil
}

// RecordPayment applies a direct partial or full payment.
func (inv *Invoice) RecordPayment(cents int64, now time.Time) error {
	if inv.status != vo.StatusApproved {
		return errors.NewInvalidTransitionError("only approved invoices can be paid", string(inv.status))
	}
	if cents <= 0 {
		return errors.NewValidationError("payment amount must be positive")
	}
	if cents > inv.balance {
		return errors.NewValidationError(
			fmt.Sprintf("payment of %s exceeds balance of %s", money.New(cents, inv.currency), inv.Balance()))
	}
	inv.paidAmount += cents
	inv.balance -= cents
	if inv.balance <= 0 {
		if err := inv.transitionTo(vo.StatusPaid); err != nil {
			return err
		}
		paid := now
		inv.paidAt = &paid
		inv.Record(newInvoiceEvent(inv, EventPaid, now, ""))
	}
	inv.touch(now)
	return nil
}

// SettleInBatch pays the remaining balance as part of a payment batch.
func (inv *Invoice) SettleInBatch(batchID uint, now time.Time) error {
	if inv.status != vo.StatusApproved {
		return errors.NewConflictError("invoice is not approved", inv.invoiceNumber)
	}
	if inv.paymentBatchID != nil {
		return errors.NewConflictError("invoice is already in a payment batch", inv.invoiceNumber)
	}
	if err := inv.transitionTo(vo.StatusPaid); err != nil {
		return err
	}
	id := batchID
	paid := now
	inv.paidAmount = inv.amount
	inv.balance = 0
	inv.paymentBatchID = &id
	inv.paidAt = &paid
	inv.touch(now)
	inv.Record(newInvoiceEvent(inv, EventPaid, now, ""))
	return nil
}

// RequestClarification annotates the invoice without changing its status.
func (inv *Invoice) RequestClarification(text string, now time.Time) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return errors.NewValidationError("clarification request cannot be empty")
	}
	if inv.status != vo.StatusPending && inv.status != vo.StatusApproved {
		return errors.NewInvalidTransitionError("clarification is only possible before payment", string(inv.status))
	}
	inv.clarificationRequest = text
	inv.clarificationResponse = ""
	inv.touch(now)
	inv.Record(newInvoiceEvent(inv, EventClarificationRequested, now, text))
	return nil
}

// RespondClarification records the contractor's answer and sends the invoice
// back for review.
func (inv *Invoice) RespondClarification(contractorID uint, text string, now time.Time) error {
	if contractorID != inv.contractorID {
		return errors.NewForbiddenError("only the invoicing contractor may respond")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return errors.NewValidationError("clarification response cannot be empty")
	}
	if inv.clarificationRequest == "" {
		return errors.NewValidationError("no clarification was requested")
	}
	if inv.status != vo.StatusPending && inv.status != vo.StatusApproved {
		return errors.NewInvalidTransitionError("clarification is only possible before payment", string(inv.status))
	}
	inv.clarificationResponse = text
	inv.status = vo.StatusPending
	inv.approvedByID = nil
	inv.approvedAt = nil
	inv.touch(now)
	inv.Record(newInvoiceEvent(inv, EventClarificationAnswered, now, ""))
	return nil
}

// CheckInvariants verifies the balance arithmetic.
func (inv *Invoice) CheckInvariants() error {
	if inv.amount != inv.paidAmount+inv.balance {
		return fmt.Errorf("amount %d != paid %d + balance %d", inv.amount, inv.paidAmount, inv.balance)
	}
	if (inv.status == vo.StatusPaid) != (inv.balance <= 0) {
		return fmt.Errorf("status %s inconsistent with balance %d", inv.status, inv.balance)
	}
	return nil
}

func (inv *Invoice) touch(now time.Time) {
	inv.updatedAt = now
	inv.version++
}
