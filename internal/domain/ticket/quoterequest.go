package ticket

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
)

// QuoteRequest is one contractor's invitation to quote on a ticket.
type QuoteRequest struct {
	id           uint
	ticketID     uint
	contractorID uint
	status       vo.QuoteStatus
	amount       int64
	description  string
	fileURL      string
	submittedAt  *time.Time
	createdAt    time.Time
	updatedAt    time.Time
}

func NewQuoteRequest(ticketID, contractorID uint, now time.Time) (*QuoteRequest, error) {
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if contractorID == 0 {
		return nil, fmt.Errorf("contractor ID is required")
	}
	return &QuoteRequest{
		ticketID:     ticketID,
		contractorID: contractorID,
		status:       vo.QuotePending,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

type QuoteRequestParams struct {
	ID           uint
	TicketID     uint
	ContractorID uint
	Status       vo.QuoteStatus
	Amount       int64
	Description  string
	FileURL      string
	SubmittedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func ReconstructQuoteRequest(p QuoteRequestParams) (*QuoteRequest, error) {
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid quote status: %s", p.Status)
	}
	return &QuoteRequest{
		id:           p.ID,
		ticketID:     p.TicketID,
		contractorID: p.ContractorID,
		status:       p.Status,
		amount:       p.Amount,
		description:  p.Description,
		fileURL:      p.FileURL,
		submittedAt:  p.SubmittedAt,
		createdAt:    p.CreatedAt,
		updatedAt:    p.UpdatedAt,
	}, nil
}

func (q *QuoteRequest) ID() uint               { return q.id }
func (q *QuoteRequest) TicketID() uint         { return q.ticketID }
func (q *QuoteRequest) ContractorID() uint     { return q.contractorID }
func (q *QuoteRequest) Status() vo.QuoteStatus { return q.status }
func (q *QuoteRequest) Amount() int64          { return q.amount }
func (q *QuoteRequest) Description() string    { return q.description }
func (q *QuoteRequest) FileURL() string        { return q.fileURL }
func (q *QuoteRequest) SubmittedAt() *time.Time {
	return q.submittedAt
}
func (q *QuoteRequest) CreatedAt() time.Time { return q.createdAt }
func (q *QuoteRequest) UpdatedAt() time.Time { return q.updatedAt }

func (q *QuoteRequest) SetID(id uint) {
	if q.id == 0 {
		q.id = id
	}
}

// Submit records or replaces the contractor's quote.
func (q *QuoteRequest) Submit(amount int64, description, fileURL string, now time.Time) error {
	if !q.status.IsOpen() {
		return errors.NewInvalidTransitionError("quote request is closed", string(q.status))
	}
	if amount <= 0 {
		return errors.NewValidationError("quote amount must be positive")
	}
	q.status = vo.QuoteSubmitted
	q.amount = amount
	q.description = strings.TrimSpace(description)
	q.fileURL = fileURL
	submitted := now
	q.submittedAt = &submitted
	q.updatedAt = now
	return nil
}

func (q *QuoteRequest) Award(now time.Time) error {
	if q.status != vo.QuoteSubmitted {
		return errors.NewInvalidTransitionError("only a submitted quote can be awarded", string(q.status))
	}
	q.status = vo.QuoteAwarded
	q.updatedAt = now
	return nil
}

// Decline closes an open request that lost to another contractor.
func (q *QuoteRequest) Decline(now time.Time) {
	if q.status.IsOpen() {
		q.status = vo.QuoteDeclined
		q.updatedAt = now
	}
}

// Reopen returns a submitted quote to pending after the admin rejected it.
func (q *QuoteRequest) Reopen(now time.Time) bool {
	if q.status != vo.QuoteSubmitted {
		return false
	}
	q.status = vo.QuotePending
	q.updatedAt = now
	return true
}
