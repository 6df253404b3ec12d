package ticket

import (
	"strings"
	"time"

	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
)

func (t *Ticket) requireAdmin(actor authorization.Actor) error {
	if err := t.CheckActor(actor); err != nil {
		return err
	}
	if !actor.Class().IsAdmin() {
		return errors.NewForbiddenError("only admins may do this")
	}
	return nil
}

// Assign gives an unassigned ticket to a contractor or admin and moves it to
// PROCESSING. The caller persists it with a write conditional on the ticket
// still being unassigned.
func (t *Ticket) Assign(actor authorization.Actor, assigneeID uint, now time.Time) (*StatusHistory, error) {
	if assigneeID == 0 {
		return nil, errors.NewValidationError("assignee is required")
	}
	if err := t.requireAdmin(actor); err != nil {
		return nil, err
	}
	if t.status == vo.StatusQuoteSubmitted {
		return nil, errors.NewInvalidTransitionError("approve a quote to assign this ticket", string(t.status))
	}
	// Losing an assignment race surfaces as a conflict, not as a bad edge.
	if !t.status.IsTerminal() && !t.IsUnassigned() {
		return nil, errors.NewConflictError("ticket is already assigned; unassign it first")
	}
	if err := t.checkEdge(vo.StatusProcessing, actor.Class()); err != nil {
		return nil, err
	}
	return t.assign(actor.UserID, assigneeID, false, now), nil
}

func (t *Ticket) assign(by, assigneeID uint, viaQuote bool, now time.Time) *StatusHistory {
	from := t.status
	assignee := assigneeID
	t.assignedToID = &assignee
	history := t.commitStatus(from, vo.StatusProcessing, by, "", now)
	t.Record(newAssignedEvent(t, by, viaQuote, now))
	return history
}

// Unassign clears the assignee and returns the ticket to OPEN. It returns the
// previous assignee for the notification payload.
func (t *Ticket) Unassign(actor authorization.Actor, reason string, now time.Time) (*StatusHistory, uint, error) {
	if err := t.requireAdmin(actor); err != nil {
		return nil, 0, err
	}
	if err := t.checkEdge(vo.StatusOpen, actor.Class()); err != nil {
		return nil, 0, err
	}
	if t.IsUnassigned() {
		return nil, 0, errors.NewValidationError("ticket is not assigned")
	}
	previous := *t.assignedToID
	history := t.release(actor.UserID, strings.TrimSpace(reason), now)
	t.Record(newUnassignedEvent(t, previous, false, strings.TrimSpace(reason), now))
	return history, previous, nil
}

// RejectJob lets the assigned contractor hand a job back before accepting it.
func (t *Ticket) RejectJob(actor authorization.Actor, reason string, now time.Time) (*StatusHistory, error) {
	if err := t.CheckActor(actor); err != nil {
		return nil, err
	}
	if !actor.Class().IsContractor() {
		return nil, errors.NewForbiddenError("only the assigned contractor may reject the job")
	}
	if err := t.checkEdge(vo.StatusOpen, actor.Class()); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, errors.NewValidationError("a reason is required to reject the job")
	}
	previous := *t.assignedToID
	history := t.release(actor.UserID, reason, now)
	t.Record(newUnassignedEvent(t, previous, true, reason, now))
	return history, nil
}

func (t *Ticket) release(by uint, reason string, now time.Time) *StatusHistory {
	from := t.status
	t.assignedToID = nil
	t.estimatedArrival = nil
	t.estimatedDays = nil
	t.jobPlan = ""
	return t.commitStatus(from, vo.StatusOpen, by, reason, now)
}

// OpenForQuotes moves an OPEN ticket to AWAITING_QUOTE. Tickets already
// collecting quotes are left as they are and no history is returned.
func (t *Ticket) OpenForQuotes(actor authorization.Actor, now time.Time) (*StatusHistory, error) {
	if err := t.requireAdmin(actor); err != nil {
		return nil, err
	}
	if !t.IsUnassigned() {
		return nil, errors.NewConflictError("ticket is already assigned")
	}
	switch t.status {
	case vo.StatusAwaitingQuote, vo.StatusQuoteSubmitted:
		return nil, nil
	}
	if err := t.checkEdge(vo.StatusAwaitingQuote, actor.Class()); err != nil {
		return nil, err
	}
	return t.commitStatus(t.status, vo.StatusAwaitingQuote, actor.UserID, "", now), nil
}

// RecordQuote mirrors a submitted quote on the ticket. The first quote moves
// the ticket to QUOTE_SUBMITTED; later ones only refresh the quote fields.
// The caller has already checked that the contractor holds a quote request.
func (t *Ticket) RecordQuote(actor authorization.Actor, amount int64, description, fileURL string, now time.Time) (*StatusHistory, error) {
	if actor.TenantID != t.tenantID {
		return nil, errors.NewNotFoundError("ticket not found")
	}
	if !actor.Class().IsContractor() {
		return nil, errors.NewForbiddenError("only contractors submit quotes")
	}
	if amount <= 0 {
		return nil, errors.NewValidationError("quote amount must be positive")
	}

	var history *StatusHistory
	switch t.status {
	case vo.StatusQuoteSubmitted:
	case vo.StatusAwaitingQuote:
		if err := t.checkEdge(vo.StatusQuoteSubmitted, actor.Class()); err != nil {
			return nil, err
		}
	default:
		return nil, errors.NewInvalidTransitionError("ticket is not collecting quotes", string(t.status))
	}

	quote := amount
	t.quoteAmount = &quote
	t.quoteDescription = strings.TrimSpace(description)
	t.quoteFileURL = fileURL

	if t.status == vo.StatusAwaitingQuote {
		history = t.commitStatus(t.status, vo.StatusQuoteSubmitted, actor.UserID, "", now)
	} else {
		t.touch(now)
	}
	t.Record(newQuoteSubmittedEvent(t, actor.UserID, amount, now))
	return history, nil
}

// ApproveQuote awards the ticket to the contractor whose quote was accepted.
func (t *Ticket) ApproveQuote(actor authorization.Actor, q *QuoteRequest, now time.Time) (*StatusHistory, error) {
	if err := t.requireAdmin(actor); err != nil {
		return nil, err
	}
	if q == nil || q.TicketID() != t.id {
		return nil, errors.NewNotFoundError("quote not found")
	}
	if q.Status() != vo.QuoteSubmitted {
		return nil, errors.NewValidationError("only a submitted quote can be approved")
	}
	if t.status != vo.StatusQuoteSubmitted {
		return nil, errors.NewInvalidTransitionError("ticket has no submitted quote", string(t.status))
	}
	if err := t.checkEdge(vo.StatusProcessing, actor.Class()); err != nil {
		return nil, err
	}
	if !t.IsUnassigned() {
		return nil, errors.NewConflictError("ticket is already assigned")
	}

	amount := q.Amount()
	t.quoteAmount = &amount
	t.quoteDescription = q.Description()
	t.quoteFileURL = q.FileURL()
	return t.assign(actor.UserID, q.ContractorID(), true, now), nil
}

// RejectQuote clears the quote fields and sends the ticket back to
// AWAITING_QUOTE so contractors may resubmit.
func (t *Ticket) RejectQuote(actor authorization.Actor, reason string, now time.Time) (*StatusHistory, error) {
	if err := t.requireAdmin(actor); err != nil {
		return nil, err
	}
	if t.status != vo.StatusQuoteSubmitted {
		return nil, errors.NewInvalidTransitionError("ticket has no submitted quote", string(t.status))
	}
	if err := t.checkEdge(vo.StatusAwaitingQuote, actor.Class()); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, errors.NewValidationError("a reason is required to reject a quote")
	}
	t.quoteAmount = nil
	t.quoteDescription = ""
	t.quoteFileURL = ""
	return t.commitStatus(t.status, vo.StatusAwaitingQuote, actor.UserID, reason, now), nil
}
