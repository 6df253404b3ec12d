package ticket

import (
	"time"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/events"
	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket/valueobjects"
)

const AggregateType = "ticket"

const (
	EventTicketCreated  = "ticket.created"
	EventStatusChanged  = "ticket.status_changed"
	EventAssigned       = "ticket.assigned"
	EventUnassigned     = "ticket.unassigned"
	EventQuoteRequested = "ticket.quote_requested"
	EventQuoteSubmitted = "ticket.quote_submitted"
	EventQuoteApproved  = "ticket.quote_approved"
	EventQuoteRejected  = "ticket.quote_rejected"
	EventCommentAdded   = "ticket.comment_added"
)

type TicketCreatedEvent struct {
	events.BaseEvent
	Number     string `json:"number"`
	Title      string `json:"title"`
	Priority   string `json:"priority"`
	Department string `json:"department"`
	CreatorID  uint   `json:"creator_id"`
}

func NewTicketCreatedEvent(t *Ticket) TicketCreatedEvent {
	return TicketCreatedEvent{
		BaseEvent:  events.NewBaseEvent(AggregateType, t.sid, EventTicketCreated, t.tenantID, t.createdAt, t.userID),
		Number:     t.number,
		Title:      t.title,
		Priority:   string(t.priority),
		Department: string(t.department),
		CreatorID:  t.userID,
	}
}

type StatusChangedEvent struct {
	events.BaseEvent
	Number    string `json:"number"`
	From      string `json:"from"`
	To        string `json:"to"`
	ChangedBy uint   `json:"changed_by"`
	Reason    string `json:"reason,omitempty"`
}

// NewStatusChangedEvent notifies the creator and the assignee. extra carries
// users that no longer show on the ticket, such as a cleared assignee.
func NewStatusChangedEvent(t *Ticket, from, to vo.TicketStatus, changedBy uint, reason string, at time.Time, extra ...uint) StatusChangedEvent {
	recipients := append([]uint{t.userID}, extra...)
	if t.assignedToID != nil {
		recipients = append(recipients, *t.assignedToID)
	}
	return StatusChangedEvent{
		BaseEvent: events.NewBaseEvent(AggregateType, t.sid, EventStatusChanged, t.tenantID, at, recipients...),
		Number:    t.number,
		From:      string(from),
		To:        string(to),
		ChangedBy: changedBy,
		Reason:    reason,
	}
}

type AssignedEvent struct {
	events.BaseEvent
	Number     string `json:"number"`
	AssigneeID uint   `json:"assignee_id"`
	AssignedBy uint   `json:"assigned_by"`
	ViaQuote   bool   `json:"via_quote"`
}

func newAssignedEvent(t *Ticket, assignedBy uint, viaQuote bool, at time.Time) AssignedEvent {
	assignee := *t.assignedToID
	eventType := EventAssigned
	if viaQuote {
		eventType = EventQuoteApproved
	}
	return AssignedEvent{
		BaseEvent:  events.NewBaseEvent(AggregateType, t.sid, eventType, t.tenantID, at, assignee, t.userID),
		Number:     t.number,
		AssigneeID: assignee,
		AssignedBy: assignedBy,
		ViaQuote:   viaQuote,
	}
}

type UnassignedEvent struct {
	events.BaseEvent
	Number             string `json:"number"`
	PreviousAssigneeID uint   `json:"previous_assignee_id"`
	ByContractor       bool   `json:"by_contractor"`
	Reason             string `json:"reason,omitempty"`
}

func newUnassignedEvent(t *Ticket, previous uint, byContractor bool, reason string, at time.Time) UnassignedEvent {
	return UnassignedEvent{
		BaseEvent:          events.NewBaseEvent(AggregateType, t.sid, EventUnassigned, t.tenantID, at, previous, t.userID),
		Number:             t.number,
		PreviousAssigneeID: previous,
		ByContractor:       byContractor,
		Reason:             reason,
	}
}

type QuoteEvent struct {
	events.BaseEvent
	Number       string `json:"number"`
	ContractorID uint   `json:"contractor_id,omitempty"`
	AmountCents  *int64 `json:"amount_cents,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

// NewQuoteRequestedEvent notifies every contractor invited to quote.
func NewQuoteRequestedEvent(t *Ticket, contractorIDs []uint, at time.Time) QuoteEvent {
	return QuoteEvent{
		BaseEvent: events.NewBaseEvent(AggregateType, t.sid, EventQuoteRequested, t.tenantID, at, contractorIDs...),
		Number:    t.number,
	}
}

func newQuoteSubmittedEvent(t *Ticket, contractorID uint, amount int64, at time.Time) QuoteEvent {
	return QuoteEvent{
		BaseEvent:    events.NewBaseEvent(AggregateType, t.sid, EventQuoteSubmitted, t.tenantID, at, t.userID),
		Number:       t.number,
		ContractorID: contractorID,
		AmountCents:  &amount,
	}
}

// NewQuoteRejectedEvent notifies the contractors whose quotes were sent back.
func NewQuoteRejectedEvent(t *Ticket, contractorIDs []uint, reason string, at time.Time) QuoteEvent {
	return QuoteEvent{
		BaseEvent: events.NewBaseEvent(AggregateType, t.sid, EventQuoteRejected, t.tenantID, at, contractorIDs...),
		Number:    t.number,
		Reason:    reason,
	}
}

type CommentAddedEvent struct {
	events.BaseEvent
	Number     string `json:"number"`
	CommentSID string `json:"comment_id"`
	AuthorID   uint   `json:"author_id"`
	Internal   bool   `json:"internal"`
}

// NewCommentAddedEvent notifies the other party of the ticket. Internal
// comments are not sent to the requester.
func NewCommentAddedEvent(t *Ticket, c *Comment) CommentAddedEvent {
	var recipients []uint
	if !c.IsInternal() && c.AuthorID() != t.userID {
		recipients = append(recipients, t.userID)
	}
	if t.assignedToID != nil && *t.assignedToID != c.AuthorID() {
		recipients = append(recipients, *t.assignedToID)
	}
	return CommentAddedEvent{
		BaseEvent:  events.NewBaseEvent(AggregateType, t.sid, EventCommentAdded, t.tenantID, c.CreatedAt(), recipients...),
		Number:     t.number,
		CommentSID: c.SID(),
		AuthorID:   c.AuthorID(),
		Internal:   c.IsInternal(),
	}
}
