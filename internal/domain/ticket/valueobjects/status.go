package valueobjects

import (
	"fmt"
	"strings"
)

type TicketStatus string

const (
	StatusOpen                 TicketStatus = "OPEN"
	StatusProcessing           TicketStatus = "PROCESSING"
	StatusAwaitingQuote        TicketStatus = "AWAITING_QUOTE"
	StatusQuoteSubmitted       TicketStatus = "QUOTE_SUBMITTED"
	StatusAccepted             TicketStatus = "ACCEPTED"
	StatusOnSite               TicketStatus = "ON_SITE"
	StatusInProgress           TicketStatus = "IN_PROGRESS"
	StatusAwaitingDescription  TicketStatus = "AWAITING_DESCRIPTION"
	StatusAwaitingWorkApproval TicketStatus = "AWAITING_WORK_APPROVAL"
	StatusCompleted            TicketStatus = "COMPLETED"
	StatusClosed               TicketStatus = "CLOSED"
	StatusCancelled            TicketStatus = "CANCELLED"
)

var validTicketStatuses = map[TicketStatus]bool{
	StatusOpen:                 true,
	StatusProcessing:           true,
	StatusAwaitingQuote:        true,
	StatusQuoteSubmitted:       true,
	StatusAccepted:             true,
	StatusOnSite:               true,
	StatusInProgress:           true,
	StatusAwaitingDescription:  true,
	StatusAwaitingWorkApproval: true,
	StatusCompleted:            true,
	StatusClosed:               true,
	StatusCancelled:            true,
}

func (ts TicketStatus) String() string {
	return string(ts)
}

func (ts TicketStatus) IsValid() bool {
	return validTicketStatuses[ts]
}

// IsTerminal reports statuses with no outgoing edges.
func (ts TicketStatus) IsTerminal() bool {
	return ts == StatusClosed || ts == StatusCancelled
}

// IsBillable reports statuses on which the assignee may invoice.
func (ts TicketStatus) IsBillable() bool {
	return ts == StatusCompleted || ts == StatusClosed
}

// IsAcceptedByContractor reports whether the contractor has committed to the job.
// A requester may no longer cancel from here on.
func (ts TicketStatus) IsAcceptedByContractor() bool {
	switch ts {
	case StatusOpen, StatusProcessing, StatusAwaitingQuote, StatusQuoteSubmitted, StatusCancelled:
		return false
	}
	return true
}

func NewTicketStatus(s string) (TicketStatus, error) {
	ts := TicketStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !ts.IsValid() {
		return "", fmt.Errorf("invalid ticket status: %s", s)
	}
	return ts, nil
}
