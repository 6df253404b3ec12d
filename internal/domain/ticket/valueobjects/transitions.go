package valueobjects

import (
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
)

type edgeKey struct {
	from TicketStatus
	kind authorization.RoleKind
}

// allowedNext is the ticket workflow. Edges into PROCESSING from OPEN and
// QUOTE_SUBMITTED, and every edge into OPEN, are driven by the assignment
// operations; they are listed here so that the table stays the single source
// of truth for what may happen.
var allowedNext = map[edgeKey][]TicketStatus{
	{StatusOpen, authorization.KindAdmin}:     {StatusProcessing, StatusAwaitingQuote, StatusCancelled},
	{StatusOpen, authorization.KindRequester}: {StatusCancelled},

	{StatusAwaitingQuote, authorization.KindAdmin}:      {StatusCancelled},
	{StatusAwaitingQuote, authorization.KindContractor}: {StatusQuoteSubmitted},

	{StatusQuoteSubmitted, authorization.KindAdmin}: {StatusProcessing, StatusAwaitingQuote, StatusCancelled},

	{StatusProcessing, authorization.KindAdmin}:      {StatusOpen, StatusCancelled},
	{StatusProcessing, authorization.KindRequester}:  {StatusCancelled},
	{StatusProcessing, authorization.KindContractor}: {StatusAccepted, StatusOpen},

	{StatusAccepted, authorization.KindAdmin}:     {StatusOpen, StatusCancelled},
	{StatusAccepted, authorization.KindRequester}: {StatusOnSite},

	{StatusOnSite, authorization.KindAdmin}:      {StatusOpen, StatusCancelled},
	{StatusOnSite, authorization.KindRequester}:  {StatusAwaitingDescription},
	{StatusOnSite, authorization.KindContractor}: {StatusInProgress},

	{StatusInProgress, authorization.KindAdmin}:     {StatusOpen, StatusCancelled},
	{StatusInProgress, authorization.KindRequester}: {StatusAwaitingDescription},

	{StatusAwaitingDescription, authorization.KindAdmin}:      {StatusOpen, StatusCancelled},
	{StatusAwaitingDescription, authorization.KindContractor}: {StatusAwaitingWorkApproval},

	{StatusAwaitingWorkApproval, authorization.KindAdmin}:     {StatusOpen, StatusCancelled},
	{StatusAwaitingWorkApproval, authorization.KindRequester}: {StatusCompleted, StatusAwaitingDescription},

	{StatusCompleted, authorization.KindAdmin}:     {StatusClosed, StatusCancelled},
	{StatusCompleted, authorization.KindRequester}: {StatusClosed},
}

// AllowedNext returns the statuses a role class may move a ticket to from ts.
func AllowedNext(ts TicketStatus, class authorization.RoleClass) []TicketStatus {
	next := allowedNext[edgeKey{ts, class.Kind}]
	out := make([]TicketStatus, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether the edge ts -> to exists for the role class.
func CanTransition(ts, to TicketStatus, class authorization.RoleClass) bool {
	for _, s := range allowedNext[edgeKey{ts, class.Kind}] {
		if s == to {
			return true
		}
	}
	return false
}
