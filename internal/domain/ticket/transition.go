package ticket

import (
	"strings"
	"time"

	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
)

// TransitionPayload carries the data some edges require.
type TransitionPayload struct {
	Reason           string
	JobPlan          string
	EstimatedArrival *time.Time
	EstimatedDays    *int
	WorkDescription  string
	RejectionReason  string
	Rating           *int
	RatingComment    string
}

// Edges into these statuses belong to the assignment and quote operations.
var coordinatorOwned = map[vo.TicketStatus]bool{
	vo.StatusOpen:           true,
	vo.StatusProcessing:     true,
	vo.StatusAwaitingQuote:  true,
	vo.StatusQuoteSubmitted: true,
}

// IsCoordinatorOwned reports targets that must go through the assignment operations.
func IsCoordinatorOwned(to vo.TicketStatus) bool {
	return coordinatorOwned[to]
}

// CheckActor verifies tenant and ownership for a workflow action. A ticket
// from another tenant is reported as not found.
func (t *Ticket) CheckActor(actor authorization.Actor) error {
	if actor.TenantID != t.tenantID {
		return errors.NewNotFoundError("ticket not found")
	}
	class := actor.Class()
	switch {
	case class.IsAdmin():
		if !class.Administers(t.department) {
			return errors.NewForbiddenError("ticket belongs to another department")
		}
	case class.IsContractor():
		if !t.IsAssignedTo(actor.UserID) {
			return errors.NewForbiddenError("ticket is not assigned to you")
		}
	default:
		if t.userID != actor.UserID {
			return errors.NewForbiddenError("only the ticket creator may do this")
		}
	}
	return nil
}

// Transition applies one workflow edge. All checks run before any field is
// touched, so a rejected transition leaves the ticket unchanged.
func (t *Ticket) Transition(actor authorization.Actor, to vo.TicketStatus, p TransitionPayload, now time.Time) (*StatusHistory, error) {
	if !to.IsValid() {
		return nil, errors.NewValidationError("invalid target status", string(to))
	}
	if err := t.CheckActor(actor); err != nil {
		return nil, err
	}
	if coordinatorOwned[to] {
		return nil, errors.NewInvalidTransitionError("use the assignment operations for this transition",
			string(t.status)+" -> "+string(to))
	}
	if err := t.checkEdge(to, actor.Class()); err != nil {
		return nil, err
	}
	reason, err := t.checkPayload(actor.Class(), to, p)
	if err != nil {
		return nil, err
	}

	from := t.status
	var notify []uint
	if t.assignedToID != nil {
		notify = append(notify, *t.assignedToID)
	}
	t.applySideEffects(actor, to, p, reason, now)
	history := t.commitStatus(from, to, actor.UserID, reason, now)
	t.Record(NewStatusChangedEvent(t, from, to, actor.UserID, reason, now, notify...))
	return history, nil
}

func (t *Ticket) checkEdge(to vo.TicketStatus, class authorization.RoleClass) error {
	if t.status.IsTerminal() {
		return errors.NewInvalidTransitionError("ticket is in a terminal status", string(t.status))
	}
	if !vo.CanTransition(t.status, to, class) {
		return errors.NewInvalidTransitionError("transition not allowed",
			string(t.status)+" -> "+string(to)+" for "+class.String())
	}
	return nil
}

// checkPayload validates edge-specific payload and returns the reason to log.
func (t *Ticket) checkPayload(class authorization.RoleClass, to vo.TicketStatus, p TransitionPayload) (string, error) {
	reason := strings.TrimSpace(p.Reason)

	switch {
	case to == vo.StatusCancelled:
		if reason == "" {
			return "", errors.NewValidationError("a cancellation reason is required")
		}
	case to == vo.StatusAccepted:
		if strings.TrimSpace(p.JobPlan) == "" || p.EstimatedArrival == nil {
			return "", errors.NewValidationError("job plan and estimated arrival are required to accept")
		}
		if p.EstimatedDays != nil && *p.EstimatedDays < 0 {
			return "", errors.NewValidationError("estimated days cannot be negative")
		}
	case to == vo.StatusAwaitingWorkApproval:
		if strings.TrimSpace(p.WorkDescription) == "" {
			return "", errors.NewValidationError("a work description is required")
		}
	case to == vo.StatusAwaitingDescription && t.status == vo.StatusAwaitingWorkApproval:
		rejection := strings.TrimSpace(p.RejectionReason)
		if rejection == "" {
			rejection = reason
		}
		if rejection == "" {
			return "", errors.NewValidationError("a rejection reason is required")
		}
		reason = rejection
	case to == vo.StatusClosed && class.IsRequester():
		if p.Rating == nil || *p.Rating < 1 || *p.Rating > 5 {
			return "", errors.NewValidationError("a rating between 1 and 5 is required to close")
		}
	}

	if p.Rating != nil && (*p.Rating < 1 || *p.Rating > 5) {
		return "", errors.NewValidationError("rating must be between 1 and 5")
	}
	return reason, nil
}

func (t *Ticket) applySideEffects(actor authorization.Actor, to vo.TicketStatus, p TransitionPayload, reason string, now time.Time) {
	switch to {
	case vo.StatusAccepted:
		arrival := p.EstimatedArrival.UTC()
		t.estimatedArrival = &arrival
		t.estimatedDays = p.EstimatedDays
		t.jobPlan = strings.TrimSpace(p.JobPlan)
	case vo.StatusAwaitingWorkApproval:
		t.workDescription = strings.TrimSpace(p.WorkDescription)
		t.workRejectionReason = ""
	case vo.StatusAwaitingDescription:
		if t.status == vo.StatusAwaitingWorkApproval {
			t.workRejectionReason = reason
		}
	case vo.StatusCompleted:
		completed := now
		t.completedAt = &completed
	case vo.StatusClosed:
		closed := now
		t.closedAt = &closed
		if p.Rating != nil {
			rating := *p.Rating
			t.rating = &rating
			t.ratingComment = strings.TrimSpace(p.RatingComment)
		}
	case vo.StatusCancelled:
		by := actor.UserID
		t.assignedToID = nil
		t.cancellationReason = reason
		t.cancelledByID = &by
	}
}

// commitStatus moves the ticket and returns the single history entry for it.
func (t *Ticket) commitStatus(from, to vo.TicketStatus, changedBy uint, reason string, now time.Time) *StatusHistory {
	t.status = to
	t.touch(now)
	return newStatusHistory(t.id, from, to, changedBy, reason, now)
}
