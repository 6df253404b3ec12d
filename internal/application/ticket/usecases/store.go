package usecases

import (
	"context"
	"fmt"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/events"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket"
	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/db"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
)

// WorkflowMetrics observes workflow outcomes. Nil-safe through nopMetrics.
type WorkflowMetrics interface {
	TransitionApplied(from, to vo.TicketStatus, class authorization.RoleClass)
	AssignmentConflict()
}

type nopMetrics struct{}

func (nopMetrics) TransitionApplied(vo.TicketStatus, vo.TicketStatus, authorization.RoleClass) {}
func (nopMetrics) AssignmentConflict()                                                         {}

func metricsOrNop(m WorkflowMetrics) WorkflowMetrics {
	if m == nil {
		return nopMetrics{}
	}
	return m
}

// workflowStore bundles the writes every state-changing ticket operation
// performs: the ticket row, its single history entry and the outbox events.
type workflowStore struct {
	tx      db.Transactor
	tickets ticket.TicketRepository
	history ticket.HistoryRepository
	events  events.Publisher
}

func newWorkflowStore(tx db.Transactor, tickets ticket.TicketRepository, history ticket.HistoryRepository, publisher events.Publisher) workflowStore {
	return workflowStore{tx: tx, tickets: tickets, history: history, events: publisher}
}

// lock loads the ticket for update within the ambient transaction. A ticket
// outside the actor's tenant does not exist for the actor.
func (s workflowStore) lock(ctx context.Context, actor authorization.Actor, sid string) (*ticket.Ticket, error) {
	if sid == "" {
		return nil, errors.NewValidationError("ticket ID is required")
	}
	t, err := s.tickets.GetBySIDForUpdate(ctx, actor.TenantID, sid)
	if err != nil {
		return nil, fmt.Errorf("failed to load ticket: %w", err)
	}
	if t == nil {
		return nil, errors.NewNotFoundError("ticket not found")
	}
	return t, nil
}

// save persists a version-checked update. A nil history means the operation
// changed fields without changing status.
func (s workflowStore) save(ctx context.Context, t *ticket.Ticket, h *ticket.StatusHistory) error {
	if err := s.tickets.Update(ctx, t); err != nil {
		return err
	}
	return s.finish(ctx, t, h)
}

// saveAssignment persists an assignment with the conditional write that lets
// exactly one concurrent assigner win.
func (s workflowStore) saveAssignment(ctx context.Context, t *ticket.Ticket, expected vo.TicketStatus, h *ticket.StatusHistory) error {
	if err := s.tickets.UpdateAssignment(ctx, t, expected); err != nil {
		return err
	}
	return s.finish(ctx, t, h)
}

func (s workflowStore) finish(ctx context.Context, t *ticket.Ticket, h *ticket.StatusHistory) error {
	if h != nil {
		if err := s.history.Append(ctx, h); err != nil {
			return fmt.Errorf("failed to append status history: %w", err)
		}
	}
	if evts := t.PullEvents(); len(evts) > 0 {
		if err := s.events.Publish(ctx, evts...); err != nil {
			return fmt.Errorf("failed to write outbox: %w", err)
		}
	}
	return nil
}

// asAppError keeps domain errors and hides everything else behind a generic
// internal error.
func asAppError(err error, msg string) error {
	if errors.IsAppError(err) {
		return err
	}
	return errors.NewInternalError(msg)
}
