package usecases

import (
	"context"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/ticket/dto"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/events"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket"
	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/biztime"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/db"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

type AssignTicketCommand struct {
	Actor      authorization.Actor
	SID        string
	AssigneeID uint
}

type AssignTicketUseCase struct {
	store   workflowStore
	metrics WorkflowMetrics
	logger  logger.Interface
}

func NewAssignTicketUseCase(
	tx db.Transactor,
	tickets ticket.TicketRepository,
	history ticket.HistoryRepository,
	publisher events.Publisher,
	metrics WorkflowMetrics,
	logger logger.Interface,
) *AssignTicketUseCase {
	return &AssignTicketUseCase{
		store:   newWorkflowStore(tx, tickets, history, publisher),
		metrics: metricsOrNop(metrics),
		logger:  logger,
	}
}

// Execute assigns an unassigned ticket. Two admins racing on the same ticket
// both pass the domain checks; the conditional write lets one of them win and
// the other gets a conflict.
func (uc *AssignTicketUseCase) Execute(ctx context.Context, cmd AssignTicketCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing assign ticket use case",
		"ticket_sid", cmd.SID,
		"assignee_id", cmd.AssigneeID,
		"assigned_by", cmd.Actor.UserID)

	if cmd.AssigneeID == 0 {
		return nil, errors.NewValidationError("assignee ID is required")
	}

	var (
		result *ticket.Ticket
		from   vo.TicketStatus
	)
	err := uc.store.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		t, err := uc.store.lock(ctx, cmd.Actor, cmd.SID)
		if err != nil {
			return err
		}
		from = t.Status()
		h, err := t.Assign(cmd.Actor, cmd.AssigneeID, biztime.NowUTC())
		if err != nil {
			return err
		}
		if err := uc.store.saveAssignment(ctx, t, from, h); err != nil {
			return err
		}
		result = t
		return nil
	})
	if err != nil {
		if errors.IsConflictError(err) {
			uc.metrics.AssignmentConflict()
		}
		uc.logger.Warnw("assign ticket rejected", "ticket_sid", cmd.SID, "error", err)
		return nil, asAppError(err, "failed to assign ticket")
	}

	uc.metrics.TransitionApplied(from, vo.StatusProcessing, cmd.Actor.Class())
	uc.logger.Infow("ticket assigned", "ticket_sid", cmd.SID, "assignee_id", cmd.AssigneeID)
	return dto.ToTicketDTO(result), nil
}

type UnassignTicketCommand struct {
	Actor  authorization.Actor
	SID    string
	Reason string
}

type UnassignTicketResult struct {
	Ticket             *dto.TicketDTO `json:"ticket"`
	PreviousAssigneeID uint           `json:"previous_assignee_id"`
}

type UnassignTicketUseCase struct {
	store   workflowStore
	metrics WorkflowMetrics
	logger  logger.Interface
}

func NewUnassignTicketUseCase(
	tx db.Transactor,
	tickets ticket.TicketRepository,
	history ticket.HistoryRepository,
	publisher events.Publisher,
	metrics WorkflowMetrics,
	logger logger.Interface,
) *UnassignTicketUseCase {
	return &UnassignTicketUseCase{
		store:   newWorkflowStore(tx, tickets, history, publisher),
		metrics: metricsOrNop(metrics),
		logger:  logger,
	}
}

func (uc *UnassignTicketUseCase) Execute(ctx context.Context, cmd UnassignTicketCommand) (*UnassignTicketResult, error) {
	uc.logger.Infow("executing unassign ticket use case", "ticket_sid", cmd.SID, "user_id", cmd.Actor.UserID)

	var (
		result   *ticket.Ticket
		from     vo.TicketStatus
		previous uint
	)
	err := uc.store.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		t, err := uc.store.lock(ctx, cmd.Actor, cmd.SID)
		if err != nil {
			return err
		}
		from = t.Status()
		h, prev, err := t.Unassign(cmd.Actor, cmd.Reason, biztime.NowUTC())
		if err != nil {
			return err
		}
		if err := uc.store.save(ctx, t, h); err != nil {
			return err
		}
		result, previous = t, prev
		return nil
	})
	if err != nil {
		uc.logger.Warnw("unassign ticket rejected", "ticket_sid", cmd.SID, "error", err)
		return nil, asAppError(err, "failed to unassign ticket")
	}

	uc.metrics.TransitionApplied(from, vo.StatusOpen, cmd.Actor.Class())
	uc.logger.Infow("ticket unassigned", "ticket_sid", cmd.SID, "previous_assignee_id", previous)
	return &UnassignTicketResult{Ticket: dto.ToTicketDTO(result), PreviousAssigneeID: previous}, nil
}

type RejectJobCommand struct {
	Actor  authorization.Actor
	SID    string
	Reason string
}

// RejectJobUseCase lets the assigned contractor hand a job back before
// accepting it.
type RejectJobUseCase struct {
	store   workflowStore
	metrics WorkflowMetrics
	logger  logger.Interface
}

func NewRejectJobUseCase(
	tx db.Transactor,
	tickets ticket.TicketRepository,
	history ticket.HistoryRepository,
	publisher events.Publisher,
	metrics WorkflowMetrics,
	logger logger.Interface,
) *RejectJobUseCase {
	return &RejectJobUseCase{
		store:   newWorkflowStore(tx, tickets, history, publisher),
		metrics: metricsOrNop(metrics),
		logger:  logger,
	}
}

func (uc *RejectJobUseCase) Execute(ctx context.Context, cmd RejectJobCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing reject job use case", "ticket_sid", cmd.SID, "contractor_id", cmd.Actor.UserID)

	var result *ticket.Ticket
	err := uc.store.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		t, err := uc.store.lock(ctx, cmd.Actor, cmd.SID)
		if err != nil {
			return err
		}
		h, err := t.RejectJob(cmd.Actor, cmd.Reason, biztime.NowUTC())
		if err != nil {
			return err
		}
		if err := uc.store.save(ctx, t, h); err != nil {
			return err
		}
		result = t
		return nil
	})
	if err != nil {
		uc.logger.Warnw("reject job rejected", "ticket_sid", cmd.SID, "error", err)
		return nil, asAppError(err, "failed to reject job")
	}

	uc.metrics.TransitionApplied(vo.StatusProcessing, vo.StatusOpen, cmd.Actor.Class())
	return dto.ToTicketDTO(result), nil
}
