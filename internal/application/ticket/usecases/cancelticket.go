package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/ticket/dto"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/events"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket"
	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/biztime"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/db"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

type CancelTicketCommand struct {
	Actor  authorization.Actor
	SID    string
	Reason string
}

// CancelTicketUseCase is the single cancel entry point for every role class.
// Requesters and admins cancel the ticket; the assigned contractor can only
// give the job back, which returns the ticket to OPEN. Open quote requests of
// a cancelled ticket are declined with it.
type CancelTicketUseCase struct {
	store   workflowStore
	quotes  ticket.QuoteRequestRepository
	metrics WorkflowMetrics
	logger  logger.Interface
}

func NewCancelTicketUseCase(
	tx db.Transactor,
	tickets ticket.TicketRepository,
	history ticket.HistoryRepository,
	quotes ticket.QuoteRequestRepository,
	publisher events.Publisher,
	metrics WorkflowMetrics,
	logger logger.Interface,
) *CancelTicketUseCase {
	return &CancelTicketUseCase{
		store:   newWorkflowStore(tx, tickets, history, publisher),
		quotes:  quotes,
		metrics: metricsOrNop(metrics),
		logger:  logger,
	}
}

func (uc *CancelTicketUseCase) Execute(ctx context.Context, cmd CancelTicketCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing cancel ticket use case",
		"ticket_sid", cmd.SID,
		"user_id", cmd.Actor.UserID,
		"role", cmd.Actor.Role)

	var (
		result   *ticket.Ticket
		from, to vo.TicketStatus
	)
	err := uc.store.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		t, err := uc.store.lock(ctx, cmd.Actor, cmd.SID)
		if err != nil {
			return err
		}
		from = t.Status()
		now := biztime.NowUTC()

		var h *ticket.StatusHistory
		if cmd.Actor.Class().IsContractor() {
			to = vo.StatusOpen
			h, err = t.RejectJob(cmd.Actor, cmd.Reason, now)
		} else {
			to = vo.StatusCancelled
			h, err = t.Transition(cmd.Actor, vo.StatusCancelled, ticket.TransitionPayload{Reason: cmd.Reason}, now)
		}
		if err != nil {
			return err
		}
		if err := uc.store.save(ctx, t, h); err != nil {
			return err
		}
		if to == vo.StatusCancelled {
			if err := uc.declineOpenQuotes(ctx, t.ID(), now); err != nil {
				return err
			}
		}
		result = t
		return nil
	})
	if err != nil {
		uc.logger.Warnw("cancel ticket rejected", "ticket_sid", cmd.SID, "error", err)
		return nil, asAppError(err, "failed to cancel ticket")
	}

	uc.metrics.TransitionApplied(from, to, cmd.Actor.Class())
	uc.logger.Infow("ticket cancelled", "ticket_sid", cmd.SID, "from", from, "to", to)
	return dto.ToTicketDTO(result), nil
}

func (uc *CancelTicketUseCase) declineOpenQuotes(ctx context.Context, ticketID uint, now time.Time) error {
	all, err := uc.quotes.ListByTicket(ctx, ticketID)
	if err != nil {
		return fmt.Errorf("failed to list quote requests: %w", err)
	}
	for _, q := range all {
		if !q.Status().IsOpen() {
			continue
		}
		q.Decline(now)
		if err := uc.quotes.Update(ctx, q); err != nil {
			return fmt.Errorf("failed to decline quote request: %w", err)
		}
	}
	return nil
}
