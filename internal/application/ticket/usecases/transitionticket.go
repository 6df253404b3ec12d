package usecases

import (
	"context"
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

// TransitionTicketCommand applies one workflow edge that is not owned by the
// assignment operations.
type TransitionTicketCommand struct {
	Actor   authorization.Actor
	SID     string
	To      vo.TicketStatus
	Payload ticket.TransitionPayload
}

type TransitionTicketUseCase struct {
	store   workflowStore
	metrics WorkflowMetrics
	logger  logger.Interface
}

func NewTransitionTicketUseCase(
	tx db.Transactor,
	tickets ticket.TicketRepository,
	history ticket.HistoryRepository,
	publisher events.Publisher,
	metrics WorkflowMetrics,
	logger logger.Interface,
) *TransitionTicketUseCase {
	return &TransitionTicketUseCase{
		store:   newWorkflowStore(tx, tickets, history, publisher),
		metrics: metricsOrNop(metrics),
		logger:  logger,
	}
}

func (uc *TransitionTicketUseCase) Execute(ctx context.Context, cmd TransitionTicketCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing transition ticket use case",
		"ticket_sid", cmd.SID,
		"to", cmd.To,
		"user_id", cmd.Actor.UserID,
		"role", cmd.Actor.Role)

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
		h, err := t.Transition(cmd.Actor, cmd.To, cmd.Payload, biztime.NowUTC())
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
		uc.logger.Warnw("ticket transition rejected", "ticket_sid", cmd.SID, "to", cmd.To, "error", err)
		return nil, asAppError(err, "failed to update ticket")
	}

	uc.metrics.TransitionApplied(from, cmd.To, cmd.Actor.Class())
	uc.logger.Infow("ticket transitioned", "ticket_sid", cmd.SID, "from", from, "to", cmd.To)
	return dto.ToTicketDTO(result), nil
}

// TransitionRequest is the union of every field a transition request may
// carry. ApplyTransition routes it to the operation that owns the edge.
type TransitionRequest struct {
	Actor            authorization.Actor
	SID              string
	Action           string
	Status           string
	Reason           string
	JobPlan          string
	EstimatedArrival *time.Time
	EstimatedDays    *int
	WorkDescription  string
	RejectionReason  string
	Rating           *int
	RatingComment    string
	AssigneeID       uint
	ContractorID     uint
	ContractorIDs    []uint
	QuoteAmountCents int64
	QuoteDescription string
	QuoteFileURL     string
}

func (r TransitionRequest) payload() ticket.TransitionPayload {
	return ticket.TransitionPayload{
		Reason:           r.Reason,
		JobPlan:          r.JobPlan,
		EstimatedArrival: r.EstimatedArrival,
		EstimatedDays:    r.EstimatedDays,
		WorkDescription:  r.WorkDescription,
		RejectionReason:  r.RejectionReason,
		Rating:           r.Rating,
		RatingComment:    r.RatingComment,
	}
}
