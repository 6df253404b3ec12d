package usecases

import (
	"context"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/ticket/dto"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket"
	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

// ApplyTransitionUseCase is the single entry point for status change
// requests. Edges owned by the assignment and quote operations are routed to
// them; every other edge goes through the workflow engine.
type ApplyTransitionUseCase struct {
	tickets      ticket.TicketRepository
	transition   TransitionTicketExecutor
	cancel       CancelTicketExecutor
	assign       AssignTicketExecutor
	unassign     UnassignTicketExecutor
	rejectJob    RejectJobExecutor
	requestQuote RequestQuoteExecutor
	submitQuote  SubmitQuoteExecutor
	approveQuote ApproveQuoteExecutor
	rejectQuote  RejectQuoteExecutor
	logger       logger.Interface
}

type ApplyTransitionDeps struct {
	Tickets      ticket.TicketRepository
	Transition   TransitionTicketExecutor
	Cancel       CancelTicketExecutor
	Assign       AssignTicketExecutor
	Unassign     UnassignTicketExecutor
	RejectJob    RejectJobExecutor
	RequestQuote RequestQuoteExecutor
	SubmitQuote  SubmitQuoteExecutor
	ApproveQuote ApproveQuoteExecutor
	RejectQuote  RejectQuoteExecutor
	Logger       logger.Interface
}

func NewApplyTransitionUseCase(deps ApplyTransitionDeps) *ApplyTransitionUseCase {
	return &ApplyTransitionUseCase{
		tickets:      deps.Tickets,
		transition:   deps.Transition,
		cancel:       deps.Cancel,
		assign:       deps.Assign,
		unassign:     deps.Unassign,
		rejectJob:    deps.RejectJob,
		requestQuote: deps.RequestQuote,
		submitQuote:  deps.SubmitQuote,
		approveQuote: deps.ApproveQuote,
		rejectQuote:  deps.RejectQuote,
		logger:       deps.Logger,
	}
}

func (uc *ApplyTransitionUseCase) Execute(ctx context.Context, req TransitionRequest) (*dto.TicketDTO, error) {
	to, ok := vo.ResolveTarget(req.Action, req.Status)
	if !ok {
		return nil, errors.NewValidationError("unknown transition", req.Action+req.Status)
	}

	if to == vo.StatusCancelled && uc.cancel != nil && !req.Actor.Class().IsContractor() {
		return uc.cancel.Execute(ctx, CancelTicketCommand{Actor: req.Actor, SID: req.SID, Reason: req.Reason})
	}

	if !ticket.IsCoordinatorOwned(to) {
		return uc.transition.Execute(ctx, TransitionTicketCommand{
			Actor:   req.Actor,
			SID:     req.SID,
			To:      to,
			Payload: req.payload(),
		})
	}

	// The current status only picks the route; the target operation
	// re-checks everything under the row lock.
	current, err := uc.tickets.GetBySID(ctx, req.Actor.TenantID, req.SID)
	if err != nil {
		uc.logger.Errorw("failed to load ticket for routing", "error", err, "ticket_sid", req.SID)
		return nil, errors.NewInternalError("failed to update ticket")
	}
	if current == nil {
		return nil, errors.NewNotFoundError("ticket not found")
	}

	uc.logger.Debugw("routing transition", "ticket_sid", req.SID, "from", current.Status(), "to", to)

	switch to {
	case vo.StatusProcessing:
		if current.Status() == vo.StatusQuoteSubmitted {
			return uc.approveQuote.Execute(ctx, ApproveQuoteCommand{
				Actor:        req.Actor,
				SID:          req.SID,
				ContractorID: req.ContractorID,
			})
		}
		return uc.assign.Execute(ctx, AssignTicketCommand{Actor: req.Actor, SID: req.SID, AssigneeID: req.AssigneeID})

	case vo.StatusOpen:
		if req.Actor.Class().IsContractor() {
			return uc.rejectJob.Execute(ctx, RejectJobCommand{Actor: req.Actor, SID: req.SID, Reason: req.Reason})
		}
		res, err := uc.unassign.Execute(ctx, UnassignTicketCommand{Actor: req.Actor, SID: req.SID, Reason: req.Reason})
		if err != nil {
			return nil, err
		}
		return res.Ticket, nil

	case vo.StatusAwaitingQuote:
		if current.Status() == vo.StatusQuoteSubmitted {
			return uc.rejectQuote.Execute(ctx, RejectQuoteCommand{Actor: req.Actor, SID: req.SID, Reason: req.Reason})
		}
		res, err := uc.requestQuote.Execute(ctx, RequestQuoteCommand{
			Actor:         req.Actor,
			SID:           req.SID,
			ContractorIDs: req.ContractorIDs,
		})
		if err != nil {
			return nil, err
		}
		return res.Ticket, nil

	default: // QUOTE_SUBMITTED
		if _, err := uc.submitQuote.Execute(ctx, SubmitQuoteCommand{
			Actor:       req.Actor,
			SID:         req.SID,
			AmountCents: req.QuoteAmountCents,
			Description: req.QuoteDescription,
			FileURL:     req.QuoteFileURL,
		}); err != nil {
			return nil, err
		}
		t, err := uc.tickets.GetBySID(ctx, req.Actor.TenantID, req.SID)
		if err != nil || t == nil {
			return nil, errors.NewInternalError("failed to load ticket")
		}
		return dto.ToTicketDTO(t), nil
	}
}
