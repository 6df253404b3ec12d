package usecases

import (
	"context"
	"fmt"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/ticket/dto"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/events"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket"
	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/biztime"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/db"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/mapper"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/utils/setutil"
)

type RequestQuoteCommand struct {
	Actor         authorization.Actor
	SID           string
	ContractorIDs []uint
}

type RequestQuoteResult struct {
	Ticket  *dto.TicketDTO `json:"ticket"`
	Invited []uint         `json:"invited"`
}

type RequestQuoteUseCase struct {
	store   workflowStore
	quotes  ticket.QuoteRequestRepository
	metrics WorkflowMetrics
	logger  logger.Interface
}

func NewRequestQuoteUseCase(
	tx db.Transactor,
	tickets ticket.TicketRepository,
	history ticket.HistoryRepository,
	quotes ticket.QuoteRequestRepository,
	publisher events.Publisher,
	metrics WorkflowMetrics,
	logger logger.Interface,
) *RequestQuoteUseCase {
	return &RequestQuoteUseCase{
		store:   newWorkflowStore(tx, tickets, history, publisher),
		quotes:  quotes,
		metrics: metricsOrNop(metrics),
		logger:  logger,
	}
}

// Execute invites contractors to quote. Contractors already invited are left
// alone, so repeating the request is harmless.
func (uc *RequestQuoteUseCase) Execute(ctx context.Context, cmd RequestQuoteCommand) (*RequestQuoteResult, error) {
	uc.logger.Infow("executing request quote use case", "ticket_sid", cmd.SID, "contractors", cmd.ContractorIDs)

	contractorIDs := uniqueIDs(cmd.ContractorIDs)
	if len(contractorIDs) == 0 {
		return nil, errors.NewValidationError("at least one contractor is required")
	}

	var (
		result  *ticket.Ticket
		invited []uint
		from    vo.TicketStatus
		moved   bool
	)
	err := uc.store.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		t, err := uc.store.lock(ctx, cmd.Actor, cmd.SID)
		if err != nil {
			return err
		}
		from = t.Status()
		now := biztime.NowUTC()
		h, err := t.OpenForQuotes(cmd.Actor, now)
		if err != nil {
			return err
		}

		for _, contractorID := range contractorIDs {
			existing, err := uc.quotes.GetByTicketAndContractor(ctx, t.ID(), contractorID)
			if err != nil {
				return fmt.Errorf("failed to load quote request: %w", err)
			}
			if existing != nil {
				continue
			}
			q, err := ticket.NewQuoteRequest(t.ID(), contractorID, now)
			if err != nil {
				return errors.NewValidationError(err.Error())
			}
			if err := uc.quotes.Create(ctx, q); err != nil {
				return fmt.Errorf("failed to create quote request: %w", err)
			}
			invited = append(invited, contractorID)
		}

		if h != nil {
			if err := uc.store.save(ctx, t, h); err != nil {
				return err
			}
			moved = true
		}
		if len(invited) > 0 {
			if err := uc.store.events.Publish(ctx, ticket.NewQuoteRequestedEvent(t, invited, now)); err != nil {
				return fmt.Errorf("failed to write outbox: %w", err)
			}
		}
		result = t
		return nil
	})
	if err != nil {
		uc.logger.Warnw("request quote rejected", "ticket_sid", cmd.SID, "error", err)
		return nil, asAppError(err, "failed to request quotes")
	}

	if moved {
		uc.metrics.TransitionApplied(from, vo.StatusAwaitingQuote, cmd.Actor.Class())
	}
	return &RequestQuoteResult{Ticket: dto.ToTicketDTO(result), Invited: invited}, nil
}

type SubmitQuoteCommand struct {
	Actor       authorization.Actor
	SID         string
	AmountCents int64
	Description string
	FileURL     string
}

type SubmitQuoteUseCase struct {
	store   workflowStore
	quotes  ticket.QuoteRequestRepository
	metrics WorkflowMetrics
	logger  logger.Interface
}

func NewSubmitQuoteUseCase(
	tx db.Transactor,
	tickets ticket.TicketRepository,
	history ticket.HistoryRepository,
	quotes ticket.QuoteRequestRepository,
	publisher events.Publisher,
	metrics WorkflowMetrics,
	logger logger.Interface,
) *SubmitQuoteUseCase {
	return &SubmitQuoteUseCase{
		store:   newWorkflowStore(tx, tickets, history, publisher),
		quotes:  quotes,
		metrics: metricsOrNop(metrics),
		logger:  logger,
	}
}

func (uc *SubmitQuoteUseCase) Execute(ctx context.Context, cmd SubmitQuoteCommand) (*dto.QuoteDTO, error) {
	uc.logger.Infow("executing submit quote use case", "ticket_sid", cmd.SID, "contractor_id", cmd.Actor.UserID)

	var (
		result *ticket.QuoteRequest
		from   vo.TicketStatus
		moved  bool
	)
	err := uc.store.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		t, err := uc.store.lock(ctx, cmd.Actor, cmd.SID)
		if err != nil {
			return err
		}
		if !cmd.Actor.Class().IsContractor() {
			return errors.NewForbiddenError("only contractors submit quotes")
		}
		q, err := uc.quotes.GetByTicketAndContractor(ctx, t.ID(), cmd.Actor.UserID)
		if err != nil {
			return fmt.Errorf("failed to load quote request: %w", err)
		}
		if q == nil {
			return errors.NewForbiddenError("you were not invited to quote on this ticket")
		}

		from = t.Status()
		now := biztime.NowUTC()
		h, err := t.RecordQuote(cmd.Actor, cmd.AmountCents, cmd.Description, cmd.FileURL, now)
		if err != nil {
			return err
		}
		if err := q.Submit(cmd.AmountCents, cmd.Description, cmd.FileURL, now); err != nil {
			return err
		}
		if err := uc.quotes.Update(ctx, q); err != nil {
			return fmt.Errorf("failed to update quote request: %w", err)
		}
		if err := uc.store.save(ctx, t, h); err != nil {
			return err
		}
		moved = h != nil
		result = q
		return nil
	})
	if err != nil {
		uc.logger.Warnw("submit quote rejected", "ticket_sid", cmd.SID, "error", err)
		return nil, asAppError(err, "failed to submit quote")
	}

	if moved {
		uc.metrics.TransitionApplied(from, vo.StatusQuoteSubmitted, cmd.Actor.Class())
	}
	return dto.ToQuoteDTO(result), nil
}

type ApproveQuoteCommand struct {
	Actor        authorization.Actor
	SID          string
	ContractorID uint
}

type ApproveQuoteUseCase struct {
	store   workflowStore
	quotes  ticket.QuoteRequestRepository
	metrics WorkflowMetrics
	logger  logger.Interface
}

func NewApproveQuoteUseCase(
	tx db.Transactor,
	tickets ticket.TicketRepository,
	history ticket.HistoryRepository,
	quotes ticket.QuoteRequestRepository,
	publisher events.Publisher,
	metrics WorkflowMetrics,
	logger logger.Interface,
) *ApproveQuoteUseCase {
	return &ApproveQuoteUseCase{
		store:   newWorkflowStore(tx, tickets, history, publisher),
		quotes:  quotes,
		metrics: metricsOrNop(metrics),
		logger:  logger,
	}
}

// Execute awards the ticket to one contractor and declines the other quotes.
// The assignment goes through the same conditional write as a direct assign.
func (uc *ApproveQuoteUseCase) Execute(ctx context.Context, cmd ApproveQuoteCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing approve quote use case", "ticket_sid", cmd.SID, "contractor_id", cmd.ContractorID)

	if cmd.ContractorID == 0 {
		return nil, errors.NewValidationError("contractor ID is required")
	}

	var result *ticket.Ticket
	err := uc.store.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		t, err := uc.store.lock(ctx, cmd.Actor, cmd.SID)
		if err != nil {
			return err
		}
		if err := t.CheckActor(cmd.Actor); err != nil {
			return err
		}
		chosen, err := uc.quotes.GetByTicketAndContractor(ctx, t.ID(), cmd.ContractorID)
		if err != nil {
			return fmt.Errorf("failed to load quote request: %w", err)
		}

		now := biztime.NowUTC()
		h, err := t.ApproveQuote(cmd.Actor, chosen, now)
		if err != nil {
			return err
		}
		if err := chosen.Award(now); err != nil {
			return err
		}
		if err := uc.quotes.Update(ctx, chosen); err != nil {
			return fmt.Errorf("failed to update quote request: %w", err)
		}

		all, err := uc.quotes.ListByTicket(ctx, t.ID())
		if err != nil {
			return fmt.Errorf("failed to list quote requests: %w", err)
		}
		for _, q := range all {
			if q.ContractorID() == cmd.ContractorID || !q.Status().IsOpen() {
				continue
			}
			q.Decline(now)
			if err := uc.quotes.Update(ctx, q); err != nil {
				return fmt.Errorf("failed to decline quote request: %w", err)
			}
		}

		if err := uc.store.saveAssignment(ctx, t, vo.StatusQuoteSubmitted, h); err != nil {
			return err
		}
		result = t
		return nil
	})
	if err != nil {
		if errors.IsConflictError(err) {
			uc.metrics.AssignmentConflict()
		}
		uc.logger.Warnw("approve quote rejected", "ticket_sid", cmd.SID, "error", err)
		return nil, asAppError(err, "failed to approve quote")
	}

	uc.metrics.TransitionApplied(vo.StatusQuoteSubmitted, vo.StatusProcessing, cmd.Actor.Class())
	uc.logger.Infow("quote approved", "ticket_sid", cmd.SID, "contractor_id", cmd.ContractorID)
	return dto.ToTicketDTO(result), nil
}

type RejectQuoteCommand struct {
	Actor  authorization.Actor
	SID    string
	Reason string
}

type RejectQuoteUseCase struct {
	store   workflowStore
	quotes  ticket.QuoteRequestRepository
	metrics WorkflowMetrics
	logger  logger.Interface
}

func NewRejectQuoteUseCase(
	tx db.Transactor,
	tickets ticket.TicketRepository,
	history ticket.HistoryRepository,
	quotes ticket.QuoteRequestRepository,
	publisher events.Publisher,
	metrics WorkflowMetrics,
	logger logger.Interface,
) *RejectQuoteUseCase {
	return &RejectQuoteUseCase{
		store:   newWorkflowStore(tx, tickets, history, publisher),
		quotes:  quotes,
		metrics: metricsOrNop(metrics),
		logger:  logger,
	}
}

// Execute sends every submitted quote back to its contractor for revision.
func (uc *RejectQuoteUseCase) Execute(ctx context.Context, cmd RejectQuoteCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing reject quote use case", "ticket_sid", cmd.SID, "user_id", cmd.Actor.UserID)

	var result *ticket.Ticket
	err := uc.store.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		t, err := uc.store.lock(ctx, cmd.Actor, cmd.SID)
		if err != nil {
			return err
		}
		now := biztime.NowUTC()
		h, err := t.RejectQuote(cmd.Actor, cmd.Reason, now)
		if err != nil {
			return err
		}

		all, err := uc.quotes.ListByTicket(ctx, t.ID())
		if err != nil {
			return fmt.Errorf("failed to list quote requests: %w", err)
		}
		var reopened []uint
		for _, q := range all {
			if !q.Reopen(now) {
				continue
			}
			if err := uc.quotes.Update(ctx, q); err != nil {
				return fmt.Errorf("failed to reopen quote request: %w", err)
			}
			reopened = append(reopened, q.ContractorID())
		}

		if err := uc.store.save(ctx, t, h); err != nil {
			return err
		}
		if err := uc.store.events.Publish(ctx, ticket.NewQuoteRejectedEvent(t, reopened, h.Reason(), now)); err != nil {
			return fmt.Errorf("failed to write outbox: %w", err)
		}
		result = t
		return nil
	})
	if err != nil {
		uc.logger.Warnw("reject quote rejected", "ticket_sid", cmd.SID, "error", err)
		return nil, asAppError(err, "failed to reject quote")
	}

	uc.metrics.TransitionApplied(vo.StatusQuoteSubmitted, vo.StatusAwaitingQuote, cmd.Actor.Class())
	return dto.ToTicketDTO(result), nil
}

type ListQuotesQuery struct {
	Actor authorization.Actor
	SID   string
}

type ListQuotesUseCase struct {
	reader ticketReader
	logger logger.Interface
}

func NewListQuotesUseCase(tickets ticket.TicketRepository, quotes ticket.QuoteRequestRepository, logger logger.Interface) *ListQuotesUseCase {
	return &ListQuotesUseCase{reader: ticketReader{tickets: tickets, quotes: quotes}, logger: logger}
}

// Execute lists the quotes of a ticket. Contractors only see their own.
func (uc *ListQuotesUseCase) Execute(ctx context.Context, query ListQuotesQuery) ([]*dto.QuoteDTO, error) {
	t, err := uc.reader.load(ctx, query.Actor, query.SID)
	if err != nil {
		return nil, err
	}
	class := query.Actor.Class()
	if class.IsRequester() {
		return nil, errors.NewForbiddenError("quotes are visible to admins and contractors only")
	}

	all, err := uc.reader.quotes.ListByTicket(ctx, t.ID())
	if err != nil {
		uc.logger.Errorw("failed to list quotes", "error", err, "ticket_sid", t.SID())
		return nil, errors.NewInternalError("failed to list quotes")
	}
	if class.IsContractor() {
		own := make([]*ticket.QuoteRequest, 0, 1)
		for _, q := range all {
			if q.ContractorID() == query.Actor.UserID {
				own = append(own, q)
			}
		}
		all = own
	}
	return mapper.MapSlice(all, dto.ToQuoteDTO), nil
}

func uniqueIDs(ids []uint) []uint {
	seen := setutil.NewUintSetWithCap(len(ids))
	out := make([]uint, 0, len(ids))
	for _, v := range ids {
		if v == 0 || seen.Has(v) {
			continue
		}
		seen.Add(v)
		out = append(out, v)
	}
	return out
}
