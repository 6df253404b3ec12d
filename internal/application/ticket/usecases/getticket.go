package usecases

import (
	"context"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/ticket/dto"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket"
	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/constants"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/mapper"
)

// ticketReader loads a ticket for read access. Contractors invited to quote
// may read a ticket they are not assigned to.
type ticketReader struct {
	tickets ticket.TicketRepository
	quotes  ticket.QuoteRequestRepository
}

func (r ticketReader) load(ctx context.Context, actor authorization.Actor, sid string) (*ticket.Ticket, error) {
	if sid == "" {
		return nil, errors.NewValidationError("ticket ID is required")
	}
	t, err := r.tickets.GetBySID(ctx, actor.TenantID, sid)
	if err != nil {
		return nil, errors.NewInternalError("failed to load ticket")
	}
	if t == nil {
		return nil, errors.NewNotFoundError("ticket not found")
	}
	if t.CanBeViewedBy(actor) {
		return t, nil
	}
	if actor.Class().IsContractor() && r.quotes != nil {
		q, err := r.quotes.GetByTicketAndContractor(ctx, t.ID(), actor.UserID)
		if err != nil {
			return nil, errors.NewInternalError("failed to load ticket")
		}
		if q != nil {
			return t, nil
		}
	}
	return nil, errors.NewForbiddenError("you cannot view this ticket")
}

type GetTicketQuery struct {
	Actor authorization.Actor
	SID   string
}

type GetTicketUseCase struct {
	reader ticketReader
	logger logger.Interface
}

func NewGetTicketUseCase(tickets ticket.TicketRepository, quotes ticket.QuoteRequestRepository, logger logger.Interface) *GetTicketUseCase {
	return &GetTicketUseCase{reader: ticketReader{tickets: tickets, quotes: quotes}, logger: logger}
}

func (uc *GetTicketUseCase) Execute(ctx context.Context, query GetTicketQuery) (*dto.TicketDTO, error) {
	t, err := uc.reader.load(ctx, query.Actor, query.SID)
	if err != nil {
		uc.logger.Debugw("get ticket rejected", "ticket_sid", query.SID, "error", err)
		return nil, err
	}
	return dto.ToTicketDTO(t), nil
}

type ListTicketsQuery struct {
	Actor      authorization.Actor
	Status     string
	Priority   string
	Department string
	AssigneeID *uint
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

type ListTicketsResult struct {
	Tickets  []*dto.TicketDTO `json:"items"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

type ListTicketsUseCase struct {
	repo   ticket.TicketRepository
	logger logger.Interface
}

func NewListTicketsUseCase(repo ticket.TicketRepository, logger logger.Interface) *ListTicketsUseCase {
	return &ListTicketsUseCase{repo: repo, logger: logger}
}

func (uc *ListTicketsUseCase) Execute(ctx context.Context, query ListTicketsQuery) (*ListTicketsResult, error) {
	filter, err := uc.buildFilter(query)
	if err != nil {
		return nil, err
	}

	tickets, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list tickets", "error", err, "tenant_id", query.Actor.TenantID)
		return nil, errors.NewInternalError("failed to list tickets")
	}

	return &ListTicketsResult{
		Tickets:  dto.ToTicketDTOList(tickets),
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}, nil
}

// buildFilter scopes the listing to what the actor may see: requesters their
// own tickets, contractors their assignments, scoped admins their department.
func (uc *ListTicketsUseCase) buildFilter(query ListTicketsQuery) (ticket.TicketFilter, error) {
	filter := ticket.TicketFilter{
		TenantID:  query.Actor.TenantID,
		Page:      query.Page,
		PageSize:  query.PageSize,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
	}
	if filter.Page < 1 {
		filter.Page = constants.DefaultPage
	}
	if filter.PageSize < 1 {
		filter.PageSize = constants.DefaultPageSize
	}
	if filter.PageSize > constants.MaxPageSize {
		filter.PageSize = constants.MaxPageSize
	}

	if query.Status != "" {
		s, err := vo.NewTicketStatus(query.Status)
		if err != nil {
			return filter, errors.NewValidationError(err.Error())
		}
		filter.Status = &s
	}
	if query.Priority != "" {
		p, err := vo.NewPriority(query.Priority)
		if err != nil {
			return filter, errors.NewValidationError(err.Error())
		}
		filter.Priority = &p
	}
	if query.Department != "" {
		d, ok := authorization.ParseDepartment(query.Department)
		if !ok {
			return filter, errors.NewValidationError("invalid department", query.Department)
		}
		filter.Department = &d
	}

	class := query.Actor.Class()
	switch {
	case class.IsAdmin():
		if class.DepartmentScope != nil {
			filter.Departments = []authorization.Department{*class.DepartmentScope}
		}
		filter.AssigneeID = query.AssigneeID
	case class.IsContractor():
		self := query.Actor.UserID
		filter.AssigneeID = &self
	default:
		self := query.Actor.UserID
		filter.CreatorID = &self
	}
	return filter, nil
}

type GetTicketHistoryQuery struct {
	Actor authorization.Actor
	SID   string
}

type GetTicketHistoryUseCase struct {
	reader  ticketReader
	history ticket.HistoryRepository
	logger  logger.Interface
}

func NewGetTicketHistoryUseCase(
	tickets ticket.TicketRepository,
	quotes ticket.QuoteRequestRepository,
	history ticket.HistoryRepository,
	logger logger.Interface,
) *GetTicketHistoryUseCase {
	return &GetTicketHistoryUseCase{
		reader:  ticketReader{tickets: tickets, quotes: quotes},
		history: history,
		logger:  logger,
	}
}

func (uc *GetTicketHistoryUseCase) Execute(ctx context.Context, query GetTicketHistoryQuery) ([]*dto.HistoryDTO, error) {
	t, err := uc.reader.load(ctx, query.Actor, query.SID)
	if err != nil {
		return nil, err
	}
	entries, err := uc.history.ListByTicket(ctx, t.ID())
	if err != nil {
		uc.logger.Errorw("failed to list ticket history", "error", err, "ticket_sid", t.SID())
		return nil, errors.NewInternalError("failed to load ticket history")
	}
	return mapper.MapSlice(entries, dto.ToHistoryDTO), nil
}
