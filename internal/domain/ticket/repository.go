package ticket

import (
	"context"

	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
)

// Repository lookups return (nil, nil) when no row matches.
type TicketRepository interface {
	Create(ctx context.Context, t *Ticket) error
	// Update writes a ticket whose version was bumped by a domain method. It
	// returns a conflict error when the stored version moved in between.
	Update(ctx context.Context, t *Ticket) error
	// UpdateAssignment persists an assignment only if the stored row is still
	// unassigned and in expectedStatus. It returns a conflict error otherwise.
	UpdateAssignment(ctx context.Context, t *Ticket, expectedStatus vo.TicketStatus) error
	GetByID(ctx context.Context, id uint) (*Ticket, error)
	GetBySID(ctx context.Context, tenantID uint, sid string) (*Ticket, error)
	// GetBySIDForUpdate locks the row for the rest of the ambient transaction.
	GetBySIDForUpdate(ctx context.Context, tenantID uint, sid string) (*Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]*Ticket, int64, error)
}

type TicketFilter struct {
	TenantID   uint
	Status     *vo.TicketStatus
	Priority   *vo.Priority
	Department *authorization.Department
	// Departments limits results to the admin's scope; nil means all.
	Departments []authorization.Department
	CreatorID   *uint
	AssigneeID  *uint
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}

type HistoryRepository interface {
	Append(ctx context.Context, h *StatusHistory) error
	ListByTicket(ctx context.Context, ticketID uint) ([]*StatusHistory, error)
	CountByTicket(ctx context.Context, ticketID uint) (int64, error)
}

type QuoteRequestRepository interface {
	Create(ctx context.Context, q *QuoteRequest) error
	Update(ctx context.Context, q *QuoteRequest) error
	GetByTicketAndContractor(ctx context.Context, ticketID, contractorID uint) (*QuoteRequest, error)
	ListByTicket(ctx context.Context, ticketID uint) ([]*QuoteRequest, error)
	ListByContractor(ctx context.Context, contractorID uint) ([]*QuoteRequest, error)
}

type CommentRepository interface {
	Create(ctx context.Context, c *Comment) error
	ListByTicket(ctx context.Context, ticketID uint, includeInternal bool) ([]*Comment, error)
}
