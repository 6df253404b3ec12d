package invoice

import (
	"context"

	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/invoice/valueobjects"
)

// Lookups return (nil, nil) when no row matches.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *Invoice) error
	// Update is conditional on the stored version and returns a conflict
	// error when the row moved in between.
	Update(ctx context.Context, inv *Invoice) error
	// Deactivate flips is_active off only while the stored row is still the
	// active, rejected revision. It returns a conflict error otherwise.
	Deactivate(ctx context.Context, inv *Invoice) error
	// MarkSettled persists batch settlement for every invoice, conditional on
	// each still being APPROVED and unbatched.
	MarkSettled(ctx context.Context, invoices []*Invoice) error
	GetBySID(ctx context.Context, tenantID uint, sid string) (*Invoice, error)
	GetBySIDForUpdate(ctx context.Context, tenantID uint, sid string) (*Invoice, error)
	GetBySIDsForUpdate(ctx context.Context, tenantID uint, sids []string) ([]*Invoice, error)
	GetActiveByTicketForUpdate(ctx context.Context, ticketID uint) (*Invoice, error)
	ListByTicket(ctx context.Context, ticketID uint) ([]*Invoice, error)
	ListByBatch(ctx context.Context, batchID uint) ([]*Invoice, error)
	List(ctx context.Context, filter InvoiceFilter) ([]*Invoice, int64, error)
}

type InvoiceFilter struct {
	TenantID     uint
	Status       *vo.InvoiceStatus
	ContractorID *uint
	TicketID     *uint
	ActiveOnly   bool
	Page         int
	PageSize     int
}

type PaymentBatchRepository interface {
	Create(ctx context.Context, b *PaymentBatch) error
	GetBySID(ctx context.Context, tenantID uint, sid string) (*PaymentBatch, error)
	List(ctx context.Context, tenantID uint, page, pageSize int) ([]*PaymentBatch, int64, error)
}

// SequenceAllocator hands out per-tenant, per-day batch sequence numbers.
// Allocation must run inside the transaction that creates the batch so that
// a rollback releases the number.
type SequenceAllocator interface {
	Next(ctx context.Context, tenantID uint, batchDate string) (int, error)
}
