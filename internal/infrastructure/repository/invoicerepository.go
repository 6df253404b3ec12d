package repository

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/invoice"
	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/invoice/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/persistence/mappers"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/persistence/models"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/db"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
)

var invoiceImmutableColumns = []string{"id", "sid", "tenant_id", "ticket_id", "contractor_id", "revision_number", "previous_invoice_id", "created_at"}

type InvoiceRepository struct {
	db     *gorm.DB
	mapper mappers.InvoiceMapper
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db, mapper: mappers.NewInvoiceMapper()}
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *invoice.Invoice) error {
	model := r.mapper.ToModel(inv)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return inv.SetID(model.ID)
}

func (r *InvoiceRepository) Update(ctx context.Context, inv *invoice.Invoice) error {
	model := r.mapper.ToModel(inv)
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.InvoiceModel{}).
		Where("id = ? AND version < ?", model.ID, model.Version).
		Select("*").
		Omit(invoiceImmutableColumns...).
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update invoice: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewConflictError("invoice was modified concurrently, reload and retry", inv.InvoiceNumber())
	}
	return nil
}

func (r *InvoiceRepository) Deactivate(ctx context.Context, inv *invoice.Invoice) error {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.InvoiceModel{}).
		Where("id = ? AND is_active = ? AND status = ?", inv.ID(), true, vo.StatusRejected.String()).
		Updates(map[string]any{
			"is_active":         false,
			"active_ticket_key": nil,
			"version":           inv.Version(),
			"updated_at":        inv.UpdatedAt().UnixMilli(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate invoice: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewConflictError("invoice has already been superseded", inv.InvoiceNumber())
	}
	return nil
}

// MarkSettled writes the batch settlement of every invoice. Any invoice that
// is no longer APPROVED and unbatched fails the whole call with a conflict,
// which rolls back the ambient transaction.
func (r *InvoiceRepository) MarkSettled(ctx context.Context, invoices []*invoice.Invoice) error {
	tx := db.GetTxFromContext(ctx, r.db)
	for _, inv := range invoices {
		result := tx.Model(&models.InvoiceModel{}).
			Where("id = ? AND status = ? AND payment_batch_id IS NULL", inv.ID(), vo.StatusApproved.String()).
			Updates(map[string]any{
				"status":            inv.Status().String(),
				"paid_amount_cents": inv.PaidAmountCents(),
				"balance_cents":     inv.BalanceCents(),
				"payment_batch_id":  inv.PaymentBatchID(),
				"paid_at":           paidAtMilli(inv),
				"version":           inv.Version(),
				"updated_at":        inv.UpdatedAt().UnixMilli(),
			})
		if result.Error != nil {
			return fmt.Errorf("failed to settle invoice: %w", result.Error)
		}
		if result.RowsAffected != 1 {
			return errors.NewConflictError("invoice is no longer payable", inv.InvoiceNumber())
		}
	}
	return nil
}

func paidAtMilli(inv *invoice.Invoice) *int64 {
	if inv.PaidAt() == nil {
		return nil
	}
	ms := inv.PaidAt().UnixMilli()
	return &ms
}

func (r *InvoiceRepository) GetBySID(ctx context.Context, tenantID uint, sid string) (*invoice.Invoice, error) {
	return r.first(db.GetTxFromContext(ctx, r.db).
		Scopes(db.TenantScoped(tenantID)).
		Where("sid = ?", sid))
}

func (r *InvoiceRepository) GetBySIDForUpdate(ctx context.Context, tenantID uint, sid string) (*invoice.Invoice, error) {
	return r.first(db.GetTxFromContext(ctx, r.db).
		Scopes(db.TenantScoped(tenantID), db.ForUpdate()).
		Where("sid = ?", sid))
}

// GetBySIDsForUpdate locks the invoices in ID order so that concurrent batch
// builders acquire row locks in the same order.
func (r *InvoiceRepository) GetBySIDsForUpdate(ctx context.Context, tenantID uint, sids []string) ([]*invoice.Invoice, error) {
	if len(sids) == 0 {
		return nil, nil
	}
	return r.list(db.GetTxFromContext(ctx, r.db).
		Scopes(db.TenantScoped(tenantID), db.ForUpdate()).
		Where("sid IN ?", sids).
		Order("id ASC"))
}

func (r *InvoiceRepository) GetActiveByTicketForUpdate(ctx context.Context, ticketID uint) (*invoice.Invoice, error) {
	return r.first(db.GetTxFromContext(ctx, r.db).
		Scopes(db.ForUpdate()).
		Where("ticket_id = ? AND is_active = ?", ticketID, true))
}

func (r *InvoiceRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*invoice.Invoice, error) {
	return r.list(db.GetTxFromContext(ctx, r.db).
		Where("ticket_id = ?", ticketID).
		Order("revision_number ASC"))
}

func (r *InvoiceRepository) ListByBatch(ctx context.Context, batchID uint) ([]*invoice.Invoice, error) {
	return r.list(db.GetTxFromContext(ctx, r.db).
		Where("payment_batch_id = ?", batchID).
		Order("id ASC"))
}

func (r *InvoiceRepository) List(ctx context.Context, filter invoice.InvoiceFilter) ([]*invoice.Invoice, int64, error) {
	query := db.GetTxFromContext(ctx, r.db).
		Model(&models.InvoiceModel{}).
		Scopes(db.TenantScoped(filter.TenantID))

	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.ContractorID != nil {
		query = query.Where("contractor_id = ?", *filter.ContractorID)
	}
	if filter.TicketID != nil {
		query = query.Where("ticket_id = ?", *filter.TicketID)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	query = query.Order("created_at DESC").Order("id DESC")
	if filter.PageSize > 0 {
		query = query.Scopes(db.Paginate(filter.Page, filter.PageSize))
	}
	invoices, err := r.list(query)
	if err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

func (r *InvoiceRepository) first(query *gorm.DB) (*invoice.Invoice, error) {
	var model models.InvoiceModel
	if err := query.First(&model).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find invoice: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

func (r *InvoiceRepository) list(query *gorm.DB) ([]*invoice.Invoice, error) {
	var rows []*models.InvoiceModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return r.mapper.ToDomainList(rows)
}
