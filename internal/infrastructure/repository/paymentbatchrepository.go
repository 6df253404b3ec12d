package repository

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/invoice"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/persistence/mappers"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/persistence/models"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/db"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
)

type PaymentBatchRepository struct {
	db     *gorm.DB
	mapper mappers.InvoiceMapper
}

func NewPaymentBatchRepository(db *gorm.DB) *PaymentBatchRepository {
	return &PaymentBatchRepository{db: db, mapper: mappers.NewInvoiceMapper()}
}

func (r *PaymentBatchRepository) Create(ctx context.Context, b *invoice.PaymentBatch) error {
	model := r.mapper.BatchToModel(b)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create payment batch: %w", err)
	}
	b.SetID(model.ID)
	return nil
}

func (r *PaymentBatchRepository) GetBySID(ctx context.Context, tenantID uint, sid string) (*invoice.PaymentBatch, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var model models.PaymentBatchModel
	if err := tx.Scopes(db.TenantScoped(tenantID)).Where("sid = ?", sid).First(&model).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find payment batch: %w", err)
	}
	ids, err := r.invoiceIDs(tx, []uint{model.ID})
	if err != nil {
		return nil, err
	}
	return r.mapper.BatchToDomain(&model, ids[model.ID]), nil
}

func (r *PaymentBatchRepository) List(ctx context.Context, tenantID uint, page, pageSize int) ([]*invoice.PaymentBatch, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.PaymentBatchModel{}).Scopes(db.TenantScoped(tenantID))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count payment batches: %w", err)
	}

	var rows []*models.PaymentBatchModel
	if err := query.Order("created_at DESC").Order("id DESC").
		Scopes(db.Paginate(page, pageSize)).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list payment batches: %w", err)
	}

	batchIDs := make([]uint, len(rows))
	for i, row := range rows {
		batchIDs[i] = row.ID
	}
	ids, err := r.invoiceIDs(tx, batchIDs)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*invoice.PaymentBatch, len(rows))
	for i, row := range rows {
		out[i] = r.mapper.BatchToDomain(row, ids[row.ID])
	}
	return out, total, nil
}

func (r *PaymentBatchRepository) invoiceIDs(tx *gorm.DB, batchIDs []uint) (map[uint][]uint, error) {
	out := make(map[uint][]uint, len(batchIDs))
	if len(batchIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		ID             uint
		PaymentBatchID uint
	}
	if err := tx.Model(&models.InvoiceModel{}).
		Select("id, payment_batch_id").
		Where("payment_batch_id IN ?", batchIDs).
		Order("id ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load batch invoices: %w", err)
	}
	for _, row := range rows {
		out[row.PaymentBatchID] = append(out[row.PaymentBatchID], row.ID)
	}
	return out, nil
}

// BatchSequenceAllocator hands out batch sequence numbers from a counter row
// per tenant and business day. The row stays locked until the batch
// transaction ends, so a rolled back batch releases its number.
type BatchSequenceAllocator struct {
	db *gorm.DB
}

func NewBatchSequenceAllocator(db *gorm.DB) *BatchSequenceAllocator {
	return &BatchSequenceAllocator{db: db}
}

const maxSequenceInsertAttempts = 3

func (a *BatchSequenceAllocator) Next(ctx context.Context, tenantID uint, batchDate string) (int, error) {
	if !db.InTransaction(ctx) {
		return 0, fmt.Errorf("batch sequence allocation requires a transaction")
	}
	tx := db.GetTxFromContext(ctx, a.db)

	for attempt := 0; attempt < maxSequenceInsertAttempts; attempt++ {
		var row models.PaymentBatchSequenceModel
		err := tx.Scopes(db.ForUpdate()).
			Where("tenant_id = ? AND batch_date = ?", tenantID, batchDate).
			First(&row).Error
		switch {
		case err == nil:
			next := row.LastValue + 1
			if err := tx.Model(&models.PaymentBatchSequenceModel{}).
				Where("tenant_id = ? AND batch_date = ?", tenantID, batchDate).
				Update("last_value", next).Error; err != nil {
				return 0, fmt.Errorf("failed to advance batch sequence: %w", err)
			}
			return next, nil
		case !stderrors.Is(err, gorm.ErrRecordNotFound):
			return 0, fmt.Errorf("failed to lock batch sequence: %w", err)
		}

		// First batch of the day. A concurrent first insert wins the key and
		// this attempt re-reads the row it created.
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.PaymentBatchSequenceModel{
			TenantID:  tenantID,
			BatchDate: batchDate,
			LastValue: 1,
		})
		if result.Error != nil && !errors.IsDuplicateError(result.Error) {
			return 0, fmt.Errorf("failed to create batch sequence: %w", result.Error)
		}
		if result.Error == nil && result.RowsAffected == 1 {
			return 1, nil
		}
	}
	return 0, errors.NewConflictError("batch sequence is contended, retry")
}
