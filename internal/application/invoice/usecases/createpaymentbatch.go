package usecases

import (
	"context"
	"fmt"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/invoice/dto"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/invoice"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/events"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/biztime"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/db"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/id"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/utils/setutil"
)

const maxBatchSize = 500

type CreatePaymentBatchCommand struct {
	Actor       authorization.Actor
	InvoiceSIDs []string
	PopFileURL  string
	ProofOfPay  *Upload
	Notes       string
}

type CreatePaymentBatchResult struct {
	Batch    *dto.PaymentBatchDTO `json:"batch"`
	Invoices []*dto.InvoiceDTO    `json:"invoices"`
}

// CreatePaymentBatchUseCase settles a selection of approved invoices in one
// transaction. Either every invoice is paid by the batch or none is.
type CreatePaymentBatchUseCase struct {
	tx        db.Transactor
	invoices  invoice.InvoiceRepository
	batches   invoice.PaymentBatchRepository
	sequences invoice.SequenceAllocator
	files     FileStore
	publisher events.Publisher
	metrics   BatchMetrics
	logger    logger.Interface
}

func NewCreatePaymentBatchUseCase(
	tx db.Transactor,
	invoices invoice.InvoiceRepository,
	batches invoice.PaymentBatchRepository,
	sequences invoice.SequenceAllocator,
	files FileStore,
	publisher events.Publisher,
	metrics BatchMetrics,
	logger logger.Interface,
) *CreatePaymentBatchUseCase {
	return &CreatePaymentBatchUseCase{
		tx:        tx,
		invoices:  invoices,
		batches:   batches,
		sequences: sequences,
		files:     files,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

func (uc *CreatePaymentBatchUseCase) Execute(ctx context.Context, cmd CreatePaymentBatchCommand) (*CreatePaymentBatchResult, error) {
	uc.logger.Infow("executing create payment batch use case",
		"tenant_id", cmd.Actor.TenantID,
		"user_id", cmd.Actor.UserID,
		"invoice_count", len(cmd.InvoiceSIDs))

	if err := requireAdmin(cmd.Actor); err != nil {
		return nil, err
	}
	sids, err := distinctSIDs(cmd.InvoiceSIDs)
	if err != nil {
		return nil, err
	}

	popURL := cmd.PopFileURL
	if cmd.ProofOfPay != nil && cmd.ProofOfPay.Reader != nil && uc.files != nil {
		popURL, err = uc.files.Save(ctx, cmd.Actor.TenantID, cmd.ProofOfPay.Filename, cmd.ProofOfPay.Reader)
		if err != nil {
			if errors.IsAppError(err) {
				return nil, err
			}
			uc.logger.Errorw("failed to store proof of payment", "error", err)
			return nil, errors.NewInternalError("failed to store proof of payment")
		}
	}

	var (
		batch  *invoice.PaymentBatch
		locked []*invoice.Invoice
	)
	err = uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		now := biztime.NowUTC()
		invoices, err := uc.invoices.GetBySIDsForUpdate(ctx, cmd.Actor.TenantID, sids)
		if err != nil {
			return fmt.Errorf("failed to lock invoices: %w", err)
		}
		if missing := missingSIDs(sids, invoices); len(missing) > 0 {
			return errors.NewNotFoundError("invoice not found", missing...)
		}

		b, err := invoice.NewPaymentBatch(cmd.Actor.TenantID, cmd.Actor.UserID, invoices, popURL, cmd.Notes, now)
		if err != nil {
			return err
		}
		seq, err := uc.sequences.Next(ctx, cmd.Actor.TenantID, b.BatchDate())
		if err != nil {
			return fmt.Errorf("failed to allocate batch sequence: %w", err)
		}
		if err := b.AssignSequence(seq); err != nil {
			return err
		}
		sid, err := id.New(id.PrefixPaymentBatch)
		if err != nil {
			return err
		}
		b.SetSID(sid)
		if err := uc.batches.Create(ctx, b); err != nil {
			if errors.IsDuplicateError(err) {
				return errors.NewConflictError("payment batch number collision, retry", b.BatchNumber())
			}
			return fmt.Errorf("failed to create payment batch: %w", err)
		}

		if err := b.Settle(invoices, now); err != nil {
			return err
		}
		if err := uc.invoices.MarkSettled(ctx, invoices); err != nil {
			return err
		}
		for _, inv := range invoices {
			if err := publish(ctx, uc.publisher, inv); err != nil {
				return err
			}
		}
		if err := publish(ctx, uc.publisher, b); err != nil {
			return err
		}
		batch, locked = b, invoices
		return nil
	})
	if err != nil {
		uc.logger.Warnw("payment batch rejected", "tenant_id", cmd.Actor.TenantID, "error", err)
		return nil, asAppError(err, "failed to create payment batch")
	}

	if uc.metrics != nil {
		uc.metrics.PaymentBatchCreated()
	}
	uc.logger.Infow("payment batch created",
		"batch_sid", batch.SID(),
		"batch_number", batch.BatchNumber(),
		"total", batch.Total().String(),
		"invoice_count", len(locked))
	return &CreatePaymentBatchResult{
		Batch:    dto.ToPaymentBatchDTO(batch),
		Invoices: dto.ToInvoiceDTOList(locked),
	}, nil
}

func distinctSIDs(sids []string) ([]string, error) {
	if len(sids) == 0 {
		return nil, errors.NewValidationError("at least one invoice is required")
	}
	if len(sids) > maxBatchSize {
		return nil, errors.NewValidationError(fmt.Sprintf("a batch holds at most %d invoices", maxBatchSize))
	}
	seen := setutil.WithCap[string](len(sids))
	for _, sid := range sids {
		if sid == "" {
			return nil, errors.NewValidationError("invoice ID cannot be empty")
		}
		if !seen.AddNew(sid) {
			return nil, errors.NewValidationError("invoice listed twice", sid)
		}
	}
	return sids, nil
}

func missingSIDs(want []string, got []*invoice.Invoice) []string {
	found := setutil.WithCap[string](len(got))
	for _, inv := range got {
		found.Add(inv.SID())
	}
	return found.Missing(want)
}
