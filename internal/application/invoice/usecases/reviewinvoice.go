package usecases

import (
	"context"
	"time"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/invoice/dto"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/invoice"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/events"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/biztime"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/db"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

// invoiceMutator runs one domain method on a locked invoice and persists the
// result with its events.
type invoiceMutator struct {
	tx        db.Transactor
	invoices  invoice.InvoiceRepository
	publisher events.Publisher
	logger    logger.Interface
}

func (m invoiceMutator) apply(
	ctx context.Context,
	actor authorization.Actor,
	sid, op string,
	fn func(inv *invoice.Invoice, now time.Time) error,
) (*dto.InvoiceDTO, error) {
	var result *invoice.Invoice
	err := m.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		inv, err := lockInvoice(ctx, m.invoices, actor, sid)
		if err != nil {
			return err
		}
		if err := fn(inv, biztime.NowUTC()); err != nil {
			return err
		}
		if err := m.invoices.Update(ctx, inv); err != nil {
			return err
		}
		if err := publish(ctx, m.publisher, inv); err != nil {
			return err
		}
		result = inv
		return nil
	})
	if err != nil {
		m.logger.Warnw("invoice operation failed", "operation", op, "invoice_sid", sid, "user_id", actor.UserID, "error", err)
		return nil, asAppError(err, "failed to update invoice")
	}
	m.logger.Infow("invoice updated", "operation", op, "invoice_sid", sid, "status", result.Status())
	return dto.ToInvoiceDTO(result), nil
}

type InvoiceActionDeps struct {
	Tx        db.Transactor
	Invoices  invoice.InvoiceRepository
	Publisher events.Publisher
	Logger    logger.Interface
}

func (d InvoiceActionDeps) mutator() invoiceMutator {
	return invoiceMutator{tx: d.Tx, invoices: d.Invoices, publisher: d.Publisher, logger: d.Logger}
}

type ApproveInvoiceCommand struct {
	Actor authorization.Actor
	SID   string
}

type ApproveInvoiceUseCase struct{ m invoiceMutator }

func NewApproveInvoiceUseCase(deps InvoiceActionDeps) *ApproveInvoiceUseCase {
	return &ApproveInvoiceUseCase{m: deps.mutator()}
}

func (uc *ApproveInvoiceUseCase) Execute(ctx context.Context, cmd ApproveInvoiceCommand) (*dto.InvoiceDTO, error) {
	if err := requireAdmin(cmd.Actor); err != nil {
		return nil, err
	}
	return uc.m.apply(ctx, cmd.Actor, cmd.SID, "approve", func(inv *invoice.Invoice, now time.Time) error {
		return inv.Approve(cmd.Actor.UserID, now)
	})
}

type RejectInvoiceCommand struct {
	Actor  authorization.Actor
	SID    string
	Reason string
}

type RejectInvoiceUseCase struct{ m invoiceMutator }

func NewRejectInvoiceUseCase(deps InvoiceActionDeps) *RejectInvoiceUseCase {
	return &RejectInvoiceUseCase{m: deps.mutator()}
}

func (uc *RejectInvoiceUseCase) Execute(ctx context.Context, cmd RejectInvoiceCommand) (*dto.InvoiceDTO, error) {
	if err := requireAdmin(cmd.Actor); err != nil {
		return nil, err
	}
	return uc.m.apply(ctx, cmd.Actor, cmd.SID, "reject", func(inv *invoice.Invoice, now time.Time) error {
		return inv.Reject(cmd.Reason, now)
	})
}

type RecordPaymentCommand struct {
	Actor       authorization.Actor
	SID         string
	AmountCents int64
}

type RecordPaymentUseCase struct{ m invoiceMutator }

func NewRecordPaymentUseCase(deps InvoiceActionDeps) *RecordPaymentUseCase {
	return &RecordPaymentUseCase{m: deps.mutator()}
}

func (uc *RecordPaymentUseCase) Execute(ctx context.Context, cmd RecordPaymentCommand) (*dto.InvoiceDTO, error) {
	if err := requireAdmin(cmd.Actor); err != nil {
		return nil, err
	}
	return uc.m.apply(ctx, cmd.Actor, cmd.SID, "record_payment", func(inv *invoice.Invoice, now time.Time) error {
		return inv.RecordPayment(cmd.AmountCents, now)
	})
}

type RequestClarificationCommand struct {
	Actor authorization.Actor
	SID   string
	Text  string
}

type RequestClarificationUseCase struct{ m invoiceMutator }

func NewRequestClarificationUseCase(deps InvoiceActionDeps) *RequestClarificationUseCase {
	return &RequestClarificationUseCase{m: deps.mutator()}
}

func (uc *RequestClarificationUseCase) Execute(ctx context.Context, cmd RequestClarificationCommand) (*dto.InvoiceDTO, error) {
	if err := requireAdmin(cmd.Actor); err != nil {
		return nil, err
	}
	return uc.m.apply(ctx, cmd.Actor, cmd.SID, "request_clarification", func(inv *invoice.Invoice, now time.Time) error {
		return inv.RequestClarification(cmd.Text, now)
	})
}

type RespondClarificationCommand struct {
	Actor authorization.Actor
	SID   string
	Text  string
}

type RespondClarificationUseCase struct{ m invoiceMutator }

func NewRespondClarificationUseCase(deps InvoiceActionDeps) *RespondClarificationUseCase {
	return &RespondClarificationUseCase{m: deps.mutator()}
}

func (uc *RespondClarificationUseCase) Execute(ctx context.Context, cmd RespondClarificationCommand) (*dto.InvoiceDTO, error) {
	if err := requireAuth(cmd.Actor); err != nil {
		return nil, err
	}
	return uc.m.apply(ctx, cmd.Actor, cmd.SID, "respond_clarification", func(inv *invoice.Invoice, now time.Time) error {
		return inv.RespondClarification(cmd.Actor.UserID, cmd.Text, now)
	})
}
