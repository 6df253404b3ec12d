package usecases

import (
	"context"
	"fmt"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/invoice/dto"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/invoice"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/events"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket"
	ticketvo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/biztime"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/db"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/id"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

type SubmitInvoiceCommand struct {
	Actor           authorization.Actor
	TicketSID       string
	InvoiceNumber   string
	AmountCents     int64
	Currency        string
	WorkDescription string
	File            *Upload
}

// SubmitInvoiceUseCase creates an invoice for a finished ticket, or the next
// revision when the active one was rejected.
type SubmitInvoiceUseCase struct {
	tx        db.Transactor
	invoices  invoice.InvoiceRepository
	tickets   ticket.TicketRepository
	files     FileStore
	publisher events.Publisher
	currency  string
	logger    logger.Interface
}

func NewSubmitInvoiceUseCase(
	tx db.Transactor,
	invoices invoice.InvoiceRepository,
	tickets ticket.TicketRepository,
	files FileStore,
	publisher events.Publisher,
	currency string,
	logger logger.Interface,
) *SubmitInvoiceUseCase {
	return &SubmitInvoiceUseCase{
		tx:        tx,
		invoices:  invoices,
		tickets:   tickets,
		files:     files,
		publisher: publisher,
		currency:  currency,
		logger:    logger,
	}
}

func (uc *SubmitInvoiceUseCase) Execute(ctx context.Context, cmd SubmitInvoiceCommand) (*dto.InvoiceDTO, error) {
	uc.logger.Infow("executing submit invoice use case",
		"ticket_sid", cmd.TicketSID,
		"contractor_id", cmd.Actor.UserID,
		"invoice_number", cmd.InvoiceNumber)

	if err := requireAuth(cmd.Actor); err != nil {
		return nil, err
	}
	if !cmd.Actor.Class().IsContractor() {
		return nil, errors.NewForbiddenError("only contractors submit invoices")
	}

	t, err := uc.tickets.GetBySID(ctx, cmd.Actor.TenantID, cmd.TicketSID)
	if err != nil {
		uc.logger.Errorw("failed to load ticket", "ticket_sid", cmd.TicketSID, "error", err)
		return nil, errors.NewInternalError("failed to submit invoice")
	}
	if t == nil || (t.Status() != ticketvo.StatusCompleted && t.Status() != ticketvo.StatusClosed) {
		return nil, errors.NewNotFoundError("no invoiceable ticket found", cmd.TicketSID)
	}
	if !t.IsAssignedTo(cmd.Actor.UserID) {
		return nil, errors.NewForbiddenError("only the assigned contractor can invoice this ticket")
	}

	currency := cmd.Currency
	if currency == "" {
		currency = uc.currency
	}
	params := invoice.SubmitParams{
		TenantID:        cmd.Actor.TenantID,
		TicketID:        t.ID(),
		ContractorID:    cmd.Actor.UserID,
		InvoiceNumber:   cmd.InvoiceNumber,
		AmountCents:     cmd.AmountCents,
		Currency:        currency,
		WorkDescription: cmd.WorkDescription,
	}
	if _, err := invoice.NewInvoice(params, biztime.NowUTC()); err != nil {
		return nil, err
	}

	// The upload stays outside the transaction; a rolled back submission only
	// leaves an unreferenced file behind.
	if cmd.File != nil && cmd.File.Reader != nil && uc.files != nil {
		url, err := uc.files.Save(ctx, cmd.Actor.TenantID, cmd.File.Filename, cmd.File.Reader)
		if err != nil {
			if errors.IsAppError(err) {
				return nil, err
			}
			uc.logger.Errorw("failed to store invoice file", "error", err)
			return nil, errors.NewInternalError("failed to store invoice file")
		}
		params.FileURL = url
	}

	var created *invoice.Invoice
	err = uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		now := biztime.NowUTC()
		active, err := uc.invoices.GetActiveByTicketForUpdate(ctx, t.ID())
		if err != nil {
			return fmt.Errorf("failed to load active invoice: %w", err)
		}

		var next *invoice.Invoice
		if active == nil {
			next, err = invoice.NewInvoice(params, now)
		} else {
			next, err = active.Revise(params, now)
			if err == nil {
				err = uc.invoices.Deactivate(ctx, active)
			}
		}
		if err != nil {
			return err
		}

		sid, err := id.New(id.PrefixInvoice)
		if err != nil {
			return err
		}
		if err := next.SetSID(sid); err != nil {
			return err
		}
		if err := uc.invoices.Create(ctx, next); err != nil {
			if errors.IsDuplicateError(err) {
				return errors.NewConflictError("an active invoice already exists for this ticket")
			}
			return fmt.Errorf("failed to create invoice: %w", err)
		}
		next.RecordSubmitted(now)
		if err := publish(ctx, uc.publisher, next); err != nil {
			return err
		}
		created = next
		return nil
	})
	if err != nil {
		uc.logger.Warnw("invoice submission rejected", "ticket_sid", cmd.TicketSID, "error", err)
		return nil, asAppError(err, "failed to submit invoice")
	}

	uc.logger.Infow("invoice submitted",
		"invoice_sid", created.SID(),
		"revision", created.RevisionNumber(),
		"amount", created.Amount().String())
	return dto.ToInvoiceDTO(created), nil
}
