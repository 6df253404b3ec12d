package usecases

import (
	"context"
	"fmt"
	"io"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/invoice"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/events"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
)

// FileStore keeps uploaded documents and returns the URL they are served at.
type FileStore interface {
	Save(ctx context.Context, tenantID uint, filename string, r io.Reader) (string, error)
}

// Upload is an optional attachment carried by a command.
type Upload struct {
	Filename string
	Reader   io.Reader
}

// BatchMetrics counts created payment batches.
type BatchMetrics interface {
	PaymentBatchCreated()
}

func requireAuth(actor authorization.Actor) error {
	if actor.UserID == 0 || actor.TenantID == 0 {
		return errors.NewUnauthorizedError("authentication required")
	}
	return nil
}

func requireAdmin(actor authorization.Actor) error {
	if err := requireAuth(actor); err != nil {
		return err
	}
	if !actor.Class().IsAdmin() {
		return errors.NewForbiddenError("admin access required")
	}
	return nil
}

// lockInvoice loads an invoice for update. Invoices of other tenants do not
// exist for the actor.
func lockInvoice(ctx context.Context, repo invoice.InvoiceRepository, actor authorization.Actor, sid string) (*invoice.Invoice, error) {
	if sid == "" {
		return nil, errors.NewValidationError("invoice ID is required")
	}
	inv, err := repo.GetBySIDForUpdate(ctx, actor.TenantID, sid)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}
	if inv == nil {
		return nil, errors.NewNotFoundError("invoice not found")
	}
	return inv, nil
}

func publish(ctx context.Context, publisher events.Publisher, rec interface{ PullEvents() []events.DomainEvent }) error {
	if evts := rec.PullEvents(); len(evts) > 0 {
		if err := publisher.Publish(ctx, evts...); err != nil {
			return fmt.Errorf("failed to write outbox: %w", err)
		}
	}
	return nil
}

func asAppError(err error, msg string) error {
	if errors.IsAppError(err) {
		return err
	}
	return errors.NewInternalError(msg)
}
