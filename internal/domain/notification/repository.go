package notification

import (
	"context"
	"time"
)

type OutboxRepository interface {
	// Append inserts entries using the ambient transaction, if any.
	Append(ctx context.Context, entries ...*OutboxEntry) error
	// ClaimDue leases up to limit pending entries whose next attempt is due.
	// A leased entry is invisible to other relays until lease has passed.
	ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]*OutboxEntry, error)
	Update(ctx context.Context, e *OutboxEntry) error
	CountByStatus(ctx context.Context, status OutboxStatus) (int64, error)
}

// RecipientDirectory resolves user IDs to contact details. Identity is owned
// by another service; this is the collaborator boundary.
type RecipientDirectory interface {
	ResolveEmails(ctx context.Context, tenantID uint, userIDs []uint) ([]string, error)
	TenantAdminEmails(ctx context.Context, tenantID uint) ([]string, error)
}
