package payment

import (
	"context"

	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/payment/valueobjects"
)

// Lookups return (nil, nil) when no row matches.
type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	// Update is conditional on the stored version.
	Update(ctx context.Context, p *Payment) error
	// MarkSucceeded persists a success only if the stored row is not already
	// successful. It reports whether this call made the change.
	MarkSucceeded(ctx context.Context, p *Payment) (bool, error)
	GetBySID(ctx context.Context, sid string) (*Payment, error)
	GetBySIDForUpdate(ctx context.Context, sid string) (*Payment, error)
	GetByProviderReference(ctx context.Context, provider vo.Provider, ref string) (*Payment, error)
	ListBySubscription(ctx context.Context, subscriptionID uint) ([]*Payment, error)
}

// WebhookLedger is the durable dedupe table for provider deliveries.
type WebhookLedger interface {
	// Record inserts the delivery key and reports false when it was already
	// present. It must run in the transaction that applies the effect.
	Record(ctx context.Context, provider vo.Provider, providerRef string, outcome vo.Outcome) (bool, error)
}
