package usecases

import (
	"context"
	"time"
)

// DeliveryDedupe is the advisory fast path in front of the durable webhook
// ledger. Errors mean "unknown" and never block processing.
type DeliveryDedupe interface {
	// Claim reports true when key was not seen within ttl.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// SubscriptionActivator credits a paid period. ActivateFromPayment runs in
// the caller's transaction.
type SubscriptionActivator interface {
	ActivateFromPayment(ctx context.Context, subscriptionID uint, paidAt time.Time) error
	InvalidateAccess(ctx context.Context, tenantID uint)
}

// WebhookMetrics counts processed deliveries by outcome.
type WebhookMetrics interface {
	WebhookProcessed(provider, outcome string)
}

const (
	OutcomeProcessed        = "processed"
	OutcomeDuplicate        = "duplicate"
	OutcomeInvalidSignature = "invalid_signature"
	OutcomePending          = "pending"
	OutcomeFailed           = "failed"
)

// IngestResult is what a caller tells the provider. AlreadyProcessed is an
// acknowledgement, not an error.
type IngestResult struct {
	PaymentSID       string `json:"payment_id"`
	Status           string `json:"status"`
	AlreadyProcessed bool   `json:"already_processed"`
}
