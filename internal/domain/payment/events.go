package payment

import (
	"time"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/events"
)

const AggregateType = "payment"

const (
	EventSucceeded = "payment.succeeded"
	EventFailed    = "payment.failed"
)

// PaymentEvent goes to the tenant's billing admins; it carries no user recipients.
type PaymentEvent struct {
	events.BaseEvent
	SubscriptionID uint   `json:"subscription_id"`
	AmountCents    int64  `json:"amount_cents"`
	Currency       string `json:"currency"`
	Provider       string `json:"provider"`
	Reference      string `json:"reference"`
	FailureReason  string `json:"failure_reason,omitempty"`
}

func newPaymentEvent(p *Payment, eventType string, at time.Time) PaymentEvent {
	return PaymentEvent{
		BaseEvent:      events.NewBaseEvent(AggregateType, p.sid, eventType, p.tenantID, at),
		SubscriptionID: p.subscriptionID,
		AmountCents:    p.amount,
		Currency:       p.currency,
		Provider:       string(p.provider),
		Reference:      p.reference,
		FailureReason:  p.failureReason,
	}
}
