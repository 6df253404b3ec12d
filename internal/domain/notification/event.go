package notification

import (
	"context"
	"time"
)

// Event is the descriptor handed to a Dispatcher. Recipients are user IDs;
// an empty list addresses the tenant's admins.
type Event struct {
	EventID       string         `json:"event_id"`
	Type          string         `json:"type"`
	TenantID      uint           `json:"tenant_id"`
	AggregateType string         `json:"aggregate_type"`
	AggregateID   string         `json:"aggregate_id"`
	Recipients    []uint         `json:"recipients,omitempty"`
	Data          map[string]any `json:"data,omitempty"`
	OccurredAt    time.Time      `json:"occurred_at"`
}

// Dispatcher delivers an event on one channel. Delivery is best-effort:
// a returned error only schedules a retry of the outbox entry.
type Dispatcher interface {
	Name() string
	Dispatch(ctx context.Context, evt Event) error
}
