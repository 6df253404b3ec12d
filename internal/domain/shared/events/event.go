package events

import (
	"context"
	"time"
)

// DomainEvent represents a domain event interface
type DomainEvent interface {
	// GetAggregateID returns the external ID of the aggregate that generated the event
	GetAggregateID() string

	// GetAggregateType names the aggregate kind, e.g. "ticket"
	GetAggregateType() string

	// GetEventType returns the type/name of the event
	GetEventType() string

	// GetTenantID returns the tenant the event belongs to
	GetTenantID() uint

	// GetRecipients lists the user IDs that should be notified
	GetRecipients() []uint

	// GetOccurredAt returns when the event occurred
	GetOccurredAt() time.Time
}

// BaseEvent provides common fields for all domain events
type BaseEvent struct {
	AggregateID   string    `json:"aggregate_id"`
	AggregateType string    `json:"aggregate_type"`
	EventType     string    `json:"event_type"`
	TenantID      uint      `json:"tenant_id"`
	Recipients    []uint    `json:"recipients,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewBaseEvent(aggregateType, aggregateID, eventType string, tenantID uint, occurredAt time.Time, recipients ...uint) BaseEvent {
	return BaseEvent{
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		TenantID:      tenantID,
		Recipients:    uniqueRecipients(recipients),
		OccurredAt:    occurredAt,
	}
}

func uniqueRecipients(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func (e BaseEvent) GetAggregateID() string   { return e.AggregateID }
func (e BaseEvent) GetAggregateType() string { return e.AggregateType }
func (e BaseEvent) GetEventType() string     { return e.EventType }
func (e BaseEvent) GetTenantID() uint        { return e.TenantID }
func (e BaseEvent) GetRecipients() []uint    { return e.Recipients }
func (e BaseEvent) GetOccurredAt() time.Time { return e.OccurredAt }

// Recorder collects events raised by an aggregate until the application layer
// drains them into the outbox.
type Recorder struct {
	events []DomainEvent
}

func (r *Recorder) Record(e DomainEvent) {
	r.events = append(r.events, e)
}

// PullEvents returns the recorded events and clears the buffer.
func (r *Recorder) PullEvents() []DomainEvent {
	out := r.events
	r.events = nil
	return out
}

// Publisher stores events for asynchronous delivery. Implementations write
// through the ambient transaction so events commit with the state change.
type Publisher interface {
	Publish(ctx context.Context, evts ...DomainEvent) error
}
