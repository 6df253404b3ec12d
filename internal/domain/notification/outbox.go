package notification

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/events"
)

type OutboxStatus string

const (
	OutboxPending OutboxStatus = "pending"
	OutboxSent    OutboxStatus = "sent"
	OutboxFailed  OutboxStatus = "failed"
)

const maxErrorLength = 1000

// OutboxEntry is one domain event waiting for delivery. Entries are written in
// the same transaction as the state change that raised them.
type OutboxEntry struct {
	id            uint
	eventID       string
	eventType     string
	aggregateType string
	aggregateID   string
	tenantID      uint
	recipients    []uint
	payload       map[string]any
	status        OutboxStatus
	attempts      int
	nextAttemptAt time.Time
	lastError     string
	createdAt     time.Time
	sentAt        *time.Time
}

// NewOutboxEntry captures a domain event. The whole event is stored as the
// payload so that dispatchers can render any of its fields.
func NewOutboxEntry(evt events.DomainEvent, now time.Time) (*OutboxEntry, error) {
	raw, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("marshal event %s: %w", evt.GetEventType(), err)
	}
	payload := map[string]any{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("unmarshal event %s: %w", evt.GetEventType(), err)
	}
	return &OutboxEntry{
		eventID:       uuid.NewString(),
		eventType:     evt.GetEventType(),
		aggregateType: evt.GetAggregateType(),
		aggregateID:   evt.GetAggregateID(),
		tenantID:      evt.GetTenantID(),
		recipients:    evt.GetRecipients(),
		payload:       payload,
		status:        OutboxPending,
		nextAttemptAt: now,
		createdAt:     now,
	}, nil
}

type OutboxParams struct {
	ID            uint
	EventID       string
	EventType     string
	AggregateType string
	AggregateID   string
	TenantID      uint
	Recipients    []uint
	Payload       map[string]any
	Status        OutboxStatus
	Attempts      int
	NextAttemptAt time.Time
	LastError     string
	CreatedAt     time.Time
	SentAt        *time.Time
}

func ReconstructOutboxEntry(p OutboxParams) *OutboxEntry {
	return &OutboxEntry{
		id:            p.ID,
		eventID:       p.EventID,
		eventType:     p.EventType,
		aggregateType: p.AggregateType,
		aggregateID:   p.AggregateID,
		tenantID:      p.TenantID,
		recipients:    p.Recipients,
		payload:       p.Payload,
		status:        p.Status,
		attempts:      p.Attempts,
		nextAttemptAt: p.NextAttemptAt,
		lastError:     p.LastError,
		createdAt:     p.CreatedAt,
		sentAt:        p.SentAt,
	}
}

func (e *OutboxEntry) ID() uint                { return e.id }
func (e *OutboxEntry) EventID() string         { return e.eventID }
func (e *OutboxEntry) EventType() string       { return e.eventType }
func (e *OutboxEntry) AggregateType() string   { return e.aggregateType }
func (e *OutboxEntry) AggregateID() string     { return e.aggregateID }
func (e *OutboxEntry) TenantID() uint          { return e.tenantID }
func (e *OutboxEntry) Recipients() []uint      { return e.recipients }
func (e *OutboxEntry) Payload() map[string]any { return e.payload }
func (e *OutboxEntry) Status() OutboxStatus    { return e.status }
func (e *OutboxEntry) Attempts() int           { return e.attempts }
func (e *OutboxEntry) NextAttemptAt() time.Time {
	return e.nextAttemptAt
}
func (e *OutboxEntry) LastError() string    { return e.lastError }
func (e *OutboxEntry) CreatedAt() time.Time { return e.createdAt }
func (e *OutboxEntry) SentAt() *time.Time   { return e.sentAt }

func (e *OutboxEntry) SetID(id uint) {
	if e.id == 0 {
		e.id = id
	}
}

// Event converts the entry into the descriptor handed to dispatchers.
func (e *OutboxEntry) Event() Event {
	occurred := e.createdAt
	if v, ok := e.payload["occurred_at"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			occurred = t
		}
	}
	return Event{
		EventID:       e.eventID,
		Type:          e.eventType,
		TenantID:      e.tenantID,
		AggregateType: e.aggregateType,
		AggregateID:   e.aggregateID,
		Recipients:    e.recipients,
		Data:          e.payload,
		OccurredAt:    occurred,
	}
}

func (e *OutboxEntry) MarkSent(now time.Time) {
	sent := now
	e.status = OutboxSent
	e.attempts++
	e.lastError = ""
	e.sentAt = &sent
}

// MarkAttemptFailed records a failed delivery. Once maxAttempts is reached the
// entry is parked as failed; otherwise it is retried at nextAttemptAt.
func (e *OutboxEntry) MarkAttemptFailed(cause error, nextAttemptAt time.Time, maxAttempts int) {
	e.attempts++
	msg := cause.Error()
	if len(msg) > maxErrorLength {
		msg = msg[:maxErrorLength]
	}
	e.lastError = msg
	if maxAttempts > 0 && e.attempts >= maxAttempts {
		e.status = OutboxFailed
		return
	}
	e.nextAttemptAt = nextAttemptAt
}
