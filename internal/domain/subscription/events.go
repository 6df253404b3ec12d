package subscription

import (
	"time"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/events"
	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/subscription/valueobjects"
)

const AggregateType = "subscription"

const (
	EventTrialStarted = "subscription.trial_started"
	EventGraceStarted = "subscription.grace_started"
	EventReadOnly     = "subscription.read_only"
	EventActivated    = "subscription.activated"
	EventSuspended    = "subscription.suspended"
	EventReinstated   = "subscription.reinstated"
	EventCancelled    = "subscription.cancelled"
)

// StatusEvent is addressed to the tenant's billing admins.
type StatusEvent struct {
	events.BaseEvent
	From             string     `json:"from,omitempty"`
	To               string     `json:"to"`
	CurrentPeriodEnd time.Time  `json:"current_period_end"`
	GracePeriodEnd   *time.Time `json:"grace_period_end,omitempty"`
}

func newStatusEvent(s *Subscription, eventType string, from vo.SubscriptionStatus, at time.Time) StatusEvent {
	return StatusEvent{
		BaseEvent:        events.NewBaseEvent(AggregateType, s.sid, eventType, s.tenantID, at),
		From:             string(from),
		To:               string(s.status),
		CurrentPeriodEnd: s.currentPeriodEnd,
		GracePeriodEnd:   s.gracePeriodEnd,
	}
}

// RecordTrialStarted is called once the subscription has its SID.
func (s *Subscription) RecordTrialStarted() {
	s.Record(newStatusEvent(s, EventTrialStarted, "", s.createdAt))
}
