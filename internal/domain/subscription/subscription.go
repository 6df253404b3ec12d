package subscription

import (
	"fmt"
	"strings"
	"time"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/events"
	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/subscription/valueobjects"
)

// Policy holds the billing durations, in days.
type Policy struct {
	TrialDays  int
	PeriodDays int
	GraceDays  int
}

func (p Policy) days(n int) time.Duration {
	return time.Duration(n) * 24 * time.Hour
}

// Subscription is a tenant's billing state. It only changes through the
// methods below; request handlers never edit it directly.
type Subscription struct {
	events.Recorder

	id                 uint
	sid                string
	tenantID           uint
	plan               string
	status             vo.SubscriptionStatus
	currentPeriodStart time.Time
	currentPeriodEnd   time.Time
	gracePeriodEnd     *time.Time
	trialEndsAt        *time.Time
	cancelledAt        *time.Time
	suspendedReason    string
	version            int
	createdAt          time.Time
	updatedAt          time.Time
}

// NewTrial starts a tenant on a trial of policy.TrialDays.
func NewTrial(tenantID uint, plan string, policy Policy, now time.Time) (*Subscription, error) {
	if tenantID == 0 {
		return nil, fmt.Errorf("tenant ID is required")
	}
	plan = strings.TrimSpace(plan)
	if plan == "" {
		return nil, fmt.Errorf("plan is required")
	}
	if policy.TrialDays < 0 {
		return nil, fmt.Errorf("trial days cannot be negative")
	}
	end := now.Add(policy.days(policy.TrialDays))
	s := &Subscription{
		tenantID:           tenantID,
		plan:               plan,
		status:             vo.StatusTrial,
		currentPeriodStart: now,
		currentPeriodEnd:   end,
		trialEndsAt:        &end,
		version:            1,
		createdAt:          now,
		updatedAt:          now,
	}
	return s, nil
}

type ReconstructParams struct {
	ID                 uint
	SID                string
	TenantID           uint
	Plan               string
	Status             vo.SubscriptionStatus
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	GracePeriodEnd     *time.Time
	TrialEndsAt        *time.Time
	CancelledAt        *time.Time
	SuspendedReason    string
	Version            int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func ReconstructSubscription(p ReconstructParams) (*Subscription, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid subscription status: %s", p.Status)
	}
	return &Subscription{
		id:                 p.ID,
		sid:                p.SID,
		tenantID:           p.TenantID,
		plan:               p.Plan,
		status:             p.Status,
		currentPeriodStart: p.CurrentPeriodStart,
		currentPeriodEnd:   p.CurrentPeriodEnd,
		gracePeriodEnd:     p.GracePeriodEnd,
		trialEndsAt:        p.TrialEndsAt,
		cancelledAt:        p.CancelledAt,
		suspendedReason:    p.SuspendedReason,
		version:            p.Version,
		createdAt:          p.CreatedAt,
		updatedAt:          p.UpdatedAt,
	}, nil
}

func (s *Subscription) ID() uint                      { return s.id }
func (s *Subscription) SID() string                   { return s.sid }
func (s *Subscription) TenantID() uint                { return s.tenantID }
func (s *Subscription) Plan() string                  { return s.plan }
func (s *Subscription) Status() vo.SubscriptionStatus { return s.status }
func (s *Subscription) CurrentPeriodStart() time.Time { return s.currentPeriodStart }
func (s *Subscription) CurrentPeriodEnd() time.Time   { return s.currentPeriodEnd }
func (s *Subscription) GracePeriodEnd() *time.Time    { return s.gracePeriodEnd }
func (s *Subscription) TrialEndsAt() *time.Time       { return s.trialEndsAt }
func (s *Subscription) CancelledAt() *time.Time       { return s.cancelledAt }
func (s *Subscription) SuspendedReason() string       { return s.suspendedReason }
func (s *Subscription) Version() int                  { return s.version }
func (s *Subscription) CreatedAt() time.Time          { return s.createdAt }
func (s *Subscription) UpdatedAt() time.Time          { return s.updatedAt }

func (s *Subscription) AccessLevel() vo.AccessLevel {
	return s.status.AccessLevel()
}

func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.id = id
	return nil
}

func (s *Subscription) SetSID(sid string) error {
	if s.sid != "" {
		return fmt.Errorf("subscription SID is already set")
	}
	s.sid = sid
	return nil
}

// deadline is when a TRIAL or ACTIVE subscription stops being paid for.
func (s *Subscription) deadline() time.Time {
	if s.status == vo.StatusTrial && s.trialEndsAt != nil {
		return *s.trialEndsAt
	}
	return s.currentPeriodEnd
}

// Degrade applies at most one step of the daily degradation path and reports
// whether anything changed. Running it again on the same day is a no-op
// because the grace deadline starts at the moment of entering GRACE.
func (s *Subscription) Degrade(policy Policy, now time.Time) bool {
	switch s.status {
	case vo.StatusTrial, vo.StatusActive:
		if !now.After(s.deadline()) {
			return false
		}
		from := s.status
		graceEnd := now.Add(policy.days(policy.GraceDays))
		s.status = vo.StatusGrace
		s.gracePeriodEnd = &graceEnd
		s.touch(now)
		s.Record(newStatusEvent(s, EventGraceStarted, from, now))
		return true
	case vo.StatusGrace:
		if s.gracePeriodEnd == nil || !now.After(*s.gracePeriodEnd) {
			return false
		}
		s.status = vo.StatusReadOnly
		s.touch(now)
		s.Record(newStatusEvent(s, EventReadOnly, vo.StatusGrace, now))
		return true
	}
	return false
}

// ActivateFromPayment credits one paid period. The new period starts at the
// later of paidAt and the current period end; an unused trial is not carried
// over. A suspended subscription is
// credited but stays suspended until an admin reinstates it.
func (s *Subscription) ActivateFromPayment(policy Policy, paidAt time.Time) error {
	if s.status == vo.StatusCancelled {
		return ErrNotRenewable
	}
	if policy.PeriodDays <= 0 {
		return fmt.Errorf("period days must be positive")
	}
	start := paidAt
	if s.currentPeriodEnd.After(start) && s.status != vo.StatusTrial {
		start = s.currentPeriodEnd
	}
	from := s.status
	s.currentPeriodStart = start
	s.currentPeriodEnd = start.Add(policy.days(policy.PeriodDays))
	s.gracePeriodEnd = nil
	if s.status != vo.StatusSuspended {
		s.status = vo.StatusActive
	}
	s.touch(paidAt)
	s.Record(newStatusEvent(s, EventActivated, from, paidAt))
	return nil
}

func (s *Subscription) Suspend(reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return fmt.Errorf("suspension reason is required")
	}
	if s.status == vo.StatusSuspended || s.status == vo.StatusCancelled {
		return errInvalidTransition(string(s.status), string(vo.StatusSuspended))
	}
	from := s.status
	s.status = vo.StatusSuspended
	s.suspendedReason = reason
	s.touch(now)
	s.Record(newStatusEvent(s, EventSuspended, from, now))
	return nil
}

// Reinstate lifts a suspension. A subscription whose period has lapsed in the
// meantime degrades again on the next daily check.
func (s *Subscription) Reinstate(now time.Time) error {
	if s.status != vo.StatusSuspended {
		return errInvalidTransition(string(s.status), string(vo.StatusActive))
	}
	s.status = vo.StatusActive
	s.suspendedReason = ""
	s.touch(now)
	s.Record(newStatusEvent(s, EventReinstated, vo.StatusSuspended, now))
	return nil
}

func (s *Subscription) Cancel(now time.Time) error {
	if s.status == vo.StatusCancelled {
		return errInvalidTransition(string(s.status), string(vo.StatusCancelled))
	}
	from := s.status
	cancelled := now
	s.status = vo.StatusCancelled
	s.cancelledAt = &cancelled
	s.touch(now)
	s.Record(newStatusEvent(s, EventCancelled, from, now))
	return nil
}

func (s *Subscription) touch(now time.Time) {
	s.updatedAt = now
	s.version++
}
