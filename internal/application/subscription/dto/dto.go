package dto

import (
	"time"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/subscription"
)

type SubscriptionDTO struct {
	ID                 string     `json:"id"`
	Plan               string     `json:"plan"`
	Status             string     `json:"status"`
	AccessLevel        string     `json:"access_level"`
	CurrentPeriodStart time.Time  `json:"current_period_start"`
	CurrentPeriodEnd   time.Time  `json:"current_period_end"`
	GracePeriodEnd     *time.Time `json:"grace_period_end,omitempty"`
	TrialEndsAt        *time.Time `json:"trial_ends_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	SuspendedReason    string     `json:"suspended_reason,omitempty"`
}

func ToSubscriptionDTO(s *subscription.Subscription) *SubscriptionDTO {
	if s == nil {
		return nil
	}
	return &SubscriptionDTO{
		ID:                 s.SID(),
		Plan:               s.Plan(),
		Status:             s.Status().String(),
		AccessLevel:        string(s.AccessLevel()),
		CurrentPeriodStart: s.CurrentPeriodStart(),
		CurrentPeriodEnd:   s.CurrentPeriodEnd(),
		GracePeriodEnd:     s.GracePeriodEnd(),
		TrialEndsAt:        s.TrialEndsAt(),
		CancelledAt:        s.CancelledAt(),
		SuspendedReason:    s.SuspendedReason(),
	}
}
