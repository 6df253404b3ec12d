package mappers

import (
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/subscription"
	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/subscription/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/persistence/models"
)

func SubscriptionToModel(s *subscription.Subscription) *models.SubscriptionModel {
	return &models.SubscriptionModel{
		ID:                 s.ID(),
		SID:                s.SID(),
		TenantID:           s.TenantID(),
		Plan:               s.Plan(),
		Status:             s.Status().String(),
		CurrentPeriodStart: toMilli(s.CurrentPeriodStart()),
		CurrentPeriodEnd:   toMilli(s.CurrentPeriodEnd()),
		GracePeriodEnd:     toMilliPtr(s.GracePeriodEnd()),
		TrialEndsAt:        toMilliPtr(s.TrialEndsAt()),
		CancelledAt:        toMilliPtr(s.CancelledAt()),
		SuspendedReason:    s.SuspendedReason(),
		Version:            s.Version(),
		CreatedAt:          toMilli(s.CreatedAt()),
		UpdatedAt:          toMilli(s.UpdatedAt()),
	}
}

func SubscriptionToDomain(model *models.SubscriptionModel) (*subscription.Subscription, error) {
	if model == nil {
		return nil, nil
	}
	return subscription.ReconstructSubscription(subscription.ReconstructParams{
		ID:                 model.ID,
		SID:                model.SID,
		TenantID:           model.TenantID,
		Plan:               model.Plan,
		Status:             vo.SubscriptionStatus(model.Status),
		CurrentPeriodStart: fromMilli(model.CurrentPeriodStart),
		CurrentPeriodEnd:   fromMilli(model.CurrentPeriodEnd),
		GracePeriodEnd:     fromMilliPtr(model.GracePeriodEnd),
		TrialEndsAt:        fromMilliPtr(model.TrialEndsAt),
		CancelledAt:        fromMilliPtr(model.CancelledAt),
		SuspendedReason:    model.SuspendedReason,
		Version:            model.Version,
		CreatedAt:          fromMilli(model.CreatedAt),
		UpdatedAt:          fromMilli(model.UpdatedAt),
	})
}
