package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/events"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/subscription"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

// ActivateFromPaymentUseCase credits a paid period. It runs inside the
// payment's transaction and never opens its own.
type ActivateFromPaymentUseCase struct {
	repo      subscription.SubscriptionRepository
	policy    subscription.Policy
	publisher events.Publisher
	access    *AccessResolver
	metrics   TransitionMetrics
	logger    logger.Interface
}

func NewActivateFromPaymentUseCase(
	repo subscription.SubscriptionRepository,
	policy subscription.Policy,
	publisher events.Publisher,
	access *AccessResolver,
	metrics TransitionMetrics,
	logger logger.Interface,
) *ActivateFromPaymentUseCase {
	return &ActivateFromPaymentUseCase{
		repo:      repo,
		policy:    policy,
		publisher: publisher,
		access:    access,
		metrics:   metrics,
		logger:    logger,
	}
}

func (uc *ActivateFromPaymentUseCase) ActivateFromPayment(ctx context.Context, subscriptionID uint, paidAt time.Time) error {
	sub, err := uc.repo.GetByIDForUpdate(ctx, subscriptionID)
	if err != nil {
		return fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub == nil {
		return errors.NewNotFoundError("subscription not found")
	}

	from := sub.Status()
	if err := sub.ActivateFromPayment(uc.policy, paidAt); err != nil {
		return err
	}
	if err := uc.repo.Update(ctx, sub); err != nil {
		return err
	}
	if err := uc.publisher.Publish(ctx, sub.PullEvents()...); err != nil {
		return fmt.Errorf("failed to write outbox: %w", err)
	}

	if uc.metrics != nil && from != sub.Status() {
		uc.metrics.SubscriptionTransitioned(sub.Status().String())
	}
	uc.logger.Infow("subscription credited from payment",
		"subscription_sid", sub.SID(),
		"from", from,
		"to", sub.Status(),
		"period_end", sub.CurrentPeriodEnd())
	return nil
}

func (uc *ActivateFromPaymentUseCase) InvalidateAccess(ctx context.Context, tenantID uint) {
	if uc.access != nil {
		uc.access.Invalidate(ctx, tenantID)
	}
}
