package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/subscription/dto"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/events"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/subscription"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/biztime"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/db"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

// AdminActionDeps is shared by the platform-operator operations.
type AdminActionDeps struct {
	Tx        db.Transactor
	Repo      subscription.SubscriptionRepository
	Publisher events.Publisher
	Access    *AccessResolver
	Metrics   TransitionMetrics
	Logger    logger.Interface
}

type adminAction struct {
	AdminActionDeps
}

func (a adminAction) apply(ctx context.Context, actor authorization.Actor, sid, op string, fn func(*subscription.Subscription, time.Time) error) (*dto.SubscriptionDTO, error) {
	if actor.Role != authorization.RoleSuperAdmin {
		return nil, errors.NewForbiddenError("only platform admins can change subscriptions")
	}
	if sid == "" {
		return nil, errors.NewValidationError("subscription ID is required")
	}

	var result *subscription.Subscription
	err := a.Tx.RunInTransaction(ctx, func(ctx context.Context) error {
		sub, err := a.Repo.GetBySID(ctx, sid)
		if err != nil {
			return fmt.Errorf("failed to load subscription: %w", err)
		}
		if sub == nil {
			return errors.NewNotFoundError("subscription not found")
		}
		locked, err := a.Repo.GetByIDForUpdate(ctx, sub.ID())
		if err != nil {
			return fmt.Errorf("failed to lock subscription: %w", err)
		}
		if locked == nil {
			return errors.NewNotFoundError("subscription not found")
		}
		if err := fn(locked, biztime.NowUTC()); err != nil {
			return err
		}
		if err := a.Repo.Update(ctx, locked); err != nil {
			return err
		}
		if err := a.Publisher.Publish(ctx, locked.PullEvents()...); err != nil {
			return fmt.Errorf("failed to write outbox: %w", err)
		}
		result = locked
		return nil
	})
	if err != nil {
		a.Logger.Warnw("subscription operation failed", "operation", op, "subscription_sid", sid, "error", err)
		return nil, asAppError(err, "failed to update subscription")
	}

	if a.Access != nil {
		a.Access.Invalidate(ctx, result.TenantID())
	}
	if a.Metrics != nil {
		a.Metrics.SubscriptionTransitioned(result.Status().String())
	}
	a.Logger.Infow("subscription updated", "operation", op, "subscription_sid", sid, "status", result.Status(), "user_id", actor.UserID)
	return dto.ToSubscriptionDTO(result), nil
}

type SuspendSubscriptionCommand struct {
	Actor  authorization.Actor
	SID    string
	Reason string
}

type SuspendSubscriptionUseCase struct{ adminAction }

func NewSuspendSubscriptionUseCase(deps AdminActionDeps) *SuspendSubscriptionUseCase {
	return &SuspendSubscriptionUseCase{adminAction{deps}}
}

func (uc *SuspendSubscriptionUseCase) Execute(ctx context.Context, cmd SuspendSubscriptionCommand) (*dto.SubscriptionDTO, error) {
	reason := strings.TrimSpace(cmd.Reason)
	if reason == "" {
		return nil, errors.NewValidationError("suspension reason is required")
	}
	return uc.apply(ctx, cmd.Actor, cmd.SID, "suspend", func(s *subscription.Subscription, now time.Time) error {
		return s.Suspend(reason, now)
	})
}

type ReinstateSubscriptionCommand struct {
	Actor authorization.Actor
	SID   string
}

type ReinstateSubscriptionUseCase struct{ adminAction }

func NewReinstateSubscriptionUseCase(deps AdminActionDeps) *ReinstateSubscriptionUseCase {
	return &ReinstateSubscriptionUseCase{adminAction{deps}}
}

func (uc *ReinstateSubscriptionUseCase) Execute(ctx context.Context, cmd ReinstateSubscriptionCommand) (*dto.SubscriptionDTO, error) {
	return uc.apply(ctx, cmd.Actor, cmd.SID, "reinstate", func(s *subscription.Subscription, now time.Time) error {
		return s.Reinstate(now)
	})
}

type CancelSubscriptionCommand struct {
	Actor authorization.Actor
	SID   string
}

type CancelSubscriptionUseCase struct{ adminAction }

func NewCancelSubscriptionUseCase(deps AdminActionDeps) *CancelSubscriptionUseCase {
	return &CancelSubscriptionUseCase{adminAction{deps}}
}

func (uc *CancelSubscriptionUseCase) Execute(ctx context.Context, cmd CancelSubscriptionCommand) (*dto.SubscriptionDTO, error) {
	return uc.apply(ctx, cmd.Actor, cmd.SID, "cancel", func(s *subscription.Subscription, now time.Time) error {
		return s.Cancel(now)
	})
}
