package usecases

import (
	"context"
	"fmt"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/subscription/dto"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/events"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/subscription"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/biztime"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/db"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/id"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

type StartTrialCommand struct {
	Actor authorization.Actor
	Plan  string
}

type StartTrialUseCase struct {
	tx        db.Transactor
	repo      subscription.SubscriptionRepository
	policy    subscription.Policy
	publisher events.Publisher
	access    *AccessResolver
	logger    logger.Interface
}

func NewStartTrialUseCase(
	tx db.Transactor,
	repo subscription.SubscriptionRepository,
	policy subscription.Policy,
	publisher events.Publisher,
	access *AccessResolver,
	logger logger.Interface,
) *StartTrialUseCase {
	return &StartTrialUseCase{
		tx:        tx,
		repo:      repo,
		policy:    policy,
		publisher: publisher,
		access:    access,
		logger:    logger,
	}
}

func (uc *StartTrialUseCase) Execute(ctx context.Context, cmd StartTrialCommand) (*dto.SubscriptionDTO, error) {
	if !cmd.Actor.Role.IsBillingAdmin() {
		return nil, errors.NewForbiddenError("only billing admins can start a trial")
	}

	sub, err := subscription.NewTrial(cmd.Actor.TenantID, cmd.Plan, uc.policy, biztime.NowUTC())
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	err = uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := uc.repo.GetByTenant(ctx, cmd.Actor.TenantID)
		if err != nil {
			return fmt.Errorf("failed to load subscription: %w", err)
		}
		if existing != nil {
			return errors.NewConflictError("tenant already has a subscription")
		}
		sid, err := id.New(id.PrefixSubscription)
		if err != nil {
			return err
		}
		if err := sub.SetSID(sid); err != nil {
			return err
		}
		if err := uc.repo.Create(ctx, sub); err != nil {
			if errors.IsDuplicateError(err) {
				return errors.NewConflictError("tenant already has a subscription")
			}
			return fmt.Errorf("failed to create subscription: %w", err)
		}
		sub.RecordTrialStarted()
		return uc.publisher.Publish(ctx, sub.PullEvents()...)
	})
	if err != nil {
		uc.logger.Warnw("trial start rejected", "tenant_id", cmd.Actor.TenantID, "error", err)
		return nil, asAppError(err, "failed to start trial")
	}

	if uc.access != nil {
		uc.access.Invalidate(ctx, sub.TenantID())
	}
	uc.logger.Infow("trial started", "subscription_sid", sub.SID(), "tenant_id", sub.TenantID(), "trial_ends_at", sub.TrialEndsAt())
	return dto.ToSubscriptionDTO(sub), nil
}

func asAppError(err error, msg string) error {
	if errors.IsAppError(err) {
		return err
	}
	return errors.NewInternalError(msg)
}
