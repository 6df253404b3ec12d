package usecases

import (
	"context"
	"time"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/events"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/subscription"
	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/subscription/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/biztime"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/db"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

const dailyCheckPageSize = 200

// TransitionMetrics counts subscription status changes by target status.
type TransitionMetrics interface {
	SubscriptionTransitioned(to string)
}

type RunDailyCheckCommand struct {
	// Now overrides the clock; zero means the current time.
	Now time.Time
}

type DailyCheckResult struct {
	Scanned    int `json:"scanned"`
	ToGrace    int `json:"to_grace"`
	ToReadOnly int `json:"to_read_only"`
}

// RunDailyCheckUseCase moves lapsed subscriptions one step down the
// degradation path. Every write is conditional on the status and version it
// read, so overlapping runs cannot double-apply a step and a renewal that
// commits in between is never overwritten.
type RunDailyCheckUseCase struct {
	tx        db.Transactor
	repo      subscription.SubscriptionRepository
	policy    subscription.Policy
	publisher events.Publisher
	access    *AccessResolver
	metrics   TransitionMetrics
	logger    logger.Interface
}

func NewRunDailyCheckUseCase(
	tx db.Transactor,
	repo subscription.SubscriptionRepository,
	policy subscription.Policy,
	publisher events.Publisher,
	access *AccessResolver,
	metrics TransitionMetrics,
	logger logger.Interface,
) *RunDailyCheckUseCase {
	return &RunDailyCheckUseCase{
		tx:        tx,
		repo:      repo,
		policy:    policy,
		publisher: publisher,
		access:    access,
		metrics:   metrics,
		logger:    logger,
	}
}

func (uc *RunDailyCheckUseCase) Execute(ctx context.Context, cmd RunDailyCheckCommand) (*DailyCheckResult, error) {
	now := cmd.Now
	if now.IsZero() {
		now = biztime.NowUTC()
	}
	uc.logger.Infow("running subscription daily check", "now", now)

	result := &DailyCheckResult{}
	var afterID uint
	for {
		due, err := uc.repo.ListDue(ctx, now, afterID, dailyCheckPageSize)
		if err != nil {
			uc.logger.Errorw("failed to list due subscriptions", "error", err)
			return nil, err
		}
		for _, sub := range due {
			afterID = sub.ID()
			result.Scanned++
			to, err := uc.degrade(ctx, sub, now)
			if err != nil {
				uc.logger.Errorw("failed to degrade subscription", "subscription_sid", sub.SID(), "error", err)
				continue
			}
			switch to {
			case vo.StatusGrace:
				result.ToGrace++
			case vo.StatusReadOnly:
				result.ToReadOnly++
			}
		}
		if len(due) < dailyCheckPageSize {
			break
		}
	}

	uc.logger.Infow("subscription daily check finished",
		"scanned", result.Scanned,
		"to_grace", result.ToGrace,
		"to_read_only", result.ToReadOnly)
	return result, nil
}

// degrade returns the new status, or "" when nothing changed.
func (uc *RunDailyCheckUseCase) degrade(ctx context.Context, sub *subscription.Subscription, now time.Time) (vo.SubscriptionStatus, error) {
	from, readVersion := sub.Status(), sub.Version()
	if !sub.Degrade(uc.policy, now) {
		return "", nil
	}

	applied := false
	err := uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		ok, err := uc.repo.UpdateIfUnchanged(ctx, sub, from, readVersion)
		if err != nil || !ok {
			return err
		}
		applied = true
		return uc.publisher.Publish(ctx, sub.PullEvents()...)
	})
	if err != nil || !applied {
		return "", err
	}

	if uc.access != nil {
		uc.access.Invalidate(ctx, sub.TenantID())
	}
	if uc.metrics != nil {
		uc.metrics.SubscriptionTransitioned(sub.Status().String())
	}
	uc.logger.Infow("subscription degraded", "subscription_sid", sub.SID(), "from", from, "to", sub.Status())
	return sub.Status(), nil
}
