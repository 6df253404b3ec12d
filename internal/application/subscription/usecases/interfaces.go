package usecases

import (
	"context"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/subscription/dto"
)

type StartTrialExecutor interface {
	Execute(ctx context.Context, cmd StartTrialCommand) (*dto.SubscriptionDTO, error)
}

type GetSubscriptionExecutor interface {
	Execute(ctx context.Context, query GetSubscriptionQuery) (*dto.SubscriptionDTO, error)
}

type RunDailyCheckExecutor interface {
	Execute(ctx context.Context, cmd RunDailyCheckCommand) (*DailyCheckResult, error)
}

type SuspendSubscriptionExecutor interface {
	Execute(ctx context.Context, cmd SuspendSubscriptionCommand) (*dto.SubscriptionDTO, error)
}

type ReinstateSubscriptionExecutor interface {
	Execute(ctx context.Context, cmd ReinstateSubscriptionCommand) (*dto.SubscriptionDTO, error)
}

type CancelSubscriptionExecutor interface {
	Execute(ctx context.Context, cmd CancelSubscriptionCommand) (*dto.SubscriptionDTO, error)
}
