package usecases

import (
	"context"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/subscription/dto"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/subscription"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

// GetSubscriptionQuery reads the actor's own tenant subscription. Super admins
// may name any tenant.
type GetSubscriptionQuery struct {
	Actor    authorization.Actor
	TenantID uint
}

type GetSubscriptionUseCase struct {
	repo   subscription.SubscriptionRepository
	logger logger.Interface
}

func NewGetSubscriptionUseCase(repo subscription.SubscriptionRepository, logger logger.Interface) *GetSubscriptionUseCase {
	return &GetSubscriptionUseCase{repo: repo, logger: logger}
}

func (uc *GetSubscriptionUseCase) Execute(ctx context.Context, query GetSubscriptionQuery) (*dto.SubscriptionDTO, error) {
	tenantID := query.Actor.TenantID
	if query.TenantID != 0 && query.TenantID != tenantID {
		if query.Actor.Role != authorization.RoleSuperAdmin {
			return nil, errors.NewNotFoundError("subscription not found")
		}
		tenantID = query.TenantID
	}
	if !query.Actor.Role.IsBillingAdmin() {
		return nil, errors.NewForbiddenError("only billing admins can view the subscription")
	}

	sub, err := uc.repo.GetByTenant(ctx, tenantID)
	if err != nil {
		uc.logger.Errorw("failed to load subscription", "tenant_id", tenantID, "error", err)
		return nil, errors.NewInternalError("failed to load subscription")
	}
	if sub == nil {
		return nil, errors.NewNotFoundError("subscription not found")
	}
	return dto.ToSubscriptionDTO(sub), nil
}
